package runtime

import (
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"raytag/internal/version"
)

// CI environment variables read by LoadContext.
const (
	EnvBranch      = "BUILDKITE_BRANCH"
	EnvCommit      = "BUILDKITE_COMMIT"
	EnvPipelineID  = "BUILDKITE_PIPELINE_ID"
	EnvBuildURL    = "BUILDKITE_BUILD_URL"
	EnvCheckoutDir = "RAYCI_CHECKOUT_DIR"
	EnvBuildID     = "RAYCI_BUILD_ID"
)

// Signal sources recorded on the Context.
const (
	SourceEnv = "env"
	SourceGit = "git"
)

// Context captures the CI state for one raytag invocation.
// It is built once by LoadContext and never mutated afterwards.
type Context struct {
	Signals version.Signals

	CheckoutDir string
	BuildID     string
	PipelineID  string
	BuildURL    string

	// Where the branch/commit came from: SourceEnv or SourceGit.
	Source string
}

// Options controls how LoadContext reads its inputs.
type Options struct {
	Lookup LookupFunc       // defaults to OSLookup
	Now    func() time.Time // defaults to time.Now
	// GitDir enables reading branch and commit from a local checkout when
	// BUILDKITE_COMMIT is absent.
	GitDir string
}

// LoadContext constructs a Context from Buildkite/RayCI environment variables.
// A missing commit is fatal unless a git checkout is available to fall back to.
// A missing branch is not an error.
func LoadContext(opts Options) (Context, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = OSLookup
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	branch := lookup.get(EnvBranch)
	sha := lookup.get(EnvCommit)
	source := SourceEnv

	if sha == "" && opts.GitDir != "" {
		head, err := readGitHead(opts.GitDir)
		if err != nil {
			return Context{}, fmt.Errorf("%w: %s unset and git fallback failed: %v", ErrMissingSignal, EnvCommit, err)
		}
		log.WithField("dir", opts.GitDir).Debug("read branch and commit from git checkout")
		sha = head.SHA
		branch = firstNonEmpty(branch, head.Branch)
		source = SourceGit
	}

	signals := version.Signals{
		Branch:    branch,
		CommitSHA: sha,
		Now:       now(),
	}
	if err := signals.Validate(); err != nil {
		if errors.Is(err, version.ErrMissingCommit) {
			return Context{}, fmt.Errorf("%w: %s", ErrMissingSignal, EnvCommit)
		}
		return Context{}, fmt.Errorf("%w: %s: %v", ErrInvalidSignal, EnvCommit, err)
	}

	return Context{
		Signals:     signals,
		CheckoutDir: lookup.get(EnvCheckoutDir),
		BuildID:     lookup.get(EnvBuildID),
		PipelineID:  lookup.get(EnvPipelineID),
		BuildURL:    lookup.get(EnvBuildURL),
		Source:      source,
	}, nil
}

// Channel reports which publishing channel the branch builds into.
func (c Context) Channel() version.Channel {
	return version.ChannelFor(c.Signals.Branch)
}

// RequireCheckoutDir enforces the precondition of the build step: the
// build script runs from the RayCI checkout.
func (c Context) RequireCheckoutDir() error {
	if c.CheckoutDir == "" {
		return fmt.Errorf("%w: %s", ErrMissingSignal, EnvCheckoutDir)
	}
	return nil
}

// PrintSummary writes a scannable report of the resolved CI context.
func (c Context) PrintSummary(w io.Writer) {
	fmt.Fprintln(w, "CI Environment Summary")
	fmt.Fprintln(w, "----------------------")

	fmt.Fprintln(w, "Pipeline")
	fmt.Fprintf(w, "  Pipeline ID           : %s\n", formatOrNone(c.PipelineID))
	fmt.Fprintf(w, "  Build URL             : %s\n", formatOrNone(c.BuildURL))
	fmt.Fprintf(w, "  Build ID              : %s\n", formatOrNone(c.BuildID))
	fmt.Fprintf(w, "  Checkout Dir          : %s\n", formatOrNone(c.CheckoutDir))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Ref / Commit")
	fmt.Fprintf(w, "  Branch                : %s\n", formatOrNone(c.Signals.Branch))
	fmt.Fprintf(w, "  Commit SHA            : %s\n", c.Signals.CommitSHA)
	fmt.Fprintf(w, "  Commit Short SHA      : %s\n", c.Signals.ShortSHA())
	fmt.Fprintf(w, "  Date                  : %s\n", c.Signals.Date())
	fmt.Fprintf(w, "  Signal Source         : %s\n", c.Source)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Derived")
	fmt.Fprintf(w, "  Channel               : %s\n", c.Channel())
	fmt.Fprintf(w, "  Version Tags          : %v\n", version.DeriveTags(c.Signals))
}
