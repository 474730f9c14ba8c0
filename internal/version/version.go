package version

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// MasterBranch is the branch whose builds are published as nightlies.
	MasterBranch = "master"
	// ReleasePrefix marks release branches, e.g. "releases/2.9.0".
	ReleasePrefix = "releases/"
	// NightlyTag is the rolling tag given to every master build.
	NightlyTag = "nightly"

	shortSHALen = 6
	dateLayout  = "2006-01-02"
)

var (
	ErrMissingCommit = errors.New("commit sha is not set")
	ErrInvalidCommit = errors.New("invalid commit sha")
)

var hexSHA = regexp.MustCompile(`^[0-9a-fA-F]+$`)

// Signals is the source-control state a set of version tags is derived from.
// Branch may be empty; CommitSHA may not.
type Signals struct {
	Branch    string
	CommitSHA string
	Now       time.Time
}

// Validate checks that the commit is present and at least six hex characters long.
func (s Signals) Validate() error {
	sha := strings.TrimSpace(s.CommitSHA)
	if sha == "" {
		return ErrMissingCommit
	}
	if len(sha) < shortSHALen {
		return fmt.Errorf("%w: %q is shorter than %d characters", ErrInvalidCommit, sha, shortSHALen)
	}
	if !hexSHA.MatchString(sha) {
		return fmt.Errorf("%w: %q is not hexadecimal", ErrInvalidCommit, sha)
	}
	return nil
}

// ShortSHA returns the first six characters of the commit.
func (s Signals) ShortSHA() string {
	sha := strings.TrimSpace(s.CommitSHA)
	if len(sha) < shortSHALen {
		return sha
	}
	return sha[:shortSHALen]
}

// Date returns the signal date as YYYY-MM-DD.
func (s Signals) Date() string {
	return s.Now.Format(dateLayout)
}

// ReleaseName returns the part of a release branch after "releases/".
func ReleaseName(branch string) (string, bool) {
	if !strings.HasPrefix(branch, ReleasePrefix) {
		return "", false
	}
	return strings.TrimPrefix(branch, ReleasePrefix), true
}

// DeriveTags returns the version components for the given signals. The
// first element is the canonical one.
//
//   - master     → <shortsha>, nightly
//   - releases/X → X.<shortsha>, X.<date>
//   - anything else (or no branch) → <shortsha>
func DeriveTags(s Signals) []string {
	sha := s.ShortSHA()
	switch ChannelFor(s.Branch) {
	case ChannelNightly:
		return []string{sha, NightlyTag}
	case ChannelRelease:
		name, _ := ReleaseName(s.Branch)
		return []string{
			fmt.Sprintf("%s.%s", name, sha),
			fmt.Sprintf("%s.%s", name, s.Date()),
		}
	default:
		return []string{sha}
	}
}
