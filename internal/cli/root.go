package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"raytag/internal/config"
	"raytag/internal/docker"
	"raytag/internal/runtime"
)

const defaultEnvFile = ".env"

// Dependencies are the process-level collaborators of a CLI run. Zero
// values fall back to the real process environment.
type Dependencies struct {
	Out      io.Writer
	ErrOut   io.Writer
	Lookup   runtime.LookupFunc
	Now      func() time.Time
	Executor docker.Executor
}

// CLI is the command-line interface parsed by kong.
type CLI struct {
	Config   string `short:"c" help:"Path to a YAML config file." type:"path" placeholder:"PATH"`
	EnvFile  string `name:"env-file" help:"Path to a .env file with CI variable overrides." placeholder:"PATH"`
	GitDir   string `name:"git-dir" help:"Read branch and commit from this git checkout when BUILDKITE_COMMIT is unset." placeholder:"DIR"`
	Registry string `help:"Override the registry images are published under."`
	Debug    bool   `short:"d" help:"Enable debug output."`
	Quiet    bool   `short:"q" help:"Only log warnings and errors."`

	Tags    TagsCmd    `cmd:"" help:"Print the tags an image is published under."`
	Build   BuildCmd   `cmd:"" help:"Compute tags and run the image build script."`
	Summary SummaryCmd `cmd:"" help:"Print the resolved CI context."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// ImageFlags identify the image being tagged.
type ImageFlags struct {
	Python    string `name:"python" required:"" help:"Python version, e.g. py38."`
	Platform  string `name:"platform" required:"" help:"Platform, e.g. cpu or cu118."`
	ImageType string `name:"image-type" default:"ray" help:"Image type, e.g. ray or ray-ml."`
}

func (f ImageFlags) spec() docker.ImageSpec {
	return docker.ImageSpec{
		PythonVersion: f.Python,
		Platform:      f.Platform,
		ImageType:     f.ImageType,
	}
}

// Env is bound into every command's Run method.
type Env struct {
	Out      io.Writer
	Lookup   runtime.LookupFunc
	Now      func() time.Time
	Executor docker.Executor
	Ctx      context.Context

	cli *CLI
}

// LoadContext reads the CI signals.
func (e *Env) LoadContext() (runtime.Context, error) {
	return runtime.LoadContext(runtime.Options{
		Lookup: e.Lookup,
		Now:    e.Now,
		GitDir: e.cli.GitDir,
	})
}

// LoadConfig layers defaults, --config, RAYTAG_* and --registry.
func (e *Env) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(e.cli.Config, e.Lookup)
	if err != nil {
		return nil, err
	}
	if e.cli.Registry != "" {
		cfg.Registry = e.cli.Registry
	}
	return cfg, nil
}

// Run parses args, loads .env overrides, configures logging and runs the
// selected command. It returns the process exit code.
func Run(ctx context.Context, args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := deps.ErrOut
	if errOut == nil {
		errOut = os.Stderr
	}
	lookup := deps.Lookup
	if lookup == nil {
		lookup = runtime.OSLookup
	}

	exitCode := -1
	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("raytag"),
		kong.Description("Compute Ray container image tags and run the image build."),
		kong.Writers(out, errOut),
		kong.UsageOnError(),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		// --help and friends
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(errOut, "raytag: %v\n", err)
		return 1
	}

	configureLogger(errOut, cli.Debug, cli.Quiet)

	fileEnv, err := readEnvFile(cli.EnvFile)
	if err != nil {
		log.WithError(err).Warn("failed to load env file")
	}
	if fileEnv != nil {
		// process environment wins over the file, like godotenv.Load
		lookup = runtime.Overlay(lookup, runtime.MapLookup(fileEnv))
	}

	executor := deps.Executor
	if executor == nil {
		executor = docker.ScriptExecutor{Stdout: out, Stderr: errOut}
	}

	env := &Env{
		Out:      out,
		Lookup:   lookup,
		Now:      deps.Now,
		Executor: executor,
		Ctx:      ctx,
		cli:      &cli,
	}
	if err := kctx.Run(env); err != nil {
		log.WithError(err).Error(kctx.Command() + " failed")
		return 1
	}
	return 0
}

// readEnvFile reads path, or ./.env when path is empty and the file exists.
func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return nil, nil
		}
		path = defaultEnvFile
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vars, nil
}

func configureLogger(w io.Writer, debug, quiet bool) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	switch {
	case debug:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
