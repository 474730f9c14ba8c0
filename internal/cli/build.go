package cli

import (
	"raytag/internal/docker"
)

// BuildCmd represents 'raytag build'.
type BuildCmd struct {
	ImageFlags `embed:""`
	DryRun bool `name:"dry-run" help:"Print the build command instead of running it."`
}

func (c *BuildCmd) Run(env *Env) error {
	rc, err := env.LoadContext()
	if err != nil {
		return err
	}
	cfg, err := env.LoadConfig()
	if err != nil {
		return err
	}

	opts, err := docker.BuildOptionsFromContext(&rc, c.spec(), cfg)
	if err != nil {
		return err
	}
	opts.DryRun = c.DryRun

	return docker.BuildImage(env.Ctx, env.Executor, opts)
}
