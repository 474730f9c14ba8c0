// internal/docker/build.go
package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"raytag/internal/executil"
)

// Executor performs the build described by opts. The build itself (image
// assembly, registry auth, pushes) lives in the build script.
type Executor interface {
	Execute(ctx context.Context, opts *BuildOptions) error
}

// ScriptExecutor runs the build script command line under bash in opts.Dir,
// with opts.Env added to the process environment.
type ScriptExecutor struct {
	Stdout io.Writer // defaults to os.Stdout
	Stderr io.Writer // defaults to os.Stderr
}

func (e ScriptExecutor) Execute(ctx context.Context, opts *BuildOptions) error {
	stdout, stderr := e.Stdout, e.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return executil.Run(ctx, executil.Cmd{
		Dir:      opts.Dir,
		Name:     "/bin/bash",
		Args:     []string{"-c", opts.Command()},
		ExtraEnv: opts.Env,
		DryRun:   opts.DryRun,
		Stdout:   stdout,
		Stderr:   stderr,
	})
}

// BuildImage validates opts, logs the build plan and hands it to exec.
func BuildImage(ctx context.Context, exec Executor, opts *BuildOptions) error {
	if opts == nil {
		return errors.New("BuildImage: opts is nil")
	}
	if exec == nil {
		return errors.New("BuildImage: executor is nil")
	}
	if len(opts.Tags) == 0 || opts.Published == "" {
		return errors.New("BuildImage: no tags planned")
	}
	for name, v := range map[string]string{
		"script":       opts.Script,
		"wheel":        opts.Wheel,
		"base image":   opts.BaseImage,
		"requirements": opts.Requirements,
	} {
		if v == "" {
			return fmt.Errorf("BuildImage: %s is empty", name)
		}
	}

	l := log.WithField("component", "docker")
	for _, r := range opts.Refs {
		l.WithField("ref", r).Info("tag")
	}
	l.WithFields(log.Fields{
		"published": opts.Published,
		"dir":       absOr(opts.Dir, opts.Dir),
		"dry_run":   opts.DryRun,
	}).Infof("executing: %s", opts.Command())

	if err := exec.Execute(ctx, opts); err != nil {
		return fmt.Errorf("build %s: %w", opts.Published, err)
	}
	return nil
}
