// raytag main entrypoint
//
// This binary runs inside a Ray CI job. It reads the Buildkite/RayCI
// environment (branch, commit, checkout dir), derives the tags an image is
// published under, and hands the build script invocation to the executor.
//
// Keep this file simple: all the heavy lifting stays internal.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"raytag/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], cli.Dependencies{})
	cancel()
	os.Exit(code)
}
