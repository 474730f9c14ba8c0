package docker

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingExecutor struct {
	cmds []string
	err  error
}

func (r *recordingExecutor) Execute(_ context.Context, opts *BuildOptions) error {
	r.cmds = append(r.cmds, opts.Command())
	return r.err
}

func TestBuildImage(t *testing.T) {
	opts, err := BuildOptionsFromContext(testContext(),
		ImageSpec{PythonVersion: "py37", Platform: "cpu", ImageType: "ray-ml"}, testConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := &recordingExecutor{}
	if err := BuildImage(context.Background(), rec, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.cmds) != 1 {
		t.Fatalf("expected one command, got %d", len(rec.cmds))
	}
	want := "./ci/build/build-ray-docker.sh " +
		"ray-3.0.0.dev0-cp37-cp37m-manylinux2014_x86_64.whl " +
		ecrRepo + ":123-ray-mlpy37cpubase " +
		"requirements_compiled_py37.txt " +
		"rayproject/ray-ml:123456-py37-cpu"
	if rec.cmds[0] != want {
		t.Errorf("expected %q, got %q", want, rec.cmds[0])
	}
}

func TestBuildImageWrapsExecutorError(t *testing.T) {
	opts, err := BuildOptionsFromContext(testContext(),
		ImageSpec{PythonVersion: "py38", Platform: "cpu", ImageType: "ray"}, testConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	boom := errors.New("boom")
	err = BuildImage(context.Background(), &recordingExecutor{err: boom}, opts)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped executor error, got %v", err)
	}
}

func TestBuildImageRejectsIncompleteOptions(t *testing.T) {
	tests := []struct {
		name string
		opts *BuildOptions
	}{
		{name: "Nil options", opts: nil},
		{name: "No tags", opts: &BuildOptions{Script: "s", Wheel: "w", BaseImage: "b", Requirements: "r"}},
		{name: "No wheel", opts: &BuildOptions{Script: "s", BaseImage: "b", Requirements: "r", Tags: []string{"t"}, Published: "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingExecutor{}
			if err := BuildImage(context.Background(), rec, tt.opts); err == nil {
				t.Error("expected error, got none")
			}
			if len(rec.cmds) != 0 {
				t.Errorf("executor must not run, got %q", rec.cmds)
			}
		})
	}
}

func TestScriptExecutorDryRun(t *testing.T) {
	var out bytes.Buffer
	opts := &BuildOptions{
		Script:       "./ci/build/build-ray-docker.sh",
		Wheel:        "ray.whl",
		BaseImage:    "base:1",
		Requirements: "requirements_compiled.txt",
		Published:    "rayproject/ray:abc123-py38-cpu",
		Dir:          "/rayci",
		DryRun:       true,
	}

	if err := (ScriptExecutor{Stdout: &out}).Execute(context.Background(), opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "[DRY RUN in /rayci] /bin/bash -c ") {
		t.Errorf("unexpected dry-run output %q", got)
	}
	if !strings.Contains(got, "rayproject/ray:abc123-py38-cpu") {
		t.Errorf("dry-run output missing published ref: %q", got)
	}
}

func TestScriptExecutorPassesBuildEnv(t *testing.T) {
	dir := t.TempDir()
	script := "#!/bin/sh\necho \"$RAYCI_BUILD_ID|$RAYTAG_CANONICAL_TAG|$RAYTAG_IMAGE_REFS|$5\"\n"
	if err := os.WriteFile(filepath.Join(dir, "build.sh"), []byte(script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	plan := Plan{
		Canonical: "abc123-py38-cpu",
		Refs:      []string{"rayproject/ray:abc123-py38-cpu", "rayproject/ray:abc123-py38"},
	}
	opts := &BuildOptions{
		Script:       "./build.sh",
		Wheel:        "ray.whl",
		BaseImage:    "base:1",
		Requirements: "requirements_compiled.txt",
		Published:    "rayproject/ray:abc123-py38-cpu",
		Env:          BuildEnv("42", plan),
		Dir:          dir,
	}

	var out, errOut bytes.Buffer
	if err := (ScriptExecutor{Stdout: &out, Stderr: &errOut}).Execute(context.Background(), opts); err != nil {
		t.Fatalf("unexpected error: %v (stderr %q)", err, errOut.String())
	}
	want := "42|abc123-py38-cpu|rayproject/ray:abc123-py38-cpu rayproject/ray:abc123-py38|rayproject/ray:abc123-py38-cpu\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}
