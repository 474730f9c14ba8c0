package runtime

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("ray\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add("README"); err != nil {
		t.Fatalf("add: %v", err)
	}
	hash, err := wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "ci", Email: "ci@example.com", When: time.Unix(0, 0)},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return dir, hash.String()
}

func TestLoadContextGitFallback(t *testing.T) {
	dir, sha := initRepo(t)

	ctx, err := LoadContext(Options{Lookup: MapLookup(nil), Now: fixedNow, GitDir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Signals.CommitSHA != sha {
		t.Errorf("expected commit %q, got %q", sha, ctx.Signals.CommitSHA)
	}
	if ctx.Signals.Branch != "master" {
		t.Errorf("expected branch master, got %q", ctx.Signals.Branch)
	}
	if ctx.Source != SourceGit {
		t.Errorf("expected source %q, got %q", SourceGit, ctx.Source)
	}
}

func TestLoadContextGitFallbackKeepsEnvBranch(t *testing.T) {
	dir, _ := initRepo(t)

	env := map[string]string{EnvBranch: "releases/2.0.0"}
	ctx, err := LoadContext(Options{Lookup: MapLookup(env), Now: fixedNow, GitDir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Signals.Branch != "releases/2.0.0" {
		t.Errorf("expected env branch to win, got %q", ctx.Signals.Branch)
	}
}

func TestLoadContextEnvCommitSkipsGit(t *testing.T) {
	env := map[string]string{EnvCommit: "abcdef1234"}
	ctx, err := LoadContext(Options{Lookup: MapLookup(env), Now: fixedNow, GitDir: "/does/not/exist"})
	if err != nil {
		t.Fatalf("git must not be consulted when the commit is set: %v", err)
	}
	if ctx.Source != SourceEnv {
		t.Errorf("expected source %q, got %q", SourceEnv, ctx.Source)
	}
}

func TestLoadContextGitFallbackFailure(t *testing.T) {
	_, err := LoadContext(Options{Lookup: MapLookup(nil), Now: fixedNow, GitDir: t.TempDir()})
	if !errors.Is(err, ErrMissingSignal) {
		t.Errorf("expected ErrMissingSignal, got %v", err)
	}
}
