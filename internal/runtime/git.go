package runtime

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// gitHead is what we can learn about a checkout without a CI agent.
type gitHead struct {
	Branch string // empty on a detached HEAD
	SHA    string
}

// readGitHead opens the repository at dir (or any parent) and resolves HEAD.
func readGitHead(dir string) (gitHead, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return gitHead{}, fmt.Errorf("open git repo %q: %w", dir, err)
	}
	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return gitHead{}, fmt.Errorf("git repo %q has no commits", dir)
		}
		return gitHead{}, fmt.Errorf("resolve HEAD in %q: %w", dir, err)
	}

	head := gitHead{SHA: ref.Hash().String()}
	if ref.Name().IsBranch() {
		head.Branch = ref.Name().Short()
	}
	return head, nil
}
