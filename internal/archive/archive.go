// Package archive snapshots the stub tree into a local git repository, the
// on-tool equivalent of publishing a firmware's stubs to a stub repo.
package archive

import (
	"errors"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Snapshot commits the current contents of dir to a git repository rooted
// there, creating the repository on first use, and returns the commit hash.
func Snapshot(dir, message string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(dir, false)
	}
	if err != nil {
		return "", fmt.Errorf("open stub archive: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", err
	}
	h, err := wt.Commit(message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  "seshat",
			Email: "seshat@device",
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", err
	}
	return h.String(), nil
}
