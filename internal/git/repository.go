package git

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository is the go-git backed Client implementation.
type Repository struct {
	path string
	repo *gogit.Repository
}

var _ Client = (*Repository)(nil)

// Open opens the repository rooted at path.
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, ClassifyGitError(err, "open", path)
	}
	return &Repository{path: path, repo: repo}, nil
}

// Path returns the repository root.
func (r *Repository) Path() string { return r.path }

// CurrentBranch returns the short name of the checked-out branch.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", ClassifyGitError(err, "head", r.path)
	}
	if !head.Name().IsBranch() {
		return "", GitError("HEAD is detached").WithContext("commit", head.Hash().String()).Build()
	}
	return head.Name().Short(), nil
}

// Head returns the hash of the current HEAD commit.
func (r *Repository) Head() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", ClassifyGitError(err, "head", r.path)
	}
	return head.Hash().String(), nil
}

// DeleteBranch removes a local branch ref, treating absence as success.
func (r *Repository) DeleteBranch(name string) error {
	refName := plumbing.NewBranchReferenceName(name)

	if _, err := r.repo.Reference(refName, false); err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return nil
		}
		return ClassifyGitError(err, "delete-branch", name)
	}

	// Removing the ref under HEAD would leave the worktree orphaned.
	if current, err := r.CurrentBranch(); err == nil && current == name {
		return GitError("cannot delete the checked-out branch").
			WithContext("branch", name).
			Build()
	}

	if err := r.repo.Storer.RemoveReference(refName); err != nil {
		return ClassifyGitError(err, "delete-branch", name)
	}
	return nil
}

// CreateBranch creates a branch at the current HEAD and checks it out.
func (r *Repository) CreateBranch(name string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return ClassifyGitError(err, "worktree", r.path)
	}
	err = wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	})
	if err != nil {
		return ClassifyGitError(err, "create-branch", name)
	}
	return nil
}

// Checkout switches the worktree to an existing branch.
func (r *Repository) Checkout(name string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return ClassifyGitError(err, "worktree", r.path)
	}
	err = wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
	})
	if err != nil {
		return ClassifyGitError(err, "checkout", name)
	}
	return nil
}

// ForceAdd stages every file under dir, bypassing ignore rules. SkipStatus
// adds each path directly to the index without consulting gitignore, which is
// what lets an ignored build output directory become a snapshot commit.
func (r *Repository) ForceAdd(dir string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return ClassifyGitError(err, "worktree", r.path)
	}

	root := filepath.Join(r.path, dir)
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.path, path)
		if err != nil {
			return err
		}
		return wt.AddWithOptions(&gogit.AddOptions{
			Path:       filepath.ToSlash(rel),
			SkipStatus: true,
		})
	})
	if walkErr != nil {
		return FileSystemError("failed to stage build output").
			WithContext("dir", dir).
			WithCause(walkErr).
			Build()
	}
	return nil
}

// Commit records the staged changes as a snapshot commit.
func (r *Repository) Commit(message string, author Signature) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", ClassifyGitError(err, "worktree", r.path)
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", ClassifyGitError(err, "commit", r.path)
	}
	return hash.String(), nil
}

// ForcePush updates the remote branch ref unconditionally.
func (r *Repository) ForcePush(ctx context.Context, remote, localBranch, remoteBranch string) error {
	spec := gitcfg.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/heads/%s", localBranch, remoteBranch))
	err := r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: remote,
		RefSpecs:   []gitcfg.RefSpec{spec},
		Force:      true,
	})
	if err == gogit.NoErrAlreadyUpToDate {
		return nil
	}
	if err != nil {
		return ClassifyGitError(err, "push", remote)
	}
	return nil
}
