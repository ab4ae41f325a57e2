package git

import (
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// SubtreeSplit rewrites the first-parent history of the source branch into a
// new lineage whose root tree is the subtree at prefix, and points the target
// branch at the result. Commits where the subtree is absent or unchanged
// relative to their rewritten parent are dropped, so the extracted history
// contains only commits relevant to the subtree.
func (r *Repository) SubtreeSplit(prefix, source, target string) (string, error) {
	srcRef, err := r.repo.Reference(plumbing.NewBranchReferenceName(source), true)
	if err != nil {
		return "", ClassifyGitError(err, "subtree-split", source)
	}

	chain, err := r.firstParentChain(srcRef.Hash())
	if err != nil {
		return "", err
	}

	var (
		parent     plumbing.Hash
		lastTree   plumbing.Hash
		haveParent bool
	)

	// Oldest first, so rewritten parents exist before their children.
	for i := len(chain) - 1; i >= 0; i-- {
		commit := chain[i]

		tree, err := commit.Tree()
		if err != nil {
			return "", ClassifyGitError(err, "subtree-split", commit.Hash.String())
		}
		sub, err := tree.Tree(prefix)
		if err == object.ErrDirectoryNotFound {
			continue
		}
		if err != nil {
			return "", ClassifyGitError(err, "subtree-split", prefix)
		}
		if haveParent && sub.Hash == lastTree {
			continue
		}

		rewritten := &object.Commit{
			Author:    commit.Author,
			Committer: commit.Committer,
			Message:   commit.Message,
			TreeHash:  sub.Hash,
		}
		if haveParent {
			rewritten.ParentHashes = []plumbing.Hash{parent}
		}

		obj := r.repo.Storer.NewEncodedObject()
		if err := rewritten.Encode(obj); err != nil {
			return "", ClassifyGitError(err, "subtree-split", prefix)
		}
		hash, err := r.repo.Storer.SetEncodedObject(obj)
		if err != nil {
			return "", ClassifyGitError(err, "subtree-split", prefix)
		}

		parent = hash
		lastTree = sub.Hash
		haveParent = true
	}

	if !haveParent {
		return "", GitError("prefix not found in branch history").
			WithContext("prefix", prefix).
			WithContext("branch", source).
			Build()
	}

	targetRef := plumbing.NewHashReference(plumbing.NewBranchReferenceName(target), parent)
	if err := r.repo.Storer.SetReference(targetRef); err != nil {
		return "", ClassifyGitError(err, "subtree-split", target)
	}
	return parent.String(), nil
}

// firstParentChain collects the first-parent ancestry of from, newest first.
func (r *Repository) firstParentChain(from plumbing.Hash) ([]*object.Commit, error) {
	var chain []*object.Commit

	commit, err := r.repo.CommitObject(from)
	if err != nil {
		return nil, ClassifyGitError(err, "log", from.String())
	}
	for {
		chain = append(chain, commit)
		if commit.NumParents() == 0 {
			return chain, nil
		}
		commit, err = commit.Parent(0)
		if err != nil {
			return nil, ClassifyGitError(err, "log", from.String())
		}
	}
}
