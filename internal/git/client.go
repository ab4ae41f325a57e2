package git

import "context"

// Signature identifies the author of snapshot commits.
type Signature struct {
	Name  string
	Email string
}

// Client is the version-control surface consumed by the publish sequencer.
// Implementations operate on a single local repository.
type Client interface {
	// CurrentBranch returns the short name of the checked-out branch.
	CurrentBranch() (string, error)

	// Head returns the hash of the current HEAD commit.
	Head() (string, error)

	// DeleteBranch removes a local branch ref. A missing branch is not an
	// error; any other failure is. Deleting the checked-out branch fails.
	DeleteBranch(name string) error

	// CreateBranch creates a branch at the current HEAD and checks it out.
	CreateBranch(name string) error

	// Checkout switches the worktree to an existing branch.
	Checkout(name string) error

	// ForceAdd stages every file under dir (relative to the repository root),
	// bypassing ignore rules.
	ForceAdd(dir string) error

	// Commit records the staged changes. Committing with nothing staged fails.
	Commit(message string, author Signature) (string, error)

	// SubtreeSplit extracts the history of files under prefix on the source
	// branch into the target branch, whose commits are rooted at the subtree.
	// The target ref is overwritten if it exists.
	SubtreeSplit(prefix, source, target string) (string, error)

	// ForcePush updates refs/heads/<remoteBranch> on the remote to the local
	// branch head, discarding any remote-only history. An already up-to-date
	// remote is success.
	ForcePush(ctx context.Context, remote, localBranch, remoteBranch string) error
}
