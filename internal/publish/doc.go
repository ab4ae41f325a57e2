// Package publish implements the deploy sequence: it takes an already-built
// output directory and makes it the sole content of a branch on the remote,
// without disturbing the working branch history.
//
// The sequence is a linear, fail-fast pipeline of six steps:
//
//  1. delete stale draft and publish branches (missing branches are fine)
//  2. create and check out a fresh draft branch at HEAD
//  3. force-add the build output and commit it as one snapshot
//  4. subtree-split the output directory into the publish branch
//  5. force-push the publish branch to the remote
//  6. check the working branch back out
//
// There is no rollback and there are no retries: a failure aborts the
// remaining steps and may leave the draft branch checked out or a local
// publish branch behind. Re-running is always safe because step 1 clears
// stale branch state unconditionally.
package publish
