// Package git provides the version-control client the publish sequence drives.
//
// The Client interface exposes exactly the operations publishing needs: guarded
// branch deletion, branch create-and-checkout, force-add of the build output,
// snapshot commits, subtree splitting, and force pushes. The production
// implementation is built on go-git and never shells out, so the whole pipeline
// runs without a git binary on PATH.
//
// Callers construct a Repository from an explicit path rather than relying on
// process working-directory state, which keeps repeated and concurrent
// invocations reasoned about explicitly and lets tests substitute a fake.
package git
