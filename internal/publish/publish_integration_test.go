package publish

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/blogsmith/blogsmith/internal/git"
)

// blogRepo is a working repository on branch dev with an ignored public/
// directory and a local bare origin, mirroring the real deployment layout.
type blogRepo struct {
	dir     string
	repo    *gogit.Repository
	bareDir string
	bare    *gogit.Repository
}

func setupBlogRepo(t *testing.T) *blogRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName("dev"),
		},
	})
	require.NoError(t, err)

	writeAndCommit(t, repo, dir, map[string]string{
		".gitignore": "public/\n",
		"post.md":    "# hello\n",
	}, "initial commit")

	bareDir := t.TempDir()
	bare, err := gogit.PlainInit(bareDir, true)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&gitcfg.RemoteConfig{Name: "origin", URLs: []string{bareDir}})
	require.NoError(t, err)

	return &blogRepo{dir: dir, repo: repo, bareDir: bareDir, bare: bare}
}

func writeAndCommit(t *testing.T, repo *gogit.Repository, dir string, files map[string]string, msg string) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
		_, err = wt.Add(filepath.ToSlash(rel))
		require.NoError(t, err)
	}
	_, err = wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func (b *blogRepo) writeOutput(t *testing.T, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(b.dir, "public", rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
}

// remoteTree lists file names in the tree of the bare remote's branch head.
func (b *blogRepo) remoteTree(t *testing.T, branch string) []string {
	t.Helper()
	ref, err := b.bare.Reference(plumbing.NewBranchReferenceName(branch), true)
	require.NoError(t, err)
	commit, err := b.bare.CommitObject(ref.Hash())
	require.NoError(t, err)
	tree, err := commit.Tree()
	require.NoError(t, err)

	var names []string
	files := tree.Files()
	defer files.Close()
	require.NoError(t, files.ForEach(func(f *object.File) error {
		names = append(names, f.Name)
		return nil
	}))
	sort.Strings(names)
	return names
}

func (b *blogRepo) publish(t *testing.T) error {
	t.Helper()
	client, err := git.Open(b.dir)
	require.NoError(t, err)
	return NewSequencer(client).Publish(context.Background(), Request{})
}

func TestPublish_EndToEnd(t *testing.T) {
	b := setupBlogRepo(t)
	b.writeOutput(t, map[string]string{
		"index.html": "<html>v1</html>",
		"style.css":  "body{}",
	})

	headBefore, err := b.repo.Head()
	require.NoError(t, err)

	require.NoError(t, b.publish(t))

	// Working branch restored, at the same commit.
	headAfter, err := b.repo.Head()
	require.NoError(t, err)
	require.Equal(t, "dev", headAfter.Name().Short())
	require.Equal(t, headBefore.Hash(), headAfter.Hash())

	// The remote publish branch mirrors exactly the build output.
	require.Equal(t, []string{"index.html", "style.css"}, b.remoteTree(t, "master"))
}

func TestPublish_Idempotent(t *testing.T) {
	b := setupBlogRepo(t)
	b.writeOutput(t, map[string]string{"index.html": "<html>v1</html>"})

	require.NoError(t, b.publish(t))
	first := b.remoteTree(t, "master")

	// The final checkout drops the snapshot's files from the worktree, so the
	// build step re-materializes identical output before the second run.
	b.writeOutput(t, map[string]string{"index.html": "<html>v1</html>"})
	require.NoError(t, b.publish(t))
	second := b.remoteTree(t, "master")

	require.Equal(t, first, second)

	head, err := b.repo.Head()
	require.NoError(t, err)
	require.Equal(t, "dev", head.Name().Short())
}

func TestPublish_NeutralizesStaleBranches(t *testing.T) {
	b := setupBlogRepo(t)
	b.writeOutput(t, map[string]string{"index.html": "<html>v1</html>"})

	// Simulate leftovers from a crashed prior run: draft and master refs
	// pointing at an arbitrary commit.
	head, err := b.repo.Head()
	require.NoError(t, err)
	for _, stale := range []string{"draft", "master"} {
		require.NoError(t, b.repo.Storer.SetReference(
			plumbing.NewHashReference(plumbing.NewBranchReferenceName(stale), head.Hash())))
	}

	require.NoError(t, b.publish(t))
	require.Equal(t, []string{"index.html"}, b.remoteTree(t, "master"))
}

func TestPublish_MissingOutputFailsBeforePush(t *testing.T) {
	b := setupBlogRepo(t)
	// No public/ directory at all.

	require.Error(t, b.publish(t))

	// The remote was never touched.
	_, err := b.bare.Reference(plumbing.NewBranchReferenceName("master"), true)
	require.Equal(t, plumbing.ErrReferenceNotFound, err)
}

func TestPublish_RejectedPushReportsFailure(t *testing.T) {
	b := setupBlogRepo(t)
	b.writeOutput(t, map[string]string{"index.html": "<html>v1</html>"})

	// Point origin somewhere unreachable.
	require.NoError(t, b.repo.DeleteRemote("origin"))
	_, err := b.repo.CreateRemote(&gitcfg.RemoteConfig{
		Name: "origin",
		URLs: []string{filepath.Join(t.TempDir(), "gone")},
	})
	require.NoError(t, err)

	err = b.publish(t)
	require.Error(t, err)

	// Working branch restoration is not guaranteed after a failed push; the
	// draft branch is still checked out. The next run must recover anyway...
	client, err := git.Open(b.dir)
	require.NoError(t, err)
	branch, err := client.CurrentBranch()
	require.NoError(t, err)
	require.Equal(t, "draft", branch)

	// ...so restore the remote and confirm a re-run converges. The stale
	// draft cannot be deleted while checked out, so go back to dev first,
	// as an operator would.
	require.NoError(t, client.Checkout("dev"))
	require.NoError(t, b.repo.DeleteRemote("origin"))
	_, err = b.repo.CreateRemote(&gitcfg.RemoteConfig{Name: "origin", URLs: []string{b.bareDir}})
	require.NoError(t, err)

	b.writeOutput(t, map[string]string{"index.html": "<html>v1</html>"})
	require.NoError(t, b.publish(t))
	require.Equal(t, []string{"index.html"}, b.remoteTree(t, "master"))
}

func TestPublish_UpdatesRemoteOnContentChange(t *testing.T) {
	b := setupBlogRepo(t)
	b.writeOutput(t, map[string]string{"index.html": "<html>v1</html>"})
	require.NoError(t, b.publish(t))

	b.writeOutput(t, map[string]string{
		"index.html": "<html>v2</html>",
		"about.html": "<html>about</html>",
	})
	require.NoError(t, b.publish(t))

	require.Equal(t, []string{"about.html", "index.html"}, b.remoteTree(t, "master"))
}
