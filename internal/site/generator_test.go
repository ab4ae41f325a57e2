package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blogsmith/blogsmith/internal/config"
)

func siteConfig() *config.Config {
	return &config.Config{
		Site: config.SiteConfig{
			Title:       "Test Blog",
			Description: "a test site",
			BaseURL:     "https://example.com/",
			Author: config.AuthorConfig{
				Name: "Ada",
				Bio:  "writes things",
				Links: []config.SocialLink{
					{Name: "GitHub", URL: "https://github.com/ada"},
				},
			},
		},
		Content:  config.ContentConfig{PostsDir: "content/posts", StaticDir: "static"},
		Markdown: config.MarkdownConfig{Plugins: []string{"gfm"}},
		Output:   config.OutputConfig{Directory: "public", Clean: true},
		Cache:    config.CacheConfig{Disabled: true},
	}
}

func seedSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePost(t, filepath.Join(dir, "content/posts"), "first.md",
		"---\ntitle: First Post\ndate: 2024-01-15\ndescription: the first\n---\nHello **world**.\n")
	writePost(t, filepath.Join(dir, "content/posts"), "second.md",
		"---\ntitle: Second Post\ndate: 2024-03-02\n---\nMore words.\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "static"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "style.css"), []byte("body{}"), 0o600))
	return dir
}

func TestGenerate_WritesPagesAndAssets(t *testing.T) {
	dir := seedSite(t)
	g := NewGenerator(siteConfig(), dir, nil)

	require.NoError(t, g.Generate(context.Background()))

	index, err := os.ReadFile(filepath.Join(dir, "public", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(index), "Test Blog")
	require.Contains(t, string(index), "first-post")
	require.Contains(t, string(index), "second-post")

	post, err := os.ReadFile(filepath.Join(dir, "public", "first-post", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(post), "<strong>world</strong>")
	require.Contains(t, string(post), "First Post")

	_, err = os.Stat(filepath.Join(dir, "public", "style.css"))
	require.NoError(t, err)
}

func TestGenerate_IndexListsNewestFirst(t *testing.T) {
	dir := seedSite(t)
	g := NewGenerator(siteConfig(), dir, nil)

	require.NoError(t, g.Generate(context.Background()))

	index, err := os.ReadFile(filepath.Join(dir, "public", "index.html"))
	require.NoError(t, err)
	s := string(index)
	require.Less(t, indexOf(t, s, "Second Post"), indexOf(t, s, "First Post"))
}

func TestGenerate_IncludesBio(t *testing.T) {
	dir := seedSite(t)
	g := NewGenerator(siteConfig(), dir, nil)

	require.NoError(t, g.Generate(context.Background()))

	index, err := os.ReadFile(filepath.Join(dir, "public", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(index), "Ada")
	require.Contains(t, string(index), "writes things")
	require.Contains(t, string(index), "https://github.com/ada")
}

func TestGenerate_ExcludesDrafts(t *testing.T) {
	dir := seedSite(t)
	writePost(t, filepath.Join(dir, "content/posts"), "wip.md",
		"---\ntitle: Work In Progress\ndraft: true\n---\nnot ready\n")
	g := NewGenerator(siteConfig(), dir, nil)

	require.NoError(t, g.Generate(context.Background()))

	index, err := os.ReadFile(filepath.Join(dir, "public", "index.html"))
	require.NoError(t, err)
	require.NotContains(t, string(index), "Work In Progress")
	_, err = os.Stat(filepath.Join(dir, "public", "work-in-progress"))
	require.True(t, os.IsNotExist(err))
}

func TestGenerate_CleanRemovesStaleOutput(t *testing.T) {
	dir := seedSite(t)
	stale := filepath.Join(dir, "public", "old-page", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o750))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))
	g := NewGenerator(siteConfig(), dir, nil)

	require.NoError(t, g.Generate(context.Background()))

	_, err := os.Stat(stale)
	require.True(t, os.IsNotExist(err))
}

func TestGenerate_CacheSkipsUnchangedPosts(t *testing.T) {
	dir := seedSite(t)
	cfg := siteConfig()
	cfg.Cache = config.CacheConfig{Path: ".blogsmith/cache.db"}
	g := NewGenerator(cfg, dir, nil)

	require.NoError(t, g.Generate(context.Background()))

	// Second run with an intact output tree should leave the pages alone.
	before, err := os.Stat(filepath.Join(dir, "public", "first-post", "index.html"))
	require.NoError(t, err)
	cfg.Output.Clean = false
	require.NoError(t, g.Generate(context.Background()))
	after, err := os.Stat(filepath.Join(dir, "public", "first-post", "index.html"))
	require.NoError(t, err)
	require.Equal(t, before.ModTime(), after.ModTime())
}

func TestGenerate_CanceledContext(t *testing.T) {
	dir := seedSite(t)
	g := NewGenerator(siteConfig(), dir, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, g.Generate(ctx), context.Canceled)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	i := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, i, 0, "expected %q in output", needle)
	return i
}
