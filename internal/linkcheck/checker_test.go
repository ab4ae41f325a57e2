package linkcheck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
}

func TestExtractLinks_CollectsTagsAndAttributes(t *testing.T) {
	page := `<html><head>
<link rel="stylesheet" href="/style.css">
<script src="/app.js"></script>
</head><body>
<a href="/about/">About</a>
<a href="https://example.com/post/">Self</a>
<a href="https://other.example/page">Elsewhere</a>
<a href="mailto:me@example.com">Mail</a>
<img src="cat.png" alt="cat">
</body></html>`

	links, err := ExtractLinksFromReader(strings.NewReader(page), "https://example.com/")
	require.NoError(t, err)
	require.Len(t, links, 6)

	byURL := map[string]Link{}
	for _, l := range links {
		byURL[l.URL] = l
	}
	require.True(t, byURL["/style.css"].Local)
	require.Equal(t, "link", byURL["/style.css"].Tag)
	require.True(t, byURL["/about/"].Local)
	require.True(t, byURL["https://example.com/post/"].Local)
	require.False(t, byURL["https://other.example/page"].Local)
	require.False(t, byURL["mailto:me@example.com"].Local)
	require.True(t, byURL["cat.png"].Local)
}

func TestCheck_CleanSite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html",
		`<html><body><a href="/first-post/">First</a><img src="/cat.png"></body></html>`)
	writeFile(t, dir, "first-post/index.html",
		`<html><body><a href="/">Home</a></body></html>`)
	writeFile(t, dir, "cat.png", "png")

	report, err := NewChecker(dir, "https://example.com/").Check()
	require.NoError(t, err)
	require.Empty(t, report.Broken)
	require.Equal(t, 2, report.Pages)
	require.Equal(t, 3, report.Links)
}

func TestCheck_ReportsMissingTargets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html",
		`<html><body><a href="/gone-post/">Gone</a><a href="missing.css">x</a></body></html>`)

	report, err := NewChecker(dir, "https://example.com/").Check()
	require.NoError(t, err)
	require.Len(t, report.Broken, 2)

	targets := []string{report.Broken[0].Target, report.Broken[1].Target}
	require.Contains(t, targets, "gone-post")
	require.Contains(t, targets, "missing.css")
}

func TestCheck_DirectoryLinkNeedsIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", `<html><body><a href="/empty/">Empty</a></body></html>`)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o750))

	report, err := NewChecker(dir, "https://example.com/").Check()
	require.NoError(t, err)
	require.Len(t, report.Broken, 1)
}

func TestCheck_RelativeLinksResolveFromPage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "posts/deep/index.html",
		`<html><body><a href="../other/">Sibling</a></body></html>`)
	writeFile(t, dir, "posts/other/index.html", "<html></html>")

	report, err := NewChecker(dir, "https://example.com/").Check()
	require.NoError(t, err)
	require.Empty(t, report.Broken)
}

func TestCheck_BasePathPrefixStripped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html",
		`<html><body><a href="/blog/about/">About</a></body></html>`)
	writeFile(t, dir, "about/index.html", "<html></html>")

	report, err := NewChecker(dir, "https://example.com/blog/").Check()
	require.NoError(t, err)
	require.Empty(t, report.Broken)
}

func TestCheck_ExternalLinksNeverChecked(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html",
		`<html><body><a href="https://other.example/definitely-404">x</a></body></html>`)

	report, err := NewChecker(dir, "https://example.com/").Check()
	require.NoError(t, err)
	require.Empty(t, report.Broken)
	require.Equal(t, 1, report.Skipped)
}
