package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blogsmith/blogsmith/internal/foundation/errors"
)

func writePost(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
}

func TestLoadPosts_ParsesFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "hello.md", `---
title: Hello World
description: first post
date: 2024-01-15
tags: [go, blogging]
---
Some **bold** text.
`)

	posts, err := LoadPosts(dir)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	require.Equal(t, "Hello World", p.Title)
	require.Equal(t, "first post", p.Description)
	require.Equal(t, 2024, p.Date.Year())
	require.Equal(t, []string{"go", "blogging"}, p.Tags)
	require.Equal(t, "hello-world", p.Slug)
	require.False(t, p.Draft)
	require.Contains(t, string(p.Body), "**bold**")
}

func TestLoadPosts_SortedNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "old.md", "---\ntitle: Old\ndate: 2023-01-01\n---\nold\n")
	writePost(t, dir, "new.md", "---\ntitle: New\ndate: 2024-06-01\n---\nnew\n")
	writePost(t, dir, "mid.md", "---\ntitle: Mid\ndate: 2023-08-15\n---\nmid\n")

	posts, err := LoadPosts(dir)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	require.Equal(t, "New", posts[0].Title)
	require.Equal(t, "Mid", posts[1].Title)
	require.Equal(t, "Old", posts[2].Title)
}

func TestLoadPosts_NoFrontmatterFallsBackToFilename(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "plain-notes.md", "# Just markdown\n")

	posts, err := LoadPosts(dir)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "plain-notes", posts[0].Title)
	require.Equal(t, "plain-notes", posts[0].Slug)
	require.True(t, posts[0].Date.IsZero())
}

func TestLoadPosts_ExplicitSlugWins(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "2024-01-15-long-filename.md", "---\ntitle: T\nslug: Short Slug\n---\nbody\n")

	posts, err := LoadPosts(dir)
	require.NoError(t, err)
	require.Equal(t, "short-slug", posts[0].Slug)
}

func TestLoadPosts_DraftFlag(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "wip.md", "---\ntitle: WIP\ndraft: true\n---\nnot yet\n")

	posts, err := LoadPosts(dir)
	require.NoError(t, err)
	require.True(t, posts[0].Draft)
}

func TestLoadPosts_InvalidDate(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "bad.md", "---\ntitle: Bad\ndate: someday\n---\nbody\n")

	_, err := LoadPosts(dir)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryContent))
}

func TestLoadPosts_MissingDir(t *testing.T) {
	_, err := LoadPosts(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestLoadPosts_RejectsEmptySlug(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "日本語.md", "---\ntitle: 日本語\ndate: 2024-04-01\n---\nbody\n")

	_, err := LoadPosts(dir)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryContent))
}

func TestLoadPosts_EmptySlugFixableViaFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "日本語.md", "---\ntitle: 日本語\nslug: nihongo\ndate: 2024-04-01\n---\nbody\n")

	posts, err := LoadPosts(dir)
	require.NoError(t, err)
	require.Equal(t, "nihongo", posts[0].Slug)
}

func TestLoadPosts_RejectsDuplicateSlugs(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "one.md", "---\ntitle: Same Title\ndate: 2024-01-01\nslug: same\n---\nfirst\n")
	writePost(t, dir, "two.md", "---\ntitle: Same Title\ndate: 2024-02-01\nslug: same\n---\nsecond\n")

	_, err := LoadPosts(dir)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryContent))
	require.Contains(t, err.Error(), "duplicate post slug")
}

func TestLoadPosts_IgnoresNonMarkdown(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "post.md", "---\ntitle: P\n---\nbody\n")
	writePost(t, dir, "notes.txt", "not a post")

	posts, err := LoadPosts(dir)
	require.NoError(t, err)
	require.Len(t, posts, 1)
}
