package site

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/foundation/errors"
	"github.com/blogsmith/blogsmith/internal/logfields"
	"github.com/blogsmith/blogsmith/internal/metrics"
	"github.com/blogsmith/blogsmith/internal/state"
)

// Generator builds the static site into the output directory.
type Generator struct {
	cfg      *config.Config
	repoDir  string
	recorder metrics.Recorder
}

// NewGenerator creates a generator rooted at repoDir.
func NewGenerator(cfg *config.Config, repoDir string, recorder metrics.Recorder) *Generator {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Generator{cfg: cfg, repoDir: repoDir, recorder: recorder}
}

// Generate renders all published posts and the index page, and copies static
// assets into the output directory.
func (g *Generator) Generate(ctx context.Context) error {
	start := time.Now()

	outDir := filepath.Join(g.repoDir, g.cfg.Output.Directory)
	if g.cfg.Output.Clean {
		if err := os.RemoveAll(outDir); err != nil {
			return errors.FileSystemError("failed to clean output directory").
				WithContext("dir", outDir).
				WithCause(err).
				Build()
		}
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return errors.FileSystemError("failed to create output directory").
			WithContext("dir", outDir).
			WithCause(err).
			Build()
	}

	posts, err := LoadPosts(filepath.Join(g.repoDir, g.cfg.Content.PostsDir))
	if err != nil {
		return err
	}

	var cache *state.RenderCache
	if !g.cfg.Cache.Disabled {
		cache, err = state.OpenRenderCache(filepath.Join(g.repoDir, g.cfg.Cache.Path))
		if err != nil {
			// A broken cache degrades to full rebuilds, it never fails the build.
			slog.Warn("Render cache unavailable, rebuilding everything", logfields.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	renderer := NewRenderer(g.cfg.Markdown)
	published := make([]Post, 0, len(posts))
	for _, post := range posts {
		if !post.Draft {
			published = append(published, post)
		}
	}

	rendered, skipped := 0, 0
	for _, post := range published {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		wasSkipped, err := g.renderPost(renderer, cache, post, outDir)
		if err != nil {
			return err
		}
		if wasSkipped {
			skipped++
		} else {
			rendered++
		}
	}

	if err := g.renderIndex(published, outDir); err != nil {
		return err
	}
	if err := g.copyStatic(outDir); err != nil {
		return err
	}

	g.recorder.SetPostsRendered(rendered)
	g.recorder.SetPostsSkipped(skipped)
	g.recorder.ObserveBuildDuration(time.Since(start))

	slog.Info("Site generated",
		logfields.Path(outDir),
		logfields.Count(len(published)),
		slog.Int("rendered", rendered),
		slog.Int("skipped", skipped))
	return nil
}

// renderPost writes one post page, skipping the render when the cache says
// the source is unchanged and the page already exists.
func (g *Generator) renderPost(renderer *Renderer, cache *state.RenderCache, post Post, outDir string) (skipped bool, err error) {
	outPath := filepath.Join(outDir, post.Slug, "index.html")

	var fingerprint string
	if cache != nil {
		raw, rerr := os.ReadFile(post.SourcePath)
		if rerr == nil {
			fingerprint = state.Fingerprint(raw)
			cached, cerr := cache.Get(post.SourcePath)
			if cerr == nil && cached == fingerprint {
				if _, serr := os.Stat(outPath); serr == nil {
					slog.Debug("Post unchanged, skipping render", logfields.Slug(post.Slug))
					return true, nil
				}
			}
		}
	}

	content, err := renderer.Render(post.Body)
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return false, errors.FileSystemError("failed to create post directory").
			WithContext("slug", post.Slug).
			WithCause(err).
			Build()
	}

	f, err := os.Create(outPath)
	if err != nil {
		return false, errors.FileSystemError("failed to create post page").
			WithContext("file", outPath).
			WithCause(err).
			Build()
	}
	defer f.Close()

	data := postData{
		PageTitle:   post.Title + " | " + g.cfg.Site.Title,
		Description: post.Description,
		BaseURL:     g.baseURL(),
		Site:        siteMeta{Title: g.cfg.Site.Title},
		Author:      g.author(),
		Post:        post,
		Content:     content,
	}
	if err := pageTemplates.ExecuteTemplate(f, "post", data); err != nil {
		return false, errors.ContentError("failed to render post page").
			WithContext("slug", post.Slug).
			WithCause(err).
			Build()
	}

	if cache != nil && fingerprint != "" {
		if err := cache.Put(post.SourcePath, fingerprint); err != nil {
			slog.Warn("Failed to update render cache", logfields.Error(err))
		}
	}
	return false, nil
}

func (g *Generator) renderIndex(posts []Post, outDir string) error {
	f, err := os.Create(filepath.Join(outDir, "index.html"))
	if err != nil {
		return errors.FileSystemError("failed to create index page").
			WithCause(err).
			Build()
	}
	defer f.Close()

	data := indexData{
		PageTitle:   g.cfg.Site.Title,
		Description: g.cfg.Site.Description,
		BaseURL:     g.baseURL(),
		Site:        siteMeta{Title: g.cfg.Site.Title},
		Author:      g.author(),
		Posts:       posts,
	}
	if err := pageTemplates.ExecuteTemplate(f, "index", data); err != nil {
		return errors.ContentError("failed to render index page").
			WithCause(err).
			Build()
	}
	return nil
}

// copyStatic copies the static directory verbatim into the output root.
func (g *Generator) copyStatic(outDir string) error {
	staticDir := filepath.Join(g.repoDir, g.cfg.Content.StaticDir)
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(staticDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(outDir, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func (g *Generator) baseURL() string {
	return strings.TrimSuffix(g.cfg.Site.BaseURL, "/")
}

func (g *Generator) author() authorMeta {
	a := authorMeta{
		Name: g.cfg.Site.Author.Name,
		Bio:  g.cfg.Site.Author.Bio,
	}
	for _, l := range g.cfg.Site.Author.Links {
		a.Links = append(a.Links, linkMeta{Name: l.Name, URL: l.URL})
	}
	return a
}
