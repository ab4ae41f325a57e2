package linkcheck

import (
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/blogsmith/blogsmith/internal/foundation/errors"
	"github.com/blogsmith/blogsmith/internal/logfields"
)

// BrokenLink is a local reference whose target does not exist in the
// output tree.
type BrokenLink struct {
	Page   string
	URL    string
	Tag    string
	Target string
}

// Report summarizes one check of a generated site.
type Report struct {
	Pages   int
	Links   int
	Broken  []BrokenLink
	Skipped int
}

// Checker verifies that local links in a generated site resolve to files
// inside the output directory. External URLs are never fetched.
type Checker struct {
	outputDir string
	baseURL   string
	basePath  string
}

// NewChecker creates a checker for the given output directory. baseURL is
// used to recognize absolute links back into the site and to strip a base
// path prefix when the site is served from a subdirectory.
func NewChecker(outputDir, baseURL string) *Checker {
	basePath := ""
	if u, err := url.Parse(baseURL); err == nil {
		basePath = strings.TrimSuffix(u.Path, "/")
	}
	return &Checker{outputDir: outputDir, baseURL: baseURL, basePath: basePath}
}

// Check walks every HTML page in the output directory and resolves its
// local links against the tree.
func (c *Checker) Check() (*Report, error) {
	report := &Report{}

	walkErr := filepath.WalkDir(c.outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(c.outputDir, p)
		if err != nil {
			return err
		}
		report.Pages++

		links, err := ExtractLinks(p, c.baseURL)
		if err != nil {
			return err
		}
		for _, link := range links {
			if !link.Local {
				report.Skipped++
				continue
			}
			report.Links++
			target, ok := c.resolve(rel, link.URL)
			if !ok {
				report.Skipped++
				continue
			}
			if !c.targetExists(target) {
				report.Broken = append(report.Broken, BrokenLink{
					Page:   filepath.ToSlash(rel),
					URL:    link.URL,
					Tag:    link.Tag,
					Target: target,
				})
			}
		}
		return nil
	})
	if walkErr != nil {
		if _, ok := errors.AsClassified(walkErr); ok {
			return nil, walkErr
		}
		return nil, errors.FileSystemError("failed to walk output directory").
			WithContext("dir", c.outputDir).
			WithCause(walkErr).
			Build()
	}

	for _, b := range report.Broken {
		slog.Warn("Broken local link",
			logfields.File(b.Page),
			logfields.URL(b.URL),
			slog.String("target", b.Target))
	}
	slog.Info("Link check complete",
		slog.Int("pages", report.Pages),
		slog.Int("links", report.Links),
		slog.Int("broken", len(report.Broken)))
	return report, nil
}

// resolve maps a link found on page rel to a slash path relative to the
// output root. The second return is false for links that cannot be mapped
// to a file, such as pure fragments.
func (c *Checker) resolve(pageRel, raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	target := u.Path
	if target == "" {
		return "", false
	}

	if path.IsAbs(target) {
		if c.basePath != "" {
			target = strings.TrimPrefix(target, c.basePath)
		}
		return strings.TrimPrefix(path.Clean(target), "/"), true
	}

	pageDir := path.Dir(filepath.ToSlash(pageRel))
	joined := path.Join(pageDir, target)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false
	}
	return joined, true
}

// targetExists checks the output tree for the resolved target, accepting a
// file, a directory with an index.html, or the bare directory for
// trailing-slash style links.
func (c *Checker) targetExists(target string) bool {
	full := filepath.Join(c.outputDir, filepath.FromSlash(target))

	info, err := os.Stat(full)
	if err == nil {
		if !info.IsDir() {
			return true
		}
		_, err = os.Stat(filepath.Join(full, "index.html"))
		return err == nil
	}
	return false
}
