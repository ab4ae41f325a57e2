package site

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/blogsmith/blogsmith/internal/foundation/errors"
)

// Post is one markdown document plus its frontmatter metadata.
type Post struct {
	Title       string
	Description string
	Date        time.Time
	Draft       bool
	Tags        []string
	Slug        string
	SourcePath  string
	Body        []byte
}

// postMeta is the YAML frontmatter shape of a post.
type postMeta struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Draft       bool     `yaml:"draft"`
	Tags        []string `yaml:"tags"`
	Slug        string   `yaml:"slug"`
}

// dateFormats are accepted frontmatter date layouts, most specific first.
var dateFormats = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// LoadPosts reads every .md file under dir, newest first. Drafts are included;
// the generator decides whether to publish them.
func LoadPosts(dir string) ([]Post, error) {
	var posts []Post

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		post, err := loadPost(path)
		if err != nil {
			return err
		}
		posts = append(posts, post)
		return nil
	})
	if walkErr != nil {
		if _, ok := errors.AsClassified(walkErr); ok {
			return nil, walkErr
		}
		return nil, errors.ContentError("failed to read posts directory").
			WithContext("dir", dir).
			WithCause(walkErr).
			Build()
	}

	// Two posts on the same slug would silently overwrite each other's page.
	seen := make(map[string]string, len(posts))
	for _, post := range posts {
		if prev, ok := seen[post.Slug]; ok {
			return nil, errors.ContentError("duplicate post slug").
				WithContext("slug", post.Slug).
				WithContext("file", post.SourcePath).
				WithContext("conflicts_with", prev).
				Build()
		}
		seen[post.Slug] = post.SourcePath
	}

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Slug < posts[j].Slug
		}
		return posts[i].Date.After(posts[j].Date)
	})
	return posts, nil
}

func loadPost(path string) (Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Post{}, errors.ContentError("failed to read post").
			WithContext("file", path).
			WithCause(err).
			Build()
	}

	var meta postMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return Post{}, errors.ContentError("invalid frontmatter").
			WithContext("file", path).
			WithCause(err).
			Build()
	}

	post := Post{
		Title:       meta.Title,
		Description: meta.Description,
		Draft:       meta.Draft,
		Tags:        meta.Tags,
		SourcePath:  path,
		Body:        body,
	}

	base := strings.TrimSuffix(filepath.Base(path), ".md")
	if post.Title == "" {
		post.Title = base
	}
	if meta.Slug != "" {
		post.Slug = Slugify(meta.Slug)
	} else {
		post.Slug = Slugify(base)
	}
	// An empty slug would place the page at the output root, on top of the
	// index. Happens for names with no ASCII alphanumerics at all.
	if post.Slug == "" {
		return Post{}, errors.ContentError("post yields an empty slug, set one in frontmatter").
			WithContext("file", path).
			Build()
	}

	if meta.Date != "" {
		parsed, perr := parseDate(meta.Date)
		if perr != nil {
			return Post{}, errors.ContentError("invalid date in frontmatter").
				WithContext("file", path).
				WithContext("date", meta.Date).
				WithCause(perr).
				Build()
		}
		post.Date = parsed
	}

	return post, nil
}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateFormats {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
