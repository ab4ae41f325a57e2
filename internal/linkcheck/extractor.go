package linkcheck

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/blogsmith/blogsmith/internal/foundation/errors"
)

// Link is one reference extracted from a rendered HTML page.
type Link struct {
	URL       string
	Tag       string
	Attribute string
	Local     bool
}

// linkAttrs maps element names to the attribute that carries the reference.
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"video":  "src",
	"audio":  "src",
	"source": "src",
}

// ExtractLinks parses an HTML file and returns every link it references.
func ExtractLinks(htmlPath, baseURL string) ([]Link, error) {
	f, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.FileSystemError("failed to open HTML file").
			WithContext("file", htmlPath).
			WithCause(err).
			Build()
	}
	defer f.Close()

	return ExtractLinksFromReader(f, baseURL)
}

// ExtractLinksFromReader parses HTML from r and returns every link found.
func ExtractLinksFromReader(r io.Reader, baseURL string) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.ValidationError("failed to parse HTML").
			WithCause(err).
			Build()
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.ValidationError("invalid base URL").
			WithContext("base_url", baseURL).
			WithCause(err).
			Build()
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if val := getAttr(n, attr); val != "" {
					links = append(links, Link{
						URL:       val,
						Tag:       n.Data,
						Attribute: attr,
						Local:     isLocalLink(val, base),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// isLocalLink reports whether a URL resolves inside the generated site.
func isLocalLink(raw string, base *url.URL) bool {
	if strings.HasPrefix(raw, "#") ||
		strings.HasPrefix(raw, "mailto:") ||
		strings.HasPrefix(raw, "tel:") ||
		strings.HasPrefix(raw, "data:") ||
		strings.HasPrefix(raw, "javascript:") {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return true
	}
	return base != nil && base.Host != "" && u.Host == base.Host
}
