// Package site generates the static site from markdown content.
//
// The package owns no markdown semantics itself: parsing, typography and HTML
// rendering are delegated to goldmark and its extensions, selected by the
// plugin names declared in the configuration. What remains here is glue:
// loading posts with their frontmatter, deriving slugs, filling the page
// layouts, copying static assets, and skipping unchanged posts via the
// render cache.
package site
