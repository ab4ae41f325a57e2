package site

import "html/template"

// The layouts are deliberately plain: structure and metadata only, no theme.
// Styling belongs to the static assets the operator ships alongside.
var pageTemplates = template.Must(template.New("pages").Parse(`
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.PageTitle}}</title>
{{if .Description}}<meta name="description" content="{{.Description}}">{{end}}
<link rel="stylesheet" href="{{.BaseURL}}/style.css">
</head>
<body>
{{end}}

{{define "bio"}}{{with .Author}}{{if .Name}}
<aside class="bio">
<p><strong>{{.Name}}</strong>{{if .Bio}} &middot; {{.Bio}}{{end}}</p>
{{if .Links}}<ul class="bio-links">
{{range .Links}}<li><a href="{{.URL}}" rel="me">{{.Name}}</a></li>
{{end}}</ul>{{end}}
</aside>
{{end}}{{end}}{{end}}

{{define "index"}}{{template "head" .}}
<header><h1><a href="{{.BaseURL}}/">{{.Site.Title}}</a></h1></header>
{{template "bio" .}}
<main>
<ul class="posts">
{{range .Posts}}<li>
<a href="{{$.BaseURL}}/{{.Slug}}/">{{.Title}}</a>
{{if not .Date.IsZero}}<time datetime="{{.Date.Format "2006-01-02"}}">{{.Date.Format "January 2, 2006"}}</time>{{end}}
{{if .Description}}<p>{{.Description}}</p>{{end}}
</li>
{{end}}</ul>
</main>
</body>
</html>
{{end}}

{{define "post"}}{{template "head" .}}
<header><a href="{{.BaseURL}}/">{{.Site.Title}}</a></header>
<main>
<article>
<h1>{{.Post.Title}}</h1>
{{if not .Post.Date.IsZero}}<time datetime="{{.Post.Date.Format "2006-01-02"}}">{{.Post.Date.Format "January 2, 2006"}}</time>{{end}}
{{.Content}}
</article>
</main>
{{template "bio" .}}
</body>
</html>
{{end}}
`))

// indexData feeds the index layout.
type indexData struct {
	PageTitle   string
	Description string
	BaseURL     string
	Site        siteMeta
	Author      authorMeta
	Posts       []Post
}

// postData feeds the post layout.
type postData struct {
	PageTitle   string
	Description string
	BaseURL     string
	Site        siteMeta
	Author      authorMeta
	Post        Post
	Content     template.HTML
}

type siteMeta struct {
	Title string
}

type authorMeta struct {
	Name  string
	Bio   string
	Links []linkMeta
}

type linkMeta struct {
	Name string
	URL  string
}
