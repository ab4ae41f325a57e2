package config

// Fixed names the publish sequence falls back to when the config leaves them
// unset. These mirror the conventional gh-pages layout: develop on dev, stage
// the snapshot on draft, serve master from the remote.
const (
	DefaultOutputDir     = "public"
	DefaultDraftBranch   = "draft"
	DefaultPublishBranch = "master"
	DefaultWorkingBranch = "dev"
	DefaultRemote        = "origin"

	DefaultPostsDir  = "content/posts"
	DefaultStaticDir = "static"
	DefaultCachePath = ".blogsmith/cache.db"

	DefaultCommitMessage  = "Publish site"
	DefaultCommitterName  = "blogsmith"
	DefaultCommitterEmail = "blogsmith@localhost"
)

// defaultPlugins is the markdown chain enabled when none is declared.
var defaultPlugins = []string{"gfm", "typographer", "heading-ids"}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Blog"
	}
	if c.Content.PostsDir == "" {
		c.Content.PostsDir = DefaultPostsDir
	}
	if c.Content.StaticDir == "" {
		c.Content.StaticDir = DefaultStaticDir
	}
	if len(c.Markdown.Plugins) == 0 {
		c.Markdown.Plugins = append([]string(nil), defaultPlugins...)
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath
	}

	p := &c.Publish
	if p.Remote == "" {
		p.Remote = DefaultRemote
	}
	if p.Branch == "" {
		p.Branch = DefaultPublishBranch
	}
	if p.WorkingBranch == "" {
		p.WorkingBranch = DefaultWorkingBranch
	}
	if p.DraftBranch == "" {
		p.DraftBranch = DefaultDraftBranch
	}
	if p.CommitMessage == "" {
		p.CommitMessage = DefaultCommitMessage
	}
	if p.Committer.Name == "" {
		p.Committer.Name = DefaultCommitterName
	}
	if p.Committer.Email == "" {
		p.Committer.Email = DefaultCommitterEmail
	}
}
