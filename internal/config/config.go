// Package config loads and validates the blogsmith configuration file.
//
// Configuration is a single YAML document. Environment variables referenced as
// ${VAR} are expanded before parsing, and a .env file alongside the config is
// honored so tokens never need to live in the YAML itself.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Content  ContentConfig  `yaml:"content"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Output   OutputConfig   `yaml:"output"`
	Build    BuildConfig    `yaml:"build,omitempty"`
	Publish  PublishConfig  `yaml:"publish"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Metrics  MetricsConfig  `yaml:"metrics,omitempty"`
}

// SiteConfig carries site-wide presentation metadata.
type SiteConfig struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description,omitempty"`
	BaseURL     string       `yaml:"base_url,omitempty"`
	Author      AuthorConfig `yaml:"author,omitempty"`
}

// AuthorConfig feeds the bio block rendered on the index page.
type AuthorConfig struct {
	Name  string       `yaml:"name,omitempty"`
	Bio   string       `yaml:"bio,omitempty"`
	Links []SocialLink `yaml:"links,omitempty"`
}

// SocialLink is a labeled external profile link.
type SocialLink struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// ContentConfig locates the content sources on disk.
type ContentConfig struct {
	PostsDir  string `yaml:"posts_dir,omitempty"`
	StaticDir string `yaml:"static_dir,omitempty"`
}

// MarkdownConfig declares the markdown transformation chain. Each plugin name
// enables a goldmark extension; the rendering itself is entirely delegated.
type MarkdownConfig struct {
	Plugins    []string `yaml:"plugins,omitempty"`
	UnsafeHTML bool     `yaml:"unsafe_html,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory,omitempty"`
	Clean     bool   `yaml:"clean,omitempty"`
}

// BuildConfig optionally replaces the built-in generator with an external
// build command. When Command is empty the internal generator is used.
type BuildConfig struct {
	Command string   `yaml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty"`
}

// PublishConfig names the branches and remote the publish sequence operates on.
type PublishConfig struct {
	Remote        string          `yaml:"remote,omitempty"`
	Branch        string          `yaml:"branch,omitempty"`
	WorkingBranch string          `yaml:"working_branch,omitempty"`
	DraftBranch   string          `yaml:"draft_branch,omitempty"`
	CommitMessage string          `yaml:"commit_message,omitempty"`
	Committer     CommitterConfig `yaml:"committer,omitempty"`
}

// CommitterConfig identifies the author of snapshot commits.
type CommitterConfig struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// CacheConfig controls the incremental render cache.
type CacheConfig struct {
	Disabled bool   `yaml:"disabled,omitempty"`
	Path     string `yaml:"path,omitempty"`
}

// LoggingConfig controls log verbosity and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig controls where run metrics are written. Blogsmith is a one-shot
// CLI, so metrics go to a Prometheus textfile rather than a scrape endpoint.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; tokens in the YAML reference it via ${VAR}.
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

const exampleConfig = `# blogsmith configuration
site:
  title: My Blog
  description: Notes on things I build
  base_url: https://example.com
  author:
    name: Jane Doe
    bio: Writes about software and occasionally basil.
    links:
      - name: github
        url: https://github.com/janedoe

content:
  posts_dir: content/posts
  static_dir: static

markdown:
  plugins: [gfm, typographer, footnotes, heading-ids]

output:
  directory: public
  clean: true

publish:
  remote: origin
  branch: master
  working_branch: dev
  draft_branch: draft

logging:
  level: info
  format: text
`
