package config

import (
	"fmt"
	"strings"
)

// knownPlugins is the closed set of markdown plugin names the generator wires.
var knownPlugins = map[string]bool{
	"gfm":         true,
	"typographer": true,
	"footnotes":   true,
	"heading-ids": true,
}

// Validate checks the configuration for structural problems. It runs after
// defaults are applied, so empty-after-default fields indicate user error.
func (c *Config) Validate() error {
	var problems []string

	for _, p := range c.Markdown.Plugins {
		if !knownPlugins[p] {
			problems = append(problems, fmt.Sprintf("unknown markdown plugin %q", p))
		}
	}

	pub := c.Publish
	if pub.DraftBranch == pub.WorkingBranch {
		problems = append(problems, "publish.draft_branch must differ from publish.working_branch")
	}
	if pub.Branch == pub.WorkingBranch {
		problems = append(problems, "publish.branch must differ from publish.working_branch")
	}
	if pub.Branch == pub.DraftBranch {
		problems = append(problems, "publish.branch must differ from publish.draft_branch")
	}
	for _, b := range []string{pub.Branch, pub.WorkingBranch, pub.DraftBranch} {
		if strings.ContainsAny(b, " ~^:?*[\\") {
			problems = append(problems, fmt.Sprintf("invalid branch name %q", b))
		}
	}

	if strings.HasPrefix(c.Output.Directory, "/") {
		problems = append(problems, "output.directory must be relative to the repository root")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
