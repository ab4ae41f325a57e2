package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_UnknownPlugin(t *testing.T) {
	cfg := validConfig()
	cfg.Markdown.Plugins = []string{"gfm", "mermaid"}

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown markdown plugin "mermaid"`)
}

func TestValidate_BranchCollisions(t *testing.T) {
	cfg := validConfig()
	cfg.Publish.DraftBranch = cfg.Publish.WorkingBranch
	require.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Publish.Branch = cfg.Publish.DraftBranch
	require.Error(t, cfg.Validate())
}

func TestValidate_BadBranchName(t *testing.T) {
	cfg := validConfig()
	cfg.Publish.DraftBranch = "draft branch"
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid branch name")
}

func TestValidate_AbsoluteOutputDir(t *testing.T) {
	cfg := validConfig()
	cfg.Output.Directory = "/var/www"
	require.Error(t, cfg.Validate())
}

func TestNormalizeLogSettings(t *testing.T) {
	require.Equal(t, LogLevelDebug, NormalizeLogLevel("DEBUG"))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("bogus"))
	require.Equal(t, LogFormatJSON, NormalizeLogFormat("json"))
	require.Equal(t, LogFormatText, NormalizeLogFormat(""))
}
