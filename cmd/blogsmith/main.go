package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/foundation/errors"
	"github.com/blogsmith/blogsmith/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"blogsmith.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Strict bool `help:"Fail the build when local links are broken"`
	} `cmd:"" help:"Render posts and static assets into the output directory"`

	Publish struct {
		SkipBuild bool `help:"Publish the existing output directory without rebuilding"`
	} `cmd:"" help:"Build the site and push it to the deployment branch"`

	Init struct {
		Force bool `help:"Overwrite an existing configuration file"`
	} `cmd:"" help:"Create a configuration file and sample content"`

	Preview struct {
		Port int `short:"p" help:"Port to serve the preview on" default:"8080"`
	} `cmd:"" help:"Serve the site locally and rebuild on change"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	kctx := kong.Parse(&CLI)

	setupLogging(nil)

	adapter := errors.NewCLIErrorAdapter(CLI.Verbose, nil)

	switch kctx.Command() {
	case "version":
		fmt.Println(version.String())
		return
	case "init":
		if err := runInit(CLI.Config, CLI.Init.Force); err != nil {
			adapter.HandleError(err)
		}
		return
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		adapter.HandleError(errors.ConfigError("failed to load configuration").
			WithContext("file", CLI.Config).
			WithCause(err).
			Build())
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch kctx.Command() {
	case "build":
		err = runBuild(ctx, cfg, CLI.Build.Strict)
	case "publish":
		err = runPublish(ctx, cfg, CLI.Publish.SkipBuild)
	case "preview":
		err = runPreview(ctx, cfg, CLI.Preview.Port)
	}
	if err != nil {
		adapter.HandleError(err)
	}
}

// setupLogging installs the default logger. Called once before config is
// available with nil, and again afterwards with the loaded config.
func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	format := config.LogFormatText
	if cfg != nil {
		level = config.NormalizeLogLevel(cfg.Logging.Level).SlogLevel()
		format = config.NormalizeLogFormat(cfg.Logging.Format)
	}
	if CLI.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
