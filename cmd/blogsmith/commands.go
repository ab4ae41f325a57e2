package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blogsmith/blogsmith/internal/build"
	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/foundation/errors"
	"github.com/blogsmith/blogsmith/internal/git"
	"github.com/blogsmith/blogsmith/internal/linkcheck"
	"github.com/blogsmith/blogsmith/internal/logfields"
	"github.com/blogsmith/blogsmith/internal/metrics"
	"github.com/blogsmith/blogsmith/internal/preview"
	"github.com/blogsmith/blogsmith/internal/publish"
)

// runBuild renders the site and checks local links. Broken links are
// advisory unless strict is set.
func runBuild(ctx context.Context, cfg *config.Config, strict bool) error {
	recorder, flush := newRecorder(cfg)

	buildErr := doBuild(ctx, cfg, recorder, strict)

	// Metrics are written even for failed runs so partial durations land.
	if flushErr := flush(); flushErr != nil && buildErr == nil {
		return flushErr
	}
	return buildErr
}

func doBuild(ctx context.Context, cfg *config.Config, recorder metrics.Recorder, strict bool) error {
	if err := build.NewRunner(cfg, ".", recorder).Run(ctx); err != nil {
		return err
	}

	report, err := linkcheck.NewChecker(cfg.Output.Directory, cfg.Site.BaseURL).Check()
	if err != nil {
		return err
	}
	if strict && len(report.Broken) > 0 {
		return errors.ValidationError("site has broken local links").
			WithContext("count", len(report.Broken)).
			Build()
	}
	return nil
}

// runPublish builds the site (unless skipBuild) and runs the publish
// sequence against the repository in the current directory.
func runPublish(ctx context.Context, cfg *config.Config, skipBuild bool) error {
	recorder, flush := newRecorder(cfg)

	if skipBuild {
		if err := build.VerifyOutput(".", cfg.Output.Directory); err != nil {
			return err
		}
	} else {
		if err := build.NewRunner(cfg, ".", recorder).Run(ctx); err != nil {
			return err
		}
	}

	repo, err := git.Open(".")
	if err != nil {
		return err
	}

	sequencer := publish.NewSequencer(repo, publish.WithRecorder(recorder))
	publishErr := sequencer.Publish(ctx, publish.Request{
		BuildDir:      cfg.Output.Directory,
		DraftBranch:   cfg.Publish.DraftBranch,
		PublishBranch: cfg.Publish.Branch,
		WorkBranch:    cfg.Publish.WorkingBranch,
		Remote:        cfg.Publish.Remote,
		CommitMessage: cfg.Publish.CommitMessage,
		Committer: git.Signature{
			Name:  cfg.Publish.Committer.Name,
			Email: cfg.Publish.Committer.Email,
		},
	})

	// Metrics are written even for failed runs so the outcome counter lands.
	if flushErr := flush(); flushErr != nil && publishErr == nil {
		return flushErr
	}
	return publishErr
}

// runPreview serves the site locally, rebuilding on content changes.
func runPreview(ctx context.Context, cfg *config.Config, port int) error {
	rebuild := func(ctx context.Context) error {
		return build.NewRunner(cfg, ".", metrics.NoopRecorder{}).Run(ctx)
	}
	return preview.NewServer(cfg, ".", port, rebuild).Run(ctx)
}

// runInit scaffolds a configuration file plus a sample post and stylesheet.
func runInit(configPath string, force bool) error {
	if err := config.Init(configPath, force); err != nil {
		return errors.ConfigError("failed to initialize configuration").
			WithContext("file", configPath).
			WithCause(err).
			Build()
	}
	slog.Info("Wrote configuration", logfields.File(configPath))

	samples := map[string]string{
		filepath.Join(config.DefaultPostsDir, "hello-world.md"): samplePost,
		filepath.Join(config.DefaultStaticDir, "style.css"):     sampleStylesheet,
	}
	for path, content := range samples {
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return errors.FileSystemError("failed to create content directory").
				WithContext("dir", filepath.Dir(path)).
				WithCause(err).
				Build()
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.FileSystemError("failed to write sample file").
				WithContext("file", path).
				WithCause(err).
				Build()
		}
		slog.Info("Wrote sample file", logfields.File(path))
	}
	return nil
}

// newRecorder returns the metrics recorder plus a flush for the textfile
// export. With no textfile configured both are no-ops.
func newRecorder(cfg *config.Config) (metrics.Recorder, func() error) {
	if cfg.Metrics.Textfile == "" {
		return metrics.NoopRecorder{}, func() error { return nil }
	}
	rec := metrics.NewPrometheusRecorder(nil)
	return rec, func() error { return rec.WriteTextfile(cfg.Metrics.Textfile) }
}

const samplePost = `---
title: Hello World
date: 2024-01-01
description: The first post.
---
Welcome to your new blog. Edit this file, run ` + "`blogsmith build`" + `, and
when it looks right, ` + "`blogsmith publish`" + `.
`

const sampleStylesheet = `body {
  max-width: 42rem;
  margin: 0 auto;
  padding: 1rem;
  font-family: system-ui, sans-serif;
  line-height: 1.6;
}
`
