// Package build runs the site build step and verifies its output.
//
// The build is either the internal generator or, when build.command is set,
// an arbitrary external command. Publishing treats the result the same way in
// both cases: an opaque directory tree that must exist and be non-empty.
package build

import (
	"context"
	"log/slog"
	"os"
	"os/exec"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/foundation/errors"
	"github.com/blogsmith/blogsmith/internal/logfields"
	"github.com/blogsmith/blogsmith/internal/metrics"
	"github.com/blogsmith/blogsmith/internal/site"
)

// Runner executes the build step for a repository.
type Runner struct {
	cfg      *config.Config
	repoDir  string
	recorder metrics.Recorder
}

// NewRunner creates a build runner rooted at repoDir.
func NewRunner(cfg *config.Config, repoDir string, recorder metrics.Recorder) *Runner {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Runner{cfg: cfg, repoDir: repoDir, recorder: recorder}
}

// Run builds the site and verifies the output directory.
func (r *Runner) Run(ctx context.Context) error {
	if r.cfg.Build.Command != "" {
		if err := r.runExternal(ctx); err != nil {
			return err
		}
	} else {
		gen := site.NewGenerator(r.cfg, r.repoDir, r.recorder)
		if err := gen.Generate(ctx); err != nil {
			return err
		}
	}
	return VerifyOutput(r.repoDir, r.cfg.Output.Directory)
}

// runExternal delegates the build to the configured command, inheriting
// stdout/stderr so its diagnostics reach the operator unchanged.
func (r *Runner) runExternal(ctx context.Context) error {
	slog.Info("Running external build command",
		logfields.Name(r.cfg.Build.Command),
		logfields.Path(r.repoDir))

	cmd := exec.CommandContext(ctx, r.cfg.Build.Command, r.cfg.Build.Args...)
	cmd.Dir = r.repoDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.BuildError("external build command failed").
			WithContext("command", r.cfg.Build.Command).
			WithCause(err).
			Build()
	}
	return nil
}
