package publish

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/blogsmith/blogsmith/internal/config"
	"github.com/blogsmith/blogsmith/internal/foundation/errors"
	"github.com/blogsmith/blogsmith/internal/git"
	"github.com/blogsmith/blogsmith/internal/logfields"
	"github.com/blogsmith/blogsmith/internal/metrics"
)

// Step names used in logs and metrics.
const (
	StepCleanBranches  = "clean-branches"
	StepCreateDraft    = "create-draft"
	StepCommitSnapshot = "commit-snapshot"
	StepSplitSubtree   = "split-subtree"
	StepForcePush      = "force-push"
	StepRestoreWorking = "restore-working"
)

// Request carries every parameter of one publish run. Zero fields fall back
// to the conventional names (public, draft, master, dev, origin).
type Request struct {
	BuildDir      string
	DraftBranch   string
	PublishBranch string
	WorkBranch    string
	Remote        string
	CommitMessage string
	Committer     git.Signature
}

func (r *Request) applyDefaults() {
	if r.BuildDir == "" {
		r.BuildDir = config.DefaultOutputDir
	}
	if r.DraftBranch == "" {
		r.DraftBranch = config.DefaultDraftBranch
	}
	if r.PublishBranch == "" {
		r.PublishBranch = config.DefaultPublishBranch
	}
	if r.WorkBranch == "" {
		r.WorkBranch = config.DefaultWorkingBranch
	}
	if r.Remote == "" {
		r.Remote = config.DefaultRemote
	}
	if r.CommitMessage == "" {
		r.CommitMessage = config.DefaultCommitMessage
	}
	if r.Committer.Name == "" {
		r.Committer.Name = config.DefaultCommitterName
	}
	if r.Committer.Email == "" {
		r.Committer.Email = config.DefaultCommitterEmail
	}
}

// Sequencer drives the publish sequence against a version-control client.
// It holds no ambient state; the client carries the repository handle.
type Sequencer struct {
	client   git.Client
	recorder metrics.Recorder
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Sequencer) { s.recorder = r }
}

// NewSequencer creates a Sequencer for the given client.
func NewSequencer(client git.Client, opts ...Option) *Sequencer {
	s := &Sequencer{client: client, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish runs the six-step sequence. The first failing step aborts the rest;
// the error carries the step name. On success the working branch is checked
// out and the remote publish branch mirrors the build output tree.
func (s *Sequencer) Publish(ctx context.Context, req Request) error {
	req.applyDefaults()

	runID := uuid.NewString()
	log := slog.With(logfields.RunID(runID))

	log.Info("Starting publish",
		logfields.Path(req.BuildDir),
		logfields.Branch(req.PublishBranch),
		logfields.Remote(req.Remote))

	steps := []struct {
		name string
		run  func() error
	}{
		{StepCleanBranches, func() error {
			if err := s.client.DeleteBranch(req.DraftBranch); err != nil {
				return err
			}
			return s.client.DeleteBranch(req.PublishBranch)
		}},
		{StepCreateDraft, func() error {
			return s.client.CreateBranch(req.DraftBranch)
		}},
		{StepCommitSnapshot, func() error {
			if err := s.client.ForceAdd(req.BuildDir); err != nil {
				return err
			}
			hash, err := s.client.Commit(req.CommitMessage, req.Committer)
			if err != nil {
				return err
			}
			log.Debug("Snapshot committed", logfields.Commit(shortHash(hash)))
			return nil
		}},
		{StepSplitSubtree, func() error {
			hash, err := s.client.SubtreeSplit(req.BuildDir, req.DraftBranch, req.PublishBranch)
			if err != nil {
				return err
			}
			log.Debug("Subtree split", logfields.Commit(shortHash(hash)), logfields.Branch(req.PublishBranch))
			return nil
		}},
		{StepForcePush, func() error {
			return s.client.ForcePush(ctx, req.Remote, req.PublishBranch, req.PublishBranch)
		}},
		{StepRestoreWorking, func() error {
			return s.client.Checkout(req.WorkBranch)
		}},
	}

	for _, step := range steps {
		if err := s.runStep(log, step.name, step.run); err != nil {
			s.recorder.IncPublishOutcome("failed")
			return errors.WrapError(err, errors.CategoryPublish, "publish aborted").
				WithContext("step", step.name).
				Build()
		}
	}

	s.recorder.IncPublishOutcome("success")
	log.Info("Publish complete",
		logfields.Branch(req.WorkBranch),
		logfields.Remote(req.Remote))
	return nil
}

func (s *Sequencer) runStep(log *slog.Logger, name string, fn func() error) error {
	log.Debug("Starting step", logfields.Step(name))
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	s.recorder.ObserveStepDuration(name, elapsed)
	if err != nil {
		s.recorder.IncStepResult(name, metrics.ResultFailure)
		log.Error("Step failed", logfields.Step(name), logfields.Error(err))
		return err
	}
	s.recorder.IncStepResult(name, metrics.ResultSuccess)
	log.Debug("Step completed", logfields.Step(name), logfields.DurationMS(float64(elapsed.Milliseconds())))
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
