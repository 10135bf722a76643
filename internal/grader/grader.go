// Package grader runs the end-to-end grading of one submission: read the
// notebook, compile it, dispatch to the part's checks, score and send
// feedback.
package grader

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nbgrade/internal/assignment"
	"nbgrade/internal/compiler"
	"nbgrade/internal/config"
	"nbgrade/internal/domain"
	"nbgrade/internal/feedback"
	"nbgrade/internal/grading"
	"nbgrade/internal/namespace"
	"nbgrade/internal/notebook"
	"nbgrade/internal/storage"
)

// Learner-facing messages.
const (
	msgReadFailed    = "There was a problem reading your notebook. Details:\n%v"
	msgOutdated      = "You are submitting a version of the assignment that is behind the latest version.\nThe latest version is %s and you are on version %s."
	msgCompileFailed = "There was a problem compiling the code from your notebook, please check that you saved before submitting. Details:\n%v"
	msgGradingFailed = "There was an error grading your submission. Details:\n%v"
	msgObjectMissing = "Unable to find object required for grading in your code.\n"
	msgPartialHint   = "The // grade-up-to-here comment in the notebook might be causing the problem."
)

// Request names what to grade.
type Request struct {
	Assignment     string
	PartID         string
	SubmissionPath string
	// SolutionPath is optional; the reference namespace is nil without it.
	SolutionPath string
}

// Grader grades submissions.
type Grader struct {
	cfg      *config.Config
	compiler *compiler.Compiler
	sender   feedback.Sender
	store    storage.Storage
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a Grader. store may be nil to skip persisting runs.
func New(cfg *config.Config, comp *compiler.Compiler, sender feedback.Sender, store storage.Storage, logger *zap.Logger) *Grader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Grader{
		cfg:      cfg,
		compiler: comp,
		sender:   sender,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Grade grades one part of one submission and sends the feedback.
//
// Problems with the submission end the run with feedback and a nil error.
// The error is reserved for problems of the grading setup: an unknown
// assignment or part, a broken reference solution, a cancelled context, or
// feedback that could not be delivered.
func (g *Grader) Grade(ctx context.Context, req Request) (*domain.GradingRun, error) {
	registry, err := assignment.Lookup(req.Assignment)
	if err != nil {
		return nil, err
	}
	factory, err := registry.Resolve(req.PartID)
	if err != nil {
		return nil, err
	}
	cut, err := g.cfg.CutPattern()
	if err != nil {
		return nil, err
	}

	run := &domain.GradingRun{
		ID:         uuid.NewString(),
		Assignment: req.Assignment,
		PartID:     req.PartID,
		Submission: req.SubmissionPath,
		StartedAt:  g.now(),
	}
	log := g.logger.With(
		zap.String("run", run.ID),
		zap.String("assignment", run.Assignment),
		zap.String("part", run.PartID),
		zap.String("submission", run.Submission))

	nb, err := notebook.Read(req.SubmissionPath)
	if err != nil {
		log.Info("submission unreadable", zap.Error(err))
		return g.finish(run, domain.Feedback{Message: fmt.Sprintf(msgReadFailed, err), IsError: true})
	}

	if latest := g.cfg.Manifest.LatestVersion; !nb.IsUpToDate(latest) {
		log.Info("submission outdated", zap.String("version", nb.Version()), zap.String("latest", latest))
		return g.finish(run, domain.Feedback{Message: fmt.Sprintf(msgOutdated, latest, nb.Version())})
	}

	learner, err := g.compile(ctx, nb, cut, "learner")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Info("submission does not compile", zap.Error(err))
		return g.finish(run, domain.Feedback{Message: fmt.Sprintf(msgCompileFailed, err)})
	}

	var solution namespace.Namespace
	if req.SolutionPath != "" {
		solutionNb, err := notebook.Read(req.SolutionPath)
		if err != nil {
			return nil, fmt.Errorf("solution notebook: %w", err)
		}
		solution, err = g.compile(ctx, solutionNb, cut, "solution")
		if err != nil {
			return nil, fmt.Errorf("solution notebook: %w", err)
		}
	}

	cases, err := runChecks(factory(learner, solution))
	if err != nil {
		log.Error("grading function failed", zap.Error(err))
		return g.finish(run, domain.Feedback{Message: fmt.Sprintf(msgGradingFailed, err), IsError: true})
	}
	run.Cases = cases

	if grading.GradedObjectMissing(cases) {
		msg := msgObjectMissing
		if nb.PartialGradingEnabled(cut) {
			msg += msgPartialHint
		}
		return g.finish(run, domain.Feedback{Message: msg, IsError: true})
	}

	score, msg := grading.ComputeScore(cases)
	log.Debug("submission graded", zap.Float64("score", score), zap.Int("cases", len(cases)))
	return g.finish(run, domain.Feedback{Score: score, Message: msg})
}

// GradeSubmission grades the configured assignment part for path.
func (g *Grader) GradeSubmission(ctx context.Context, path string) (*domain.GradingRun, error) {
	return g.Grade(ctx, Request{
		Assignment:     g.cfg.Assignment,
		PartID:         g.cfg.PartID,
		SubmissionPath: path,
		SolutionPath:   g.cfg.GetSolutionPath(),
	})
}

func (g *Grader) compile(ctx context.Context, nb *notebook.Notebook, cut *regexp.Regexp, module string) (namespace.Namespace, error) {
	graded := notebook.Apply(nb, notebook.Cut(cut), notebook.KeepTagged(g.cfg.Manifest.GradedTag))
	return g.compiler.Compile(ctx, notebook.ToScript(graded), module)
}

// runChecks runs fn, turning a panic that escaped the checks into an error.
func runChecks(fn grading.GradingFunc) (cases []domain.TestCase, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = errors.New(fmt.Sprint(r))
			}
		}
	}()
	return fn(), nil
}

func (g *Grader) finish(run *domain.GradingRun, fb domain.Feedback) (*domain.GradingRun, error) {
	run.Feedback = fb
	run.Duration = g.now().Sub(run.StartedAt)

	if g.store != nil {
		if err := g.store.Save(run); err != nil {
			g.logger.Warn("failed to store run", zap.String("run", run.ID), zap.Error(err))
		}
	}
	if err := g.sender.Send(fb); err != nil {
		return run, fmt.Errorf("send feedback: %w", err)
	}
	return run, nil
}
