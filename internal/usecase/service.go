package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"svw.info/indices/internal/command"
	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/engine"
	"svw.info/indices/internal/ports"
	"svw.info/indices/internal/random"
	"svw.info/indices/internal/validator"
)

const tracerName = "svw.info/indices/usecase"

// maxSolveSteps bounds a forced solve. Three stages of four roots plus their
// resumes need 15.
const maxSolveSteps = 64

type Service struct {
	Storage      ports.Storage
	Hinter       ports.Hinter
	NewGenerator func(seed int64) ports.StageGenerator
	Listener     ports.OutcomeListener
	Logger       *slog.Logger
	Tracer       trace.Tracer
	StrikeDelay  time.Duration
	StageDelay   time.Duration
}

func NewService(newGen func(seed int64) ports.StageGenerator, h ports.Hinter, st ports.Storage, logger *slog.Logger) *Service {
	return &Service{NewGenerator: newGen, Hinter: h, Storage: st, Logger: logger}
}

var (
	errNotConfigured = errors.New("usecase dependency not configured")
	// ErrNoHint indicates the hinter found nothing to propose for an active stage.
	ErrNoHint = errors.New("no hint available")
)

// StartRequest picks a preset by Variant, or uses Config verbatim when set.
// A zero Seed draws a fresh one.
type StartRequest struct {
	Variant string
	Config  *domain.Config
	Seed    int64
}

// CommandResult lists the result of every guess a command applied, in order.
type CommandResult struct {
	Results  []domain.Result `json:"results"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// SolveResult is the outcome of a forced solve.
type SolveResult struct {
	Results  []domain.Result `json:"results"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

func (u *Service) log() *slog.Logger {
	if u.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return u.Logger
}

func (u *Service) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tr := u.Tracer
	if tr == nil {
		tr = otel.Tracer(tracerName)
	}
	return tr.Start(ctx, name, trace.WithAttributes(attrs...))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (u *Service) load(ctx context.Context, id string) (ports.Session, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}

// Start creates a puzzle under a fresh id and stores it.
func (u *Service) Start(ctx context.Context, req StartRequest) (domain.Snapshot, error) {
	ctx, span := u.span(ctx, "indices.start")
	defer span.End()

	if u.NewGenerator == nil || u.Storage == nil {
		return domain.Snapshot{}, fail(span, errNotConfigured)
	}
	var cfg domain.Config
	if req.Config != nil {
		cfg = *req.Config
	} else {
		var err error
		if cfg, err = domain.Preset(req.Variant); err != nil {
			return domain.Snapshot{}, fail(span, err)
		}
	}
	seed := req.Seed
	if seed == 0 {
		var err error
		if seed, err = random.NewSeed(); err != nil {
			return domain.Snapshot{}, fail(span, err)
		}
	}
	id := uuid.NewString()
	span.SetAttributes(
		attribute.String("indices.session", id),
		attribute.String("indices.variant", cfg.Variant),
		attribute.Int64("indices.seed", seed),
	)

	e, err := engine.Start(ctx, id, cfg, u.NewGenerator(seed), engine.Options{
		Logger:      u.log(),
		Listener:    u.Listener,
		StrikeDelay: u.StrikeDelay,
		StageDelay:  u.StageDelay,
	})
	if err != nil {
		return domain.Snapshot{}, fail(span, err)
	}
	if err := u.Storage.Save(ctx, e); err != nil {
		return domain.Snapshot{}, fail(span, err)
	}
	u.log().Info("puzzle started", "id", id, "variant", cfg.Variant, "seed", seed)
	return e.Snapshot(), nil
}

// Guess submits one guess to a stored puzzle.
func (u *Service) Guess(ctx context.Context, id string, g domain.Guess) (domain.Result, error) {
	ctx, span := u.span(ctx, "indices.guess", attribute.String("indices.session", id))
	defer span.End()

	sess, err := u.load(ctx, id)
	if err != nil {
		return domain.Result{}, fail(span, err)
	}
	res := sess.SubmitGuess(g)
	span.SetAttributes(attribute.String("indices.outcome", res.Outcome.String()))
	return res, nil
}

// Resume leaves the Locked state once the presentation delay has elapsed.
func (u *Service) Resume(ctx context.Context, id string) (domain.Snapshot, error) {
	ctx, span := u.span(ctx, "indices.resume", attribute.String("indices.session", id))
	defer span.End()

	sess, err := u.load(ctx, id)
	if err != nil {
		return domain.Snapshot{}, fail(span, err)
	}
	snap, err := sess.Resume(ctx)
	if err != nil {
		return snap, fail(span, err)
	}
	span.SetAttributes(attribute.Int("indices.stage", snap.Stage+1))
	return snap, nil
}

// State returns the public snapshot of a stored puzzle.
func (u *Service) State(ctx context.Context, id string) (domain.Snapshot, error) {
	sess, err := u.load(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// Command parses and applies one command line. Every argument is checked
// against the current stage before the first guess is applied; application
// stops as soon as the puzzle locks or is solved.
func (u *Service) Command(ctx context.Context, id, text string) (CommandResult, error) {
	ctx, span := u.span(ctx, "indices.command", attribute.String("indices.session", id))
	defer span.End()

	cmd, err := command.Parse(text)
	if err != nil {
		return CommandResult{}, fail(span, err)
	}
	span.SetAttributes(attribute.String("indices.verb", string(cmd.Verb)))
	sess, err := u.load(ctx, id)
	if err != nil {
		return CommandResult{}, fail(span, err)
	}

	results, snap, err := sess.SubmitBatch(func(snap domain.Snapshot) ([]domain.Guess, error) {
		if cmd.HasFraction() && !snap.Fractions {
			return nil, fmt.Errorf("%w: stage %d", validator.ErrFractionNotAllowed, snap.Stage+1)
		}
		labels := make([]string, len(snap.Candidates))
		for i, c := range snap.Candidates {
			labels[i] = c.Label
		}
		return cmd.Resolve(labels)
	})
	out := CommandResult{Results: results, Snapshot: snap}
	if err != nil {
		return out, fail(span, err)
	}
	if n := len(out.Results); n > 0 {
		span.SetAttributes(attribute.String("indices.outcome", out.Results[n-1].Outcome.String()))
	}
	return out, nil
}

// Hint proposes the next root for a stored puzzle.
func (u *Service) Hint(ctx context.Context, id string) (domain.Hint, bool, error) {
	if u.Hinter == nil {
		return domain.Hint{}, false, errNotConfigured
	}
	sess, err := u.load(ctx, id)
	if err != nil {
		return domain.Hint{}, false, err
	}
	return u.Hinter.Hint(ctx, sess.Snapshot())
}

// Solve drives a puzzle to Solved through the public guess API, resuming
// immediately after every stage. It never costs a strike.
func (u *Service) Solve(ctx context.Context, id string) (SolveResult, error) {
	ctx, span := u.span(ctx, "indices.solve", attribute.String("indices.session", id))
	defer span.End()

	if u.Hinter == nil {
		return SolveResult{}, fail(span, errNotConfigured)
	}
	sess, err := u.load(ctx, id)
	if err != nil {
		return SolveResult{}, fail(span, err)
	}

	var out SolveResult
	for range maxSolveSteps {
		if err := ctx.Err(); err != nil {
			return out, fail(span, err)
		}
		snap := sess.Snapshot()
		switch snap.State {
		case domain.StateSolved:
			out.Snapshot = snap
			u.log().Info("puzzle force-solved", "id", id, "guesses", len(out.Results))
			return out, nil
		case domain.StateLocked:
			if _, err := sess.Resume(ctx); err != nil {
				return out, fail(span, err)
			}
			continue
		}
		h, ok, err := u.Hinter.Hint(ctx, snap)
		if err != nil {
			return out, fail(span, err)
		}
		if !ok {
			return out, fail(span, fmt.Errorf("%w: stage %d", ErrNoHint, snap.Stage+1))
		}
		out.Results = append(out.Results, sess.SubmitGuess(guessFor(snap, h.Root)))
	}
	return out, fail(span, fmt.Errorf("solve did not finish in %d steps", maxSolveSteps))
}

// guessFor presses the matching button on button stages and types the value
// otherwise.
func guessFor(snap domain.Snapshot, r domain.Root) domain.Guess {
	for i, c := range snap.Candidates {
		if c.Label == r.String() {
			return domain.GuessButton(i)
		}
	}
	return domain.GuessFraction(r.Num, r.Den)
}

// End discards a puzzle.
func (u *Service) End(ctx context.Context, id string) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	return u.Storage.Delete(ctx, strings.TrimSpace(id))
}

func (u *Service) List(ctx context.Context) ([]domain.SessionMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}

// Variants lists the preset names Start accepts.
func (u *Service) Variants() []string { return domain.Variants() }
