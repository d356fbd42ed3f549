// Package engine runs one puzzle instance: it owns the active stage, judges
// guesses and walks the InProgress / Locked / Solved lifecycle.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/ports"
	"svw.info/indices/internal/validator"
)

// Default presentation delays before a host should call Resume.
const (
	DefaultStrikeDelay = time.Second
	DefaultStageDelay  = 500 * time.Millisecond
)

// Options wires the engine's collaborators. Zero values get defaults.
type Options struct {
	Logger      *slog.Logger
	Listener    ports.OutcomeListener
	Validator   ports.GuessValidator
	StrikeDelay time.Duration
	StageDelay  time.Duration
	Now         func() time.Time
}

// Engine is safe for concurrent use; guesses are judged one at a time.
type Engine struct {
	mu sync.Mutex

	id        string
	cfg       domain.Config
	gen       ports.StageGenerator
	validator ports.GuessValidator
	listener  ports.OutcomeListener
	log       *slog.Logger
	created   time.Time

	strikeDelay time.Duration
	stageDelay  time.Duration

	state     domain.State
	stage     *domain.Stage
	confirmed []domain.Root // distinct, in confirmation order
	pending   domain.Outcome
	strikes   int
}

// Start validates cfg, builds the engine under the orchestrator-assigned id
// and initializes the first stage.
func Start(ctx context.Context, id string, cfg domain.Config, gen ports.StageGenerator, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Validator == nil {
		opts.Validator = validator.New()
	}
	if opts.StrikeDelay == 0 {
		opts.StrikeDelay = DefaultStrikeDelay
	}
	if opts.StageDelay == 0 {
		opts.StageDelay = DefaultStageDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	e := &Engine{
		id:          id,
		cfg:         cfg,
		gen:         gen,
		validator:   opts.Validator,
		listener:    opts.Listener,
		log:         opts.Logger.With("module", cfg.Name(), "id", id),
		created:     opts.Now(),
		strikeDelay: opts.StrikeDelay,
		stageDelay:  opts.StageDelay,
	}
	if err := e.initStage(ctx, 0); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) ID() string { return e.id }

func (e *Engine) Config() domain.Config { return e.cfg }

func (e *Engine) CreatedAt() time.Time { return e.created }

// initStage replaces the active stage. Callers hold mu or own e exclusively.
func (e *Engine) initStage(ctx context.Context, index int) error {
	st, stats, err := e.gen.Generate(ctx, e.cfg, index)
	if err != nil {
		return fmt.Errorf("generate stage %d: %w", index+1, err)
	}
	e.stage = st
	e.confirmed = nil
	e.pending = domain.OutcomeNone
	e.state = domain.StateInProgress

	e.log.Info("commencing stage", "stage", index+1, "of", e.cfg.StageCount)
	e.log.Info("distinct roots selected", "roots", joinRoots(sortedRoots(st.Roots)))
	e.log.Info("root multiplicities", "counts", multiplicityLog(st))
	e.log.Info("generated equation", "equation", st.Equation, "degree", st.Degree(), "attempts", stats.Attempts, "dur", stats.Duration.Round(time.Microsecond))
	if labels := st.Labels(); len(labels) > 0 {
		e.log.Debug("buttons", "labels", strings.Join(labels, ","))
	}
	return nil
}

// SubmitGuess judges one guess. Guesses while Locked or Solved are ignored
// and return OutcomeNone.
func (e *Engine) SubmitGuess(g domain.Guess) domain.Result {
	e.mu.Lock()
	res := e.submit(g)
	e.mu.Unlock()

	if e.listener != nil && res.Outcome != domain.OutcomeNone {
		e.listener.OnOutcome(e.id, res)
	}
	return res
}

// SubmitBatch hands the current snapshot to resolve and judges the guesses
// it returns in order, all under one lock, so no Resume can swap the stage
// between resolving and judging. Judging stops at the first result that
// locks the puzzle or is ignored. A resolve error leaves the puzzle as it was.
func (e *Engine) SubmitBatch(resolve func(domain.Snapshot) ([]domain.Guess, error)) ([]domain.Result, domain.Snapshot, error) {
	e.mu.Lock()
	guesses, err := resolve(e.snapshot())
	if err != nil {
		snap := e.snapshot()
		e.mu.Unlock()
		return nil, snap, err
	}
	var out []domain.Result
	for _, g := range guesses {
		res := e.submit(g)
		out = append(out, res)
		if res.Outcome.Locks() || res.Outcome == domain.OutcomeNone {
			break
		}
	}
	snap := e.snapshot()
	e.mu.Unlock()

	if e.listener != nil {
		for _, res := range out {
			if res.Outcome != domain.OutcomeNone {
				e.listener.OnOutcome(e.id, res)
			}
		}
	}
	return out, snap, nil
}

func (e *Engine) submit(g domain.Guess) domain.Result {
	if e.state != domain.StateInProgress {
		return e.result(domain.OutcomeNone)
	}

	root, err := e.validator.Validate(e.stage, g)
	if err != nil {
		e.log.Debug("invalid input", "err", err)
		res := e.result(domain.OutcomeInvalidInput)
		res.Reason = err.Error()
		return res
	}

	if !e.stage.Contains(root) {
		e.strikes++
		e.pending = domain.OutcomeStrike
		e.state = domain.StateLocked
		e.log.Info("root incorrectly selected; starting over", "root", root.String(), "strikes", e.strikes)
		res := e.result(domain.OutcomeStrike)
		res.Root = &root
		res.ResumeAfter = e.strikeDelay
		return res
	}

	if slices.Contains(e.confirmed, root) {
		res := e.result(domain.OutcomeAlreadyConfirmed)
		res.Root = &root
		return res
	}

	e.confirmed = append(e.confirmed, root)
	e.log.Info("root correctly selected", "root", root.String(), "confirmed", len(e.confirmed), "of", len(e.stage.Roots))
	events := []domain.Outcome{domain.OutcomeCorrectPartial}
	var delay time.Duration

	if len(e.confirmed) == len(e.stage.Roots) {
		events = append(events, domain.OutcomeStageComplete)
		if e.stage.Index == e.cfg.StageCount-1 {
			events = append(events, domain.OutcomeModuleSolved)
			e.state = domain.StateSolved
			e.log.Info("all roots found; module disarmed")
		} else {
			e.state = domain.StateLocked
			e.pending = domain.OutcomeStageComplete
			delay = e.stageDelay
			e.log.Info("stage passed", "stage", e.stage.Index+1)
		}
	}

	res := e.result(events[len(events)-1])
	res.Events = events
	res.Root = &root
	res.ResumeAfter = delay
	return res
}

func (e *Engine) result(o domain.Outcome) domain.Result {
	return domain.Result{
		Outcome: o,
		Events:  []domain.Outcome{o},
		Stage:   e.stage.Index,
		State:   e.state,
	}
}

// Resume leaves Locked: a strike regenerates the same stage, a cleared stage
// advances to the next one. In any other state it only reports the snapshot.
// A failed regeneration leaves the engine Locked so Resume can be retried.
func (e *Engine) Resume(ctx context.Context) (domain.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != domain.StateLocked {
		return e.snapshot(), nil
	}
	next := e.stage.Index
	if e.pending == domain.OutcomeStageComplete {
		next++
	}
	if err := e.initStage(ctx, next); err != nil {
		e.log.Error("stage regeneration failed", "stage", next+1, "err", err)
		return e.snapshot(), err
	}
	return e.snapshot(), nil
}

// State reports the lifecycle position.
func (e *Engine) State() domain.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentDisplayString is the wrapped equation of the active stage.
func (e *Engine) CurrentDisplayString() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stage.Display
}

// CurrentCandidateLabels lists the button labels, or nil on free entry.
func (e *Engine) CurrentCandidateLabels() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stage.Labels()
}

// Snapshot is the public view of the puzzle.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() domain.Snapshot {
	st := e.stage
	s := domain.Snapshot{
		ID:          e.id,
		Variant:     e.cfg.Variant,
		DisplayName: e.cfg.Name(),
		State:       e.state,
		Stage:       st.Index,
		StageCount:  e.cfg.StageCount,
		Equation:    st.Equation,
		Display:     st.Display,
		Confirmed:   make([]string, len(e.confirmed)),
		Remaining:   len(st.Roots) - len(e.confirmed),
		Fractions:   st.Rational,
		Strikes:     e.strikes,
	}
	for i, r := range e.confirmed {
		s.Confirmed[i] = r.String()
	}
	for _, c := range st.Candidates {
		s.Candidates = append(s.Candidates, domain.CandidateView{
			Label:     c.Label,
			Confirmed: slices.Contains(e.confirmed, c.Value),
		})
	}
	return s
}

func sortedRoots(rs []domain.Root) []domain.Root {
	out := slices.Clone(rs)
	slices.SortFunc(out, func(a, b domain.Root) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return out
}

func joinRoots(rs []domain.Root) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

func multiplicityLog(st *domain.Stage) string {
	parts := make([]string, 0, len(st.Roots))
	for _, r := range sortedRoots(st.Roots) {
		i := slices.Index(st.Roots, r)
		parts = append(parts, fmt.Sprintf("[%s: %d]", r, st.Multiplicity[i]))
	}
	return strings.Join(parts, ", ")
}
