package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/equation"
	"svw.info/indices/internal/generator"
	"svw.info/indices/internal/polynomial"
	"svw.info/indices/internal/ports"
	"svw.info/indices/internal/random"
	"svw.info/indices/internal/solver"
)

// queueGen hands out prepared root sets in order, one per Generate call.
type queueGen struct {
	sets     [][]domain.Root
	calls    []int
	rational bool
	fail     error
}

func (q *queueGen) Generate(_ context.Context, cfg domain.Config, index int) (*domain.Stage, ports.Stats, error) {
	if q.fail != nil {
		return nil, ports.Stats{}, q.fail
	}
	roots := q.sets[0]
	if len(q.sets) > 1 {
		q.sets = q.sets[1:]
	}
	q.calls = append(q.calls, index)
	mult := make([]int, len(roots))
	for i := range mult {
		mult[i] = 1
	}
	c := polynomial.Expand(roots, mult)
	eq := equation.Format(c)
	return &domain.Stage{
		Index:        index,
		Roots:        roots,
		Multiplicity: mult,
		Coefficients: c,
		Equation:     eq,
		Display:      equation.Wrap(eq),
		Rational:     q.rational,
	}, ports.Stats{}, nil
}

type recorder struct {
	mu  sync.Mutex
	got []domain.Outcome
}

func (r *recorder) OnOutcome(_ string, res domain.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, res.Outcome)
}

func freeEntry(stages int) domain.Config {
	return domain.Config{
		Variant:           "test",
		RootCount:         2,
		CandidatePoolSize: domain.PoolFreeEntry,
		StageCount:        stages,
		MinRoot:           -9,
		MaxRoot:           9,
	}
}

func start(t *testing.T, cfg domain.Config, gen ports.StageGenerator, opts Options) *Engine {
	t.Helper()
	e, err := Start(context.Background(), "m1", cfg, gen, opts)
	require.NoError(t, err)
	return e
}

func TestEngineScenarioPartialStrikeRegenerate(t *testing.T) {
	gen := &queueGen{sets: [][]domain.Root{
		{domain.Int(3), domain.Int(-1)},
		{domain.Int(-1), domain.Int(3)},
	}}
	rec := &recorder{}
	e := start(t, freeEntry(1), gen, Options{Listener: rec})
	assert.Equal(t, "x²-2x-3", e.Snapshot().Equation)

	res := e.SubmitGuess(domain.GuessInt(3))
	assert.Equal(t, domain.OutcomeCorrectPartial, res.Outcome)
	require.NotNil(t, res.Root)
	assert.Equal(t, domain.Int(3), *res.Root)

	res = e.SubmitGuess(domain.GuessInt(3))
	assert.Equal(t, domain.OutcomeAlreadyConfirmed, res.Outcome)

	res = e.SubmitGuess(domain.GuessInt(5))
	assert.Equal(t, domain.OutcomeStrike, res.Outcome)
	assert.Equal(t, domain.StateLocked, res.State)
	assert.Equal(t, DefaultStrikeDelay, res.ResumeAfter)

	// locked: ignored, nothing emitted
	res = e.SubmitGuess(domain.GuessInt(-1))
	assert.Equal(t, domain.OutcomeNone, res.Outcome)
	assert.Equal(t, domain.StateLocked, e.State())

	snap, err := e.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateInProgress, snap.State)
	assert.Equal(t, 0, snap.Stage)
	assert.Empty(t, snap.Confirmed, "regeneration clears confirmations")
	assert.Equal(t, []int{0, 0}, gen.calls)

	res = e.SubmitGuess(domain.GuessInt(-1))
	assert.Equal(t, domain.OutcomeCorrectPartial, res.Outcome)
	res = e.SubmitGuess(domain.GuessInt(3))
	assert.Equal(t, domain.OutcomeModuleSolved, res.Outcome)
	assert.Equal(t, []domain.Outcome{domain.OutcomeCorrectPartial, domain.OutcomeStageComplete, domain.OutcomeModuleSolved}, res.Events)
	assert.Equal(t, domain.StateSolved, e.State())

	// solved is terminal
	res = e.SubmitGuess(domain.GuessInt(3))
	assert.Equal(t, domain.OutcomeNone, res.Outcome)
	snap, err = e.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateSolved, snap.State)
	assert.Equal(t, 1, snap.Strikes)

	assert.Equal(t, []domain.Outcome{
		domain.OutcomeCorrectPartial,
		domain.OutcomeAlreadyConfirmed,
		domain.OutcomeStrike,
		domain.OutcomeCorrectPartial,
		domain.OutcomeModuleSolved,
	}, rec.got)
}

func TestEngineAlreadyConfirmedNeverCompletesTwice(t *testing.T) {
	gen := &queueGen{sets: [][]domain.Root{{domain.Int(2), domain.Int(4)}}}
	e := start(t, freeEntry(2), gen, Options{})

	e.SubmitGuess(domain.GuessInt(2))
	for range 3 {
		res := e.SubmitGuess(domain.GuessInt(2))
		assert.Equal(t, domain.OutcomeAlreadyConfirmed, res.Outcome)
		assert.NotContains(t, res.Events, domain.OutcomeStageComplete)
	}
	res := e.SubmitGuess(domain.GuessInt(4))
	assert.Equal(t, domain.OutcomeStageComplete, res.Outcome)
	assert.Equal(t, DefaultStageDelay, res.ResumeAfter)
	assert.Equal(t, domain.StateLocked, res.State)
}

func TestEngineAdvancesStages(t *testing.T) {
	gen := &queueGen{sets: [][]domain.Root{
		{domain.Int(1), domain.Int(2)},
		{domain.Int(-4), domain.Int(0)},
	}}
	e := start(t, freeEntry(2), gen, Options{})

	e.SubmitGuess(domain.GuessInt(1))
	res := e.SubmitGuess(domain.GuessInt(2))
	require.Equal(t, domain.OutcomeStageComplete, res.Outcome)

	snap, err := e.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Stage)
	assert.Equal(t, "x²+4x", snap.Equation)
	assert.Equal(t, []int{0, 1}, gen.calls)

	// a strike on the last stage regenerates that stage, not the first
	res = e.SubmitGuess(domain.GuessInt(9))
	require.Equal(t, domain.OutcomeStrike, res.Outcome)
	snap, err = e.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Stage)

	e.SubmitGuess(domain.GuessInt(0))
	res = e.SubmitGuess(domain.GuessInt(-4))
	assert.Equal(t, domain.OutcomeModuleSolved, res.Outcome)
}

func TestEngineRationalGuesses(t *testing.T) {
	gen := &queueGen{sets: [][]domain.Root{{{Num: 1, Den: 2}, domain.Int(-3)}}, rational: true}
	e := start(t, freeEntry(1), gen, Options{})
	assert.Equal(t, "2x²+5x-3", e.CurrentDisplayString())

	res := e.SubmitGuess(domain.GuessFraction(4, 8))
	assert.Equal(t, domain.OutcomeInvalidInput, res.Outcome)
	assert.NotEmpty(t, res.Reason)
	assert.Equal(t, domain.StateInProgress, e.State())

	res = e.SubmitGuess(domain.GuessFraction(0, 5))
	assert.Equal(t, domain.OutcomeInvalidInput, res.Outcome)

	res = e.SubmitGuess(domain.GuessFraction(1, 2))
	assert.Equal(t, domain.OutcomeCorrectPartial, res.Outcome)
	assert.Equal(t, []string{"1/2"}, e.Snapshot().Confirmed)
}

func TestEngineIntegralStageRefusesFractions(t *testing.T) {
	gen := &queueGen{sets: [][]domain.Root{{domain.Int(1), domain.Int(2)}}}
	e := start(t, freeEntry(1), gen, Options{})
	res := e.SubmitGuess(domain.GuessFraction(1, 2))
	assert.Equal(t, domain.OutcomeInvalidInput, res.Outcome)
	assert.Equal(t, domain.StateInProgress, e.State())
}

func TestEngineButtons(t *testing.T) {
	cfg, err := domain.Preset(domain.VariantMaximus)
	require.NoError(t, err)
	e := start(t, cfg, generator.New(random.NewSource(21), solver.New()), Options{})

	labels := e.CurrentCandidateLabels()
	require.Len(t, labels, domain.PoolButtons)

	e.mu.Lock()
	var correct, wrong []int
	for i, c := range e.stage.Candidates {
		if c.Correct {
			correct = append(correct, i)
		} else {
			wrong = append(wrong, i)
		}
	}
	e.mu.Unlock()
	require.Len(t, correct, 4)

	res := e.SubmitGuess(domain.GuessButton(correct[0]))
	assert.Equal(t, domain.OutcomeCorrectPartial, res.Outcome)
	assert.True(t, e.Snapshot().Candidates[correct[0]].Confirmed)

	res = e.SubmitGuess(domain.GuessButton(99))
	assert.Equal(t, domain.OutcomeInvalidInput, res.Outcome)

	res = e.SubmitGuess(domain.GuessButton(wrong[0]))
	assert.Equal(t, domain.OutcomeStrike, res.Outcome)
	_, err = e.Resume(context.Background())
	require.NoError(t, err)

	e.mu.Lock()
	correct = correct[:0]
	for i, c := range e.stage.Candidates {
		if c.Correct {
			correct = append(correct, i)
		}
	}
	e.mu.Unlock()
	var last domain.Result
	for _, i := range correct {
		last = e.SubmitGuess(domain.GuessButton(i))
	}
	assert.Equal(t, domain.OutcomeModuleSolved, last.Outcome)
}

func TestEngineResumeFailureStaysLocked(t *testing.T) {
	gen := &queueGen{sets: [][]domain.Root{{domain.Int(1), domain.Int(2)}}}
	e := start(t, freeEntry(1), gen, Options{})
	e.SubmitGuess(domain.GuessInt(7))

	boom := errors.New("boom")
	gen.fail = boom
	_, err := e.Resume(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.StateLocked, e.State())

	gen.fail = nil
	snap, err := e.Resume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateInProgress, snap.State)
}

func TestStartRejectsInvalidConfig(t *testing.T) {
	cfg := freeEntry(1)
	cfg.StageCount = 4
	_, err := Start(context.Background(), "bad", cfg, &queueGen{}, Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestEngineSerializesConcurrentGuesses(t *testing.T) {
	gen := &queueGen{sets: [][]domain.Root{{domain.Int(1), domain.Int(2)}}}
	e := start(t, freeEntry(1), gen, Options{})

	var wg sync.WaitGroup
	results := make(chan domain.Result, 40)
	for range 20 {
		wg.Add(2)
		go func() { defer wg.Done(); results <- e.SubmitGuess(domain.GuessInt(1)) }()
		go func() { defer wg.Done(); results <- e.SubmitGuess(domain.GuessInt(2)) }()
	}
	wg.Wait()
	close(results)

	solved := 0
	for r := range results {
		if r.Outcome == domain.OutcomeModuleSolved {
			solved++
		}
	}
	assert.Equal(t, 1, solved)
}

func TestSubmitBatchStopsAtStrike(t *testing.T) {
	gen := &queueGen{sets: [][]domain.Root{{domain.Int(3), domain.Int(-1)}}}
	rec := &recorder{}
	e := start(t, freeEntry(1), gen, Options{Listener: rec})

	results, snap, err := e.SubmitBatch(func(s domain.Snapshot) ([]domain.Guess, error) {
		assert.Equal(t, domain.StateInProgress, s.State)
		return []domain.Guess{domain.GuessInt(3), domain.GuessInt(5), domain.GuessInt(-1)}, nil
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, domain.OutcomeStrike, results[1].Outcome)
	assert.Equal(t, domain.StateLocked, snap.State)
	assert.Equal(t, []domain.Outcome{domain.OutcomeCorrectPartial, domain.OutcomeStrike}, rec.got)
}

func TestSubmitBatchResolveErrorAppliesNothing(t *testing.T) {
	gen := &queueGen{sets: [][]domain.Root{{domain.Int(3), domain.Int(-1)}}}
	e := start(t, freeEntry(1), gen, Options{})
	boom := errors.New("boom")

	results, snap, err := e.SubmitBatch(func(domain.Snapshot) ([]domain.Guess, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, results)
	assert.Equal(t, 2, snap.Remaining)
	assert.Equal(t, domain.StateInProgress, e.State())
}

func TestSubmitBatchHoldsStageAgainstResume(t *testing.T) {
	gen := &queueGen{sets: [][]domain.Root{
		{domain.Int(1), domain.Int(2)},
		{domain.Int(4), domain.Int(5)},
	}}
	e := start(t, freeEntry(1), gen, Options{})
	e.SubmitGuess(domain.GuessInt(9))
	require.Equal(t, domain.StateLocked, e.State())

	resumed := make(chan struct{})
	results, _, err := e.SubmitBatch(func(s domain.Snapshot) ([]domain.Guess, error) {
		go func() {
			_, _ = e.Resume(context.Background())
			close(resumed)
		}()
		select {
		case <-resumed:
			t.Error("resume swapped the stage while a batch was resolving")
		case <-time.After(20 * time.Millisecond):
		}
		assert.Equal(t, "x²-3x+2", s.Equation)
		return []domain.Guess{domain.GuessInt(1)}, nil
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.OutcomeNone, results[0].Outcome)

	<-resumed
	assert.Equal(t, "x²-9x+20", e.Snapshot().Equation)
	assert.Equal(t, domain.StateInProgress, e.State())
}
