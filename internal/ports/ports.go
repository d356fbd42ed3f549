package ports

import (
	"context"
	"time"

	"svw.info/indices/internal/domain"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Attempts int
	Duration time.Duration
}

// RNG draws uniform integers from [low, high] inclusive.
type RNG interface {
	Intn(low, high int) int
}

// StageGenerator synthesizes the stage at a zero-based index.
type StageGenerator interface {
	Generate(ctx context.Context, cfg domain.Config, index int) (*domain.Stage, Stats, error)
}

// RootFinder recovers rational roots with multiplicities from coefficients.
type RootFinder interface {
	Roots(ctx context.Context, coeffs []int) ([]domain.Root, []int, Stats, error)
}

// GuessValidator turns a raw guess into a reduced root for the stage.
type GuessValidator interface {
	Validate(stage *domain.Stage, g domain.Guess) (domain.Root, error)
}

// Hinter proposes the next unconfirmed root from a public snapshot.
type Hinter interface {
	Hint(ctx context.Context, snap domain.Snapshot) (domain.Hint, bool, error)
}

// OutcomeListener receives every emitted result (host strike/solve hooks).
type OutcomeListener interface {
	OnOutcome(id string, r domain.Result)
}

// Session is one running puzzle instance.
type Session interface {
	ID() string
	Config() domain.Config
	CreatedAt() time.Time
	Snapshot() domain.Snapshot
	SubmitGuess(g domain.Guess) domain.Result
	SubmitBatch(resolve func(domain.Snapshot) ([]domain.Guess, error)) ([]domain.Result, domain.Snapshot, error)
	Resume(ctx context.Context) (domain.Snapshot, error)
}

// Storage keeps live sessions for the lifetime of the process.
type Storage interface {
	Save(ctx context.Context, s Session) error
	Load(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.SessionMeta, error)
}
