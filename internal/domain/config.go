package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Variant preset names.
const (
	VariantIncreasing     = "increasing"
	VariantMaximus        = "maximus"
	VariantMaximusRewrite = "maximus-rewrite"
)

// Candidate pool sizes.
const (
	PoolFreeEntry = 4 // no buttons; guesses are typed values
	PoolButtons   = 8 // eight labelled buttons
)

// MaxDegree bounds the displayed polynomial degree.
const MaxDegree = 8

// MaxRootMagnitude bounds |MinRoot| and |MaxRoot|. At degree MaxDegree every
// coefficient, and every d^deg·P(n/d) evaluation, stays inside int64.
const MaxRootMagnitude = 9

// Config selects the shape of one puzzle instance.
type Config struct {
	Variant     string `json:"variant,omitempty"`
	DisplayName string `json:"displayName,omitempty"`

	RootCount         int  `json:"rootCount"`         // distinct roots per stage, 1..4
	AllowFractions    bool `json:"allowFractions"`    // later stages use rational roots
	CandidatePoolSize int  `json:"candidatePoolSize"` // PoolFreeEntry or PoolButtons
	StageCount        int  `json:"stageCount"`        // 1..3

	MinRoot           int  `json:"minRoot"`
	MaxRoot           int  `json:"maxRoot"`
	ExtraMultiplicity int  `json:"extraMultiplicity"` // increments spread over the roots after the initial 1 each
	GrowingDegree     bool `json:"growingDegree"`     // stage n draws n+1 roots, capped at RootCount
	WithReplacement   bool `json:"withReplacement"`   // draws may repeat; repeats become multiplicity
}

var presets = map[string]Config{
	VariantIncreasing: {
		Variant:           VariantIncreasing,
		DisplayName:       "Increasing Indices",
		RootCount:         4,
		CandidatePoolSize: PoolButtons,
		StageCount:        3,
		MinRoot:           -3,
		MaxRoot:           4,
		GrowingDegree:     true,
		WithReplacement:   true,
	},
	VariantMaximus: {
		Variant:           VariantMaximus,
		DisplayName:       "Indices Maximus",
		RootCount:         4,
		CandidatePoolSize: PoolButtons,
		StageCount:        1,
		MinRoot:           -9,
		MaxRoot:           9,
		ExtraMultiplicity: 4,
	},
	VariantMaximusRewrite: {
		Variant:           VariantMaximusRewrite,
		DisplayName:       "Indices Maximus (rewrite)",
		RootCount:         4,
		AllowFractions:    true,
		CandidatePoolSize: PoolFreeEntry,
		StageCount:        2,
		MinRoot:           -9,
		MaxRoot:           9,
		ExtraMultiplicity: 4,
	},
}

// Preset returns the named variant configuration.
func Preset(name string) (Config, error) {
	cfg, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return cfg, nil
}

// Variants lists preset names in sorted order.
func Variants() []string {
	out := make([]string, 0, len(presets))
	for k := range presets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RangeSize is the number of integers in [MinRoot, MaxRoot].
func (c Config) RangeSize() int { return c.MaxRoot - c.MinRoot + 1 }

// RootsForStage is the number of root draws for the zero-based stage index.
func (c Config) RootsForStage(index int) int {
	if !c.GrowingDegree {
		return c.RootCount
	}
	return min(index+2, c.RootCount)
}

// RationalStage reports whether the stage samples rational roots. The
// first stage of a multi-stage puzzle stays integral.
func (c Config) RationalStage(index int) bool {
	if !c.AllowFractions {
		return false
	}
	return index > 0 || c.StageCount == 1
}

// Validate checks that every stage of the config can be generated.
func (c Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	if c.RootCount < 1 || c.RootCount > 4 {
		return bad("rootCount %d outside 1..4", c.RootCount)
	}
	if c.StageCount < 1 || c.StageCount > 3 {
		return bad("stageCount %d outside 1..3", c.StageCount)
	}
	if c.CandidatePoolSize != PoolFreeEntry && c.CandidatePoolSize != PoolButtons {
		return bad("candidatePoolSize %d must be %d or %d", c.CandidatePoolSize, PoolFreeEntry, PoolButtons)
	}
	if c.MinRoot > c.MaxRoot {
		return bad("minRoot %d above maxRoot %d", c.MinRoot, c.MaxRoot)
	}
	if c.MinRoot < -MaxRootMagnitude || c.MaxRoot > MaxRootMagnitude {
		return bad("range [%d, %d] outside [%d, %d]", c.MinRoot, c.MaxRoot, -MaxRootMagnitude, MaxRootMagnitude)
	}
	if c.ExtraMultiplicity < 0 {
		return bad("extraMultiplicity %d is negative", c.ExtraMultiplicity)
	}
	if c.WithReplacement && c.ExtraMultiplicity > 0 {
		return bad("extraMultiplicity needs distinct draws")
	}
	if c.RootCount+c.ExtraMultiplicity > MaxDegree {
		return bad("degree %d above %d", c.RootCount+c.ExtraMultiplicity, MaxDegree)
	}
	if !c.WithReplacement && c.RangeSize() < c.RootCount {
		return bad("range [%d, %d] cannot hold %d distinct roots", c.MinRoot, c.MaxRoot, c.RootCount)
	}
	if c.CandidatePoolSize == PoolButtons {
		if c.AllowFractions {
			return bad("fractions need free entry")
		}
		if c.RangeSize() < PoolButtons {
			return bad("range [%d, %d] cannot fill %d buttons", c.MinRoot, c.MaxRoot, PoolButtons)
		}
		if c.WithReplacement && c.RangeSize() != PoolButtons {
			return bad("draws with replacement need exactly %d fixed buttons", PoolButtons)
		}
	}
	if c.AllowFractions {
		// rational roots are ±n/d with n, d in [1, MaxRoot]
		if c.MinRoot != -c.MaxRoot {
			return bad("fractions need a symmetric range, got [%d, %d]", c.MinRoot, c.MaxRoot)
		}
		if c.MaxRoot < 2 {
			return bad("maxRoot %d leaves no proper fractions", c.MaxRoot)
		}
	}
	return nil
}

// Name is the display name, falling back to the variant key.
func (c Config) Name() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	if c.Variant != "" {
		return c.Variant
	}
	return "Indices"
}
