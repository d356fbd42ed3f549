// Package mcpadapter exposes puzzles as MCP tools so a remote agent can play
// them through the same command surface a chat bot would use.
package mcpadapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/usecase"
)

// StartInput starts a puzzle.
type StartInput struct {
	Variant string `json:"variant,omitempty" jsonschema:"preset name (increasing, maximus, maximus-rewrite)"`
	Seed    int64  `json:"seed,omitempty" jsonschema:"random seed; 0 draws a fresh one"`
}

// IDInput addresses one puzzle.
type IDInput struct {
	ID string `json:"id" jsonschema:"puzzle id returned by start_puzzle"`
}

// CommandInput applies one command line.
type CommandInput struct {
	ID      string `json:"id" jsonschema:"puzzle id returned by start_puzzle"`
	Command string `json:"command" jsonschema:"press <label>... or submit <n>[/<d>]..."`
}

// PuzzleView is the public puzzle state with enums rendered as text.
type PuzzleView struct {
	ID         string   `json:"id"`
	Variant    string   `json:"variant"`
	State      string   `json:"state"`
	Stage      int      `json:"stage"`
	StageCount int      `json:"stage_count"`
	Equation   string   `json:"equation"`
	Display    string   `json:"display"`
	Buttons    []string `json:"buttons"`
	Confirmed  []string `json:"confirmed"`
	Remaining  int      `json:"remaining"`
	Fractions  bool     `json:"fractions"`
	Strikes    int      `json:"strikes"`
}

// ResultView is one judged guess.
type ResultView struct {
	Outcome       string   `json:"outcome"`
	Events        []string `json:"events"`
	Root          string   `json:"root,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	ResumeAfterMs int64    `json:"resume_after_ms,omitempty"`
}

// CommandOutput lists the guesses a command applied and the state after.
type CommandOutput struct {
	Results []ResultView `json:"results"`
	Puzzle  PuzzleView   `json:"puzzle"`
}

// HintOutput carries the proposed root, if any.
type HintOutput struct {
	Found   bool   `json:"found"`
	Root    string `json:"root,omitempty"`
	Message string `json:"message,omitempty"`
}

// VariantsOutput lists the preset names.
type VariantsOutput struct {
	Variants []string `json:"variants"`
}

func puzzleView(s domain.Snapshot) PuzzleView {
	v := PuzzleView{
		ID:         s.ID,
		Variant:    s.Variant,
		State:      s.State.String(),
		Stage:      s.Stage + 1,
		StageCount: s.StageCount,
		Equation:   s.Equation,
		Display:    s.Display,
		Buttons:    []string{},
		Confirmed:  append([]string{}, s.Confirmed...),
		Remaining:  s.Remaining,
		Fractions:  s.Fractions,
		Strikes:    s.Strikes,
	}
	for _, c := range s.Candidates {
		v.Buttons = append(v.Buttons, c.Label)
	}
	return v
}

func resultView(r domain.Result) ResultView {
	v := ResultView{
		Outcome:       r.Outcome.String(),
		Events:        make([]string, 0, len(r.Events)),
		Reason:        r.Reason,
		ResumeAfterMs: r.ResumeAfter.Milliseconds(),
	}
	for _, e := range r.Events {
		v.Events = append(v.Events, e.String())
	}
	if r.Root != nil {
		v.Root = r.Root.String()
	}
	return v
}

func StartHandler(uc *usecase.Service, defaultVariant string) mcp.ToolHandlerFor[StartInput, PuzzleView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in StartInput) (*mcp.CallToolResult, PuzzleView, error) {
		variant := strings.TrimSpace(in.Variant)
		if variant == "" {
			variant = defaultVariant
		}
		snap, err := uc.Start(ctx, usecase.StartRequest{Variant: variant, Seed: in.Seed})
		if err != nil {
			return nil, PuzzleView{}, fmt.Errorf("start puzzle: %w", err)
		}
		return nil, puzzleView(snap), nil
	}
}

func CommandHandler(uc *usecase.Service) mcp.ToolHandlerFor[CommandInput, CommandOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in CommandInput) (*mcp.CallToolResult, CommandOutput, error) {
		out, err := uc.Command(ctx, in.ID, in.Command)
		if err != nil {
			return nil, CommandOutput{}, fmt.Errorf("command: %w", err)
		}
		res := CommandOutput{Results: []ResultView{}, Puzzle: puzzleView(out.Snapshot)}
		for _, r := range out.Results {
			res.Results = append(res.Results, resultView(r))
		}
		return nil, res, nil
	}
}

func ResumeHandler(uc *usecase.Service) mcp.ToolHandlerFor[IDInput, PuzzleView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in IDInput) (*mcp.CallToolResult, PuzzleView, error) {
		snap, err := uc.Resume(ctx, in.ID)
		if err != nil {
			return nil, PuzzleView{}, fmt.Errorf("resume: %w", err)
		}
		return nil, puzzleView(snap), nil
	}
}

func StateHandler(uc *usecase.Service) mcp.ToolHandlerFor[IDInput, PuzzleView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in IDInput) (*mcp.CallToolResult, PuzzleView, error) {
		snap, err := uc.State(ctx, in.ID)
		if err != nil {
			return nil, PuzzleView{}, err
		}
		return nil, puzzleView(snap), nil
	}
}

func HintHandler(uc *usecase.Service) mcp.ToolHandlerFor[IDInput, HintOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in IDInput) (*mcp.CallToolResult, HintOutput, error) {
		h, ok, err := uc.Hint(ctx, in.ID)
		if err != nil {
			return nil, HintOutput{}, fmt.Errorf("hint: %w", err)
		}
		if !ok {
			return nil, HintOutput{}, nil
		}
		return nil, HintOutput{Found: true, Root: h.Root.String(), Message: h.Message}, nil
	}
}

func VariantsHandler(uc *usecase.Service) mcp.ToolHandlerFor[struct{}, VariantsOutput] {
	return func(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, VariantsOutput, error) {
		return nil, VariantsOutput{Variants: uc.Variants()}, nil
	}
}
