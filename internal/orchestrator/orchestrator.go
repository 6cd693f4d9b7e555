// Package orchestrator drives one tool-calling conversation between the
// oracle and the firmware tools to completion.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/Cyclone1070/otagent/internal/orchestrator/adapter"
	"github.com/Cyclone1070/otagent/internal/orchestrator/models"
	provider "github.com/Cyclone1070/otagent/internal/provider/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrOracleUnavailable marks a run aborted because the oracle could not be
// reached or returned a malformed reply. It is the only loop error besides
// context cancellation; tool failures never surface here.
var ErrOracleUnavailable = errors.New("oracle unavailable")

// IterationLimitOutput is the result text of a run that exhausted its
// round budget. Exhaustion is a designed terminal state, not an error.
const IterationLimitOutput = "Max iterations reached"

// DefaultMaxRounds bounds a run when the caller doesn't configure one.
const DefaultMaxRounds = 10

// Result is the terminal state of a completed run: either the oracle's
// final text or the iteration-limit signal, never both.
type Result struct {
	RunID        string
	Output       string
	LimitReached bool
	Rounds       int
}

// Orchestrator owns exactly one conversation. Create a fresh instance per
// run; instances must not be shared across concurrent runs.
type Orchestrator struct {
	provider  provider.Provider
	tools     map[string]adapter.Tool
	maxRounds int
	logger    zerolog.Logger
	history   []models.Message
}

// New creates an Orchestrator over the given oracle and tool set.
// maxRounds <= 0 selects DefaultMaxRounds.
func New(p provider.Provider, tools []adapter.Tool, maxRounds int, logger zerolog.Logger) *Orchestrator {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	toolMap := make(map[string]adapter.Tool)
	for _, t := range tools {
		toolMap[t.Name()] = t
	}

	return &Orchestrator{
		provider:  p,
		tools:     toolMap,
		maxRounds: maxRounds,
		logger:    logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Run executes the loop for the given instruction. It returns a Result on
// both normal completion and round exhaustion; the error is non-nil only
// for context cancellation or ErrOracleUnavailable.
func (o *Orchestrator) Run(ctx context.Context, instruction string) (*Result, error) {
	runID := uuid.NewString()
	logger := o.logger.With().Str("run_id", runID).Logger()

	// Initialize conversation with the instruction
	o.history = []models.Message{
		{
			Role:    "user",
			Content: instruction,
		},
	}

	for round := 1; round <= o.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Debug().Int("round", round).Int("messages", len(o.history)).Msg("consulting oracle")

		response, err := o.provider.Generate(ctx, &provider.GenerateRequest{
			History: o.history,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
		}

		switch response.Content.Type {
		case provider.ResponseTypeToolCall:
			if len(response.Content.ToolCalls) == 0 {
				return nil, fmt.Errorf("%w: oracle returned an empty tool call list", ErrOracleUnavailable)
			}

			// Model turn with its tool calls enters history first
			o.history = append(o.history, models.Message{
				Role:      "model",
				ToolCalls: response.Content.ToolCalls,
			})

			// Execute every call, sequentially, in issuance order
			toolResults := make([]models.ToolResult, 0, len(response.Content.ToolCalls))
			for _, toolCall := range response.Content.ToolCalls {
				result := o.executeToolCall(ctx, logger, toolCall)
				toolResults = append(toolResults, result)
			}

			// One function turn folds all results back, preserving order
			o.history = append(o.history, models.Message{
				Role:        "function",
				ToolResults: toolResults,
			})

		case provider.ResponseTypeText:
			o.history = append(o.history, models.Message{
				Role:    "model",
				Content: response.Content.Text,
			})

			logger.Info().Int("rounds", round).Msg("run complete")
			return &Result{
				RunID:  runID,
				Output: response.Content.Text,
				Rounds: round,
			}, nil

		default:
			return nil, fmt.Errorf("%w: unknown response type %q", ErrOracleUnavailable, response.Content.Type)
		}
	}

	logger.Warn().Int("rounds", o.maxRounds).Msg("iteration limit reached")
	return &Result{
		RunID:        runID,
		Output:       IterationLimitOutput,
		LimitReached: true,
		Rounds:       o.maxRounds,
	}, nil
}

// executeToolCall executes a single tool call and returns the result.
// Unknown tools and tool failures become error results; they are fed back
// into the conversation and never abort the loop.
func (o *Orchestrator) executeToolCall(ctx context.Context, logger zerolog.Logger, toolCall models.ToolCall) models.ToolResult {
	tool, exists := o.tools[toolCall.Name]
	if !exists {
		logger.Warn().Str("tool", toolCall.Name).Msg("unknown tool requested")
		return models.ToolResult{
			ID:    toolCall.ID,
			Name:  toolCall.Name,
			Error: fmt.Sprintf("unknown tool '%s'", toolCall.Name),
		}
	}

	logger.Info().Str("tool", toolCall.Name).Str("call_id", toolCall.ID).Msg("executing tool")

	result, err := tool.Execute(ctx, toolCall.Args)
	if err != nil {
		logger.Warn().Str("tool", toolCall.Name).Err(err).Msg("tool failed")
		return models.ToolResult{
			ID:    toolCall.ID,
			Name:  toolCall.Name,
			Error: err.Error(),
		}
	}

	return models.ToolResult{
		ID:      toolCall.ID,
		Name:    toolCall.Name,
		Content: result,
	}
}
