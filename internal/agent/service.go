// Package agent ties the event surface together: it validates incoming
// events, renders the instruction, and drives one orchestration run per
// event.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/Cyclone1070/otagent/internal/orchestrator"
	"github.com/Cyclone1070/otagent/internal/orchestrator/adapter"
	"github.com/Cyclone1070/otagent/internal/orchestrator/prompt"
	provider "github.com/Cyclone1070/otagent/internal/provider/models"
	"github.com/rs/zerolog"
)

// EventRequest is one inbound device event. A nil Policy selects
// autonomous mode.
type EventRequest struct {
	DeviceID     string  `json:"device_id"`
	EventDetails string  `json:"event_details"`
	Policy       *string `json:"policy,omitempty"`
}

// RunResult is the outcome of a successfully completed run.
type RunResult struct {
	RunID        string
	Output       string
	LimitReached bool
	Rounds       int
}

// Service handles device events end to end. Safe for concurrent use: each
// event gets its own orchestrator and conversation; only the store and
// firmware storage are shared, and they serialize their own updates.
type Service struct {
	provider   provider.Provider
	tools      []adapter.Tool
	builder    *prompt.Builder
	maxRounds  int
	runTimeout time.Duration
	logger     zerolog.Logger
}

// NewService creates a Service. runTimeout <= 0 disables the per-run
// wall-clock budget.
func NewService(p provider.Provider, tools []adapter.Tool, builder *prompt.Builder, maxRounds int, runTimeout time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		provider:   p,
		tools:      tools,
		builder:    builder,
		maxRounds:  maxRounds,
		runTimeout: runTimeout,
		logger:     logger.With().Str("component", "agent").Logger(),
	}
}

// HandleEvent validates the event and runs the loop to completion.
// Validation failures and oracle unavailability are the only errors;
// everything else ends in a RunResult.
func (s *Service) HandleEvent(ctx context.Context, req EventRequest) (*RunResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("device_id", req.DeviceID).
		Str("event", req.EventDetails).
		Bool("autonomous", req.Policy == nil).
		Msg("handling device event")

	instruction := s.builder.Build(req.DeviceID, req.EventDetails, req.Policy)

	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	// Fresh orchestrator per run: the conversation belongs to this event.
	orch := orchestrator.New(s.provider, s.tools, s.maxRounds, s.logger)

	result, err := orch.Run(ctx, instruction)
	if err != nil {
		// A timed-out oracle call is indistinguishable from an
		// unreachable one for the caller.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", orchestrator.ErrOracleUnavailable, ctx.Err())
		}
		return nil, err
	}

	return &RunResult{
		RunID:        result.RunID,
		Output:       result.Output,
		LimitReached: result.LimitReached,
		Rounds:       result.Rounds,
	}, nil
}

func validate(req EventRequest) error {
	if req.DeviceID == "" {
		return &ValidationError{Field: "device_id"}
	}
	if req.EventDetails == "" {
		return &ValidationError{Field: "event_details"}
	}
	if req.Policy != nil && *req.Policy == "" {
		return &ValidationError{Field: "policy"}
	}
	return nil
}
