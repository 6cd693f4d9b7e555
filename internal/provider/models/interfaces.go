package models

import (
	"context"
)

// Provider is the oracle consulted each round of the orchestration loop.
// A single Generate call is one round-trip: full conversation in, one
// model turn out. Any error from Generate means the oracle is unavailable
// for this run; the loop never feeds provider errors back into the
// conversation.
type Provider interface {
	// Generate sends the conversation to the model and returns its turn.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// DefineTools registers tool definitions with the provider for native
	// tool calling. Must be called before Generate for tools to be offered.
	DefineTools(ctx context.Context, tools []ToolDefinition) error

	// GetModel returns the currently active model name.
	GetModel() string
}
