package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	provider "github.com/Cyclone1070/otagent/internal/provider/models"
	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

// ToolFunc executes a tool with a typed request and returns the
// human-readable outcome text.
type ToolFunc[Req any] func(ctx context.Context, req Req) (string, error)

// BaseAdapter provides common adapter functionality using generics.
// It centralizes, for every tool:
//   - raw argument validation against the declared JSON schema
//   - argument decoding into the typed request (mapstructure)
//   - error handling
//
// so concrete tools are a schema plus one function.
type BaseAdapter[Req any] struct {
	name        string
	description string
	definition  provider.ToolDefinition
	schema      *gojsonschema.Schema
	executor    ToolFunc[Req]
}

// NewBaseAdapter creates a base adapter with the given configuration.
// The parameter schema is compiled once; a schema that doesn't compile is
// a programming error.
func NewBaseAdapter[Req any](
	name string,
	description string,
	params *provider.ParameterSchema,
	executor ToolFunc[Req],
) *BaseAdapter[Req] {
	var schema *gojsonschema.Schema
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			panic(fmt.Sprintf("tool %s: marshaling parameter schema: %v", name, err))
		}
		schema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			panic(fmt.Sprintf("tool %s: compiling parameter schema: %v", name, err))
		}
	}

	return &BaseAdapter[Req]{
		name:        name,
		description: description,
		definition: provider.ToolDefinition{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
		schema:   schema,
		executor: executor,
	}
}

// Name implements Tool
func (b *BaseAdapter[Req]) Name() string {
	return b.name
}

// Description implements Tool
func (b *BaseAdapter[Req]) Description() string {
	return b.description
}

// Definition implements Tool
func (b *BaseAdapter[Req]) Definition() provider.ToolDefinition {
	return b.definition
}

// Execute implements Tool. It validates args against the declared schema,
// decodes them into the typed request, and runs the executor.
func (b *BaseAdapter[Req]) Execute(ctx context.Context, args map[string]any) (string, error) {
	if args == nil {
		args = map[string]any{}
	}

	if b.schema != nil {
		result, err := b.schema.Validate(gojsonschema.NewGoLoader(args))
		if err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		if !result.Valid() {
			return "", fmt.Errorf("invalid arguments: %s", formatSchemaErrors(result))
		}
	}

	var req Req
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	return b.executor(ctx, req)
}

func formatSchemaErrors(result *gojsonschema.Result) string {
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}
