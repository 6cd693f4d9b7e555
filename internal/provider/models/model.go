package models

import (
	"github.com/Cyclone1070/otagent/internal/orchestrator/models"
)

// GenerateRequest encapsulates all parameters for a generation request.
type GenerateRequest struct {
	// History contains the full conversation so far
	History []models.Message

	// Config contains optional generation parameters
	Config *GenerateConfig
}

// GenerateConfig contains optional generation parameters.
// All fields are pointers to distinguish between "not set" and "zero value".
type GenerateConfig struct {
	Temperature   *float32
	TopP          *float32
	TopK          *int
	StopSequences []string
}

// GenerateResponse contains the model's response and metadata.
type GenerateResponse struct {
	// Content contains the generated response
	Content ResponseContent

	// Metadata contains information about the generation
	Metadata ResponseMetadata
}

// ResponseContent is a union type representing different response types.
type ResponseContent struct {
	// Type indicates what the model produced
	Type ResponseType

	// For Type = ResponseTypeText
	Text string

	// For Type = ResponseTypeToolCall
	ToolCalls []models.ToolCall
}

// ResponseType indicates the type of response from the model.
type ResponseType string

const (
	ResponseTypeText     ResponseType = "text"
	ResponseTypeToolCall ResponseType = "tool_call"
)

// ResponseMetadata contains information about the generation.
type ResponseMetadata struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int

	// Model used
	ModelUsed string
}

// ToolDefinition defines a tool that the model can invoke.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  *ParameterSchema // Pointer to allow nil (no params)
}

// ParameterSchema maps directly to standard JSON Schema.
type ParameterSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertySchema defines a single parameter property.
type PropertySchema struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Enum        []string        `json:"enum,omitempty"`
	Items       *PropertySchema `json:"items,omitempty"`
}
