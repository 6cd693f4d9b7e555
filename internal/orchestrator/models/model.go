package models

// Message represents a single message in the conversation history
type Message struct {
	Role    string // "user", "model", "function"
	Content string

	// For model messages with tool calls
	ToolCalls []ToolCall

	// For function messages with tool results
	ToolResults []ToolResult
}

// ToolCall represents a structured tool invocation from the oracle.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]interface{}
}

// ToolResult represents the result of a tool execution.
// Every ToolCall gets exactly one ToolResult, failure included.
type ToolResult struct {
	ID      string // Matches ToolCall.ID
	Name    string // Tool name
	Content string // Result content
	Error   string // Error message if tool failed
}
