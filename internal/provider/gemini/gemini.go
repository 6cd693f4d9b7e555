package gemini

import (
	"context"
	"sync"

	provider "github.com/Cyclone1070/otagent/internal/provider/models"
)

// GeminiProvider implements the Provider interface for Google Gemini.
type GeminiProvider struct {
	client    GeminiClient
	modelName string
	defaults  *provider.GenerateConfig
	mu        sync.RWMutex
	tools     []provider.ToolDefinition
}

// New creates a new GeminiProvider with the specified client and model.
// defaults, if non-nil, apply to every request that carries no config of
// its own.
func New(client GeminiClient, modelName string, defaults *provider.GenerateConfig) *GeminiProvider {
	return &GeminiProvider{
		client:    client,
		modelName: modelName,
		defaults:  defaults,
	}
}

// Generate sends a request to the Gemini API and returns the response.
func (p *GeminiProvider) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	p.mu.RLock()
	model := p.modelName
	tools := p.tools
	p.mu.RUnlock()

	// Convert internal types to Gemini types
	contents := toGeminiContents(req.History)
	genConfig := req.Config
	if genConfig == nil {
		genConfig = p.defaults
	}
	config := toGeminiConfig(genConfig)

	// Add tools if defined
	if len(tools) > 0 {
		config.Tools = toGeminiTools(tools)
	}

	// Call Gemini API
	resp, err := p.client.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	// Convert response
	return fromGeminiResponse(resp, model)
}

// DefineTools registers tool definitions with the provider for native tool calling.
func (p *GeminiProvider) DefineTools(ctx context.Context, tools []provider.ToolDefinition) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tools = tools
	return nil
}

// GetModel returns the currently active model name.
func (p *GeminiProvider) GetModel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modelName
}
