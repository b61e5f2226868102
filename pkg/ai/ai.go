package ai

import (
	"context"

	"github.com/docugraph/backend/pkg/common"
)

// Extractor converts one chunk of text into a raw graph record using
// an external extraction model. Implementations are best-effort: an
// empty or near-empty record is a valid result.
type Extractor interface {
	Extract(ctx context.Context, chunk common.Chunk, opts ...GenerateOption) (common.RawGraphRecord, error)
}

// Embedder converts text into a fixed-length embedding vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)
}

// GraphAIClient is the full model surface the ingestion pipeline
// needs. Both the OpenAI and the Ollama backend implement it.
type GraphAIClient interface {
	Extractor
	Embedder
}

// ModelMetrics contains accumulated usage metrics from AI model calls.
type ModelMetrics struct {
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	DurationMs     int64   `json:"duration_ms"`
	TokenPerSecond float32 `json:"token_per_second"`
}

// GenerateOptions holds configuration for AI generation requests.
type GenerateOptions struct {
	Model         string
	Temperature   float64
	SystemPrompts []string
}

// GenerateOption is a functional option for configuring AI requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithTemperature returns a GenerateOption that sets the sampling
// temperature.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system
// prompts prepended to the request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}
