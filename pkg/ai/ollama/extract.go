package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docugraph/backend/pkg/ai"
	"github.com/docugraph/backend/pkg/common"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
)

// Extract sends one chunk of text to the extraction model and returns
// the entities and relationships it found as a chunk-local raw graph
// record. The schema is passed as the request format so the model is
// constrained to structured output.
func (c *GraphOllamaClient) Extract(
	ctx context.Context,
	chunk common.Chunk,
	opts ...ai.GenerateOption,
) (common.RawGraphRecord, error) {
	options := ai.GenerateOptions{
		Model:         c.extractionModel,
		Temperature:   0.1,
		SystemPrompts: []string{ai.BuildExtractPrompt(nil)},
	}
	for _, o := range opts {
		o(&options)
	}

	schemaObj := ai.GenerateSchema(ai.ExtractPayload{})
	formatBytes, err := json.Marshal(schemaObj)
	if err != nil {
		return common.RawGraphRecord{}, err
	}
	var format json.RawMessage = formatBytes

	msgs := make([]api.Message, 0, len(options.SystemPrompts)+1)
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sp})
	}
	msgs = append(msgs, api.Message{Role: "user", Content: chunk.Text})

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Format:   format,
		Options:  map[string]any{"temperature": options.Temperature},
	}

	// Small local models default to a short context window; widen it
	// when the chunk would not fit.
	tokens := 200
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return common.RawGraphRecord{}, err
	}
	for _, m := range msgs {
		tokens += len(enc.Encode(m.Content, nil, nil))
	}
	if tokens > 4096 {
		req.Options["num_ctx"] = tokens
	}

	rCtx, cancel := context.WithTimeout(ctx, time.Minute*time.Duration(c.timeoutMin))
	defer cancel()

	if err := c.reqLock.Acquire(rCtx, 1); err != nil {
		return common.RawGraphRecord{}, err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.Client.Chat(rCtx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return common.RawGraphRecord{}, err
	}

	durationMs := final.Metrics.TotalDuration.Milliseconds()

	metrics := ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   durationMs,
	}
	c.modifyMetrics(metrics)

	var payload ai.ExtractPayload
	if err := ai.UnmarshalFlexible(final.Message.Content, &payload); err != nil {
		return common.RawGraphRecord{}, fmt.Errorf("parse extraction response: %w", err)
	}

	return payload.ToRawGraphRecord(), nil
}
