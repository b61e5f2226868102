package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/docugraph/backend/pkg/ai"
	"github.com/docugraph/backend/pkg/common"

	"github.com/openai/openai-go/v3"
)

// Extract sends one chunk of text to the extraction model and returns
// the entities and relationships it found as a chunk-local raw graph
// record. The response is constrained to the extraction schema; an
// empty record is a valid result for chunks without extractable
// content.
func (c *GraphOpenAIClient) Extract(
	ctx context.Context,
	chunk common.Chunk,
	opts ...ai.GenerateOption,
) (common.RawGraphRecord, error) {
	if c.ChatClient == nil {
		return common.RawGraphRecord{}, fmt.Errorf("no chat client configured")
	}

	options := ai.GenerateOptions{
		Model:         c.extractionModel,
		Temperature:   0.1,
		SystemPrompts: []string{ai.BuildExtractPrompt(nil)},
	}
	for _, o := range opts {
		o(&options)
	}

	schema := ai.GenerateSchema(ai.ExtractPayload{})
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "graph_extraction",
		Description: openai.String("Entities and relationships extracted from a text chunk"),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(options.SystemPrompts)+1)
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	msgs = append(msgs, openai.UserMessage(chunk.Text))

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(options.Model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
		Messages:    msgs,
		Temperature: openai.Float(options.Temperature),
	}

	start := time.Now()
	response, err := c.ChatClient.Chat.Completions.New(ctx, body)
	if err != nil {
		return common.RawGraphRecord{}, err
	}
	duration := time.Since(start).Milliseconds()

	metrics := ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	}
	c.modifyMetrics(metrics)

	if len(response.Choices) == 0 {
		return common.RawGraphRecord{}, fmt.Errorf("no choices in response from model")
	}
	message := response.Choices[0].Message.Content
	if message == "" {
		return common.RawGraphRecord{}, fmt.Errorf("empty response from model (finish_reason: %s)", response.Choices[0].FinishReason)
	}

	var payload ai.ExtractPayload
	if err := ai.UnmarshalFlexible(message, &payload); err != nil {
		return common.RawGraphRecord{}, fmt.Errorf("parse extraction response: %w", err)
	}

	return payload.ToRawGraphRecord(), nil
}
