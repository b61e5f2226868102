package middleware

import (
	"github.com/docugraph/backend/internal/util"

	"github.com/labstack/echo/v4"

	"github.com/docugraph/backend/pkg/ai"
	oai "github.com/docugraph/backend/pkg/ai/ollama"
	gai "github.com/docugraph/backend/pkg/ai/openai"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/store"
)

type App struct {
	GraphStore  store.GraphStore
	VectorStore store.VectorStore
	AiClient    ai.GraphAIClient
}

type AppContext struct {
	echo.Context
	App *App
}

// NewAIClient builds the configured model backend. AI_ADAPTER selects
// between a local Ollama server and an OpenAI-compatible API.
func NewAIClient() ai.GraphAIClient {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			ExtractionModel: util.GetEnv("AI_CHAT_EXTRACT_MODEL"),
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
			TimeoutMin:            int(util.GetEnvNumeric("AI_TIMEOUT_MIN", 5)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			ExtractionModel: util.GetEnv("AI_CHAT_EXTRACT_MODEL"),
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),

			ChatURL:      util.GetEnv("AI_CHAT_URL"),
			ChatKey:      util.GetEnv("AI_CHAT_KEY"),
			EmbeddingURL: util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey: util.GetEnv("AI_EMBED_KEY"),
		})
	}
}

func AppContextMiddleware(
	graphStore store.GraphStore,
	vectorStore store.VectorStore,
	aiClient ai.GraphAIClient,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			app := &App{
				GraphStore:  graphStore,
				VectorStore: vectorStore,
				AiClient:    aiClient,
			}
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
