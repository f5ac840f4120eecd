package openaiEmbedding

import (
	"context"
	"errors"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/yotome/rag-assistant/internal/config"
	"github.com/yotome/rag-assistant/internal/customHttpClient"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
	"github.com/yotome/rag-assistant/internal/rag/embedding"
	"github.com/yotome/rag-assistant/pkg/logger_i"
)

var logger *logger_i.Logger

var (
	once            sync.Once
	embeddingClient *client
)

type client struct {
	api   openai.Client
	model string
}

// GetOpenAIEmbeddingClient returns the shared OpenAI embedder. Returns nil
// when no API key is configured.
func GetOpenAIEmbeddingClient(model string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		newEmbeddingClient(model)
	})
	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func newEmbeddingClient(model string) {
	apiKey := config.OpenAIAPIKey()
	if apiKey == "" {
		logger.Error("OPENAI_API_KEY not set, embedding client unavailable")
		return
	}
	api := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(customHttpClient.Pooled()),
	)
	embeddingClient = &client{api: api, model: model}
	logger.Info("openai embedding client initialized", "model", model)
}

func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, &ragmodel.ProviderError{Provider: config.ProviderOpenAI, Op: "embed", Err: errors.New("no texts to embed")}
	}
	res, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		logger.Error("embedding request failed", "error", err, "batchSize", len(texts))
		return nil, &ragmodel.ProviderError{Provider: config.ProviderOpenAI, Op: "embed", Err: err}
	}
	if len(res.Data) != len(texts) {
		return nil, &ragmodel.ProviderError{Provider: config.ProviderOpenAI, Op: "embed", Err: errors.New("embedding count does not match input count")}
	}
	vectors := make([][]float32, len(texts))
	for _, d := range res.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}
