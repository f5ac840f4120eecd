package googleEmbedding

import (
	"context"
	"errors"
	"sync"

	"github.com/yotome/rag-assistant/internal/config"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
	"github.com/yotome/rag-assistant/internal/rag/embedding"
	"github.com/yotome/rag-assistant/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi *genai.Client
	model string
}

// GetGoogleEmbeddingClient returns the shared Gemini embedder. Returns nil
// when the client could not be created.
func GetGoogleEmbeddingClient(ctx context.Context, modelName string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName)
	})
	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func newGoogleEmbedder(ctx context.Context, modelName string) {
	apiKey := config.GoogleAPIKey()
	if apiKey == "" {
		logger.Error("GOOGLE_API_KEY not set, embedding client unavailable")
		return
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		logger.Error("Error creating Google embedding client", "error", err)
		return
	}
	embeddingClient = &client{genAi: c, model: modelName}
	logger.Info("google embedding client created", "model", modelName)
}

func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	res, err := c.doCall(ctx, genai.Text(text), "RETRIEVAL_QUERY")
	if err != nil {
		logRateLimited(err)
		return nil, &ragmodel.ProviderError{Provider: config.ProviderGemini, Op: "embed", Err: err}
	}
	if len(res.Embeddings) == 0 {
		return nil, &ragmodel.ProviderError{Provider: config.ProviderGemini, Op: "embed", Err: errors.New("empty embedding response")}
	}
	return res.Embeddings[0].Values, nil
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, &ragmodel.ProviderError{Provider: config.ProviderGemini, Op: "embed", Err: errors.New("no texts to embed")}
	}
	res, err := c.doCall(ctx, getContent(texts), "RETRIEVAL_DOCUMENT")
	if err != nil {
		logRateLimited(err)
		return nil, &ragmodel.ProviderError{Provider: config.ProviderGemini, Op: "embed", Err: err}
	}
	if len(res.Embeddings) != len(texts) {
		return nil, &ragmodel.ProviderError{Provider: config.ProviderGemini, Op: "embed", Err: errors.New("embedding count does not match input count")}
	}
	vectors := make([][]float32, 0, len(res.Embeddings))
	for _, e := range res.Embeddings {
		vectors = append(vectors, e.Values)
	}
	return vectors, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, taskType string) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             taskType,
	})
}

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

// logRateLimited flags quota exhaustion distinctly so callers can spot it in
// the logs. The error itself still propagates untouched.
func logRateLimited(err error) {
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		logger.Error("Rate limit hit!", "error", err)
	}
}
