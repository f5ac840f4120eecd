package gemini

import (
	"context"
	"errors"
	"sync"

	"github.com/yotome/rag-assistant/internal/config"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
	"github.com/yotome/rag-assistant/internal/rag/llm"
	"github.com/yotome/rag-assistant/pkg/logger_i"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

type llmClient struct {
	client    *genai.Client
	modelName string
}

// GetGeminiClient returns the shared Gemini completion client. Returns nil
// when the client could not be created.
func GetGeminiClient(ctx context.Context, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName)
	})
	if geminiClient == nil {
		return nil
	}
	return geminiClient
}

func newGeminiClient(ctx context.Context, modelName string) {
	apiKey := config.GoogleAPIKey()
	if apiKey == "" {
		logger.Error("GOOGLE_API_KEY not set, completion client unavailable")
		return
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName}
	logger.Info("gemini client created", "model", modelName)
}

func (c *llmClient) Complete(ctx context.Context, messages []ragmodel.ChatMessage, temperature float32, maxTokens int) (string, *ragmodel.TokenUsage, error) {
	var systemInstruction *genai.Content
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case ragmodel.RoleSystem:
			// Gemini takes the system prompt out of band.
			systemInstruction = &genai.Content{Parts: []*genai.Part{{Text: m.Content}}}
		case ragmodel.RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: m.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.Content}}})
		}
	}
	if len(contents) == 0 {
		return "", nil, &ragmodel.ProviderError{Provider: config.ProviderGemini, Op: "complete", Err: errors.New("no messages to send")}
	}

	temp := temperature
	result, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       &temp,
		MaxOutputTokens:   int32(maxTokens),
	})
	if err != nil {
		logger.Error("completion request failed", "error", err)
		return "", nil, &ragmodel.ProviderError{Provider: config.ProviderGemini, Op: "complete", Err: err}
	}

	var usage *ragmodel.TokenUsage
	if result.UsageMetadata != nil {
		usage = &ragmodel.TokenUsage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return result.Text(), usage, nil
}
