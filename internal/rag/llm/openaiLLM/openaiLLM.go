package openaiLLM

import (
	"context"
	"errors"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/yotome/rag-assistant/internal/config"
	"github.com/yotome/rag-assistant/internal/customHttpClient"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
	"github.com/yotome/rag-assistant/internal/rag/llm"
	"github.com/yotome/rag-assistant/pkg/logger_i"
)

var logger *logger_i.Logger

var (
	once      sync.Once
	llmClient *client
)

type client struct {
	api   openai.Client
	model string
}

// GetOpenAIClient returns the shared chat completion client. Returns nil
// when no API key is configured.
func GetOpenAIClient(model string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		newLLMClient(model)
	})
	if llmClient == nil {
		return nil
	}
	return llmClient
}

func newLLMClient(model string) {
	apiKey := config.OpenAIAPIKey()
	if apiKey == "" {
		logger.Error("OPENAI_API_KEY not set, completion client unavailable")
		return
	}
	api := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(customHttpClient.Pooled()),
	)
	llmClient = &client{api: api, model: model}
	logger.Info("openai completion client initialized", "model", model)
}

func (c *client) Complete(ctx context.Context, messages []ragmodel.ChatMessage, temperature float32, maxTokens int) (string, *ragmodel.TokenUsage, error) {
	res, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    toOpenAIMessages(messages),
		Temperature: openai.Float(float64(temperature)),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		logger.Error("completion request failed", "error", err)
		return "", nil, &ragmodel.ProviderError{Provider: config.ProviderOpenAI, Op: "complete", Err: err}
	}
	if len(res.Choices) == 0 {
		return "", nil, &ragmodel.ProviderError{Provider: config.ProviderOpenAI, Op: "complete", Err: errors.New("no choices in completion response")}
	}
	usage := &ragmodel.TokenUsage{
		PromptTokens:     int(res.Usage.PromptTokens),
		CompletionTokens: int(res.Usage.CompletionTokens),
		TotalTokens:      int(res.Usage.TotalTokens),
	}
	return res.Choices[0].Message.Content, usage, nil
}

func toOpenAIMessages(messages []ragmodel.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case ragmodel.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case ragmodel.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
