package llm

import (
	"context"

	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

// Provider generates a chat completion from an ordered message list. The
// system prompt travels as the first message with RoleSystem. Usage may be
// nil when the provider does not report token counts.
type Provider interface {
	Complete(ctx context.Context, messages []ragmodel.ChatMessage, temperature float32, maxTokens int) (string, *ragmodel.TokenUsage, error)
}
