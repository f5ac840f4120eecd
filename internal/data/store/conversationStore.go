package store

import (
	"context"

	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

// ConversationStore keeps per-chat message history so follow-up questions
// carry context. Histories are capped at read time, not write time.
type ConversationStore interface {
	AppendMessage(ctx context.Context, chatID string, msg ragmodel.ChatMessage) error
	GetHistory(ctx context.Context, chatID string) ([]ragmodel.ChatMessage, error)
	DeleteChat(ctx context.Context, chatID string) error
}
