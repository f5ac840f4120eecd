package store

import (
	"context"
	"sync"

	"github.com/yotome/rag-assistant/internal/config"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

// InMemoryConversationStore is the fallback when redis is offline. Histories
// vanish on restart, which is acceptable for a degraded mode.
type InMemoryConversationStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]ragmodel.ChatMessage
}

func InitConversationStore() *InMemoryConversationStore {
	return &InMemoryConversationStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]ragmodel.ChatMessage),
	}
}

func (s *InMemoryConversationStore) AppendMessage(ctx context.Context, chatID string, msg ragmodel.ChatMessage) error {
	s.chatLock.Lock()
	defer s.chatLock.Unlock()
	s.chatMap[chatID] = append(s.chatMap[chatID], msg)
	return nil
}

func (s *InMemoryConversationStore) GetHistory(ctx context.Context, chatID string) ([]ragmodel.ChatMessage, error) {
	s.chatLock.RLock()
	defer s.chatLock.RUnlock()

	history := s.chatMap[chatID]
	if len(history) > config.HistoryWindow {
		history = history[len(history)-config.HistoryWindow:]
	}
	out := make([]ragmodel.ChatMessage, len(history))
	copy(out, history)
	return out, nil
}

func (s *InMemoryConversationStore) DeleteChat(ctx context.Context, chatID string) error {
	s.chatLock.Lock()
	defer s.chatLock.Unlock()
	delete(s.chatMap, chatID)
	return nil
}
