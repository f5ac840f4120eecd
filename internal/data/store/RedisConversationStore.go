package store

import (
	"context"
	"encoding/json"

	"github.com/yotome/rag-assistant/internal/config"
	"github.com/yotome/rag-assistant/internal/data/redisStore"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
	"github.com/yotome/rag-assistant/pkg/logger_i"
)

type RedisConversationStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisConversationStore(ctx context.Context) *RedisConversationStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisConversationStore)
	if inner == nil {
		return nil
	}
	return &RedisConversationStore{
		store:  inner,
		logger: logger_i.NewLogger("ConversationStore"),
	}
}

// TestConversationStore wires an arbitrary backing store, used with miniredis.
func TestConversationStore(inner *redisStore.Store) *RedisConversationStore {
	return &RedisConversationStore{
		store:  inner,
		logger: logger_i.NewLogger("ConversationStore"),
	}
}

func (s *RedisConversationStore) AppendMessage(ctx context.Context, chatID string, msg ragmodel.ChatMessage) error {
	log := s.logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY), "chatId", chatID)

	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("Error marshalling message", "error", err)
		return err
	}
	if err := s.store.ListPush(ctx, chatID, data); err != nil {
		log.Error("error saving chat", "error", err)
		return err
	}
	// sliding expiry, an active chat stays alive
	if err := s.store.Expire(ctx, chatID, config.RedisConversationTTL); err != nil {
		log.Error("error setting chat ttl", "error", err)
	}
	return nil
}

func (s *RedisConversationStore) GetHistory(ctx context.Context, chatID string) ([]ragmodel.ChatMessage, error) {
	log := s.logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY), "chatId", chatID)

	raw, err := s.store.ListGetRecent(ctx, chatID, int64(config.HistoryWindow))
	if err != nil {
		if s.store.IsNil(err) {
			return nil, nil
		}
		log.Error("Error getting history", "error", err)
		return nil, err
	}

	history := make([]ragmodel.ChatMessage, 0, len(raw))
	for _, entry := range raw {
		var msg ragmodel.ChatMessage
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			log.Error("dropping unreadable history entry", "error", err)
			continue
		}
		history = append(history, msg)
	}
	return history, nil
}

func (s *RedisConversationStore) DeleteChat(ctx context.Context, chatID string) error {
	return s.store.Del(ctx, chatID)
}
