package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/yotome/rag-assistant/internal/config"
	"github.com/yotome/rag-assistant/internal/data/redisStore"
	"github.com/yotome/rag-assistant/internal/data/store"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

func TestRedisConversationStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	convStore := store.TestConversationStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	chatID := "chat_abc_123"

	t.Run("Append and Read Roundtrip", func(t *testing.T) {
		err := convStore.AppendMessage(ctx, chatID, ragmodel.ChatMessage{Role: ragmodel.RoleUser, Content: "what is the retention policy"})
		if err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
		err = convStore.AppendMessage(ctx, chatID, ragmodel.ChatMessage{Role: ragmodel.RoleAssistant, Content: "ninety days"})
		if err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}

		history, err := convStore.GetHistory(ctx, chatID)
		if err != nil {
			t.Fatalf("GetHistory failed: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(history))
		}
		if history[0].Role != ragmodel.RoleUser || history[1].Content != "ninety days" {
			t.Errorf("history order or content wrong: %+v", history)
		}
	})

	t.Run("History Capped At Window", func(t *testing.T) {
		longChat := "chat_long"
		for i := 0; i < config.HistoryWindow+5; i++ {
			err := convStore.AppendMessage(ctx, longChat, ragmodel.ChatMessage{Role: ragmodel.RoleUser, Content: fmt.Sprintf("message %d", i)})
			if err != nil {
				t.Fatalf("AppendMessage failed: %v", err)
			}
		}

		history, err := convStore.GetHistory(ctx, longChat)
		if err != nil {
			t.Fatalf("GetHistory failed: %v", err)
		}
		if len(history) != config.HistoryWindow {
			t.Fatalf("expected %d messages, got %d", config.HistoryWindow, len(history))
		}
		// oldest entries fell off the front
		if history[0].Content != fmt.Sprintf("message %d", 5) {
			t.Errorf("window did not keep the most recent messages: %+v", history[0])
		}
	})

	t.Run("Unknown Chat Is Empty", func(t *testing.T) {
		history, err := convStore.GetHistory(ctx, "ghost-chat")
		if err != nil {
			t.Fatalf("GetHistory failed: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("expected empty history, got %d entries", len(history))
		}
	})

	t.Run("Delete Chat", func(t *testing.T) {
		if err := convStore.DeleteChat(ctx, chatID); err != nil {
			t.Fatalf("DeleteChat failed: %v", err)
		}
		if mr.Exists(chatID) {
			t.Error("chat still exists in redis after delete")
		}
	})

	t.Run("Chat Has TTL", func(t *testing.T) {
		ttlChat := "chat_ttl"
		if err := convStore.AppendMessage(ctx, ttlChat, ragmodel.ChatMessage{Role: ragmodel.RoleUser, Content: "hello there"}); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
		if mr.TTL(ttlChat) == 0 {
			t.Error("expected a ttl on the chat key")
		}
	})
}

func TestInMemoryConversationStore(t *testing.T) {
	convStore := store.InitConversationStore()
	ctx := context.Background()

	if err := convStore.AppendMessage(ctx, "c1", ragmodel.ChatMessage{Role: ragmodel.RoleUser, Content: "hi"}); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	history, err := convStore.GetHistory(ctx, "c1")
	if err != nil || len(history) != 1 {
		t.Fatalf("expected 1 message, got %d err=%v", len(history), err)
	}

	if err := convStore.DeleteChat(ctx, "c1"); err != nil {
		t.Fatalf("DeleteChat failed: %v", err)
	}
	history, _ = convStore.GetHistory(ctx, "c1")
	if len(history) != 0 {
		t.Errorf("expected empty history after delete")
	}
}
