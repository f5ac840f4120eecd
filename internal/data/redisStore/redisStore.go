package redisStore

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yotome/rag-assistant/internal/config"
	"github.com/yotome/rag-assistant/pkg/logger_i"
)

var (
	instances = make(map[int]*Store)
	mu        sync.Mutex
	logger    *logger_i.Logger
	once      sync.Once
)

// Store wraps one redis logical database. The conversation store lives in
// its own DB so flushing it never touches anything else.
type Store struct {
	client *redis.Client
	DB     int
}

// GetRedisStore returns the shared store for the given logical database,
// dialing it on first use. Returns nil when redis is unreachable.
func GetRedisStore(ctx context.Context, db int) *Store {
	mu.Lock()
	defer mu.Unlock()

	if instance, exists := instances[db]; exists {
		return instance
	}
	return dialStore(ctx, db)
}

func dialStore(ctx context.Context, db int) *Store {
	if logger == nil {
		logger = logger_i.NewLogger("Redis Store")
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = config.RedisAddr
	}

	client := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              config.RedisPassword,
		DB:                    db,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis is offline", "addr", addr, "db", db, "error", err)
		return nil
	}
	logger.Info("Redis connected", "db", strconv.Itoa(db))

	store := &Store{client: client, DB: db}
	instances[db] = store
	once.Do(func() {
		go closeRedisStores(ctx)
	})
	return store
}

func closeRedisStores(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing Redis Stores")
	mu.Lock()
	defer mu.Unlock()
	for _, store := range instances {
		if err := store.client.Close(); err != nil {
			logger.Error("Error closing redis client", "error", err)
		}
	}
	logger.Info("Redis Store Closed successfully")
}

// NewTestStore binds a Store to an already-dialed client, miniredis in tests.
func NewTestStore(client *redis.Client) *Store {
	return &Store{client: client}
}
