package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking policy
	ChunkSize      = 800
	ChunkOverlap   = 100
	MinChunkLength = 50

	//retrieval + generation
	TopK                     = 6
	ModelTemperature float32 = 0.2
	MaxOutputTokens          = 1024
	SnippetLength            = 200
	ConfidenceThreshold      = 0.3
	HistoryWindow            = 10

	//vectorDB
	EmbeddingOutputDimensionality int32 = 1536
	KnowledgeBaseCollection             = "kb_default"
	QdrantHost                          = "localhost"
	QdrantGrpcPort                      = 6334
	QdrantUseTLS                        = false
	QdrantPoolSize                      = 1 //2-5 is preferred for prod according to documentation
	ScrollPageSize                      = 256

	//providers
	OpenAIChatModel       = "gpt-4o-mini"
	OpenAIEmbeddingModel  = "text-embedding-3-small"
	GeminiModelName       = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel  = "gemini-embedding-001"
	ProviderOpenAI        = "openai"
	ProviderGemini        = "gemini"

	//upload constraints
	MaxUploadSize   int64 = 50 << 20 //50mb
	AllowedMime           = "application/pdf,text/plain,text/markdown,text/html,application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 120 * time.Second //completion calls can take a while
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":8000"

	//CORS
	FrontendURL = "http://localhost:5173"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//conversation store sits in its own redis DB
	RedisConversationStore = 0
	RedisConversationTTL   = 24 * time.Hour
)

// env lookups with compile-time fallbacks, same pattern the clients use for QDRANT_HOST

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

// LLMProvider selects which provider pair backs the engine. Defaults to OpenAI.
func LLMProvider() string {
	if p := os.Getenv("LLM_PROVIDER"); p == ProviderGemini {
		return ProviderGemini
	}
	return ProviderOpenAI
}

func AllowedMimeTypes() []string {
	parts := strings.Split(AllowedMime, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
