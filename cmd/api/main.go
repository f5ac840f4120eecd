// @title           Yotome RAG Assistant API
// @version         1.0
// @description     Retrieval-augmented question answering over an uploaded document knowledge base.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/yotome/rag-assistant/internal/config"
	"github.com/yotome/rag-assistant/internal/data/store"
	"github.com/yotome/rag-assistant/internal/handlers"
	"github.com/yotome/rag-assistant/internal/rag"
	"github.com/yotome/rag-assistant/internal/rag/embedding"
	"github.com/yotome/rag-assistant/internal/rag/embedding/googleEmbedding"
	"github.com/yotome/rag-assistant/internal/rag/embedding/openaiEmbedding"
	"github.com/yotome/rag-assistant/internal/rag/llm"
	"github.com/yotome/rag-assistant/internal/rag/llm/gemini"
	"github.com/yotome/rag-assistant/internal/rag/llm/openaiLLM"
	"github.com/yotome/rag-assistant/internal/rag/vectorDB/qdrantDB"
	"github.com/yotome/rag-assistant/internal/server"
	"github.com/yotome/rag-assistant/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	var conversationStore store.ConversationStore
	if redisConv := store.GetRedisConversationStore(serviceContext); redisConv != nil {
		conversationStore = redisConv
	} else {
		logger.Error("Redis is offline, conversations will not survive a restart")
		conversationStore = store.InitConversationStore()
	}

	qdrantClient := qdrantDB.GetQdrantClient(serviceContext)
	embedder, llmProvider := buildProviders(serviceContext)

	if qdrantClient == nil || embedder == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", qdrantClient != nil, "Embedder", embedder != nil, "LLMProvider", llmProvider != nil)
		return
	}

	index := qdrantDB.NewIndex(qdrantClient, embedder)
	ragService := rag.NewService(index, llmProvider)
	handler := handlers.New(ragService, conversationStore)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, handler)

	<-stopExecution
	logger.Info("Server stopped")
}

// buildProviders picks the embedding/completion pair from LLM_PROVIDER.
// The pair always comes from the same vendor so vectors and answers agree.
func buildProviders(ctx context.Context) (embedding.Embedder, llm.Provider) {
	switch config.LLMProvider() {
	case config.ProviderGemini:
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel),
			gemini.GetGeminiClient(ctx, config.GeminiModelName)
	default:
		return openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel),
			openaiLLM.GetOpenAIClient(config.OpenAIChatModel)
	}
}
