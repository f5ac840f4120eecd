package rag

import (
	"context"

	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
	"github.com/yotome/rag-assistant/internal/rag/ingest"
	"github.com/yotome/rag-assistant/internal/rag/llm"
	"github.com/yotome/rag-assistant/internal/rag/vectorDB"
	"github.com/yotome/rag-assistant/internal/rag/workflow"
	"github.com/yotome/rag-assistant/pkg/logger_i"
)

// Service is the public contract handlers program against. It hides the
// index, the workflow engine and the providers behind one surface so that
// tests can swap any of them for mocks.
type Service interface {
	// IngestDocument chunks and indexes already-extracted text.
	IngestDocument(ctx context.Context, req ragmodel.IngestRequest) (ragmodel.Document, error)

	// ProcessQuery runs the query workflow. Never returns an error, failures
	// degrade into the response itself.
	ProcessQuery(ctx context.Context, query string, history []ragmodel.ChatMessage, ragOnly bool) ragmodel.QueryResponse

	// Search exposes raw retrieval without answer generation.
	Search(ctx context.Context, query string, topK int, docIDs []string) ([]ragmodel.RetrievedChunk, error)

	ListDocuments(ctx context.Context) ([]ragmodel.Document, error)
	DeleteDocument(ctx context.Context, docID string) (bool, error)
	Stats(ctx context.Context) (ragmodel.IndexStats, error)
}

type service struct {
	index  vectorDB.Index
	engine *workflow.Engine
	logger *logger_i.Logger
}

// NewService constructor
func NewService(index vectorDB.Index, provider llm.Provider) Service {
	return &service{
		index:  index,
		engine: workflow.NewEngine(index, provider),
		logger: logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) IngestDocument(ctx context.Context, req ragmodel.IngestRequest) (ragmodel.Document, error) {
	defer s.timed("document_ingestion")()

	doc, err := ingest.ProcessDocumentIngestion(ctx, req, s.index)
	if err != nil {
		return ragmodel.Document{}, err
	}
	s.countIngested(doc.ChunkCount)
	return doc, nil
}

func (s *service) ProcessQuery(ctx context.Context, query string, history []ragmodel.ChatMessage, ragOnly bool) ragmodel.QueryResponse {
	defer s.timedQuery()()
	return s.engine.ProcessQuery(ctx, query, history, ragOnly)
}

func (s *service) Search(ctx context.Context, query string, topK int, docIDs []string) ([]ragmodel.RetrievedChunk, error) {
	defer s.timed("retrieval")()
	return s.index.Search(ctx, query, topK, docIDs)
}

func (s *service) ListDocuments(ctx context.Context) ([]ragmodel.Document, error) {
	return s.index.ListDocuments(ctx)
}

func (s *service) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	return s.index.DeleteDocument(ctx, docID)
}

func (s *service) Stats(ctx context.Context) (ragmodel.IndexStats, error) {
	return s.index.Stats(ctx)
}
