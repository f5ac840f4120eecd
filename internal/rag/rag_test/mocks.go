package rag_test

import (
	"context"

	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

// MockIndex implements vectorDB.Index
type MockIndex struct {
	// Control fields to simulate different behaviors
	OnAddDocument    func(ctx context.Context, docID string, chunks []string, meta ragmodel.DocumentMeta) (int, error)
	OnSearch         func(ctx context.Context, query string, topK int, docIDs []string) ([]ragmodel.RetrievedChunk, error)
	OnDeleteDocument func(ctx context.Context, docID string) (bool, error)
	OnListDocuments  func(ctx context.Context) ([]ragmodel.Document, error)
	OnStats          func(ctx context.Context) (ragmodel.IndexStats, error)
}

func (m *MockIndex) AddDocument(ctx context.Context, docID string, chunks []string, meta ragmodel.DocumentMeta) (int, error) {
	if m.OnAddDocument != nil {
		return m.OnAddDocument(ctx, docID, chunks, meta)
	}
	return len(chunks), nil
}

func (m *MockIndex) Search(ctx context.Context, query string, topK int, docIDs []string) ([]ragmodel.RetrievedChunk, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, query, topK, docIDs)
	}
	return nil, nil
}

func (m *MockIndex) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	if m.OnDeleteDocument != nil {
		return m.OnDeleteDocument(ctx, docID)
	}
	return false, nil
}

func (m *MockIndex) ListDocuments(ctx context.Context) ([]ragmodel.Document, error) {
	if m.OnListDocuments != nil {
		return m.OnListDocuments(ctx)
	}
	return nil, nil
}

func (m *MockIndex) Stats(ctx context.Context) (ragmodel.IndexStats, error) {
	if m.OnStats != nil {
		return m.OnStats(ctx)
	}
	return ragmodel.IndexStats{}, nil
}

// MockProvider implements llm.Provider
type MockProvider struct {
	OnComplete func(ctx context.Context, messages []ragmodel.ChatMessage, temperature float32, maxTokens int) (string, *ragmodel.TokenUsage, error)
}

func (m *MockProvider) Complete(ctx context.Context, messages []ragmodel.ChatMessage, temperature float32, maxTokens int) (string, *ragmodel.TokenUsage, error) {
	if m.OnComplete != nil {
		return m.OnComplete(ctx, messages, temperature, maxTokens)
	}
	return "default answer", nil, nil
}
