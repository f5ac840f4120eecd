package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
	"github.com/yotome/rag-assistant/internal/rag"
)

func TestIngestDocument_Success(t *testing.T) {
	var gotDocID string
	var gotMeta ragmodel.DocumentMeta
	var gotChunks []string

	ix := &MockIndex{
		OnAddDocument: func(ctx context.Context, docID string, chunks []string, meta ragmodel.DocumentMeta) (int, error) {
			gotDocID = docID
			gotMeta = meta
			gotChunks = chunks
			return len(chunks), nil
		},
	}
	svc := rag.NewService(ix, &MockProvider{})

	text := strings.Repeat("The retention policy keeps backups for ninety days. ", 40)
	doc, err := svc.IngestDocument(context.Background(), ragmodel.IngestRequest{
		Text:     text,
		Filename: "policy.txt",
		MimeType: "text/plain",
		Size:     int64(len(text)),
		Tags:     []string{"policy"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.DocID == "" || doc.DocID != gotDocID {
		t.Errorf("doc id not propagated: %q vs %q", doc.DocID, gotDocID)
	}
	if doc.ChunkCount != len(gotChunks) || doc.ChunkCount == 0 {
		t.Errorf("chunk count = %d, indexed %d", doc.ChunkCount, len(gotChunks))
	}
	if gotMeta.Filename != "policy.txt" || gotMeta.MimeType != "text/plain" {
		t.Errorf("metadata not propagated: %+v", gotMeta)
	}
	if gotMeta.ContentHash == "" || doc.ContentHash != gotMeta.ContentHash {
		t.Errorf("content hash missing or mismatched")
	}
	if gotMeta.UploadedAt.IsZero() {
		t.Errorf("uploaded_at not set")
	}
}

func TestIngestDocument_EmptyTextRejected(t *testing.T) {
	ix := &MockIndex{
		OnAddDocument: func(ctx context.Context, docID string, chunks []string, meta ragmodel.DocumentMeta) (int, error) {
			t.Fatal("index must not be written for empty content")
			return 0, nil
		},
	}
	svc := rag.NewService(ix, &MockProvider{})

	_, err := svc.IngestDocument(context.Background(), ragmodel.IngestRequest{
		Text:     "   \n\n  ",
		Filename: "empty.txt",
		MimeType: "text/plain",
	})

	var vErr *ragmodel.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIngestDocument_IndexFailurePropagates(t *testing.T) {
	ix := &MockIndex{
		OnAddDocument: func(ctx context.Context, docID string, chunks []string, meta ragmodel.DocumentMeta) (int, error) {
			return 0, &ragmodel.IndexError{Op: "upsert", Err: errors.New("connection refused")}
		},
	}
	svc := rag.NewService(ix, &MockProvider{})

	_, err := svc.IngestDocument(context.Background(), ragmodel.IngestRequest{
		Text:     strings.Repeat("Meaningful content about the retention policy. ", 30),
		Filename: "policy.txt",
		MimeType: "text/plain",
	})

	var iErr *ragmodel.IndexError
	if !errors.As(err, &iErr) {
		t.Fatalf("expected index error, got %v", err)
	}
}

func TestDeleteDocument_ReportsFound(t *testing.T) {
	ix := &MockIndex{
		OnDeleteDocument: func(ctx context.Context, docID string) (bool, error) {
			return docID == "known", nil
		},
	}
	svc := rag.NewService(ix, &MockProvider{})

	found, err := svc.DeleteDocument(context.Background(), "known")
	if err != nil || !found {
		t.Errorf("expected found=true, got %v err=%v", found, err)
	}
	found, err = svc.DeleteDocument(context.Background(), "missing")
	if err != nil || found {
		t.Errorf("expected found=false, got %v err=%v", found, err)
	}
}

func TestSearch_PassesThroughFilter(t *testing.T) {
	var gotTopK int
	var gotDocIDs []string
	ix := &MockIndex{
		OnSearch: func(ctx context.Context, q string, topK int, docIDs []string) ([]ragmodel.RetrievedChunk, error) {
			gotTopK = topK
			gotDocIDs = docIDs
			return highScoreChunks(), nil
		},
	}
	svc := rag.NewService(ix, &MockProvider{})

	chunks, err := svc.Search(context.Background(), "retention policy", 4, []string{"d1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTopK != 4 || len(gotDocIDs) != 1 {
		t.Errorf("search args not forwarded: topK=%d docIDs=%v", gotTopK, gotDocIDs)
	}
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(chunks))
	}
}
