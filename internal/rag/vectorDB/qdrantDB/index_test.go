package qdrantDB

import (
	"context"
	"testing"
	"time"

	"github.com/qdrant/go-client/qdrant"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

func testMeta() ragmodel.DocumentMeta {
	return ragmodel.DocumentMeta{
		Filename:    "doc.txt",
		MimeType:    "text/plain",
		Size:        42,
		Tags:        []string{"a", "b"},
		UploadedAt:  time.Unix(1700000000, 0).UTC(),
		ContentHash: "d0cd0cd0cd0cd0cd0cd0cd0cd0cd0cd0",
	}
}

func TestAddDocument_EmptyChunkListIsNoop(t *testing.T) {
	// No client or embedder may be touched before the empty-input return.
	ix := NewIndex(nil, nil)

	count, err := ix.AddDocument(context.Background(), "doc-1", nil, testMeta())
	if err != nil {
		t.Fatalf("empty chunk list must not error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 chunks stored, got %d", count)
	}
}

func TestPointPayload_PerChunkHash(t *testing.T) {
	meta := testMeta()

	first := pointPayload("doc-1", 0, "first chunk text", meta)
	second := pointPayload("doc-1", 1, "second chunk text", meta)

	firstHash, _ := first["content_hash"].(string)
	secondHash, _ := second["content_hash"].(string)
	if firstHash == "" || len(firstHash) != 32 {
		t.Fatalf("content_hash should be a hex md5, got %q", firstHash)
	}
	if firstHash == secondHash {
		t.Error("different chunk texts must hash differently")
	}

	again := pointPayload("doc-2", 7, "first chunk text", meta)
	if again["content_hash"] != firstHash {
		t.Error("content_hash must depend only on the chunk text")
	}

	for _, p := range []map[string]any{first, second} {
		if p["doc_content_hash"] != meta.ContentHash {
			t.Errorf("doc_content_hash should carry the document digest, got %v", p["doc_content_hash"])
		}
	}
	if first["chunk_index"] != 0 || second["chunk_index"] != 1 {
		t.Errorf("chunk indexes not preserved: %v, %v", first["chunk_index"], second["chunk_index"])
	}
	if first["tags"] != "a,b" {
		t.Errorf("tags should be comma joined, got %v", first["tags"])
	}
}

func TestPointID_Deterministic(t *testing.T) {
	if pointID("doc-1", 0) != pointID("doc-1", 0) {
		t.Error("same chunk must map to the same point id")
	}
	if pointID("doc-1", 0) == pointID("doc-1", 1) {
		t.Error("different chunk indexes must map to different point ids")
	}
	if pointID("doc-1", 0) == pointID("doc-2", 0) {
		t.Error("different documents must map to different point ids")
	}
}

func TestAccumulate_GroupsByDocAndKeepsDocHash(t *testing.T) {
	ix := &index{collection: "test"}
	meta := testMeta()
	byDoc := make(map[string]*ragmodel.Document)

	for i, chunk := range []string{"chunk zero", "chunk one", "chunk two"} {
		ix.accumulate(byDoc, &qdrant.RetrievedPoint{
			Id:      qdrant.NewID(pointID("doc-1", i)),
			Payload: qdrant.NewValueMap(pointPayload("doc-1", i, chunk, meta)),
		})
	}

	doc, ok := byDoc["doc-1"]
	if !ok {
		t.Fatal("document not accumulated")
	}
	if doc.ChunkCount != 3 {
		t.Errorf("chunk count = %d, want 3", doc.ChunkCount)
	}
	if doc.ContentHash != meta.ContentHash {
		t.Errorf("document hash should be the full-text digest, got %q", doc.ContentHash)
	}
	if doc.Filename != "doc.txt" || len(doc.Tags) != 2 {
		t.Errorf("metadata lost in accumulation: %+v", doc)
	}
	if !doc.UploadedAt.Equal(meta.UploadedAt) {
		t.Errorf("uploaded_at mismatch: %v", doc.UploadedAt)
	}
}
