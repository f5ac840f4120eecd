package vectorDB

import (
	"context"

	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

// Index is the retrieval index over document chunks. Implementations own
// both the vector store and the embedder behind it.
type Index interface {
	// AddDocument embeds the chunks in one batch and upserts them. Re-adding
	// a doc_id overwrites its chunks in place. Returns the number of chunks
	// stored.
	AddDocument(ctx context.Context, docID string, chunks []string, meta ragmodel.DocumentMeta) (int, error)

	// Search embeds the query and returns up to topK chunks ordered by
	// descending similarity. A non-empty docIDs narrows the search to those
	// documents. Scores are 1 - cosine distance and may be negative.
	Search(ctx context.Context, query string, topK int, docIDs []string) ([]ragmodel.RetrievedChunk, error)

	// DeleteDocument removes every chunk of the document. The bool reports
	// whether anything existed to delete.
	DeleteDocument(ctx context.Context, docID string) (bool, error)

	// ListDocuments enumerates all indexed documents with their metadata,
	// sorted by upload time descending.
	ListDocuments(ctx context.Context) ([]ragmodel.Document, error)

	// Stats reports collection totals for health reporting.
	Stats(ctx context.Context) (ragmodel.IndexStats, error)
}
