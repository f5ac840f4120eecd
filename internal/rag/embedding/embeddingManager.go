package embedding

import (
	"context"
)

// Embedder turns text into dense vectors for the retrieval index. Both
// methods are all-or-nothing: a provider failure surfaces as an error and
// never yields a partial batch.
type Embedder interface {
	// EmbedQuery embeds a single search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds documents in one provider call. The returned slice
	// is index-aligned with texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
