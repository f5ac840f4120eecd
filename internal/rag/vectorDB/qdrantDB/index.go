package qdrantDB

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/yotome/rag-assistant/internal/config"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
	"github.com/yotome/rag-assistant/internal/rag/embedding"
	"github.com/yotome/rag-assistant/internal/rag/vectorDB"
	"github.com/yotome/rag-assistant/pkg/logger_i"
)

var ixLogger *logger_i.Logger

type index struct {
	q          *qdrant.Client
	embedder   embedding.Embedder
	collection string
}

// NewIndex wires a qdrant-backed retrieval index over the given embedder.
func NewIndex(q *qdrant.Client, embedder embedding.Embedder) vectorDB.Index {
	if ixLogger == nil {
		ixLogger = logger_i.NewLogger("qdrant_index")
	}
	return &index{q: q, embedder: embedder, collection: config.KnowledgeBaseCollection}
}

// pointID derives a stable UUID from the chunk id so re-ingesting the same
// document rewrites the same points.
func pointID(docID string, chunkIndex int) string {
	chunkID := docID + "_" + strconv.Itoa(chunkIndex)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

// pointPayload is what one chunk carries in qdrant: the owning document's
// metadata plus the chunk's own position and md5.
func pointPayload(docID string, chunkIndex int, chunk string, meta ragmodel.DocumentMeta) map[string]any {
	chunkSum := md5.Sum([]byte(chunk))
	return map[string]any{
		"doc_id":           docID,
		"filename":         meta.Filename,
		"chunk_index":      chunkIndex,
		"content":          chunk,
		"content_hash":     hex.EncodeToString(chunkSum[:]),
		"doc_content_hash": meta.ContentHash,
		"mime_type":        meta.MimeType,
		"size":             meta.Size,
		"tags":             strings.Join(meta.Tags, ","),
		"uploaded_at":      meta.UploadedAt.Unix(),
	}
}

func (ix *index) AddDocument(ctx context.Context, docID string, chunks []string, meta ragmodel.DocumentMeta) (int, error) {
	log := ixLogger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))

	if len(chunks) == 0 {
		log.Warn("nothing to index", "docId", docID)
		return 0, nil
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return 0, err
	}

	// Drop any previous version first so a shorter re-upload cannot leave
	// stale tail chunks behind.
	if _, err := ix.DeleteDocument(ctx, docID); err != nil {
		return 0, err
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(docID, i)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(pointPayload(docID, i, chunk, meta)),
		}
	}

	_, err = ix.q.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: ix.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		log.Error("upsert failed", "docId", docID, "error", err)
		return 0, &ragmodel.IndexError{Op: "upsert", Err: err}
	}

	log.Debug("document indexed", "docId", docID, "chunks", len(chunks))
	return len(chunks), nil
}

func (ix *index) Search(ctx context.Context, query string, topK int, docIDs []string) ([]ragmodel.RetrievedChunk, error) {
	log := ixLogger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))

	vector, err := ix.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	var filter *qdrant.Filter
	if len(docIDs) > 0 {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatchKeywords("doc_id", docIDs...)},
		}
	}

	hits, err := ix.q.Query(ctx, &qdrant.QueryPoints{
		CollectionName: ix.collection,
		Query:          qdrant.NewQuery(vector...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		log.Error("query failed", "error", err)
		return nil, &ragmodel.IndexError{Op: "query", Err: err}
	}

	chunks := make([]ragmodel.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		chunks = append(chunks, ragmodel.RetrievedChunk{
			DocID:      hit.Payload["doc_id"].GetStringValue(),
			Filename:   hit.Payload["filename"].GetStringValue(),
			ChunkIndex: int(hit.Payload["chunk_index"].GetIntegerValue()),
			Content:    hit.Payload["content"].GetStringValue(),
			Score:      float64(hit.Score),
		})
	}
	return chunks, nil
}

func (ix *index) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatch("doc_id", docID)},
	}

	existing, err := ix.q.Count(ctx, &qdrant.CountPoints{
		CollectionName: ix.collection,
		Filter:         filter,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return false, &ragmodel.IndexError{Op: "count", Err: err}
	}
	if existing == 0 {
		return false, nil
	}

	_, err = ix.q.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: ix.collection,
		Points:         qdrant.NewPointsSelectorFilter(filter),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return false, &ragmodel.IndexError{Op: "delete", Err: err}
	}
	return true, nil
}

func (ix *index) ListDocuments(ctx context.Context) ([]ragmodel.Document, error) {
	byDoc := make(map[string]*ragmodel.Document)

	// The client's Scroll does not expose next_page_offset, so pages start
	// from the last seen id and the duplicate lead point is skipped.
	var offset *qdrant.PointId
	for {
		points, err := ix.q.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: ix.collection,
			Limit:          qdrant.PtrOf(uint32(config.ScrollPageSize)),
			WithPayload:    qdrant.NewWithPayload(true),
			Offset:         offset,
		})
		if err != nil {
			return nil, &ragmodel.IndexError{Op: "scroll", Err: err}
		}

		for _, p := range points {
			if offset != nil && p.Id.GetUuid() == offset.GetUuid() {
				continue
			}
			ix.accumulate(byDoc, p)
		}

		if len(points) < config.ScrollPageSize {
			break
		}
		offset = points[len(points)-1].Id
	}

	docs := make([]ragmodel.Document, 0, len(byDoc))
	for _, d := range byDoc {
		docs = append(docs, *d)
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].UploadedAt.After(docs[j].UploadedAt)
		}
		return docs[i].DocID < docs[j].DocID
	})
	return docs, nil
}

func (ix *index) accumulate(byDoc map[string]*ragmodel.Document, p *qdrant.RetrievedPoint) {
	docID := p.Payload["doc_id"].GetStringValue()
	if docID == "" {
		return
	}
	if d, ok := byDoc[docID]; ok {
		d.ChunkCount++
		return
	}

	var tags []string
	if raw := p.Payload["tags"].GetStringValue(); raw != "" {
		tags = strings.Split(raw, ",")
	}
	byDoc[docID] = &ragmodel.Document{
		DocID:       docID,
		Filename:    p.Payload["filename"].GetStringValue(),
		MimeType:    p.Payload["mime_type"].GetStringValue(),
		Size:        p.Payload["size"].GetIntegerValue(),
		Tags:        tags,
		UploadedAt:  time.Unix(p.Payload["uploaded_at"].GetIntegerValue(), 0).UTC(),
		ContentHash: p.Payload["doc_content_hash"].GetStringValue(),
		ChunkCount:  1,
	}
}

func (ix *index) Stats(ctx context.Context) (ragmodel.IndexStats, error) {
	chunks, err := ix.q.Count(ctx, &qdrant.CountPoints{
		CollectionName: ix.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return ragmodel.IndexStats{}, &ragmodel.IndexError{Op: "count", Err: err}
	}

	docs, err := ix.ListDocuments(ctx)
	if err != nil {
		return ragmodel.IndexStats{}, err
	}

	return ragmodel.IndexStats{
		TotalDocuments: len(docs),
		TotalChunks:    int(chunks),
		Collection:     ix.collection,
	}, nil
}
