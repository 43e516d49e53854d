package retrieval

import (
	"context"
	"log/slog"
)

const (
	// DefaultLimit is the default number of exemplar chunks retrieved.
	DefaultLimit = 3
	// DefaultThreshold is the default minimum cosine similarity.
	DefaultThreshold = 0.7
)

// QueryEmbedder abstracts query embedding for the Retriever.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Result is the outcome of a retrieval attempt. Retrieval is an enhancement,
// not a correctness-critical path: upstream failures produce an empty,
// degraded result instead of an error so callers always get a reply path.
type Result struct {
	Chunks   []ScoredChunk
	Degraded bool
	Reason   string
}

// Retriever combines query embedding and vector search to find the exemplar
// content most relevant to an incoming message.
type Retriever struct {
	embedder  QueryEmbedder
	store     VectorStore
	limit     int
	threshold float32
}

// NewRetriever creates a Retriever with the given defaults. Non-positive
// limit or threshold fall back to DefaultLimit / DefaultThreshold.
func NewRetriever(embedder QueryEmbedder, store VectorStore, limit int, threshold float32) *Retriever {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Retriever{embedder: embedder, store: store, limit: limit, threshold: threshold}
}

// FindRelevantContent embeds the query and searches the coach's corpus.
// The result is degraded (empty, with a reason) on any upstream failure.
func (r *Retriever) FindRelevantContent(ctx context.Context, coachID, query string) Result {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		slog.Warn("retrieval degraded: embedding failed", "coach_id", coachID, "error", err)
		return Result{Degraded: true, Reason: "embedding unavailable"}
	}

	chunks, err := r.store.Search(coachID, vec, r.threshold, r.limit)
	if err != nil {
		slog.Warn("retrieval degraded: search failed", "coach_id", coachID, "error", err)
		return Result{Degraded: true, Reason: "search unavailable"}
	}

	return Result{Chunks: chunks}
}
