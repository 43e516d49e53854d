package pipeline

import (
	"context"

	"github.com/kalambet/coachwire/internal/reranking"
	"github.com/kalambet/coachwire/internal/retrieval"
)

// RerankedRetriever decorates a ContextRetriever with LLM reranking of the
// retrieved exemplars. Reranking failures keep the original order.
type RerankedRetriever struct {
	inner    ContextRetriever
	reranker reranking.Reranker
}

// NewRerankedRetriever wraps inner with the given reranker.
func NewRerankedRetriever(inner ContextRetriever, reranker reranking.Reranker) *RerankedRetriever {
	return &RerankedRetriever{inner: inner, reranker: reranker}
}

func (r *RerankedRetriever) FindRelevantContent(ctx context.Context, coachID, query string) retrieval.Result {
	result := r.inner.FindRelevantContent(ctx, coachID, query)
	if len(result.Chunks) < 2 {
		return result
	}
	reranked, err := r.reranker.Rerank(ctx, query, result.Chunks)
	if err != nil {
		return result
	}
	result.Chunks = reranked
	return result
}
