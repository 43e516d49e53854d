package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/kalambet/coachwire/internal/retrieval"
)

type staticRetriever struct {
	result retrieval.Result
}

func (s *staticRetriever) FindRelevantContent(_ context.Context, _, _ string) retrieval.Result {
	return s.result
}

type reverseReranker struct {
	err error
}

func (r *reverseReranker) Rerank(_ context.Context, _ string, chunks []retrieval.ScoredChunk) ([]retrieval.ScoredChunk, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]retrieval.ScoredChunk, len(chunks))
	for i, c := range chunks {
		out[len(chunks)-1-i] = c
	}
	return out, nil
}

func TestRerankedRetriever_Reorders(t *testing.T) {
	inner := &staticRetriever{result: retrieval.Result{
		Chunks: []retrieval.ScoredChunk{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	}}
	r := NewRerankedRetriever(inner, &reverseReranker{})

	result := r.FindRelevantContent(context.Background(), "coach-1", "query")
	if len(result.Chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(result.Chunks))
	}
	if result.Chunks[0].ID != "c" || result.Chunks[2].ID != "a" {
		t.Fatalf("chunks not reranked: %+v", result.Chunks)
	}
}

func TestRerankedRetriever_ErrorKeepsOrder(t *testing.T) {
	inner := &staticRetriever{result: retrieval.Result{
		Chunks: []retrieval.ScoredChunk{{ID: "a"}, {ID: "b"}},
	}}
	r := NewRerankedRetriever(inner, &reverseReranker{err: errors.New("model down")})

	result := r.FindRelevantContent(context.Background(), "coach-1", "query")
	if result.Chunks[0].ID != "a" {
		t.Fatalf("order should be preserved on reranker error: %+v", result.Chunks)
	}
}

func TestRerankedRetriever_SingleChunkSkipsReranker(t *testing.T) {
	inner := &staticRetriever{result: retrieval.Result{
		Chunks: []retrieval.ScoredChunk{{ID: "only"}},
	}}
	r := NewRerankedRetriever(inner, &reverseReranker{err: errors.New("should not be called")})

	result := r.FindRelevantContent(context.Background(), "coach-1", "query")
	if len(result.Chunks) != 1 || result.Chunks[0].ID != "only" {
		t.Fatalf("unexpected result: %+v", result.Chunks)
	}
}
