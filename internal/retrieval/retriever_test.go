package retrieval

import (
	"context"
	"errors"
	"testing"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vec, s.err
}

type stubStore struct {
	chunks    []ScoredChunk
	err       error
	coachID   string
	threshold float32
	limit     int
}

func (s *stubStore) Search(coachID string, vector []float32, threshold float32, limit int) ([]ScoredChunk, error) {
	s.coachID = coachID
	s.threshold = threshold
	s.limit = limit
	return s.chunks, s.err
}

func TestFindRelevantContent_Success(t *testing.T) {
	store := &stubStore{chunks: []ScoredChunk{{ID: "ch1", Score: 0.92}}}
	r := NewRetriever(&stubEmbedder{vec: []float32{1, 0}}, store, 0, 0)

	res := r.FindRelevantContent(context.Background(), "c1", "leg day advice")

	if res.Degraded {
		t.Errorf("Degraded = true, want false")
	}
	if len(res.Chunks) != 1 || res.Chunks[0].ID != "ch1" {
		t.Errorf("Chunks = %+v, want ch1", res.Chunks)
	}
	if store.coachID != "c1" {
		t.Errorf("search coachID = %q, want c1", store.coachID)
	}
	if store.limit != DefaultLimit || store.threshold != DefaultThreshold {
		t.Errorf("defaults not applied: limit=%d threshold=%v", store.limit, store.threshold)
	}
}

func TestFindRelevantContent_EmbedFailureDegrades(t *testing.T) {
	r := NewRetriever(&stubEmbedder{err: errors.New("engine down")}, &stubStore{}, 3, 0.7)

	res := r.FindRelevantContent(context.Background(), "c1", "query")

	if !res.Degraded {
		t.Errorf("Degraded = false, want true")
	}
	if len(res.Chunks) != 0 {
		t.Errorf("Chunks = %+v, want empty", res.Chunks)
	}
	if res.Reason == "" {
		t.Errorf("Reason empty, want explanation")
	}
}

func TestFindRelevantContent_SearchFailureDegrades(t *testing.T) {
	r := NewRetriever(
		&stubEmbedder{vec: []float32{1, 0}},
		&stubStore{err: errors.New("disk on fire")},
		3, 0.7,
	)

	res := r.FindRelevantContent(context.Background(), "c1", "query")

	if !res.Degraded || len(res.Chunks) != 0 {
		t.Errorf("result = %+v, want degraded empty", res)
	}
}
