package retrieval

import "time"

// VectorStore is the interface for similarity search over a coach's content
// chunks. The default implementation is SQLite with brute-force cosine
// similarity; an ANN-capable backend can be swapped in behind the same
// interface once corpus sizes warrant it.
type VectorStore interface {
	// Search returns chunks owned by coachID whose cosine similarity to
	// vector is at least threshold, ordered by similarity descending and
	// capped at limit.
	Search(coachID string, vector []float32, threshold float32, limit int) ([]ScoredChunk, error)
}

// ScoredChunk is a retrieved content chunk with its similarity score.
type ScoredChunk struct {
	ID          string
	CoachID     string
	Text        string
	ContentType string
	IntentTags  []string
	Score       float32
	CreatedAt   time.Time
}
