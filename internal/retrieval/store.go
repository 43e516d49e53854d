package retrieval

import (
	"container/heap"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kalambet/coachwire/internal/storage"
)

// Compile-time check that SQLiteStore implements VectorStore.
var _ VectorStore = (*SQLiteStore)(nil)

// SQLiteStore performs brute-force cosine similarity search over the
// content_chunks table. Fine for per-coach corpora in the thousands; swap
// in an ANN backend behind VectorStore when that stops being true.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an existing *sql.DB for vector search. The
// content_chunks table must already exist (created via storage migrations).
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// idScore holds only the ID and score during the scan phase of Search.
// Full chunk details are fetched only for the top-K winners.
type idScore struct {
	ID    string
	Score float32
}

// Search scans the coach's embedded chunks, keeps those at or above the
// similarity threshold, and returns the top-K by score descending.
func (s *SQLiteStore) Search(coachID string, vector []float32, threshold float32, limit int) ([]ScoredChunk, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT id, embedding FROM content_chunks
		WHERE coach_id = ? AND deleted = 0 AND embedding IS NOT NULL`, coachID)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	queryNorm := norm(vector)
	if queryNorm == 0 {
		return nil, nil
	}

	h := &idScoreHeap{}
	heap.Init(h)

	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		emb, err := storage.DecodeEmbedding(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding for %s: %w", id, err)
		}

		score := cosine(vector, emb, queryNorm)
		if score < threshold {
			continue
		}
		if h.Len() < limit {
			heap.Push(h, idScore{ID: id, Score: score})
		} else if score > (*h)[0].Score {
			(*h)[0] = idScore{ID: id, Score: score}
			heap.Fix(h, 0)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	if h.Len() == 0 {
		return nil, nil
	}

	// Fetch full chunks only for the winners.
	topIDs := make([]string, h.Len())
	scores := make(map[string]float32, h.Len())
	for i := len(topIDs) - 1; i >= 0; i-- {
		item := heap.Pop(h).(idScore)
		topIDs[i] = item.ID
		scores[item.ID] = item.Score
	}

	queryArgs := make([]interface{}, len(topIDs))
	for i, id := range topIDs {
		queryArgs[i] = id
	}
	fullQuery := `SELECT id, coach_id, text_content, content_type, intent_tags, created_at
		FROM content_chunks WHERE id IN (?` + strings.Repeat(",?", len(topIDs)-1) + `)`

	fullRows, err := s.db.Query(fullQuery, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("fetching top-K chunks: %w", err)
	}
	defer fullRows.Close()

	var results []ScoredChunk
	for fullRows.Next() {
		var c ScoredChunk
		var tagsJSON, createdAt string
		if err := fullRows.Scan(&c.ID, &c.CoachID, &c.Text, &c.ContentType, &tagsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning full chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &c.IntentTags); err != nil {
			return nil, fmt.Errorf("parsing intent tags for %s: %w", c.ID, err)
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		c.CreatedAt = t
		c.Score = scores[c.ID]
		results = append(results, c)
	}
	if err := fullRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating full chunks: %w", err)
	}

	// Sort by score descending (IN query doesn't preserve order).
	sortByScore(results)

	return results, nil
}

// sortByScore sorts ScoredChunks by Score descending. Used for small slices.
func sortByScore(results []ScoredChunk) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Score > results[j-1].Score; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
}

// cosine computes cosine similarity given a precomputed query norm.
// Vectors of mismatched length or zero norm score 0.
func cosine(query, candidate []float32, queryNorm float64) float32 {
	if len(query) != len(candidate) {
		return 0
	}
	var dot, candNorm float64
	for i := range query {
		dot += float64(query[i]) * float64(candidate[i])
		candNorm += float64(candidate[i]) * float64(candidate[i])
	}
	if candNorm == 0 {
		return 0
	}
	return float32(dot / (queryNorm * math.Sqrt(candNorm)))
}

func norm(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}

// idScoreHeap is a min-heap over scores, keeping the current top-K.
type idScoreHeap []idScore

func (h idScoreHeap) Len() int            { return len(h) }
func (h idScoreHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h idScoreHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *idScoreHeap) Push(x interface{}) { *h = append(*h, x.(idScore)) }
func (h *idScoreHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
