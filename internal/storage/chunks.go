package storage

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

const chunkColumns = `id, coach_id, text_content, content_type, intent_tags, situation_tags,
	voice_sample, sentence_structure, energy_level, word_count, embedding, status, created_at`

// InsertChunk persists a newly ingested content chunk. A nil embedding is
// stored as NULL and the chunk should carry ChunkStatusPending.
func (s *Store) InsertChunk(c ContentChunk) error {
	intentJSON, err := marshalStrings(c.IntentTags)
	if err != nil {
		return fmt.Errorf("marshalling intent tags: %w", err)
	}
	situationJSON, err := marshalStrings(c.SituationTags)
	if err != nil {
		return fmt.Errorf("marshalling situation tags: %w", err)
	}

	var blob []byte
	if c.Embedding != nil {
		blob = EncodeEmbedding(c.Embedding)
	}

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.Exec(`
		INSERT INTO content_chunks (`+chunkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CoachID, c.Text, c.ContentType, intentJSON, situationJSON,
		boolToInt(c.VoiceSample), c.SentenceStructure, c.EnergyLevel, c.WordCount,
		blob, c.Status, createdAt.Format(time.RFC3339),
	)
	return err
}

// GetChunk returns a chunk by ID. Soft-deleted chunks are not returned.
func (s *Store) GetChunk(id string) (ContentChunk, error) {
	row := s.db.QueryRow(`SELECT `+chunkColumns+` FROM content_chunks WHERE id = ? AND deleted = 0`, id)
	return scanChunk(row)
}

// ListCoachChunks returns a coach's chunks, newest first.
func (s *Store) ListCoachChunks(coachID string, limit int) ([]ContentChunk, error) {
	rows, err := s.db.Query(`
		SELECT `+chunkColumns+` FROM content_chunks
		WHERE coach_id = ? AND deleted = 0
		ORDER BY created_at DESC LIMIT ?`, coachID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []ContentChunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// SetChunkEmbedding stores the embedding and marks the chunk processed.
// Used by the embed-backfill worker.
func (s *Store) SetChunkEmbedding(id string, embedding []float32) error {
	res, err := s.db.Exec(`UPDATE content_chunks SET embedding = ?, status = ? WHERE id = ?`,
		EncodeEmbedding(embedding), ChunkStatusProcessed, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SoftDeleteChunk hides a chunk from listings and retrieval.
func (s *Store) SoftDeleteChunk(id string) error {
	res, err := s.db.Exec(`UPDATE content_chunks SET deleted = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CountCoachChunks returns the number of live chunks for a coach.
func (s *Store) CountCoachChunks(coachID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM content_chunks WHERE coach_id = ? AND deleted = 0`, coachID).Scan(&n)
	return n, err
}

func scanChunk(row rowScanner) (ContentChunk, error) {
	var c ContentChunk
	var intentJSON, situationJSON, createdAt string
	var voiceSample int
	var blob []byte

	err := row.Scan(
		&c.ID, &c.CoachID, &c.Text, &c.ContentType, &intentJSON, &situationJSON,
		&voiceSample, &c.SentenceStructure, &c.EnergyLevel, &c.WordCount,
		&blob, &c.Status, &createdAt,
	)
	if err == sql.ErrNoRows {
		return ContentChunk{}, ErrNotFound
	}
	if err != nil {
		return ContentChunk{}, err
	}

	c.VoiceSample = voiceSample == 1
	if err := json.Unmarshal([]byte(intentJSON), &c.IntentTags); err != nil {
		return ContentChunk{}, fmt.Errorf("parsing intent tags for %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(situationJSON), &c.SituationTags); err != nil {
		return ContentChunk{}, fmt.Errorf("parsing situation tags for %s: %w", c.ID, err)
	}
	if blob != nil {
		if c.Embedding, err = DecodeEmbedding(blob); err != nil {
			return ContentChunk{}, fmt.Errorf("decoding embedding for %s: %w", c.ID, err)
		}
	}
	if c.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return ContentChunk{}, fmt.Errorf("parsing created_at for %s: %w", c.ID, err)
	}
	return c, nil
}

// EncodeEmbedding packs a float32 vector into a little-endian byte blob.
func EncodeEmbedding(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// DecodeEmbedding unpacks a little-endian byte blob into a float32 vector.
func DecodeEmbedding(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec, nil
}
