package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Chunk processing statuses.
const (
	ChunkStatusProcessed = "processed"
	ChunkStatusPending   = "pending" // embedding missing, backfill job queued
)

// ContentChunk is one ingested document's worth of coach material.
// Immutable once processed except for a soft delete; re-ingestion creates
// a new chunk.
type ContentChunk struct {
	ID                string
	CoachID           string
	Text              string
	ContentType       string
	IntentTags        []string
	SituationTags     []string
	VoiceSample       bool
	SentenceStructure string
	EnergyLevel       int
	WordCount         int
	Embedding         []float32
	Status            string
	CreatedAt         time.Time
}

// Job is a queued unit of background work (embed backfill).
type Job struct {
	ID          string
	Type        string
	PayloadJSON string
	Status      string // "pending", "running", "completed", "failed"
	Attempts    int
	MaxAttempts int
	RunAfter    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastError   string
}

// JobTypeEmbedChunk re-embeds a chunk whose inline embedding failed.
const JobTypeEmbedChunk = "embed_chunk"
