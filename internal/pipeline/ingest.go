package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/extract"
	"github.com/kalambet/coachwire/internal/storage"
	"github.com/kalambet/coachwire/internal/voice"
)

// IngestRequest carries one raw document for a coach.
type IngestRequest struct {
	CoachID     string
	Raw         []byte
	Filename    string
	ContentType string // one of the coach content types
	Format      string // optional; guessed from Filename when empty
}

// IngestResult reports what ingestion produced.
type IngestResult struct {
	ChunkID       string             `json:"chunk_id"`
	IntentTags    []string           `json:"intent_tags"`
	SituationTags []string           `json:"situation_tags"`
	VoiceSample   bool               `json:"voice_sample"`
	Profile       coach.VoiceProfile `json:"voice_profile"`
	Pending       bool               `json:"pending,omitempty"` // embedding deferred to the backfill worker
}

// IngestContent runs the ingestion path: extract text, analyze voice
// features, tag, embed, persist the chunk, and fold the sample into the
// coach's voice profile. Each call creates a new chunk; existing chunks
// are never mutated. An embedding failure does not fail ingestion: the
// chunk is stored as pending and a backfill job is queued.
func (s *Service) IngestContent(ctx context.Context, req IngestRequest) (IngestResult, error) {
	if !coach.ValidContentType(coach.ContentType(req.ContentType)) {
		return IngestResult{}, fmt.Errorf("unknown content type %q", req.ContentType)
	}

	format := req.Format
	if format == "" {
		format = extract.FormatForPath(req.Filename)
	}
	text, err := extract.Text(req.Raw, format)
	if err != nil {
		return IngestResult{}, fmt.Errorf("extracting text: %w", err)
	}
	if text == "" {
		return IngestResult{}, fmt.Errorf("no text extracted from %q", req.Filename)
	}

	// Coach load and embedding have no data dependency; run them together.
	var (
		c         coach.Coach
		embedding []float32
		embedErr  error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = s.coaches.Get(req.CoachID)
		return err
	})
	g.Go(func() error {
		embedding, embedErr = s.embedder.Embed(gctx, text)
		return nil // embedding failure is handled below, not fatal
	})
	if err := g.Wait(); err != nil {
		return IngestResult{}, fmt.Errorf("loading coach %s: %w", req.CoachID, err)
	}

	features := voice.Analyze(text)
	intents, situations := s.tagger.Tag(text, req.ContentType)

	chunk := storage.ContentChunk{
		ID:                uuid.New().String(),
		CoachID:           req.CoachID,
		Text:              text,
		ContentType:       req.ContentType,
		IntentTags:        intents,
		SituationTags:     situations,
		SentenceStructure: features.SentenceStructure,
		EnergyLevel:       features.EnergyLevel,
		WordCount:         features.WordCount,
		Embedding:         embedding,
		Status:            storage.ChunkStatusProcessed,
		CreatedAt:         time.Now().UTC(),
	}

	isSample := coach.IsVoiceSample(text, intents, features)
	chunk.VoiceSample = isSample

	pending := false
	if embedErr != nil {
		s.logger.Warn("inline embedding failed, queueing backfill",
			"coach_id", req.CoachID, "error", embedErr)
		chunk.Embedding = nil
		chunk.Status = storage.ChunkStatusPending
		pending = true
	}

	if err := s.store.InsertChunk(chunk); err != nil {
		return IngestResult{}, fmt.Errorf("storing chunk: %w", err)
	}

	if pending {
		payload, _ := json.Marshal(map[string]string{"chunk_id": chunk.ID})
		job := storage.Job{
			ID:          uuid.New().String(),
			Type:        storage.JobTypeEmbedChunk,
			PayloadJSON: string(payload),
			MaxAttempts: 5,
		}
		if err := s.store.EnqueueJob(job); err != nil {
			s.logger.Error("failed to queue embed backfill", "chunk_id", chunk.ID, "error", err)
		}
	}

	if isSample {
		coach.ApplySample(&c, features)
	}
	c.ContentPieces++
	if err := s.coaches.Update(c); err != nil {
		s.logger.Warn("failed to update coach after ingest", "coach_id", c.ID, "error", err)
	}

	return IngestResult{
		ChunkID:       chunk.ID,
		IntentTags:    intents,
		SituationTags: situations,
		VoiceSample:   isSample,
		Profile:       c.Voice,
		Pending:       pending,
	}, nil
}
