package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/composer"
	"github.com/kalambet/coachwire/internal/retrieval"
	"github.com/kalambet/coachwire/internal/taxonomy"
)

// ReplyRequest is one inbound subscriber message.
type ReplyRequest struct {
	CoachID      string
	SubscriberID string
	Message      string
	// EmotionalNeed and Situation override keyword inference when set.
	EmotionalNeed string
	Situation     string
}

// ReplyResult is the generated coaching reply plus diagnostics.
type ReplyResult struct {
	Reply         string   `json:"reply_text"`
	EmotionalNeed string   `json:"emotional_need"`
	Situation     string   `json:"situation"`
	UsedChunkIDs  []string `json:"used_chunk_ids,omitempty"`
}

// GenerateReply runs the response path: load the coach, retrieve voice
// exemplars, fetch recent conversation, compose the prompt, and complete.
// Retrieval failures degrade to an empty exemplar set; a completion
// failure is the caller's error. The exchange is appended to the
// subscriber's conversation log on success.
func (s *Service) GenerateReply(ctx context.Context, req ReplyRequest) (ReplyResult, error) {
	if req.Message == "" {
		return ReplyResult{}, fmt.Errorf("empty message")
	}

	var (
		c         coach.Coach
		retrieved retrieval.Result
		history   []coach.Turn
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = s.coaches.Get(req.CoachID)
		return err
	})
	g.Go(func() error {
		retrieved = s.retriever.FindRelevantContent(gctx, req.CoachID, req.Message)
		return nil // retriever degrades internally, never errors
	})
	g.Go(func() error {
		var err error
		history, err = s.store.GetRecentTurns(req.SubscriberID, s.composer.HistoryTurns)
		if err != nil {
			s.logger.Warn("failed to load conversation history",
				"subscriber_id", req.SubscriberID, "error", err)
			history = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ReplyResult{}, fmt.Errorf("loading coach %s: %w", req.CoachID, err)
	}

	need := req.EmotionalNeed
	if need == "" {
		need = taxonomy.InferEmotionalNeed(req.Message)
	}
	situation := req.Situation
	if situation == "" {
		situation = taxonomy.InferSituation(req.Message)
	}

	msgs := s.composer.Compose(composer.Input{
		Coach:         c,
		Chunks:        retrieved.Chunks,
		History:       history,
		UserMessage:   req.Message,
		EmotionalNeed: need,
		Situation:     situation,
	})

	reply, err := s.completer.Complete(ctx, msgs)
	if err != nil {
		return ReplyResult{}, fmt.Errorf("generating reply: %w", err)
	}
	reply = composer.Truncate(reply, s.composer.ReplyChars)

	now := time.Now().UTC()
	turns := []coach.Turn{
		{Role: "user", Text: req.Message, Timestamp: now},
		{Role: "assistant", Text: reply, Timestamp: now},
	}
	for _, turn := range turns {
		if err := s.store.AppendTurn(req.SubscriberID, turn); err != nil {
			s.logger.Warn("failed to append conversation turn",
				"subscriber_id", req.SubscriberID, "error", err)
			break
		}
	}
	if err := s.store.IncrementCoachConversations(req.CoachID); err != nil {
		s.logger.Warn("failed to bump conversation counter", "coach_id", req.CoachID, "error", err)
	}

	var used []string
	for _, ch := range retrieved.Chunks {
		used = append(used, ch.ID)
	}

	return ReplyResult{
		Reply:         reply,
		EmotionalNeed: need,
		Situation:     situation,
		UsedChunkIDs:  used,
	}, nil
}
