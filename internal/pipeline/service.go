// Package pipeline orchestrates the two halves of the coaching service:
// the ingestion path (raw content in, stored chunk and updated voice
// profile out) and the response path (subscriber message in, in-character
// SMS reply out).
package pipeline

import (
	"context"
	"log/slog"

	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/composer"
	"github.com/kalambet/coachwire/internal/prefs"
	"github.com/kalambet/coachwire/internal/retrieval"
	"github.com/kalambet/coachwire/internal/storage"
)

// Store is the persistence surface the pipeline writes through.
type Store interface {
	InsertChunk(c storage.ContentChunk) error
	EnqueueJob(job storage.Job) error
	AppendTurn(subscriberID string, turn coach.Turn) error
	GetRecentTurns(subscriberID string, n int) ([]coach.Turn, error)
	IncrementCoachConversations(id string) error
}

// CoachManager loads and saves coach records, caching reads.
type CoachManager interface {
	Get(id string) (coach.Coach, error)
	Update(c coach.Coach) error
}

// Tagger classifies raw text into intent and situation tags.
type Tagger interface {
	Tag(text, contentType string) (intents, situations []string)
}

// Embedder produces an embedding vector for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ContextRetriever finds relevant voice exemplars for a query.
type ContextRetriever interface {
	FindRelevantContent(ctx context.Context, coachID, query string) retrieval.Result
}

// Interpreter turns preference messages into validated decisions.
type Interpreter interface {
	Interpret(ctx context.Context, c coach.Coach, userMessage string) prefs.Decision
}

// Service wires the full pipeline together.
type Service struct {
	store       Store
	coaches     CoachManager
	tagger      Tagger
	embedder    Embedder
	retriever   ContextRetriever
	composer    *composer.Composer
	completer   Completer
	interpreter Interpreter
	logger      *slog.Logger
}

// Deps collects the collaborators for NewService.
type Deps struct {
	Store       Store
	Coaches     CoachManager
	Tagger      Tagger
	Embedder    Embedder
	Retriever   ContextRetriever
	Composer    *composer.Composer
	Completer   Completer
	Interpreter Interpreter
}

// NewService creates a Service. A nil Composer gets the default limits.
func NewService(d Deps) *Service {
	comp := d.Composer
	if comp == nil {
		comp = composer.New()
	}
	return &Service{
		store:       d.Store,
		coaches:     d.Coaches,
		tagger:      d.Tagger,
		embedder:    d.Embedder,
		retriever:   d.Retriever,
		composer:    comp,
		completer:   d.Completer,
		interpreter: d.Interpreter,
		logger:      slog.Default(),
	}
}
