package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/pipeline"
	"github.com/kalambet/coachwire/internal/prefs"
	"github.com/kalambet/coachwire/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB
const maxIngestBodySize = 10 << 20 // 10MB

// Pipeline is the slice of the reply pipeline the HTTP layer needs.
type Pipeline interface {
	IngestContent(ctx context.Context, req pipeline.IngestRequest) (pipeline.IngestResult, error)
	GenerateReply(ctx context.Context, req pipeline.ReplyRequest) (pipeline.ReplyResult, error)
	InterpretPreferences(ctx context.Context, coachID, userMessage string) (prefs.Decision, error)
}

type AppDeps struct {
	Store    *storage.Store
	Coaches  *coach.Manager
	Pipeline Pipeline
	Token    string
}

func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Post("/coaches", handleCreateCoach(deps))
		r.Get("/coaches", handleListCoaches(deps))
		r.Get("/coaches/{id}", handleGetCoach(deps))
		r.Delete("/coaches/{id}", handleDeactivateCoach(deps))
		r.Post("/coaches/{id}/content", handleIngestContent(deps))
		r.Get("/coaches/{id}/content", handleListContent(deps))
		r.Delete("/content/{id}", handleDeleteContent(deps))
		r.Post("/coaches/{id}/reply", handleReply(deps))
		r.Post("/coaches/{id}/preferences", handlePreferences(deps))
		r.Get("/conversations/{subscriberID}", handleConversation(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// CreateCoachRequest provisions a new persona, either from a preset handle
// or from explicit fields.
type CreateCoachRequest struct {
	Preset       string        `json:"preset,omitempty"`
	Name         string        `json:"name,omitempty"`
	Handle       string        `json:"handle,omitempty"`
	Description  string        `json:"description,omitempty"`
	Style        string        `json:"primary_response_style,omitempty"`
	Traits       *coach.Traits `json:"communication_traits,omitempty"`
	Catchphrases []string      `json:"catchphrases,omitempty"`
	Public       bool          `json:"public,omitempty"`
}

func handleCreateCoach(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req CreateCoachRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		now := time.Now().UTC()
		c := coach.Coach{
			ID:        uuid.New().String(),
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if req.Preset != "" {
			p, ok := coach.PresetByHandle(req.Preset)
			if !ok {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown preset %q", req.Preset)
				return
			}
			c.Name = p.Name
			c.Handle = p.Handle
			c.Description = p.Description
			c.PrimaryStyle = p.Style
			c.Traits = p.Traits
			c.Catchphrases = p.Catchphrases
		}

		if req.Name != "" {
			c.Name = req.Name
		}
		if req.Handle != "" {
			c.Handle = req.Handle
		}
		if req.Description != "" {
			c.Description = req.Description
		}
		if req.Style != "" {
			c.PrimaryStyle = coach.ResponseStyle(req.Style)
		}
		if req.Traits != nil {
			c.Traits = *req.Traits
		}
		if len(req.Catchphrases) > 0 {
			c.Catchphrases = req.Catchphrases
		}
		c.Public = req.Public

		if c.Name == "" || c.Handle == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "name and handle are required")
			return
		}
		if !coach.ValidStyle(c.PrimaryStyle) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown response style %q", c.PrimaryStyle)
			return
		}

		if err := deps.Store.CreateCoach(c); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create coach: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(c)
	}
}

func handleListCoaches(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coaches, err := deps.Store.ListCoaches()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list coaches: %v", err)
			return
		}
		if coaches == nil {
			coaches = []coach.Coach{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(coaches)
	}
}

func handleGetCoach(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		c, err := deps.Coaches.Get(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "coach not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get coach: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(c)
	}
}

func handleDeactivateCoach(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := deps.Store.DeactivateCoach(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "coach not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to deactivate coach: %v", err)
			return
		}
		deps.Coaches.Invalidate(id)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "deactivated"})
	}
}

// IngestContentRequest carries one document for a coach. Content is the
// document body; set encoding to "base64" for binary formats such as PDF.
type IngestContentRequest struct {
	Content     string `json:"content"`
	Encoding    string `json:"encoding,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Format      string `json:"format,omitempty"`
	ContentType string `json:"content_type"`
}

func handleIngestContent(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxIngestBodySize)
		defer r.Body.Close()

		coachID := chi.URLParam(r, "id")

		var req IngestContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Content == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "content is required")
			return
		}
		if req.ContentType == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "content_type is required")
			return
		}

		raw := []byte(req.Content)
		if req.Encoding == "base64" {
			decoded, err := base64.StdEncoding.DecodeString(req.Content)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid base64 content")
				return
			}
			raw = decoded
		}

		result, err := deps.Pipeline.IngestContent(r.Context(), pipeline.IngestRequest{
			CoachID:     coachID,
			Raw:         raw,
			Filename:    req.Filename,
			ContentType: req.ContentType,
			Format:      req.Format,
		})
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "coach not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "ingestion failed: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(result)
	}
}

func handleListContent(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coachID := chi.URLParam(r, "id")
		limit := parseIntParam(r, "limit", 20, 100)

		chunks, err := deps.Store.ListCoachChunks(coachID, limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list content: %v", err)
			return
		}
		if chunks == nil {
			chunks = []storage.ContentChunk{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chunks)
	}
}

func handleDeleteContent(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := deps.Store.SoftDeleteChunk(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "content chunk not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete content: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	}
}

// ReplyAPIRequest is one inbound subscriber message.
type ReplyAPIRequest struct {
	SubscriberID  string `json:"subscriber_id"`
	Message       string `json:"message"`
	EmotionalNeed string `json:"emotional_need,omitempty"`
	Situation     string `json:"situation,omitempty"`
}

func handleReply(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		coachID := chi.URLParam(r, "id")

		var req ReplyAPIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.SubscriberID == "" || req.Message == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "subscriber_id and message are required")
			return
		}

		result, err := deps.Pipeline.GenerateReply(r.Context(), pipeline.ReplyRequest{
			CoachID:       coachID,
			SubscriberID:  req.SubscriberID,
			Message:       req.Message,
			EmotionalNeed: req.EmotionalNeed,
			Situation:     req.Situation,
		})
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "coach not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "reply generation failed: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// PreferencesRequest is a free-text settings change request.
type PreferencesRequest struct {
	Message string `json:"message"`
}

func handlePreferences(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		coachID := chi.URLParam(r, "id")

		var req PreferencesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Message == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}

		decision, err := deps.Pipeline.InterpretPreferences(r.Context(), coachID, req.Message)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "coach not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "preference interpretation failed: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(decision)
	}
}

func handleConversation(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscriberID := chi.URLParam(r, "subscriberID")
		limit := parseIntParam(r, "limit", 20, 50)

		turns, err := deps.Store.GetRecentTurns(subscriberID, limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load conversation: %v", err)
			return
		}
		if turns == nil {
			turns = []coach.Turn{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(turns)
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
