package api

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/pipeline"
	"github.com/kalambet/coachwire/internal/prefs"
	"github.com/kalambet/coachwire/internal/storage"
)

// --- mocks ---

type fakePipeline struct {
	mu            sync.Mutex
	ingestReqs    []pipeline.IngestRequest
	ingestResult  pipeline.IngestResult
	ingestErr     error
	replyReqs     []pipeline.ReplyRequest
	replyResult   pipeline.ReplyResult
	replyErr      error
	prefsMessages []string
	prefsDecision prefs.Decision
	prefsErr      error
}

func (f *fakePipeline) IngestContent(_ context.Context, req pipeline.IngestRequest) (pipeline.IngestResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ingestReqs = append(f.ingestReqs, req)
	return f.ingestResult, f.ingestErr
}

func (f *fakePipeline) GenerateReply(_ context.Context, req pipeline.ReplyRequest) (pipeline.ReplyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replyReqs = append(f.replyReqs, req)
	return f.replyResult, f.replyErr
}

func (f *fakePipeline) InterpretPreferences(_ context.Context, coachID, userMessage string) (prefs.Decision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefsMessages = append(f.prefsMessages, userMessage)
	return f.prefsDecision, f.prefsErr
}

// --- helpers ---

func newTestMCPDeps(t *testing.T) (MCPDeps, *fakePipeline) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	fp := &fakePipeline{}
	return MCPDeps{Store: store, Pipeline: fp}, fp
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func makeReadResourceRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

// --- tests ---

func TestMCPTool_IngestContent(t *testing.T) {
	deps, fp := newTestMCPDeps(t)
	fp.ingestResult = pipeline.IngestResult{
		ChunkID:     "chunk-1",
		IntentTags:  []string{"motivation"},
		VoiceSample: true,
	}
	handler := mcpIngestContent(deps)

	req := makeCallToolRequest("ingest_content", map[string]interface{}{
		"coach_id":     "coach-1",
		"content":      "No excuses today. Show up and earn it.",
		"content_type": "social_post",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var got pipeline.IngestResult
	if err := json.Unmarshal([]byte(toolText(t, result)), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.ChunkID != "chunk-1" {
		t.Fatalf("expected chunk-1, got %s", got.ChunkID)
	}

	if len(fp.ingestReqs) != 1 {
		t.Fatalf("expected 1 ingest call, got %d", len(fp.ingestReqs))
	}
	if fp.ingestReqs[0].CoachID != "coach-1" {
		t.Fatalf("unexpected coach ID: %s", fp.ingestReqs[0].CoachID)
	}
	if fp.ingestReqs[0].ContentType != "social_post" {
		t.Fatalf("unexpected content type: %s", fp.ingestReqs[0].ContentType)
	}
}

func TestMCPTool_IngestContent_MissingContent(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	handler := mcpIngestContent(deps)

	req := makeCallToolRequest("ingest_content", map[string]interface{}{
		"coach_id":     "coach-1",
		"content_type": "social_post",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing content")
	}
}

func TestMCPTool_GenerateReply(t *testing.T) {
	deps, fp := newTestMCPDeps(t)
	fp.replyResult = pipeline.ReplyResult{
		Reply:         "Crushed it! That's how you finish a week.",
		EmotionalNeed: "celebration",
	}
	handler := mcpGenerateReply(deps)

	req := makeCallToolRequest("generate_reply", map[string]interface{}{
		"coach_id":      "coach-1",
		"subscriber_id": "sub-1",
		"message":       "just finished my workout",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	if got := toolText(t, result); got != fp.replyResult.Reply {
		t.Fatalf("unexpected reply: %s", got)
	}
	if len(fp.replyReqs) != 1 || fp.replyReqs[0].SubscriberID != "sub-1" {
		t.Fatalf("unexpected reply requests: %+v", fp.replyReqs)
	}
}

func TestMCPTool_GenerateReply_Error(t *testing.T) {
	deps, fp := newTestMCPDeps(t)
	fp.replyErr = errors.New("completion failed")
	handler := mcpGenerateReply(deps)

	req := makeCallToolRequest("generate_reply", map[string]interface{}{
		"coach_id":      "coach-1",
		"subscriber_id": "sub-1",
		"message":       "hello",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
}

func TestMCPTool_InterpretPreferences(t *testing.T) {
	deps, fp := newTestMCPDeps(t)
	fp.prefsDecision = prefs.Decision{
		Updates: prefs.Updates{
			ShouldUpdateStyle: true,
			NewStyle:          "drill_sergeant",
		},
		ReplyText: "You got it. Drill sergeant mode from here on.",
	}
	handler := mcpInterpretPreferences(deps)

	req := makeCallToolRequest("interpret_preferences", map[string]interface{}{
		"coach_id": "coach-1",
		"message":  "make it tougher",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var got prefs.Decision
	if err := json.Unmarshal([]byte(toolText(t, result)), &got); err != nil {
		t.Fatalf("failed to parse decision: %v", err)
	}
	if !got.ShouldUpdateStyle || got.NewStyle != "drill_sergeant" {
		t.Fatalf("unexpected decision: %+v", got)
	}
}

func TestMCPResource_Coaches(t *testing.T) {
	deps, _ := newTestMCPDeps(t)

	now := time.Now().UTC()
	err := deps.Store.CreateCoach(coach.Coach{
		ID:           "coach-1",
		Name:         "Max Steel",
		Handle:       "max",
		PrimaryStyle: coach.StyleToughLove,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("creating coach: %v", err)
	}

	handler := mcpResourceCoaches(deps)
	contents, err := handler(context.Background(), makeReadResourceRequest("coachwire://coaches"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}

	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}

	var coaches []coach.Coach
	if err := json.Unmarshal([]byte(tc.Text), &coaches); err != nil {
		t.Fatalf("failed to parse coaches: %v", err)
	}
	if len(coaches) != 1 || coaches[0].Handle != "max" {
		t.Fatalf("unexpected coaches: %+v", coaches)
	}
}

func TestMCPResource_Presets(t *testing.T) {
	handler := mcpResourcePresets()
	contents, err := handler(context.Background(), makeReadResourceRequest("coachwire://presets"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}

	var presets []coach.Preset
	if err := json.Unmarshal([]byte(tc.Text), &presets); err != nil {
		t.Fatalf("failed to parse presets: %v", err)
	}
	if len(presets) != len(coach.Styles) {
		t.Fatalf("expected one preset per style, got %d", len(presets))
	}
}

func TestMCPServer_ConcurrentCalls(t *testing.T) {
	deps, fp := newTestMCPDeps(t)
	fp.replyResult = pipeline.ReplyResult{Reply: "keep going"}

	ingestHandler := mcpIngestContent(deps)
	replyHandler := mcpGenerateReply(deps)

	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := makeCallToolRequest("ingest_content", map[string]interface{}{
				"coach_id":     "coach-1",
				"content":      "concurrent content",
				"content_type": "social_post",
			})
			if _, err := ingestHandler(context.Background(), req); err != nil {
				errs <- err
			}
		}()
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := makeCallToolRequest("generate_reply", map[string]interface{}{
				"coach_id":      "coach-1",
				"subscriber_id": "sub-1",
				"message":       "test",
			})
			if _, err := replyHandler(context.Background(), req); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent call failed: %v", err)
	}

	if len(fp.ingestReqs) != 5 || len(fp.replyReqs) != 5 {
		t.Fatalf("expected 5 ingests and 5 replies, got %d and %d", len(fp.ingestReqs), len(fp.replyReqs))
	}
}
