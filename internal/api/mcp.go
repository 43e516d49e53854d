package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/pipeline"
	"github.com/kalambet/coachwire/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store    *storage.Store
	Pipeline Pipeline
}

// NewMCPServer creates an MCP server with all coachwire tools and
// resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"coachwire",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("coachwire — voice-modeled fitness coach personas: ingest coach content, generate replies in a coach's voice, interpret subscriber preference requests."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("ingest_content",
			mcp.WithDescription("Ingest a piece of coach content (post, transcript, article) into the coach's voice corpus."),
			mcp.WithString("coach_id", mcp.Description("Coach ID"), mcp.Required()),
			mcp.WithString("content", mcp.Description("The text content to ingest"), mcp.Required()),
			mcp.WithString("content_type", mcp.Description("One of: social_post, video_transcript, podcast_transcript, written_content, social_comment, blog_post"), mcp.Required()),
			mcp.WithString("format", mcp.Description("Content format: plain, markdown, or html (default plain)")),
		),
		mcpIngestContent(deps),
	)

	s.AddTool(
		mcp.NewTool("generate_reply",
			mcp.WithDescription("Generate an SMS-sized coaching reply to a subscriber message, in the coach's modeled voice."),
			mcp.WithString("coach_id", mcp.Description("Coach ID"), mcp.Required()),
			mcp.WithString("subscriber_id", mcp.Description("Subscriber ID for conversation history"), mcp.Required()),
			mcp.WithString("message", mcp.Description("The subscriber's message"), mcp.Required()),
		),
		mcpGenerateReply(deps),
	)

	s.AddTool(
		mcp.NewTool("interpret_preferences",
			mcp.WithDescription("Interpret a free-text settings request (style, spice level, frequency, focus) into structured preference updates."),
			mcp.WithString("coach_id", mcp.Description("Coach ID"), mcp.Required()),
			mcp.WithString("message", mcp.Description("The subscriber's settings request"), mcp.Required()),
		),
		mcpInterpretPreferences(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"coachwire://coaches",
			"Coaches",
			mcp.WithResourceDescription("All active coach personas as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCoaches(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"coachwire://presets",
			"Coach Presets",
			mcp.WithResourceDescription("Built-in persona presets, one per response style"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourcePresets(),
	)

	return s
}

func mcpIngestContent(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		coachID, err := req.RequireString("coach_id")
		if err != nil {
			return mcpError("coach_id is required"), nil
		}
		content, err := req.RequireString("content")
		if err != nil {
			return mcpError("content is required"), nil
		}
		contentType, err := req.RequireString("content_type")
		if err != nil {
			return mcpError("content_type is required"), nil
		}
		format := req.GetString("format", "")

		result, err := deps.Pipeline.IngestContent(ctx, pipeline.IngestRequest{
			CoachID:     coachID,
			Raw:         []byte(content),
			ContentType: contentType,
			Format:      format,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("ingestion failed: %v", err)), nil
		}

		b, err := json.Marshal(result)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGenerateReply(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		coachID, err := req.RequireString("coach_id")
		if err != nil {
			return mcpError("coach_id is required"), nil
		}
		subscriberID, err := req.RequireString("subscriber_id")
		if err != nil {
			return mcpError("subscriber_id is required"), nil
		}
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		result, err := deps.Pipeline.GenerateReply(ctx, pipeline.ReplyRequest{
			CoachID:      coachID,
			SubscriberID: subscriberID,
			Message:      message,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("reply generation failed: %v", err)), nil
		}

		return mcpText(result.Reply), nil
	}
}

func mcpInterpretPreferences(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		coachID, err := req.RequireString("coach_id")
		if err != nil {
			return mcpError("coach_id is required"), nil
		}
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		decision, err := deps.Pipeline.InterpretPreferences(ctx, coachID, message)
		if err != nil {
			return mcpError(fmt.Sprintf("preference interpretation failed: %v", err)), nil
		}

		b, err := json.Marshal(decision)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal decision: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceCoaches(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		coaches, err := deps.Store.ListCoaches()
		if err != nil {
			return nil, fmt.Errorf("failed to list coaches: %w", err)
		}
		if coaches == nil {
			coaches = []coach.Coach{}
		}

		b, err := json.Marshal(coaches)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal coaches: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourcePresets() server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(coach.Presets)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal presets: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
