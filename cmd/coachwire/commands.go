package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/config"
)

// --- coach ---

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Manage coach personas",
}

var coachCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a coach persona",
	Long: `Create a coach persona, either from a built-in preset or from flags.

Examples:
  coachwire coach create --preset max
  coachwire coach create --name "Coach Dana" --handle dana --style cheerleader`,
	RunE: func(cmd *cobra.Command, args []string) error {
		preset, _ := cmd.Flags().GetString("preset")
		name, _ := cmd.Flags().GetString("name")
		handle, _ := cmd.Flags().GetString("handle")
		style, _ := cmd.Flags().GetString("style")
		description, _ := cmd.Flags().GetString("description")

		if preset == "" && (name == "" || handle == "") {
			return fmt.Errorf("either --preset or both --name and --handle are required")
		}

		req := map[string]any{}
		if preset != "" {
			req["preset"] = preset
		}
		if name != "" {
			req["name"] = name
		}
		if handle != "" {
			req["handle"] = handle
		}
		if style != "" {
			req["primary_response_style"] = style
		}
		if description != "" {
			req["description"] = description
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/coaches", req)
		if err != nil {
			return err
		}

		var c coach.Coach
		if err := decodeJSON(resp, &c); err != nil {
			return err
		}

		printSuccess("Created coach %s (%s, %s)", c.Name, c.ID, c.PrimaryStyle)
		return nil
	},
}

var coachListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active coaches",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/coaches")
		if err != nil {
			return err
		}

		var coaches []coach.Coach
		if err := decodeJSON(resp, &coaches); err != nil {
			return err
		}

		if len(coaches) == 0 {
			fmt.Println("No coaches found.")
			return nil
		}

		for _, c := range coaches {
			fmt.Printf("%s  @%-10s %-18s %s (content: %d, conversations: %d)\n",
				colorize(colorCyan, c.ID[:8]),
				c.Handle,
				c.PrimaryStyle,
				c.Name,
				c.ContentPieces,
				c.Conversations,
			)
		}
		return nil
	},
}

var coachShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a coach record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/coaches/"+args[0])
		if err != nil {
			return err
		}

		var c any
		if err := decodeJSON(resp, &c); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	},
}

var coachPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in coach presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range coach.Presets {
			fmt.Printf("%-8s %-18s %s\n", colorize(colorBold, p.Handle), p.Style, p.Description)
		}
		return nil
	},
}

var coachDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a coach",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/coaches/"+args[0])
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Deactivated coach %s", args[0])
		return nil
	},
}

func init() {
	coachCreateCmd.Flags().String("preset", "", "built-in preset handle (see 'coach presets')")
	coachCreateCmd.Flags().String("name", "", "coach display name")
	coachCreateCmd.Flags().String("handle", "", "coach handle")
	coachCreateCmd.Flags().String("style", "", "primary response style")
	coachCreateCmd.Flags().String("description", "", "coach description")

	coachCmd.AddCommand(coachCreateCmd)
	coachCmd.AddCommand(coachListCmd)
	coachCmd.AddCommand(coachShowCmd)
	coachCmd.AddCommand(coachPresetsCmd)
	coachCmd.AddCommand(coachDeactivateCmd)
}

// --- ingest ---

var ingestCmd = &cobra.Command{
	Use:   "ingest <coach-id>",
	Short: "Ingest content into a coach's voice corpus",
	Long: `Ingest content into a coach's voice corpus.

Examples:
  coachwire ingest <id> --text "No excuses. Show up." --type social_post
  coachwire ingest <id> --file ./episode-12.md --type podcast_transcript
  coachwire ingest <id> --file ./ebook.pdf --type written_content`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coachID := args[0]
		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")
		contentType, _ := cmd.Flags().GetString("type")

		if text == "" && file == "" {
			return fmt.Errorf("one of --text or --file is required")
		}
		if contentType == "" {
			return fmt.Errorf("--type is required (e.g. social_post, podcast_transcript)")
		}

		req := map[string]any{
			"content_type": contentType,
		}

		switch {
		case text != "":
			req["content"] = text
		case file != "":
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			req["filename"] = file
			if strings.HasSuffix(strings.ToLower(file), ".pdf") {
				req["content"] = base64.StdEncoding.EncodeToString(data)
				req["encoding"] = "base64"
			} else {
				req["content"] = string(data)
			}
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/coaches/"+coachID+"/content", req)
		if err != nil {
			return err
		}

		var result struct {
			ChunkID     string   `json:"chunk_id"`
			IntentTags  []string `json:"intent_tags"`
			VoiceSample bool     `json:"voice_sample"`
			Pending     bool     `json:"pending"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Ingested chunk %s (tags: %s)", result.ChunkID, strings.Join(result.IntentTags, ", "))
		if result.VoiceSample {
			printStep("Sample folded into voice profile")
		}
		if result.Pending {
			printWarning("Embedding deferred; backfill worker will pick it up")
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().String("text", "", "text content to ingest")
	ingestCmd.Flags().String("file", "", "file path to ingest")
	ingestCmd.Flags().String("type", "", "content type (social_post, video_transcript, podcast_transcript, written_content, social_comment, blog_post)")
}

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <coach-id> <message>",
	Short: "Send a message and get a reply in the coach's voice",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coachID := args[0]
		message := strings.Join(args[1:], " ")
		subscriberID, _ := cmd.Flags().GetString("subscriber")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{
			"subscriber_id": subscriberID,
			"message":       message,
		}
		resp, err := client.post(cmd.Context(), "/coaches/"+coachID+"/reply", req)
		if err != nil {
			return err
		}

		var result struct {
			Reply         string `json:"reply_text"`
			EmotionalNeed string `json:"emotional_need"`
			Situation     string `json:"situation"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		fmt.Println(result.Reply)
		printStatus("Need", "%s", result.EmotionalNeed)
		printStatus("Situation", "%s", result.Situation)
		return nil
	},
}

func init() {
	askCmd.Flags().String("subscriber", "cli", "subscriber ID for conversation history")
}

// --- prefs ---

var prefsCmd = &cobra.Command{
	Use:   "prefs <coach-id> <message>",
	Short: "Interpret a free-text preference request",
	Long: `Interpret a free-text preference request into structured updates.

Example:
  coachwire prefs <id> "make it tougher and text me daily"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coachID := args[0]
		message := strings.Join(args[1:], " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{"message": message}
		resp, err := client.post(cmd.Context(), "/coaches/"+coachID+"/preferences", req)
		if err != nil {
			return err
		}

		var decision map[string]any
		if err := decodeJSON(resp, &decision); err != nil {
			return err
		}

		if reply, ok := decision["reply_text"].(string); ok {
			fmt.Println(reply)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(decision)
	},
}

// --- convo ---

var convoCmd = &cobra.Command{
	Use:   "convo <subscriber-id>",
	Short: "Show a subscriber's recent conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/conversations/%s?limit=%d", args[0], limit))
		if err != nil {
			return err
		}

		var turns []struct {
			Role      string `json:"role"`
			Text      string `json:"text"`
			Timestamp string `json:"timestamp"`
		}
		if err := decodeJSON(resp, &turns); err != nil {
			return err
		}

		if len(turns) == 0 {
			fmt.Println("No conversation found.")
			return nil
		}

		for _, turn := range turns {
			label := turn.Role
			if turn.Role == "assistant" {
				label = colorize(colorCyan, "coach")
			}
			fmt.Printf("[%s] %s\n", label, turn.Text)
		}
		return nil
	},
}

func init() {
	convoCmd.Flags().Int("limit", 20, "maximum number of turns to show")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
