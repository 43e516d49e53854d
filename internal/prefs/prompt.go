package prefs

import (
	"fmt"
	"strings"

	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/engine"
)

const systemPromptTemplate = `You are the preference interpreter for an SMS fitness coaching service. The subscriber may be asking to change how their coach behaves. Your output must be ONLY a single valid JSON object that conforms to the provided schema. No other text, prose, or markdown.

Decide, for each of the four settings, whether the subscriber explicitly asked to change it:
- coaching style: one of tough_love, empathetic_mirror, cheerleader, drill_sergeant, zen_guide, science_nerd, hype_beast
- spice level: intensity from 1 (gentle) to 5 (maximum)
- message frequency: daily, every_other_day, or weekly
- content focus: training, nutrition, mindset, or recovery

Rules:
- Set a should_update flag to true ONLY when the subscriber clearly asked for that change. When in doubt, leave it false.
- Provide the paired new value ONLY when its flag is true. Omit it otherwise.
- Always write reply_text: a short, friendly SMS reply in the coach's voice confirming the change or asking what they meant.`

// BuildPrompt constructs the chat messages for one interpretation attempt.
// A non-empty corrective carries the previous attempt's error so the model
// can fix its output.
func BuildPrompt(c coach.Coach, userMessage, corrective string) []engine.Message {
	var sb strings.Builder
	sb.WriteString(systemPromptTemplate)

	fmt.Fprintf(&sb, "\n\n[Current persona]\nCoach: %s\nStyle: %s\n", c.Name, c.PrimaryStyle)
	if c.SecondaryStyle != "" {
		fmt.Fprintf(&sb, "Secondary style: %s\n", c.SecondaryStyle)
	}

	if corrective != "" {
		fmt.Fprintf(&sb, "\n[Previous attempt rejected]\n%s\nCorrect your output accordingly.\n", corrective)
	}

	return []engine.Message{
		{Role: "system", Content: sb.String()},
		{Role: "user", Content: userMessage},
	}
}
