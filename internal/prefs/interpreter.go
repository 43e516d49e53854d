// Package prefs interprets subscriber preference messages ("make it
// tougher", "text me less") into validated persona updates plus a reply,
// using schema-constrained structured output with a bounded retry loop.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/engine"
)

// MaxAttempts is the total number of structured-output attempts before
// the interpreter gives up and returns the fallback decision.
const MaxAttempts = 3

const attemptTimeout = 15 * time.Second

// Message frequency options a subscriber can ask for.
const (
	FrequencyDaily         = "daily"
	FrequencyEveryOtherDay = "every_other_day"
	FrequencyWeekly        = "weekly"
)

// Content focus options a subscriber can ask for.
const (
	FocusTraining  = "training"
	FocusNutrition = "nutrition"
	FocusMindset   = "mindset"
	FocusRecovery  = "recovery"
)

var (
	frequencies = []string{FrequencyDaily, FrequencyEveryOtherDay, FrequencyWeekly}
	focuses     = []string{FocusTraining, FocusNutrition, FocusMindset, FocusRecovery}
)

// Updates carries the four update flags with their paired values. A flag
// set true requires its paired value; a flag set false forbids it.
type Updates struct {
	ShouldUpdateStyle     bool   `json:"should_update_style"`
	NewStyle              string `json:"new_style,omitempty"`
	ShouldUpdateSpice     bool   `json:"should_update_spice"`
	NewSpiceLevel         *int   `json:"new_spice_level,omitempty"`
	ShouldUpdateFrequency bool   `json:"should_update_frequency"`
	NewFrequency          string `json:"new_frequency,omitempty"`
	ShouldUpdateFocus     bool   `json:"should_update_focus"`
	NewFocus              string `json:"new_focus,omitempty"`
}

// Decision is the interpreter's final output.
type Decision struct {
	Updates
	ReplyText string `json:"reply_text"`
}

// FallbackReply is returned when every attempt fails.
const FallbackReply = "Sorry, I didn't quite catch that. Tell me one more time what you'd like to change?"

// Fallback is the safe terminal decision: no updates, apologetic reply.
func Fallback() Decision {
	return Decision{ReplyText: FallbackReply}
}

// Chatter is the structured chat capability the interpreter needs.
type Chatter interface {
	Chat(ctx context.Context, model string, messages []engine.Message, jsonSchema *engine.Schema) (string, error)
}

// Interpreter turns a preference message into a validated Decision.
type Interpreter struct {
	client   Chatter
	model    string
	attempts int
	logger   *slog.Logger
}

// NewInterpreter creates an Interpreter using the given chat client and model.
func NewInterpreter(client Chatter, model string) *Interpreter {
	return &Interpreter{
		client:   client,
		model:    model,
		attempts: MaxAttempts,
		logger:   slog.Default(),
	}
}

// Interpret runs the bounded attempt loop. Each failed attempt feeds its
// parse or validation error back into the next prompt as corrective
// context. After all attempts fail the safe fallback is returned; the
// method never returns an error to the caller.
func (i *Interpreter) Interpret(ctx context.Context, c coach.Coach, userMessage string) Decision {
	var corrective string

	for attempt := 1; attempt <= i.attempts; attempt++ {
		d, err := i.attemptOnce(ctx, c, userMessage, corrective)
		if err == nil {
			return d
		}
		i.logger.Warn("preference interpretation attempt failed",
			"coach_id", c.ID, "attempt", attempt, "error", err)
		corrective = err.Error()

		if ctx.Err() != nil {
			break
		}
	}

	return Fallback()
}

func (i *Interpreter) attemptOnce(ctx context.Context, c coach.Coach, userMessage, corrective string) (Decision, error) {
	ctx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	messages := BuildPrompt(c, userMessage, corrective)
	raw, err := i.client.Chat(ctx, i.model, messages, decisionSchema())
	if err != nil {
		return Decision{}, fmt.Errorf("completion failed: %w", err)
	}

	var d Decision
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Decision{}, fmt.Errorf("response was not valid JSON: %v", err)
	}

	if err := Validate(d); err != nil {
		return Decision{}, err
	}
	return d, nil
}

// Validate checks the flag/value pairing rules and value ranges.
func Validate(d Decision) error {
	if d.ShouldUpdateStyle {
		if d.NewStyle == "" {
			return fmt.Errorf("should_update_style is true but new_style is missing")
		}
		if !coach.ValidStyle(coach.ResponseStyle(d.NewStyle)) {
			return fmt.Errorf("new_style %q is not a known response style", d.NewStyle)
		}
	} else if d.NewStyle != "" {
		return fmt.Errorf("new_style must be omitted when should_update_style is false")
	}

	if d.ShouldUpdateSpice {
		if d.NewSpiceLevel == nil {
			return fmt.Errorf("should_update_spice is true but new_spice_level is missing")
		}
		if *d.NewSpiceLevel < 1 || *d.NewSpiceLevel > 5 {
			return fmt.Errorf("new_spice_level %d is out of range 1-5", *d.NewSpiceLevel)
		}
	} else if d.NewSpiceLevel != nil {
		return fmt.Errorf("new_spice_level must be omitted when should_update_spice is false")
	}

	if d.ShouldUpdateFrequency {
		if d.NewFrequency == "" {
			return fmt.Errorf("should_update_frequency is true but new_frequency is missing")
		}
		if !oneOf(d.NewFrequency, frequencies) {
			return fmt.Errorf("new_frequency %q is not one of %v", d.NewFrequency, frequencies)
		}
	} else if d.NewFrequency != "" {
		return fmt.Errorf("new_frequency must be omitted when should_update_frequency is false")
	}

	if d.ShouldUpdateFocus {
		if d.NewFocus == "" {
			return fmt.Errorf("should_update_focus is true but new_focus is missing")
		}
		if !oneOf(d.NewFocus, focuses) {
			return fmt.Errorf("new_focus %q is not one of %v", d.NewFocus, focuses)
		}
	} else if d.NewFocus != "" {
		return fmt.Errorf("new_focus must be omitted when should_update_focus is false")
	}

	if d.ReplyText == "" {
		return fmt.Errorf("reply_text is missing")
	}
	return nil
}

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

// decisionSchema returns the JSON schema enforced on the model output.
func decisionSchema() *engine.Schema {
	one, five := 1, 5
	styles := make([]string, len(coach.Styles))
	for i, s := range coach.Styles {
		styles[i] = string(s)
	}

	return &engine.Schema{
		Type: "object",
		Properties: map[string]engine.SchemaProperty{
			"should_update_style":     {Type: "boolean", Description: "True only if the user asked to change the coaching style"},
			"new_style":               {Type: "string", Description: "Required when should_update_style is true", Enum: styles},
			"should_update_spice":     {Type: "boolean", Description: "True only if the user asked for more or less intensity"},
			"new_spice_level":         {Type: "integer", Description: "Required when should_update_spice is true", Minimum: &one, Maximum: &five},
			"should_update_frequency": {Type: "boolean", Description: "True only if the user asked to hear from the coach more or less often"},
			"new_frequency":           {Type: "string", Description: "Required when should_update_frequency is true", Enum: frequencies},
			"should_update_focus":     {Type: "boolean", Description: "True only if the user asked to change the content focus"},
			"new_focus":               {Type: "string", Description: "Required when should_update_focus is true", Enum: focuses},
			"reply_text":              {Type: "string", Description: "The coach's short SMS reply confirming or clarifying"},
		},
		Required: []string{
			"should_update_style", "should_update_spice",
			"should_update_frequency", "should_update_focus", "reply_text",
		},
	}
}
