package prefs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/engine"
)

// scriptedChatter returns canned responses in order, recording each call.
type scriptedChatter struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (s *scriptedChatter) Chat(_ context.Context, _ string, messages []engine.Message, _ *engine.Schema) (string, error) {
	idx := s.calls
	s.calls++
	if len(messages) > 0 {
		s.prompts = append(s.prompts, messages[0].Content)
	}
	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	return "", errors.New("no scripted response")
}

func testPersona() coach.Coach {
	return coach.Coach{ID: "c1", Name: "Max Steel", PrimaryStyle: coach.StyleToughLove}
}

const validJSON = `{"should_update_style":true,"new_style":"drill_sergeant","should_update_spice":false,"should_update_frequency":false,"should_update_focus":false,"reply_text":"Done. No more nice guy."}`

func TestInterpret_FirstAttemptSucceeds(t *testing.T) {
	c := &scriptedChatter{responses: []string{validJSON}}
	i := NewInterpreter(c, "mistral-nemo")

	d := i.Interpret(context.Background(), testPersona(), "be tougher on me")

	if c.calls != 1 {
		t.Errorf("calls = %d, want 1", c.calls)
	}
	if !d.ShouldUpdateStyle || d.NewStyle != "drill_sergeant" {
		t.Errorf("decision = %+v, want style update to drill_sergeant", d)
	}
	if d.ReplyText != "Done. No more nice guy." {
		t.Errorf("reply = %q", d.ReplyText)
	}
}

func TestInterpret_RecoversOnThirdAttempt(t *testing.T) {
	c := &scriptedChatter{responses: []string{
		"not json at all",
		`{"should_update_style":true,"should_update_spice":false,"should_update_frequency":false,"should_update_focus":false,"reply_text":"ok"}`,
		validJSON,
	}}
	i := NewInterpreter(c, "mistral-nemo")

	d := i.Interpret(context.Background(), testPersona(), "be tougher")

	if c.calls != 3 {
		t.Fatalf("calls = %d, want 3", c.calls)
	}
	if !d.ShouldUpdateStyle || d.NewStyle != "drill_sergeant" {
		t.Errorf("decision = %+v, want recovered style update", d)
	}

	// The second prompt must carry the first attempt's error as
	// corrective context.
	if len(c.prompts) < 2 || !strings.Contains(c.prompts[1], "Previous attempt rejected") {
		t.Error("second prompt missing corrective context")
	}
	if !strings.Contains(c.prompts[2], "new_style is missing") {
		t.Errorf("third prompt missing validation error, got %q", c.prompts[2])
	}
}

func TestInterpret_FallbackAfterExhaustion(t *testing.T) {
	c := &scriptedChatter{responses: []string{"bad", "bad", "bad"}}
	i := NewInterpreter(c, "mistral-nemo")

	d := i.Interpret(context.Background(), testPersona(), "whatever")

	if c.calls != 3 {
		t.Errorf("calls = %d, want 3", c.calls)
	}
	if d.ShouldUpdateStyle || d.ShouldUpdateSpice || d.ShouldUpdateFrequency || d.ShouldUpdateFocus {
		t.Errorf("fallback must not carry updates: %+v", d)
	}
	if d.ReplyText != FallbackReply {
		t.Errorf("reply = %q, want fallback reply", d.ReplyText)
	}
}

func TestInterpret_ChatErrorsAlsoRetry(t *testing.T) {
	c := &scriptedChatter{
		errs:      []error{errors.New("connection refused"), nil},
		responses: []string{"", validJSON},
	}
	i := NewInterpreter(c, "mistral-nemo")

	d := i.Interpret(context.Background(), testPersona(), "be tougher")

	if c.calls != 2 {
		t.Errorf("calls = %d, want 2", c.calls)
	}
	if !d.ShouldUpdateStyle {
		t.Errorf("decision = %+v, want success on retry", d)
	}
}

func intPtr(n int) *int { return &n }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		d       Decision
		wantErr string
	}{
		{
			name: "all false is valid",
			d:    Decision{ReplyText: "ok"},
		},
		{
			name: "spice update in range",
			d: Decision{
				Updates:   Updates{ShouldUpdateSpice: true, NewSpiceLevel: intPtr(4)},
				ReplyText: "ok",
			},
		},
		{
			name: "spice out of range",
			d: Decision{
				Updates:   Updates{ShouldUpdateSpice: true, NewSpiceLevel: intPtr(6)},
				ReplyText: "ok",
			},
			wantErr: "out of range",
		},
		{
			name: "spice flag without value",
			d: Decision{
				Updates:   Updates{ShouldUpdateSpice: true},
				ReplyText: "ok",
			},
			wantErr: "new_spice_level is missing",
		},
		{
			name: "value without flag",
			d: Decision{
				Updates:   Updates{NewFrequency: FrequencyDaily},
				ReplyText: "ok",
			},
			wantErr: "must be omitted",
		},
		{
			name: "unknown style",
			d: Decision{
				Updates:   Updates{ShouldUpdateStyle: true, NewStyle: "gentle_giant"},
				ReplyText: "ok",
			},
			wantErr: "not a known response style",
		},
		{
			name: "unknown focus",
			d: Decision{
				Updates:   Updates{ShouldUpdateFocus: true, NewFocus: "yoga"},
				ReplyText: "ok",
			},
			wantErr: "not one of",
		},
		{
			name:    "missing reply text",
			d:       Decision{},
			wantErr: "reply_text is missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.d)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	msgs := BuildPrompt(testPersona(), "text me less often", "")
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != "system" {
		t.Errorf("msgs[0].Role = %q, want system", msgs[0].Role)
	}
	for _, want := range []string{"Max Steel", "tough_love", "should_update"} {
		if !strings.Contains(msgs[0].Content, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if strings.Contains(msgs[0].Content, "Previous attempt rejected") {
		t.Error("corrective section present without corrective input")
	}
	if msgs[1].Content != "text me less often" {
		t.Errorf("user message = %q", msgs[1].Content)
	}
}
