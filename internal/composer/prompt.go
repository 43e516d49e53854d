// Package composer assembles the coaching prompt sent to the completion
// model. It layers the coach's archetype, the learned voice profile,
// retrieved voice exemplars, and the recent conversation into a system
// message, followed by the history window and the subscriber's message.
package composer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/engine"
	"github.com/kalambet/coachwire/internal/retrieval"
	"github.com/kalambet/coachwire/internal/voice"
)

const (
	// DefaultReplyChars is the SMS-friendly reply length ceiling.
	DefaultReplyChars = 320
	// DefaultSnippetChars caps each quoted voice exemplar.
	DefaultSnippetChars = 200
	// DefaultExemplars caps how many retrieved chunks are quoted.
	DefaultExemplars = 3
	// DefaultHistoryTurns is the conversation window sent to the model.
	DefaultHistoryTurns = 4
)

// Composer builds chat messages for reply generation.
type Composer struct {
	ReplyChars   int
	SnippetChars int
	MaxExemplars int
	HistoryTurns int
}

// New creates a Composer with default limits.
func New() *Composer {
	return &Composer{
		ReplyChars:   DefaultReplyChars,
		SnippetChars: DefaultSnippetChars,
		MaxExemplars: DefaultExemplars,
		HistoryTurns: DefaultHistoryTurns,
	}
}

// Input carries everything the assembler folds into one prompt.
type Input struct {
	Coach         coach.Coach
	Chunks        []retrieval.ScoredChunk
	History       []coach.Turn
	UserMessage   string
	EmotionalNeed string
	Situation     string
}

// Compose returns the full message list for a completion call: the system
// prompt, the recent history window, and the subscriber's message.
func (c *Composer) Compose(in Input) []engine.Message {
	msgs := []engine.Message{
		{Role: "system", Content: c.SystemPrompt(in)},
	}

	history := in.History
	if n := c.HistoryTurns; n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	for _, turn := range history {
		role := "user"
		if turn.Role == "assistant" {
			role = "assistant"
		}
		msgs = append(msgs, engine.Message{Role: role, Content: turn.Text})
	}

	msgs = append(msgs, engine.Message{Role: "user", Content: in.UserMessage})
	return msgs
}

// SystemPrompt renders the system message text for the given input.
func (c *Composer) SystemPrompt(in Input) string {
	a := coach.ArchetypeFor(in.Coach.PrimaryStyle)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s, a fitness coach texting with a subscriber over SMS.\n", in.Coach.Name)
	if in.Coach.Description != "" {
		sb.WriteString(in.Coach.Description)
		sb.WriteString("\n")
	}

	sb.WriteString("\n[Persona]\n")
	fmt.Fprintf(&sb, "Personality: %s\n", a.Personality)
	fmt.Fprintf(&sb, "Tone: %s\n", a.Tone)
	if len(a.Examples) > 0 {
		sb.WriteString("Things you might say:\n")
		for _, ex := range a.Examples {
			fmt.Fprintf(&sb, "- %q\n", ex)
		}
	}

	c.writeTraits(&sb, in.Coach.Traits)
	c.writeVoice(&sb, in.Coach.Voice)

	if in.EmotionalNeed != "" || in.Situation != "" {
		sb.WriteString("\n[Right now]\n")
		if in.EmotionalNeed != "" {
			fmt.Fprintf(&sb, "The subscriber most needs: %s.\n", in.EmotionalNeed)
		}
		if in.Situation != "" && in.Situation != "general" {
			fmt.Fprintf(&sb, "Their situation: %s.\n", strings.ReplaceAll(in.Situation, "_", " "))
		}
	}

	c.writeExemplars(&sb, in.Chunks)

	sb.WriteString("\n[Rules]\n")
	fmt.Fprintf(&sb, "- Reply like a text message: at most %d characters.\n", c.ReplyChars)
	sb.WriteString("- Stay fully in character. Never mention being an AI, a model, or a system.\n")
	sb.WriteString("- Speak directly to the subscriber, no preamble, no sign-off.\n")

	return sb.String()
}

func (c *Composer) writeTraits(sb *strings.Builder, t coach.Traits) {
	if t == (coach.Traits{}) {
		return
	}
	sb.WriteString("\n[Communication dials]\n")
	fmt.Fprintf(sb, "Energy: %s. Directness: %s. Formality: %s. Emotional attunement: %s.\n",
		band(t.Energy, "high and enthusiastic", "steady", "calm and low-key"),
		band(t.Directness, "blunt, no sugar-coating", "balanced", "gentle"),
		band(t.Formality, "polished", "conversational", "very casual"),
		band(t.EmotionFocus, "leads with feelings", "acknowledges feelings", "sticks to practical matters"))
}

func (c *Composer) writeVoice(sb *strings.Builder, v coach.VoiceProfile) {
	if v.SamplesProcessed == 0 {
		return
	}

	sb.WriteString("\n[Voice fingerprint]\n")
	fmt.Fprintf(sb, "Learned from %d writing samples.\n", v.SamplesProcessed)
	if d := structureHint(v.SentenceStructure); d != "" {
		fmt.Fprintf(sb, "Sentence style: %s.\n", d)
	}
	if d := punctuationHint(v.PunctuationStyle); d != "" {
		fmt.Fprintf(sb, "Punctuation: %s.\n", d)
	}
	if d := vocabularyHint(v.VocabularyLevel); d != "" {
		fmt.Fprintf(sb, "Word choice: %s.\n", d)
	}
	if v.EnergyLevel > 0 {
		fmt.Fprintf(sb, "Written energy: %s.\n",
			band(v.EnergyLevel, "very high", "moderate", "restrained"))
	}
	if len(v.SentenceStarters) > 0 {
		fmt.Fprintf(sb, "You often open sentences with: %s.\n", joinQuoted(v.SentenceStarters))
	}
	if len(v.Catchphrases) > 0 {
		fmt.Fprintf(sb, "Your catchphrases (use sparingly, where natural): %s.\n", joinQuoted(v.Catchphrases))
	}
}

func (c *Composer) writeExemplars(sb *strings.Builder, chunks []retrieval.ScoredChunk) {
	if len(chunks) == 0 {
		return
	}
	limit := c.MaxExemplars
	if limit <= 0 {
		limit = DefaultExemplars
	}
	if len(chunks) > limit {
		chunks = chunks[:limit]
	}

	sb.WriteString("\n[How you've talked about this before]\n")
	for _, ch := range chunks {
		fmt.Fprintf(sb, "- %q\n", Truncate(ch.Text, c.snippetChars()))
	}
}

func (c *Composer) snippetChars() int {
	if c.SnippetChars > 0 {
		return c.SnippetChars
	}
	return DefaultSnippetChars
}

// band maps a 1-10 dial onto three descriptive phrases.
func band(n int, high, mid, low string) string {
	switch {
	case n > 7:
		return high
	case n >= 4:
		return mid
	default:
		return low
	}
}

func structureHint(s string) string {
	switch s {
	case voice.StructureShortPunchy:
		return "short, punchy sentences"
	case voice.StructureMixedVaried:
		return "a mix of short and longer sentences"
	case voice.StructureLongExplanatory:
		return "longer, explanatory sentences"
	}
	return ""
}

func punctuationHint(s string) string {
	switch s {
	case voice.PunctuationEmojiHeavy:
		return "frequent emoji"
	case voice.PunctuationExclamationHeavy:
		return "lots of exclamation points"
	case voice.PunctuationModerate:
		return "occasional exclamation points"
	case voice.PunctuationMinimal:
		return "plain, minimal punctuation"
	}
	return ""
}

func vocabularyHint(s string) string {
	switch s {
	case voice.VocabularyTechnical:
		return "technical training terminology"
	case voice.VocabularyMotivational:
		return "motivational language"
	case voice.VocabularyCasualSlang:
		return "casual gym slang"
	case voice.VocabularyProfessional:
		return "plain professional language"
	}
	return ""
}

func joinQuoted(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

// Truncate shortens text to at most max characters, cutting back to the
// last word boundary so no word is split mid-way.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if max <= 0 || len(runes) <= max {
		return text
	}

	cut := runes[:max]
	last := len(cut)
	for last > 0 && !unicode.IsSpace(cut[last-1]) {
		last--
	}
	if last == 0 {
		// One unbroken word longer than the budget; hard cut.
		return strings.TrimSpace(string(cut))
	}
	return strings.TrimSpace(string(cut[:last]))
}
