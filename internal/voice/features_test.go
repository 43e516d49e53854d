package voice

import (
	"reflect"
	"strings"
	"testing"
)

func TestAnalyze_EmptyText(t *testing.T) {
	fs := Analyze("")

	if fs.SentenceCount != 0 {
		t.Errorf("SentenceCount = %d, want 0", fs.SentenceCount)
	}
	if fs.AvgSentenceLength != 0 {
		t.Errorf("AvgSentenceLength = %v, want 0", fs.AvgSentenceLength)
	}
	if fs.EnergyLevel != 1 {
		t.Errorf("EnergyLevel = %d, want 1", fs.EnergyLevel)
	}
	if fs.SentenceStructure != StructureShortPunchy {
		t.Errorf("SentenceStructure = %q, want %q", fs.SentenceStructure, StructureShortPunchy)
	}
}

func TestAnalyze_NoSentenceTerminators(t *testing.T) {
	// No terminator still yields one sentence fragment.
	fs := Analyze("just some words with no punctuation at all")
	if fs.SentenceCount != 1 {
		t.Errorf("SentenceCount = %d, want 1", fs.SentenceCount)
	}
	if fs.WordCount != 8 {
		t.Errorf("WordCount = %d, want 8", fs.WordCount)
	}
}

func TestClassifyStructure(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Go now. Do it. Win big.", StructureShortPunchy},
		{"one two three four five six seven eight nine ten eleven twelve.", StructureMixedVaried},
		{strings.Repeat("word ", 25) + ".", StructureLongExplanatory},
	}
	for _, tt := range tests {
		fs := Analyze(tt.text)
		if fs.SentenceStructure != tt.want {
			t.Errorf("Analyze(%.30q).SentenceStructure = %q, want %q", tt.text, fs.SentenceStructure, tt.want)
		}
	}
}

func TestClassifyPunctuation_Priority(t *testing.T) {
	// Two sentences, one exclamation: fraction 0.5 > 0.3.
	fs := Analyze("Push harder now! Rest tomorrow.")
	if fs.PunctuationStyle != PunctuationExclamationHeavy {
		t.Errorf("PunctuationStyle = %q, want %q", fs.PunctuationStyle, PunctuationExclamationHeavy)
	}

	// Emoji fraction above 0.3 outranks the exclamation fraction.
	fs = Analyze("Push harder now! 💪 Rest tomorrow 🔥.")
	if fs.PunctuationStyle != PunctuationEmojiHeavy {
		t.Errorf("PunctuationStyle = %q, want %q", fs.PunctuationStyle, PunctuationEmojiHeavy)
	}
}

func TestClassifyPunctuation_ModerateAndMinimal(t *testing.T) {
	// One exclamation over eight sentences: 0.125, moderate band.
	text := "One! Two. Three. Four. Five. Six. Seven. Eight."
	if fs := Analyze(text); fs.PunctuationStyle != PunctuationModerate {
		t.Errorf("PunctuationStyle = %q, want %q", fs.PunctuationStyle, PunctuationModerate)
	}

	if fs := Analyze("Calm words. Plain tone."); fs.PunctuationStyle != PunctuationMinimal {
		t.Errorf("PunctuationStyle = %q, want %q", fs.PunctuationStyle, PunctuationMinimal)
	}
}

func TestClassifyVocabulary(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "technical wins first",
			text: "Focus on hypertrophy with progressive overload, track your macros and rpe every session.",
			want: VocabularyTechnical,
		},
		{
			name: "motivational",
			text: "Believe in the grind. Discipline and dedication build a champion mindset.",
			want: VocabularyMotivational,
		},
		{
			name: "casual slang",
			text: "Dude you gotta show up, it's gonna be legit, we're kinda crushing it bro.",
			want: VocabularyCasualSlang,
		},
		{
			name: "professional default",
			text: "Complete three sets of eight repetitions with controlled form.",
			want: VocabularyProfessional,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if fs := Analyze(tt.text); fs.VocabularyLevel != tt.want {
				t.Errorf("VocabularyLevel = %q, want %q", fs.VocabularyLevel, tt.want)
			}
		})
	}
}

func TestExtractStarters(t *testing.T) {
	text := "You can do this. You can do anything. You can do more. Rest well."
	fs := Analyze(text)

	want := []string{"you can do"}
	if !reflect.DeepEqual(fs.SentenceStarters, want) {
		t.Errorf("SentenceStarters = %v, want %v", fs.SentenceStarters, want)
	}
}

func TestExtractCatchphrases_RequiresThreeOccurrences(t *testing.T) {
	twice := "trust the process. trust the process."
	if fs := Analyze(twice); len(fs.Catchphrases) != 0 {
		t.Errorf("Catchphrases = %v, want none for two occurrences", fs.Catchphrases)
	}

	thrice := "trust the process. trust the process. trust the process."
	fs := Analyze(thrice)
	if len(fs.Catchphrases) == 0 {
		t.Fatalf("Catchphrases empty, want phrases for three occurrences")
	}
	found := false
	for _, p := range fs.Catchphrases {
		if p == "trust the process" {
			found = true
		}
	}
	if !found {
		t.Errorf("Catchphrases = %v, want to contain %q", fs.Catchphrases, "trust the process")
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	text := "Beast mode on! Beast mode on! Beast mode on! Let's go crush it today."
	first := Analyze(text)
	second := Analyze(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze not idempotent:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestScoreEnergy_Clamped(t *testing.T) {
	// Dense indicators in a single sentence push the score past 10.
	fs := Analyze("Let's go let's go let's go fire fire pumped hyped amazing incredible now today!")
	if fs.EnergyLevel != 10 {
		t.Errorf("EnergyLevel = %d, want 10 (clamped)", fs.EnergyLevel)
	}

	fs = Analyze("A quiet steady session. Nothing dramatic happened.")
	if fs.EnergyLevel < 1 || fs.EnergyLevel > 10 {
		t.Errorf("EnergyLevel = %d, want within [1,10]", fs.EnergyLevel)
	}
}
