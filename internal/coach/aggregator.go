package coach

import (
	"github.com/kalambet/coachwire/internal/voice"
)

const (
	// voiceSampleMinChars is the minimum text length for a chunk to qualify
	// as a voice sample.
	voiceSampleMinChars = 100

	// CatchphraseCap bounds the coach-level catchphrase list.
	CatchphraseCap = 10
)

// IsVoiceSample decides whether an ingested text is rich enough to update
// the coach's voice profile: long enough, and carrying either a personal
// intent signal or at least one recurring catchphrase.
func IsVoiceSample(text string, intentTags []string, features voice.FeatureSet) bool {
	if len(text) <= voiceSampleMinChars {
		return false
	}
	for _, tag := range intentTags {
		if tag == "personal" {
			return true
		}
	}
	return len(features.Catchphrases) > 0
}

// ApplySample merges a qualifying sample's features into the coach record.
//
// The merge is intentionally asymmetric: categorical descriptors are
// last-write-wins (the most recent sample dictates tone), while counters and
// the catchphrase list accumulate. This is a deliberate simplification, not
// a bug; recent tone should dominate but discovered phrases should persist.
func ApplySample(c *Coach, features voice.FeatureSet) {
	c.Voice.SentenceStructure = features.SentenceStructure
	c.Voice.PunctuationStyle = features.PunctuationStyle
	c.Voice.VocabularyLevel = features.VocabularyLevel
	c.Voice.SentenceStarters = features.SentenceStarters
	c.Voice.EnergyLevel = features.EnergyLevel

	c.Voice.WordCount += features.WordCount
	c.Voice.SentenceCount += features.SentenceCount
	if c.Voice.SentenceCount > 0 {
		c.Voice.AvgSentenceLength = float64(c.Voice.WordCount) / float64(c.Voice.SentenceCount)
	}
	c.Voice.SamplesProcessed++

	c.Catchphrases = mergeCatchphrases(c.Catchphrases, features.Catchphrases)
	c.Voice.Catchphrases = c.Catchphrases
}

// mergeCatchphrases unions new phrases into the existing list, preserving
// prior order, appending unseen entries, and truncating at the cap.
func mergeCatchphrases(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, p := range existing {
		if !seen[p] {
			seen[p] = true
			merged = append(merged, p)
		}
	}
	for _, p := range incoming {
		if !seen[p] {
			seen[p] = true
			merged = append(merged, p)
		}
	}
	if len(merged) > CatchphraseCap {
		merged = merged[:CatchphraseCap]
	}
	return merged
}
