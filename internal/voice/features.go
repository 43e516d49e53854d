package voice

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Sentence structure classes.
const (
	StructureShortPunchy     = "short_punchy"
	StructureMixedVaried     = "mixed_varied"
	StructureLongExplanatory = "long_explanatory"
)

// Punctuation style classes.
const (
	PunctuationEmojiHeavy       = "emoji_heavy"
	PunctuationExclamationHeavy = "exclamation_heavy"
	PunctuationModerate         = "moderate"
	PunctuationMinimal          = "minimal"
)

// Vocabulary level classes.
const (
	VocabularyTechnical    = "technical"
	VocabularyMotivational = "motivational"
	VocabularyCasualSlang  = "casual_slang"
	VocabularyProfessional = "professional"
)

// FeatureSet is the surface-level linguistic fingerprint of one text sample.
// It is a pure function of the input text.
type FeatureSet struct {
	SentenceStructure string
	PunctuationStyle  string
	VocabularyLevel   string
	SentenceStarters  []string
	Catchphrases      []string
	EnergyLevel       int
	WordCount         int
	SentenceCount     int
	AvgSentenceLength float64
}

// Analyze computes the full feature bundle for a plain-text sample.
// Texts with zero sentences yield AvgSentenceLength 0 and EnergyLevel 1.
func Analyze(text string) FeatureSet {
	sentences := splitSentences(text)
	tokens := tokenize(text)

	fs := FeatureSet{
		WordCount:     len(tokens),
		SentenceCount: len(sentences),
	}

	if len(sentences) > 0 {
		fs.AvgSentenceLength = float64(len(tokens)) / float64(len(sentences))
	}
	fs.SentenceStructure = classifyStructure(fs.AvgSentenceLength)
	fs.PunctuationStyle = classifyPunctuation(text, len(sentences))
	fs.VocabularyLevel = classifyVocabulary(strings.ToLower(text))
	fs.SentenceStarters = extractStarters(sentences)
	fs.Catchphrases = extractCatchphrases(tokens)
	fs.EnergyLevel = scoreEnergy(strings.ToLower(text), len(sentences))

	return fs
}

// splitSentences breaks text on ., ! and ? boundaries, discarding fragments
// that are empty after trimming.
func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		if t := strings.TrimSpace(s); t != "" {
			sentences = append(sentences, t)
		}
	}
	return sentences
}

// tokenize lower-cases whitespace-delimited tokens and trims punctuation
// from token edges so "process." and "process" count as the same word.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.ToLower(strings.TrimFunc(f, unicode.IsPunct))
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func classifyStructure(avgLen float64) string {
	switch {
	case avgLen < 10:
		return StructureShortPunchy
	case avgLen <= 20:
		return StructureMixedVaried
	default:
		return StructureLongExplanatory
	}
}

// classifyPunctuation thresholds emoji and exclamation counts as a fraction
// of the sentence count. Emoji density wins over exclamation density.
func classifyPunctuation(text string, sentenceCount int) string {
	if sentenceCount == 0 {
		return PunctuationMinimal
	}

	var exclaims, emojis int
	for _, r := range text {
		switch {
		case r == '!':
			exclaims++
		case isEmoji(r):
			emojis++
		}
	}

	emojiFrac := float64(emojis) / float64(sentenceCount)
	exclaimFrac := float64(exclaims) / float64(sentenceCount)

	switch {
	case emojiFrac > 0.3:
		return PunctuationEmojiHeavy
	case exclaimFrac > 0.3:
		return PunctuationExclamationHeavy
	case exclaimFrac > 0.1:
		return PunctuationModerate
	default:
		return PunctuationMinimal
	}
}

// isEmoji covers the common emoji blocks: Misc Symbols, Dingbats, and the
// SMP emoji planes. Intentionally approximate.
func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r == 0x2764: // heavy heart
		return true
	}
	return false
}

func classifyVocabulary(lower string) string {
	technical := countKeywords(lower, technicalVocabulary)
	motivational := countKeywords(lower, motivationalVocabulary)
	casual := countKeywords(lower, casualVocabulary)

	switch {
	case technical > 2:
		return VocabularyTechnical
	case motivational > 3:
		return VocabularyMotivational
	case casual > 3:
		return VocabularyCasualSlang
	default:
		return VocabularyProfessional
	}
}

func countKeywords(lower string, keywords []string) int {
	total := 0
	for _, kw := range keywords {
		total += strings.Count(lower, kw)
	}
	return total
}

// extractStarters returns up to 5 recurring sentence openers (first three
// tokens of each sentence), most frequent first. Openers seen only once are
// dropped.
func extractStarters(sentences []string) []string {
	counts := make(map[string]int)
	for _, s := range sentences {
		tokens := tokenize(s)
		n := len(tokens)
		if n > 3 {
			n = 3
		}
		if n == 0 {
			continue
		}
		counts[strings.Join(tokens[:n], " ")]++
	}
	return topPhrases(counts, 1, 5)
}

// extractCatchphrases finds recurring 2-word and 3-word windows longer than
// 5 characters. Windows seen fewer than 3 times are dropped; the top 5 by
// frequency are returned.
func extractCatchphrases(tokens []string) []string {
	counts := make(map[string]int)
	for _, size := range []int{2, 3} {
		for i := 0; i+size <= len(tokens); i++ {
			phrase := strings.Join(tokens[i:i+size], " ")
			if len(phrase) > 5 {
				counts[phrase]++
			}
		}
	}
	return topPhrases(counts, 2, 5)
}

// topPhrases returns up to limit phrases with count > minCount, ordered by
// count descending with lexical tie-break so output is deterministic.
func topPhrases(counts map[string]int, minCount, limit int) []string {
	type entry struct {
		phrase string
		count  int
	}
	entries := make([]entry, 0, len(counts))
	for p, c := range counts {
		if c > minCount {
			entries = append(entries, entry{p, c})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].phrase < entries[j].phrase
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	phrases := make([]string, len(entries))
	for i, e := range entries {
		phrases[i] = e.phrase
	}
	return phrases
}

// scoreEnergy maps energy-indicator density to a 1-10 level. Zero sentences
// means no density signal, reported as the floor.
func scoreEnergy(lower string, sentenceCount int) int {
	if sentenceCount == 0 {
		return 1
	}
	hits := 0
	for _, ind := range energyIndicators {
		hits += strings.Count(lower, ind)
	}
	level := int(math.Round(float64(hits) / float64(sentenceCount) * 10))
	if level < 1 {
		level = 1
	}
	if level > 10 {
		level = 10
	}
	return level
}
