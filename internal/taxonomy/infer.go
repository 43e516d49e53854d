package taxonomy

import "strings"

// Emotional-need categories used to steer reply generation.
const (
	NeedEmpathy        = "empathy"
	NeedCelebration    = "celebration"
	NeedReassurance    = "reassurance"
	NeedAccountability = "accountability"
	NeedGuidance       = "guidance"
	NeedEncouragement  = "encouragement"
)

// needKeywords pairs a category with its trigger substrings. Order matters:
// the first category with a match wins.
var needKeywords = []struct {
	need     string
	keywords []string
}{
	{NeedEmpathy, []string{"struggl", "can't", "cant", "tired", "exhausted", "overwhelmed", "giving up"}},
	{NeedCelebration, []string{"crushed", "nailed", "personal best", "new pr", "finally", "proud"}},
	{NeedReassurance, []string{"worried", "nervous", "scared", "anxious", "not sure i can", "doubt"}},
	{NeedAccountability, []string{"skipped", "missed", "lazy", "haven't been", "havent been", "fell off"}},
	{NeedGuidance, []string{"how do i", "how to", "should i", "what's the best", "whats the best", "advice"}},
}

// situationPriority orders situation categories for single-value inference.
// Struggling and injury signals outrank training-phase signals.
var situationPriority = []string{
	SituationInjuryRecovery,
	SituationStruggling,
	SituationPlateau,
	SituationPreWorkout,
	SituationPostWorkout,
	SituationBeginner,
	SituationAdvanced,
}

// SituationGeneral is the fallback when no situation keyword matches.
const SituationGeneral = "general"

// InferEmotionalNeed maps a free-text message to a single emotional-need
// category by keyword priority. Defaults to encouragement.
func InferEmotionalNeed(message string) string {
	lower := strings.ToLower(message)
	for _, entry := range needKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.need
			}
		}
	}
	return NeedEncouragement
}

// InferSituation maps a free-text message to the highest-priority matching
// situation category, or "general" if nothing matches.
func InferSituation(message string) string {
	lower := strings.ToLower(message)
	for _, situation := range situationPriority {
		for _, kw := range DefaultSituationKeywords[situation] {
			if strings.Contains(lower, kw) {
				return situation
			}
		}
	}
	return SituationGeneral
}
