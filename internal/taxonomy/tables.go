package taxonomy

// Fixed keyword taxonomies. Categories are binary: any keyword appearing as
// a case-insensitive substring marks the category present. The tables are
// plain data so the matcher can be tested and extended independently.

// Intent categories.
const (
	IntentMotivation  = "motivation"
	IntentAdvice      = "advice"
	IntentCelebration = "celebration"
	IntentEducation   = "education"
	IntentPersonal    = "personal"
	IntentChallenge   = "challenge"
)

// Situation categories.
const (
	SituationPreWorkout     = "pre_workout"
	SituationPostWorkout    = "post_workout"
	SituationStruggling     = "struggling"
	SituationPlateau        = "plateau"
	SituationBeginner       = "beginner"
	SituationAdvanced       = "advanced"
	SituationInjuryRecovery = "injury_recovery"
)

// DefaultIntentKeywords maps each intent category to its trigger substrings.
var DefaultIntentKeywords = map[string][]string{
	IntentMotivation: {
		"motivat", "inspire", "keep going", "don't quit", "dont quit",
		"you got this", "believe", "push yourself",
	},
	IntentAdvice: {
		"advice", "should i", "how do i", "how to", "recommend", "tip",
		"suggest", "what works",
	},
	IntentCelebration: {
		"congrat", "proud", "crushed it", "nailed it", "personal best",
		"new pr", "milestone", "celebrate",
	},
	IntentEducation: {
		"explain", "why does", "what is", "learn", "understand", "science",
		"research", "technique", "form check",
	},
	IntentPersonal: {
		"i remember", "when i", "my journey", "my story", "i used to",
		"back when", "personally", "my own",
	},
	IntentChallenge: {
		"challenge", "push through", "pushed through", "struggled", "hard",
		"difficult", "overcome", "obstacle", "grind",
	},
}

// DefaultSituationKeywords maps each situation category to its trigger substrings.
var DefaultSituationKeywords = map[string][]string{
	SituationPreWorkout: {
		"before workout", "pre-workout", "pre workout", "warm up", "warmup",
		"about to train", "heading to the gym",
	},
	SituationPostWorkout: {
		"after workout", "post-workout", "post workout", "just finished",
		"cool down", "sore", "recovery day",
	},
	SituationStruggling: {
		"struggl", "can't", "cant", "giving up", "too tired", "unmotivated",
		"falling off", "lost motivation",
	},
	SituationPlateau: {
		"plateau", "stuck", "no progress", "not improving", "same weight",
		"stalled",
	},
	SituationBeginner: {
		"beginner", "new to", "just started", "first time", "never done",
		"getting started",
	},
	SituationAdvanced: {
		"advanced", "competition", "years of training", "elite", "peak week",
	},
	SituationInjuryRecovery: {
		"injur", "hurt", "pain", "rehab", "physical therapy", "recovering from",
	},
}

// DefaultContentTypeTags maps a chunk's content type to the extra intent tag
// appended at tagging time.
var DefaultContentTypeTags = map[string]string{
	"social_post":        "social_media",
	"video_transcript":   "video",
	"podcast_transcript": "podcast",
	"written_content":    "writing",
	"social_comment":     "social_media",
	"blog_post":          "writing",
}
