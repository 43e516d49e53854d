package voice

// Keyword tables used by the analyzer. Kept as plain data so matching
// behavior can be tested and tuned independently of the algorithm.

// casualVocabulary signals slang-heavy, informal writing.
var casualVocabulary = []string{
	"gonna", "wanna", "gotta", "kinda", "sorta", "dude", "bro", "fam",
	"legit", "lowkey", "yeah", "yep", "nah", "crush", "killin", "vibes",
}

// technicalVocabulary signals exercise-science language.
var technicalVocabulary = []string{
	"hypertrophy", "progressive overload", "rpe", "tempo", "eccentric",
	"concentric", "macros", "glycogen", "vo2", "periodization", "deload",
	"compound", "isolation", "amrap", "one-rep max", "caloric deficit",
}

// motivationalVocabulary signals inspirational coaching language.
var motivationalVocabulary = []string{
	"believe", "grind", "hustle", "unstoppable", "champion", "mindset",
	"discipline", "dedication", "no excuses", "push through", "stronger",
	"greatness", "dream", "warrior", "beast mode", "never give up",
}

// energyIndicators are substrings whose density maps to the 1-10 energy level.
var energyIndicators = []string{
	"!", "let's go", "lets go", "come on", "crush", "fire", "pumped",
	"hyped", "amazing", "incredible", "insane", "yes", "now", "today",
}
