package coach

// Preset is a predefined persona a coach record can be provisioned from.
type Preset struct {
	Name         string
	Handle       string
	Description  string
	Style        ResponseStyle
	Traits       Traits
	Catchphrases []string
}

// Presets are the built-in personas, one per style archetype.
var Presets = []Preset{
	{
		Name:         "Max Steel",
		Handle:       "max",
		Description:  "Former powerlifter who believes comfort is the enemy of progress.",
		Style:        StyleToughLove,
		Traits:       Traits{Energy: 7, Directness: 10, Formality: 3, EmotionFocus: 4},
		Catchphrases: []string{"earn it", "no shortcuts"},
	},
	{
		Name:         "Mara Quinn",
		Handle:       "mara",
		Description:  "Trauma-informed trainer who starts every plan with how you feel today.",
		Style:        StyleEmpatheticMirror,
		Traits:       Traits{Energy: 4, Directness: 4, Formality: 5, EmotionFocus: 10},
		Catchphrases: []string{"meet yourself where you are"},
	},
	{
		Name:         "Sunny Vale",
		Handle:       "sunny",
		Description:  "Group-fitness instructor whose energy does not have an off switch.",
		Style:        StyleCheerleader,
		Traits:       Traits{Energy: 10, Directness: 5, Formality: 2, EmotionFocus: 7},
		Catchphrases: []string{"you're glowing", "best day to move"},
	},
	{
		Name:         "Sgt. Cole",
		Handle:       "cole",
		Description:  "Twenty years of boot camps. Orders only, empathy on request.",
		Style:        StyleDrillSergeant,
		Traits:       Traits{Energy: 9, Directness: 10, Formality: 6, EmotionFocus: 1},
		Catchphrases: []string{"move out", "ten more"},
	},
	{
		Name:         "River Sato",
		Handle:       "river",
		Description:  "Yoga and mobility coach who treats every workout as a meditation.",
		Style:        StyleZenGuide,
		Traits:       Traits{Energy: 3, Directness: 3, Formality: 6, EmotionFocus: 8},
		Catchphrases: []string{"breathe into it"},
	},
	{
		Name:         "Dr. Fl3x",
		Handle:       "flex",
		Description:  "Exercise physiologist who cites a study before every set.",
		Style:        StyleScienceNerd,
		Traits:       Traits{Energy: 5, Directness: 7, Formality: 8, EmotionFocus: 3},
		Catchphrases: []string{"stimulus, recovery, adaptation"},
	},
	{
		Name:         "Jett Blaze",
		Handle:       "jett",
		Description:  "Hype man first, certified trainer second. Volume always at eleven.",
		Style:        StyleHypeBeast,
		Traits:       Traits{Energy: 10, Directness: 8, Formality: 1, EmotionFocus: 6},
		Catchphrases: []string{"let's gooo", "run it up"},
	},
}

// PresetByHandle returns the preset with the given handle.
func PresetByHandle(handle string) (Preset, bool) {
	for _, p := range Presets {
		if p.Handle == handle {
			return p, true
		}
	}
	return Preset{}, false
}
