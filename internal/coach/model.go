package coach

import (
	"errors"
	"time"
)

// ErrUnknownStyle is returned when a response style is not one of the fixed set.
var ErrUnknownStyle = errors.New("unknown response style")

// ResponseStyle is one of the seven fixed persona archetypes.
type ResponseStyle string

const (
	StyleToughLove        ResponseStyle = "tough_love"
	StyleEmpatheticMirror ResponseStyle = "empathetic_mirror"
	StyleCheerleader      ResponseStyle = "cheerleader"
	StyleDrillSergeant    ResponseStyle = "drill_sergeant"
	StyleZenGuide         ResponseStyle = "zen_guide"
	StyleScienceNerd      ResponseStyle = "science_nerd"
	StyleHypeBeast        ResponseStyle = "hype_beast"
)

// Styles lists all valid response styles.
var Styles = []ResponseStyle{
	StyleToughLove, StyleEmpatheticMirror, StyleCheerleader,
	StyleDrillSergeant, StyleZenGuide, StyleScienceNerd, StyleHypeBeast,
}

// ValidStyle reports whether s is one of the fixed styles.
func ValidStyle(s ResponseStyle) bool {
	for _, known := range Styles {
		if s == known {
			return true
		}
	}
	return false
}

// ContentType labels the source format of an ingested chunk.
type ContentType string

const (
	ContentSocialPost        ContentType = "social_post"
	ContentVideoTranscript   ContentType = "video_transcript"
	ContentPodcastTranscript ContentType = "podcast_transcript"
	ContentWritten           ContentType = "written_content"
	ContentSocialComment     ContentType = "social_comment"
	ContentBlogPost          ContentType = "blog_post"
)

// ContentTypes lists all valid content types.
var ContentTypes = []ContentType{
	ContentSocialPost, ContentVideoTranscript, ContentPodcastTranscript,
	ContentWritten, ContentSocialComment, ContentBlogPost,
}

// ValidContentType reports whether ct is one of the fixed content types.
func ValidContentType(ct ContentType) bool {
	for _, known := range ContentTypes {
		if ct == known {
			return true
		}
	}
	return false
}

// Traits are the four bounded 1-10 communication dials of a persona.
type Traits struct {
	Energy       int `json:"energy"`
	Directness   int `json:"directness"`
	Formality    int `json:"formality"`
	EmotionFocus int `json:"emotion_focus"`
}

// VoiceProfile is the continuously-merged linguistic fingerprint of a coach.
// Categorical fields are last-write-wins per qualifying sample; counters and
// the catchphrase list accumulate.
type VoiceProfile struct {
	SentenceStructure string   `json:"sentence_structure,omitempty"`
	PunctuationStyle  string   `json:"punctuation_style,omitempty"`
	VocabularyLevel   string   `json:"vocabulary_level,omitempty"`
	SentenceStarters  []string `json:"typical_sentence_starters,omitempty"`
	Catchphrases      []string `json:"catchphrases,omitempty"`
	EnergyLevel       int      `json:"energy_level,omitempty"`
	WordCount         int      `json:"word_count,omitempty"`
	SentenceCount     int      `json:"sentence_count,omitempty"`
	AvgSentenceLength float64  `json:"avg_sentence_length,omitempty"`
	SamplesProcessed  int      `json:"samples_processed"`
}

// Coach is a persona record.
type Coach struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Handle         string        `json:"handle"`
	Description    string        `json:"description"`
	PrimaryStyle   ResponseStyle `json:"primary_response_style"`
	SecondaryStyle ResponseStyle `json:"secondary_response_style,omitempty"`
	Traits         Traits        `json:"communication_traits"`
	Voice          VoiceProfile  `json:"voice_profile"`
	Catchphrases   []string      `json:"catchphrases,omitempty"`
	Active         bool          `json:"active"`
	Public         bool          `json:"public"`
	ContentPieces  int           `json:"total_content_pieces"`
	Conversations  int           `json:"total_conversations"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Turn is one entry in a subscriber's conversation log.
type Turn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
