package taxonomy

import (
	"sort"
	"strings"
)

// Tagger assigns intent and situation category tags by substring matching
// against fixed keyword tables. Matching is case-insensitive and substring
// based (not whole-word): "ADVICE" and "advices" both trigger "advice".
type Tagger struct {
	intents    map[string][]string
	situations map[string][]string
	typeTags   map[string]string
}

// NewTagger creates a Tagger over the given keyword tables.
func NewTagger(intents, situations map[string][]string, typeTags map[string]string) *Tagger {
	return &Tagger{intents: intents, situations: situations, typeTags: typeTags}
}

// NewDefaultTagger creates a Tagger over the built-in taxonomies.
func NewDefaultTagger() *Tagger {
	return NewTagger(DefaultIntentKeywords, DefaultSituationKeywords, DefaultContentTypeTags)
}

// Tag returns the intent and situation tags for the text. The content type
// contributes one extra intent tag via the type-tag table; pass "" to skip it.
// Both result slices are sorted for deterministic output.
func (t *Tagger) Tag(text, contentType string) (intents, situations []string) {
	lower := strings.ToLower(text)

	intents = matchCategories(lower, t.intents)
	if extra, ok := t.typeTags[contentType]; ok {
		intents = appendUnique(intents, extra)
	}
	situations = matchCategories(lower, t.situations)

	sort.Strings(intents)
	sort.Strings(situations)
	return intents, situations
}

func matchCategories(lower string, table map[string][]string) []string {
	var tags []string
	for category, keywords := range table {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, category)
				break
			}
		}
	}
	return tags
}

func appendUnique(tags []string, tag string) []string {
	for _, existing := range tags {
		if existing == tag {
			return tags
		}
	}
	return append(tags, tag)
}
