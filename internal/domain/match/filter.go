package match

import (
	"strings"

	"github.com/riskibarqy/arena-streams/internal/domain/sport"
)

// Vocabulary names a keyword list of the cross-sport filter.
type Vocabulary string

const (
	VocabularyRugby Vocabulary = "rugby"
	VocabularyAFL   Vocabulary = "afl"
	VocabularyNFL   Vocabulary = "nfl"
)

// KeywordSet holds the lowercase substrings that identify records leaking
// into the wrong sport feed.
type KeywordSet struct {
	Rugby []string `yaml:"rugby"`
	AFL   []string `yaml:"afl"`
	NFL   []string `yaml:"nfl"`
}

// DefaultKeywords returns the built-in vocabularies.
func DefaultKeywords() KeywordSet {
	return KeywordSet{
		Rugby: []string{
			"rugby", "npc:", "super rugby", "women's rugby", "rugby world cup",
			"taranaki", "hawkes bay", "hawke's bay", "counties manukau", "auckland",
			"wellington", "southland", "canterbury", "otago", "tasman", "waikato",
			"north harbour", "northland", "manawatu", "bay of plenty", "force", "brumbies",
			"waratahs", "reds", "new zealand w", "canada w",
		},
		AFL: []string{
			"afl", "australian football", "hawthorn", "geelong cats", "collingwood",
			"essendon", "fremantle", "brisbane lions", "port adelaide", "magpies",
			"bombers", "dockers", "power", "premiership football", "afl womens",
		},
		NFL: []string{
			"nfl:", "nfl ", "miami dolphins", "buffalo bills", "houston texans", "jacksonville jaguars",
			"pittsburgh steelers", "new england patriots", "dallas cowboys", "chicago bears",
			"green bay packers", "cleveland browns", "denver broncos", "los angeles chargers",
			"arizona cardinals", "san francisco 49ers", "kansas city chiefs", "new york giants",
			"detroit lions", "baltimore ravens",
		},
	}
}

// Merge fills every empty list of s from fallback.
func (s KeywordSet) Merge(fallback KeywordSet) KeywordSet {
	if len(s.Rugby) == 0 {
		s.Rugby = fallback.Rugby
	}
	if len(s.AFL) == 0 {
		s.AFL = fallback.AFL
	}
	if len(s.NFL) == 0 {
		s.NFL = fallback.NFL
	}
	return s
}

// Exclusion records why a record was dropped from a feed.
type Exclusion struct {
	Match      RawMatch
	Vocabulary Vocabulary
	Keyword    string
}

type vocabulary struct {
	name     Vocabulary
	keywords []string
}

// Filter removes records that belong to a conflicting sport. It is a
// heuristic: keyword hits on unrelated names are accepted as known noise.
type Filter struct {
	excluded map[sport.Key][]vocabulary
}

func NewFilter(set KeywordSet) *Filter {
	set = set.Merge(DefaultKeywords())
	rugby := vocabulary{name: VocabularyRugby, keywords: normalizeKeywords(set.Rugby)}
	afl := vocabulary{name: VocabularyAFL, keywords: normalizeKeywords(set.AFL)}
	nfl := vocabulary{name: VocabularyNFL, keywords: normalizeKeywords(set.NFL)}

	return &Filter{
		excluded: map[sport.Key][]vocabulary{
			sport.AmericanFootball: {rugby, afl},
			sport.Rugby:            {nfl, afl},
		},
	}
}

// Apply returns the records of matches that belong to key, in order. Sports
// without a conflicting vocabulary get matches back unchanged.
func (f *Filter) Apply(matches []RawMatch, key sport.Key) []RawMatch {
	kept, _ := f.Partition(matches, key)
	return kept
}

// Partition splits matches into kept records and exclusions.
func (f *Filter) Partition(matches []RawMatch, key sport.Key) ([]RawMatch, []Exclusion) {
	vocabularies := f.excluded[key]
	if len(vocabularies) == 0 {
		return matches, nil
	}

	kept := make([]RawMatch, 0, len(matches))
	var dropped []Exclusion
	for _, item := range matches {
		if exclusion, hit := firstHit(item, vocabularies); hit {
			dropped = append(dropped, exclusion)
			continue
		}
		kept = append(kept, item)
	}
	return kept, dropped
}

func firstHit(item RawMatch, vocabularies []vocabulary) (Exclusion, bool) {
	title := strings.ToLower(item.Title)
	id := strings.ToLower(item.ID)
	for _, vocab := range vocabularies {
		for _, keyword := range vocab.keywords {
			if strings.Contains(title, keyword) || strings.Contains(id, keyword) {
				return Exclusion{Match: item, Vocabulary: vocab.name, Keyword: keyword}, true
			}
		}
	}
	return Exclusion{}, false
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		// Surrounding spaces are significant ("nfl "), only case is folded.
		keyword = strings.ToLower(keyword)
		if strings.TrimSpace(keyword) == "" {
			continue
		}
		out = append(out, keyword)
	}
	return out
}
