package match

import (
	"strings"
	"time"

	"github.com/riskibarqy/arena-streams/internal/domain/sport"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const slugDateLayout = "2006-01-02"

// DeriveSlug builds the public URL slug of a record. Both the page link
// producer and the slug resolver call it, so changing it breaks every link
// already published.
//
// The date part is the UTC calendar day of the record, or of today when the
// record has no scheduled time.
func DeriveSlug(raw RawMatch, today time.Time) string {
	teams := ResolveTeams(raw)

	day := today
	if raw.Date.Known() {
		day = time.UnixMilli(int64(raw.Date))
	}

	return Slugify(teams.TeamA + "-vs-" + teams.TeamB + "-live-" + day.UTC().Format(slugDateLayout))
}

// LinkSlug is the slug a page links to for a record found under key.
// Single-entity channel entries of sports that carry them are addressed by
// their upstream id; everything else uses DeriveSlug.
func LinkSlug(raw RawMatch, key sport.Key, today time.Time) string {
	if IsIDOnly(raw, key) {
		return raw.ID
	}
	return DeriveSlug(raw, today)
}

// IsIDOnly reports whether the record can only be resolved by its id.
func IsIDOnly(raw RawMatch, key sport.Key) bool {
	return key.HasChannelEntries() && raw.ID != "" && !raw.IsTwoSided()
}

// Slugify lowercases s and replaces everything outside [a-z0-9-] with '-'.
// Lowercasing uses the full Unicode mapping, so 'İ' becomes "i\u0307" as it
// does in browsers. Characters outside the basic multilingual plane become
// two dashes, the same as a UTF-16 based replacement would produce.
func Slugify(s string) string {
	lowered := cases.Lower(language.Und).String(s)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r > 0xFFFF:
			b.WriteString("--")
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
