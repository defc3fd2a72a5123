package match

import (
	"strings"
	"time"

	"github.com/riskibarqy/arena-streams/internal/domain/sport"
)

// isoLayout matches the millisecond UTC form the frontend parses.
const isoLayout = "2006-01-02T15:04:05.000Z"

// PlaceholderLead is added to the current time when the upstream record has
// no scheduled time.
const PlaceholderLead = 2 * time.Hour

// channelMarkers identify always-on broadcast simulcasts.
var channelMarkers = []string{
	"snf:",
	"tnf:",
	"mnf:",
	"nfl network",
	"espn",
	"fox sports",
	"cbs sports",
	"nbc sports",
	"abc sports",
}

// ImageURLs builds absolute asset URLs on the upstream host.
type ImageURLs struct {
	BaseURL string
}

func (u ImageURLs) Badge(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	return strings.TrimRight(u.BaseURL, "/") + "/api/images/badge/" + name + ".webp"
}

func (u ImageURLs) Poster(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	return strings.TrimRight(u.BaseURL, "/") + "/api/images/poster/" + name
}

// Participants is the resolved pair of opponents of a raw record.
type Participants struct {
	TeamA      string
	TeamB      string
	TeamABadge string
	TeamBBadge string
}

// ResolveTeams applies the team precedence: structured teams, then a
// "<Home> vs <Away>" title, then a single-entity title, then placeholders.
// Badges are bare upstream file names.
func ResolveTeams(raw RawMatch) Participants {
	out := Participants{TeamA: DefaultTeamA, TeamB: DefaultTeamB}

	if raw.Teams != nil && raw.Teams.Home != nil && raw.Teams.Away != nil {
		if raw.Teams.Home.Name != "" {
			out.TeamA = raw.Teams.Home.Name
		}
		if raw.Teams.Away.Name != "" {
			out.TeamB = raw.Teams.Away.Name
		}
		out.TeamABadge = raw.Teams.Home.Badge
		out.TeamBBadge = raw.Teams.Away.Badge
		return out
	}

	if raw.Title == "" {
		return out
	}

	if raw.IsTwoSided() {
		parts := strings.Split(raw.Title, titleSeparator)
		if len(parts) == 2 {
			out.TeamA = strings.TrimSpace(parts[0])
			out.TeamB = strings.TrimSpace(parts[1])
		}
		return out
	}

	out.TeamA = raw.Title
	out.TeamB = SingleEntityOpponent
	return out
}

// ResolveStatus derives live/upcoming. Two-sided matches follow the date
// rule; single-entity entries are live when they look like a channel
// simulcast and otherwise follow the date rule too.
func ResolveStatus(raw RawMatch) string {
	if !raw.IsTwoSided() && isChannelTitle(raw.Title) {
		return StatusLive
	}
	if raw.Date.Known() {
		return StatusUpcoming
	}
	return StatusLive
}

func isChannelTitle(title string) bool {
	lowered := strings.ToLower(title)
	for _, marker := range channelMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// ResolveDate formats the scheduled time, or now plus PlaceholderLead when
// the record has none.
func ResolveDate(raw RawMatch, now time.Time) string {
	if raw.Date.Known() {
		return time.UnixMilli(int64(raw.Date)).UTC().Format(isoLayout)
	}
	return now.Add(PlaceholderLead).UTC().Format(isoLayout)
}

// Competition returns the title, or "<Sport> Match" when there is none.
func Competition(raw RawMatch, key sport.Key) string {
	if raw.Title != "" {
		return raw.Title
	}
	return key.Title() + " Match"
}

// Normalize converts an upstream record found under key into the canonical
// match. requestedSlug is echoed back unchanged.
func Normalize(raw RawMatch, key sport.Key, requestedSlug string, now time.Time, images ImageURLs) Match {
	teams := ResolveTeams(raw)

	sources := raw.Sources
	if sources == nil {
		sources = []Source{}
	}
	category := raw.Category
	if category == "" {
		category = key.String()
	}

	return Match{
		ID:          raw.ID,
		TeamA:       teams.TeamA,
		TeamB:       teams.TeamB,
		Competition: Competition(raw, key),
		Date:        ResolveDate(raw, now),
		Slug:        requestedSlug,
		TeamABadge:  images.Badge(teams.TeamABadge),
		TeamBBadge:  images.Badge(teams.TeamBBadge),
		Status:      ResolveStatus(raw),
		Poster:      images.Poster(raw.Poster),
		Popular:     raw.Popular,
		Sources:     sources,
		Category:    category,
		Sport:       key,
	}
}
