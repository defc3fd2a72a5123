package match

import (
	"math"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/arena-streams/internal/domain/sport"
)

const (
	StatusLive     = "live"
	StatusUpcoming = "upcoming"

	DefaultTeamA = "Team A"
	DefaultTeamB = "Team B"
	// SingleEntityOpponent fills teamB for races and channel feeds.
	SingleEntityOpponent = "Live"

	titleSeparator = " vs "
)

// Team is one side of an upstream fixture.
type Team struct {
	Name  string `json:"name"`
	Badge string `json:"badge,omitempty"`
}

// Teams holds the optional structured participants of an upstream record.
type Teams struct {
	Home *Team `json:"home,omitempty"`
	Away *Team `json:"away,omitempty"`
}

// Source points at one stream provider for a match.
type Source struct {
	Source string `json:"source"`
	ID     string `json:"id"`
}

// maxEpochMillis is the largest instant a JavaScript Date can hold.
const maxEpochMillis = 8.64e15

// EpochMillis is an upstream timestamp. Zero, negative, unparseable and
// out of range values all mean "no scheduled time known".
type EpochMillis int64

func (e *EpochMillis) UnmarshalJSON(data []byte) error {
	value := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if value == "" || value == "null" {
		*e = 0
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*e = 0
		return nil
	}
	if math.IsNaN(parsed) || parsed <= 0 || parsed > maxEpochMillis {
		*e = 0
		return nil
	}
	*e = EpochMillis(int64(parsed))
	return nil
}

// Known reports whether the timestamp carries a scheduled time.
func (e EpochMillis) Known() bool {
	return e > 0
}

// RawMatch is one untrusted upstream match record. The upstream bytes are
// kept so the record can be re-served without loss.
type RawMatch struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Category string      `json:"category,omitempty"`
	Date     EpochMillis `json:"date"`
	Poster   string      `json:"poster,omitempty"`
	Popular  bool        `json:"popular"`
	Teams    *Teams      `json:"teams,omitempty"`
	Sources  []Source    `json:"sources,omitempty"`

	raw []byte
}

type rawMatchFields RawMatch

// MarshalJSON re-emits the upstream bytes when the record came from the
// provider, otherwise it encodes the known fields.
func (m RawMatch) MarshalJSON() ([]byte, error) {
	if len(m.raw) > 0 {
		return m.raw, nil
	}
	return sonic.Marshal(rawMatchFields(m))
}

// IsTwoSided reports whether the title names two opponents.
func (m RawMatch) IsTwoSided() bool {
	return strings.Contains(m.Title, titleSeparator)
}

// Match is the canonical record served by the match endpoint and pages.
type Match struct {
	ID          string    `json:"id"`
	TeamA       string    `json:"teamA"`
	TeamB       string    `json:"teamB"`
	Competition string    `json:"competition"`
	Date        string    `json:"date"`
	Slug        string    `json:"slug"`
	TeamABadge  string    `json:"teamABadge"`
	TeamBBadge  string    `json:"teamBBadge"`
	Status      string    `json:"status"`
	Poster      string    `json:"poster"`
	Popular     bool      `json:"popular"`
	Sources     []Source  `json:"sources"`
	Category    string    `json:"category"`
	Sport       sport.Key `json:"sport"`
}

// IsLive reports whether the match is currently being broadcast.
func (m Match) IsLive() bool {
	return m.Status == StatusLive
}
