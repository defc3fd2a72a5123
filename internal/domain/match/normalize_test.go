package match

import (
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/arena-streams/internal/domain/sport"
)

var (
	frozenNow     = time.Date(2026, 10, 17, 10, 30, 0, 0, time.UTC)
	futureKickoff = EpochMillis(time.Date(2030, 1, 1, 19, 45, 0, 0, time.UTC).UnixMilli())
	testImages    = ImageURLs{BaseURL: "https://streamed.example/"}
)

func TestResolveStatus_RuleTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  RawMatch
		want string
	}{
		{name: "two sided with date", raw: RawMatch{Title: "Arsenal vs Chelsea", Date: futureKickoff}, want: StatusUpcoming},
		{name: "two sided without date", raw: RawMatch{Title: "Arsenal vs Chelsea", Date: 0}, want: StatusLive},
		{name: "channel marker without date", raw: RawMatch{Title: "ESPN: SNF", Date: 0}, want: StatusLive},
		{name: "channel marker with date", raw: RawMatch{Title: "NFL Network", Date: futureKickoff}, want: StatusLive},
		{name: "single entity with date", raw: RawMatch{Title: "Monaco GP", Date: futureKickoff}, want: StatusUpcoming},
		{name: "single entity without date", raw: RawMatch{Title: "Monaco GP"}, want: StatusLive},
		{name: "negative date is unknown", raw: RawMatch{Title: "Arsenal vs Chelsea", Date: -5}, want: StatusLive},
		{name: "channel marker inside two sided title ignored", raw: RawMatch{Title: "ESPN XI vs Fox Sports XI", Date: futureKickoff}, want: StatusUpcoming},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ResolveStatus(tc.raw); got != tc.want {
				t.Fatalf("unexpected status: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestResolveTeams_Precedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  RawMatch
		want Participants
	}{
		{
			name: "structured teams win over title",
			raw: RawMatch{
				Title: "Liverpool vs Everton",
				Teams: &Teams{Home: &Team{Name: "Arsenal", Badge: "ars"}, Away: &Team{Name: "Chelsea"}},
			},
			want: Participants{TeamA: "Arsenal", TeamB: "Chelsea", TeamABadge: "ars"},
		},
		{
			name: "structured teams with missing names",
			raw:  RawMatch{Teams: &Teams{Home: &Team{}, Away: &Team{Badge: "b"}}},
			want: Participants{TeamA: DefaultTeamA, TeamB: DefaultTeamB, TeamBBadge: "b"},
		},
		{
			name: "half structured teams fall through to title",
			raw:  RawMatch{Title: "Lakers vs Celtics", Teams: &Teams{Home: &Team{Name: "Lakers"}}},
			want: Participants{TeamA: "Lakers", TeamB: "Celtics"},
		},
		{
			name: "title split is trimmed",
			raw:  RawMatch{Title: "  Real Madrid vs  Barcelona "},
			want: Participants{TeamA: "Real Madrid", TeamB: "Barcelona"},
		},
		{
			name: "title with two separators keeps placeholders",
			raw:  RawMatch{Title: "A vs B vs C"},
			want: Participants{TeamA: DefaultTeamA, TeamB: DefaultTeamB},
		},
		{
			name: "single entity title",
			raw:  RawMatch{Title: "Formula 1: Monaco GP"},
			want: Participants{TeamA: "Formula 1: Monaco GP", TeamB: SingleEntityOpponent},
		},
		{
			name: "nothing usable",
			raw:  RawMatch{},
			want: Participants{TeamA: DefaultTeamA, TeamB: DefaultTeamB},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ResolveTeams(tc.raw); got != tc.want {
				t.Fatalf("unexpected teams: got=%+v want=%+v", got, tc.want)
			}
		})
	}
}

func TestResolveDate(t *testing.T) {
	t.Parallel()

	if got := ResolveDate(RawMatch{Date: futureKickoff}, frozenNow); got != "2030-01-01T19:45:00.000Z" {
		t.Fatalf("unexpected scheduled date: %s", got)
	}
	if got := ResolveDate(RawMatch{}, frozenNow); got != "2026-10-17T12:30:00.000Z" {
		t.Fatalf("unexpected placeholder date: %s", got)
	}
}

func TestNormalize_StructuredRecord(t *testing.T) {
	t.Parallel()

	raw := RawMatch{
		ID:      "arsenal-chelsea-1",
		Title:   "Arsenal vs Chelsea",
		Date:    futureKickoff,
		Poster:  "arsenal-chelsea.webp",
		Popular: true,
		Teams: &Teams{
			Home: &Team{Name: "Arsenal", Badge: "ars123"},
			Away: &Team{Name: "Chelsea", Badge: "che456"},
		},
		Sources: []Source{{Source: "alpha", ID: "arsenal-chelsea"}},
	}

	got := Normalize(raw, sport.Football, "requested-slug", frozenNow, testImages)
	want := Match{
		ID:          "arsenal-chelsea-1",
		TeamA:       "Arsenal",
		TeamB:       "Chelsea",
		Competition: "Arsenal vs Chelsea",
		Date:        "2030-01-01T19:45:00.000Z",
		Slug:        "requested-slug",
		TeamABadge:  "https://streamed.example/api/images/badge/ars123.webp",
		TeamBBadge:  "https://streamed.example/api/images/badge/che456.webp",
		Status:      StatusUpcoming,
		Poster:      "https://streamed.example/api/images/poster/arsenal-chelsea.webp",
		Popular:     true,
		Sources:     []Source{{Source: "alpha", ID: "arsenal-chelsea"}},
		Category:    "football",
		Sport:       sport.Football,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected match:\n got=%+v\nwant=%+v", got, want)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	t.Parallel()

	got := Normalize(RawMatch{ID: "x"}, sport.MotorSports, "x", frozenNow, testImages)
	if got.TeamA != DefaultTeamA || got.TeamB != DefaultTeamB {
		t.Fatalf("unexpected teams: %s / %s", got.TeamA, got.TeamB)
	}
	if got.Competition != "Motor-sports Match" {
		t.Fatalf("unexpected competition: %q", got.Competition)
	}
	if got.Category != "motor-sports" {
		t.Fatalf("unexpected category: %q", got.Category)
	}
	if got.Sources == nil || len(got.Sources) != 0 {
		t.Fatalf("expected empty non-nil sources, got %#v", got.Sources)
	}
	if got.TeamABadge != "" || got.TeamBBadge != "" || got.Poster != "" {
		t.Fatalf("expected empty asset urls, got %+v", got)
	}
	if got.Date != "2026-10-17T12:30:00.000Z" {
		t.Fatalf("unexpected placeholder date: %s", got.Date)
	}
	if got.Status != StatusLive {
		t.Fatalf("unexpected status: %s", got.Status)
	}
}

func TestNormalize_IdempotentWithFrozenClock(t *testing.T) {
	t.Parallel()

	raw := RawMatch{ID: "m1", Title: "Monaco GP"}
	first := Normalize(raw, sport.MotorSports, "m1", frozenNow, testImages)
	second := Normalize(raw, sport.MotorSports, "m1", frozenNow, testImages)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalize is not deterministic: %+v vs %+v", first, second)
	}
}
