package match

import (
	"testing"

	"github.com/riskibarqy/arena-streams/internal/domain/sport"
)

func titles(items []RawMatch) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestFilter_AmericanFootballDropsRugbyAndAFL(t *testing.T) {
	t.Parallel()

	feed := []RawMatch{
		{ID: "kc-buf", Title: "Kansas City Chiefs vs Buffalo Bills"},
		{ID: "npc-1", Title: "Auckland vs Wellington"},
		{ID: "m-7", Title: "Hawthorn vs Geelong Cats"},
		{ID: "dal-phi", Title: "Dallas Cowboys vs Philadelphia Eagles"},
	}

	kept, dropped := NewFilter(DefaultKeywords()).Partition(feed, sport.AmericanFootball)

	got := titles(kept)
	if len(got) != 2 || got[0] != "Kansas City Chiefs vs Buffalo Bills" || got[1] != "Dallas Cowboys vs Philadelphia Eagles" {
		t.Fatalf("unexpected kept records: %v", got)
	}
	if len(dropped) != 2 {
		t.Fatalf("expected 2 exclusions, got=%d", len(dropped))
	}
	if dropped[0].Vocabulary != VocabularyRugby || dropped[0].Keyword != "auckland" {
		t.Fatalf("unexpected first exclusion: %+v", dropped[0])
	}
	if dropped[1].Vocabulary != VocabularyAFL || dropped[1].Keyword != "hawthorn" {
		t.Fatalf("unexpected second exclusion: %+v", dropped[1])
	}
}

func TestFilter_RugbyDropsNFLAndAFL(t *testing.T) {
	t.Parallel()

	feed := []RawMatch{
		{ID: "nfl-wk5", Title: "NFL Week 5"},
		{ID: "crus-blues", Title: "Crusaders vs Blues"},
		{ID: "x1", Title: "Brisbane Lions vs Port Adelaide"},
		{ID: "nflx-cup", Title: "NFLX Cup"},
	}

	kept := NewFilter(DefaultKeywords()).Apply(feed, sport.Rugby)

	got := titles(kept)
	if len(got) != 2 || got[0] != "Crusaders vs Blues" || got[1] != "NFLX Cup" {
		t.Fatalf("unexpected kept records: %v", got)
	}
}

func TestFilter_MatchesOnID(t *testing.T) {
	t.Parallel()

	feed := []RawMatch{{ID: "super-rugby-final", Title: "Final"}}

	kept := NewFilter(DefaultKeywords()).Apply(feed, sport.AmericanFootball)
	if len(kept) != 0 {
		t.Fatalf("expected record to be dropped by id, got=%v", titles(kept))
	}
}

func TestFilter_OtherSportsAreIdentity(t *testing.T) {
	t.Parallel()

	feed := []RawMatch{
		{ID: "a", Title: "Auckland FC vs Wellington Phoenix"},
		{ID: "b", Title: "NFL: something"},
	}
	filter := NewFilter(DefaultKeywords())

	for _, key := range []sport.Key{sport.Football, sport.Basketball, sport.MotorSports} {
		kept, dropped := filter.Partition(feed, key)
		if len(kept) != len(feed) || &kept[0] != &feed[0] {
			t.Fatalf("%s: expected the same slice back", key)
		}
		if dropped != nil {
			t.Fatalf("%s: expected no exclusions, got=%v", key, dropped)
		}
	}
}

func TestFilter_CustomKeywordsFallBackPerList(t *testing.T) {
	t.Parallel()

	filter := NewFilter(KeywordSet{Rugby: []string{"Sevens", "   "}})
	feed := []RawMatch{
		{ID: "s", Title: "USA Sevens"},
		{ID: "n", Title: "Auckland Blues vs Chiefs"},
		{ID: "c", Title: "Collingwood vs Essendon"},
	}

	kept, dropped := filter.Partition(feed, sport.AmericanFootball)
	if got := titles(kept); len(got) != 1 || got[0] != "Auckland Blues vs Chiefs" {
		t.Fatalf("unexpected kept records: %v", got)
	}
	if dropped[0].Keyword != "sevens" {
		t.Fatalf("expected lowercased custom keyword, got=%q", dropped[0].Keyword)
	}
	if dropped[1].Vocabulary != VocabularyAFL {
		t.Fatalf("expected default afl vocabulary to remain, got=%s", dropped[1].Vocabulary)
	}
}
