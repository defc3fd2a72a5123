package sport

import "testing"

func TestAll_DeclarationOrder(t *testing.T) {
	t.Parallel()

	want := []Key{
		"football", "basketball", "tennis", "ufc", "rugby",
		"baseball", "american-football", "cricket", "motor-sports", "hockey",
	}
	got := All()
	if len(got) != len(want) {
		t.Fatalf("unexpected sport count: got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected sport at %d: got=%s want=%s", i, got[i], want[i])
		}
	}

	got[0] = "mutated"
	if All()[0] != Football {
		t.Fatalf("All must return a copy")
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	if key, ok := Parse(" Motor-Sports "); !ok || key != MotorSports {
		t.Fatalf("expected motor-sports, got=%q ok=%v", key, ok)
	}
	if _, ok := Parse("curling"); ok {
		t.Fatalf("expected curling to be rejected")
	}
}

func TestLookup_FallbackForUnknownKey(t *testing.T) {
	t.Parallel()

	info := Lookup("darts")
	if info.Name != "Darts" {
		t.Fatalf("unexpected fallback name: %q", info.Name)
	}
	if info.Description != "Watch darts live streams online free." {
		t.Fatalf("unexpected fallback description: %q", info.Description)
	}
	if info.Keywords != "darts live stream, darts streaming" {
		t.Fatalf("unexpected fallback keywords: %q", info.Keywords)
	}

	if got := Lookup(AmericanFootball).Name; got != "American Football" {
		t.Fatalf("unexpected catalog name: %q", got)
	}
	if len(Catalog()) != len(All()) {
		t.Fatalf("catalog must cover every sport")
	}
}
