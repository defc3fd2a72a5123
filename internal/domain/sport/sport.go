package sport

import "strings"

// Key identifies one upstream sport feed.
type Key string

const (
	Football         Key = "football"
	Basketball       Key = "basketball"
	Tennis           Key = "tennis"
	UFC              Key = "ufc"
	Rugby            Key = "rugby"
	Baseball         Key = "baseball"
	AmericanFootball Key = "american-football"
	Cricket          Key = "cricket"
	MotorSports      Key = "motor-sports"
	Hockey           Key = "hockey"
)

// ordered is the single source of the supported sport set. Slug resolution
// scans feeds in this order, so it must not be sorted.
var ordered = [...]Key{
	Football,
	Basketball,
	Tennis,
	UFC,
	Rugby,
	Baseball,
	AmericanFootball,
	Cricket,
	MotorSports,
	Hockey,
}

// All returns the supported sports in declaration order.
func All() []Key {
	out := make([]Key, len(ordered))
	copy(out[:], ordered[:])
	return out
}

// Parse reports whether raw names a supported sport.
func Parse(raw string) (Key, bool) {
	candidate := Key(strings.ToLower(strings.TrimSpace(raw)))
	for _, key := range ordered {
		if key == candidate {
			return key, true
		}
	}
	return "", false
}

func (k Key) String() string {
	return string(k)
}

// HasChannelEntries reports whether the feed carries id-addressed broadcast
// entries (races, TV simulcasts) that are never matched by derived slug.
func (k Key) HasChannelEntries() bool {
	return k == MotorSports || k == AmericanFootball
}

// Title capitalises the first letter of the key, e.g. "american-football"
// becomes "American-football".
func (k Key) Title() string {
	if k == "" {
		return ""
	}
	s := string(k)
	return strings.ToUpper(s[:1]) + s[1:]
}
