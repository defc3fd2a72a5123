package sport

import "fmt"

// Info is the SEO metadata rendered on sport pages.
type Info struct {
	Key         Key
	Name        string
	Icon        string
	Tagline     string
	Description string
	Keywords    string
	Image       string
}

var catalog = map[Key]Info{
	Football: {
		Name:        "Football",
		Icon:        "⚽",
		Tagline:     "Premier League, Champions League",
		Description: "Watch football live streams online free. Premier League, Champions League, La Liga, Serie A, Bundesliga matches.",
		Keywords:    "football live stream, soccer streaming, premier league live, champions league stream, football matches online",
		Image:       "/images/football-og.jpg",
	},
	Basketball: {
		Name:        "Basketball",
		Icon:        "🏀",
		Tagline:     "NBA, EuroLeague",
		Description: "Watch basketball live streams online free. NBA games, college basketball, international basketball matches.",
		Keywords:    "basketball live stream, NBA streaming, basketball games live, NBA live stream free",
		Image:       "/images/basketball-og.jpg",
	},
	Tennis: {
		Name:        "Tennis",
		Icon:        "🎾",
		Tagline:     "Grand Slams, ATP, WTA",
		Description: "Watch tennis live streams online free. Grand Slam tournaments, ATP, WTA matches, Wimbledon, US Open.",
		Keywords:    "tennis live stream, tennis streaming, grand slam live, Wimbledon live stream",
		Image:       "/images/tennis-og.jpg",
	},
	UFC: {
		Name:        "UFC",
		Icon:        "🥊",
		Tagline:     "Fights, Championships",
		Description: "Watch UFC live streams online free. MMA fights, UFC events, boxing matches, combat sports.",
		Keywords:    "UFC live stream, MMA streaming, UFC fights live, MMA fights free",
		Image:       "/images/ufc-og.jpg",
	},
	Rugby: {
		Name:        "Rugby",
		Icon:        "🏉",
		Tagline:     "Six Nations, World Cup",
		Description: "Watch rugby live streams online free. Six Nations, Rugby World Cup, Premiership, international rugby.",
		Keywords:    "rugby live stream, rugby streaming, six nations live, rugby world cup stream",
		Image:       "/images/rugby-og.jpg",
	},
	Baseball: {
		Name:        "Baseball",
		Icon:        "⚾",
		Tagline:     "MLB, World Series",
		Description: "Watch baseball live streams online free. MLB games, World Series, baseball matches, baseball streaming.",
		Keywords:    "baseball live stream, MLB streaming, baseball games live, MLB live stream free",
		Image:       "/images/baseball-og.jpg",
	},
	AmericanFootball: {
		Name:        "American Football",
		Icon:        "🏈",
		Tagline:     "NFL, Super Bowl",
		Description: "Watch American Football live streams online free. NFL games, Super Bowl, college football, NFL streaming.",
		Keywords:    "NFL live stream, American football streaming, NFL games live, Super Bowl live stream, college football live",
		Image:       "/images/americanfootball-og.jpg",
	},
	Cricket: {
		Name:        "Cricket",
		Icon:        "🏏",
		Tagline:     "IPL, World Cup",
		Description: "Watch cricket live streams online free. IPL, World Cup, Test matches, ODI, T20 cricket matches.",
		Keywords:    "cricket live stream, cricket streaming, IPL live stream, cricket world cup, test match live, ODI cricket",
		Image:       "/images/cricket-og.jpg",
	},
	MotorSports: {
		Name:        "Motor Sports",
		Icon:        "🏁",
		Tagline:     "F1, MotoGP, NASCAR",
		Description: "Watch motor sports live streams online free. Formula 1, MotoGP, NASCAR, IndyCar, Rally racing live streams.",
		Keywords:    "motor sports live stream, F1 live stream, MotoGP live stream, NASCAR live stream, Formula 1 streaming, racing live",
		Image:       "/images/motorsports-og.jpg",
	},
	Hockey: {
		Name:        "Hockey",
		Icon:        "🏒",
		Tagline:     "NHL, Stanley Cup",
		Description: "Watch hockey live streams online free. NHL games, Stanley Cup, college hockey, international hockey matches.",
		Keywords:    "hockey live stream, NHL streaming, hockey games live, NHL live stream free, Stanley Cup live, college hockey",
		Image:       "/images/hockey-og.jpg",
	},
}

// Lookup returns the catalog entry for key. Unknown keys get a generated
// entry so callers never render blank metadata.
func Lookup(key Key) Info {
	if info, ok := catalog[key]; ok {
		info.Key = key
		return info
	}
	return Info{
		Key:         key,
		Name:        key.Title(),
		Description: fmt.Sprintf("Watch %s live streams online free.", key),
		Keywords:    fmt.Sprintf("%s live stream, %s streaming", key, key),
	}
}

// Catalog returns every supported sport's entry in declaration order.
func Catalog() []Info {
	out := make([]Info, 0, len(ordered))
	for _, key := range ordered {
		out = append(out, Lookup(key))
	}
	return out
}
