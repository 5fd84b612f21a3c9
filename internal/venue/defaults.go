package venue

// defaultConfig is the compiled-in stadium layout used when no config file
// is given. Coordinates live on a flat 100×100 plane standing in for GPS.
//
// The bowl is drawn as a C-shaped octagon whose notch carries the field and
// the west access tunnel, so the priority walk (bowl first) never shadows
// either. Region declaration order is the lookup priority order.
func defaultConfig() Config {
	return Config{
		Bounds:    RectSpec{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100},
		Exclusion: RectSpec{Name: "field", MinX: 32, MinY: 38, MaxX: 68, MaxY: 62},
		Regions: []RegionSpec{
			{
				ID: "bowl", Name: "Seating Bowl", Kind: "public",
				Vertices: [][2]float64{
					{10, 15}, {90, 15}, {90, 85}, {10, 85},
					{10, 62}, {68, 62}, {68, 38}, {10, 38},
				},
			},
			{
				ID: "field", Name: "Playing Field", Kind: "critical",
				Vertices: [][2]float64{{32, 38}, {68, 38}, {68, 62}, {32, 62}},
			},
			{
				ID: "vip-north", Name: "VIP Boxes North", Kind: "vip",
				Vertices: [][2]float64{{35, 8}, {65, 8}, {65, 15}, {35, 15}},
			},
			{
				ID: "vip-south", Name: "VIP Boxes South", Kind: "vip",
				Vertices: [][2]float64{{35, 85}, {65, 85}, {65, 92}, {35, 92}},
			},
			{
				ID: "tunnel", Name: "West Service Tunnel", Kind: "restricted",
				Vertices: [][2]float64{{10, 38}, {32, 38}, {32, 62}, {10, 62}},
			},
			{
				ID: "concourse-east", Name: "East Concourse", Kind: "concourse",
				Vertices: [][2]float64{{90, 10}, {100, 10}, {100, 90}, {90, 90}},
			},
			{
				ID: "concourse-west", Name: "West Concourse", Kind: "concourse",
				Vertices: [][2]float64{{0, 10}, {10, 10}, {10, 90}, {0, 90}},
			},
		},
		Seating: []RectSpec{
			{Name: "north-stand", MinX: 15, MinY: 18, MaxX: 85, MaxY: 36},
			{Name: "south-stand", MinX: 15, MinY: 64, MaxX: 85, MaxY: 82},
			{Name: "east-stand", MinX: 70, MinY: 40, MaxX: 88, MaxY: 60},
		},
		Items: []ItemSpec{
			{Label: "Beer", Alcohol: true},
			{Label: "Craft IPA", Alcohol: true},
			{Label: "Soda"},
			{Label: "Hot Dog"},
			{Label: "Nachos"},
			{Label: "Pretzel"},
			{Label: "Foam Finger", Souvenir: true},
			{Label: "Team Scarf", Souvenir: true},
			{Label: "Cap", Souvenir: true},
			{Label: "Match Program", Souvenir: true},
		},
		Phases: []PhaseSpec{
			{Name: "PRE_GAME", DurationTicks: 90, Density: 0.45},
			{Name: "KICKOFF", DurationTicks: 30, Density: 0.85},
			{Name: "Q1", DurationTicks: 120, Density: 0.75},
			{Name: "Q2", DurationTicks: 120, Density: 0.75},
			{Name: "HALFTIME", DurationTicks: 90, Density: 0.95},
			{Name: "Q3", DurationTicks: 120, Density: 0.75},
			{Name: "Q4", DurationTicks: 120, Density: 0.80},
			{Name: "POST_GAME", DurationTicks: 90, Density: 0.60},
		},
	}
}
