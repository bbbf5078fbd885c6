// Package gcode renders toolpath plans as controller programs: a
// dialect-agnostic base walks a ToolpathPlan's motion commands into G-code line strings,
// specialised per controller by a Profile.
package gcode

// Profile is a post-processor configuration for a specific CNC controller
// dialect.
type Profile struct {
	Name        string
	Description string
	Units       string

	StartCode    []string
	SpindleStart string // printf-style, takes spindle speed
	SpindleStop  string
	HomeAll      string
	HomeXY       string

	AbsoluteMode string
	FeedMode     string
	RapidMove    string
	FeedMove     string

	EndCode []string

	CommentPrefix string
	CommentSuffix string

	DecimalPlaces int
	LeadingZeros  bool

	// ArcFormatR selects R-form arcs (radius) over IJ-form (centre offset).
	ArcFormatR bool

	// SupportsCannedCycles: when false, the calculator's expanded
	// PLUNGE/RETRACT/DWELL peck sequence is emitted as discrete lines;
	// when true a dialect may coalesce a recognised
	// peck-loop run back into a single G83-style line.
	SupportsCannedCycles bool

	MaxFeedRate     float64
	MaxSpindleSpeed float64
}

// Profiles lists the built-in dialects. None currently support canned
// cycles: every one of these controllers is driven with fully expanded
// motion.
var Profiles = []Profile{
	{
		Name:            "Grbl",
		Description:     "Standard Grbl configuration (Arduino CNC shields)",
		Units:           "mm",
		StartCode:       []string{"G90", "G21", "G17"},
		SpindleStart:    "M3 S%.0f",
		SpindleStop:     "M5",
		HomeAll:         "$H",
		HomeXY:          "$H",
		AbsoluteMode:    "G90",
		FeedMode:        "G94",
		RapidMove:       "G0",
		FeedMove:        "G1",
		EndCode:         []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M5", "M2"},
		CommentPrefix:   ";",
		DecimalPlaces:   3,
		MaxFeedRate:     10000,
		MaxSpindleSpeed: 30000,
	},
	{
		Name:            "Mach3",
		Description:     "Mach3 CNC control software",
		Units:           "mm",
		StartCode:       []string{"G90", "G21", "G17", "G94"},
		SpindleStart:    "M3 S%.0f",
		SpindleStop:     "M5",
		HomeAll:         "G28 X0 Y0 Z0",
		HomeXY:          "G28 X0 Y0",
		AbsoluteMode:    "G90",
		FeedMode:        "G94",
		RapidMove:       "G0",
		FeedMove:        "G1",
		EndCode:         []string{"G0 Z[SafeZ]", "G28 X0 Y0", "M5", "M30"},
		CommentPrefix:   ";",
		DecimalPlaces:   4,
		MaxFeedRate:     15000,
		MaxSpindleSpeed: 24000,
	},
	{
		Name:            "LinuxCNC",
		Description:     "LinuxCNC (formerly EMC2)",
		Units:           "mm",
		StartCode:       []string{"G90", "G21", "G17", "G94"},
		SpindleStart:    "M3 S%.0f",
		SpindleStop:     "M5",
		HomeAll:         "G28 X0 Y0 Z0",
		HomeXY:          "G28 X0 Y0",
		AbsoluteMode:    "G90",
		FeedMode:        "G94",
		RapidMove:       "G0",
		FeedMove:        "G1",
		EndCode:         []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M5", "M2"},
		CommentPrefix:   ";",
		DecimalPlaces:   4,
		ArcFormatR:      true,
		MaxFeedRate:     12000,
		MaxSpindleSpeed: 24000,
	},
	{
		Name:          "Generic",
		Description:   "Generic standard GCode",
		Units:         "mm",
		StartCode:     []string{"G90", "G21"},
		SpindleStart:  "M3 S%.0f",
		SpindleStop:   "M5",
		HomeAll:       "G28 X0 Y0 Z0",
		HomeXY:        "G28 X0 Y0",
		AbsoluteMode:  "G90",
		FeedMode:      "G94",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M5", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
}

// GetProfile returns the named dialect profile, or Generic if not found.
func GetProfile(name string) Profile {
	for _, p := range Profiles {
		if p.Name == name {
			return p
		}
	}
	return Profiles[len(Profiles)-1]
}

// ProfileNames lists all built-in dialect names.
func ProfileNames() []string {
	names := make([]string, len(Profiles))
	for i, p := range Profiles {
		names[i] = p.Name
	}
	return names
}
