// Package chart defines the astrological domain model: celestial bodies,
// zodiac signs, glyph tables, and the derived quantities (moon phase,
// whole-sign houses) shown on the rendered chart.
package chart

import "math"

// Well-known body identifiers, as returned by the position API.
const (
	BodySun         = "sun"
	BodyMoon        = "moon"
	BodyAscendant   = "ascendant"
	BodyMediumCoeli = "medium_coeli"
)

// DefaultBodies is the standard set of bodies displayed on the chart,
// in legend order.
var DefaultBodies = []string{
	"sun", "moon", "mercury", "venus", "mars", "jupiter",
	"saturn", "uranus", "neptune", "pluto",
	"mean_north_lunar_node", "mean_south_lunar_node",
	"ascendant", "medium_coeli",
}

// BodyGlyphs maps body identifiers to their astrological glyphs.
// The two chart axes use text labels instead of glyphs.
var BodyGlyphs = map[string]string{
	"sun":                   "☉", // ☉
	"moon":                  "☽", // ☽
	"mercury":               "☿", // ☿
	"venus":                 "♀", // ♀
	"mars":                  "♂", // ♂
	"jupiter":               "♃", // ♃
	"saturn":                "♄", // ♄
	"uranus":                "♅", // ♅
	"neptune":               "♆", // ♆
	"pluto":                 "♇", // ♇
	"mean_north_lunar_node": "☊", // ☊
	"mean_south_lunar_node": "☋", // ☋
	"ascendant":             "ASC",
	"medium_coeli":          "MC",
}

// SignGlyphs holds the twelve zodiac sign glyphs, Aries first.
var SignGlyphs = [12]string{
	"♈", // ♈ Aries
	"♉", // ♉ Taurus
	"♊", // ♊ Gemini
	"♋", // ♋ Cancer
	"♌", // ♌ Leo
	"♍", // ♍ Virgo
	"♎", // ♎ Libra
	"♏", // ♏ Scorpio
	"♐", // ♐ Sagittarius
	"♑", // ♑ Capricorn
	"♒", // ♒ Aquarius
	"♓", // ♓ Pisces
}

// MoonPhaseGlyphs holds the eight moon phase symbols, new moon first.
var MoonPhaseGlyphs = [8]string{
	"\U0001F311", // 🌑 New Moon
	"\U0001F312", // 🌒 Waxing Crescent
	"\U0001F313", // 🌓 First Quarter
	"\U0001F314", // 🌔 Waxing Gibbous
	"\U0001F315", // 🌕 Full Moon
	"\U0001F316", // 🌖 Waning Gibbous
	"\U0001F317", // 🌗 Last Quarter
	"\U0001F318", // 🌘 Waning Crescent
}

// RetrogradeGlyph marks retrograde motion in the legend. A plain "R" renders
// reliably across the fonts available to the rasterizer, unlike U+211E.
const RetrogradeGlyph = "R"

// DarkGray is the secondary stroke color. It maps onto one of the four
// quantized gray levels of the 2-bit e-ink display.
const DarkGray = "#555555"

// IsAxis reports whether name identifies a chart axis (ascendant or MC)
// rather than an orbiting body. Axes get ticks on the outer ring instead of
// glyph markers inside the wheel, and never receive house numbers.
func IsAxis(name string) bool {
	return name == BodyAscendant || name == BodyMediumCoeli
}

// Position is the resolved position of one celestial body.
type Position struct {
	Lon        float64 `json:"lon"`  // absolute ecliptic longitude, [0,360)
	Sign       int     `json:"sign"` // zodiac sign index, 0-11
	Deg        int     `json:"deg"`  // whole degrees within the sign, 0-29
	Min        int     `json:"min"`  // arc minutes, 0-59
	Retrograde bool    `json:"retrograde,omitempty"`
}

// Positions maps body identifiers to their resolved positions.
type Positions map[string]Position

// SignIndex derives the zodiac sign index (0-11) from an absolute ecliptic
// longitude in [0,360). Each sign spans exactly 30 degrees.
func SignIndex(lon float64) int {
	return int(math.Floor(lon/30)) % 12
}
