package chart

import "testing"

func TestMoonPhaseIndex(t *testing.T) {
	tests := []struct {
		name    string
		sunLon  float64
		moonLon float64
		want    int
	}{
		{"new moon", 100, 100, 0},
		{"waxing crescent", 100, 160, 1},
		{"full moon", 100, 280, 4},
		{"last quarter", 100, 10, 6}, // elongation 270
		{"wraps around zero", 350, 10, 0},
		{"shift pushes phase early", 0, 34, 1}, // 34 + 12 = 46 -> phase 1
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Positions{
				BodySun:  {Lon: tt.sunLon},
				BodyMoon: {Lon: tt.moonLon},
			}
			got, ok := MoonPhaseIndex(p)
			if !ok {
				t.Fatal("MoonPhaseIndex ok = false")
			}
			if got != tt.want {
				t.Errorf("MoonPhaseIndex = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMoonPhaseIndexMissingBody(t *testing.T) {
	if _, ok := MoonPhaseIndex(Positions{BodySun: {Lon: 100}}); ok {
		t.Error("expected ok=false without moon")
	}
	if _, ok := MoonPhaseIndex(Positions{}); ok {
		t.Error("expected ok=false without both bodies")
	}
}

func TestHouseNumber(t *testing.T) {
	// Ascendant in Scorpio (8): Scorpio is the 1st house.
	if got := HouseNumber(8, 8); got != 1 {
		t.Errorf("HouseNumber(8,8) = %d, want 1", got)
	}
	// Aquarius (10) with Scorpio rising is the 4th house.
	if got := HouseNumber(10, 8); got != 4 {
		t.Errorf("HouseNumber(10,8) = %d, want 4", got)
	}
	// Wrap: Leo (4) with Scorpio rising is the 10th house.
	if got := HouseNumber(4, 8); got != 10 {
		t.Errorf("HouseNumber(4,8) = %d, want 10", got)
	}
}

func TestSignIndex(t *testing.T) {
	tests := []struct {
		lon  float64
		want int
	}{
		{0, 0},      // exact Aries boundary
		{29.999, 0}, // end of Aries
		{30, 1},     // Taurus cusp
		{319.5, 10}, // Aquarius
		{359.4, 11}, // late Pisces
		{0.35, 0},   // just past the wrap
		{245.0, 8},  // Sagittarius
	}
	for _, tt := range tests {
		if got := SignIndex(tt.lon); got != tt.want {
			t.Errorf("SignIndex(%g) = %d, want %d", tt.lon, got, tt.want)
		}
	}
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd",
	}
	for n, want := range cases {
		if got := Ordinal(n); got != want {
			t.Errorf("Ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestGlyphTablesComplete(t *testing.T) {
	for _, body := range DefaultBodies {
		if _, ok := BodyGlyphs[body]; !ok {
			t.Errorf("no glyph for body %q", body)
		}
	}
}
