package chart

import (
	"fmt"
	"math"
)

// MoonPhaseIndex computes the moon phase (0-7, new moon first) from the
// Moon's elongation from the Sun. The elongation is shifted 12 degrees early
// so the displayed phase better matches human perception of the sky.
// Returns ok=false when either body is missing from the positions.
func MoonPhaseIndex(positions Positions) (int, bool) {
	sun, okSun := positions[BodySun]
	moon, okMoon := positions[BodyMoon]
	if !okSun || !okMoon {
		return 0, false
	}
	elongation := math.Mod(moon.Lon-sun.Lon+360, 360)
	return int((elongation+12)/45) % 8, true
}

// HouseNumber computes the whole-sign house (1-12) for a body, given its
// sign and the ascendant's sign. In whole-sign houses the ascendant's entire
// sign is the first house.
func HouseNumber(bodySign, ascSign int) int {
	return ((bodySign-ascSign)%12+12)%12 + 1
}

// Ordinal returns the English ordinal string for n (1st, 2nd, 3rd, 4th, ...).
func Ordinal(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}
