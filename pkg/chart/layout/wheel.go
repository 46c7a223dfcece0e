// Package layout computes wheel-chart geometry: the frame rotation that
// anchors the ascendant at a fixed screen position, the mapping from
// ecliptic longitudes to screen coordinates, and collision-free radial
// placement of body markers and degree labels.
//
// All functions are pure computation; the package performs no I/O. Inputs
// are validated (longitudes must lie in [0,360)) and placement is guaranteed
// to terminate: radii are clamped to a floor and residual overlap at the
// floor is accepted and flagged rather than resolved by further iteration.
package layout

import (
	"math"

	"github.com/arice/trmnl-astro/pkg/errors"
)

// DefaultReference is the screen angle (degrees) where the ascendant is
// anchored: 180 is the 9 o'clock position.
const DefaultReference = 180.0

// Frame fixes the rotational orientation of the wheel.
type Frame struct {
	// Ascendant is the ascendant's absolute ecliptic longitude, [0,360).
	Ascendant float64

	// MediumCoeli is the MC's absolute ecliptic longitude, [0,360).
	// Only meaningful when HasMC is true.
	MediumCoeli float64
	HasMC       bool

	// Reference is the screen angle (degrees) at which the ascendant is
	// drawn. Use NewFrame to get the standard 9 o'clock anchor.
	Reference float64
}

// NewFrame creates a Frame anchoring the given ascendant longitude at the
// default reference angle.
func NewFrame(ascendant float64) Frame {
	return Frame{Ascendant: ascendant, Reference: DefaultReference}
}

// Validate checks the frame's longitudes.
func (f Frame) Validate() error {
	if err := errors.ValidateLongitude(f.Ascendant); err != nil {
		return err
	}
	if f.HasMC {
		return errors.ValidateLongitude(f.MediumCoeli)
	}
	return nil
}

// Rotation returns the rotation in degrees that places the ascendant at the
// reference angle. The same rotation is applied to every longitude, so
// relative spacing between bodies is preserved.
func (f Frame) Rotation() float64 {
	return f.Reference - f.Ascendant
}

// Rotate applies the frame rotation to an absolute longitude and normalizes
// the result into [0,360).
func (f Frame) Rotate(lon float64) float64 {
	return normalize(lon + f.Rotation())
}

// ScreenAngle converts an absolute longitude to its screen angle in radians
// after applying the frame rotation.
func (f Frame) ScreenAngle(lon float64) float64 {
	return f.Rotate(lon) * math.Pi / 180
}

// Point maps a screen angle and radius to SVG coordinates around a center.
// Longitudes increase counter-clockwise; SVG y grows downward, hence the
// negated sine. Every element on the wheel (spokes, ticks, glyphs, labels)
// goes through this mapping so the handedness stays consistent.
func Point(cx, cy, r, angle float64) (x, y float64) {
	return cx + r*math.Cos(angle), cy - r*math.Sin(angle)
}

// normalize wraps a longitude into [0,360).
func normalize(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

// angularGap returns the separation between two screen angles (radians),
// measured the short way around the circle.
func angularGap(a, b float64) float64 {
	diff := math.Abs(a - b)
	if diff > math.Pi {
		diff = 2*math.Pi - diff
	}
	return diff
}
