package layout

import (
	"sort"

	"github.com/arice/trmnl-astro/pkg/errors"
)

// Marker ring geometry (pixels). Markers start at MarkerRadius and stack
// inward one ring at a time until MarkerFloor.
const (
	MarkerRadius = 125.0
	MarkerStep   = 22.0
	MarkerFloor  = MarkerRadius - 4*MarkerStep // 37
	markerBand   = 20.0
)

// Degree label ring geometry (pixels). Labels sit outside the wheel and
// prefer moving outward on collision, falling back inward near the frame
// edge so text is never clipped.
const (
	DegreeRadius    = 195.0
	DegreeRadiusMin = 180.0
	DegreeRadiusMax = 210.0
	DegreeStep      = 14.0
	degreeBand      = 12.0
)

// minArc is the arc length (pixels) below which two labels are considered
// overlapping. The angular threshold at radius r is minArc/r: a fixed pixel
// extent subtends a larger angle on a smaller ring, so inner rings demand
// more angular separation.
const minArc = 24.0

// Marker is a celestial body to be placed on the wheel.
type Marker struct {
	Body string
	Lon  float64 // absolute ecliptic longitude, [0,360)
}

// Placed is the final position of a marker or label.
type Placed struct {
	Body   string
	Angle  float64 // screen angle in radians, post-rotation
	Radius float64
	// Clamped reports that the radius floor was reached with overlap still
	// present. Residual overlap is accepted rather than looping further.
	Clamped bool
}

// minSeparation returns the collision threshold (radians) at radius r.
func minSeparation(r float64) float64 {
	return minArc / r
}

// collides reports whether a candidate at (angle, r) overlaps any already
// placed label within the same radial band.
func collides(placed []Placed, angle, r, band float64) bool {
	for _, p := range placed {
		if angularGap(angle, p.Angle) < minSeparation(r) && abs(r-p.Radius) < band {
			return true
		}
	}
	return false
}

// PlaceMarkers computes collision-free positions for body markers inside the
// wheel. Markers are processed in ecliptic-longitude order; when a marker
// would overlap one already placed, it moves inward one ring and is
// rechecked against everything placed so far. The radius floor bounds the
// search, so placement terminates for any input, including every marker at
// the same longitude.
//
// An empty marker slice is a degenerate success and yields an empty layout.
// Any longitude outside [0,360) is rejected.
func PlaceMarkers(f Frame, markers []Marker) ([]Placed, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	for _, m := range markers {
		if err := errors.ValidateLongitude(m.Lon); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLongitude, err, "body %q", m.Body)
		}
	}

	ordered := make([]Marker, len(markers))
	copy(ordered, markers)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Lon < ordered[j].Lon })

	placed := make([]Placed, 0, len(ordered))
	for _, m := range ordered {
		angle := f.ScreenAngle(m.Lon)

		r := MarkerRadius
		for collides(placed, angle, r, markerBand) && r-MarkerStep >= MarkerFloor {
			r -= MarkerStep
		}

		placed = append(placed, Placed{
			Body:    m.Body,
			Angle:   angle,
			Radius:  r,
			Clamped: collides(placed, angle, r, markerBand),
		})
	}
	return placed, nil
}

// Bounds is the drawable frame for degree labels, with the wheel center.
type Bounds struct {
	Width, Height float64
	CX, CY        float64
}

// clips reports whether a label at (angle, r) would land within the margin
// of the frame edge.
func (b Bounds) clips(angle, r float64) bool {
	const margin = 15.0
	x, y := Point(b.CX, b.CY, r, angle)
	return x < margin || x > b.Width-margin || y < margin || y > b.Height-margin
}

// PlaceDegreeLabels positions the per-body degree labels on the outer label
// ring. Collisions prefer pushing the later label outward; when the pushed
// position would clip the frame edge the label moves inward instead. Both
// directions are clamped, so the adjustment is bounded.
func PlaceDegreeLabels(f Frame, markers []Marker, b Bounds) ([]Placed, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	for _, m := range markers {
		if err := errors.ValidateLongitude(m.Lon); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLongitude, err, "body %q", m.Body)
		}
	}

	ordered := make([]Marker, len(markers))
	copy(ordered, markers)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Lon < ordered[j].Lon })

	placed := make([]Placed, 0, len(ordered))
	for _, m := range ordered {
		angle := f.ScreenAngle(m.Lon)

		r := DegreeRadius
		for _, p := range placed {
			if angularGap(angle, p.Angle) >= minSeparation(r) || abs(r-p.Radius) >= degreeBand {
				continue
			}
			if b.clips(angle, r+DegreeStep) {
				r = max(DegreeRadiusMin, r-DegreeStep)
			} else {
				r = min(DegreeRadiusMax, r+DegreeStep)
			}
		}

		placed = append(placed, Placed{Body: m.Body, Angle: angle, Radius: r})
	}
	return placed, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
