package layout

import (
	"math"
	"testing"

	"github.com/arice/trmnl-astro/pkg/errors"
)

// mockMarkers mirrors a real chart: 12 bodies, one near-conjunction pair.
func mockMarkers() []Marker {
	return []Marker{
		{"sun", 319.5},
		{"moon", 216.1},
		{"mercury", 332.4},
		{"venus", 327.3},
		{"mars", 312.5},
		{"jupiter", 136.6},
		{"saturn", 359.4},
		{"uranus", 57.5},
		{"neptune", 0.35},
		{"pluto", 303.9},
		{"mean_north_lunar_node", 355.1},
		{"mean_south_lunar_node", 175.1},
	}
}

func TestPlaceMarkersEmptyInput(t *testing.T) {
	placed, err := PlaceMarkers(NewFrame(245.0), nil)
	if err != nil {
		t.Fatalf("PlaceMarkers(nil) = %v, want empty layout", err)
	}
	if len(placed) != 0 {
		t.Errorf("len = %d, want 0", len(placed))
	}
}

func TestPlaceMarkersRejectsBadLongitude(t *testing.T) {
	_, err := PlaceMarkers(NewFrame(245.0), []Marker{{"sun", 360.0}})
	if err == nil {
		t.Fatal("longitude 360 should be rejected")
	}
	if !errors.Is(err, errors.ErrCodeInvalidLongitude) {
		t.Errorf("code = %q, want INVALID_LONGITUDE", errors.GetCode(err))
	}
}

func TestPlaceMarkersNoOverlap(t *testing.T) {
	placed, err := PlaceMarkers(NewFrame(245.0), mockMarkers())
	if err != nil {
		t.Fatalf("PlaceMarkers: %v", err)
	}
	if len(placed) != 12 {
		t.Fatalf("len = %d, want 12", len(placed))
	}

	for i := range placed {
		for j := i + 1; j < len(placed); j++ {
			a, b := placed[i], placed[j]
			if a.Clamped || b.Clamped {
				continue
			}
			if math.Abs(a.Radius-b.Radius) >= markerBand {
				continue
			}
			if angularGap(a.Angle, b.Angle) < minSeparation(a.Radius) {
				t.Errorf("%s and %s overlap: angles %g/%g radius %g/%g",
					a.Body, b.Body, a.Angle, b.Angle, a.Radius, b.Radius)
			}
		}
	}
}

func TestPlaceMarkersConjunctionSeparatesRings(t *testing.T) {
	// 0.2 degrees apart is far below the threshold at the default radius,
	// so the pair must land on two different rings.
	placed, err := PlaceMarkers(NewFrame(245.0), []Marker{
		{"moon", 216.1},
		{"pluto", 216.3},
	})
	if err != nil {
		t.Fatalf("PlaceMarkers: %v", err)
	}
	if placed[0].Radius == placed[1].Radius {
		t.Errorf("conjunction placed on same radius %g", placed[0].Radius)
	}
	if placed[0].Radius != MarkerRadius {
		t.Errorf("first marker radius = %g, want default %g", placed[0].Radius, MarkerRadius)
	}
	if placed[0].Clamped || placed[1].Clamped {
		t.Error("two-body conjunction should not hit the radius floor")
	}
}

func TestPlaceMarkersAllSameLongitudeTerminates(t *testing.T) {
	markers := make([]Marker, 14)
	for i := range markers {
		markers[i] = Marker{Body: "body", Lon: 123.4}
	}

	placed, err := PlaceMarkers(NewFrame(245.0), markers)
	if err != nil {
		t.Fatalf("PlaceMarkers: %v", err)
	}
	if len(placed) != 14 {
		t.Fatalf("len = %d, want 14", len(placed))
	}

	clamped := 0
	for _, p := range placed {
		if p.Radius < MarkerFloor {
			t.Errorf("radius %g below floor %g", p.Radius, MarkerFloor)
		}
		if p.Clamped {
			clamped++
		}
	}
	// Five distinct rings exist; the other nine accept residual overlap.
	if clamped != 9 {
		t.Errorf("clamped = %d, want 9", clamped)
	}
}

func TestPlaceMarkersOutputInLongitudeOrder(t *testing.T) {
	placed, err := PlaceMarkers(NewFrame(245.0), mockMarkers())
	if err != nil {
		t.Fatalf("PlaceMarkers: %v", err)
	}
	want := []string{
		"neptune", "uranus", "jupiter", "mean_south_lunar_node", "moon",
		"pluto", "mars", "sun", "venus", "mercury", "mean_north_lunar_node", "saturn",
	}
	for i, p := range placed {
		if p.Body != want[i] {
			t.Errorf("placed[%d] = %s, want %s", i, p.Body, want[i])
		}
	}
}

func TestPlaceMarkersDistantBodiesKeepDefaultRadius(t *testing.T) {
	placed, err := PlaceMarkers(NewFrame(245.0), []Marker{
		{"sun", 10},
		{"moon", 100},
		{"mars", 190},
		{"venus", 280},
	})
	if err != nil {
		t.Fatalf("PlaceMarkers: %v", err)
	}
	for _, p := range placed {
		if p.Radius != MarkerRadius {
			t.Errorf("%s radius = %g, want default %g", p.Body, p.Radius, MarkerRadius)
		}
	}
}

func defaultBounds() Bounds {
	return Bounds{Width: 800, Height: 480, CX: 220, CY: 240}
}

func TestPlaceDegreeLabelsSpreadOnCollision(t *testing.T) {
	placed, err := PlaceDegreeLabels(NewFrame(245.0), []Marker{
		{"moon", 216.1},
		{"pluto", 216.3},
	}, defaultBounds())
	if err != nil {
		t.Fatalf("PlaceDegreeLabels: %v", err)
	}
	if placed[0].Radius == placed[1].Radius {
		t.Errorf("colliding degree labels share radius %g", placed[0].Radius)
	}
	for _, p := range placed {
		if p.Radius < DegreeRadiusMin || p.Radius > DegreeRadiusMax {
			t.Errorf("%s radius %g outside [%g,%g]", p.Body, p.Radius, DegreeRadiusMin, DegreeRadiusMax)
		}
	}
}

func TestPlaceDegreeLabelsStayInsideFrame(t *testing.T) {
	// A cluster at the ascendant sits at the far left of the frame where
	// outward movement would clip; labels must fall back inward.
	markers := []Marker{
		{"a", 245.0},
		{"b", 245.1},
		{"c", 245.2},
	}
	placed, err := PlaceDegreeLabels(NewFrame(245.0), markers, defaultBounds())
	if err != nil {
		t.Fatalf("PlaceDegreeLabels: %v", err)
	}
	b := defaultBounds()
	for _, p := range placed {
		x, y := Point(b.CX, b.CY, p.Radius, p.Angle)
		if x < 0 || x > b.Width || y < 0 || y > b.Height {
			t.Errorf("%s at (%g,%g) outside frame", p.Body, x, y)
		}
	}
}

func TestPlaceDegreeLabelsEmptyInput(t *testing.T) {
	placed, err := PlaceDegreeLabels(NewFrame(245.0), nil, defaultBounds())
	if err != nil {
		t.Fatalf("PlaceDegreeLabels(nil) = %v", err)
	}
	if len(placed) != 0 {
		t.Errorf("len = %d, want 0", len(placed))
	}
}
