package layout

import (
	"math"
	"testing"
)

const tol = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tol
}

func TestRotationAnchorsAscendant(t *testing.T) {
	// For any ascendant, rotating by reference-ascendant must land the
	// ascendant exactly on the reference angle.
	for _, asc := range []float64{0, 0.35, 45, 180, 245.0, 359.999} {
		f := NewFrame(asc)
		got := f.Rotate(asc)
		if !almostEqual(got, DefaultReference) {
			t.Errorf("asc %g: Rotate(asc) = %g, want %g", asc, got, DefaultReference)
		}
	}
}

func TestRotateConcreteScenario(t *testing.T) {
	// Ascendant 245.0 with reference 180 gives rotation -65;
	// the Sun at 319.5 rotates to 254.5.
	f := NewFrame(245.0)
	if !almostEqual(f.Rotation(), -65) {
		t.Fatalf("Rotation = %g, want -65", f.Rotation())
	}
	if got := f.Rotate(319.5); !almostEqual(got, 254.5) {
		t.Errorf("Rotate(319.5) = %g, want 254.5", got)
	}
}

func TestRotatePreservesRelativeOrder(t *testing.T) {
	f := NewFrame(245.0)
	lons := []float64{10, 57.5, 136.6, 216.1, 303.9, 355.1}

	// Relative gaps between consecutive bodies must survive rotation.
	for i := 1; i < len(lons); i++ {
		before := normalize(lons[i] - lons[i-1])
		after := normalize(f.Rotate(lons[i]) - f.Rotate(lons[i-1]))
		if !almostEqual(before, after) {
			t.Errorf("gap %g..%g: before %g, after %g", lons[i-1], lons[i], before, after)
		}
	}
}

func TestRotateNormalizesWrap(t *testing.T) {
	f := NewFrame(245.0) // rotation -65
	got := f.Rotate(30)  // -35 -> 325
	if !almostEqual(got, 325) {
		t.Errorf("Rotate(30) = %g, want 325", got)
	}
	for _, lon := range []float64{0, 64.999, 65, 359.9} {
		r := f.Rotate(lon)
		if r < 0 || r >= 360 {
			t.Errorf("Rotate(%g) = %g, outside [0,360)", lon, r)
		}
	}
}

func TestPointHandedness(t *testing.T) {
	// Screen angle 0 points right; pi/2 points up (negative y in SVG).
	x, y := Point(220, 240, 100, 0)
	if !almostEqual(x, 320) || !almostEqual(y, 240) {
		t.Errorf("Point(0) = (%g,%g), want (320,240)", x, y)
	}
	x, y = Point(220, 240, 100, math.Pi/2)
	if !almostEqual(x, 220) || !almostEqual(y, 140) {
		t.Errorf("Point(pi/2) = (%g,%g), want (220,140)", x, y)
	}
	x, y = Point(220, 240, 100, math.Pi)
	if !almostEqual(x, 120) || !almostEqual(y, 240) {
		t.Errorf("Point(pi) = (%g,%g), want (120,240)", x, y)
	}
}

func TestAngularGap(t *testing.T) {
	if got := angularGap(0.1, 0.3); !almostEqual(got, 0.2) {
		t.Errorf("angularGap(0.1,0.3) = %g, want 0.2", got)
	}
	// Short way around: 359 deg vs 1 deg is 2 degrees apart.
	a := 359 * math.Pi / 180
	b := 1 * math.Pi / 180
	if got := angularGap(a, b); !almostEqual(got, 2*math.Pi/180) {
		t.Errorf("angularGap across wrap = %g, want %g", got, 2*math.Pi/180)
	}
}

func TestFrameValidate(t *testing.T) {
	if err := NewFrame(360).Validate(); err == nil {
		t.Error("ascendant 360 should be rejected")
	}
	if err := NewFrame(-1).Validate(); err == nil {
		t.Error("negative ascendant should be rejected")
	}
	f := NewFrame(245)
	f.MediumCoeli = 400
	f.HasMC = true
	if err := f.Validate(); err == nil {
		t.Error("out-of-range MC should be rejected")
	}
}
