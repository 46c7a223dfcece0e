package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/arice/trmnl-astro/pkg/chart"
	"github.com/arice/trmnl-astro/pkg/chart/layout"
)

// Canvas dimensions match the TRMNL e-ink panel.
const (
	CanvasWidth  = 800
	CanvasHeight = 480
)

// Wheel geometry. The wheel occupies the left half of the canvas; the legend
// panel starts at legendX.
const (
	wheelCX     = 220.0
	wheelCY     = 240.0
	outerRadius = 175.0
	innerRadius = 150.0
	signGlyphR  = 163.0
	tickOuter   = innerRadius
	tickInner   = innerRadius - 9

	legendX      = 470.0
	legendYStart = 25.0
	lineHeight   = 30.0
)

const (
	symbolFont = "Noto Sans Symbols 2, DejaVu Sans, sans-serif"
	textFont   = "DejaVu Sans, Arial, sans-serif"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	location   string
	timestamp  time.Time
	retrograde bool
	moonPhase  bool
	houses     bool
	showFooter bool
}

// WithLocation sets the location name shown in the footer.
func WithLocation(name string) SVGOption { return func(r *svgRenderer) { r.location = name } }

// WithTimestamp sets the footer timestamp. The time is rendered as given;
// pass it already converted to the display timezone.
func WithTimestamp(t time.Time) SVGOption {
	return func(r *svgRenderer) { r.timestamp = t; r.showFooter = true }
}

// WithoutRetrograde suppresses the retrograde marker in the legend.
func WithoutRetrograde() SVGOption { return func(r *svgRenderer) { r.retrograde = false } }

// WithoutMoonPhase suppresses the moon phase glyph in the legend header.
func WithoutMoonPhase() SVGOption { return func(r *svgRenderer) { r.moonPhase = false } }

// WithoutHouses suppresses the house ordinal column in the legend.
func WithoutHouses() SVGOption { return func(r *svgRenderer) { r.houses = false } }

// RenderSVG produces the full chart scene as SVG bytes. Bodies are drawn in
// the order given; bodies absent from positions are skipped. The wheel is
// rotated so the ascendant sits at 9 o'clock; a missing ascendant leaves the
// wheel unrotated with Aries at 9 o'clock.
func RenderSVG(positions chart.Positions, bodies []string, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{retrograde: true, moonPhase: true, houses: true}
	for _, opt := range opts {
		opt(&r)
	}

	asc, hasAsc := positions[chart.BodyAscendant]
	frame := layout.NewFrame(asc.Lon)
	if mc, ok := positions[chart.BodyMediumCoeli]; ok {
		frame.MediumCoeli = mc.Lon
		frame.HasMC = true
	}

	wheelBodies := make([]layout.Marker, 0, len(bodies))
	for _, body := range bodies {
		pos, ok := positions[body]
		if ok && !chart.IsAxis(body) {
			wheelBodies = append(wheelBodies, layout.Marker{Body: body, Lon: pos.Lon})
		}
	}

	markers, err := layout.PlaceMarkers(frame, wheelBodies)
	if err != nil {
		return nil, err
	}
	bounds := layout.Bounds{Width: CanvasWidth, Height: CanvasHeight, CX: wheelCX, CY: wheelCY}
	degrees, err := layout.PlaceDegreeLabels(frame, wheelBodies, bounds)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		CanvasWidth, CanvasHeight, CanvasWidth, CanvasHeight)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%d" height="%d" fill="white"/>`+"\n",
		CanvasWidth, CanvasHeight)

	renderWheel(&buf, frame)
	renderTicks(&buf, markers)
	renderDegreeLabels(&buf, positions, degrees)
	renderMarkers(&buf, markers)
	if hasAsc {
		renderAxis(&buf, "ASC", math.Pi, asc.Deg)
	}
	if frame.HasMC {
		mc := positions[chart.BodyMediumCoeli]
		renderAxis(&buf, "MC", frame.ScreenAngle(mc.Lon), mc.Deg)
	}
	renderLegend(&buf, &r, positions, bodies)
	if r.showFooter {
		renderFooter(&buf, r.location, r.timestamp)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// renderWheel draws the two ring circles, the twelve sign spokes and the
// sign glyphs at mid-sign. Spokes rotate with the frame so each wedge stays
// aligned with its sign.
func renderWheel(buf *bytes.Buffer, frame layout.Frame) {
	circle(buf, outerRadius)
	circle(buf, innerRadius)

	for i := range 12 {
		angle := frame.ScreenAngle(float64(i) * 30)
		x, y := layout.Point(wheelCX, wheelCY, outerRadius, angle)
		line(buf, wheelCX, wheelCY, x, y, "black", 1)

		mid := frame.ScreenAngle(float64(i)*30 + 15)
		gx, gy := layout.Point(wheelCX, wheelCY, signGlyphR, mid)
		text(buf, chart.SignGlyphs[i], gx, gy+6, textAttrs{size: 18, font: symbolFont, anchor: "middle"})
	}
}

// renderTicks draws a short radial tick on the inner ring for each placed
// body.
func renderTicks(buf *bytes.Buffer, markers []layout.Placed) {
	for _, m := range markers {
		x1, y1 := layout.Point(wheelCX, wheelCY, tickInner, m.Angle)
		x2, y2 := layout.Point(wheelCX, wheelCY, tickOuter, m.Angle)
		line(buf, x1, y1, x2, y2, chart.DarkGray, 2)
	}
}

func renderDegreeLabels(buf *bytes.Buffer, positions chart.Positions, degrees []layout.Placed) {
	for _, d := range degrees {
		x, y := layout.Point(wheelCX, wheelCY, d.Radius, d.Angle)
		label := fmt.Sprintf("%d°", positions[d.Body].Deg)
		text(buf, label, x, y+4, textAttrs{size: 12, font: textFont, anchor: "middle"})
	}
}

func renderMarkers(buf *bytes.Buffer, markers []layout.Placed) {
	for _, m := range markers {
		x, y := layout.Point(wheelCX, wheelCY, m.Radius, m.Angle)
		text(buf, chart.BodyGlyphs[m.Body], x, y+6,
			textAttrs{size: 20, font: symbolFont, anchor: "middle", bold: true})
	}
}

// renderAxis draws an axis tick crossing the outer ring with its label and
// degree beneath.
func renderAxis(buf *bytes.Buffer, label string, angle float64, deg int) {
	x1, y1 := layout.Point(wheelCX, wheelCY, outerRadius, angle)
	x2, y2 := layout.Point(wheelCX, wheelCY, outerRadius+10, angle)
	line(buf, x1, y1, x2, y2, "black", 2)

	lx, ly := layout.Point(wheelCX, wheelCY, layout.DegreeRadius+8, angle)
	text(buf, label, lx, ly+4, textAttrs{size: 11, font: textFont, anchor: "middle", bold: true})
	text(buf, fmt.Sprintf("%d°", deg), lx, ly+16, textAttrs{size: 11, font: textFont, anchor: "middle"})
}

func renderLegend(buf *bytes.Buffer, r *svgRenderer, positions chart.Positions, bodies []string) {
	header := "Planetary Positions"
	if r.moonPhase {
		if idx, ok := chart.MoonPhaseIndex(positions); ok {
			header = chart.MoonPhaseGlyphs[idx] + " " + header
		}
	}
	text(buf, header, legendX+130, legendYStart,
		textAttrs{size: 18, font: symbolFont, anchor: "middle", bold: true})
	line(buf, legendX, legendYStart+10, legendX+260, legendYStart+10, "black", 1)

	ascSign := positions[chart.BodyAscendant].Sign

	y := legendYStart + 40
	for _, body := range bodies {
		pos, ok := positions[body]
		if !ok {
			continue
		}

		text(buf, chart.BodyGlyphs[body], legendX+10, y,
			textAttrs{size: 20, font: symbolFont, bold: true})
		text(buf, chart.SignGlyphs[pos.Sign], legendX+60, y,
			textAttrs{size: 20, font: symbolFont})
		text(buf, fmt.Sprintf("%02d°%02d'", pos.Deg, pos.Min), legendX+100, y,
			textAttrs{size: 18, font: symbolFont})

		if r.retrograde && pos.Retrograde {
			text(buf, chart.RetrogradeGlyph, legendX+168, y,
				textAttrs{size: 14, font: textFont, bold: true})
		}
		if r.houses && !chart.IsAxis(body) {
			house := chart.HouseNumber(pos.Sign, ascSign)
			text(buf, chart.Ordinal(house), legendX+195, y,
				textAttrs{size: 16, font: textFont})
		}

		y += lineHeight
	}
}

func renderFooter(buf *bytes.Buffer, location string, t time.Time) {
	stamp := t.Format("January 02 2006") + " " + strings.ToLower(t.Format("3:04 PM"))
	label := stamp
	if location != "" {
		label = location + " | " + stamp
	}
	text(buf, label, legendX+130, 460,
		textAttrs{size: 14, font: symbolFont, anchor: "middle", fill: chart.DarkGray})
}

type textAttrs struct {
	size   int
	font   string
	anchor string
	fill   string
	bold   bool
}

func text(buf *bytes.Buffer, s string, x, y float64, a textAttrs) {
	fill := a.fill
	if fill == "" {
		fill = "black"
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%dpx" font-family="%s" fill="%s"`,
		x, y, a.size, a.font, fill)
	if a.anchor != "" {
		fmt.Fprintf(buf, ` text-anchor="%s"`, a.anchor)
	}
	if a.bold {
		buf.WriteString(` font-weight="bold"`)
	}
	fmt.Fprintf(buf, ">%s</text>\n", escape(s))
}

func line(buf *bytes.Buffer, x1, y1, x2, y2 float64, stroke string, width int) {
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%d"/>`+"\n",
		x1, y1, x2, y2, stroke, width)
}

func circle(buf *bytes.Buffer, r float64) {
	fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" stroke="black" stroke-width="2" fill="none"/>`+"\n",
		wheelCX, wheelCY, r)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string { return escaper.Replace(s) }
