// Package sink renders a computed chart into output formats.
//
// [RenderSVG] produces the 800x480 wheel-and-legend scene: the zodiac wheel
// on the left with body markers and degree labels placed by [layout], and a
// legend panel on the right listing each body's sign, position, retrograde
// state and house. The palette is restricted to black, white and one gray so
// the scene survives 2-bit grayscale quantization for e-ink panels.
//
// Basic usage:
//
//	svg, err := sink.RenderSVG(positions, bodies,
//	    sink.WithLocation("Brooklyn"),
//	    sink.WithTimestamp(now),
//	)
//
// [layout]: github.com/arice/trmnl-astro/pkg/chart/layout
package sink
