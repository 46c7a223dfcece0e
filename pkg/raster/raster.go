// Package raster converts rendered SVG into e-ink ready PNG bytes.
//
// Rasterization shells out to rsvg-convert (librsvg). Quantization then
// collapses the image to the four gray levels a 2-bit e-ink panel can show.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os/exec"

	"github.com/disintegration/imaging"
)

// GrayLevels are the four output levels of the 2-bit panel.
var GrayLevels = [4]uint8{0, 85, 170, 255}

// ToPNG rasterizes SVG bytes to a PNG of the given pixel dimensions using
// rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, width, height int) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("png export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}

	cmd := exec.Command("rsvg-convert", "-f", "png",
		"--width", fmt.Sprint(width), "--height", fmt.Sprint(height))
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}

// Quantize converts a PNG to grayscale and snaps every pixel to the nearest
// of the four panel levels. Each 64-value luminance band maps to one level,
// so anti-aliased edges collapse to clean gray steps instead of dithering
// noise.
func Quantize(data []byte) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}

	gray := imaging.Grayscale(src)
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.GrayModel.Convert(gray.At(x, y)).(color.Gray)
			out.SetGray(x, y, color.Gray{Y: snap(c.Y)})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func snap(v uint8) uint8 {
	band := int(v) / 64
	if band > 3 {
		band = 3
	}
	return GrayLevels[band]
}
