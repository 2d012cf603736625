// Package colour provides dominant colour extraction and RGB/HSV conversion.
package colour

import (
	"fmt"
	"image/color"
	"math"
)

// RGB represents a colour in 8-bit RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBToColor converts an RGB value to a color.Color (RGBA).
func RGBToColor(rgb RGB) color.Color {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// HSV converts the colour to HSV colour space.
// Returns hue (0-360), saturation (0-1) and value (0-1).
// Achromatic input (all channels equal) yields h = 0; this is a degenerate
// but defined case. Black additionally yields s = 0.
func (rgb RGB) HSV() (h, s, v float64) {
	r := float64(rgb.R) / 255.0
	g := float64(rgb.G) / 255.0
	b := float64(rgb.B) / 255.0

	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	delta := maxVal - minVal

	v = maxVal
	if maxVal > 0 {
		s = delta / maxVal
	}

	if delta == 0 {
		// Achromatic.
		return 0, s, v
	}

	switch maxVal {
	case r:
		h = (g - b) / delta
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/delta + 2
	case b:
		h = (r-g)/delta + 4
	}

	h *= 60
	return h, s, v
}

// HSVToRGB converts HSV to RGB colour space using the standard six-sector
// hue decomposition. The hue is wrapped into [0,360) via modular arithmetic;
// saturation and value are clamped to [0,1]. Channels are rounded to the
// nearest integer, so a round trip through HSV differs from the original
// colour by at most 1 per channel.
func HSVToRGB(h, s, v float64) RGB {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = clamp01(s)
	v = clamp01(v)

	if s == 0 {
		// Achromatic (grey).
		c := round255(v)
		return RGB{R: c, G: c, B: c}
	}

	sector := h / 60
	i := int(sector) % 6
	f := sector - math.Floor(sector)

	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch i {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return RGB{R: round255(r), G: round255(g), B: round255(b)}
}

// clamp01 clamps a value to the [0,1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// round255 converts a [0,1] channel to the nearest 8-bit value.
func round255(v float64) uint8 {
	return uint8(math.Round(v * 255))
}
