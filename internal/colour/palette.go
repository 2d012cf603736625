package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
)

// Palette is an ordered collection of dominant colours extracted from an
// image. Insertion order is rank order: the first colour covers the
// largest sampled area.
type Palette struct {
	Colors []color.Color

	// AreaRatios holds, per colour, the fraction of sampled
	// non-transparent pixels its bucket covered. Same length and order
	// as Colors; nil when unknown.
	AreaRatios []float64
}

// NewPalette creates a new Palette with the given colours and no area
// information.
func NewPalette(colors []color.Color) *Palette {
	return &Palette{
		Colors: colors,
	}
}

// NewPaletteWithRatios creates a new Palette with per-colour area ratios.
func NewPaletteWithRatios(colors []color.Color, ratios []float64) *Palette {
	return &Palette{
		Colors:     colors,
		AreaRatios: ratios,
	}
}

// newPaletteFromRGB builds a palette from extractor output.
func newPaletteFromRGB(colors []RGB, ratios []float64) *Palette {
	cs := make([]color.Color, len(colors))
	for i, rgb := range colors {
		cs[i] = RGBToColor(rgb)
	}
	return NewPaletteWithRatios(cs, ratios)
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.Colors)
}

// Get returns the colour at the specified index.
// Returns an error if the index is out of bounds.
func (p *Palette) Get(index int) (color.Color, error) {
	if index < 0 || index >= len(p.Colors) {
		return nil, fmt.Errorf("index out of bounds: %d (palette has %d colors)", index, len(p.Colors))
	}
	return p.Colors[index], nil
}

// ToHex converts the palette colours to hex strings.
// Returns a slice of hex colour codes (e.g., ["#1a2b3c", "#4d5e6f"]).
func (p *Palette) ToHex() []string {
	hexColors := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		rgb := ToRGB(c)
		hexColors[i] = rgb.Hex()
	}
	return hexColors
}

// ToRGBSlice converts the palette colours to RGB structs.
func (p *Palette) ToRGBSlice() []RGB {
	rgbColors := make([]RGB, len(p.Colors))
	for i, c := range p.Colors {
		rgbColors[i] = ToRGB(c)
	}
	return rgbColors
}

// ColorJSON represents a colour in JSON output format.
type ColorJSON struct {
	Hex       string   `json:"hex"`
	RGB       RGB      `json:"rgb"`
	AreaRatio *float64 `json:"area_ratio,omitempty"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count  int         `json:"count"`
	Colors []ColorJSON `json:"colors"`
}

// ToJSON converts the palette to JSON format.
func (p *Palette) ToJSON() ([]byte, error) {
	colors := make([]ColorJSON, len(p.Colors))
	for i, c := range p.Colors {
		rgb := ToRGB(c)
		colors[i] = ColorJSON{
			Hex: rgb.Hex(),
			RGB: rgb,
		}
		if p.AreaRatios != nil {
			ratio := p.AreaRatios[i]
			colors[i].AreaRatio = &ratio
		}
	}

	paletteJSON := PaletteJSON{
		Count:  len(p.Colors),
		Colors: colors,
	}

	return json.MarshalIndent(paletteJSON, "", "  ")
}

// String returns a human-readable string representation of the palette.
func (p *Palette) String() string {
	if len(p.Colors) == 0 {
		return "Empty palette"
	}

	result := fmt.Sprintf("Palette with %d colors:\n", len(p.Colors))
	for i, c := range p.Colors {
		rgb := ToRGB(c)
		if p.AreaRatios != nil {
			result += fmt.Sprintf("  %2d: %s (%s) %.1f%%\n", i+1, rgb.Hex(), rgb.String(), p.AreaRatios[i]*100)
		} else {
			result += fmt.Sprintf("  %2d: %s (%s)\n", i+1, rgb.Hex(), rgb.String())
		}
	}
	return result
}

// All returns an iterator over all colours in the palette.
func (p *Palette) All() func(func(int, color.Color) bool) {
	return func(yield func(int, color.Color) bool) {
		for i, c := range p.Colors {
			if !yield(i, c) {
				return
			}
		}
	}
}
