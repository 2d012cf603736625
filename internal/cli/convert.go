// Package cli provides the command-line interface for Swatch.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/spf13/cobra"
)

var (
	// Convert command flags
	convertHSV string
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [colour]",
	Short: "Convert between RGB and HSV colour representations",
	Long: `Convert a single colour between RGB and HSV representations.

With a hex colour argument, prints the HSV components. With --hsv, prints
the hex and RGB forms. The hue is wrapped into [0,360); saturation and
value are clamped to [0,1].

Examples:
  # RGB to HSV
  swatch convert '#ff8800'

  # HSV to RGB (hue in degrees, saturation and value in [0,1])
  swatch convert --hsv 32,1,1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertHSV, "hsv", "", "HSV triple to convert to RGB, as h,s,v")
}

// runConvert executes the convert command.
func runConvert(cmd *cobra.Command, args []string) error {
	switch {
	case convertHSV != "":
		if len(args) != 0 {
			return fmt.Errorf("--hsv and a colour argument are mutually exclusive")
		}
		h, s, v, err := parseHSVTriple(convertHSV)
		if err != nil {
			return err
		}
		rgb := colour.HSVToRGB(h, s, v)
		fmt.Printf("%s  %s\n", rgb.Hex(), rgb.String())
		return nil

	case len(args) == 1:
		rgb, err := parseHexColour(args[0])
		if err != nil {
			return err
		}
		h, s, v := rgb.HSV()
		fmt.Printf("hsv(%.1f, %.3f, %.3f)\n", h, s, v)
		return nil

	default:
		return fmt.Errorf("provide a hex colour argument or --hsv h,s,v")
	}
}

// parseHexColour parses "#rrggbb" or "rrggbb" into an RGB value.
func parseHexColour(s string) (colour.RGB, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return colour.RGB{}, fmt.Errorf("invalid hex colour %q (expected #rrggbb)", s)
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return colour.RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return colour.RGB{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
	}, nil
}

// parseHSVTriple parses "h,s,v" into float components.
func parseHSVTriple(s string) (h, sat, v float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid HSV triple %q (expected h,s,v)", s)
	}
	values := make([]float64, 3)
	for i, part := range parts {
		values[i], err = strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid HSV component %q: %w", part, err)
		}
	}
	return values[0], values[1], values[2], nil
}
