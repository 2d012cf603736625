// Package cli provides the command-line interface for Swatch.
package cli

import (
	"fmt"
	"os"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var (
	// Extract command flags
	extractMinSat     int
	extractMaxSat     int
	extractMinVal     int
	extractMaxVal     int
	extractMinArea    float64
	extractStride     int
	extractMaxColours int
	extractFill       bool
	extractAdjust     bool
	extractWorkers    int
	extractFormat     string
	extractOutput     string
	extractPreview    bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Extract dominant colours from an image",
	Long: `Extract the dominant colours of an image as an ordered palette.

The extract command samples the image, filters pixels by saturation and
value windows, aggregates similar colours and ranks them by the area they
cover. Images can be local files or HTTP(S) URLs.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF

Examples:
  # Extract up to 8 dominant colours (default)
  swatch extract wallpaper.jpg

  # Ignore washed-out and near-black pixels
  swatch extract --min-saturation 15 --min-value 10 wallpaper.png

  # Only keep colours covering at least 5% of the image
  swatch extract --min-area-ratio 0.05 wallpaper.jpg

  # Sample every 4th pixel of a large image
  swatch extract --stride 4 https://example.com/photo.jpg

  # Always produce 5 colours, boosted for visual punch
  swatch extract --max-colours 5 --fill --adjust wallpaper.jpg

  # Output as JSON with per-colour area coverage
  swatch extract --format json wallpaper.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	registerExtractFlags(extractCmd.Flags())
}

// registerExtractFlags defines the extract command flags on a flag set.
func registerExtractFlags(fs *pflag.FlagSet) {
	fs.IntVar(&extractMinSat, "min-saturation", 0, "lower saturation bound in percent (0-100)")
	fs.IntVar(&extractMaxSat, "max-saturation", 100, "upper saturation bound in percent (0-100)")
	fs.IntVar(&extractMinVal, "min-value", 0, "lower value (brightness) bound in percent (0-100)")
	fs.IntVar(&extractMaxVal, "max-value", 100, "upper value (brightness) bound in percent (0-100)")
	fs.Float64Var(&extractMinArea, "min-area-ratio", 0.01, "minimum fraction of sampled pixels a colour must cover")
	fs.IntVar(&extractStride, "stride", 1, "inspect every Nth pixel (row-major order)")
	fs.IntVarP(&extractMaxColours, "max-colours", "c", 8, "maximum number of colours to return")
	fs.BoolVar(&extractFill, "fill", false, "relax thresholds to reach the requested colour count")
	fs.BoolVar(&extractAdjust, "adjust", false, "boost saturation/value of dull colours in the output")
	fs.IntVar(&extractWorkers, "workers", 0, "sampling goroutines (0 = automatic)")
	fs.StringVarP(&extractFormat, "format", "f", "hex", "output format (hex, rgb, json)")
	fs.StringVarP(&extractOutput, "output", "o", "", "output file (default: stdout)")
	fs.BoolVar(&extractPreview, "preview", false, "show colour previews (honoured only on a terminal)")
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, args []string) error {
	imagePath := args[0]
	logger := newLogger(cmd)
	verbose, _ := cmd.Flags().GetBool("verbose")

	// Validate the image path
	if err := image.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	params := colour.Parameters{
		MinS:            extractMinSat,
		MaxS:            extractMaxSat,
		MinV:            extractMinVal,
		MaxV:            extractMaxVal,
		MinAreaRatio:    extractMinArea,
		InspectPixelsBy: extractStride,
		MaxOutputSize:   extractMaxColours,
		Fill:            extractFill,
		Adjust:          extractAdjust,
		Workers:         extractWorkers,
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Loading image: %s\n", imagePath)
	}

	loader := image.NewSmartLoader()
	img, err := loader.Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	if verbose {
		bounds := img.Bounds()
		fmt.Fprintf(os.Stderr, "Image loaded: %dx%d\n", bounds.Dx(), bounds.Dy())
	}

	extractor := colour.NewExtractor()
	extractor.SetLogger(logger)

	palette, err := extractor.Extract(img, params)
	if err != nil {
		return fmt.Errorf("failed to extract colours: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Extracted %d colours\n", palette.Len())
	}

	// ANSI previews are only honoured when stdout is a terminal.
	showPreview := extractPreview && term.IsTerminal(int(os.Stdout.Fd()))

	output, err := formatPalette(palette, extractFormat, showPreview)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	// Write output to file or stdout
	if extractOutput != "" {
		if verbose {
			fmt.Fprintf(os.Stderr, "Writing output to: %s\n", extractOutput)
		}
		if err := os.WriteFile(extractOutput, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else {
		fmt.Print(output)
	}

	return nil
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette *colour.Palette, format string, showPreview bool) (string, error) {
	switch format {
	case "hex":
		return formatHex(palette, showPreview), nil
	case "rgb":
		return formatRGB(palette, showPreview), nil
	case "json":
		jsonBytes, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(jsonBytes) + "\n", nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: hex, rgb, json)", format)
	}
}

// formatHex formats the palette as hex colour codes.
func formatHex(palette *colour.Palette, showPreview bool) string {
	output := ""
	for _, rgb := range palette.ToRGBSlice() {
		if showPreview {
			output += colour.FormatColourWithPreview(rgb, 8) + "\n"
		} else {
			output += rgb.Hex() + "\n"
		}
	}
	return output
}

// formatRGB formats the palette as RGB values.
func formatRGB(palette *colour.Palette, showPreview bool) string {
	output := ""
	for _, rgb := range palette.ToRGBSlice() {
		if showPreview {
			output += colour.ColourPreview(rgb, 8) + "  " + rgb.String() + "\n"
		} else {
			output += rgb.String() + "\n"
		}
	}
	return output
}
