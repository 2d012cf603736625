package colour

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the extractor. Wrapped failures can be
// classified with errors.Is.
var (
	// ErrInvalidImage indicates a nil image or an image with zero-area bounds.
	ErrInvalidImage = errors.New("invalid image")

	// ErrInvalidArgument indicates malformed extraction parameters.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Parameters configures a dominant colour extraction.
//
// The saturation and value windows are expressed as integer percentages
// (0-100) and mapped onto the [0,1] HSV range during sampling.
type Parameters struct {
	// MinS and MaxS bound the saturation window, in percent.
	MinS int
	MaxS int

	// MinV and MaxV bound the value (brightness) window, in percent.
	MinV int
	MaxV int

	// MinAreaRatio is the fraction of all sampled non-transparent pixels a
	// colour bucket must cover to survive filtering.
	MinAreaRatio float64

	// InspectPixelsBy is the sampling stride: every Nth pixel of the
	// row-major pixel sequence is inspected. 1 samples every pixel.
	InspectPixelsBy int

	// MaxOutputSize caps the number of returned colours.
	MaxOutputSize int

	// Fill requests best-effort padding to MaxOutputSize colours by
	// progressively relaxing the area ratio and, if still short, the
	// saturation/value window. Only observed colours are ever returned.
	Fill bool

	// Adjust applies a cosmetic saturation/value boost to the final
	// colours for visual distinctiveness.
	Adjust bool

	// Workers is the number of sampling goroutines. 0 selects an
	// automatic value based on GOMAXPROCS; 1 forces serial sampling.
	// Results are identical regardless of the worker count.
	Workers int
}

// DefaultParameters returns extraction parameters suitable for pulling an
// accent palette out of a typical photograph or wallpaper.
func DefaultParameters() Parameters {
	return Parameters{
		MinS:            0,
		MaxS:            100,
		MinV:            0,
		MaxV:            100,
		MinAreaRatio:    0.01,
		InspectPixelsBy: 1,
		MaxOutputSize:   8,
	}
}

// Validate checks the parameters. All violations wrap ErrInvalidArgument.
func (p Parameters) Validate() error {
	if p.MinS < 0 || p.MaxS > 100 {
		return fmt.Errorf("%w: saturation window [%d, %d] outside 0-100", ErrInvalidArgument, p.MinS, p.MaxS)
	}
	if p.MinV < 0 || p.MaxV > 100 {
		return fmt.Errorf("%w: value window [%d, %d] outside 0-100", ErrInvalidArgument, p.MinV, p.MaxV)
	}
	if p.MinS > p.MaxS {
		return fmt.Errorf("%w: saturation window inverted: min %d > max %d", ErrInvalidArgument, p.MinS, p.MaxS)
	}
	if p.MinV > p.MaxV {
		return fmt.Errorf("%w: value window inverted: min %d > max %d", ErrInvalidArgument, p.MinV, p.MaxV)
	}
	if p.MinAreaRatio < 0 || p.MinAreaRatio > 1 {
		return fmt.Errorf("%w: min area ratio %g outside [0, 1]", ErrInvalidArgument, p.MinAreaRatio)
	}
	if p.InspectPixelsBy < 1 {
		return fmt.Errorf("%w: inspect-pixels-by stride must be at least 1, got %d", ErrInvalidArgument, p.InspectPixelsBy)
	}
	if p.MaxOutputSize < 1 {
		return fmt.Errorf("%w: max output size must be at least 1, got %d", ErrInvalidArgument, p.MaxOutputSize)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: worker count cannot be negative, got %d", ErrInvalidArgument, p.Workers)
	}
	return nil
}

// saturationWindow returns the saturation bounds mapped to [0,1].
func (p Parameters) saturationWindow() (lo, hi float64) {
	return float64(p.MinS) / 100.0, float64(p.MaxS) / 100.0
}

// valueWindow returns the value bounds mapped to [0,1].
func (p Parameters) valueWindow() (lo, hi float64) {
	return float64(p.MinV) / 100.0, float64(p.MaxV) / 100.0
}
