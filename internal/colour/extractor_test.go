package colour

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// uniformImage returns a w x h image filled with a single colour.
func uniformImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// openParams returns parameters with fully open windows and no area
// threshold, sampling every pixel.
func openParams() Parameters {
	return Parameters{
		MinS:            0,
		MaxS:            100,
		MinV:            0,
		MaxV:            100,
		MinAreaRatio:    0,
		InspectPixelsBy: 1,
		MaxOutputSize:   5,
	}
}

func TestExtractSolidRed(t *testing.T) {
	img := uniformImage(2, 2, color.RGBA{R: 255, A: 255})

	palette, err := NewExtractor().Extract(img, openParams())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	want := []RGB{{R: 255, G: 0, B: 0}}
	if diff := cmp.Diff(want, palette.ToRGBSlice()); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
	if len(palette.AreaRatios) != 1 || palette.AreaRatios[0] != 1.0 {
		t.Errorf("AreaRatios = %v, want [1.0]", palette.AreaRatios)
	}
}

func TestExtractInvalidImage(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{name: "nil image", img: nil},
		{name: "zero-area bounds", img: image.NewRGBA(image.Rect(0, 0, 0, 0))},
		{name: "zero width", img: image.NewRGBA(image.Rect(0, 0, 0, 10))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor().Extract(tt.img, openParams())
			if !errors.Is(err, ErrInvalidImage) {
				t.Errorf("Extract() error = %v, want ErrInvalidImage", err)
			}
		})
	}
}

func TestExtractInvalidParameters(t *testing.T) {
	img := uniformImage(2, 2, color.RGBA{R: 255, A: 255})

	params := openParams()
	params.MinS = 80
	params.MaxS = 20

	_, err := NewExtractor().Extract(img, params)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Extract() error = %v, want ErrInvalidArgument", err)
	}
}

func TestExtractRespectsMaxOutputSize(t *testing.T) {
	// Ten saturated hues spaced 36 degrees apart land in distinct buckets.
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, RGBToColor(HSVToRGB(float64(x)*36, 1, 1)))
		}
	}

	params := openParams()
	params.MaxOutputSize = 3

	palette, err := NewExtractor().Extract(img, params)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if palette.Len() != 3 {
		t.Errorf("palette length = %d, want 3", palette.Len())
	}
}

func TestExtractRankOrder(t *testing.T) {
	// 6 red, 3 green, 1 blue pixels: rank order follows area coverage.
	img := image.NewRGBA(image.Rect(0, 0, 10, 1))
	for x := 0; x < 10; x++ {
		switch {
		case x < 6:
			img.Set(x, 0, color.RGBA{R: 255, A: 255})
		case x < 9:
			img.Set(x, 0, color.RGBA{G: 255, A: 255})
		default:
			img.Set(x, 0, color.RGBA{B: 255, A: 255})
		}
	}

	palette, err := NewExtractor().Extract(img, openParams())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	want := []RGB{
		{R: 255, G: 0, B: 0},
		{R: 0, G: 255, B: 0},
		{R: 0, G: 0, B: 255},
	}
	if diff := cmp.Diff(want, palette.ToRGBSlice()); diff != "" {
		t.Errorf("rank order mismatch (-want +got):\n%s", diff)
	}

	wantRatios := []float64{0.6, 0.3, 0.1}
	if diff := cmp.Diff(wantRatios, palette.AreaRatios); diff != "" {
		t.Errorf("area ratios mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractAreaRatioFilter(t *testing.T) {
	// 60 red pixels and 4 blue pixels in an 8x8 image: blue covers
	// 1/16th and falls below a 10% threshold.
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if y == 0 && x < 4 {
				img.Set(x, y, color.RGBA{B: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			}
		}
	}

	params := openParams()
	params.MinAreaRatio = 0.1

	palette, err := NewExtractor().Extract(img, params)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	want := []RGB{{R: 255, G: 0, B: 0}}
	if diff := cmp.Diff(want, palette.ToRGBSlice()); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}

	// The fill pass re-admits the area-rejected blue bucket.
	params.Fill = true
	params.MaxOutputSize = 2

	palette, err = NewExtractor().Extract(img, params)
	if err != nil {
		t.Fatalf("Extract() with fill error: %v", err)
	}

	want = []RGB{
		{R: 255, G: 0, B: 0},
		{R: 0, G: 0, B: 255},
	}
	if diff := cmp.Diff(want, palette.ToRGBSlice()); diff != "" {
		t.Errorf("filled palette mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractWindowExcludesEverything(t *testing.T) {
	// A grey image has zero saturation everywhere; a 50% lower
	// saturation bound rejects every sample.
	grey := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	img := uniformImage(4, 4, grey)

	params := openParams()
	params.MinS = 50

	palette, err := NewExtractor().Extract(img, params)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if palette.Len() != 0 {
		t.Errorf("palette length = %d, want 0 without fill", palette.Len())
	}

	// With fill the window itself is relaxed; only observed colours
	// may appear.
	params.Fill = true

	palette, err = NewExtractor().Extract(img, params)
	if err != nil {
		t.Fatalf("Extract() with fill error: %v", err)
	}
	if palette.Len() == 0 {
		t.Fatal("palette empty, want relaxed-window colours with fill")
	}
	if palette.Len() > params.MaxOutputSize {
		t.Errorf("palette length = %d exceeds max output size %d", palette.Len(), params.MaxOutputSize)
	}
	if got := palette.ToRGBSlice()[0]; got != ToRGB(grey) {
		t.Errorf("filled colour = %v, want %v", got, ToRGB(grey))
	}
}

func TestExtractSkipsTransparentPixels(t *testing.T) {
	// Two transparent red pixels and two opaque blue ones: only blue is
	// sampled and it covers all of the accounted area.
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 0})
	img.Set(1, 0, color.NRGBA{R: 255, A: 0})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{B: 255, A: 255})

	palette, err := NewExtractor().Extract(img, openParams())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	want := []RGB{{R: 0, G: 0, B: 255}}
	if diff := cmp.Diff(want, palette.ToRGBSlice()); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
	if palette.AreaRatios[0] != 1.0 {
		t.Errorf("area ratio = %v, want 1.0 (transparent pixels excluded from accounting)", palette.AreaRatios[0])
	}
}

func TestExtractFullyTransparentImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))

	palette, err := NewExtractor().Extract(img, openParams())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if palette.Len() != 0 {
		t.Errorf("palette length = %d, want 0 for fully transparent image", palette.Len())
	}
}

func TestSamplingStridePolicy(t *testing.T) {
	// Linear row-major stride: a 4x4 image inspected by 2 samples
	// exactly 8 pixels.
	img := uniformImage(4, 4, color.RGBA{R: 255, A: 255})

	params := openParams()
	params.InspectPixelsBy = 2

	pixels := 4 * 4
	sampleCount := (pixels + params.InspectPixelsBy - 1) / params.InspectPixelsBy
	if sampleCount != 8 {
		t.Fatalf("sample count = %d, want 8", sampleCount)
	}

	res := sampleRange(img, params, 0, sampleCount)
	if res.total != 8 {
		t.Errorf("sampled %d pixels, want 8", res.total)
	}
}

func TestExtractAdjustBoostsDullColours(t *testing.T) {
	// A desaturated, dark red sits below both window midpoints.
	dull := color.RGBA{R: 100, G: 80, B: 80, A: 255}
	img := uniformImage(4, 4, dull)

	params := openParams()
	baseline, err := NewExtractor().Extract(img, params)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	params.Adjust = true
	adjusted, err := NewExtractor().Extract(img, params)
	if err != nil {
		t.Fatalf("Extract() with adjust error: %v", err)
	}

	_, baseS, baseV := baseline.ToRGBSlice()[0].HSV()
	_, adjS, adjV := adjusted.ToRGBSlice()[0].HSV()

	if adjS <= baseS {
		t.Errorf("adjusted saturation %.3f not boosted above %.3f", adjS, baseS)
	}
	if adjV <= baseV {
		t.Errorf("adjusted value %.3f not boosted above %.3f", adjV, baseV)
	}
	if adjS > 1 || adjV > 1 {
		t.Errorf("adjusted components out of bounds: s=%.3f v=%.3f", adjS, adjV)
	}
}

// patternImage builds a deterministic multi-colour image large enough to
// trigger partitioned sampling.
func patternImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x % 256),
				G: uint8((x + y) % 256),
				B: uint8(y % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestExtractDeterministicAcrossWorkers(t *testing.T) {
	img := patternImage(320, 240)

	params := openParams()
	params.MinAreaRatio = 0.01
	params.MaxOutputSize = 8

	extract := func(workers int) *Palette {
		t.Helper()
		params.Workers = workers
		palette, err := NewExtractor().Extract(img, params)
		if err != nil {
			t.Fatalf("Extract() with %d workers error: %v", workers, err)
		}
		return palette
	}

	serial := extract(1)
	for _, workers := range []int{1, 2, 4, 7} {
		got := extract(workers)
		if diff := cmp.Diff(serial.ToRGBSlice(), got.ToRGBSlice()); diff != "" {
			t.Errorf("colours differ with %d workers (-serial +got):\n%s", workers, diff)
		}
		if diff := cmp.Diff(serial.AreaRatios, got.AreaRatios); diff != "" {
			t.Errorf("area ratios differ with %d workers (-serial +got):\n%s", workers, diff)
		}
	}
}

func TestExtractNonPositiveBounds(t *testing.T) {
	// Bounds with a negative origin must sample correctly; the sampler
	// works in bounds-relative coordinates.
	img := image.NewRGBA(image.Rect(-2, -2, 2, 2))
	for y := -2; y < 2; y++ {
		for x := -2; x < 2; x++ {
			img.Set(x, y, color.RGBA{G: 200, A: 255})
		}
	}

	palette, err := NewExtractor().Extract(img, openParams())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	want := []RGB{{R: 0, G: 200, B: 0}}
	if diff := cmp.Diff(want, palette.ToRGBSlice()); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
}
