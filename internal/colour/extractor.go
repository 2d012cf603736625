package colour

import (
	"fmt"
	"image"
	"runtime"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Extractor extracts the dominant colours of an image by quantized HSV
// bucketing. It holds no per-call state and is safe for concurrent use on
// independent images.
type Extractor struct {
	logger hclog.Logger
}

// NewExtractor creates a new Extractor. Logging is off by default.
func NewExtractor() *Extractor {
	return &Extractor{
		logger: hclog.NewNullLogger(),
	}
}

// SetLogger installs a logger for sampling and ranking statistics.
// Passing nil restores the no-op logger.
func (e *Extractor) SetLogger(logger hclog.Logger) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	e.logger = logger
}

// alphaThreshold is the 16-bit alpha below which a pixel counts as
// transparent and is excluded from sampling and area accounting (50%).
const alphaThreshold = 0x8000

// parallelThreshold is the sample count below which sampling stays serial;
// partitioning overhead dominates for small images.
const parallelThreshold = 1 << 16

// minFillRatio is the floor for area-ratio relaxation during the fill
// pass. Below this the ratio is considered fully relaxed.
const minFillRatio = 1e-6

// Extract samples the image with the configured stride, buckets the
// in-window pixels by quantized HSV, filters buckets by area coverage and
// returns the representative colours of the top buckets in rank order.
//
// Sampling policy: the pixel buffer is treated as a single row-major
// sequence and every InspectPixelsBy-th pixel of that sequence is
// inspected, starting at the first pixel. Pixels below 50% alpha are
// skipped entirely.
//
// The result is deterministic: the same image and parameters produce the
// same palette on every call, regardless of the worker count.
func (e *Extractor) Extract(img image.Image, params Parameters) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image is nil", ErrInvalidImage)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: zero-area bounds %v", ErrInvalidImage, bounds)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	res := e.sample(img, params)
	e.logger.Debug("sampling complete",
		"sampled", res.total,
		"window_buckets", len(res.window),
		"reserve_buckets", len(res.reserve))

	if res.total == 0 {
		// Every sampled pixel was transparent.
		return newPaletteFromRGB(nil, nil), nil
	}

	ranked := rankBuckets(res.window, res.total)

	// Split into buckets that satisfy the area threshold and the rest.
	var kept, areaRejected []rankedBucket
	for _, rb := range ranked {
		if rb.ratio >= params.MinAreaRatio {
			kept = append(kept, rb)
		} else {
			areaRejected = append(areaRejected, rb)
		}
	}

	out := kept
	if len(out) > params.MaxOutputSize {
		out = out[:params.MaxOutputSize]
	}

	if params.Fill && len(out) < params.MaxOutputSize {
		out = e.fill(out, areaRejected, res, params)
	}

	colors := make([]RGB, len(out))
	ratios := make([]float64, len(out))
	for i, rb := range out {
		colors[i] = rb.rep
		ratios[i] = rb.ratio
	}

	if params.Adjust {
		for i := range colors {
			colors[i] = adjustColour(colors[i], params)
		}
	}

	e.logger.Debug("extraction complete", "colours", len(colors))
	return newPaletteFromRGB(colors, ratios), nil
}

// sampleResult carries the outcome of one sampling pass. total counts all
// non-transparent samples and is the denominator for area ratios; window
// holds buckets of in-window pixels, reserve the out-of-window ones kept
// around for the fill pass.
type sampleResult struct {
	total   uint64
	window  bucketTable
	reserve bucketTable
}

// merge folds another partition's result into this one.
func (r *sampleResult) merge(other sampleResult) {
	r.total += other.total
	r.window.merge(other.window)
	r.reserve.merge(other.reserve)
}

// sample walks the pixel sequence, splitting the work across goroutines
// for large sample counts. Each worker owns private bucket tables; the
// merged result is identical to a serial pass because bucket accumulation
// is sum-based.
func (e *Extractor) sample(img image.Image, params Parameters) sampleResult {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	pixels := width * height
	sampleCount := (pixels + params.InspectPixelsBy - 1) / params.InspectPixelsBy

	workers := params.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > sampleCount {
		workers = sampleCount
	}
	if workers <= 1 || sampleCount < parallelThreshold {
		return sampleRange(img, params, 0, sampleCount)
	}

	e.logger.Debug("partitioned sampling", "workers", workers, "samples", sampleCount)

	results := make([]sampleResult, workers)
	chunk := (sampleCount + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, sampleCount)
		wg.Add(1)
		go func(idx, lo, hi int) {
			defer wg.Done()
			results[idx] = sampleRange(img, params, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()

	merged := results[0]
	for _, r := range results[1:] {
		merged.merge(r)
	}
	return merged
}

// sampleRange samples the half-open range [lo, hi) of the stride-indexed
// pixel sequence: sample j sits at row-major pixel index j*InspectPixelsBy.
func sampleRange(img image.Image, params Parameters, lo, hi int) sampleResult {
	bounds := img.Bounds()
	width := bounds.Dx()
	minSat, maxSat := params.saturationWindow()
	minVal, maxVal := params.valueWindow()

	res := sampleResult{
		window:  make(bucketTable),
		reserve: make(bucketTable),
	}

	for j := lo; j < hi; j++ {
		i := j * params.InspectPixelsBy
		x := bounds.Min.X + i%width
		y := bounds.Min.Y + i/width

		c := img.At(x, y)
		_, _, _, a := c.RGBA()
		if a < alphaThreshold {
			continue
		}
		res.total++

		rgb := ToRGB(c)
		h, s, v := rgb.HSV()
		key := quantize(h, s, v)

		if s < minSat || s > maxSat || v < minVal || v > maxVal {
			res.reserve.add(key, rgb)
			continue
		}
		res.window.add(key, rgb)
	}

	return res
}

// rankedBucket is a bucket prepared for ranking: representative colour,
// area ratio and the HSV of the representative for tie-breaking.
type rankedBucket struct {
	key   bucketKey
	rep   RGB
	count uint64
	ratio float64
	sat   float64
	val   float64
}

// rankBuckets flattens a table into rank order: descending pixel count,
// ties broken by higher saturation, then higher value, then ascending
// bucket key. The order is total, so ranking is reproducible.
func rankBuckets(table bucketTable, total uint64) []rankedBucket {
	ranked := make([]rankedBucket, 0, len(table))
	for key, b := range table {
		rep := b.representative()
		_, s, v := rep.HSV()
		ranked = append(ranked, rankedBucket{
			key:   key,
			rep:   rep,
			count: b.count,
			ratio: float64(b.count) / float64(total),
			sat:   s,
			val:   v,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.count != b.count {
			return a.count > b.count
		}
		if a.sat != b.sat {
			return a.sat > b.sat
		}
		if a.val != b.val {
			return a.val > b.val
		}
		return a.key.less(b.key)
	})

	return ranked
}

// fill pads the output towards MaxOutputSize. The effective area ratio is
// halved repeatedly, admitting previously area-rejected in-window buckets
// in rank order; if the ratio bottoms out and the output is still short,
// the saturation/value window itself is relaxed and reserve buckets are
// admitted. Only colours observed in the image are ever returned.
func (e *Extractor) fill(out, areaRejected []rankedBucket, res sampleResult, params Parameters) []rankedBucket {
	effective := params.MinAreaRatio
	for len(out) < params.MaxOutputSize && len(areaRejected) > 0 && effective > minFillRatio {
		effective /= 2
		remaining := areaRejected[:0:0]
		for _, rb := range areaRejected {
			if len(out) < params.MaxOutputSize && rb.ratio >= effective {
				out = append(out, rb)
			} else {
				remaining = append(remaining, rb)
			}
		}
		areaRejected = remaining
	}

	// Ratio fully relaxed: flush whatever in-window buckets remain before
	// touching the reserve.
	for _, rb := range areaRejected {
		if len(out) >= params.MaxOutputSize {
			break
		}
		out = append(out, rb)
	}

	if len(out) < params.MaxOutputSize && len(res.reserve) > 0 {
		e.logger.Debug("fill pass relaxing saturation/value window",
			"have", len(out), "want", params.MaxOutputSize)
		for _, rb := range rankBuckets(res.reserve, res.total) {
			if len(out) >= params.MaxOutputSize {
				break
			}
			out = append(out, rb)
		}
	}

	return out
}

// adjustBoost is the bounded cosmetic boost applied by the adjust pass.
const adjustBoost = 1.10

// adjustColour nudges a colour towards higher chroma and brightness when
// its saturation or value sits below the midpoint of the configured
// window. The boost is a fixed 10%, clamped to [0,1], applied via an HSV
// round trip.
func adjustColour(rgb RGB, params Parameters) RGB {
	h, s, v := rgb.HSV()

	minSat, maxSat := params.saturationWindow()
	minVal, maxVal := params.valueWindow()
	midSat := (minSat + maxSat) / 2
	midVal := (minVal + maxVal) / 2

	changed := false
	if s < midSat {
		s = clamp01(s * adjustBoost)
		changed = true
	}
	if v < midVal {
		v = clamp01(v * adjustBoost)
		changed = true
	}
	if !changed {
		return rgb
	}
	return HSVToRGB(h, s, v)
}
