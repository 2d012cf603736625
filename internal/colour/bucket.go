package colour

// Quantization grid for merging near-identical colours. Hue is split into
// 15-degree bins; saturation and value into four levels each.
const (
	hueBins   = 24
	satLevels = 4
	valLevels = 4
)

// bucketKey identifies one cell of the quantized HSV grid.
type bucketKey struct {
	h uint8
	s uint8
	v uint8
}

// less imposes a total order on keys, used as the final ranking tie-break.
func (k bucketKey) less(other bucketKey) bool {
	if k.h != other.h {
		return k.h < other.h
	}
	if k.s != other.s {
		return k.s < other.s
	}
	return k.v < other.v
}

// quantize maps an HSV triple onto the bucket grid.
func quantize(h, s, v float64) bucketKey {
	hb := int(h / (360.0 / hueBins))
	if hb >= hueBins {
		hb = hueBins - 1
	}
	sb := int(s * satLevels)
	if sb >= satLevels {
		sb = satLevels - 1
	}
	vb := int(v * valLevels)
	if vb >= valLevels {
		vb = valLevels - 1
	}
	return bucketKey{h: uint8(hb), s: uint8(sb), v: uint8(vb)}
}

// bucket accumulates the sampled pixels falling into one grid cell. The
// representative colour is derived from channel sums rather than first-seen
// order, so merging two buckets is associative and commutative and the
// result does not depend on sampling partitioning.
type bucket struct {
	count uint64
	sumR  uint64
	sumG  uint64
	sumB  uint64
}

// add accumulates a single sampled pixel.
func (b *bucket) add(rgb RGB) {
	b.count++
	b.sumR += uint64(rgb.R)
	b.sumG += uint64(rgb.G)
	b.sumB += uint64(rgb.B)
}

// representative returns the rounded mean colour of the bucket.
func (b *bucket) representative() RGB {
	if b.count == 0 {
		return RGB{}
	}
	half := b.count / 2
	return RGB{
		R: uint8((b.sumR + half) / b.count),
		G: uint8((b.sumG + half) / b.count),
		B: uint8((b.sumB + half) / b.count),
	}
}

// bucketTable aggregates samples by quantized HSV cell.
type bucketTable map[bucketKey]*bucket

// add routes one sampled pixel into its cell.
func (t bucketTable) add(key bucketKey, rgb RGB) {
	b, ok := t[key]
	if !ok {
		b = &bucket{}
		t[key] = b
	}
	b.add(rgb)
}

// merge folds another table into this one. Counts and channel sums are
// summed, so the merge order never affects the outcome.
func (t bucketTable) merge(other bucketTable) {
	for key, ob := range other {
		b, ok := t[key]
		if !ok {
			t[key] = ob
			continue
		}
		b.count += ob.count
		b.sumR += ob.sumR
		b.sumG += ob.sumG
		b.sumB += ob.sumB
	}
}
