// Package threshold implements the per-run thresholds array: an opaque
// map from run index to a BWT position, consulted by the backward-search
// engines to choose between the next and previous occurrence of a
// character. It shares no state with the RLBWT beyond the run count and
// length used to validate it at load time.
package threshold

import (
	"io"

	"github.com/vshiv18/spumoni/bitvec"
	"github.com/vshiv18/spumoni/coreerr"
	"github.com/vshiv18/spumoni/rlbwt"
)

// Thresholds is a succinct run-index -> BWT-position map, stored as a
// width-packed integer vector sized for values in [0, n+1].
type Thresholds struct {
	values *bitvec.PackedInts
	n      int
}

// New wraps a precomputed thresholds slice (values[k] for run k) for
// writing. n is the BWT length used to size the on-disk sentinel value
// n+1, which marks "beyond the BWT".
func New(values []int, n int) (*Thresholds, error) {
	width := bitvec.WidthFor(uint64(n + 1))
	packed := bitvec.NewPackedInts(width)
	for k, v := range values {
		if v < 0 || v > n+1 {
			return nil, coreerr.Invariantf("threshold: thresholds[%d]=%d out of [0,%d]", k, v, n+1)
		}
		packed.Append(uint64(v))
	}
	return &Thresholds{values: packed, n: n}, nil
}

// At returns thresholds[k].
func (t *Thresholds) At(k int) int { return int(t.values.Get(k)) }

// Len returns the number of entries (expected to equal the BWT's run
// count, checked when loading alongside an RLBWT).
func (t *Thresholds) Len() int { return t.values.Len() }

// Serialize writes the thresholds blob, a single self-describing packed
// vector, immediately after the RLBWT blob in the on-disk layout.
func (t *Thresholds) Serialize(w io.Writer) (int64, error) {
	n, err := t.values.Serialize(w)
	if err != nil {
		return n, coreerr.Load(err, "threshold: write thresholds")
	}
	return n, nil
}

// Load reads back a thresholds vector written by Serialize, validating it
// against the run count of an already-loaded RLBWT; thresholds are always
// loaded with a reference to the BWT they apply to.
func Load(r io.Reader, bwt *rlbwt.RLBWT) (*Thresholds, error) {
	packed, err := bitvec.DeserializePackedInts(r)
	if err != nil {
		return nil, coreerr.Load(err, "threshold: read thresholds")
	}
	if packed.Len() != bwt.NumRuns() {
		return nil, coreerr.Loadf("threshold: have %d entries, expected r=%d", packed.Len(), bwt.NumRuns())
	}

	t := &Thresholds{values: packed, n: bwt.Size()}
	for k := 0; k < t.Len(); k++ {
		if v := t.At(k); v < 0 || v > bwt.Size()+1 {
			return nil, coreerr.Invariantf("threshold: thresholds[%d]=%d out of [0,%d]", k, v, bwt.Size()+1)
		}
	}
	return t, nil
}
