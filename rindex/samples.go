package rindex

import (
	"github.com/vshiv18/spumoni/bitvec"
	"github.com/vshiv18/spumoni/coreerr"
)

// NewSampleVector packs a per-run text-position sample (samples_last or
// samples_start) into a bitvec.PackedInts sized for the largest value
// that can occur: a text position in [0, n).
func NewSampleVector(values []int, n int) *bitvec.PackedInts {
	width := bitvec.WidthFor(uint64(n))
	v := bitvec.NewPackedInts(width)
	for _, x := range values {
		v.Append(uint64(x))
	}
	return v
}

// LastRunSample returns the sample at the last run, samples_last[r-1]. The
// MS backward scan seeds its pointer with the text position one past it
// (modulo n), i.e. the suffix at BWT row n-1.
func LastRunSample(samplesLast *bitvec.PackedInts) int {
	return int(samplesLast.Get(samplesLast.Len() - 1))
}

// CheckSampleVector validates a deserialized sample vector against the run
// count r: its length must agree with r as reported by the loaded BWT.
func CheckSampleVector(name string, v *bitvec.PackedInts, r int) error {
	if v.Len() != r {
		return coreerr.Loadf("rindex: %s has %d entries, expected r=%d", name, v.Len(), r)
	}
	return nil
}
