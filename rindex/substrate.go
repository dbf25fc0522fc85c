// Package rindex builds the r-index substrate: the F array of cumulative
// character counts, the sentinel's BWT position, and the LF mapping
// assembled from rank and F. It also holds the MS-only run-boundary
// sample vectors used to seed and drive the matching statistics scan.
package rindex

import (
	"encoding/binary"
	"io"

	"github.com/vshiv18/spumoni/bitvec"
	"github.com/vshiv18/spumoni/coreerr"
	"github.com/vshiv18/spumoni/rlbwt"
)

// Terminator is the reserved sentinel byte value, occurring exactly once
// in a well-formed BWT.
const Terminator = 1

// Substrate holds F and the terminator position. LF is computed on demand
// from F and a caller-supplied RLBWT rather than stored directly.
type Substrate struct {
	f                  [257]uint64 // f[c] = count of BWT chars < c; f[256] = n
	terminatorPosition int
}

// Build derives the substrate from an already-loaded RLBWT by streaming
// per-character counts: run heads and lengths accumulate into F, then F
// is right-shifted and prefix-summed, here computed directly from
// RLBWT.NumberOfLetter since the run stream has already been folded into
// those counts.
func Build(bwt *rlbwt.RLBWT) (*Substrate, error) {
	if bwt.NumberOfLetter(Terminator) != 1 {
		return nil, coreerr.Invariantf("rindex: expected exactly one terminator, found %d", bwt.NumberOfLetter(Terminator))
	}

	s := &Substrate{terminatorPosition: bwt.Select(0, Terminator)}
	for c := 0; c < 256; c++ {
		s.f[c+1] = s.f[c] + uint64(bwt.NumberOfLetter(byte(c)))
	}
	if s.f[256] != uint64(bwt.Size()) {
		return nil, coreerr.Invariantf("rindex: F[256]=%d disagrees with BWT size %d", s.f[256], bwt.Size())
	}
	return s, nil
}

// F returns F[c], the number of BWT characters strictly less than c. F(256)
// (past the byte alphabet) is n.
func (s *Substrate) F(c int) int { return int(s.f[c]) }

// TerminatorPosition returns the unique BWT index holding the sentinel.
func (s *Substrate) TerminatorPosition() int { return s.terminatorPosition }

// LF computes the last-to-first mapping LF(i, c) = F[c] + BWT.rank(i, c).
func (s *Substrate) LF(bwt *rlbwt.RLBWT, i int, c byte) int {
	return s.F(int(c)) + bwt.Rank(i, c)
}

// Serialize writes terminator_position (8-byte little-endian) followed by
// F as a width-packed vector of 256 entries.
func (s *Substrate) Serialize(w io.Writer) (int64, error) {
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(s.terminatorPosition))
	if _, err := w.Write(hdr[:]); err != nil {
		return 0, coreerr.Load(err, "rindex: write terminator_position")
	}

	width := bitvec.WidthFor(s.f[256])
	packed := bitvec.NewPackedInts(width)
	for c := 0; c < 256; c++ {
		packed.Append(s.f[c])
	}
	n, err := packed.Serialize(w)
	if err != nil {
		return int64(len(hdr)), coreerr.Load(err, "rindex: write F")
	}
	return int64(len(hdr)) + n, nil
}

// Load reads back a substrate written by Serialize. bwt supplies F[256]
// (the BWT's length) and is used to check that terminator_position lies in
// [0, n) and holds the terminator.
func Load(r io.Reader, bwt *rlbwt.RLBWT) (*Substrate, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, coreerr.Load(err, "rindex: read terminator_position")
	}
	s := &Substrate{terminatorPosition: int(binary.LittleEndian.Uint64(hdr[:]))}

	packed, err := bitvec.DeserializePackedInts(r)
	if err != nil {
		return nil, coreerr.Load(err, "rindex: read F")
	}
	if packed.Len() != 256 {
		return nil, coreerr.Loadf("rindex: F has %d entries, want 256", packed.Len())
	}
	for c := 0; c < 256; c++ {
		s.f[c] = packed.Get(c)
		if c > 0 && s.f[c] < s.f[c-1] {
			return nil, coreerr.Invariantf("rindex: F is not non-decreasing at byte %d", c)
		}
	}
	s.f[256] = uint64(bwt.Size())

	if s.terminatorPosition < 0 || s.terminatorPosition >= bwt.Size() {
		return nil, coreerr.Invariantf("rindex: terminator_position %d out of [0,%d)", s.terminatorPosition, bwt.Size())
	}
	if bwt.At(s.terminatorPosition) != Terminator {
		return nil, coreerr.Invariantf("rindex: BWT[%d] is not the terminator", s.terminatorPosition)
	}
	return s, nil
}
