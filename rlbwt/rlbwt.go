// Package rlbwt implements the run-length encoded Burrows-Wheeler
// transform that the r-index substrate, thresholds, and query engines are
// built on top of. It exposes the core BWT-layer operations: Size,
// NumRuns, At, Rank, Select, RunOfPosition, and NumberOfLetter, all backed
// by the succinct primitives in package bitvec.
//
// The backward-search loop this supports is the same shape as a classic
// FM-index's flat-array Search, generalized from dense per-character
// occurrence tables to run-length compressed rank/select.
package rlbwt

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/vshiv18/spumoni/bitvec"
	"github.com/vshiv18/spumoni/coreerr"
)

// Run is one equal-letter run: Head repeated Length times.
type Run struct {
	Head   byte
	Length int
}

// RLBWT is an immutable run-length encoded BWT supporting rank and run
// navigation in O(1) expected time, and select with a binary search over
// the runs of the queried character.
type RLBWT struct {
	n int
	r int

	heads     *bitvec.PackedInts // width 8, len r: head character of run k
	runStarts *bitvec.Dense      // len n, r ones: bit i set iff i starts a run

	// charRuns[c] marks, over the run-index space [0,r), which runs have
	// head c. charCum[c] holds prefix sums of those runs' lengths, so the
	// j-th (0-indexed) run of c contributes charCum[c].Get(j) occurrences
	// of c before it and charCum[c].Get(j+1) through it.
	charRuns map[byte]*bitvec.Sparse
	charCum  map[byte]*bitvec.PackedInts
	count    map[byte]int

	symbols []byte // distinct head characters, ascending
}

// FromRuns builds an RLBWT from an explicit run sequence. The core never
// constructs runs from raw text itself; that is an external collaborator's
// job. This is the narrow assembly step that turns an already-segmented
// run list, whether freshly decoded from a file or supplied directly by a
// test, into the succinct structures the query engines use.
func FromRuns(runs []Run) (*RLBWT, error) {
	b := &RLBWT{
		heads:    bitvec.NewPackedInts(8),
		charRuns: map[byte]*bitvec.Sparse{},
		count:    map[byte]int{},
	}

	runLens := make(map[byte][]int)
	pos := 0
	dense := bitvec.NewDense()
	for k, run := range runs {
		if run.Length <= 0 {
			return nil, errors.Errorf("rlbwt: run %d has non-positive length %d", k, run.Length)
		}
		b.heads.Append(uint64(run.Head))
		for i := 0; i < run.Length; i++ {
			dense.Append(i == 0)
			pos++
		}
		b.count[run.Head] += run.Length
		runLens[run.Head] = append(runLens[run.Head], run.Length)
	}
	b.runStarts = dense
	b.n = pos
	b.r = len(runs)

	for c := range b.count {
		b.symbols = append(b.symbols, c)
	}
	sort.Slice(b.symbols, func(i, j int) bool { return b.symbols[i] < b.symbols[j] })

	b.charCum = map[byte]*bitvec.PackedInts{}
	for _, c := range b.symbols {
		runsOfC := bitvec.NewSparse()
		for _, run := range runs {
			runsOfC.Append(run.Head == c)
		}
		b.charRuns[c] = runsOfC

		lens := runLens[c]
		width := bitvec.WidthFor(uint64(b.count[c]))
		cum := bitvec.NewPackedInts(width)
		total := 0
		cum.Append(0)
		for _, l := range lens {
			total += l
			cum.Append(uint64(total))
		}
		b.charCum[c] = cum
	}

	return b, nil
}

// Size returns n, the length of the BWT.
func (b *RLBWT) Size() int { return b.n }

// NumRuns returns r, the number of equal-letter runs.
func (b *RLBWT) NumRuns() int { return b.r }

// Symbols returns the distinct characters occurring in the BWT, ascending.
func (b *RLBWT) Symbols() []byte { return b.symbols }

// At returns the character at BWT position i.
func (b *RLBWT) At(i int) byte {
	k := b.RunOfPosition(i)
	return byte(b.heads.Get(k))
}

// RunOfPosition returns the index of the run containing position i.
func (b *RLBWT) RunOfPosition(i int) int {
	return b.runStarts.Rank(i+1) - 1
}

// runStart returns the first BWT position of run k.
func (b *RLBWT) runStart(k int) int {
	return b.runStarts.Select(k)
}

// NumberOfLetter returns the total number of occurrences of c in the BWT.
func (b *RLBWT) NumberOfLetter(c byte) int { return b.count[c] }

// Rank returns the number of occurrences of c in BWT[0,i).
func (b *RLBWT) Rank(i int, c byte) int {
	coreerr.CheckRange(i >= 0 && i <= b.n, "rlbwt: Rank(%d) out of [0,%d]", i, b.n)
	if i <= 0 || b.count[c] == 0 {
		return 0
	}
	if i >= b.n {
		return b.count[c]
	}

	runIdx := b.RunOfPosition(i)
	runsOfC, ok := b.charRuns[c]
	if !ok {
		return 0
	}
	rankInC := runsOfC.Rank(runIdx) // number of c-runs strictly before runIdx
	before := b.cumBefore(c, rankInC)

	if byte(b.heads.Get(runIdx)) != c {
		return before
	}
	offset := i - b.runStart(runIdx)
	return before + offset
}

// Select returns the BWT position of the (k+1)-th (0-indexed k) occurrence
// of c.
func (b *RLBWT) Select(k int, c byte) int {
	coreerr.CheckRange(k >= 0 && k < b.count[c], "rlbwt: Select(%d, %d) out of [0,%d)", k, c, b.count[c])
	runsOfC, ok := b.charRuns[c]
	if !ok {
		return b.n
	}
	cum := b.charCum[c]

	// Binary search over the c-run index for the run containing the k-th
	// occurrence: the largest j with cumulative count <= k.
	lo, hi := 0, cum.Len()-1 // cum has runsOfC.OneCount()+1 entries
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if cum.Get(mid) <= uint64(k) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	runIdxInC := lo
	localOffset := k - int(cum.Get(runIdxInC))

	globalRun := runsOfC.Select(runIdxInC)
	return b.runStart(globalRun) + localOffset
}

func (b *RLBWT) cumBefore(c byte, runsOfCBefore int) int {
	return int(b.charCum[c].Get(runsOfCBefore))
}

// Serialize writes the self-describing RLBWT blob: heads, the run-start
// bit vector, then one entry per distinct character
// (symbol byte, total count, run-membership bit vector, cumulative-count
// vector). It returns the number of bytes written.
func (b *RLBWT) Serialize(w io.Writer) (int64, error) {
	var total int64

	n, err := b.heads.Serialize(w)
	if err != nil {
		return total, errors.Wrap(err, "rlbwt: serialize heads")
	}
	total += n

	n, err = b.runStarts.Serialize(w)
	if err != nil {
		return total, errors.Wrap(err, "rlbwt: serialize run starts")
	}
	total += n

	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(len(b.symbols)))
	if _, err := w.Write(hdr[:]); err != nil {
		return total, errors.Wrap(err, "rlbwt: serialize symbol count")
	}
	total += int64(len(hdr))

	for _, c := range b.symbols {
		var shdr [9]byte
		shdr[0] = c
		binary.LittleEndian.PutUint64(shdr[1:], uint64(b.count[c]))
		if _, err := w.Write(shdr[:]); err != nil {
			return total, errors.Wrapf(err, "rlbwt: serialize symbol %d header", c)
		}
		total += int64(len(shdr))

		n, err = b.charRuns[c].Serialize(w)
		if err != nil {
			return total, errors.Wrapf(err, "rlbwt: serialize char-run bitvector for %d", c)
		}
		total += n

		n, err = b.charCum[c].Serialize(w)
		if err != nil {
			return total, errors.Wrapf(err, "rlbwt: serialize cumulative counts for %d", c)
		}
		total += n
	}

	return total, nil
}

// Load reads back an RLBWT written by Serialize.
func Load(r io.Reader) (*RLBWT, error) {
	b := &RLBWT{
		charRuns: map[byte]*bitvec.Sparse{},
		charCum:  map[byte]*bitvec.PackedInts{},
		count:    map[byte]int{},
	}

	heads, err := bitvec.DeserializePackedInts(r)
	if err != nil {
		return nil, errors.Wrap(err, "rlbwt: load heads")
	}
	b.heads = heads
	b.r = heads.Len()

	runStarts, err := bitvec.DeserializeDense(r)
	if err != nil {
		return nil, errors.Wrap(err, "rlbwt: load run starts")
	}
	b.runStarts = runStarts
	b.n = runStarts.Len()

	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrap(err, "rlbwt: load symbol count")
	}
	numSymbols := int(binary.LittleEndian.Uint64(hdr[:]))

	for i := 0; i < numSymbols; i++ {
		var shdr [9]byte
		if _, err := io.ReadFull(r, shdr[:]); err != nil {
			return nil, errors.Wrap(err, "rlbwt: load symbol header")
		}
		c := shdr[0]
		cnt := int(binary.LittleEndian.Uint64(shdr[1:]))
		b.symbols = append(b.symbols, c)
		b.count[c] = cnt

		runsOfC, err := bitvec.DeserializeSparse(r)
		if err != nil {
			return nil, errors.Wrapf(err, "rlbwt: load char-run bitvector for %d", c)
		}
		b.charRuns[c] = runsOfC

		cum, err := bitvec.DeserializePackedInts(r)
		if err != nil {
			return nil, errors.Wrapf(err, "rlbwt: load cumulative counts for %d", c)
		}
		b.charCum[c] = cum
	}

	if len(b.symbols) != numSymbols {
		return nil, errors.Errorf("rlbwt: expected %d symbols, read %d", numSymbols, len(b.symbols))
	}
	return b, nil
}
