package bitvec

import (
	"encoding/binary"
	"io"

	"github.com/robskie/ranksel"
)

// Dense is an append-only bit vector with O(1) rank/select, backed by
// robskie/ranksel's combined-sampling structure. Use it when one-bits are
// not rare relative to the vector's length; for sparse vectors use Sparse.
type Dense struct {
	bv *ranksel.BitVector
	n  int
}

// NewDense creates an empty dense bit vector using ranksel's default
// sampling block sizes.
func NewDense() *Dense {
	return &Dense{bv: ranksel.NewBitVector(ranksel.NewOptions())}
}

// Append adds one bit to the end of the vector.
func (d *Dense) Append(bit bool) {
	if bit {
		d.bv.Add(1, 1)
	} else {
		d.bv.Add(0, 1)
	}
	d.n++
}

// Len returns the number of bits in the vector.
func (d *Dense) Len() int { return d.n }

// Bit returns the bit at position i.
func (d *Dense) Bit(i int) bool { return d.bv.Bit(i) == 1 }

// Rank returns the number of one-bits in [0, i), matching the exclusive
// rank convention used throughout the r-index substrate.
func (d *Dense) Rank(i int) int {
	if i <= 0 {
		return 0
	}
	return d.bv.Rank1(i - 1)
}

// Select returns the position of the k-th (0-indexed) one-bit.
func (d *Dense) Select(k int) int {
	return d.bv.Select1(k + 1)
}

// Serialize writes an 8-byte bit count followed by the packed words. It is
// independent of ranksel's internal layout so it round-trips through plain
// Append calls on load.
func (d *Dense) Serialize(w io.Writer) (int64, error) {
	words := make([]uint64, (d.n+63)/64)
	for i := 0; i < d.n; i++ {
		if d.Bit(i) {
			words[i/64] |= 1 << uint(i%64)
		}
	}

	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(d.n))
	if _, err := w.Write(hdr[:]); err != nil {
		return 0, err
	}
	if err := binary.Write(w, binary.LittleEndian, words); err != nil {
		return 0, err
	}
	return int64(len(hdr)) + int64(8*len(words)), nil
}

// DeserializeDense reads back a vector written by Serialize.
func DeserializeDense(r io.Reader) (*Dense, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := int(binary.LittleEndian.Uint64(hdr[:]))

	words := make([]uint64, (n+63)/64)
	if len(words) > 0 {
		if err := binary.Read(r, binary.LittleEndian, words); err != nil {
			return nil, err
		}
	}

	d := NewDense()
	for i := 0; i < n; i++ {
		d.Append(words[i/64]&(1<<uint(i%64)) != 0)
	}
	return d, nil
}
