package bitvec

import (
	"encoding/binary"
	"io"

	"github.com/hillbig/rsdic"
)

// Sparse is an append-only bit vector with O(1) rank/select, backed by
// hillbig/rsdic's enum-coded rank/select dictionary. rsdic stays compact
// whether one-bits are dense or sparse, which is exactly what the
// per-character run-end marks and run-boundary vectors need: a handful of
// ones scattered across up to n bit positions.
type Sparse struct {
	rs *rsdic.RSDic
}

// NewSparse creates an empty sparse bit vector.
func NewSparse() *Sparse {
	return &Sparse{rs: rsdic.New()}
}

// Append adds one bit to the end of the vector.
func (s *Sparse) Append(bit bool) { s.rs.PushBack(bit) }

// Len returns the number of bits in the vector.
func (s *Sparse) Len() int { return int(s.rs.Num()) }

// OneCount returns the number of one-bits in the vector.
func (s *Sparse) OneCount() int { return int(s.rs.OneNum()) }

// Bit returns the bit at position i.
func (s *Sparse) Bit(i int) bool { return s.rs.Bit(uint64(i)) }

// Rank returns the number of one-bits in [0, i).
func (s *Sparse) Rank(i int) int {
	if i <= 0 {
		return 0
	}
	return int(s.rs.Rank(uint64(i), true))
}

// Select returns the position of the k-th (0-indexed) one-bit.
func (s *Sparse) Select(k int) int {
	return int(s.rs.Select(uint64(k), true))
}

// Serialize writes rsdic's own compact binary encoding, length-prefixed.
func (s *Sparse) Serialize(w io.Writer) (int64, error) {
	data, err := s.rs.MarshalBinary()
	if err != nil {
		return 0, err
	}
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(len(data)))
	if _, err := w.Write(hdr[:]); err != nil {
		return 0, err
	}
	if _, err := w.Write(data); err != nil {
		return 0, err
	}
	return int64(len(hdr) + len(data)), nil
}

// DeserializeSparse reads back a vector written by Serialize.
func DeserializeSparse(r io.Reader) (*Sparse, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	blen := binary.LittleEndian.Uint64(hdr[:])

	data := make([]byte, blen)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}

	rs := rsdic.New()
	if err := rs.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &Sparse{rs: rs}, nil
}
