// Package bitvec provides the packed-integer and rank/select bit-vector
// primitives the rest of the index is built from: a fixed-width packed
// integer vector, a dense rank/select bit vector, and a sparse rank/select
// bit vector for vectors whose one-bits are rare relative to their length.
package bitvec

import (
	"encoding/binary"
	"io"

	"github.com/robskie/bit"
)

// PackedInts is an append-only, fixed-width packed integer vector. Values
// are stored using exactly Width() bits each, so the whole vector occupies
// ceil(n*width/64) machine words instead of 8*n bytes.
type PackedInts struct {
	arr   *bit.Array
	width int
	n     int
}

// NewPackedInts creates an empty vector storing values in width bits each.
// width must be in [1,64].
func NewPackedInts(width int) *PackedInts {
	if width <= 0 || width > 64 {
		panic("bitvec: packed width must be in [1,64]")
	}
	return &PackedInts{arr: bit.NewArray(0), width: width}
}

// WidthFor returns the number of bits needed to represent values in
// [0, max], i.e. bitlen(max), with a floor of 1.
func WidthFor(max uint64) int {
	w := 0
	for max > 0 {
		w++
		max >>= 1
	}
	if w == 0 {
		w = 1
	}
	return w
}

// Append adds v to the end of the vector. v must fit in Width() bits.
func (p *PackedInts) Append(v uint64) {
	p.arr.Add(v, p.width)
	p.n++
}

// Get returns the i-th stored value.
func (p *PackedInts) Get(i int) uint64 {
	return p.arr.Get(i*p.width, p.width)
}

// Len returns the number of stored values.
func (p *PackedInts) Len() int { return p.n }

// Width returns the fixed bit width of every stored value.
func (p *PackedInts) Width() int { return p.width }

// Serialize writes a self-describing blob: a 1-byte width, an 8-byte
// little-endian element count, then the packed words. It returns the
// number of bytes written, per the size-reporting serialization policy
// of the index facade.
func (p *PackedInts) Serialize(w io.Writer) (int64, error) {
	var hdr [9]byte
	hdr[0] = byte(p.width)
	binary.LittleEndian.PutUint64(hdr[1:], uint64(p.n))
	if _, err := w.Write(hdr[:]); err != nil {
		return 0, err
	}

	words := p.arr.Bits()
	if nwords := (p.n*p.width + 63) / 64; len(words) > nwords {
		words = words[:nwords]
	}
	if err := binary.Write(w, binary.LittleEndian, words); err != nil {
		return 0, err
	}
	return int64(len(hdr)) + int64(8*len(words)), nil
}

// DeserializePackedInts reads back a vector written by Serialize.
func DeserializePackedInts(r io.Reader) (*PackedInts, error) {
	var hdr [9]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	width := int(hdr[0])
	n := int(binary.LittleEndian.Uint64(hdr[1:]))

	nwords := (n*width + 63) / 64
	words := make([]uint64, nwords)
	if nwords > 0 {
		if err := binary.Read(r, binary.LittleEndian, words); err != nil {
			return nil, err
		}
	}

	p := NewPackedInts(width)
	for i := 0; i < n; i++ {
		p.Append(extractBits(words, i*width, width))
	}
	return p, nil
}

// extractBits reads `width` bits starting at bit offset `off` out of a
// little-endian packed word array, LSB-first within each word.
func extractBits(words []uint64, off, width int) uint64 {
	var v uint64
	for b := 0; b < width; b++ {
		pos := off + b
		if words[pos/64]&(1<<uint(pos%64)) != 0 {
			v |= 1 << uint(b)
		}
	}
	return v
}
