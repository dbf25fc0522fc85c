// Package oracle implements the random-access structure used by matching
// statistics verification: a grammar-compressed representation of the
// text T supporting char_at(p) in O(log n) via straight-line-program
// expansion, plus length(). Like the RLBWT and thresholds, the grammar
// itself is built offline by an external collaborator; this package only
// loads the self-describing blob and answers random-access queries
// against it, descending rule expansions the way a grammar-compressed
// self-index does.
package oracle

import (
	"encoding/binary"
	"io"

	"github.com/vshiv18/spumoni/bitvec"
	"github.com/vshiv18/spumoni/coreerr"
)

// rule is one binary straight-line-program production: expansion(id) =
// expansion(left) ++ expansion(right). Rule ids below 256 are implicit
// terminals (a literal byte equal to the id); rules at or above 256 are
// internal productions stored explicitly.
type rule struct {
	left, right uint32
}

const firstInternalRule = 256

// Oracle is a grammar-compressed random-access structure on a text T.
// The top level is a sequence of rule ids whose expansions concatenate to
// T; a dense bit vector over [0, n) marks where each top-level element's
// expansion begins, giving O(1) expected access to "which element covers
// position p" via rank, after which the SLP is descended directly.
type Oracle struct {
	rules   []rule             // indexed by id - firstInternalRule
	ruleLen []uint64           // expansion length of rules[i], parallel to rules
	top     *bitvec.PackedInts // top-level rule ids, width bitlen(256+len(rules))
	starts  *bitvec.Dense      // len n, one-bit at each top-level element's start
	n       int
}

// CharAt returns T[p].
func (o *Oracle) CharAt(p int) byte {
	coreerr.CheckRange(p >= 0 && p < o.n, "oracle: CharAt(%d) out of [0,%d)", p, o.n)

	elem := o.starts.Rank(p+1) - 1
	offset := p - o.starts.Select(elem)
	return o.expand(uint32(o.top.Get(elem)), offset)
}

// Len returns |T|.
func (o *Oracle) Len() int { return o.n }

func (o *Oracle) expand(id uint32, offset int) byte {
	for id >= firstInternalRule {
		r := o.rules[id-firstInternalRule]
		leftLen := o.lenOf(r.left)
		if uint64(offset) < leftLen {
			id = r.left
		} else {
			offset -= int(leftLen)
			id = r.right
		}
	}
	return byte(id)
}

// lenOf returns the expansion length of rule id, 1 for terminals.
func (o *Oracle) lenOf(id uint32) uint64 {
	if id < firstInternalRule {
		return 1
	}
	return o.ruleLen[id-firstInternalRule]
}

// Serialize writes the self-describing oracle blob: n, rule count, the
// rule table (left/right ids and expansion lengths), then the top-level
// sequence and its boundary bit vector.
func (o *Oracle) Serialize(w io.Writer) (int64, error) {
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[:8], uint64(o.n))
	binary.LittleEndian.PutUint64(hdr[8:], uint64(len(o.rules)))
	if _, err := w.Write(hdr[:]); err != nil {
		return 0, coreerr.Load(err, "oracle: write header")
	}
	total := int64(len(hdr))

	idWidth := bitvec.WidthFor(uint64(firstInternalRule + len(o.rules)))
	lenWidth := bitvec.WidthFor(uint64(o.n))

	lefts := bitvec.NewPackedInts(idWidth)
	rights := bitvec.NewPackedInts(idWidth)
	lens := bitvec.NewPackedInts(lenWidth)
	for i, r := range o.rules {
		lefts.Append(uint64(r.left))
		rights.Append(uint64(r.right))
		lens.Append(o.ruleLen[i])
	}
	for _, v := range []*bitvec.PackedInts{lefts, rights, lens} {
		n, err := v.Serialize(w)
		if err != nil {
			return total, coreerr.Load(err, "oracle: write rule table")
		}
		total += n
	}

	n, err := o.top.Serialize(w)
	if err != nil {
		return total, coreerr.Load(err, "oracle: write top sequence")
	}
	total += n

	n, err = o.starts.Serialize(w)
	if err != nil {
		return total, coreerr.Load(err, "oracle: write rule boundaries")
	}
	total += n

	return total, nil
}

// Load reads back an oracle written by Serialize.
func Load(r io.Reader) (*Oracle, error) {
	var hdr [16]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, coreerr.Load(err, "oracle: read header")
	}
	o := &Oracle{n: int(binary.LittleEndian.Uint64(hdr[:8]))}
	numRules := int(binary.LittleEndian.Uint64(hdr[8:]))

	lefts, err := bitvec.DeserializePackedInts(r)
	if err != nil {
		return nil, coreerr.Load(err, "oracle: read rule lefts")
	}
	rights, err := bitvec.DeserializePackedInts(r)
	if err != nil {
		return nil, coreerr.Load(err, "oracle: read rule rights")
	}
	lens, err := bitvec.DeserializePackedInts(r)
	if err != nil {
		return nil, coreerr.Load(err, "oracle: read rule lengths")
	}
	if lefts.Len() != numRules || rights.Len() != numRules || lens.Len() != numRules {
		return nil, coreerr.Loadf("oracle: rule table length mismatch (want %d)", numRules)
	}

	o.rules = make([]rule, numRules)
	o.ruleLen = make([]uint64, numRules)
	for i := 0; i < numRules; i++ {
		o.rules[i] = rule{left: uint32(lefts.Get(i)), right: uint32(rights.Get(i))}
		o.ruleLen[i] = lens.Get(i)
	}

	top, err := bitvec.DeserializePackedInts(r)
	if err != nil {
		return nil, coreerr.Load(err, "oracle: read top sequence")
	}
	o.top = top

	starts, err := bitvec.DeserializeDense(r)
	if err != nil {
		return nil, coreerr.Load(err, "oracle: read rule boundaries")
	}
	if starts.Len() != o.n {
		return nil, coreerr.Loadf("oracle: boundary vector has %d bits, expected n=%d", starts.Len(), o.n)
	}
	o.starts = starts

	for i := 0; i < top.Len(); i++ {
		id := uint32(top.Get(i))
		if id >= firstInternalRule && int(id)-firstInternalRule >= numRules {
			return nil, coreerr.Invariantf("oracle: top-level rule id %d out of range", id)
		}
	}
	return o, nil
}

// Builder assembles an Oracle from an explicit grammar, for use by tests
// and by any in-process construction path; the on-disk format is what
// external builders actually target.
type Builder struct {
	rules []rule
	lens  []uint64
}

// NewBuilder returns an empty grammar builder.
func NewBuilder() *Builder { return &Builder{} }

// AddRule defines a new internal rule expanding to expansion(left) ++
// expansion(right) and returns its id.
func (b *Builder) AddRule(left, right uint32, leftLen, rightLen uint64) uint32 {
	b.rules = append(b.rules, rule{left: left, right: right})
	b.lens = append(b.lens, leftLen+rightLen)
	return uint32(firstInternalRule + len(b.rules) - 1)
}

// Build finalizes the oracle given a top-level sequence of rule ids whose
// expansions concatenate to T, with lens giving the declared expansion
// length of each top-level element (caller-supplied to avoid recomputing
// the grammar here).
func (b *Builder) Build(top []uint32, lens []uint64) (*Oracle, error) {
	if len(top) != len(lens) {
		return nil, coreerr.Invariantf("oracle: top sequence has %d elements, lens has %d", len(top), len(lens))
	}

	idWidth := bitvec.WidthFor(uint64(firstInternalRule + len(b.rules)))
	topVec := bitvec.NewPackedInts(idWidth)
	starts := bitvec.NewDense()
	n := 0
	for i, id := range top {
		topVec.Append(uint64(id))
		for k := uint64(0); k < lens[i]; k++ {
			starts.Append(k == 0)
			n++
		}
	}

	return &Oracle{
		rules:   b.rules,
		ruleLen: b.lens,
		top:     topVec,
		starts:  starts,
		n:       n,
	}, nil
}
