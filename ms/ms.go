// Package ms implements the MS (Matching Statistics) engine: a backward
// scan that produces, for every pattern position, a
// sample pointer into the text, followed by a forward verification pass
// that turns those pointers into true match lengths by comparing against
// the random-access oracle. The backward half mirrors package pml's
// thresholds-driven run jumps; the forward half is the classical
// amortized matching-statistics verification loop.
package ms

import (
	"github.com/vshiv18/spumoni/bitvec"
	"github.com/vshiv18/spumoni/docarray"
	"github.com/vshiv18/spumoni/oracle"
	"github.com/vshiv18/spumoni/rindex"
	"github.com/vshiv18/spumoni/rlbwt"
	"github.com/vshiv18/spumoni/threshold"
)

// Engine answers MS queries against an immutable, already-loaded index.
type Engine struct {
	bwt          *rlbwt.RLBWT
	sub          *rindex.Substrate
	th           *threshold.Thresholds
	samplesLast  *bitvec.PackedInts
	samplesStart *bitvec.PackedInts
	ra           *oracle.Oracle
	doc          *docarray.DocArray
}

// New builds an MS engine over a loaded BWT, substrate, thresholds,
// run-boundary samples, and random-access oracle.
func New(bwt *rlbwt.RLBWT, sub *rindex.Substrate, th *threshold.Thresholds, samplesLast, samplesStart *bitvec.PackedInts, ra *oracle.Oracle) *Engine {
	return &Engine{bwt: bwt, sub: sub, th: th, samplesLast: samplesLast, samplesStart: samplesStart, ra: ra}
}

// NewWithDocs is New plus a document array, enabling QueryDoc.
func NewWithDocs(bwt *rlbwt.RLBWT, sub *rindex.Substrate, th *threshold.Thresholds, samplesLast, samplesStart *bitvec.PackedInts, ra *oracle.Oracle, doc *docarray.DocArray) *Engine {
	e := New(bwt, sub, th, samplesLast, samplesStart, ra)
	e.doc = doc
	return e
}

// Query returns (L, P_ptr): the matching-statistics length and witnessing
// text position at every pattern position.
func (e *Engine) Query(p []byte) (l, ptr []uint64) {
	samples, _ := e.backward(p, false)
	l = e.verify(p, samples)
	return l, samples
}

// QueryDoc is Query plus, for every position, the document id the
// witnessing occurrence falls in.
func (e *Engine) QueryDoc(p []byte) (l, ptr, doc []uint64) {
	samples, docs := e.backward(p, true)
	l = e.verify(p, samples)
	return l, samples, docs
}

// backward runs the right-to-left scan, producing the raw sample-pointer
// vector (and, if requested, the per-position document vector) before
// forward verification.
func (e *Engine) backward(p []byte, withDocs bool) ([]uint64, []uint64) {
	m := len(p)
	samples := make([]uint64, m)
	var docs []uint64
	if withDocs {
		docs = make([]uint64, m)
	}
	if m == 0 {
		return samples, docs
	}

	n := e.bwt.Size()
	pos := n - 1
	sample := (rindex.LastRunSample(e.samplesLast) + 1) % n
	var doc int
	if withDocs {
		doc = e.doc.EndRunsDoc(e.bwt.NumRuns() - 1)
	}

	for i := 0; i < m; i++ {
		c := p[m-1-i]

		switch {
		case e.bwt.NumberOfLetter(c) == 0:
			sample = 0
			if withDocs {
				doc = e.doc.StartRunsDoc(e.bwt.RunOfPosition(0))
			}

		case pos < n && e.bwt.At(pos) == c:
			sample--

		default:
			rnk := e.bwt.Rank(pos, c)
			nextPos := pos
			thr := n + 1

			if rnk < e.bwt.NumberOfLetter(c) {
				j := e.bwt.Select(rnk, c)
				k := e.bwt.RunOfPosition(j)
				thr = e.th.At(k)
				sample = int(e.samplesStart.Get(k))
				nextPos = j
				if withDocs {
					doc = e.doc.StartRunsDoc(k)
				}
			}
			if pos < thr {
				rnk--
				j := e.bwt.Select(rnk, c)
				k := e.bwt.RunOfPosition(j)
				sample = int(e.samplesLast.Get(k))
				nextPos = j
				if withDocs {
					doc = e.doc.EndRunsDoc(k)
				}
			}
			pos = nextPos
		}

		samples[m-1-i] = uint64(sample)
		if withDocs {
			docs[m-1-i] = uint64(doc)
		}

		pos = e.sub.LF(e.bwt, pos, c)
	}

	return samples, docs
}

// verify runs the forward pass: it converts each sample pointer into a
// true match length by comparing p against the oracle,
// amortized across consecutive positions whose pointers are themselves
// consecutive in T.
func (e *Engine) verify(p []byte, samples []uint64) []uint64 {
	m := len(p)
	L := make([]uint64, m)
	if m == 0 {
		return L
	}

	textLen := e.ra.Len()
	length := 0
	for i := 0; i < m; i++ {
		ptr := int(samples[i])
		needsVerify := i == 0 || ptr != int(samples[i-1])+1
		for needsVerify && i+length < m && ptr+length < textLen &&
			p[i+length] == e.ra.CharAt(ptr+length) {
			length++
		}
		L[i] = uint64(length)
		if length > 0 {
			length--
		}
	}
	return L
}
