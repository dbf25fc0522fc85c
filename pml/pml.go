// Package pml implements the PML (Pseudo-Matching Lengths) backward-scan
// engine: for every position i in a pattern P, the length of the longest
// suffix of P[0..i] occurring somewhere in the indexed text. The scan is a
// single right-to-left pass over P driven by the r-index substrate,
// mirroring the shape of a classic FM-index's narrowing [sp,ep) backward
// search, generalized from a flat occurrence table to run-length
// rank/select with thresholds deciding which neighboring run to jump to on
// a mismatch.
package pml

import (
	"github.com/vshiv18/spumoni/docarray"
	"github.com/vshiv18/spumoni/rindex"
	"github.com/vshiv18/spumoni/rlbwt"
	"github.com/vshiv18/spumoni/threshold"
)

// Engine answers PML queries against an immutable, already-loaded index.
// It holds no mutable state beyond the per-call locals of Query; the same
// Engine can be shared read-only across concurrent queries.
type Engine struct {
	bwt *rlbwt.RLBWT
	sub *rindex.Substrate
	th  *threshold.Thresholds
	doc *docarray.DocArray // nil unless document ids were requested
}

// New builds a PML engine over a loaded BWT, substrate, and thresholds.
func New(bwt *rlbwt.RLBWT, sub *rindex.Substrate, th *threshold.Thresholds) *Engine {
	return &Engine{bwt: bwt, sub: sub, th: th}
}

// NewWithDocs is New plus a document array, enabling QueryDoc.
func NewWithDocs(bwt *rlbwt.RLBWT, sub *rindex.Substrate, th *threshold.Thresholds, doc *docarray.DocArray) *Engine {
	return &Engine{bwt: bwt, sub: sub, th: th, doc: doc}
}

// Query returns L[0..m), the pseudo-matching length at every position of
// pattern p. It never errors: query execution on a loaded index is total
// over every byte pattern of every length.
func (e *Engine) Query(p []byte) []uint64 {
	l, _ := e.scan(p, false)
	return l
}

// QueryDoc is Query plus, for every position, the document id the
// reported occurrence falls in.
func (e *Engine) QueryDoc(p []byte) ([]uint64, []uint64) {
	return e.scan(p, true)
}

func (e *Engine) scan(p []byte, withDocs bool) ([]uint64, []uint64) {
	m := len(p)
	L := make([]uint64, m)
	var D []uint64
	if withDocs {
		D = make([]uint64, m)
	}
	if m == 0 {
		return L, D
	}

	n := e.bwt.Size()
	pos := n - 1
	length := 0
	var doc int
	if withDocs {
		doc = e.doc.EndRunsDoc(e.bwt.NumRuns() - 1)
	}

	for i := 0; i < m; i++ {
		c := p[m-1-i]

		switch {
		case e.bwt.NumberOfLetter(c) == 0:
			length = 0

		case pos < n && e.bwt.At(pos) == c:
			length++

		default:
			rnk := e.bwt.Rank(pos, c)
			nextPos := pos
			thr := n + 1

			if rnk < e.bwt.NumberOfLetter(c) {
				j := e.bwt.Select(rnk, c)
				k := e.bwt.RunOfPosition(j)
				thr = e.th.At(k)
				length = 0
				nextPos = j
				if withDocs {
					doc = e.doc.StartRunsDoc(k)
				}
			}
			if pos < thr {
				rnk--
				j := e.bwt.Select(rnk, c)
				k := e.bwt.RunOfPosition(j)
				length = 0
				nextPos = j
				if withDocs {
					doc = e.doc.EndRunsDoc(k)
				}
			}
			pos = nextPos
		}

		L[m-1-i] = uint64(length)
		if withDocs {
			D[m-1-i] = uint64(doc)
		}

		pos = e.sub.LF(e.bwt, pos, c)
	}

	return L, D
}
