// Package testsupport builds a complete, in-memory index from plain text
// using naive (O(n^2 log n) or worse) reference algorithms, existing
// solely to feed this repo's own tests. It is not part of the core:
// construction from raw text is an external collaborator's
// responsibility. Nothing outside _test.go files may import this
// package.
package testsupport

import (
	"bytes"
	"sort"

	"github.com/vshiv18/spumoni/bitvec"
	"github.com/vshiv18/spumoni/docarray"
	"github.com/vshiv18/spumoni/oracle"
	"github.com/vshiv18/spumoni/rindex"
	"github.com/vshiv18/spumoni/rlbwt"
	"github.com/vshiv18/spumoni/threshold"
)

// Index bundles every structure a test needs, built from a literal text
// that must already end in the single reserved terminator byte
// (rindex.Terminator) and contain it nowhere else.
type Index struct {
	Text         []byte
	SA           []int
	BWT          *rlbwt.RLBWT
	Sub          *rindex.Substrate
	Th           *threshold.Thresholds
	SamplesLast  *bitvec.PackedInts
	SamplesStart *bitvec.PackedInts
	Oracle       *oracle.Oracle
	Doc          *docarray.DocArray // nil unless docIDs is non-nil
}

// Build constructs an Index over text. docIDs, if non-nil, gives the
// document id of every text position (same length as text) and causes Doc
// to be populated.
func Build(text []byte, docIDs []int) *Index {
	n := len(text)
	sa := suffixArray(text)

	bwtBytes := make([]byte, n)
	for i, p := range sa {
		bwtBytes[i] = text[(p-1+n)%n]
	}

	bwt, err := rlbwt.FromRuns(runsOf(bwtBytes))
	if err != nil {
		panic(err)
	}

	sub, err := rindex.Build(bwt)
	if err != nil {
		panic(err)
	}

	lcp := lcpArray(text, sa)
	thresholds := thresholdsOf(bwtBytes, lcp)
	th, err := threshold.New(thresholds, n)
	if err != nil {
		panic(err)
	}

	runBounds := runBoundsOf(bwtBytes)
	samplesLast := make([]int, len(runBounds))
	samplesStart := make([]int, len(runBounds))
	for k, rb := range runBounds {
		samplesLast[k] = (sa[rb.end-1] - 1 + n) % n
		samplesStart[k] = (sa[rb.start] - 1 + n) % n
	}

	idx := &Index{
		Text:         text,
		SA:           sa,
		BWT:          bwt,
		Sub:          sub,
		Th:           th,
		SamplesLast:  rindex.NewSampleVector(samplesLast, n),
		SamplesStart: rindex.NewSampleVector(samplesStart, n),
		Oracle:       flatOracle(text),
	}

	if docIDs != nil {
		startDoc := make([]int, len(runBounds))
		endDoc := make([]int, len(runBounds))
		for k := range runBounds {
			startDoc[k] = docIDs[samplesStart[k]]
			endDoc[k] = docIDs[samplesLast[k]]
		}
		doc, err := docarray.New(startDoc, endDoc)
		if err != nil {
			panic(err)
		}
		idx.Doc = doc
	}

	return idx
}

func suffixArray(text []byte) []int {
	n := len(text)
	sa := make([]int, n)
	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(a, b int) bool {
		return bytes.Compare(rotate(text, sa[a]), rotate(text, sa[b])) < 0
	})
	return sa
}

// rotate returns the cyclic rotation of text starting at i, which is what
// BWT construction compares since T's sole terminator makes every
// rotation distinct and total order well-defined.
func rotate(text []byte, i int) []byte {
	n := len(text)
	out := make([]byte, n)
	copy(out, text[i:])
	copy(out[n-i:], text[:i])
	return out
}

func lcpArray(text []byte, sa []int) []int {
	n := len(text)
	lcp := make([]int, n)
	for i := 1; i < n; i++ {
		a, b := rotate(text, sa[i-1]), rotate(text, sa[i])
		l := 0
		for l < n && a[l] == b[l] {
			l++
		}
		lcp[i] = l
	}
	return lcp
}

type run struct {
	head       byte
	start, end int // BWT row range [start, end)
}

func runsOf(bwt []byte) []rlbwt.Run {
	var runs []rlbwt.Run
	for i := 0; i < len(bwt); {
		j := i + 1
		for j < len(bwt) && bwt[j] == bwt[i] {
			j++
		}
		runs = append(runs, rlbwt.Run{Head: bwt[i], Length: j - i})
		i = j
	}
	return runs
}

func runBoundsOf(bwt []byte) []run {
	var runs []run
	for i := 0; i < len(bwt); {
		j := i + 1
		for j < len(bwt) && bwt[j] == bwt[i] {
			j++
		}
		runs = append(runs, run{head: bwt[i], start: i, end: j})
		i = j
	}
	return runs
}

// thresholdsOf computes, for every run of every character c other than
// its first occurrence, the classical r-index threshold: the BWT row in
// the gap between the previous run of c and this one holding the minimum
// LCP value, i.e. the point where a backward-search query should switch
// from preferring the next occurrence of c to the previous one. The first
// run of each character gets 0.
func thresholdsOf(bwt []byte, lcp []int) []int {
	n := len(bwt)
	runs := runBoundsOf(bwt)
	thresholds := make([]int, len(runs))

	lastRunOf := map[byte]int{} // character -> index of its most recent run seen so far
	for k, r := range runs {
		prevK, seen := lastRunOf[r.head]
		if !seen {
			thresholds[k] = 0
			lastRunOf[r.head] = k
			continue
		}

		gapStart := runs[prevK].end
		gapEnd := r.start
		minPos, minVal := gapStart, n+1
		for p := gapStart; p <= gapEnd; p++ {
			if lcp[p] < minVal {
				minVal = lcp[p]
				minPos = p
			}
		}
		thresholds[k] = minPos
		lastRunOf[r.head] = k
	}
	return thresholds
}

// flatOracle builds a trivial one-rule-per-character grammar: enough to
// exercise the oracle's boundary bit vector and CharAt path without
// depending on any real grammar-construction algorithm, which is out of
// scope for the core.
func flatOracle(text []byte) *oracle.Oracle {
	b := oracle.NewBuilder()
	top := make([]uint32, len(text))
	lens := make([]uint64, len(text))
	for i, c := range text {
		top[i] = uint32(c)
		lens[i] = 1
	}
	o, err := b.Build(top, lens)
	if err != nil {
		panic(err)
	}
	return o
}
