// Package docarray implements the optional per-run document array: for
// each run, the document id at the run's head and at its tail, used only
// to tag a reported match position with the document it falls in.
// Construction of the array itself is an external collaborator's job;
// this package only loads, validates, and serves it.
package docarray

import (
	"io"

	"github.com/vshiv18/spumoni/bitvec"
	"github.com/vshiv18/spumoni/coreerr"
)

// DocArray holds the two run-indexed document-id vectors.
type DocArray struct {
	startRunsDoc *bitvec.PackedInts
	endRunsDoc   *bitvec.PackedInts
}

// New wraps precomputed start/end document-id slices, one entry per run.
func New(startDoc, endDoc []int) (*DocArray, error) {
	if len(startDoc) != len(endDoc) {
		return nil, coreerr.Invariantf("docarray: start_runs_doc has %d entries, end_runs_doc has %d", len(startDoc), len(endDoc))
	}
	maxDoc := uint64(0)
	for _, d := range startDoc {
		if uint64(d) > maxDoc {
			maxDoc = uint64(d)
		}
	}
	for _, d := range endDoc {
		if uint64(d) > maxDoc {
			maxDoc = uint64(d)
		}
	}
	width := bitvec.WidthFor(maxDoc)

	start := bitvec.NewPackedInts(width)
	for _, d := range startDoc {
		start.Append(uint64(d))
	}
	end := bitvec.NewPackedInts(width)
	for _, d := range endDoc {
		end.Append(uint64(d))
	}
	return &DocArray{startRunsDoc: start, endRunsDoc: end}, nil
}

// StartRunsDoc returns the document id at run k's head.
func (d *DocArray) StartRunsDoc(k int) int { return int(d.startRunsDoc.Get(k)) }

// EndRunsDoc returns the document id at run k's tail.
func (d *DocArray) EndRunsDoc(k int) int { return int(d.endRunsDoc.Get(k)) }

// Len returns r, the number of runs the array covers.
func (d *DocArray) Len() int { return d.startRunsDoc.Len() }

// Serialize writes the document array file: start_runs_doc then
// end_runs_doc, each a self-describing packed vector.
func (d *DocArray) Serialize(w io.Writer) (int64, error) {
	n1, err := d.startRunsDoc.Serialize(w)
	if err != nil {
		return n1, coreerr.Load(err, "docarray: write start_runs_doc")
	}
	n2, err := d.endRunsDoc.Serialize(w)
	if err != nil {
		return n1 + n2, coreerr.Load(err, "docarray: write end_runs_doc")
	}
	return n1 + n2, nil
}

// Load reads back a document array written by Serialize, validating its
// length against r, the run count reported by the already-loaded RLBWT.
func Load(r io.Reader, numRuns int) (*DocArray, error) {
	start, err := bitvec.DeserializePackedInts(r)
	if err != nil {
		return nil, coreerr.Load(err, "docarray: read start_runs_doc")
	}
	end, err := bitvec.DeserializePackedInts(r)
	if err != nil {
		return nil, coreerr.Load(err, "docarray: read end_runs_doc")
	}
	if start.Len() != numRuns || end.Len() != numRuns {
		return nil, coreerr.Loadf("docarray: have (%d,%d) entries, expected r=%d", start.Len(), end.Len(), numRuns)
	}
	return &DocArray{startRunsDoc: start, endRunsDoc: end}, nil
}
