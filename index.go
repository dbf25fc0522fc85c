// Package ri is the index facade: it owns serialization of the on-disk
// bundle in the fixed order the format requires, and exposes the four
// pure query entry points (pml_query, pml_query_doc, ms_query,
// ms_query_doc) over an immutable, already-loaded index. Construction of
// the underlying artifacts from raw text remains an external
// collaborator's job; this package only loads opaque byte streams
// written in the documented layout.
package ri

import (
	"io"

	"github.com/vshiv18/spumoni/bitvec"
	"github.com/vshiv18/spumoni/coreerr"
	"github.com/vshiv18/spumoni/docarray"
	"github.com/vshiv18/spumoni/ms"
	"github.com/vshiv18/spumoni/oracle"
	"github.com/vshiv18/spumoni/pml"
	"github.com/vshiv18/spumoni/rindex"
	"github.com/vshiv18/spumoni/rlbwt"
	"github.com/vshiv18/spumoni/threshold"
)

// Re-export the error kinds so callers never need to import coreerr
// directly; callers should see structured error values, not raw I/O
// errors.
type (
	// ErrorKind classifies a load-time error.
	ErrorKind = coreerr.Kind
)

const (
	// KindIndexLoad marks a truncated, mis-sized, or malformed file.
	KindIndexLoad = coreerr.IndexLoad
	// KindInvariant marks a structural invariant violated by a loaded index.
	KindInvariant = coreerr.Invariant
)

// magic/version tag distinguishing a PML bundle from an MS bundle at load
// time, avoiding a templated class hierarchy in favor of a tag read up
// front.
const (
	magic      = "SPMI"
	formatPML  = 1
	formatMS   = 2
	formatByte = 1 // current on-disk format version
)

func writeMagic(w io.Writer, kind byte) (int64, error) {
	var hdr [6]byte
	copy(hdr[:4], magic)
	hdr[4] = formatByte
	hdr[5] = kind
	n, err := w.Write(hdr[:])
	return int64(n), err
}

func readMagic(r io.Reader, want byte) error {
	var hdr [6]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return coreerr.Load(err, "ri: read magic header")
	}
	if string(hdr[:4]) != magic {
		return coreerr.Loadf("ri: bad magic %q", hdr[:4])
	}
	if hdr[4] != formatByte {
		return coreerr.Loadf("ri: unsupported format version %d", hdr[4])
	}
	if hdr[5] != want {
		return coreerr.Loadf("ri: expected bundle kind %d, found %d", want, hdr[5])
	}
	return nil
}

// PMLIndex is a loaded, immutable index answering PML queries, optionally
// annotated with a document array.
type PMLIndex struct {
	bwt    *rlbwt.RLBWT
	sub    *rindex.Substrate
	th     *threshold.Thresholds
	doc    *docarray.DocArray
	engine *pml.Engine
}

// LoadPML reads a PML index bundle: magic header, the RLBWT blob,
// terminator_position+F, then the thresholds blob, in that order.
// terminator_position and F follow the RLBWT blob; they do not precede it.
func LoadPML(r io.Reader) (*PMLIndex, error) {
	if err := readMagic(r, formatPML); err != nil {
		return nil, err
	}

	bwt, err := rlbwt.Load(r)
	if err != nil {
		return nil, coreerr.Load(err, "ri: load RLBWT")
	}
	sub, err := rindex.Load(r, bwt)
	if err != nil {
		return nil, err
	}
	th, err := threshold.Load(r, bwt)
	if err != nil {
		return nil, err
	}

	x := &PMLIndex{bwt: bwt, sub: sub, th: th}
	x.engine = pml.New(bwt, sub, th)
	return x, nil
}

// NewPML assembles a PMLIndex directly from already-built components,
// bypassing serialization. Useful for in-process pipelines and tests;
// LoadPML remains the entry point for the on-disk bundle.
func NewPML(bwt *rlbwt.RLBWT, sub *rindex.Substrate, th *threshold.Thresholds) *PMLIndex {
	return &PMLIndex{bwt: bwt, sub: sub, th: th, engine: pml.New(bwt, sub, th)}
}

// LoadDocArray attaches an optional document array, read from a separate
// stream, enabling PMLQueryDoc.
func (x *PMLIndex) LoadDocArray(r io.Reader) error {
	doc, err := docarray.Load(r, x.bwt.NumRuns())
	if err != nil {
		return err
	}
	x.doc = doc
	x.engine = pml.NewWithDocs(x.bwt, x.sub, x.th, doc)
	return nil
}

// Serialize writes the bundle LoadPML reads back, returning total bytes
// written.
func (x *PMLIndex) Serialize(w io.Writer) (int64, error) {
	total, err := writeMagic(w, formatPML)
	if err != nil {
		return total, coreerr.Load(err, "ri: write magic header")
	}

	n, err := x.bwt.Serialize(w)
	total += n
	if err != nil {
		return total, err
	}
	n, err = x.sub.Serialize(w)
	total += n
	if err != nil {
		return total, err
	}
	n, err = x.th.Serialize(w)
	total += n
	if err != nil {
		return total, err
	}
	return total, nil
}

// PMLQuery returns L[0..m) for pattern p.
func (x *PMLIndex) PMLQuery(p []byte) []uint64 { return x.engine.Query(p) }

// PMLQueryDoc is PMLQuery plus the per-position document id. It returns an
// error if no document array was loaded.
func (x *PMLIndex) PMLQueryDoc(p []byte) ([]uint64, []uint64, error) {
	if x.doc == nil {
		return nil, nil, coreerr.Loadf("ri: PMLQueryDoc called without a loaded document array")
	}
	l, d := x.engine.QueryDoc(p)
	return l, d, nil
}

// MSIndex is a loaded, immutable index answering MS queries, optionally
// annotated with a document array.
type MSIndex struct {
	bwt          *rlbwt.RLBWT
	sub          *rindex.Substrate
	th           *threshold.Thresholds
	samplesLast  *samplesVector
	samplesStart *samplesVector
	ra           *oracle.Oracle
	doc          *docarray.DocArray
	engine       *ms.Engine
}

// LoadMS reads an MS index bundle from idxReader (magic header, RLBWT
// blob, terminator_position+F, samples_last, thresholds, samples_start;
// terminator_position and F follow the RLBWT blob, not precede it) and the
// random-access oracle from raReader, stored as a separate file.
func LoadMS(idxReader, raReader io.Reader) (*MSIndex, error) {
	if err := readMagic(idxReader, formatMS); err != nil {
		return nil, err
	}

	bwt, err := rlbwt.Load(idxReader)
	if err != nil {
		return nil, coreerr.Load(err, "ri: load RLBWT")
	}
	sub, err := rindex.Load(idxReader, bwt)
	if err != nil {
		return nil, err
	}

	samplesLast, err := loadSamples(idxReader, "samples_last", bwt.NumRuns())
	if err != nil {
		return nil, err
	}
	th, err := threshold.Load(idxReader, bwt)
	if err != nil {
		return nil, err
	}
	samplesStart, err := loadSamples(idxReader, "samples_start", bwt.NumRuns())
	if err != nil {
		return nil, err
	}

	ra, err := oracle.Load(raReader)
	if err != nil {
		return nil, coreerr.Load(err, "ri: load random-access oracle")
	}

	x := &MSIndex{bwt: bwt, sub: sub, th: th, samplesLast: samplesLast, samplesStart: samplesStart, ra: ra}
	x.engine = ms.New(bwt, sub, th, samplesLast.v, samplesStart.v, ra)
	return x, nil
}

// NewMS assembles an MSIndex directly from already-built components,
// bypassing serialization. Useful for in-process pipelines and tests;
// LoadMS remains the entry point for the on-disk bundle.
func NewMS(bwt *rlbwt.RLBWT, sub *rindex.Substrate, th *threshold.Thresholds, samplesLast, samplesStart *bitvec.PackedInts, ra *oracle.Oracle) *MSIndex {
	return &MSIndex{
		bwt: bwt, sub: sub, th: th,
		samplesLast:  &samplesVector{v: samplesLast},
		samplesStart: &samplesVector{v: samplesStart},
		ra:           ra,
		engine:       ms.New(bwt, sub, th, samplesLast, samplesStart, ra),
	}
}

// LoadDocArray attaches an optional document array, enabling MSQueryDoc.
func (x *MSIndex) LoadDocArray(r io.Reader) error {
	doc, err := docarray.Load(r, x.bwt.NumRuns())
	if err != nil {
		return err
	}
	x.doc = doc
	x.engine = ms.NewWithDocs(x.bwt, x.sub, x.th, x.samplesLast.v, x.samplesStart.v, x.ra, doc)
	return nil
}

// Serialize writes the index bundle LoadMS reads back (the random-access
// oracle is serialized separately via x.Oracle().Serialize).
func (x *MSIndex) Serialize(w io.Writer) (int64, error) {
	total, err := writeMagic(w, formatMS)
	if err != nil {
		return total, coreerr.Load(err, "ri: write magic header")
	}

	n, err := x.bwt.Serialize(w)
	total += n
	if err != nil {
		return total, err
	}
	n, err = x.sub.Serialize(w)
	total += n
	if err != nil {
		return total, err
	}
	n, err = x.samplesLast.v.Serialize(w)
	total += n
	if err != nil {
		return total, coreerr.Load(err, "ri: write samples_last")
	}
	n, err = x.th.Serialize(w)
	total += n
	if err != nil {
		return total, err
	}
	n, err = x.samplesStart.v.Serialize(w)
	total += n
	if err != nil {
		return total, coreerr.Load(err, "ri: write samples_start")
	}
	return total, nil
}

// Oracle exposes the random-access structure, serialized to its own file.
func (x *MSIndex) Oracle() *oracle.Oracle { return x.ra }

// MSQuery returns (L, P_ptr) for pattern p.
func (x *MSIndex) MSQuery(p []byte) (l, ptr []uint64) { return x.engine.Query(p) }

// MSQueryDoc is MSQuery plus per-position document ids. It returns an
// error if no document array was loaded.
func (x *MSIndex) MSQueryDoc(p []byte) (l, ptr, doc []uint64, err error) {
	if x.doc == nil {
		return nil, nil, nil, coreerr.Loadf("ri: MSQueryDoc called without a loaded document array")
	}
	l, ptr, doc = x.engine.QueryDoc(p)
	return l, ptr, doc, nil
}

type samplesVector struct {
	v *bitvec.PackedInts
}

func loadSamples(r io.Reader, name string, numRuns int) (*samplesVector, error) {
	packed, err := bitvec.DeserializePackedInts(r)
	if err != nil {
		return nil, coreerr.Load(err, "ri: read "+name)
	}
	if err := rindex.CheckSampleVector(name, packed, numRuns); err != nil {
		return nil, err
	}
	return &samplesVector{v: packed}, nil
}
