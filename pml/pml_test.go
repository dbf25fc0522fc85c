package pml_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vshiv18/spumoni/internal/testsupport"
	"github.com/vshiv18/spumoni/pml"
	"github.com/vshiv18/spumoni/rindex"
)

// text turns a literal using '$' as the terminator placeholder into the
// actual byte sequence, substituting rindex.Terminator.
func text(s string) []byte {
	b := []byte(s)
	for i, c := range b {
		if c == '$' {
			b[i] = rindex.Terminator
		}
	}
	return b
}

func newEngine(t *testing.T, s string) *pml.Engine {
	t.Helper()
	idx := testsupport.Build(text(s), nil)
	return pml.New(idx.BWT, idx.Sub, idx.Th)
}

// S1: T = "mississippi$", P = "issi". Expected L = [1, 2, 3, 4].
func TestPMLSeedS1(t *testing.T) {
	e := newEngine(t, "mississippi$")
	got := e.Query([]byte("issi"))
	require.Equal(t, []uint64{1, 2, 3, 4}, got)
}

// S2: T = "abracadabra$", P = "bra". Expected L = [3, 2, 1].
func TestPMLSeedS2(t *testing.T) {
	e := newEngine(t, "abracadabra$")
	got := e.Query([]byte("bra"))
	require.Equal(t, []uint64{3, 2, 1}, got)
}

// S3: T = "aaaaaa$", P = "aaaa". Expected L = [4, 3, 2, 1].
func TestPMLSeedS3(t *testing.T) {
	e := newEngine(t, "aaaaaa$")
	got := e.Query([]byte("aaaa"))
	require.Equal(t, []uint64{4, 3, 2, 1}, got)
}

// S4: T = "mississippi$", P = "xyz" (absent characters). Expected L = [0, 0, 0].
func TestPMLSeedS4(t *testing.T) {
	e := newEngine(t, "mississippi$")
	got := e.Query([]byte("xyz"))
	require.Equal(t, []uint64{0, 0, 0}, got)
}

// S6: empty pattern produces an empty vector without touching the BWT.
func TestPMLSeedS6Empty(t *testing.T) {
	e := newEngine(t, "mississippi$")
	got := e.Query(nil)
	require.Empty(t, got)
}

// S5: concatenated multi-document reference, documents tagged by
// position. T = "cat$dog$cow" plus the terminator, with documents
// {cat->1, dog->2, cow->3}; '$' is an ordinary separator byte here.
func TestPMLSeedS5Documents(t *testing.T) {
	raw := append([]byte("cat$dog$cow"), rindex.Terminator)
	docIDs := make([]int, len(raw))
	doc := 1
	for i, c := range raw {
		docIDs[i] = doc
		if c == '$' {
			doc++
		}
	}

	idx := testsupport.Build(raw, docIDs)
	e := pml.NewWithDocs(idx.BWT, idx.Sub, idx.Th, idx.Doc)

	l, d := e.QueryDoc([]byte("at"))
	require.Equal(t, []uint64{1, 2}, l)
	require.Equal(t, uint64(1), d[1])
}

// Universal invariant 1, pattern bound: L[i] <= m-i.
func TestPMLUniversalBound(t *testing.T) {
	e := newEngine(t, "mississippi$")
	p := []byte("ississippi")
	l := e.Query(p)
	for i, v := range l {
		require.LessOrEqual(t, v, uint64(len(p)-i))
	}
}

// Universal invariant 7: bytes absent from T always yield zero length.
func TestPMLUniversalAlphabetAbsence(t *testing.T) {
	e := newEngine(t, "mississippi$")
	l := e.Query([]byte("zzz"))
	for _, v := range l {
		require.Equal(t, uint64(0), v)
	}
}
