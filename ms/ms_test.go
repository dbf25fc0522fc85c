package ms_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vshiv18/spumoni/internal/testsupport"
	"github.com/vshiv18/spumoni/ms"
	"github.com/vshiv18/spumoni/pml"
	"github.com/vshiv18/spumoni/rindex"
)

func newPMLEngine(idx *testsupport.Index) *pml.Engine {
	return pml.New(idx.BWT, idx.Sub, idx.Th)
}

func text(s string) []byte {
	b := []byte(s)
	for i, c := range b {
		if c == '$' {
			b[i] = rindex.Terminator
		}
	}
	return b
}

func newEngine(t *testing.T, s string) (*ms.Engine, *testsupport.Index) {
	t.Helper()
	idx := testsupport.Build(text(s), nil)
	return ms.New(idx.BWT, idx.Sub, idx.Th, idx.SamplesLast, idx.SamplesStart, idx.Oracle), idx
}

// S1: T = "mississippi$", P = "issi". Expected L = [4, 3, 2, 1];
// P_ptr[0] in {1, 4} (both valid starting positions of "issi").
func TestMSSeedS1(t *testing.T) {
	e, _ := newEngine(t, "mississippi$")
	l, ptr := e.Query([]byte("issi"))
	require.Equal(t, []uint64{4, 3, 2, 1}, l)
	require.Contains(t, []uint64{1, 4}, ptr[0])
}

// S2: T = "abracadabra$", P = "bra". Expected L = [3, 2, 1]; P_ptr[0] in {1, 8}.
func TestMSSeedS2(t *testing.T) {
	e, _ := newEngine(t, "abracadabra$")
	l, ptr := e.Query([]byte("bra"))
	require.Equal(t, []uint64{3, 2, 1}, l)
	require.Contains(t, []uint64{1, 8}, ptr[0])
}

// S3: T = "aaaaaa$", P = "aaaa". Expected L = [4, 3, 2, 1]; every P_ptr is a
// valid occurrence of its reported prefix.
func TestMSSeedS3(t *testing.T) {
	e, idx := newEngine(t, "aaaaaa$")
	l, ptr := e.Query([]byte("aaaa"))
	require.Equal(t, []uint64{4, 3, 2, 1}, l)
	for i := range l {
		requireSoundness(t, idx, []byte("aaaa"), i, l[i], ptr[i])
	}
}

// S4: absent characters. Expected L = [0, 0, 0].
func TestMSSeedS4(t *testing.T) {
	e, _ := newEngine(t, "mississippi$")
	l, _ := e.Query([]byte("xyz"))
	require.Equal(t, []uint64{0, 0, 0}, l)
}

// S6: empty pattern.
func TestMSSeedS6Empty(t *testing.T) {
	e, _ := newEngine(t, "mississippi$")
	l, ptr := e.Query(nil)
	require.Empty(t, l)
	require.Empty(t, ptr)
}

// S5: document-tagged multi-reference query. '$' separates the documents
// as an ordinary byte; only the final byte is the terminator.
func TestMSSeedS5Documents(t *testing.T) {
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
	e := ms.NewWithDocs(idx.BWT, idx.Sub, idx.Th, idx.SamplesLast, idx.SamplesStart, idx.Oracle, idx.Doc)

	l, _, d := e.QueryDoc([]byte("at"))
	require.Equal(t, []uint64{2, 1}, l)
	require.Equal(t, uint64(1), d[1])
}

// Universal invariant 3 (soundness): P[i..i+L[i]) == T[P_ptr[i]..P_ptr[i]+L[i]).
func TestMSUniversalSoundness(t *testing.T) {
	e, idx := newEngine(t, "mississippi$")
	p := []byte("ississippi")
	l, ptr := e.Query(p)
	for i := range l {
		requireSoundness(t, idx, p, i, l[i], ptr[i])
	}
}

// Universal invariant 5 (PML/MS agreement): on the same index and
// pattern, PML's L equals MS's L.
func TestPMLMSAgreement(t *testing.T) {
	idxText := "mississippi$"
	msEngine, idx := newEngine(t, idxText)

	pmlEngine := newPMLEngine(idx)
	p := []byte("ississippi")

	msL, _ := msEngine.Query(p)
	pmlL := pmlEngine.Query(p)
	require.Equal(t, pmlL, msL)
}

func requireSoundness(t *testing.T, idx *testsupport.Index, p []byte, i int, length, ptr uint64) {
	t.Helper()
	for k := uint64(0); k < length; k++ {
		require.Equal(t, p[uint64(i)+k], idx.Oracle.CharAt(int(ptr+k)), "soundness mismatch at i=%d k=%d", i, k)
	}
}
