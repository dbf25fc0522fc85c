package rindex

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vshiv18/spumoni/rlbwt"
)

// bwtOf builds an RLBWT from a literal BWT string; $ stands for the
// terminator byte (value 1), which cannot be written directly in a Go
// string literal used as test fixture text.
func bwtOf(t *testing.T, s string) *rlbwt.RLBWT {
	t.Helper()
	buf := []byte(s)
	for i, c := range buf {
		if c == '$' {
			buf[i] = Terminator
		}
	}
	var runs []rlbwt.Run
	for i := 0; i < len(buf); {
		j := i + 1
		for j < len(buf) && buf[j] == buf[i] {
			j++
		}
		runs = append(runs, rlbwt.Run{Head: buf[i], Length: j - i})
		i = j
	}
	b, err := rlbwt.FromRuns(runs)
	require.NoError(t, err)
	return b
}

func TestBuildF(t *testing.T) {
	// BWT of "mississippi$" (standard textbook example).
	b := bwtOf(t, "ipssm$pissii")

	s, err := Build(b)
	require.NoError(t, err)

	require.Equal(t, 0, s.F(0))
	require.Equal(t, 0, s.F(int(Terminator)))
	require.Equal(t, 1, s.F(int(Terminator)+1))
	require.Equal(t, b.Size(), s.F(256))

	for c := 1; c < 256; c++ {
		require.LessOrEqual(t, s.F(c-1), s.F(c))
	}
}

func TestBuildRejectsMissingTerminator(t *testing.T) {
	b := bwtOf(t, "aabbcc")
	_, err := Build(b)
	require.Error(t, err)
}

func TestLFMatchesRank(t *testing.T) {
	b := bwtOf(t, "ipssm$pissii")
	s, err := Build(b)
	require.NoError(t, err)

	for i := 0; i <= b.Size(); i++ {
		for _, c := range b.Symbols() {
			want := s.F(int(c)) + b.Rank(i, c)
			require.Equal(t, want, s.LF(b, i, c))
		}
	}
}

func TestSubstrateSerializeRoundTrip(t *testing.T) {
	b := bwtOf(t, "ipssm$pissii")
	s, err := Build(b)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := s.Serialize(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	s2, err := Load(&buf, b)
	require.NoError(t, err)
	require.Equal(t, s.TerminatorPosition(), s2.TerminatorPosition())
	for c := 0; c <= 256; c++ {
		require.Equal(t, s.F(c), s2.F(c))
	}
}

func TestSampleVectorRoundTrip(t *testing.T) {
	n := 12
	values := []int{0, 11, 5, 3}
	v := NewSampleVector(values, n)
	require.NoError(t, CheckSampleVector("samples_last", v, len(values)))
	require.Error(t, CheckSampleVector("samples_last", v, len(values)+1))

	for i, want := range values {
		require.Equal(t, uint64(want), v.Get(i))
	}
	require.Equal(t, values[len(values)-1], LastRunSample(v))
}
