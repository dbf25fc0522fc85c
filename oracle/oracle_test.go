package oracle

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildFlat constructs the simplest possible grammar for text s: one rule
// per character, no sharing, so CharAt degenerates to a flat lookup. This
// exercises the top-level boundary bit vector and the rule table without
// depending on a real grammar construction algorithm, which is out of
// scope for the core.
func buildFlat(t *testing.T, s string) *Oracle {
	t.Helper()
	b := NewBuilder()
	top := make([]uint32, len(s))
	lens := make([]uint64, len(s))
	for i := 0; i < len(s); i++ {
		top[i] = uint32(s[i])
		lens[i] = 1
	}
	o, err := b.Build(top, lens)
	require.NoError(t, err)
	return o
}

// buildNested constructs a small two-level grammar: pairs of characters
// become rules, and the top level references those rules, exercising
// recursive expansion through Oracle.expand.
func buildNested(t *testing.T, s string) *Oracle {
	t.Helper()
	require.Equal(t, 0, len(s)%2)

	b := NewBuilder()
	var top []uint32
	var lens []uint64
	for i := 0; i < len(s); i += 2 {
		id := b.AddRule(uint32(s[i]), uint32(s[i+1]), 1, 1)
		top = append(top, id)
		lens = append(lens, 2)
	}
	o, err := b.Build(top, lens)
	require.NoError(t, err)
	return o
}

func TestOracleCharAtFlat(t *testing.T) {
	s := "mississippi$"
	o := buildFlat(t, s)
	require.Equal(t, len(s), o.Len())
	for i := range s {
		require.Equal(t, s[i], o.CharAt(i), "CharAt(%d)", i)
	}
}

func TestOracleCharAtNested(t *testing.T) {
	s := "abracadabra$xyz!"
	o := buildNested(t, s)
	require.Equal(t, len(s), o.Len())
	for i := range s {
		require.Equal(t, s[i], o.CharAt(i), "CharAt(%d)", i)
	}
}

func TestOracleSerializeRoundTrip(t *testing.T) {
	s := "abracadabra$xyz!"
	o := buildNested(t, s)

	var buf bytes.Buffer
	n, err := o.Serialize(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	o2, err := Load(&buf)
	require.NoError(t, err)
	require.Equal(t, o.Len(), o2.Len())
	for i := range s {
		require.Equal(t, s[i], o2.CharAt(i))
	}
}

func TestOracleBuildRejectsLengthMismatch(t *testing.T) {
	b := NewBuilder()
	_, err := b.Build([]uint32{'a', 'b'}, []uint64{1})
	require.Error(t, err)
}
