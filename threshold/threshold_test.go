package threshold

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vshiv18/spumoni/rlbwt"
)

func smallBWT(t *testing.T) *rlbwt.RLBWT {
	t.Helper()
	runs := []rlbwt.Run{
		{Head: 1, Length: 1},
		{Head: 'a', Length: 3},
		{Head: 'b', Length: 2},
		{Head: 'a', Length: 1},
	}
	b, err := rlbwt.FromRuns(runs)
	require.NoError(t, err)
	return b
}

func TestThresholdsAt(t *testing.T) {
	b := smallBWT(t)
	n := b.Size()

	values := []int{n + 1, 2, n + 1, 5}
	th, err := New(values, n)
	require.NoError(t, err)
	require.Equal(t, len(values), th.Len())
	for k, v := range values {
		require.Equal(t, v, th.At(k))
	}
}

func TestThresholdsRejectsOutOfRange(t *testing.T) {
	_, err := New([]int{-1}, 10)
	require.Error(t, err)

	_, err = New([]int{12}, 10)
	require.Error(t, err)
}

func TestThresholdsSerializeRoundTrip(t *testing.T) {
	b := smallBWT(t)
	n := b.Size()
	values := []int{n + 1, 2, n + 1, 5}
	th, err := New(values, n)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = th.Serialize(&buf)
	require.NoError(t, err)

	th2, err := Load(&buf, b)
	require.NoError(t, err)
	require.Equal(t, th.Len(), th2.Len())
	for k, v := range values {
		require.Equal(t, v, th2.At(k))
	}
}

func TestThresholdsLoadRejectsRunCountMismatch(t *testing.T) {
	b := smallBWT(t)
	th, err := New([]int{1, 2, 3}, b.Size()) // 3 entries, b has 4 runs
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = th.Serialize(&buf)
	require.NoError(t, err)

	_, err = Load(&buf, b)
	require.Error(t, err)
}
