package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_AlignUp(t *testing.T) {
	cases := []struct {
		n, align, want int
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{1, 4, 4},
		{5, 4, 8},
		{17, 16, 32},
	}
	for _, c := range cases {
		require.Equal(t, c.want, AlignUp(c.n, c.align), "AlignUp(%d, %d)", c.n, c.align)
	}
}

func Test_AlignDown(t *testing.T) {
	require.Equal(t, 0, AlignDown(7, 8))
	require.Equal(t, 8, AlignDown(8, 8))
	require.Equal(t, 8, AlignDown(15, 8))
	require.Equal(t, 16, AlignDown(16, 4))
}

func Test_IsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 4096} {
		require.True(t, IsPowerOfTwo(n), "%d", n)
	}
	for _, n := range []int{0, -8, 3, 6, 12} {
		require.False(t, IsPowerOfTwo(n), "%d", n)
	}
}

func Test_RunTagRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	PutI32(buf, 4, -200)
	require.Equal(t, int32(-200), ReadI32(buf, 4))
	PutI32(buf, 8, 4064)
	require.Equal(t, int32(4064), ReadI32(buf, 8))
	// Adjacent tags must not clobber each other.
	require.Equal(t, int32(-200), ReadI32(buf, 4))
}
