package digest

import (
	"testing"

	"github.com/originals/cel/pkg/multikey"
	"github.com/stretchr/testify/require"
)

func TestOfIsStableUnderKeyOrder(t *testing.T) {
	a, err := Of(map[string]interface{}{"b": 1, "a": 2})
	require.NoError(t, err)
	b, err := Of(map[string]interface{}{"a": 2, "b": 1})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestSortedDigestsBytesOrderIndependent(t *testing.T) {
	d1, err := OfBytes([]byte("hello"))
	require.NoError(t, err)
	d2, err := OfBytes([]byte("world"))
	require.NoError(t, err)

	sum1, err := SortedDigestsBytes([]multikey.DigestMultibase{d1, d2})
	require.NoError(t, err)
	sum2, err := SortedDigestsBytes([]multikey.DigestMultibase{d2, d1})
	require.NoError(t, err)
	require.Equal(t, sum1, sum2)
}
