package bgzf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeVirtualOffset(t *testing.T) {
	v, err := MakeVirtualOffset(100000, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 6553600010, v)
}

func TestMakeVirtualOffsetRange(t *testing.T) {
	_, err := MakeVirtualOffset(0, 65536)
	require.Error(t, err)
	var bgzfErr *Error
	require.ErrorAs(t, err, &bgzfErr)
	assert.Equal(t, KindRange, bgzfErr.Kind)

	_, err = MakeVirtualOffset(int64(1)<<48, 0)
	require.Error(t, err)
	require.ErrorAs(t, err, &bgzfErr)
	assert.Equal(t, KindRange, bgzfErr.Kind)
}

func TestSplitVirtualOffset(t *testing.T) {
	coffset, uoffset := SplitVirtualOffset(6553600010)
	assert.EqualValues(t, 100000, coffset)
	assert.EqualValues(t, 10, uoffset)
}

func TestVirtualOffsetRoundTrip(t *testing.T) {
	tests := []struct {
		coffset int64
		uoffset int64
	}{
		{0, 0},
		{0, 65535},
		{1, 0},
		{(int64(1) << 48) - 1, 65535},
	}
	for _, test := range tests {
		v, err := MakeVirtualOffset(test.coffset, test.uoffset)
		require.NoError(t, err)
		coffset, uoffset := SplitVirtualOffset(v)
		assert.Equal(t, test.coffset, coffset)
		assert.EqualValues(t, test.uoffset, uoffset)
	}
}
