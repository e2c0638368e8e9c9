package bgzf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := [][]byte{
		{},
		[]byte("hello\n"),
		bytes.Repeat([]byte{0x41}, MaxBlockSize),
	}
	for _, want := range tests {
		var buf bytes.Buffer
		require.NoError(t, encodeBlock(&buf, want, 6))

		rawLen, got, err := decodeBlock(&buf)
		require.NoError(t, err)
		assert.Greater(t, rawLen, 0)
		assert.Equal(t, want, got)
	}
}

func TestDecodeBlockRejectsBadMagic(t *testing.T) {
	bad := append([]byte{0, 0, 0, 0}, eofSentinel[4:]...)
	_, _, err := decodeBlock(bytes.NewReader(bad))
	require.Error(t, err)
	var bgzfErr *Error
	require.ErrorAs(t, err, &bgzfErr)
	assert.Equal(t, KindFormat, bgzfErr.Kind)
}

func TestDecodeBlockRejectsMissingBCSubfield(t *testing.T) {
	malformed := make([]byte, len(eofSentinel))
	copy(malformed, eofSentinel[:])
	malformed[12] = 'X' // corrupt the BC subfield id
	_, _, err := decodeBlock(bytes.NewReader(malformed))
	require.Error(t, err)
	var bgzfErr *Error
	require.ErrorAs(t, err, &bgzfErr)
	assert.Equal(t, KindFormat, bgzfErr.Kind)
}

func TestDecodeBlockRejectsBadChecksum(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeBlock(&buf, []byte("hello\n"), 6))
	corrupted := buf.Bytes()
	corrupted[len(corrupted)-8] ^= 0xff // flip every bit of the first CRC32 trailer byte

	_, _, err := decodeBlock(bytes.NewReader(corrupted))
	require.Error(t, err)
	var bgzfErr *Error
	require.ErrorAs(t, err, &bgzfErr)
	assert.Equal(t, KindChecksum, bgzfErr.Kind)
}

func TestEncodeBlockRejectsOversizedInput(t *testing.T) {
	var buf bytes.Buffer
	err := encodeBlock(&buf, make([]byte, MaxBlockSize+1), 6)
	require.Error(t, err)
	var bgzfErr *Error
	require.ErrorAs(t, err, &bgzfErr)
	assert.Equal(t, KindRange, bgzfErr.Kind)
}
