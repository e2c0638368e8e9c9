package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgzfio/bgzf/bgzf"
)

func TestRunProducesValidBGZFStream(t *testing.T) {
	input := []byte("the quick brown fox\n")
	var out bytes.Buffer

	require.NoError(t, run(bytes.NewReader(input), &out))

	r, err := bgzf.NewReader(bytes.NewReader(out.Bytes()), 4)
	require.NoError(t, err)
	got, err := r.ReadN(len(input))
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestRunOnEmptyInputProducesOnlySentinel(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(bytes.NewReader(nil), &out))
	assert.Len(t, out.Bytes(), 28)
}
