package digest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeIsDeterministic(t *testing.T) {
	d1, err := Compute(strings.NewReader("hello world"))
	require.NoError(t, err)
	d2, err := Compute(strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)
}

func TestComputeDiffersOnContent(t *testing.T) {
	d1, err := Compute(strings.NewReader("hello"))
	require.NoError(t, err)
	d2, err := Compute(strings.NewReader("world"))
	require.NoError(t, err)
	assert.NotEqual(t, d1, d2)
}

func TestKeyChangesWithPolicy(t *testing.T) {
	digest, err := Compute(strings.NewReader("content"))
	require.NoError(t, err)

	k1 := Key(digest, "native", "Rev", false)
	k2 := Key(digest, "LF", "Rev", false)
	k3 := Key(digest, "native", "Rev", true)

	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Equal(t, k1, Key(digest, "native", "Rev", false))
}
