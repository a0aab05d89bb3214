package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_Control_CountsRevisions(t *testing.T) {
	c := New()
	assert.Zero(t, c.Value())
	assert.Zero(t, c.Revisions())

	require.NoError(t, c.Set(6))
	require.NoError(t, c.Set(6))
	require.NoError(t, c.Set(8))
	require.NoError(t, c.Set(7))

	assert.Equal(t, 7, c.Value())
	assert.Equal(t, 3, c.Revisions())
}

func TestUnit_Control_RejectsOutOfRange(t *testing.T) {
	c := New()
	for _, n := range []int{0, -1, 11} {
		require.ErrorIs(t, c.Set(n), ErrOutOfRange)
	}
	assert.Zero(t, c.Value())
	assert.Zero(t, c.Revisions())

	require.NoError(t, c.Set(MinRating))
	require.NoError(t, c.Set(MaxRating))
	assert.Equal(t, 2, c.Revisions())
}
