package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalCorruptData(t *testing.T) {
	// Truncated varints: every continuation bit set, no terminal byte.
	corrupt := []byte{0xff, 0xff}

	t.Run("term", func(t *testing.T) {
		_, err := UnmarshalTerm(corrupt)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("id", func(t *testing.T) {
		_, err := UnmarshalID(corrupt)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}
