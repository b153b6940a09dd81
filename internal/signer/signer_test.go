package signer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholder(t *testing.T) {
	s := NewPlaceholder()

	sig, err := s.Sign([]byte("1|phone"))
	require.NoError(t, err)
	assert.Len(t, sig, 256)
	assert.True(t, s.Verify([]byte("anything"), sig))
}
