package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/domain/shared"
)

func TestNewFeedback(t *testing.T) {
	f, err := NewFeedback("fb-1", "ord-1", "user-1", "cafe-1", 4, "fast and hot")
	require.NoError(t, err)
	assert.Equal(t, 4, f.Rating())
	assert.Equal(t, "fast and hot", f.Comment())
}

func TestNewFeedbackRatingBounds(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		_, err := NewFeedback("fb-1", "ord-1", "user-1", "cafe-1", rating, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput, "rating %d", rating)
	}

	for rating := 1; rating <= 5; rating++ {
		_, err := NewFeedback("fb-1", "ord-1", "user-1", "cafe-1", rating, "")
		assert.NoError(t, err, "rating %d", rating)
	}
}

func TestNewFeedbackRequiresIdentity(t *testing.T) {
	_, err := NewFeedback("", "ord-1", "user-1", "cafe-1", 3, "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewFeedback("fb-1", "", "user-1", "cafe-1", 3, "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewFeedback("fb-1", "ord-1", "", "cafe-1", 3, "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
