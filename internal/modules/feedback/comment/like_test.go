package comment

import (
	"testing"

	"github.com/eldrex/core/internal/models"
	"github.com/stretchr/testify/assert"
)

// Liking twice is a no-op: both the membership list and the counter
// come back to where they started.
func TestApplyToggleRoundTrip(t *testing.T) {
	likedBy, likes, nowLiked := applyToggle(models.StringArray{"u1"}, 1, "u2")
	assert.True(t, nowLiked)
	assert.Equal(t, 2, likes)
	assert.ElementsMatch(t, models.StringArray{"u1", "u2"}, likedBy)

	likedBy, likes, nowLiked = applyToggle(likedBy, likes, "u2")
	assert.False(t, nowLiked)
	assert.Equal(t, 1, likes)
	assert.ElementsMatch(t, models.StringArray{"u1"}, likedBy)
}

func TestApplyToggleCounterNeverNegative(t *testing.T) {
	// Counter drifted below the membership list; unliking must not
	// push it under zero.
	likedBy, likes, nowLiked := applyToggle(models.StringArray{"u1"}, 0, "u1")

	assert.False(t, nowLiked)
	assert.Zero(t, likes)
	assert.Empty(t, likedBy)
}
