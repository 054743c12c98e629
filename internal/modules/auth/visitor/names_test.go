package visitor

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateDisplayName(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z]+-[a-z]+-\d{3}$`)
	for i := 0; i < 50; i++ {
		name := GenerateDisplayName()
		assert.Regexp(t, pattern, name)
	}
}

func TestAvatarLetter(t *testing.T) {
	assert.Equal(t, "S", AvatarLetter("swift-otter-042"))
	assert.Equal(t, "K", AvatarLetter("  kim"))
	assert.Equal(t, "A", AvatarLetter("42abc"))
	assert.Equal(t, "V", AvatarLetter(""))
	assert.Equal(t, "V", AvatarLetter("123"))
}
