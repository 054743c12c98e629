package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOriginHost(t *testing.T) {
	assert.Equal(t, "eldrex.me", extractOriginHost("https://eldrex.me"))
	assert.Equal(t, "localhost:2333", extractOriginHost("http://localhost:2333"))
	assert.Equal(t, "weird", extractOriginHost("weird"))
}

func TestMatchOriginPattern(t *testing.T) {
	assert.True(t, matchOriginPattern("eldrex.me", "eldrex.me"))
	assert.True(t, matchOriginPattern("*.eldrex.me", "www.eldrex.me"))
	assert.False(t, matchOriginPattern("*.eldrex.me", "eldrex.org"))
	assert.True(t, matchOriginPattern("localhost:*", "localhost:3000"))
	assert.False(t, matchOriginPattern("eldrex.me", "not-eldrex.me"))
}
