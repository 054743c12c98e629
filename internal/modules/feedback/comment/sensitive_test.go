package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSensitiveMatcherWholeWord(t *testing.T) {
	m := NewSensitiveMatcher(nil)

	t.Run("case insensitive", func(t *testing.T) {
		assert.True(t, m.Match("I will KILL this bug"))
		assert.True(t, m.Match("kill"))
	})

	t.Run("no substring matches", func(t *testing.T) {
		assert.False(t, m.Match("that takes real skill"))
		assert.False(t, m.Match("nice shirt"))
		assert.False(t, m.Match("hurtful words"))
	})

	t.Run("punctuation is a word boundary", func(t *testing.T) {
		assert.True(t, m.Match("Violence!"))
		assert.True(t, m.Match("stop the hurt."))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.False(t, m.Match(""))
	})
}

func TestSensitiveMatcherCustomList(t *testing.T) {
	m := NewSensitiveMatcher([]string{"Spoiler", " "})
	assert.True(t, m.Match("major SPOILER ahead"))
	assert.False(t, m.Match("kill"))
}

func TestValidateContent(t *testing.T) {
	s := &Service{maxLen: MaxContentLen}

	t.Run("rejects empty and whitespace", func(t *testing.T) {
		_, err := s.validateContent("")
		assert.ErrorIs(t, err, ErrEmptyContent)
		_, err = s.validateContent("   \n\t ")
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("rejects over the cap", func(t *testing.T) {
		long := make([]rune, MaxContentLen+1)
		for i := range long {
			long[i] = 'a'
		}
		_, err := s.validateContent(string(long))
		assert.ErrorIs(t, err, ErrContentTooLong)
	})

	t.Run("trims and accepts at the cap", func(t *testing.T) {
		got, err := s.validateContent("  hello  ")
		assert.NoError(t, err)
		assert.Equal(t, "hello", got)

		max := make([]rune, MaxContentLen)
		for i := range max {
			max[i] = 'é'
		}
		got, err = s.validateContent(string(max))
		assert.NoError(t, err)
		assert.Equal(t, string(max), got)
	})
}

func TestToggleMember(t *testing.T) {
	t.Run("adds when absent", func(t *testing.T) {
		list, liked := toggleMember([]string{"a"}, "b")
		assert.True(t, liked)
		assert.Equal(t, []string{"a", "b"}, list)
	})

	t.Run("removes when present", func(t *testing.T) {
		list, liked := toggleMember([]string{"a", "b"}, "a")
		assert.False(t, liked)
		assert.Equal(t, []string{"b"}, list)
	})

	t.Run("double toggle restores original", func(t *testing.T) {
		list, liked := toggleMember([]string{"a"}, "b")
		assert.True(t, liked)
		list, liked = toggleMember(list, "b")
		assert.False(t, liked)
		assert.Equal(t, []string{"a"}, list)
	})
}
