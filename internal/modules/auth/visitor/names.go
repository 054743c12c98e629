package visitor

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
)

var nameAdjectives = []string{
	"brave", "calm", "clever", "curious", "gentle", "happy",
	"keen", "lively", "mellow", "nimble", "quiet", "sunny",
	"swift", "warm", "witty", "bright",
}

var nameNouns = []string{
	"otter", "falcon", "willow", "comet", "harbor", "meadow",
	"pebble", "ember", "breeze", "maple", "lantern", "sparrow",
	"tide", "cedar", "drift", "fox",
}

// GenerateDisplayName produces a readable pseudonym like "swift-otter-042".
// Collisions are acceptable: identity lives in the userId, not the name.
func GenerateDisplayName() string {
	adj := nameAdjectives[rand.IntN(len(nameAdjectives))]
	noun := nameNouns[rand.IntN(len(nameNouns))]
	return fmt.Sprintf("%s-%s-%03d", adj, noun, rand.IntN(1000))
}

// AvatarLetter returns the uppercased first letter of a display name,
// falling back to "V" for empty or non-letter input.
func AvatarLetter(name string) string {
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) {
			return strings.ToUpper(string(r))
		}
	}
	return "V"
}
