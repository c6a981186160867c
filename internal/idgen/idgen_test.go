// internal/idgen/idgen_test.go
package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomPrefixes(t *testing.T) {
	ids := NewRandom()

	assert.True(t, strings.HasPrefix(ids.GuestID(), "GUEST-"))
	assert.True(t, strings.HasPrefix(ids.UserID(), "USER-"))
	assert.True(t, strings.HasPrefix(ids.OrderCode(), "C2M-"))
	assert.True(t, strings.HasPrefix(ids.ReferralCode(), "NICE-"))

	assert.Len(t, ids.GuestID(), len("GUEST-")+4)
	assert.Len(t, ids.UserID(), len("USER-")+6)
	assert.Len(t, ids.OrderCode(), len("C2M-")+9)
	assert.Len(t, ids.ReferralCode(), len("NICE-")+4)
}

func TestRandomTokenAlphabet(t *testing.T) {
	ids := NewRandom()
	for i := 0; i < 50; i++ {
		code := strings.TrimPrefix(ids.OrderCode(), "C2M-")
		for _, r := range code {
			assert.Contains(t, tokenCharset, string(r))
		}
	}
}

func TestRandomIDsAreDistinct(t *testing.T) {
	ids := NewRandom()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		for _, id := range []string{ids.WorkID(), ids.CartItemID(), ids.StorageKey(), ids.OrderCode()} {
			assert.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	}
}

func TestSequenceIsDeterministic(t *testing.T) {
	ids := NewSequence()

	assert.Equal(t, "GUEST-1", ids.GuestID())
	assert.Equal(t, "work-2", ids.WorkID())
	assert.Equal(t, "C2M-3", ids.OrderCode())
	assert.Equal(t, "USER-4", ids.UserID())
}
