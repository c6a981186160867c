// internal/models/profile_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotScoreWeighting(t *testing.T) {
	w := UserWork{Likes: 3, Uses: 2, Orders: 1}
	assert.Equal(t, 3+2*2+1*5, w.HotScore())
}

func TestPublicWorksSortedByHotScore(t *testing.T) {
	p := UserProfile{
		Works: []UserWork{
			{ID: "cold", IsPublic: true, Likes: 1},
			{ID: "private", IsPublic: false, Likes: 100},
			{ID: "hot", IsPublic: true, Orders: 10},
			{ID: "warm", IsPublic: true, Uses: 5},
		},
	}

	public := p.PublicWorks()
	require.Len(t, public, 3)
	assert.Equal(t, "hot", public[0].ID)
	assert.Equal(t, "warm", public[1].ID)
	assert.Equal(t, "cold", public[2].ID)
}

func TestIsGuest(t *testing.T) {
	assert.True(t, (&UserProfile{ID: "GUEST-AB12"}).IsGuest())
	assert.False(t, (&UserProfile{ID: "USER-AB12CD"}).IsGuest())
	assert.False(t, (&UserProfile{ID: OfficialAuthorID}).IsGuest())
}

func TestRepairClampsAndFillsDefaults(t *testing.T) {
	p := UserProfile{
		Points: -10,
		Gold:   -1,
		Works:  []UserWork{{ID: "w", Likes: -3}},
		Orders: []Order{{ID: "o"}},
	}
	p.Repair()

	assert.Equal(t, DefaultGuestNickname, p.Nickname)
	assert.Equal(t, 0, p.Points)
	assert.Equal(t, 0, p.Gold)
	assert.Equal(t, 0, p.Works[0].Likes)
	assert.NotNil(t, p.Cart)
	assert.Equal(t, OrderStatusPending, p.Orders[0].Status)
	assert.NotNil(t, p.Orders[0].QARecords)
}

func TestRepairSurvivesPartialBlob(t *testing.T) {
	var p UserProfile
	require.NoError(t, json.Unmarshal([]byte(`{"id":"USER-XYZ123"}`), &p))
	p.Repair()

	assert.Equal(t, "USER-XYZ123", p.ID)
	assert.NotNil(t, p.Works)
	assert.NotNil(t, p.Orders)
	assert.NotNil(t, p.Cart)
}

func TestFindersReturnNilForAbsentIDs(t *testing.T) {
	p := UserProfile{
		Works: []UserWork{{ID: "w1"}},
		Cart:  []CartItem{{ID: "c1"}},
	}

	assert.NotNil(t, p.FindWork("w1"))
	assert.Nil(t, p.FindWork("w2"))
	assert.NotNil(t, p.FindCartItem("c1"))
	assert.Nil(t, p.FindCartItem("c2"))
}
