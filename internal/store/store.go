// internal/store/store.go
package store

import (
	"context"

	"github.com/niceai/studio-backend/internal/idgen"
	"github.com/niceai/studio-backend/internal/models"
)

// Store is the persistence port for user profiles. One storage key maps to
// one profile blob that is re-serialized wholesale on every save.
//
// Load never fails: absent or unparseable state yields a freshly constructed
// guest profile, and the data loss is accepted rather than recovered. Save
// errors are returned so callers can log them, but mutations are never
// rolled back because of persistence.
type Store interface {
	Load(ctx context.Context, key string) *models.UserProfile
	Save(ctx context.Context, key string, profile *models.UserProfile) error
}

// OrderMirror is implemented by stores that can hand placed orders off to
// the external fulfillment system. Mirroring is best effort.
type OrderMirror interface {
	MirrorOrder(ctx context.Context, key string, profileID string, order models.Order) error
}

// NewGuestProfile builds the fallback profile for a first-time or
// unrecoverable storage key: zero balances, empty lists, fresh guest id and
// referral code.
func NewGuestProfile(ids idgen.Generator) *models.UserProfile {
	return &models.UserProfile{
		ID:           ids.GuestID(),
		Nickname:     models.DefaultGuestNickname,
		Points:       0,
		Gold:         0,
		Works:        []models.UserWork{},
		Orders:       []models.Order{},
		Cart:         []models.CartItem{},
		ReferralCode: ids.ReferralCode(),
		InviteCount:  0,
	}
}

// repairLoaded normalizes a parsed blob: documented defaults for missing
// fields, and fresh ids where a legacy blob never had them.
func repairLoaded(profile *models.UserProfile, ids idgen.Generator) {
	profile.Repair()
	if profile.ID == "" {
		profile.ID = ids.GuestID()
	}
	if profile.ReferralCode == "" {
		profile.ReferralCode = ids.ReferralCode()
	}
}
