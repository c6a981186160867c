// internal/services/profile_service.go
package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/niceai/studio-backend/internal/catalog"
	"github.com/niceai/studio-backend/internal/idgen"
	"github.com/niceai/studio-backend/internal/models"
	"github.com/niceai/studio-backend/internal/store"
)

// ProfileService owns every mutation of the profile aggregate. Each
// mutation loads the blob, applies the change and re-persists the whole
// profile under a per-storage-key lock, so no partial state is ever
// observable. Persistence failures are logged, never surfaced.
type ProfileService struct {
	store store.Store
	ids   idgen.Generator

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewProfileService(st store.Store, ids idgen.Generator) *ProfileService {
	return &ProfileService{
		store: st,
		ids:   ids,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *ProfileService) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// mutate runs fn against the profile for key and persists the result.
// fn errors abort without saving; save errors are swallowed by design.
func (s *ProfileService) mutate(ctx context.Context, key string, fn func(p *models.UserProfile) error) (*models.UserProfile, error) {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	profile := s.store.Load(ctx, key)
	if err := fn(profile); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, key, profile); err != nil {
		logrus.WithError(err).WithField("storage_key", key).Error("Failed to persist profile")
	}
	return profile, nil
}

// Get returns the current profile, creating and persisting a guest profile
// on first access.
func (s *ProfileService) Get(ctx context.Context, key string) *models.UserProfile {
	profile, _ := s.mutate(ctx, key, func(*models.UserProfile) error { return nil })
	return profile
}

// UpdateNickname renames the profile. Blank names are ignored.
func (s *ProfileService) UpdateNickname(ctx context.Context, key, nickname string) (*models.UserProfile, error) {
	nickname = strings.TrimSpace(nickname)
	return s.mutate(ctx, key, func(p *models.UserProfile) error {
		if nickname != "" {
			p.Nickname = nickname
		}
		return nil
	})
}

// RegisterOrLogin transitions a guest profile to a registered one, granting
// the signup bonus and, when a non-empty referral code was supplied, the
// referral bonus on top. Calling it on a registered profile is rejected so
// bonuses can never be double-granted.
func (s *ProfileService) RegisterOrLogin(ctx context.Context, key, referralCode string) (*models.UserProfile, error) {
	referralCode = strings.TrimSpace(referralCode)
	return s.mutate(ctx, key, func(p *models.UserProfile) error {
		if !p.IsGuest() {
			return ErrAlreadyRegistered
		}
		p.ID = s.ids.UserID()
		if p.Nickname == models.DefaultGuestNickname || p.Nickname == "" {
			p.Nickname = models.DefaultRegisteredNickname
		}
		p.Points += catalog.InitialPoints
		if referralCode != "" {
			// The code is not resolved against a user registry here; any
			// non-empty code earns the bonus.
			p.Points += catalog.ReferralBonusPoints
		}
		if p.ReferralCode == "" {
			p.ReferralCode = s.ids.ReferralCode()
		}
		return nil
	})
}

// DeductPoints subtracts a spend from the points balance. The balance is
// never driven below zero.
func (s *ProfileService) DeductPoints(ctx context.Context, key string, amount int) (*models.UserProfile, error) {
	return s.mutate(ctx, key, func(p *models.UserProfile) error {
		if p.Points < amount {
			return ErrInsufficientPoints
		}
		p.Points -= amount
		return nil
	})
}

// CreditPoints adds purchased or rewarded points.
func (s *ProfileService) CreditPoints(ctx context.Context, key string, amount int) (*models.UserProfile, error) {
	return s.mutate(ctx, key, func(p *models.UserProfile) error {
		if amount > 0 {
			p.Points += amount
		}
		return nil
	})
}

// RecordGeneration commits a successful generation: deducts the generation
// cost and prepends the new work, in one atomic profile replace.
func (s *ProfileService) RecordGeneration(ctx context.Context, key string, work models.UserWork) (*models.UserWork, error) {
	work.ID = s.ids.WorkID()
	work.CreatedAt = time.Now()
	work.Likes, work.Uses, work.Orders = 0, 0, 0

	profile, err := s.mutate(ctx, key, func(p *models.UserProfile) error {
		if p.Points < catalog.GenerationCost {
			return ErrInsufficientPoints
		}
		p.Points -= catalog.GenerationCost
		p.Works = append([]models.UserWork{work}, p.Works...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile.FindWork(work.ID), nil
}

// AddToCart snapshots a work with the chosen specs. Price and lead time
// are computed server-side from the catalog; identical configurations may
// appear multiple times.
func (s *ProfileService) AddToCart(ctx context.Context, key, workID string, specs map[string]string, mockupRef string) (*models.CartItem, error) {
	var added models.CartItem
	_, err := s.mutate(ctx, key, func(p *models.UserProfile) error {
		work := p.FindWork(workID)
		if work == nil {
			return ErrWorkNotFound
		}
		info, ok := catalog.Get(work.Category)
		if !ok {
			return ErrUnknownCategory
		}
		stats := catalog.ComputeStats(info, specs)
		if mockupRef == "" {
			mockupRef = work.MockupRef
		}
		item := models.CartItem{
			ID:        s.ids.CartItemID(),
			Work:      *work,
			Specs:     specs,
			Price:     stats.Price,
			LeadTime:  stats.LeadTime,
			MockupRef: mockupRef,
			AddedAt:   time.Now(),
		}
		added = item
		p.Cart = append([]models.CartItem{item}, p.Cart...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// RemoveFromCart removes by id; an absent id is a no-op.
func (s *ProfileService) RemoveFromCart(ctx context.Context, key, itemID string) error {
	_, err := s.mutate(ctx, key, func(p *models.UserProfile) error {
		for i := range p.Cart {
			if p.Cart[i].ID == itemID {
				p.Cart = append(p.Cart[:i], p.Cart[i+1:]...)
				break
			}
		}
		return nil
	})
	return err
}

// OrderDraft is a direct order placed from the configure screen.
type OrderDraft struct {
	WorkID   string
	Specs    map[string]string
	ImageRef string
}

// PlaceOrder places a direct order for a configured work. The cart is left
// untouched.
func (s *ProfileService) PlaceOrder(ctx context.Context, key string, draft *OrderDraft) (*models.Order, error) {
	var placed models.Order
	profile, err := s.mutate(ctx, key, func(p *models.UserProfile) error {
		work := p.FindWork(draft.WorkID)
		if work == nil {
			return ErrWorkNotFound
		}
		info, ok := catalog.Get(work.Category)
		if !ok {
			return ErrUnknownCategory
		}
		stats := catalog.ComputeStats(info, draft.Specs)
		imageRef := draft.ImageRef
		if imageRef == "" {
			imageRef = work.MockupRef
		}
		placed = s.commitOrder(p, models.Order{
			WorkID:   work.ID,
			Category: work.Category,
			ImageRef: imageRef,
			Specs:    draft.Specs,
			Price:    stats.Price,
			LeadTime: stats.LeadTime,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.mirrorOrder(key, profile.ID, placed)
	return &placed, nil
}

// PlaceOrderFromCart orders one cart item with the price and lead time
// frozen at add time, then removes the item in the same profile replace.
func (s *ProfileService) PlaceOrderFromCart(ctx context.Context, key, cartItemID string) (*models.Order, error) {
	var placed models.Order
	profile, err := s.mutate(ctx, key, func(p *models.UserProfile) error {
		item := p.FindCartItem(cartItemID)
		if item == nil {
			return ErrCartItemNotFound
		}
		placed = s.commitOrder(p, models.Order{
			WorkID:   item.Work.ID,
			Category: item.Work.Category,
			ImageRef: item.MockupRef,
			Specs:    item.Specs,
			Price:    item.Price,
			LeadTime: item.LeadTime,
		})
		for i := range p.Cart {
			if p.Cart[i].ID == cartItemID {
				p.Cart = append(p.Cart[:i], p.Cart[i+1:]...)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.mirrorOrder(key, profile.ID, placed)
	return &placed, nil
}

// commitOrder assigns the order code, prepends the order, bumps the source
// work's order counter when it still exists, and grants the gold royalty.
// The reserved official account earns no gold.
func (s *ProfileService) commitOrder(p *models.UserProfile, order models.Order) models.Order {
	order.ID = s.ids.OrderCode()
	order.Status = models.OrderStatusPending
	order.QARecords = []string{}
	order.CreatedAt = time.Now()

	if work := p.FindWork(order.WorkID); work != nil {
		work.Orders++
	}
	if p.ID != models.OfficialAuthorID {
		p.Gold += catalog.RoyaltyGold
	}
	p.Orders = append([]models.Order{order}, p.Orders...)
	return order
}

// mirrorOrder hands the placed order to the fulfillment table when the
// store supports it. Best effort: a mirror failure never fails the order.
func (s *ProfileService) mirrorOrder(key, profileID string, order models.Order) {
	mirror, ok := s.store.(store.OrderMirror)
	if !ok {
		return
	}
	go func() {
		mctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mirror.MirrorOrder(mctx, key, profileID, order); err != nil {
			logrus.WithError(err).WithField("order", order.ID).Error("Failed to mirror order for fulfillment")
		}
	}()
}

// QuoteWork copies a public work into the configure flow: the source's
// uses counter is incremented, and with saveToLibrary the work is copied
// into the profile's library unless a copy (same design, same author) is
// already there. The returned work is what the caller should configure.
func (s *ProfileService) QuoteWork(ctx context.Context, key, workID string, saveToLibrary bool) (*models.UserWork, error) {
	var quoted models.UserWork
	_, err := s.mutate(ctx, key, func(p *models.UserProfile) error {
		source := p.FindWork(workID)
		if source == nil {
			return ErrWorkNotFound
		}
		source.Uses++
		quoted = *source

		if !saveToLibrary {
			return nil
		}
		for i := range p.Works {
			w := &p.Works[i]
			if w.ID != source.ID && w.DesignRef == source.DesignRef && w.Author == source.Author {
				// Already quoted into the library once.
				quoted = *w
				return nil
			}
		}
		copyWork := *source
		copyWork.ID = s.ids.WorkID()
		copyWork.CreatedAt = time.Now()
		p.Works = append([]models.UserWork{copyWork}, p.Works...)
		quoted = copyWork
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &quoted, nil
}

// ToggleVisibility flips the public flag; an absent id is a no-op.
func (s *ProfileService) ToggleVisibility(ctx context.Context, key, workID string) (*models.UserProfile, error) {
	return s.mutate(ctx, key, func(p *models.UserProfile) error {
		if work := p.FindWork(workID); work != nil {
			work.IsPublic = !work.IsPublic
		}
		return nil
	})
}

// LikeWork increments the like counter; an absent id is a no-op.
func (s *ProfileService) LikeWork(ctx context.Context, key, workID string) (*models.UserProfile, error) {
	return s.mutate(ctx, key, func(p *models.UserProfile) error {
		if work := p.FindWork(workID); work != nil {
			work.Likes++
		}
		return nil
	})
}

// DeleteWork removes a work from the library. Orders that referenced it
// keep their denormalized copy untouched.
func (s *ProfileService) DeleteWork(ctx context.Context, key, workID string) (*models.UserProfile, error) {
	return s.mutate(ctx, key, func(p *models.UserProfile) error {
		for i := range p.Works {
			if p.Works[i].ID == workID {
				p.Works = append(p.Works[:i], p.Works[i+1:]...)
				break
			}
		}
		return nil
	})
}
