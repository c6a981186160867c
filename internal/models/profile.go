// internal/models/profile.go
package models

import (
	"strings"
	"time"
)

const (
	GuestIDPrefix      = "GUEST-"
	RegisteredIDPrefix = "USER-"

	// Reserved author id for house-seeded content. Orders against official
	// works never grant the gold royalty.
	OfficialAuthorID = "OFFICIAL"

	DefaultGuestNickname      = "游客"
	DefaultRegisteredNickname = "灵感家"
)

// UserWork is a generated design: the flat design image plus the
// photorealistic mockup, with its engagement counters.
type UserWork struct {
	ID        string    `json:"id"`
	DesignRef string    `json:"design_ref"`
	MockupRef string    `json:"mockup_ref"`
	Category  Category  `json:"category"`
	Prompt    string    `json:"prompt"`
	IsPublic  bool      `json:"is_public"`
	Likes     int       `json:"likes"`
	Uses      int       `json:"uses"`
	Orders    int       `json:"orders"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// HotScore ranks public works in the gallery.
func (w *UserWork) HotScore() int {
	return w.Likes + w.Uses*2 + w.Orders*5
}

// CartItem wraps a work snapshot together with the chosen specs and the
// price/lead-time computed at add time. The embedded work is a copy, not a
// reference: later edits to the source work never change a pending item.
type CartItem struct {
	ID        string            `json:"id"`
	Work      UserWork          `json:"work"`
	Specs     map[string]string `json:"specs"`
	Price     float64           `json:"price"`
	LeadTime  int               `json:"lead_time"`
	MockupRef string            `json:"mockup_ref"`
	AddedAt   time.Time         `json:"added_at"`
}

// Order is a placed production order. Price, specs and category are frozen
// at placement; only status, QA records and tracking are expected to change,
// and those are advanced by the external fulfillment system.
type Order struct {
	ID             string            `json:"id"`
	WorkID         string            `json:"work_id"`
	Category       Category          `json:"category"`
	ImageRef       string            `json:"image_ref"`
	Specs          map[string]string `json:"specs"`
	Price          float64           `json:"price"`
	LeadTime       int               `json:"lead_time"`
	Status         OrderStatus       `json:"status"`
	QARecords      []string          `json:"qa_records"`
	TrackingNumber string            `json:"tracking_number,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// UserProfile is the root aggregate persisted as one blob per storage key.
// Works, orders and cart are insertion-ordered, newest first.
type UserProfile struct {
	ID           string     `json:"id"`
	Nickname     string     `json:"nickname"`
	Points       int        `json:"points"`
	Gold         int        `json:"gold"`
	Works        []UserWork `json:"works"`
	Orders       []Order    `json:"orders"`
	Cart         []CartItem `json:"cart"`
	ReferralCode string     `json:"referral_code"`
	InviteCount  int        `json:"invite_count"`
}

func (p *UserProfile) IsGuest() bool {
	return strings.HasPrefix(p.ID, GuestIDPrefix)
}

// FindWork returns the work with the given id, or nil.
func (p *UserProfile) FindWork(id string) *UserWork {
	for i := range p.Works {
		if p.Works[i].ID == id {
			return &p.Works[i]
		}
	}
	return nil
}

// FindCartItem returns the cart item with the given id, or nil.
func (p *UserProfile) FindCartItem(id string) *CartItem {
	for i := range p.Cart {
		if p.Cart[i].ID == id {
			return &p.Cart[i]
		}
	}
	return nil
}

// PublicWorks returns the public works sorted by descending hot score.
func (p *UserProfile) PublicWorks() []UserWork {
	public := make([]UserWork, 0, len(p.Works))
	for _, w := range p.Works {
		if w.IsPublic {
			public = append(public, w)
		}
	}
	for i := 1; i < len(public); i++ {
		for j := i; j > 0 && public[j].HotScore() > public[j-1].HotScore(); j-- {
			public[j], public[j-1] = public[j-1], public[j]
		}
	}
	return public
}

// Repair fills missing fields with their documented defaults and clamps
// balances that a damaged or legacy blob may have left negative. It never
// invents ids; callers fill those from the id generator.
func (p *UserProfile) Repair() {
	if p.Nickname == "" {
		p.Nickname = DefaultGuestNickname
	}
	if p.Points < 0 {
		p.Points = 0
	}
	if p.Gold < 0 {
		p.Gold = 0
	}
	if p.Works == nil {
		p.Works = []UserWork{}
	}
	if p.Orders == nil {
		p.Orders = []Order{}
	}
	if p.Cart == nil {
		p.Cart = []CartItem{}
	}
	for i := range p.Works {
		w := &p.Works[i]
		if w.Likes < 0 {
			w.Likes = 0
		}
		if w.Uses < 0 {
			w.Uses = 0
		}
		if w.Orders < 0 {
			w.Orders = 0
		}
	}
	for i := range p.Orders {
		if p.Orders[i].QARecords == nil {
			p.Orders[i].QARecords = []string{}
		}
		if p.Orders[i].Status == "" {
			p.Orders[i].Status = OrderStatusPending
		}
	}
}
