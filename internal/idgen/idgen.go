// internal/idgen/idgen.go
package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator issues every id the profile model needs. It sits behind an
// interface so tests can inject deterministic ids.
type Generator interface {
	GuestID() string
	UserID() string
	WorkID() string
	CartItemID() string
	OrderCode() string
	ReferralCode() string
	StorageKey() string
}

// Random is the production generator: uuid for internal record ids,
// short upper-case tokens for the user-facing codes.
type Random struct{}

func NewRandom() *Random {
	return &Random{}
}

const tokenCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randomToken(length int) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(tokenCharset))))
		if err != nil {
			// crypto/rand only fails when the platform source is broken;
			// fall back to a uuid-derived byte rather than a short token.
			b[i] = uuid.New().String()[0]
			continue
		}
		b[i] = tokenCharset[n.Int64()]
	}
	return string(b)
}

func (r *Random) GuestID() string      { return "GUEST-" + randomToken(4) }
func (r *Random) UserID() string       { return "USER-" + randomToken(6) }
func (r *Random) WorkID() string       { return uuid.NewString() }
func (r *Random) CartItemID() string   { return uuid.NewString() }
func (r *Random) OrderCode() string    { return "C2M-" + randomToken(9) }
func (r *Random) ReferralCode() string { return "NICE-" + randomToken(4) }
func (r *Random) StorageKey() string   { return uuid.NewString() }

// Sequence is a deterministic generator for tests: every id carries its kind
// and a monotonic counter.
type Sequence struct {
	n atomic.Uint64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) next(kind string) string {
	return fmt.Sprintf("%s-%d", kind, s.n.Add(1))
}

func (s *Sequence) GuestID() string      { return s.next("GUEST") }
func (s *Sequence) UserID() string       { return s.next("USER") }
func (s *Sequence) WorkID() string       { return s.next("work") }
func (s *Sequence) CartItemID() string   { return s.next("cart") }
func (s *Sequence) OrderCode() string    { return s.next("C2M") }
func (s *Sequence) ReferralCode() string { return s.next("NICE") }
func (s *Sequence) StorageKey() string   { return s.next("key") }
