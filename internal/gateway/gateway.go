// internal/gateway/gateway.go
package gateway

import (
	"context"
	"errors"

	"github.com/niceai/studio-backend/internal/models"
)

// ErrEmptyResult is returned when the upstream model answered but produced
// no image part.
var ErrEmptyResult = errors.New("generation returned no image")

// GenerateRequest asks for a flat design plus a product mockup. At most
// five reference images are accepted; the service layer enforces that
// before any upstream call.
type GenerateRequest struct {
	Prompt          string
	Category        models.Category
	StyleHint       string
	ReferenceImages [][]byte
}

// GenerateResult carries the two produced image blobs.
type GenerateResult struct {
	Design []byte
	Mockup []byte
}

// RefreshRequest re-renders the mockup for an updated spec selection.
type RefreshRequest struct {
	Design          []byte
	Category        models.Category
	SpecDescription string
	PreviousMockup  []byte
}

// Gateway is the external generative-image collaborator. Generate fails
// hard on upstream errors or empty results; RefreshMockup is non-fatal and
// returns (nil, nil) when the caller should keep the previous mockup.
type Gateway interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)
	RefreshMockup(ctx context.Context, req *RefreshRequest) ([]byte, error)
}
