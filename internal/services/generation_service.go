// internal/services/generation_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/niceai/studio-backend/internal/catalog"
	"github.com/niceai/studio-backend/internal/gateway"
	"github.com/niceai/studio-backend/internal/models"
)

// GenerationService runs the image generation flow: validate, gate on
// registration and balance, call the model, persist the images, and only
// then charge the points. A failed upstream call never costs points.
type GenerationService struct {
	profiles *ProfileService
	gw       gateway.Gateway
	storage  *StorageService

	mu       sync.Mutex
	inflight map[string]bool

	httpClient *http.Client
}

func NewGenerationService(profiles *ProfileService, gw gateway.Gateway, storage *StorageService) *GenerationService {
	return &GenerationService{
		profiles:   profiles,
		gw:         gw,
		storage:    storage,
		inflight:   make(map[string]bool),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GenerateInput is one generation request from the create screen.
type GenerateInput struct {
	Prompt          string
	Category        models.Category
	StyleID         string
	ReferenceImages [][]byte
}

// Generate produces a new work for the profile. At most one generation per
// profile runs at a time; a second request while one is in flight is
// rejected rather than queued.
func (s *GenerationService) Generate(ctx context.Context, key string, in *GenerateInput) (*models.UserWork, error) {
	if s.gw == nil {
		return nil, ErrGenerationDisabled
	}
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}
	if len(in.ReferenceImages) > catalog.MaxReferenceImages {
		return nil, ErrTooManyReferences
	}
	if !in.Category.Valid() {
		return nil, ErrUnknownCategory
	}

	profile := s.profiles.Get(ctx, key)
	if profile.IsGuest() {
		return nil, ErrRegistrationRequired
	}
	if profile.Points < catalog.GenerationCost {
		return nil, ErrInsufficientPoints
	}

	if !s.acquire(key) {
		return nil, ErrGenerationBusy
	}
	defer s.release(key)

	styleHint := ""
	if style, ok := catalog.StyleByID(in.StyleID); ok {
		styleHint = style.PromptSuffix
	}

	result, err := s.gw.Generate(ctx, &gateway.GenerateRequest{
		Prompt:          prompt,
		Category:        in.Category,
		StyleHint:       styleHint,
		ReferenceImages: in.ReferenceImages,
	})
	if err != nil {
		logrus.WithError(err).WithField("storage_key", key).Error("Generation failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	design, err := s.storage.PutImage(result.Design, "designs")
	if err != nil {
		return nil, fmt.Errorf("failed to store design image: %w", err)
	}
	mockup, err := s.storage.PutImage(result.Mockup, "mockups")
	if err != nil {
		return nil, fmt.Errorf("failed to store mockup image: %w", err)
	}

	return s.profiles.RecordGeneration(ctx, key, models.UserWork{
		DesignRef: design.URL,
		MockupRef: mockup.URL,
		Category:  in.Category,
		Prompt:    prompt,
		Author:    profile.Nickname,
	})
}

// RefreshMockup re-renders a work's mockup for the current spec selection.
// previousRef is the preview the client is currently showing; it seeds the
// model so the layout stays stable, and a successful refresh discards it.
// The operation is free and non-fatal: any failure returns the empty
// string and the caller keeps showing the previous mockup.
func (s *GenerationService) RefreshMockup(ctx context.Context, key, workID string, specs map[string]string, previousRef string) (string, error) {
	if s.gw == nil {
		return "", nil
	}
	profile := s.profiles.Get(ctx, key)
	work := profile.FindWork(workID)
	if work == nil {
		return "", ErrWorkNotFound
	}
	info, ok := catalog.Get(work.Category)
	if !ok {
		return "", ErrUnknownCategory
	}

	design, err := s.fetchImage(ctx, work.DesignRef)
	if err != nil {
		logrus.WithError(err).WithField("work", workID).Warn("Skipping mockup refresh, design image unavailable")
		return "", nil
	}

	previousRef = strings.TrimSpace(previousRef)
	previousURL := previousRef
	if previousURL == "" {
		previousURL = work.MockupRef
	}
	var previous []byte
	if previousURL != "" {
		if data, err := s.fetchImage(ctx, previousURL); err == nil {
			previous = data
		}
	}

	refreshed, err := s.gw.RefreshMockup(ctx, &gateway.RefreshRequest{
		Design:          design,
		PreviousMockup:  previous,
		Category:        work.Category,
		SpecDescription: catalog.DescribeSpecs(info, specs),
	})
	if err != nil || refreshed == nil {
		return "", nil
	}

	stored, err := s.storage.PutImage(refreshed, "previews")
	if err != nil {
		logrus.WithError(err).Warn("Failed to store refreshed mockup")
		return "", nil
	}
	if previousRef != "" {
		s.DiscardPreview(previousRef)
	}
	return stored.URL, nil
}

// DiscardPreview deletes the superseded configure preview behind ref.
// Only preview images are ever deleted; design and mockup refs stay,
// orders keep pointing at them.
func (s *GenerationService) DiscardPreview(ref string) {
	key := s.storage.KeyFromRef(ref)
	if strings.HasPrefix(key, "previews/") {
		s.storage.DeleteImageAsync(key)
	}
}

func (s *GenerationService) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching image", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *GenerationService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[key] {
		return false
	}
	s.inflight[key] = true
	return true
}

func (s *GenerationService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}
