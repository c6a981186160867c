// internal/services/generation_service_test.go
package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niceai/studio-backend/internal/catalog"
	"github.com/niceai/studio-backend/internal/config"
	"github.com/niceai/studio-backend/internal/gateway"
	"github.com/niceai/studio-backend/internal/models"
)

// fakeGateway counts calls and can be made to fail or block.
type fakeGateway struct {
	calls   atomic.Int64
	fail    bool
	entered chan struct{}
	release chan struct{}

	lastRequest *gateway.GenerateRequest
	lastRefresh *gateway.RefreshRequest
}

func (f *fakeGateway) Generate(ctx context.Context, req *gateway.GenerateRequest) (*gateway.GenerateResult, error) {
	f.calls.Add(1)
	f.lastRequest = req
	if f.entered != nil {
		close(f.entered)
		<-f.release
	}
	if f.fail {
		return nil, errors.New("upstream exploded")
	}
	return &gateway.GenerateResult{
		Design: []byte("design-bytes"),
		Mockup: []byte("mockup-bytes"),
	}, nil
}

func (f *fakeGateway) RefreshMockup(ctx context.Context, req *gateway.RefreshRequest) ([]byte, error) {
	f.lastRefresh = req
	if f.fail {
		return nil, errors.New("upstream exploded")
	}
	return []byte("refreshed-mockup"), nil
}

func newTestGenerationService(t *testing.T, gw gateway.Gateway) (*GenerationService, *ProfileService) {
	t.Helper()
	profiles, _ := newTestProfileService()

	cfg := &config.Config{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "8080"
	cfg.AWS.LocalUploadsDir = t.TempDir()

	storage, err := NewStorageService(cfg)
	require.NoError(t, err)

	return NewGenerationService(profiles, gw, storage), profiles
}

func validInput() *GenerateInput {
	return &GenerateInput{
		Prompt:   "星空下的鲸鱼",
		Category: models.CategoryTShirt,
		StyleID:  "cyber",
	}
}

func TestGenerateHappyPath(t *testing.T) {
	gw := &fakeGateway{}
	svc, profiles := newTestGenerationService(t, gw)
	ctx := context.Background()

	registered(t, profiles, "k")
	work, err := svc.Generate(ctx, "k", validInput())
	require.NoError(t, err)

	assert.Contains(t, work.DesignRef, "/uploads/designs/")
	assert.Contains(t, work.MockupRef, "/uploads/mockups/")
	assert.Equal(t, models.CategoryTShirt, work.Category)
	assert.Equal(t, models.DefaultRegisteredNickname, work.Author)

	profile := profiles.Get(ctx, "k")
	assert.Equal(t, catalog.InitialPoints-catalog.GenerationCost, profile.Points)
	require.Len(t, profile.Works, 1)

	// The style preset decorates the upstream request.
	require.NotNil(t, gw.lastRequest)
	assert.Contains(t, gw.lastRequest.StyleHint, "Cyberpunk")
}

func TestGenerateGuestIsBlockedBeforeGatewayCall(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestGenerationService(t, gw)

	_, err := svc.Generate(context.Background(), "k", validInput())
	assert.ErrorIs(t, err, ErrRegistrationRequired)
	assert.Zero(t, gw.calls.Load())
}

func TestGenerateEmptyPrompt(t *testing.T) {
	gw := &fakeGateway{}
	svc, profiles := newTestGenerationService(t, gw)

	registered(t, profiles, "k")
	in := validInput()
	in.Prompt = "   "
	_, err := svc.Generate(context.Background(), "k", in)
	assert.ErrorIs(t, err, ErrPromptRequired)
	assert.Zero(t, gw.calls.Load())
}

func TestGenerateTooManyReferences(t *testing.T) {
	gw := &fakeGateway{}
	svc, profiles := newTestGenerationService(t, gw)

	registered(t, profiles, "k")
	in := validInput()
	in.ReferenceImages = make([][]byte, catalog.MaxReferenceImages+1)
	_, err := svc.Generate(context.Background(), "k", in)
	assert.ErrorIs(t, err, ErrTooManyReferences)
	assert.Zero(t, gw.calls.Load())
}

func TestGenerateInsufficientPointsBeforeGatewayCall(t *testing.T) {
	gw := &fakeGateway{}
	svc, profiles := newTestGenerationService(t, gw)
	ctx := context.Background()

	registered(t, profiles, "k")
	_, err := profiles.DeductPoints(ctx, "k", catalog.InitialPoints-catalog.GenerationCost+1)
	require.NoError(t, err)

	_, err = svc.Generate(ctx, "k", validInput())
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Zero(t, gw.calls.Load())
}

func TestGenerateUpstreamFailureCostsNothing(t *testing.T) {
	gw := &fakeGateway{fail: true}
	svc, profiles := newTestGenerationService(t, gw)
	ctx := context.Background()

	registered(t, profiles, "k")
	_, err := svc.Generate(ctx, "k", validInput())
	assert.ErrorIs(t, err, ErrGenerationFailed)

	profile := profiles.Get(ctx, "k")
	assert.Equal(t, catalog.InitialPoints, profile.Points)
	assert.Empty(t, profile.Works)
}

func TestGenerateRejectsConcurrentRun(t *testing.T) {
	gw := &fakeGateway{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc, profiles := newTestGenerationService(t, gw)
	ctx := context.Background()

	registered(t, profiles, "k")

	done := make(chan error, 1)
	go func() {
		_, err := svc.Generate(ctx, "k", validInput())
		done <- err
	}()

	select {
	case <-gw.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first generation never reached the gateway")
	}

	_, err := svc.Generate(ctx, "k", validInput())
	assert.ErrorIs(t, err, ErrGenerationBusy)

	close(gw.release)
	require.NoError(t, <-done)

	// The slot frees up once the first run finishes.
	gw.entered = nil
	_, err = svc.Generate(ctx, "k", validInput())
	assert.NoError(t, err)
}

func TestGenerateWithoutGateway(t *testing.T) {
	svc, profiles := newTestGenerationService(t, nil)

	registered(t, profiles, "k")
	_, err := svc.Generate(context.Background(), "k", validInput())
	assert.ErrorIs(t, err, ErrGenerationDisabled)
}

func TestRefreshMockupSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("design-bytes"))
	}))
	defer server.Close()

	gw := &fakeGateway{}
	svc, profiles := newTestGenerationService(t, gw)
	ctx := context.Background()

	registered(t, profiles, "k")
	work := addWork(t, profiles, "k", models.UserWork{
		Prompt:    "x",
		Category:  models.CategoryMousepad,
		DesignRef: server.URL + "/design.png",
	})

	ref, err := svc.RefreshMockup(ctx, "k", work.ID, map[string]string{"size": "XL"}, "")
	require.NoError(t, err)
	assert.Contains(t, ref, "/uploads/previews/")
}

func TestRefreshMockupDiscardsSupersededPreview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("design-bytes"))
	}))
	defer server.Close()

	gw := &fakeGateway{}
	svc, profiles := newTestGenerationService(t, gw)
	ctx := context.Background()

	registered(t, profiles, "k")
	work := addWork(t, profiles, "k", models.UserWork{
		Prompt:    "x",
		Category:  models.CategoryMousepad,
		DesignRef: server.URL + "/design.png",
	})

	stale, err := svc.storage.PutImage([]byte("old-preview"), "previews")
	require.NoError(t, err)
	stalePath := filepath.Join(svc.storage.config.AWS.LocalUploadsDir, filepath.FromSlash(stale.Key))
	_, err = os.Stat(stalePath)
	require.NoError(t, err)

	ref, err := svc.RefreshMockup(ctx, "k", work.ID, map[string]string{"size": "XL"}, stale.URL)
	require.NoError(t, err)
	assert.Contains(t, ref, "/uploads/previews/")
	assert.NotEqual(t, stale.URL, ref)

	require.Eventually(t, func() bool {
		_, err := os.Stat(stalePath)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond, "superseded preview should be deleted")
}

func TestRefreshMockupForwardsPreviousPreview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "prev") {
			w.Write([]byte("previous-bytes"))
			return
		}
		w.Write([]byte("design-bytes"))
	}))
	defer server.Close()

	gw := &fakeGateway{}
	svc, profiles := newTestGenerationService(t, gw)

	registered(t, profiles, "k")
	work := addWork(t, profiles, "k", models.UserWork{
		Prompt:    "x",
		Category:  models.CategoryMousepad,
		DesignRef: server.URL + "/design.png",
	})

	_, err := svc.RefreshMockup(context.Background(), "k", work.ID, map[string]string{}, server.URL+"/prev.png")
	require.NoError(t, err)

	require.NotNil(t, gw.lastRefresh)
	assert.Equal(t, []byte("previous-bytes"), gw.lastRefresh.PreviousMockup)
	assert.Equal(t, []byte("design-bytes"), gw.lastRefresh.Design)
}

func TestRefreshMockupFallsBackToStoredMockup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "mockup") {
			w.Write([]byte("stored-mockup-bytes"))
			return
		}
		w.Write([]byte("design-bytes"))
	}))
	defer server.Close()

	gw := &fakeGateway{}
	svc, profiles := newTestGenerationService(t, gw)

	registered(t, profiles, "k")
	work := addWork(t, profiles, "k", models.UserWork{
		Prompt:    "x",
		Category:  models.CategoryMousepad,
		DesignRef: server.URL + "/design.png",
		MockupRef: server.URL + "/mockup.png",
	})

	_, err := svc.RefreshMockup(context.Background(), "k", work.ID, map[string]string{}, "")
	require.NoError(t, err)

	require.NotNil(t, gw.lastRefresh)
	assert.Equal(t, []byte("stored-mockup-bytes"), gw.lastRefresh.PreviousMockup)
}

func TestDiscardPreviewLeavesOtherImagesAlone(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestGenerationService(t, gw)

	design, err := svc.storage.PutImage([]byte("design-bytes"), "designs")
	require.NoError(t, err)
	designPath := filepath.Join(svc.storage.config.AWS.LocalUploadsDir, filepath.FromSlash(design.Key))

	svc.DiscardPreview(design.URL)
	time.Sleep(100 * time.Millisecond)

	_, err = os.Stat(designPath)
	assert.NoError(t, err, "only preview images may be deleted")
}

func TestRefreshMockupSoftFailsOnUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("design-bytes"))
	}))
	defer server.Close()

	gw := &fakeGateway{fail: true}
	svc, profiles := newTestGenerationService(t, gw)

	registered(t, profiles, "k")
	work := addWork(t, profiles, "k", models.UserWork{
		Prompt:    "x",
		Category:  models.CategoryMousepad,
		DesignRef: server.URL + "/design.png",
	})

	ref, err := svc.RefreshMockup(context.Background(), "k", work.ID, map[string]string{}, "")
	assert.NoError(t, err)
	assert.Empty(t, ref)
}

func TestRefreshMockupSoftFailsWhenDesignUnreachable(t *testing.T) {
	gw := &fakeGateway{}
	svc, profiles := newTestGenerationService(t, gw)

	registered(t, profiles, "k")
	work := addWork(t, profiles, "k", models.UserWork{
		Prompt:    "x",
		Category:  models.CategoryMousepad,
		DesignRef: "http://127.0.0.1:1/missing.png",
	})

	ref, err := svc.RefreshMockup(context.Background(), "k", work.ID, map[string]string{}, "")
	assert.NoError(t, err)
	assert.Empty(t, ref)
}

func TestRefreshMockupUnknownWork(t *testing.T) {
	gw := &fakeGateway{}
	svc, profiles := newTestGenerationService(t, gw)

	registered(t, profiles, "k")
	_, err := svc.RefreshMockup(context.Background(), "k", "ghost", map[string]string{}, "")
	assert.ErrorIs(t, err, ErrWorkNotFound)
}

func TestDecodingReferenceDoesNotAffectPrompt(t *testing.T) {
	gw := &fakeGateway{}
	svc, profiles := newTestGenerationService(t, gw)
	ctx := context.Background()

	registered(t, profiles, "k")
	in := validInput()
	in.Prompt = "  边缘留白的鲸鱼  "
	in.ReferenceImages = [][]byte{[]byte("ref-1"), []byte("ref-2")}

	work, err := svc.Generate(ctx, "k", in)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(in.Prompt), work.Prompt)
	require.NotNil(t, gw.lastRequest)
	assert.Len(t, gw.lastRequest.ReferenceImages, 2)
}
