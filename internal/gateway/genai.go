// internal/gateway/genai.go
package gateway

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/niceai/studio-backend/internal/catalog"
	"github.com/niceai/studio-backend/internal/config"
	"github.com/niceai/studio-backend/internal/models"
)

// English product names used inside the generation prompts.
var productNames = map[models.Category]string{
	models.CategoryMousepad:  "High-Performance Gaming Mousepad",
	models.CategoryPhoneCase: "Premium Phone Protection Case",
	models.CategoryTShirt:    "Professional Fashion T-shirt",
	models.CategoryBedding:   "Luxury Hotel Collection Bedding",
}

const mockupAspectRatio = "9:16"

// GenAIGateway talks to the Gemini image model. Each Generate runs two
// upstream calls: a flat design render, then a mockup render seeded with
// the design.
type GenAIGateway struct {
	client *genai.Client
	model  string
}

func NewGenAIGateway(ctx context.Context, cfg config.GenAIConfig) (*GenAIGateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash-image"
	}

	return &GenAIGateway{client: client, model: model}, nil
}

func (g *GenAIGateway) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if len(req.ReferenceImages) > catalog.MaxReferenceImages {
		return nil, fmt.Errorf("at most %d reference images are allowed", catalog.MaxReferenceImages)
	}

	product := productNames[req.Category]

	// Pass 1: flat production design.
	parts := make([]*genai.Part, 0, len(req.ReferenceImages)+1)
	for _, img := range req.ReferenceImages {
		parts = append(parts, genai.NewPartFromBytes(img, "image/png"))
	}
	designPrompt := fmt.Sprintf(
		"Create a flat 2D production design for a %s. Brief: %q. Style: %s. "+
			"Plain white background, no perspective, high resolution. "+
			"Extract the core elements of any reference images provided.",
		product, req.Prompt, req.StyleHint,
	)
	parts = append(parts, genai.NewPartFromText(designPrompt))

	design, err := g.generateImage(ctx, parts, nil)
	if err != nil {
		return nil, fmt.Errorf("design generation failed: %w", err)
	}

	// Pass 2: photorealistic presentation board seeded with the design.
	mockupPrompt := fmt.Sprintf(
		"Create a 9:16 professional presentation board for this %s: "+
			"upper three quarters a lifestyle product photo, lower quarter a "+
			"close-up technical render, studio lighting, clean off-white "+
			"backdrop. Apply the provided design to the product surface with "+
			"correct perspective. Both sections must show the same item.",
		product,
	)
	mockupParts := []*genai.Part{
		genai.NewPartFromBytes(design, "image/png"),
		genai.NewPartFromText(mockupPrompt),
	}
	mockup, err := g.generateImage(ctx, mockupParts, &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: mockupAspectRatio},
	})
	if err != nil {
		return nil, fmt.Errorf("mockup generation failed: %w", err)
	}

	return &GenerateResult{Design: design, Mockup: mockup}, nil
}

func (g *GenAIGateway) RefreshMockup(ctx context.Context, req *RefreshRequest) ([]byte, error) {
	product := productNames[req.Category]
	prompt := fmt.Sprintf(
		"Update this 9:16 presentation board for the spec selection %q. "+
			"Keep the product a %s, keep the design applied in place, keep "+
			"the photography layout and lighting; only adjust the base color "+
			"and material details the specs describe.",
		req.SpecDescription, product,
	)
	parts := []*genai.Part{genai.NewPartFromBytes(req.Design, "image/png")}
	if len(req.PreviousMockup) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.PreviousMockup, "image/png"))
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	mockup, err := g.generateImage(ctx, parts, &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: mockupAspectRatio},
	})
	if err != nil {
		// Non-fatal: the caller keeps the previous mockup.
		logrus.WithError(err).Warn("Mockup refresh failed")
		return nil, nil
	}
	return mockup, nil
}

func (g *GenAIGateway) generateImage(ctx context.Context, parts []*genai.Part, cfg *genai.GenerateContentConfig) ([]byte, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, err
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, ErrEmptyResult
}
