package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"summaryplus/internal/models"
)

// Part is one piece of a composite request: either text or inline binary
// media (image or PDF bytes with their MIME type).
type Part struct {
	Text string
	Data []byte
	MIME string
}

// Generator is the opaque generate(prompt, parts, history) -> text function
// the rest of the service programs against.
type Generator interface {
	Generate(ctx context.Context, history []models.ChatTurn, parts []Part) (string, error)
}

// GeminiService answers composite requests through the Gemini API.
type GeminiService struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiService builds the Gemini-backed generator. The generation
// parameters mirror what the product has always used.
func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiService{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0.9),
			TopK:            genai.Ptr[float32](1),
			TopP:            genai.Ptr[float32](1),
			MaxOutputTokens: 2048,
		},
	}, nil
}

func (s *GeminiService) Generate(ctx context.Context, history []models.ChatTurn, parts []Part) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}

	gparts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Data != nil {
			gparts = append(gparts, &genai.Part{
				InlineData: &genai.Blob{Data: p.Data, MIMEType: p.MIME},
			})
			continue
		}
		gparts = append(gparts, genai.NewPartFromText(p.Text))
	}
	contents = append(contents, genai.NewContentFromParts(gparts, genai.RoleUser))

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, s.config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
