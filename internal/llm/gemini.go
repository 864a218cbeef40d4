package llm

import (
	"context"
	"fmt"

	genai "google.golang.org/genai"
)

// GeminiGateway is a thin wrapper around the official genai client.
type GeminiGateway struct {
	cli   *genai.Client
	model string
}

func NewGeminiGateway(ctx context.Context, apiKey, model string) (*GeminiGateway, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGateway{cli: cli, model: model}, nil
}

func (g *GeminiGateway) Name() string { return "gemini:" + g.model }

func (g *GeminiGateway) Generate(ctx context.Context, spec PromptSpec) (string, error) {
	parts := []*genai.Part{{Text: spec.Instruction}}
	if spec.Image != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: spec.Image.MIMEType,
				Data:     spec.Image.Data,
			},
		})
	}

	cfg := &genai.GenerateContentConfig{}
	switch spec.Mode {
	case ModeGrounded:
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	case ModeSchema:
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = geminiSchema(spec.Schema)
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: parts}}, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func geminiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	props := make(map[string]*genai.Schema, len(s.Properties))
	for _, p := range s.Properties {
		props[p.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: p.Description,
			Nullable:    genai.Ptr(p.Nullable),
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   s.Required,
	}
}
