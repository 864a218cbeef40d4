package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"eduvid/internal/llm"
	"eduvid/internal/models"
)

// AIService turns user requests into model calls and model responses into
// validated domain results. All network I/O happens behind the Gateway.
type AIService struct {
	gateway llm.Gateway
}

func NewAIService(gateway llm.Gateway) *AIService {
	return &AIService{gateway: gateway}
}

// GenerateVideoContent produces the study package for a YouTube video. The
// request is search-grounded; the response is treated as untrusted text.
func (s *AIService) GenerateVideoContent(ctx context.Context, videoURL string, opts models.QuizOptions) (*models.GeneratedContent, error) {
	raw, err := s.gateway.Generate(ctx, VideoContentPrompt(videoURL, opts))
	if err != nil {
		return nil, fmt.Errorf("generate video content: %w", err)
	}

	var payload videoPayload
	if err := s.decode(raw, &payload); err != nil {
		return nil, err
	}
	if err := validateVideoContent(&payload); err != nil {
		return nil, err
	}
	return &payload.GeneratedContent, nil
}

// AnalyzeCodeImage transcribes and analyzes a photographed code snippet.
func (s *AIService) AnalyzeCodeImage(ctx context.Context, jpeg []byte) (*models.CodeAnalysisResult, error) {
	return s.analyzeCode(ctx, CodeImagePrompt(jpeg))
}

// AnalyzeCodeText analyzes pasted code.
func (s *AIService) AnalyzeCodeText(ctx context.Context, code string) (*models.CodeAnalysisResult, error) {
	return s.analyzeCode(ctx, CodeTextPrompt(code))
}

func (s *AIService) analyzeCode(ctx context.Context, spec llm.PromptSpec) (*models.CodeAnalysisResult, error) {
	raw, err := s.gateway.Generate(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("analyze code: %w", err)
	}

	var payload codePayload
	if err := s.decode(raw, &payload); err != nil {
		return nil, err
	}
	if err := validateCodeAnalysis(&payload); err != nil {
		return nil, err
	}
	return &payload.CodeAnalysisResult, nil
}

// ExtractTextFromImage runs OCR over a captured frame. An empty string is a
// valid result for an image with no discernible text.
func (s *AIService) ExtractTextFromImage(ctx context.Context, jpeg []byte) (string, error) {
	raw, err := s.gateway.Generate(ctx, TextExtractionPrompt(jpeg))
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	var payload extractedTextPayload
	if err := s.decode(raw, &payload); err != nil {
		return "", err
	}
	if err := validateExtractedText(&payload); err != nil {
		return "", err
	}
	return *payload.ExtractedText, nil
}

// ClarifyConcept produces a simplified explanation of a concept or passage.
func (s *AIService) ClarifyConcept(ctx context.Context, conceptText, explanationStyle string) (*models.ClarifiedConcept, error) {
	raw, err := s.gateway.Generate(ctx, ConceptPrompt(conceptText, explanationStyle))
	if err != nil {
		return nil, fmt.Errorf("clarify concept: %w", err)
	}

	var payload models.ClarifiedConcept
	if err := s.decode(raw, &payload); err != nil {
		return nil, err
	}
	if err := validateClarifiedConcept(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// decode extracts the JSON object from raw model text and unmarshals it into
// the use case's payload shape. Schema-mode responses go through the same
// path: the model is never assumed to have honored the schema.
func (s *AIService) decode(raw string, into any) error {
	candidate, err := ExtractJSON(raw)
	if err != nil {
		log.Printf("llm response rejected (%s): %v", s.gateway.Name(), err)
		return err
	}
	if err := json.Unmarshal(candidate, into); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return nil
}
