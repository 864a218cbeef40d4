package services

import (
	"fmt"
	"strings"

	"eduvid/internal/models"
)

// IncompleteError reports a structurally incomplete payload: a field the use
// case requires is missing or blank. It signals a formatting problem on the
// model's side, worth a generic retry.
type IncompleteError struct {
	UseCase string
	Field   string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s response is missing %q", e.UseCase, e.Field)
}

// SemanticError reports a structurally valid payload in which the model
// states it could not perform the task, e.g. a video it cannot access or an
// image that contains no code. The message is what the user should see.
type SemanticError struct {
	UseCase string
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", e.UseCase, e.Message)
}

// Phrases the model uses in the summary when it could not reach the video.
var videoRefusalPhrases = []string{
	"could not be established",
	"unable to access",
	"cannot be generated",
}

const videoAccessMessage = "The AI was unable to access or analyze the content of this YouTube video. " +
	"This can happen with private videos, live streams, or newly uploaded content. Please try a different video."

// videoPayload is GeneratedContent plus the error indicator the model may
// attach instead of content.
type videoPayload struct {
	models.GeneratedContent
	Error string `json:"error"`
}

func validateVideoContent(p *videoPayload) error {
	if strings.TrimSpace(p.Error) != "" {
		return &SemanticError{UseCase: "video", Message: videoAccessMessage}
	}
	if strings.TrimSpace(p.Summary) == "" {
		return &IncompleteError{UseCase: "video", Field: "summary"}
	}
	if len(p.KeyTakeaways) == 0 {
		return &IncompleteError{UseCase: "video", Field: "keyTakeaways"}
	}
	if p.Vocabulary == nil {
		return &IncompleteError{UseCase: "video", Field: "vocabulary"}
	}
	if len(p.Quiz) == 0 {
		return &IncompleteError{UseCase: "video", Field: "quiz"}
	}
	summary := strings.ToLower(p.Summary)
	for _, phrase := range videoRefusalPhrases {
		if strings.Contains(summary, phrase) {
			return &SemanticError{UseCase: "video", Message: videoAccessMessage}
		}
	}
	return nil
}

// codePayload is CodeAnalysisResult plus the error indicator the schema asks
// the model to fill when the input is not recognizable as code.
type codePayload struct {
	models.CodeAnalysisResult
	Error string `json:"error"`
}

func validateCodeAnalysis(p *codePayload) error {
	// An explicit error field short-circuits regardless of the other fields.
	if strings.TrimSpace(p.Error) != "" {
		return &SemanticError{UseCase: "code", Message: p.Error}
	}
	required := []struct {
		field string
		value string
	}{
		{"recognizedCode", p.RecognizedCode},
		{"timeComplexity", p.TimeComplexity},
		{"explanation", p.Explanation},
		{"recommendations", p.Recommendations},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &IncompleteError{UseCase: "code", Field: r.field}
		}
	}
	return nil
}

func validateClarifiedConcept(p *models.ClarifiedConcept) error {
	required := []struct {
		field string
		value string
	}{
		{"title", p.Title},
		{"simplifiedExplanation", p.SimplifiedExplanation},
		{"analogy", p.Analogy},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &IncompleteError{UseCase: "concept", Field: r.field}
		}
	}
	return nil
}

// extractedTextPayload keeps the field as a pointer so a missing key is
// distinguishable from a legitimately empty extraction (an image with no
// discernible text).
type extractedTextPayload struct {
	ExtractedText *string `json:"extractedText"`
}

func validateExtractedText(p *extractedTextPayload) error {
	if p.ExtractedText == nil {
		return &IncompleteError{UseCase: "ocr", Field: "extractedText"}
	}
	return nil
}
