package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model call succeeds but carries no
// usable text content.
var ErrEmptyResponse = errors.New("llm: model returned no content")

// Mode selects how the model is asked to shape its output. The two modes are
// mutually exclusive on the Gemini API: search grounding cannot be combined
// with a response schema, so grounded prompts embed a literal JSON example in
// the instruction text instead.
type Mode int

const (
	// ModeGrounded requests free text with web-search grounding enabled.
	ModeGrounded Mode = iota
	// ModeSchema requests JSON constrained by PromptSpec.Schema.
	ModeSchema
)

// InlineImage is a captured frame sent alongside the instruction text.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// Property describes one string-valued field of a requested response object.
type Property struct {
	Name        string
	Description string
	Nullable    bool
}

// Schema is the backend-neutral shape of a requested response object. Every
// field in this application is a flat string; nesting is left to the
// instruction text.
type Schema struct {
	Properties []Property
	Required   []string
}

// PromptSpec is a fully-built request for the generative service: instruction
// text, an optional inline image, and the generation mode. Schema must be set
// when Mode is ModeSchema and must be nil otherwise.
type PromptSpec struct {
	Instruction string
	Image       *InlineImage
	Mode        Mode
	Schema      *Schema
}

// Gateway is the sole network boundary to the generative model service. A
// call either returns the model's raw text or fails; there is no retry,
// backoff, or timeout at this layer.
type Gateway interface {
	Generate(ctx context.Context, spec PromptSpec) (string, error)
	Name() string
}
