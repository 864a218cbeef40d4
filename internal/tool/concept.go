package tool

import (
	"context"
	"fmt"
	"strings"

	"eduvid/internal/models"
	"eduvid/internal/services"
)

const emptyConceptMessage = "Please enter a concept or paste text to clarify."

// ConceptController drives the concept clarifier flow. Unlike the other
// tools, a camera capture does not lead to a result view: the OCR text lands
// back in the input field so the user can review and edit it before asking
// for a clarification.
type ConceptController struct {
	m      machine[models.ClarifiedConcept]
	svc    *services.AIService
	stream Stream
	input  string
}

func NewConceptController(svc *services.AIService) *ConceptController {
	return &ConceptController{m: newMachine[models.ClarifiedConcept](), svc: svc}
}

// OpenCamera records an acquired stream and enters the camera view.
func (c *ConceptController) OpenCamera(stream Stream) error {
	var err error
	c.m.locked(func() {
		if c.m.state != StateIdle {
			err = fmt.Errorf("%w: %s", ErrBusy, c.m.state)
			return
		}
		c.m.state = StateCameraOpen
		c.stream = stream
	})
	if err != nil {
		closeStream(stream)
	}
	return err
}

// CameraDenied surfaces a failed camera acquisition.
func (c *ConceptController) CameraDenied(message string) {
	c.m.locked(func() {
		closeStream(c.stream)
		c.stream = nil
	})
	c.m.failNow(message)
}

// CancelCamera releases the stream and returns to the input form.
func (c *ConceptController) CancelCamera() error {
	var err error
	c.m.locked(func() {
		if c.m.state != StateCameraOpen {
			err = fmt.Errorf("%w: %s", ErrBusy, c.m.state)
			return
		}
		closeStream(c.stream)
		c.stream = nil
		c.m.state = StateIdle
	})
	return err
}

// ExtractText captures a frame, releases the camera, and OCRs the frame into
// the input field. The tool lands back in idle with the text populated.
func (c *ConceptController) ExtractText(ctx context.Context, frame []byte) error {
	gen, err := c.m.begin(StateExtracting, StateCameraOpen)
	if err != nil {
		return err
	}
	c.m.locked(func() {
		closeStream(c.stream)
		c.stream = nil
	})

	text, err := c.svc.ExtractTextFromImage(ctx, frame)
	if err != nil {
		c.m.fail(gen, failureMessage(err))
		return err
	}
	c.m.settle(gen, StateIdle, func() { c.input = text })
	return nil
}

// Clarify runs the clarification pipeline over the given text.
func (c *ConceptController) Clarify(ctx context.Context, text, style string) error {
	if isBlank(text) {
		c.m.failNow(emptyConceptMessage)
		return &InputError{Message: emptyConceptMessage}
	}

	gen, err := c.m.begin(StateLoading, StateIdle)
	if err != nil {
		return err
	}
	c.m.locked(func() { c.input = text })

	result, err := c.svc.ClarifyConcept(ctx, text, style)
	if err != nil {
		c.m.fail(gen, failureMessage(err))
		return err
	}
	c.m.complete(gen, result)
	return nil
}

// Reset returns the tool to idle, clearing the input and releasing the
// camera if held.
func (c *ConceptController) Reset() {
	c.m.reset(func() {
		closeStream(c.stream)
		c.stream = nil
		c.input = ""
	})
}

// ConceptSnapshot is the poll view of the concept tool.
type ConceptSnapshot struct {
	State  State                    `json:"state"`
	Input  string                   `json:"input,omitempty"`
	Result *models.ClarifiedConcept `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

func (c *ConceptController) Snapshot() ConceptSnapshot {
	var snap ConceptSnapshot
	c.m.locked(func() {
		snap = ConceptSnapshot{
			State:  c.m.state,
			Input:  c.input,
			Result: c.m.result,
			Error:  c.m.errMsg,
		}
	})
	return snap
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
