package tool

import (
	"context"
	"fmt"

	"eduvid/internal/models"
	"eduvid/internal/services"
)

const emptyCodeMessage = "Please paste some code to analyze."

// CodeController drives the code analyzer flow. Input is either a captured
// camera frame or pasted text; the camera is released the moment a frame is
// taken, so device access is never held during analysis.
type CodeController struct {
	m      machine[models.CodeAnalysisResult]
	svc    *services.AIService
	stream Stream
	frame  []byte
}

func NewCodeController(svc *services.AIService) *CodeController {
	return &CodeController{m: newMachine[models.CodeAnalysisResult](), svc: svc}
}

// OpenCamera records an acquired stream and enters the camera view.
func (c *CodeController) OpenCamera(stream Stream) error {
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
func (c *CodeController) CameraDenied(message string) {
	c.m.locked(func() {
		closeStream(c.stream)
		c.stream = nil
	})
	c.m.failNow(message)
}

// Capture takes the current frame and stops the camera stream immediately.
func (c *CodeController) Capture(frame []byte) error {
	var err error
	c.m.locked(func() {
		if c.m.state != StateCameraOpen {
			err = fmt.Errorf("%w: %s", ErrBusy, c.m.state)
			return
		}
		closeStream(c.stream)
		c.stream = nil
		c.frame = frame
		c.m.state = StateCaptured
	})
	return err
}

// Retake discards the captured frame and re-opens the camera.
func (c *CodeController) Retake(stream Stream) error {
	var err error
	c.m.locked(func() {
		if c.m.state != StateCaptured {
			err = fmt.Errorf("%w: %s", ErrBusy, c.m.state)
			return
		}
		c.frame = nil
		c.stream = stream
		c.m.state = StateCameraOpen
	})
	if err != nil {
		closeStream(stream)
	}
	return err
}

// CancelCamera releases the stream without capturing.
func (c *CodeController) CancelCamera() error {
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

// AnalyzeCaptured runs the analysis pipeline over the captured frame.
func (c *CodeController) AnalyzeCaptured(ctx context.Context) error {
	gen, err := c.m.begin(StateAnalyzing, StateCaptured)
	if err != nil {
		return err
	}
	var frame []byte
	c.m.locked(func() { frame = c.frame })

	result, err := c.svc.AnalyzeCodeImage(ctx, frame)
	if err != nil {
		c.m.fail(gen, failureMessage(err))
		return err
	}
	c.m.complete(gen, result)
	return nil
}

// AnalyzePasted runs the analysis pipeline over pasted code.
func (c *CodeController) AnalyzePasted(ctx context.Context, code string) error {
	if isBlank(code) {
		c.m.failNow(emptyCodeMessage)
		return &InputError{Message: emptyCodeMessage}
	}

	gen, err := c.m.begin(StateAnalyzing, StateIdle)
	if err != nil {
		return err
	}
	result, err := c.svc.AnalyzeCodeText(ctx, code)
	if err != nil {
		c.m.fail(gen, failureMessage(err))
		return err
	}
	c.m.complete(gen, result)
	return nil
}

// Reset returns the tool to idle, releasing the camera if held.
func (c *CodeController) Reset() {
	c.m.reset(func() {
		closeStream(c.stream)
		c.stream = nil
		c.frame = nil
	})
}

// CodeSnapshot is the poll view of the code tool.
type CodeSnapshot struct {
	State         State                      `json:"state"`
	FrameCaptured bool                       `json:"frameCaptured"`
	Result        *models.CodeAnalysisResult `json:"result,omitempty"`
	Error         string                     `json:"error,omitempty"`
}

func (c *CodeController) Snapshot() CodeSnapshot {
	var snap CodeSnapshot
	c.m.locked(func() {
		snap = CodeSnapshot{
			State:         c.m.state,
			FrameCaptured: len(c.frame) > 0,
			Result:        c.m.result,
			Error:         c.m.errMsg,
		}
	})
	return snap
}
