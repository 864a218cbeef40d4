package tool

import "eduvid/internal/services"

// Tools is one session's set of controllers. The three tools are fully
// independent; nothing is shared between them except the service they call.
type Tools struct {
	Video   *VideoController
	Code    *CodeController
	Concept *ConceptController
}

func NewTools(svc *services.AIService) *Tools {
	return &Tools{
		Video:   NewVideoController(svc),
		Code:    NewCodeController(svc),
		Concept: NewConceptController(svc),
	}
}

// Close releases everything the session holds, including any open camera
// stream. Called when the session is evicted or the process shuts down.
func (t *Tools) Close() {
	t.Video.Reset()
	t.Code.Reset()
	t.Concept.Reset()
}
