package tool

import (
	"errors"

	"eduvid/internal/services"
)

// failureMessage maps an attempt's error to the text shown on the error
// panel. Semantic failures carry their own task-specific message; parser and
// completeness failures get a generic retry; anything else (upstream
// transport, auth, quota) is propagated verbatim.
func failureMessage(err error) string {
	var input *InputError
	var semantic *services.SemanticError
	var incomplete *services.IncompleteError

	switch {
	case errors.As(err, &input):
		return input.Message
	case errors.As(err, &semantic):
		return semantic.Message
	case errors.As(err, &incomplete):
		switch incomplete.UseCase {
		case "code":
			return "The AI returned an incomplete analysis. Please try again."
		case "concept":
			return "The AI returned an incomplete explanation. Please try again."
		default:
			return "The AI returned an incomplete response. Please try again."
		}
	case errors.Is(err, services.ErrMalformedJSON):
		return "The AI returned a malformed response. Please try again."
	case errors.Is(err, services.ErrUnparseable):
		return "The AI returned a response that could not be processed. Please try again."
	default:
		return err.Error()
	}
}
