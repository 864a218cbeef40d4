package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrUnparseable means no JSON object could be located in the model text.
	ErrUnparseable = errors.New("no JSON object found in model response")
	// ErrMalformedJSON means a candidate region was found but failed to parse.
	ErrMalformedJSON = errors.New("model response contains malformed JSON")
)

var jsonFencePattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractJSON pulls a JSON object out of an arbitrary model response. The
// first ```json fenced block wins; failing that, the span from the first '{'
// to the last '}' is taken. Models either follow the fencing instruction or
// emit a single bare object; anything else is rejected rather than guessed at.
func ExtractJSON(raw string) (json.RawMessage, error) {
	if !strings.Contains(raw, "{") {
		return nil, ErrUnparseable
	}

	candidate := ""
	if m := jsonFencePattern.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	} else {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if end <= start {
			return nil, ErrUnparseable
		}
		candidate = raw[start : end+1]
	}

	var probe any
	if err := json.Unmarshal([]byte(candidate), &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return json.RawMessage(candidate), nil
}
