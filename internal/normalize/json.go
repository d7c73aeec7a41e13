package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when no parseable JSON could be recovered from a response
var ErrNoJSON = errors.New("no valid JSON found in LLM response")

const (
	jsonFence    = "```json"
	genericFence = "```"
)

// ExtractJSON recovers a JSON document from an LLM reply.
//
// The whole reply is tried first. If that fails and the reply contains a
// ```json fence, the text between it and the next fence is tried. Otherwise,
// if any ``` fence is present, the text inside the first fenced block is
// tried. The first attempt that parses wins; when none does ErrNoJSON is
// returned. A missing closing fence means the block runs to the end of the reply.
func ExtractJSON(raw string) ([]byte, error) {
	text := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
	if text == "" {
		return nil, ErrNoJSON
	}

	if json.Valid([]byte(text)) {
		return []byte(text), nil
	}

	var fence string
	switch {
	case strings.Contains(text, jsonFence):
		fence = jsonFence
	case strings.Contains(text, genericFence):
		fence = genericFence
	default:
		return nil, ErrNoJSON
	}

	block := fencedBlock(text, fence)
	if block == "" || !json.Valid([]byte(block)) {
		return nil, ErrNoJSON
	}
	return []byte(block), nil
}

func fencedBlock(text, fence string) string {
	start := strings.Index(text, fence) + len(fence)
	rest := text[start:]
	if end := strings.Index(rest, genericFence); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// decodeObject extracts JSON from raw and decodes it as a single object
func decodeObject(raw string) (map[string]any, error) {
	data, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, ErrNoJSON
	}
	return obj, nil
}
