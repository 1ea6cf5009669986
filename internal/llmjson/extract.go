// Package llmjson extracts structured data from free-form model output.
//
// Generative models wrap JSON in prose, markdown fences or stray
// whitespace. The helpers here contain that brittleness in one place and
// report exactly how a response deviated from the expected shape.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var (
	// ErrMalformedResponse means no JSON object was found in the raw text.
	ErrMalformedResponse = errors.New("malformed model response: no JSON object found")
	// ErrParse means the extracted substring is not valid JSON.
	ErrParse = errors.New("model response is not valid JSON")
	// ErrSchema means the JSON parsed but required fields are absent.
	ErrSchema = errors.New("model response is missing required fields")
)

// ExtractObject returns the substring between the first '{' and the last
// '}' of raw, inclusive. Markdown fences and surrounding prose are
// discarded as a side effect.
func ExtractObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: %q", ErrMalformedResponse, truncate(raw, 80))
	}

	return raw[start : end+1], nil
}

// Decode extracts the JSON object from raw, parses it, and decodes it into
// target. required lists top-level keys that must be present and non-null;
// a missing key fails with ErrSchema.
func Decode(raw string, target any, required ...string) error {
	extracted, err := ExtractObject(raw)
	if err != nil {
		return err
	}

	var loose map[string]any
	if err := json.Unmarshal([]byte(extracted), &loose); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	for _, key := range required {
		if v, ok := loose[key]; !ok || v == nil {
			return fmt.Errorf("%w: %q", ErrSchema, key)
		}
	}

	if err := mapstructure.Decode(loose, target); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}

	return nil
}

func truncate(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}
