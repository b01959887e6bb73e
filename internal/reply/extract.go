// Package reply extracts structured JSON from free-form LLM text.
//
// Providers with native structured output return clean JSON, but replies
// from schema-less calls (and from models that ignore formatting
// instructions) arrive wrapped in code fences, prose, or truncated
// mid-object. All of the recovery heuristics live here so they can be
// tested without any network dependency.
package reply

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoObject indicates the text contains no JSON object at all.
var ErrNoObject = errors.New("no JSON object in reply")

// ErrTruncated indicates an opening brace without a matching closing brace,
// which almost always means the reply hit the token limit mid-object.
var ErrTruncated = errors.New("reply truncated before object terminator")

// ExtractObject locates the outermost JSON object in free-form model text
// and returns it as raw JSON. It strips optional code fences, scans for the
// first opening brace and the last closing brace, and rejects unterminated
// objects rather than attempting repair.
func ExtractObject(text string) (json.RawMessage, error) {
	s := StripFences(text)

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil, ErrNoObject
	}
	end := strings.LastIndexByte(s, '}')
	if end < start {
		return nil, ErrTruncated
	}

	raw := json.RawMessage(s[start : end+1])
	if !json.Valid(raw) {
		return nil, fmt.Errorf("extracted object is not valid JSON")
	}
	return raw, nil
}

// Unmarshal extracts the outermost JSON object from text and decodes it
// into v.
func Unmarshal(text string, v any) error {
	raw, err := ExtractObject(text)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// StripFences removes a wrapping markdown code fence (``` or ```json) if
// present. Text without fences is returned trimmed but otherwise unchanged.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop the language tag on the opening fence line.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{}") {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Field returns the value following a "LABEL:" marker in labeled-field
// replies such as "ANSWER: 42". The match is case-insensitive and the value
// runs to the end of the line. Returns ("", false) when the label is absent.
func Field(text, label string) (string, bool) {
	lower := strings.ToLower(text)
	marker := strings.ToLower(label) + ":"

	idx := strings.Index(lower, marker)
	if idx < 0 {
		return "", false
	}

	rest := text[idx+len(marker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest), true
}
