package prospector

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
)

// CompanyProfile is the extracted identity of the target company.
type CompanyProfile struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Mission string `json:"mission"`
}

// Validate returns an error if the profile contains invalid fields.
func (p *CompanyProfile) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "company name required")
	}
	return nil
}

// Person is a member of the target company's roster.
type Person struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// GenerateRequest is a single LLM generation call.
type GenerateRequest struct {
	// System is the system instruction, empty for none.
	System string

	// Prompt is the user prompt.
	Prompt string

	// JSON constrains the response to a JSON document.
	JSON bool
}

// Generator produces LLM completions.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ParseJSON strictly decodes an LLM response into T. Markdown code fences are
// stripped first; unknown fields and trailing content are rejected so that a
// malformed response surfaces as a parse error rather than a zero value.
func ParseJSON[T any](raw string) (T, error) {
	var v T
	cleaned := StripCodeFences(raw)
	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, Errorf(EINVALID, "parsing LLM response: %v", err)
	}
	// Reject trailing non-whitespace content after the JSON document.
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); err == nil {
		return v, Errorf(EINVALID, "trailing content after JSON document")
	}
	return v, nil
}

// StripCodeFences removes a surrounding markdown code block (```json ... ```)
// from an LLM response, if present.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
