// Package gemini implements LLM-backed prospector services using the Google
// Gemini API: free-form and JSON-constrained generation, URL relevance
// ranking, and text embedding.
package gemini

import (
	"context"

	"github.com/fwojciec/prospector"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Generator implements prospector.Generator at compile time.
var _ prospector.Generator = (*Generator)(nil)

// Generator produces completions using Google Gemini.
type Generator struct {
	client *genai.Client
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client) *Generator {
	return &Generator{client: client}
}

// Generate runs a single generation call.
func (g *Generator) Generate(ctx context.Context, req prospector.GenerateRequest) (string, error) {
	if req.Prompt == "" {
		return "", prospector.Errorf(prospector.EINVALID, "prompt required")
	}

	result, err := g.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: req.Prompt}},
		}},
		BuildGenerateConfig(req),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", prospector.Errorf(prospector.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildGenerateConfig returns the GenerateContentConfig for a request.
func BuildGenerateConfig(req prospector.GenerateRequest) *genai.GenerateContentConfig {
	temp := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}
	return config
}
