// Package gemini implements skill extraction with the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/crewmatchco/crewmatch/pkg/skills"
)

const (
	defaultModel = "gemini-2.0-flash"

	extractionPrompt = "You are a recruiting assistant. Extract the essential technical skills, " +
		"technologies, programming languages, frameworks, and tools from the following " +
		"job description. Return them as a comma-separated list without any additional text."
)

// Extractor wraps the Google GenAI client for skill extraction.
type Extractor struct {
	client    *genai.Client
	modelName string
}

// NewExtractor creates an Extractor configured for the Gemini API backend.
func NewExtractor(ctx context.Context, apiKey, model string) (*Extractor, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Extractor{client: client, modelName: model}, nil
}

// ExtractSkills asks Gemini for the essential skills of the description,
// returned as a comma-separated list.
func (e *Extractor) ExtractSkills(ctx context.Context, jobDescription string) (string, error) {
	if e == nil || e.client == nil {
		return "", errors.New("gemini extractor is not initialized")
	}

	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return "", errors.New("job description must not be empty")
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(extractionPrompt, genai.RoleUser),
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.modelName, genai.Text(jobDescription), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// Model returns the configured model name.
func (e *Extractor) Model() string {
	if e == nil {
		return ""
	}
	return e.modelName
}

// Ensure Extractor implements the skills contract
var _ skills.Extractor = (*Extractor)(nil)
