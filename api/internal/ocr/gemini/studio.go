package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	aistudio "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"deduction-ocr/api/internal/ocr"
)

// Studio talks to Gemini through AI Studio with an API key. There are no
// regions on this endpoint, so the region argument is only logged by callers.
type Studio struct {
	APIKey string
	Model  string
}

func NewStudio(apiKey, model string) *Studio {
	return &Studio{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Studio) Name() string     { return "studio" }
func (e *Studio) GetModel() string { return e.Model }

func (e *Studio) Generate(ctx context.Context, _ string, in ocr.GenerateInput) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := aistudio.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	// seed and thinking budget are not exposed by this SDK
	m.GenerationConfig = aistudio.GenerationConfig{
		Temperature:      ptr(Temperature),
		TopK:             ptr(int32(TopK)),
		TopP:             ptr(TopP),
		CandidateCount:   ptr(CandidateCount),
		MaxOutputTokens:  ptr(MaxOutputTokens),
		ResponseMIMEType: ResponseMIMEType,
	}

	resp, err := m.GenerateContent(ctx,
		aistudio.Text(in.Prompt),
		&aistudio.Blob{MIMEType: in.MIMEType, Data: in.Data},
	)
	if err != nil {
		return "", err
	}
	return firstStudioText(resp), nil
}

func firstStudioText(resp *aistudio.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 {
		return ""
	}
	if t, ok := c.Content.Parts[0].(aistudio.Text); ok {
		return string(t)
	}
	return ""
}

func ptr[T any](v T) *T { return &v }
