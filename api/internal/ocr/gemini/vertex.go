package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"deduction-ocr/api/internal/ocr"
)

// Vertex talks to Gemini on Vertex AI. The region is chosen per call; one
// client per region is created lazily and reused for the process lifetime.
type Vertex struct {
	ProjectID string
	Model     string

	clients sync.Map // region -> *genai.Client
	newMu   sync.Mutex
}

func NewVertex(projectID, model string) *Vertex {
	return &Vertex{
		ProjectID: strings.TrimSpace(projectID),
		Model:     strings.TrimSpace(model),
	}
}

func (e *Vertex) Name() string     { return "vertex" }
func (e *Vertex) GetModel() string { return e.Model }

func (e *Vertex) client(ctx context.Context, region string) (*genai.Client, error) {
	if v, ok := e.clients.Load(region); ok {
		return v.(*genai.Client), nil
	}
	e.newMu.Lock()
	defer e.newMu.Unlock()
	if v, ok := e.clients.Load(region); ok {
		return v.(*genai.Client), nil
	}
	cl, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  e.ProjectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex client %s: %w", region, err)
	}
	e.clients.Store(region, cl)
	return cl, nil
}

// Generate sends the prompt and the inline file as one user turn.
func (e *Vertex) Generate(ctx context.Context, region string, in ocr.GenerateInput) (string, error) {
	if e.ProjectID == "" {
		return "", errors.New("VERTEX_AI_PROJECT_ID is empty")
	}
	cl, err := e.client(ctx, region)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(in.Prompt),
			genai.NewPartFromBytes(in.Data, in.MIMEType),
		}, genai.RoleUser),
	}

	resp, err := cl.Models.GenerateContent(ctx, e.Model, contents, vertexConfig())
	if err != nil {
		return "", err
	}
	return firstVertexText(resp), nil
}

// vertexConfig pins every sampling knob so the same page yields the same JSON.
func vertexConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](Temperature),
		TopK:             genai.Ptr[float32](TopK),
		TopP:             genai.Ptr[float32](TopP),
		CandidateCount:   CandidateCount,
		MaxOutputTokens:  MaxOutputTokens,
		Seed:             genai.Ptr[int32](Seed),
		ResponseMIMEType: ResponseMIMEType,
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](ThinkingBudget),
		},
	}
}

func firstVertexText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return ""
	}
	return c.Content.Parts[0].Text
}
