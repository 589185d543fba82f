// Package gemini holds the Gemini backends used by the invoker: Vertex AI,
// where the region is a real failover unit, and AI Studio, keyed by API key.
package gemini

import (
	"fmt"

	"deduction-ocr/api/internal/ocr"
)

// Generation settings shared by both backends.
const (
	Temperature      float32 = 0
	TopK             float32 = 1
	TopP             float32 = 0
	CandidateCount   int32   = 1
	MaxOutputTokens  int32   = 10240
	Seed             int32   = 1234567890
	ThinkingBudget   int32   = 0
	ResponseMIMEType         = "application/json"
)

var (
	_ ocr.Engine = (*Vertex)(nil)
	_ ocr.Engine = (*Studio)(nil)
)

// New picks the backend by name ("vertex" or "studio").
func New(backend, projectID, apiKey, model string) (ocr.Engine, error) {
	switch backend {
	case "", "vertex":
		return NewVertex(projectID, model), nil
	case "studio":
		return NewStudio(apiKey, model), nil
	default:
		return nil, &UnknownBackendError{Backend: backend}
	}
}

type UnknownBackendError struct{ Backend string }

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown gemini backend %q; use 'vertex' or 'studio'", e.Backend)
}
