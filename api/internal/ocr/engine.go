package ocr

import (
	"context"
)

// Engine sends one multimodal prompt to a model hosted in a given region and
// returns the raw text of the first candidate. An empty string means the model
// produced no text.
type Engine interface {
	Name() string
	GetModel() string
	Generate(ctx context.Context, region string, in GenerateInput) (string, error)
}

// GenerateInput is one inline file plus the instruction that goes with it.
type GenerateInput struct {
	Prompt   string
	Data     []byte
	MIMEType string
}

// Request is one page's worth of work: the file on disk, the prompt and the
// media type the file is sent as.
type Request struct {
	Path     string
	Prompt   string
	MIMEType string
}
