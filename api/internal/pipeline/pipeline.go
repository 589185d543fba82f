// Package pipeline turns one page into a certificate.Document: a
// classification call picks the certificate type, a second call extracts the
// fields for that type.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"deduction-ocr/api/internal/certificate"
	"deduction-ocr/api/internal/ocr"
	"deduction-ocr/api/internal/prompt"
)

// Caller runs one model request to completion, retries included.
type Caller interface {
	Call(ctx context.Context, req ocr.Request) (ocr.Output, error)
}

// Prompts hands out template text by name.
type Prompts interface {
	Load(name string) (string, error)
}

type Pipeline struct {
	prompts   Prompts
	validator *certificate.Validator
	log       *zap.SugaredLogger
}

// New builds a Pipeline. validator may be nil to skip schema checks.
func New(prompts Prompts, validator *certificate.Validator, log *zap.SugaredLogger) *Pipeline {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Pipeline{prompts: prompts, validator: validator, log: log}
}

// ExtractPage classifies the file at path and extracts its fields. page is
// the 1-based page number recorded in the document. Errors from the caller are
// returned as is so callers can match them with errors.Is.
func (p *Pipeline) ExtractPage(ctx context.Context, caller Caller, path string, page int, mimeType string) (certificate.Document, error) {
	start := time.Now()
	log := p.log.With("file", filepath.Base(path), "page", page)
	log.Infow("extracting")

	classifyPrompt, err := p.prompts.Load(prompt.CertificateType)
	if err != nil {
		return certificate.Document{}, fmt.Errorf("load classification prompt: %w", err)
	}
	classified, err := caller.Call(ctx, ocr.Request{Path: path, Prompt: classifyPrompt, MIMEType: mimeType})
	if err != nil {
		return certificate.Document{}, err
	}
	p.validate(log, certificate.ClassificationSchema, classified.Records)

	certType := certificate.Discriminator(classified.First())
	kind := certificate.ParseKind(certType)
	if kind == certificate.KindUnrecognized {
		log.Warnw("unknown certificate type, using default response", "certificate_type", certType)
		return certificate.Default(certType), nil
	}

	extractPrompt, err := p.prompts.Load(kind.PromptName())
	if err != nil {
		return certificate.Document{}, fmt.Errorf("load %s prompt: %w", kind, err)
	}
	extracted, err := caller.Call(ctx, ocr.Request{Path: path, Prompt: extractPrompt, MIMEType: mimeType})
	if err != nil {
		return certificate.Document{}, err
	}
	p.validate(log, kind.PromptName(), extracted.Records)

	doc := certificate.Build(kind, page, certType, extracted.Records)
	log.Infow("processed",
		"kind", kind.String(),
		"records", len(extracted.Records),
		"elapsed", time.Since(start).Round(10*time.Millisecond).String(),
	)
	return doc, nil
}

func (p *Pipeline) validate(log *zap.SugaredLogger, name string, records []ocr.Record) {
	if p.validator == nil {
		return
	}
	if err := p.validator.Validate(name, records); err != nil {
		log.Warnw("model output failed schema check", "schema", name, "error", err)
	}
}
