// Package app assembles the request handler from configuration. Both the HTTP
// server and the Lambda entry point go through Build.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"deduction-ocr/api/internal/certificate"
	"deduction-ocr/api/internal/config"
	"deduction-ocr/api/internal/failover"
	"deduction-ocr/api/internal/handle"
	"deduction-ocr/api/internal/ocr/gemini"
	"deduction-ocr/api/internal/pdf"
	"deduction-ocr/api/internal/pipeline"
	"deduction-ocr/api/internal/prompt"
)

func Build(cfg *config.Config, log *zap.SugaredLogger) (*handle.Handle, error) {
	engine, err := gemini.New(cfg.GeminiBackend, cfg.VertexProjectID, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	validator, err := certificate.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("schemas: %w", err)
	}

	prompts := prompt.NewStore(cfg.PromptDir)
	regions := cfg.Regions()
	log.Infow("extraction configured",
		"backend", engine.Name(),
		"model", engine.GetModel(),
		"regions", regions,
		"max_retries", cfg.MaxRetries,
		"prompt_dir", cfg.PromptDir,
	)

	callers := handle.FailoverCallers(engine, failover.Options{
		Regions:    regions,
		MaxRetries: cfg.MaxRetries,
	})
	return handle.New(
		pipeline.New(prompts, validator, log),
		pdf.NewSplitter(),
		callers,
		prompts,
		log,
		handle.Options{
			APIKey:         cfg.APIKey,
			MaxPDFPages:    cfg.MaxPDFPages,
			RequestTimeout: cfg.RequestTimeout,
		},
	), nil
}
