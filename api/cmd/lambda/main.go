package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"deduction-ocr/api/internal/app"
	"deduction-ocr/api/internal/config"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		zap.NewExample().Sugar().Fatalw("config", "error", err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		zap.NewExample().Sugar().Fatalw("logger", "error", err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}
	h, err := app.Build(cfg, log)
	if err != nil {
		log.Fatalw("build handler", "error", err)
	}

	// one controller per invocation; only the Vertex client cache lives across warm starts
	lambda.Start(h.Lambda)
}
