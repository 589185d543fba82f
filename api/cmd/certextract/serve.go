package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"deduction-ocr/api/internal/app"
	"deduction-ocr/api/internal/httpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP extraction endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()
		log := logger.Sugar()

		if err := cfg.Validate(); err != nil {
			log.Errorw("invalid configuration", "error", err)
			return err
		}

		h, err := app.Build(cfg, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return httpserver.StartHTTP(ctx, ":"+cfg.Port, h, log)
	},
}
