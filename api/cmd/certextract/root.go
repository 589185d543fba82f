package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"deduction-ocr/api/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "certextract",
	Short: "Extract Japanese insurance deduction certificates with Gemini",
	Long: `certextract classifies a scanned 保険料控除証明書 (image or PDF) and
extracts its fields with two Gemini calls per page. Calls fail over across
Vertex AI regions on quota or availability errors.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "optional YAML config file (keys are the lower-case env names)",
	)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(extractCmd)
}

// loadConfig reads config and builds the logger for a subcommand.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
