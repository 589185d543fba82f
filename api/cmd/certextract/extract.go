package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"deduction-ocr/api/internal/app"
	"deduction-ocr/api/internal/handle"
	"deduction-ocr/api/internal/util"
)

var mediaType string

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Run the extraction pipeline on a local image or PDF and print the response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if err := cfg.ValidateBackend(); err != nil {
			return err
		}
		// local runs authenticate against themselves
		if cfg.APIKey == "" {
			cfg.APIKey = uuid.NewString()
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		mt := mediaType
		if mt == "" {
			mt = mediaTypeFor(args[0], data)
		}
		body, err := json.Marshal(handle.ExtractRequest{
			Data:      base64.StdEncoding.EncodeToString(data),
			MediaType: mt,
		})
		if err != nil {
			return err
		}

		h, err := app.Build(cfg, logger.Sugar())
		if err != nil {
			return err
		}
		ctx := context.Background()
		if cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
			defer cancel()
		}

		code, v := h.Process(ctx, "Bearer "+cfg.APIKey, body)

		var out bytes.Buffer
		enc := json.NewEncoder(&out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(out.Bytes()); err != nil {
			return err
		}
		if code != 200 {
			return fmt.Errorf("extraction failed with status %d", code)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&mediaType, "media-type", "", "image/jpeg, image/png or application/pdf (default: from extension or content)")
}

func mediaTypeFor(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	}
	return util.SniffMediaType(data)
}
