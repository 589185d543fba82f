package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"deduction-ocr/api/internal/handle"
)

// Routes wires the handlers. "/" only matches the root path itself.
func Routes(h *handle.Handle) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Healthz)
	mux.HandleFunc("/{$}", h.Extract)
	mux.HandleFunc("/v1/certificates/extract", h.Extract)
	mux.HandleFunc("/v1/prompts", h.UpdatePrompt)
	return mux
}

// StartHTTP serves until ctx is cancelled, then drains in-flight requests.
func StartHTTP(ctx context.Context, addr string, h *handle.Handle, log *zap.SugaredLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Routes(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
