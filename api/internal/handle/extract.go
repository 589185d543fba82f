package handle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deduction-ocr/api/internal/certificate"
	"deduction-ocr/api/internal/pipeline"
	"deduction-ocr/api/internal/util"
)

const (
	mediaPDF     = "application/pdf"
	maxBodyBytes = 64 << 20
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrTooManyPages         = errors.New("too many pages")
)

// TooManyPagesError matches ErrTooManyPages.
type TooManyPagesError struct {
	Pages int
}

func (e *TooManyPagesError) Error() string {
	return fmt.Sprintf("Too many pages (%d). Please split the PDF into smaller files.", e.Pages)
}

func (e *TooManyPagesError) Is(target error) bool { return target == ErrTooManyPages }

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	mediaPDF:     ".pdf",
}

type ExtractRequest struct {
	Data      string `json:"data"`
	MediaType string `json:"media_type"`
}

type ExtractResponse struct {
	Documents []certificate.Document `json:"Documents"`
}

// Extract is the HTTP entry point.
func (h *Handle) Extract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "POST only"})
		return
	}
	if msg, ok := h.authorize(r.Header.Get("Authorization")); !ok {
		writeJSON(w, http.StatusForbidden, errorBody{Error: msg})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error: read body: " + err.Error()})
		return
	}

	ctx, cancel := h.withDeadline(r.Context(), r.Header.Get("X-Request-Timeout"))
	defer cancel()

	code, v := h.run(ctx, body)
	writeJSON(w, code, v)
}

// Process authenticates and runs one extraction request, returning the status
// code and the value to serialize.
func (h *Handle) Process(ctx context.Context, authorization string, body []byte) (int, any) {
	if msg, ok := h.authorize(authorization); !ok {
		return http.StatusForbidden, errorBody{Error: msg}
	}
	return h.run(ctx, body)
}

func (h *Handle) run(ctx context.Context, body []byte) (int, any) {
	log := h.log.With("request_id", uuid.NewString())
	start := time.Now()

	docs, err := h.extract(ctx, log, body)
	if err != nil {
		log.Errorw("extract failed", "error", err, "elapsed", time.Since(start).String())
		return http.StatusInternalServerError, errorBody{Error: "Internal server error: " + err.Error()}
	}
	log.Infow("extract done", "documents", len(docs), "elapsed", time.Since(start).String())
	return http.StatusOK, ExtractResponse{Documents: docs}
}

// withDeadline applies X-Request-Timeout (whole seconds) or the configured
// default. Zero means no deadline of our own.
func (h *Handle) withDeadline(ctx context.Context, header string) (context.Context, context.CancelFunc) {
	d := h.timeout
	if header != "" {
		if v, _ := strconv.Atoi(header); v > 0 {
			d = time.Duration(v) * time.Second
		}
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (h *Handle) extract(ctx context.Context, log *zap.SugaredLogger, body []byte) ([]certificate.Document, error) {
	var req ExtractRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("bad json: %w", err)
	}
	data, hint, err := util.DecodeBase64MaybeDataURL(req.Data)
	if err != nil {
		return nil, fmt.Errorf("bad data: %w", err)
	}

	mediaType := util.PickMIME(req.MediaType, hint, data)
	ext, ok := extensions[mediaType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
	if sniffed := util.SniffMediaType(data); sniffed != "" && sniffed != mediaType {
		log.Warnw("declared media type does not match content", "media_type", mediaType, "sniffed", sniffed)
	}

	path, err := h.writeTemp("certificate-*"+ext, data)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	log = log.With("media_type", mediaType, "bytes", len(data))
	caller := h.newCaller(log)

	if mediaType != mediaPDF {
		doc, err := h.pipeline.ExtractPage(ctx, caller, path, 1, mediaType)
		if err != nil {
			return nil, err
		}
		return []certificate.Document{doc}, nil
	}
	return h.extractPDF(ctx, log, caller, path)
}

// extractPDF runs every page in order. One failing page fails the request.
func (h *Handle) extractPDF(ctx context.Context, log *zap.SugaredLogger, caller pipeline.Caller, path string) ([]certificate.Document, error) {
	n, err := h.splitter.PageCount(path)
	if err != nil {
		return nil, err
	}
	if n >= h.maxPages {
		return nil, &TooManyPagesError{Pages: n}
	}
	log.Infow("splitting pdf", "pages", n)

	docs := make([]certificate.Document, 0, n)
	for page := 1; page <= n; page++ {
		doc, err := h.extractPDFPage(ctx, caller, path, page)
		if err != nil {
			log.Errorw("error processing page", "page", page, "pages", n, "error", err)
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (h *Handle) extractPDFPage(ctx context.Context, caller pipeline.Caller, src string, page int) (certificate.Document, error) {
	pagePath, err := h.writeTemp(fmt.Sprintf("certificate-*_page_%d.pdf", page), nil)
	if err != nil {
		return certificate.Document{}, err
	}
	defer os.Remove(pagePath)

	if err := h.splitter.ExtractPage(src, page, pagePath); err != nil {
		return certificate.Document{}, err
	}
	return h.pipeline.ExtractPage(ctx, caller, pagePath, page, mediaPDF)
}

func (h *Handle) writeTemp(pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(h.tempDir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write temp: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close temp: %w", err)
	}
	return f.Name(), nil
}
