package handle

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"deduction-ocr/api/internal/pipeline"
	"deduction-ocr/api/internal/prompt"
)

const contentType = "application/json; charset=utf-8"

// Splitter counts PDF pages and writes single pages out.
type Splitter interface {
	PageCount(path string) (int, error)
	ExtractPage(src string, page int, dst string) error
}

// CallerFactory builds the resilient caller for one request. Pages of the
// same request share it; separate requests never do.
type CallerFactory func(log *zap.SugaredLogger) pipeline.Caller

type Options struct {
	APIKey         string
	MaxPDFPages    int
	RequestTimeout time.Duration
	// TempDir is where uploads and split pages are written; "" means os.TempDir.
	TempDir string
}

type Handle struct {
	pipeline  *pipeline.Pipeline
	splitter  Splitter
	newCaller CallerFactory
	prompts   *prompt.Store
	log       *zap.SugaredLogger

	apiKey   string
	maxPages int
	timeout  time.Duration
	tempDir  string
}

func New(p *pipeline.Pipeline, splitter Splitter, newCaller CallerFactory, prompts *prompt.Store, log *zap.SugaredLogger, opts Options) *Handle {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	maxPages := opts.MaxPDFPages
	if maxPages <= 0 {
		maxPages = 20
	}
	return &Handle{
		pipeline:  p,
		splitter:  splitter,
		newCaller: newCaller,
		prompts:   prompts,
		log:       log,
		apiKey:    opts.APIKey,
		maxPages:  maxPages,
		timeout:   opts.RequestTimeout,
		tempDir:   opts.TempDir,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// marshalJSON keeps non-ASCII and HTML characters verbatim.
func marshalJSON(v any) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	_, _ = w.Write(marshalJSON(v))
}

// Healthz answers liveness probes.
func (h *Handle) Healthz(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}
