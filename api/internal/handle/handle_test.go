package handle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"deduction-ocr/api/internal/certificate"
	"deduction-ocr/api/internal/ocr"
	"deduction-ocr/api/internal/pdf"
	"deduction-ocr/api/internal/pdf/pdftest"
	"deduction-ocr/api/internal/pipeline"
	"deduction-ocr/api/internal/prompt"
)

const testKey = "test-key"

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

type staticPrompts map[string]string

func (s staticPrompts) Load(name string) (string, error) {
	if t, ok := s[name]; ok {
		return t, nil
	}
	return "", errors.New("no prompt " + name)
}

var testPrompts = staticPrompts{
	prompt.CertificateType:     "classify",
	prompt.LifeInsurance:       "life",
	prompt.EarthquakeInsurance: "earthquake",
	prompt.SocialInsurance:     "social",
	prompt.SmallMutualAid:      "small",
}

// fakeCaller answers classification with certType and extraction with one
// social-insurance record. failOn makes the n-th call (1-based) fail.
type fakeCaller struct {
	mu       sync.Mutex
	certType string
	failOn   int
	err      error
	calls    []ocr.Request
}

func (f *fakeCaller) Call(_ context.Context, req ocr.Request) (ocr.Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.failOn > 0 && len(f.calls) == f.failOn {
		return ocr.Output{}, f.err
	}
	if _, err := os.Stat(req.Path); err != nil {
		return ocr.Output{}, err
	}
	if req.Prompt == "classify" {
		return ocr.Output{Records: []ocr.Record{{certificate.TypeKey: f.certType}}}, nil
	}
	return ocr.Output{Records: []ocr.Record{{
		"保険種類":   "国民年金",
		"保険料支払額": json.Number("16980"),
	}}}, nil
}

type harness struct {
	h        *Handle
	caller   *fakeCaller
	requests int
	tempDir  string
}

func newHarness(t *testing.T, certType string) *harness {
	t.Helper()
	hs := &harness{caller: &fakeCaller{certType: certType}, tempDir: t.TempDir()}
	factory := func(*zap.SugaredLogger) pipeline.Caller {
		hs.requests++
		return hs.caller
	}
	p := pipeline.New(testPrompts, nil, zaptest.NewLogger(t).Sugar())
	hs.h = New(p, pdf.NewSplitter(), factory, prompt.NewStore(t.TempDir()), zaptest.NewLogger(t).Sugar(), Options{
		APIKey:      testKey,
		MaxPDFPages: 20,
		TempDir:     hs.tempDir,
	})
	return hs
}

func requestBody(t *testing.T, data []byte, mediaType string) []byte {
	t.Helper()
	b, err := json.Marshal(ExtractRequest{Data: base64.StdEncoding.EncodeToString(data), MediaType: mediaType})
	require.NoError(t, err)
	return b
}

func post(h http.HandlerFunc, auth string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) ExtractResponse {
	t.Helper()
	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestExtract_Auth(t *testing.T) {
	tests := []struct {
		name string
		auth string
		want string
	}{
		{"missing", "", `{"error":"Authorization header is required"}`},
		{"basic", "Basic dXNlcjpwYXNz", `{"error":"Invalid authorization format. Use 'Bearer <token>'"}`},
		{"no space", "Bearer", `{"error":"Invalid authorization format. Use 'Bearer <token>'"}`},
		{"wrong key", "Bearer wrong", `{"error":"Invalid API key"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := newHarness(t, "1")
			rec := post(hs.h.Extract, tt.auth, requestBody(t, pngBytes, "image/png"))

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
			assert.Equal(t, contentType, rec.Header().Get("Content-Type"))
			assert.Zero(t, hs.requests)
			assert.Empty(t, hs.caller.calls)
		})
	}
}

func TestExtract_Image(t *testing.T) {
	hs := newHarness(t, "3")
	rec := post(hs.h.Extract, "Bearer "+testKey, requestBody(t, pngBytes, "IMAGE/PNG"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "国民年金")

	resp := decodeResponse(t, rec)
	require.Len(t, resp.Documents, 1)
	doc := resp.Documents[0]
	assert.Equal(t, 1, doc.Page)
	assert.Equal(t, "3", doc.CertificateType)
	require.Len(t, doc.Socials, 1)
	assert.Equal(t, float64(16980), doc.Socials[0].Payment.Value)

	require.Len(t, hs.caller.calls, 2)
	assert.Equal(t, "image/png", hs.caller.calls[0].MIMEType)
	assert.Equal(t, 1, hs.requests)

	entries, err := os.ReadDir(hs.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtract_DataURL(t *testing.T) {
	hs := newHarness(t, "9")
	body, err := json.Marshal(map[string]string{
		"data": "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes),
	})
	require.NoError(t, err)

	rec := post(hs.h.Extract, "Bearer "+testKey, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "9", resp.Documents[0].CertificateType)
	assert.Equal(t, 0, resp.Documents[0].Page)
	assert.Len(t, hs.caller.calls, 1)
}

func TestExtract_UnsupportedMediaType(t *testing.T) {
	hs := newHarness(t, "1")
	rec := post(hs.h.Extract, "Bearer "+testKey, requestBody(t, []byte("GIF89a"), "image/gif"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error: unsupported media type: image/gif"}`, rec.Body.String())
	assert.Empty(t, hs.caller.calls)
}

func TestExtract_BadBody(t *testing.T) {
	hs := newHarness(t, "1")

	rec := post(hs.h.Extract, "Bearer "+testKey, []byte("{"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error: bad json")

	rec = post(hs.h.Extract, "Bearer "+testKey, []byte(`{"data":"***","media_type":"image/png"}`))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error: bad data")
	assert.Empty(t, hs.caller.calls)
}

func TestExtract_MethodNotAllowed(t *testing.T) {
	hs := newHarness(t, "1")
	rec := httptest.NewRecorder()
	hs.h.Extract(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestExtract_PDFPagesInOrder(t *testing.T) {
	hs := newHarness(t, "3")
	rec := post(hs.h.Extract, "Bearer "+testKey, requestBody(t, pdftest.Blank(19), "application/pdf"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	require.Len(t, resp.Documents, 19)
	for i, doc := range resp.Documents {
		assert.Equal(t, i+1, doc.Page)
		require.Len(t, doc.Socials, 1)
		assert.Equal(t, i+1, doc.Socials[0].Payment.Position.Page)
	}

	require.Len(t, hs.caller.calls, 38)
	for i := 0; i < 19; i++ {
		classify, extract := hs.caller.calls[2*i], hs.caller.calls[2*i+1]
		assert.Equal(t, "classify", classify.Prompt)
		assert.Equal(t, "social", extract.Prompt)
		assert.Equal(t, classify.Path, extract.Path)
		assert.True(t, strings.HasSuffix(classify.Path, "_page_"+strconv.Itoa(i+1)+".pdf"), classify.Path)
		assert.Equal(t, "application/pdf", classify.MIMEType)
	}
	assert.Equal(t, 1, hs.requests, "one caller per request")

	entries, err := os.ReadDir(hs.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtract_PDFTooManyPages(t *testing.T) {
	hs := newHarness(t, "1")
	rec := post(hs.h.Extract, "Bearer "+testKey, requestBody(t, pdftest.Blank(20), "application/pdf"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t,
		`{"error":"Internal server error: Too many pages (20). Please split the PDF into smaller files."}`,
		rec.Body.String())
	assert.Empty(t, hs.caller.calls)
	assert.True(t, errors.Is(&TooManyPagesError{Pages: 20}, ErrTooManyPages))
}

func TestExtract_PageFailureAbortsRequest(t *testing.T) {
	hs := newHarness(t, "3")
	hs.caller.failOn = 3 // classification of page 2
	hs.caller.err = errors.New("Error 400, Message: invalid argument")

	rec := post(hs.h.Extract, "Bearer "+testKey, requestBody(t, pdftest.Blank(3), "application/pdf"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error: page 2: Error 400, Message: invalid argument"}`, rec.Body.String())
	assert.Len(t, hs.caller.calls, 3)
}

func TestProcess(t *testing.T) {
	hs := newHarness(t, "3")
	code, v := hs.h.Process(context.Background(), "Bearer "+testKey, requestBody(t, pngBytes, "image/png"))
	assert.Equal(t, http.StatusOK, code)
	require.IsType(t, ExtractResponse{}, v)
	assert.Len(t, v.(ExtractResponse).Documents, 1)

	code, v = hs.h.Process(context.Background(), "", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, errorBody{Error: msgAuthRequired}, v)
}

func TestWithDeadline(t *testing.T) {
	h := &Handle{timeout: time.Minute}

	ctx, cancel := h.withDeadline(context.Background(), "")
	defer cancel()
	dl, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), dl, 5*time.Second)

	ctx, cancel = h.withDeadline(context.Background(), "5")
	defer cancel()
	dl, ok = ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), dl, 2*time.Second)

	h.timeout = 0
	ctx, cancel = h.withDeadline(context.Background(), "nope")
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok)
}

func TestHealthz(t *testing.T) {
	hs := newHarness(t, "1")
	rec := httptest.NewRecorder()
	hs.h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
