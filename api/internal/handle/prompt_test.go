package handle

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"deduction-ocr/api/internal/prompt"
)

func TestUpdatePrompt(t *testing.T) {
	dir := t.TempDir()
	h := New(nil, nil, nil, prompt.NewStore(dir), zaptest.NewLogger(t).Sugar(), Options{APIKey: testKey})

	send := func(auth, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/prompts", bytes.NewBufferString(body))
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		h.UpdatePrompt(rec, req)
		return rec
	}

	rec := send("Bearer "+testKey, `{"name":"life_insurance.txt","text":"新しいプロンプト"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	b, err := os.ReadFile(filepath.Join(dir, "life_insurance.txt"))
	require.NoError(t, err)
	assert.Equal(t, "新しいプロンプト", string(b))

	assert.Equal(t, http.StatusForbidden, send("Bearer nope", `{"name":"life_insurance","text":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send("Bearer "+testKey, `{"name":"other","text":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send("Bearer "+testKey, `{"name":"life_insurance","text":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, send("Bearer "+testKey, `{`).Code)

	noDir := New(nil, nil, nil, prompt.NewStore(""), nil, Options{APIKey: testKey})
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/prompts", bytes.NewBufferString(`{}`))
	req.Header.Set("Authorization", "Bearer "+testKey)
	noDir.UpdatePrompt(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
