package handle

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"deduction-ocr/api/internal/prompt"
)

type UpdatePromptRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type UpdatePromptResponse struct {
	OK      bool   `json:"ok"`
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Updated string `json:"updated"`
}

// UpdatePrompt replaces one prompt template in PROMPT_DIR. Later model calls
// pick it up without a restart.
func (h *Handle) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "POST only"})
		return
	}
	if msg, ok := h.authorize(r.Header.Get("Authorization")); !ok {
		writeJSON(w, http.StatusForbidden, errorBody{Error: msg})
		return
	}
	if h.prompts == nil || h.prompts.Dir() == "" {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "prompt directory is not configured"})
		return
	}
	defer r.Body.Close()

	var req UpdatePromptRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 4<<20)) // 4 MiB limit
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad json: " + err.Error()})
		return
	}

	// "name" is extensionless; tolerate a trailing .txt
	name := strings.TrimSpace(req.Name)
	if strings.HasSuffix(strings.ToLower(name), ".txt") {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	if err := h.prompts.Save(name, req.Text); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, prompt.ErrUnknownPrompt) || errors.Is(err, prompt.ErrEmptyPrompt) {
			code = http.StatusBadRequest
		}
		h.log.Warnw("prompt update failed", "name", name, "error", err)
		writeJSON(w, code, errorBody{Error: err.Error()})
		return
	}
	h.log.Infow("prompt updated", "name", name, "size", len(req.Text))

	writeJSON(w, http.StatusOK, UpdatePromptResponse{
		OK:      true,
		Name:    name,
		Size:    len(req.Text),
		Updated: time.Now().UTC().Format(time.RFC3339),
	})
}
