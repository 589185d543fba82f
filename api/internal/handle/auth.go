package handle

import (
	"crypto/subtle"
	"strings"
)

const (
	msgAuthRequired = "Authorization header is required"
	msgAuthFormat   = "Invalid authorization format. Use 'Bearer <token>'"
	msgAuthInvalid  = "Invalid API key"
)

// authorize checks a "Bearer <token>" header value. On failure it returns the
// message for the 403 body.
func (h *Handle) authorize(authorization string) (string, bool) {
	if authorization == "" {
		return msgAuthRequired, false
	}
	token, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok {
		return msgAuthFormat, false
	}
	if h.apiKey == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.apiKey)) != 1 {
		return msgAuthInvalid, false
	}
	return "", true
}
