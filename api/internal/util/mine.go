package util

import (
	"encoding/base64"
	"errors"
	"strings"
)

// SniffMediaType recognises the three upload formats by magic bytes.
// Anything else returns "".
func SniffMediaType(b []byte) string {
	// JPEG: FF D8
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return "image/jpeg"
	}
	// PNG
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return "image/png"
	}
	// PDF
	if len(b) >= 5 && b[0] == '%' && b[1] == 'P' && b[2] == 'D' && b[3] == 'F' && b[4] == '-' {
		return "application/pdf"
	}
	return ""
}

// DecodeBase64MaybeDataURL decodes base64. For a data: URI it also returns
// the MIME type from the prefix.
func DecodeBase64MaybeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	var hintMIME string
	if i := strings.IndexByte(s, ','); i > 0 && strings.HasPrefix(strings.ToLower(s[:i]), "data:") {
		// data:<mime>;base64,<payload>
		meta := s[len("data:"):i]
		if semi := strings.IndexByte(meta, ';'); semi >= 0 {
			hintMIME = meta[:semi]
		} else {
			hintMIME = meta
		}
		s = s[i+1:]
	}
	if s == "" {
		return nil, "", errors.New("empty data")
	}
	// standard first, then URL-safe, then unpadded variants
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, strings.ToLower(hintMIME), nil
		}
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return nil, "", err
}

// PickMIME takes the explicit type, then the data: URI type, then whatever
// the bytes look like. The result is lower-cased.
func PickMIME(explicit, hint string, data []byte) string {
	if exp := strings.TrimSpace(explicit); exp != "" {
		return strings.ToLower(exp)
	}
	if h := strings.TrimSpace(hint); h != "" {
		return strings.ToLower(h)
	}
	return SniffMediaType(data)
}
