package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegHead = []byte{0xFF, 0xD8, 0xFF, 0xE0}
	pngHead  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	pdfHead  = []byte("%PDF-1.4\n")
)

func TestSniffMediaType(t *testing.T) {
	assert.Equal(t, "image/jpeg", SniffMediaType(jpegHead))
	assert.Equal(t, "image/png", SniffMediaType(pngHead))
	assert.Equal(t, "application/pdf", SniffMediaType(pdfHead))
	assert.Equal(t, "", SniffMediaType([]byte("GIF89a")))
	assert.Equal(t, "", SniffMediaType(nil))
}

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	raw := []byte("hello, 控除証明書")
	std := base64.StdEncoding.EncodeToString(raw)

	b, hint, err := DecodeBase64MaybeDataURL(std)
	require.NoError(t, err)
	assert.Equal(t, raw, b)
	assert.Empty(t, hint)

	b, hint, err = DecodeBase64MaybeDataURL("data:Application/PDF;base64," + std)
	require.NoError(t, err)
	assert.Equal(t, raw, b)
	assert.Equal(t, "application/pdf", hint)

	b, _, err = DecodeBase64MaybeDataURL(base64.RawURLEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, b)

	_, _, err = DecodeBase64MaybeDataURL("!!!not base64!!!")
	assert.Error(t, err)
	_, _, err = DecodeBase64MaybeDataURL("  ")
	assert.Error(t, err)
}

func TestPickMIME(t *testing.T) {
	assert.Equal(t, "image/png", PickMIME(" IMAGE/PNG ", "image/jpeg", pdfHead))
	assert.Equal(t, "image/jpeg", PickMIME("", "image/jpeg", pdfHead))
	assert.Equal(t, "application/pdf", PickMIME("", "", pdfHead))
	assert.Equal(t, "", PickMIME("", "", []byte("??")))
}
