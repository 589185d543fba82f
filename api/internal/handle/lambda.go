package handle

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// Lambda serves function URL invocations with the same semantics as Extract.
// Function URLs lower-case header names, so lookups ignore case.
func (h *Handle) Lambda(ctx context.Context, ev events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	if msg, ok := h.authorize(headerValue(ev.Headers, "Authorization")); !ok {
		return lambdaResponse(http.StatusForbidden, errorBody{Error: msg}), nil
	}

	body := []byte(ev.Body)
	if ev.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			return lambdaResponse(http.StatusInternalServerError, errorBody{Error: "Internal server error: decode body: " + err.Error()}), nil
		}
		body = b
	}

	ctx, cancel := h.withDeadline(ctx, headerValue(ev.Headers, "X-Request-Timeout"))
	defer cancel()

	code, v := h.run(ctx, body)
	return lambdaResponse(code, v), nil
}

func lambdaResponse(code int, v any) events.LambdaFunctionURLResponse {
	return events.LambdaFunctionURLResponse{
		StatusCode: code,
		Headers:    map[string]string{"Content-Type": contentType},
		Body:       string(marshalJSON(v)),
	}
}

func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
