package upstream

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/core/envelope"
)

const maxMessageRunes = 500

// decodeBody is the fallible "maybe JSON" step: it yields the body as JSON, or
// false when the body is empty or not valid JSON.
func decodeBody(body []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil, false
	}
	return json.RawMessage(trimmed), true
}

// extractMessage picks an error message from an upstream error body: the JSON
// "message" field, then the JSON "error" field, then a bare JSON string. Raw
// text is only used for bodies that are not JSON. Empty means the caller
// should use its fallback.
func extractMessage(body []byte) string {
	if raw, ok := decodeBody(body); ok {
		var obj struct {
			Message json.RawMessage `json:"message"`
			Error   json.RawMessage `json:"error"`
		}
		if json.Unmarshal(raw, &obj) == nil {
			if msg := stringField(obj.Message); msg != "" {
				return truncate(msg)
			}
			if msg := stringField(obj.Error); msg != "" {
				return truncate(msg)
			}
		}
		return truncate(stringField(raw))
	}
	return truncate(strings.TrimSpace(string(body)))
}

func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxMessageRunes {
		return s
	}
	r := []rune(s)
	return string(r[:maxMessageRunes]) + "…"
}

// Normalize turns an upstream status and body into the canonical envelope.
func Normalize(status int, body []byte, msgs Messages) envelope.Raw {
	switch {
	case status >= 200 && status < 300:
		data, ok := decodeBody(body)
		if !ok {
			data = envelope.FallbackData(msgs.Success)
		}
		if status == http.StatusNoContent || status == http.StatusResetContent {
			status = http.StatusOK
		}
		return envelope.OK(status, data, msgs.Success)
	case status >= 400 && status < 600:
		return failure(status, extractMessage(body), msgs)
	default:
		// informational and unfollowed redirects are not part of the contract
		return envelope.Fail[json.RawMessage](http.StatusBadGateway, string(internal.ErrCodeUpstreamInvalid), fallback(msgs))
	}
}

func failure(status int, message string, msgs Messages) envelope.Raw {
	code := internal.ErrCodeUpstreamError
	switch status {
	case http.StatusForbidden:
		code = internal.ErrCodeAccessRestricted
		if message == "" {
			message = internal.ErrAccessRestricted.Message
		}
	case http.StatusUnauthorized:
		code = internal.ErrCodeUpstreamUnauthorized
	}
	if message == "" {
		message = fallback(msgs)
	}
	return envelope.Fail[json.RawMessage](status, string(code), message)
}

func fallback(msgs Messages) string {
	if msgs.Failure != "" {
		return msgs.Failure
	}
	return "Error del servidor"
}

// Unreachable is the envelope for transport failures: no status came back.
func Unreachable(msgs Messages) envelope.Raw {
	return envelope.Fail[json.RawMessage](http.StatusBadGateway, string(internal.ErrCodeUpstreamUnreachable), fallback(msgs))
}
