// Package envelope holds the single response shape every gateway route resolves to.
package envelope

import (
	"encoding/json"
	"net/http"
)

// Envelope is a tagged result: Success with Data, or failure with Message and Code.
// Status is the HTTP status the envelope travelled with and is not serialised.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Status  int    `json:"-"`
}

// Raw is the envelope the gateway writes: data is whatever JSON the upstream
// produced, or the fallback object.
type Raw = Envelope[json.RawMessage]

func OK[T any](status int, data T, message string) Envelope[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return Envelope[T]{Success: true, Data: &data, Message: message, Status: status}
}

func Fail[T any](status int, code, message string) Envelope[T] {
	return Envelope[T]{Success: false, Code: code, Message: message, Status: status}
}

// Failed reports whether the envelope is the failure variant.
func (e Envelope[T]) Failed() bool {
	return !e.Success
}

// Forbidden reports the distinct "access restricted" state.
func (e Envelope[T]) Forbidden() bool {
	return !e.Success && e.Status == http.StatusForbidden
}

// Decode reinterprets a raw envelope's data as T. A failure envelope keeps its
// message, code and status and carries no data.
func Decode[T any](raw Raw) (Envelope[T], error) {
	out := Envelope[T]{
		Success: raw.Success,
		Message: raw.Message,
		Code:    raw.Code,
		Status:  raw.Status,
	}
	if raw.Data == nil || len(*raw.Data) == 0 {
		return out, nil
	}
	var data T
	if err := json.Unmarshal(*raw.Data, &data); err != nil {
		return out, err
	}
	out.Data = &data
	return out, nil
}

// FallbackData is the data object substituted for empty or non-JSON success bodies.
func FallbackData(message string) json.RawMessage {
	b, _ := json.Marshal(map[string]string{"message": message})
	return b
}
