package upstream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Messages are the per-route texts used when the upstream gives nothing better.
type Messages struct {
	// Success is returned as the envelope message on 2xx and inside the fallback
	// data object when the body is empty or not JSON.
	Success string
	// Failure is used when an error response carries no usable message, and when
	// the upstream cannot be reached.
	Failure string
}

// Request is one call to relay. Path is relative to the configured base URL.
type Request struct {
	Route         string
	Method        string
	Path          string
	RawQuery      string
	Body          []byte
	ContentType   string
	Authorization string
	Messages      Messages
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

func (r Request) url(base string) string {
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(r.Path, "/")
	if r.RawQuery != "" {
		u += "?" + r.RawQuery
	}
	return u
}

func (r Request) routeLabel() string {
	if r.Route != "" {
		return r.Route
	}
	return r.method() + " " + r.Path
}

// JSON builds a request whose body is v encoded as JSON.
func JSON(method, path string, v interface{}) (Request, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Request{}, fmt.Errorf("encode upstream body: %w", err)
	}
	return Request{
		Method:      method,
		Path:        path,
		Body:        body,
		ContentType: "application/json",
	}, nil
}
