package product

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/transport"
)

// Form field names shared with the backend.
const (
	FieldFile        = "file"
	FieldNoInv       = "noInv"
	FieldNoSerie     = "noSerie"
	FieldModelo      = "modelo"
	FieldIDArea      = "idArea"
	FieldIDCategoria = "idCategoria"
	FieldIDMarca     = "idMarca"
	FieldIDEstado    = "idEstado"
)

var requiredOnCreate = []string{FieldNoInv, FieldIDArea, FieldIDCategoria, FieldIDMarca, FieldIDEstado}

const maxFieldBytes = 64 << 10

// Form is a product payload ready for the backend. Payload is always
// multipart; when the client sent multipart it is the original bytes.
type Form struct {
	Payload     []byte
	ContentType string
	Values      map[string]string
	HasFile     bool
}

func (f *Form) Value(name string) string {
	return strings.TrimSpace(f.Values[name])
}

// MissingRequired lists the create-time fields that are absent or blank.
func (f *Form) MissingRequired() []string {
	var missing []string
	for _, name := range requiredOnCreate {
		if f.Value(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// ReadForm buffers the request body up to limit bytes. Multipart bodies are
// inspected but kept verbatim; JSON objects are re-encoded as multipart.
func ReadForm(r *http.Request, limit int64) (*Form, *internal.AppError) {
	if r.Body == nil {
		return nil, internal.ErrInvalidBody
	}
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, internal.ErrPayloadTooLarge
		}
		return nil, internal.ErrInvalidBody.WithCause(err)
	}

	if transport.IsMultipart(r) {
		return parseMultipart(body, r.Header.Get("Content-Type"))
	}
	return multipartFromJSON(body)
}

func parseMultipart(body []byte, contentType string) (*Form, *internal.AppError) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil || params["boundary"] == "" {
		return nil, internal.ErrInvalidBody.WithCause(fmt.Errorf("multipart boundary: %v", err))
	}

	form := &Form{Payload: body, ContentType: contentType, Values: map[string]string{}}
	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, internal.ErrInvalidBody.WithCause(err)
		}
		name := part.FormName()
		if part.FileName() != "" {
			form.HasFile = true
			_, _ = io.Copy(io.Discard, part)
			continue
		}
		value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
		if err != nil {
			return nil, internal.ErrInvalidBody.WithCause(err)
		}
		if _, seen := form.Values[name]; !seen && name != "" {
			form.Values[name] = string(value)
		}
	}
	return form, nil
}

func multipartFromJSON(body []byte) (*Form, *internal.AppError) {
	fields := map[string]interface{}{}
	if len(bytes.TrimSpace(body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return nil, internal.ErrInvalidBody.WithCause(err)
		}
	}

	values := make(map[string]string, len(fields))
	for key, raw := range fields {
		value, ok := formString(raw)
		if ok {
			values[key] = value
		}
	}
	payload, contentType, err := EncodeMultipart(values)
	if err != nil {
		return nil, internal.NewInternalError("No se pudo preparar el formulario", err)
	}
	return &Form{Payload: payload, ContentType: contentType, Values: values}, nil
}

// formString stringifies a JSON value the way a form field would carry it;
// null is dropped.
func formString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// EncodeMultipart writes values as form fields in key order.
func EncodeMultipart(values map[string]string) ([]byte, string, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, k := range keys {
		if err := mw.WriteField(k, values[k]); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}
