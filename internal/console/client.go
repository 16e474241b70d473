package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/auth"
	"github.com/bodega-ag/inventory-gateway/internal/catalog"
	"github.com/bodega-ag/inventory-gateway/internal/core/envelope"
	"github.com/bodega-ag/inventory-gateway/internal/movement"
	"github.com/bodega-ag/inventory-gateway/internal/product"
	"github.com/bodega-ag/inventory-gateway/internal/user"
)

// ErrAccessRestricted is returned when the gateway answers 403. Callers render
// a dedicated view for it instead of a generic failure.
var ErrAccessRestricted = errors.New(internal.ErrAccessRestricted.Message)

// RemoteError is a failure envelope received from the gateway.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway status %d", e.Status)
	}
	return e.Message
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrAccessRestricted && e.Status == http.StatusForbidden
}

// Client talks to the gateway with the token of the stored session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      Store
}

func NewClient(baseURL string, store Store, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		store:      store,
	}
}

func (c *Client) Store() Store {
	return c.store
}

type call struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	anonymous   bool
}

func jsonCall(method, path string, v interface{}) (call, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return call{}, fmt.Errorf("encode request: %w", err)
	}
	return call{method: method, path: path, body: b, contentType: "application/json"}, nil
}

func (c *Client) raw(ctx context.Context, in call) (envelope.Raw, error) {
	target := c.baseURL + in.path
	if len(in.query) > 0 {
		target += "?" + in.query.Encode()
	}
	var body io.Reader
	if in.body != nil {
		body = bytes.NewReader(in.body)
	}
	req, err := http.NewRequestWithContext(ctx, in.method, target, body)
	if err != nil {
		return envelope.Raw{}, err
	}
	if in.contentType != "" {
		req.Header.Set("Content-Type", in.contentType)
	}
	if !in.anonymous {
		session, err := c.store.Load()
		if err != nil {
			return envelope.Raw{}, err
		}
		if session.Token != "" {
			req.Header.Set("Authorization", "Bearer "+session.Token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope.Raw{}, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	var env envelope.Raw
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return envelope.Raw{}, fmt.Errorf("decode gateway response (status %d): %w", resp.StatusCode, err)
	}
	env.Status = resp.StatusCode
	if env.Failed() {
		return env, &RemoteError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	return env, nil
}

// do runs a call and decodes its data into T.
func do[T any](ctx context.Context, c *Client, in call) (T, string, error) {
	var zero T
	env, err := c.raw(ctx, in)
	if err != nil {
		return zero, "", err
	}
	decoded, err := envelope.Decode[T](env)
	if err != nil {
		return zero, env.Message, fmt.Errorf("decode %s %s: %w", in.method, in.path, err)
	}
	if decoded.Data == nil {
		return zero, env.Message, nil
	}
	return *decoded.Data, env.Message, nil
}

// Login authenticates and stores the resulting session.
func (c *Client) Login(ctx context.Context, usuario, contrasena string) (Session, error) {
	in, err := jsonCall(http.MethodPost, "/login", auth.LoginDTO{Usuario: usuario, Contrasena: contrasena})
	if err != nil {
		return Session{}, err
	}
	in.anonymous = true
	result, _, err := do[auth.LoginResult](ctx, c, in)
	if err != nil {
		return Session{}, err
	}
	session := Session{
		Token:       result.Token,
		Username:    result.User.Usuario,
		DisplayName: result.User.Nombre,
		AccessLevel: result.User.Nivel,
	}
	if err := c.store.Save(session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Logout forgets the session. Nothing is sent to the gateway.
func (c *Client) Logout() error {
	return c.store.Clear()
}

func (c *Client) VerifyLevel(ctx context.Context) (auth.LevelInfo, error) {
	info, _, err := do[auth.LevelInfo](ctx, c, call{method: http.MethodGet, path: "/verify-level"})
	return info, err
}

func (c *Client) ListCatalog(ctx context.Context, k catalog.Kind) ([]catalog.Entry, error) {
	entries, _, err := do[[]catalog.Entry](ctx, c, call{method: http.MethodGet, path: "/catalogues/" + k.Slug})
	return entries, err
}

func (c *Client) CreateCatalogEntry(ctx context.Context, k catalog.Kind, nombre string) (string, error) {
	in, err := jsonCall(http.MethodPost, "/catalogues/"+k.Slug+"/create", catalog.EntryDTO{Nombre: nombre})
	if err != nil {
		return "", err
	}
	_, msg, err := do[json.RawMessage](ctx, c, in)
	return msg, err
}

func (c *Client) UpdateCatalogEntry(ctx context.Context, k catalog.Kind, id int64, dto catalog.EntryDTO) (string, error) {
	in, err := jsonCall(http.MethodPut, "/catalogues/"+k.Slug+"/"+strconv.FormatInt(id, 10), dto)
	if err != nil {
		return "", err
	}
	_, msg, err := do[json.RawMessage](ctx, c, in)
	return msg, err
}

func (c *Client) SetCatalogEntryActive(ctx context.Context, k catalog.Kind, id int64, active bool) (string, error) {
	_, msg, err := do[json.RawMessage](ctx, c, call{
		method: http.MethodPatch,
		path:   "/catalogues/" + k.Slug + "/" + strconv.FormatInt(id, 10) + "/" + toggleSegment(active),
	})
	return msg, err
}

func (c *Client) ListProducts(ctx context.Context) ([]product.Product, error) {
	products, _, err := do[[]product.Product](ctx, c, call{method: http.MethodGet, path: "/productos"})
	return products, err
}

func (c *Client) ProductsPage(ctx context.Context, page, size int) (product.Page, error) {
	p, _, err := do[product.Page](ctx, c, call{
		method: http.MethodGet,
		path:   "/productos",
		query:  url.Values{"page": {strconv.Itoa(page)}, "size": {strconv.Itoa(size)}},
	})
	return p, err
}

func (c *Client) GetProduct(ctx context.Context, id int64) (product.Product, error) {
	p, _, err := do[product.Product](ctx, c, call{method: http.MethodGet, path: "/productos/" + strconv.FormatInt(id, 10)})
	return p, err
}

// ProductInput is the form sent on create. Empty serial or model means not applicable.
type ProductInput struct {
	NoInv       string
	NoSerie     product.Optional
	Modelo      product.Optional
	IDArea      int64
	IDCategoria int64
	IDMarca     int64
	IDEstado    int64
	FileName    string
	File        io.Reader
}

func (p ProductInput) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{product.FieldNoInv, p.NoInv},
		{product.FieldNoSerie, p.NoSerie.FormValue()},
		{product.FieldModelo, p.Modelo.FormValue()},
		{product.FieldIDArea, formID(p.IDArea)},
		{product.FieldIDCategoria, formID(p.IDCategoria)},
		{product.FieldIDMarca, formID(p.IDMarca)},
		{product.FieldIDEstado, formID(p.IDEstado)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if p.File != nil {
		name := p.FileName
		if name == "" {
			name = "foto"
		}
		fw, err := mw.CreateFormFile(product.FieldFile, name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(fw, p.File); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func formID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (string, error) {
	body, contentType, err := in.encode()
	if err != nil {
		return "", fmt.Errorf("encode product form: %w", err)
	}
	_, msg, err := do[json.RawMessage](ctx, c, call{
		method:      http.MethodPost,
		path:        "/productos/create",
		body:        body,
		contentType: contentType,
	})
	return msg, err
}

// RetireProduct marks a product as "baja" with the given reason.
func (c *Client) RetireProduct(ctx context.Context, id int64, motivo string) (string, error) {
	in, err := jsonCall(http.MethodPatch, "/productos/"+strconv.FormatInt(id, 10)+"/baja", product.BajaDTO{Motivo: motivo})
	if err != nil {
		return "", err
	}
	_, msg, err := do[json.RawMessage](ctx, c, in)
	return msg, err
}

// MovementFilter values are relayed to the backend as-is.
type MovementFilter struct {
	Usuario string
	Fecha   string
}

func (c *Client) ListMovements(ctx context.Context, f MovementFilter) ([]movement.Record, error) {
	q := url.Values{}
	if f.Usuario != "" {
		q.Set("usuario", f.Usuario)
	}
	if f.Fecha != "" {
		q.Set("fecha", f.Fecha)
	}
	records, _, err := do[[]movement.Record](ctx, c, call{method: http.MethodGet, path: "/movimientos", query: q})
	return records, err
}

func (c *Client) GetMovement(ctx context.Context, id int64) (movement.Record, error) {
	record, _, err := do[movement.Record](ctx, c, call{method: http.MethodGet, path: "/movimientos/" + strconv.FormatInt(id, 10)})
	return record, err
}

// ListUsers fails with ErrAccessRestricted for Partial callers.
func (c *Client) ListUsers(ctx context.Context) ([]user.User, error) {
	users, _, err := do[[]user.User](ctx, c, call{method: http.MethodGet, path: "/usuarios"})
	return users, err
}

func (c *Client) RegisterUser(ctx context.Context, dto user.RegisterDTO) (string, error) {
	in, err := jsonCall(http.MethodPost, "/registro", dto)
	if err != nil {
		return "", err
	}
	_, msg, err := do[json.RawMessage](ctx, c, in)
	return msg, err
}

func (c *Client) UpdateUser(ctx context.Context, id int64, dto user.UpdateDTO) error {
	in, err := jsonCall(http.MethodPut, "/usuarios/"+strconv.FormatInt(id, 10), dto)
	if err != nil {
		return err
	}
	_, _, err = do[json.RawMessage](ctx, c, in)
	return err
}

func (c *Client) SetUserActive(ctx context.Context, id int64, active bool) error {
	_, _, err := do[json.RawMessage](ctx, c, call{
		method: http.MethodPatch,
		path:   "/usuarios/" + strconv.FormatInt(id, 10) + "/" + toggleSegment(active),
	})
	return err
}

func toggleSegment(active bool) string {
	if active {
		return "activate"
	}
	return "deactivate"
}
