// Package testkit holds small helpers for exercising HTTP handlers in
// tests: a request builder, a recorder wrapper, and decoders for the
// standard response envelope.
package testkit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Envelope mirrors the JSON body every handler writes.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// ─── Request builder ──────────────────────────────────────────────────────────

// Request builds an *http.Request for handler tests.
type Request struct {
	method  string
	path    string
	body    any
	headers map[string]string
}

func NewRequest(method, path string) *Request {
	return &Request{method: method, path: path, headers: map[string]string{}}
}

func Get(path string) *Request    { return NewRequest(http.MethodGet, path) }
func Post(path string) *Request   { return NewRequest(http.MethodPost, path) }
func Put(path string) *Request    { return NewRequest(http.MethodPut, path) }
func Delete(path string) *Request { return NewRequest(http.MethodDelete, path) }

// JSON sets the request body, encoded as JSON.
func (r *Request) JSON(body any) *Request {
	r.body = body
	return r
}

// Bearer sets the Authorization header.
func (r *Request) Bearer(token string) *Request {
	r.headers["Authorization"] = "Bearer " + token
	return r
}

func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Build materializes the request.
func (r *Request) Build(t *testing.T) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if r.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(r.body))
	}
	req := httptest.NewRequest(r.method, r.path, &buf)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	return req
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// Do runs the request through h and returns the recorder.
func Do(t *testing.T, h http.Handler, r *Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r.Build(t))
	return rec
}

// DecodeEnvelope parses the recorded body into the response envelope.
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env),
		"body was not a valid envelope: %s", rec.Body.String())
	return env
}

// DecodeData parses the envelope's data field into dest.
func DecodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) Envelope {
	t.Helper()
	env := DecodeEnvelope(t, rec)
	require.NotNil(t, env.Data, "envelope carried no data: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dest))
	return env
}
