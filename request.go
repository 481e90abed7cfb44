package openapireq

import (
	"bytes"
	"io"
	"mime"
	"net/http"
)

// PathParam is one routed path parameter. Requests carry path parameters
// as an ordered slice so template substitution is deterministic when two
// parameters share a value: declared order wins, never map order.
type PathParam struct {
	Name  string
	Value string
}

// Request is the view of an incoming HTTP request this package validates.
// Routing metadata (handler names and the like) must not appear in
// PathParams; only parameters that are part of the URL belong there.
//
// Query and Params are the two mutable stores: [Params.ApplyTo] writes
// cast query values back into Query and validated path values into
// Params.
type Request struct {
	Method      string
	Path        string // decoded URL path
	ContentType string
	PathParams  []PathParam
	Query       map[string]any
	Params      map[string]any
	Body        io.Reader
}

// FromHTTP adapts a net/http request. Only the first value of repeated
// query parameters is kept, and content-type parameters (charset etc.)
// are stripped. The body reader is shared with r; use
// [Validator.Middleware] when the handler needs to re-read it.
func FromHTTP(r *http.Request, pathParams ...PathParam) *Request {
	query := map[string]any{}
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			query[name] = values[0]
		}
	}

	var body io.Reader = r.Body
	if r.Body == nil {
		body = bytes.NewReader(nil)
	}

	return &Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: mediaType(r.Header.Get("Content-Type")),
		PathParams:  pathParams,
		Query:       query,
		Params:      map[string]any{},
		Body:        body,
	}
}

// PathParam returns the value of the named path parameter.
func (r *Request) PathParam(name string) (string, bool) {
	for _, p := range r.PathParams {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// mediaType strips parameters from a Content-Type header value, so
// "application/json; charset=utf-8" compares equal to "application/json".
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mt
}
