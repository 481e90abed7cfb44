package openapireq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// PathParamsFunc extracts the routed path parameters from a request, in
// declared order. Routers differ here; with the net/http ServeMux:
//
//	func(r *http.Request) []openapireq.PathParam {
//	    return []openapireq.PathParam{{Name: "id", Value: r.PathValue("id")}}
//	}
type PathParamsFunc func(*http.Request) []PathParam

// MiddlewareConfig customizes [Validator.MiddlewareWithConfig].
type MiddlewareConfig struct {
	// PathParams extracts path parameters for template matching. Without
	// it, only literal spec paths can match.
	PathParams PathParamsFunc
	// ErrorHandler renders validation failures. The default writes a JSON
	// error body with 400 for request errors and 500 otherwise.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware runs [Validator.BeforeHandle] before next, with default
// configuration.
func (v *Validator) Middleware(next http.Handler) http.Handler {
	return v.MiddlewareWithConfig(MiddlewareConfig{}, next)
}

// MiddlewareWithConfig runs [Validator.BeforeHandle] before next. The
// request body is buffered so the handler can read it again, and the
// validated [Request] (with cast parameter values applied) is stored on
// the request context for [RequestFromContext].
func (v *Validator) MiddlewareWithConfig(cfg MiddlewareConfig, next http.Handler) http.Handler {
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var pathParams []PathParam
		if cfg.PathParams != nil {
			pathParams = cfg.PathParams(r)
		}

		var body []byte
		if r.Body != nil {
			var err error
			body, err = io.ReadAll(r.Body)
			if err != nil {
				cfg.ErrorHandler(w, r, fmt.Errorf("read request body: %w", err))
				return
			}
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		req := FromHTTP(r, pathParams...)
		req.Body = bytes.NewReader(body)

		if err := v.BeforeHandle(req); err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withRequest(r.Context(), req)))
	})
}

type requestKey struct{}

func withRequest(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// RequestFromContext returns the validated [Request] the middleware stored
// on the context. Query values carry their cast types, and validated path
// parameters are in Params.
func RequestFromContext(ctx context.Context) (*Request, bool) {
	req, ok := ctx.Value(requestKey{}).(*Request)
	return req, ok
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var reqErr *RequestValidationError
	var parseErr *BodyParseError
	if errors.As(err, &reqErr) || errors.As(err, &parseErr) {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
