package openapireq

import (
	"context"
	"net/http"
)

// SpecHandler returns an http.Handler that serves the loaded OpenAPI
// document as JSON. The document is validated against the OpenAPI 3
// specification before it is served. The prefix is stripped
// automatically, so just mount it:
//
//	http.Handle("/docs/", v.SpecHandlerMust("/docs/"))
func (v *Validator) SpecHandler(prefix string) (http.Handler, error) {
	doc, err := v.Document()
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, err
	}
	specJSON, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}

	return http.StripPrefix(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "", "/", "/docs.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(specJSON)
		default:
			http.NotFound(w, r)
		}
	})), nil
}

// SpecHandlerMust is like SpecHandler but panics on error.
func (v *Validator) SpecHandlerMust(prefix string) http.Handler {
	h, err := v.SpecHandler(prefix)
	if err != nil {
		panic(err)
	}
	return h
}
