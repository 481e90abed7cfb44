package openapireq

import (
	"net/url"
	"strings"
)

// TemplatePath converts the request's concrete path into the templated
// path key used by the spec: each path parameter's value is substituted
// (first occurrence only) with its brace-wrapped name, so "/users/123"
// with the parameter id=123 becomes "/users/{id}".
//
// Substitution walks Request.PathParams in order. Segments that match no
// parameter stay literal and must equal the spec's path key exactly; no
// fuzzy matching happens here or later.
func TemplatePath(req *Request) string {
	path := req.Path
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}
	// The routing layer encodes spaces as "+" in spec path keys.
	path = strings.ReplaceAll(path, " ", "+")

	for _, p := range req.PathParams {
		if p.Value == "" {
			continue
		}
		path = strings.Replace(path, p.Value, "{"+p.Name+"}", 1)
	}
	return path
}

// OperationPointer derives the JSON Pointer of the operation node for the
// request: "paths/<templated-path>/<verb>", with the templated path
// escaped into a single pointer segment ("~" -> "~0", then "/" -> "~1")
// and the verb lowercased. "/users/123" under GET yields
// "paths/~1users~1{id}/get".
func OperationPointer(req *Request) string {
	segment := escapeSegment(TemplatePath(req))
	return "paths/" + segment + "/" + strings.ToLower(req.Method)
}

// escapeSegment applies JSON Pointer escaping to a raw segment. Order
// matters: "~" first, or the "~1"s produced for slashes would be
// double-escaped.
func escapeSegment(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
