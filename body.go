package openapireq

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// contentTypeMessage is the fixed failure message for a wrong or missing
// Content-Type header.
const contentTypeMessage = `"Content-Type" request header must be set to "application/json".`

// bodySchemaSuffix addresses the JSON request-body schema below an
// operation node ("application/json" escaped into one pointer segment).
const bodySchemaSuffix = "/requestBody/content/application~1json/schema"

// ValidateBody validates the request body against the operation's declared
// request-body schema.
//
// GET and DELETE requests return (nil, nil) without touching the content
// type or body. Other methods require Content-Type "application/json"
// ([*RequestValidationError] otherwise) and a parseable JSON body
// ([*BodyParseError] otherwise). Schema violations come back as the slice
// and never as an error; the error return is reserved for transport,
// parse, and lookup failures. An operation with no declared requestBody
// surfaces [ErrNotFound], which callers may treat as "no validation
// required".
func (v *Validator) ValidateBody(req *Request) ([]ValidationError, error) {
	if skipBody(req.Method) {
		return nil, nil
	}

	if req.ContentType != "application/json" {
		return nil, &RequestValidationError{Message: contentTypeMessage}
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		// a transport failure, not a parse failure
		return nil, fmt.Errorf("read request body: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, &BodyParseError{Cause: err}
	}

	doc, err := v.Document()
	if err != nil {
		return nil, err
	}
	return doc.ValidateAt(OperationPointer(req)+bodySchemaSuffix, instance)
}

// skipBody reports whether the method carries no body schema by design.
func skipBody(method string) bool {
	return strings.EqualFold(method, http.MethodGet) || strings.EqualFold(method, http.MethodDelete)
}
