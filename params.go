package openapireq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
)

// ParameterLocation says where a declared parameter lives in the request.
type ParameterLocation string

const (
	LocationQuery ParameterLocation = "query"
	LocationPath  ParameterLocation = "path"
)

// Parameter is one declared operation parameter read from the document.
type Parameter struct {
	Name     string
	Location ParameterLocation
	Schema   map[string]any
}

func parameterFrom(raw any) (Parameter, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Parameter{}, false
	}
	name, _ := m["name"].(string)
	if name == "" {
		return Parameter{}, false
	}
	in, _ := m["in"].(string)
	schema, _ := m["schema"].(map[string]any)
	return Parameter{Name: name, Location: ParameterLocation(in), Schema: schema}, true
}

func (p Parameter) schemaType() string {
	t, _ := p.Schema["type"].(string)
	return t
}

func (p Parameter) schemaRef() string {
	r, _ := p.Schema["$ref"].(string)
	return r
}

// Params holds the checked parameter values of one request. Nothing is
// written back implicitly; the caller applies the result with [Params.ApplyTo]
// (which [Validator.BeforeHandle] does on its own).
type Params struct {
	Query map[string]any
	Path  map[string]any
}

// ApplyTo writes the checked values into the request: cast query values
// overwrite their existing Query entries (keys are never introduced), and
// path values land in the general Params store.
func (p Params) ApplyTo(req *Request) {
	for name, value := range p.Query {
		if _, ok := req.Query[name]; ok {
			req.Query[name] = value
		}
	}
	if len(p.Path) > 0 && req.Params == nil {
		req.Params = map[string]any{}
	}
	for name, value := range p.Path {
		req.Params[name] = value
	}
}

// CheckParameters validates the request against the operation's declared
// parameters and returns the cast query values and validated path values.
//
// A request whose method/path resolves to no operation fails with a
// [*RequestValidationError]; an operation without a parameters array is
// fine and yields an empty result. Query parameters absent from the
// request, and request parameters absent from the declaration, are left
// alone.
func (v *Validator) CheckParameters(req *Request) (Params, error) {
	doc, err := v.Document()
	if err != nil {
		return Params{}, err
	}

	opPointer := OperationPointer(req)
	if _, err := doc.Resolve(opPointer); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Params{}, &RequestValidationError{
				Message: fmt.Sprintf("no operation found for %s %s", strings.ToUpper(req.Method), req.Path),
			}
		}
		return Params{}, err
	}

	out := Params{Query: map[string]any{}, Path: map[string]any{}}

	node, err := doc.Resolve(opPointer + "/parameters")
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return out, nil
		}
		return Params{}, err
	}
	list, ok := node.([]any)
	if !ok {
		return out, nil
	}

	for _, raw := range list {
		param, ok := parameterFrom(raw)
		if !ok {
			continue
		}
		switch param.Location {
		case LocationQuery:
			checkQuery(param, req, out.Query)
		case LocationPath:
			if err := checkPath(doc, param, req, out.Path); err != nil {
				return Params{}, err
			}
		default:
			// header and cookie parameters are not in scope
		}
	}
	return out, nil
}

func checkQuery(param Parameter, req *Request, out map[string]any) {
	value, ok := req.Query[param.Name]
	if !ok || value == nil {
		return
	}
	s, ok := value.(string)
	if !ok {
		return // already typed, nothing to cast
	}
	out[param.Name] = castQueryValue(s, param.schemaType())
}

// castQueryValue coerces a raw query string to its declared schema type.
// Only "boolean" has a casting rule: the standard boolean-string cast, so
// "true"/"1" (and case variants) become true, "false"/"0" become false.
// Every other declared type keeps the original string, as does a string
// that does not parse as a boolean. Casting never loses information.
func castQueryValue(s, schemaType string) any {
	if schemaType != "boolean" {
		return s
	}
	b, err := govalidator.ToBoolean(s)
	if err != nil {
		return s
	}
	return b
}

// checkPath validates a path parameter against its schema's $ref and, on
// success, stages the value for the general parameter store. Inline
// schemas (type/pattern without $ref) are not validated at this layer;
// only $ref schemas are enforced. Known limitation.
func checkPath(doc *Document, param Parameter, req *Request, out map[string]any) error {
	value, ok := req.PathParam(param.Name)
	if !ok {
		return nil
	}
	if ref := param.schemaRef(); ref != "" {
		verrs, err := doc.ValidateRef(ref, value)
		if err != nil {
			return err
		}
		if len(verrs) > 0 {
			return &RequestValidationError{Message: joinErrors(verrs)}
		}
	}
	out[param.Name] = value
	return nil
}

// joinErrors renders every error object, not just the first, comma-joined.
func joinErrors(errs []ValidationError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
