package openapireq

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/xeipuuv/gojsonpointer"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// documentID is the id the document is registered under with the schema
// engine, so nested "#/components/..." refs resolve against the whole
// document rather than the fragment being validated.
const documentID = "internal://openapireq/document"

// Document is an immutable, in-memory OpenAPI 3.0 document tree. Load one
// with [Load]; no method mutates it afterwards, so a Document is safe for
// concurrent read-only use.
type Document struct {
	root any
}

// LoadOption configures [Load].
type LoadOption func(*loadOptions)

type loadOptions struct {
	schemas map[string]any
}

// WithSchemas supplies already-resolved $ref targets that are not part of
// the spec file. They are merged under components/schemas before the
// document becomes immutable, so "#/components/schemas/<name>" refs
// resolve to them.
func WithSchemas(schemas map[string]any) LoadOption {
	return func(o *loadOptions) {
		o.schemas = schemas
	}
}

// Load reads and parses the OpenAPI document at location. YAML and JSON
// are both accepted. A missing file surfaces the filesystem error
// (errors.Is(err, fs.ErrNotExist)); malformed content surfaces a
// [*ParseError].
func Load(location string, opts ...LoadOption) (*Document, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read spec: %w", err)
	}

	root, err := parseDocument(data)
	if err != nil {
		return nil, &ParseError{Location: location, Cause: err}
	}

	mergeSchemas(root, o.schemas)
	return &Document{root: root}, nil
}

// parseDocument decodes data as JSON when it is valid JSON, otherwise as
// YAML. YAML is a superset of JSON but the JSON path keeps numbers and
// key types exactly as the schema engine expects.
func parseDocument(data []byte) (any, error) {
	var root any
	if json.Valid(data) {
		if err := json.Unmarshal(data, &root); err == nil {
			return root, nil
		}
	}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return normalizeTree(root), nil
}

// normalizeTree makes a YAML-decoded tree JSON-compatible. Unquoted
// response codes ("200:", the prevailing OpenAPI style) decode as int
// keys, turning their mapping into map[interface{}]interface{}, which the
// schema engine cannot marshal. All map keys become strings, so they also
// match JSON Pointer segments.
func normalizeTree(node any) any {
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			n[k] = normalizeTree(v)
		}
		return n
	case map[any]any:
		m := make(map[string]any, len(n))
		for k, v := range n {
			m[fmt.Sprint(k)] = normalizeTree(v)
		}
		return m
	case []any:
		for i, v := range n {
			n[i] = normalizeTree(v)
		}
		return n
	default:
		return node
	}
}

// mergeSchemas writes pre-resolved schema nodes under components/schemas.
// Called only during Load, before the document is shared.
func mergeSchemas(root any, schemas map[string]any) {
	if len(schemas) == 0 {
		return
	}
	m, ok := root.(map[string]any)
	if !ok {
		return
	}
	components, ok := m["components"].(map[string]any)
	if !ok {
		components = map[string]any{}
		m["components"] = components
	}
	target, ok := components["schemas"].(map[string]any)
	if !ok {
		target = map[string]any{}
		components["schemas"] = target
	}
	for name, schema := range schemas {
		target[name] = schema
	}
}

// Root returns the raw document tree. Callers must not modify it.
func (d *Document) Root() any {
	return d.root
}

// MarshalJSON renders the document tree as JSON.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.root)
}

// Resolve returns the node at the given JSON Pointer ("~0" unescapes to
// "~", "~1" to "/"). A leading "/" is optional. A missing node returns a
// [*NotFoundError] matching [ErrNotFound].
func (d *Document) Resolve(pointer string) (any, error) {
	jp, err := gojsonpointer.NewJsonPointer(normalizePointer(pointer))
	if err != nil {
		return nil, fmt.Errorf("pointer %q: %w", pointer, err)
	}
	node, _, err := jp.Get(d.root)
	if err != nil {
		return nil, &NotFoundError{Pointer: pointer}
	}
	return node, nil
}

// ValidateAt validates instance against the schema node at pointer.
// Violations come back as the slice; the error return is reserved for
// resolver failures (missing pointer, unresolvable nested $ref).
func (d *Document) ValidateAt(pointer string, instance any) ([]ValidationError, error) {
	if _, err := d.Resolve(pointer); err != nil {
		return nil, err
	}
	return d.validateRef(documentID+"#"+normalizePointer(pointer), instance)
}

// ValidateRef validates instance against the schema a "#/..." $ref string
// points at, as used by path-parameter schemas.
func (d *Document) ValidateRef(ref string, instance any) ([]ValidationError, error) {
	if strings.HasPrefix(ref, "#") {
		ref = documentID + ref
	}
	return d.validateRef(ref, instance)
}

func (d *Document) validateRef(ref string, instance any) ([]ValidationError, error) {
	sl := gojsonschema.NewSchemaLoader()
	if err := sl.AddSchema(documentID, gojsonschema.NewGoLoader(d.root)); err != nil {
		return nil, fmt.Errorf("register document: %w", err)
	}
	schema, err := sl.Compile(gojsonschema.NewGoLoader(map[string]any{"$ref": ref}))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", ref, err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(instance))
	if err != nil {
		return nil, fmt.Errorf("validate against %s: %w", ref, err)
	}
	return toValidationErrors(result), nil
}

// Validate checks the whole document against the OpenAPI 3 specification.
// Used by Config.Strict and [Validator.SpecHandler]; request validation
// does not require it.
func (d *Document) Validate(ctx context.Context) error {
	data, err := json.Marshal(d.root)
	if err != nil {
		return err
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = false
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	return doc.Validate(ctx)
}

// normalizePointer makes pointer an absolute JSON Pointer. Operation
// locators are built without the leading "/".
func normalizePointer(pointer string) string {
	if pointer == "" || strings.HasPrefix(pointer, "/") {
		return pointer
	}
	return "/" + pointer
}

// ValidationError is one schema violation. Type is the JSON Schema keyword
// that failed (e.g. "required", "pattern"); Message is the human-readable
// description, serialized under "error".
type ValidationError struct {
	Type    string `json:"type"`
	Message string `json:"error"`
	Field   string `json:"field,omitempty"`
	Value   any    `json:"value,omitempty"`
}

// String renders the full error object as JSON.
func (e ValidationError) String() string {
	b, err := json.Marshal(e)
	if err != nil {
		return e.Message
	}
	return string(b)
}

func toValidationErrors(result *gojsonschema.Result) []ValidationError {
	if result.Valid() {
		return nil
	}
	out := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		out = append(out, ValidationError{
			Type:    re.Type(),
			Message: re.Description(),
			Field:   re.Field(),
			Value:   re.Value(),
		})
	}
	return out
}
