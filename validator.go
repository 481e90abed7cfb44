package openapireq

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultLocation is the spec file used when Config.Location is empty.
const DefaultLocation = "openapi.yml"

// Config configures a [Validator].
type Config struct {
	// Location is the path of the OpenAPI document. Defaults to
	// DefaultLocation.
	Location string
	// Schemas supplies pre-resolved $ref targets merged into the document
	// at load time. See [WithSchemas].
	Schemas map[string]any
	// Strict validates the whole document against the OpenAPI 3
	// specification when it is loaded.
	Strict bool
	// Logger receives debug events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Validate checks the configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Location, validation.Required),
	)
}

// Validator validates requests against one OpenAPI document. It memoizes
// the document on first access and provides no internal locking: bind one
// Validator per request, or load the document before sharing across
// goroutines (a loaded [Document] is immutable and safe to read
// concurrently).
type Validator struct {
	cfg Config
	doc *Document // lazily loaded, then immutable; see Invalidate
}

// New creates a Validator with defaults applied.
func New(cfg Config) (*Validator, error) {
	if cfg.Location == "" {
		cfg.Location = DefaultLocation
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Validator{cfg: cfg}, nil
}

// Document returns the spec document, loading it from the configured
// location on first access and caching it for the validator's lifetime.
func (v *Validator) Document() (*Document, error) {
	if v.doc != nil {
		return v.doc, nil
	}
	doc, err := Load(v.cfg.Location, WithSchemas(v.cfg.Schemas))
	if err != nil {
		return nil, err
	}
	if v.cfg.Strict {
		if err := doc.Validate(context.Background()); err != nil {
			return nil, err
		}
	}
	v.cfg.Logger.Debug("spec document loaded", "location", v.cfg.Location)
	v.doc = doc
	return doc, nil
}

// Invalidate drops the cached document; the next access reloads it.
func (v *Validator) Invalidate() {
	v.doc = nil
}

// SetLocation points the validator at a different spec file. The cached
// document is dropped only when the location actually changes.
func (v *Validator) SetLocation(location string) {
	if location == v.cfg.Location {
		return
	}
	v.cfg.Location = location
	v.doc = nil
	v.cfg.Logger.Debug("spec document invalidated", "location", location)
}

// BeforeHandle is the pre-handler lifecycle hook: it checks and applies
// the declared parameters, then validates the body, aggregating body
// violations into one [*RequestValidationError] whose message joins each
// violation's error message. An operation with no declared requestBody
// passes; an unknown operation does not.
func (v *Validator) BeforeHandle(req *Request) error {
	params, err := v.CheckParameters(req)
	if err != nil {
		return err
	}
	params.ApplyTo(req)

	verrs, err := v.ValidateBody(req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil // no requestBody declared
		}
		return err
	}
	if len(verrs) == 0 {
		return nil
	}
	msgs := make([]string, len(verrs))
	for i, e := range verrs {
		msgs[i] = e.Message
	}
	return &RequestValidationError{Message: strings.Join(msgs, ", ")}
}
