// Package openapireq validates incoming HTTP requests against an OpenAPI
// 3.0 document and coerces query parameters to their declared schema types.
//
// Create a [Validator] bound to a spec file, then run the lifecycle hook
// before handling each request:
//
//	v, _ := openapireq.New(openapireq.Config{Location: "openapi.yml"})
//	req := openapireq.FromHTTP(r, openapireq.PathParam{Name: "id", Value: "123"})
//	if err := v.BeforeHandle(req); err != nil {
//	    // 400 for *RequestValidationError / *BodyParseError
//	}
//
// [Validator.ValidateBody] and [Validator.CheckParameters] are also usable
// on their own when the caller wants the raw validation errors instead of
// an aggregated failure. For plain net/http servers, [Validator.Middleware]
// wires the hook up as middleware.
//
// The spec document is loaded once per validator and treated as read-only
// afterwards; [Validator.Invalidate] forces a reload on next access.
package openapireq
