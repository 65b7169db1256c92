// Package openapi provides a validation.Validator backed by kin-openapi.
//
// A Validator wraps an object schema: every top-level property becomes a form
// field. Field values are checked with openapi3.Schema.VisitJSON against the
// property schema; records are checked property by property and then against
// the object schema itself so object-level rules (required,
// additionalProperties) surface and declared defaults are applied to the
// accepted record.
//
// Schemas can come from raw JSON or YAML (LoadSchema), from the request body
// of an operation in an OpenAPI document (FromDocument, or Load which detects
// either form) or from a Go struct reflected with invopop/jsonschema
// (FromStruct).
package openapi
