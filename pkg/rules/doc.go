// Package rules implements validation.Validator over a list of model.Field
// definitions. Each field is type-checked against its declared kind and then
// evaluated against its validation rules; every failing rule contributes one
// issue, in declaration order.
package rules
