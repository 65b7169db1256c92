// Package validation defines the schema capability a form engine consumes.
//
// A Validator enumerates the fields it declares and, for each of them, can
// validate a single value, report a human-readable label and a default value.
// It can also validate a whole record. Every validation returns an Outcome:
// either Accepted with the (possibly coerced) value, or Rejected with the
// issues found, in the order the validator produced them. Validation failures
// are data, never Go errors.
package validation
