package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// ErrOperationNotFound is returned when an OpenAPI document has no operation
// with the requested id.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// Load builds a Validator from raw bytes holding either a full OpenAPI
// document (the request body of operationID is used) or a bare JSON/YAML
// object schema.
func Load(ctx context.Context, raw []byte, operationID string, opts ...Option) (*Validator, error) {
	if detectOpenAPI(raw) {
		return FromDocument(ctx, raw, operationID, opts...)
	}
	return LoadSchema(raw, opts...)
}

// LoadSchema parses a JSON or YAML object schema. Properties keep the order
// in which the document declares them unless WithOrder overrides it.
func LoadSchema(raw []byte, opts ...Option) (*Validator, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("openapi: schema payload is empty")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(trimmed, &node); err != nil {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("openapi: parse schema: %w", err)
		}
	}

	payload := trimmed
	if !json.Valid(trimmed) {
		var generic any
		if err := node.Decode(&generic); err != nil {
			return nil, fmt.Errorf("openapi: decode yaml schema: %w", err)
		}
		converted, err := json.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("openapi: convert yaml schema: %w", err)
		}
		payload = converted
	}

	schema := &openapi3.Schema{}
	if err := json.Unmarshal(payload, schema); err != nil {
		return nil, fmt.Errorf("openapi: decode schema: %w", err)
	}

	order := declaredOrder(&node)
	return NewValidator(schema, append([]Option{WithOrder(order...)}, opts...)...)
}

// FromDocument loads an OpenAPI document and wraps the JSON request body
// schema of operationID.
func FromDocument(ctx context.Context, raw []byte, operationID string, opts ...Option) (*Validator, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}

	op := findOperation(doc, operationID)
	if op == nil {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request body", operationID)
	}
	media := requestMedia(op.RequestBody.Value.Content)
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}
	return NewValidator(media.Schema.Value, opts...)
}

// FromStruct reflects v (a struct or pointer to struct) into a JSON schema
// using `json` and `jsonschema` struct tags. Fields keep struct order.
func FromStruct(v any, opts ...Option) (*Validator, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	reflected := r.Reflect(v)
	if reflected == nil || reflected.Type != "object" {
		return nil, ErrNotObject
	}

	var order []string
	if reflected.Properties != nil {
		for el := reflected.Properties.Oldest(); el != nil; el = el.Next() {
			order = append(order, el.Key)
		}
	}

	raw, err := json.Marshal(reflected)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode reflected schema: %w", err)
	}
	schema := &openapi3.Schema{}
	if err := json.Unmarshal(raw, schema); err != nil {
		return nil, fmt.Errorf("openapi: decode reflected schema: %w", err)
	}
	return NewValidator(schema, append([]Option{WithOrder(order...)}, opts...)...)
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestMedia(content openapi3.Content) *openapi3.MediaType {
	if media := content.Get("application/json"); media != nil {
		return media
	}
	for _, mime := range []string{"application/x-www-form-urlencoded", "multipart/form-data"} {
		if media, ok := content[mime]; ok {
			return media
		}
	}
	return nil
}

// declaredOrder returns the property names of a schema document in the order
// they appear.
func declaredOrder(node *yaml.Node) []string {
	root := node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "properties" {
			continue
		}
		props := root.Content[i+1]
		if props.Kind != yaml.MappingNode {
			return nil
		}
		order := make([]string, 0, len(props.Content)/2)
		for j := 0; j+1 < len(props.Content); j += 2 {
			order = append(order, props.Content[j].Value)
		}
		return order
	}
	return nil
}

func detectOpenAPI(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' {
		var payload map[string]any
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			_, isOpenAPI := payload["openapi"]
			return isOpenAPI
		}
	}
	for _, line := range strings.Split(string(trimmed), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "openapi:") && !strings.HasPrefix(line, " ") {
			return true
		}
	}
	return false
}
