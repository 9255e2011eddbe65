package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formengine/pkg/openapi"
)

var requestMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Parser loads documents with kin-openapi and keeps the operations of the
// configured methods that declare a request body.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Operations returns the operations keyed by id. Request body properties
// carry their declared order.
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ExternalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}
	if p.options.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	orders := propertyOrders(raw)
	operations := make(map[string]pkgopenapi.Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, method := range p.options.Methods {
			op, ok := collectOperation(method, path, item.GetOperation(method))
			if !ok {
				continue
			}
			op.RequestBody.PropertyOrder = orders[method+" "+path]
			operations[op.ID] = op
		}
	}
	if len(operations) == 0 {
		return nil, errors.New("openapi parser: no operations with a request body")
	}

	return operations, nil
}

func collectOperation(method, path string, operation *openapi3.Operation) (pkgopenapi.Operation, bool) {
	if operation == nil || operation.RequestBody == nil {
		return pkgopenapi.Operation{}, false
	}
	opID := operation.OperationID
	if opID == "" {
		opID = strings.ToLower(method) + ":" + path
	}

	return pkgopenapi.Operation{
		ID:          opID,
		Method:      method,
		Path:        path,
		Summary:     operation.Summary,
		Description: operation.Description,
		RequestBody: extractRequestSchema(operation.RequestBody),
		Extensions:  extractExtensions(operation.Extensions),
	}, true
}

func extractRequestSchema(requestBody *openapi3.RequestBodyRef) pkgopenapi.Schema {
	if requestBody.Value == nil {
		return pkgopenapi.Schema{Ref: requestBody.Ref}
	}
	content := requestBody.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok {
			return convertSchema(mt.Schema)
		}
	}
	for _, mt := range content {
		return convertSchema(mt.Schema)
	}
	return pkgopenapi.Schema{}
}

func convertSchema(ref *openapi3.SchemaRef) pkgopenapi.Schema {
	return convert(ref, make(map[*openapi3.Schema]bool))
}

// convert keeps a ref-only schema when it meets a cycle.
func convert(ref *openapi3.SchemaRef, visiting map[*openapi3.Schema]bool) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	if ref.Value == nil || visiting[ref.Value] {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	visiting[ref.Value] = true
	defer delete(visiting, ref.Value)

	src := ref.Value
	schema := pkgopenapi.Schema{
		Ref:              ref.Ref,
		Type:             firstSchemaType(src.Type),
		Format:           src.Format,
		Title:            src.Title,
		Description:      src.Description,
		Default:          src.Default,
		Pattern:          src.Pattern,
		ExclusiveMinimum: src.ExclusiveMin,
		Extensions:       extractExtensions(src.Extensions),
	}
	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		schema.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = convert(property, visiting)
		}
	}
	if src.Items != nil {
		items := convert(src.Items, visiting)
		schema.Items = &items
	}
	if src.Min != nil {
		value := *src.Min
		schema.Minimum = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		schema.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		schema.MaxLength = &value
	}
	for _, part := range src.AllOf {
		mergeAllOf(&schema, convert(part, visiting))
	}
	return schema
}

// mergeAllOf folds an allOf member into target: properties and required
// names are added, and the object type is inherited when target has none.
func mergeAllOf(target *pkgopenapi.Schema, part pkgopenapi.Schema) {
	if target.Type == "" {
		target.Type = part.Type
	}
	if len(part.Properties) > 0 && target.Properties == nil {
		target.Properties = make(map[string]pkgopenapi.Schema, len(part.Properties))
	}
	for name, prop := range part.Properties {
		if _, exists := target.Properties[name]; !exists {
			target.Properties[name] = prop
		}
	}
	for _, name := range part.Required {
		if !target.IsRequired(name) {
			target.Required = append(target.Required, name)
		}
	}
	for key, value := range part.Extensions {
		if target.Extensions == nil {
			target.Extensions = make(map[string]any, len(part.Extensions))
		}
		if _, exists := target.Extensions[key]; !exists {
			target.Extensions[key] = value
		}
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

func extractExtensions(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	value, ok := raw[pkgopenapi.ExtensionKey]
	if !ok {
		return nil
	}
	mapped, ok := value.(map[string]any)
	if !ok || len(mapped) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(mapped))
	for k, v := range mapped {
		cloned[k] = v
	}
	return map[string]any{pkgopenapi.ExtensionKey: cloned}
}
