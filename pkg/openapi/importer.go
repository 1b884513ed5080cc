package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// uiExtensionKey carries presentation hints inside an OpenAPI schema.
const uiExtensionKey = "x-ui"

// Importer converts OpenAPI 3 documents into the internal schema model:
// every component schema becomes a named form type, and request bodies can
// be pulled per operation.
type Importer struct {
	resolveReferences bool
	allowPartial      bool
}

// Option configures an Importer.
type Option func(*Importer)

// WithReferenceResolution validates the document and resolves external
// references while loading.
func WithReferenceResolution() Option {
	return func(i *Importer) { i.resolveReferences = true }
}

// WithPartialDocuments accepts documents without component schemas instead
// of failing.
func WithPartialDocuments() Option {
	return func(i *Importer) { i.allowPartial = true }
}

// New constructs an Importer.
func New(options ...Option) *Importer {
	i := &Importer{}
	for _, opt := range options {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Components loads a document and converts its component schemas into a
// provider the catalog can resolve types from.
func (i *Importer) Components(ctx context.Context, payload []byte) (schema.MapProvider, error) {
	spec, err := i.load(ctx, payload)
	if err != nil {
		return nil, err
	}

	out := make(schema.MapProvider)
	if spec.Components != nil {
		for name, ref := range spec.Components.Schemas {
			converted := convertSchema(ref, 0)
			if converted == nil {
				continue
			}
			out[name] = converted
		}
	}
	if len(out) == 0 && !i.allowPartial {
		return nil, errors.New("openapi: document has no component schemas")
	}

	// Each converted schema carries the full component table so $ref fields
	// resolve during rendering.
	defs := make(map[string]*schema.Schema, len(out))
	for name, s := range out {
		defs[name] = s
	}
	for _, s := range out {
		if s.Defs == nil {
			s.Defs = defs
		}
	}
	return out, nil
}

// RequestSchemas loads a document and returns the request body schema per
// operation id. Operations without a body are skipped.
func (i *Importer) RequestSchemas(ctx context.Context, payload []byte) (map[string]*schema.Schema, error) {
	spec, err := i.load(ctx, payload)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*schema.Schema)
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			for method, operation := range item.Operations() {
				if operation == nil {
					continue
				}
				body := requestSchema(operation.RequestBody)
				if body == nil {
					continue
				}
				opID := operation.OperationID
				if opID == "" {
					opID = strings.ToLower(method) + ":" + path
				}
				out[opID] = body
			}
		}
	}
	if len(out) == 0 && !i.allowPartial {
		return nil, errors.New("openapi: no operations with request bodies")
	}
	return out, nil
}

func (i *Importer) load(ctx context.Context, payload []byte) (*openapi3.T, error) {
	if len(payload) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.resolveReferences,
	}
	spec, err := loader.LoadFromData(payload)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if i.resolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate document: %w", err)
		}
	}
	return spec, nil
}

func requestSchema(body *openapi3.RequestBodyRef) *schema.Schema {
	if body == nil {
		return nil
	}
	if body.Value == nil {
		if body.Ref != "" {
			return &schema.Schema{Ref: body.Ref}
		}
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok {
			return convertSchema(mt.Schema, 0)
		}
	}
	for _, mt := range content {
		return convertSchema(mt.Schema, 0)
	}
	return nil
}

// convertSchema maps a kin-openapi schema onto the internal model. Depth is
// capped so cyclic component references terminate at a bare $ref.
func convertSchema(ref *openapi3.SchemaRef, depth int) *schema.Schema {
	if ref == nil {
		return nil
	}
	if ref.Value == nil || (depth > 0 && ref.Ref != "") || depth > 16 {
		if ref.Ref == "" {
			return nil
		}
		return &schema.Schema{Ref: ref.Ref}
	}

	src := ref.Value
	out := &schema.Schema{
		Type:        schema.Type(firstSchemaType(src.Type)),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Pattern:     src.Pattern,
	}

	if len(src.Required) > 0 {
		out.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		out.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		out.Properties = make(map[string]*schema.Schema, len(src.Properties))
		for name, property := range src.Properties {
			if converted := convertSchema(property, depth+1); converted != nil {
				out.Properties[name] = converted
			}
		}
	}
	if src.Items != nil {
		out.Items = convertSchema(src.Items, depth+1)
	}

	if src.Min != nil {
		value := *src.Min
		out.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		out.Maximum = &value
	}
	out.ExclusiveMinimum = src.ExclusiveMin
	out.ExclusiveMaximum = src.ExclusiveMax
	if src.MinLength != 0 {
		value := int(src.MinLength)
		out.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		out.MaxLength = &value
	}
	if src.MinItems != 0 {
		value := int(src.MinItems)
		out.MinItems = &value
	}
	if src.MaxItems != nil {
		value := int(*src.MaxItems)
		out.MaxItems = &value
	}

	out.UI = extractUIHints(src.Extensions)
	return out
}

// extractUIHints decodes the x-ui extension through JSON so the hint struct
// tags decide the field mapping.
func extractUIHints(extensions map[string]any) *schema.UIHints {
	raw, ok := extensions[uiExtensionKey]
	if !ok || raw == nil {
		return nil
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	hints := &schema.UIHints{}
	if err := json.Unmarshal(payload, hints); err != nil {
		return nil
	}
	return hints
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
