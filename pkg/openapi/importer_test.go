package openapi

import (
	"context"
	"testing"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

const sampleSpec = `
openapi: 3.0.3
info:
  title: Accounts API
  version: 1.0.0
paths:
  /users:
    post:
      operationId: createUser
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/UserProfile'
      responses:
        '201':
          description: created
  /ping:
    get:
      operationId: ping
      responses:
        '204':
          description: ok
components:
  schemas:
    UserProfile:
      type: object
      required: [email]
      properties:
        email:
          type: string
          format: email
          maxLength: 120
          x-ui:
            placeholder: you@example.com
        age:
          type: integer
          minimum: 13
          maximum: 120
        bio:
          type: string
          maxLength: 500
        address:
          $ref: '#/components/schemas/Address'
        tags:
          type: array
          maxItems: 5
          items:
            type: string
    Address:
      type: object
      properties:
        street:
          type: string
        city:
          type: string
`

func TestComponents(t *testing.T) {
	provider, err := New().Components(context.Background(), []byte(sampleSpec))
	if err != nil {
		t.Fatalf("components: %v", err)
	}

	profile, err := provider.Lookup("UserProfile")
	if err != nil {
		t.Fatalf("lookup UserProfile: %v", err)
	}
	if profile.Type != schema.TypeObject {
		t.Errorf("type = %q, want object", profile.Type)
	}
	if !profile.IsRequired("email") {
		t.Errorf("email should be required")
	}

	email := profile.Properties["email"]
	if email == nil || email.Format != "email" {
		t.Fatalf("unexpected email schema: %+v", email)
	}
	if email.MaxLength == nil || *email.MaxLength != 120 {
		t.Errorf("maxLength not converted: %+v", email.MaxLength)
	}
	if email.Hints().Placeholder != "you@example.com" {
		t.Errorf("x-ui hints not decoded: %+v", email.UI)
	}

	age := profile.Properties["age"]
	if age == nil || age.Minimum == nil || *age.Minimum != 13 || age.Maximum == nil || *age.Maximum != 120 {
		t.Errorf("numeric bounds not converted: %+v", age)
	}

	tags := profile.Properties["tags"]
	if tags == nil || tags.Type != schema.TypeArray || tags.Items == nil || tags.Items.Type != schema.TypeString {
		t.Errorf("array schema not converted: %+v", tags)
	}
	if tags.MaxItems == nil || *tags.MaxItems != 5 {
		t.Errorf("maxItems not converted: %+v", tags.MaxItems)
	}

	address := profile.Properties["address"]
	if address == nil || address.Ref != "#/components/schemas/Address" {
		t.Fatalf("nested component should stay a reference: %+v", address)
	}
	if resolved := schema.ResolveRef(address.Ref, profile.Defs); resolved == nil {
		t.Errorf("reference should resolve through attached defs")
	} else if resolved.Properties["street"] == nil {
		t.Errorf("resolved Address missing properties: %+v", resolved)
	}

	if _, err := provider.Lookup("Missing"); err == nil {
		t.Errorf("expected lookup error for unknown type")
	}
}

func TestRequestSchemas(t *testing.T) {
	bodies, err := New().RequestSchemas(context.Background(), []byte(sampleSpec))
	if err != nil {
		t.Fatalf("request schemas: %v", err)
	}

	body, ok := bodies["createUser"]
	if !ok {
		t.Fatalf("missing createUser body, got %v", bodies)
	}
	// kin-openapi resolves the component reference in place.
	if body.Ref == "" && body.Type != schema.TypeObject {
		t.Errorf("unexpected body schema: %+v", body)
	}

	if _, ok := bodies["ping"]; ok {
		t.Errorf("operations without a body must be skipped")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := New().Components(context.Background(), nil); err == nil {
		t.Errorf("expected error for empty payload")
	}

	empty := []byte("openapi: 3.0.3\ninfo:\n  title: t\n  version: 1.0.0\npaths: {}\n")
	if _, err := New().Components(context.Background(), empty); err == nil {
		t.Errorf("expected error for document without components")
	}
	if _, err := New(WithPartialDocuments()).Components(context.Background(), empty); err != nil {
		t.Errorf("partial documents should be accepted: %v", err)
	}
}
