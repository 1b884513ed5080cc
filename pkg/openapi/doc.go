// Package openapi imports OpenAPI 3 documents into the schema model used by
// the form pipeline: component schemas become named form types and operation
// request bodies become standalone schemas.
package openapi
