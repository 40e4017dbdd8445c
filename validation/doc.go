// Package validation validates HTTP request bodies.
//
// Struct tags cover per-field rules:
//
//	type searchRequest struct {
//	    Query string `json:"query" validate:"required,notblank"`
//	}
//	err := validation.Validate(req)
//
// The programmatic Validator covers cross-field rules:
//
//	err := validation.New().SameLength("embeddings", len(emb), len(sentences)).Err()
//
// Both return INVALID_INPUT AppErrors with a "fields" detail.
package validation
