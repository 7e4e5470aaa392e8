// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package prediction relays diagnostic image uploads to the platform's
inference endpoints.

The professional uploads an exam image, the gateway streams it upstream
unmodified, and the model's class probabilities come back. Two gateway
responsibilities sit on top of the relay:

  - The breast model lives at a different upstream path segment than its
    public name; the alias table hides that.
  - Probabilities arrive as percentages from some pipelines and ratios from
    others. Everything above 1 is treated as a percentage and scaled down.
*/
package prediction

import (
	"context"
	"encoding/json"
	"io"

	"github.com/mediscan/gateway/internal/platform/apperr"
	"github.com/mediscan/gateway/internal/upstream"
)

// basePath is the platform API prediction endpoint family.
const basePath = "/api/predictions"

// Public model names accepted on the route.
const (
	ModelRespiratory  = "respiratory"
	ModelTuberculosis = "tuberculosis"
	ModelOsteoporosis = "osteoporosis"
	ModelBreast       = "breast"
)

// upstreamSegment maps a public model name to its platform path segment.
// The table doubles as the allow-list of known models.
var upstreamSegment = map[string]string{
	ModelRespiratory:  "respiratory",
	ModelTuberculosis: "tuberculosis",
	ModelOsteoporosis: "osteoporosis",
	ModelBreast:       "breast-cancer",
}

// PlatformAPI is the slice of the upstream client this module needs.
type PlatformAPI interface {
	PostRaw(ctx context.Context, path, bearer, contentType string, body io.Reader) (json.RawMessage, error)
}

// Service relays inference requests upstream.
type Service struct {
	api PlatformAPI
}

// NewService wires the prediction proxy.
func NewService(api PlatformAPI) *Service {
	return &Service{api: api}
}

/*
Predict streams an exam image to the named model and returns its result.

Parameters:
  - ctx: Request-scoped context.
  - bearer: The actor's platform credential.
  - model: Public model name (respiratory, tuberculosis, osteoporosis, breast).
  - contentType: The upload's content type, forwarded verbatim.
  - body: The raw request body, streamed without buffering the image twice.

Returns:
  - json.RawMessage: The inference result with probabilities on the 0..1 scale.
  - error: Validation error for unknown models, or the relayed upstream failure.
*/
func (service *Service) Predict(ctx context.Context, bearer, model, contentType string, body io.Reader) (json.RawMessage, error) {
	segment, known := upstreamSegment[model]
	if !known {
		return nil, apperr.ValidationError("Unknown prediction model", apperr.FieldError{
			Field:   "model",
			Message: "Must be one of: respiratory, tuberculosis, osteoporosis, breast",
		})
	}

	payload, err := service.api.PostRaw(ctx, basePath+"/"+segment, bearer, contentType, body)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}

	return normalizePayload(payload), nil
}

// NormalizeProbability coerces a model probability onto the 0..1 scale.
// Values above 1 are percentages and are scaled down.
func NormalizeProbability(value float64) float64 {
	if value > 1 {
		return value / 100
	}
	return value
}

// normalizePayload rewrites every numeric field of the inference result onto
// the ratio scale. Inference payloads carry only class probabilities as
// numbers, so a blanket rewrite is safe here in a way it would not be for
// the CRUD payloads.
func normalizePayload(payload json.RawMessage) json.RawMessage {
	var generic any
	if err := json.Unmarshal(payload, &generic); err != nil {
		return payload
	}

	normalized := normalizeValue(generic)

	encoded, err := json.Marshal(normalized)
	if err != nil {
		return payload
	}
	return encoded
}

// normalizeValue walks the result tree scaling every number it finds.
func normalizeValue(value any) any {
	switch typed := value.(type) {
	case float64:
		return NormalizeProbability(typed)
	case map[string]any:
		for key, element := range typed {
			typed[key] = normalizeValue(element)
		}
		return typed
	case []any:
		for i, element := range typed {
			typed[i] = normalizeValue(element)
		}
		return typed
	default:
		return value
	}
}
