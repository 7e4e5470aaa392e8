// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package healthunit proxies health unit management to the platform API.

Beyond relaying, it owns the CNPJ handling the screens expect: write paths
reject identifiers with bad check digits before the platform sees them, and
read paths decorate every unit with a pre-masked cnpj_display field so no
client re-implements the mask.
*/
package healthunit

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/mediscan/gateway/internal/platform/validate"
	"github.com/mediscan/gateway/internal/upstream"
	"github.com/mediscan/gateway/pkg/cnpj"
)

// basePath is the platform API collection for health units.
const basePath = "/api/health-units"

// PlatformAPI is the slice of the upstream client this module needs.
type PlatformAPI interface {
	Get(ctx context.Context, path, bearer string, query url.Values) (json.RawMessage, error)
	Post(ctx context.Context, path, bearer string, payload any) (json.RawMessage, error)
	Put(ctx context.Context, path, bearer string, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, path, bearer string) (json.RawMessage, error)
}

// Service relays health unit operations upstream.
type Service struct {
	api PlatformAPI
}

// NewService wires the health unit proxy.
func NewService(api PlatformAPI) *Service {
	return &Service{api: api}
}

// List fetches the unit collection with masked identifiers attached.
func (service *Service) List(ctx context.Context, bearer string, query url.Values) (json.RawMessage, error) {
	payload, err := service.api.Get(ctx, basePath, bearer, query)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return decorate(payload), nil
}

// Get fetches a single unit with its masked identifier attached.
func (service *Service) Get(ctx context.Context, bearer, id string) (json.RawMessage, error) {
	payload, err := service.api.Get(ctx, basePath+"/"+url.PathEscape(id), bearer, nil)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return decorate(payload), nil
}

// Create registers a new unit after validating its CNPJ locally.
func (service *Service) Create(ctx context.Context, bearer string, body json.RawMessage) (json.RawMessage, error) {
	if err := checkCNPJ(body); err != nil {
		return nil, err
	}

	payload, err := service.api.Post(ctx, basePath, bearer, body)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return decorate(payload), nil
}

// Update replaces a unit after validating its CNPJ locally.
func (service *Service) Update(ctx context.Context, bearer, id string, body json.RawMessage) (json.RawMessage, error) {
	if err := checkCNPJ(body); err != nil {
		return nil, err
	}

	payload, err := service.api.Put(ctx, basePath+"/"+url.PathEscape(id), bearer, body)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return decorate(payload), nil
}

// Delete removes a unit.
func (service *Service) Delete(ctx context.Context, bearer, id string) error {
	if _, err := service.api.Delete(ctx, basePath+"/"+url.PathEscape(id), bearer); err != nil {
		return upstream.ToAppError(err)
	}
	return nil
}

// checkCNPJ rejects payloads whose cnpj field fails check digit validation.
// Payloads without a cnpj field pass; the platform decides if it is required.
func checkCNPJ(body json.RawMessage) error {
	var fields struct {
		CNPJ string `json:"cnpj"`
	}
	if err := json.Unmarshal(body, &fields); err != nil || fields.CNPJ == "" {
		return nil
	}

	validator := &validate.Validator{}
	return validator.CNPJ("cnpj", fields.CNPJ).Err()
}

// decorate attaches cnpj_display to every object carrying a cnpj field.
//
// It is deliberately tolerant: shapes it does not recognize pass through
// unchanged rather than breaking the read path.
func decorate(payload json.RawMessage) json.RawMessage {
	if len(payload) == 0 {
		return payload
	}

	var generic any
	if err := json.Unmarshal(payload, &generic); err != nil {
		return payload
	}

	decorated := decorateValue(generic)

	encoded, err := json.Marshal(decorated)
	if err != nil {
		return payload
	}
	return encoded
}

// decorateValue walks arrays and objects, masking cnpj fields as it goes.
func decorateValue(value any) any {
	switch typed := value.(type) {
	case []any:
		for i, element := range typed {
			typed[i] = decorateValue(element)
		}
		return typed
	case map[string]any:
		if raw, ok := typed["cnpj"].(string); ok && raw != "" {
			typed["cnpj_display"] = cnpj.Format(raw)
		}
		// Collections are often wrapped in an items field.
		if items, ok := typed["items"].([]any); ok {
			typed["items"] = decorateValue(items)
		}
		return typed
	default:
		return value
	}
}
