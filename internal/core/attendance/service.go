// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package attendance proxies clinical attendance records to the platform API.

Reads are open to every authenticated role. Creation belongs to health
professionals only, enforced by an extra role check on the POST route.

The list endpoint supports a free-text search parameter matched on the
gateway with accent folding, so "jose" finds "José" no matter how the
platform collates.
*/
package attendance

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/mediscan/gateway/internal/upstream"
	"github.com/mediscan/gateway/pkg/normalize"
)

// basePath is the platform API collection for attendances.
const basePath = "/api/attendances"

// searchParam is the gateway-side free-text filter on the list endpoint.
const searchParam = "search"

// PlatformAPI is the slice of the upstream client this module needs.
type PlatformAPI interface {
	Get(ctx context.Context, path, bearer string, query url.Values) (json.RawMessage, error)
	Post(ctx context.Context, path, bearer string, payload any) (json.RawMessage, error)
	Put(ctx context.Context, path, bearer string, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, path, bearer string) (json.RawMessage, error)
}

// Service relays attendance operations upstream.
type Service struct {
	api PlatformAPI
}

// NewService wires the attendance proxy.
func NewService(api PlatformAPI) *Service {
	return &Service{api: api}
}

// List fetches the attendance collection, applying the search filter locally.
// The search parameter is stripped before the upstream call.
func (service *Service) List(ctx context.Context, bearer string, query url.Values) (json.RawMessage, error) {
	search := query.Get(searchParam)
	query.Del(searchParam)

	payload, err := service.api.Get(ctx, basePath, bearer, query)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}

	if search == "" {
		return payload, nil
	}
	return filterBySearch(payload, search), nil
}

// Get fetches a single attendance.
func (service *Service) Get(ctx context.Context, bearer, id string) (json.RawMessage, error) {
	payload, err := service.api.Get(ctx, basePath+"/"+url.PathEscape(id), bearer, nil)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return payload, nil
}

// Create registers a new attendance.
func (service *Service) Create(ctx context.Context, bearer string, body json.RawMessage) (json.RawMessage, error) {
	payload, err := service.api.Post(ctx, basePath, bearer, body)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return payload, nil
}

// Update replaces an attendance record.
func (service *Service) Update(ctx context.Context, bearer, id string, body json.RawMessage) (json.RawMessage, error) {
	payload, err := service.api.Put(ctx, basePath+"/"+url.PathEscape(id), bearer, body)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return payload, nil
}

// Delete removes an attendance record.
func (service *Service) Delete(ctx context.Context, bearer, id string) error {
	if _, err := service.api.Delete(ctx, basePath+"/"+url.PathEscape(id), bearer); err != nil {
		return upstream.ToAppError(err)
	}
	return nil
}

// filterBySearch keeps records whose text fields match the query under
// accent folding. Shapes it does not recognize pass through unchanged.
func filterBySearch(payload json.RawMessage, search string) json.RawMessage {
	var generic any
	if err := json.Unmarshal(payload, &generic); err != nil {
		return payload
	}

	switch typed := generic.(type) {
	case []any:
		generic = filterList(typed, search)
	case map[string]any:
		if items, ok := typed["items"].([]any); ok {
			typed["items"] = filterList(items, search)
		}
	default:
		return payload
	}

	encoded, err := json.Marshal(generic)
	if err != nil {
		return payload
	}
	return encoded
}

// filterList keeps list elements matching the search query.
func filterList(items []any, search string) []any {
	// Non-nil so an all-filtered result serializes as [], not null.
	matched := make([]any, 0, len(items))
	for _, item := range items {
		if recordMatches(item, search) {
			matched = append(matched, item)
		}
	}
	return matched
}

// recordMatches folds every top-level string field of the record and checks
// the query against them.
func recordMatches(item any, search string) bool {
	record, ok := item.(map[string]any)
	if !ok {
		return false
	}
	for _, value := range record {
		if text, ok := value.(string); ok && normalize.Matches(text, search) {
			return true
		}
	}
	return false
}
