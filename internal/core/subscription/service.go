// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

// Package subscription proxies plan management to the platform API. The
// route table restricts the whole module to the general administrator role.
package subscription

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/mediscan/gateway/internal/upstream"
)

// basePath is the platform API collection for subscriptions.
const basePath = "/api/subscriptions"

// PlatformAPI is the slice of the upstream client this module needs.
type PlatformAPI interface {
	Get(ctx context.Context, path, bearer string, query url.Values) (json.RawMessage, error)
	Patch(ctx context.Context, path, bearer string, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, path, bearer string) (json.RawMessage, error)
}

// Service relays subscription operations upstream.
type Service struct {
	api PlatformAPI
}

// NewService wires the subscription proxy.
func NewService(api PlatformAPI) *Service {
	return &Service{api: api}
}

// List fetches the subscription collection.
func (service *Service) List(ctx context.Context, bearer string, query url.Values) (json.RawMessage, error) {
	payload, err := service.api.Get(ctx, basePath, bearer, query)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return payload, nil
}

// Get fetches a single subscription.
func (service *Service) Get(ctx context.Context, bearer, id string) (json.RawMessage, error) {
	payload, err := service.api.Get(ctx, basePath+"/"+url.PathEscape(id), bearer, nil)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return payload, nil
}

// Update applies a partial change, typically a plan status flip.
func (service *Service) Update(ctx context.Context, bearer, id string, body json.RawMessage) (json.RawMessage, error) {
	payload, err := service.api.Patch(ctx, basePath+"/"+url.PathEscape(id), bearer, body)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return payload, nil
}

// Delete cancels a subscription.
func (service *Service) Delete(ctx context.Context, bearer, id string) error {
	if _, err := service.api.Delete(ctx, basePath+"/"+url.PathEscape(id), bearer); err != nil {
		return upstream.ToAppError(err)
	}
	return nil
}
