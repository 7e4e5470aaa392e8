// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package user proxies account management to the platform API.

The platform owns the user records; the gateway relays the administrator's
own credential on every call, so upstream authorization always sees the real
actor, never a service account.
*/
package user

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/mediscan/gateway/internal/upstream"
)

// basePath is the platform API collection for user accounts.
const basePath = "/api/users"

// PlatformAPI is the slice of the upstream client this module needs.
type PlatformAPI interface {
	Get(ctx context.Context, path, bearer string, query url.Values) (json.RawMessage, error)
	Post(ctx context.Context, path, bearer string, payload any) (json.RawMessage, error)
	Put(ctx context.Context, path, bearer string, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, path, bearer string) (json.RawMessage, error)
}

// Service relays user account operations upstream.
type Service struct {
	api PlatformAPI
}

// NewService wires the user proxy.
func NewService(api PlatformAPI) *Service {
	return &Service{api: api}
}

// List fetches the user collection, passing pagination and filters through.
func (service *Service) List(ctx context.Context, bearer string, query url.Values) (json.RawMessage, error) {
	payload, err := service.api.Get(ctx, basePath, bearer, query)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return payload, nil
}

// Get fetches a single user by identifier.
func (service *Service) Get(ctx context.Context, bearer, id string) (json.RawMessage, error) {
	payload, err := service.api.Get(ctx, basePath+"/"+url.PathEscape(id), bearer, nil)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return payload, nil
}

// Create registers a new user account.
func (service *Service) Create(ctx context.Context, bearer string, body json.RawMessage) (json.RawMessage, error) {
	payload, err := service.api.Post(ctx, basePath, bearer, body)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return payload, nil
}

// Update replaces a user account.
func (service *Service) Update(ctx context.Context, bearer, id string, body json.RawMessage) (json.RawMessage, error) {
	payload, err := service.api.Put(ctx, basePath+"/"+url.PathEscape(id), bearer, body)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}
	return payload, nil
}

// Delete removes a user account.
func (service *Service) Delete(ctx context.Context, bearer, id string) error {
	if _, err := service.api.Delete(ctx, basePath+"/"+url.PathEscape(id), bearer); err != nil {
		return upstream.ToAppError(err)
	}
	return nil
}
