// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package healthunit

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	payload json.RawMessage
	posted  bool
}

func (api *fakeAPI) Get(ctx context.Context, path, bearer string, query url.Values) (json.RawMessage, error) {
	return api.payload, nil
}

func (api *fakeAPI) Post(ctx context.Context, path, bearer string, payload any) (json.RawMessage, error) {
	api.posted = true
	return api.payload, nil
}

func (api *fakeAPI) Put(ctx context.Context, path, bearer string, payload any) (json.RawMessage, error) {
	api.posted = true
	return api.payload, nil
}

func (api *fakeAPI) Delete(ctx context.Context, path, bearer string) (json.RawMessage, error) {
	return nil, nil
}

func TestService_List_DecoratesCNPJ(t *testing.T) {
	api := &fakeAPI{payload: json.RawMessage(`[
		{"id": "hu-1", "name": "Unidade Central", "cnpj": "11444777000161"},
		{"id": "hu-2", "name": "Unidade Norte"}
	]`)}
	service := NewService(api)

	payload, err := service.List(context.Background(), "tok", nil)
	require.NoError(t, err)

	var units []map[string]any
	require.NoError(t, json.Unmarshal(payload, &units))
	require.Len(t, units, 2)

	assert.Equal(t, "11.444.777/0001-61", units[0]["cnpj_display"])
	// The raw value is preserved alongside the mask.
	assert.Equal(t, "11444777000161", units[0]["cnpj"])
	// Records without a cnpj are left alone.
	assert.NotContains(t, units[1], "cnpj_display")
}

func TestService_List_DecoratesWrappedCollections(t *testing.T) {
	api := &fakeAPI{payload: json.RawMessage(`{
		"items": [{"id": "hu-1", "cnpj": "11444777000161"}],
		"total": 1
	}`)}
	service := NewService(api)

	payload, err := service.List(context.Background(), "tok", nil)
	require.NoError(t, err)

	var wrapped struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(payload, &wrapped))
	require.Len(t, wrapped.Items, 1)
	assert.Equal(t, "11.444.777/0001-61", wrapped.Items[0]["cnpj_display"])
}

func TestService_Create_RejectsInvalidCNPJBeforeUpstream(t *testing.T) {
	api := &fakeAPI{payload: json.RawMessage(`{}`)}
	service := NewService(api)

	_, err := service.Create(context.Background(), "tok",
		json.RawMessage(`{"name":"Unidade","cnpj":"11444777000199"}`))
	require.Error(t, err)

	// The platform never saw the bad payload.
	assert.False(t, api.posted)
}

func TestService_Create_AcceptsValidAndMissingCNPJ(t *testing.T) {
	t.Run("valid_masked", func(t *testing.T) {
		api := &fakeAPI{payload: json.RawMessage(`{"id":"hu-1"}`)}
		service := NewService(api)

		_, err := service.Create(context.Background(), "tok",
			json.RawMessage(`{"name":"Unidade","cnpj":"11.444.777/0001-61"}`))
		require.NoError(t, err)
		assert.True(t, api.posted)
	})

	t.Run("absent_field_delegated_upstream", func(t *testing.T) {
		api := &fakeAPI{payload: json.RawMessage(`{"id":"hu-1"}`)}
		service := NewService(api)

		_, err := service.Create(context.Background(), "tok",
			json.RawMessage(`{"name":"Unidade"}`))
		require.NoError(t, err)
		assert.True(t, api.posted)
	})
}

func TestService_Update_ValidatesCNPJ(t *testing.T) {
	api := &fakeAPI{payload: json.RawMessage(`{}`)}
	service := NewService(api)

	_, err := service.Update(context.Background(), "tok", "hu-1",
		json.RawMessage(`{"cnpj":"00000000000000"}`))
	require.Error(t, err)
	assert.False(t, api.posted)
}
