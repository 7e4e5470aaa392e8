// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package prediction

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	payload         json.RawMessage
	lastPath        string
	lastContentType string
	lastBody        string
}

func (api *fakeAPI) PostRaw(ctx context.Context, path, bearer, contentType string, body io.Reader) (json.RawMessage, error) {
	api.lastPath = path
	api.lastContentType = contentType
	raw, _ := io.ReadAll(body)
	api.lastBody = string(raw)
	return api.payload, nil
}

func TestNormalizeProbability(t *testing.T) {
	assert.InDelta(t, 0.87, NormalizeProbability(0.87), 1e-9)
	assert.InDelta(t, 0.87, NormalizeProbability(87), 1e-9)
	assert.InDelta(t, 1.0, NormalizeProbability(100), 1e-9)
	assert.InDelta(t, 1.0, NormalizeProbability(1), 1e-9)
	assert.InDelta(t, 0.0, NormalizeProbability(0), 1e-9)
}

func TestService_Predict_ModelPathMapping(t *testing.T) {
	tests := []struct {
		model    string
		expected string
	}{
		{ModelRespiratory, "/api/predictions/respiratory"},
		{ModelTuberculosis, "/api/predictions/tuberculosis"},
		{ModelOsteoporosis, "/api/predictions/osteoporosis"},
		// The breast model's public name differs from its upstream segment.
		{ModelBreast, "/api/predictions/breast-cancer"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			api := &fakeAPI{payload: json.RawMessage(`{}`)}
			service := NewService(api)

			_, err := service.Predict(context.Background(), "tok", tt.model,
				"multipart/form-data; boundary=x", strings.NewReader("image-bytes"))
			require.NoError(t, err)

			assert.Equal(t, tt.expected, api.lastPath)
			assert.Equal(t, "multipart/form-data; boundary=x", api.lastContentType)
			assert.Equal(t, "image-bytes", api.lastBody)
		})
	}
}

func TestService_Predict_UnknownModelRejected(t *testing.T) {
	service := NewService(&fakeAPI{payload: json.RawMessage(`{}`)})

	_, err := service.Predict(context.Background(), "tok", "dermatology",
		"image/png", strings.NewReader(""))
	assert.Error(t, err)
}

func TestService_Predict_NormalizesProbabilities(t *testing.T) {
	api := &fakeAPI{payload: json.RawMessage(`{
		"prediction": "pneumonia",
		"probabilities": {"normal": 12.5, "pneumonia": 87.5},
		"confidence": 0.875
	}`)}
	service := NewService(api)

	payload, err := service.Predict(context.Background(), "tok", ModelRespiratory,
		"image/png", strings.NewReader("img"))
	require.NoError(t, err)

	var result struct {
		Prediction    string             `json:"prediction"`
		Probabilities map[string]float64 `json:"probabilities"`
		Confidence    float64            `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal(payload, &result))

	assert.Equal(t, "pneumonia", result.Prediction)
	assert.InDelta(t, 0.125, result.Probabilities["normal"], 1e-9)
	assert.InDelta(t, 0.875, result.Probabilities["pneumonia"], 1e-9)

	// Already-ratio values pass through.
	assert.InDelta(t, 0.875, result.Confidence, 1e-9)
}
