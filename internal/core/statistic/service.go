// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package statistic proxies model performance figures to the platform API.

The platform endpoint takes an explicit date window; the screens think in
periods ("last month"). This module owns that translation, plus two pieces
of arithmetic the platform gets wrong:

  - Accuracy figures arrive in inconsistent scales (0.93, 93, or 9300
    depending on the model pipeline). Every figure is normalized to the
    0..1 ratio before it leaves the gateway.
  - The screens want a single overall accuracy; the platform only reports
    per model. The gateway averages the normalized figures.
*/
package statistic

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/mediscan/gateway/internal/platform/apperr"
	"github.com/mediscan/gateway/internal/upstream"
)

// basePath is the platform API statistics endpoint.
const basePath = "/api/statistics"

// Reporting periods accepted by the list endpoint. The vocabulary is the
// one the admin screens send.
const (
	PeriodWeekly    = "weekly"
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodYearly    = "yearly"
	PeriodAll       = "all"
)

// allDataStart is the fixed window start for the "all" period. It predates
// the platform's first records, so the window covers everything.
var allDataStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// accuracyField is the payload key carrying a model's accuracy figure.
const accuracyField = "accuracy"

// PlatformAPI is the slice of the upstream client this module needs.
type PlatformAPI interface {
	Get(ctx context.Context, path, bearer string, query url.Values) (json.RawMessage, error)
}

// Service relays and normalizes statistics.
type Service struct {
	api PlatformAPI
	now func() time.Time
}

// NewService wires the statistics proxy.
func NewService(api PlatformAPI) *Service {
	return &Service{api: api, now: time.Now}
}

/*
Fetch retrieves the statistics for a reporting period.

Parameters:
  - ctx: Request-scoped context.
  - bearer: The actor's platform credential.
  - period: One of weekly, monthly, quarterly, yearly, all. Empty defaults
    to monthly.

Returns:
  - json.RawMessage: The platform payload with accuracies normalized to
    0..1 and an overall_accuracy field appended.
  - error: Validation error for unknown periods, or the relayed upstream failure.
*/
func (service *Service) Fetch(ctx context.Context, bearer, period string) (json.RawMessage, error) {
	start, end, err := service.periodWindow(period)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("start_date", start.Format(time.DateOnly))
	query.Set("end_date", end.Format(time.DateOnly))

	payload, err := service.api.Get(ctx, basePath, bearer, query)
	if err != nil {
		return nil, upstream.ToAppError(err)
	}

	return normalizePayload(payload), nil
}

// periodWindow converts a period name into a concrete date window ending now.
func (service *Service) periodWindow(period string) (time.Time, time.Time, error) {
	end := service.now()

	switch period {
	case PeriodWeekly:
		return end.AddDate(0, 0, -7), end, nil
	case PeriodMonthly, "":
		return end.AddDate(0, -1, 0), end, nil
	case PeriodQuarterly:
		return end.AddDate(0, -3, 0), end, nil
	case PeriodYearly:
		return end.AddDate(-1, 0, 0), end, nil
	case PeriodAll:
		return allDataStart, end, nil
	}

	return time.Time{}, time.Time{}, apperr.ValidationError("Unknown reporting period", apperr.FieldError{
		Field:   "period",
		Message: "Must be one of: weekly, monthly, quarterly, yearly, all",
	})
}

// NormalizeRatio coerces a platform accuracy figure onto the 0..1 scale.
//
// The pipelines report three scales in the wild: a proper ratio (0.93), a
// percentage (93), and a percentage of a percentage (9300). The magnitude
// identifies which one arrived.
func NormalizeRatio(value float64) float64 {
	switch {
	case value < 1:
		return value
	case value <= 100:
		return value / 100
	default:
		return value / 10000
	}
}

// normalizePayload rewrites accuracy fields in place and appends the overall
// average. Unrecognized shapes pass through unchanged.
func normalizePayload(payload json.RawMessage) json.RawMessage {
	var root map[string]any
	if err := json.Unmarshal(payload, &root); err != nil {
		return payload
	}

	accuracies := normalizeTree(root)

	if len(accuracies) > 0 {
		sum := 0.0
		for _, accuracy := range accuracies {
			sum += accuracy
		}
		root["overall_accuracy"] = sum / float64(len(accuracies))
	}

	encoded, err := json.Marshal(root)
	if err != nil {
		return payload
	}
	return encoded
}

// normalizeTree walks the payload, normalizing every accuracy field it finds
// and collecting the normalized values.
func normalizeTree(node map[string]any) []float64 {
	var collected []float64

	for key, value := range node {
		switch typed := value.(type) {
		case float64:
			if key == accuracyField {
				normalized := NormalizeRatio(typed)
				node[key] = normalized
				collected = append(collected, normalized)
			}
		case map[string]any:
			collected = append(collected, normalizeTree(typed)...)
		case []any:
			for _, element := range typed {
				if child, ok := element.(map[string]any); ok {
					collected = append(collected, normalizeTree(child)...)
				}
			}
		}
	}

	return collected
}
