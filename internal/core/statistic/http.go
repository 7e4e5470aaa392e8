// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package statistic

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mediscan/gateway/internal/platform/request"
	"github.com/mediscan/gateway/internal/platform/respond"
)

// Handler exposes the statistics proxy over HTTP.
type Handler struct {
	service *Service
}

// NewHandler wires the statistics endpoint.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the statistics endpoint on a sub-router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.Fetch)
	return router
}

// Fetch relays the statistics for the requested period.
func (handler *Handler) Fetch(writer http.ResponseWriter, request *http.Request) {
	bearer, err := requestutil.BearerToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.service.Fetch(request.Context(), bearer, request.URL.Query().Get("period"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payload)
}
