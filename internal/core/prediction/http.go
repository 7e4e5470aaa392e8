// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package prediction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mediscan/gateway/internal/platform/request"
	"github.com/mediscan/gateway/internal/platform/respond"
)

// Handler exposes the inference relay over HTTP.
type Handler struct {
	service *Service
}

// NewHandler wires the prediction endpoint.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the prediction endpoint on a sub-router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/{model}", handler.Predict)
	return router
}

// Predict streams the uploaded exam image to the named model.
func (handler *Handler) Predict(writer http.ResponseWriter, request *http.Request) {
	bearer, err := requestutil.BearerToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.service.Predict(
		request.Context(),
		bearer,
		requestutil.Param(request, "model"),
		request.Header.Get("Content-Type"),
		request.Body,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payload)
}
