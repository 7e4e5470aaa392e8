// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package attendance

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mediscan/gateway/internal/platform/request"
	"github.com/mediscan/gateway/internal/platform/respond"
)

// Handler exposes the attendance proxy over HTTP.
type Handler struct {
	service *Service
}

// NewHandler wires the attendance endpoints.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the attendance endpoints on a sub-router.
//
// professionalOnly tightens creation to the professional role; the rest of
// the collection is readable by any role the mount-level guard admits.
func (handler *Handler) Routes(professionalOnly func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.List)
	router.With(professionalOnly).Post("/", handler.Create)
	router.Get("/{id}", handler.Get)
	router.Put("/{id}", handler.Update)
	router.Delete("/{id}", handler.Delete)
	return router
}

// List relays the attendance collection, filtered by the search parameter.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	bearer, err := requestutil.BearerToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.service.List(request.Context(), bearer, request.URL.Query())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payload)
}

// Get relays a single attendance.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	bearer, err := requestutil.BearerToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.service.Get(request.Context(), bearer, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payload)
}

// Create relays a new attendance registration.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	bearer, err := requestutil.BearerToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body json.RawMessage
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.service.Create(request.Context(), bearer, body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, payload)
}

// Update relays an attendance replacement.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	bearer, err := requestutil.BearerToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body json.RawMessage
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.service.Update(request.Context(), bearer, requestutil.Param(request, "id"), body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payload)
}

// Delete relays an attendance removal.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	bearer, err := requestutil.BearerToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), bearer, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
