// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mediscan/gateway/internal/platform/request"
	"github.com/mediscan/gateway/internal/platform/respond"
)

// Handler exposes the user proxy over HTTP.
type Handler struct {
	service *Service
}

// NewHandler wires the user endpoints.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the user endpoints on a sub-router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Get("/{id}", handler.Get)
	router.Put("/{id}", handler.Update)
	router.Delete("/{id}", handler.Delete)
	return router
}

// List relays the user collection.
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

// Get relays a single user.
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

// Create relays a new account registration.
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

// Update relays an account replacement.
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

// Delete relays an account removal.
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
