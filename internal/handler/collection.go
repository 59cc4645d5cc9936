package handler

import (
	"log/slog"
	"net/http"

	"github.com/mhasan/pinpoint/internal/auth"
	"github.com/mhasan/pinpoint/internal/service"
)

// CollectionHandler exposes folder-style grouping of places.
type CollectionHandler struct {
	collections *service.CollectionService
	logger      *slog.Logger
}

func NewCollectionHandler(collections *service.CollectionService, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{collections: collections, logger: logger}
}

type collectionRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// HandleCreate adds a collection.
//
// HTTP: POST /api/collections
func (h *CollectionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	collection, err := h.collections.Create(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, collection)
}

// HandleList returns the user's collections with live place counts.
//
// HTTP: GET /api/collections
func (h *CollectionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	collections, err := h.collections.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, collections)
}

// HandleUpdate renames or recolors a collection; empty fields keep their
// current values.
//
// HTTP: PUT /api/collections/{id}
func (h *CollectionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	collection, err := h.collections.Update(r.Context(), userID, r.PathValue("id"), req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, collection)
}

// HandleDelete removes a collection. Its places survive, unfiled.
//
// HTTP: DELETE /api/collections/{id}
func (h *CollectionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.collections.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
