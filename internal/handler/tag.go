package handler

import (
	"log/slog"
	"net/http"

	"github.com/mhasan/pinpoint/internal/auth"
	"github.com/mhasan/pinpoint/internal/service"
)

// TagHandler exposes tag management and place tagging.
type TagHandler struct {
	tags   *service.TagService
	logger *slog.Logger
}

func NewTagHandler(tags *service.TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{tags: tags, logger: logger}
}

type createTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// HandleCreate adds a tag. A duplicate name for the same user is a 409.
//
// HTTP: POST /api/tags
func (h *TagHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createTagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tag, err := h.tags.Create(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tag)
}

// HandleList returns the user's tags.
//
// HTTP: GET /api/tags
func (h *TagHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	tags, err := h.tags.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

// HandleDelete removes a tag and its memberships.
//
// HTTP: DELETE /api/tags/{id}
func (h *TagHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.tags.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAttach links a tag to a place; re-attaching is a no-op.
//
// HTTP: PUT /api/places/{id}/tags/{tagID}
func (h *TagHandler) HandleAttach(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.tags.Attach(r.Context(), userID, r.PathValue("id"), r.PathValue("tagID")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDetach unlinks a tag from a place; a missing link is a no-op.
//
// HTTP: DELETE /api/places/{id}/tags/{tagID}
func (h *TagHandler) HandleDetach(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.tags.Detach(r.Context(), userID, r.PathValue("id"), r.PathValue("tagID")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
