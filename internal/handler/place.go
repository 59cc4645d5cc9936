package handler

import (
	"log/slog"
	"net/http"

	"github.com/mhasan/pinpoint/internal/auth"
	"github.com/mhasan/pinpoint/internal/model"
	"github.com/mhasan/pinpoint/internal/repository"
	"github.com/mhasan/pinpoint/internal/service"
)

// PlaceHandler exposes place CRUD and filtered search.
type PlaceHandler struct {
	places *service.PlaceService
	logger *slog.Logger
}

func NewPlaceHandler(places *service.PlaceService, logger *slog.Logger) *PlaceHandler {
	return &PlaceHandler{places: places, logger: logger}
}

type createPlaceRequest struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	GooglePlaceID string  `json:"googlePlaceId"`
	URL           string  `json:"url"`
	Notes         string  `json:"notes"`
	Rating        float64 `json:"rating"`
	CollectionID  string  `json:"collectionId"`
}

// HandleCreate saves a manually added place.
//
// HTTP: POST /api/places
func (h *PlaceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createPlaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	place, err := h.places.Create(r.Context(), &model.Place{
		UserID:        userID,
		Name:          req.Name,
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		GooglePlaceID: req.GooglePlaceID,
		URL:           req.URL,
		Notes:         req.Notes,
		Rating:        req.Rating,
		CollectionID:  req.CollectionID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, place)
}

// HandleSearch returns the user's places matching the query parameters,
// newest first. All filters combine with AND; within the tag list one match
// suffices.
//
// HTTP: GET /api/places?q=coffee&tag=t1&tag=t2&collection=c1&unassigned=true
func (h *PlaceHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	q := r.URL.Query()

	filter := repository.SearchFilter{
		Text:         q.Get("q"),
		TagIDs:       q["tag"],
		CollectionID: q.Get("collection"),
		Unassigned:   q.Get("unassigned") == "true",
	}

	places, err := h.places.Search(r.Context(), userID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, places)
}

// HandleGet returns one place with its tags.
//
// HTTP: GET /api/places/{id}
func (h *PlaceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	place, err := h.places.GetByID(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, place)
}

// HandleDelete removes one place.
//
// HTTP: DELETE /api/places/{id}
func (h *PlaceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.places.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteAll wipes every place the user has, usually before a fresh
// import.
//
// HTTP: DELETE /api/places
func (h *PlaceHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	n, err := h.places.DeleteAll(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

type movePlaceRequest struct {
	CollectionID string `json:"collectionId"`
}

// HandleMove files the place under a collection; an empty collectionId
// unfiles it.
//
// HTTP: PUT /api/places/{id}/collection
func (h *PlaceHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req movePlaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.places.Move(r.Context(), userID, r.PathValue("id"), req.CollectionID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
