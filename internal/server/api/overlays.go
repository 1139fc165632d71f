package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/kinectmask/internal/compositor"
	"github.com/ayusman/kinectmask/internal/store"
)

// OverlayHandler handles HTTP requests for overlay catalog resources.
type OverlayHandler struct {
	store *store.Store
}

// NewOverlayHandler creates a new OverlayHandler with the given store.
func NewOverlayHandler(s *store.Store) *OverlayHandler {
	return &OverlayHandler{store: s}
}

// ServeHTTP routes /api/overlays and /api/overlays/{id}.
func (h *OverlayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/overlays")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createOverlayRequest struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type overlayResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"created_at"`
}

type listOverlaysResponse struct {
	Overlays []overlayResponse `json:"overlays"`
}

func toResponse(o *store.Overlay) overlayResponse {
	return overlayResponse{
		ID:        o.ID,
		Name:      o.Name,
		Path:      o.Path,
		Width:     o.Width,
		Height:    o.Height,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}

// list handles GET /api/overlays.
func (h *OverlayHandler) list(w http.ResponseWriter, r *http.Request) {
	overlays, err := h.store.Overlays().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list overlays")
		return
	}

	response := listOverlaysResponse{
		Overlays: make([]overlayResponse, 0, len(overlays)),
	}
	for _, o := range overlays {
		response.Overlays = append(response.Overlays, toResponse(o))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/overlays/{id}.
func (h *OverlayHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	o, err := h.store.Overlays().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Overlay not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get overlay")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(o))
}

// create handles POST /api/overlays. The image must load before it is
// catalogued.
func (h *OverlayHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOverlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "Path is required")
		return
	}
	if req.Width < 0 || req.Height < 0 || (req.Width == 0) != (req.Height == 0) {
		writeError(w, http.StatusBadRequest, "Width and height must both be positive or both be zero")
		return
	}

	if _, err := compositor.LoadOverlay(req.Path, req.Width, req.Height); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid overlay image")
		return
	}

	o := &store.Overlay{
		Name:   req.Name,
		Path:   req.Path,
		Width:  req.Width,
		Height: req.Height,
	}
	if err := h.store.Overlays().Create(o); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create overlay")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(o))
}

// delete handles DELETE /api/overlays/{id}. Deleting the active overlay
// clears the active selection.
func (h *OverlayHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Overlays().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Overlay not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete overlay")
		return
	}

	if active, err := h.store.Settings().Get(store.SettingActiveOverlay); err == nil && active == id {
		h.store.Settings().Delete(store.SettingActiveOverlay)
	}

	w.WriteHeader(http.StatusNoContent)
}
