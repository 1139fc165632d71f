package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ayusman/kinectmask/internal/compositor"
	"github.com/ayusman/kinectmask/internal/store"
)

// OverlayController is the live side of overlay selection.
type OverlayController interface {
	SetOverlay(o *compositor.Overlay)
	SetOverlayEnabled(enabled bool)
	OverlayEnabled() bool
}

// ActiveOverlayHandler handles GET and PUT on /api/overlay/active.
type ActiveOverlayHandler struct {
	store      *store.Store
	controller OverlayController
}

// NewActiveOverlayHandler creates a new ActiveOverlayHandler.
func NewActiveOverlayHandler(s *store.Store, c OverlayController) *ActiveOverlayHandler {
	return &ActiveOverlayHandler{store: s, controller: c}
}

type activeOverlayRequest struct {
	ID      *string `json:"id"`
	Enabled *bool   `json:"enabled"`
}

type activeOverlayResponse struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

func (h *ActiveOverlayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ActiveOverlayHandler) current() activeOverlayResponse {
	id, _ := h.store.Settings().Get(store.SettingActiveOverlay)
	return activeOverlayResponse{ID: id, Enabled: h.controller.OverlayEnabled()}
}

func (h *ActiveOverlayHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.current())
}

// put selects the active overlay by catalog id and/or switches drawing on
// or off. Both changes are applied to the live session and persisted.
func (h *ActiveOverlayHandler) put(w http.ResponseWriter, r *http.Request) {
	var req activeOverlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ID == nil && req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "id or enabled is required")
		return
	}

	if req.ID != nil {
		if err := Activate(h.store, h.controller, *req.ID); err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				writeError(w, http.StatusNotFound, "Overlay not found")
			case errors.Is(err, errLoadOverlay):
				writeError(w, http.StatusUnprocessableEntity, "Overlay image could not be loaded")
			default:
				writeError(w, http.StatusInternalServerError, "Failed to activate overlay")
			}
			return
		}
	}

	if req.Enabled != nil {
		if err := h.store.Settings().SetBool(store.SettingOverlayEnabled, *req.Enabled); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting")
			return
		}
		h.controller.SetOverlayEnabled(*req.Enabled)
	}

	writeJSON(w, http.StatusOK, h.current())
}

var errLoadOverlay = errors.New("load overlay")

// Activate loads the catalogued overlay id, records it as the active overlay
// and then hands it to the controller. The controller is left unchanged when
// the selection cannot be saved.
func Activate(s *store.Store, c OverlayController, id string) error {
	o, err := s.Overlays().GetByID(id)
	if err != nil {
		return err
	}

	img, err := compositor.LoadOverlay(o.Path, o.Width, o.Height)
	if err != nil {
		return fmt.Errorf("%w %s: %v", errLoadOverlay, o.Name, err)
	}

	if err := s.Settings().Set(store.SettingActiveOverlay, id); err != nil {
		return fmt.Errorf("save active overlay: %w", err)
	}
	c.SetOverlay(img)
	return nil
}

// Restore applies the persisted overlay selection and enabled flag to c.
// It returns true when a catalogued overlay was activated.
func Restore(s *store.Store, c OverlayController) (bool, error) {
	c.SetOverlayEnabled(s.Settings().GetBool(store.SettingOverlayEnabled, c.OverlayEnabled()))

	id, err := s.Settings().Get(store.SettingActiveOverlay)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := Activate(s, c, id); err != nil {
		return false, err
	}
	return true, nil
}
