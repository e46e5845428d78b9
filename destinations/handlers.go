package destinations

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/user/turismo-go/apperror"
	"github.com/user/turismo-go/auth"
)

// Handlers wraps the destination Service for HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates the destination handler set.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleList handles GET /destinations (public).
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dests, err := h.service.List(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, dests)
	}
}

// HandleGet handles GET /destinations/{id} (public).
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid destination id", nil))
			return
		}
		dest, err := h.service.Get(r.Context(), id)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, dest)
	}
}

// HandleListCategories handles GET /destinations/categories (public).
func (h *Handlers) HandleListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := h.service.ListCategories(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, cats)
	}
}

// HandleCreate handles POST /destinations (admin only).
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDestinationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if strings.TrimSpace(req.Name) == "" {
			auth.WriteError(w, r, apperror.NewValidationError("destination name is required", nil))
			return
		}

		dest, err := h.service.Create(r.Context(), req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusCreated, dest)
	}
}

// HandleUpdate handles PUT /destinations/{id} (admin only).
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid destination id", nil))
			return
		}

		var req UpdateDestinationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			auth.WriteError(w, r, apperror.NewValidationError("destination name must not be empty", nil))
			return
		}

		dest, err := h.service.Update(r.Context(), id, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, dest)
	}
}

// HandleDelete handles DELETE /destinations/{id} (admin only).
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid destination id", nil))
			return
		}
		if err := h.service.Delete(r.Context(), id); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, map[string]string{"message": "destination deleted successfully"})
	}
}
