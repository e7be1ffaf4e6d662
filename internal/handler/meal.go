package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/daily-diet/internal/model"
	"github.com/sakif/daily-diet/internal/service"
	"github.com/sakif/daily-diet/internal/session"
)

// MealHandler manages the meal CRUD surface.
//
// Routes that require a session are mounted behind session.Require by the
// server, so callerID() can assume the context is populated — the ok=false
// branch only fires if a route is miswired, which is a server bug, not a
// client error.
type MealHandler struct {
	meals  *service.MealService
	logger *slog.Logger
}

func NewMealHandler(meals *service.MealService, logger *slog.Logger) *MealHandler {
	return &MealHandler{meals: meals, logger: logger}
}

type createMealRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InDiet      model.DietStatus `json:"in_diet"`
}

// HandleCreate records a new meal owned by the caller.
//
// HTTP: POST /api/meals (session required)
// BODY: {"name": "...", "description": "...", "in_diet": "yes"|"no"}
func (h *MealHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		h.miswired(w, r)
		return
	}

	var req createMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid meal JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	meal, err := h.meals.Create(r.Context(), userID, req.Name, req.Description, req.InDiet)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*model.Meal{"meal": meal})
}

// HandleListAll returns every meal with no ownership filter.
//
// HTTP: GET /api/meals
//
// DELIBERATELY UNSCOPED — admin/debug affordance, documented as such.
// The user-facing listing is HandleListMine.
func (h *MealHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	meals, err := h.meals.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Meal{"meals": meals})
}

// HandleListMine returns the meals owned by the caller, oldest first.
//
// HTTP: GET /api/users/meals (session required)
func (h *MealHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		h.miswired(w, r)
		return
	}

	meals, err := h.meals.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Meal{"meals": meals})
}

// HandleGetByID returns one meal by its UUID.
//
// HTTP: GET /api/meals/{id}
//
// 400 on a malformed UUID, 404 when no meal has that ID.
func (h *MealHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	meal, err := h.meals.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.Meal{"meal": meal})
}

// HandleUpdate applies a partial patch to a meal the caller owns.
//
// HTTP: PUT /api/meals/{id} (session + ownership)
//
// Absent JSON fields stay unchanged (pointer fields in MealPatch keep the
// absent/empty distinction). 202 on success — the update is accepted and
// applied; the original API contract used 202 here and clients depend on it.
func (h *MealHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		h.miswired(w, r)
		return
	}

	var patch service.MealPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Warn("invalid meal patch JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	meal, err := h.meals.Update(r.Context(), userID, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]*model.Meal{"meal": meal})
}

// HandleDelete removes a meal the caller owns.
//
// HTTP: DELETE /api/meals/{id} (session + ownership)
//
// 204 on success, no body.
func (h *MealHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		h.miswired(w, r)
		return
	}

	if err := h.meals.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// miswired handles the should-never-happen case of a protected handler
// mounted without the session middleware.
func (h *MealHandler) miswired(w http.ResponseWriter, r *http.Request) {
	h.logger.Error("protected route reached without session middleware",
		slog.String("path", r.URL.Path),
	)
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: "session required",
	})
}
