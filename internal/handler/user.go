package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/daily-diet/internal/model"
	"github.com/sakif/daily-diet/internal/service"
	"github.com/sakif/daily-diet/internal/session"
)

// UserHandler exposes account registration and the user listing.
//
// This is the only handler that WRITES the session cookie. Everything else
// only reads it (through the session middleware) — keeping the transport
// concern in exactly two places.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleCreate registers a new account and issues its session cookie.
//
// HTTP: POST /api/users
// BODY: {"name": "Ada", "email": "ada@example.com"}
//
// 201 with the user (token excluded from the body — it travels only in the
// Set-Cookie header), 400 on bad input, 409 on a duplicate email.
//
// Each account gets a freshly minted token even if the caller already
// carries a cookie for another account; the new cookie replaces the old
// one, because a token identifies exactly one user.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid user JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	session.SetCookie(w, user.SessionID)
	writeJSON(w, http.StatusCreated, map[string]*model.User{"user": user})
}

// HandleList returns all registered users.
//
// HTTP: GET /api/users
//
// Session tokens never appear in the output (json:"-" on the model).
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}

	writeJSON(w, http.StatusOK, map[string][]model.User{"users": users})
}
