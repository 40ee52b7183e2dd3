package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wardwatch/platform/internal/shared/auth"
	"github.com/wardwatch/platform/internal/shared/errors"
)

// Handler provides HTTP handlers for user administration
type Handler struct {
	repo *Repository
}

// NewHandler creates a new user handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes registers the user routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListUsers)
	r.Post("/", h.CreateUser)

	r.Route("/{uid}", func(r chi.Router) {
		r.Get("/", h.GetUser)
		r.Put("/", h.UpdateUser)
		r.Delete("/", h.DeleteUser)
	})

	return r
}

// requireAdmin rejects requests from authenticated users below Admin.
// Requests without an authenticated user pass through; in production
// the auth middleware guarantees one is present.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if user := auth.GetUser(r.Context()); user != nil && !user.Role.CanManageUsers() {
		writeError(w, errors.Forbidden("admin role required"))
		return false
	}
	return true
}

// ListUsers lists all users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	filter := ListUsersFilter{
		Search: r.URL.Query().Get("search"),
	}

	if s := r.URL.Query().Get("role"); s != "" {
		role, ok := auth.ParseRole(s)
		if !ok {
			writeError(w, errors.BadRequest("unknown role"))
			return
		}
		filter.Role = &role
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	users, total, err := h.repo.ListUsers(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  users,
		"total": total,
	})
}

// GetUser gets a user by uid
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	u, err := h.repo.GetUser(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// CreateUser registers a user account
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	details := map[string]string{}
	if req.UID == "" {
		details["uid"] = "uid is required"
	}
	if req.Email == "" {
		details["email"] = "email is required"
	}
	if len(details) > 0 {
		writeError(w, errors.Validation("validation failed", details))
		return
	}

	role := auth.RoleStaff
	if req.Role != "" {
		parsed, ok := auth.ParseRole(req.Role)
		if !ok {
			writeError(w, errors.BadRequest("unknown role"))
			return
		}
		role = parsed
	}

	u := &User{
		UID:   req.UID,
		Name:  req.Name,
		Email: req.Email,
		Role:  role,
	}

	if err := h.repo.CreateUser(r.Context(), u); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// UpdateUser updates a user account
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	u, err := h.repo.GetUser(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Role != nil {
		role, ok := auth.ParseRole(*req.Role)
		if !ok {
			writeError(w, errors.BadRequest("unknown role"))
			return
		}
		u.Role = role
	}

	if err := h.repo.UpdateUser(r.Context(), u); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// DeleteUser deletes a user account
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	if err := h.repo.DeleteUser(r.Context(), chi.URLParam(r, "uid")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
