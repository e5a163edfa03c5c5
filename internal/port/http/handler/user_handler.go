package handler

import (
	"encoding/json"
	"net/http"

	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/amJayem/used-books-resale-server/internal/port/http/middleware"
	"github.com/amJayem/used-books-resale-server/internal/service"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService service.UserService
	authService service.AuthService
	log         logger.Logger
}

func NewUserHandler(userService service.UserService, authService service.AuthService, log logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		log:         log,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("Failed to decode register request: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	userID, err := h.userService.Register(r.Context(), service.RegisterUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.UserRole(req.Role),
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"insertedId": userID})
}

// GetByEmail handles GET /user?email=.
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email query parameter is required"})
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// IssueToken handles GET /jwt?email=.
func (h *UserHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email query parameter is required"})
		return
	}

	token, err := h.authService.Issue(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// AdminDelete handles DELETE /delete/user/{id}. Requires an admin caller.
func (h *UserHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	userID := chi.URLParam(r, "id")
	if err := h.userService.AdminDelete(r.Context(), userID, claims.Role); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ListBuyers handles GET /all-buyers.
func (h *UserHandler) ListBuyers(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, entity.RoleBuyer)
}

// ListSellers handles GET /all-sellers.
func (h *UserHandler) ListSellers(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, entity.RoleSeller)
}

func (h *UserHandler) listByRole(w http.ResponseWriter, r *http.Request, role entity.UserRole) {
	users, err := h.userService.ListByRole(r.Context(), role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
