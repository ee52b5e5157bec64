package auth

import (
	"errors"
	"net/http"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, validate: validate}
}

// RegisterRoutes mounts login publicly and the account routes behind gate.
func (h *Handler) RegisterRoutes(router chi.Router, gate func(http.Handler) http.Handler) {
	router.Post("/api/admin/login", h.login)
	router.Group(func(r chi.Router) {
		r.Use(gate)
		r.Get("/api/admin/verify", h.verify)
		r.Post("/api/admin/change-password", h.changePassword)
		r.Post("/api/admin/change-email", h.changeEmail)
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// An empty body is treated as empty credentials.
	var req request
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		httpx.RespondError(w, err, "", "Login failed")
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err, "", "Login failed")
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"token": token, "message": "Login successful"})
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"valid": true, "user": claims})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	type request struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=6"`
	}

	var req request
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err, "", "Failed to change password")
		return
	}

	if err := h.service.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		h.respondAccountError(w, err, "Failed to change password")
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

func (h *Handler) changeEmail(w http.ResponseWriter, r *http.Request) {
	type request struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewEmail        string `json:"newEmail" validate:"required,email"`
	}

	var req request
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err, "", "Failed to change email")
		return
	}

	token, err := h.service.ChangeEmail(r.Context(), req.CurrentPassword, req.NewEmail)
	if err != nil {
		h.respondAccountError(w, err, "Failed to change email")
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{
		"message": "Email changed successfully",
		"email":   req.NewEmail,
		"token":   token,
	})
}

func (h *Handler) decode(r *http.Request, dst interface{}) error {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		return err
	}
	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return httpx.Validation("%s failed %s validation", fe.Field(), fe.Tag())
		}
		return httpx.Validation("invalid request")
	}
	return nil
}

func (h *Handler) respondAccountError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrInvalidCredentials) {
		httpx.Respond(w, http.StatusUnauthorized, httpx.ErrorResponse{Error: "Current password is incorrect"})
		return
	}
	httpx.RespondError(w, err, "", fallback)
}
