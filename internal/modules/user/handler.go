package user

import (
	"errors"
	"net/http"

	"github.com/georgemunganga/storefront/internal/web"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
	flash   *web.Flash
}

func NewHandler(service Service, flash *web.Flash) *Handler {
	return &Handler{service: service, flash: flash}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/users", func(r chi.Router) {
		r.Post("/register", h.registerUser)
		r.Get("/activate/{token}", h.activate)
		r.Post("/password-reset", h.resetPassword)
		r.Get("/profile", h.profile)
		r.Post("/profile/edit", h.updateProfile)
	})
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	if _, err := h.service.RegisterUser(r.Context(), req); err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/users/login", "Check your inbox to activate your account.")
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.Activate(r.Context(), chi.URLParam(r, "token"))
	if errors.Is(err, ErrInvalidActivation) {
		web.Respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/users/login", "Your account is active. You can log in now.")
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/users/login", "If the address is registered, a new password has been sent.")
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	subject := web.SubjectFrom(r.Context())
	if subject == nil {
		web.Error(w, r, web.ErrUnauthenticated)
		return
	}
	user, err := h.service.GetUser(r.Context(), subject.UserID.String())
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Render(w, r, http.StatusOK, user)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	subject := web.SubjectFrom(r.Context())
	if subject == nil {
		web.Error(w, r, web.ErrUnauthenticated)
		return
	}
	var req ProfileRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	if _, err := h.service.UpdateProfile(r.Context(), subject.UserID, req); err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/users/profile", "Profile updated.")
}
