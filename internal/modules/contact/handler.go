package contact

import (
	"net/http"

	"github.com/georgemunganga/storefront/internal/web"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the contacts page.
type Handler struct {
	service Service
	flash   *web.Flash
}

func NewHandler(service Service, flash *web.Flash) *Handler {
	return &Handler{service: service, flash: flash}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/contacts", h.page)
	router.Post("/contacts", h.submit)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Page(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Render(w, r, http.StatusOK, page)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var fb Feedback
	if err := web.Decode(r, &fb); err != nil {
		web.Error(w, r, err)
		return
	}
	msg, err := h.service.Submit(r.Context(), fb)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/contacts", msg)
}
