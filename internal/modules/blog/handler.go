package blog

import (
	"net/http"

	"github.com/georgemunganga/storefront/internal/web"
	"github.com/go-chi/chi/v5"
)

// Handler exposes blog HTTP endpoints.
type Handler struct {
	service Service
	flash   *web.Flash
}

func NewHandler(service Service, flash *web.Flash) *Handler {
	return &Handler{service: service, flash: flash}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/blog", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/new", h.create)
		r.Get("/{id}", h.view)
		r.Post("/{id}/edit", h.update)
		r.Post("/{id}/delete", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPublished(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}
	if posts == nil {
		posts = []*Post{}
	}
	h.flash.Render(w, r, http.StatusOK, posts)
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.View(r.Context(), web.SubjectFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Render(w, r, http.StatusOK, post)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	if _, err := h.service.Create(r.Context(), web.SubjectFrom(r.Context()), req); err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/blog", "Post created.")
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	post, err := h.service.Update(r.Context(), web.SubjectFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/blog/"+post.ID.String(), "Post updated.")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), web.SubjectFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/blog", "Post deleted.")
}
