package catalog

import (
	"net/http"

	"github.com/georgemunganga/storefront/internal/forms"
	"github.com/georgemunganga/storefront/internal/web"
	"github.com/go-chi/chi/v5"
)

const maxImageSize = 10 << 20

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service Service
	flash   *web.Flash
}

func NewHandler(service Service, flash *web.Flash) *Handler {
	return &Handler{service: service, flash: flash}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.homepage)
	router.Get("/products", h.listProducts)
	router.Get("/categories", h.listCategories)

	router.Route("/product", func(r chi.Router) {
		r.Post("/new", h.createProduct)
		r.Get("/{id}", h.getProduct)
		r.Get("/{id}/edit", h.editForm)
		r.Post("/{id}/edit", h.updateProduct)
		r.Get("/{id}/delete", h.confirmDelete)
		r.Post("/{id}/delete", h.deleteProduct)
		r.Post("/{id}/unpublish", h.unpublishProduct)
		r.Post("/{id}/image", h.uploadImage)
	})

	router.Route("/version", func(r chi.Router) {
		r.Post("/new", h.createVersion)
		r.Post("/{id}/edit", h.updateVersion)
		r.Post("/{id}/delete", h.deleteVersion)
	})
}

func productURL(p *Product) string { return "/product/" + p.ID.String() }

func (h *Handler) homepage(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Homepage(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Render(w, r, http.StatusOK, page)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}
	if products == nil {
		products = []*Product{}
	}
	h.flash.Render(w, r, http.StatusOK, products)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}
	if categories == nil {
		categories = []*Category{}
	}
	h.flash.Render(w, r, http.StatusOK, categories)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Render(w, r, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	subject := web.SubjectFrom(r.Context())
	if subject == nil {
		web.Error(w, r, web.ErrUnauthenticated)
		return
	}
	var req ProductRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	if _, err := h.service.CreateProduct(r.Context(), subject, req); err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/products", "Product created.")
}

func (h *Handler) editForm(w http.ResponseWriter, r *http.Request) {
	edit, err := h.service.EditForm(r.Context(), web.SubjectFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Render(w, r, http.StatusOK, edit)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), web.SubjectFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, productURL(p), "Product updated.")
}

func (h *Handler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.ConfirmDelete(r.Context(), web.SubjectFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Render(w, r, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), web.SubjectFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/products", "Product deleted.")
}

func (h *Handler) unpublishProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.UnpublishProduct(r.Context(), web.SubjectFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, productURL(p), "Product unpublished.")
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	file, _, err := r.FormFile("image")
	if err != nil {
		web.Error(w, r, forms.Errors{"image": "upload a valid image"})
		return
	}
	defer file.Close()

	p, err := h.service.UploadImage(r.Context(), web.SubjectFrom(r.Context()), chi.URLParam(r, "id"), file)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, productURL(p), "Image uploaded.")
}

func (h *Handler) createVersion(w http.ResponseWriter, r *http.Request) {
	var req VersionRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	if _, err := h.service.CreateVersion(r.Context(), web.SubjectFrom(r.Context()), req); err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/", "Version created.")
}

func (h *Handler) updateVersion(w http.ResponseWriter, r *http.Request) {
	var req VersionRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}
	if _, err := h.service.UpdateVersion(r.Context(), web.SubjectFrom(r.Context()), chi.URLParam(r, "id"), req); err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/", "Version updated.")
}

func (h *Handler) deleteVersion(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.DeleteVersion(r.Context(), web.SubjectFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		web.Error(w, r, err)
		return
	}
	h.flash.Redirect(w, r, "/", "Version deleted.")
}
