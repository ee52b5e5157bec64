package catalog

import (
	"net/http"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the public read routes and the admin write routes,
// the latter behind gate.
func (h *Handler) RegisterRoutes(r chi.Router, gate func(http.Handler) http.Handler) {
	r.Get("/api/products", h.listProducts)
	r.Get("/api/products/{id}", h.getProduct)
	r.Get("/api/combos", h.listCombos)
	r.Get("/api/combos/{id}", h.getCombo)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(gate)
		r.Post("/products", h.createProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)
		r.Post("/combos", h.createCombo)
		r.Put("/combos/{id}", h.updateCombo)
		r.Delete("/combos/{id}", h.deleteCombo)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		httpx.RespondError(w, err, "", "Failed to fetch products")
		return
	}
	httpx.Respond(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err, "Product not found", "Failed to fetch product")
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	req, err := parseProductRequest(r)
	if err != nil {
		httpx.RespondError(w, err, "", "Failed to create product")
		return
	}
	defer req.close()

	p, err := h.service.CreateProduct(r.Context(), req.fields, req.files)
	if err != nil {
		httpx.RespondError(w, err, "", "Failed to create product")
		return
	}
	httpx.Respond(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	req, err := parseProductRequest(r)
	if err != nil {
		httpx.RespondError(w, err, "", "Failed to update product")
		return
	}
	defer req.close()

	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req.fields, req.files)
	if err != nil {
		httpx.RespondError(w, err, "Product not found", "Failed to update product")
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err, "Product not found", "Failed to delete product")
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

func (h *Handler) listCombos(w http.ResponseWriter, r *http.Request) {
	combos, err := h.service.ListCombos(r.Context())
	if err != nil {
		httpx.RespondError(w, err, "", "Failed to fetch combos")
		return
	}
	httpx.Respond(w, http.StatusOK, combos)
}

func (h *Handler) getCombo(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCombo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err, "Combo not found", "Failed to fetch combo")
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}

func (h *Handler) createCombo(w http.ResponseWriter, r *http.Request) {
	req, err := parseComboRequest(r)
	if err != nil {
		httpx.RespondError(w, err, "", "Failed to create combo")
		return
	}
	defer req.close()

	c, err := h.service.CreateCombo(r.Context(), req.fields, req.file)
	if err != nil {
		httpx.RespondError(w, err, "", "Failed to create combo")
		return
	}
	httpx.Respond(w, http.StatusCreated, c)
}

func (h *Handler) updateCombo(w http.ResponseWriter, r *http.Request) {
	req, err := parseComboRequest(r)
	if err != nil {
		httpx.RespondError(w, err, "", "Failed to update combo")
		return
	}
	defer req.close()

	c, err := h.service.UpdateCombo(r.Context(), chi.URLParam(r, "id"), req.fields, req.file)
	if err != nil {
		httpx.RespondError(w, err, "Combo not found", "Failed to update combo")
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}

func (h *Handler) deleteCombo(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCombo(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err, "Combo not found", "Failed to delete combo")
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"message": "Combo deleted successfully"})
}
