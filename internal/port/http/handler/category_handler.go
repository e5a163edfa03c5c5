package handler

import (
	"net/http"

	"github.com/amJayem/used-books-resale-server/internal/service"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListAll handles GET /categories.
func (h *CategoryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetByID handles GET /category/{id}.
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}
