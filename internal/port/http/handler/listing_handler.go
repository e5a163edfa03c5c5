package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/amJayem/used-books-resale-server/internal/port/http/middleware"
	"github.com/amJayem/used-books-resale-server/internal/service"
	"github.com/go-chi/chi/v5"
)

const maxPhotoSize = 5 << 20 // 5 MiB

type ListingHandler struct {
	listingService service.ListingService
	log            logger.Logger
}

func NewListingHandler(listingService service.ListingService, log logger.Logger) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		log:            log,
	}
}

type createListingRequest struct {
	CategoryID    string  `json:"categoryId"`
	BookName      string  `json:"bookName"`
	Description   string  `json:"description,omitempty"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
	ResalePrice   float64 `json:"resalePrice"`
	YearsOfUse    int     `json:"yearsOfUse,omitempty"`
	Location      string  `json:"location,omitempty"`
}

// Create handles POST /books. Seller only; owner comes from the verified
// credential, never from the request body.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("Failed to decode create listing request: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	listing, err := h.listingService.Create(r.Context(), service.CreateListingParams{
		CategoryID:    req.CategoryID,
		BookName:      req.BookName,
		Description:   req.Description,
		OriginalPrice: req.OriginalPrice,
		ResalePrice:   req.ResalePrice,
		YearsOfUse:    req.YearsOfUse,
		Location:      req.Location,
	}, claims.Email, claims.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

// ListByOwner handles GET /books?email=.
func (h *ListingHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email query parameter is required"})
		return
	}

	listings, err := h.listingService.ListByOwner(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// ListByCategory handles GET /books/categoryId?id=.
func (h *ListingHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("id")
	if categoryID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id query parameter is required"})
		return
	}

	listings, err := h.listingService.ListByCategory(r.Context(), categoryID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// GetByID handles GET /book/{id}.
func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listingService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// ListFeatured handles GET /feature/books.
func (h *ListingHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listingService.ListFeatured(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /book/status/{id}.
func (h *ListingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	listing, err := h.listingService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status, claims.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Feature handles PATCH /book/feature/{id}.
func (h *ListingHandler) Feature(w http.ResponseWriter, r *http.Request) {
	h.setAdvertise(w, r, true)
}

// Unfeature handles PATCH /book/feature/remove/{id}.
func (h *ListingHandler) Unfeature(w http.ResponseWriter, r *http.Request) {
	h.setAdvertise(w, r, false)
}

func (h *ListingHandler) setAdvertise(w http.ResponseWriter, r *http.Request, flag bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	listing, err := h.listingService.SetAdvertise(r.Context(), chi.URLParam(r, "id"), flag, claims.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// UploadPhoto handles POST /books/{id}/photo.
func (h *ListingHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "photo file is required"})
		return
	}
	defer file.Close()

	// Read one byte past the limit so an oversized upload is rejected
	// rather than silently truncated.
	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
	if err != nil {
		h.log.Errorf("Failed to read uploaded photo: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read photo"})
		return
	}
	if len(data) > maxPhotoSize {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "photo exceeds the maximum allowed size"})
		return
	}

	listing, err := h.listingService.AttachPhoto(r.Context(), chi.URLParam(r, "id"), claims.Email, header.Filename, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Delete handles DELETE /books/{id}.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeServiceError(w, service.ErrUnauthenticated)
		return
	}

	if err := h.listingService.Delete(r.Context(), chi.URLParam(r, "id"), claims.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
