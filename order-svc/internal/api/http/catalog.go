package httpapi

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"bistro-backend/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

const maxUploadSize = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// parseForm accepts multipart and urlencoded bodies alike.
func parseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return domain.Validationf("file too large or malformed form")
	}
	return nil
}

func formValue(r *http.Request, key string) (string, bool) {
	values, ok := r.Form[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

// formImage returns the uploaded image, or nil when the form carries none.
// The caller closes the returned file.
func formImage(r *http.Request) (*domain.Upload, multipart.File, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, domain.Validationf("error retrieving file")
	}
	if !allowedImageTypes[header.Header.Get("Content-Type")] {
		file.Close()
		return nil, nil, domain.Validationf("only JPEG, PNG, GIF and WebP images are allowed")
	}
	return &domain.Upload{Filename: header.Filename, Reader: file}, file, nil
}

func (h *Handler) getMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Menu fetched", "items", items)
}

func (h *Handler) addMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, r, err)
		return
	}

	item := domain.MenuItem{IsAvailable: true}
	item.Name, _ = formValue(r, "name")
	item.Description, _ = formValue(r, "description")
	if raw, ok := formValue(r, "price"); ok && raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			badRequest(w, r, "invalid price")
			return
		}
		item.Price = price
	}
	if raw, ok := formValue(r, "category"); ok && raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(w, r, "invalid category id")
			return
		}
		item.CategoryID = id
	}
	if raw, ok := formValue(r, "isAvailable"); ok && raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(w, r, "invalid isAvailable flag")
			return
		}
		item.IsAvailable = available
	}

	image, file, err := formImage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	if err := h.Menu.Create(r.Context(), &item, image); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Menu item added", "item", item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, r, "invalid menu item id")
		return
	}
	if err := parseForm(r); err != nil {
		writeError(w, r, err)
		return
	}

	var patch domain.MenuItemPatch
	if v, ok := formValue(r, "name"); ok {
		patch.Name = &v
	}
	if v, ok := formValue(r, "description"); ok {
		patch.Description = &v
	}
	if v, ok := formValue(r, "price"); ok && v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			badRequest(w, r, "invalid price")
			return
		}
		patch.Price = &price
	}
	if v, ok := formValue(r, "category"); ok && v != "" {
		categoryID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			badRequest(w, r, "invalid category id")
			return
		}
		patch.CategoryID = &categoryID
	}
	if v, ok := formValue(r, "isAvailable"); ok && v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(w, r, "invalid isAvailable flag")
			return
		}
		patch.IsAvailable = &available
	}

	image, file, err := formImage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	item, err := h.Menu.Update(r.Context(), id, patch, image)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Menu item updated", "item", item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, r, "invalid menu item id")
		return
	}
	if err := h.Menu.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Menu item deleted", "", nil)
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Categories fetched", "categories", categories)
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, r, err)
		return
	}
	name, _ := formValue(r, "name")

	image, file, err := formImage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	category, err := h.Categories.Create(r.Context(), name, image)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Category added", "category", category)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, r, "invalid category id")
		return
	}
	if err := parseForm(r); err != nil {
		writeError(w, r, err)
		return
	}
	name, _ := formValue(r, "name")

	image, file, err := formImage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	category, err := h.Categories.Update(r.Context(), id, name, image)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Category updated", "category", category)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, r, "invalid category id")
		return
	}
	if err := h.Categories.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Category deleted", "", nil)
}
