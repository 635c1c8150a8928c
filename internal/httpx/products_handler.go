package httpx

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/justmahmoud31/Ryo-Server/internal/catalog"
	"github.com/justmahmoud31/Ryo-Server/internal/uploads"
)

type ProductsHandler struct {
	Repo    *catalog.Repo
	Uploads *uploads.Store
}

func (h *ProductsHandler) Register(r *chi.Mux, authn, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.list)
		r.With(authn, adminOnly).Post("/", h.create)
		r.With(authn, adminOnly).Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

// splitIDs parses the comma-separated association lists the form carries.
func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	// one product can ship a cover plus up to ten gallery images
	if err := r.ParseMultipartForm(11 * uploads.MaxFileSize); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	name := r.FormValue("name")
	categoryID := r.FormValue("categoryId")
	description := r.FormValue("description")
	if name == "" || categoryID == "" || description == "" {
		errJSON(w, http.StatusBadRequest, "name, categoryId and description are required")
		return
	}
	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price < 0 {
		errJSON(w, http.StatusBadRequest, "invalid price")
		return
	}
	stock, err := strconv.Atoi(r.FormValue("stock"))
	if err != nil || stock < 0 {
		errJSON(w, http.StatusBadRequest, "invalid stock")
		return
	}

	coverURL := ""
	if _, fh, err := r.FormFile("cover_image"); err == nil {
		if coverURL, err = h.Uploads.Save(fh); err != nil {
			errJSON(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	var imageURLs []string
	if r.MultipartForm != nil {
		fhs := r.MultipartForm.File["images"]
		if len(fhs) > 10 {
			errJSON(w, http.StatusBadRequest, "at most 10 images")
			return
		}
		if imageURLs, err = h.Uploads.SaveAll(fhs); err != nil {
			errJSON(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	p, err := h.Repo.CreateProduct(r.Context(), catalog.NewProduct{
		Name:         name,
		CategoryID:   categoryID,
		PriceCents:   int(math.Round(price * 100)),
		Stock:        stock,
		TargetGender: r.FormValue("target_gender"),
		Material:     r.FormValue("material"),
		Description:  description,
		CoverImage:   coverURL,
		ColorIDs:     splitIDs(r.FormValue("colors")),
		SizeIDs:      splitIDs(r.FormValue("sizes")),
		ImageURLs:    imageURLs,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.ProductFilter{
		Name:       q.Get("name"),
		CategoryID: q.Get("categoryId"),
		Page:       atoiDefault(q.Get("page"), 1),
		Limit:      atoiDefault(q.Get("limit"), 10),
	}
	ps, err := h.Repo.ListProducts(r.Context(), f)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Products retrieved successfully",
		"data":    ps,
	})
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name         *string  `json:"name"`
		CategoryID   *string  `json:"categoryId"`
		Price        *float64 `json:"price"`
		Stock        *int     `json:"stock"`
		TargetGender *string  `json:"target_gender"`
		Material     *string  `json:"material"`
		Description  *string  `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	u := catalog.ProductUpdate{
		Name:         in.Name,
		CategoryID:   in.CategoryID,
		Stock:        in.Stock,
		TargetGender: in.TargetGender,
		Material:     in.Material,
		Description:  in.Description,
	}
	if in.Price != nil {
		cents := int(math.Round(*in.Price * 100))
		u.PriceCents = &cents
	}
	p, err := h.Repo.UpdateProduct(r.Context(), chi.URLParam(r, "id"), u)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.SoftDeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}
