package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justmahmoud31/Ryo-Server/internal/catalog"
	"github.com/justmahmoud31/Ryo-Server/internal/uploads"
)

// CatalogHandler covers categories, colors and sizes. Products have their
// own handler.
type CatalogHandler struct {
	Repo    *catalog.Repo
	Uploads *uploads.Store
}

func (h *CatalogHandler) Register(r *chi.Mux, authn, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/category", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.With(authn, adminOnly).Post("/", h.createCategory)
		r.With(authn, adminOnly).Put("/{id}", h.updateCategory)
		r.With(authn, adminOnly).Delete("/{id}", h.deleteCategory)
	})
	r.Route("/api/colors", func(r chi.Router) {
		r.Get("/", h.listColors)
		r.With(authn, adminOnly).Post("/", h.createColor)
		r.With(authn, adminOnly).Patch("/{id}", h.updateColor)
		r.With(authn, adminOnly).Delete("/{id}", h.deleteColor)
	})
	r.Route("/api/sizes", func(r chi.Router) {
		r.Get("/", h.listSizes)
		r.With(authn, adminOnly).Post("/", h.createSize)
		r.With(authn, adminOnly).Patch("/{id}", h.updateSize)
		r.With(authn, adminOnly).Delete("/{id}", h.deleteSize)
	})
}

// ---- categories ----

func (h *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploads.MaxFileSize); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	name := r.FormValue("name")
	if name == "" {
		errJSON(w, http.StatusBadRequest, "name is required")
		return
	}
	_, fh, err := r.FormFile("image")
	if err != nil {
		errJSON(w, http.StatusBadRequest, "Image file is required")
		return
	}
	url, err := h.Uploads.Save(fh)
	if err != nil {
		errJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.Repo.CreateCategory(r.Context(), name, url)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploads.MaxFileSize); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	image := ""
	if _, fh, err := r.FormFile("image"); err == nil {
		url, err := h.Uploads.Save(fh)
		if err != nil {
			errJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		image = url
	}
	c, err := h.Repo.UpdateCategory(r.Context(), chi.URLParam(r, "id"), r.FormValue("name"), image)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cs, err := h.Repo.ListCategories(r.Context(), q.Get("id"), q.Get("name"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *CatalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}

// ---- colors ----

type colorReq struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

func (h *CatalogHandler) createColor(w http.ResponseWriter, r *http.Request) {
	var in colorReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		errJSON(w, http.StatusBadRequest, "name is required")
		return
	}
	c, err := h.Repo.CreateColor(r.Context(), in.Name, in.Hex)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) updateColor(w http.ResponseWriter, r *http.Request) {
	var in colorReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	c, err := h.Repo.UpdateColor(r.Context(), chi.URLParam(r, "id"), in.Name, in.Hex)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) listColors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cs, err := h.Repo.ListColors(r.Context(), q.Get("id"), q.Get("name"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *CatalogHandler) deleteColor(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteColor(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Color deleted"})
}

// ---- sizes ----

func (h *CatalogHandler) createSize(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Label == "" {
		errJSON(w, http.StatusBadRequest, "label is required")
		return
	}
	s, err := h.Repo.CreateSize(r.Context(), in.Label)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *CatalogHandler) updateSize(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		errJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	s, err := h.Repo.UpdateSize(r.Context(), chi.URLParam(r, "id"), in.Label)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *CatalogHandler) listSizes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ss, err := h.Repo.ListSizes(r.Context(), q.Get("id"), q.Get("label"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ss)
}

func (h *CatalogHandler) deleteSize(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteSize(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Size deleted"})
}
