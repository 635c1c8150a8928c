package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/justmahmoud31/Ryo-Server/internal/users"
)

type UsersHandler struct {
	Repo *users.Repo
}

func (h *UsersHandler) Register(r *chi.Mux, authn, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(authn, adminOnly)
		r.Get("/", h.list)
		r.Delete("/{id}", h.delete)
	})
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := users.ListFilter{
		ID:    q.Get("id"),
		Email: q.Get("email"),
		Phone: q.Get("phoneNumber"),
		Role:  users.Role(q.Get("role")),
		Page:  atoiDefault(q.Get("page"), 1),
		Limit: atoiDefault(q.Get("limit"), 10),
	}
	page, err := h.Repo.List(r.Context(), f)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
