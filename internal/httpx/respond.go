package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/justmahmoud31/Ryo-Server/internal/auth"
	"github.com/justmahmoud31/Ryo-Server/internal/catalog"
	"github.com/justmahmoud31/Ryo-Server/internal/orders"
	"github.com/justmahmoud31/Ryo-Server/internal/users"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func errJSON(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeErr maps domain errors onto the status codes the API promises.
func writeErr(w http.ResponseWriter, err error) {
	var ve *orders.ValidationError
	switch {
	case errors.As(err, &ve):
		errJSON(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, orders.ErrInsufficientStock):
		errJSON(w, http.StatusConflict, "insufficient stock")
	case errors.Is(err, orders.ErrForbidden):
		errJSON(w, http.StatusForbidden, "access denied")
	case errors.Is(err, orders.ErrNotFound),
		errors.Is(err, orders.ErrProductNotFound),
		errors.Is(err, users.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound):
		errJSON(w, http.StatusNotFound, err.Error())
	case errors.Is(err, users.ErrEmailTaken):
		errJSON(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		errJSON(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrWrongPassword):
		errJSON(w, http.StatusBadRequest, "Old password incorrect")
	case errors.Is(err, auth.ErrBadOTP):
		errJSON(w, http.StatusBadRequest, "Invalid or expired OTP")
	default:
		errJSON(w, http.StatusInternalServerError, "internal error")
	}
}
