package utils

import (
	"encoding/json"
	"net/http"
)

// Machine-stable error kinds. Clients branch on these, messages are for
// humans.
const (
	KindValidation      = "validation_error"
	KindUnauthenticated = "unauthenticated"
	KindForbidden       = "forbidden"
	KindNotFound        = "not_found"
	KindConflict        = "conflict"
	KindRateLimited     = "rate_limited"
	KindInternal        = "internal"
)

// Development toggles whether internal error details are echoed to clients.
// Set once at startup from APP_ENV.
var Development = false

type M map[string]interface{}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func RespondWithError(w http.ResponseWriter, code int, kind, msg string) {
	RespondWithJSON(w, code, M{"error": kind, "message": msg})
}

// RespondInternal hides the underlying error outside development mode.
func RespondInternal(w http.ResponseWriter, err error) {
	msg := "internal server error"
	if Development && err != nil {
		msg = err.Error()
	}
	RespondWithError(w, http.StatusInternalServerError, KindInternal, msg)
}
