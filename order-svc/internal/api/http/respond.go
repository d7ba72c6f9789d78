package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"bistro-backend/order-svc/internal/domain"

	"go.uber.org/zap"
)

type envelope map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, status int, message, key string, payload interface{}) {
	body := envelope{"success": true, "message": message}
	if key != "" {
		body[key] = payload
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error onto its HTTP status. Internal errors are
// logged with the request and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("user_id", r.Header.Get(HeaderUserID)),
		zap.Error(err),
	}
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", fields...)
		message = "internal server error"
	} else {
		zap.L().Info("request rejected", append(fields, zap.Int("status", status))...)
	}
	writeJSON(w, status, envelope{"success": false, "message": message})
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, domain.Validationf("%s", message))
}
