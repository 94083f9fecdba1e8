package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JFernando12/app-interviews-sub000/internal/auth"
	"github.com/JFernando12/app-interviews-sub000/internal/export"
	"github.com/JFernando12/app-interviews-sub000/internal/store"
	"github.com/JFernando12/app-interviews-sub000/internal/upload"
)

var errNotOwner = errors.New("you do not have access to this resource")

type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Helper functions for JSON responses
func (s *server) sendJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *server) sendJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// writeError maps an error to its status code. Server-side failures are
// logged and answered with a generic message.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validationError
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		s.sendJSONError(w, "authentication required", http.StatusUnauthorized)
	case errors.Is(err, errNotOwner), errors.Is(err, upload.ErrForbidden):
		s.sendJSONError(w, errNotOwner.Error(), http.StatusForbidden)
	case errors.Is(err, store.ErrNotFound):
		s.sendJSONError(w, "not found", http.StatusNotFound)
	case errors.Is(err, auth.ErrUnknownProvider):
		s.sendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &verr),
		errors.Is(err, upload.ErrInvalidFormat),
		errors.Is(err, upload.ErrMissingFields),
		errors.Is(err, upload.ErrForeignKey),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, auth.ErrInvalidState),
		errors.Is(err, auth.ErrMissingCode):
		s.sendJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		logger(r).Error("request failed", "error", err)
		s.sendJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

func logger(r *http.Request) *slog.Logger {
	return logFromContext(r.Context())
}

func logFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
