package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/service"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes. Client errors carry the
// error text; anything else is logged and answered with fallback.
func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrConflict), errors.Is(err, service.ErrReleaseInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		logger.Error("request failed", zap.String("op", op), zap.Error(err))
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}

// queryList reads a repeatable, comma-separable query parameter.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

type CreatedResponse struct {
	ID string `json:"id"`
}
