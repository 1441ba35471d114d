package handlers

import (
	"net/http"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/service"
	"go.uber.org/zap"
)

type ChampionHandler struct {
	catalog *service.CatalogService
	logger  *zap.Logger
}

func NewChampionHandler(catalog *service.CatalogService, logger *zap.Logger) *ChampionHandler {
	return &ChampionHandler{catalog: catalog, logger: logger}
}

type ChampionsResponse struct {
	Patch     string                   `json:"patch"`
	Champions []domain.ChampionSummary `json:"champions"`
}

// List returns the champion summaries of the patch query parameter, or of
// the latest stored patch.
func (h *ChampionHandler) List(w http.ResponseWriter, r *http.Request) {
	patch, champions, err := h.catalog.ChampionSummaries(r.Context(), r.URL.Query().Get("patch"))
	if err != nil {
		writeError(w, h.logger, "champion.List", err, "Failed to get champions")
		return
	}
	writeJSON(w, http.StatusOK, ChampionsResponse{Patch: patch, Champions: champions})
}
