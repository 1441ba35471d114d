package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/repository"
	"github.com/dom/riot-collector/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PatchHandler struct {
	docs    *DocumentHandler[*domain.Patch]
	repo    repository.PatchRepository
	catalog *service.CatalogService
	logger  *zap.Logger
	now     func() time.Time
}

func NewPatchHandler(repo repository.PatchRepository, catalog *service.CatalogService, logger *zap.Logger) *PatchHandler {
	return &PatchHandler{
		docs:    NewDocumentHandler[*domain.Patch](domain.KindPatch, repo, func() *domain.Patch { return new(domain.Patch) }, logger),
		repo:    repo,
		catalog: catalog,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a patch, stamping the creation date when the body has none.
func (h *PatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	patch := new(domain.Patch)
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if patch.CreationDate.IsZero() {
		patch.CreationDate = h.now()
	}
	h.docs.create(w, r, patch)
}

// List returns the patches named by the versions query parameter, newest
// first. Without versions it returns the latest patch, projected to fields.
func (h *PatchHandler) List(w http.ResponseWriter, r *http.Request) {
	if versions := queryList(r, "versions"); len(versions) > 0 {
		patches, err := h.catalog.Patches(r.Context(), versions)
		if err != nil {
			writeError(w, h.logger, "patch.List", err, "Failed to get patches")
			return
		}
		writeJSON(w, http.StatusOK, patches)
		return
	}

	latest, err := h.catalog.LatestPatch(r.Context())
	if err != nil {
		writeError(w, h.logger, "patch.List", err, "Failed to get patches")
		return
	}
	docs, err := h.repo.ListFields(r.Context(), latest.Version, queryList(r, "fields"))
	if err != nil {
		writeError(w, h.logger, "patch.List", err, "Failed to get patches")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *PatchHandler) Latest(w http.ResponseWriter, r *http.Request) {
	patch, err := h.catalog.LatestPatch(r.Context())
	if err != nil {
		writeError(w, h.logger, "patch.Latest", err, "Failed to get latest patch")
		return
	}
	writeJSON(w, http.StatusOK, patch)
}

func (h *PatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	version := chi.URLParam(r, "version")
	patch, err := h.catalog.Patch(r.Context(), version)
	if err != nil {
		writeError(w, h.logger, "patch.Get", err, "Failed to get patch")
		return
	}
	writeJSON(w, http.StatusOK, patch)
}
