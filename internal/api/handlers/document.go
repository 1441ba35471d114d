package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/repository"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 4 << 20

// DocumentHandler serves the create and per-patch listing routes of one
// entity kind.
type DocumentHandler[T domain.Document] struct {
	kind   domain.Kind
	repo   repository.DocumentRepository[T]
	newFn  func() T
	logger *zap.Logger
}

func NewDocumentHandler[T domain.Document](kind domain.Kind, repo repository.DocumentRepository[T], newFn func() T, logger *zap.Logger) *DocumentHandler[T] {
	return &DocumentHandler[T]{kind: kind, repo: repo, newFn: newFn, logger: logger}
}

func (h *DocumentHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	doc := h.newFn()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(doc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.create(w, r, doc)
}

func (h *DocumentHandler[T]) create(w http.ResponseWriter, r *http.Request, doc T) {
	id, err := h.repo.Add(r.Context(), doc)
	if err != nil {
		writeError(w, h.logger, string(h.kind)+".Create", err, "Failed to create "+string(h.kind))
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id.String()})
}

// ListByPatch returns every document of the patch in the URL, projected to
// the fields query parameter when present.
func (h *DocumentHandler[T]) ListByPatch(w http.ResponseWriter, r *http.Request) {
	patch := chi.URLParam(r, "patch")
	docs, err := h.repo.ListFields(r.Context(), patch, queryList(r, "fields"))
	if err != nil {
		writeError(w, h.logger, string(h.kind)+".ListByPatch", err, "Failed to list "+string(h.kind))
		return
	}
	writeJSON(w, http.StatusOK, docs)
}
