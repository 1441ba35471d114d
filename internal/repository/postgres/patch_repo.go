package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/riot-collector/internal/domain"
	"gorm.io/gorm"
)

type patchRepository struct {
	*documentStore[*domain.Patch]
}

func NewPatchRepository(db *gorm.DB) *patchRepository {
	return &patchRepository{
		documentStore: newDocumentStore(db, domain.KindPatch, func() *domain.Patch { return new(domain.Patch) }),
	}
}

func (r *patchRepository) GetByVersion(ctx context.Context, version string) (*domain.Patch, error) {
	return r.Get(ctx, version, version)
}

// GetByVersions returns the stored patches among versions, newest first.
// Unknown versions are skipped.
func (r *patchRepository) GetByVersions(ctx context.Context, versions []string) ([]*domain.Patch, error) {
	if len(versions) == 0 {
		return []*domain.Patch{}, nil
	}
	var rows []document
	err := r.table(ctx).
		Where("key IN ?", versions).
		Order(newestFirst).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.decodeAll(rows)
}

func (r *patchRepository) Latest(ctx context.Context) (*domain.Patch, error) {
	var row document
	err := r.table(ctx).Order(newestFirst).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("latest patch: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r.decode(row)
}

const newestFirst = "(body->>'creation_date')::timestamptz DESC, created_at DESC"
