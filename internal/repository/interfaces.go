package repository

import (
	"context"
	"encoding/json"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/google/uuid"
)

// DocumentRepository stores the records of one kind. Records are never
// updated: Add fails with a *domain.ConflictError when the natural key is
// already stored for the patch.
type DocumentRepository[T domain.Document] interface {
	Add(ctx context.Context, doc T) (uuid.UUID, error)
	Exists(ctx context.Context, patch, key string) (bool, error)
	Get(ctx context.Context, patch, key string) (T, error)
	ListByPatch(ctx context.Context, patch string) ([]T, error)
	// ListFields returns each document of the patch projected to the given
	// top-level keys plus "id". No fields returns whole documents.
	ListFields(ctx context.Context, patch string, fields []string) ([]map[string]json.RawMessage, error)
}

type ChampionRepository interface {
	DocumentRepository[*domain.Champion]
	ListSummaries(ctx context.Context, patch string) ([]domain.ChampionSummary, error)
}

type PatchRepository interface {
	DocumentRepository[*domain.Patch]
	GetByVersion(ctx context.Context, version string) (*domain.Patch, error)
	GetByVersions(ctx context.Context, versions []string) ([]*domain.Patch, error)
	// Latest returns the patch with the newest creation date.
	Latest(ctx context.Context) (*domain.Patch, error)
}

type Repositories struct {
	Champion      ChampionRepository
	Item          DocumentRepository[*domain.Item]
	Perks         DocumentRepository[*domain.Perks]
	SummonerSpell DocumentRepository[*domain.SummonerSpell]
	Shard         DocumentRepository[*domain.Shard]
	Patch         PatchRepository
}
