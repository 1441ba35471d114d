package postgres

import (
	"context"
	"strconv"

	"github.com/dom/riot-collector/internal/domain"
	"gorm.io/gorm"
)

type championRepository struct {
	*documentStore[*domain.Champion]
}

func NewChampionRepository(db *gorm.DB) *championRepository {
	return &championRepository{
		documentStore: newDocumentStore(db, domain.KindChampion, func() *domain.Champion { return new(domain.Champion) }),
	}
}

// ListSummaries lists the champions of a patch by name, reading only the
// indexed columns.
func (r *championRepository) ListSummaries(ctx context.Context, patch string) ([]domain.ChampionSummary, error) {
	var rows []document
	err := r.table(ctx).
		Select("id", "key", "name").
		Where("patch = ?", patch).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ChampionSummary, 0, len(rows))
	for _, row := range rows {
		champID, _ := strconv.Atoi(row.Key)
		summaries = append(summaries, domain.ChampionSummary{
			ID:      row.ID.String(),
			ChampID: champID,
			Name:    row.Name,
		})
	}
	return summaries, nil
}
