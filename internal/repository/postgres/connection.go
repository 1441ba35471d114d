package postgres

import (
	"fmt"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates one document table per kind with its unique
// (patch, key) index.
func Migrate(db *gorm.DB) error {
	for _, kind := range domain.Kinds {
		table := string(kind)
		if err := db.Table(table).AutoMigrate(&document{}); err != nil {
			return fmt.Errorf("migrate %s: %w", table, err)
		}
		index := fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_patch_key ON %q (patch, "key")`, table, table)
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("index %s: %w", table, err)
		}
	}
	return nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Champion:      NewChampionRepository(db),
		Item:          newDocumentStore(db, domain.KindItem, func() *domain.Item { return new(domain.Item) }),
		Perks:         newDocumentStore(db, domain.KindPerks, func() *domain.Perks { return new(domain.Perks) }),
		SummonerSpell: newDocumentStore(db, domain.KindSummonerSpell, func() *domain.SummonerSpell { return new(domain.SummonerSpell) }),
		Shard:         newDocumentStore(db, domain.KindShard, func() *domain.Shard { return new(domain.Shard) }),
		Patch:         NewPatchRepository(db),
	}
}
