package service

import (
	"context"
	"fmt"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/repository"
)

// CatalogService answers the read queries that need more than one
// repository call.
type CatalogService struct {
	champions repository.ChampionRepository
	patches   repository.PatchRepository
}

func NewCatalogService(champions repository.ChampionRepository, patches repository.PatchRepository) *CatalogService {
	return &CatalogService{champions: champions, patches: patches}
}

// ChampionSummaries lists the champions of patch, or of the latest stored
// patch when patch is empty. It returns the patch it listed.
func (s *CatalogService) ChampionSummaries(ctx context.Context, patch string) (string, []domain.ChampionSummary, error) {
	if patch == "" {
		latest, err := s.patches.Latest(ctx)
		if err != nil {
			return "", nil, err
		}
		patch = latest.Version
	}
	summaries, err := s.champions.ListSummaries(ctx, patch)
	if err != nil {
		return "", nil, fmt.Errorf("list champions for patch %s: %w", patch, err)
	}
	return patch, summaries, nil
}

func (s *CatalogService) LatestPatch(ctx context.Context) (*domain.Patch, error) {
	return s.patches.Latest(ctx)
}

func (s *CatalogService) Patch(ctx context.Context, version string) (*domain.Patch, error) {
	return s.patches.GetByVersion(ctx, version)
}

// Patches returns the stored patches among versions, newest first.
func (s *CatalogService) Patches(ctx context.Context, versions []string) ([]*domain.Patch, error) {
	return s.patches.GetByVersions(ctx, versions)
}
