package service

import (
	"github.com/dom/riot-collector/internal/config"
	"github.com/dom/riot-collector/internal/repository"
	"go.uber.org/zap"
)

type Services struct {
	Auth    *AuthService
	Catalog *CatalogService
	Release *ReleaseService
}

func NewServices(repos *repository.Repositories, versions VersionSource, pipeline Pipeline, notifier Notifier, cfg *config.Config, logger *zap.Logger) *Services {
	return &Services{
		Auth:    NewAuthService(cfg.AdminJWTSecret),
		Catalog: NewCatalogService(repos.Champion, repos.Patch),
		Release: NewReleaseService(versions, pipeline, repos.Patch, notifier, cfg.DataDragonVersion, logger),
	}
}
