package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/repository"
	"github.com/dom/riot-collector/internal/scraper"
	"go.uber.org/zap"
)

var ErrReleaseInProgress = errors.New("a release is already running")

type ReleaseState string

const (
	StateUnchecked ReleaseState = "unchecked"
	StateReleased  ReleaseState = "released"
)

// VersionSource discovers the newest upstream release.
type VersionSource interface {
	LatestVersion(ctx context.Context) (scraper.Version, error)
}

// Pipeline ingests every record of one kind for a release.
type Pipeline interface {
	Run(ctx context.Context, kind domain.Kind, v scraper.Version) (int, error)
}

// Notifier is told about each completed release.
type Notifier interface {
	PatchReleased(version string)
}

type ReleaseReport struct {
	Version  string              `json:"version"`
	Skipped  bool                `json:"skipped"`
	Counts   map[domain.Kind]int `json:"counts"`
	Duration time.Duration       `json:"duration"`
}

// ReleaseService ingests a release once: when the patch record for the
// version is already stored the release is a no-op.
type ReleaseService struct {
	versions VersionSource
	pipeline Pipeline
	patches  repository.PatchRepository
	notifier Notifier
	pinned   string
	logger   *zap.Logger

	running sync.Mutex
	mu      sync.Mutex
	state   ReleaseState
}

// NewReleaseService builds the orchestrator. pinned, when set, replaces
// version discovery. notifier may be nil.
func NewReleaseService(versions VersionSource, pipeline Pipeline, patches repository.PatchRepository, notifier Notifier, pinned string, logger *zap.Logger) *ReleaseService {
	return &ReleaseService{
		versions: versions,
		pipeline: pipeline,
		patches:  patches,
		notifier: notifier,
		pinned:   pinned,
		logger:   logger.Named("release"),
		state:    StateUnchecked,
	}
}

func (s *ReleaseService) State() ReleaseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ReleaseService) setState(state ReleaseState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Latest resolves the version to release: the pinned one, else the newest
// upstream.
func (s *ReleaseService) Latest(ctx context.Context) (scraper.Version, error) {
	if s.pinned != "" {
		return scraper.ParseVersion(s.pinned)
	}
	v, err := s.versions.LatestVersion(ctx)
	if err != nil {
		return scraper.Version{}, fmt.Errorf("discover version: %w", err)
	}
	return v, nil
}

// Release ingests the latest version.
func (s *ReleaseService) Release(ctx context.Context) (*ReleaseReport, error) {
	v, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return s.ReleaseVersion(ctx, v)
}

// ReleaseVersion ingests every kind for v in domain.Kinds order, patch
// notes first, stopping at the first failing kind. Only one release runs at
// a time.
func (s *ReleaseService) ReleaseVersion(ctx context.Context, v scraper.Version) (*ReleaseReport, error) {
	if !s.running.TryLock() {
		return nil, ErrReleaseInProgress
	}
	defer s.running.Unlock()

	start := time.Now()
	report := &ReleaseReport{Version: v.Patch, Counts: make(map[domain.Kind]int, len(domain.Kinds))}
	logger := s.logger.With(zap.String("version", v.Patch))

	_, err := s.patches.GetByVersion(ctx, v.Patch)
	switch {
	case err == nil:
		s.setState(StateReleased)
		report.Skipped = true
		report.Duration = time.Since(start)
		logger.Info("release already ingested")
		return report, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("check patch %s: %w", v.Patch, err)
	}

	s.setState(StateUnchecked)
	logger.Info("release started", zap.String("data_version", v.Data))

	for _, kind := range domain.Kinds {
		kindStart := time.Now()
		n, err := s.pipeline.Run(ctx, kind, v)
		if err != nil {
			report.Duration = time.Since(start)
			logger.Error("release failed", zap.String("kind", string(kind)), zap.Error(err))
			return report, fmt.Errorf("release %s: %s: %w", v.Patch, kind, err)
		}
		report.Counts[kind] = n
		logger.Info("kind ingested",
			zap.String("kind", string(kind)),
			zap.Int("count", n),
			zap.Duration("duration", time.Since(kindStart)),
		)
	}

	s.setState(StateReleased)
	report.Duration = time.Since(start)
	logger.Info("release completed", zap.Duration("duration", report.Duration))

	if s.notifier != nil {
		s.notifier.PatchReleased(v.Patch)
	}
	return report, nil
}
