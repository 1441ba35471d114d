// Package collector drives the extractors for one patch and writes the
// merged records through the repositories.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/repository"
	"github.com/dom/riot-collector/internal/scraper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source is the set of extractors the collector drives. *scraper.Scraper
// implements it.
type Source interface {
	Endpoints() scraper.Endpoints
	Roster(ctx context.Context, v scraper.Version) (scraper.Roster, error)
	ChampionData(ctx context.Context, champion string) (scraper.Profile, map[string]domain.Value, error)
	Strategy(ctx context.Context, champion string) (domain.Strategy, error)
	Biography(ctx context.Context, pages ...string) ([]string, error)
	ChampionDetail(ctx context.Context, v scraper.Version, id int) (*scraper.ChampionDetail, error)
	Ability(ctx context.Context, champion, ability string) scraper.AbilityResult
	SkinCatalog(ctx context.Context) (scraper.SkinCatalog, error)
	PatchNotes(ctx context.Context, v scraper.Version) (*domain.Patch, error)
	Items(ctx context.Context, v scraper.Version) ([]*domain.Item, error)
	Perks(ctx context.Context, v scraper.Version) ([]*domain.Perks, error)
	SummonerSpells(ctx context.Context, v scraper.Version) ([]*domain.SummonerSpell, error)
	Shards(ctx context.Context, v scraper.Version) ([]*domain.Shard, error)
}

type Collector struct {
	src         Source
	repos       *repository.Repositories
	concurrency int
	logger      *zap.Logger
	now         func() time.Time
}

func New(src Source, repos *repository.Repositories, concurrency int, logger *zap.Logger) *Collector {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Collector{
		src:         src,
		repos:       repos,
		concurrency: concurrency,
		logger:      logger.Named("collector"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Run ingests every record of kind for v and returns how many were stored.
func (c *Collector) Run(ctx context.Context, kind domain.Kind, v scraper.Version) (int, error) {
	switch kind {
	case domain.KindPatch:
		return c.PatchNotes(ctx, v)
	case domain.KindShard:
		return c.Shards(ctx, v)
	case domain.KindPerks:
		return c.Perks(ctx, v)
	case domain.KindSummonerSpell:
		return c.SummonerSpells(ctx, v)
	case domain.KindChampion:
		return c.Champions(ctx, v)
	case domain.KindItem:
		return c.Items(ctx, v)
	default:
		return 0, fmt.Errorf("unknown kind %q", kind)
	}
}

// PatchNotes stores the changelog of v, stamped with the ingestion time.
func (c *Collector) PatchNotes(ctx context.Context, v scraper.Version) (int, error) {
	patch, err := c.src.PatchNotes(ctx, v)
	if err != nil {
		return 0, fmt.Errorf("patch notes %s: %w", v, err)
	}
	patch.CreationDate = c.now()
	if _, err := c.repos.Patch.Add(ctx, patch); err != nil {
		return 0, fmt.Errorf("add patch %s: %w", v, err)
	}
	return 1, nil
}

func (c *Collector) Shards(ctx context.Context, v scraper.Version) (int, error) {
	shards, err := c.src.Shards(ctx, v)
	if err != nil {
		return 0, fmt.Errorf("shards %s: %w", v, err)
	}
	return persist(ctx, c.concurrency, domain.KindShard, c.repos.Shard, shards)
}

func (c *Collector) Perks(ctx context.Context, v scraper.Version) (int, error) {
	perks, err := c.src.Perks(ctx, v)
	if err != nil {
		return 0, fmt.Errorf("perks %s: %w", v, err)
	}
	return persist(ctx, c.concurrency, domain.KindPerks, c.repos.Perks, perks)
}

func (c *Collector) SummonerSpells(ctx context.Context, v scraper.Version) (int, error) {
	spells, err := c.src.SummonerSpells(ctx, v)
	if err != nil {
		return 0, fmt.Errorf("summoner spells %s: %w", v, err)
	}
	return persist(ctx, c.concurrency, domain.KindSummonerSpell, c.repos.SummonerSpell, spells)
}

func (c *Collector) Items(ctx context.Context, v scraper.Version) (int, error) {
	items, err := c.src.Items(ctx, v)
	if err != nil {
		return 0, fmt.Errorf("items %s: %w", v, err)
	}
	return persist(ctx, c.concurrency, domain.KindItem, c.repos.Item, items)
}

// Champions builds every roster champion in turn, then stores them.
func (c *Collector) Champions(ctx context.Context, v scraper.Version) (int, error) {
	roster, err := c.src.Roster(ctx, v)
	if err != nil {
		return 0, fmt.Errorf("roster %s: %w", v, err)
	}
	catalog := c.skinCatalog(ctx)
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	champions := make([]*domain.Champion, 0, len(roster.Data))
	for _, rc := range roster.Champions() {
		champ, err := c.Champion(ctx, v, rc, catalog[rc.Name])
		if err != nil {
			return 0, fmt.Errorf("champion %s: %w", rc.Name, err)
		}
		champions = append(champions, champ)
	}
	return persist(ctx, c.concurrency, domain.KindChampion, c.repos.Champion, champions)
}

// Preview builds one champion without storing it.
func (c *Collector) Preview(ctx context.Context, v scraper.Version, name string) (*domain.Champion, error) {
	roster, err := c.src.Roster(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", v, err)
	}
	for _, rc := range roster.Champions() {
		if rc.Name == name || rc.ID == name {
			return c.Champion(ctx, v, rc, c.skinCatalog(ctx)[rc.Name])
		}
	}
	return nil, fmt.Errorf("champion %s: %w", name, domain.ErrNotFound)
}

// Champion runs the extractors for one champion in order and merges
// their output. A failing ability is logged and left out.
func (c *Collector) Champion(ctx context.Context, v scraper.Version, rc scraper.RosterChampion, skins map[string]scraper.SkinMeta) (*domain.Champion, error) {
	profile, stats, err := c.src.ChampionData(ctx, rc.Name)
	if err != nil {
		return nil, err
	}
	strategy, err := c.src.Strategy(ctx, rc.Name)
	if err != nil {
		return nil, err
	}
	bio, err := c.src.Biography(ctx, profile.Text("title"), rc.Name)
	if err != nil {
		return nil, err
	}
	detail, err := c.src.ChampionDetail(ctx, v, rc.NumericKey())
	if err != nil {
		return nil, err
	}

	spells := make([]scraper.AbilityResult, len(rc.Spells))
	for i, s := range rc.Spells {
		spells[i] = c.ability(ctx, rc.Name, s.Name)
	}
	passive := c.ability(ctx, rc.Name, rc.Passive.Name)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return assembleChampion(c.src.Endpoints(), v, championSources{
		Roster:    rc,
		Profile:   profile,
		Stats:     stats,
		Strategy:  strategy,
		Biography: bio,
		Detail:    detail,
		Spells:    spells,
		Passive:   passive,
		Skins:     skins,
	}), nil
}

func (c *Collector) ability(ctx context.Context, champion, ability string) scraper.AbilityResult {
	res := c.src.Ability(ctx, champion, ability)
	if !res.OK() && ctx.Err() == nil {
		c.logger.Warn("ability skipped",
			zap.String("champion", champion),
			zap.String("ability", ability),
			zap.Error(res.Err),
		)
	}
	return res
}

// skinCatalog is best-effort: without it skins keep null commerce fields.
func (c *Collector) skinCatalog(ctx context.Context) scraper.SkinCatalog {
	catalog, err := c.src.SkinCatalog(ctx)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Warn("skin catalog unavailable", zap.Error(err))
		}
		return scraper.SkinCatalog{}
	}
	return catalog
}

// persist adds every doc concurrently, at most limit at a time. The first
// failure cancels the remaining adds; adds already committed stay stored.
func persist[T domain.Document](ctx context.Context, limit int, kind domain.Kind, repo repository.DocumentRepository[T], docs []T) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, doc := range docs {
		g.Go(func() error {
			if _, err := repo.Add(ctx, doc); err != nil {
				return fmt.Errorf("add %s %s: %w", kind, doc.NaturalKey(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(docs), nil
}
