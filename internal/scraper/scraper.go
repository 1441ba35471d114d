// Package scraper fetches the upstream wiki pages and data feeds and
// extracts them into domain records.
package scraper

import (
	"context"
	"fmt"

	"github.com/dom/riot-collector/internal/domain"
	"go.uber.org/zap"
)

type Scraper struct {
	client *Client
	urls   Endpoints
	logger *zap.Logger
}

func New(client *Client, urls Endpoints, logger *zap.Logger) *Scraper {
	return &Scraper{client: client, urls: urls, logger: logger.Named("scraper")}
}

func (s *Scraper) Endpoints() Endpoints { return s.urls }

// LatestVersion returns the newest release listed by Data Dragon.
func (s *Scraper) LatestVersion(ctx context.Context) (Version, error) {
	var versions []string
	if err := s.client.GetJSON(ctx, s.urls.VersionsURL(), &versions); err != nil {
		return Version{}, err
	}
	if len(versions) == 0 {
		return Version{}, fmt.Errorf("no versions available")
	}
	return ParseVersion(versions[0])
}

// ChampionData reads the profile and stat tables of a champion's data
// template, which share one page.
func (s *Scraper) ChampionData(ctx context.Context, champion string) (Profile, map[string]domain.Value, error) {
	doc, err := s.client.GetDocument(ctx, s.urls.ProfileURL(champion))
	if err != nil {
		return nil, nil, err
	}
	profile, err := ParseProfile(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("profile %s: %w", champion, err)
	}
	stats, err := ParseStats(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("stats %s: %w", champion, err)
	}
	return profile, stats, nil
}

// Strategy reads the champion's strategy page, falling back to the legacy
// LoL/Strategy page. A champion without either page has no guide sections.
func (s *Scraper) Strategy(ctx context.Context, champion string) (domain.Strategy, error) {
	for _, url := range []string{s.urls.StrategyURL(champion), s.urls.LegacyStrategyURL(champion)} {
		doc, err := s.client.GetDocument(ctx, url)
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return domain.Strategy{}, err
		}
		if IsMissingArticle(doc) {
			continue
		}
		return ParseStrategy(doc), nil
	}
	s.logger.Debug("no strategy page", zap.String("champion", champion))
	return domain.Strategy{}, nil
}

// Biography reads the first of pages that exists. No page yields no
// paragraphs.
func (s *Scraper) Biography(ctx context.Context, pages ...string) ([]string, error) {
	for _, page := range pages {
		if page == "" {
			continue
		}
		doc, err := s.client.GetDocument(ctx, s.urls.BiographyURL(page))
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if IsMissingArticle(doc) {
			continue
		}
		return ParseBiography(doc), nil
	}
	return []string{}, nil
}

// Ability scrapes one ability page. Failures are returned in the result,
// never as an error, so one broken page cannot fail the champion.
func (s *Scraper) Ability(ctx context.Context, champion, ability string) AbilityResult {
	doc, err := s.client.GetDocument(ctx, s.urls.AbilityURL(champion, abilityPageName(ability)))
	if err != nil {
		return failedAbility(err)
	}
	return ParseAbility(doc)
}

func (s *Scraper) SkinCatalog(ctx context.Context) (SkinCatalog, error) {
	doc, err := s.client.GetDocument(ctx, s.urls.SkinCatalogURL())
	if err != nil {
		return nil, err
	}
	return ParseSkinCatalog(doc)
}

func (s *Scraper) PatchNotes(ctx context.Context, v Version) (*domain.Patch, error) {
	doc, err := s.client.GetDocument(ctx, s.urls.PatchNotesURL(v))
	if err != nil {
		return nil, err
	}
	return ParsePatchNotes(doc, v.Patch)
}

func (s *Scraper) Roster(ctx context.Context, v Version) (Roster, error) {
	var roster Roster
	err := s.client.GetJSON(ctx, s.urls.RosterURL(v), &roster)
	return roster, err
}

func (s *Scraper) ChampionDetail(ctx context.Context, v Version, id int) (*ChampionDetail, error) {
	var detail ChampionDetail
	if err := s.client.GetJSON(ctx, s.urls.ChampionDetailURL(v, id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Items merges the Data Dragon item feed with Community Dragon icons. The
// icon feed is optional.
func (s *Scraper) Items(ctx context.Context, v Version) ([]*domain.Item, error) {
	icons := map[int]string{}
	var entries []IconEntry
	if err := s.client.GetJSON(ctx, s.urls.CDragonItemsURL(v), &entries); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("item icons unavailable", zap.String("patch", v.Patch), zap.Error(err))
	}
	for _, e := range entries {
		icons[e.ID] = e.IconPath
	}

	var feed ItemFeed
	if err := s.client.GetJSON(ctx, s.urls.ItemsURL(v), &feed); err != nil {
		return nil, err
	}
	return BuildItems(s.urls, v, feed, icons), nil
}

func (s *Scraper) Perks(ctx context.Context, v Version) ([]*domain.Perks, error) {
	var trees []RuneTree
	if err := s.client.GetJSON(ctx, s.urls.RunesURL(v), &trees); err != nil {
		return nil, err
	}
	return BuildPerks(s.urls, v, trees), nil
}

func (s *Scraper) SummonerSpells(ctx context.Context, v Version) ([]*domain.SummonerSpell, error) {
	var feed []FeedSummonerSpell
	if err := s.client.GetJSON(ctx, s.urls.SummonerSpellsURL(v), &feed); err != nil {
		return nil, err
	}
	return BuildSummonerSpells(s.urls, v, feed), nil
}

func (s *Scraper) Shards(ctx context.Context, v Version) ([]*domain.Shard, error) {
	var feed []FeedPerk
	if err := s.client.GetJSON(ctx, s.urls.CDragonPerksURL(v), &feed); err != nil {
		return nil, err
	}
	return BuildShards(s.urls, v, feed), nil
}
