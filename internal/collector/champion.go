package collector

import (
	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/scraper"
)

// championSources gathers every extractor output for one champion.
type championSources struct {
	Roster    scraper.RosterChampion
	Profile   scraper.Profile
	Stats     map[string]domain.Value
	Strategy  domain.Strategy
	Biography []string
	Detail    *scraper.ChampionDetail
	// Spells holds one result per roster spell, by index.
	Spells  []scraper.AbilityResult
	Passive scraper.AbilityResult
	Skins   map[string]scraper.SkinMeta
}

// rosterOwned are the spell fields the roster feed supplies. Scraped stats
// of the same name are dropped.
var rosterOwned = []string{"cooldown", "cost", "range"}

// assembleChampion merges the sources into the stored record.
func assembleChampion(urls scraper.Endpoints, v scraper.Version, src championSources) *domain.Champion {
	id := src.Roster.NumericKey()
	p := src.Profile

	champ := &domain.Champion{
		ChampID:      id,
		Patch:        v.Patch,
		Name:         src.Roster.Name,
		Title:        p.Text("title"),
		Icon:         urls.ChampionIcon(v, id),
		Resource:     p.Text("resource"),
		ReleaseDate:  p.Text("date"),
		ReleasePatch: p.Text("patch"),
		Role:         p.List("role"),
		AdaptiveType: p.Text("adaptivetype"),
		RangeType:    p.Text("rangetype"),
		BlueEssence:  p.Value("be"),
		RP:           p.Value("rp"),
		Tactical: domain.Tactical{
			Damage:     p.Value("damage"),
			Toughness:  p.Value("toughness"),
			Control:    p.Value("control"),
			Mobility:   p.Value("mobility"),
			Utility:    p.Value("utility"),
			Difficulty: p.Value("difficulty"),
		},
		Stats:     championStats(src.Roster.Stats, src.Stats),
		Strategy:  src.Strategy,
		Biography: src.Biography,
	}
	if champ.Title == "" {
		champ.Title = src.Roster.Title
	}
	if champ.Role == nil {
		champ.Role = []string{}
	}
	if champ.Biography == nil {
		champ.Biography = []string{}
	}

	detail := src.Detail
	if detail == nil {
		detail = &scraper.ChampionDetail{}
	}
	champ.Spells = assembleSpells(urls, v, src.Roster.Spells, detail.Spells, src.Spells)
	champ.Passive = domain.Passive{
		Name:        src.Roster.Passive.Name,
		Description: detail.Passive.Description,
		Icon:        urls.AssetURL(v, detail.Passive.AbilityIconPath),
	}
	champ.Passive.Stats, champ.Passive.Explanation = scrapedAbility(src.Passive)
	champ.Skins = assembleSkins(urls, v, id, detail.Skins, src.Skins)
	return champ
}

func championStats(base map[string]float64, scraped map[string]domain.Value) domain.Stats {
	pair := func(name string) domain.StatValue {
		return domain.StatValue{Flat: base[name], PerLevel: base[name+"perlevel"]}
	}
	stats := domain.Stats{
		Health:          pair("hp"),
		HealthRegen:     pair("hpregen"),
		Mana:            pair("mp"),
		ManaRegen:       pair("mpregen"),
		MoveSpeed:       pair("movespeed"),
		Armor:           pair("armor"),
		MagicResistance: pair("spellblock"),
		AttackRange:     pair("attackrange"),
		Crit:            pair("crit"),
		AttackDamage:    pair("attackdamage"),
		AttackSpeed:     pair("attackspeed"),
		Special:         make(map[string]domain.Value, len(domain.SpecialStats)),
	}
	for _, name := range domain.SpecialStats {
		stats.Special[name] = scraped[name]
	}
	return stats
}

// assembleSpells zips the roster spells with the detail feed and scraped
// results by position.
func assembleSpells(urls scraper.Endpoints, v scraper.Version, roster []scraper.RosterSpell, detail []scraper.DetailAbility, scraped []scraper.AbilityResult) []domain.Spell {
	spells := make([]domain.Spell, 0, len(roster))
	for i, rs := range roster {
		spell := domain.Spell{
			Key:      spellKey(i),
			Name:     rs.Name,
			MaxRank:  rs.MaxRank,
			Cooldown: rs.Cooldown,
			Cost:     rs.Cost,
			Range:    rs.Range,
		}
		if i < len(detail) {
			spell.Description = detail[i].Description
			spell.Icon = urls.AssetURL(v, detail[i].AbilityIconPath)
		}
		if i < len(scraped) {
			spell.Stats, spell.Explanation = scrapedAbility(scraped[i])
			for _, key := range rosterOwned {
				delete(spell.Stats, key)
			}
			if len(spell.Stats) == 0 {
				spell.Stats = nil
			}
		}
		spells = append(spells, spell)
	}
	return spells
}

// spellKey is the key of the roster spell at position i. Roster ids do not
// reliably end in their key ("JavelinToss"), their order does.
func spellKey(i int) string {
	if i < 0 || i >= len(domain.SpellKeys) {
		return ""
	}
	return domain.SpellKeys[i]
}

func scrapedAbility(res scraper.AbilityResult) (map[string]domain.Value, []string) {
	if !res.OK() || len(res.Stats) == 0 && len(res.Explanation) == 0 {
		return nil, nil
	}
	stats := make(map[string]domain.Value, len(res.Stats))
	for k, v := range res.Stats {
		stats[k] = v
	}
	if len(stats) == 0 {
		stats = nil
	}
	return stats, res.Explanation
}

func assembleSkins(urls scraper.Endpoints, v scraper.Version, champID int, feed []scraper.DetailSkin, catalog map[string]scraper.SkinMeta) []domain.Skin {
	skins := make([]domain.Skin, 0, len(feed))
	for _, s := range feed {
		skin := domain.Skin{
			ID:      s.ID,
			IsBase:  s.IsBase,
			Name:    s.Name,
			Splash:  urls.SkinSplash(v, champID, s.SplashPath),
			Icon:    urls.SkinTile(v, champID, s.TilePath),
			Chromas: make([]domain.Chroma, 0, len(s.Chromas)),
		}
		if s.ChromaPath != nil {
			icon := urls.SkinChroma(v, champID, *s.ChromaPath)
			skin.ChromaIcon = &icon
		}
		for _, c := range s.Chromas {
			skin.Chromas = append(skin.Chromas, domain.Chroma{
				ID:   c.ID,
				Name: c.Name,
				Icon: urls.AssetURL(v, c.ChromaPath),
			})
		}
		if meta, ok := scraper.MatchSkin(catalog, s.Name); ok {
			skin.Cost = meta.Cost
			skin.ReleaseDate = meta.Release
			skin.VoiceActor = meta.VoiceActor
			skin.SplashArtist = meta.SplashArtist
			skin.Lore = meta.Lore
		}
		skins = append(skins, skin)
	}
	return skins
}
