package scraper

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/normalize"
)

// Data Dragon roster (championFull.json).

type Roster struct {
	Data map[string]RosterChampion `json:"data"`
}

type RosterChampion struct {
	ID      string             `json:"id"`
	Key     string             `json:"key"`
	Name    string             `json:"name"`
	Title   string             `json:"title"`
	Stats   map[string]float64 `json:"stats"`
	Spells  []RosterSpell      `json:"spells"`
	Passive struct {
		Name string `json:"name"`
	} `json:"passive"`
}

type RosterSpell struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	MaxRank  int       `json:"maxrank"`
	Cooldown []float64 `json:"cooldown"`
	Cost     []float64 `json:"cost"`
	Range    []float64 `json:"range"`
}

// Champions returns the roster sorted by numeric key.
func (r Roster) Champions() []RosterChampion {
	out := make([]RosterChampion, 0, len(r.Data))
	for _, c := range r.Data {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumericKey() < out[j].NumericKey() })
	return out
}

func (c RosterChampion) NumericKey() int {
	n, _ := strconv.Atoi(c.Key)
	return n
}

// Community Dragon champion detail (v1/champions/{id}.json).

type ChampionDetail struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Passive DetailAbility   `json:"passive"`
	Spells  []DetailAbility `json:"spells"`
	Skins   []DetailSkin    `json:"skins"`
}

type DetailAbility struct {
	Name            string `json:"name"`
	AbilityIconPath string `json:"abilityIconPath"`
	Description     string `json:"description"`
}

type DetailSkin struct {
	ID         int            `json:"id"`
	IsBase     bool           `json:"isBase"`
	Name       string         `json:"name"`
	SplashPath string         `json:"splashPath"`
	TilePath   string         `json:"tilePath"`
	ChromaPath *string        `json:"chromaPath"`
	Chromas    []DetailChroma `json:"chromas"`
}

type DetailChroma struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ChromaPath string `json:"chromaPath"`
}

// Data Dragon items (item.json).

type ItemFeed struct {
	Data map[string]FeedItem `json:"data"`
}

type FeedItem struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	From        []string           `json:"from"`
	Into        []string           `json:"into"`
	Tags        []string           `json:"tags"`
	Stacks      *int               `json:"stacks"`
	Gold        domain.Gold        `json:"gold"`
	Stats       map[string]float64 `json:"stats"`
}

// IconEntry is one element of Community Dragon's v1/items.json.
type IconEntry struct {
	ID       int    `json:"id"`
	IconPath string `json:"iconPath"`
}

// BuildItems reshapes the item feed. Entries whose key is not numeric are
// skipped; icons is keyed by item id and may be empty.
func BuildItems(e Endpoints, v Version, feed ItemFeed, icons map[int]string) []*domain.Item {
	items := make([]*domain.Item, 0, len(feed.Data))
	for key, raw := range feed.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}

		item := &domain.Item{
			ItemID:      id,
			Patch:       v.Patch,
			Name:        raw.Name,
			Description: normalize.StripMarkup(raw.Description),
			BuildFrom:   raw.From,
			BuildInto:   raw.Into,
			Tags:        raw.Tags,
			MaxStacks:   raw.Stacks,
			Gold:        raw.Gold,
			Stats:       itemStats(raw.Stats),
		}
		if item.Tags == nil {
			item.Tags = []string{}
		}
		if path, ok := icons[id]; ok && path != "" {
			icon := e.AssetURL(v, path)
			item.Icon = &icon
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })
	return items
}

func itemStats(s map[string]float64) domain.ItemStats {
	return domain.ItemStats{
		MoveSpeed:       domain.ItemStat{Flat: s["FlatMovementSpeedMod"], Percent: s["PercentMovementSpeedMod"]},
		Health:          domain.ItemStat{Flat: s["FlatHPPoolMod"]},
		Crit:            domain.ItemStat{Flat: s["FlatCritChanceMod"]},
		MagicDamage:     domain.ItemStat{Flat: s["FlatMagicDamageMod"]},
		Mana:            domain.ItemStat{Flat: s["FlatMPPoolMod"]},
		Armor:           domain.ItemStat{Flat: s["FlatArmorMod"]},
		MagicResistance: domain.ItemStat{Flat: s["FlatSpellBlockMod"]},
		AttackDamage:    domain.ItemStat{Flat: s["FlatPhysicalDamageMod"]},
		AttackSpeed:     domain.ItemStat{Percent: s["PercentAttackSpeedMod"]},
		LifeSteal:       domain.ItemStat{Percent: s["PercentLifeStealMod"]},
		HealthRegen:     domain.ItemStat{Flat: s["FlatHPRegenMod"]},
	}
}

// Data Dragon rune trees (runesReforged.json).

type RuneTree struct {
	Name  string     `json:"name"`
	Icon  string     `json:"icon"`
	Slots []RuneSlot `json:"slots"`
}

type RuneSlot struct {
	Runes []FeedRune `json:"runes"`
}

type FeedRune struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	ShortDesc string `json:"shortDesc"`
	LongDesc  string `json:"longDesc"`
}

// BuildPerks reshapes each rune tree. The first slot holds the keystones;
// the others are named from domain.PerkSlotNames.
func BuildPerks(e Endpoints, v Version, trees []RuneTree) []*domain.Perks {
	out := make([]*domain.Perks, 0, len(trees))
	for _, tree := range trees {
		p := &domain.Perks{
			Name:     tree.Name,
			Patch:    v.Patch,
			Icon:     e.PerkTreeIcon(v, tree.Icon),
			Keystone: []domain.Rune{},
			Slots:    []domain.PerkSlot{},
		}
		if len(tree.Slots) > 0 {
			p.Keystone = buildRunes(e, v, tree.Slots[0].Runes)
		}

		names, known := domain.PerkSlotNames[tree.Name]
		for i, slot := range tree.Slots[min(1, len(tree.Slots)):] {
			name := fmt.Sprintf("Slot %d", i+1)
			if known && i < len(names) {
				name = names[i]
			}
			p.Slots = append(p.Slots, domain.PerkSlot{Name: name, Runes: buildRunes(e, v, slot.Runes)})
		}
		out = append(out, p)
	}
	return out
}

func buildRunes(e Endpoints, v Version, runes []FeedRune) []domain.Rune {
	out := make([]domain.Rune, len(runes))
	for i, r := range runes {
		out[i] = domain.Rune{
			Name:             r.Name,
			Icon:             e.RuneIcon(v, r.Icon),
			ShortDescription: r.ShortDesc,
			Description:      r.LongDesc,
		}
	}
	return out
}

// Community Dragon summoner spells (v1/summoner-spells.json).

type FeedSummonerSpell struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	SummonerLevel int      `json:"summonerLevel"`
	Cooldown      float64  `json:"cooldown"`
	GameModes     []string `json:"gameModes"`
	IconPath      string   `json:"iconPath"`
}

func BuildSummonerSpells(e Endpoints, v Version, feed []FeedSummonerSpell) []*domain.SummonerSpell {
	out := make([]*domain.SummonerSpell, 0, len(feed))
	for _, s := range feed {
		spell := &domain.SummonerSpell{
			ID:            s.ID,
			Patch:         v.Patch,
			Name:          s.Name,
			Description:   s.Description,
			SummonerLevel: s.SummonerLevel,
			Cooldown:      s.Cooldown,
			GameModes:     s.GameModes,
		}
		if spell.GameModes == nil {
			spell.GameModes = []string{}
		}
		if s.IconPath != "" {
			icon := e.SummonerSpellIcon(v, s.IconPath)
			spell.Icon = &icon
		}
		out = append(out, spell)
	}
	return out
}

// Community Dragon perks (v1/perks.json).

type FeedPerk struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LongDesc string `json:"longDesc"`
	IconPath string `json:"iconPath"`
}

// BuildShards keeps the stat-mod perks of the feed.
func BuildShards(e Endpoints, v Version, feed []FeedPerk) []*domain.Shard {
	out := []*domain.Shard{}
	for _, p := range feed {
		if !strings.Contains(strings.ToLower(p.IconPath), "statmods") {
			continue
		}
		out = append(out, &domain.Shard{
			ID:          p.ID,
			Patch:       v.Patch,
			Name:        p.Name,
			Icon:        e.StatModIcon(v, p.IconPath),
			Description: p.LongDesc,
		})
	}
	return out
}
