package domain

import (
	"strconv"
)

// SpellKeys are the keys an active spell may carry.
var SpellKeys = []string{"Q", "W", "E", "R"}

// Champion is the denormalized record for one champion in one patch.
type Champion struct {
	ChampID int    `json:"champ_id"`
	Patch   string `json:"patch"`

	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Icon         string   `json:"icon"`
	Resource     string   `json:"resource"`
	ReleaseDate  string   `json:"release_date"`
	ReleasePatch string   `json:"release_patch"`
	Role         []string `json:"role"`
	AdaptiveType string   `json:"adaptive_type"`
	RangeType    string   `json:"range_type"`
	BlueEssence  Value    `json:"blue_essence"`
	RP           Value    `json:"rp"`

	Tactical Tactical `json:"tactical"`
	Stats    Stats    `json:"stats"`
	Spells   []Spell  `json:"spells"`
	Passive  Passive  `json:"passive"`
	Skins    []Skin   `json:"skins"`

	Strategy
	Biography []string `json:"biography"`
}

func (c *Champion) NaturalKey() string   { return strconv.Itoa(c.ChampID) }
func (c *Champion) PatchVersion() string { return c.Patch }
func (c *Champion) DisplayName() string  { return c.Name }

// Validate checks the fields every stored champion must carry.
func (c *Champion) Validate() error {
	var bad []string
	if c.ChampID <= 0 {
		bad = append(bad, "champ_id")
	}
	if c.Patch == "" {
		bad = append(bad, "patch")
	}
	if c.Name == "" {
		bad = append(bad, "name")
	}
	if len(c.Spells) > len(SpellKeys) {
		bad = append(bad, "spells")
	}
	for i := range c.Spells {
		bad = append(bad, c.Spells[i].invalidFields()...)
	}
	if c.Passive.Name == "" {
		bad = append(bad, "passive.name")
	}

	if len(bad) > 0 {
		return &ValidationError{Kind: KindChampion, Key: c.NaturalKey(), Fields: bad}
	}
	return nil
}

// Tactical holds the wiki's 1-3 ratings.
type Tactical struct {
	Damage     Value `json:"damage"`
	Toughness  Value `json:"toughness"`
	Control    Value `json:"control"`
	Mobility   Value `json:"mobility"`
	Utility    Value `json:"utility"`
	Difficulty Value `json:"difficulty"`
}

// StatValue is a base stat and its growth per level.
type StatValue struct {
	Flat     float64 `json:"flat"`
	PerLevel float64 `json:"per_level"`
}

// Stats is a champion's stat block. Special holds scalar combat-engine
// stats such as missile_speed or aram_dmg_dealt, null when the wiki
// leaves the cell blank.
type Stats struct {
	Health          StatValue        `json:"health"`
	HealthRegen     StatValue        `json:"health_regen"`
	Mana            StatValue        `json:"mana"`
	ManaRegen       StatValue        `json:"mana_regen"`
	MoveSpeed       StatValue        `json:"move_speed"`
	Armor           StatValue        `json:"armor"`
	MagicResistance StatValue        `json:"magic_resistance"`
	AttackRange     StatValue        `json:"attack_range"`
	Crit            StatValue        `json:"crit"`
	AttackDamage    StatValue        `json:"attack_damage"`
	AttackSpeed     StatValue        `json:"attack_speed"`
	Special         map[string]Value `json:"special"`
}

// SpecialStats are the scalar stats copied from the wiki stats table.
var SpecialStats = []string{
	"missile_speed",
	"attack_cast_time",
	"attack_total_time",
	"attack_delay_offset",
	"acquisition_radius",
	"selection_radius",
	"gameplay_radius",
	"pathing_radius",
	"aram_dmg_dealt",
	"aram_dmg_taken",
	"aram_healing",
	"aram_shielding",
	"urf_dmg_dealt",
	"urf_dmg_taken",
	"urf_healing",
	"urf_shielding",
}

// Spell is an active ability. Stats is open: each champion's abilities
// carry their own stat names.
type Spell struct {
	Key         string           `json:"key"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Icon        string           `json:"icon"`
	MaxRank     int              `json:"max_rank"`
	Cooldown    []float64        `json:"cooldown"`
	Cost        []float64        `json:"cost"`
	Range       []float64        `json:"range"`
	Stats       map[string]Value `json:"stats,omitempty"`
	Explanation []string         `json:"explanation,omitempty"`
}

func (s *Spell) invalidFields() []string {
	var bad []string
	prefix := "spells." + s.Key + "."
	if !isSpellKey(s.Key) {
		bad = append(bad, "spells.key")
	}
	if s.Name == "" {
		bad = append(bad, prefix+"name")
	}
	if s.Description == "" {
		bad = append(bad, prefix+"description")
	}
	if s.Icon == "" {
		bad = append(bad, prefix+"icon")
	}
	if s.MaxRank < 1 {
		bad = append(bad, prefix+"max_rank")
		return bad
	}
	if len(s.Cooldown) != s.MaxRank {
		bad = append(bad, prefix+"cooldown")
	}
	if len(s.Cost) != s.MaxRank {
		bad = append(bad, prefix+"cost")
	}
	if len(s.Range) != s.MaxRank {
		bad = append(bad, prefix+"range")
	}
	return bad
}

func isSpellKey(key string) bool {
	for _, k := range SpellKeys {
		if k == key {
			return true
		}
	}
	return false
}

type Passive struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Icon        string           `json:"icon"`
	Stats       map[string]Value `json:"stats,omitempty"`
	Explanation []string         `json:"explanation,omitempty"`
}

// Skin commerce fields come from the wiki skin catalog and stay null when
// no catalog entry matches.
type Skin struct {
	ID           int      `json:"id"`
	IsBase       bool     `json:"is_base"`
	Name         string   `json:"name"`
	Splash       string   `json:"splash"`
	Icon         string   `json:"icon"`
	ChromaIcon   *string  `json:"chroma_icon"`
	Chromas      []Chroma `json:"chromas"`
	Cost         Value    `json:"cost"`
	ReleaseDate  Value    `json:"release_date"`
	VoiceActor   Value    `json:"voice_actor"`
	SplashArtist Value    `json:"splash_artist"`
	Lore         Value    `json:"lore"`
}

type Chroma struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Strategy is the optional guide content of a champion. A section missing
// from the wiki stays nil and is omitted.
type Strategy struct {
	AllyTips         []string          `json:"ally_tips,omitempty"`
	EnemyTips        []string          `json:"enemy_tips,omitempty"`
	TeamMateTips     []string          `json:"team_mate_tips,omitempty"`
	RecommendedItems []RecommendedItem `json:"recommended_items,omitempty"`
	Tricks           []Trick           `json:"tricks,omitempty"`
	Playstyle        []Playstyle       `json:"playstyle,omitempty"`
	Runes            []RuneNote        `json:"runes,omitempty"`
	Items            []string          `json:"items,omitempty"`
}

type RecommendedItem struct {
	Name  string  `json:"name"`
	Build []Build `json:"build"`
}

type Build struct {
	Name  string      `json:"name"`
	Items []BuildItem `json:"items"`
}

type BuildItem struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}

type Trick struct {
	Title string       `json:"title,omitempty"`
	Value []TrickValue `json:"value"`
}

type TrickValue struct {
	Title string   `json:"title,omitempty"`
	Text  []string `json:"text,omitempty"`
}

type Playstyle struct {
	AbilityName string   `json:"ability_name,omitempty"`
	AbilityText []string `json:"ability_text"`
}

type RuneNote struct {
	Perks    string   `json:"perks,omitempty"`
	Keystone []string `json:"keystone,omitempty"`
	Text     string   `json:"text,omitempty"`
}

// ChampionSummary is the short listing form.
type ChampionSummary struct {
	ID      string `json:"id"`
	ChampID int    `json:"champ_id"`
	Name    string `json:"name"`
}
