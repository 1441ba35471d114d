package domain

import "strconv"

type Item struct {
	ItemID      int       `json:"item_id"`
	Patch       string    `json:"patch"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        *string   `json:"icon"`
	BuildFrom   []string  `json:"build_from"`
	BuildInto   []string  `json:"build_into"`
	Tags        []string  `json:"tags"`
	MaxStacks   *int      `json:"max_stacks"`
	Gold        Gold      `json:"gold"`
	Stats       ItemStats `json:"stats"`
}

func (i *Item) NaturalKey() string   { return strconv.Itoa(i.ItemID) }
func (i *Item) PatchVersion() string { return i.Patch }
func (i *Item) DisplayName() string  { return i.Name }

func (i *Item) Validate() error {
	var bad []string
	if i.ItemID <= 0 {
		bad = append(bad, "item_id")
	}
	if i.Patch == "" {
		bad = append(bad, "patch")
	}
	if i.Name == "" {
		bad = append(bad, "name")
	}
	if len(bad) > 0 {
		return &ValidationError{Kind: KindItem, Key: i.NaturalKey(), Fields: bad}
	}
	return nil
}

type Gold struct {
	Base        int  `json:"base"`
	Purchasable bool `json:"purchasable"`
	Total       int  `json:"total"`
	Sell        int  `json:"sell"`
}

// ItemStat is a flat bonus and a percent bonus for one stat.
type ItemStat struct {
	Flat    float64 `json:"flat"`
	Percent float64 `json:"percent"`
}

type ItemStats struct {
	MoveSpeed       ItemStat `json:"move_speed"`
	Health          ItemStat `json:"health"`
	Crit            ItemStat `json:"crit"`
	MagicDamage     ItemStat `json:"magic_damage"`
	Mana            ItemStat `json:"mana"`
	Armor           ItemStat `json:"armor"`
	MagicResistance ItemStat `json:"magic_resistance"`
	AttackDamage    ItemStat `json:"attack_damage"`
	AttackSpeed     ItemStat `json:"attack_speed"`
	LifeSteal       ItemStat `json:"life_steal"`
	HealthRegen     ItemStat `json:"health_regen"`
}
