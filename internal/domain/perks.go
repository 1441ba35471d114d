package domain

// PerkSlotNames names the three minor slots of each rune tree.
var PerkSlotNames = map[string][3]string{
	"Domination":  {"Malice", "Tracking", "Hunter"},
	"Precision":   {"Heroism", "Legend", "Combat"},
	"Sorcery":     {"Artifact", "Excellence", "Power"},
	"Resolve":     {"Strength", "Resistance", "Vitality"},
	"Inspiration": {"Contraption", "Tomorrow", "Beyond"},
}

// Perks is one rune tree.
type Perks struct {
	Name     string     `json:"name"`
	Patch    string     `json:"patch"`
	Icon     string     `json:"icon"`
	Keystone []Rune     `json:"keystone"`
	Slots    []PerkSlot `json:"slots"`
}

func (p *Perks) NaturalKey() string   { return p.Name }
func (p *Perks) PatchVersion() string { return p.Patch }
func (p *Perks) DisplayName() string  { return p.Name }

func (p *Perks) Validate() error {
	var bad []string
	if p.Name == "" {
		bad = append(bad, "name")
	}
	if p.Patch == "" {
		bad = append(bad, "patch")
	}
	if len(p.Keystone) == 0 {
		bad = append(bad, "keystone")
	}
	if len(p.Slots) != 3 {
		bad = append(bad, "slots")
	}
	if len(bad) > 0 {
		return &ValidationError{Kind: KindPerks, Key: p.Name, Fields: bad}
	}
	return nil
}

type PerkSlot struct {
	Name  string `json:"name"`
	Runes []Rune `json:"runes"`
}

type Rune struct {
	Name             string `json:"name"`
	Icon             string `json:"icon"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
}
