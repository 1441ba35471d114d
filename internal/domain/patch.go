package domain

import "time"

// Patch is the changelog of one release. Its presence marks the release
// as ingested.
type Patch struct {
	Version      string           `json:"version"`
	CreationDate time.Time        `json:"creation_date"`
	Champions    []ChampionChange `json:"champions,omitempty"`
	Items        []Change         `json:"items,omitempty"`
	Runes        []Change         `json:"runes,omitempty"`
}

func (p *Patch) NaturalKey() string   { return p.Version }
func (p *Patch) PatchVersion() string { return p.Version }
func (p *Patch) DisplayName() string  { return p.Version }

func (p *Patch) Validate() error {
	if p.Version == "" {
		return &ValidationError{Kind: KindPatch, Fields: []string{"version"}}
	}
	return nil
}

// PatchEntry is the common head of every changelog entry.
type PatchEntry struct {
	Name    string  `json:"name"`
	Summary *string `json:"summary"`
	Reason  *string `json:"reason"`
}

type ChampionChange struct {
	PatchEntry
	BaseStats []string      `json:"base_stats,omitempty"`
	Spells    []SpellChange `json:"spells"`
}

type SpellChange struct {
	Key     *string  `json:"key"`
	Name    string   `json:"name"`
	Changes []string `json:"changes"`
}

// Change is an item or rune changelog entry.
type Change struct {
	PatchEntry
	Changes []string `json:"changes"`
}
