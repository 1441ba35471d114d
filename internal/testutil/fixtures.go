package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/repository"
)

// ChampionBuilder creates valid test champions
type ChampionBuilder struct {
	champID int
	name    string
	title   string
	patch   string
	roles   []string
}

// NewChampionBuilder creates a new ChampionBuilder with default values
func NewChampionBuilder() *ChampionBuilder {
	return &ChampionBuilder{
		champID: 266,
		name:    "Aatrox",
		title:   "the Darkin Blade",
		patch:   "14.1",
		roles:   []string{"Fighter"},
	}
}

// WithID sets the numeric champion id and name
func (b *ChampionBuilder) WithID(champID int, name string) *ChampionBuilder {
	b.champID = champID
	b.name = name
	return b
}

func (b *ChampionBuilder) WithTitle(title string) *ChampionBuilder {
	b.title = title
	return b
}

func (b *ChampionBuilder) WithPatch(patch string) *ChampionBuilder {
	b.patch = patch
	return b
}

func (b *ChampionBuilder) WithRoles(roles ...string) *ChampionBuilder {
	b.roles = roles
	return b
}

// Build returns the champion without storing it
func (b *ChampionBuilder) Build() *domain.Champion {
	icon := func(file string) string {
		return fmt.Sprintf("https://cdragon.test/%s/plugins/rcp-be-lol-game-data/global/default/%s", b.patch, file)
	}

	spells := make([]domain.Spell, 0, len(domain.SpellKeys))
	for _, key := range domain.SpellKeys {
		spells = append(spells, domain.Spell{
			Key:         key,
			Name:        b.name + " " + key,
			Description: "Deals damage.",
			Icon:        icon(fmt.Sprintf("%d_%s.png", b.champID, key)),
			MaxRank:     3,
			Cooldown:    []float64{10, 9, 8},
			Cost:        []float64{0, 0, 0},
			Range:       []float64{600, 600, 600},
			Stats:       map[string]domain.Value{"physical_damage": domain.Numbers(50, 80, 110)},
		})
	}

	return &domain.Champion{
		ChampID:     b.champID,
		Patch:       b.patch,
		Name:        b.name,
		Title:       b.title,
		Icon:        icon(fmt.Sprintf("v1/champion-icons/%d.png", b.champID)),
		Resource:    "Mana",
		ReleaseDate: "2013-06-13",
		Role:        b.roles,
		BlueEssence: domain.Number(4800),
		RP:          domain.Number(880),
		Tactical:    domain.Tactical{Damage: domain.Number(3), Difficulty: domain.Number(2)},
		Stats: domain.Stats{
			Health:  domain.StatValue{Flat: 650, PerLevel: 114},
			Special: map[string]domain.Value{"missile_speed": domain.Number(0)},
		},
		Spells: spells,
		Passive: domain.Passive{
			Name:        b.name + " Passive",
			Description: "Passive effect.",
			Icon:        icon(fmt.Sprintf("%d_P.png", b.champID)),
		},
		Skins: []domain.Skin{{
			ID:      b.champID * 1000,
			IsBase:  true,
			Name:    b.name,
			Splash:  icon(fmt.Sprintf("v1/champion-splashes/%d/%d.jpg", b.champID, b.champID*1000)),
			Icon:    icon(fmt.Sprintf("v1/champion-tiles/%d/%d.jpg", b.champID, b.champID*1000)),
			Chromas: []domain.Chroma{},
		}},
		Strategy:  domain.Strategy{AllyTips: []string{"Play safe."}},
		Biography: []string{b.name + " has a story."},
	}
}

// Create stores the champion and returns it
func (b *ChampionBuilder) Create(t *testing.T, repo repository.ChampionRepository) *domain.Champion {
	t.Helper()

	champion := b.Build()
	if _, err := repo.Add(context.Background(), champion); err != nil {
		t.Fatalf("failed to create champion: %v", err)
	}
	return champion
}

// SeedChampions stores one champion per name for patch, with ids 1..n
func SeedChampions(t *testing.T, repo repository.ChampionRepository, patch string, names ...string) []*domain.Champion {
	t.Helper()

	champions := make([]*domain.Champion, len(names))
	for i, name := range names {
		champions[i] = NewChampionBuilder().
			WithID(i+1, name).
			WithPatch(patch).
			Create(t, repo)
	}
	return champions
}

// NewItem returns a valid item
func NewItem(itemID int, name, patch string) *domain.Item {
	return &domain.Item{
		ItemID:    itemID,
		Patch:     patch,
		Name:      name,
		BuildFrom: []string{},
		BuildInto: []string{},
		Tags:      []string{"Boots"},
		Gold:      domain.Gold{Base: 300, Total: 300, Sell: 210, Purchasable: true},
	}
}

// NewPerks returns a valid rune tree
func NewPerks(name, patch string) *domain.Perks {
	r := func(n string) domain.Rune {
		return domain.Rune{Name: n, Icon: "https://ddragon.test/" + n + ".png"}
	}
	return &domain.Perks{
		Name:     name,
		Patch:    patch,
		Icon:     "https://ddragon.test/" + name + ".png",
		Keystone: []domain.Rune{r("Press the Attack")},
		Slots: []domain.PerkSlot{
			{Name: "Heroism", Runes: []domain.Rune{r("Absorb Life")}},
			{Name: "Legend", Runes: []domain.Rune{r("Legend: Alacrity")}},
			{Name: "Combat", Runes: []domain.Rune{r("Coup de Grace")}},
		},
	}
}

// CreatePatch stores a patch created at the given time
func CreatePatch(t *testing.T, repo repository.PatchRepository, version string, created time.Time) *domain.Patch {
	t.Helper()

	summary := "Buffed."
	patch := &domain.Patch{
		Version:      version,
		CreationDate: created.UTC(),
		Champions: []domain.ChampionChange{{
			PatchEntry: domain.PatchEntry{Name: "Garen", Summary: &summary},
		}},
	}
	if _, err := repo.Add(context.Background(), patch); err != nil {
		t.Fatalf("failed to create patch: %v", err)
	}
	return patch
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	switch b := body.(type) {
	case nil:
		bodyReader = bytes.NewBuffer(nil)
	case string:
		bodyReader = bytes.NewBufferString(b)
	default:
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
