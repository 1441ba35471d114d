package collector_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dom/riot-collector/internal/collector"
	"github.com/dom/riot-collector/internal/config"
	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/scraper"
	"github.com/dom/riot-collector/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var v141 = scraper.Version{Patch: "14.1", Data: "14.1.1"}

// fakeSource serves canned extractor output and records ability lookups.
type fakeSource struct {
	roster    scraper.Roster
	skinErr   error
	detailErr error
	shards    []*domain.Shard
	// detailSpells is how many spells the detail feed describes; zero means one.
	detailSpells int

	mu        sync.Mutex
	abilities []string
}

func newFakeSource() *fakeSource {
	spell := func(id, name string) scraper.RosterSpell {
		return scraper.RosterSpell{ID: id, Name: name, MaxRank: 1, Cooldown: []float64{10}, Cost: []float64{50}, Range: []float64{600}}
	}
	annie := scraper.RosterChampion{ID: "Annie", Key: "1", Name: "Annie", Spells: []scraper.RosterSpell{spell("AnnieQ", "Disintegrate")}}
	annie.Passive.Name = "Pyromania"
	garen := scraper.RosterChampion{ID: "Garen", Key: "86", Name: "Garen", Spells: []scraper.RosterSpell{spell("GarenQ", "Decisive Strike")}}
	garen.Passive.Name = "Perseverance"

	return &fakeSource{
		roster: scraper.Roster{Data: map[string]scraper.RosterChampion{"Annie": annie, "Garen": garen}},
		shards: []*domain.Shard{
			{ID: 5001, Patch: "14.1", Name: "Health Scaling"},
			{ID: 5002, Patch: "14.1", Name: "Armor"},
		},
	}
}

func (f *fakeSource) Endpoints() scraper.Endpoints {
	return scraper.NewEndpoints(config.Sources{CDragon: "https://cdragon.test"})
}

func (f *fakeSource) Roster(context.Context, scraper.Version) (scraper.Roster, error) {
	return f.roster, nil
}

func (f *fakeSource) ChampionData(_ context.Context, champion string) (scraper.Profile, map[string]domain.Value, error) {
	return scraper.Profile{"title": domain.String("title of " + champion)}, map[string]domain.Value{}, nil
}

func (f *fakeSource) Strategy(context.Context, string) (domain.Strategy, error) {
	return domain.Strategy{}, nil
}

func (f *fakeSource) Biography(_ context.Context, pages ...string) ([]string, error) {
	return []string{pages[0]}, nil
}

func (f *fakeSource) ChampionDetail(_ context.Context, _ scraper.Version, id int) (*scraper.ChampionDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	spells := make([]scraper.DetailAbility, max(f.detailSpells, 1))
	for i := range spells {
		spells[i] = scraper.DetailAbility{Description: "does things", AbilityIconPath: "/lol-game-data/assets/q.png"}
	}
	return &scraper.ChampionDetail{
		ID:      id,
		Spells:  spells,
		Skins:   []scraper.DetailSkin{{ID: id * 1000, IsBase: true, Name: "Default"}},
		Passive: scraper.DetailAbility{Description: "passive"},
	}, nil
}

func (f *fakeSource) Ability(_ context.Context, champion, ability string) scraper.AbilityResult {
	f.mu.Lock()
	f.abilities = append(f.abilities, champion+"/"+ability)
	f.mu.Unlock()
	if ability == "Disintegrate" {
		return scraper.AbilityResult{Stats: map[string]domain.Value{}, Err: errors.New("broken page")}
	}
	return scraper.AbilityResult{Stats: map[string]domain.Value{"damage": domain.Numbers(80)}, Explanation: []string{}}
}

func (f *fakeSource) SkinCatalog(context.Context) (scraper.SkinCatalog, error) {
	if f.skinErr != nil {
		return nil, f.skinErr
	}
	return scraper.SkinCatalog{"Garen": {"Default": {Cost: domain.Number(0)}}}, nil
}

func (f *fakeSource) PatchNotes(_ context.Context, v scraper.Version) (*domain.Patch, error) {
	return &domain.Patch{Version: v.Patch}, nil
}

func (f *fakeSource) Items(_ context.Context, v scraper.Version) ([]*domain.Item, error) {
	return []*domain.Item{{ItemID: 1001, Patch: v.Patch, Name: "Boots"}}, nil
}

func (f *fakeSource) Perks(context.Context, scraper.Version) ([]*domain.Perks, error) {
	return nil, errors.New("runes feed down")
}

func (f *fakeSource) SummonerSpells(_ context.Context, v scraper.Version) ([]*domain.SummonerSpell, error) {
	return []*domain.SummonerSpell{{ID: 4, Patch: v.Patch, Name: "Flash"}}, nil
}

func (f *fakeSource) Shards(context.Context, scraper.Version) ([]*domain.Shard, error) {
	return f.shards, nil
}

func newCollector(src collector.Source) (*collector.Collector, *testutil.Memory) {
	mem := testutil.NewMemory()
	return collector.New(src, mem.Repositories(), 4, zap.NewNop()), mem
}

func TestCollector_Champions(t *testing.T) {
	src := newFakeSource()
	c, mem := newCollector(src)
	ctx := context.Background()

	n, err := c.Champions(ctx, v141)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, mem.Champions.Len())

	garen, err := mem.Champions.Get(ctx, "14.1", "86")
	require.NoError(t, err)
	assert.Equal(t, []string{"title of Garen"}, garen.Biography, "biography is looked up by profile title first")
	assert.Equal(t, domain.Numbers(80), garen.Spells[0].Stats["damage"])
	assert.Equal(t, domain.Number(0), garen.Skins[0].Cost)

	annie, err := mem.Champions.Get(ctx, "14.1", "1")
	require.NoError(t, err)
	assert.Nil(t, annie.Spells[0].Stats, "a broken ability page does not fail the champion")
	assert.Equal(t, "Pyromania", annie.Passive.Name)

	assert.Equal(t, []string{
		"Annie/Disintegrate", "Annie/Pyromania",
		"Garen/Decisive Strike", "Garen/Perseverance",
	}, src.abilities, "champions are built in roster key order")
}

func TestCollector_ChampionsTwiceConflicts(t *testing.T) {
	c, mem := newCollector(newFakeSource())
	ctx := context.Background()

	_, err := c.Champions(ctx, v141)
	require.NoError(t, err)

	_, err = c.Champions(ctx, v141)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 2, mem.Champions.Len(), "exactly one record per champion and patch")
}

func TestCollector_SpellKeysFollowRosterOrder(t *testing.T) {
	src := newFakeSource()
	nidalee := src.roster.Data["Garen"]
	spell := func(id, name string) scraper.RosterSpell {
		return scraper.RosterSpell{ID: id, Name: name, MaxRank: 1, Cooldown: []float64{6}, Cost: []float64{50}, Range: []float64{1500}}
	}
	nidalee.Spells = []scraper.RosterSpell{
		spell("JavelinToss", "Javelin Toss"),
		spell("Bushwhack", "Bushwhack"),
		spell("PrimalSurge", "Primal Surge"),
		spell("AspectOfTheCougar", "Aspect of the Cougar"),
	}
	src.roster.Data["Garen"] = nidalee
	src.detailSpells = len(nidalee.Spells)
	c, mem := newCollector(src)
	ctx := context.Background()

	n, err := c.Champions(ctx, v141)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stored, err := mem.Champions.Get(ctx, "14.1", "86")
	require.NoError(t, err)
	keys := make([]string, 0, len(stored.Spells))
	for _, s := range stored.Spells {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"Q", "W", "E", "R"}, keys)
}

func TestCollector_SkinCatalogIsOptional(t *testing.T) {
	src := newFakeSource()
	src.skinErr = errors.New("module page moved")
	c, mem := newCollector(src)

	_, err := c.Champions(context.Background(), v141)
	require.NoError(t, err)

	garen, err := mem.Champions.Get(context.Background(), "14.1", "86")
	require.NoError(t, err)
	assert.True(t, garen.Skins[0].Cost.IsNull())
}

func TestCollector_ChampionFetchFailureAborts(t *testing.T) {
	src := newFakeSource()
	src.detailErr = &scraper.FetchError{URL: "https://cdragon.test/x", StatusCode: 502}
	c, mem := newCollector(src)

	_, err := c.Champions(context.Background(), v141)
	var fe *scraper.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, err.Error(), "champion Annie")
	assert.Zero(t, mem.Champions.Len())
}

func TestCollector_Run(t *testing.T) {
	c, mem := newCollector(newFakeSource())
	ctx := context.Background()

	tests := []struct {
		kind    domain.Kind
		want    int
		wantErr bool
	}{
		{kind: domain.KindPatch, want: 1},
		{kind: domain.KindShard, want: 2},
		{kind: domain.KindSummonerSpell, want: 1},
		{kind: domain.KindItem, want: 1},
		{kind: domain.KindPerks, wantErr: true},
		{kind: domain.Kind("skins"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			n, err := c.Run(ctx, tt.kind, v141)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}

	patch, err := mem.Patches.GetByVersion(ctx, "14.1")
	require.NoError(t, err)
	assert.False(t, patch.CreationDate.IsZero(), "patch notes are stamped on ingestion")
}

func TestCollector_PersistFailureSurfaces(t *testing.T) {
	src := newFakeSource()
	c, mem := newCollector(src)
	mem.Shards.AddErr = errors.New("connection reset")

	_, err := c.Shards(context.Background(), v141)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestCollector_InvalidRecordRejected(t *testing.T) {
	src := newFakeSource()
	src.shards = []*domain.Shard{{ID: 5001, Patch: "14.1"}}
	c, _ := newCollector(src)

	_, err := c.Shards(context.Background(), v141)
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestCollector_Preview(t *testing.T) {
	c, mem := newCollector(newFakeSource())

	champ, err := c.Preview(context.Background(), v141, "Garen")
	require.NoError(t, err)
	assert.Equal(t, 86, champ.ChampID)
	assert.Zero(t, mem.Champions.Len(), "preview does not store")

	_, err = c.Preview(context.Background(), v141, "Nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
