package postgres_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/repository/postgres"
	"github.com/dom/riot-collector/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChampionRepository_AddAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewChampionRepository(testDB.DB)
	ctx := context.Background()

	garen := testutil.NewChampionBuilder().WithID(86, "Garen").WithTitle("the Might of Demacia").Build()

	id, err := repo.Add(ctx, garen)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	exists, err := repo.Exists(ctx, "14.1", "86")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.Get(ctx, "14.1", "86")
	require.NoError(t, err)
	assert.Equal(t, garen, got)

	_, err = repo.Get(ctx, "14.2", "86")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	exists, err = repo.Exists(ctx, "14.2", "86")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestChampionRepository_AddConflict(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewChampionRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Add(ctx, testutil.NewChampionBuilder().WithID(86, "Garen").Build())
	require.NoError(t, err)

	tests := []struct {
		name    string
		champ   *domain.Champion
		wantErr error
		wantMsg string
	}{
		{
			name:    "same champion same patch",
			champ:   testutil.NewChampionBuilder().WithID(86, "Garen").Build(),
			wantErr: domain.ErrConflict,
			wantMsg: "Champion 86 with patch version 14.1 already exists.",
		},
		{
			name:  "same champion next patch",
			champ: testutil.NewChampionBuilder().WithID(86, "Garen").WithPatch("14.2").Build(),
		},
		{
			name:    "missing required fields",
			champ:   &domain.Champion{ChampID: 1, Patch: "14.1"},
			wantErr: domain.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Add(ctx, tt.champ)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}

	all, err := repo.ListByPatch(ctx, "14.1")
	require.NoError(t, err)
	assert.Len(t, all, 1, "exactly one Garen for 14.1")
}

func TestChampionRepository_ConcurrentAddsKeepOne(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewChampionRepository(testDB.DB)
	ctx := context.Background()

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Add(ctx, testutil.NewChampionBuilder().WithID(86, "Garen").Build())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	all, err := repo.ListByPatch(ctx, "14.1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestChampionRepository_Listing(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewChampionRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedChampions(t, repo, "14.1", "Zed", "Annie", "Garen")
	testutil.NewChampionBuilder().WithID(103, "Ahri").WithPatch("14.2").Create(t, repo)

	t.Run("summaries by name", func(t *testing.T) {
		summaries, err := repo.ListSummaries(ctx, "14.1")
		require.NoError(t, err)
		require.Len(t, summaries, 3)
		assert.Equal(t, []string{"Annie", "Garen", "Zed"}, []string{summaries[0].Name, summaries[1].Name, summaries[2].Name})
		assert.Equal(t, 2, summaries[0].ChampID)
		_, err = uuid.Parse(summaries[0].ID)
		assert.NoError(t, err)
	})

	t.Run("fields projection", func(t *testing.T) {
		docs, err := repo.ListFields(ctx, "14.1", []string{"name", "title", "no_such_field"})
		require.NoError(t, err)
		require.Len(t, docs, 3)
		testutil.AssertDocumentIDs(t, docs)
		for _, doc := range docs {
			assert.Len(t, doc, 3, "name, title and id")
			assert.Contains(t, doc, "name")
			assert.Contains(t, doc, "title")
		}

		var name string
		require.NoError(t, json.Unmarshal(docs[0]["name"], &name))
		assert.Equal(t, "Zed", name, "listed in insertion order")
	})

	t.Run("full documents", func(t *testing.T) {
		docs, err := repo.ListFields(ctx, "14.2", nil)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Contains(t, docs[0], "spells")
		assert.Contains(t, docs[0], "id")
		assert.JSONEq(t, "103", string(docs[0]["champ_id"]))
	})

	t.Run("unknown patch", func(t *testing.T) {
		docs, err := repo.ListFields(ctx, "1.0", nil)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestDocumentStores_PerKind(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	_, err := repos.Item.Add(ctx, testutil.NewItem(1001, "Boots", "14.1"))
	require.NoError(t, err)
	_, err = repos.Perks.Add(ctx, testutil.NewPerks("Precision", "14.1"))
	require.NoError(t, err)
	_, err = repos.Shard.Add(ctx, &domain.Shard{ID: 5008, Patch: "14.1", Name: "Adaptive Force"})
	require.NoError(t, err)
	_, err = repos.SummonerSpell.Add(ctx, &domain.SummonerSpell{ID: 4, Patch: "14.1", Name: "Flash", GameModes: []string{"CLASSIC"}})
	require.NoError(t, err)

	// Kinds live in separate tables: the same natural key in another kind
	// is not a conflict.
	_, err = repos.Shard.Add(ctx, &domain.Shard{ID: 1001, Patch: "14.1", Name: "Not Boots"})
	require.NoError(t, err)

	_, err = repos.Item.Add(ctx, testutil.NewItem(1001, "Boots", "14.1"))
	assert.EqualError(t, err, "Item 1001 with patch version 14.1 already exists.")
	_, err = repos.Perks.Add(ctx, testutil.NewPerks("Precision", "14.1"))
	assert.EqualError(t, err, "Perks Precision with patch version 14.1 already exists.")

	perks, err := repos.Perks.Get(ctx, "14.1", "Precision")
	require.NoError(t, err)
	assert.Equal(t, "Heroism", perks.Slots[0].Name)

	items, err := repos.Item.ListByPatch(ctx, "14.1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, testutil.NewItem(1001, "Boots", "14.1"), items[0])
}

func TestPatchRepository(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPatchRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	// Inserted out of release order.
	testutil.CreatePatch(t, repo, "14.2", base.Add(14*24*time.Hour))
	testutil.CreatePatch(t, repo, "14.1", base)
	testutil.CreatePatch(t, repo, "14.3", base.Add(28*24*time.Hour))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "14.3", latest.Version)
	assert.True(t, latest.CreationDate.Equal(base.Add(28*24*time.Hour)))

	got, err := repo.GetByVersion(ctx, "14.1")
	require.NoError(t, err)
	require.Len(t, got.Champions, 1)
	assert.Equal(t, "Garen", got.Champions[0].Name)

	patches, err := repo.GetByVersions(ctx, []string{"14.1", "9.9", "14.2"})
	require.NoError(t, err)
	require.Len(t, patches, 2)
	assert.Equal(t, "14.2", patches[0].Version)
	assert.Equal(t, "14.1", patches[1].Version)

	patches, err = repo.GetByVersions(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, patches)

	_, err = repo.Add(ctx, &domain.Patch{Version: "14.1", CreationDate: base})
	assert.EqualError(t, err, "Patch version 14.1 already exists.")
}
