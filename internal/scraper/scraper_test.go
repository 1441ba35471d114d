package scraper_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dom/riot-collector/internal/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_RetriesServiceUnavailable(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := scraper.NewClient(testHTTPConfig(), zap.NewNop())
	body, err := client.Get(context.Background(), srv.URL+"/page")

	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := scraper.NewClient(testHTTPConfig(), zap.NewNop())
	_, err := client.Get(context.Background(), srv.URL+"/missing")

	require.Error(t, err)
	assert.True(t, scraper.IsNotFound(err))
	var fe *scraper.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, srv.URL+"/missing", fe.URL)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testHTTPConfig()
	client := scraper.NewClient(cfg, zap.NewNop())
	_, err := client.Get(context.Background(), srv.URL)

	var fe *scraper.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusBadGateway, fe.StatusCode)
	assert.False(t, scraper.IsNotFound(err))
	assert.Equal(t, int32(cfg.MaxRetries+1), attempts.Load())
}

func TestClient_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := scraper.NewClient(testHTTPConfig(), zap.NewNop())
	_, err := client.Get(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    scraper.Version
		dashed  string
		wantErr bool
	}{
		{in: "14.1.1", want: scraper.Version{Patch: "14.1", Data: "14.1.1"}, dashed: "14-1"},
		{in: "13.24", want: scraper.Version{Patch: "13.24", Data: "13.24.1"}, dashed: "13-24"},
		{in: " 14.10.2 ", want: scraper.Version{Patch: "14.10", Data: "14.10.2"}, dashed: "14-10"},
		{in: "14", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := scraper.ParseVersion(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.dashed, got.Dashed())
		})
	}
}

func TestEndpoints(t *testing.T) {
	urls := scraper.NewEndpoints(scraperSources("https://wiki.test/", "https://ddragon.test", "https://cdragon.test", "https://news.test/patch"))
	v := scraper.Version{Patch: "14.1", Data: "14.1.1"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"profile", urls.ProfileURL("Dr. Mundo"), "https://wiki.test/wiki/Template:Data_Dr._Mundo"},
		{"ability", urls.AbilityURL("Garen", "Decisive_Strike"), "https://wiki.test/wiki/Template:Data_Garen/Decisive_Strike"},
		{"legacy strategy", urls.LegacyStrategyURL("Garen"), "https://wiki.test/wiki/Garen/LoL/Strategy"},
		{"roster", urls.RosterURL(v), "https://ddragon.test/cdn/14.1.1/data/en_US/championFull.json"},
		{"champion detail", urls.ChampionDetailURL(v, 86), "https://cdragon.test/14.1/plugins/rcp-be-lol-game-data/global/default/v1/champions/86.json"},
		{"patch notes", urls.PatchNotesURL(v), "https://news.test/patch/patch-14-1-notes/"},
		{
			"asset",
			urls.AssetURL(v, "/lol-game-data/assets/ASSETS/Items/Icons2D/1001_Class_T1_BootsofSpeed.png"),
			"https://cdragon.test/14.1/plugins/rcp-be-lol-game-data/global/default/assets/items/icons2d/1001_class_t1_bootsofspeed.png",
		},
		{"empty asset", urls.AssetURL(v, ""), ""},
		{
			"rune icon",
			urls.RuneIcon(v, "perk-images/Styles/Precision/Conqueror/Conqueror.png"),
			"https://cdragon.test/14.1/game/assets/perks/styles/precision/conqueror/conqueror.png",
		},
		{
			"stat mod icon",
			urls.StatModIcon(v, "/lol-game-data/assets/v1/perk-images/StatMods/StatModsArmorIcon.png"),
			"https://cdragon.test/14.1/plugins/rcp-be-lol-game-data/global/default/v1/perk-images/statmods/statmodsarmoricon.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestScraper_StrategyFallsBackToLegacyPage(t *testing.T) {
	up, srv := newUpstream(t, map[string]string{
		"/wiki/Garen/Strategy":     missingArticlePage,
		"/wiki/Garen/LoL/Strategy": strategyPage,
	})
	s := newTestScraper(t, srv.URL)

	got, err := s.Strategy(context.Background(), "Garen")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kite him."}, got.EnemyTips)
	assert.Equal(t, int32(1), up.hits["/wiki/Garen/Strategy"].Load())
	assert.Equal(t, int32(1), up.hits["/wiki/Garen/LoL/Strategy"].Load())
}

func TestScraper_StrategyMissingEverywhere(t *testing.T) {
	_, srv := newUpstream(t, map[string]string{})
	s := newTestScraper(t, srv.URL)

	got, err := s.Strategy(context.Background(), "Garen")
	require.NoError(t, err)
	assert.Nil(t, got.AllyTips)
	assert.Nil(t, got.Tricks)
}

func TestScraper_BiographyTriesEachPage(t *testing.T) {
	_, srv := newUpstream(t, map[string]string{
		"/wiki/Garen": biographyPage,
	})
	s := newTestScraper(t, srv.URL)

	got, err := s.Biography(context.Background(), "The Might of Demacia", "Garen")
	require.NoError(t, err)
	assert.Equal(t, []string{"First paragraph text.", "Second."}, got)

	none, err := s.Biography(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Equal(t, []string{}, none)
}

func TestScraper_ChampionData(t *testing.T) {
	_, srv := newUpstream(t, map[string]string{
		"/wiki/Template:Data_Garen": profilePage,
	})
	s := newTestScraper(t, srv.URL)

	profile, stats, err := s.ChampionData(context.Background(), "Garen")
	require.NoError(t, err)
	assert.Equal(t, []string{"Fighter", "Tank"}, profile.List("role"))
	assert.Equal(t, "the Unbreakable", profile.Text("title"))
	assert.Len(t, stats, 4)
}

func TestScraper_AbilityFailureIsReported(t *testing.T) {
	_, srv := newUpstream(t, map[string]string{
		"/wiki/Template:Data_Garen/Decisive_Strike": abilityPage,
	})
	s := newTestScraper(t, srv.URL)

	ok := s.Ability(context.Background(), "Garen", "Decisive Strike")
	require.True(t, ok.OK())
	assert.Len(t, ok.Stats, 5)

	failed := s.Ability(context.Background(), "Garen", "Judgment")
	assert.False(t, failed.OK())
	assert.True(t, scraper.IsNotFound(failed.Err))
	assert.Empty(t, failed.Stats)
}

func TestScraper_LatestVersion(t *testing.T) {
	_, srv := newUpstream(t, map[string]string{
		"/api/versions.json": `["14.2.1", "14.1.1", "13.24.1"]`,
	})
	s := newTestScraper(t, srv.URL)

	v, err := s.LatestVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scraper.Version{Patch: "14.2", Data: "14.2.1"}, v)
}

func TestScraper_PatchNotes(t *testing.T) {
	_, srv := newUpstream(t, map[string]string{
		"/news/patch-14-1-notes/": patchNotesPage,
	})
	s := newTestScraper(t, srv.URL)

	patch, err := s.PatchNotes(context.Background(), scraper.Version{Patch: "14.1", Data: "14.1.1"})
	require.NoError(t, err)
	assert.Equal(t, "14.1", patch.Version)
	require.Len(t, patch.Champions, 1)
	assert.Equal(t, "Garen", patch.Champions[0].Name)
}
