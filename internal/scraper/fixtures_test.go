package scraper_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dom/riot-collector/internal/config"
	"github.com/dom/riot-collector/internal/scraper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const profilePage = `<html><body>
<table class="article-table">
<tr><th>Parameter</th><th>Value</th></tr>
<tr><td>title</td><td>the Unbreakable</td></tr>
<tr><td>role</td><td>Fighter, Tank</td></tr>
<tr><td>be</td><td>4800</td></tr>
<tr><td>date</td><td>2009-02-21</td></tr>
<tr><td>patch</td><td>4.10</td></tr>
<tr><th colspan="3">Stats</th></tr>
<tr><td>missile_speed</td><td>0</td><td></td></tr>
<tr><td>attack_delay_offset</td><td> </td><td></td></tr>
<tr><th colspan="3">Special Stats</th></tr>
<tr><td>aram_dmg_dealt</td><td>1.05</td><td></td></tr>
<tr><td>urf_healing</td><td></td><td></td></tr>
</table>
</body></html>`

const biographyPage = `<html><body>
<h2><span class="mw-headline" id="Biography">Biography</span></h2>
<p>First   paragraph
 text.</p>
<div>ignored</div>
<p>Second.</p>
<h2><span class="mw-headline" id="Relations">Relations</span></h2>
<p>Not part of the biography.</p>
</body></html>`

const strategyPage = `<html><body>
<h2><span class="mw-headline" id="Recommended_Items">Recommended Items</span></h2>
<table>
<tr><th>Summoner's Rift</th></tr>
<tr><td>Starting</td><td><span data-game="lol" data-item="Doran's Blade">1</span><span data-game="lol" data-item="Health Potion"></span></td></tr>
</table>
<h2><span class="mw-headline" id="Tips">Tips</span></h2>
<dl><dt>Playing As Garen</dt></dl>
<ul><li>Use Q to  break slows.</li><li>Spin.</li></ul>
<dl><dt>Playing Against Garen</dt></dl>
<ul><li>Kite him.</li></ul>
<h2><span class="mw-headline" id="Tricks">Tricks</span></h2>
<p>Animation cancels.</p>
<dl><dt>Flash timing</dt></dl>
<ul><li>Judgment<ul><li>Cast during E.</li><li>Flash after.</li></ul></li><li>Simple trick</li></ul>
<h2><span class="mw-headline" id="Playstyle">Playstyle</span></h2>
<p>Garen is a juggernaut.</p>
<dl><dt>Perseverance</dt></dl>
<ul><li>Regenerates health.</li></ul>
<h2><span class="mw-headline" id="Runes">Runes</span></h2>
<p>Conqueror is standard.</p>
<ul><li>Precision<ul><li>Conqueror</li></ul></li><li>Paths<ul><li>Resolve<ul><li>Second Wind</li><li>Unflinching</li></ul></li></ul></li></ul>
<h2><span class="mw-headline" id="Items">Items</span></h2>
<p>Build armor.</p>
<ul><li>Stridebreaker<ul><li>Against ranged.</li></ul></li><li>Dead Man's Plate</li></ul>
<h2><span class="mw-headline" id="Trivia">Trivia</span></h2>
<p>Unrelated.</p>
</body></html>`

const missingArticlePage = `<html><body>
<div class="noarticletext mw-content-ltr">There is currently no text in this page.</div>
</body></html>`

const abilityPage = `<html><body>
<div class="ability-info-container">
 <div>
  <section data-item-name="champion-ability-params">
   <div class="pi-item pi-data pi-item-spacing pi-border-color"><h3>Cooldown:</h3><div>9 / 8 / 7 / 6 / 5</div></div>
   <div class="pi-item pi-data pi-item-spacing pi-border-color"><h3>Target Range:</h3><div>300 − 600 <span data-bot_values="300;400;500;600;700">x</span></div></div>
   <div class="pi-item pi-data pi-item-spacing pi-border-color"><h3>Cost:</h3><div>No Cost</div></div>
  </section>
 </div>
 <div>
  <dl><dt>Physical Damage:</dt><dd><span data-bot_values="30;60;90;120;150">30 / 60 / 90 / 120 / 150</span> (+ 50% AD)</dd></dl>
  <dl><dt>Slow Duration:</dt><dd>1 / 1.5 / 2 seconds</dd></dl>
  <p>Garen  spins.</p>
 </div>
</div>
</body></html>`

const skinModule = `-- <pre>
return {
    ["Ashe"] = {
        id = 22,
        skins = {
            ["Original"] = {
                id = 0,
                cost = 450,
                release = "2009-02-21",
            },
            ["Program"] = {
                id = 9,
                cost = 1350,
                release = "2016-05-26",
                splashartist = {"Chris Campbell", "Jason Chan"},
                lore = "A test build.",
                voiceactor = nil,
            },
        },
    },
}
-- </pre>`

const patchNotesPage = `<html><body>
<div id="patch-notes-container">
<header class="header-primary"><h2>Champions</h2></header>
<div class="content-border">
  <h3 class="change-title">Garen</h3>
  <p class="summary">Q buffs.</p>
  <blockquote class="blockquote context">Garen was weak.</blockquote>
  <h4 class="change-detail-title">Base Stats</h4>
  <div class="attribute-change">Armor: 36 ⇒ 38</div>
  <hr class="divider">
  <h4 class="change-detail-title ability-title">Q - Decisive Strike</h4>
  <ul><li>Cooldown: 8 ⇒ 7</li></ul>
  <h4 class="change-detail-title ability-title">Passive</h4>
  <div class="attribute-change">Regen: 1% ⇒ 2%</div>
  <hr class="divider">
</div>
<header class="header-primary"><h2>Items</h2></header>
<div class="content-border">
  <h3>Sunfire Aegis</h3>
  <ul><li>Cost: 2700 ⇒ 2800</li></ul>
</div>
<div class="content-border"><p></p></div>
<header class="header-primary"><h2>Runes</h2></header>
<div class="content-border">
  <h4 class="change-detail-title ability-title">Conqueror</h4>
  <div class="attribute-change">Stacks: 12 ⇒ 10</div>
</div>
<header class="header-primary"><h2>Bugfixes</h2></header>
<div class="content-border"><h3>Nothing</h3></div>
</div>
</body></html>`

func parseDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func testHTTPConfig() config.HTTPConfig {
	return config.HTTPConfig{
		Timeout:       5 * time.Second,
		RatePerSecond: 1000,
		Burst:         100,
		MaxRetries:    2,
		RetryWait:     time.Millisecond,
		RetryMaxWait:  5 * time.Millisecond,
		UserAgent:     "riot-collector-test",
	}
}

// upstream serves fixed bodies by path and counts requests per path.
type upstream struct {
	pages map[string]string
	hits  map[string]*atomic.Int32
}

func newUpstream(t *testing.T, pages map[string]string) (*upstream, *httptest.Server) {
	t.Helper()
	u := &upstream{pages: pages, hits: map[string]*atomic.Int32{}}
	for path := range pages {
		u.hits[path] = &atomic.Int32{}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := u.pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		u.hits[r.URL.Path].Add(1)
		if strings.HasSuffix(r.URL.Path, ".json") {
			w.Header().Set("Content-Type", "application/json")
		} else {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return u, srv
}

func newTestScraper(t *testing.T, baseURL string) *scraper.Scraper {
	t.Helper()
	logger := zap.NewNop()
	urls := scraper.NewEndpoints(config.Sources{
		Wiki:       baseURL,
		DDragon:    baseURL,
		CDragon:    baseURL,
		PatchNotes: baseURL + "/news",
	})
	return scraper.New(scraper.NewClient(testHTTPConfig(), logger), urls, logger)
}

func scraperSources(wiki, ddragon, cdragon, patchNotes string) config.Sources {
	return config.Sources{Wiki: wiki, DDragon: ddragon, CDragon: cdragon, PatchNotes: patchNotes}
}
