package scraper

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/dom/riot-collector/internal/config"
)

// Version identifies one release. Patch is the major.minor pair used for
// Community Dragon and patch notes; Data is the full Data Dragon version.
type Version struct {
	Patch string
	Data  string
}

// ParseVersion accepts either a full Data Dragon version ("14.1.1") or a
// bare patch ("14.1").
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	patch := parts[0] + "." + parts[1]
	data := patch + ".1"
	if len(parts) > 2 {
		data = strings.Join(parts, ".")
	}
	return Version{Patch: patch, Data: data}, nil
}

// Dashed renders the patch as it appears in patch-notes URLs.
func (v Version) Dashed() string {
	return strings.ReplaceAll(v.Patch, ".", "-")
}

func (v Version) String() string { return v.Patch }

const cdragonGameData = "plugins/rcp-be-lol-game-data/global/default"

// Endpoints builds every upstream URL.
type Endpoints struct {
	wiki       string
	ddragon    string
	cdragon    string
	patchNotes string
}

func NewEndpoints(src config.Sources) Endpoints {
	trim := func(s string) string { return strings.TrimRight(s, "/") }
	return Endpoints{
		wiki:       trim(src.Wiki),
		ddragon:    trim(src.DDragon),
		cdragon:    trim(src.CDragon),
		patchNotes: trim(src.PatchNotes),
	}
}

func wikiTitle(name string) string {
	return url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

func (e Endpoints) wikiPage(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = wikiTitle(s)
	}
	return e.wiki + "/wiki/" + strings.Join(escaped, "/")
}

func (e Endpoints) ProfileURL(champion string) string {
	return e.wikiPage("Template:Data_" + champion)
}

func (e Endpoints) AbilityURL(champion, ability string) string {
	return e.wikiPage("Template:Data_"+champion, ability)
}

func (e Endpoints) StrategyURL(champion string) string {
	return e.wikiPage(champion, "Strategy")
}

func (e Endpoints) LegacyStrategyURL(champion string) string {
	return e.wikiPage(champion, "LoL", "Strategy")
}

func (e Endpoints) BiographyURL(title string) string {
	return e.wikiPage(title)
}

func (e Endpoints) SkinCatalogURL() string {
	return e.wikiPage("Module:SkinData", "data")
}

func (e Endpoints) VersionsURL() string {
	return e.ddragon + "/api/versions.json"
}

func (e Endpoints) ddragonData(v Version, file string) string {
	return fmt.Sprintf("%s/cdn/%s/data/en_US/%s", e.ddragon, v.Data, file)
}

func (e Endpoints) RosterURL(v Version) string { return e.ddragonData(v, "championFull.json") }
func (e Endpoints) RunesURL(v Version) string  { return e.ddragonData(v, "runesReforged.json") }
func (e Endpoints) ItemsURL(v Version) string  { return e.ddragonData(v, "item.json") }

func (e Endpoints) gameData(v Version, elem ...string) string {
	return e.cdragon + "/" + v.Patch + "/" + cdragonGameData + "/" + path.Join(elem...)
}

func (e Endpoints) ChampionDetailURL(v Version, id int) string {
	return e.gameData(v, "v1", "champions", fmt.Sprintf("%d.json", id))
}

func (e Endpoints) CDragonPerksURL(v Version) string   { return e.gameData(v, "v1", "perks.json") }
func (e Endpoints) CDragonItemsURL(v Version) string   { return e.gameData(v, "v1", "items.json") }
func (e Endpoints) SummonerSpellsURL(v Version) string { return e.gameData(v, "v1", "summoner-spells.json") }

func (e Endpoints) PatchNotesURL(v Version) string {
	return fmt.Sprintf("%s/patch-%s-notes/", e.patchNotes, v.Dashed())
}

func (e Endpoints) ChampionIcon(v Version, id int) string {
	return e.gameData(v, "v1", "champion-icons", fmt.Sprintf("%d.png", id))
}

func (e Endpoints) SkinSplash(v Version, champID int, assetPath string) string {
	return e.gameData(v, "v1", "champion-splashes", fmt.Sprint(champID), basename(assetPath))
}

func (e Endpoints) SkinTile(v Version, champID int, assetPath string) string {
	return e.gameData(v, "v1", "champion-tiles", fmt.Sprint(champID), basename(assetPath))
}

func (e Endpoints) SkinChroma(v Version, champID int, assetPath string) string {
	return e.gameData(v, "v1", "champion-chroma-images", fmt.Sprint(champID), basename(assetPath))
}

func (e Endpoints) StatModIcon(v Version, assetPath string) string {
	return e.gameData(v, "v1", "perk-images", "statmods", strings.ToLower(basename(assetPath)))
}

func (e Endpoints) SummonerSpellIcon(v Version, assetPath string) string {
	return e.gameData(v, "data", "spells", "icons2d", strings.ToLower(basename(assetPath)))
}

func (e Endpoints) perkStyles(v Version) string {
	return e.cdragon + "/" + v.Patch + "/game/assets/perks/styles"
}

// PerkTreeIcon maps a Data Dragon tree icon onto the Community Dragon
// styles directory.
func (e Endpoints) PerkTreeIcon(v Version, icon string) string {
	return e.perkStyles(v) + "/" + strings.ToLower(basename(icon))
}

// RuneIcon keeps the last three segments of a Data Dragon rune icon.
func (e Endpoints) RuneIcon(v Version, icon string) string {
	parts := strings.Split(icon, "/")
	if len(parts) > 3 {
		parts = parts[len(parts)-3:]
	}
	return e.perkStyles(v) + "/" + strings.ToLower(strings.Join(parts, "/"))
}

const gameDataAssets = "/lol-game-data/assets/"

// AssetURL maps a client asset path such as
// "/lol-game-data/assets/ASSETS/Items/Icons2D/1001.png" onto its Community
// Dragon URL. Empty paths map to "".
func (e Endpoints) AssetURL(v Version, assetPath string) string {
	if assetPath == "" {
		return ""
	}
	rest := assetPath
	if i := strings.Index(strings.ToLower(assetPath), gameDataAssets); i >= 0 {
		rest = assetPath[i+len(gameDataAssets):]
	}
	return e.gameData(v, strings.ToLower(strings.TrimLeft(rest, "/")))
}

func basename(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
