package scraper

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dom/riot-collector/internal/domain"
	"github.com/titanous/json5"
)

var errNoSkinModule = errors.New("skin module source not found")

// luaRewrites turn the wiki's Lua data table into JSON. Order matters:
// later patterns rely on quoting normalized by earlier ones.
var luaRewrites = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`-- <pre>`), ""},
	{regexp.MustCompile(`return\s*`), ""},
	{regexp.MustCompile(`\["`), `"`},
	{regexp.MustCompile(`"]`), `"`},
	{regexp.MustCompile(`=`), ":"},
	{regexp.MustCompile(`\{"`), `["`},
	{regexp.MustCompile(`"}`), `"]`},
	{regexp.MustCompile(`\bnil\b`), "null"},
	{regexp.MustCompile(`,\s*([]}])`), "$1"},
	{regexp.MustCompile(`(?m),\s*--.*$`), ","},
	{regexp.MustCompile(`(?s)--\s</pre>.*$`), ""},
}

// LuaToJSON applies the rewrite sequence to a Lua table literal.
func LuaToJSON(code string) string {
	for _, r := range luaRewrites {
		code = r.pattern.ReplaceAllString(code, r.repl)
	}
	return strings.TrimSpace(code)
}

// SkinMeta is the commerce metadata of one skin in the wiki catalog.
type SkinMeta struct {
	Cost         domain.Value `json:"cost"`
	Release      domain.Value `json:"release"`
	VoiceActor   domain.Value `json:"voiceactor"`
	SplashArtist domain.Value `json:"splashartist"`
	Lore         domain.Value `json:"lore"`
}

type catalogChampion struct {
	Skins map[string]SkinMeta `json:"skins"`
}

// SkinCatalog maps a champion name to its skins keyed by skin name.
type SkinCatalog map[string]map[string]SkinMeta

// ParseSkinCatalog extracts and decodes the Lua module source.
func ParseSkinCatalog(doc *goquery.Document) (SkinCatalog, error) {
	pre := doc.Find(`pre.mw-code.mw-script[dir="ltr"]`).First()
	if pre.Length() == 0 {
		return nil, errNoSkinModule
	}
	return DecodeSkinCatalog(pre.Text())
}

// DecodeSkinCatalog rewrites the Lua source and decodes it. The rewrite
// leaves bare keys and stray commas behind, so it is read as JSON5 first.
func DecodeSkinCatalog(lua string) (SkinCatalog, error) {
	var loose any
	if err := json5.Unmarshal([]byte(LuaToJSON(lua)), &loose); err != nil {
		return nil, fmt.Errorf("decode skin module: %w", err)
	}
	strict, err := json.Marshal(loose)
	if err != nil {
		return nil, fmt.Errorf("re-encode skin module: %w", err)
	}

	var raw map[string]catalogChampion
	if err := json.Unmarshal(strict, &raw); err != nil {
		return nil, fmt.Errorf("decode skin module: %w", err)
	}

	catalog := make(SkinCatalog, len(raw))
	for name, champ := range raw {
		catalog[name] = champ.Skins
	}
	return catalog, nil
}

// MatchSkin finds the catalog entry whose key is contained in the skin
// name. When several keys match, the longest wins so that "Program" does
// not shadow "Program Ashe Prestige Edition".
func MatchSkin(skins map[string]SkinMeta, skinName string) (SkinMeta, bool) {
	keys := make([]string, 0, len(skins))
	for key := range skins {
		if key != "" && strings.Contains(skinName, key) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return SkinMeta{}, false
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return skins[keys[0]], true
}
