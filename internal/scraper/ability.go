package scraper

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/normalize"
)

var (
	errNoAbilityBlock = errors.New("ability info block not found")
	errAbilityZones   = errors.New("ability info block has fewer than two zones")
)

// AbilityResult is the outcome of scraping one ability page. A failed
// ability carries Err and empty data; the champion is ingested without it.
type AbilityResult struct {
	Stats       map[string]domain.Value
	Explanation []string
	Err         error
}

func (r AbilityResult) OK() bool { return r.Err == nil }

func failedAbility(err error) AbilityResult {
	return AbilityResult{Stats: map[string]domain.Value{}, Err: err}
}

// ParseAbility reads the two zones of an ability info block: the declared
// parameter fields and the free-form list of labeled stats followed by
// explanation paragraphs.
func ParseAbility(doc *goquery.Document) AbilityResult {
	container := doc.Find("div.ability-info-container").First()
	if container.Length() == 0 {
		return failedAbility(errNoAbilityBlock)
	}
	zones := container.ChildrenFiltered("div")
	if zones.Length() < 2 {
		return failedAbility(errAbilityZones)
	}

	res := AbilityResult{Stats: map[string]domain.Value{}, Explanation: []string{}}

	params := zones.Eq(0).Find(`section[data-item-name="champion-ability-params"]`)
	params.Find("div.pi-item.pi-data.pi-item-spacing.pi-border-color").Each(func(_ int, field *goquery.Selection) {
		label := field.Find("h3").First()
		if label.Length() == 0 {
			return
		}
		value := field.Find("div").First()
		bot := value.Find("span[data-bot_values]").First().AttrOr("data-bot_values", "")
		res.Stats[normalize.StatKey(label.Text())] = normalize.ParseRanks(value.Text(), bot)
	})

	details := zones.Eq(1)
	details.Find("dl").Each(func(_ int, block *goquery.Selection) {
		label := block.Find("dt").First()
		value := block.Find("dd").First()
		if label.Length() == 0 || value.Length() == 0 {
			return
		}
		bot := value.Find("span[data-bot_values]").First().AttrOr("data-bot_values", "")
		res.Stats[normalize.StatKey(label.Text())] = normalize.ParseStatBlock(value.Text(), bot)
	})
	details.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := normalize.Clean(p.Text()); text != "" {
			res.Explanation = append(res.Explanation, text)
		}
	})
	return res
}

// abilityPageName is the wiki sub-page of an ability.
func abilityPageName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}
