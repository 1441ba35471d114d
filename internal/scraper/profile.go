package scraper

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/normalize"
)

var errNoDataTable = errors.New("data table not found")

// Profile is the key/value definition table of a champion data template.
type Profile map[string]domain.Value

// Text renders a scalar entry, "" when missing.
func (p Profile) Text(key string) string { return p[key].Text() }

// Value returns an entry, null when missing.
func (p Profile) Value(key string) domain.Value { return p[key] }

// List returns the string items of a list entry.
func (p Profile) List(key string) []string {
	var out []string
	for _, item := range p[key].Items() {
		if s := item.Text(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// rawProfileKeys hold version and date text that must not be typed as
// numbers ("4.10" is not 4.1).
var rawProfileKeys = map[string]bool{"patch": true, "date": true}

func rawText(raw string) domain.Value {
	if s := normalize.Clean(raw); s != "" {
		return domain.String(s)
	}
	return domain.Null()
}

// ParseProfile reads the definition table up to its first sub-table
// header. The role entry is split on commas.
func ParseProfile(doc *goquery.Document) (Profile, error) {
	table := doc.Find("table.article-table").First()
	if table.Length() == 0 {
		return nil, errNoDataTable
	}

	profile := Profile{}
	table.Find("tr").Slice(1, goquery.ToEnd).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if row.Find("th").Length() == 1 {
			return false
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}

		key := strings.TrimSpace(cells.Eq(0).Text())
		raw := cells.Eq(1).Text()
		switch {
		case key == "role":
			profile[key] = domain.Strings(normalize.SplitList(raw)...)
		case rawProfileKeys[key]:
			profile[key] = rawText(raw)
		default:
			profile[key] = normalize.ConvertString(raw)
		}
		return true
	})
	return profile, nil
}

var statTableHeaders = map[string]bool{"Stats": true, "Special Stats": true}

// ParseStats reads the rows that follow the "Stats" and "Special Stats"
// headers of the data table. Blank or non-numeric cells become null.
func ParseStats(doc *goquery.Document) (map[string]domain.Value, error) {
	table := doc.Find("table.article-table").First()
	if table.Length() == 0 {
		return nil, errNoDataTable
	}

	stats := map[string]domain.Value{}
	table.Find(`th[colspan="3"]`).Each(func(_ int, th *goquery.Selection) {
		if !statTableHeaders[strings.TrimSpace(th.Text())] {
			return
		}
		for row := th.Closest("tr").Next(); row.Length() > 0; row = row.Next() {
			cells := row.Find("td")
			if cells.Length() < 2 {
				break
			}
			value := normalize.ConvertString(cells.Eq(1).Text())
			if value.Kind() != domain.KindNumber {
				value = domain.Null()
			}
			stats[strings.TrimSpace(cells.Eq(0).Text())] = value
		}
	})
	return stats, nil
}

// ParseBiography collects the paragraphs between the Biography (or Lore)
// heading and the next top-level heading.
func ParseBiography(doc *goquery.Document) []string {
	paragraphs := []string{}
	anchor := doc.Find("span#Biography, span#Lore").First()
	if anchor.Length() == 0 {
		return paragraphs
	}

	anchor.Parent().NextUntil("h2").Filter("p").Each(func(_ int, p *goquery.Selection) {
		if text := normalize.Clean(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return paragraphs
}
