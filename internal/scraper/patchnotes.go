package scraper

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dom/riot-collector/internal/domain"
)

var errNoPatchNotes = errors.New("patch notes container not found")

// subjectSelectors are tried in order to name a change block.
var subjectSelectors = []string{"h3", "h4.change-detail-title.ability-title", "p"}

// ParsePatchNotes reads the champions, items and runes sections of a
// patch-notes page. CreationDate is left for the caller to stamp.
func ParsePatchNotes(doc *goquery.Document, version string) (*domain.Patch, error) {
	container := doc.Find("div#patch-notes-container").First()
	if container.Length() == 0 {
		return nil, errNoPatchNotes
	}

	patch := &domain.Patch{Version: version}
	container.Find("header.header-primary").Each(func(_ int, header *goquery.Selection) {
		section := strings.ToLower(strings.TrimSpace(header.Text()))
		switch section {
		case "champions":
			patch.Champions = []domain.ChampionChange{}
		case "items":
			patch.Items = []domain.Change{}
		case "runes":
			patch.Runes = []domain.Change{}
		default:
			return
		}

		for sib := header.Next(); sib.Length() > 0; sib = sib.Next() {
			if sib.Is("header.header-primary") {
				break
			}
			if !sib.Is("div.content-border") {
				continue
			}
			entry, ok := parseEntry(sib)
			if !ok {
				continue
			}

			switch section {
			case "champions":
				patch.Champions = append(patch.Champions, domain.ChampionChange{
					PatchEntry: entry,
					BaseStats:  parseBaseStats(sib),
					Spells:     parseSpellChanges(sib),
				})
			case "items":
				patch.Items = append(patch.Items, domain.Change{PatchEntry: entry, Changes: flatChanges(sib)})
			case "runes":
				patch.Runes = append(patch.Runes, domain.Change{PatchEntry: entry, Changes: flatChanges(sib)})
			}
		}
	})
	return patch, nil
}

func parseEntry(block *goquery.Selection) (domain.PatchEntry, bool) {
	var entry domain.PatchEntry
	for _, sel := range subjectSelectors {
		if name := strings.TrimSpace(block.Find(sel).First().Text()); name != "" {
			entry.Name = name
			break
		}
	}
	if entry.Name == "" {
		return entry, false
	}
	entry.Summary = optionalText(block.Find("p.summary"))
	entry.Reason = optionalText(block.Find("blockquote.blockquote.context"))
	return entry, true
}

func optionalText(s *goquery.Selection) *string {
	if s.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(s.First().Text())
	return &text
}

func isDivider(s *goquery.Selection) bool     { return s.Is("hr.divider") }
func isAttrChange(s *goquery.Selection) bool  { return s.Is("div.attribute-change") }
func trimmedText(s *goquery.Selection) string { return strings.TrimSpace(s.Text()) }

// changesAfter walks the siblings of a title. A list ends the walk with its
// items; otherwise attribute-change rows are collected up to a divider.
func changesAfter(title *goquery.Selection) []string {
	changes := []string{}
	for sib := title.Next(); sib.Length() > 0; sib = sib.Next() {
		switch {
		case sib.Is("ul"):
			return listTexts(sib.Find("li"), false)
		case isAttrChange(sib):
			changes = append(changes, trimmedText(sib))
		case isDivider(sib), sib.Is("h4.change-detail-title"):
			return changes
		}
	}
	return changes
}

func parseBaseStats(block *goquery.Selection) []string {
	var stats []string
	block.Find("h4.change-detail-title").EachWithBreak(func(_ int, h4 *goquery.Selection) bool {
		if trimmedText(h4) != "Base Stats" {
			return true
		}
		stats = changesAfter(h4)
		return false
	})
	return stats
}

// parseSpellChanges reads ability titles of the form "Q - Name". A title
// without a key yields a nil key.
func parseSpellChanges(block *goquery.Selection) []domain.SpellChange {
	spells := []domain.SpellChange{}
	block.Find("h4.change-detail-title.ability-title").Each(func(_ int, h4 *goquery.Selection) {
		change := domain.SpellChange{Changes: changesAfter(h4)}
		title := trimmedText(h4)
		if key, name, ok := strings.Cut(title, "-"); ok {
			k := strings.TrimSpace(key)
			change.Key = &k
			change.Name = strings.TrimSpace(name)
		} else {
			change.Name = title
		}
		spells = append(spells, change)
	})
	return spells
}

// flatChanges returns the first list of a block, or its attribute-change
// rows when the block has no list.
func flatChanges(block *goquery.Selection) []string {
	if ul := block.Find("ul").First(); ul.Length() > 0 {
		return listTexts(ul.Find("li"), false)
	}
	changes := []string{}
	block.Find("div.attribute-change").Each(func(_ int, s *goquery.Selection) {
		changes = append(changes, trimmedText(s))
	})
	return changes
}
