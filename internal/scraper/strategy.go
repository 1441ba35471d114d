package scraper

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/normalize"
)

// elementHandlers folds one sibling element into a section's running
// state, keyed by element name. The "*" entry handles any other element.
type elementHandlers map[string]func(*goquery.Selection)

// walkSection visits the siblings that follow the heading holding the
// anchor span, stopping at the next top-level heading. It reports whether
// the anchor exists.
func walkSection(doc *goquery.Document, anchorID string, handlers elementHandlers) bool {
	anchor := doc.Find("span#" + anchorID).First()
	if anchor.Length() == 0 {
		return false
	}

	anchor.Parent().NextUntil("h2").Each(func(_ int, s *goquery.Selection) {
		if h, ok := handlers[goquery.NodeName(s)]; ok {
			h(s)
		} else if h, ok := handlers["*"]; ok {
			h(s)
		}
	})
	return true
}

// IsMissingArticle reports whether doc is the wiki's placeholder for a page
// that does not exist.
func IsMissingArticle(doc *goquery.Document) bool {
	return doc.Find("div.noarticletext.mw-content-ltr").Length() > 0
}

// ParseStrategy extracts the optional guide sections of a strategy page.
func ParseStrategy(doc *goquery.Document) domain.Strategy {
	var s domain.Strategy
	s.RecommendedItems = parseRecommendedItems(doc)
	s.AllyTips, s.EnemyTips, s.TeamMateTips = parseTips(doc)
	s.Tricks = parseTricks(doc)
	s.Playstyle = parsePlaystyle(doc)
	s.Runes = parseRuneNotes(doc)
	s.Items = parseItemNotes(doc)
	return s
}

// Each table opens a group with its first row; the remaining rows are
// named builds.
func parseRecommendedItems(doc *goquery.Document) []domain.RecommendedItem {
	groups := []domain.RecommendedItem{}
	found := walkSection(doc, "Recommended_Items", elementHandlers{
		"*": func(sib *goquery.Selection) {
			sib.Find("tr").Each(func(i int, row *goquery.Selection) {
				if i == 0 {
					groups = append(groups, domain.RecommendedItem{
						Name:  normalize.Clean(row.Text()),
						Build: []domain.Build{},
					})
					return
				}
				cells := row.Find("td")
				if cells.Length() < 2 {
					return
				}
				build := domain.Build{Name: normalize.Clean(cells.Eq(0).Text()), Items: []domain.BuildItem{}}
				cells.Eq(1).Find(`span[data-game="lol"]`).Each(func(_ int, span *goquery.Selection) {
					build.Items = append(build.Items, domain.BuildItem{
						Name:   span.AttrOr("data-item", ""),
						Number: itemCount(span.Text()),
					})
				})
				last := &groups[len(groups)-1]
				last.Build = append(last.Build, build)
			})
		},
	})
	if !found {
		return nil
	}
	return groups
}

func itemCount(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

type tipAudience int

const (
	tipsUnset tipAudience = iota
	tipsAlly
	tipsEnemy
	tipsTeamMate
)

// classifyTips reads a tips sub-heading such as "Playing As Aatrox" or
// "Playing Against Aatrox".
func classifyTips(heading string) tipAudience {
	lower := strings.ToLower(heading)
	if strings.Contains(lower, "against") {
		return tipsEnemy
	}
	for _, word := range strings.Fields(lower) {
		if word == "as" {
			return tipsAlly
		}
	}
	return tipsTeamMate
}

func parseTips(doc *goquery.Document) (ally, enemy, teamMate []string) {
	audience := tipsUnset
	walkSection(doc, "Tips", elementHandlers{
		"dl": func(s *goquery.Selection) {
			audience = classifyTips(s.Text())
		},
		"ul": func(s *goquery.Selection) {
			tips := listTexts(s.Find("li"), true)
			switch audience {
			case tipsAlly:
				ally = tips
			case tipsEnemy:
				enemy = tips
			case tipsTeamMate:
				teamMate = tips
			}
		},
	})
	return ally, enemy, teamMate
}

// Tricks: a sub-heading or definition-list line opens a new titled trick,
// a paragraph is an untitled one and lists add entries to the latest trick.
func parseTricks(doc *goquery.Document) []domain.Trick {
	tricks := []domain.Trick{}

	current := func() *domain.Trick {
		if len(tricks) == 0 {
			tricks = append(tricks, domain.Trick{Value: []domain.TrickValue{}})
		}
		return &tricks[len(tricks)-1]
	}

	found := walkSection(doc, "Tricks", elementHandlers{
		"h3": func(s *goquery.Selection) {
			tricks = append(tricks, domain.Trick{Title: normalize.Clean(s.Text()), Value: []domain.TrickValue{}})
		},
		"p": func(s *goquery.Selection) {
			tricks = append(tricks, domain.Trick{Value: []domain.TrickValue{{Text: []string{normalize.Clean(s.Text())}}}})
		},
		"dl": func(s *goquery.Selection) {
			tricks = append(tricks, domain.Trick{Title: normalize.Clean(s.Text()), Value: []domain.TrickValue{}})
		},
		"ul": func(s *goquery.Selection) {
			t := current()
			s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				if nested := li.ChildrenFiltered("ul").First(); nested.Length() > 0 {
					t.Value = append(t.Value, domain.TrickValue{
						Title: normalize.Clean(textWithout(li, "ul", " ")),
						Text:  listTexts(nested.Find("li"), true),
					})
					return
				}
				t.Value = append(t.Value, domain.TrickValue{Title: normalize.Clean(li.Text())})
			})
		},
	})
	if !found {
		return nil
	}
	return tricks
}

func parsePlaystyle(doc *goquery.Document) []domain.Playstyle {
	entries := []domain.Playstyle{}
	found := walkSection(doc, "Playstyle", elementHandlers{
		"p": func(s *goquery.Selection) {
			entries = append(entries, domain.Playstyle{AbilityText: []string{strings.TrimSpace(s.Text())}})
		},
		"dl": func(s *goquery.Selection) {
			entries = append(entries, domain.Playstyle{AbilityName: strings.TrimSpace(s.Text()), AbilityText: []string{}})
		},
		"ul": func(s *goquery.Selection) {
			if len(entries) == 0 {
				entries = append(entries, domain.Playstyle{AbilityText: []string{}})
			}
			last := &entries[len(entries)-1]
			last.AbilityText = append(last.AbilityText, listTexts(s.Find("li"), false)...)
		},
	})
	if !found {
		return nil
	}
	return entries
}

// A rune suggestion names its perks; a nested list holds the keystones.
// A "Paths" entry nests one suggestion per path.
func parseRuneNotes(doc *goquery.Document) []domain.RuneNote {
	notes := []domain.RuneNote{}
	suggestion := func(li *goquery.Selection) domain.RuneNote {
		note := domain.RuneNote{Perks: strings.TrimSpace(textWithout(li, "ul", ""))}
		if nested := li.Find("ul").First(); nested.Length() > 0 {
			note.Keystone = listTexts(nested.Find("li"), false)
		}
		return note
	}

	found := walkSection(doc, "Runes", elementHandlers{
		"p": func(s *goquery.Selection) {
			notes = append(notes, domain.RuneNote{Text: normalize.Clean(s.Text())})
		},
		"ul": func(s *goquery.Selection) {
			s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				if !strings.Contains(li.Text(), "Paths") {
					notes = append(notes, suggestion(li))
					return
				}
				li.Find("ul").First().ChildrenFiltered("li").Each(func(_ int, path *goquery.Selection) {
					notes = append(notes, suggestion(path))
				})
			})
		},
	})
	if !found {
		return nil
	}
	return notes
}

func parseItemNotes(doc *goquery.Document) []string {
	notes := []string{}
	found := walkSection(doc, "Items", elementHandlers{
		"p": func(s *goquery.Selection) {
			notes = append(notes, strings.TrimSpace(s.Text()))
		},
		"ul": func(s *goquery.Selection) {
			s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				if nested := li.Find("ul").First(); nested.Length() > 0 {
					notes = append(notes, listTexts(nested.Find("li"), false)...)
				}
				notes = append(notes, strings.TrimSpace(textWithout(li, "ul", "")))
			})
		},
	})
	if !found {
		return nil
	}
	return notes
}

// listTexts returns the trimmed text of every item, collapsing whitespace
// when clean is set.
func listTexts(items *goquery.Selection, clean bool) []string {
	out := make([]string, 0, items.Length())
	items.Each(func(_ int, li *goquery.Selection) {
		if clean {
			out = append(out, normalize.Clean(li.Text()))
		} else {
			out = append(out, strings.TrimSpace(li.Text()))
		}
	})
	return out
}

// textWithout returns the text of s's children, skipping children named
// skip, joined by sep.
func textWithout(s *goquery.Selection, skip, sep string) string {
	var parts []string
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		if goquery.NodeName(child) == skip {
			return
		}
		if t := child.Text(); sep == "" || strings.TrimSpace(t) != "" {
			if sep != "" {
				t = strings.TrimSpace(t)
			}
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, sep)
}
