// Package glossary attaches educational references to generated text by matching ecosystem terms.
package glossary

import (
	"fmt"
	"html"
	"regexp"
	"slices"
	"strings"

	"github.com/myrjola/avalanchemystery/internal/models"
	"golang.org/x/text/cases"
)

// Entry is a glossary term identified by a stable key such as "liquidity_pool".
type Entry struct {
	Key  string
	Link models.EducationalLink
}

// Glossary is immutable after construction and safe for concurrent use.
type Glossary struct {
	entries []Entry
	// needles holds the case folded search terms per entry, index aligned with entries.
	needles [][]string
}

// Default returns the built-in ecosystem glossary.
func Default() *Glossary {
	return New(defaultEntries)
}

// New builds a glossary from entries. Iteration order of entries is the order of attached links.
func New(entries []Entry) *Glossary {
	fold := cases.Fold()
	g := &Glossary{
		entries: slices.Clone(entries),
		needles: make([][]string, len(entries)),
	}
	for i, e := range entries {
		g.needles[i] = searchTerms(fold, e)
	}
	return g
}

// searchTerms lists the folded term, the key with spaces and the key without separators. Terms with a parenthesised
// expansion such as "MEV (Maximum Extractable Value)" also match on their short form.
func searchTerms(fold cases.Caser, e Entry) []string {
	term := fold.String(e.Link.Term)
	terms := []string{
		term,
		strings.ReplaceAll(e.Key, "_", " "),
		strings.ReplaceAll(e.Key, "_", ""),
	}
	if short, _, found := strings.Cut(term, " ("); found && short != "" {
		terms = append(terms, short)
	}
	return slices.Compact(terms)
}

// Entries returns a copy of the glossary entries.
func (g *Glossary) Entries() []Entry {
	return slices.Clone(g.entries)
}

// Lookup finds an entry by key.
func (g *Glossary) Lookup(key string) (models.EducationalLink, bool) {
	for _, e := range g.entries {
		if e.Key == key {
			return e.Link, true
		}
	}
	return models.EducationalLink{}, false
}

// Annotate returns every entry whose term or key occurs in any of texts, ignoring case. The result is in glossary
// order and never nil, so it serialises as an empty list.
func (g *Glossary) Annotate(texts ...string) []models.EducationalLink {
	haystack := cases.Fold().String(strings.Join(texts, " "))
	found := []models.EducationalLink{}
	for i, e := range g.entries {
		for _, needle := range g.needles[i] {
			if strings.Contains(haystack, needle) {
				found = append(found, e.Link)
				break
			}
		}
	}
	return found
}

// AnnotateCase replaces the links on every suspect and clue of c. Running it twice gives the same result.
func (g *Glossary) AnnotateCase(c *models.MysteryCase) {
	for i := range c.Suspects {
		s := &c.Suspects[i]
		s.EducationalLinks = g.Annotate(s.Background, s.PossibleMotive, s.AvaxConnection)
	}
	for i := range c.Clues {
		cl := &c.Clues[i]
		cl.EducationalLinks = g.Annotate(cl.Description, cl.Concept)
	}
}

// FormatMarkdown turns occurrences of linked terms in text into inline markdown help links.
func FormatMarkdown(text string, links []models.EducationalLink) string {
	return replaceTerms(text, links, func(link models.EducationalLink) string {
		return fmt.Sprintf("%s [?](%s %q)", link.Term, link.URL, link.BriefExplanation)
	}, func(s string) string { return s })
}

// FormatHTML escapes text and turns occurrences of linked terms into anchors carrying the brief explanation as title.
func FormatHTML(text string, links []models.EducationalLink) string {
	return replaceTerms(text, links, func(link models.EducationalLink) string {
		return fmt.Sprintf(`<a class="edu-link" href="%s" title="%s">%s</a>`,
			html.EscapeString(link.URL), html.EscapeString(link.BriefExplanation), html.EscapeString(link.Term))
	}, html.EscapeString)
}

// replaceTerms rewrites text in a single pass so that replacement output is never matched again.
func replaceTerms(
	text string,
	links []models.EducationalLink,
	render func(models.EducationalLink) string,
	escape func(string) string,
) string {
	if len(links) == 0 {
		return escape(text)
	}

	fold := cases.Fold()
	byTerm := make(map[string]models.EducationalLink, len(links))
	patterns := make([]string, 0, len(links))
	for _, l := range links {
		folded := fold.String(l.Term)
		if _, ok := byTerm[folded]; ok || folded == "" {
			continue
		}
		byTerm[folded] = l
		patterns = append(patterns, regexp.QuoteMeta(l.Term))
	}
	// Longer terms first so "Validator Staking" wins over "Staking".
	slices.SortStableFunc(patterns, func(a, b string) int { return len(b) - len(a) })
	re := regexp.MustCompile("(?i)" + strings.Join(patterns, "|"))

	var (
		out  strings.Builder
		last int
	)
	for _, loc := range re.FindAllStringIndex(text, -1) {
		out.WriteString(escape(text[last:loc[0]]))
		match := text[loc[0]:loc[1]]
		if link, ok := byTerm[fold.String(match)]; ok {
			out.WriteString(render(link))
		} else {
			out.WriteString(escape(match))
		}
		last = loc[1]
	}
	out.WriteString(escape(text[last:]))
	return out.String()
}
