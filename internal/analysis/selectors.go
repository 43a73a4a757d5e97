package analysis

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/sourcegen/internal/models"
)

// roleCandidates lists the selector candidates tried for one extraction
// role, ordered by specificity. Every candidate that matches the live page
// is recorded in that order; the first recorded one is the primary.
type roleCandidates struct {
	role       string
	candidates []string
}

var selectorCandidates = []roleCandidates{
	{
		role: models.RoleArticleLink,
		candidates: []string{
			"article h2 a",
			"h2.entry-title a",
			".post-title a",
			".headline a",
			"h3.title a",
			".article-card a",
			".story a",
		},
	},
	{
		role: models.RoleTitle,
		candidates: []string{
			"h1.entry-title",
			"article h1",
			"h1.article-title",
			"h1.headline",
			".post-title",
			"h1",
		},
	},
	{
		role: models.RoleContent,
		candidates: []string{
			".entry-content",
			".article-body",
			".post-content",
			".story-body",
			"article .content",
			"main article",
			"article",
		},
	},
	{
		role: models.RoleDate,
		candidates: []string{
			"time[datetime]",
			"meta[property='article:published_time']",
			".published",
			".post-date",
			".timestamp",
			".date",
		},
	},
	{
		role: models.RoleAuthor,
		candidates: []string{
			"meta[name='author']",
			"[rel='author']",
			".author-name",
			".byline",
			".author",
			".post-author",
		},
	},
}

// discoverSelectors records, per role, exactly the candidates matching at
// least one element, preserving candidate order. Roles with no match are
// omitted.
func discoverSelectors(doc *goquery.Document) map[string][]string {
	found := make(map[string][]string)
	for _, rc := range selectorCandidates {
		var matched []string
		for _, sel := range rc.candidates {
			if doc.Find(sel).Length() > 0 {
				matched = append(matched, sel)
			}
		}
		if len(matched) > 0 {
			found[rc.role] = matched
		}
	}
	return found
}
