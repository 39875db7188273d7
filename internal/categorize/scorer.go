package categorize

import (
	"regexp"
	"strings"

	"github.com/Veraticus/defect-triage/internal/catalog"
	"github.com/Veraticus/defect-triage/internal/model"
)

// WholeWordBonus is added when a keyword also appears as a whole word.
const WholeWordBonus = 0.5

type keywordMatcher struct {
	keyword   string
	wholeWord *regexp.Regexp
}

type scoredCategory struct {
	name     string
	weight   float64
	keywords []keywordMatcher
}

// Scorer computes per-category keyword scores. It is safe for concurrent use.
type Scorer struct {
	categories []scoredCategory
}

// NewScorer builds a scorer for the catalog, compiling whole-word matchers
// once up front.
func NewScorer(c *catalog.Catalog) *Scorer {
	cats := c.Categories()
	s := &Scorer{categories: make([]scoredCategory, 0, len(cats))}

	for _, cat := range cats {
		sc := scoredCategory{
			name:     cat.Name,
			weight:   cat.Weight,
			keywords: make([]keywordMatcher, 0, len(cat.Keywords)),
		}
		for _, kw := range cat.Keywords {
			sc.keywords = append(sc.keywords, keywordMatcher{
				keyword:   kw,
				wholeWord: wholeWordPattern(kw),
			})
		}
		s.categories = append(s.categories, sc)
	}

	return s
}

// wholeWordPattern matches kw when it is bounded by non-alphanumeric runes or
// the ends of the text.
func wholeWordPattern(kw string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(kw) + `(?:$|[^\p{L}\p{N}])`)
}

// Score returns one entry per catalog category, in catalog order.
func (s *Scorer) Score(text string) model.ScoreTable {
	lower := strings.ToLower(text)
	table := make(model.ScoreTable, 0, len(s.categories))

	for _, cat := range s.categories {
		entry := model.CategoryScore{Category: cat.name}
		for _, kw := range cat.keywords {
			if !strings.Contains(lower, kw.keyword) {
				continue
			}
			entry.Score += cat.weight
			whole := kw.wholeWord.MatchString(lower)
			if whole {
				entry.Score += WholeWordBonus
			}
			entry.Matches = append(entry.Matches, model.KeywordMatch{Keyword: kw.keyword, WholeWord: whole})
		}
		table = append(table, entry)
	}

	return table
}

// firstHit returns the first category in catalog order with any keyword
// substring in text, scored as its weight.
func (s *Scorer) firstHit(lower string) (model.CategoryScore, bool) {
	for _, cat := range s.categories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw.keyword) {
				return model.CategoryScore{
					Category: cat.name,
					Score:    cat.weight,
					Matches:  []model.KeywordMatch{{Keyword: kw.keyword, WholeWord: kw.wholeWord.MatchString(lower)}},
				}, true
			}
		}
	}
	return model.CategoryScore{}, false
}
