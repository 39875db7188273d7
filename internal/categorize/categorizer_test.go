package categorize

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/defect-triage/internal/catalog"
	"github.com/Veraticus/defect-triage/internal/model"
)

func newTestCatalog(t *testing.T, cats []model.Category, rules []model.FallbackRule) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(cats, rules)
	require.NoError(t, err)
	return c
}

func TestCategorize_StandardCatalog(t *testing.T) {
	cz := New(catalog.Standard())

	tests := []struct {
		name   string
		text   string
		want   string
		method model.AssignmentMethod
		score  float64
	}{
		{
			name:   "password reset",
			text:   "User cannot reset password, login fails",
			want:   "Authentication",
			method: model.MethodKeyword,
			score:  3.0,
		},
		{
			name:   "sync with mcc",
			text:   "sync issue with MCC",
			want:   "MCC master data sync",
			method: model.MethodKeyword,
			score:  3.0,
		},
		{
			name:   "notification",
			text:   "email alert missing",
			want:   "Notifications",
			method: model.MethodKeyword,
			score:  4.0,
		},
		{
			name:   "gibberish",
			text:   "random gibberish xyz123",
			want:   model.Uncategorized,
			method: model.MethodNone,
		},
		{
			name:   "empty",
			text:   "",
			want:   model.Uncategorized,
			method: model.MethodBlank,
		},
		{
			name:   "whitespace",
			text:   "   ",
			want:   model.Uncategorized,
			method: model.MethodBlank,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cz.Categorize(tt.text))

			a := cz.Assign(tt.text)
			assert.Equal(t, tt.want, a.Category)
			assert.Equal(t, tt.method, a.Method)
			assert.InDelta(t, tt.score, a.Score, 1e-9)
		})
	}
}

func TestScore_CreditsSubstringAndWholeWord(t *testing.T) {
	s := NewScorer(catalog.Standard())
	table := s.Score("User cannot reset password, login fails")

	auth, ok := table.Get("Authentication")
	require.True(t, ok)
	assert.InDelta(t, 3.0, auth.Score, 1e-9)
	assert.Equal(t, []model.KeywordMatch{
		{Keyword: "login", WholeWord: true},
		{Keyword: "password", WholeWord: true},
	}, auth.Matches)

	report, _ := table.Get("Report")
	assert.InDelta(t, 1.0, report.Score, 1e-9, "log is only a substring of login")

	errs, _ := table.Get("Error")
	assert.InDelta(t, 0.8, errs.Score, 1e-9, "fail is only a substring of fails")

	users, _ := table.Get("User Management")
	assert.InDelta(t, 1.5, users.Score, 1e-9)

	assert.Len(t, table, 15)
	assert.Equal(t, "Report", table[0].Category)
}

func TestScore_WholeWordBoundaries(t *testing.T) {
	c := newTestCatalog(t, []model.Category{{Name: "UI", Keywords: []string{"ui"}, Weight: 1}}, nil)
	s := NewScorer(c)

	tests := []struct {
		text string
		want float64
	}{
		{text: "ui", want: 1.5},
		{text: "the ui froze", want: 1.5},
		{text: "(ui)", want: 1.5},
		{text: "ui-kit", want: 1.5},
		{text: "build", want: 1.0},
		{text: "uis", want: 1.0},
		{text: "ui2", want: 1.0},
		{text: "nothing", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Score(tt.text)[0].Score, 1e-9)
		})
	}
}

func TestScore_MultiWordAndSpecialKeywords(t *testing.T) {
	s := NewScorer(catalog.Standard())

	ra, _ := s.Score("R&A review pending").Get("R&A Task")
	assert.InDelta(t, 3.0, ra.Score, 1e-9)

	auth, _ := s.Score("cannot sign in").Get("Authentication")
	// "sign in" is whole, "sign" is not a keyword of Authentication
	assert.InDelta(t, 1.5, auth.Score, 1e-9)
}

func TestCategorize_WholeWordBeatsEarlierSubstring(t *testing.T) {
	c := newTestCatalog(t, []model.Category{
		{Name: "Feline", Keywords: []string{"cat"}, Weight: 1},
		{Name: "Canine", Keywords: []string{"dog"}, Weight: 1},
	}, nil)

	assert.Equal(t, "Canine", New(c).Categorize("concatenate the dog"))
}

func TestCategorize_TieGoesToFirstCategory(t *testing.T) {
	c := newTestCatalog(t, []model.Category{
		{Name: "First", Keywords: []string{"shared"}, Weight: 1},
		{Name: "Second", Keywords: []string{"shared"}, Weight: 1},
	}, nil)

	assert.Equal(t, "First", New(c).Categorize("a shared thing"))
}

func TestCategorize_WeightsApply(t *testing.T) {
	c := newTestCatalog(t, []model.Category{
		{Name: "Light", Keywords: []string{"crash"}, Weight: 0.5},
		{Name: "Heavy", Keywords: []string{"crash"}, Weight: 2},
	}, nil)

	a := New(c).Assign("crash")
	assert.Equal(t, "Heavy", a.Category)
	assert.InDelta(t, 2.5, a.Score, 1e-9)
}

func TestCategorize_FallbackChainOrder(t *testing.T) {
	c := newTestCatalog(t,
		[]model.Category{{Name: "Other", Keywords: []string{"zzz"}, Weight: 1}},
		catalog.DefaultFallbacks(),
	)
	cz := New(c)

	tests := []struct {
		text string
		want string
	}{
		{text: "user forgot login", want: "Authentication"},
		{text: "Profile photo missing for account", want: "User Management"},
		{text: "dashboard widget", want: "UI/Dashboard"},
		{text: "no ALERT raised", want: "Notifications"},
		{text: "Synchronization stalled", want: "MCC master data sync"},
		{text: "reassigned twice", want: "Workflow"},
		{text: "profile file", want: "User Management"},
		{text: "filed under misc", want: "Document Management"},
		{text: "nothing relevant", want: model.Uncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			a := cz.Assign(tt.text)
			assert.Equal(t, tt.want, a.Category)
			if tt.want == model.Uncategorized {
				assert.Equal(t, model.MethodNone, a.Method)
			} else {
				assert.Equal(t, model.MethodFallback, a.Method)
				assert.Zero(t, a.Score)
			}
		})
	}
}

func TestCategorize_KeywordTakesPrecedenceOverFallback(t *testing.T) {
	c := newTestCatalog(t,
		[]model.Category{{Name: "Crash", Keywords: []string{"crash"}, Weight: 1}},
		catalog.DefaultFallbacks(),
	)

	assert.Equal(t, "Crash", New(c).Categorize("login crash"))
}

func TestCategorize_FirstMatchStrategy(t *testing.T) {
	cz := New(catalog.Standard(), WithStrategy(StrategyFirstMatch))
	assert.Equal(t, StrategyFirstMatch, cz.Strategy())

	a := cz.Assign("User cannot reset password, login fails")
	assert.Equal(t, "Report", a.Category, "log appears in login and Report is first")
	assert.InDelta(t, 1.0, a.Score, 1e-9)

	assert.Equal(t, "Notifications", cz.Categorize("email alert missing"))
	assert.Equal(t, model.Uncategorized, cz.Categorize("random gibberish xyz123"))
	assert.Equal(t, model.Uncategorized, cz.Categorize("\t"))
}

func TestExplain(t *testing.T) {
	cz := New(catalog.Standard())

	a, table := cz.Explain("sync issue with MCC")
	assert.Equal(t, "MCC master data sync", a.Category)
	require.Len(t, table, 15)
	assert.Equal(t, "MCC master data sync", table.Ranked()[0].Category)

	_, table = cz.Explain("  ")
	assert.Nil(t, table)
}

func TestCategorize_BlankInputs(t *testing.T) {
	cz := New(catalog.Standard())
	runes := []rune{' ', '\t', '\n', '\r', '\v', '\f', ' ', ' '}
	rng := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test data

	for i := 0; i < 200; i++ {
		var b strings.Builder
		n := rng.Intn(12)
		for j := 0; j < n; j++ {
			b.WriteRune(runes[rng.Intn(len(runes))])
		}
		a := cz.Assign(b.String())
		assert.Equal(t, model.Uncategorized, a.Category, "input %q", b.String())
		assert.Equal(t, model.MethodBlank, a.Method)
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	cz := New(catalog.Standard())
	inputs := []string{
		"User cannot reset password, login fails",
		"dashboard page slow to load",
		"export of the study report fails",
	}
	for _, in := range inputs {
		first := cz.Assign(in)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, cz.Assign(in))
		}
		assert.Equal(t, first, New(catalog.Standard()).Assign(in))
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{in: "", want: StrategyWeighted},
		{in: "weighted", want: StrategyWeighted},
		{in: "First-Match", want: StrategyFirstMatch},
		{in: "random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
