package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/defect-triage/internal/common"
	"github.com/Veraticus/defect-triage/internal/model"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		categories []model.Category
		fallbacks  []model.FallbackRule
		wantErr    string
	}{
		{
			name:       "valid",
			categories: []model.Category{{Name: "A", Keywords: []string{"x"}, Weight: 1}},
		},
		{
			name:    "empty",
			wantErr: "at least one category",
		},
		{
			name: "duplicate names",
			categories: []model.Category{
				{Name: "A", Keywords: []string{"x"}, Weight: 1},
				{Name: "A", Keywords: []string{"y"}, Weight: 1},
			},
			wantErr: "duplicate category",
		},
		{
			name:       "zero weight",
			categories: []model.Category{{Name: "A", Keywords: []string{"x"}}},
			wantErr:    "weight must be positive",
		},
		{
			name:       "no keywords",
			categories: []model.Category{{Name: "A", Weight: 1}},
			wantErr:    "at least one keyword",
		},
		{
			name:       "blank trigger",
			categories: []model.Category{{Name: "A", Keywords: []string{"x"}, Weight: 1}},
			fallbacks:  []model.FallbackRule{{Category: "B", Triggers: []string{" "}}},
			wantErr:    "blank trigger",
		},
		{
			name:       "fallback outside catalog is allowed",
			categories: []model.Category{{Name: "A", Keywords: []string{"x"}, Weight: 1}},
			fallbacks:  []model.FallbackRule{{Category: "B", Triggers: []string{"y"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.categories, tt.fallbacks)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidCatalog)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.categories), c.Len())
		})
	}
}

func TestNew_NormalizesAndIsolates(t *testing.T) {
	keywords := []string{"Login", "SIGN IN"}
	c, err := New(
		[]model.Category{{Name: "Auth", Keywords: keywords, Weight: 1}},
		[]model.FallbackRule{{Category: "Auth", Triggers: []string{"PASS"}}},
	)
	require.NoError(t, err)

	keywords[0] = "changed"
	assert.Equal(t, []string{"login", "sign in"}, c.Categories()[0].Keywords)
	assert.Equal(t, []string{"pass"}, c.Fallbacks()[0].Triggers)

	got := c.Categories()
	got[0].Keywords[0] = "mutated"
	assert.Equal(t, "login", c.Categories()[0].Keywords[0])
}

func TestStandardPreset(t *testing.T) {
	c := Standard()
	names := c.Names()
	require.Len(t, names, 15)
	assert.Equal(t, "Report", names[0])
	assert.Equal(t, "Integration", names[14])

	weights := map[string]float64{}
	for _, cat := range c.Categories() {
		weights[cat.Name] = cat.Weight
	}
	assert.InDelta(t, 0.8, weights["Error"], 1e-9)
	assert.InDelta(t, 0.9, weights["UI/Dashboard"], 1e-9)
	assert.InDelta(t, 0.9, weights["Performance"], 1e-9)
	assert.InDelta(t, 1.0, weights["Authentication"], 1e-9)

	fallbacks := c.Fallbacks()
	require.Len(t, fallbacks, 7)
	assert.Equal(t, "Authentication", fallbacks[0].Category)
	assert.Equal(t, "Document Management", fallbacks[6].Category)
}

func TestPreset(t *testing.T) {
	compact, err := Preset(PresetCompact)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Authentication", "User Management", "UI/Dashboard", "Notifications",
		"MCC master data sync", "Workflow", "Document Management",
	}, compact.Names())

	_, err = Preset("huge")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnknownPreset)

	assert.Equal(t, []string{PresetCompact, PresetStandard}, PresetNames())
}

func TestParse(t *testing.T) {
	src := `
categories:
  - name: Login
    keywords: [Login, password]
  - name: Crash
    weight: 0.5
    keywords: [crash]
fallbacks:
  - category: Login
    triggers: [auth]
`
	c, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	cats := c.Categories()
	require.Len(t, cats, 2)
	assert.InDelta(t, 1.0, cats[0].Weight, 1e-9)
	assert.Equal(t, []string{"login", "password"}, cats[0].Keywords)
	assert.InDelta(t, 0.5, cats[1].Weight, 1e-9)
	assert.Equal(t, []model.FallbackRule{{Category: "Login", Triggers: []string{"auth"}}}, c.Fallbacks())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "empty document", src: ""},
		{name: "negative weight", src: "categories:\n  - name: A\n    weight: -1\n    keywords: [a]\n"},
		{name: "unknown field", src: "categories:\n  - name: A\n    keywords: [a]\n    color: red\n"},
		{name: "malformed", src: "categories: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Standard()))

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Standard().Categories(), loaded.Categories())
	assert.Equal(t, Standard().Fallbacks(), loaded.Fallbacks())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
