package catalog

import (
	"fmt"
	"sort"

	"github.com/Veraticus/defect-triage/internal/common"
	"github.com/Veraticus/defect-triage/internal/model"
)

// Preset names.
const (
	PresetStandard = "standard"
	PresetCompact  = "compact"
)

// DefaultFallbacks returns the coarse trigger chain evaluated in order when no
// weighted keyword matched.
func DefaultFallbacks() []model.FallbackRule {
	return []model.FallbackRule{
		{Category: "Authentication", Triggers: []string{"login", "password", "auth"}},
		{Category: "User Management", Triggers: []string{"profile", "user", "account"}},
		{Category: "UI/Dashboard", Triggers: []string{"dashboard", "ui", "interface"}},
		{Category: "Notifications", Triggers: []string{"email", "notification", "alert"}},
		{Category: "MCC master data sync", Triggers: []string{"sync", "synchroniz"}},
		{Category: "Workflow", Triggers: []string{"task", "assign"}},
		{Category: "Document Management", Triggers: []string{"document", "file"}},
	}
}

// StandardCategories returns the full weighted catalog.
func StandardCategories() []model.Category {
	return []model.Category{
		{
			Name:     "Report",
			Keywords: []string{"report", "extract", "data", "record", "log", "export", "download", "statistic"},
			Weight:   1.0,
		},
		{
			Name:     "Notifications",
			Keywords: []string{"notification", "email", "alert", "message", "reminder", "notify", "send", "mail"},
			Weight:   1.0,
		},
		{
			Name:     "Generate Study Structure",
			Keywords: []string{"generate", "structure", "study", "create", "build", "setup", "initialize", "rcr", "fst"},
			Weight:   1.0,
		},
		{
			Name:     "MCC master data sync",
			Keywords: []string{"mcc", "sync", "synchroniz", "master data", "data sync", "prometrika", "poi", "mdm"},
			Weight:   1.0,
		},
		{
			Name:     "Document Migration",
			Keywords: []string{"migration", "migrate", "import", "export", "transfer", "move", "document", "file"},
			Weight:   1.0,
		},
		{
			Name:     "R&A Task",
			Keywords: []string{"r&a", "read", "acknowledge", "acknowledgment", "review", "approval", "sign", "signature"},
			Weight:   1.0,
		},
		{
			Name:     "Error",
			Keywords: []string{"error", "exception", "fail", "crash", "broken", "issue", "problem", "bug", "defect"},
			Weight:   0.8,
		},
		{
			Name:     "Authentication",
			Keywords: []string{"login", "password", "auth", "authentication", "credential", "access", "sign in", "log in"},
			Weight:   1.0,
		},
		{
			Name:     "User Management",
			Keywords: []string{"user", "profile", "account", "role", "permission", "admin", "administrator", "privilege"},
			Weight:   1.0,
		},
		{
			Name:     "UI/Dashboard",
			Keywords: []string{"ui", "interface", "dashboard", "screen", "page", "view", "display", "button", "menu"},
			Weight:   0.9,
		},
		{
			Name:     "Document Management",
			Keywords: []string{"document", "file", "upload", "download", "attach", "attachment", "pdf", "word", "excel"},
			Weight:   1.0,
		},
		{
			Name:     "Workflow",
			Keywords: []string{"workflow", "process", "approval", "review", "task", "assign", "assignment", "step", "phase"},
			Weight:   1.0,
		},
		{
			Name:     "System Configuration",
			Keywords: []string{"config", "configuration", "setting", "property", "parameter", "setup", "preference", "option"},
			Weight:   1.0,
		},
		{
			Name:     "Performance",
			Keywords: []string{"performance", "slow", "speed", "response", "timeout", "load", "lag", "delay", "bottleneck"},
			Weight:   0.9,
		},
		{
			Name:     "Integration",
			Keywords: []string{"integration", "api", "interface", "connect", "connection", "web service", "rest", "soap"},
			Weight:   1.0,
		},
	}
}

// CompactCategories returns the reduced catalog made of the categories the
// fallback chain can produce, each keyed by its triggers.
func CompactCategories() []model.Category {
	rules := DefaultFallbacks()
	out := make([]model.Category, 0, len(rules))
	for _, r := range rules {
		out = append(out, model.Category{
			Name:     r.Category,
			Keywords: append([]string(nil), r.Triggers...),
			Weight:   model.DefaultWeight,
		})
	}
	return out
}

var presets = map[string]func() *Catalog{
	PresetStandard: Standard,
	PresetCompact: func() *Catalog {
		return MustNew(CompactCategories(), DefaultFallbacks())
	},
}

// Standard returns the standard fifteen-category catalog.
func Standard() *Catalog {
	return MustNew(StandardCategories(), DefaultFallbacks())
}

// Preset returns the named built-in catalog.
func Preset(name string) (*Catalog, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", common.ErrUnknownPreset, name, PresetNames())
	}
	return build(), nil
}

// PresetNames lists the built-in catalogs.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
