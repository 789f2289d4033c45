// Package prefs implements the two-tier preference model: one global
// record for cross-analysis state and one record per analysis name.
//
// Records are loaded lazily, cached for the process lifetime, and written
// back best-effort on every mutation. Persistence failures never surface
// as errors to callers; they are logged and reported to the store hooks.
// The one strict validation point is ImportPreferences, which rejects
// malformed JSON with a distinguished error instead of defaulting.
package prefs

// Preference schema version, recorded in every analysis record.
const Version = 1

// Persisted-record keys.
const (
	// GlobalKey is the fixed key of the global record.
	GlobalKey = "mosaic-global"

	analysisKeyPrefix = "mosaic-analysis-"
)

// AnalysisKey returns the persisted-record key for an analysis name.
func AnalysisKey(name string) string {
	return analysisKeyPrefix + name
}

// GlobalPreferences is process-wide state shared across analyses.
type GlobalPreferences struct {
	LastSelectedAnalysis string `json:"lastSelectedAnalysis,omitempty"`
}

// AnalysisPreferences is the per-analysis record. Records are looked up by
// analysis name and never shared between names.
type AnalysisPreferences struct {
	Version    int        `json:"version"`
	Appearance Appearance `json:"appearance"`
	Filters    Filters    `json:"filters"`
}

// Appearance controls how the mosaic is drawn.
type Appearance struct {
	CushionTreemap    bool   `json:"cushionTreemap"`
	HideFolderBorders bool   `json:"hideFolderBorders"`
	ShowRepoBorders   bool   `json:"showRepoBorders"`
	ColorMode         string `json:"colorMode"`
	ActivityTimeframe string `json:"activityTimeframe"`
}

// Filters controls which nodes are excluded before layout.
type Filters struct {
	HideClocignore   bool        `json:"hideClocignore"`
	CustomExclusions []Exclusion `json:"customExclusions"`
}

// Exclusion is one user-added ignore pattern. Patterns are unique within
// one record; disabling keeps the entry so it can be re-enabled later.
type Exclusion struct {
	Pattern   string `json:"pattern"`
	Enabled   bool   `json:"enabled"`
	CreatedAt string `json:"createdAt"` // ISO-8601
}

// DefaultGlobal returns the built-in global record.
func DefaultGlobal() GlobalPreferences {
	return GlobalPreferences{}
}

// DefaultAnalysis returns the built-in per-analysis record.
func DefaultAnalysis() AnalysisPreferences {
	return AnalysisPreferences{
		Version: Version,
		Appearance: Appearance{
			CushionTreemap:    true,
			HideFolderBorders: true,
			ShowRepoBorders:   true,
			ColorMode:         "filetype",
			ActivityTimeframe: "1year",
		},
		Filters: Filters{
			HideClocignore:   true,
			CustomExclusions: []Exclusion{},
		},
	}
}
