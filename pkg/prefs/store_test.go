package prefs

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mosaicviz/mosaic/pkg/errors"
)

func newTestStore(t *testing.T) (*Store, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	s := NewStore(backend, WithClock(func() time.Time {
		return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	}))
	return s, backend
}

func activate(t *testing.T, s *Store, name string) {
	t.Helper()
	if err := s.SetActiveAnalysis(name); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	activate(t, s, "demo")

	got := s.Current()
	want := AnalysisPreferences{
		Version: 1,
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
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("defaults = %+v, want %+v", got, want)
	}
}

func TestCorruptRecordFallsBackSilently(t *testing.T) {
	backend := NewMemoryBackend()
	backend.Save(AnalysisKey("demo"), []byte("{not json"))
	backend.Save(GlobalKey, []byte("also not json"))

	s := NewStore(backend)
	activate(t, s, "demo")

	if got := s.Current(); got.Appearance.ColorMode != "filetype" {
		t.Fatalf("corrupt record should default, got colorMode=%q", got.Appearance.ColorMode)
	}
	if s.Global() != DefaultGlobal() {
		t.Fatal("corrupt global record should default")
	}
}

func TestSettersPersist(t *testing.T) {
	s, backend := newTestStore(t)
	activate(t, s, "demo")

	if err := s.SetColorMode("activity"); err != nil {
		t.Fatal(err)
	}
	s.SetCushion(false)

	reloaded := NewStore(backend)
	activate(t, reloaded, "demo")
	got := reloaded.Current()
	if got.Appearance.ColorMode != "activity" || got.Appearance.CushionTreemap {
		t.Fatalf("persisted record = %+v", got.Appearance)
	}
}

func TestSetColorModeRejectsUnknown(t *testing.T) {
	s, _ := newTestStore(t)
	activate(t, s, "demo")

	err := s.SetColorMode("plasma")
	if !errors.Is(err, errors.ErrCodeInvalidColorMode) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeInvalidColorMode)
	}
	if got := s.Current().Appearance.ColorMode; got != "filetype" {
		t.Fatalf("rejected mode leaked into the record: %q", got)
	}
}

func TestAnalysisIsolation(t *testing.T) {
	s, backend := newTestStore(t)

	activate(t, s, "A")
	if err := s.SetColorMode("depth"); err != nil {
		t.Fatal(err)
	}

	activate(t, s, "B")
	if got := s.Current().Appearance.ColorMode; got != "filetype" {
		t.Fatalf("B observed A's colorMode: %q", got)
	}

	activate(t, s, "A")
	if got := s.Current().Appearance.ColorMode; got != "depth" {
		t.Fatalf("A lost its colorMode across a switch: %q", got)
	}

	// B's record must never have been written at all.
	if _, found, _ := backend.Load(AnalysisKey("B")); found {
		t.Fatal("switching wrote B's record without any B mutation")
	}
	data, found, _ := backend.Load(AnalysisKey("A"))
	if !found {
		t.Fatal("A's record was never persisted")
	}
	if want := `"colorMode": "depth"`; !strings.Contains(string(data), want) {
		t.Fatalf("A's persisted record missing %q:\n%s", want, data)
	}
}

func TestSetActiveAnalysisValidation(t *testing.T) {
	s, _ := newTestStore(t)
	for _, name := range []string{"", "../escape", "a/b", "null\x00byte"} {
		if err := s.SetActiveAnalysis(name); !errors.Is(err, errors.ErrCodeInvalidAnalysis) {
			t.Errorf("SetActiveAnalysis(%q) = %v, want %s", name, err, errors.ErrCodeInvalidAnalysis)
		}
	}
}

func TestSetLastSelectedAnalysisTouchesOnlyGlobal(t *testing.T) {
	s, backend := newTestStore(t)
	activate(t, s, "demo")

	s.SetLastSelectedAnalysis("demo")
	if got := s.Global().LastSelectedAnalysis; got != "demo" {
		t.Fatalf("lastSelectedAnalysis = %q", got)
	}
	if _, found, _ := backend.Load(GlobalKey); !found {
		t.Fatal("global record not persisted")
	}
	if _, found, _ := backend.Load(AnalysisKey("demo")); found {
		t.Fatal("global mutation wrote the analysis record")
	}
}

// =============================================================================
// Exclusions
// =============================================================================

func TestAddExclusion(t *testing.T) {
	s, _ := newTestStore(t)
	activate(t, s, "demo")

	if err := s.AddExclusion("*.lock"); err != nil {
		t.Fatal(err)
	}
	got := s.Current().Filters.CustomExclusions
	want := []Exclusion{{Pattern: "*.lock", Enabled: true, CreatedAt: "2026-08-26T12:00:00Z"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("exclusions = %+v, want %+v", got, want)
	}
}

func TestAddExclusionReenablesExisting(t *testing.T) {
	s, _ := newTestStore(t)
	activate(t, s, "demo")

	s.AddExclusion("*.lock")
	s.ToggleExclusion("*.lock")
	if s.Current().Filters.CustomExclusions[0].Enabled {
		t.Fatal("toggle did not disable")
	}

	s.AddExclusion("*.lock")
	got := s.Current().Filters.CustomExclusions
	if len(got) != 1 {
		t.Fatalf("re-add duplicated the pattern: %+v", got)
	}
	if !got[0].Enabled {
		t.Fatal("re-add did not re-enable")
	}
}

func TestAddExclusionRejectsBlank(t *testing.T) {
	s, _ := newTestStore(t)
	activate(t, s, "demo")

	if err := s.AddExclusion("   "); !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeInvalidPattern)
	}
}

func TestRemoveExclusion(t *testing.T) {
	s, _ := newTestStore(t)
	activate(t, s, "demo")

	s.AddExclusion("*.lock")
	s.AddExclusion("dist")
	s.RemoveExclusion("*.lock")

	got := s.Current().Filters.CustomExclusions
	if len(got) != 1 || got[0].Pattern != "dist" {
		t.Fatalf("exclusions = %+v", got)
	}
	// Removing a pattern that is not there is harmless.
	s.RemoveExclusion("nope")
}

func TestUpdateExclusion(t *testing.T) {
	s, _ := newTestStore(t)
	activate(t, s, "demo")
	s.AddExclusion("*.lock")

	s.UpdateExclusion("*.lock", "")
	if got := s.Current().Filters.CustomExclusions[0].Pattern; got != "*.lock" {
		t.Fatalf("blank replacement changed the pattern to %q", got)
	}
	s.UpdateExclusion("*.lock", "*.lock")
	s.UpdateExclusion("*.lock", "*.log")
	if got := s.Current().Filters.CustomExclusions[0].Pattern; got != "*.log" {
		t.Fatalf("pattern = %q, want *.log", got)
	}
}

func TestEnabledPatterns(t *testing.T) {
	s, _ := newTestStore(t)
	activate(t, s, "demo")

	s.AddExclusion("*.lock")
	s.AddExclusion("dist")
	s.AddExclusion("vendor")
	s.ToggleExclusion("dist")

	got := s.EnabledPatterns()
	want := []string{"*.lock", "vendor"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("EnabledPatterns() = %v, want %v", got, want)
	}
}

// =============================================================================
// Reset / import / export
// =============================================================================

func TestResetPreferences(t *testing.T) {
	s, _ := newTestStore(t)
	activate(t, s, "demo")

	s.SetColorMode("depth")
	s.AddExclusion("*.lock")
	s.ResetPreferences()

	got := s.Current()
	if got.Appearance.ColorMode != "filetype" {
		t.Fatalf("colorMode = %q after reset", got.Appearance.ColorMode)
	}
	if len(got.Filters.CustomExclusions) != 0 {
		t.Fatalf("exclusions survive reset: %+v", got.Filters.CustomExclusions)
	}
}

func TestImportPreferencesMerges(t *testing.T) {
	s, _ := newTestStore(t)
	activate(t, s, "demo")
	s.SetColorMode("depth")

	doc := []byte(`{"appearance":{"cushionTreemap":false,"hideFolderBorders":true,"showRepoBorders":true,"colorMode":"activity","activityTimeframe":"3months"}}`)
	if err := s.ImportPreferences(doc); err != nil {
		t.Fatal(err)
	}

	got := s.Current()
	if got.Appearance.ColorMode != "activity" || got.Appearance.CushionTreemap {
		t.Fatalf("import not applied: %+v", got.Appearance)
	}
	if !got.Filters.HideClocignore {
		t.Fatal("field absent from the document lost its value")
	}
}

func TestImportPreferencesInvalidJSON(t *testing.T) {
	s, _ := newTestStore(t)
	activate(t, s, "demo")
	s.SetColorMode("depth")

	err := s.ImportPreferences([]byte("{broken"))
	if !errors.Is(err, errors.ErrCodeInvalidImport) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeInvalidImport)
	}
	if got := s.Current().Appearance.ColorMode; got != "depth" {
		t.Fatalf("failed import altered the record: colorMode = %q", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	activate(t, s, "demo")
	s.SetColorMode("contributors")
	s.AddExclusion("node_modules")

	data, err := s.ExportPreferences()
	if err != nil {
		t.Fatal(err)
	}

	other, _ := newTestStore(t)
	activate(t, other, "demo")
	if err := other.ImportPreferences(data); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(other.Current(), s.Current()) {
		t.Fatal("export/import round trip diverged")
	}
}

// =============================================================================
// Best-effort persistence
// =============================================================================

type failingBackend struct {
	*MemoryBackend
}

func (b failingBackend) Save(string, []byte) error {
	return fmt.Errorf("disk full")
}

func TestPersistFailureDoesNotSurface(t *testing.T) {
	s := NewStore(failingBackend{NewMemoryBackend()})
	activate(t, s, "demo")

	// None of these may panic or error out because of the failing disk.
	if err := s.SetColorMode("depth"); err != nil {
		t.Fatalf("persist failure surfaced: %v", err)
	}
	s.SetCushion(false)
	s.SetLastSelectedAnalysis("demo")

	if got := s.Current().Appearance.ColorMode; got != "depth" {
		t.Fatalf("in-memory state lost on persist failure: %q", got)
	}
}
