package prefs

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/observability"
)

// Store is the preference service for one application session. It owns the
// in-memory global record and a cache of per-analysis records, and writes
// every mutation back through its backend.
//
// The store does no locking: it is designed for a single logical writer,
// and all writers must route mutations through its setters so persistence
// and URL sync stay consistent.
type Store struct {
	backend Backend
	logger  *log.Logger
	now     func() time.Time

	global   GlobalPreferences
	active   string
	analyses map[string]*AnalysisPreferences
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger attaches a logger for best-effort persistence failures.
func WithLogger(l *log.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the exclusion timestamp source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a store over backend and loads the global record.
// A missing or corrupt global record silently becomes the defaults.
func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend:  backend,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		now:      time.Now,
		analyses: make(map[string]*AnalysisPreferences),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.global = DefaultGlobal()
	defaulted := true
	if data, found, err := backend.Load(GlobalKey); err == nil && found {
		var g GlobalPreferences
		if json.Unmarshal(data, &g) == nil {
			s.global, defaulted = g, false
		}
	}
	observability.Store().OnLoad(GlobalKey, defaulted)
	return s
}

// Global returns the current global record.
func (s *Store) Global() GlobalPreferences {
	return s.global
}

// ActiveAnalysis returns the active analysis name, or "" before any
// analysis has been activated.
func (s *Store) ActiveAnalysis() string {
	return s.active
}

// SetActiveAnalysis switches the active analysis. The record for name is
// loaded on first activation and cached afterwards; switching never reads
// or writes any other analysis's record, and never touches the global one.
func (s *Store) SetActiveAnalysis(name string) error {
	if err := errors.ValidateAnalysisName(name); err != nil {
		return err
	}
	if name == s.active {
		return nil
	}
	if _, ok := s.analyses[name]; !ok {
		s.analyses[name] = s.loadAnalysis(name)
	}
	s.active = name
	return nil
}

// loadAnalysis reads one analysis record, falling back to defaults when the
// record is missing or its JSON does not parse.
func (s *Store) loadAnalysis(name string) *AnalysisPreferences {
	key := AnalysisKey(name)
	record := DefaultAnalysis()
	defaulted := true
	if data, found, err := s.backend.Load(key); err == nil && found {
		var p AnalysisPreferences
		if json.Unmarshal(data, &p) == nil {
			record, defaulted = p, false
			if record.Filters.CustomExclusions == nil {
				record.Filters.CustomExclusions = []Exclusion{}
			}
		}
	}
	observability.Store().OnLoad(key, defaulted)
	return &record
}

// SetLastSelectedAnalysis records name in the global record.
func (s *Store) SetLastSelectedAnalysis(name string) {
	s.global.LastSelectedAnalysis = name
	s.persistGlobal()
}

// Current returns a copy of the active analysis record. Before any
// activation it returns the defaults.
func (s *Store) Current() AnalysisPreferences {
	p := *s.current()
	p.Filters.CustomExclusions = slices.Clone(p.Filters.CustomExclusions)
	return p
}

// current returns the live active record. With no active analysis it
// returns a scratch record that is never persisted.
func (s *Store) current() *AnalysisPreferences {
	if s.active == "" {
		if _, ok := s.analyses[""]; !ok {
			scratch := DefaultAnalysis()
			s.analyses[""] = &scratch
		}
	}
	return s.analyses[s.active]
}

// =============================================================================
// Appearance setters
// =============================================================================

// SetColorMode sets the leaf coloring mode.
func (s *Store) SetColorMode(mode string) error {
	if err := errors.ValidateColorMode(mode); err != nil {
		return err
	}
	s.current().Appearance.ColorMode = mode
	s.persistAnalysis()
	return nil
}

// SetActivityTimeframe sets the commit-count window for activity coloring.
func (s *Store) SetActivityTimeframe(tf string) error {
	if err := errors.ValidateTimeframe(tf); err != nil {
		return err
	}
	s.current().Appearance.ActivityTimeframe = tf
	s.persistAnalysis()
	return nil
}

// SetCushion toggles cushion shading.
func (s *Store) SetCushion(on bool) {
	s.current().Appearance.CushionTreemap = on
	s.persistAnalysis()
}

// SetHideFolderBorders toggles directory borders.
func (s *Store) SetHideFolderBorders(hide bool) {
	s.current().Appearance.HideFolderBorders = hide
	s.persistAnalysis()
}

// SetShowRepoBorders toggles repository outlines.
func (s *Store) SetShowRepoBorders(show bool) {
	s.current().Appearance.ShowRepoBorders = show
	s.persistAnalysis()
}

// SetHideClocignore toggles honoring the analysis's ignore file.
func (s *Store) SetHideClocignore(hide bool) {
	s.current().Filters.HideClocignore = hide
	s.persistAnalysis()
}

// =============================================================================
// Exclusion CRUD
// =============================================================================

// AddExclusion appends an enabled exclusion for pattern. If the pattern
// already exists it is re-enabled in place instead of duplicated.
func (s *Store) AddExclusion(pattern string) error {
	if err := errors.ValidateExclusionPattern(pattern); err != nil {
		return err
	}
	p := s.current()
	for i := range p.Filters.CustomExclusions {
		if p.Filters.CustomExclusions[i].Pattern == pattern {
			p.Filters.CustomExclusions[i].Enabled = true
			s.persistAnalysis()
			return nil
		}
	}
	p.Filters.CustomExclusions = append(p.Filters.CustomExclusions, Exclusion{
		Pattern:   pattern,
		Enabled:   true,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	})
	s.persistAnalysis()
	return nil
}

// RemoveExclusion deletes the exclusion with an exactly matching pattern.
func (s *Store) RemoveExclusion(pattern string) {
	p := s.current()
	p.Filters.CustomExclusions = slices.DeleteFunc(p.Filters.CustomExclusions, func(e Exclusion) bool {
		return e.Pattern == pattern
	})
	s.persistAnalysis()
}

// ToggleExclusion flips the enabled flag of an exactly matching pattern.
func (s *Store) ToggleExclusion(pattern string) {
	p := s.current()
	for i := range p.Filters.CustomExclusions {
		if p.Filters.CustomExclusions[i].Pattern == pattern {
			p.Filters.CustomExclusions[i].Enabled = !p.Filters.CustomExclusions[i].Enabled
			s.persistAnalysis()
			return
		}
	}
}

// UpdateExclusion rewrites the pattern of an existing exclusion. A blank
// or unchanged replacement is a no-op.
func (s *Store) UpdateExclusion(oldPattern, newPattern string) {
	if newPattern == "" || newPattern == oldPattern {
		return
	}
	p := s.current()
	for i := range p.Filters.CustomExclusions {
		if p.Filters.CustomExclusions[i].Pattern == oldPattern {
			p.Filters.CustomExclusions[i].Pattern = newPattern
			s.persistAnalysis()
			return
		}
	}
}

// EnabledPatterns returns the patterns of all enabled exclusions, in
// insertion order.
func (s *Store) EnabledPatterns() []string {
	var out []string
	for _, e := range s.current().Filters.CustomExclusions {
		if e.Enabled {
			out = append(out, e.Pattern)
		}
	}
	return out
}

// =============================================================================
// Reset / import / export
// =============================================================================

// ResetPreferences restores the active analysis record to defaults,
// including clearing its exclusions. The global record is untouched.
func (s *Store) ResetPreferences() {
	fresh := DefaultAnalysis()
	*s.current() = fresh
	s.persistAnalysis()
}

// ExportPreferences serializes the active analysis record.
func (s *Store) ExportPreferences() ([]byte, error) {
	return json.MarshalIndent(s.current(), "", "  ")
}

// ImportPreferences merges a JSON document into the active analysis
// record. Malformed JSON is the one strictly validated input in this
// package and returns a distinguished error; fields absent from the
// document keep their current values.
func (s *Store) ImportPreferences(data []byte) error {
	merged := s.Current()
	if err := json.Unmarshal(data, &merged); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidImport, err, "import preferences")
	}
	if merged.Filters.CustomExclusions == nil {
		merged.Filters.CustomExclusions = []Exclusion{}
	}
	*s.current() = merged
	s.persistAnalysis()
	return nil
}

// =============================================================================
// Persistence
// =============================================================================

// persistAnalysis writes the active record back. Best-effort: failures are
// logged and hooked, never returned, so a broken disk cannot take down the
// render or interaction path.
func (s *Store) persistAnalysis() {
	if s.active == "" {
		return
	}
	s.persist(AnalysisKey(s.active), s.analyses[s.active])
}

func (s *Store) persistGlobal() {
	s.persist(GlobalKey, s.global)
}

func (s *Store) persist(key string, record any) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		s.logger.Warn("failed to serialize preferences", "key", key, "err", err)
		observability.Store().OnPersistError(key, err)
		return
	}
	if err := s.backend.Save(key, data); err != nil {
		s.logger.Warn("failed to persist preferences", "key", key, "err", err)
		observability.Store().OnPersistError(key, err)
		return
	}
	observability.Store().OnPersist(key, len(data))
}
