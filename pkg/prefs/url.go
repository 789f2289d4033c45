package prefs

import (
	"net/url"
	"strconv"

	"github.com/atotto/clipboard"

	"github.com/mosaicviz/mosaic/pkg/errors"
)

// Recognized query-string parameters. Anything else is ignored.
const (
	paramAnalysis  = "analysis"
	paramCushion   = "cushion"
	paramColorMode = "colorMode"
)

// ApplyQuery overlays recognized query parameters onto the store, as the
// highest-precedence layer of the load order. Unknown parameters and
// unparseable values are ignored; a valid analysis parameter switches the
// active analysis before the other overrides apply.
func (s *Store) ApplyQuery(rawQuery string) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return
	}
	if name := values.Get(paramAnalysis); name != "" {
		// Ignore names that fail validation; query input is untrusted.
		_ = s.SetActiveAnalysis(name)
	}
	if v := values.Get(paramCushion); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			s.SetCushion(on)
		}
	}
	if mode := values.Get(paramColorMode); mode != "" {
		_ = s.SetColorMode(mode)
	}
}

// UpdateURL rewrites u's query string to carry only the fields whose value
// differs from the defaults. When everything is default the query string
// is removed entirely.
func (s *Store) UpdateURL(u *url.URL) {
	defaults := DefaultAnalysis()
	current := s.current()
	values := url.Values{}

	if s.active != "" {
		values.Set(paramAnalysis, s.active)
	}
	if current.Appearance.CushionTreemap != defaults.Appearance.CushionTreemap {
		values.Set(paramCushion, strconv.FormatBool(current.Appearance.CushionTreemap))
	}
	if current.Appearance.ColorMode != defaults.Appearance.ColorMode {
		values.Set(paramColorMode, current.Appearance.ColorMode)
	}

	u.RawQuery = values.Encode()
}

// clipboardWrite is swapped out in tests; the default goes to the system
// clipboard.
var clipboardWrite = clipboard.WriteAll

// ShareCurrentView builds the absolute URL for the current view state the
// same way UpdateURL does, copies it to the system clipboard, and returns
// it.
func (s *Store) ShareCurrentView(base *url.URL) (string, error) {
	if base == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "share: base URL is nil")
	}
	u := *base
	s.UpdateURL(&u)
	link := u.String()
	if err := clipboardWrite(link); err != nil {
		// Clipboard access is best-effort like persistence; the link is
		// still returned for display.
		s.logger.Warn("failed to copy share link", "err", err)
	}
	return link, nil
}
