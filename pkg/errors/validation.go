package errors

import (
	"strings"
	"unicode"
)

// Recognized color modes and activity timeframes. These mirror the
// preference schema; validation lives here so both the CLI and the store
// reject the same inputs.
var (
	validColorModes = map[string]bool{
		"depth": true, "filetype": true, "activity": true, "contributors": true,
	}
	validTimeframes = map[string]bool{
		"3months": true, "1year": true,
	}
)

// ValidateAnalysisName validates an analysis name for use as a storage key.
// Names become part of persisted-record keys and file names, so anything
// that could traverse paths is rejected.
func ValidateAnalysisName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidAnalysis, "analysis name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidAnalysis, "analysis name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidAnalysis, "analysis name contains control characters")
		}
	}

	dangerous := []string{"..", "/", "\\", "\x00"}
	for _, pattern := range dangerous {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidAnalysis, "analysis name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateColorMode checks that mode is one of the four recognized modes.
func ValidateColorMode(mode string) error {
	if !validColorModes[mode] {
		return New(ErrCodeInvalidColorMode,
			"invalid color mode: %q (must be depth, filetype, activity, or contributors)", mode)
	}
	return nil
}

// ValidateTimeframe checks that tf is a recognized activity timeframe.
func ValidateTimeframe(tf string) error {
	if !validTimeframes[tf] {
		return New(ErrCodeInvalidTimeframe, "invalid timeframe: %q (must be 3months or 1year)", tf)
	}
	return nil
}

// ValidateExclusionPattern validates a user-supplied ignore pattern before
// it is stored. Matching itself never fails on odd syntax, so this only
// rejects inputs that make no sense as patterns at all.
func ValidateExclusionPattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return New(ErrCodeInvalidPattern, "exclusion pattern cannot be blank")
	}
	for _, r := range pattern {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPattern, "exclusion pattern contains control characters")
		}
	}
	if strings.HasPrefix(pattern, "#") {
		return New(ErrCodeInvalidPattern, "exclusion pattern cannot start with # (comment marker)")
	}
	return nil
}
