// Package ignore prunes analyzed trees with gitignore-style patterns.
//
// Pattern semantics are pinned to the gitignore rules: a pattern without a
// slash matches a path's final segment at any depth (an implicit "**/"
// prefix), a pattern with a slash is anchored to the tree root, "**" matches
// zero or more whole segments, "*" and "?" never cross a segment boundary,
// and a leading "!" re-includes earlier matches. Matching is case-preserving
// and does not special-case Windows separators. Unparseable glob syntax
// falls back to literal comparison; matching never panics.
package ignore

import (
	"path"
	"strings"

	"github.com/mosaicviz/mosaic/pkg/tree"
)

// ParsePatterns splits ignore-file text into patterns: one per line, each
// line trimmed, blank lines and "#" comments dropped. Order and any leading
// "!" negation markers are preserved verbatim.
func ParsePatterns(text string) []string {
	var patterns []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// Matches reports whether p matches the gitignore-style pattern.
//
// A pattern without "/" is compared against the final path segment, which
// makes a bare filename exclude that file at any depth. A pattern with "/"
// anchors at the tree root; "**" segments match zero or more path segments
// ("a/**/b" matches "a/b", "a/x/b", "a/x/y/b"; "a/**" matches anything
// strictly under "a/"). A root-anchored pattern also matches everything
// under a matched directory.
func Matches(p, pattern string) bool {
	if pattern == "" {
		return false
	}
	// A trailing slash only marks a directory pattern; it does not anchor.
	trimmed := strings.TrimSuffix(pattern, "/")
	if !strings.Contains(trimmed, "/") {
		segs := strings.Split(p, "/")
		return matchSegment(trimmed, segs[len(segs)-1])
	}
	pat := strings.Split(strings.TrimPrefix(trimmed, "/"), "/")
	return matchSegments(pat, strings.Split(p, "/"))
}

// matchSegments matches pattern segments against path segments from the
// root. A fully consumed pattern matches the path itself and, gitignore
// style, anything beneath it.
func matchSegments(pat, segs []string) bool {
	if len(pat) == 0 {
		return true
	}
	if pat[0] == "**" {
		if len(pat) == 1 {
			// "a/**" requires something under a, not a itself.
			return len(segs) > 0
		}
		for i := 0; i <= len(segs); i++ {
			if matchSegments(pat[1:], segs[i:]) {
				return true
			}
		}
		return false
	}
	if len(segs) == 0 {
		return false
	}
	if !matchSegment(pat[0], segs[0]) {
		return false
	}
	return matchSegments(pat[1:], segs[1:])
}

// matchSegment matches a single segment, falling back to a literal
// comparison when the glob syntax is malformed.
func matchSegment(pattern, seg string) bool {
	ok, err := path.Match(pattern, seg)
	if err != nil {
		return pattern == seg
	}
	return ok
}

// splitPatterns separates exclusions from negations, stripping the "!"
// marker from the latter.
func splitPatterns(patterns []string) (excludes, negations []string) {
	for _, p := range patterns {
		if rest, ok := strings.CutPrefix(p, "!"); ok {
			negations = append(negations, rest)
			continue
		}
		excludes = append(excludes, p)
	}
	return excludes, negations
}

func matchesAny(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if Matches(p, pattern) {
			return true
		}
	}
	return false
}

// Filter returns root pruned by patterns. A node is dropped when its path
// matches at least one exclusion and no negation; containers whose children
// are all dropped are dropped themselves. The supplied root is always
// returned, with an empty (non-nil) child slice when everything beneath it
// was excluded. The input tree is never mutated: new node objects are
// allocated only along changed paths.
func Filter(root *tree.Node, patterns []string) *tree.Node {
	if root == nil {
		return nil
	}
	excludes, negations := splitPatterns(patterns)
	if len(excludes) == 0 {
		return root
	}
	if filtered := filterNode(root, excludes, negations); filtered != nil {
		return filtered
	}
	pruned := *root
	pruned.Children = []*tree.Node{}
	return &pruned
}

func filterNode(n *tree.Node, excludes, negations []string) *tree.Node {
	id := n.Path
	if id == "" {
		id = n.Name
	}
	if matchesAny(id, excludes) && !matchesAny(id, negations) {
		return nil
	}
	if n.IsLeaf() {
		return n
	}

	kept := make([]*tree.Node, 0, len(n.Children))
	changed := false
	for _, c := range n.Children {
		fc := filterNode(c, excludes, negations)
		if fc == nil {
			changed = true
			continue
		}
		if fc != c {
			changed = true
		}
		kept = append(kept, fc)
	}
	if len(kept) == 0 {
		return nil
	}
	if !changed {
		return n
	}
	copied := *n
	copied.Children = kept
	return &copied
}
