// Package tree defines the analyzed-hierarchy data model and pure traversal
// utilities over it.
//
// A tree is supplied by an external analysis pipeline as JSON: files carry
// line counts, languages, and git activity; directories, repositories, and
// the analysis-set root only group them. Missing optional fields degrade to
// zero values and nil roots yield identity results, never a panic; malformed
// upstream data must not take the renderer down.
package tree

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// Node types as emitted by the analysis pipeline.
const (
	TypeFile        = "file"
	TypeDirectory   = "directory"
	TypeRepository  = "repository"
	TypeAnalysisSet = "analysis_set"
)

// Node is one entry in the analyzed hierarchy. A node without children is a
// leaf and represents a file. Path, when present, is a stable identifier
// unique within the tree; filtering removes nodes but never rewrites paths.
type Node struct {
	Name         string        `json:"name"`
	Path         string        `json:"path,omitempty"`
	Type         string        `json:"type,omitempty"`
	Value        int           `json:"value,omitempty"` // line count; absent means 0
	Language     string        `json:"language,omitempty"`
	Extension    string        `json:"extension,omitempty"`
	Commits      *Commits      `json:"commits,omitempty"`
	Contributors *Contributors `json:"contributors,omitempty"`
	Children     []*Node       `json:"children,omitempty"`
}

// Commits holds per-file git activity counts.
type Commits struct {
	LastYear       int    `json:"last_year"`
	Last3Months    int    `json:"last_3_months"`
	LastCommitDate string `json:"last_commit_date,omitempty"`
}

// Contributors holds per-file author information.
type Contributors struct {
	Count int      `json:"count"`
	Names []string `json:"names,omitempty"`
}

// IsLeaf reports whether n is a file-level node. A container with an empty
// (non-nil) child slice is not a leaf; it is a pruned-but-retained root.
func (n *Node) IsLeaf() bool {
	return n.Children == nil
}

// IsRepository reports whether n marks a repository boundary.
func (n *Node) IsRepository() bool {
	return n.Type == TypeRepository
}

// CommitCount returns the commit count for the given timeframe field,
// or 0 when no activity data is attached.
func (n *Node) CommitCount(lastYear bool) int {
	if n.Commits == nil {
		return 0
	}
	if lastYear {
		return n.Commits.LastYear
	}
	return n.Commits.Last3Months
}

// Stats is the aggregate summary block of an analysis document.
type Stats struct {
	TotalFiles  int            `json:"total_files"`
	TotalLines  int            `json:"total_lines"`
	TotalRepos  int            `json:"total_repos"`
	Languages   map[string]int `json:"languages,omitempty"`
}

// Analysis is the document format produced by the analysis pipeline:
// a named set of repositories with summary stats and the node tree.
type Analysis struct {
	AnalysisSet string `json:"analysis_set"`
	RootPath    string `json:"root_path,omitempty"`
	GeneratedAt string `json:"generated_at,omitempty"`
	Stats       *Stats `json:"stats,omitempty"`
	Tree        *Node  `json:"tree"`
}

// Decode reads an analysis document from r.
func Decode(r io.Reader) (*Analysis, error) {
	var a Analysis
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	if a.Tree == nil {
		return nil, fmt.Errorf("decode analysis: document has no tree")
	}
	return &a, nil
}

// Load reads an analysis document from a JSON file.
func Load(path string) (*Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open analysis: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
