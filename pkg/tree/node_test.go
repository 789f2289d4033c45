package tree

import (
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	doc := `{
		"analysis_set": "work",
		"root_path": "/home/dev/work",
		"generated_at": "2026-08-01T10:00:00Z",
		"stats": {"total_files": 2, "total_lines": 150, "total_repos": 1,
			"languages": {"Go": 150}},
		"tree": {
			"name": "work", "type": "analysis_set",
			"children": [
				{"name": "repo1", "type": "repository", "path": "repo1",
				 "children": [
					{"name": "main.go", "type": "file", "path": "repo1/main.go",
					 "value": 150, "language": "Go",
					 "commits": {"last_year": 5, "last_3_months": 1},
					 "contributors": {"count": 2, "names": ["ann", "bo"]}}
				 ]}
			]
		}
	}`

	a, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if a.AnalysisSet != "work" {
		t.Errorf("AnalysisSet = %q, want %q", a.AnalysisSet, "work")
	}
	if a.Stats == nil || a.Stats.TotalLines != 150 {
		t.Errorf("Stats = %+v, want total_lines 150", a.Stats)
	}

	file := FindByPath(a.Tree, "repo1/main.go")
	if file == nil {
		t.Fatal("FindByPath(repo1/main.go) = nil")
	}
	if !file.IsLeaf() {
		t.Error("file node should be a leaf")
	}
	if file.CommitCount(true) != 5 || file.CommitCount(false) != 1 {
		t.Errorf("CommitCount = (%d, %d), want (5, 1)", file.CommitCount(true), file.CommitCount(false))
	}
	if file.Contributors == nil || file.Contributors.Count != 2 {
		t.Errorf("Contributors = %+v, want count 2", file.Contributors)
	}
}

func TestDecodeMissingOptionalFields(t *testing.T) {
	// Bare-minimum nodes must decode to usable zero values.
	a, err := Decode(strings.NewReader(`{"analysis_set":"x","tree":{"name":"x","children":[{"name":"f"}]}}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	leaf := a.Tree.Children[0]
	if leaf.Value != 0 || leaf.Language != "" || leaf.CommitCount(true) != 0 {
		t.Errorf("zero-value degradation broken: %+v", leaf)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", `{"analysis_set": `},
		{"no tree", `{"analysis_set": "x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.input)); err == nil {
				t.Error("Decode() expected error, got nil")
			}
		})
	}
}

func TestIsLeafDistinguishesPrunedRoot(t *testing.T) {
	leaf := &Node{Name: "f.go"}
	prunedRoot := &Node{Name: "root", Children: []*Node{}}

	if !leaf.IsLeaf() {
		t.Error("node without children should be a leaf")
	}
	if prunedRoot.IsLeaf() {
		t.Error("container with empty child slice should not be a leaf")
	}
}
