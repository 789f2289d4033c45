package tree

import (
	"testing"

	"pgregory.net/rapid"
)

// fixture builds a small two-repo hierarchy used across the tests here.
func fixture() *Node {
	return &Node{
		Name: "workspace", Type: TypeAnalysisSet,
		Children: []*Node{
			{
				Name: "repo1", Type: TypeRepository, Path: "repo1",
				Children: []*Node{
					{Name: "main.go", Type: TypeFile, Path: "repo1/main.go", Value: 100, Language: "Go",
						Commits: &Commits{LastYear: 12, Last3Months: 3}},
					{Name: "util.go", Type: TypeFile, Path: "repo1/util.go", Value: 50, Language: "Go"},
					{
						Name: "web", Type: TypeDirectory, Path: "repo1/web",
						Children: []*Node{
							{Name: "app.ts", Type: TypeFile, Path: "repo1/web/app.ts", Value: 200, Language: "TypeScript",
								Commits: &Commits{LastYear: 40, Last3Months: 15}},
						},
					},
				},
			},
			{
				Name: "repo2", Type: TypeRepository, Path: "repo2",
				Children: []*Node{
					{Name: "lib.rs", Type: TypeFile, Path: "repo2/lib.rs", Value: 300, Language: "Rust"},
				},
			},
		},
	}
}

func TestAggregate(t *testing.T) {
	root := fixture()

	tests := []struct {
		name string
		node *Node
		want int
	}{
		{"full tree", root, 650},
		{"repo subtree", root.Children[0], 350},
		{"single leaf", root.Children[1].Children[0], 300},
		{"nil root", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.node, func(n *Node) int { return n.Value })
			if got != tt.want {
				t.Errorf("Aggregate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAggregateCommits(t *testing.T) {
	root := fixture()
	got := Aggregate(root, func(n *Node) int { return n.CommitCount(true) })
	if got != 52 {
		t.Errorf("Aggregate(commits last year) = %d, want 52", got)
	}
	got = Aggregate(root, func(n *Node) int { return n.CommitCount(false) })
	if got != 18 {
		t.Errorf("Aggregate(commits 3 months) = %d, want 18", got)
	}
}

func TestFindMaxDepthIsLocal(t *testing.T) {
	root := fixture()
	depth := func(_ *Node, d int) int { return d }

	if got := FindMax(root, depth); got != 3 {
		t.Errorf("FindMax(root, depth) = %d, want 3", got)
	}
	// Depth restarts at the supplied node: the repo1 subtree is 2 deep on
	// its own even though it sits one level down in the full tree.
	if got := FindMax(root.Children[0], depth); got != 2 {
		t.Errorf("FindMax(repo1, depth) = %d, want 2", got)
	}
	if got := FindMax(nil, depth); got != 0 {
		t.Errorf("FindMax(nil) = %d, want 0", got)
	}
}

func TestFindMaxValue(t *testing.T) {
	root := fixture()
	got := FindMax(root, func(n *Node, _ int) int { return n.CommitCount(true) })
	if got != 40 {
		t.Errorf("FindMax(commit count) = %d, want 40", got)
	}
}

func TestCountLeafValues(t *testing.T) {
	root := fixture()
	got := CountLeafValues(root, func(n *Node) string { return n.Language })

	want := map[string]int{"Go": 2, "TypeScript": 1, "Rust": 1}
	if len(got) != len(want) {
		t.Fatalf("CountLeafValues() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("CountLeafValues()[%q] = %d, want %d", k, got[k], v)
		}
	}
}

func TestCountLeafValuesSkipsEmptyKeys(t *testing.T) {
	root := &Node{
		Name: "root",
		Children: []*Node{
			{Name: "a.go", Language: "Go"},
			{Name: "LICENSE"}, // no language
		},
	}
	got := CountLeafValues(root, func(n *Node) string { return n.Language })
	if len(got) != 1 || got["Go"] != 1 {
		t.Errorf("CountLeafValues() = %v, want map[Go:1]", got)
	}
	if got := CountLeafValues(nil, func(n *Node) string { return n.Language }); len(got) != 0 {
		t.Errorf("CountLeafValues(nil) = %v, want empty", got)
	}
}

func TestFindByPath(t *testing.T) {
	root := fixture()

	tests := []struct {
		name   string
		target string
		want   string // expected node name, "" for nil
	}{
		{"leaf", "repo1/web/app.ts", "app.ts"},
		{"container", "repo1/web", "web"},
		{"repo", "repo2", "repo2"},
		{"missing", "repo1/nope.go", ""},
		{"empty matches root", "", "workspace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindByPath(root, tt.target)
			if tt.want == "" && tt.name == "missing" {
				if got != nil {
					t.Fatalf("FindByPath(%q) = %v, want nil", tt.target, got)
				}
				return
			}
			if got == nil || got.Name != tt.want {
				t.Errorf("FindByPath(%q) = %v, want name %q", tt.target, got, tt.want)
			}
		})
	}

	if got := FindByPath(nil, "x"); got != nil {
		t.Errorf("FindByPath(nil) = %v, want nil", got)
	}
}

// genTree produces random trees with leaf values for the property below.
func genTree() *rapid.Generator[*Node] {
	var gen *rapid.Generator[*Node]
	gen = rapid.Custom(func(t *rapid.T) *Node {
		n := &Node{
			Name:  rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "name"),
			Value: rapid.IntRange(0, 10000).Draw(t, "value"),
		}
		if rapid.Bool().Draw(t, "container") {
			count := rapid.IntRange(1, 4).Draw(t, "count")
			n.Value = 0
			n.Children = make([]*Node, count)
			for i := range n.Children {
				n.Children[i] = gen.Draw(t, "child")
			}
		}
		return n
	})
	return gen
}

// flattenSum is the independent reference implementation: collect every
// leaf into a slice, then sum.
func flattenSum(n *Node) int {
	var leaves []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.IsLeaf() {
			leaves = append(leaves, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	sum := 0
	for _, l := range leaves {
		sum += l.Value
	}
	return sum
}

func TestAggregateMatchesFlattenSum(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := genTree().Draw(t, "tree")
		got := Aggregate(root, func(n *Node) int { return n.Value })
		if want := flattenSum(root); got != want {
			t.Fatalf("Aggregate() = %d, flatten-and-sum = %d", got, want)
		}
	})
}
