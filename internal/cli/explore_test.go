package cli

import (
	"net/url"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mosaicviz/mosaic/pkg/prefs"
	"github.com/mosaicviz/mosaic/pkg/tree"
	"github.com/mosaicviz/mosaic/pkg/treemap"
)

func exploreFixture() *tree.Node {
	return &tree.Node{
		Name: "root",
		Children: []*tree.Node{
			{
				Name: "repo1",
				Path: "repo1",
				Type: tree.TypeRepository,
				Children: []*tree.Node{
					{Name: "big.go", Path: "repo1/big.go", Value: 900, Language: "Go"},
					{Name: "small.ts", Path: "repo1/small.ts", Value: 100, Language: "TypeScript"},
				},
			},
			{
				Name: "repo2",
				Path: "repo2",
				Type: tree.TypeRepository,
				Children: []*tree.Node{
					{Name: "lib.py", Path: "repo2/lib.py", Value: 300, Language: "Python"},
				},
			},
		},
	}
}

func newTestExploreModel(t *testing.T) exploreModel {
	t.Helper()
	store := prefs.NewStore(prefs.NewMemoryBackend())
	if err := store.SetActiveAnalysis("demo"); err != nil {
		t.Fatal(err)
	}
	base, _ := url.Parse("https://mosaic.local/view")
	return newExploreModel(store, exploreFixture(), nil, base)
}

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	panic("unknown key: " + s)
}

func update(t *testing.T, m exploreModel, keys ...string) exploreModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(exploreModel)
	}
	return m
}

func TestExploreRowsWeightSorted(t *testing.T) {
	m := newTestExploreModel(t)

	if len(m.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.rows))
	}
	if m.rows[0].node.Name != "repo1" || m.rows[1].node.Name != "repo2" {
		t.Errorf("rows = [%s, %s], want weight-descending order",
			m.rows[0].node.Name, m.rows[1].node.Name)
	}
	if m.rows[0].weight != 1000 {
		t.Errorf("repo1 weight = %d, want 1000", m.rows[0].weight)
	}
}

func TestExploreDrillAndBack(t *testing.T) {
	m := newTestExploreModel(t)

	m = update(t, m, "enter")
	if len(m.stack) != 2 || m.stack[1].Name != "repo1" {
		t.Fatalf("stack after drill = %d, want root/repo1", len(m.stack))
	}
	if m.rows[0].node.Name != "big.go" {
		t.Errorf("first row = %s, want big.go", m.rows[0].node.Name)
	}

	m = update(t, m, "backspace")
	if len(m.stack) != 1 {
		t.Errorf("stack after back = %d, want 1", len(m.stack))
	}
}

func TestExploreDrillIntoLeafIgnored(t *testing.T) {
	m := newTestExploreModel(t)

	m = update(t, m, "enter", "enter") // drill into repo1, then try big.go
	if len(m.stack) != 2 {
		t.Errorf("stack = %d, a leaf must not be drillable", len(m.stack))
	}
}

func TestExploreBackAtRootIgnored(t *testing.T) {
	m := newTestExploreModel(t)
	m = update(t, m, "backspace")
	if len(m.stack) != 1 {
		t.Errorf("stack = %d, want 1", len(m.stack))
	}
}

func TestExploreCycleColorModePersists(t *testing.T) {
	m := newTestExploreModel(t)

	m = update(t, m, "c")
	if got := m.store.Current().Appearance.ColorMode; got != treemap.ModeDepth {
		t.Errorf("color mode = %q, want depth after one cycle", got)
	}

	m = update(t, m, "c", "c", "c")
	if got := m.store.Current().Appearance.ColorMode; got != treemap.ModeFiletype {
		t.Errorf("color mode = %q, want filetype after full cycle", got)
	}
}

func TestExploreToggleCushion(t *testing.T) {
	m := newTestExploreModel(t)
	m = update(t, m, "u")
	if m.store.Current().Appearance.CushionTreemap {
		t.Error("cushion should be toggled off")
	}
}

func TestExploreExcludeRemovesNode(t *testing.T) {
	m := newTestExploreModel(t)

	m = update(t, m, "down", "x") // select repo2, exclude it
	if len(m.rows) != 1 || m.rows[0].node.Name != "repo1" {
		t.Fatalf("rows after exclude = %d, want only repo1", len(m.rows))
	}
	if got := m.store.EnabledPatterns(); len(got) != 1 || got[0] != "repo2" {
		t.Errorf("EnabledPatterns = %v, want [repo2]", got)
	}
}

func TestExploreExcludeTrimsStack(t *testing.T) {
	m := newTestExploreModel(t)

	m = update(t, m, "down", "enter") // drill into repo2
	if m.stack[len(m.stack)-1].Name != "repo2" {
		t.Fatal("expected to be inside repo2")
	}

	// Excluding the repo we are inside must pop the view back to root.
	if err := m.store.AddExclusion("repo2"); err != nil {
		t.Fatal(err)
	}
	m.refilter()

	if len(m.stack) != 1 || m.stack[0].Name != "root" {
		t.Errorf("stack = %d, want root only after its view disappeared", len(m.stack))
	}
}

func TestExploreViewRenders(t *testing.T) {
	m := newTestExploreModel(t)
	out := m.View()
	if out == "" {
		t.Fatal("View() returned empty output")
	}
	for _, want := range []string{"root", "repo1", "repo2"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
