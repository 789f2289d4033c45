package cli

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mosaicviz/mosaic/pkg/colors"
	"github.com/mosaicviz/mosaic/pkg/ignore"
	"github.com/mosaicviz/mosaic/pkg/prefs"
	"github.com/mosaicviz/mosaic/pkg/tree"
	"github.com/mosaicviz/mosaic/pkg/treemap"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// colorModeOrder is the cycle order for the 'c' key.
var colorModeOrder = []string{
	treemap.ModeFiletype,
	treemap.ModeDepth,
	treemap.ModeActivity,
	treemap.ModeContributors,
}

// newExploreCmd creates the explore command, an interactive tree browser.
func newExploreCmd() *cobra.Command {
	var configFile string
	var ignoreFile string

	cmd := &cobra.Command{
		Use:   "explore [analysis.json]",
		Short: "Browse an analysis tree interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd, args[0], configFile, ignoreFile)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file (default ~/.config/mosaic/config.toml)")
	cmd.Flags().StringVar(&ignoreFile, "ignore-file", "", "ignore-pattern file (default: .clocignore next to the input)")

	return cmd
}

func runExplore(cmd *cobra.Command, input, configFile, ignoreFile string) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	analysis, err := tree.Load(input)
	if err != nil {
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	if err := store.SetActiveAnalysis(analysis.AnalysisSet); err != nil {
		return err
	}
	store.SetLastSelectedAnalysis(analysis.AnalysisSet)

	var basePatterns []string
	if store.Current().Filters.HideClocignore {
		if data, err := os.ReadFile(ignoreFilePath(ignoreFile, input)); err == nil {
			basePatterns = ignore.ParsePatterns(string(data))
		}
	}

	shareBase, err := url.Parse(cfg.ShareBaseURL)
	if err != nil {
		return fmt.Errorf("parse share base URL: %w", err)
	}

	m := newExploreModel(store, analysis.Tree, basePatterns, shareBase)
	_, err = tea.NewProgram(m).Run()
	return err
}

// exploreRow is one child entry in the browser list.
type exploreRow struct {
	node   *tree.Node
	weight int
	fill   string
}

// exploreModel is the bubbletea model for the explore command. It keeps a
// navigation stack over the filtered tree and re-filters in place when the
// user adds an exclusion.
type exploreModel struct {
	store        *prefs.Store
	original     *tree.Node // unfiltered tree, filtering source
	basePatterns []string   // patterns from the ignore file, always applied
	shareBase    *url.URL

	root   *tree.Node
	stack  []*tree.Node
	rows   []exploreRow
	cursor int
	offset int
	height int
	status string
}

func newExploreModel(store *prefs.Store, original *tree.Node, basePatterns []string, shareBase *url.URL) exploreModel {
	m := exploreModel{
		store:        store,
		original:     original,
		basePatterns: basePatterns,
		shareBase:    shareBase,
		height:       15,
	}
	m.refilter()
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter", "right", "l":
			if row := m.selected(); row != nil && !row.node.IsLeaf() {
				m.drillInto(row.node)
			}
		case "backspace", "left", "h":
			if len(m.stack) > 1 {
				m.stack = m.stack[:len(m.stack)-1]
				m.rebuildRows()
			}
		case "c":
			m.cycleColorMode()
		case "u":
			m.store.SetCushion(!m.store.Current().Appearance.CushionTreemap)
			m.status = fmt.Sprintf("cushion shading: %v", m.store.Current().Appearance.CushionTreemap)
		case "x":
			m.excludeSelected()
		case "s":
			m.share()
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// selected returns the row under the cursor, or nil when the list is empty.
func (m *exploreModel) selected() *exploreRow {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

func (m *exploreModel) cycleColorMode() {
	mode := m.store.Current().Appearance.ColorMode
	next := colorModeOrder[0]
	for i, candidate := range colorModeOrder {
		if candidate == mode {
			next = colorModeOrder[(i+1)%len(colorModeOrder)]
			break
		}
	}
	if err := m.store.SetColorMode(next); err == nil {
		m.status = "color mode: " + next
		m.rebuildRows()
	}
}

func (m *exploreModel) excludeSelected() {
	row := m.selected()
	if row == nil || row.node.Path == "" {
		return
	}
	if err := m.store.AddExclusion(row.node.Path); err != nil {
		m.status = "exclude failed: " + err.Error()
		return
	}
	m.status = "excluded " + row.node.Path
	m.refilter()
}

func (m *exploreModel) share() {
	link, err := m.store.ShareCurrentView(m.shareBase)
	if err != nil {
		m.status = "share failed: " + err.Error()
		return
	}
	m.status = "copied " + link
}

// refilter reapplies the ignore file and enabled exclusions to the original
// tree and re-resolves the navigation stack against the filtered result,
// trimming it where an excluded node disappeared.
func (m *exploreModel) refilter() {
	patterns := append(append([]string{}, m.basePatterns...), m.store.EnabledPatterns()...)
	m.root = ignore.Filter(m.original, patterns)

	stack := []*tree.Node{m.root}
	if len(m.stack) > 1 {
		for _, prev := range m.stack[1:] {
			next := childByPath(stack[len(stack)-1], prev.Path)
			if next == nil {
				break
			}
			stack = append(stack, next)
		}
	}
	m.stack = stack
	m.rebuildRows()
}

// drillSink captures the drill-down event of one activation.
type drillSink struct {
	treemap.NoopSink
	drill *treemap.DrillDownEvent
}

func (s *drillSink) DrillDown(ev treemap.DrillDownEvent) { s.drill = &ev }

// discardSurface satisfies the drawing interface for event-only passes.
type discardSurface struct{}

func (discardSurface) Begin(float64, float64)                             {}
func (discardSurface) DrawRect(treemap.Rect, string, string, float64)     {}
func (discardSurface) DrawGradientRect(treemap.Rect, treemap.Gradient)    {}
func (discardSurface) DrawText(float64, float64, string, float64, string) {}
func (discardSurface) Finish() ([]byte, error)                            { return nil, nil }

// drillInto navigates into target by activating it through a render pass,
// so the navigation stack comes from the engine's drill-down event rather
// than being assembled by hand. The event path runs to the deepest node
// under the activation point; it is trimmed back to target's depth.
func (m *exploreModel) drillInto(target *tree.Node) {
	sink := &drillSink{}
	engine := treemap.NewEngine(treemap.WithSink(sink))
	p := m.store.Current()
	cfg := treemap.Config{
		ColorMode:         p.Appearance.ColorMode,
		ActivityTimeframe: p.Appearance.ActivityTimeframe,
		Cushion:           p.Appearance.CushionTreemap,
		HideFolderBorders: p.Appearance.HideFolderBorders,
		ShowRepoBorders:   p.Appearance.ShowRepoBorders,
	}
	current := m.stack[len(m.stack)-1]
	pass, _, err := engine.Render(current, m.stack, 1024, 768, cfg, discardSurface{})
	if err != nil {
		return
	}

	var ln *treemap.LayoutNode
	pass.Root().Walk(func(c *treemap.LayoutNode) {
		if c.Node == target {
			ln = c
		}
	})
	if ln == nil {
		return
	}
	pass.Activate((ln.Rect.X0+ln.Rect.X1)/2, (ln.Rect.Y0+ln.Rect.Y1)/2)
	if sink.drill == nil {
		return
	}

	stack := sink.drill.Path
	for i, n := range stack {
		if n == target {
			stack = stack[:i+1]
			break
		}
	}
	m.stack = stack
	m.rebuildRows()
}

// childByPath finds the direct child of n with the given path.
func childByPath(n *tree.Node, path string) *tree.Node {
	for _, c := range n.Children {
		if c.Path == path {
			return c
		}
	}
	return nil
}

// rebuildRows recomputes the child list of the current view, weight sorted
// with stable name ordering, and resolves a swatch color per row using the
// same scales the renderer uses.
func (m *exploreModel) rebuildRows() {
	current := m.stack[len(m.stack)-1]
	p := m.store.Current()
	lastYear := p.Appearance.ActivityTimeframe != treemap.Timeframe3Months

	rows := make([]exploreRow, 0, len(current.Children))
	for _, c := range current.Children {
		rows = append(rows, exploreRow{
			node:   c,
			weight: tree.Aggregate(c, func(n *tree.Node) int { return n.Value }),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].weight != rows[j].weight {
			return rows[i].weight > rows[j].weight
		}
		return rows[i].node.Name < rows[j].node.Name
	})

	byLanguage := map[string]string{}
	maxDepth, maxActivity := 0, 0
	switch p.Appearance.ColorMode {
	case treemap.ModeDepth:
		maxDepth = tree.FindMax(m.root, func(n *tree.Node, depth int) int { return depth })
	case treemap.ModeActivity:
		maxActivity = tree.FindMax(m.root, func(n *tree.Node, depth int) int {
			return n.CommitCount(lastYear)
		})
	case treemap.ModeContributors:
	default:
		byLanguage = colors.Assign(tree.CountLeafValues(m.root, func(n *tree.Node) string {
			return n.Language
		}))
	}

	for i := range rows {
		rows[i].fill = swatchFill(rows[i].node, p.Appearance.ColorMode, len(m.stack), maxDepth, maxActivity, lastYear, byLanguage)
	}

	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

// swatchFill resolves the list swatch color for one child node. Depth and
// activity apply to containers too; the categorical modes fall back to the
// neutral container fill for non-leaves.
func swatchFill(n *tree.Node, mode string, depth, maxDepth, maxActivity int, lastYear bool, byLanguage map[string]string) string {
	switch mode {
	case treemap.ModeDepth:
		return colors.ForDepth(depth, maxDepth)
	case treemap.ModeActivity:
		count := n.CommitCount(lastYear)
		if !n.IsLeaf() {
			count = tree.Aggregate(n, func(n *tree.Node) int { return n.CommitCount(lastYear) })
		}
		return colors.ForActivity(count, maxActivity)
	case treemap.ModeContributors:
		if !n.IsLeaf() {
			return "#262b33"
		}
		count := 0
		if n.Contributors != nil {
			count = n.Contributors.Count
		}
		return colors.ForContributors(count)
	default:
		if n.IsLeaf() && n.Language != "" {
			if c, ok := byLanguage[n.Language]; ok {
				return c
			}
			return colors.Overflow
		}
		return "#262b33"
	}
}

func (m exploreModel) View() string {
	var b strings.Builder

	names := make([]string, len(m.stack))
	for i, n := range m.stack {
		names[i] = n.Name
	}
	b.WriteString(StyleTitle.Render(strings.Join(names, " / ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ drill  ⌫ up  c color mode  u cushion  x exclude  s share  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  (no children)"))
		b.WriteString("\n")
	}

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		row := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(row.fill)).Render("■")
		line := fmt.Sprintf("%s%s %-32s %s", cursor, swatch, row.node.Name, listDimStyle.Render(rowDetail(row)))

		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if row.node.IsLeaf() {
			b.WriteString(listNormalStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Bold(true).Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  mode: %s", m.cursor+1, len(m.rows), m.store.Current().Appearance.ColorMode)))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("  " + m.status))
	}

	return b.String()
}

// rowDetail renders the dim annotation after a row name.
func rowDetail(row exploreRow) string {
	parts := []string{fmt.Sprintf("%d lines", row.weight)}
	if !row.node.IsLeaf() {
		parts = append(parts, fmt.Sprintf("%d items", len(row.node.Children)))
	} else if row.node.Language != "" {
		parts = append(parts, row.node.Language)
	}
	return strings.Join(parts, " · ")
}
