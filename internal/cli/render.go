package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/ignore"
	"github.com/mosaicviz/mosaic/pkg/prefs"
	"github.com/mosaicviz/mosaic/pkg/tree"
	"github.com/mosaicviz/mosaic/pkg/treemap"
	"github.com/mosaicviz/mosaic/pkg/treemap/sink"
)

// debounceDelay batches rapid file-change bursts into one re-render.
const debounceDelay = 200 * time.Millisecond

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple formats)
	formats    []string // output formats: "svg", "png", "json"
	width      float64  // viewport width in pixels
	height     float64  // viewport height in pixels
	view       string   // node path to drill into before rendering
	colorMode  string   // override the persisted color mode
	timeframe  string   // override the persisted activity timeframe
	cushion    bool     // override cushion shading
	cushionSet bool     // whether --cushion was given explicitly
	ignoreFile string   // explicit ignore-file path
	watch      bool     // re-render when the inputs change
	configFile string   // alternate config.toml location
}

// newRenderCmd creates the render command for generating treemap images
// from an analysis document.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [analysis.json]",
		Short: "Render an analysis tree as a treemap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.colorMode != "" {
				if err := errors.ValidateColorMode(opts.colorMode); err != nil {
					return err
				}
			}
			if opts.timeframe != "" {
				if err := errors.ValidateTimeframe(opts.timeframe); err != nil {
					return err
				}
			}
			opts.cushionSet = cmd.Flags().Changed("cushion")
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().StringVar(&opts.view, "view", "", "node path to drill into before rendering")
	cmd.Flags().StringVar(&opts.colorMode, "color-mode", "", "color mode: depth, filetype, activity, contributors")
	cmd.Flags().StringVar(&opts.timeframe, "timeframe", "", "activity timeframe: 3months, 1year")
	cmd.Flags().BoolVar(&opts.cushion, "cushion", true, "cushion shading")
	cmd.Flags().StringVar(&opts.ignoreFile, "ignore-file", "", "ignore-pattern file (default: .clocignore next to the input)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the analysis or ignore file changes")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "config file (default ~/.config/mosaic/config.toml)")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "png": true, "json": true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'png', or 'json')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output carries
// a known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// ignoreFilePath returns the ignore file to honor for input: the explicit
// flag value when given, otherwise .clocignore next to the input.
func ignoreFilePath(explicit, input string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(filepath.Dir(input), ".clocignore")
}

func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.width <= 0 {
		opts.width = cfg.Width
	}
	if opts.height <= 0 {
		opts.height = cfg.Height
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	if err := renderOnce(ctx, input, opts, cfg, store); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return watchAndRender(ctx, input, opts, cfg, store)
}

// openStore builds the preference store over the configured backend.
func openStore(cfg Config, logger *log.Logger) (*prefs.Store, error) {
	backend, err := prefs.NewFileBackend(cfg.PrefsDir)
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}
	return prefs.NewStore(backend, prefs.WithLogger(logger)), nil
}

// renderOnce performs one complete load, filter, layout, and render pass
// and writes every requested format.
func renderOnce(ctx context.Context, input string, opts *renderOpts, cfg Config, store *prefs.Store) error {
	logger := loggerFromContext(ctx)
	logger.Debugf("Rendering %s", input)

	spin := newSpinnerWithContext(ctx, "Loading analysis...")
	spin.Start()
	analysis, err := tree.Load(input)
	if err != nil {
		spin.StopWithError("Failed to load analysis")
		return err
	}
	spin.StopWithSuccess(fmt.Sprintf("Loaded %s", input))
	printInfo("%s", StyleTitle.Render(analysis.AnalysisSet))
	printAnalysisStats(analysis)

	if err := store.SetActiveAnalysis(analysis.AnalysisSet); err != nil {
		return err
	}
	store.SetLastSelectedAnalysis(analysis.AnalysisSet)
	p := store.Current()
	view := buildViewConfig(p, opts)

	patterns := store.EnabledPatterns()
	if p.Filters.HideClocignore {
		path := ignoreFilePath(opts.ignoreFile, input)
		if data, err := os.ReadFile(path); err == nil {
			patterns = append(ignore.ParsePatterns(string(data)), patterns...)
			logger.Debugf("Loaded ignore file %s", path)
		} else if opts.ignoreFile != "" {
			return fmt.Errorf("read ignore file: %w", err)
		}
	}

	filtered := ignore.Filter(analysis.Tree, patterns)
	stack, err := buildStack(filtered, opts.view)
	if err != nil {
		return err
	}
	current := stack[len(stack)-1]

	engine := treemap.NewEngine()
	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		prog := newProgress(logger)
		surf := surfaceFor(format, cfg)

		pass, data, err := engine.Render(current, stack, opts.width, opts.height, view, surf)
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Rendered %d rectangles as %s", pass.Root().Count(), format))

		path := outputPath(base, opts, format)
		if path == input {
			// Never clobber the input document (analysis.json + json format).
			path = base + "-treemap." + format
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// buildViewConfig maps the persisted preferences onto a render config and
// applies explicit flag overrides without persisting them.
func buildViewConfig(p prefs.AnalysisPreferences, opts *renderOpts) treemap.Config {
	view := treemap.Config{
		ColorMode:         p.Appearance.ColorMode,
		ActivityTimeframe: p.Appearance.ActivityTimeframe,
		Cushion:           p.Appearance.CushionTreemap,
		HideFolderBorders: p.Appearance.HideFolderBorders,
		ShowRepoBorders:   p.Appearance.ShowRepoBorders,
	}
	if opts.colorMode != "" {
		view.ColorMode = opts.colorMode
	}
	if opts.timeframe != "" {
		view.ActivityTimeframe = opts.timeframe
	}
	if opts.cushionSet {
		view.Cushion = opts.cushion
	}
	return view
}

// buildStack resolves the --view drill path into a navigation stack from
// the tree root down to the requested node.
func buildStack(root *tree.Node, viewPath string) ([]*tree.Node, error) {
	if viewPath == "" {
		return []*tree.Node{root}, nil
	}
	stack := findChain(root, viewPath)
	if stack == nil {
		return nil, errors.New(errors.ErrCodePathNotFound, "view path not found: %s", viewPath)
	}
	return stack, nil
}

// findChain returns the node chain from root to the node whose Path equals
// target, or nil when no such node exists.
func findChain(n *tree.Node, target string) []*tree.Node {
	if n == nil {
		return nil
	}
	if n.Path == target {
		return []*tree.Node{n}
	}
	for _, c := range n.Children {
		if chain := findChain(c, target); chain != nil {
			return append([]*tree.Node{n}, chain...)
		}
	}
	return nil
}

// surfaceFor returns a fresh drawing surface for the given format.
func surfaceFor(format string, cfg Config) treemap.Surface {
	switch format {
	case "png":
		return sink.NewPNG(sink.WithScale(cfg.PNGScale))
	case "json":
		return sink.NewJSON()
	default:
		return sink.NewSVG()
	}
}

// outputPath builds the file path for one format.
func outputPath(base string, opts *renderOpts, format string) string {
	if opts.output != "" && len(opts.formats) == 1 {
		return opts.output
	}
	return base + "." + format
}

// watchAndRender blocks, re-running renderOnce whenever the analysis file
// or its ignore file changes, until interrupted.
func watchAndRender(ctx context.Context, input string, opts *renderOpts, cfg Config, store *prefs.Store) error {
	logger := loggerFromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the containing directories; editors often replace files
	// atomically, which unregisters direct file watches.
	dirs := map[string]bool{filepath.Dir(input): true}
	dirs[filepath.Dir(ignoreFilePath(opts.ignoreFile, input))] = true
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	interesting := map[string]bool{
		filepath.Clean(input):                                  true,
		filepath.Clean(ignoreFilePath(opts.ignoreFile, input)): true,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	printInfo("Watching for changes (ctrl-c to stop)")

	var debounce *time.Timer
	rerender := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !interesting[filepath.Clean(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case rerender <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-rerender:
			if err := renderOnce(ctx, input, opts, cfg, store); err != nil {
				printWarning("re-render failed: %v", err)
			}
		}
	}
}
