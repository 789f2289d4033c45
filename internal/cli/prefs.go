package cli

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mosaicviz/mosaic/pkg/prefs"
)

// newPrefsCmd creates the prefs command group for inspecting and editing
// persisted preferences.
func newPrefsCmd() *cobra.Command {
	var analysisName string
	var configFile string

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect and edit persisted preferences",
	}
	cmd.PersistentFlags().StringVarP(&analysisName, "analysis", "a", "", "analysis record to operate on (default: last selected)")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/mosaic/config.toml)")

	open := func(cmd *cobra.Command) (*prefs.Store, Config, error) {
		cfg, err := loadConfig(configFile)
		if err != nil {
			return nil, Config{}, fmt.Errorf("load config: %w", err)
		}
		store, err := openStore(cfg, loggerFromContext(cmd.Context()))
		if err != nil {
			return nil, Config{}, err
		}
		name := analysisName
		if name == "" {
			name = store.Global().LastSelectedAnalysis
		}
		if name != "" {
			if err := store.SetActiveAnalysis(name); err != nil {
				return nil, Config{}, err
			}
		}
		return store, cfg, nil
	}

	cmd.AddCommand(
		newPrefsShowCmd(open),
		newPrefsSetCmd(open),
		newPrefsResetCmd(open),
		newPrefsExportCmd(open),
		newPrefsImportCmd(open),
		newPrefsExcludeCmd(open),
		newPrefsShareCmd(open),
	)
	return cmd
}

// storeOpener binds the shared flag handling of the prefs group.
type storeOpener func(cmd *cobra.Command) (*prefs.Store, Config, error)

func newPrefsShowCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := open(cmd)
			if err != nil {
				return err
			}
			p := store.Current()

			if store.ActiveAnalysis() != "" {
				printKeyValue("Analysis", store.ActiveAnalysis())
			}
			printKeyValue("Color mode", p.Appearance.ColorMode)
			printKeyValue("Timeframe", p.Appearance.ActivityTimeframe)
			printKeyValue("Cushion", strconv.FormatBool(p.Appearance.CushionTreemap))
			printKeyValue("Hide folder borders", strconv.FormatBool(p.Appearance.HideFolderBorders))
			printKeyValue("Show repo borders", strconv.FormatBool(p.Appearance.ShowRepoBorders))
			printKeyValue("Honor .clocignore", strconv.FormatBool(p.Filters.HideClocignore))
			printExclusions(p.Filters.CustomExclusions)
			return nil
		},
	}
}

// printExclusions renders the exclusion list beneath the key/value block.
func printExclusions(exclusions []prefs.Exclusion) {
	if len(exclusions) == 0 {
		return
	}
	printNewline()
	printInfo("Exclusions")
	for _, e := range exclusions {
		state := "on"
		if !e.Enabled {
			state = "off"
		}
		printDetail("%s (%s)", e.Pattern, state)
	}
}

// settable maps prefs set keys to their store mutations.
var settable = map[string]func(*prefs.Store, string) error{
	"color-mode": func(s *prefs.Store, v string) error { return s.SetColorMode(v) },
	"timeframe":  func(s *prefs.Store, v string) error { return s.SetActivityTimeframe(v) },
	"cushion": func(s *prefs.Store, v string) error {
		return setBool(v, s.SetCushion)
	},
	"hide-folder-borders": func(s *prefs.Store, v string) error {
		return setBool(v, s.SetHideFolderBorders)
	},
	"show-repo-borders": func(s *prefs.Store, v string) error {
		return setBool(v, s.SetShowRepoBorders)
	},
	"hide-clocignore": func(s *prefs.Store, v string) error {
		return setBool(v, s.SetHideClocignore)
	},
}

func setBool(v string, apply func(bool)) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid boolean: %s", v)
	}
	apply(b)
	return nil
}

func newPrefsSetCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference (color-mode, timeframe, cushion, hide-folder-borders, show-repo-borders, hide-clocignore)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := open(cmd)
			if err != nil {
				return err
			}
			apply, ok := settable[args[0]]
			if !ok {
				return fmt.Errorf("unknown preference: %s", args[0])
			}
			if err := apply(store, args[1]); err != nil {
				return err
			}
			printSuccess("Set %s to %s", args[0], args[1])
			return nil
		},
	}
}

func newPrefsResetCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset preferences to their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := open(cmd)
			if err != nil {
				return err
			}
			store.ResetPreferences()
			printSuccess("Preferences reset")
			return nil
		},
	}
}

func newPrefsExportCmd(open storeOpener) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export preferences as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := open(cmd)
			if err != nil {
				return err
			}
			data, err := store.ExportPreferences()
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newPrefsImportCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import preferences from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := open(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := store.ImportPreferences(data); err != nil {
				return err
			}
			printSuccess("Preferences imported from %s", args[0])
			return nil
		},
	}
}

func newPrefsExcludeCmd(open storeOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exclude",
		Short: "Manage exclusion patterns",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <pattern>",
			Short: "Add an exclusion pattern",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, _, err := open(cmd)
				if err != nil {
					return err
				}
				if err := store.AddExclusion(args[0]); err != nil {
					return err
				}
				printSuccess("Excluded %s", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <pattern>",
			Short: "Remove an exclusion pattern",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, _, err := open(cmd)
				if err != nil {
					return err
				}
				store.RemoveExclusion(args[0])
				printSuccess("Removed %s", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle <pattern>",
			Short: "Enable or disable an exclusion pattern",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, _, err := open(cmd)
				if err != nil {
					return err
				}
				store.ToggleExclusion(args[0])
				printSuccess("Toggled %s", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List exclusion patterns",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, _, err := open(cmd)
				if err != nil {
					return err
				}
				exclusions := store.Current().Filters.CustomExclusions
				if len(exclusions) == 0 {
					printInfo("No exclusions")
					return nil
				}
				printExclusions(exclusions)
				return nil
			},
		},
	)
	return cmd
}

func newPrefsShareCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "share",
		Short: "Copy a link encoding the current view settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := open(cmd)
			if err != nil {
				return err
			}
			base, err := url.Parse(cfg.ShareBaseURL)
			if err != nil {
				return fmt.Errorf("parse share base URL: %w", err)
			}
			link, err := store.ShareCurrentView(base)
			if err != nil {
				return err
			}
			printSuccess("Copied to clipboard")
			printDetail("%s", StyleLink.Render(link))
			return nil
		},
	}
}
