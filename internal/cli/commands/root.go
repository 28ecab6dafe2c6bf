package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"entity-mapper/internal/analyze"
	"entity-mapper/internal/cli/config"
	"entity-mapper/internal/cli/ui"
)

var errNoPackages = errors.New("no package patterns given (pass them as arguments or set packages in entity-mapper.yaml)")

// app carries the state shared by subcommands once the configuration is loaded.
type app struct {
	configDir string
	cfg       *config.Config
	log       zerolog.Logger
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "entity-mapper",
		Short: "Entity-aware object graph mapping tooling",
		Long: color.CyanString(`entity-mapper - tooling for the entity-aware object graph mapper

Scans Go packages for entity types tagged with mapper:"key" members and
validates YAML mapping files against the loaded types.`),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configDir, "config-dir", "", "directory holding entity-mapper.yaml (default: current directory)")
	flags.String("log-level", "", "log level: trace, debug, info, warn or error")
	flags.Bool("no-color", false, "disable coloured output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newScanCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v := config.New(a.configDir)

	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("log_level", flags.Lookup("log-level")); err != nil {
		return err
	}

	if err := v.BindPFlag("no_color", flags.Lookup("no-color")); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.Kitchen,
		NoColor:    cfg.NoColor,
	}).Level(cfg.Level()).With().Timestamp().Logger()

	if used := v.ConfigFileUsed(); used != "" {
		a.log.Debug().Str("file", used).Msg("loaded config")
	}

	return nil
}

func (a *app) printer(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout(), a.cfg.NoColor)
}

// loadGraph loads the given patterns, falling back to the configured packages.
func (a *app) loadGraph(patterns []string) (*analyze.TypeGraph, []string, error) {
	if len(patterns) == 0 {
		patterns = a.cfg.Packages
	}

	if len(patterns) == 0 {
		return nil, nil, errNoPackages
	}

	start := time.Now()

	graph, err := analyze.NewAnalyzer(a.cfg.Dir).LoadPackages(patterns...)
	if err != nil {
		return nil, patterns, err
	}

	a.log.Debug().
		Strs("patterns", patterns).
		Int("types", len(graph.Types)).
		Dur("took", time.Since(start)).
		Msg("loaded packages")

	return graph, patterns, nil
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)

		return fmt.Errorf("entity-mapper: %w", err)
	}

	return nil
}
