// Package cli holds the nugetcompat root command and the state shared by
// its subcommands.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
)

var rootCmd = &cobra.Command{
	Use:   "nugetcompat",
	Short: "NuGet target framework and version range toolkit",
	Long: `nugetcompat parses legacy NuGet target framework monikers and version
ranges, formats short folder names and decides whether a package built for
one framework can be consumed by a project targeting another.

Configuration is read from $HOME/.nugetcompat.yaml or --config, and can be
overridden with NUGETCOMPAT_* environment variables.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var (
	// Console is the global console for CLI commands
	Console *output.Console

	// Config is filled in place before any subcommand runs.
	Config *config.Config

	configFile string
	verbosity  string
	noColor    bool
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	Console = output.DefaultConsole()
	Config = config.Default()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is $HOME/.nugetcompat.yaml)")
	flags.String("profiles-file", "", "YAML portable profile catalog replacing the built-in one")
	flags.String("log-level", Config.LogLevel, "Log level (verbose, debug, info, warn, error)")
	flags.String("format", Config.Format, "Output format (text, json)")
	flags.StringVar(&verbosity, "verbosity", "normal", "Display verbosity (quiet, normal, detailed, diagnostic)")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// loadConfig binds the executing command's flags and resolves Config.
func loadConfig(cmd *cobra.Command, _ []string) error {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	*Config = *cfg

	level, err := output.ParseVerbosity(verbosity)
	if err != nil {
		return err
	}
	Console.SetVerbosity(level)
	if noColor {
		Console.SetColors(false)
	}

	if cfg.File != "" {
		Console.Debug("Using config file %s", cfg.File)
	}
	return nil
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}
