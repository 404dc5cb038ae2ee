package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
	"github.com/willibrandon/nugetcompat/frameworks"
	"github.com/willibrandon/nugetcompat/observability"
)

// NewShortCommand creates the short command
func NewShortCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "short <framework>...",
		Short: "Print the short folder name of a framework",
		Long: `Print the short folder name for each framework. Arguments containing a
comma are read as long display names (".NETFramework,Version=v4.0,Profile=Client"),
anything else as a moniker.

Examples:
  nugetcompat short ".NETFramework,Version=v4.0,Profile=Client"
  nugetcompat short winrt45 "Silverlight, Version=4.0, Profile=WindowsPhone71"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShort(cmd.Context(), console, cfg, args)
		},
	}

	return cmd
}

func runShort(ctx context.Context, console *output.Console, cfg *config.Config, names []string) error {
	engine, err := newEngine(cfg, newLogger(console, cfg))
	if err != nil {
		return err
	}

	results := make([]*output.FrameworkOutput, 0, len(names))
	for _, name := range names {
		fw, err := parseAnyName(ctx, engine, name)
		if err != nil {
			return err
		}
		results = append(results, frameworkOutput(engine, name, fw))
	}

	if jsonOutput(cfg) {
		for _, r := range results {
			r.SchemaVersion = output.CurrentSchemaVersion
		}
		return output.WriteJSON(console.Out(), results)
	}

	for _, r := range results {
		console.Println(r.ShortName)
	}
	return nil
}

// parseAnyName accepts a long display name or a moniker.
func parseAnyName(ctx context.Context, engine *frameworks.Engine, name string) (*frameworks.NuGetFramework, error) {
	if !strings.Contains(name, ",") {
		return parseMoniker(ctx, engine, name)
	}
	fw, err := frameworks.ParseFullFrameworkName(name)
	if err != nil {
		observability.RecordParseFailure("framework")
		return nil, fmt.Errorf("invalid framework name %q: %w", name, err)
	}
	return fw, nil
}
