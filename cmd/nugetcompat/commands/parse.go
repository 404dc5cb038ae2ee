package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
)

// NewParseCommand creates the parse command
func NewParseCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <moniker>...",
		Short: "Parse target framework monikers",
		Long: `Parse one or more target framework monikers and print their identifier,
version, profile, long display name and short folder name.

Unknown identifiers are reported as Unsupported rather than rejected.

Examples:
  nugetcompat parse net40-client
  nugetcompat parse portable-net45+win8 sl3-wp winrt45
  nugetcompat parse --format json dnxcore50`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), console, cfg, args)
		},
	}

	return cmd
}

func runParse(ctx context.Context, console *output.Console, cfg *config.Config, monikers []string) error {
	logger := newLogger(console, cfg)
	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	results := make([]*output.FrameworkOutput, 0, len(monikers))
	for _, m := range monikers {
		fw, err := parseMoniker(ctx, engine, m)
		if err != nil {
			return err
		}
		results = append(results, frameworkOutput(engine, m, fw))
	}

	if jsonOutput(cfg) {
		for _, r := range results {
			r.SchemaVersion = output.CurrentSchemaVersion
		}
		if len(results) == 1 {
			return output.WriteJSON(console.Out(), results[0])
		}
		return output.WriteJSON(console.Out(), results)
	}

	for _, r := range results {
		printFramework(console, r)
	}
	return nil
}
