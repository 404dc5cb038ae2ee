package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/cli"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
	buildversion "github.com/willibrandon/nugetcompat/cmd/nugetcompat/version"
	"github.com/willibrandon/nugetcompat/frameworks"
)

// NewVersionCommand creates the version command
func NewVersionCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long: `Display version information including commit, build date and Go version.

With --verbosity detailed the active portable profile catalog and the
compatibility rules are listed too. --format json always includes them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(console, cfg)
		},
	}

	return cmd
}

func runVersion(console *output.Console, cfg *config.Config) error {
	detailed := jsonOutput(cfg) || console.GetVerbosity() >= output.VerbosityDetailed
	if !detailed {
		console.Println(cli.GetFullVersion())
		return nil
	}

	// Loading the catalog surfaces a broken --profiles-file here too.
	engine, err := newEngine(cfg, newLogger(console, cfg))
	if err != nil {
		return err
	}

	info := buildversion.Current()
	result := output.BuildOutput{
		SchemaVersion: output.CurrentSchemaVersion,
		Version:       info.Version,
		Commit:        info.Commit,
		Built:         info.Date,
		Go:            info.GoVersion,
		Modified:      info.Modified,
		CatalogSource: catalogSource(cfg),
		Profiles:      engine.Catalog().Len(),
		Rules:         frameworks.Rules(),
	}

	if jsonOutput(cfg) {
		return output.WriteJSON(console.Out(), result)
	}

	console.Println(cli.GetFullVersion())
	console.Printf("catalog: %s (%d profiles)\n", result.CatalogSource, result.Profiles)
	console.Printf("rules: %s\n", strings.Join(result.Rules, ", "))
	console.Printf("schema: %s\n", result.SchemaVersion)
	return nil
}
