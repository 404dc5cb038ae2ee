package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
	"github.com/willibrandon/nugetcompat/frameworks"
)

// Folder parsing modes.
const (
	folderModeFile    = "file"
	folderModeStrict  = "strict"
	folderModeLenient = "lenient"
)

type folderOptions struct {
	mode string
}

// NewFolderCommand creates the folder command
func NewFolderCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	opts := &folderOptions{}

	cmd := &cobra.Command{
		Use:   "folder <path>...",
		Short: "Read the framework folder of package-relative paths",
		Long: `Read the framework folder of package-relative paths.

Modes:
  file     strip lib, content, tools or build, then parse the next folder leniently (default)
  strict   parse the first folder; unknown names yield Unsupported
  lenient  parse the first folder; unknown names leave the path unchanged

Examples:
  nugetcompat folder lib/net40/foo.dll
  nugetcompat folder --mode strict "sl4\foo.dll"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFolder(console, cfg, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", folderModeFile, "Parsing mode (file, strict, lenient)")

	return cmd
}

func runFolder(console *output.Console, cfg *config.Config, paths []string, opts *folderOptions) error {
	engine, err := newEngine(cfg, newLogger(console, cfg))
	if err != nil {
		return err
	}

	results := make([]output.FolderOutput, 0, len(paths))
	for _, p := range paths {
		var fw *frameworks.NuGetFramework
		var rest string
		switch opts.mode {
		case folderModeFile:
			fw, rest = engine.ParseFilePath(p)
		case folderModeStrict, folderModeLenient:
			fw, rest = engine.ParseFolderName(p, opts.mode == folderModeStrict)
		default:
			return fmt.Errorf("invalid mode %q, expected file, strict or lenient", opts.mode)
		}
		results = append(results, output.FolderOutput{
			SchemaVersion: output.CurrentSchemaVersion,
			Path:          p,
			Framework:     frameworkOutput(engine, "", fw),
			Rest:          rest,
		})
	}

	if jsonOutput(cfg) {
		return output.WriteJSON(console.Out(), results)
	}

	for _, r := range results {
		name := "(none)"
		if r.Framework != nil {
			name = r.Framework.ShortName
		}
		console.Printf("%s\t%s\t%s\n", r.Path, name, r.Rest)
	}
	return nil
}
