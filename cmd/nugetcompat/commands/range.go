package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
	"github.com/willibrandon/nugetcompat/observability"
	"github.com/willibrandon/nugetcompat/version"
)

// NewRangeCommand creates the range command with parse/best/safe/possible/trim subcommands
func NewRangeCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Work with NuGet version ranges",
		Long: `Parse version ranges and derive ranges from versions.

This command has five subcommands:
  - parse:    Parse a range and optionally test a version against it
  - best:     Pick the lowest version satisfying a range
  - safe:     Print the safe upgrade range of a version
  - possible: List the spellings a version may have been written with
  - trim:     Drop trailing zero components from a version

Examples:
  nugetcompat range parse "[1.0,2.0)" --version 1.5
  nugetcompat range best "(1.0,)" 1.0 1.1 2.0
  nugetcompat range safe 1.5
  nugetcompat range possible 1.1
  nugetcompat range trim 1.2.0.0`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newRangeParseCommand(console, cfg))
	cmd.AddCommand(newRangeBestCommand(console, cfg))
	cmd.AddCommand(newRangeSafeCommand(console, cfg))
	cmd.AddCommand(newRangePossibleCommand(console, cfg))
	cmd.AddCommand(newRangeTrimCommand(console, cfg))

	return cmd
}

// Range Parse Subcommand

type rangeParseOptions struct {
	version string
}

func newRangeParseCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	opts := &rangeParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <range>",
		Short: "Parse a version range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRangeParse(cmd.Context(), console, cfg, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.version, "version", "", "Version to test against the range")

	return cmd
}

func parseRange(ctx context.Context, expr string) (*version.Range, error) {
	_, span := observability.StartRangeSpan(ctx, expr)
	r, err := version.ParseVersionRange(expr)
	observability.EndSpanWithError(span, err)
	if err != nil {
		observability.RecordParseFailure("range")
		return nil, err
	}
	return r, nil
}

func parseVersion(s string) (*version.NuGetVersion, error) {
	v, err := version.Parse(s)
	if err != nil {
		observability.RecordParseFailure("version")
		return nil, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return v, nil
}

func runRangeParse(ctx context.Context, console *output.Console, cfg *config.Config, expr string, opts *rangeParseOptions) error {
	r, err := parseRange(ctx, expr)
	if err != nil {
		return err
	}

	result := output.RangeOutput{
		SchemaVersion:  output.CurrentSchemaVersion,
		Input:          expr,
		Range:          r.String(),
		Pretty:         r.PrettyPrint(),
		MinVersion:     r.MinVersion.String(),
		MaxVersion:     r.MaxVersion.String(),
		IsMinInclusive: r.MinInclusive,
		IsMaxInclusive: r.MaxInclusive,
	}

	if opts.version != "" {
		v, err := parseVersion(opts.version)
		if err != nil {
			return err
		}
		satisfies := r.Satisfies(v)
		result.Version = v.String()
		result.Satisfies = &satisfies
	}

	if jsonOutput(cfg) {
		return output.WriteJSON(console.Out(), result)
	}

	console.Printf("Range:  %s\n", result.Range)
	console.Printf("Pretty: %s\n", result.Pretty)
	if result.Satisfies != nil {
		if *result.Satisfies {
			console.Success("%s satisfies %s", result.Version, result.Range)
		} else {
			console.Warning("%s does not satisfy %s", result.Version, result.Range)
		}
	}
	return nil
}

// Range Best Subcommand

func newRangeBestCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "best <range> <version>...",
		Short: "Pick the lowest version satisfying a range",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRangeBest(cmd.Context(), console, cfg, args[0], args[1:])
		},
	}
}

func runRangeBest(ctx context.Context, console *output.Console, cfg *config.Config, expr string, candidates []string) error {
	r, err := parseRange(ctx, expr)
	if err != nil {
		return err
	}

	versions := make([]*version.NuGetVersion, 0, len(candidates))
	for _, c := range candidates {
		v, err := parseVersion(c)
		if err != nil {
			return err
		}
		versions = append(versions, v)
	}

	best := r.FindBestMatch(versions)
	if best == nil {
		return fmt.Errorf("no version satisfies %s", r.String())
	}

	if jsonOutput(cfg) {
		return output.WriteJSON(console.Out(), output.VersionOutput{
			SchemaVersion: output.CurrentSchemaVersion,
			Input:         expr,
			Best:          best.String(),
		})
	}
	console.Println(best.String())
	return nil
}

// Range Safe Subcommand

func newRangeSafeCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "safe <version>",
		Short: "Print the safe upgrade range of a version",
		Long: `Print the range from the version up to, but excluding, the next minor
version: 1.5 gives [1.5, 1.6).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			safe := version.GetSafeRange(v).String()
			if jsonOutput(cfg) {
				return output.WriteJSON(console.Out(), output.VersionOutput{
					SchemaVersion: output.CurrentSchemaVersion,
					Input:         args[0],
					SafeRange:     safe,
				})
			}
			console.Println(safe)
			return nil
		},
	}
}

// Range Possible Subcommand

func newRangePossibleCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "possible <version>",
		Short: "List the spellings a version may have been written with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			var spellings []string
			for p := range version.GetPossibleVersions(v) {
				spellings = append(spellings, p.String())
			}
			if jsonOutput(cfg) {
				return output.WriteJSON(console.Out(), output.VersionOutput{
					SchemaVersion: output.CurrentSchemaVersion,
					Input:         args[0],
					Spellings:     spellings,
				})
			}
			for _, s := range spellings {
				console.Println(s)
			}
			return nil
		},
	}
}

// Range Trim Subcommand

func newRangeTrimCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "trim <version>",
		Short: "Drop trailing zero components from a version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			trimmed := version.TrimVersion(v).String()
			if jsonOutput(cfg) {
				return output.WriteJSON(console.Out(), output.VersionOutput{
					SchemaVersion: output.CurrentSchemaVersion,
					Input:         args[0],
					Trimmed:       trimmed,
				})
			}
			console.Println(trimmed)
			return nil
		},
	}
}
