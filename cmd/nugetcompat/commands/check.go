package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
	"github.com/willibrandon/nugetcompat/observability"
)

// ErrIncompatible is returned by check when no package framework fits.
var ErrIncompatible = errors.New("no compatible package framework")

// NewCheckCommand creates the check command
func NewCheckCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <project> [package...]",
		Short: "Check whether package frameworks fit a project",
		Long: `Decide, for each package framework, whether a project targeting <project>
can consume it. The command fails when none of the package frameworks fit;
an empty package list fits every project.

Use --verbosity detailed to see the rule that decided each verdict.

Examples:
  nugetcompat check net45 net40 sl4
  nugetcompat check portable-net45+win8 netstandard1.1
  nugetcompat check --format json dnx451 aspnet50 net452`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), console, cfg, args[0], args[1:])
		},
	}

	return cmd
}

func runCheck(ctx context.Context, console *output.Console, cfg *config.Config, projectName string, packageNames []string) error {
	logger := newLogger(console, cfg)
	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	project, err := parseMoniker(ctx, engine, projectName)
	if err != nil {
		return err
	}
	packages, err := parseMonikers(ctx, engine, packageNames)
	if err != nil {
		return err
	}

	// An empty package list is compatible with every project
	result := output.CheckOutput{
		SchemaVersion: output.CurrentSchemaVersion,
		Project:       engine.ShortName(project),
		Compatible:    len(packages) == 0,
		Decisions:     make([]output.DecisionOutput, 0, len(packages)),
	}

	for _, pkg := range packages {
		spanCtx, span := observability.StartCompatibilitySpan(ctx, project.String(), pkg.String())
		d := engine.Explain(project, pkg)
		observability.RecordDecision(spanCtx, d.Rule, d.Compatible)
		observability.EndSpanWithError(span, nil)

		logger.Debug("{Project} vs {Package}: {Rule} -> {Compatible}", result.Project, engine.ShortName(pkg), d.Rule, d.Compatible)
		result.Decisions = append(result.Decisions, output.DecisionOutput{
			Package:    engine.ShortName(pkg),
			Rule:       d.Rule,
			Compatible: d.Compatible,
		})
		result.Compatible = result.Compatible || d.Compatible
	}

	if nearest := engine.GetNearest(project, packages); nearest != nil {
		result.Nearest = engine.ShortName(nearest)
	}

	if jsonOutput(cfg) {
		if err := output.WriteJSON(console.Out(), result); err != nil {
			return err
		}
	} else {
		printCheck(console, &result)
	}

	if !result.Compatible {
		return fmt.Errorf("%w for %s", ErrIncompatible, result.Project)
	}
	return nil
}

func printCheck(console *output.Console, result *output.CheckOutput) {
	console.Header("Project %s", result.Project)
	for _, d := range result.Decisions {
		verdict := "incompatible"
		if d.Compatible {
			verdict = "compatible"
		}
		console.Printf("  %-32s %s\n", d.Package, verdict)
		console.Detail("    rule: %s", d.Rule)
	}
	if result.Nearest != "" {
		console.Info("Nearest: %s", result.Nearest)
	}
	if result.Compatible {
		console.Success("Compatible")
	}
}
