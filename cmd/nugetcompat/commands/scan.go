package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
	"github.com/willibrandon/nugetcompat/frameworks"
	"github.com/willibrandon/nugetcompat/observability"
)

type scanOptions struct {
	projects []string
}

// NewScanCommand creates the scan command
func NewScanCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "List the frameworks of an extracted package",
		Long: `Walk an extracted package directory and report the framework folder of
every file under lib, content, tools and build.

With --project, each file is also checked against the project frameworks; a
file fits when any of them can consume it. With exactly one project the
nearest package framework is reported too.

Examples:
  nugetcompat scan ./packages/Newtonsoft.Json.6.0.8
  nugetcompat scan ./pkg --project net45 --project win81`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), console, cfg, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.projects, "project", nil, "Project framework to check files against (repeatable)")

	return cmd
}

func runScan(ctx context.Context, console *output.Console, cfg *config.Config, root string, opts *scanOptions) (err error) {
	start := time.Now()
	logger := newLogger(console, cfg)

	ctx, span := observability.StartScanSpan(ctx, root)
	defer func() { observability.EndSpanWithError(span, err) }()

	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	projects, err := parseMonikers(ctx, engine, opts.projects)
	if err != nil {
		return err
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("failed to scan %s: not a directory", root)
	}

	result := output.ScanOutput{
		SchemaVersion: output.CurrentSchemaVersion,
		Root:          root,
		Frameworks:    []string{},
		Files:         []output.ScanEntry{},
	}
	if len(projects) > 0 {
		result.Project = joinShortNames(engine, projects)
	}

	var found []*frameworks.NuGetFramework
	seen := make(map[string]bool)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		entry := output.ScanEntry{Path: rel}
		fw, _ := engine.ParseFilePath(rel)
		if fw != nil {
			entry.Framework = engine.ShortName(fw)
			if !seen[entry.Framework] {
				seen[entry.Framework] = true
				found = append(found, fw)
				result.Frameworks = append(result.Frameworks, entry.Framework)
			}
			if len(projects) > 0 {
				compatible := engine.AnyProjectCompatible(projects, fw)
				entry.Compatible = &compatible
			}
		}
		logger.Verbose("Scanned {Path} -> {Framework}", rel, entry.Framework)
		result.Files = append(result.Files, entry)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}

	if len(projects) == 1 {
		if nearest := engine.GetNearest(projects[0], found); nearest != nil {
			result.Nearest = engine.ShortName(nearest)
		}
	}

	span.SetAttributes(observability.AttrScanFileCount.Int(len(result.Files)))
	result.ElapsedMs = output.MeasureElapsed(start)

	if jsonOutput(cfg) {
		return output.WriteJSON(console.Out(), result)
	}
	printScan(console, &result)
	return nil
}

func joinShortNames(engine *frameworks.Engine, fws []*frameworks.NuGetFramework) string {
	names := make([]string, len(fws))
	for i, fw := range fws {
		names[i] = engine.ShortName(fw)
	}
	return strings.Join(names, ", ")
}

func printScan(console *output.Console, result *output.ScanOutput) {
	console.Header("Frameworks in %s", result.Root)
	if len(result.Frameworks) == 0 {
		console.Info("No framework folders found")
	}
	for _, f := range result.Frameworks {
		console.Printf("  %s\n", f)
	}
	if result.Nearest != "" {
		console.Info("Nearest for %s: %s", result.Project, result.Nearest)
	}

	console.Detail("")
	for _, f := range result.Files {
		line := f.Path
		if f.Framework != "" {
			line += "  [" + f.Framework + "]"
		}
		if f.Compatible != nil && !*f.Compatible {
			line += "  incompatible"
		}
		console.Detail("  %s", line)
	}
	console.Detail("Scanned %d files in %dms", len(result.Files), result.ElapsedMs)
}
