// Package commands implements the nugetcompat subcommands.
package commands

import (
	"context"
	"fmt"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
	"github.com/willibrandon/nugetcompat/frameworks"
	"github.com/willibrandon/nugetcompat/observability"
)

// newLogger logs to the console's error stream so JSON results stay clean.
func newLogger(console *output.Console, cfg *config.Config) observability.Logger {
	return observability.NewLogger(console.Err(), cfg.Level())
}

// newEngine builds the engine for cfg. Every top-level decision is counted.
func newEngine(cfg *config.Config, logger observability.Logger) (*frameworks.Engine, error) {
	opts := []frameworks.Option{
		frameworks.WithDecisionHook(func(d frameworks.Decision) {
			observability.RecordCompatDecision(d.Rule, d.Compatible)
		}),
	}

	if cfg.ProfilesFile != "" {
		catalog, err := frameworks.LoadProfileCatalogFile(cfg.ProfilesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile catalog: %w", err)
		}
		logger.Debug("Loaded {Count} portable profiles from {File}", catalog.Len(), cfg.ProfilesFile)
		opts = append(opts, frameworks.WithCatalog(catalog))
	}

	engine := frameworks.NewEngine(opts...)
	observability.ProfileCatalogSize.Set(float64(engine.Catalog().Len()))
	return engine, nil
}

// catalogSource names where the engine's catalog came from.
func catalogSource(cfg *config.Config) string {
	if cfg.ProfilesFile != "" {
		return cfg.ProfilesFile
	}
	return "builtin"
}

func jsonOutput(cfg *config.Config) bool {
	return cfg.Format == config.FormatJSON
}

// parseMoniker parses one moniker inside a trace span and counts failures.
func parseMoniker(ctx context.Context, engine *frameworks.Engine, moniker string) (*frameworks.NuGetFramework, error) {
	_, span := observability.StartParseSpan(ctx, moniker)
	fw, err := engine.Parse(moniker)
	if err != nil {
		observability.RecordParseFailure("framework")
		observability.EndSpanWithError(span, err)
		return nil, fmt.Errorf("invalid framework %q: %w", moniker, err)
	}
	if fw.IsUnsupported() {
		observability.UnsupportedFrameworksTotal.Inc()
	}
	span.SetAttributes(observability.AttrFramework.String(fw.String()))
	observability.EndSpanWithError(span, nil)
	return fw, nil
}

func parseMonikers(ctx context.Context, engine *frameworks.Engine, monikers []string) ([]*frameworks.NuGetFramework, error) {
	out := make([]*frameworks.NuGetFramework, 0, len(monikers))
	for _, m := range monikers {
		fw, err := parseMoniker(ctx, engine, m)
		if err != nil {
			return nil, err
		}
		out = append(out, fw)
	}
	return out, nil
}

func frameworkOutput(engine *frameworks.Engine, input string, fw *frameworks.NuGetFramework) *output.FrameworkOutput {
	if fw == nil {
		return nil
	}
	return &output.FrameworkOutput{
		Input:       input,
		Identifier:  fw.Identifier,
		Version:     fw.Version.String(),
		Profile:     fw.Profile,
		FullName:    fw.String(),
		ShortName:   engine.ShortName(fw),
		Portable:    fw.IsPortable(),
		Unsupported: fw.IsUnsupported(),
	}
}

func printFramework(console *output.Console, f *output.FrameworkOutput) {
	console.Header("%s", f.Input)
	console.Printf("  Identifier: %s\n", f.Identifier)
	console.Printf("  Version:    %s\n", f.Version)
	if f.Profile != "" {
		console.Printf("  Profile:    %s\n", f.Profile)
	}
	console.Printf("  Full name:  %s\n", f.FullName)
	console.Printf("  Short name: %s\n", f.ShortName)
	if f.Unsupported {
		console.Warning("%q is not a recognized framework", f.Input)
	}
}
