package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
	"github.com/willibrandon/nugetcompat/frameworks"
)

// NewProfilesCommand creates the profiles command
func NewProfilesCommand(console *output.Console, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles [name...]",
		Short: "List portable class library profiles",
		Long: `List the portable profiles of the active catalog, or only the named ones.

The catalog is built in unless --profiles-file (or profiles_file in the config
file) points at a YAML catalog.

Examples:
  nugetcompat profiles
  nugetcompat profiles Profile7 Profile259
  nugetcompat --profiles-file ./profiles.yaml profiles`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfiles(console, cfg, args)
		},
	}

	return cmd
}

func runProfiles(console *output.Console, cfg *config.Config, names []string) error {
	engine, err := newEngine(cfg, newLogger(console, cfg))
	if err != nil {
		return err
	}
	catalog := engine.Catalog()

	profiles := catalog.Profiles()
	if len(names) > 0 {
		profiles = profiles[:0:0]
		for _, name := range names {
			p, ok := catalog.ByName(name)
			if !ok {
				return fmt.Errorf("unknown portable profile %q", name)
			}
			profiles = append(profiles, p)
		}
	}

	result := output.ProfilesOutput{
		SchemaVersion: output.CurrentSchemaVersion,
		Source:        catalogSource(cfg),
		Profiles:      make([]output.ProfileOutput, 0, len(profiles)),
	}
	for _, p := range profiles {
		members := make([]string, len(p.Members))
		for i, m := range p.Members {
			members[i] = engine.ShortName(m)
		}
		result.Profiles = append(result.Profiles, output.ProfileOutput{
			Name:       p.Name,
			ShortName:  engine.ShortName(&frameworks.NuGetFramework{Identifier: frameworks.NetPortable, Profile: p.Name}),
			Frameworks: members,
		})
	}

	if jsonOutput(cfg) {
		return output.WriteJSON(console.Out(), result)
	}

	console.Header("%d portable profiles (%s)", len(result.Profiles), result.Source)
	for _, p := range result.Profiles {
		console.Printf("  %-12s %s\n", p.Name, strings.Join(p.Frameworks, ", "))
		console.Detail("    %s", p.ShortName)
	}
	return nil
}
