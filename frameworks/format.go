package frameworks

import (
	"strconv"
	"strings"
)

// GetShortFrameworkName formats fw with the default engine.
//
// Examples:
//
//	.NETFramework 4.0 Client → "net40-client"
//	.NETCore 4.5             → "win"
//	Silverlight 0.0          → "sl"
//	.NETStandard 1.3         → "netstandard1.3"
//	UAP 10.0.10030           → "UAP10.0.10030"
func GetShortFrameworkName(fw *NuGetFramework) string {
	return Default().ShortName(fw)
}

// ShortName returns the canonical folder name of fw. Parsing the result
// yields a framework equal to fw, or one that stands for it.
func (e *Engine) ShortName(fw *NuGetFramework) string {
	if fw == nil {
		return ""
	}
	if fw.IsPortable() {
		return e.portableShortName(fw)
	}

	if src, ok := aliasSource(fw); ok {
		fw = src
	}

	if short, ok := dottedShortIdentifiers[fw.Identifier]; ok {
		name := short
		// dotnet alone already means 5.0
		isDefault := fw.Identifier == NetPlatform && fw.Version.Compare(defaultVersions[NetPlatform]) == 0
		if !fw.Version.IsEmpty() && !isDefault {
			name += fw.Version.String()
		}
		return name + profileText(fw)
	}

	name, ok := shortIdentifiers[fw.Identifier]
	if !ok {
		name = fw.Identifier
	}
	return name + shortVersion(fw.Version) + profileText(fw)
}

// shortVersion renders a version for a folder name: omitted when zero,
// dot-free while every component is a single digit.
func shortVersion(version FrameworkVersion) string {
	if version.IsEmpty() {
		return ""
	}

	components := version.components()
	parts := make([]string, len(components))
	dotted := false
	for i, c := range components {
		if c > 9 {
			dotted = true
		}
		parts[i] = strconv.Itoa(c)
	}

	if dotted {
		return strings.Join(parts, ".")
	}
	return strings.Join(parts, "")
}

func profileText(fw *NuGetFramework) string {
	if fw.Profile == "" {
		return ""
	}
	return "-" + shortProfileSuffix(fw.Identifier, fw.Profile)
}

// portableShortName writes "portable-" followed by the member short names,
// in catalog order when the members form a known profile.
func (e *Engine) portableShortName(fw *NuGetFramework) string {
	if p, ok := e.catalog.ByName(fw.Profile); ok {
		return "portable-" + e.joinShortNames(p.Members)
	}

	members, ok := e.portableMembers(fw)
	if !ok {
		if fw.Profile == "" {
			return "portable"
		}
		return "portable-" + fw.Profile
	}

	if p, ok := e.FindProfile(members); ok {
		return "portable-" + e.joinShortNames(p.Members)
	}
	return "portable-" + e.joinMembers(strings.Split(fw.Profile, "+"), members)
}

func (e *Engine) joinShortNames(members []*NuGetFramework) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = e.ShortName(m)
	}
	return strings.Join(names, "+")
}
