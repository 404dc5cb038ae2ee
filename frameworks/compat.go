package frameworks

import "strings"

// Rule names reported in a Decision, in evaluation order.
const (
	RuleAbsent                = "absent"
	RuleNetStandardGeneration = "netstandard-generation"
	RulePortablePackage       = "portable-package"
	RulePortableProject       = "portable-project"
	RuleDNXASPNet             = "dnx-aspnet"
	RuleWindowsNetCore        = "windows-netcore"
	RuleWindowsPhone          = "windows-phone"
	RuleSameFamily            = "same-family"
	RuleDifferentFamily       = "different-family"
)

// Decision is the outcome of one compatibility check and the rule that
// produced it.
type Decision struct {
	Project    *NuGetFramework
	Package    *NuGetFramework
	Rule       string
	Compatible bool
}

// compatRule is one row of the compatibility table. The first row whose
// applies returns true decides the verdict.
type compatRule struct {
	name    string
	applies func(e *Engine, project, pkg *NuGetFramework) bool
	verdict func(e *Engine, project, pkg *NuGetFramework) bool
}

// compatRules is assigned in init because portable rules recurse into the table.
var compatRules []compatRule

func init() {
	compatRules = []compatRule{
		{
			name: RuleAbsent,
			applies: func(_ *Engine, project, pkg *NuGetFramework) bool {
				return project == nil || pkg == nil
			},
			verdict: always(true),
		},
		{
			name: RuleNetStandardGeneration,
			applies: func(_ *Engine, project, pkg *NuGetFramework) bool {
				return (pkg.Identifier == NetStandard || pkg.Identifier == NetPlatform) &&
					!strings.EqualFold(project.Identifier, pkg.Identifier)
			},
			verdict: (*Engine).netStandardCompatible,
		},
		{
			name: RulePortablePackage,
			applies: func(_ *Engine, _, pkg *NuGetFramework) bool {
				return pkg.IsPortable()
			},
			verdict: (*Engine).portablePackageCompatible,
		},
		{
			name: RulePortableProject,
			applies: func(_ *Engine, project, _ *NuGetFramework) bool {
				return project.IsPortable()
			},
			verdict: always(false),
		},
		{
			name: RuleDNXASPNet,
			applies: func(_ *Engine, project, pkg *NuGetFramework) bool {
				return isDNXFamily(project.Identifier) && !strings.EqualFold(project.Identifier, pkg.Identifier)
			},
			verdict: func(_ *Engine, project, pkg *NuGetFramework) bool {
				return dnxCompatible(project, pkg)
			},
		},
		{
			name: RuleWindowsNetCore,
			applies: func(_ *Engine, project, pkg *NuGetFramework) bool {
				return isWindowsStore(project.Identifier) && isWindowsStore(pkg.Identifier)
			},
			verdict: func(_ *Engine, project, pkg *NuGetFramework) bool {
				p, projectOK := netCoreEquivalent(project)
				k, pkgOK := netCoreEquivalent(pkg)
				if projectOK && pkgOK {
					return p.Compare(k) >= 0
				}
				// Windows versions without a .NETCore equivalent only match their own family.
				return project.Identifier == pkg.Identifier && project.Version.Compare(pkg.Version) >= 0
			},
		},
		{
			name: RuleWindowsPhone,
			applies: func(_ *Engine, project, pkg *NuGetFramework) bool {
				_, projectPhone := phoneTier(project)
				_, pkgPhone := phoneTier(pkg)
				return projectPhone || pkgPhone
			},
			verdict: func(_ *Engine, project, pkg *NuGetFramework) bool {
				p, projectPhone := phoneTier(project)
				k, pkgPhone := phoneTier(pkg)
				return projectPhone && pkgPhone && p.Compare(k) >= 0
			},
		},
		{
			name: RuleSameFamily,
			applies: func(_ *Engine, project, pkg *NuGetFramework) bool {
				return strings.EqualFold(project.Identifier, pkg.Identifier)
			},
			verdict: func(_ *Engine, project, pkg *NuGetFramework) bool {
				return project.Version.Compare(pkg.Version) >= 0 &&
					profilesCompatible(project.Identifier, project.Profile, pkg.Profile)
			},
		},
		{
			name:    RuleDifferentFamily,
			applies: always(true),
			verdict: always(false),
		},
	}
}

func always(result bool) func(*Engine, *NuGetFramework, *NuGetFramework) bool {
	return func(*Engine, *NuGetFramework, *NuGetFramework) bool { return result }
}

// IsCompatible reports whether a package built for pkg can be consumed by a
// project targeting project, using the default engine. The relation is
// directional: IsCompatible(net40, net20) holds, the reverse does not.
func IsCompatible(project, pkg *NuGetFramework) bool {
	return Default().IsCompatible(project, pkg)
}

// IsCompatible reports whether pkg satisfies project.
func (e *Engine) IsCompatible(project, pkg *NuGetFramework) bool {
	return e.Explain(project, pkg).Compatible
}

// Explain evaluates the rule table and reports the deciding rule.
func (e *Engine) Explain(project, pkg *NuGetFramework) Decision {
	rule, ok := e.decide(project, pkg)
	d := Decision{Project: project, Package: pkg, Rule: rule, Compatible: ok}
	if e.hook != nil {
		e.hook(d)
	}
	return d
}

// Rules returns the rule names in evaluation order.
func Rules() []string {
	names := make([]string, len(compatRules))
	for i, r := range compatRules {
		names[i] = r.name
	}
	return names
}

// isCompatible is the hook-free form used for nested member checks.
func (e *Engine) isCompatible(project, pkg *NuGetFramework) bool {
	_, ok := e.decide(project, pkg)
	return ok
}

func (e *Engine) decide(project, pkg *NuGetFramework) (string, bool) {
	for _, r := range compatRules {
		if r.applies(e, project, pkg) {
			return r.name, r.verdict(e, project, pkg)
		}
	}
	return RuleDifferentFamily, false
}

// IsCompatibleWithAny reports whether any of the packages fits project. An
// empty list is compatible with everything.
func (e *Engine) IsCompatibleWithAny(project *NuGetFramework, packages []*NuGetFramework) bool {
	if len(packages) == 0 {
		return true
	}
	for _, pkg := range packages {
		if e.IsCompatible(project, pkg) {
			return true
		}
	}
	return false
}

// AnyProjectCompatible reports whether pkg fits any of the project's
// supported frameworks. An empty list is compatible with everything.
func (e *Engine) AnyProjectCompatible(projects []*NuGetFramework, pkg *NuGetFramework) bool {
	if len(projects) == 0 {
		return true
	}
	for _, project := range projects {
		if e.IsCompatible(project, pkg) {
			return true
		}
	}
	return false
}

// IsCompatibleWithAny uses the default engine.
func IsCompatibleWithAny(project *NuGetFramework, packages []*NuGetFramework) bool {
	return Default().IsCompatibleWithAny(project, packages)
}

// AnyProjectCompatible uses the default engine.
func AnyProjectCompatible(projects []*NuGetFramework, pkg *NuGetFramework) bool {
	return Default().AnyProjectCompatible(projects, pkg)
}

func (e *Engine) netStandardCompatible(project, pkg *NuGetFramework) bool {
	want, ok := packageGeneration(pkg)
	if !ok {
		return false
	}
	have, ok := e.projectGeneration(project)
	return ok && have.Compare(want) >= 0
}

// projectGeneration is the .NET Standard generation a project supports.
// A portable project supports only what all of its members support.
func (e *Engine) projectGeneration(project *NuGetFramework) (FrameworkVersion, bool) {
	if !project.IsPortable() {
		return frameworkGeneration(project)
	}

	members, ok := e.portableMembers(project)
	if !ok || len(members) == 0 {
		return FrameworkVersion{}, false
	}

	var lowest FrameworkVersion
	for i, m := range members {
		gen, ok := frameworkGeneration(m)
		if !ok {
			return FrameworkVersion{}, false
		}
		if i == 0 || gen.Compare(lowest) < 0 {
			lowest = gen
		}
	}
	return lowest, true
}

func (e *Engine) portablePackageCompatible(project, pkg *NuGetFramework) bool {
	pkgMembers, ok := e.portableMembers(pkg)
	if !ok {
		return false
	}

	if !project.IsPortable() {
		for _, m := range pkgMembers {
			if e.isCompatible(project, m) {
				return true
			}
		}
		return false
	}

	projectMembers, ok := e.portableMembers(project)
	if !ok {
		return false
	}
	for _, pm := range projectMembers {
		satisfied := false
		for _, m := range pkgMembers {
			if e.isCompatible(pm, m) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

func isDNXFamily(identifier string) bool {
	switch identifier {
	case DNX, DNXCore, ASPNet, ASPNetCore:
		return true
	}
	return false
}

// dnxCompatible covers a DNX or ASP.NET project against a package of a
// different family.
func dnxCompatible(project, pkg *NuGetFramework) bool {
	switch project.Identifier {
	case DNX:
		switch pkg.Identifier {
		case ASPNet:
			return true
		case NetFramework:
			return project.Version.Compare(pkg.Version) >= 0
		}
	case ASPNet:
		switch pkg.Identifier {
		case DNX:
			return pkg.Version.IsEmpty()
		case NetFramework:
			return pkg.Version.Compare(fv(4, 5)) <= 0
		}
	case DNXCore:
		return pkg.Identifier == ASPNetCore
	case ASPNetCore:
		return pkg.Identifier == DNXCore
	}
	return false
}

func isWindowsStore(identifier string) bool {
	return identifier == Windows || identifier == NetCore
}

// netCoreEquivalent maps a Windows version onto the .NETCore version it
// stands for. Every Windows version up to 8.0 is .NETCore 4.5, and
// .NETCore versions before 4.5 (the Windows 8 release) count as 4.5.
func netCoreEquivalent(fw *NuGetFramework) (FrameworkVersion, bool) {
	if fw.Identifier == NetCore {
		if fw.Version.Compare(fv(4, 5)) < 0 {
			return fv(4, 5), true
		}
		return fw.Version, true
	}
	if fw.Version.Compare(fv(8, 0)) <= 0 {
		return fv(4, 5), true
	}
	target := aliasTarget(&NuGetFramework{Identifier: fw.Identifier, Version: fw.Version})
	if target.Identifier != NetCore {
		return FrameworkVersion{}, false
	}
	return target.Version, true
}

// phoneTier places a framework on the Windows Phone chain
// 7.0 < 7.1 < 8.0 < 8.1. Silverlight phone profiles stand for 7.0 and 7.1.
func phoneTier(fw *NuGetFramework) (FrameworkVersion, bool) {
	switch fw.Identifier {
	case WindowsPhone:
		if fw.Version.IsEmpty() {
			return fv(7, 0), true
		}
		return fw.Version, true
	case Silverlight:
		switch {
		case strings.EqualFold(fw.Profile, ProfileWindowsPhone):
			return fv(7, 0), true
		case strings.EqualFold(fw.Profile, ProfileWindowsPhone71):
			return fv(7, 1), true
		}
	}
	return FrameworkVersion{}, false
}

// profilesCompatible decides the profile half of the same-family rule.
func profilesCompatible(identifier, project, pkg string) bool {
	if pkg == "" || strings.EqualFold(project, pkg) {
		return true
	}
	if identifier == NetFramework {
		return isClientOrFull(project) && isClientOrFull(pkg)
	}
	return false
}

func isClientOrFull(profile string) bool {
	return profile == "" || strings.EqualFold(profile, ProfileClient)
}
