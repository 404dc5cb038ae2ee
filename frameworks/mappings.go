package frameworks

// This file contains the .NET Standard generation tables used to decide
// whether a netstandard or dotnet package fits a legacy project.

// generationStep says a framework supports gen from version since onward.
type generationStep struct {
	since FrameworkVersion
	gen   FrameworkVersion
}

func fv(parts ...int) FrameworkVersion {
	var c [4]int
	copy(c[:], parts)
	return FrameworkVersion{Major: c[0], Minor: c[1], Build: c[2], Revision: c[3]}
}

// netFrameworkGenerations is shared by .NETFramework and DNX.
var netFrameworkGenerations = []generationStep{
	{fv(4, 5), fv(1, 1)},
	{fv(4, 5, 1), fv(1, 2)},
	{fv(4, 6), fv(1, 3)},
	{fv(4, 6, 1), fv(1, 4)},
	{fv(4, 6, 2), fv(1, 5)},
	{fv(4, 6, 3), fv(1, 6)},
}

// xamarinGenerations covers every version of the Mono and Xamarin platforms.
var xamarinGenerations = []generationStep{
	{fv(0, 0), fv(1, 6)},
}

// FrameworkToNetStandardTable maps a framework family to the highest
// .NET Standard generation each of its versions supports. Steps are sorted
// by version; the last step at or below the project version applies.
var FrameworkToNetStandardTable = map[string][]generationStep{
	NetFramework: netFrameworkGenerations,
	DNX:          netFrameworkGenerations,
	NetCore: {
		{fv(4, 5), fv(1, 1)},
		{fv(4, 5, 1), fv(1, 2)},
		{fv(5, 0), fv(1, 4)},
	},
	Windows: {
		{fv(0, 0), fv(1, 1)},
		{fv(8, 1), fv(1, 2)},
	},
	WindowsPhone: {
		{fv(8, 0), fv(1, 0)},
	},
	WindowsPhoneApp: {
		{fv(8, 1), fv(1, 2)},
	},
	DNXCore: {
		{fv(0, 0), fv(1, 5)},
	},
	UAP: {
		{fv(0, 0), fv(1, 4)},
	},
	NetCoreApp: {
		{fv(1, 0), fv(1, 6)},
		{fv(1, 1), fv(1, 7)},
	},
	Tizen: {
		{fv(3, 0), fv(1, 6)},
	},
	MonoAndroid:    xamarinGenerations,
	MonoTouch:      xamarinGenerations,
	MonoMac:        xamarinGenerations,
	XamarinIOS:     xamarinGenerations,
	XamarinMac:     xamarinGenerations,
	XamarinPS3:     xamarinGenerations,
	XamarinPS4:     xamarinGenerations,
	XamarinPSVita:  xamarinGenerations,
	XamarinTVOS:    xamarinGenerations,
	XamarinWatchOS: xamarinGenerations,
	XamarinXbox360: xamarinGenerations,
	XamarinXboxOne: xamarinGenerations,
}

// PlatformToNetStandardTable maps .NETPlatform (dotnet) versions to the
// .NET Standard generation they were renamed to.
var PlatformToNetStandardTable = []struct {
	Platform FrameworkVersion
	Standard FrameworkVersion
}{
	{fv(5, 0), fv(1, 0)},
	{fv(5, 1), fv(1, 0)},
	{fv(5, 2), fv(1, 1)},
	{fv(5, 3), fv(1, 2)},
	{fv(5, 4), fv(1, 3)},
	{fv(5, 5), fv(1, 4)},
	{fv(5, 6), fv(1, 5)},
}

// platformGeneration converts a .NETPlatform version.
func platformGeneration(version FrameworkVersion) (FrameworkVersion, bool) {
	for _, m := range PlatformToNetStandardTable {
		if m.Platform.Compare(version) == 0 {
			return m.Standard, true
		}
	}
	return FrameworkVersion{}, false
}

// packageGeneration returns the .NET Standard generation a netstandard or
// dotnet package requires.
func packageGeneration(pkg *NuGetFramework) (FrameworkVersion, bool) {
	switch pkg.Identifier {
	case NetStandard:
		return pkg.Version, true
	case NetPlatform:
		return platformGeneration(pkg.Version)
	}
	return FrameworkVersion{}, false
}

// frameworkGeneration returns the highest .NET Standard generation a
// non-portable project framework supports.
func frameworkGeneration(fw *NuGetFramework) (FrameworkVersion, bool) {
	switch fw.Identifier {
	case NetStandard, NetStandardApp:
		return fw.Version, true
	case NetPlatform:
		return platformGeneration(fw.Version)
	}

	steps, ok := FrameworkToNetStandardTable[fw.Identifier]
	if !ok {
		return FrameworkVersion{}, false
	}

	var gen FrameworkVersion
	found := false
	for _, s := range steps {
		if fw.Version.Compare(s.since) < 0 {
			break
		}
		gen, found = s.gen, true
	}
	return gen, found
}

// FrameworkPrecedence orders framework families when choosing among
// cross-family candidates. Higher index = higher precedence.
var FrameworkPrecedence = []string{
	NetPlatform,
	NetStandard,
	NetCore,
	Windows,
	DNXCore,
	DNX,
	NetFramework,
}

// GetFrameworkPrecedence returns the precedence value for a framework.
// Higher value = higher precedence.
func GetFrameworkPrecedence(framework string) int {
	for i, fw := range FrameworkPrecedence {
		if fw == framework {
			return i
		}
	}
	return -1
}
