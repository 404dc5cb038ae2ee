package frameworks

import "strings"

// Canonical framework identifiers.
const (
	NetFramework      = ".NETFramework"
	NetCore           = ".NETCore"
	NetMicroFramework = ".NETMicroFramework"
	NetPortable       = ".NETPortable"
	NetPlatform       = ".NETPlatform"
	NetStandard       = ".NETStandard"
	NetStandardApp    = ".NETStandardApp"
	NetCoreApp        = ".NETCoreApp"
	Silverlight       = "Silverlight"
	Windows           = "Windows"
	WindowsPhone      = "WindowsPhone"
	WindowsPhoneApp   = "WindowsPhoneApp"
	MonoAndroid       = "MonoAndroid"
	MonoTouch         = "MonoTouch"
	MonoMac           = "MonoMac"
	XamarinIOS        = "Xamarin.iOS"
	XamarinMac        = "Xamarin.Mac"
	XamarinPS3        = "Xamarin.PlayStation3"
	XamarinPS4        = "Xamarin.PlayStation4"
	XamarinPSVita     = "Xamarin.PlayStationVita"
	XamarinTVOS       = "Xamarin.TVOS"
	XamarinWatchOS    = "Xamarin.WatchOS"
	XamarinXbox360    = "Xamarin.Xbox360"
	XamarinXboxOne    = "Xamarin.XboxOne"
	DNX               = "DNX"
	DNXCore           = "DNXCore"
	ASPNet            = "ASP.Net"
	ASPNetCore        = "ASP.NetCore"
	UAP               = "UAP"
	Tizen             = "Tizen"
	Native            = "native"
	Core              = "Core"

	// Unsupported is the identifier of any moniker that cannot be resolved.
	Unsupported = "Unsupported"
)

// Profile names with special meaning.
const (
	ProfileClient           = "Client"
	ProfileCompactFramework = "CompactFramework"
	ProfileWindowsPhone     = "WindowsPhone"
	ProfileWindowsPhone71   = "WindowsPhone71"
)

// identifierAliases maps every accepted spelling (lowercase) to its canonical identifier.
var identifierAliases = map[string]string{
	".net":                     NetFramework,
	"net":                      NetFramework,
	".netframework":            NetFramework,
	"netframework":             NetFramework,
	".netcore":                 NetCore,
	"netcore":                  NetCore,
	"winrt":                    NetCore,
	".netmicroframework":       NetMicroFramework,
	"netmf":                    NetMicroFramework,
	"silverlight":              Silverlight,
	"sl":                       Silverlight,
	".netportable":             NetPortable,
	"netportable":              NetPortable,
	"portable":                 NetPortable,
	"windowsphone":             WindowsPhone,
	"wp":                       WindowsPhone,
	"windowsphoneapp":          WindowsPhoneApp,
	"wpa":                      WindowsPhoneApp,
	"windows":                  Windows,
	"win":                      Windows,
	"monoandroid":              MonoAndroid,
	"monotouch":                MonoTouch,
	"monomac":                  MonoMac,
	"xamarin.ios":              XamarinIOS,
	"xamarinios":               XamarinIOS,
	"xamarin.mac":              XamarinMac,
	"xamarinmac":               XamarinMac,
	"xamarin.playstationthree": XamarinPS3,
	"xamarinplaystationthree":  XamarinPS3,
	"xamarinpsthree":           XamarinPS3,
	"xamarin.playstationfour":  XamarinPS4,
	"xamarinplaystationfour":   XamarinPS4,
	"xamarinpsfour":            XamarinPS4,
	"xamarin.playstationvita":  XamarinPSVita,
	"xamarinplaystationvita":   XamarinPSVita,
	"xamarinpsvita":            XamarinPSVita,
	"xamarin.tvos":             XamarinTVOS,
	"xamarintvos":              XamarinTVOS,
	"xamarin.watchos":          XamarinWatchOS,
	"xamarinwatchos":           XamarinWatchOS,
	"xamarin.xboxthreesixty":   XamarinXbox360,
	"xamarinxboxthreesixty":    XamarinXbox360,
	"xamarin.xboxone":          XamarinXboxOne,
	"xamarinxboxone":           XamarinXboxOne,
	"dnx":                      DNX,
	"dnxcore":                  DNXCore,
	"aspnet":                   ASPNet,
	"asp.net":                  ASPNet,
	"aspnetcore":               ASPNetCore,
	"asp.netcore":              ASPNetCore,
	"dotnet":                   NetPlatform,
	".netplatform":             NetPlatform,
	"netstandard":              NetStandard,
	".netstandard":             NetStandard,
	"netstandardapp":           NetStandardApp,
	".netstandardapp":          NetStandardApp,
	"netcoreapp":               NetCoreApp,
	".netcoreapp":              NetCoreApp,
	"uap":                      UAP,
	"tizen":                    Tizen,
	"native":                   Native,
	"core":                     Core,
}

// shortIdentifiers maps canonical identifiers to their short folder names.
// Identifiers missing here are written verbatim.
var shortIdentifiers = map[string]string{
	NetFramework:      "net",
	NetMicroFramework: "netmf",
	NetPortable:       "portable",
	Silverlight:       "sl",
	Windows:           "win",
	WindowsPhone:      "wp",
	WindowsPhoneApp:   "wpa",
	MonoAndroid:       "monoandroid",
	MonoTouch:         "monotouch",
	MonoMac:           "monomac",
	XamarinIOS:        "xamarinios",
	XamarinMac:        "xamarinmac",
	XamarinPS3:        "xamarinpsthree",
	XamarinPS4:        "xamarinpsfour",
	XamarinPSVita:     "xamarinpsvita",
	XamarinTVOS:       "xamarintvos",
	XamarinWatchOS:    "xamarinwatchos",
	XamarinXbox360:    "xamarinxboxthreesixty",
	XamarinXboxOne:    "xamarinxboxone",
	DNX:               "dnx",
	DNXCore:           "dnxcore",
	ASPNet:            "aspnet",
	ASPNetCore:        "aspnetcore",
	Tizen:             "tizen",
}

// dottedShortIdentifiers are written with a literal dotted version.
var dottedShortIdentifiers = map[string]string{
	NetPlatform:    "dotnet",
	NetStandard:    "netstandard",
	NetStandardApp: "netstandardapp",
	NetCoreApp:     "netcoreapp",
}

// defaultVersions holds the version assumed when a moniker has none.
var defaultVersions = map[string]FrameworkVersion{
	NetPlatform: {Major: 5},
	NetCoreApp:  {Major: 1},
}

// profileSuffix describes one recognized "-suffix" of a moniker.
type profileSuffix struct {
	suffix  string
	profile string
	// identifier restricts the suffix to one family; empty means any.
	identifier string
}

// profileSuffixes is ordered; parsing uses the first suffix that matches.
var profileSuffixes = []profileSuffix{
	{suffix: "client", profile: ProfileClient},
	{suffix: "full", profile: ""},
	{suffix: "cf", profile: ProfileCompactFramework, identifier: NetFramework},
	{suffix: "wp", profile: ProfileWindowsPhone, identifier: Silverlight},
	{suffix: "wp71", profile: ProfileWindowsPhone71, identifier: Silverlight},
}

// frameworkAlias records a family member that stands for another one.
// Compatibility treats From as To; the short-name formatter writes To as From.
type frameworkAlias struct {
	From NuGetFramework
	To   NuGetFramework
}

// frameworkAliases is ordered; the first entry for a given To wins when
// formatting.
var frameworkAliases = []frameworkAlias{
	{
		From: NuGetFramework{Identifier: WindowsPhone},
		To:   NuGetFramework{Identifier: Silverlight, Version: FrameworkVersion{Major: 3}, Profile: ProfileWindowsPhone},
	},
	{
		From: NuGetFramework{Identifier: WindowsPhone, Version: FrameworkVersion{Major: 7}},
		To:   NuGetFramework{Identifier: Silverlight, Version: FrameworkVersion{Major: 3}, Profile: ProfileWindowsPhone},
	},
	{
		From: NuGetFramework{Identifier: WindowsPhone, Version: FrameworkVersion{Major: 7, Minor: 1}},
		To:   NuGetFramework{Identifier: Silverlight, Version: FrameworkVersion{Major: 4}, Profile: ProfileWindowsPhone71},
	},
	{
		From: NuGetFramework{Identifier: Windows},
		To:   NuGetFramework{Identifier: NetCore, Version: FrameworkVersion{Major: 4, Minor: 5}},
	},
	{
		From: NuGetFramework{Identifier: Windows, Version: FrameworkVersion{Major: 8}},
		To:   NuGetFramework{Identifier: NetCore, Version: FrameworkVersion{Major: 4, Minor: 5}},
	},
	{
		From: NuGetFramework{Identifier: Windows, Version: FrameworkVersion{Major: 8, Minor: 1}},
		To:   NuGetFramework{Identifier: NetCore, Version: FrameworkVersion{Major: 4, Minor: 5, Build: 1}},
	},
}

// resolveIdentifier returns the canonical identifier for a spelling.
func resolveIdentifier(s string) (string, bool) {
	id, ok := identifierAliases[strings.ToLower(strings.TrimSpace(s))]
	return id, ok
}

// canonicalIdentifier resolves either an alias or a canonical identifier in
// any casing, e.g. "xamarin.playstation3" → "Xamarin.PlayStation3".
func canonicalIdentifier(s string) (string, bool) {
	if id, ok := resolveIdentifier(s); ok {
		return id, true
	}
	s = strings.TrimSpace(s)
	for _, id := range identifierAliases {
		if strings.EqualFold(id, s) {
			return id, true
		}
	}
	if strings.EqualFold(s, Unsupported) {
		return Unsupported, true
	}
	return "", false
}

// parseProfileSuffix normalizes the text after the dash of a moniker.
func parseProfileSuffix(identifier, suffix string) string {
	for _, p := range profileSuffixes {
		if !strings.EqualFold(p.suffix, suffix) {
			continue
		}
		if p.identifier != "" && p.identifier != identifier {
			continue
		}
		return p.profile
	}
	return suffix
}

// shortProfileSuffix is the inverse of parseProfileSuffix.
func shortProfileSuffix(identifier, profile string) string {
	for _, p := range profileSuffixes {
		if p.profile == "" || !strings.EqualFold(p.profile, profile) {
			continue
		}
		if p.identifier != "" && p.identifier != identifier {
			continue
		}
		return p.suffix
	}
	return profile
}

// aliasTarget returns what fw stands for, or fw itself.
func aliasTarget(fw *NuGetFramework) *NuGetFramework {
	for i := range frameworkAliases {
		if frameworkAliases[i].From.Equals(fw) {
			return &frameworkAliases[i].To
		}
	}
	return fw
}

// aliasSource returns the first framework that stands for fw.
func aliasSource(fw *NuGetFramework) (*NuGetFramework, bool) {
	for i := range frameworkAliases {
		if frameworkAliases[i].To.Equals(fw) {
			return &frameworkAliases[i].From, true
		}
	}
	return nil, false
}
