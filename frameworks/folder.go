package frameworks

import "strings"

// packageFolders are the top-level package folders whose children may be
// framework folders.
var packageFolders = []string{"lib", "content", "tools", "build"}

// UnsupportedFramework returns the sentinel for folders that do not name a
// known framework.
func UnsupportedFramework() *NuGetFramework {
	return unsupported()
}

// ParseFrameworkFolderName interprets the first segment of a package-relative
// path as a framework folder and returns it with the rest of the path.
//
// Both '\' and '/' separate segments. A path with a single segment has no
// framework folder. When the first segment is not a framework, strict mode
// returns the Unsupported sentinel and still consumes the segment, while
// lenient mode returns nil and the path unchanged.
func ParseFrameworkFolderName(path string, strict bool) (*NuGetFramework, string) {
	return Default().ParseFolderName(path, strict)
}

// ParseFolderName is ParseFrameworkFolderName against this engine's catalog.
func (e *Engine) ParseFolderName(path string, strict bool) (*NuGetFramework, string) {
	i := strings.IndexAny(path, `\/`)
	if i < 0 {
		return nil, path
	}
	folder, rest := path[:i], path[i+1:]

	fw, err := e.Parse(folder)
	if err != nil || fw.IsUnsupported() {
		if strict {
			return unsupported(), rest
		}
		return nil, path
	}
	return fw, rest
}

// ParseFrameworkNameFromFilePath strips a known package folder (lib,
// content, tools or build) from path and parses the framework folder under
// it leniently.
//
//	lib\net40\foo.dll    → .NETFramework 4.0, "foo.dll"
//	lib\foo.dll          → nil, "foo.dll"
//	random\foo.txt       → nil, "random\foo.txt"
func ParseFrameworkNameFromFilePath(path string) (*NuGetFramework, string) {
	return Default().ParseFilePath(path)
}

// ParseFilePath is ParseFrameworkNameFromFilePath against this engine's catalog.
func (e *Engine) ParseFilePath(path string) (*NuGetFramework, string) {
	for _, known := range packageFolders {
		if len(path) <= len(known) || !strings.EqualFold(path[:len(known)], known) {
			continue
		}
		if c := path[len(known)]; c != '\\' && c != '/' {
			continue
		}
		return e.ParseFolderName(path[len(known)+1:], false)
	}
	return nil, path
}
