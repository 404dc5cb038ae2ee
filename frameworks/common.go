package frameworks

// CommonFrameworks provides frequently used framework instances.
var CommonFrameworks = struct {
	Net40         *NuGetFramework
	Net45         *NuGetFramework
	Win8          *NuGetFramework
	WindowsPhone8 *NuGetFramework
	Silverlight5  *NuGetFramework
	NetStandard10 *NuGetFramework
}{
	Net40: &NuGetFramework{
		Identifier: NetFramework,
		Version:    FrameworkVersion{Major: 4},
	},
	Net45: &NuGetFramework{
		Identifier: NetFramework,
		Version:    FrameworkVersion{Major: 4, Minor: 5},
	},
	// Win8 is the .NETCore 4.5 runtime of Windows 8 Store apps.
	Win8: &NuGetFramework{
		Identifier: NetCore,
		Version:    FrameworkVersion{Major: 4, Minor: 5},
	},
	WindowsPhone8: &NuGetFramework{
		Identifier: WindowsPhone,
		Version:    FrameworkVersion{Major: 8},
	},
	Silverlight5: &NuGetFramework{
		Identifier: Silverlight,
		Version:    FrameworkVersion{Major: 5},
	},
	NetStandard10: &NuGetFramework{
		Identifier: NetStandard,
		Version:    FrameworkVersion{Major: 1},
	},
}

// FrameworkReducer helps find the nearest compatible framework.
type FrameworkReducer struct {
	engine *Engine
}

// NewFrameworkReducer creates a reducer over e, or the default engine when e is nil.
func NewFrameworkReducer(e *Engine) *FrameworkReducer {
	if e == nil {
		e = Default()
	}
	return &FrameworkReducer{engine: e}
}

// GetNearest finds the nearest compatible framework from available frameworks.
func (fr *FrameworkReducer) GetNearest(project *NuGetFramework, available []*NuGetFramework) *NuGetFramework {
	return fr.engine.GetNearest(project, available)
}

// Compatible returns the frameworks from available that project can consume,
// in their original order.
func (fr *FrameworkReducer) Compatible(project *NuGetFramework, available []*NuGetFramework) []*NuGetFramework {
	var out []*NuGetFramework
	for _, fw := range available {
		if fw != nil && fr.engine.isCompatible(project, fw) {
			out = append(out, fw)
		}
	}
	return out
}
