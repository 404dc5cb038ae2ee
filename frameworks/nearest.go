package frameworks

// GetNearest finds the nearest compatible framework from a list using the
// default engine.
func GetNearest(project *NuGetFramework, candidates []*NuGetFramework) *NuGetFramework {
	return Default().GetNearest(project, candidates)
}

// GetNearest finds the nearest compatible framework from a list.
//
// Given a project framework and the frameworks a package provides,
// returns the most specific one the project can consume, preferring:
// 1. Exact match
// 2. Same framework, nearest lower version
// 3. .NET Standard, highest generation
// 4. Other compatible framework with highest precedence
// 5. Portable profile with the fewest members
//
// Returns nil if no compatible framework found.
func (e *Engine) GetNearest(project *NuGetFramework, candidates []*NuGetFramework) *NuGetFramework {
	if project == nil || len(candidates) == 0 {
		return nil
	}

	var best *NuGetFramework
	var bestScore int

	for _, fw := range candidates {
		if fw == nil || !e.isCompatible(project, fw) {
			continue
		}

		score := e.calculateCompatibilityScore(project, fw)
		if best == nil || score > bestScore ||
			(score == bestScore && fw.Version.Compare(best.Version) > 0) {
			best = fw
			bestScore = score
		}
	}

	return best
}

// calculateCompatibilityScore calculates how well a framework matches the project.
// Higher score = better match.
func (e *Engine) calculateCompatibilityScore(project, fw *NuGetFramework) int {
	// Exact match gets highest score
	if fw.Equals(project) {
		return 1000
	}

	// Same framework family; the version tie-break picks the nearest lower one
	if fw.Identifier == project.Identifier {
		score := 800
		if fw.Profile == project.Profile {
			score += 10
		}
		return score
	}

	if gen, ok := packageGeneration(fw); ok {
		// Higher .NET Standard versions are better
		return 600 + gen.Major*20 + gen.Minor
	}

	if fw.IsPortable() {
		members, _ := e.portableMembers(fw)
		return 100 - len(members)
	}

	// Framework precedence for other frameworks
	return 300 + GetFrameworkPrecedence(fw.Identifier)*10
}
