package binder

import (
	"sort"
	"strings"

	"remotepipe.dev/remotepipe/internal/definition"
	"remotepipe.dev/remotepipe/internal/scm"
)

// Environment variable names contributed to builds
const (
	EnvSourceURL      = "RJPP_SCM_URL"
	EnvDefinitionFile = "RJPP_JENKINSFILE"
	EnvBranch         = "RJPP_BRANCH"
	EnvLocalMarker    = "RJPP_LOCAL_MARKER"
)

// Environment returns the variables describing where a build's definition
// came from. Only git sources contribute; other sources yield an empty map.
func Environment(cfg *definition.ProjectConfig, result *Result) map[string]string {
	env := map[string]string{}
	source, ok := cfg.Source().(*scm.GitSource)
	if !ok || result == nil {
		return env
	}

	env[EnvSourceURL] = strings.Join(source.URLs(), ",")
	env[EnvDefinitionFile] = result.Target.FilePath
	env[EnvLocalMarker] = cfg.LocalMarker()
	switch {
	case cfg.MatchBranches():
		env[EnvBranch] = result.Target.BranchUsed
	case len(source.Branches) > 0:
		// the configured spec as written, e.g. "*/develop"
		env[EnvBranch] = source.Branches[0].Name
	default:
		env[EnvBranch] = ""
	}
	return env
}

// EnvironmentLines renders env as sorted NAME=value lines
func EnvironmentLines(env map[string]string) []string {
	lines := make([]string, 0, len(env))
	for name, value := range env {
		lines = append(lines, name+"="+value)
	}
	sort.Strings(lines)
	return lines
}
