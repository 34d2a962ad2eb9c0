package definition

import (
	"strings"
)

// ParameterSource looks up build parameters by name
type ParameterSource interface {
	Lookup(name string) (string, bool)
}

// Parameters is a map-backed ParameterSource
type Parameters map[string]string

// Lookup returns the value of the named parameter
func (p Parameters) Lookup(name string) (string, bool) {
	value, ok := p[name]
	return value, ok
}

// ParseParameters parses "name=value" pairs. Pairs without '=' set an empty value.
func ParseParameters(pairs []string) Parameters {
	params := make(Parameters, len(pairs))
	for _, pair := range pairs {
		name, value, _ := strings.Cut(pair, "=")
		params[strings.TrimSpace(name)] = value
	}
	return params
}

// ParameterName returns the parameter referenced by a "${name}" placeholder.
// The braces are optional; "$name" is accepted too.
func ParameterName(placeholder string) (string, bool) {
	if !strings.HasPrefix(placeholder, "$") {
		return "", false
	}
	name := strings.TrimPrefix(placeholder, "$")
	if strings.HasPrefix(name, "{") {
		if !strings.HasSuffix(name, "}") {
			return "", false
		}
		name = name[1 : len(name)-1]
	}
	if name == "" || strings.ContainsAny(name, "${}") {
		return "", false
	}
	return name, true
}

// EffectiveFilePath returns the definition file to use for a build. With
// legacy parameter lookup enabled and a placeholder path, the referenced
// parameter's value is used, or DefaultDefinitionFile when the parameter is
// absent. In every other case the configured path is returned unchanged.
func EffectiveFilePath(cfg *ProjectConfig, params ParameterSource) string {
	if !cfg.lookupInParameters {
		return cfg.definitionFile
	}
	name, ok := ParameterName(cfg.definitionFile)
	if !ok {
		return cfg.definitionFile
	}
	if params != nil {
		if value, found := params.Lookup(name); found {
			return value
		}
	}
	return DefaultDefinitionFile
}
