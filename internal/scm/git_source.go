package scm

import (
	"maps"
	"slices"
	"strings"
)

// KindGit is the Kind of GitSource
const KindGit = "git"

// RemoteConfig is one remote of a git source
type RemoteConfig struct {
	Name          string `yaml:"name,omitempty"`
	URL           string `yaml:"url"`
	CredentialsID string `yaml:"credentialsId,omitempty"`
	Refspec       string `yaml:"refspec,omitempty"`
}

// BranchSpec names a branch to build. Names may carry a remote prefix
// ("origin/main") or a refs/heads/ prefix.
type BranchSpec struct {
	Name string `yaml:"name"`
}

// SubmoduleConfig configures checkout of a single submodule
type SubmoduleConfig struct {
	SubmoduleName string   `yaml:"name"`
	Branches      []string `yaml:"branches,omitempty"`
}

// Browser links commits and files to a repository web UI
type Browser struct {
	Kind string `yaml:"kind"`
	URL  string `yaml:"url"`
}

// Extension is a named behaviour attached to a git source, e.g.
// "submodule-option" with {"recursive": "true"}
type Extension struct {
	Kind     string            `yaml:"kind"`
	Settings map[string]string `yaml:"settings,omitempty"`
}

// GitSource is a git repository location with the branches to build
type GitSource struct {
	Remotes                           []RemoteConfig    `yaml:"remotes"`
	Branches                          []BranchSpec      `yaml:"branches,omitempty"`
	DoGenerateSubmoduleConfigurations bool              `yaml:"generateSubmoduleConfigurations,omitempty"`
	SubmoduleConfig                   []SubmoduleConfig `yaml:"submodules,omitempty"`
	Browser                           *Browser          `yaml:"browser,omitempty"`
	GitTool                           string            `yaml:"gitTool,omitempty"`
	Extensions                        []Extension       `yaml:"extensions,omitempty"`
}

// NewGitSource creates a GitSource for a single remote URL and branch
func NewGitSource(url string, branch string) *GitSource {
	source := &GitSource{
		Remotes: []RemoteConfig{{Name: "origin", URL: url}},
	}
	if branch != "" {
		source.Branches = []BranchSpec{{Name: branch}}
	}
	return source
}

// Kind returns KindGit
func (s *GitSource) Kind() string {
	return KindGit
}

// URLs returns the URL of every remote
func (s *GitSource) URLs() []string {
	urls := make([]string, 0, len(s.Remotes))
	for _, remote := range s.Remotes {
		urls = append(urls, remote.URL)
	}
	return urls
}

// WithSingleBranch returns a deep copy whose branch list is exactly [name]
func (s *GitSource) WithSingleBranch(name string) SourceDescriptor {
	pinned := s.Clone()
	pinned.Branches = []BranchSpec{{Name: name}}
	return pinned
}

// Clone returns a deep copy of the source
func (s *GitSource) Clone() *GitSource {
	clone := &GitSource{
		Remotes:                           slices.Clone(s.Remotes),
		Branches:                          slices.Clone(s.Branches),
		DoGenerateSubmoduleConfigurations: s.DoGenerateSubmoduleConfigurations,
		GitTool:                           s.GitTool,
	}
	if s.SubmoduleConfig != nil {
		clone.SubmoduleConfig = make([]SubmoduleConfig, len(s.SubmoduleConfig))
		for i, sub := range s.SubmoduleConfig {
			clone.SubmoduleConfig[i] = SubmoduleConfig{
				SubmoduleName: sub.SubmoduleName,
				Branches:      slices.Clone(sub.Branches),
			}
		}
	}
	if s.Browser != nil {
		browser := *s.Browser
		clone.Browser = &browser
	}
	if s.Extensions != nil {
		clone.Extensions = make([]Extension, len(s.Extensions))
		for i, ext := range s.Extensions {
			clone.Extensions[i] = Extension{Kind: ext.Kind, Settings: maps.Clone(ext.Settings)}
		}
	}
	return clone
}

// PrimaryRemote returns the first remote, or false if there is none
func (s *GitSource) PrimaryRemote() (RemoteConfig, bool) {
	if len(s.Remotes) == 0 {
		return RemoteConfig{}, false
	}
	return s.Remotes[0], true
}

// PrimaryBranch returns the first branch spec with any remote or refs/heads/
// prefix removed, or "" if there is none
func (s *GitSource) PrimaryBranch() string {
	if len(s.Branches) == 0 {
		return ""
	}
	return s.normalizeBranch(s.Branches[0].Name)
}

// HasExtension reports whether an extension of the given kind is attached
func (s *GitSource) HasExtension(kind string) bool {
	return slices.ContainsFunc(s.Extensions, func(ext Extension) bool {
		return ext.Kind == kind
	})
}

// ExtensionSetting returns a setting of the first extension of the given kind
func (s *GitSource) ExtensionSetting(kind, key string) (string, bool) {
	for _, ext := range s.Extensions {
		if ext.Kind == kind {
			value, ok := ext.Settings[key]
			return value, ok
		}
	}
	return "", false
}

func (s *GitSource) normalizeBranch(name string) string {
	name = strings.TrimPrefix(name, "*/")
	name = strings.TrimPrefix(name, "refs/heads/")
	for _, remote := range s.Remotes {
		if remote.Name != "" && strings.HasPrefix(name, remote.Name+"/") {
			return strings.TrimPrefix(name, remote.Name+"/")
		}
	}
	return name
}
