package config

import (
	"fmt"
	"sort"
	"strconv"

	"remotepipe.dev/remotepipe/internal/scm"
)

type key struct {
	get func(c *Config) string
	set func(c *Config, value string) error
}

var keys = map[string]key{
	"definitionFile": {
		get: func(c *Config) string { return c.DefinitionFile },
		set: func(c *Config, v string) error { c.DefinitionFile = v; return nil },
	},
	"fallbackBranch": {
		get: func(c *Config) string { return c.FallbackBranch },
		set: func(c *Config, v string) error { c.FallbackBranch = v; return nil },
	},
	"localMarker": {
		get: func(c *Config) string { return c.LocalMarker },
		set: func(c *Config, v string) error { c.LocalMarker = v; return nil },
	},
	"matchBranches": {
		get: func(c *Config) string { return strconv.FormatBool(c.MatchBranches) },
		set: boolSetter(func(c *Config, b bool) { c.MatchBranches = b }),
	},
	"lookupInParameters": {
		get: func(c *Config) string { return strconv.FormatBool(c.LookupInParameters) },
		set: boolSetter(func(c *Config, b bool) { c.LookupInParameters = b }),
	},
	"strictMarker": {
		get: func(c *Config) string { return strconv.FormatBool(c.StrictMarker) },
		set: boolSetter(func(c *Config, b bool) { c.StrictMarker = b }),
	},
	"source.url": {
		get: func(c *Config) string {
			remote, _ := primaryRemote(c)
			return remote.URL
		},
		set: func(c *Config, v string) error {
			ensureRemote(c).URL = v
			return nil
		},
	},
	"source.credentialsId": {
		get: func(c *Config) string {
			remote, _ := primaryRemote(c)
			return remote.CredentialsID
		},
		set: func(c *Config, v string) error {
			ensureRemote(c).CredentialsID = v
			return nil
		},
	},
	"source.branch": {
		get: func(c *Config) string {
			if c.Source == nil || len(c.Source.Branches) == 0 {
				return ""
			}
			return c.Source.Branches[0].Name
		},
		set: func(c *Config, v string) error {
			ensureRemote(c)
			if v == "" {
				c.Source.Branches = nil
				return nil
			}
			c.Source.Branches = []scm.BranchSpec{{Name: v}}
			return nil
		},
	},
}

// Keys returns the names accepted by Get and Set, sorted
func Keys() []string {
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the value of a scalar key
func (c *Config) Get(name string) (string, error) {
	k, ok := keys[name]
	if !ok {
		return "", fmt.Errorf("unknown config key %q (valid keys: %v)", name, Keys())
	}
	return k.get(c), nil
}

// Set updates a scalar key. Empty values for keys with defaults restore the default.
func (c *Config) Set(name, value string) error {
	k, ok := keys[name]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", name, Keys())
	}
	if err := k.set(c, value); err != nil {
		return err
	}
	c.applyDefaults()
	return nil
}

func boolSetter(apply func(c *Config, b bool)) func(c *Config, value string) error {
	return func(c *Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		apply(c, b)
		return nil
	}
}

func primaryRemote(c *Config) (scm.RemoteConfig, bool) {
	if c.Source == nil {
		return scm.RemoteConfig{}, false
	}
	return c.Source.PrimaryRemote()
}

func ensureRemote(c *Config) *scm.RemoteConfig {
	if c.Source == nil {
		c.Source = &scm.GitSource{}
	}
	if len(c.Source.Remotes) == 0 {
		c.Source.Remotes = []scm.RemoteConfig{{Name: "origin"}}
	}
	return &c.Source.Remotes[0]
}
