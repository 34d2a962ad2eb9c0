package definition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffectiveFilePath(t *testing.T) {
	t.Parallel()

	t.Run("placeholder resolves to parameter value", func(t *testing.T) {
		t.Parallel()
		cfg := NewProjectConfig(Options{DefinitionFile: "${JenkinsFileParam}", LookupInParameters: true})
		params := Parameters{"JenkinsFileParam": "jenkinsFile2"}

		require.Equal(t, "jenkinsFile2", EffectiveFilePath(cfg, params))
	})

	t.Run("absent parameter falls back to default file", func(t *testing.T) {
		t.Parallel()
		cfg := NewProjectConfig(Options{DefinitionFile: "${JenkinsFileParam}", LookupInParameters: true})

		require.Equal(t, "Jenkinsfile", EffectiveFilePath(cfg, Parameters{"Other": "x"}))
		require.Equal(t, "Jenkinsfile", EffectiveFilePath(cfg, nil))
	})

	t.Run("lookup disabled keeps configured path", func(t *testing.T) {
		t.Parallel()
		cfg := NewProjectConfig(Options{DefinitionFile: "${JenkinsFileParam}"})
		params := Parameters{"JenkinsFileParam": "jenkinsFile2"}

		require.Equal(t, "${JenkinsFileParam}", EffectiveFilePath(cfg, params))
	})

	t.Run("plain path is unchanged in legacy mode", func(t *testing.T) {
		t.Parallel()
		cfg := NewProjectConfig(Options{DefinitionFile: "ci/Jenkinsfile", LookupInParameters: true})

		require.Equal(t, "ci/Jenkinsfile", EffectiveFilePath(cfg, Parameters{"ci/Jenkinsfile": "x"}))
	})
}

func TestParameterName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"${JenkinsFileParam}": "JenkinsFileParam",
		"$JenkinsFileParam":   "JenkinsFileParam",
	}
	for placeholder, expected := range cases {
		name, ok := ParameterName(placeholder)
		require.True(t, ok, placeholder)
		require.Equal(t, expected, name)
	}

	for _, invalid := range []string{"Jenkinsfile", "${}", "$", "${unterminated", "prefix${name}"} {
		_, ok := ParameterName(invalid)
		require.False(t, ok, invalid)
	}
}

func TestParseParameters(t *testing.T) {
	t.Parallel()

	params := ParseParameters([]string{"JenkinsFileParam=jenkinsFile2", "FLAG", "EXPR=a=b"})
	require.Equal(t, Parameters{"JenkinsFileParam": "jenkinsFile2", "FLAG": "", "EXPR": "a=b"}, params)
}
