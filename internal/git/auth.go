package git

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// CredentialStore resolves a credentials ID from a source descriptor to a
// transport auth method
type CredentialStore interface {
	Auth(credentialsID string) (transport.AuthMethod, error)
}

// EnvCredentials resolves credentials from environment variables. ID
// "pipelines-token" reads REMOTEPIPE_CREDENTIALS_PIPELINES_TOKEN, holding
// either "user:password" or a bare token.
type EnvCredentials struct {
	// Lookup defaults to os.LookupEnv
	Lookup func(key string) (string, bool)
}

// EnvKey returns the environment variable consulted for credentialsID
func EnvKey(credentialsID string) string {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, credentialsID)
	return "REMOTEPIPE_CREDENTIALS_" + normalized
}

// Auth returns HTTP basic auth for credentialsID. An empty ID means anonymous access.
func (e EnvCredentials) Auth(credentialsID string) (transport.AuthMethod, error) {
	if credentialsID == "" {
		return nil, nil
	}
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	key := EnvKey(credentialsID)
	value, ok := lookup(key)
	if !ok || value == "" {
		return nil, fmt.Errorf("credentials %q not found: set %s", credentialsID, key)
	}

	user, password, found := strings.Cut(value, ":")
	if !found {
		// Token-only credentials; most forges accept any non-empty username
		return &http.BasicAuth{Username: "git", Password: value}, nil
	}
	return &http.BasicAuth{Username: user, Password: password}, nil
}
