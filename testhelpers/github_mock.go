package testhelpers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	// Branches maps branch names to the files on that branch
	Branches BranchFiles
	// ErrorResponses maps a request path (without query) to a status code
	ErrorResponses map[string]int
	// PerPage overrides the page size of branch listings
	PerPage int
	// Owner and Repo for the mock server
	Owner string
	Repo  string

	mu       sync.Mutex
	requests []string
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		Branches:       BranchFiles{},
		ErrorResponses: make(map[string]int),
		Owner:          "owner",
		Repo:           "repo",
	}
}

// Requests returns the request URIs served so far
func (c *MockGitHubServerConfig) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

func (c *MockGitHubServerConfig) record(r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, r.URL.RequestURI())
}

// NewMockGitHubServer creates an httptest server that mocks the branches and
// contents endpoints of the GitHub API
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	t.Helper()
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	base := "/repos/" + config.Owner + "/" + config.Repo
	mux := http.NewServeMux()

	withErrors := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			config.record(r)
			if status, ok := config.ErrorResponses[r.URL.Path]; ok {
				writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET "+base+"/branches", withErrors(func(w http.ResponseWriter, r *http.Request) {
		serveBranches(w, r, config)
	}))
	mux.HandleFunc("GET "+base+"/contents/{path...}", withErrors(func(w http.ResponseWriter, r *http.Request) {
		serveContents(w, r, config, r.PathValue("path"))
	}))
	mux.HandleFunc("GET "+base+"/contents", withErrors(func(w http.ResponseWriter, r *http.Request) {
		serveContents(w, r, config, "")
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(func() { server.Close() })
	return server
}

// NewMockGitHubClient creates a GitHub client configured to use a mock server
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) (*github.Client, string, string) {
	t.Helper()
	if config == nil {
		config = NewMockGitHubServerConfig()
	}
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL

	return client, config.Owner, config.Repo
}

func serveBranches(w http.ResponseWriter, r *http.Request, config *MockGitHubServerConfig) {
	names := make([]string, 0, len(config.Branches))
	for name := range config.Branches {
		names = append(names, name)
	}
	sort.Strings(names)

	perPage := config.PerPage
	if perPage <= 0 {
		perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	}
	if perPage <= 0 {
		perPage = 30
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}

	start := min((page-1)*perPage, len(names))
	end := min(start+perPage, len(names))

	if end < len(names) {
		next := *r.URL
		query := next.Query()
		query.Set("page", strconv.Itoa(page+1))
		next.RawQuery = query.Encode()
		w.Header().Set("Link", fmt.Sprintf(`<http://%s%s>; rel="next"`, r.Host, next.RequestURI()))
	}

	body := make([]map[string]interface{}, 0, end-start)
	for _, name := range names[start:end] {
		body = append(body, map[string]interface{}{
			"name":   name,
			"commit": map[string]string{"sha": fmt.Sprintf("%040x", len(name))},
		})
	}
	writeJSON(w, http.StatusOK, body)
}

func serveContents(w http.ResponseWriter, r *http.Request, config *MockGitHubServerConfig, name string) {
	ref := r.URL.Query().Get("ref")
	files, ok := config.Branches[ref]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No commit found for the ref " + ref})
		return
	}

	name = strings.Trim(name, "/")
	if content, ok := files[name]; ok && name != "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"type":     "file",
			"name":     path.Base(name),
			"path":     name,
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(content)),
		})
		return
	}

	entries := directoryEntries(files, name)
	if entries == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// directoryEntries lists the immediate children of dir, or nil when dir does
// not exist
func directoryEntries(files map[string]string, dir string) []map[string]string {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	kinds := map[string]string{}
	for file := range files {
		if !strings.HasPrefix(file, prefix) {
			continue
		}
		child, rest, nested := strings.Cut(strings.TrimPrefix(file, prefix), "/")
		if nested && rest != "" {
			kinds[child] = "dir"
		} else if _, seen := kinds[child]; !seen {
			kinds[child] = "file"
		}
	}
	if len(kinds) == 0 && dir != "" {
		return nil
	}

	names := make([]string, 0, len(kinds))
	for child := range kinds {
		names = append(names, child)
	}
	sort.Strings(names)

	entries := make([]map[string]string, 0, len(names))
	for _, child := range names {
		entries = append(entries, map[string]string{
			"type": kinds[child],
			"name": child,
			"path": prefix + child,
		})
	}
	return entries
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
