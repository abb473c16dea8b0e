package analyzer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waelttf/uniquereq-mcp/internal/cache"
	"github.com/waelttf/uniquereq-mcp/internal/config"
	"github.com/waelttf/uniquereq-mcp/internal/filter"
	"github.com/waelttf/uniquereq-mcp/internal/fingerprint"
	"github.com/waelttf/uniquereq-mcp/internal/normalize"
	"github.com/waelttf/uniquereq-mcp/pkg/client"
)

// fakeCapture serves a single session with a fixed entry list.
type fakeCapture struct {
	entries map[string]*client.SessionEntry
	order   []string
}

func (f *fakeCapture) add(entry *client.SessionEntry) {
	f.entries[entry.ID] = entry
	f.order = append(f.order, entry.ID)
}

func (f *fakeCapture) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/sessions/s1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(client.Session{ID: "s1", Name: "test", EntryIDs: f.order})
	})
	mux.HandleFunc("/sessions/s1/entries/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/sessions/s1/entries/")
		entry, ok := f.entries[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "entry not found"})
			return
		}
		json.NewEncoder(w).Encode(entry)
	})
	return mux
}

func captureEntry(id, method, rawURL string, status int, body string) *client.SessionEntry {
	u := rawURL
	path := rawURL
	if i := strings.Index(rawURL, "://"); i != -1 {
		if j := strings.IndexByte(rawURL[i+3:], '/'); j != -1 {
			path = rawURL[i+3+j:]
		} else {
			path = "/"
		}
	}
	var encoded *string
	if body != "" {
		b := base64.StdEncoding.EncodeToString([]byte(body))
		encoded = &b
	}
	return &client.SessionEntry{
		ID:  id,
		URL: u,
		Request: client.Request{
			Method: &method,
			Path:   &path,
			Body:   encoded,
		},
		Response: &client.Response{StatusCode: &status},
		Timings:  client.Timings{StartedAt: time.Now().UnixMilli()},
	}
}

func newTestAnalyzer(t *testing.T, fake *fakeCapture) *Analyzer {
	t.Helper()

	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	c := client.New(client.WithBaseURL(srv.URL))
	ec, err := cache.NewEntryCache(256)
	require.NoError(t, err)
	tc, err := cache.NewTemplateCache(256)
	require.NoError(t, err)

	cfg := config.Load()
	engine := fingerprint.New(normalize.New(cfg.HexMinLen), tc)
	return New(c, ec, cfg, engine, filter.DefaultConfig())
}

func TestRun_NormalMode(t *testing.T) {
	fake := &fakeCapture{entries: map[string]*client.SessionEntry{}}
	fake.add(captureEntry("e1", "GET", "https://api.example.com/users/123", 200, ""))
	fake.add(captureEntry("e2", "GET", "https://api.example.com/users/456", 200, ""))
	fake.add(captureEntry("e3", "POST", "https://api.example.com/users/123", 201, ""))
	fake.add(captureEntry("e4", "GET", "https://api.example.com/static/app.js", 200, ""))
	fake.add(captureEntry("e5", "GET", "https://api.example.com/users/123/posts", 200, ""))

	a := newTestAnalyzer(t, fake)

	stats, err := a.Run(context.Background(), "s1", RunOptions{Mode: fingerprint.ModeNormal})
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Scanned)
	assert.Equal(t, 1, stats.Filtered, "static asset excluded")
	assert.Equal(t, 3, stats.Admitted)
	assert.Equal(t, 1, stats.Duplicates, "e2 repeats e1's route shape")
	assert.Equal(t, 3, stats.UniqueTotal)

	list := a.List(fingerprint.ModeNormal, "", 0, 0)
	require.Len(t, list.Entries, 3)

	// Capture order is preserved and the first occurrence is the representative.
	assert.Equal(t, "/users/{id}", list.Entries[0].Label)
	assert.Equal(t, "GET", list.Entries[0].Method)
	assert.Equal(t, "e1", list.Entries[0].EntryID)
	assert.Equal(t, 1, list.Entries[0].Duplicates)
	assert.Equal(t, "/users/{id}", list.Entries[1].Label)
	assert.Equal(t, "POST", list.Entries[1].Method)
	assert.Equal(t, "/users/{id}/posts", list.Entries[2].Label)
}

func TestRun_RepeatedRunsAreIdempotent(t *testing.T) {
	fake := &fakeCapture{entries: map[string]*client.SessionEntry{}}
	fake.add(captureEntry("e1", "GET", "https://api.example.com/items/1", 200, ""))

	a := newTestAnalyzer(t, fake)

	stats, err := a.Run(context.Background(), "s1", RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Admitted)

	stats, err = a.Run(context.Background(), "s1", RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Admitted)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.UniqueTotal)
}

func TestRun_GraphQLMode(t *testing.T) {
	fake := &fakeCapture{entries: map[string]*client.SessionEntry{}}
	fake.add(captureEntry("e1", "POST", "https://api.example.com/graphql", 200,
		`{"query": "query GetUser($id: ID!) { user(id: $id) { name } }", "variables": {"id": "1"}}`))
	fake.add(captureEntry("e2", "POST", "https://api.example.com/graphql", 200,
		`{"query": "query GetUser($id: ID!) { user(id: $id) { name } }", "variables": {"id": "2"}}`))
	fake.add(captureEntry("e3", "POST", "https://api.example.com/graphql", 200,
		`{"query": "mutation CreateUser { createUser { id } }"}`))
	fake.add(captureEntry("e4", "POST", "https://api.example.com/login", 200,
		`{"username": "admin"}`))

	a := newTestAnalyzer(t, fake)

	stats, err := a.Run(context.Background(), "s1", RunOptions{Mode: fingerprint.ModeGraphQL})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Scanned)
	assert.Equal(t, 1, stats.Filtered, "non-GraphQL body excluded")
	assert.Equal(t, 2, stats.Admitted)
	assert.Equal(t, 1, stats.Duplicates)

	list := a.List(fingerprint.ModeGraphQL, "", 0, 0)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "query GetUser", list.Entries[0].Label)
	assert.Equal(t, "e1", list.Entries[0].EntryID, "first call is the representative")
	assert.Equal(t, "mutation CreateUser", list.Entries[1].Label)
}

func TestRun_ModesAreIndependent(t *testing.T) {
	fake := &fakeCapture{entries: map[string]*client.SessionEntry{}}
	fake.add(captureEntry("e1", "POST", "https://api.example.com/graphql", 200,
		`{"query": "{ viewer { id } }"}`))

	a := newTestAnalyzer(t, fake)

	_, err := a.Run(context.Background(), "s1", RunOptions{Mode: fingerprint.ModeNormal})
	require.NoError(t, err)
	_, err = a.Run(context.Background(), "s1", RunOptions{Mode: fingerprint.ModeGraphQL})
	require.NoError(t, err)

	assert.Len(t, a.List(fingerprint.ModeNormal, "", 0, 0).Entries, 1)
	assert.Len(t, a.List(fingerprint.ModeGraphQL, "", 0, 0).Entries, 1)

	a.ClearAll(fingerprint.ModeNormal)
	assert.Empty(t, a.List(fingerprint.ModeNormal, "", 0, 0).Entries)
	assert.Len(t, a.List(fingerprint.ModeGraphQL, "", 0, 0).Entries, 1)
}

func TestRun_FilterOverride(t *testing.T) {
	fake := &fakeCapture{entries: map[string]*client.SessionEntry{}}
	fake.add(captureEntry("e1", "GET", "https://api.example.com/users", 200, ""))
	fake.add(captureEntry("e2", "POST", "https://api.example.com/users", 200, ""))

	a := newTestAnalyzer(t, fake)

	f := filter.Config{AllowGet: false, AllowPost: true, ExcludeStaticExtensions: true}
	stats, err := a.Run(context.Background(), "s1", RunOptions{Filter: &f})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Filtered)
	assert.Equal(t, 1, stats.Admitted)
	assert.Equal(t, "POST", a.List(fingerprint.ModeNormal, "", 0, 0).Entries[0].Method)
}

func TestRun_TighterFilterAdmitsSubset(t *testing.T) {
	fake := &fakeCapture{entries: map[string]*client.SessionEntry{}}
	fake.add(captureEntry("e1", "GET", "https://api.example.com/users/1", 200, ""))
	fake.add(captureEntry("e2", "GET", "https://api.example.com/static/app.js", 200, ""))
	fake.add(captureEntry("e3", "POST", "https://api.example.com/login", 200, ""))
	fake.add(captureEntry("e4", "PUT", "https://api.example.com/users/1", 200, ""))
	fake.add(captureEntry("e5", "GET", "https://api.example.com/static/data.json", 200, ""))

	a := newTestAnalyzer(t, fake)

	admittedWith := func(f filter.Config) map[string]bool {
		t.Helper()
		a.ClearAll(fingerprint.ModeNormal)
		_, err := a.Run(context.Background(), "s1", RunOptions{Filter: &f})
		require.NoError(t, err)
		set := make(map[string]bool)
		for _, e := range a.List(fingerprint.ModeNormal, "", 0, 0).Entries {
			set[e.Fingerprint] = true
		}
		return set
	}

	loose := admittedWith(filter.Config{AllowGet: true, AllowPost: true})

	tightened := []filter.Config{
		{AllowGet: true, AllowPost: true, ExcludeStaticExtensions: true},
		{AllowGet: false, AllowPost: true, ExcludeStaticExtensions: true},
		{AllowGet: false, AllowPost: false, ExcludeStaticExtensions: true},
	}

	prev := loose
	for _, f := range tightened {
		tight := admittedWith(f)
		assert.LessOrEqual(t, len(tight), len(prev))
		for fp := range tight {
			assert.True(t, loose[fp], "tightened filter admitted a fingerprint the loose run did not")
		}
		prev = tight
	}
}

func TestList_QueryAndPagination(t *testing.T) {
	fake := &fakeCapture{entries: map[string]*client.SessionEntry{}}
	fake.add(captureEntry("e1", "GET", "https://api.example.com/users/1", 200, ""))
	fake.add(captureEntry("e2", "GET", "https://api.example.com/orders/1", 200, ""))
	fake.add(captureEntry("e3", "POST", "https://api.example.com/orders", 200, ""))

	a := newTestAnalyzer(t, fake)
	_, err := a.Run(context.Background(), "s1", RunOptions{})
	require.NoError(t, err)

	list := a.List(fingerprint.ModeNormal, "orders", 0, 0)
	assert.Equal(t, 2, list.Total)

	page := a.List(fingerprint.ModeNormal, "", 1, 1)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "/orders/{id}", page.Entries[0].Label)

	past := a.List(fingerprint.ModeNormal, "", 10, 5)
	assert.Empty(t, past.Entries)
}

func TestClearRow(t *testing.T) {
	fake := &fakeCapture{entries: map[string]*client.SessionEntry{}}
	fake.add(captureEntry("e1", "GET", "https://api.example.com/users/1", 200, ""))

	a := newTestAnalyzer(t, fake)
	_, err := a.Run(context.Background(), "s1", RunOptions{})
	require.NoError(t, err)

	fp := a.List(fingerprint.ModeNormal, "", 0, 0).Entries[0].Fingerprint
	require.NotNil(t, a.Get(fingerprint.ModeNormal, fp))

	assert.True(t, a.ClearRow(fingerprint.ModeNormal, fp))
	assert.False(t, a.ClearRow(fingerprint.ModeNormal, fp))
	assert.Nil(t, a.Get(fingerprint.ModeNormal, fp))
	assert.Empty(t, a.List(fingerprint.ModeNormal, "users", 0, 0).Entries)

	// The route is admitted fresh on the next run.
	stats, err := a.Run(context.Background(), "s1", RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Admitted)
}

func TestRun_LimitScansTail(t *testing.T) {
	fake := &fakeCapture{entries: map[string]*client.SessionEntry{}}
	for i := 0; i < 10; i++ {
		fake.add(captureEntry(fmt.Sprintf("e%d", i), "GET", fmt.Sprintf("https://api.example.com/r%d/x", i), 200, ""))
	}

	a := newTestAnalyzer(t, fake)
	stats, err := a.Run(context.Background(), "s1", RunOptions{Limit: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Scanned)
	list := a.List(fingerprint.ModeNormal, "", 0, 0)
	require.Len(t, list.Entries, 3)
	assert.Equal(t, "e7", list.Entries[0].EntryID, "limit keeps the newest entries")
}

func TestRun_FetchErrorsCounted(t *testing.T) {
	fake := &fakeCapture{entries: map[string]*client.SessionEntry{}}
	fake.add(captureEntry("e1", "GET", "https://api.example.com/users/1", 200, ""))
	fake.order = append(fake.order, "missing")

	a := newTestAnalyzer(t, fake)
	stats, err := a.Run(context.Background(), "s1", RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Scanned)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.Admitted)
}

func TestRun_UnknownSession(t *testing.T) {
	fake := &fakeCapture{entries: map[string]*client.SessionEntry{}}
	a := newTestAnalyzer(t, fake)

	_, err := a.Run(context.Background(), "nope", RunOptions{})
	require.Error(t, err)
}
