// Package analyzer orchestrates deduplication runs over capture sessions.
// A run scans a session's entries in capture order, fingerprints each
// request, and admits the first occurrence of every fingerprint into a
// per-mode store. Normal mode and graphql mode keep independent state.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/waelttf/uniquereq-mcp/internal/cache"
	"github.com/waelttf/uniquereq-mcp/internal/config"
	"github.com/waelttf/uniquereq-mcp/internal/dedup"
	"github.com/waelttf/uniquereq-mcp/internal/entryfetch"
	"github.com/waelttf/uniquereq-mcp/internal/filter"
	"github.com/waelttf/uniquereq-mcp/internal/fingerprint"
	"github.com/waelttf/uniquereq-mcp/internal/index"
	"github.com/waelttf/uniquereq-mcp/pkg/client"
	"github.com/waelttf/uniquereq-mcp/pkg/graphql"
)

// modeState is the dedup store and search index for one mode.
type modeState struct {
	store *dedup.Store
	index *index.Index
}

// Analyzer owns the per-mode dedup state and runs scans against the capture API.
type Analyzer struct {
	client *client.Client
	cache  *cache.EntryCache
	config *config.Config
	engine *fingerprint.Engine
	filter filter.Config

	states   [2]*modeState
	runGroup singleflight.Group
}

// New creates an Analyzer with empty dedup state.
func New(c *client.Client, ec *cache.EntryCache, cfg *config.Config, engine *fingerprint.Engine, f filter.Config) *Analyzer {
	a := &Analyzer{
		client: c,
		cache:  ec,
		config: cfg,
		engine: engine,
		filter: f,
	}
	for i := range a.states {
		a.states[i] = &modeState{
			store: dedup.NewStore(),
			index: index.New(),
		}
	}
	return a
}

// Filter returns the filter configuration normal-mode runs use when
// RunOptions carries no override.
func (a *Analyzer) Filter() filter.Config {
	return a.filter
}

// RunOptions controls a single dedup run.
type RunOptions struct {
	Mode fingerprint.Mode
	// Limit caps how many entries are scanned, counting from the end of the
	// session (newest entries). 0 uses the configured MaxRunEntries.
	Limit int
	// Filter overrides the analyzer's filter config for this run.
	// Ignored in graphql mode.
	Filter *filter.Config
}

// RunStats summarizes a dedup run.
type RunStats struct {
	SessionID   string `json:"session_id"`
	Mode        string `json:"mode"`
	Scanned     int    `json:"scanned"`      // entries processed
	Filtered    int    `json:"filtered"`     // rejected by method/extension filter or non-GraphQL body
	Admitted    int    `json:"admitted"`     // new unique entries this run
	Duplicates  int    `json:"duplicates"`   // entries whose fingerprint was already present
	Errors      int    `json:"errors"`       // entries skipped due to fetch/decode failures
	UniqueTotal int    `json:"unique_total"` // store size after the run
	DurationMs  int64  `json:"duration_ms"`
}

// Run scans a session and admits unique requests. Concurrent runs for the
// same session and mode are coalesced; the second caller gets the first
// caller's stats.
func (a *Analyzer) Run(ctx context.Context, sessionID string, opts RunOptions) (*RunStats, error) {
	runCtx, cancel := context.WithTimeout(ctx, a.config.RunTimeout)
	defer cancel()

	key := sessionID + "\x00" + opts.Mode.String()
	v, err, _ := a.runGroup.Do(key, func() (any, error) {
		return a.doRun(runCtx, sessionID, opts)
	})
	if err != nil {
		return nil, err
	}
	return v.(*RunStats), nil
}

func (a *Analyzer) doRun(ctx context.Context, sessionID string, opts RunOptions) (*RunStats, error) {
	start := time.Now()

	session, err := a.client.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("fetching session: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 || limit > a.config.MaxRunEntries {
		limit = a.config.MaxRunEntries
	}
	entryIDs := session.EntryIDs
	if len(entryIDs) > limit {
		entryIDs = entryIDs[len(entryIDs)-limit:]
	}

	entries, err := a.fetchEntries(ctx, sessionID, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching entries: %w", err)
	}

	f := a.filter
	if opts.Filter != nil {
		f = *opts.Filter
	}

	stats := &RunStats{SessionID: sessionID, Mode: opts.Mode.String()}
	state := a.states[opts.Mode]

	// Admission must follow capture order so the earliest occurrence
	// becomes the representative; fetching is concurrent, processing is not.
	for _, entry := range entries {
		if entry == nil {
			stats.Errors++
			continue
		}
		stats.Scanned++

		switch opts.Mode {
		case fingerprint.ModeGraphQL:
			a.processGraphQL(entry, sessionID, state, stats)
		default:
			a.processNormal(entry, sessionID, f, state, stats)
		}
	}

	stats.UniqueTotal = state.store.Len()
	stats.DurationMs = time.Since(start).Milliseconds()

	slog.Info("dedup run completed",
		slog.String("session_id", sessionID),
		slog.String("mode", stats.Mode),
		slog.Int("scanned", stats.Scanned),
		slog.Int("filtered", stats.Filtered),
		slog.Int("admitted", stats.Admitted),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("unique_total", stats.UniqueTotal),
		slog.Int64("duration_ms", stats.DurationMs),
	)

	return stats, nil
}

// processNormal admits an entry by method + path template.
func (a *Analyzer) processNormal(entry *client.SessionEntry, sessionID string, f filter.Config, state *modeState, stats *RunStats) {
	method, rawPath, host := requestLine(entry)
	if method == "" {
		stats.Errors++
		return
	}

	template := a.engine.Template(rawPath)
	if !f.Accepts(method, template) {
		stats.Filtered++
		return
	}

	fp, label := a.engine.Request(method, rawPath)
	isNew, admitted := state.store.TryAdmit(fp, dedup.UniqueEntry{
		Label:       label,
		Method:      method,
		Host:        host,
		URL:         entry.URL,
		EntryID:     entry.ID,
		SessionID:   sessionID,
		Status:      responseStatus(entry),
		FirstSeenMs: entry.Timings.StartedAt,
	})
	if !isNew {
		stats.Duplicates++
		return
	}
	stats.Admitted++
	state.index.Add(admitted.Seq, label, host, method)
}

// processGraphQL admits an entry by GraphQL operation identity. Entries whose
// bodies are not recognizable GraphQL requests are filtered, regardless of
// method or path.
func (a *Analyzer) processGraphQL(entry *client.SessionEntry, sessionID string, state *modeState, stats *RunStats) {
	body, err := client.DecodeBody(entry.Request.Body)
	if err != nil {
		stats.Errors++
		return
	}

	op := graphql.Extract(body)
	if !op.IsGraphQL() {
		stats.Filtered++
		return
	}

	method, _, host := requestLine(entry)
	fp, label := a.engine.Operation(op)
	isNew, admitted := state.store.TryAdmit(fp, dedup.UniqueEntry{
		Label:       label,
		Method:      method,
		Host:        host,
		URL:         entry.URL,
		EntryID:     entry.ID,
		SessionID:   sessionID,
		Status:      responseStatus(entry),
		FirstSeenMs: entry.Timings.StartedAt,
	})
	if !isNew {
		stats.Duplicates++
		return
	}
	stats.Admitted++
	state.index.Add(admitted.Seq, label, host, op.Type)
}

// fetchEntries fetches entries using a worker pool, preserving input order.
// Individual fetch failures leave a nil slot instead of failing the run.
func (a *Analyzer) fetchEntries(ctx context.Context, sessionID string, entryIDs []string) ([]*client.SessionEntry, error) {
	entries := make([]*client.SessionEntry, len(entryIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.FetchWorkers)

	for i, entryID := range entryIDs {
		g.Go(func() error {
			entry, err := entryfetch.FetchEntry(ctx, a.client, a.cache, sessionID, entryID)
			if err != nil {
				slog.Debug("failed to fetch entry",
					slog.String("session_id", sessionID),
					slog.String("entry_id", entryID),
					slog.String("error", err.Error()),
				)
				return nil
			}
			entries[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// requestLine extracts method, raw path, and host from an entry. The path
// field takes precedence; the URL fills gaps for older capture formats.
func requestLine(entry *client.SessionEntry) (method, rawPath, host string) {
	if entry.Request.Method != nil {
		method = *entry.Request.Method
	}
	if entry.Request.Path != nil {
		rawPath = *entry.Request.Path
	}

	if parsed, err := url.Parse(entry.URL); err == nil {
		host = parsed.Host
		if rawPath == "" {
			rawPath = parsed.RequestURI()
		}
	}
	return method, rawPath, host
}

func responseStatus(entry *client.SessionEntry) int {
	if entry.Response != nil && entry.Response.StatusCode != nil {
		return *entry.Response.StatusCode
	}
	return 0
}

// ListResult is one page of unique entries.
type ListResult struct {
	Entries []dedup.UniqueEntry `json:"entries"`
	Total   int                 `json:"total"` // matches before pagination
}

// List returns unique entries for a mode in admission order, optionally
// restricted to a free-text query over label, host, and method tokens.
func (a *Analyzer) List(mode fingerprint.Mode, query string, offset, limit int) *ListResult {
	state := a.states[mode]

	matched := state.store.List()
	if query != "" {
		bm := state.index.Query(query)
		filtered := make([]dedup.UniqueEntry, 0, len(matched))
		for _, e := range matched {
			if bm.Contains(e.Seq) {
				filtered = append(filtered, e)
			}
		}
		matched = filtered
	}

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return &ListResult{Entries: matched[offset:end], Total: total}
}

// Get returns the unique entry for a fingerprint, or nil.
func (a *Analyzer) Get(mode fingerprint.Mode, fp string) *dedup.UniqueEntry {
	return a.states[mode].store.Get(fp)
}

// ClearRow forgets a single fingerprint so its next occurrence is admitted
// fresh. Returns false if the fingerprint was not present.
func (a *Analyzer) ClearRow(mode fingerprint.Mode, fp string) bool {
	state := a.states[mode]
	entry := state.store.Get(fp)
	if entry == nil {
		return false
	}
	if !state.store.Clear(fp) {
		return false
	}
	state.index.Remove(entry.Seq)
	return true
}

// ClearAll resets a mode's dedup state.
func (a *Analyzer) ClearAll(mode fingerprint.Mode) {
	state := a.states[mode]
	state.store.Reset()
	state.index.Reset()
}
