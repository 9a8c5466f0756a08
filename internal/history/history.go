package history

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// DefaultLimit is the number of recent searches kept when no limit is configured.
const DefaultLimit = 5

// Storage persists the recent-searches list as a whole.
type Storage interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
	Clear(ctx context.Context) error
}

// Recent is the most-recent-first, de-duplicated list of successful search queries.
type Recent struct {
	mu      sync.Mutex
	entries []Entry
	limit   int
	storage Storage
}

// Open loads the persisted list from storage. A stored list longer than limit is truncated.
func Open(ctx context.Context, storage Storage, limit int) (*Recent, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	stored, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading recent searches: %w", err)
	}

	r := &Recent{limit: limit, storage: storage}
	for _, e := range stored {
		if strings.TrimSpace(e.Query) == "" {
			continue
		}
		r.entries = push(r.entries, e, limit, false)
	}
	return r, nil
}

// Add records a typed query as the most recent search and persists the list. Exact
// duplicates move to the front; the oldest entry is dropped past the limit.
func (r *Recent) Add(ctx context.Context, query string) error {
	return r.add(ctx, Entry{Query: query})
}

// AddPlace records a search that was answered for a picked place. Recalling it later
// looks the weather up by the same coordinates instead of re-resolving the name.
func (r *Recent) AddPlace(ctx context.Context, query string, lat, lon float64) error {
	return r.add(ctx, Entry{Query: query, Place: &Place{Lat: lat, Lon: lon}})
}

func (r *Recent) add(ctx context.Context, e Entry) error {
	e.Query = strings.TrimSpace(e.Query)
	if e.Query == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := push(slices.Clone(r.entries), e, r.limit, true)
	if err := r.storage.Save(ctx, slices.Clone(next)); err != nil {
		return fmt.Errorf("saving recent searches: %w", err)
	}
	r.entries = next
	return nil
}

// Items returns the queries, most recent first.
func (r *Recent) Items() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]string, len(r.entries))
	for i, e := range r.entries {
		items[i] = e.Query
	}
	return items
}

// Entries returns a copy of the list with any remembered coordinates.
func (r *Recent) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entries)
}

func (r *Recent) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.storage.Clear(ctx); err != nil {
		return fmt.Errorf("clearing recent searches: %w", err)
	}
	r.entries = nil
	return nil
}

// push inserts e at the front (or back, when loading stored order) without duplicate
// queries. At the front the new entry replaces an older one with the same query.
func push(entries []Entry, e Entry, limit int, front bool) []Entry {
	if i := slices.IndexFunc(entries, func(x Entry) bool { return x.Query == e.Query }); i >= 0 {
		if !front {
			return entries
		}
		entries = slices.Delete(entries, i, i+1)
	}
	if front {
		entries = slices.Insert(entries, 0, e)
	} else {
		entries = append(entries, e)
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
