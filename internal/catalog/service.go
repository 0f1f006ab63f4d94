package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// RecordStore abstracts the persistence backend holding catalog snapshots.
type RecordStore interface {
	Load() ([]Record, error)
	Save(records []Record) error
}

// JobEnqueuer schedules background work after a successful save: a backup of
// the freshly written file and a warmup so the cached summary reflects it.
type JobEnqueuer interface {
	EnqueueBackup(ctx context.Context) error
	EnqueueWarmup(ctx context.Context, trigger string) error
}

// ListFilters narrows and pages the product list.
type ListFilters struct {
	Search string
	Page   int
	Limit  int
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Added   int
	Skipped []string
}

// Service owns the in-memory collection and coordinates storage, caching and
// aggregation around it. All methods are safe for concurrent use.
type Service struct {
	col   *Collection
	store RecordStore
	cache *SummaryCache
	jobs  JobEnqueuer
	group singleflight.Group
	dirty atomic.Bool
}

// NewService wires the service. cache and jobs may be nil, which disables
// the respective side channel.
func NewService(col *Collection, store RecordStore, cache *SummaryCache, jobs JobEnqueuer) *Service {
	return &Service{col: col, store: store, cache: cache, jobs: jobs}
}

// Add validates the two mandatory identifiers, builds a record from the raw
// field values and appends it to the collection. The collection is untouched
// when validation fails.
func (s *Service) Add(ctx context.Context, raw map[string]string) (Record, error) {
	rec := NewRecord(raw)
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	s.col.Append(rec)
	s.dirty.Store(true)
	s.bumpCache(ctx)
	return rec, nil
}

// List returns the page of records matching the filters plus the total match
// count. An empty search matches everything; Limit zero disables paging.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Record, int) {
	records := s.col.Snapshot()
	if q := strings.TrimSpace(filters.Search); q != "" {
		q = strings.ToLower(q)
		matched := records[:0]
		for _, rec := range records {
			if matchesQuery(rec, q) {
				matched = append(matched, rec)
			}
		}
		records = matched
	}
	total := len(records)
	if filters.Limit <= 0 {
		return records, total
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * filters.Limit
	if start >= total {
		return []Record{}, total
	}
	end := start + filters.Limit
	if end > total {
		end = total
	}
	return records[start:end], total
}

// Records returns the full snapshot in insertion order, used by the export
// and persistence paths.
func (s *Service) Records() []Record {
	return s.col.Snapshot()
}

// Get finds the first record carrying the SKU code.
func (s *Service) Get(ctx context.Context, code string) (Record, error) {
	for _, rec := range s.col.Snapshot() {
		if rec.SKUCode == code {
			return rec, nil
		}
	}
	return Record{}, ErrRecordNotFound
}

// Summary computes the dashboard aggregates for the current snapshot.
// Concurrent callers share one computation. Cache trouble never surfaces
// here; the summary falls back to a direct computation, so the only error is
// a canceled context.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	ch := s.group.DoChan("summary", func() (interface{}, error) {
		return s.computeSummary(context.Background()), nil
	})
	select {
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	case res := <-ch:
		summary, _ := res.Val.(Summary)
		return summary, nil
	}
}

func (s *Service) computeSummary(ctx context.Context) Summary {
	records := s.col.Snapshot()
	if s.cache == nil {
		return Analyze(records)
	}
	key, err := s.cache.BuildKey(ctx, SummaryKey())
	if err != nil {
		return Analyze(records)
	}
	var summary Summary
	loader := func(context.Context) (interface{}, error) {
		return Analyze(records), nil
	}
	if err := s.cache.FetchJSON(ctx, key, &summary, loader); err != nil {
		return Analyze(records)
	}
	return summary
}

// Save persists the current snapshot. The in-memory collection stays intact
// when the store reports an error, so a failed write can simply be retried.
// After a successful save a backup and a cache warmup are enqueued when a
// queue is wired.
func (s *Service) Save(ctx context.Context) error {
	if err := s.store.Save(s.col.Snapshot()); err != nil {
		return err
	}
	s.dirty.Store(false)
	if s.jobs != nil {
		_ = s.jobs.EnqueueBackup(ctx)
		_ = s.jobs.EnqueueWarmup(ctx, "save")
	}
	return nil
}

// Reload replaces the collection with the persisted snapshot, discarding
// unsaved changes. On a load error the previous contents stay in place.
func (s *Service) Reload(ctx context.Context) error {
	records, err := s.store.Load()
	if err != nil {
		return err
	}
	s.col.ReplaceAll(records)
	s.dirty.Store(false)
	s.bumpCache(ctx)
	return nil
}

// Import appends one record per raw row, skipping rows that fail validation.
// Row numbers in the skip reasons are one-based and account for the header
// row, matching what the operator sees in a spreadsheet.
func (s *Service) Import(ctx context.Context, rows []map[string]string) ImportResult {
	var result ImportResult
	for i, raw := range rows {
		if _, err := s.Add(ctx, raw); err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		result.Added++
	}
	return result
}

// Dirty reports whether the collection has changes not yet saved.
func (s *Service) Dirty() bool {
	return s.dirty.Load()
}

func (s *Service) bumpCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Bump(ctx)
	}
}

func matchesQuery(rec Record, q string) bool {
	for _, field := range []string{rec.SKUCode, rec.SKUName, rec.ProductLine, rec.Category} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
