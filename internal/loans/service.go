package loans

import (
	"context"
	"sync"
	"time"

	"github.com/nivkeidan/finbook/internal/api"
)

const defaultStaleTTL = 30 * time.Second

// Fetcher is the API surface the service needs.
type Fetcher interface {
	LoanBreakdown(ctx context.Context, loanID string) ([]api.BreakdownEntry, error)
}

type cacheEntry struct {
	entries   []api.BreakdownEntry
	fetchedAt time.Time
}

// Service serves loan breakdowns from a per-loan request cache. A cached
// schedule is reused until it goes stale, then refetched on the next
// view entry. Callers run on UI command goroutines, so the cache is
// mutex-guarded.
type Service struct {
	fetcher  Fetcher
	staleTTL time.Duration
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewService(fetcher Fetcher) *Service {
	return &Service{
		fetcher:  fetcher,
		staleTTL: defaultStaleTTL,
		now:      time.Now,
		cache:    make(map[string]cacheEntry),
	}
}

// Get returns the breakdown for a loan, fetching when the cache is
// empty or stale. A fetch failure with a cached copy present falls back
// to the stale copy.
func (s *Service) Get(ctx context.Context, loanID string) ([]api.BreakdownEntry, error) {
	s.mu.Lock()
	cached, ok := s.cache[loanID]
	fresh := ok && s.now().Sub(cached.fetchedAt) <= s.staleTTL
	s.mu.Unlock()
	if fresh {
		return cached.entries, nil
	}

	entries, err := s.fetcher.LoanBreakdown(ctx, loanID)
	if err != nil {
		if ok {
			return cached.entries, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.cache[loanID] = cacheEntry{entries: entries, fetchedAt: s.now()}
	s.mu.Unlock()
	return entries, nil
}

// Invalidate drops the cached schedule for a loan, forcing the next Get
// to refetch. Used by manual refresh.
func (s *Service) Invalidate(loanID string) {
	s.mu.Lock()
	delete(s.cache, loanID)
	s.mu.Unlock()
}
