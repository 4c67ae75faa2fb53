package store

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

const defaultSearchDebounce = 300 * time.Millisecond

// SearchStore debounces keystrokes into search requests. Each SetQuery call
// resets the timer; only after the query has been stable for the debounce
// window does a request go out. Responses carry the sequence number of the
// query that triggered them, so a slow response for a superseded query never
// overwrites fresher results.
type SearchStore struct {
	mu       sync.Mutex
	api      *Client
	debounce time.Duration
	limit    int

	query   string
	results []domain.Product
	loading bool
	err     error

	seq   uint64
	timer *time.Timer
}

type searchData struct {
	Products []domain.Product `json:"products"`
}

// NewSearchStore creates a SearchStore with the given debounce window.
// Zero means the default of 300ms.
func NewSearchStore(api *Client, debounce time.Duration) *SearchStore {
	if debounce <= 0 {
		debounce = defaultSearchDebounce
	}
	return &SearchStore{api: api, debounce: debounce, limit: 10}
}

// SetQuery records a keystroke. An empty query cancels any pending request
// and clears the results without going to the network.
func (s *SearchStore) SetQuery(ctx context.Context, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if query == "" {
		s.results = nil
		s.loading = false
		s.err = nil
		return
	}

	s.loading = true
	seq := s.seq
	s.timer = time.AfterFunc(s.debounce, func() {
		s.fetch(ctx, query, seq)
	})
}

func (s *SearchStore) fetch(ctx context.Context, query string, seq uint64) {
	var data searchData
	err := s.api.GetQuery(ctx, "/api/v1/search", url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(s.limit)},
	}, &data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return
	}
	s.loading = false
	if err != nil {
		s.err = err
		return
	}
	s.err = nil
	s.results = data.Products
}

// Results returns the results of the latest completed search.
func (s *SearchStore) Results() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Loading reports whether a search is pending or in flight.
func (s *SearchStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error of the latest completed search, if any.
func (s *SearchStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Query returns the current query text.
func (s *SearchStore) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Close cancels any pending debounce timer.
func (s *SearchStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
}
