package suggest

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/vzahanych/weather-lookup/internal/debounce"
	"github.com/vzahanych/weather-lookup/internal/weather"
	"go.uber.org/zap"
)

type Searcher interface {
	SearchCities(ctx context.Context, query string, limit int) ([]weather.CitySuggestion, error)
}

type Options struct {
	Delay    time.Duration
	MinChars int
	Limit    int
}

// Result is one completed autocomplete lookup.
type Result struct {
	Query       string
	Generation  uint64
	Suggestions []weather.CitySuggestion
	Err         error
}

// Suggester turns a stream of input values into at most one backend search per pause
// in typing. A newer input cancels both the pending timer and any in-flight request,
// and results from superseded inputs are never delivered.
type Suggester struct {
	searcher Searcher
	opts     Options
	logger   *zap.Logger

	debouncer *debounce.Debouncer
	gen       debounce.Generation

	mu      sync.Mutex
	cancel  context.CancelFunc
	closed  bool
	results chan Result
}

func New(searcher Searcher, opts Options, logger *zap.Logger) *Suggester {
	if opts.Delay <= 0 {
		opts.Delay = 300 * time.Millisecond
	}
	if opts.MinChars <= 0 {
		opts.MinChars = 2
	}
	if opts.Limit <= 0 {
		opts.Limit = weather.DefaultSuggestionLimit
	}

	return &Suggester{
		searcher:  searcher,
		opts:      opts,
		logger:    logger,
		debouncer: debounce.New(opts.Delay),
		results:   make(chan Result, 1),
	}
}

// Results delivers completed lookups. It is closed by Close.
func (s *Suggester) Results() <-chan Result {
	return s.results
}

// Update registers the current input value. It reports whether a search was scheduled;
// inputs shorter than MinChars only cancel outstanding work.
func (s *Suggester) Update(query string) bool {
	gen := s.gen.Next()
	s.cancelInFlight()

	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < s.opts.MinChars {
		s.debouncer.Cancel()
		return false
	}

	s.debouncer.Trigger(func() {
		s.fetch(gen, q)
	})
	return true
}

// Cancel abandons any pending or in-flight search.
func (s *Suggester) Cancel() {
	s.gen.Next()
	s.debouncer.Cancel()
	s.cancelInFlight()
}

// IsCurrent reports whether gen belongs to the latest input.
func (s *Suggester) IsCurrent(gen uint64) bool {
	return s.gen.IsCurrent(gen)
}

func (s *Suggester) Close() {
	s.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.results)
	}
}

func (s *Suggester) fetch(gen uint64, q string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.mu.Lock()
	if s.closed || !s.gen.IsCurrent(gen) {
		s.mu.Unlock()
		return
	}
	s.cancel = cancel
	s.mu.Unlock()

	suggestions, err := s.searcher.SearchCities(ctx, q, s.opts.Limit)

	if !s.gen.IsCurrent(gen) {
		s.logger.Debug("Discarding superseded suggestions", zap.String("query", q))
		return
	}
	if err != nil {
		s.logger.Warn("City search failed", zap.String("query", q), zap.Error(err))
	}

	s.deliver(Result{Query: q, Generation: gen, Suggestions: suggestions, Err: err})
}

// deliver keeps only the newest undelivered result in the buffer.
func (s *Suggester) deliver(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case <-s.results:
	default:
	}
	select {
	case s.results <- r:
	default:
	}
}

func (s *Suggester) cancelInFlight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
