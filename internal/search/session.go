package search

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/godilite/saneamento-dashboard/internal/api"
	"go.uber.org/zap"
)

const (
	DefaultWait      = 300 * time.Millisecond
	DefaultMinLength = 3
)

var (
	// ErrSuperseded is returned to a query replaced by a newer one before its
	// quiet period ended.
	ErrSuperseded = errors.New("query superseded")
	// ErrQueryTooShort is returned when the settled query has fewer runes than
	// the minimum; no search is made.
	ErrQueryTooShort = errors.New("query too short")
	// ErrStale is returned when a newer search was dispatched while this one
	// was in flight. Its results are dropped.
	ErrStale  = errors.New("stale search result")
	ErrClosed = errors.New("search session closed")
)

type Searcher interface {
	SearchMunicipios(ctx context.Context, q string) ([]api.Municipio, error)
}

type result struct {
	municipios []api.Municipio
	err        error
}

// Session serialises one visitor's search box: keystrokes are debounced and
// only the newest dispatched search may deliver results.
type Session struct {
	id        string
	searcher  Searcher
	debouncer *Debouncer
	minLength int
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	pending  chan result
	seq      uint64
	lastUsed time.Time
	closed   bool
}

func newSession(id string, searcher Searcher, o *Options) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:        id,
		searcher:  searcher,
		debouncer: NewDebouncer(o.Wait),
		minLength: o.MinLength,
		logger:    o.Logger.With(zap.String("session", id)),
		ctx:       ctx,
		cancel:    cancel,
		lastUsed:  time.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Query submits the current content of the search box and waits for its
// outcome. A later Query supersedes this one until the debounce fires; once
// dispatched, the search is not cancelled by later input, but its results
// are reported as ErrStale if a newer search was dispatched meanwhile.
func (s *Session) Query(ctx context.Context, q string) ([]api.Municipio, error) {
	ch := make(chan result, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if !s.debouncer.Trigger(func() { s.fire(q, ch) }) {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.pending != nil {
		s.pending <- result{err: ErrSuperseded}
	}
	s.pending = ch
	s.lastUsed = time.Now()
	s.mu.Unlock()

	select {
	case r := <-ch:
		return r.municipios, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Session) fire(q string, ch chan result) {
	s.mu.Lock()
	if s.pending != ch {
		s.mu.Unlock()
		return
	}
	s.pending = nil

	if utf8.RuneCountInString(q) < s.minLength {
		s.mu.Unlock()
		ch <- result{err: ErrQueryTooShort}
		return
	}
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	municipios, err := s.searcher.SearchMunicipios(s.ctx, q)

	s.mu.Lock()
	stale := seq != s.seq
	s.mu.Unlock()

	switch {
	case stale:
		s.logger.Debug("dropping stale search result", zap.String("query", q), zap.Uint64("seq", seq))
		ch <- result{err: ErrStale}
	case err != nil:
		s.logger.Error("search failed", zap.String("query", q), zap.Error(err))
		ch <- result{err: err}
	default:
		ch <- result{municipios: municipios}
	}
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Close stops the debouncer, cancels in-flight searches and releases a
// waiting query with ErrClosed.
func (s *Session) Close() {
	s.debouncer.Stop()

	s.mu.Lock()
	s.closed = true
	if s.pending != nil {
		s.pending <- result{err: ErrClosed}
		s.pending = nil
	}
	s.mu.Unlock()

	s.cancel()
}
