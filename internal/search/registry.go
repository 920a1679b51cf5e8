package search

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultSessionTTL = 30 * time.Minute

type Options struct {
	Wait       time.Duration
	MinLength  int
	SessionTTL time.Duration
	Logger     *zap.Logger
}

type Option func(*Options)

func WithWait(wait time.Duration) Option {
	return func(o *Options) { o.Wait = wait }
}

func WithMinLength(n int) Option {
	return func(o *Options) { o.MinLength = n }
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(o *Options) { o.SessionTTL = ttl }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Registry holds one Session per visitor. Sessions idle for longer than the
// TTL are closed by a background sweep.
type Registry struct {
	searcher Searcher
	options  Options
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewRegistry(searcher Searcher, opts ...Option) *Registry {
	if searcher == nil {
		panic("nil Searcher provided to NewRegistry")
	}
	options := Options{
		Wait:       DefaultWait,
		MinLength:  DefaultMinLength,
		SessionTTL: DefaultSessionTTL,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	options.Logger = options.Logger.Named("search")

	r := &Registry{
		searcher: searcher,
		options:  options,
		logger:   options.Logger,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}

	if options.SessionTTL > 0 {
		r.wg.Add(1)
		go r.sweepLoop()
	}
	return r
}

// Session returns the session for id, creating one under a fresh id when id
// is empty or unknown.
func (r *Registry) Session(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s
	}

	id = uuid.NewString()
	s := newSession(id, r.searcher, &r.options)
	r.sessions[id] = s
	r.logger.Debug("search session created", zap.String("session", id))
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes and forgets sessions idle since before now minus the TTL.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.options.SessionTTL)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		r.logger.Debug("swept idle search sessions", zap.Int("count", len(idle)))
	}
	return len(idle)
}

func (r *Registry) sweepLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.options.SessionTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			r.Sweep(now)
		case <-r.done:
			return
		}
	}
}

// Close stops the sweep and tears down every session.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		r.wg.Wait()

		r.mu.Lock()
		sessions := r.sessions
		r.sessions = make(map[string]*Session)
		r.mu.Unlock()

		for _, s := range sessions {
			s.Close()
		}
		r.logger.Info("search sessions closed", zap.Int("count", len(sessions)))
	})
}
