// Package cache implements the read-ahead cache engine: a bounded
// window of upstream bytes kept fresh by a single cooperative
// prefetch loop, served to readers with a fast path on cache hit and
// a condvar wait on cache miss. Grounded on
// stream/drivers/http_ring_buffer/main.go's Stream, generalized from
// one ring slab into the lo/hi-water page-window state machine of
// spec.md §3-§5.
package cache

import (
	"fmt"
	"sync"
	"time"

	"stream_cache/logger"
	"stream_cache/source"
)

// Tunables, spec.md §3.2, unless overridden by Options.
const (
	DefaultLoWater    = 2 * 1024 * 1024
	DefaultHiWater    = 20 * 1024 * 1024
	DefaultKeepAlive  = 15 * time.Second
	MaxRetries        = 10
	GrayArea          = 1024 * 1024
	BackPadding       = 256 * 1024
	ReadRetryDelay    = 50 * time.Millisecond
	FetchRetryDelay   = 3 * time.Second
	IdlePollDelay     = 100 * time.Millisecond
)

// Options configures a new Engine. Zero values fall back to the
// defaults above.
type Options struct {
	LoWater         int64
	HiWater         int64
	KeepAlivePeriod time.Duration
	DisconnectAtHi  bool
	Logger          logger.Logger
}

// Engine is the read-ahead cache in front of one source.Source. All
// mutable state except the page cache's byte contents during an
// in-flight unlocked upstream call is guarded by mu; cond is used to
// wake readers blocked in ReadAt once the scheduler's single worker
// goroutine makes progress.
type Engine struct {
	upstream source.Source
	log      logger.Logger

	cache *pageCache

	mu   sync.Mutex
	cond *sync.Cond

	// serializer ensures ReadAt calls from multiple goroutines enqueue
	// one at a time, matching spec.md §4.4's single-reader-at-a-time
	// assumption.
	serializer sync.Mutex

	cacheOffset   int64 // byte offset of the first byte in cache.pages
	lastAccessPos int64

	finalStatus source.Status
	retriesLeft int

	fetching      bool
	disconnecting bool
	suspended     bool
	closed        bool

	lastFetchTime time.Time

	loWater         int64
	hiWater         int64
	keepAlivePeriod time.Duration
	disconnectAtHi  bool

	// proxyConfigured/queryAndSetProxy are touched only from the
	// scheduler goroutine (fetchInternal), never under mu; see
	// cache/prefetch.go.
	proxyConfigured  bool
	queryAndSetProxy bool

	asyncResult *readResult

	scheduler *scheduler
}

type readResult struct {
	n   int
	err error
}

type fetchMsg struct{}

type readMsg struct {
	offset int64
	buf    []byte
}

// NewEngine constructs an Engine over upstream and immediately posts
// the initial fetch that primes the window from offset 0.
func NewEngine(upstream source.Source, opts Options) *Engine {
	e := &Engine{
		upstream:        upstream,
		log:             opts.Logger,
		cache:           newPageCache(),
		loWater:         orDefault(opts.LoWater, DefaultLoWater),
		hiWater:         orDefault(opts.HiWater, DefaultHiWater),
		keepAlivePeriod: opts.KeepAlivePeriod,
		disconnectAtHi:  opts.DisconnectAtHi,
		retriesLeft:     MaxRetries,
		finalStatus:     source.OK(),
	}
	if e.keepAlivePeriod == 0 {
		e.keepAlivePeriod = DefaultKeepAlive
	}
	if e.log == nil {
		e.log = logger.Noop()
	}
	e.cond = sync.NewCond(&e.mu)
	e.scheduler = newScheduler(e.dispatch)

	e.mu.Lock()
	e.fetching = true
	e.mu.Unlock()
	e.scheduler.post(&fetchMsg{})

	return e
}

func orDefault(v, def int64) int64 {
	if v <= 0 {
		return def
	}
	return v
}

func (e *Engine) dispatch(msg message) {
	switch m := msg.(type) {
	case *fetchMsg:
		e.onFetch()
	case *readMsg:
		e.onRead(m)
	default:
		panic(fmt.Sprintf("cache: unknown message type %T", msg))
	}
}

// Disconnect tears down the upstream connection and marks the engine
// as winding down; any reader blocked in ReadAt is woken with
// ErrAgain or the latched final status. It does not close the
// scheduler — a subsequent Resume can still bring the engine back.
func (e *Engine) Disconnect() {
	e.mu.Lock()
	e.disconnecting = true
	e.mu.Unlock()

	e.upstream.Disconnect()

	e.mu.Lock()
	e.disconnecting = false
	e.cond.Broadcast()
	e.mu.Unlock()
}

// Close permanently shuts the engine down: disconnects upstream, stops
// the scheduler goroutine, and wakes any blocked reader.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.disconnecting = true
	e.mu.Unlock()

	e.upstream.Disconnect()
	e.scheduler.stop()

	e.mu.Lock()
	e.disconnecting = false
	e.cache.dropAll()
	e.cond.Broadcast()
	e.mu.Unlock()

	return nil
}

// Suspend pauses prefetching without tearing down the cached window.
// Reads that are fully inside the window are still served from cache;
// prefetching stays paused until Resume. Mirrors spec.md §4.5.
func (e *Engine) Suspend() {
	e.mu.Lock()
	e.suspended = true
	e.mu.Unlock()
}

// Resume un-suspends the engine and unconditionally restarts fetching,
// bypassing the lo-water gate restartPrefetchIfNeeded normally applies
// — a caller that explicitly asks to resume wants fetching moving
// again regardless of how full the window already looks.
func (e *Engine) Resume() {
	e.mu.Lock()
	e.suspended = false
	e.restartPrefetchIfNeeded(true, true)
	e.mu.Unlock()
	e.scheduler.post(&fetchMsg{})
}

// ResumeFetchingIfNecessary re-evaluates the lo-water restart rule and,
// if it fires, posts a fresh fetch. Safe to call at any time; a no-op
// if fetching is already underway or the engine holds a terminal
// failure.
func (e *Engine) ResumeFetchingIfNecessary() {
	e.mu.Lock()
	started := e.restartPrefetchIfNeeded(false, false)
	e.mu.Unlock()
	if started {
		e.scheduler.post(&fetchMsg{})
	}
}

// CachedSize returns the number of bytes currently held in the window.
func (e *Engine) CachedSize() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.totalSizeBytes()
}

// ApproxDataRemaining reports how many contiguous bytes are available
// ahead of lastAccessPos, along with the engine's latched status.
func (e *Engine) ApproxDataRemaining() (int64, source.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()

	windowEnd := e.cacheOffset + e.cache.totalSizeBytes()
	remaining := windowEnd - e.lastAccessPos
	if remaining < 0 {
		remaining = 0
	}
	return remaining, e.finalStatus
}

func (e *Engine) Size() (int64, bool) { return e.upstream.Size() }

// Flags reports the engine's own capability surface to its consumer:
// prefetching and raw-HTTP semantics are internal to the engine now,
// masked off in favor of advertising that reads are served from cache.
func (e *Engine) Flags() source.Flags {
	f := e.upstream.Flags()
	f &^= source.FlagWantsPrefetching | source.FlagIsHTTP
	f |= source.FlagIsCaching
	return f
}

func (e *Engine) URI() string      { return e.upstream.URI() }
func (e *Engine) MimeType() string { return e.upstream.MimeType() }

func (e *Engine) DrmInit(mimeType string) error { return e.upstream.DrmInit(mimeType) }

func (e *Engine) DrmInfo() ([]byte, string, error) { return e.upstream.DrmInfo() }

func (e *Engine) EstimatedBandwidthKbps() (int64, bool) {
	if !e.upstream.IsHTTP() {
		return 0, false
	}
	return e.upstream.EstimatedBandwidthKbps()
}

// Snapshot is a point-in-time view for metrics polling; see
// metrics/engine.go.
type Snapshot struct {
	CachedBytes   int64
	CacheOffset   int64
	LastAccessPos int64
	Fetching      bool
	Suspended     bool
	RetriesLeft   int
	FinalStatus   source.Status
}

func (e *Engine) TakeSnapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		CachedBytes:   e.cache.totalSizeBytes(),
		CacheOffset:   e.cacheOffset,
		LastAccessPos: e.lastAccessPos,
		Fetching:      e.fetching,
		Suspended:     e.suspended,
		RetriesLeft:   e.retriesLeft,
		FinalStatus:   e.finalStatus,
	}
}
