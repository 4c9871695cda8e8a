package cache

import (
	"time"

	"stream_cache/source"
)

// onFetch is the FETCH message handler: it decides whether to keep
// fetching, pause for a keep-alive interval, disconnect at the high
// watermark, or stop entirely, then (if it decided to fetch) calls
// fetchInternal and reschedules itself. Grounded on
// stream/drivers/http_ring_buffer/internal/transfer/main.go's
// start/copyData pump, generalized into spec.md §4.2's 8-step
// activation logic.
func (e *Engine) onFetch() {
	e.mu.Lock()

	if e.closed {
		e.mu.Unlock()
		return
	}

	if e.suspended {
		e.fetching = false
		e.finalStatus = source.Retryable(source.ErrAgain)
		e.mu.Unlock()
		e.upstream.Disconnect()
		return
	}

	if e.finalStatus.IsPermanent() || (e.finalStatus.Kind == source.KindEOF && e.retriesLeft == 0) {
		e.fetching = false
		e.mu.Unlock()
		return
	}

	windowSize := e.cache.totalSizeBytes()
	hitHiWater := windowSize >= e.hiWater

	if hitHiWater {
		e.fetching = false
		keepAliveDue := e.keepAlivePeriod > 0 && time.Since(e.lastFetchTime) < e.keepAlivePeriod
		if e.disconnectAtHi && e.upstream.IsHTTP() && !e.proxyConfigured && !keepAliveDue {
			e.fetching = false
			e.finalStatus = source.Retryable(source.ErrAgain)
			e.mu.Unlock()
			e.upstream.Disconnect()
			return
		}

		// Stay connected (or it's not yet time to disconnect); idle-poll
		// until the window drains below hi-water again. Each poll runs
		// the lo-water restart check, which evicts the consumed prefix
		// once the reader has moved far enough ahead.
		e.restartPrefetchIfNeeded(false, false)
		e.mu.Unlock()
		e.scheduler.postDelayed(&fetchMsg{}, IdlePollDelay)
		return
	}

	e.mu.Unlock()

	status := e.fetchInternal()

	var delay time.Duration
	switch status.Kind {
	case source.KindOK:
		delay = 0
	case source.KindRetryableTransport:
		delay = FetchRetryDelay
	case source.KindEOF:
		delay = 0
	case source.KindPermanentTransport:
		e.mu.Lock()
		e.fetching = false
		e.mu.Unlock()
		e.cond.Broadcast()
		return
	default:
		delay = FetchRetryDelay
	}

	e.mu.Lock()
	if status.Kind == source.KindEOF && e.retriesLeft == 0 {
		e.fetching = false
		e.mu.Unlock()
		e.cond.Broadcast()
		return
	}
	e.mu.Unlock()

	e.cond.Broadcast()
	e.scheduler.postDelayed(&fetchMsg{}, delay)
}

// fetchInternal performs one upstream fetch: reconnect if needed, read
// one page's worth of bytes, and classify the result into the engine's
// retry/final-status bookkeeping. It intentionally does not hold e.mu
// while calling into upstream, matching the source.Source contract
// that ReadAt must never be called under the engine's lock.
func (e *Engine) fetchInternal() source.Status {
	e.mu.Lock()
	needReconnect := e.finalStatus.Kind != source.KindOK
	fetchOffset := e.cacheOffset + e.cache.totalSizeBytes()
	p := e.cache.acquirePage()
	e.mu.Unlock()

	if needReconnect {
		e.queryAndSetProxy = true
		status := e.upstream.ReconnectAtOffset(fetchOffset, &e.queryAndSetProxy)
		if !status.IsOK() {
			e.mu.Lock()
			e.cache.releasePage(p)
			e.finalStatus = status
			if status.IsPermanent() {
				e.retriesLeft = 0
			} else {
				e.retriesLeft--
				if e.retriesLeft <= 0 {
					status = source.Permanent(status.Err)
					e.finalStatus = status
				}
			}
			e.mu.Unlock()
			return status
		}
		if e.proxyConfigured && !e.queryAndSetProxy && e.disconnectAtHi {
			// Proxy renegotiation failed silently; the origin has no
			// separate proxy channel to retry, so keep-alive polling
			// against a connection that will never reconnect cleanly is
			// pointless for the remainder of this engine's life.
			e.keepAlivePeriod = 0
		}
		e.proxyConfigured = e.queryAndSetProxy
	}

	n, err := e.upstream.ReadAt(fetchOffset, p.buf)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastFetchTime = time.Now()

	if e.disconnecting {
		e.cache.releasePage(p)
		return source.Paused()
	}

	if n == 0 && isEOFErr(err) {
		e.cache.releasePage(p)
		e.retriesLeft = 0
		e.finalStatus = source.EOF()
		return e.finalStatus
	}

	if err != nil && !isEOFErr(err) {
		e.cache.releasePage(p)
		status := mapUpstreamErr(err)
		e.finalStatus = status
		if status.IsPermanent() {
			e.retriesLeft = 0
		} else {
			e.retriesLeft--
			if e.retriesLeft <= 0 {
				status = source.Permanent(err)
				e.finalStatus = status
			}
		}
		return status
	}

	p.fill = n
	e.cache.appendPage(p)
	e.retriesLeft = MaxRetries
	e.finalStatus = source.OK()

	if isEOFErr(err) {
		// n > 0 alongside io.EOF: last partial page, upstream is done
		// after this.
		e.retriesLeft = 0
		e.finalStatus = source.EOF()
	}

	return e.finalStatus
}
