package cache

import (
	"io"

	"stream_cache/source"
)

// ReadAt serves one reader's request, blocking until enough bytes are
// cached, the engine latches a terminal status, or the engine is torn
// down. Grounded on stream/drivers/http_ring_buffer/main.go:ReadAt's
// out-of-window-seek-then-wait shape, generalized to spec.md §4.4's
// fast-path/slow-path split.
func (e *Engine) ReadAt(offset int64, buf []byte) (int, error) {
	e.serializer.Lock()
	defer e.serializer.Unlock()

	e.mu.Lock()

	if e.closed {
		e.mu.Unlock()
		return 0, io.EOF
	}

	if e.disconnecting {
		for e.disconnecting {
			e.cond.Wait()
		}
	}

	// Fast path: already fully in window.
	if n, err, ok := e.tryServeLocked(offset, buf); ok {
		e.mu.Unlock()
		return n, err
	}

	e.mu.Unlock()

	e.scheduler.post(&readMsg{offset: offset, buf: buf})

	e.mu.Lock()
	for e.asyncResult == nil && !e.closed {
		e.cond.Wait()
	}
	if e.closed && e.asyncResult == nil {
		e.mu.Unlock()
		return 0, io.EOF
	}
	res := e.asyncResult
	e.asyncResult = nil
	e.mu.Unlock()

	return res.n, res.err
}

// tryServeLocked attempts the cheap fast path: the whole request
// [offset, offset+len(buf)) is within [cacheOffset, cacheOffset+cached)
// and the caller can be served without going through the scheduler at
// all. Caller holds e.mu.
func (e *Engine) tryServeLocked(offset int64, buf []byte) (int, error, bool) {
	cached := e.cache.totalSizeBytes()
	windowEnd := e.cacheOffset + cached

	if offset < e.cacheOffset || offset >= windowEnd || offset+int64(len(buf)) > windowEnd {
		return 0, nil, false
	}

	avail := windowEnd - offset
	n := int64(len(buf))
	if n > avail {
		n = avail
	}
	e.cache.copy(offset-e.cacheOffset, buf, n)
	e.lastAccessPos = offset + n

	if int(n) == len(buf) {
		return int(n), nil, true
	}
	if n > 0 {
		return int(n), nil, true
	}
	if e.finalStatus.Kind == source.KindEOF {
		return 0, io.EOF, true
	}
	return 0, nil, false
}

func (e *Engine) onRead(msg *readMsg) {
	n, err := e.readInternal(msg.offset, msg.buf)

	if err == source.ErrAgain {
		e.mu.Lock()
		disconnecting := e.disconnecting
		suspended := e.suspended
		e.mu.Unlock()

		if !disconnecting && !suspended {
			e.scheduler.postDelayed(msg, ReadRetryDelay)
			return
		}
	}

	e.mu.Lock()
	e.asyncResult = &readResult{n: n, err: err}
	e.cond.Broadcast()
	e.mu.Unlock()
}

// readInternal implements spec.md §4.4's read resolution step by step.
func (e *Engine) readInternal(offset int64, buf []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.fetching {
		e.restartPrefetchIfNeeded(true, true)
		e.scheduler.post(&fetchMsg{})
	}

	cached := e.cache.totalSizeBytes()
	windowEnd := e.cacheOffset + cached

	if offset < e.cacheOffset || offset > windowEnd {
		e.lastAccessPos = offset
		seekOffset := offset - BackPadding
		if seekOffset < 0 {
			seekOffset = 0
		}
		e.seekInternalLocked(seekOffset)
		e.scheduler.post(&fetchMsg{})
		return 0, source.ErrAgain
	}

	e.lastAccessPos = offset

	avail := windowEnd - offset
	n := int64(len(buf))
	if n > avail {
		n = avail
	}

	if n > 0 {
		e.cache.copy(offset-e.cacheOffset, buf, n)
	}

	if int(n) == len(buf) {
		return int(n), nil
	}

	if e.finalStatus.IsPermanent() || e.finalStatus.Kind == source.KindEOF {
		if n > 0 {
			// Short read: hand back what's cached now, following
			// io.Reader convention; the terminal error surfaces on the
			// next call once the window is truly exhausted.
			return int(n), nil
		}
		if e.finalStatus.Kind == source.KindEOF {
			return 0, io.EOF
		}
		return 0, e.finalStatus.Err
	}

	return 0, source.ErrAgain
}

// seekInternalLocked repositions the window to serve seekOffset — the
// caller has already padded this back by BackPadding off the real read
// offset, so this is a plain inclusive-range no-op check with no
// padding of its own. Caller holds e.mu.
func (e *Engine) seekInternalLocked(seekOffset int64) {
	windowEnd := e.cacheOffset + e.cache.totalSizeBytes()
	if seekOffset >= e.cacheOffset && seekOffset <= windowEnd {
		return
	}

	released := e.cache.dropAll()
	_ = released
	e.cacheOffset = seekOffset
	if e.cacheOffset < 0 {
		e.cacheOffset = 0
	}
	e.retriesLeft = MaxRetries
	e.finalStatus = source.OK()
	e.fetching = true
}
