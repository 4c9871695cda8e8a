package cache

import "stream_cache/source"

// restartPrefetchIfNeeded implements spec.md §4.3's lo/hi-water restart
// rule. Caller must hold e.mu. Returns true if it set fetching to true,
// meaning the caller must post a *fetchMsg; with force it always does.
//
// ignoreLow skips the lo-water gate. force skips both the lo-water gate
// and the already-fetching/terminal-failure checks. Resume and
// readInternal (on a read arriving while the prefetcher is idle) pass
// both, so fetching restarts even over a latched failure; the idle
// hi-water poll and ResumeFetchingIfNecessary pass neither.
func (e *Engine) restartPrefetchIfNeeded(ignoreLow, force bool) bool {
	if !force {
		if e.fetching {
			return false
		}
		if e.finalStatus.IsPermanent() || e.finalStatus.Kind == source.KindEOF {
			return false
		}
	}

	if !ignoreLow && !force {
		windowEnd := e.cacheOffset + e.cache.totalSizeBytes()
		aheadOfReader := windowEnd - e.lastAccessPos
		if aheadOfReader >= e.loWater {
			return false
		}
	}

	// Gray area: release_from_start only the bytes already consumed
	// past lastAccessPos, minus a small margin, so a reader who seeks
	// slightly backwards doesn't immediately fall out of the window.
	behindReader := e.lastAccessPos - e.cacheOffset
	releasable := behindReader - GrayArea
	if releasable > 0 {
		released := e.cache.releaseFromStart(releasable)
		e.cacheOffset += released
	}

	e.retriesLeft = MaxRetries
	e.fetching = true
	return true
}
