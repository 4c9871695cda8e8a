package cache

// pageCache is the contiguous window of fetched bytes backing one
// Engine: a FIFO of fixed-size pages plus a free list recycled the way
// stream/drivers/http_ring_buffer/internal/pool.go recycled its ring
// buffers with a sync.Pool — except the cache needs whole-page FIFO
// eviction from the front (spec.md §4.1), which a generic LRU cannot
// express, so it's a plain slice-backed queue instead (see DESIGN.md).
type pageCache struct {
	pages []*page
	free  []*page
}

func newPageCache() *pageCache {
	return &pageCache{}
}

func (c *pageCache) acquirePage() *page {
	if n := len(c.free); n > 0 {
		p := c.free[n-1]
		c.free = c.free[:n-1]
		p.reset()
		return p
	}
	return newPage()
}

func (c *pageCache) releasePage(p *page) {
	c.free = append(c.free, p)
}

// appendPage pushes a freshly filled page onto the tail of the window.
// fill is not required to equal PageSize.
func (c *pageCache) appendPage(p *page) {
	c.pages = append(c.pages, p)
}

// totalSizeBytes is the number of valid bytes currently held across all
// pages in the window.
func (c *pageCache) totalSizeBytes() int64 {
	var total int64
	for _, p := range c.pages {
		total += int64(p.fill)
	}
	return total
}

// releaseFromStart evicts whole pages from the front of the window,
// stopping before popping any page whose size would exceed the
// remaining budget, and returns how many bytes were actually released.
// Mirrors the budget-decrement-then-break shape of
// NuCachedSource2::trimBuffer (original_source/media/libstagefright) —
// a page is never evicted past what was actually asked for, so a
// 1-byte budget releases nothing rather than a whole page.
func (c *pageCache) releaseFromStart(maxBytes int64) int64 {
	var released int64
	remaining := maxBytes
	for len(c.pages) > 0 {
		p := c.pages[0]
		if remaining < int64(p.fill) {
			break
		}
		c.pages = c.pages[1:]
		remaining -= int64(p.fill)
		released += int64(p.fill)
		c.releasePage(p)
	}
	return released
}

// dropAll evicts every page in the window, returning the total bytes
// released. Used on a backwards/out-of-window seek.
func (c *pageCache) dropAll() int64 {
	return c.releaseFromStart(c.totalSizeBytes())
}

// copy reads length bytes starting at byte offset `from` (relative to
// the first byte of the window) into dst, walking the page list the
// way stream/buffer/main.go's ReadAt walked its ring slab. The caller
// must have already verified [from, from+length) lies within the
// window.
func (c *pageCache) copy(from int64, dst []byte, length int64) {
	var pos int64
	var written int64
	for _, p := range c.pages {
		pageEnd := pos + int64(p.fill)
		if from < pageEnd && written < length {
			start := from - pos
			if start < 0 {
				start = 0
			}
			avail := int64(p.fill) - start
			need := length - written
			n := avail
			if n > need {
				n = need
			}
			if n > 0 {
				copy(dst[written:written+n], p.buf[start:start+n])
				written += n
				from += n
			}
		}
		pos = pageEnd
		if written >= length {
			break
		}
	}
}
