package cache

import "testing"

func fillPage(c *pageCache, fill int, b byte) *page {
	p := c.acquirePage()
	for i := 0; i < fill; i++ {
		p.buf[i] = b
	}
	p.fill = fill
	c.appendPage(p)
	return p
}

func TestPageCacheCopyAcrossPages(t *testing.T) {
	c := newPageCache()
	fillPage(c, PageSize, 1)
	fillPage(c, PageSize, 2)
	fillPage(c, 100, 3)

	if got := c.totalSizeBytes(); got != int64(PageSize*2+100) {
		t.Fatalf("totalSizeBytes = %d", got)
	}

	dst := make([]byte, 10)
	c.copy(int64(PageSize)-5, dst, 10)
	for i := 0; i < 5; i++ {
		if dst[i] != 1 {
			t.Fatalf("byte %d: got %d want 1", i, dst[i])
		}
	}
	for i := 5; i < 10; i++ {
		if dst[i] != 2 {
			t.Fatalf("byte %d: got %d want 2", i, dst[i])
		}
	}
}

func TestPageCacheReleaseFromStartToleratesShortMidPage(t *testing.T) {
	c := newPageCache()
	fillPage(c, 100, 1) // short page, not the tail
	fillPage(c, PageSize, 2)

	// Budget matches the short page's actual fill exactly: eviction is
	// checked against the page's real size (100), not an assumed
	// PageSize, so it pops cleanly without overshooting into the next
	// page.
	released := c.releaseFromStart(100)
	if released != 100 {
		t.Fatalf("expected the short page released (100 bytes), got %d", released)
	}
	if c.totalSizeBytes() != PageSize {
		t.Fatalf("expected %d bytes remaining, got %d", PageSize, c.totalSizeBytes())
	}

	// A budget smaller than the next head page's actual size must not
	// evict it at all.
	released = c.releaseFromStart(50)
	if released != 0 {
		t.Fatalf("expected no bytes released when budget < head page size, got %d", released)
	}
}

func TestPageCacheReleaseFromStartStopsAtRequestedAmount(t *testing.T) {
	c := newPageCache()
	fillPage(c, PageSize, 1)
	fillPage(c, PageSize, 2)
	fillPage(c, PageSize, 3)

	// Budget covers the first whole page plus 1 byte; the second page's
	// full size exceeds what's left, so eviction stops before popping it.
	released := c.releaseFromStart(int64(PageSize) + 1)
	if released != int64(PageSize) {
		t.Fatalf("expected 1 whole page released, got %d", released)
	}
	if len(c.pages) != 2 {
		t.Fatalf("expected 2 pages remaining, got %d", len(c.pages))
	}
}

func TestPageCacheAcquireRecyclesFreedPages(t *testing.T) {
	c := newPageCache()
	p := fillPage(c, PageSize, 9)
	c.releaseFromStart(int64(PageSize))

	if len(c.free) != 1 {
		t.Fatalf("expected 1 free page, got %d", len(c.free))
	}

	recycled := c.acquirePage()
	if recycled != p {
		t.Fatalf("expected acquirePage to recycle the freed page")
	}
	if recycled.fill != 0 {
		t.Fatalf("expected recycled page to be reset, fill=%d", recycled.fill)
	}
}
