package cache

// PageSize is the fixed unit the cache allocates and evicts in, per
// spec.md §4.1. Picked to match a typical filesystem/network MTU
// multiple the same way the teacher's ring buffer sized its chunks.
const PageSize = 64 * 1024

// page holds up to PageSize bytes starting at some offset the owning
// pageCache tracks implicitly by list position. fill may be less than
// PageSize — not just for the last page in the window, per the Open
// Question resolution recorded in DESIGN.md.
type page struct {
	buf  []byte
	fill int
}

func newPage() *page {
	return &page{buf: make([]byte, PageSize)}
}

func (p *page) reset() {
	p.fill = 0
}
