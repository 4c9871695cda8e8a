package cache

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"stream_cache/source"
)

// fakeSource is an in-memory source.Source over a fixed byte slice,
// used to drive the engine's state machine deterministically in
// tests, the way a fake upstream would in the teacher's own stream
// tests.
type fakeSource struct {
	mu       sync.Mutex
	data     []byte
	pos      int64
	fail     error // returned once by ReadAt, then cleared
	blocked  bool
	unblock  chan struct{}
	disconnected bool
}

func newFakeSource(data []byte) *fakeSource {
	return &fakeSource{data: data}
}

func (f *fakeSource) ReadAt(offset int64, buf []byte) (int, error) {
	f.mu.Lock()
	if f.disconnected {
		f.mu.Unlock()
		return 0, source.ErrAgain
	}
	if f.fail != nil {
		err := f.fail
		f.fail = nil
		f.mu.Unlock()
		return 0, err
	}
	f.mu.Unlock()

	if offset >= int64(len(f.data)) {
		return 0, io.EOF
	}

	n := copy(buf, f.data[offset:])
	return n, nil
}

func (f *fakeSource) ReconnectAtOffset(offset int64, queryAndSetProxy *bool) source.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = false
	f.pos = offset
	*queryAndSetProxy = false
	return source.OK()
}

func (f *fakeSource) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = true
}

func (f *fakeSource) Size() (int64, bool) { return int64(len(f.data)), true }
func (f *fakeSource) Flags() source.Flags {
	return source.FlagWantsPrefetching | source.FlagIsHTTP
}
func (f *fakeSource) IsHTTP() bool                            { return true }
func (f *fakeSource) URI() string                             { return "fake://test" }
func (f *fakeSource) MimeType() string                        { return "video/mp4" }
func (f *fakeSource) DrmInit(string) error                    { return nil }
func (f *fakeSource) DrmInfo() ([]byte, string, error)        { return nil, "", nil }
func (f *fakeSource) EstimatedBandwidthKbps() (int64, bool)   { return 0, false }

var _ source.Source = &fakeSource{}

func waitForCachedBytes(t *testing.T, e *Engine, min int64, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if e.CachedSize() >= min {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d cached bytes, have %d", min, e.CachedSize())
}

func TestEngineColdSequentialRead(t *testing.T) {
	data := make([]byte, PageSize*3)
	for i := range data {
		data[i] = byte(i)
	}

	engine := NewEngine(newFakeSource(data), Options{LoWater: PageSize, HiWater: PageSize * 4})
	defer engine.Close()

	waitForCachedBytes(t, engine, int64(len(data)), 2*time.Second)

	buf := make([]byte, 100)
	n, err := engine.ReadAt(0, buf)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("expected %d bytes, got %d", len(buf), n)
	}
	for i := 0; i < n; i++ {
		if buf[i] != data[i] {
			t.Fatalf("byte %d mismatch: got %d want %d", i, buf[i], data[i])
		}
	}
}

func TestEngineReadsToEOF(t *testing.T) {
	data := []byte("hello world, this is a small file")

	engine := NewEngine(newFakeSource(data), Options{LoWater: PageSize, HiWater: PageSize * 2})
	defer engine.Close()

	waitForCachedBytes(t, engine, int64(len(data)), 2*time.Second)

	buf := make([]byte, len(data)+10)
	n, err := engine.ReadAt(0, buf)
	if n != len(data) {
		t.Fatalf("expected %d bytes, got %d (err=%v)", len(data), n, err)
	}

	n2, err := engine.ReadAt(int64(len(data)), buf)
	if err != io.EOF {
		t.Fatalf("expected io.EOF at end of file, got n=%d err=%v", n2, err)
	}
}

func TestEngineForwardSeekRefetches(t *testing.T) {
	data := make([]byte, PageSize*10)
	for i := range data {
		data[i] = byte(i)
	}

	engine := NewEngine(newFakeSource(data), Options{LoWater: PageSize, HiWater: PageSize * 3})
	defer engine.Close()

	waitForCachedBytes(t, engine, PageSize*2, 2*time.Second)

	// Seek far ahead, out of window.
	buf := make([]byte, 16)
	farOffset := int64(PageSize * 8)
	deadline := time.Now().Add(3 * time.Second)
	var n int
	var err error
	for time.Now().Before(deadline) {
		n, err = engine.ReadAt(farOffset, buf)
		if err == nil {
			break
		}
		if !errors.Is(err, source.ErrAgain) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err != nil {
		t.Fatalf("ReadAt after seek never succeeded: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("expected %d bytes, got %d", len(buf), n)
	}
	for i := 0; i < n; i++ {
		if buf[i] != data[int(farOffset)+i] {
			t.Fatalf("byte %d mismatch after seek", i)
		}
	}
}

func TestEngineSuspendResume(t *testing.T) {
	data := make([]byte, PageSize*5)

	engine := NewEngine(newFakeSource(data), Options{LoWater: PageSize, HiWater: PageSize * 2})
	defer engine.Close()

	waitForCachedBytes(t, engine, PageSize, 2*time.Second)

	engine.Suspend()
	time.Sleep(50 * time.Millisecond)
	sizeAfterSuspend := engine.CachedSize()

	time.Sleep(200 * time.Millisecond)
	if engine.CachedSize() > sizeAfterSuspend+PageSize {
		t.Fatalf("engine kept fetching while suspended: %d -> %d", sizeAfterSuspend, engine.CachedSize())
	}

	engine.Resume()
	waitForCachedBytes(t, engine, PageSize*2, 2*time.Second)
}

func TestEnginePermanentErrorLatches(t *testing.T) {
	src := newFakeSource(make([]byte, PageSize*5))
	src.fail = source.ErrUnsupported

	engine := NewEngine(src, Options{LoWater: PageSize, HiWater: PageSize * 2})
	defer engine.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_, status := engine.ApproxDataRemaining()
		if status.IsPermanent() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("engine never latched a permanent failure")
}
