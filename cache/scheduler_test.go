package cache

import (
	"sync"
	"testing"
	"time"
)

func TestSchedulerFIFOOrder(t *testing.T) {
	var mu sync.Mutex
	var order []int

	done := make(chan struct{})
	count := 0

	s := newScheduler(func(msg message) {
		n := msg.(int)
		mu.Lock()
		order = append(order, n)
		count++
		if count == 5 {
			close(done)
		}
		mu.Unlock()
	})
	defer s.stop()

	for i := 0; i < 5; i++ {
		s.post(i)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for all messages")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		if v != i {
			t.Fatalf("order[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestSchedulerDelayedMessageFiresAfterImmediate(t *testing.T) {
	var mu sync.Mutex
	var order []string

	done := make(chan struct{})

	s := newScheduler(func(msg message) {
		mu.Lock()
		order = append(order, msg.(string))
		if len(order) == 2 {
			close(done)
		}
		mu.Unlock()
	})
	defer s.stop()

	s.postDelayed("delayed", 30*time.Millisecond)
	s.post("immediate")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}

	mu.Lock()
	defer mu.Unlock()
	if order[0] != "immediate" || order[1] != "delayed" {
		t.Fatalf("unexpected order: %v", order)
	}
}

func TestSchedulerStopIsIdempotentAndDrainsNothingNew(t *testing.T) {
	handled := 0
	s := newScheduler(func(msg message) {
		handled++
	})

	s.stop()
	s.stop() // must not panic or block

	s.post("after stop")
	time.Sleep(20 * time.Millisecond)

	if handled != 0 {
		t.Fatalf("expected no messages handled after stop, got %d", handled)
	}
}
