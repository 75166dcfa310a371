package syncs

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSemaphore(t *testing.T) {
	sem := NewSemaphore(2)
	var running, peak atomic.Int64
	wg := new(sync.WaitGroup)
	for range 10 {
		sem.Go(wg, func() {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
		})
	}
	wg.Wait()
	if peak.Load() > 2 {
		t.Fatalf("got %d", peak.Load())
	}
	if len(sem) != 0 {
		t.Fatalf("got %d", len(sem))
	}
}

func TestNewSemaphoreMinimum(t *testing.T) {
	if cap(NewSemaphore(0)) != 1 {
		t.Fatal()
	}
}
