package syncs

import "sync"

// Semaphore bounds concurrency to its capacity.
type Semaphore chan struct{}

func NewSemaphore(n int) Semaphore {
	if n < 1 {
		n = 1
	}
	return make(chan struct{}, n)
}

func (s Semaphore) Acquire() {
	s <- struct{}{}
}

func (s Semaphore) Release() {
	<-s
}

// Go runs fn in a new goroutine once a slot is free. It blocks until then.
func (s Semaphore) Go(wg *sync.WaitGroup, fn func()) {
	s.Acquire()
	wg.Go(func() {
		defer s.Release()
		fn()
	})
}
