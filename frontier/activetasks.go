package frontier

import "sync"

// activeTasks is a condition-variable based up/down counter for in-flight
// work, adapted from the teacher's semaphore package (semaphore.go),
// which exists specifically to avoid sync.WaitGroup's race-detector
// noise around Add/Wait races. Renamed and narrowed to this package's
// single use: tracking work a worker has claimed but not yet finished, so
// termination (§5, §9) can distinguish "frontier empty" from "frontier
// empty and nobody is about to refill it".
type activeTasks struct {
	cond  *sync.Cond
	lock  sync.Mutex
	count int
}

func newActiveTasks() *activeTasks {
	t := &activeTasks{}
	t.cond = sync.NewCond(&t.lock)
	return t
}

func (t *activeTasks) inc() {
	t.lock.Lock()
	t.count++
	t.lock.Unlock()
}

func (t *activeTasks) dec() {
	t.lock.Lock()
	t.count--
	if t.count <= 0 {
		t.cond.Broadcast()
	}
	t.lock.Unlock()
}

// waitUntilZero blocks until the counter reaches zero.
func (t *activeTasks) waitUntilZero() {
	t.lock.Lock()
	defer t.lock.Unlock()
	for t.count > 0 {
		t.cond.Wait()
	}
}

func (t *activeTasks) value() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.count
}
