// Package frontier implements the Frontier: a bounded work queue with
// traversal order (breadth- or depth-first), dedup, and an active-task
// counter governing termination, per §3/§4.10/§5/§9.
package frontier

import (
	"sync"

	"github.com/rpalermodrums/distributed-web-crawler/config"
)

// Entry is the FrontierEntry from §3.
type Entry struct {
	URL   string
	Depth int
}

// Frontier holds pending entries plus the visited/broken-link bookkeeping
// that the per-URL pipeline consults. Traversal order is fixed at
// construction: breadth-first pops the front (FIFO), depth-first pops the
// back (LIFO), per §4.10.
type Frontier struct {
	pattern config.CrawlPattern

	mu      sync.Mutex
	entries []Entry
	visited map[string]bool
	broken  []BrokenLink

	tasks *activeTasks
}

// BrokenLink records a page whose fetch failed (§4.10 edge case).
type BrokenLink struct {
	URL   string
	Cause string
}

// New builds an empty Frontier for the given traversal pattern.
func New(pattern config.CrawlPattern) *Frontier {
	return &Frontier{
		pattern: pattern,
		visited: make(map[string]bool),
		tasks:   newActiveTasks(),
	}
}

// Seed enqueues the initial URL at depth 0, unconditionally (it cannot
// already be visited).
func (f *Frontier) Seed(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, Entry{URL: url, Depth: 0})
}

// Enqueue adds entry if its URL is not already visited, per the invariant "the frontier never contains URLs already in
// visited" (§3 invariant 3). Pending duplicates are allowed (§4.10 edge
// case: "a URL may be enqueued multiple times before it is visited").
func (f *Frontier) Enqueue(entry Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.visited[entry.URL] {
		return
	}
	f.entries = append(f.entries, entry)
}

// EnqueueChildren appends a page's accepted outbound links in the order
// required by the traversal pattern: breadth-first appends as-is (explored
// in discovery order once their turn comes, since FIFO); depth-first
// appends in reverse so the first link on the page is the next one popped
// (§4.10, §9's LIFO-by-stack canonicalization).
func (f *Frontier) EnqueueChildren(depth int, urls []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ordered := urls
	if f.pattern == config.DepthFirst {
		ordered = make([]string, len(urls))
		for i, u := range urls {
			ordered[len(urls)-1-i] = u
		}
	}
	for _, u := range ordered {
		if f.visited[u] {
			continue
		}
		f.entries = append(f.entries, Entry{URL: u, Depth: depth})
	}
}

// Pop removes and returns the next entry per the traversal discipline, or
// ok=false if the frontier is currently empty. It marks one task active;
// callers must call Done when the pipeline for this entry has finished
// (including any children it enqueues), per the active-task counter
// discipline in §5/§9.
func (f *Frontier) Pop() (Entry, bool) {
	f.mu.Lock()
	if len(f.entries) == 0 {
		f.mu.Unlock()
		return Entry{}, false
	}

	var e Entry
	if f.pattern == config.DepthFirst {
		e = f.entries[len(f.entries)-1]
		f.entries = f.entries[:len(f.entries)-1]
	} else {
		e = f.entries[0]
		f.entries = f.entries[1:]
	}
	f.mu.Unlock()

	f.tasks.inc()
	return e, true
}

// Done signals that the task claimed by the matching Pop has completed.
func (f *Frontier) Done() {
	f.tasks.dec()
}

// Len reports the number of entries currently queued (not including
// in-flight tasks).
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// ActiveTasks reports the number of popped-but-not-Done tasks.
func (f *Frontier) ActiveTasks() int {
	return f.tasks.value()
}

// Quiescent reports whether the frontier is empty and no worker is
// currently mid-pipeline (§5's termination condition).
func (f *Frontier) Quiescent() bool {
	return f.Len() == 0 && f.ActiveTasks() == 0
}

// MarkVisited records url as visited (§3 invariant 1/2). Returns false if
// it was already visited, so callers can implement "only the first pop
// that passes robots/depth performs the fetch" (§4.10 edge case).
func (f *Frontier) MarkVisited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.visited[url] {
		return false
	}
	f.visited[url] = true
	return true
}

// IsVisited reports whether url has already produced an emitted record.
func (f *Frontier) IsVisited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited[url]
}

// RecordBroken appends url to the broken-links report (§4.10, §7).
func (f *Frontier) RecordBroken(url, cause string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broken = append(f.broken, BrokenLink{URL: url, Cause: cause})
}

// BrokenLinks returns a copy of the broken-links report.
func (f *Frontier) BrokenLinks() []BrokenLink {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]BrokenLink, len(f.broken))
	copy(out, f.broken)
	return out
}

// VisitedURLs returns a copy of the visited set's keys, for snapshotting.
func (f *Frontier) VisitedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.visited))
	for u := range f.visited {
		out = append(out, u)
	}
	return out
}

// PendingEntries returns a copy of the currently queued entries, for
// snapshotting.
func (f *Frontier) PendingEntries() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Restore replaces the frontier's visited set and pending entries,
// used when resuming from a state snapshot.
func (f *Frontier) Restore(visited []string, entries []Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited = make(map[string]bool, len(visited))
	for _, u := range visited {
		f.visited[u] = true
	}
	f.entries = append([]Entry(nil), entries...)
}
