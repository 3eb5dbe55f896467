// Package proxyrotate implements the Proxy Rotator: round-robin selection
// over a static proxy list. Grounded on the teacher's preference for a
// plain atomic counter over a mutex for simple advance-and-read state
// (fetcher.go's activeFetcherHeartbeat, cassandra/datastore.go's
// claimCursor).
package proxyrotate

import (
	"bufio"
	"net/url"
	"os"
	"sync/atomic"
)

// Rotator hands out proxy endpoints round-robin. The zero value (no
// proxies loaded) is usable and always returns ok=false.
type Rotator struct {
	proxies []*url.URL
	counter uint64
}

// New builds a Rotator over the given proxy endpoint strings, parsed as
// URLs. Invalid entries are skipped.
func New(endpoints []string) *Rotator {
	r := &Rotator{}
	for _, e := range endpoints {
		if e == "" {
			continue
		}
		u, err := url.Parse(e)
		if err != nil {
			continue
		}
		r.proxies = append(r.proxies, u)
	}
	return r
}

// LoadFile reads a newline-separated proxy list file, per the
// `proxy_list` config key.
func LoadFile(path string) (*Rotator, error) {
	if path == "" {
		return New(nil), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(lines), nil
}

// Next returns the next proxy round-robin, or ok=false if the list is
// empty. Exact interleaving under concurrency is unspecified; fair
// rotation over a long run is the only invariant (§4.3).
func (r *Rotator) Next() (u *url.URL, ok bool) {
	if len(r.proxies) == 0 {
		return nil, false
	}
	n := atomic.AddUint64(&r.counter, 1)
	idx := int((n - 1) % uint64(len(r.proxies)))
	return r.proxies[idx], true
}

// Len reports how many proxies are loaded.
func (r *Rotator) Len() int {
	return len(r.proxies)
}
