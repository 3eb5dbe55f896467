// Package robots implements the Robots Policy Cache: one cache per crawl
// run, keyed by origin, answering "may I fetch URL U as agent A?". Parsing
// is delegated to temoto/robotstxt, the same library the teacher's
// fetcher.go uses for its per-host robotsMap. The single-flight fetch
// dedup (one in-flight robots.txt request per origin, concurrent callers
// wait on it) is grounded on theaidguild-kirk-ai's requests_crawler.go
// robots cache.
package robots

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
)

// entry is the cached verdict for an origin, independent of path; actual
// per-path allow/deny is delegated to the parsed robotstxt.Group.
type entry struct {
	data *robotstxt.RobotsData // nil means "unknown" -> treated as allowed
	err  error
}

// Cache is a per-run, per-origin robots.txt cache. Zero value is not
// usable; construct with New.
type Cache struct {
	client *http.Client
	log    *logrus.Logger

	mu      sync.Mutex
	entries map[string]*entry
	inFlight map[string]chan struct{}
}

// New builds a Cache using client for robots.txt fetches (the caller
// should give this a short, dedicated timeout per §4.2).
func New(client *http.Client, log *logrus.Logger) *Cache {
	return &Cache{
		client:   client,
		log:      log,
		entries:  make(map[string]*entry),
		inFlight: make(map[string]chan struct{}),
	}
}

func origin(u *url.URL) string {
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host)
}

// CanFetch answers whether agent may fetch u, fetching and caching
// <origin>/robots.txt on first encounter. Any failure (network, non-2xx,
// parse error) is recorded as "unknown" and treated as allowed, logged at
// warn, per §4.2/§3.
func (c *Cache) CanFetch(u *url.URL, agent string) bool {
	if agent == "" {
		agent = "*"
	}
	org := origin(u)
	e := c.getOrFetch(org)
	if e.data == nil {
		return true
	}
	return e.data.FindGroup(agent).Test(u.Path)
}

func (c *Cache) getOrFetch(org string) *entry {
	c.mu.Lock()
	if e, ok := c.entries[org]; ok {
		c.mu.Unlock()
		return e
	}
	if wait, ok := c.inFlight[org]; ok {
		c.mu.Unlock()
		<-wait
		c.mu.Lock()
		e := c.entries[org]
		c.mu.Unlock()
		return e
	}
	done := make(chan struct{})
	c.inFlight[org] = done
	c.mu.Unlock()

	e := c.fetch(org)

	c.mu.Lock()
	c.entries[org] = e
	delete(c.inFlight, org)
	c.mu.Unlock()
	close(done)
	return e
}

func (c *Cache) fetch(org string) *entry {
	robotsURL := org + "/robots.txt"
	resp, err := c.client.Get(robotsURL)
	if err != nil {
		c.log.Warnf("robots: fetch %s failed, treating as allowed: %v", robotsURL, err)
		return &entry{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warnf("robots: %s returned %d, treating as allowed", robotsURL, resp.StatusCode)
		return &entry{err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		c.log.Warnf("robots: parsing %s failed, treating as allowed: %v", robotsURL, err)
		return &entry{err: err}
	}

	return &entry{data: data}
}

// FetchTimeout is the short timeout recommended for robots.txt requests.
const FetchTimeout = 5 * time.Second
