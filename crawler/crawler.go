// Package crawler wires the leaf components into the Frontier & Scheduler
// described in §4.10: a worker pool pulling from a shared frontier,
// running the per-page pipeline, and feeding new links back. Grounded on
// the teacher's FetchManager.Start() worker-pool shape (fetcher.go),
// generalized with the explicit active-task counter §5/§9 call for, and
// on other_examples ScrapeGoat's idleMonitor for detecting quiescent
// termination.
package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rpalermodrums/distributed-web-crawler/changedetect"
	"github.com/rpalermodrums/distributed-web-crawler/classify"
	"github.com/rpalermodrums/distributed-web-crawler/config"
	"github.com/rpalermodrums/distributed-web-crawler/crawlnorm"
	"github.com/rpalermodrums/distributed-web-crawler/extract"
	"github.com/rpalermodrums/distributed-web-crawler/fetch"
	"github.com/rpalermodrums/distributed-web-crawler/frontier"
	"github.com/rpalermodrums/distributed-web-crawler/notify"
	"github.com/rpalermodrums/distributed-web-crawler/plugin"
	"github.com/rpalermodrums/distributed-web-crawler/proxyrotate"
	"github.com/rpalermodrums/distributed-web-crawler/robots"
	"github.com/rpalermodrums/distributed-web-crawler/sink"
	"github.com/rpalermodrums/distributed-web-crawler/snapshot"
)

// Crawler holds every component the pipeline in §4.10 touches, injected
// explicitly rather than reached through package-level globals, per the
// "pass an explicit context carrying logger, HTTP client, robots cache,
// and sink" design note in §9.
type Crawler struct {
	cfg     config.Config
	log     *logrus.Logger
	front   *frontier.Frontier
	fetcher *fetch.Fetcher
	robots  *robots.Cache
	norm    crawlnorm.Filter
	proxies *proxyrotate.Rotator
	changes *changedetect.Store
	notify  *notify.Notifier
	sink    sink.Sink
	plugins *plugin.Registry
}

// New constructs a Crawler from a validated Config.
func New(cfg config.Config, log *logrus.Logger) (*Crawler, error) {
	f, err := fetch.New(fetch.Config{
		Timeout:            config.RequestTimeout,
		UserAgent:          cfg.UserAgent,
		MaxDNSCacheEntries: 1024,
		BlockPrivateAddr:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("building fetcher: %w", err)
	}
	if cfg.RenderJS {
		f.Renderer = fetch.NewChromeRenderer()
	}

	proxies, err := proxyrotate.LoadFile(cfg.ProxyList)
	if err != nil {
		return nil, fmt.Errorf("loading proxy_list: %w", err)
	}

	s, err := sink.New(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	plugins := plugin.NewRegistry(log)
	plugins.Discover(cfg.PluginDir)

	return &Crawler{
		cfg:     cfg,
		log:     log,
		front:   frontier.New(cfg.CrawlPattern),
		fetcher: f,
		robots:  robots.New(newRobotsClient(cfg.UserAgent), log),
		norm:    crawlnorm.Filter{ExcludePatterns: cfg.ExcludePatterns},
		proxies: proxies,
		changes: changedetect.New(),
		notify:  notify.New("localhost:25", "crawler@localhost", cfg.NotificationEmail, log),
		sink:    s,
		plugins: plugins,
	}, nil
}

// Run executes one complete crawl: seed or resume, drive the worker pool
// to quiescence, then snapshot and report, per §4.10/§4.11/§5.
func (c *Crawler) Run(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	if c.cfg.Resume {
		if err := c.resume(); err != nil {
			c.log.Warnf("resume: %v, starting fresh from seed", err)
			c.front.Seed(c.cfg.URL)
		}
	} else {
		c.front.Seed(c.cfg.URL)
	}

	if err := c.sink.Open(c.cfg.Output); err != nil {
		return fmt.Errorf("opening sink: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go c.idleMonitor(runCtx, cancel, done)

	for i := 0; i < c.cfg.Threads; i++ {
		go c.worker(runCtx, i)
	}

	<-done

	if err := c.sink.Close(); err != nil {
		c.log.Errorf("closing sink: %v", err)
	}

	if err := c.saveSnapshot(); err != nil {
		c.log.Warnf("saving state snapshot: %v", err)
	}

	for _, b := range c.front.BrokenLinks() {
		c.log.Warnf("broken link: %s (%s)", b.URL, b.Cause)
	}

	return nil
}

// idleMonitor closes done once the frontier has been empty with zero
// active tasks for several consecutive polls, distinguishing "drained"
// from "about to be refilled" (§5, §9). Grounded on ScrapeGoat's
// scheduler.go idleMonitor.
func (c *Crawler) idleMonitor(ctx context.Context, cancel context.CancelFunc, done chan struct{}) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	streak := 0

	for {
		select {
		case <-ctx.Done():
			close(done)
			return
		case <-ticker.C:
			if c.front.Quiescent() {
				streak++
				if streak >= 3 {
					cancel()
					close(done)
					return
				}
			} else {
				streak = 0
			}
		}
	}
}

// worker repeatedly pops frontier entries and runs the per-page pipeline,
// per §4.10/§5.
func (c *Crawler) worker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		entry, ok := c.front.Pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(50 * time.Millisecond):
				continue
			}
		}

		c.process(ctx, entry)
		c.front.Done()
	}
}

// process runs the per-page pipeline in §4.10 for one popped entry.
func (c *Crawler) process(ctx context.Context, entry frontier.Entry) {
	log := c.log

	// Step 1: depth cap, checked at pop time (children are enqueued at
	// depth+1 without a check).
	if entry.Depth > c.cfg.Depth {
		return
	}

	target, err := url.Parse(entry.URL)
	if err != nil {
		c.front.RecordBroken(entry.URL, "unparseable URL")
		return
	}

	// Step 2: robots.
	if !c.robots.CanFetch(target, c.cfg.UserAgent) {
		log.Warnf("robots denied %s", entry.URL)
		return
	}

	// Only the first pop that passes robots/depth performs the fetch;
	// later pops of an already-visited URL are discarded (§4.10 edge case).
	if c.front.IsVisited(entry.URL) {
		return
	}

	// Step 4: fetch, with optional proxy rotation (skipped under render_js
	// per §4.4/§9's open question).
	fetcher := c.fetcher
	if !c.cfg.RenderJS {
		if proxy, ok := c.proxies.Next(); ok {
			fetcher = c.fetcher.WithProxy(proxy)
		}
	}

	fetchCtx, fetchCancel := context.WithTimeout(ctx, config.RequestTimeout)
	result, err := fetcher.Fetch(fetchCtx, target, c.cfg.RenderJS)
	fetchCancel()
	if err != nil {
		c.front.RecordBroken(entry.URL, err.Error())
		log.Warnf("fetch failed for %s: %v", entry.URL, err)
		return
	}

	// Step 5: content-type filter.
	if !crawlnorm.ContentTypeAllowed(c.cfg.ContentTypes, result.Header.Get("Content-Type")) {
		return
	}

	// On redirect, the final URL is used for link resolution and as the
	// record's URL; the originating URL is considered visited (§4.10).
	finalURL := result.FinalURL
	if finalURL == nil {
		finalURL = target
	}

	// Step 6: extract.
	page := extract.Extract(result.Body)

	// Step 7: change detection + fire-and-forget notify.
	if c.changes.Observe(finalURL.String(), result.Body) {
		go c.notify.Notify(finalURL)
	}

	category := classify.Classify(page.Text)

	// Step 8: plugins.
	c.plugins.Apply(finalURL.String(), result.Body, page.Metadata, category)

	// Step 9: mark the post-redirect URL visited before writing, so two
	// originating URLs that redirect to the same target (e.g. /r1 and /r2
	// both -> /target) don't each produce a sink write for it (§3
	// invariant 2: a URL in visited has had exactly one sink write).
	if !c.front.MarkVisited(finalURL.String()) {
		c.front.MarkVisited(entry.URL)
		return
	}
	record := sink.Record{
		URL:      finalURL.String(),
		Title:    page.Title,
		Metadata: page.Metadata,
		Content:  page.Text,
		Category: category,
	}
	if err := c.writeRecord(record); err != nil {
		log.Errorf("sink write failed for %s: %v", finalURL, err)
	}
	c.front.MarkVisited(entry.URL)

	// Step 10: politeness delay.
	time.Sleep(time.Duration(c.cfg.Delay * float64(time.Second)))

	// Step 11/12: normalize raw links relative to final URL, drop visited,
	// cap to breadth, enqueue at depth+1.
	accepted := c.acceptLinks(finalURL, page.Links)
	c.front.EnqueueChildren(entry.Depth+1, accepted)
}

// acceptLinks applies the Normalizer to every raw href and returns up to
// breadth_cap accepted, not-yet-visited absolute URLs, per §4.10's "breadth
// cap is applied to the accepted links list, after normalization and
// filtering, not the raw link list".
func (c *Crawler) acceptLinks(base *url.URL, raw []string) []string {
	var accepted []string
	for _, href := range raw {
		if len(accepted) >= c.cfg.Breadth {
			break
		}
		abs, err := c.norm.Normalize(base, href)
		if err != nil {
			continue
		}
		s := abs.String()
		if c.front.IsVisited(s) {
			continue
		}
		accepted = append(accepted, s)
	}
	return accepted
}

// writeRecord retries a sink write once on failure, per §7's "sink write
// failure is retried once; if it fails again, it is logged and the run
// continues without that record".
func (c *Crawler) writeRecord(r sink.Record) error {
	if err := c.sink.Write(r); err != nil {
		return c.sink.Write(r)
	}
	return nil
}

// userAgentTransport sets a fixed User-Agent on every outbound request,
// per the "politeness" glossary entry's "User-Agent advertisement".
type userAgentTransport struct {
	ua   string
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", t.ua)
	return t.next.RoundTrip(req)
}

func newRobotsClient(userAgent string) *http.Client {
	return &http.Client{
		Timeout:   robots.FetchTimeout,
		Transport: &userAgentTransport{ua: userAgent, next: http.DefaultTransport},
	}
}

func (c *Crawler) resume() error {
	state, ok, err := snapshot.Load(c.cfg.StateSnapshotFile)
	if err != nil {
		return err
	}
	if !ok {
		c.front.Seed(c.cfg.URL)
		return nil
	}
	entries := make([]frontier.Entry, len(state.Frontier))
	for i, e := range state.Frontier {
		entries[i] = frontier.Entry{URL: e.URL, Depth: e.Depth}
	}
	c.front.Restore(state.Visited, entries)
	c.changes.Restore(state.Fingerprint)
	return nil
}

func (c *Crawler) saveSnapshot() error {
	entries := c.front.PendingEntries()
	snapEntries := make([]snapshot.FrontierEntry, len(entries))
	for i, e := range entries {
		snapEntries[i] = snapshot.FrontierEntry{URL: e.URL, Depth: e.Depth}
	}
	return snapshot.Save(c.cfg.StateSnapshotFile, snapshot.State{
		Visited:     c.front.VisitedURLs(),
		Frontier:    snapEntries,
		Fingerprint: c.changes.Snapshot(),
	})
}
