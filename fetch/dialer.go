package fetch

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// privateNetworks blocklists RFC 1918 / loopback ranges so a crawl can't be
// redirected into the operator's own network. Adapted from the teacher's
// fetcher.go checkForBlacklisting.
var privateNetworks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"::1/128",
	"fc00::/7",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(err)
		}
		nets = append(nets, n)
	}
	return nets
}

func isPrivate(ip net.IP) bool {
	for _, n := range privateNetworks {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// cachingResolver wraps net.Dialer.DialContext with an LRU cache of
// resolved addresses, dodging a repeat DNS lookup per host within the
// cache's lifetime. Adapted from the teacher's dnscache package: same LRU
// shape, but a time-to-live replaces its unconditional 5-minute refresh,
// per the TODO the teacher left on that file.
type cachingResolver struct {
	dialer           net.Dialer
	cache            *lru.Cache
	ttl              time.Duration
	blockPrivateAddr bool
	mu               sync.Mutex
}

type resolved struct {
	ip      string
	err     error
	fetched time.Time
}

func newCachingResolver(maxEntries int, blockPrivateAddr bool) (*cachingResolver, error) {
	cache, err := lru.New(maxEntries)
	if err != nil {
		return nil, err
	}
	return &cachingResolver{
		dialer:           net.Dialer{Timeout: 5 * time.Second},
		cache:            cache,
		ttl:              5 * time.Minute,
		blockPrivateAddr: blockPrivateAddr,
	}, nil
}

func (c *cachingResolver) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return c.dialer.DialContext(ctx, network, addr)
	}

	c.mu.Lock()
	if v, ok := c.cache.Get(host); ok {
		r := v.(resolved)
		if time.Since(r.fetched) < c.ttl {
			c.mu.Unlock()
			if r.err != nil {
				return nil, r.err
			}
			return c.dialResolved(ctx, network, r.ip, port)
		}
	}
	c.mu.Unlock()

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		c.mu.Lock()
		c.cache.Add(host, resolved{err: err, fetched: time.Now()})
		c.mu.Unlock()
		return nil, err
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no addresses found for %s", host)
	}
	ip := ips[0].IP

	if c.blockPrivateAddr && isPrivate(ip) {
		err := fmt.Errorf("refusing to dial private address %s for %s", ip, host)
		c.mu.Lock()
		c.cache.Add(host, resolved{err: err, fetched: time.Now()})
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	c.cache.Add(host, resolved{ip: ip.String(), fetched: time.Now()})
	c.mu.Unlock()

	return c.dialResolved(ctx, network, ip.String(), port)
}

func (c *cachingResolver) dialResolved(ctx context.Context, network, ip, port string) (net.Conn, error) {
	return c.dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
}
