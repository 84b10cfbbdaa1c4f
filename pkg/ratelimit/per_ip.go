package ratelimit

import (
	"context"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default per-IP limiter values.
const (
	DefaultRate            = 100
	DefaultCleanupInterval = 1 * time.Minute
	DefaultEntryTTL        = 1 * time.Minute
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerIPConfig configures a PerIPLimiter.
type PerIPConfig struct {
	Rate            float64       // tokens per second
	Burst           int           // maximum bucket capacity
	TrustedProxies  []string      // CIDR ranges or single IPs of trusted proxies
	TrustAllProxies bool          // trust proxy headers from any source (insecure)
	CleanupInterval time.Duration // how often stale entries are cleaned up
	EntryTTL        time.Duration // how long an entry lives without activity

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// PerIPLimiter keeps one token bucket per client IP.
type PerIPLimiter struct {
	limit           rate.Limit
	burst           int
	mu              sync.Mutex
	entries         map[string]*entry
	trustedProxies  []*net.IPNet
	trustProxy      bool
	cleanupInterval time.Duration
	entryTTL        time.Duration
	now             func() time.Time
}

// NewPerIPLimiter creates a limiter. Stale entries are only evicted while
// Run is active.
func NewPerIPLimiter(cfg PerIPConfig) *PerIPLimiter {
	rps := cfg.Rate
	if rps <= 0 {
		rps = DefaultRate
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = max(1, int(rps*2))
	}

	rl := &PerIPLimiter{
		limit:           rate.Limit(rps),
		burst:           burst,
		entries:         make(map[string]*entry),
		cleanupInterval: cfg.CleanupInterval,
		entryTTL:        cfg.EntryTTL,
		now:             cfg.Now,
	}
	if rl.cleanupInterval <= 0 {
		rl.cleanupInterval = DefaultCleanupInterval
	}
	if rl.entryTTL <= 0 {
		rl.entryTTL = DefaultEntryTTL
	}
	if rl.now == nil {
		rl.now = time.Now
	}

	if cfg.TrustAllProxies {
		rl.trustProxy = true
	} else {
		for _, cidr := range cfg.TrustedProxies {
			if network := parseNetwork(cidr); network != nil {
				rl.trustedProxies = append(rl.trustedProxies, network)
				rl.trustProxy = true
			}
		}
	}

	return rl
}

func parseNetwork(s string) *net.IPNet {
	if _, network, err := net.ParseCIDR(s); err == nil {
		return network
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil
	}
	bits := 128
	if ip.To4() != nil {
		ip = ip.To4()
		bits = 32
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
}

// Burst returns the bucket capacity.
func (rl *PerIPLimiter) Burst() int {
	return rl.burst
}

// Rate returns the refill rate in tokens per second.
func (rl *PerIPLimiter) Rate() float64 {
	return float64(rl.limit)
}

// Len returns the number of tracked IPs.
func (rl *PerIPLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}

// Allow consumes one token for ip. It returns whether the request may
// proceed, the whole tokens left, and seconds until the bucket is full
// (allowed) or until a token is available (denied).
func (rl *PerIPLimiter) Allow(ip string) (allowed bool, remaining int, resetOrRetry int64) {
	now := rl.now()

	rl.mu.Lock()
	e, ok := rl.entries[ip]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.entries[ip] = e
	}
	e.lastSeen = now
	rl.mu.Unlock()

	res := e.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, 0, ceilSeconds(delay.Seconds())
	}

	tokens := e.limiter.TokensAt(now)
	missing := float64(rl.burst) - tokens
	return true, max(0, int(tokens)), ceilSeconds(missing / float64(rl.limit))
}

func ceilSeconds(s float64) int64 {
	if s <= 0 {
		return 0
	}
	return int64(math.Ceil(s))
}

// ClientIP extracts the client IP from the request, honoring forwarding
// headers only from trusted proxies.
func (rl *PerIPLimiter) ClientIP(r *http.Request) string {
	remoteIP := extractRemoteIP(r.RemoteAddr)

	if rl.isTrustedProxy(remoteIP) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
			return ip
		}
	}

	return remoteIP
}

// Run evicts idle entries every cleanup interval until ctx is done.
func (rl *PerIPLimiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.RemoveStale()
		case <-ctx.Done():
			return nil
		}
	}
}

// RemoveStale drops entries idle for longer than the entry TTL.
func (rl *PerIPLimiter) RemoveStale() int {
	cutoff := rl.now().Add(-rl.entryTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	n := 0
	for ip, e := range rl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(rl.entries, ip)
			n++
		}
	}
	return n
}

func (rl *PerIPLimiter) isTrustedProxy(ip string) bool {
	if !rl.trustProxy {
		return false
	}
	// trustProxy with no networks means trust all
	if rl.trustedProxies == nil {
		return true
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, network := range rl.trustedProxies {
		if network.Contains(parsed) {
			return true
		}
	}
	return false
}

// extractRemoteIP strips the port from RemoteAddr if present.
func extractRemoteIP(remoteAddr string) string {
	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return ip
}
