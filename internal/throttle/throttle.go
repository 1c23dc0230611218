// Package throttle bounds concurrent in-flight requests per domain and
// paces dispatch so remote sites are not hammered into rate limiting.
package throttle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultPerDomain is the default in-flight request ceiling per domain.
	DefaultPerDomain = 5
	// DefaultPacing is the default minimum delay between dispatches to the
	// same domain.
	DefaultPacing = 500 * time.Millisecond
)

// Config controls per-domain admission.
type Config struct {
	// PerDomain is the maximum number of in-flight requests per domain.
	PerDomain int `mapstructure:"per_domain"`
	// Pacing is the minimum delay between request dispatches to one domain.
	Pacing time.Duration `mapstructure:"pacing"`
}

// Throttle gates request admission per domain. Domains are discovered
// lazily: the first request to an unseen domain creates its limiter with
// the configured capacity.
type Throttle struct {
	mu        sync.Mutex
	domains   map[string]*domainLimiter
	perDomain int
	pacing    time.Duration
}

type domainLimiter struct {
	permits chan struct{}
	pacer   *rate.Limiter
}

// New creates a throttle. Zero config values fall back to defaults.
func New(cfg Config) *Throttle {
	perDomain := cfg.PerDomain
	if perDomain <= 0 {
		perDomain = DefaultPerDomain
	}

	pacing := cfg.Pacing
	if pacing <= 0 {
		pacing = DefaultPacing
	}

	return &Throttle{
		domains:   make(map[string]*domainLimiter),
		perDomain: perDomain,
		pacing:    pacing,
	}
}

// Acquire blocks until the domain has a free permit and the pacing
// interval has elapsed, then returns a release function. The caller must
// call release exactly once. Acquire returns the context error if the
// context is cancelled while waiting.
func (t *Throttle) Acquire(ctx context.Context, domain string) (release func(), err error) {
	dl := t.limiterFor(domain)

	select {
	case dl.permits <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if waitErr := dl.pacer.Wait(ctx); waitErr != nil {
		<-dl.permits
		return nil, waitErr
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-dl.permits })
	}, nil
}

func (t *Throttle) limiterFor(domain string) *domainLimiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	dl, ok := t.domains[domain]
	if !ok {
		dl = &domainLimiter{
			permits: make(chan struct{}, t.perDomain),
			pacer:   rate.NewLimiter(rate.Every(t.pacing), 1),
		}
		t.domains[domain] = dl
	}

	return dl
}
