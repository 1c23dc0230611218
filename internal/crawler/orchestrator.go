// Package crawler drives the news-discovery pipeline: one concurrent task
// per seed source, each running fetch, link discovery, classification, an
// optional deep second hop, dedup reservation, article extraction, date
// resolution, and relevance scoring. Results stream back to the
// orchestrator, which ranks and truncates them.
package crawler

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/newsradar/internal/classify"
	"github.com/jonesrussell/newsradar/internal/dates"
	"github.com/jonesrussell/newsradar/internal/dedup"
	"github.com/jonesrussell/newsradar/internal/domain"
	"github.com/jonesrussell/newsradar/internal/extract"
	"github.com/jonesrussell/newsradar/internal/fetcher"
	"github.com/jonesrussell/newsradar/internal/logger"
)

const (
	// DefaultMaxLinksPerSource bounds the links considered per seed source.
	DefaultMaxLinksPerSource = 50
	// DefaultDeepScrapeLimit bounds the first-hop pages expanded during
	// deep scrape.
	DefaultDeepScrapeLimit = 15
	// DefaultSourceParallelism bounds concurrently crawled sources.
	DefaultSourceParallelism = 8
)

var (
	// ErrNoKeywords indicates an empty keyword list at construction.
	ErrNoKeywords = errors.New("crawler: no keywords configured")
	errMissingDep = errors.New("crawler: missing dependency")
)

// Fetcher is the network capability used by the orchestrator.
type Fetcher interface {
	Get(ctx context.Context, url string) (*fetcher.Result, error)
	Validate(ctx context.Context, url string) bool
}

// Options are the run-level parameters.
type Options struct {
	// MaxResults caps the final result set; 0 means unbounded.
	MaxResults int
	// MaxLinksPerSource bounds the candidate links kept per source.
	MaxLinksPerSource int
	// DeepScrape enables the second discovery hop over first-hop article
	// pages.
	DeepScrape bool
	// DeepScrapeLimit bounds how many first-hop pages are expanded.
	DeepScrapeLimit int
	// ValidateLinks enables a HEAD check before article processing.
	ValidateLinks bool
	// TodayOnly accepts only articles whose resolved date is the run date.
	TodayOnly bool
	// IncludeYesterday extends TodayOnly to the previous day.
	IncludeYesterday bool
	// SourceParallelism bounds concurrently crawled sources.
	SourceParallelism int
}

// Params collects the orchestrator's dependencies. Shared state (dedup
// cache, throttle inside the fetcher) is constructed by the caller and
// handed in by reference; the orchestrator never owns globals.
type Params struct {
	Fetcher    Fetcher
	Extractor  extract.Extractor
	Classifier *classify.Classifier
	Resolver   *dates.Resolver
	Cache      *dedup.Cache
	Keywords   []string
	Logger     logger.Interface
	Options    Options
	// Now supplies the run date; defaults to time.Now.
	Now func() time.Time
}

// Orchestrator coordinates one crawl run across all sources.
type Orchestrator struct {
	fetcher    Fetcher
	extractor  extract.Extractor
	classifier *classify.Classifier
	resolver   *dates.Resolver
	cache      *dedup.Cache
	keywords   []string
	log        logger.Interface
	opts       Options
	now        func() time.Time

	accepted atomic.Int64
	stats    stats
}

// RunResult is the outcome of one crawl run.
type RunResult struct {
	RunID    string
	Articles []domain.Article
	// Partial is true when the run was cancelled and the result reflects
	// only work completed before cancellation.
	Partial    bool
	Found      int64
	Duplicates int64
	Rejected   int64
	Failed     int64
	StartedAt  time.Time
	FinishedAt time.Time
}

// New validates dependencies and creates an orchestrator.
func New(p Params) (*Orchestrator, error) {
	if p.Fetcher == nil || p.Extractor == nil || p.Classifier == nil ||
		p.Resolver == nil || p.Cache == nil {
		return nil, errMissingDep
	}

	if len(p.Keywords) == 0 {
		return nil, ErrNoKeywords
	}

	if p.Logger == nil {
		p.Logger = logger.NewNoOp()
	}

	if p.Now == nil {
		p.Now = time.Now
	}

	opts := p.Options
	if opts.MaxLinksPerSource <= 0 {
		opts.MaxLinksPerSource = DefaultMaxLinksPerSource
	}
	if opts.DeepScrapeLimit <= 0 {
		opts.DeepScrapeLimit = DefaultDeepScrapeLimit
	}
	if opts.SourceParallelism <= 0 {
		opts.SourceParallelism = DefaultSourceParallelism
	}

	return &Orchestrator{
		fetcher:    p.Fetcher,
		extractor:  p.Extractor,
		classifier: p.Classifier,
		resolver:   p.Resolver,
		cache:      p.Cache,
		keywords:   p.Keywords,
		log:        p.Logger,
		opts:       opts,
		now:        p.Now,
	}, nil
}

// Run crawls every source concurrently and returns the ranked,
// deduplicated result set. Per-source failures are contained: a failed
// source contributes nothing but never aborts its siblings. When ctx is
// cancelled the run stops issuing new work and returns a valid partial
// result.
func (o *Orchestrator) Run(ctx context.Context, sources []string) (*RunResult, error) {
	runID := uuid.NewString()
	log := o.log.WithRunID(runID)
	startedAt := o.now()

	// Counters are per run; the dedup cache is the only state carried
	// across runs on the same orchestrator.
	o.accepted.Store(0)
	o.stats.reset()

	log.Info("crawl run starting",
		"sources", len(sources),
		"keywords", len(o.keywords),
		"deep_scrape", o.opts.DeepScrape,
	)

	results := make(chan domain.Article)
	collected := make([]domain.Article, 0)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for art := range results {
			collected = append(collected, art)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.SourceParallelism)

	for _, src := range sources {
		src := src
		g.Go(func() error {
			// Source tasks are isolated: they log their own failures and
			// never return an error that would cancel siblings.
			o.crawlSource(gctx, log, src, results)
			return nil
		})
	}

	_ = g.Wait()
	close(results)
	<-done

	ranked := rank(collected, o.opts.MaxResults)

	result := &RunResult{
		RunID:      runID,
		Articles:   ranked,
		Partial:    ctx.Err() != nil,
		Found:      o.stats.found.Load(),
		Duplicates: o.stats.duplicates.Load(),
		Rejected:   o.stats.rejected.Load(),
		Failed:     o.stats.failed.Load(),
		StartedAt:  startedAt,
		FinishedAt: o.now(),
	}

	log.Info("crawl run finished",
		"articles", len(result.Articles),
		"found", result.Found,
		"duplicates", result.Duplicates,
		"rejected", result.Rejected,
		"failed", result.Failed,
		"partial", result.Partial,
	)

	return result, nil
}

// capReached reports whether the global result cap is met. New extraction
// work stops here; in-flight work may overshoot slightly and the final
// truncation enforces the hard cap.
func (o *Orchestrator) capReached() bool {
	return o.opts.MaxResults > 0 && o.accepted.Load() >= int64(o.opts.MaxResults)
}

// rank sorts by score descending, stable so ties keep arrival order, and
// truncates to the cap.
func rank(articles []domain.Article, maxResults int) []domain.Article {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Score > articles[j].Score
	})

	if maxResults > 0 && len(articles) > maxResults {
		articles = articles[:maxResults]
	}

	return articles
}
