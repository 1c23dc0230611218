package common

import (
	"context"
	"fmt"
	"os"

	"github.com/jonesrussell/newsradar/internal/classify"
	"github.com/jonesrussell/newsradar/internal/config"
	"github.com/jonesrussell/newsradar/internal/crawler"
	"github.com/jonesrussell/newsradar/internal/dates"
	"github.com/jonesrussell/newsradar/internal/dedup"
	"github.com/jonesrussell/newsradar/internal/extract"
	"github.com/jonesrussell/newsradar/internal/fetcher"
	"github.com/jonesrussell/newsradar/internal/report"
	"github.com/jonesrussell/newsradar/internal/throttle"
)

// BuildCache constructs the dedup cache with its configured backing
// store and hydrates it from persisted state.
func BuildCache(ctx context.Context, deps *Deps) (*dedup.Cache, error) {
	var store dedup.Store

	switch deps.Config.Dedup.Backend {
	case config.DedupBackendPostgres:
		pg, err := dedup.Open(ctx, deps.Config.Dedup.DSN)
		if err != nil {
			return nil, fmt.Errorf("open dedup store: %w", err)
		}
		store = pg
	default:
		store = dedup.NewFileStore(deps.Config.Dedup.File)
	}

	cache := dedup.NewCache(store)
	if err := cache.Hydrate(ctx); err != nil {
		_ = cache.Close()
		return nil, err
	}

	deps.Logger.Info("dedup cache hydrated",
		"backend", deps.Config.Dedup.Backend,
		"urls", cache.Len(),
	)

	return cache, nil
}

// BuildOrchestrator wires the crawl pipeline from configuration.
func BuildOrchestrator(deps *Deps, cache *dedup.Cache) (*crawler.Orchestrator, error) {
	classifier, err := classify.New(deps.Config.Classifier)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	th := throttle.New(deps.Config.Throttle)
	f := fetcher.New(deps.Config.Fetcher, th, deps.Logger.WithComponent("fetcher"))

	crawlCfg := deps.Config.Crawler

	return crawler.New(crawler.Params{
		Fetcher:    f,
		Extractor:  extract.New(),
		Classifier: classifier,
		Resolver:   dates.NewResolver(),
		Cache:      cache,
		Keywords:   crawlCfg.Keywords,
		Logger:     deps.Logger.WithComponent("crawler"),
		Options: crawler.Options{
			MaxResults:        crawlCfg.MaxResults,
			MaxLinksPerSource: crawlCfg.MaxLinksPerSource,
			DeepScrape:        crawlCfg.DeepScrape,
			DeepScrapeLimit:   crawlCfg.DeepScrapeLimit,
			ValidateLinks:     crawlCfg.ValidateLinks,
			TodayOnly:         crawlCfg.TodayOnly,
			IncludeYesterday:  crawlCfg.IncludeYesterday,
			SourceParallelism: crawlCfg.SourceParallelism,
		},
	})
}

// RunCrawl executes one full crawl run: crawl all sources, write the
// report, persist the dedup cache, and print the summary table. A
// cancelled run still writes its partial output.
func RunCrawl(ctx context.Context, deps *Deps) error {
	cache, err := BuildCache(ctx, deps)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cache.Close(); cerr != nil {
			deps.Logger.Error("close dedup store", "error", cerr)
		}
	}()

	orch, err := BuildOrchestrator(deps, cache)
	if err != nil {
		return err
	}

	result, err := orch.Run(ctx, deps.Config.Crawler.Sources)
	if err != nil {
		return fmt.Errorf("crawl run: %w", err)
	}

	writer := report.NewWriter(deps.Config.Report.Output, deps.Logger.WithComponent("report"))
	if err := writer.Write(result.Articles); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	// Persist with a fresh context so shutdown does not lose the cache.
	if err := cache.Persist(context.WithoutCancel(ctx)); err != nil {
		return err
	}

	report.RenderTable(os.Stdout, report.Records(result.Articles))

	return nil
}
