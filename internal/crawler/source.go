package crawler

import (
	"context"
	"time"

	"github.com/jonesrussell/newsradar/internal/domain"
	"github.com/jonesrussell/newsradar/internal/links"
	"github.com/jonesrussell/newsradar/internal/logger"
	"github.com/jonesrussell/newsradar/internal/score"
)

// crawlSource runs the full pipeline for one seed source: fetch the
// source page, discover and classify links, optionally expand a second
// hop, then process each accepted link in strict pipeline order. Links
// from the same source are processed sequentially; the domain throttle is
// the binding constraint either way.
func (o *Orchestrator) crawlSource(ctx context.Context, log logger.Interface, source string, results chan<- domain.Article) {
	log = log.With("source", source)

	candidates := o.discoverCandidates(ctx, log, source)
	if len(candidates) == 0 {
		return
	}

	log.Info("links discovered", "count", len(candidates))

	for _, link := range candidates {
		if ctx.Err() != nil {
			log.Info("source task cancelled")
			return
		}

		if o.capReached() {
			log.Debug("result cap reached, stopping source")
			return
		}

		// Reserve before fetching so concurrent tasks never duplicate
		// work on the same URL.
		if !o.cache.Reserve(link.URL) {
			o.stats.duplicates.Add(1)
			continue
		}

		if o.opts.ValidateLinks && !o.fetcher.Validate(ctx, link.URL) {
			o.stats.failed.Add(1)
			log.Debug("link failed validation", "url", link.URL)
			continue
		}

		article, ok := o.processArticle(ctx, log, link)
		if !ok {
			continue
		}

		o.accepted.Add(1)
		o.stats.found.Add(1)

		select {
		case results <- article:
		case <-ctx.Done():
			return
		}
	}
}

// discoverCandidates fetches the source page and returns its classified
// candidate links, expanded by a second hop when deep scrape is on and
// capped at the per-source link budget.
func (o *Orchestrator) discoverCandidates(ctx context.Context, log logger.Interface, source string) []domain.CandidateLink {
	primary := o.discoverOn(ctx, log, source, source, 0)
	if primary == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(primary))
	candidates := make([]domain.CandidateLink, 0, len(primary))
	for _, c := range primary {
		if _, dup := seen[c.URL]; dup {
			continue
		}
		seen[c.URL] = struct{}{}
		candidates = append(candidates, c)
	}

	if o.opts.DeepScrape {
		expand := candidates
		if len(expand) > o.opts.DeepScrapeLimit {
			expand = expand[:o.opts.DeepScrapeLimit]
		}

		for _, c := range expand {
			if ctx.Err() != nil {
				break
			}
			for _, sec := range o.discoverOn(ctx, log, c.URL, source, 1) {
				if _, dup := seen[sec.URL]; dup {
					continue
				}
				seen[sec.URL] = struct{}{}
				candidates = append(candidates, sec)
			}
		}
	}

	if len(candidates) > o.opts.MaxLinksPerSource {
		candidates = candidates[:o.opts.MaxLinksPerSource]
	}

	return candidates
}

// discoverOn fetches one page and returns the discovered links that the
// classifier accepts, tagged with their source and hop depth.
func (o *Orchestrator) discoverOn(ctx context.Context, log logger.Interface, pageURL, source string, depth int) []domain.CandidateLink {
	res, err := o.fetcher.Get(ctx, pageURL)
	if err != nil {
		o.stats.failed.Add(1)
		log.Warn("page fetch failed", "url", pageURL, "depth", depth, "error", err)
		return nil
	}

	discovered, err := links.Discover(pageURL, res.Body)
	if err != nil {
		o.stats.failed.Add(1)
		log.Warn("link discovery failed", "url", pageURL, "error", err)
		return nil
	}

	candidates := make([]domain.CandidateLink, 0, len(discovered))
	for _, u := range discovered {
		if o.classifier.Classify(u) {
			candidates = append(candidates, domain.CandidateLink{URL: u, Source: source, Depth: depth})
		}
	}

	return candidates
}

// processArticle fetches, extracts, date-resolves, and scores one
// candidate link. Reports false when the candidate is dropped for any
// reason; failures never propagate past this boundary.
func (o *Orchestrator) processArticle(ctx context.Context, log logger.Interface, link domain.CandidateLink) (domain.Article, bool) {
	res, err := o.fetcher.Get(ctx, link.URL)
	if err != nil {
		o.stats.failed.Add(1)
		log.Debug("article fetch failed", "url", link.URL, "error", err)
		return domain.Article{}, false
	}

	content, err := o.extractor.Extract(link.URL, res.Body)
	if err != nil {
		o.stats.failed.Add(1)
		log.Debug("extraction failed", "url", link.URL, "error", err)
		return domain.Article{}, false
	}

	published := content.Published
	fallback := false
	if published.IsZero() {
		if resolved, ok := o.resolver.Resolve(res.Body); ok {
			published = resolved
		} else {
			// Explicit policy: substitute the run date when no date can be
			// recovered, and record that the date was guessed.
			published = o.now()
			fallback = true
		}
	}

	if !o.dateAccepted(published) {
		o.stats.rejected.Add(1)
		log.Debug("article outside date window", "url", link.URL, "date", published.Format("2006-01-02"))
		return domain.Article{}, false
	}

	relevance := score.Relevance(content.Title, content.Text, o.keywords)
	if relevance == 0 {
		o.stats.rejected.Add(1)
		log.Debug("article not relevant", "url", link.URL)
		return domain.Article{}, false
	}

	log.Info("article accepted", "url", link.URL, "title", content.Title, "score", relevance)

	return domain.Article{
		Title:        content.Title,
		Text:         content.Text,
		URL:          link.URL,
		Source:       link.Source,
		Published:    published,
		DateFallback: fallback,
		Score:        relevance,
	}, true
}

// dateAccepted applies the today-only / include-yesterday policy. It runs
// after date resolution, never before, since it depends on its outcome.
func (o *Orchestrator) dateAccepted(published time.Time) bool {
	if !o.opts.TodayOnly {
		return true
	}

	today := o.now()
	if sameDay(published, today) {
		return true
	}

	return o.opts.IncludeYesterday && sameDay(published, today.AddDate(0, 0, -1))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
