// Package search orchestrates one query across every selected source:
// cache lookup, concurrent per-source fan-out, aggregation, and caching.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Mentallyspammed1/neonsearch/internal/cache"
	"github.com/Mentallyspammed1/neonsearch/internal/driver"
	"github.com/Mentallyspammed1/neonsearch/internal/models"
	"github.com/Mentallyspammed1/neonsearch/internal/source"
)

// ErrInvalidRequest is returned for malformed requests, before any I/O.
var ErrInvalidRequest = errors.New("invalid search request")

const (
	defaultPage  = 1
	defaultLimit = 20
)

// Fetcher retrieves raw listing content for one URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Orchestrator fans a search request out to the selected enabled drivers,
// joins their results, and caches the aggregated outcome.
type Orchestrator struct {
	registry *source.Registry
	drivers  map[string]driver.Driver
	fetcher  Fetcher
	cache    *cache.Cache
}

// NewOrchestrator wires the registry, drivers, fetch client, and result cache
// together. Drivers are indexed by slug once; the set is fixed afterwards.
func NewOrchestrator(registry *source.Registry, drivers []driver.Driver, fetcher Fetcher, c *cache.Cache) *Orchestrator {
	bySlug := make(map[string]driver.Driver, len(drivers))
	for _, d := range drivers {
		bySlug[d.Slug()] = d
	}
	return &Orchestrator{
		registry: registry,
		drivers:  bySlug,
		fetcher:  fetcher,
		cache:    c,
	}
}

// Search validates the request, short-circuits through the cache, and
// otherwise queries every resolved source concurrently. Per-source failures
// are absorbed: a failing source contributes nothing and is excluded from
// SourcesSearched. Only a malformed request is an error; a search where every
// source failed returns an empty result with an empty SourcesSearched.
func (o *Orchestrator) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrInvalidRequest)
	}

	page := req.Page
	if page == 0 {
		page = defaultPage
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be positive", ErrInvalidRequest)
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidRequest)
	}

	kind := req.Kind
	if kind == "" {
		kind = models.KindVideo
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, req.Kind)
	}

	resolved := o.registry.Resolve(req.Sources)
	key := searchKey(query, resolved, page, kind)

	if cached, ok := o.cache.Get(key); ok {
		log.Debug().Str("query", query).Str("key", key).Msg("cache hit")
		return cached, nil
	}

	start := time.Now()
	ordered := o.registrationOrder(resolved)

	type branch struct {
		videos []models.Video
		err    error
	}
	branches := make([]branch, len(ordered))

	var wg sync.WaitGroup
	for i, slug := range ordered {
		wg.Add(1)
		go func(i int, slug string) {
			defer wg.Done()
			videos, err := o.searchSource(ctx, slug, query, page, kind)
			branches[i] = branch{videos: videos, err: err}
		}(i, slug)
	}
	wg.Wait()

	results := []models.Video{}
	searched := []string{}
	for i, slug := range ordered {
		if branches[i].err != nil {
			log.Warn().Str("source", slug).Err(branches[i].err).Msg("source failed, excluding from results")
			continue
		}
		results = append(results, branches[i].videos...)
		searched = append(searched, slug)
	}

	total := len(results)
	if total > limit {
		results = results[:limit]
	}

	resp := &models.SearchResponse{
		Results:         results,
		Total:           total,
		Page:            page,
		SourcesSearched: searched,
	}
	o.cache.Put(key, resp)

	log.Debug().
		Str("query", query).
		Int("sources", len(ordered)).
		Int("searched", len(searched)).
		Int("total", total).
		Dur("duration", time.Since(start)).
		Msg("search completed")

	return resp, nil
}

// searchSource runs one source branch: build the target, fetch, parse.
func (o *Orchestrator) searchSource(ctx context.Context, slug, query string, page int, kind models.Kind) ([]models.Video, error) {
	drv, ok := o.drivers[slug]
	if !ok {
		return nil, fmt.Errorf("no driver registered for %q", slug)
	}

	var target string
	if kind == models.KindGif {
		gd, ok := drv.(driver.GifDriver)
		if !ok {
			return nil, fmt.Errorf("%s: gif search not supported", slug)
		}
		target = gd.GifURL(query, page)
	} else {
		target = drv.SearchURL(query, page)
	}

	html, err := o.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	if kind == models.KindGif {
		return drv.(driver.GifDriver).ParseGifs(html)
	}
	return drv.Parse(html)
}

// registrationOrder reorders the resolved slugs into source-registration
// order so the final record ordering is deterministic regardless of which
// branch completes first.
func (o *Orchestrator) registrationOrder(resolved []string) []string {
	member := make(map[string]bool, len(resolved))
	for _, slug := range resolved {
		member[slug] = true
	}
	ordered := make([]string, 0, len(resolved))
	for _, desc := range o.registry.List() {
		if member[desc.Slug] {
			ordered = append(ordered, desc.Slug)
		}
	}
	return ordered
}

// searchKey derives the normalized cache identity of a request. Two requests
// resolving to the same key are cache-equivalent however their source
// selection was spelled.
func searchKey(query string, resolved []string, page int, kind models.Kind) string {
	return strings.ToLower(query) + "|" + strings.Join(resolved, ",") + "|" + strconv.Itoa(page) + "|" + string(kind)
}
