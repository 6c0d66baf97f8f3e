package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mentallyspammed1/neonsearch/internal/cache"
	"github.com/Mentallyspammed1/neonsearch/internal/driver"
	"github.com/Mentallyspammed1/neonsearch/internal/models"
	"github.com/Mentallyspammed1/neonsearch/internal/source"
)

// fakeDriver returns a fixed number of synthetic records per parse.
type fakeDriver struct {
	slug    string
	records int
}

func (d *fakeDriver) Slug() string       { return d.slug }
func (d *fakeDriver) DriverName() string { return strings.ToUpper(d.slug) }

func (d *fakeDriver) SearchURL(query string, page int) string {
	return fmt.Sprintf("https://%s.test/search?q=%s&p=%d", d.slug, query, page)
}

func (d *fakeDriver) Parse(html string) ([]models.Video, error) {
	videos := make([]models.Video, 0, d.records)
	for i := 0; i < d.records; i++ {
		videos = append(videos, models.Video{
			ID:     fmt.Sprintf("%s-%d", d.slug, i),
			Title:  fmt.Sprintf("%s video %d", d.slug, i),
			URL:    fmt.Sprintf("https://%s.test/v/%d", d.slug, i),
			Source: d.slug,
			Kind:   models.KindVideo,
		})
	}
	return videos, nil
}

func (d *fakeDriver) GifURL(query string, page int) string {
	return fmt.Sprintf("https://%s.test/gifs?q=%s&p=%d", d.slug, query, page)
}

func (d *fakeDriver) ParseGifs(html string) ([]models.Video, error) {
	return []models.Video{{
		ID:     d.slug + "-gif-0",
		Title:  d.slug + " gif",
		URL:    "https://" + d.slug + ".test/g/0",
		Source: d.slug,
		Kind:   models.KindGif,
	}}, nil
}

// videoOnlyDriver has no gif capability.
type videoOnlyDriver struct {
	slug string
}

func (d *videoOnlyDriver) Slug() string       { return d.slug }
func (d *videoOnlyDriver) DriverName() string { return strings.ToUpper(d.slug) }

func (d *videoOnlyDriver) SearchURL(query string, page int) string {
	return fmt.Sprintf("https://%s.test/search?q=%s&p=%d", d.slug, query, page)
}

func (d *videoOnlyDriver) Parse(html string) ([]models.Video, error) {
	return []models.Video{{ID: d.slug + "-0", Source: d.slug, Kind: models.KindVideo}}, nil
}

// fakeFetcher counts calls and fails for URLs containing a marked substring.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	failFor map[string]bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	for marker := range f.failFor {
		if strings.Contains(url, marker) {
			return "", errors.New("connection refused")
		}
	}
	return "<html>" + url + "</html>", nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestOrchestrator(drivers []driver.Driver, failing ...string) (*Orchestrator, *source.Registry, *fakeFetcher) {
	registry := source.NewRegistry()
	for _, d := range drivers {
		registry.Register(d.Slug(), d.DriverName(), true)
	}
	failFor := make(map[string]bool)
	for _, f := range failing {
		failFor[f] = true
	}
	fetcher := &fakeFetcher{failFor: failFor}
	o := NewOrchestrator(registry, drivers, fetcher, cache.New(16, time.Minute))
	return o, registry, fetcher
}

func TestSearchEndToEnd(t *testing.T) {
	drivers := []driver.Driver{
		&fakeDriver{slug: "alpha", records: 3},
		&fakeDriver{slug: "bravo", records: 3},
	}
	o, _, _ := newTestOrchestrator(drivers)

	resp, err := o.Search(context.Background(), models.SearchRequest{
		Query:   "test",
		Sources: []string{"all"},
		Page:    1,
		Limit:   5,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, resp.Total, "total counts pre-truncation records")
	assert.Len(t, resp.Results, 5, "results truncated to limit")
	assert.Equal(t, []string{"alpha", "bravo"}, resp.SourcesSearched)
	assert.Equal(t, 1, resp.Page)
}

func TestSearchOrderingFollowsRegistration(t *testing.T) {
	// zulu registered first; alphabetical order would put alpha first.
	drivers := []driver.Driver{
		&fakeDriver{slug: "zulu", records: 2},
		&fakeDriver{slug: "alpha", records: 2},
	}
	o, _, _ := newTestOrchestrator(drivers)

	resp, err := o.Search(context.Background(), models.SearchRequest{Query: "test"})
	require.NoError(t, err)

	require.Len(t, resp.Results, 4)
	assert.Equal(t, "zulu", resp.Results[0].Source, "registration order must win over slug order")
	assert.Equal(t, "zulu", resp.Results[1].Source)
	assert.Equal(t, "alpha", resp.Results[2].Source)
	assert.Equal(t, []string{"zulu", "alpha"}, resp.SourcesSearched)
}

func TestSearchCacheIdempotence(t *testing.T) {
	drivers := []driver.Driver{&fakeDriver{slug: "alpha", records: 2}}
	o, _, fetcher := newTestOrchestrator(drivers)

	first, err := o.Search(context.Background(), models.SearchRequest{Query: "Cats", Sources: []string{"all"}})
	require.NoError(t, err)
	fetchesAfterFirst := fetcher.callCount()

	// Different spelling, same normalized key.
	second, err := o.Search(context.Background(), models.SearchRequest{Query: "  cats ", Sources: []string{"alpha"}})
	require.NoError(t, err)

	assert.Equal(t, fetchesAfterFirst, fetcher.callCount(), "cache hit must not re-invoke the fetcher")
	assert.Equal(t, first, second)
}

func TestSearchCacheTTLTriggersFreshFanOut(t *testing.T) {
	drivers := []driver.Driver{&fakeDriver{slug: "alpha", records: 1}}
	registry := source.NewRegistry()
	registry.Register("alpha", "ALPHA", true)
	fetcher := &fakeFetcher{}
	o := NewOrchestrator(registry, drivers, fetcher, cache.New(16, time.Nanosecond))

	_, err := o.Search(context.Background(), models.SearchRequest{Query: "test"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	_, err = o.Search(context.Background(), models.SearchRequest{Query: "test"})
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount(), "expired entry must trigger a fresh fan-out")
}

func TestSearchPartialFailure(t *testing.T) {
	drivers := []driver.Driver{
		&fakeDriver{slug: "alpha", records: 2},
		&fakeDriver{slug: "broken", records: 2},
		&fakeDriver{slug: "charlie", records: 2},
	}
	o, _, _ := newTestOrchestrator(drivers, "broken")

	resp, err := o.Search(context.Background(), models.SearchRequest{Query: "test", Sources: []string{"all"}})
	require.NoError(t, err, "per-source failures must never fail the request")

	assert.Equal(t, []string{"alpha", "charlie"}, resp.SourcesSearched)
	for _, v := range resp.Results {
		assert.NotEqual(t, "broken", v.Source)
	}
	assert.Equal(t, 4, resp.Total)
}

func TestSearchAllSourcesFail(t *testing.T) {
	drivers := []driver.Driver{
		&fakeDriver{slug: "alpha", records: 2},
		&fakeDriver{slug: "bravo", records: 2},
	}
	o, _, _ := newTestOrchestrator(drivers, "alpha", "bravo")

	resp, err := o.Search(context.Background(), models.SearchRequest{Query: "test"})
	require.NoError(t, err, "all sources failing is an empty result, not an error")

	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.SourcesSearched, "callers detect total failure via the empty searched list")
	assert.Equal(t, 0, resp.Total)
}

func TestSearchToggleExcludesSource(t *testing.T) {
	drivers := []driver.Driver{
		&fakeDriver{slug: "alpha", records: 1},
		&fakeDriver{slug: "bravo", records: 1},
	}
	o, registry, _ := newTestOrchestrator(drivers)

	_, err := registry.SetEnabled("bravo", false)
	require.NoError(t, err)

	resp, err := o.Search(context.Background(), models.SearchRequest{Query: "test", Sources: []string{"all"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, resp.SourcesSearched)

	_, err = registry.SetEnabled("bravo", true)
	require.NoError(t, err)

	resp, err = o.Search(context.Background(), models.SearchRequest{Query: "test", Sources: []string{"all"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "bravo"}, resp.SourcesSearched, "re-enabling restores eligibility")
}

func TestSearchEmptyEligibleSet(t *testing.T) {
	drivers := []driver.Driver{&fakeDriver{slug: "alpha", records: 1}}
	o, registry, fetcher := newTestOrchestrator(drivers)

	_, err := registry.SetEnabled("alpha", false)
	require.NoError(t, err)

	resp, err := o.Search(context.Background(), models.SearchRequest{Query: "test", Sources: []string{"nosuchsite"}})
	require.NoError(t, err, "a selection naming only unknown/disabled slugs is not an error")
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.SourcesSearched)
	assert.Equal(t, 0, fetcher.callCount())
}

func TestSearchInvalidRequest(t *testing.T) {
	o, _, _ := newTestOrchestrator([]driver.Driver{&fakeDriver{slug: "alpha", records: 1}})

	tests := []struct {
		name string
		req  models.SearchRequest
	}{
		{"empty query", models.SearchRequest{Query: "   "}},
		{"negative page", models.SearchRequest{Query: "test", Page: -1}},
		{"negative limit", models.SearchRequest{Query: "test", Limit: -5}},
		{"unknown kind", models.SearchRequest{Query: "test", Kind: "audio"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Search(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestSearchGifKind(t *testing.T) {
	gifCapable := &fakeDriver{slug: "alpha", records: 2}
	videoOnly := &videoOnlyDriver{slug: "bravo"}
	o, _, _ := newTestOrchestrator([]driver.Driver{gifCapable, videoOnly})

	resp, err := o.Search(context.Background(), models.SearchRequest{Query: "test", Kind: models.KindGif})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha"}, resp.SourcesSearched, "sources without gif support are excluded")
	require.Len(t, resp.Results, 1)
	assert.Equal(t, models.KindGif, resp.Results[0].Kind)
}
