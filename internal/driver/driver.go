// Package driver contains the per-site drivers that turn a query into a
// search-listing URL and raw HTML into normalized video records. Each site's
// markup quirks live entirely inside its own driver; callers see one contract.
package driver

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Mentallyspammed1/neonsearch/internal/models"
)

// ErrExtract is returned when a listing page cannot be parsed at all.
// Individual malformed items are skipped, never reported as errors.
var ErrExtract = errors.New("extraction failed")

// Driver is the capability every video source implements.
type Driver interface {
	// Slug returns the stable lowercase identifier for the source.
	Slug() string

	// DriverName returns the human-readable platform name.
	DriverName() string

	// SearchURL builds the source's search-listing URL for a query and a
	// 1-based request page. Drivers whose site paginates from 0 own that
	// offset themselves; callers never adjust pages.
	SearchURL(query string, page int) string

	// Parse extracts zero or more videos from a fetched listing page.
	// Malformed items are skipped; an empty listing is an empty slice,
	// not an error.
	Parse(html string) ([]models.Video, error)
}

// GifDriver is the optional capability for sources with GIF search.
type GifDriver interface {
	GifURL(query string, page int) string
	ParseGifs(html string) ([]models.Video, error)
}

// All returns one instance of every driver, in registration order.
func All() []Driver {
	return []Driver{
		NewPornhub(),
		NewXvideos(),
		NewXnxx(),
		NewSpankBang(),
		NewRedtube(),
	}
}

func extractErr(name string, err error) error {
	return fmt.Errorf("%s: %w: %v", name, ErrExtract, err)
}

// absoluteURL resolves raw against base, passing through absolute and data
// URLs and upgrading protocol-relative ones to https.
func absoluteURL(raw, base string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "data:") {
		return raw
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}

var durationPattern = regexp.MustCompile(`(?:\d{1,2}:)?\d{1,2}:\d{2}`)

// normalizeDuration pulls an m:ss / mm:ss / h:mm:ss token out of raw listing
// text, or returns "" when none is present.
func normalizeDuration(raw string) string {
	return durationPattern.FindString(strings.TrimSpace(raw))
}

// normalizeViews trims a display view count; unknown counts stay empty.
func normalizeViews(raw string) string {
	return strings.TrimSpace(raw)
}
