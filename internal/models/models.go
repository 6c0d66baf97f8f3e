// Package models defines the core data structures used throughout the application.
package models

import (
	"time"
)

// Kind distinguishes the media type of a search result.
type Kind string

const (
	KindVideo Kind = "video"
	KindGif   Kind = "gif"
)

// Valid reports whether k is a known media kind.
func (k Kind) Valid() bool {
	return k == KindVideo || k == KindGif
}

// Video represents a single normalized search result produced by a driver.
// Videos are immutable once produced; they are never mutated after construction.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Views     string `json:"views,omitempty"`
	Source    string `json:"source"`
	Kind      Kind   `json:"kind"`
}

// SearchRequest is the request body for the search endpoint.
type SearchRequest struct {
	Query   string   `json:"query"`
	Sources []string `json:"sources,omitempty"` // slugs, or ["all"] for every enabled source
	Page    int      `json:"page,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Kind    Kind     `json:"kind,omitempty"` // defaults to video
}

// SearchResponse is an aggregated, ordered result set for one search request.
// SourcesSearched lists only the sources that were enabled and answered
// successfully; sources that errored are omitted.
type SearchResponse struct {
	Results         []Video  `json:"results"`
	Total           int      `json:"total"`
	Page            int      `json:"page"`
	SourcesSearched []string `json:"sources_searched"`
}

// SourceInfo describes a registered source for the sources endpoint.
type SourceInfo struct {
	Name       string `json:"name"`
	Enabled    bool   `json:"enabled"`
	DriverName string `json:"driver_name"`
}

// StatusCheck is a client liveness ping persisted via the status endpoint.
type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// SearchLog is an audit record of one completed search.
type SearchLog struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Sources     []string  `json:"sources"`
	ResultCount int       `json:"result_count"`
	DurationMs  int64     `json:"duration_ms"`
	Timestamp   time.Time `json:"timestamp"`
}
