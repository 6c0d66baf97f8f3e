package driver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Mentallyspammed1/neonsearch/internal/models"
)

const xnxxBaseURL = "https://www.xnxx.com"

var xnxxIDPattern = regexp.MustCompile(`/video-([a-z0-9]+)/`)

// Xnxx is the driver for xnxx.com.
type Xnxx struct{}

// NewXnxx creates the XNXX driver.
func NewXnxx() *Xnxx { return &Xnxx{} }

func (d *Xnxx) Slug() string       { return "xnxx" }
func (d *Xnxx) DriverName() string { return "XNXX" }

// SearchURL builds the video search URL. XNXX paginates from 0.
func (d *Xnxx) SearchURL(query string, page int) string {
	p := page - 1
	if p < 0 {
		p = 0
	}
	return fmt.Sprintf("%s/search/%s/%d", xnxxBaseURL, url.QueryEscape(strings.TrimSpace(query)), p)
}

// Parse extracts videos from a search listing page.
func (d *Xnxx) Parse(html string) ([]models.Video, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, extractErr(d.Slug(), err)
	}

	videos := []models.Video{}
	doc.Find("div.thumb").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		if link.Length() == 0 {
			return
		}

		href := link.AttrOr("href", "")
		var id string
		if m := xnxxIDPattern.FindStringSubmatch(href); m != nil {
			id = m[1]
		}

		title := strings.TrimSpace(link.AttrOr("title", ""))
		if title == "" {
			title = "Untitled Video"
		}

		img := item.Find("img").First()
		thumb := img.AttrOr("data-src", "")
		if thumb == "" {
			thumb = img.AttrOr("src", "")
		}

		duration := normalizeDuration(item.Find("p.metadata").First().Text())

		pageURL := absoluteURL(href, xnxxBaseURL)
		thumb = absoluteURL(thumb, xnxxBaseURL)
		if id == "" || pageURL == "" || thumb == "" {
			return
		}

		videos = append(videos, models.Video{
			ID:        id,
			Title:     title,
			URL:       pageURL,
			Thumbnail: thumb,
			Duration:  duration,
			Source:    d.Slug(),
			Kind:      models.KindVideo,
		})
	})

	return videos, nil
}
