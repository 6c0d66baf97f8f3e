package driver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Mentallyspammed1/neonsearch/internal/models"
)

const spankbangBaseURL = "https://spankbang.com"

var spankbangIDPattern = regexp.MustCompile(`/([a-z0-9_-]+)/video/`)

// SpankBang is the driver for spankbang.com.
type SpankBang struct{}

// NewSpankBang creates the SpankBang driver.
func NewSpankBang() *SpankBang { return &SpankBang{} }

func (d *SpankBang) Slug() string       { return "spankbang" }
func (d *SpankBang) DriverName() string { return "SpankBang" }

// SearchURL builds the video search URL. SpankBang pages are 1-based.
func (d *SpankBang) SearchURL(query string, page int) string {
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("%s/s/%s/%d/", spankbangBaseURL, url.QueryEscape(strings.TrimSpace(query)), page)
}

// Parse extracts videos from a search listing page.
func (d *SpankBang) Parse(html string) ([]models.Video, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, extractErr(d.Slug(), err)
	}

	videos := []models.Video{}
	doc.Find("div.video-item").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		if link.Length() == 0 {
			return
		}

		href := link.AttrOr("href", "")
		var id string
		if m := spankbangIDPattern.FindStringSubmatch(href); m != nil {
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

		duration := normalizeDuration(item.Find("span.l").First().Text())

		pageURL := absoluteURL(href, spankbangBaseURL)
		thumb = absoluteURL(thumb, spankbangBaseURL)
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
