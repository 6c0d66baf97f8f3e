package driver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Mentallyspammed1/neonsearch/internal/models"
)

const redtubeBaseURL = "https://www.redtube.com"

var redtubeIDPattern = regexp.MustCompile(`/(\d+)`)

// Redtube is the driver for redtube.com.
type Redtube struct{}

// NewRedtube creates the Redtube driver.
func NewRedtube() *Redtube { return &Redtube{} }

func (d *Redtube) Slug() string       { return "redtube" }
func (d *Redtube) DriverName() string { return "Redtube" }

// SearchURL builds the video search URL. Redtube pages are 1-based.
func (d *Redtube) SearchURL(query string, page int) string {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("search", strings.TrimSpace(query))
	params.Set("page", fmt.Sprintf("%d", page))
	return redtubeBaseURL + "/?" + params.Encode()
}

// Parse extracts videos from a search listing page.
func (d *Redtube) Parse(html string) ([]models.Video, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, extractErr(d.Slug(), err)
	}

	videos := []models.Video{}
	doc.Find("li.video_li").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a.video_link").First()
		if link.Length() == 0 {
			return
		}

		href := link.AttrOr("href", "")
		var id string
		if m := redtubeIDPattern.FindStringSubmatch(href); m != nil {
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

		duration := normalizeDuration(item.Find("span.duration").First().Text())

		pageURL := absoluteURL(href, redtubeBaseURL)
		thumb = absoluteURL(thumb, redtubeBaseURL)
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
