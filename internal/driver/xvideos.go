package driver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Mentallyspammed1/neonsearch/internal/models"
)

const xvideosBaseURL = "https://www.xvideos.com"

var xvideosIDPattern = regexp.MustCompile(`/video(\d+)/`)

// Xvideos is the driver for xvideos.com.
type Xvideos struct{}

// NewXvideos creates the Xvideos driver.
func NewXvideos() *Xvideos { return &Xvideos{} }

func (d *Xvideos) Slug() string       { return "xvideos" }
func (d *Xvideos) DriverName() string { return "Xvideos" }

// SearchURL builds the video search URL. Xvideos paginates from 0, so the
// 1-based request page is shifted down here.
func (d *Xvideos) SearchURL(query string, page int) string {
	p := page - 1
	if p < 0 {
		p = 0
	}
	params := url.Values{}
	params.Set("k", strings.TrimSpace(query))
	params.Set("p", fmt.Sprintf("%d", p))
	return xvideosBaseURL + "/?" + params.Encode()
}

// Parse extracts videos from a search listing page.
func (d *Xvideos) Parse(html string) ([]models.Video, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, extractErr(d.Slug(), err)
	}

	videos := []models.Video{}
	doc.Find("div.thumb-block, div.thumb").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		if link.Length() == 0 {
			return
		}

		href := link.AttrOr("href", "")
		var id string
		if m := xvideosIDPattern.FindStringSubmatch(href); m != nil {
			id = m[1]
		}

		title := strings.TrimSpace(link.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(item.Find("p.title").First().Text())
		}
		if title == "" {
			title = "Untitled Video"
		}

		img := item.Find("img").First()
		thumb := img.AttrOr("data-src", "")
		if thumb == "" {
			thumb = img.AttrOr("src", "")
		}

		duration := normalizeDuration(item.Find("p.metadata").First().Text())

		pageURL := absoluteURL(href, xvideosBaseURL)
		thumb = absoluteURL(thumb, xvideosBaseURL)
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
