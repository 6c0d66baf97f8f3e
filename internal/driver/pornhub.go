package driver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/Mentallyspammed1/neonsearch/internal/models"
)

const (
	pornhubBaseURL = "https://www.pornhub.com"
	pornhubGifHost = "https://i.pornhub.com"
)

var (
	pornhubViewkeyPattern = regexp.MustCompile(`viewkey=([a-zA-Z0-9]+)`)
	pornhubGifIDPattern   = regexp.MustCompile(`/(\d+)/(\w+)`)
)

// Pornhub is the driver for pornhub.com. It is the only source with GIF
// search support.
type Pornhub struct{}

// NewPornhub creates the Pornhub driver.
func NewPornhub() *Pornhub { return &Pornhub{} }

func (d *Pornhub) Slug() string       { return "pornhub" }
func (d *Pornhub) DriverName() string { return "Pornhub" }

// SearchURL builds the video search URL. Pornhub pages are 1-based.
func (d *Pornhub) SearchURL(query string, page int) string {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("search", strings.TrimSpace(query))
	params.Set("page", fmt.Sprintf("%d", page))
	return pornhubBaseURL + "/video/search?" + params.Encode()
}

// Parse extracts videos from a search listing page.
func (d *Pornhub) Parse(html string) ([]models.Video, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, extractErr(d.Slug(), err)
	}

	videos := []models.Video{}
	doc.Find("div.phimage").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		if link.Length() == 0 {
			return
		}

		href := link.AttrOr("href", "")
		var id string
		if m := pornhubViewkeyPattern.FindStringSubmatch(href); m != nil {
			id = m[1]
		}

		title := strings.TrimSpace(link.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(item.Find("span.title").First().Text())
		}
		if title == "" {
			title = "Untitled Video"
		}

		img := item.Find("img").First()
		thumb := img.AttrOr("data-src", "")
		if thumb == "" {
			thumb = img.AttrOr("src", "")
		}
		if thumb == "" || strings.Contains(thumb, "nothumb") {
			return
		}

		duration := normalizeDuration(item.Find("var.duration, span.duration").First().Text())
		views := normalizeViews(item.Find("span.views var").First().Text())

		pageURL := absoluteURL(href, pornhubBaseURL)
		thumb = absoluteURL(thumb, pornhubBaseURL)
		if id == "" || pageURL == "" || thumb == "" {
			log.Debug().Str("driver", d.Slug()).Str("href", href).Msg("skipping item with missing fields")
			return
		}

		videos = append(videos, models.Video{
			ID:        id,
			Title:     title,
			URL:       pageURL,
			Thumbnail: thumb,
			Duration:  duration,
			Views:     views,
			Source:    d.Slug(),
			Kind:      models.KindVideo,
		})
	})

	return videos, nil
}

// GifURL builds the GIF search URL.
func (d *Pornhub) GifURL(query string, page int) string {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("search", strings.TrimSpace(query))
	params.Set("page", fmt.Sprintf("%d", page))
	return pornhubBaseURL + "/gifs/search?" + params.Encode()
}

// ParseGifs extracts GIF records from a GIF search listing page.
func (d *Pornhub) ParseGifs(html string) ([]models.Video, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, extractErr(d.Slug(), err)
	}

	gifs := []models.Video{}
	doc.Find("div.gifImageBlock, div.img-container").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		if link.Length() == 0 {
			return
		}

		pageURL := link.AttrOr("href", "")
		id := item.AttrOr("data-id", "")
		if id == "" {
			if m := pornhubGifIDPattern.FindStringSubmatch(pageURL); m != nil {
				id = m[1]
			}
		}

		img := item.Find("img").First()
		title := strings.TrimSpace(img.AttrOr("alt", ""))
		if title == "" {
			title = strings.TrimSpace(link.AttrOr("title", ""))
		}
		if title == "" {
			title = "Untitled GIF"
		}

		animated := img.AttrOr("data-src", "")
		if animated == "" {
			animated = img.AttrOr("src", "")
		}
		if !strings.HasSuffix(animated, ".gif") {
			return
		}
		animated = absoluteURL(animated, pornhubGifHost)

		pageURL = absoluteURL(pageURL, pornhubBaseURL)
		if id == "" || pageURL == "" || animated == "" {
			return
		}

		gifs = append(gifs, models.Video{
			ID:        id,
			Title:     title,
			URL:       pageURL,
			Thumbnail: animated,
			Source:    d.Slug(),
			Kind:      models.KindGif,
		})
	})

	return gifs, nil
}
