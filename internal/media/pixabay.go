package media

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shameless/shameless/internal/remote"
)

// Fixed Pixabay search filters.
const (
	pageSize    = 20
	category    = "nature"
	minWidth    = 1280
	minHeight   = 720
	imagesPath  = "/api/"
	videosPath  = "/api/videos/"
	serviceName = "pixabay"
)

type imageResponse struct {
	Total     int        `json:"total"`
	TotalHits int        `json:"totalHits"`
	Hits      []imageHit `json:"hits"`
}

type imageHit struct {
	ID            int    `json:"id"`
	PageURL       string `json:"pageURL"`
	Tags          string `json:"tags"`
	PreviewURL    string `json:"previewURL"`
	WebformatURL  string `json:"webformatURL"`
	LargeImageURL string `json:"largeImageURL"`
	Views         int    `json:"views"`
	Likes         int    `json:"likes"`
	User          string `json:"user"`
}

type videoResponse struct {
	Total     int        `json:"total"`
	TotalHits int        `json:"totalHits"`
	Hits      []videoHit `json:"hits"`
}

type videoHit struct {
	ID     int         `json:"id"`
	Tags   string      `json:"tags"`
	Videos videoFormat `json:"videos"`
	Views  int         `json:"views"`
	Likes  int         `json:"likes"`
	User   string      `json:"user"`
}

type videoFormat struct {
	Large  videoFile `json:"large"`
	Medium videoFile `json:"medium"`
	Small  videoFile `json:"small"`
	Tiny   videoFile `json:"tiny"`
}

type videoFile struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

func (r imageResponse) normalize() ([]Item, error) {
	items := make([]Item, 0, len(r.Hits))
	for i, h := range r.Hits {
		url := firstNonEmpty(h.LargeImageURL, h.WebformatURL)
		if h.ID <= 0 || url == "" {
			return nil, fmt.Errorf("%w: image hit %d missing id or url", remote.ErrInvalidResponse, i)
		}
		items = append(items, Item{
			ID:         strconv.Itoa(h.ID),
			Kind:       KindImage,
			URL:        url,
			PreviewURL: firstNonEmpty(h.WebformatURL, h.PreviewURL),
			Tags:       splitTags(h.Tags),
			Author:     h.User,
			Stats:      Stats{Views: h.Views, Likes: h.Likes},
		})
	}
	return items, nil
}

func (r videoResponse) normalize() ([]Item, error) {
	items := make([]Item, 0, len(r.Hits))
	for i, h := range r.Hits {
		v := h.Videos
		url := firstNonEmpty(v.Medium.URL, v.Large.URL, v.Small.URL, v.Tiny.URL)
		if h.ID <= 0 || url == "" {
			return nil, fmt.Errorf("%w: video hit %d missing id or url", remote.ErrInvalidResponse, i)
		}
		items = append(items, Item{
			ID:         strconv.Itoa(h.ID),
			Kind:       KindVideo,
			URL:        url,
			PreviewURL: firstNonEmpty(v.Medium.Thumbnail, v.Small.Thumbnail),
			Tags:       splitTags(h.Tags),
			Author:     h.User,
			Stats:      Stats{Views: h.Views, Likes: h.Likes},
		})
	}
	return items, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
