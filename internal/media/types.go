package media

import "time"

// Kind is the content type of a media item.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// ParseKind maps user input to a Kind. Unknown values default to images.
func ParseKind(s string) Kind {
	switch s {
	case "video", "videos", "film":
		return KindVideo
	default:
		return KindImage
	}
}

// Source records where a search result came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Stats are engagement counters reported by the API.
type Stats struct {
	Views int `json:"views"`
	Likes int `json:"likes"`
}

// Item is a normalized search hit. For videos PreviewURL may be empty.
type Item struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"kind"`
	URL        string   `json:"url"`
	PreviewURL string   `json:"preview_url,omitempty"`
	Tags       []string `json:"tags"`
	Author     string   `json:"author"`
	Stats      Stats    `json:"stats"`
	Favorited  bool     `json:"-"`
}

// DisplayURL returns the URL a viewer should render for the item.
func (i Item) DisplayURL() string {
	if i.Kind == KindImage && i.PreviewURL != "" {
		return i.PreviewURL
	}
	return i.URL
}

// Request describes a calming-media search. When Query is empty a term is
// derived from Mood and Color.
type Request struct {
	Mood          string
	Color         string
	Query         string
	Kind          Kind
	FallbackCount int
}

// Result is the outcome of a search. Err carries the remote failure that
// caused a fallback, if any; it is informational only.
type Result struct {
	Items  []Item
	Term   string
	Kind   Kind
	Source Source
	Err    error
	At     time.Time
}

// Favorite is a persisted favorited item.
type Favorite struct {
	Item    Item      `json:"item"`
	AddedAt time.Time `json:"added_at"`
}
