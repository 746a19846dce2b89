package media

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shameless/shameless/internal/cache"
	"github.com/shameless/shameless/internal/kv"
	"github.com/shameless/shameless/internal/remote"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Pixabay API host.
const DefaultBaseURL = "https://pixabay.com"

// Config holds the media client settings.
type Config struct {
	APIKey            string
	BaseURL           string
	RequestsPerMinute int
	Timeout           time.Duration
	FallbackCount     int
}

// DefaultConfig returns the default media client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		RequestsPerMinute: 100,
		Timeout:           10 * time.Second,
		FallbackCount:     DefaultFallbackCount,
	}
}

// Client searches for calming media. Create one per composition root with
// New; it is safe for concurrent use.
type Client struct {
	cfg          Config
	http         *http.Client
	availability *remote.Availability
	limiter      *rate.Limiter
	cache        *cache.Cache[[]Item]
	favorites    *Favorites
	logger       *log.Logger
	now          func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithRand sets the random source used for term selection and fallback
// shuffling.
func WithRand(r *rand.Rand) Option {
	return func(cl *Client) {
		cl.rng = r
	}
}

// WithLogger sets the client logger.
func WithLogger(l *log.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// WithClock overrides the time source, including cache expiry.
func WithClock(now func() time.Time) Option {
	return func(cl *Client) {
		cl.now = now
	}
}

// New creates a media client. Cached results and favorites are persisted
// through store.
func New(cfg Config, store kv.Store, opts ...Option) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.FallbackCount <= 0 {
		cfg.FallbackCount = def.FallbackCount
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:          cfg,
		availability: remote.NewAvailability(cfg.APIKey),
		limiter:      remote.NewLimiter(cfg.RequestsPerMinute),
		logger:       log.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout}
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5ea1e55))
	}
	c.logger = c.logger.With("client", serviceName)

	c.cache = cache.New[[]Item]("media", cache.MediaTTL, store,
		cache.WithClock(c.now), cache.WithLogger(c.logger))
	c.favorites = NewFavorites(store, c.logger)

	c.availability.OnChange(func(from, to remote.State, reason string) {
		c.logger.Info("Availability changed", "from", from, "to", to, "reason", reason)
	})
	if !c.availability.Available() {
		c.logger.Debug("Starting degraded", "reason", c.availability.Reason())
	}

	return c
}

// Available reports whether the client currently calls the API.
func (c *Client) Available() bool {
	return c.availability.Available()
}

// State returns the client availability state.
func (c *Client) State() remote.State {
	return c.availability.State()
}

// ResetAvailability leaves the degraded state if a usable key is configured.
func (c *Client) ResetAvailability() bool {
	return c.availability.Reset()
}

// Favorites returns the favorites list consulted for search results.
func (c *Client) Favorites() *Favorites {
	return c.favorites
}

// ClearCache drops every cached search.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// CacheStats returns statistics of the search cache.
func (c *Client) CacheStats() cache.Stats {
	return c.cache.Stats()
}

// CacheKey returns the cache key for a term and content type.
func CacheKey(term string, kind Kind) string {
	return cache.DeriveKey(strings.ToLower(term), string(kind))
}

// Search returns calming media for req. It never fails: remote problems
// produce fallback content, which is empty for videos.
func (c *Client) Search(ctx context.Context, req Request) Result {
	kind := req.Kind
	if kind == "" {
		kind = KindImage
	}
	term := strings.TrimSpace(req.Query)
	if term == "" {
		term = c.pickTerm(req.Mood, req.Color)
	}
	count := req.FallbackCount
	if count <= 0 {
		count = c.cfg.FallbackCount
	}

	res := Result{Term: term, Kind: kind, At: c.now()}

	if !c.availability.Available() {
		return c.fallback(res, count, remote.ErrDegraded)
	}

	key := CacheKey(term, kind)
	if items, ok := c.cache.Get(key); ok {
		res.Items = c.markFavorites(items)
		res.Source = SourceCache
		return res
	}

	items, err := c.fetch(ctx, term, kind)
	if err != nil {
		if remote.AsCredentialError(err) {
			c.availability.MarkDegraded(remote.ReasonCredential)
		}
		c.logger.Warn("Media search failed, serving fallback", "term", term, "kind", kind, "error", err)
		return c.fallback(res, count, err)
	}
	if len(items) == 0 {
		c.logger.Debug("No media found, serving fallback", "term", term, "kind", kind)
		return c.fallback(res, count, nil)
	}

	c.cache.Put(key, items)
	res.Items = c.markFavorites(items)
	res.Source = SourceRemote
	return res
}

func (c *Client) fetch(ctx context.Context, term string, kind Kind) ([]Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	path := imagesPath
	q := url.Values{}
	q.Set("key", c.availability.Credential())
	q.Set("q", term)
	q.Set("safesearch", "true")
	q.Set("category", category)
	q.Set("per_page", strconv.Itoa(pageSize))
	if kind == KindVideo {
		path = videosPath
	} else {
		q.Set("image_type", "photo")
		q.Set("orientation", "horizontal")
		q.Set("min_width", strconv.Itoa(minWidth))
		q.Set("min_height", strconv.Itoa(minHeight))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remote.NewAPIError(serviceName, resp)
	}

	dec := json.NewDecoder(resp.Body)
	if kind == KindVideo {
		var body videoResponse
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: %v", remote.ErrInvalidResponse, err)
		}
		return body.normalize()
	}
	var body imageResponse
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", remote.ErrInvalidResponse, err)
	}
	return body.normalize()
}

// fallback fills res with shuffled bundled images. Nothing is cached.
func (c *Client) fallback(res Result, count int, cause error) Result {
	res.Source = SourceFallback
	res.Err = cause
	if res.Kind == KindVideo {
		res.Items = []Item{}
		return res
	}

	items := append([]Item(nil), fallbackImages...)
	c.rngMu.Lock()
	c.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	c.rngMu.Unlock()

	if count > len(items) {
		count = len(items)
	}
	res.Items = c.markFavorites(items[:count])
	return res
}

func (c *Client) pickTerm(mood, color string) string {
	terms := candidateTerms(mood, color)
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return terms[c.rng.IntN(len(terms))]
}

// markFavorites returns a copy of items with Favorited set from the
// persisted favorites.
func (c *Client) markFavorites(items []Item) []Item {
	ids := c.favorites.IDs()
	out := make([]Item, len(items))
	for i, it := range items {
		it.Favorited = ids[it.ID]
		out[i] = it
	}
	return out
}
