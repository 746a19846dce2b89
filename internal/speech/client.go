package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/shameless/shameless/internal/cache"
	"github.com/shameless/shameless/internal/kv"
	"github.com/shameless/shameless/internal/remote"
	"golang.org/x/time/rate"
)

const (
	serviceName  = "elevenlabs"
	maxAudioSize = 64 << 20
)

// Config holds the speech client settings.
type Config struct {
	APIKey            string
	BaseURL           string
	VoiceID           string
	ModelID           string
	OutputFormat      string
	VoiceSettings     VoiceSettings
	RequestsPerMinute int
	Timeout           time.Duration
}

// DefaultConfig returns the default speech client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		VoiceID:           DefaultVoiceID,
		ModelID:           DefaultModelID,
		OutputFormat:      DefaultOutputFormat,
		VoiceSettings:     DefaultVoiceSettings(),
		RequestsPerMinute: 120,
		Timeout:           30 * time.Second,
	}
}

// Client synthesizes speech. Create one per composition root with New; it
// is safe for concurrent use.
type Client struct {
	cfg          Config
	http         *http.Client
	availability *remote.Availability
	limiter      *rate.Limiter
	cache        *cache.Cache[AudioHandle]
	disk         *cache.DiskStore
	logger       *log.Logger
	now          func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
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

// New creates a speech client. Audio handles are cached through store and
// the audio itself is written to disk.
func New(cfg Config, store kv.Store, disk *cache.DiskStore, opts ...Option) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.VoiceID == "" {
		cfg.VoiceID = def.VoiceID
	}
	if cfg.ModelID == "" {
		cfg.ModelID = def.ModelID
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = def.OutputFormat
	}
	if cfg.VoiceSettings == (VoiceSettings{}) {
		cfg.VoiceSettings = def.VoiceSettings
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:          cfg,
		availability: remote.NewAvailability(cfg.APIKey),
		limiter:      remote.NewLimiter(cfg.RequestsPerMinute),
		disk:         disk,
		logger:       log.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout}
	}
	c.logger = c.logger.With("client", serviceName)
	c.cache = cache.New[AudioHandle]("speech", cache.SpeechTTL, store,
		cache.WithClock(c.now), cache.WithLogger(c.logger))

	c.availability.OnChange(func(from, to remote.State, reason string) {
		c.logger.Info("Availability changed", "from", from, "to", to, "reason", reason)
	})

	return c
}

// Configured reports whether a usable API key is set.
func (c *Client) Configured() bool {
	return c.availability.Configured()
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

// ClearCache drops every cached handle and the audio behind them.
func (c *Client) ClearCache() error {
	c.cache.Clear()
	if c.disk == nil {
		return nil
	}
	return c.disk.Clear()
}

// CacheStats returns statistics of the handle cache.
func (c *Client) CacheStats() cache.Stats {
	return c.cache.Stats()
}

// CacheKey returns the cache key for a voice and text.
func CacheKey(voiceID, text string) string {
	return cache.DeriveKey(voiceID, text)
}

// Synthesize returns playable audio for text. An empty voiceID selects the
// configured voice and nil settings select the configured voice settings.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string, settings *VoiceSettings) Result {
	text = strings.TrimSpace(text)
	if voiceID = strings.TrimSpace(voiceID); voiceID == "" {
		voiceID = c.cfg.VoiceID
	}

	if !c.availability.Configured() {
		return failure(text, voiceID, remote.ErrNotConfigured)
	}
	if !c.availability.Available() {
		return failure(text, voiceID, remote.ErrDegraded)
	}
	if text == "" {
		return failure(text, voiceID, ErrEmptyText)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return failure(text, voiceID, ErrTextTooLong)
	}
	if c.disk == nil {
		return failure(text, voiceID, ErrNoAudioStore)
	}

	vs := c.cfg.VoiceSettings
	if settings != nil {
		vs = *settings
	}
	if err := vs.Validate(); err != nil {
		return failure(text, voiceID, err)
	}

	key := CacheKey(voiceID, text)
	if h, ok := c.cache.Get(key); ok {
		h.disk = c.disk
		if c.disk.Exists(h.Blob) {
			return Result{Success: true, Text: text, VoiceID: voiceID, Audio: &h, Cached: true}
		}
		c.logger.Debug("Cached audio missing on disk", "key", key, "path", h.Blob.Path)
		c.cache.Delete(key)
	}

	audio, err := c.fetch(ctx, text, voiceID, vs)
	if err != nil {
		if remote.AsCredentialError(err) {
			c.availability.MarkDegraded(remote.ReasonCredential)
		}
		c.logger.Warn("Speech synthesis failed", "voice", voiceID, "error", err)
		return failure(text, voiceID, err)
	}

	blob, err := c.disk.Put(key, audio)
	if err != nil {
		c.logger.Warn("Failed to store synthesized audio", "error", err)
		return failure(text, voiceID, fmt.Errorf("failed to store audio: %w", err))
	}

	h := AudioHandle{Key: key, Format: c.cfg.OutputFormat, Blob: blob}
	c.cache.Put(key, h)
	h.disk = c.disk

	c.logger.Debug("Synthesized speech", "voice", voiceID, "bytes", len(audio))
	return Result{Success: true, Text: text, VoiceID: voiceID, Audio: &h}
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

func (c *Client) fetch(ctx context.Context, text, voiceID string, vs VoiceSettings) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	body, err := json.Marshal(synthesisRequest{
		Text:          text,
		ModelID:       c.cfg.ModelID,
		VoiceSettings: vs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		c.cfg.BaseURL, url.PathEscape(voiceID), url.QueryEscape(c.cfg.OutputFormat))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("xi-api-key", c.availability.Credential())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remote.NewAPIError(serviceName, resp)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio payload", remote.ErrInvalidResponse)
	}
	if len(audio) > maxAudioSize {
		return nil, fmt.Errorf("%w: audio exceeds %d bytes", remote.ErrInvalidResponse, maxAudioSize)
	}
	return audio, nil
}
