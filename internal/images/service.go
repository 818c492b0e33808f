package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// Fetcher retrieves raw image bytes for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches images over plain HTTP GET.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with a bounded request timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: 20 * time.Second}}
}

// Fetch downloads the image bytes at url.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}

// Service applies obfuscation transforms to logo images, memoizing results
// per source URL. One instance is owned by the composition root; the mutex
// makes the cache and default strategy safe under concurrent handlers.
type Service struct {
	mu       sync.Mutex
	strategy Strategy
	cache    map[string]string // source URL -> encoded payload
	fetcher  Fetcher
	log      *slog.Logger
}

// NewService creates a service with the random meta-strategy as default.
func NewService(fetcher Fetcher, logger *slog.Logger) *Service {
	return &Service{
		strategy: StrategyRandom,
		cache:    make(map[string]string),
		fetcher:  fetcher,
		log:      logger,
	}
}

// DefaultStrategy returns the strategy used when callers do not name one.
func (s *Service) DefaultStrategy() Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy
}

// SetDefaultStrategy changes the default strategy and clears the cache:
// payloads computed under the old strategy must not leak across the change.
func (s *Service) SetDefaultStrategy(strategy Strategy) error {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategy = strategy
	s.cache = make(map[string]string)
	return nil
}

// ProcessLogoImage returns an obfuscated, self-contained encoding of the
// image at url. An empty strategy selects the service default. On any fetch
// or decode failure the original URL is returned unchanged, so a broken
// image never blocks question generation.
func (s *Service) ProcessLogoImage(ctx context.Context, url string, strategy Strategy) string {
	s.mu.Lock()
	if cached, ok := s.cache[url]; ok {
		s.mu.Unlock()
		return cached
	}
	effective := s.resolveLocked(strategy)
	s.mu.Unlock()

	payload, err := s.process(ctx, url, effective)
	if err != nil {
		s.log.Warn("image processing failed, serving original url",
			slog.String("url", url),
			slog.String("strategy", string(effective)),
			slog.String("error", err.Error()))
		return url
	}

	s.mu.Lock()
	s.cache[url] = payload
	s.mu.Unlock()

	return payload
}

// resolveLocked picks the effective strategy: explicit argument first, then
// a non-random default, then a random draw from the deterministic four.
func (s *Service) resolveLocked(strategy Strategy) Strategy {
	if strategy != "" && strategy != StrategyRandom {
		return strategy
	}
	if strategy == "" && s.strategy != StrategyRandom {
		return s.strategy
	}
	return deterministic[rand.Intn(len(deterministic))]
}

func (s *Service) process(ctx context.Context, url string, strategy Strategy) (string, error) {
	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, transform(img, strategy), imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
