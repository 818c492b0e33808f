package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	mu    sync.Mutex
	calls int
	data  []byte
	err   error
}

func (f *countingFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *countingFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// testPNG is a small gradient so every transform produces distinct output.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestService_ProcessLogoImage(t *testing.T) {
	t.Run("Returns a self-contained payload", func(t *testing.T) {
		fetcher := &countingFetcher{data: testPNG(t)}
		s := NewService(fetcher, discardLogger())

		payload := s.ProcessLogoImage(context.Background(), "http://example.org/logo.png", StrategyBlur)

		assert.True(t, strings.HasPrefix(payload, "data:image/png;base64,"))
	})

	t.Run("Second call with the same URL hits the cache", func(t *testing.T) {
		fetcher := &countingFetcher{data: testPNG(t)}
		s := NewService(fetcher, discardLogger())

		first := s.ProcessLogoImage(context.Background(), "http://example.org/logo.png", StrategyBlur)
		second := s.ProcessLogoImage(context.Background(), "http://example.org/logo.png", StrategyBlur)

		assert.Equal(t, 1, fetcher.count())
		assert.Equal(t, first, second)
	})

	t.Run("Changing the default strategy clears the cache", func(t *testing.T) {
		fetcher := &countingFetcher{data: testPNG(t)}
		s := NewService(fetcher, discardLogger())

		s.ProcessLogoImage(context.Background(), "http://example.org/logo.png", StrategyBlur)
		require.NoError(t, s.SetDefaultStrategy(StrategyThreshold))
		s.ProcessLogoImage(context.Background(), "http://example.org/logo.png", "")

		assert.Equal(t, 2, fetcher.count())
	})

	t.Run("Different strategies produce different payloads", func(t *testing.T) {
		fetcher := &countingFetcher{data: testPNG(t)}
		s := NewService(fetcher, discardLogger())

		blurred := s.ProcessLogoImage(context.Background(), "http://example.org/a.png", StrategyBlur)
		thresholded := s.ProcessLogoImage(context.Background(), "http://example.org/b.png", StrategyThreshold)

		assert.NotEqual(t, blurred, thresholded)
	})

	t.Run("Fetch failure degrades to the original URL", func(t *testing.T) {
		fetcher := &countingFetcher{err: errors.New("connection refused")}
		s := NewService(fetcher, discardLogger())

		payload := s.ProcessLogoImage(context.Background(), "http://example.org/logo.png", StrategyBlur)

		assert.Equal(t, "http://example.org/logo.png", payload)
	})

	t.Run("Decode failure degrades to the original URL", func(t *testing.T) {
		fetcher := &countingFetcher{data: []byte("not an image")}
		s := NewService(fetcher, discardLogger())

		payload := s.ProcessLogoImage(context.Background(), "http://example.org/logo.png", StrategyPixelate)

		assert.Equal(t, "http://example.org/logo.png", payload)
	})

	t.Run("Failures are not cached", func(t *testing.T) {
		fetcher := &countingFetcher{err: errors.New("connection refused")}
		s := NewService(fetcher, discardLogger())

		s.ProcessLogoImage(context.Background(), "http://example.org/logo.png", StrategyBlur)
		s.ProcessLogoImage(context.Background(), "http://example.org/logo.png", StrategyBlur)

		assert.Equal(t, 2, fetcher.count())
	})
}

func TestService_DefaultStrategy(t *testing.T) {
	s := NewService(&countingFetcher{}, discardLogger())

	assert.Equal(t, StrategyRandom, s.DefaultStrategy())

	require.NoError(t, s.SetDefaultStrategy(StrategyEdges))
	assert.Equal(t, StrategyEdges, s.DefaultStrategy())

	assert.Error(t, s.SetDefaultStrategy("mosaic"))
	assert.Equal(t, StrategyEdges, s.DefaultStrategy())
}

func TestStrategies(t *testing.T) {
	list := Strategies()

	assert.Len(t, list, 4)
	assert.NotContains(t, list, StrategyRandom)
}

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"blur", "pixelate", "threshold", "edges", "random"} {
		s, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, Strategy(name), s)
	}

	_, err := ParseStrategy("mosaic")
	assert.Error(t, err)
}
