package images

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Strategy names one obfuscation transform.
type Strategy string

const (
	StrategyBlur      Strategy = "blur"
	StrategyPixelate  Strategy = "pixelate"
	StrategyThreshold Strategy = "threshold"
	StrategyEdges     Strategy = "edges"

	// StrategyRandom is a meta-strategy: each image gets one of the four
	// deterministic transforms picked pseudo-randomly.
	StrategyRandom Strategy = "random"
)

// deterministic lists the four concrete transforms, in the order they are
// reported to callers and sampled from by the random meta-strategy.
var deterministic = []Strategy{StrategyBlur, StrategyPixelate, StrategyThreshold, StrategyEdges}

// Strategies returns the selectable transforms, excluding the random
// meta-strategy.
func Strategies() []Strategy {
	out := make([]Strategy, len(deterministic))
	copy(out, deterministic)
	return out
}

// ParseStrategy validates a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(name)
	switch s {
	case StrategyBlur, StrategyPixelate, StrategyThreshold, StrategyEdges, StrategyRandom:
		return s, nil
	}
	return "", fmt.Errorf("unknown image strategy: %q", name)
}

// blurSigma is large enough to make embedded text unreadable while keeping
// the gross silhouette of the logo.
const blurSigma = 12

// pixelateFactor is the linear downscale divisor before nearest-neighbor
// upscaling.
const pixelateFactor = 15

// transform applies one deterministic strategy to a decoded image.
func transform(img image.Image, s Strategy) image.Image {
	switch s {
	case StrategyBlur:
		return imaging.Blur(img, blurSigma)

	case StrategyPixelate:
		bounds := img.Bounds()
		w := max(1, bounds.Dx()/pixelateFactor)
		h := max(1, bounds.Dy()/pixelateFactor)
		small := imaging.Resize(img, w, h, imaging.NearestNeighbor)
		return imaging.Resize(small, bounds.Dx(), bounds.Dy(), imaging.NearestNeighbor)

	case StrategyThreshold:
		gray := imaging.Grayscale(img)
		return imaging.AdjustFunc(gray, func(c color.NRGBA) color.NRGBA {
			if c.R >= 128 {
				return color.NRGBA{R: 255, G: 255, B: 255, A: c.A}
			}
			return color.NRGBA{A: c.A}
		})

	case StrategyEdges:
		// High-pass kernel: keeps outlines, flattens solid regions and
		// most embedded text with them.
		return imaging.Convolve3x3(imaging.Grayscale(img), [9]float64{
			-1, -1, -1,
			-1, 8, -1,
			-1, -1, -1,
		}, nil)
	}

	return img
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
