// ABOUTME: Image palette service extracting prominent colors from uploaded images
// ABOUTME: Uses K-means clustering and caches palettes by content hash

package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/EdlinOrg/prominentcolor"
	_ "golang.org/x/image/webp" // WebP support

	"smart-reader-api/core/domain"
	"smart-reader-api/core/interfaces"
)

const paletteCacheTTL = 24 * time.Hour

// PaletteService computes the dominant colors of an image
type PaletteService struct {
	deps interfaces.Dependencies
	k    int
}

// NewPaletteService creates a palette service returning up to k colors
func NewPaletteService(deps interfaces.Dependencies, k int) *PaletteService {
	if k <= 0 {
		k = prominentcolor.DefaultK
	}
	return &PaletteService{deps: deps, k: k}
}

// Palette returns the prominent colors of the encoded image, most prominent first
func (s *PaletteService) Palette(ctx context.Context, data []byte) ([]domain.RGBColor, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	sum := sha256.Sum256(data)
	cacheKey := fmt.Sprintf("palette:%d:%s", s.k, hex.EncodeToString(sum[:]))
	if s.deps.Cache != nil {
		if cached, err := s.deps.Cache.Get(ctx, cacheKey); err == nil && cached != nil {
			if colors, ok := decodePalette(string(cached)); ok {
				return colors, nil
			}
		}
	}

	colors, err := s.extract(data)
	if err != nil {
		s.debug("Failed to extract image palette", map[string]interface{}{
			"bytes": len(data),
			"error": err.Error(),
		})
		return nil, err
	}

	if s.deps.Cache != nil {
		_ = s.deps.Cache.Set(ctx, cacheKey, []byte(encodePalette(colors)), paletteCacheTTL)
	}
	return colors, nil
}

func (s *PaletteService) extract(data []byte) (colors []domain.RGBColor, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			colors = nil
			err = fmt.Errorf("panic recovered: %v", rec)
		}
	}()

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image has empty bounds")
	}

	imgNRGBA := image.NewNRGBA(bounds)
	draw.Draw(imgNRGBA, bounds, img, bounds.Min, draw.Src)

	items, err := prominentcolor.KmeansWithAll(prominentcolor.ArgumentDefault, imgNRGBA, s.k, 1, prominentcolor.GetDefaultMasks())
	if err != nil || len(items) == 0 {
		s.debug("Retrying palette extraction without masks", map[string]interface{}{
			"error": fmt.Sprint(err),
		})
		items, err = prominentcolor.KmeansWithAll(prominentcolor.ArgumentDefault, imgNRGBA, s.k, 1, nil)
		if err != nil || len(items) == 0 {
			return nil, fmt.Errorf("no colors extracted from image")
		}
	}

	colors = make([]domain.RGBColor, 0, len(items))
	for _, item := range items {
		colors = append(colors, domain.RGBColor{
			R: uint8(item.Color.R),
			G: uint8(item.Color.G),
			B: uint8(item.Color.B),
		})
	}
	return colors, nil
}

func (s *PaletteService) debug(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Debug(msg, fields)
	}
}

// encodePalette stores colors as "R,G,B;R,G,B"
func encodePalette(colors []domain.RGBColor) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		parts[i] = fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
	}
	return strings.Join(parts, ";")
}

func decodePalette(s string) ([]domain.RGBColor, bool) {
	if s == "" {
		return nil, false
	}
	var colors []domain.RGBColor
	for _, part := range strings.Split(s, ";") {
		var c domain.RGBColor
		if _, err := fmt.Sscanf(part, "%d,%d,%d", &c.R, &c.G, &c.B); err != nil {
			return nil, false
		}
		colors = append(colors, c)
	}
	return colors, true
}
