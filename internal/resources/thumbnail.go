package resources

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/fogleman/gg"
)

const (
	thumbWidth  = 320
	thumbHeight = 180
)

// RenderPlaceholder draws a cover card for a resource uploaded without a
// thumbnail: dark background, accent bar, wrapped title.
func RenderPlaceholder(name string) ([]byte, error) {
	dc := gg.NewContext(thumbWidth, thumbHeight)

	dc.SetRGB(0.12, 0.13, 0.18)
	dc.Clear()

	dc.SetRGB(0.39, 0.40, 0.95)
	dc.DrawRectangle(0, 0, thumbWidth, 8)
	dc.Fill()

	dc.SetRGB(0.93, 0.93, 0.96)
	lines := dc.WordWrap(name, thumbWidth-40)
	if len(lines) > 4 {
		lines = lines[:4]
	}
	lineHeight := 18.0
	startY := thumbHeight/2 - lineHeight*float64(len(lines)-1)/2
	for i, line := range lines {
		dc.DrawStringAnchored(line, thumbWidth/2, startY+float64(i)*lineHeight, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// thumbnailCache holds lazily rendered placeholders for the lifetime of the
// process only. Nothing is written back to storage, so the cost recurs
// after a restart.
type thumbnailCache struct {
	mu     sync.Mutex
	images map[int64][]byte
}

func newThumbnailCache() *thumbnailCache {
	return &thumbnailCache{images: make(map[int64][]byte)}
}

func (c *thumbnailCache) get(id int64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.images[id]
	return img, ok
}

func (c *thumbnailCache) put(id int64, img []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[id] = img
}
