package render

import (
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

var (
	fontOnce sync.Once
	fontErr  error
	monoFont *truetype.Font

	faceMu    sync.Mutex
	faceCache = make(map[float64]font.Face)
)

// setFontFace selects the embedded Go Mono font at size points.
func setFontFace(c *gg.Context, size float64) error {
	fontOnce.Do(func() {
		monoFont, fontErr = truetype.Parse(gomono.TTF)
	})
	if fontErr != nil {
		return fontErr
	}

	faceMu.Lock()
	defer faceMu.Unlock()
	f, ok := faceCache[size]
	if !ok {
		f = truetype.NewFace(monoFont, &truetype.Options{Size: size})
		faceCache[size] = f
	}
	c.SetFontFace(f)
	return nil
}
