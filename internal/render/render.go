// Package render draws the collector's object list as a PNG.
//
// Every object is a box laid out in list order, filled by color: white
// shades are outlined, gray objects are filled gray and black objects are
// filled black. Objects of the dead shade during a sweep are drawn faded,
// fixed objects get a thick border, soft roots a red one and objects
// pending destruction a dashed one. Arrows show References. A side panel
// shows the status line and the gray worklist.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/kolkov/objgc/internal/gc/collector"
	"github.com/kolkov/objgc/internal/gc/heap"
)

// Options controls the picture.
type Options struct {
	Width, Height int

	// Columns is the number of object boxes per row. Zero picks a square
	// grid.
	Columns int

	// Title is printed at the top of the side panel.
	Title string

	// Label names objects. Nil prints handles.
	Label func(heap.Handle) string

	// MaxGray limits the gray worklist listing.
	MaxGray int
}

// DefaultOptions returns a 1920x1080 picture.
func DefaultOptions() Options {
	return Options{Width: 1920, Height: 1080, MaxGray: 24}
}

var (
	faded     = color.Gray{Y: 190}
	grayFill  = color.Gray{Y: 140}
	highlight = color.RGBA{R: 0xff, A: 255}
)

// Draw renders the current state of c.
func Draw(c *collector.Collector, opts Options) (*gg.Context, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("render: invalid size %dx%d", opts.Width, opts.Height)
	}
	if opts.Label == nil {
		opts.Label = func(h heap.Handle) string { return h.String() }
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(0, 0, float64(opts.Width), float64(opts.Height))
	dc.Fill()

	split := opts.Width / 4
	panel := image.Rect(0, 0, split, opts.Height)
	heapArea := image.Rect(split, 0, opts.Width, opts.Height)

	if err := drawPanel(dc, c, panel, opts); err != nil {
		return nil, err
	}
	if err := drawObjects(dc, c, heapArea, opts); err != nil {
		return nil, err
	}
	return dc, nil
}

// Encode renders c and writes the PNG to w.
func Encode(w io.Writer, c *collector.Collector, opts Options) error {
	dc, err := Draw(c, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG renders c into the file at path.
func SavePNG(path string, c *collector.Collector, opts Options) error {
	dc, err := Draw(c, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

func drawPanel(dc *gg.Context, c *collector.Collector, area image.Rectangle, opts Options) error {
	const padding = 24
	x := float64(area.Min.X + padding)
	y := float64(area.Min.Y + padding)

	dc.SetColor(color.Black)
	if err := setFontFace(dc, 28); err != nil {
		return err
	}
	if opts.Title != "" {
		dc.DrawStringAnchored(opts.Title, x, y, 0, 1)
		y += 48
	}

	if err := setFontFace(dc, 16); err != nil {
		return err
	}
	st := c.Stats()
	info := fmt.Sprintf("%s\ncycles %d  reclaimed %d  objects %d", st, st.Cycles, st.Reclaimed, c.Count())
	dc.DrawStringWrapped(info, x, y, 0, 0, float64(area.Dx()-2*padding), 1.25, gg.AlignLeft)
	y += 96

	if err := setFontFace(dc, 24); err != nil {
		return err
	}
	dc.DrawStringAnchored("Gray", x, y, 0, 1)
	y += 36
	dc.SetLineWidth(3)
	dc.DrawLine(x, y, float64(area.Max.X-padding), y)
	dc.Stroke()
	y += 12

	if err := setFontFace(dc, 18); err != nil {
		return err
	}
	gray := c.GrayList()
	for i, h := range gray {
		if opts.MaxGray > 0 && i == opts.MaxGray {
			dc.DrawStringAnchored(fmt.Sprintf("... %d more", len(gray)-i), x, y, 0, 1)
			break
		}
		dc.DrawStringAnchored(opts.Label(h), x, y, 0, 1)
		y += 26
	}
	return nil
}

func drawObjects(dc *gg.Context, c *collector.Collector, area image.Rectangle, opts Options) error {
	var handles []heap.Handle
	for h := range c.Objects() {
		handles = append(handles, h)
	}
	if len(handles) == 0 {
		return nil
	}

	cols := opts.Columns
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(len(handles)))))
	}
	rows := (len(handles) + cols - 1) / cols
	cellW := float64(area.Dx()) / float64(cols)
	cellH := float64(area.Dy()) / float64(rows)
	boxW, boxH := cellW*0.7, cellH*0.5

	boxes := make(map[heap.Handle]image.Rectangle, len(handles))
	for i, h := range handles {
		cx := float64(area.Min.X) + cellW*(float64(i%cols)+0.5)
		cy := float64(area.Min.Y) + cellH*(float64(i/cols)+0.5)
		boxes[h] = image.Rect(int(cx-boxW/2), int(cy-boxH/2), int(cx+boxW/2), int(cy+boxH/2))
	}

	// Arrows first so boxes are drawn over them.
	dc.SetDash()
	for _, h := range handles {
		src := boxes[h]
		for _, ref := range c.References(h) {
			dst, ok := boxes[ref]
			if !ok {
				continue
			}
			if c.IsDead(ref) {
				dc.SetColor(faded)
			} else {
				dc.SetColor(color.Black)
			}
			s := center(src)
			d := minDistPtOnRect(s, dst, max(4, dst.Dx()/4))
			drawArrow(dc, float64(s.X), float64(s.Y), float64(d.X), float64(d.Y), 2)
		}
	}

	fontSize := math.Max(8, math.Min(20, boxH/3))
	if err := setFontFace(dc, fontSize); err != nil {
		return err
	}
	for _, h := range handles {
		drawBox(dc, c, h, boxes[h], opts.Label(h))
	}
	return nil
}

func drawBox(dc *gg.Context, c *collector.Collector, h heap.Handle, r image.Rectangle, label string) {
	e := c.Entry(h)
	x, y := float64(r.Min.X), float64(r.Min.Y)
	w, hgt := float64(r.Dx()), float64(r.Dy())

	text := color.Color(color.Black)
	switch {
	case c.IsDead(h):
		dc.SetColor(color.White)
		text = faded
	case e.Color == heap.Black:
		dc.SetColor(color.Black)
		text = color.White
	case e.Color == heap.Gray:
		dc.SetColor(grayFill)
	default:
		dc.SetColor(color.White)
	}
	dc.DrawRoundedRectangle(x, y, w, hgt, 6)
	dc.Fill()

	border := color.Color(color.Black)
	width := 2.0
	if e.Fixed {
		width = 5
	}
	if e.Rooted {
		border = highlight
	}
	if c.IsDead(h) {
		border = faded
	}
	dc.SetColor(border)
	dc.SetLineWidth(width)
	if e.PendingDestroy {
		dc.SetDash(4)
	} else {
		dc.SetDash()
	}
	dc.DrawRoundedRectangle(x, y, w, hgt, 6)
	dc.Stroke()
	dc.SetDash()

	dc.SetColor(text)
	dc.DrawStringAnchored(label, x+w/2, y+hgt/2, 0.5, 0.5)
	dc.DrawStringAnchored(e.Color.String(), x+w/2, y+hgt+4, 0.5, 1)
}

func center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}
