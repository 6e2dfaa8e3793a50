package render

import (
	"image"
	"iter"
	"math"

	"github.com/fogleman/gg"
)

func drawArrow(c *gg.Context, srcX, srcY, dstX, dstY, width float64) {
	dist := math.Hypot(dstX-srcX, dstY-srcY)
	if dist == 0 {
		// Self reference.
		c.SetLineWidth(width)
		c.DrawCircle(srcX, srcY-8*width, 6*width)
		c.Stroke()
		return
	}
	c.SetLineWidth(width)
	c.MoveTo(srcX, srcY)
	c.LineTo(dstX, dstY)
	c.Stroke()

	const alBase = 5
	const th = math.Pi / 8
	al := alBase * width
	vx := (srcX - dstX) / dist * al
	vy := (srcY - dstY) / dist * al
	vx1 := vx*math.Cos(th) - vy*math.Sin(th)
	vy1 := vx*math.Sin(th) + vy*math.Cos(th)
	vx2 := vx*math.Cos(-th) - vy*math.Sin(-th)
	vy2 := vx*math.Sin(-th) + vy*math.Cos(-th)

	c.MoveTo(dstX, dstY)
	c.LineTo(dstX+vx1, dstY+vy1)
	c.LineTo(dstX+vx2, dstY+vy2)
	c.LineTo(dstX, dstY)
	c.Fill()
}

func minDistPtOnRect(src image.Point, rect image.Rectangle, div int) image.Point {
	minDist2 := -1
	dst := center(rect)
	for d := range rectAnchors(rect, div) {
		dx := d.X - src.X
		dy := d.Y - src.Y
		if dist2 := dx*dx + dy*dy; minDist2 < 0 || dist2 < minDist2 {
			minDist2 = dist2
			dst = d
		}
	}
	return dst
}

// rectAnchors yields points every div pixels along the border of rect.
func rectAnchors(rect image.Rectangle, div int) iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		for x := rect.Min.X + div/2; x <= rect.Max.X-div/2; x += div {
			if !yield(image.Pt(x, rect.Min.Y)) || !yield(image.Pt(x, rect.Max.Y)) {
				return
			}
		}
		for y := rect.Min.Y + div/2; y <= rect.Max.Y-div/2; y += div {
			if !yield(image.Pt(rect.Min.X, y)) || !yield(image.Pt(rect.Max.X, y)) {
				return
			}
		}
	}
}
