package stage

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const outlineWidth = 2

// whitePixel is a 1x1 white image scaled and tinted to draw solid rects.
// Created on first Draw so that stages can be used without a graphics
// context.
var whitePixel *ebiten.Image

func solid() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// Draw renders the box tree onto screen in painter order. Boxes carrying
// the highlight class are outlined.
func (s *Stage) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	screen.Fill(s.cfg.Background)
	var op ebiten.DrawImageOptions
	count := s.drawBox(screen, s.root, &op)

	if s.debug {
		s.log.Debug("draw", "boxes", count, "elapsed", time.Since(t0))
	}
}

func (s *Stage) drawBox(screen *ebiten.Image, b *Box, op *ebiten.DrawImageOptions) int {
	if !b.Visible {
		return 0
	}
	count := 0
	if b != s.root {
		p := b.DocPos().Sub(s.scroll)
		fillRect(screen, op, p.X, p.Y, b.Width, b.Height, b.Color)
		if b.HasClass(s.cfg.HighlightClass) {
			strokeRect(screen, op, p.X, p.Y, b.Width, b.Height, color.RGBA{0xff, 0xd2, 0x3f, 0xff})
		}
		for _, l := range b.labels {
			ebitenutil.DebugPrintAt(screen, l.Text, int(p.X+l.X), int(p.Y+l.Y))
		}
		count++
	}
	for _, c := range b.children {
		count += s.drawBox(screen, c, op)
	}
	return count
}

func fillRect(dst *ebiten.Image, op *ebiten.DrawImageOptions, x, y, w, h float64, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	op.GeoM.Reset()
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.Reset()
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(solid(), op)
}

func strokeRect(dst *ebiten.Image, op *ebiten.DrawImageOptions, x, y, w, h float64, c color.RGBA) {
	const t = outlineWidth
	fillRect(dst, op, x, y, w, t, c)
	fillRect(dst, op, x, y+h-t, w, t, c)
	fillRect(dst, op, x, y, t, h, c)
	fillRect(dst, op, x+w-t, y, t, h, c)
}
