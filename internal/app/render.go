// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/relabs-tech/places_compass/internal/compass"
)

var (
	colorBackground = color.RGBA{0xfa, 0xfa, 0xfa, 0xff}
	colorRing       = color.RGBA{0x30, 0x30, 0x30, 0xff}
	colorFace       = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorNorth      = color.RGBA{0xc6, 0x28, 0x28, 0xff}
	colorTarget     = color.RGBA{0x15, 0x65, 0xc0, 0xff}
	colorText       = color.RGBA{0x20, 0x20, 0x20, 0xff}
)

// RenderCompass draws a compass face of size×size pixels. The rose is
// turned so that N points at true north relative to the device top; the
// needle points at the target, or at north when there is no target.
// A nil bearing renders an empty face with a waiting message.
func RenderCompass(b *compass.Bearing, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fillRect(img, colorBackground)

	cx, cy := float64(size)/2, float64(size)/2
	r := float64(size)/2 - 4

	fillDisk(img, cx, cy, r, colorRing)
	fillDisk(img, cx, cy, r-3, colorFace)

	if b == nil {
		drawCentered(img, "Waiting...", cx, cy)
		return img
	}

	// screen angles are clockwise from the device top
	north := -float64(b.TrueNorthDegrees)
	for i, label := range []string{"N", "E", "S", "W"} {
		theta := (north + float64(i)*90) * math.Pi / 180
		drawCentered(img, label, cx+0.8*r*math.Sin(theta), cy-0.8*r*math.Cos(theta)+4)
	}

	if b.HasTarget() {
		drawNeedle(img, cx, cy, r*0.65, float64(b.LocationDegrees), colorTarget)
		drawCentered(img, compass.FormatDistance(*b.DistanceMeters), cx, cy+r*0.35)
	} else {
		drawNeedle(img, cx, cy, r*0.65, north, colorNorth)
	}
	drawCentered(img, fmt.Sprintf("%03d", b.TrueNorthDegrees), cx, cy-r*0.3)

	return img
}

func fillRect(img *image.RGBA, c color.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}

func fillDisk(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	const segments = 96
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(cx+r), float32(cy))
	for i := 1; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		z.LineTo(float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a)))
	}
	z.ClosePath()
	z.Draw(img, b, image.NewUniform(c), image.Point{})
}

// drawNeedle draws a kite-shaped needle from the centre towards the
// clockwise angle deg.
func drawNeedle(img *image.RGBA, cx, cy, length, deg float64, c color.RGBA) {
	theta := deg * math.Pi / 180
	point := func(radius, a float64) (float32, float32) {
		return float32(cx + radius*math.Sin(a)), float32(cy - radius*math.Cos(a))
	}

	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(point(length, theta))
	z.LineTo(point(length*0.12, theta+math.Pi/2))
	z.LineTo(point(length*0.3, theta+math.Pi))
	z.LineTo(point(length*0.12, theta-math.Pi/2))
	z.ClosePath()
	z.Draw(img, b, image.NewUniform(c), image.Point{})
}

func drawCentered(img *image.RGBA, s string, x, y float64) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colorText),
		Face: basicfont.Face7x13,
	}
	w := drawer.MeasureString(s).Round()
	drawer.Dot = fixed.P(int(x)-w/2, int(y))
	drawer.DrawString(s)
}
