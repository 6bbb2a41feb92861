// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package readout presents sht1x readings on a console, on any periph
// display.Drawer or in a PNG file.
package readout

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/sht1x/sht1x"
)

var (
	fontOnce sync.Once
	goFont   *truetype.Font
	fontErr  error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		goFont, fontErr = truetype.Parse(goregular.TTF)
	})
	return goFont, fontErr
}

func render(r sht1x.Reading, w, h int) (*gg.Context, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New("readout: invalid size")
	}
	f, err := loadFont()
	if err != nil {
		return nil, err
	}
	lines := Lines(r)
	lh := float64(h) / float64(len(lines))

	dc := gg.NewContext(w, h)
	dc.SetColor(color.Black)
	dc.Clear()
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: lh * 0.75}))
	dc.SetColor(color.White)
	for i, l := range lines {
		dc.DrawStringAnchored(l, 0, lh*(float64(i)+0.5), 0, 0.5)
	}
	return dc, nil
}

// Render draws r as white text on black, one quantity per line.
func Render(r sht1x.Reading, w, h int) (image.Image, error) {
	dc, err := render(r, w, h)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Draw renders r over the whole of dst.
func Draw(dst display.Drawer, r sht1x.Reading) error {
	b := dst.Bounds()
	img, err := Render(r, b.Dx(), b.Dy())
	if err != nil {
		return err
	}
	return dst.Draw(b, img, image.Point{})
}

// SavePNG renders r into a w by h PNG file at path.
func SavePNG(path string, r sht1x.Reading, w, h int) error {
	dc, err := render(r, w, h)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}
