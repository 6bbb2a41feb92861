// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package readout

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"periph.io/x/conn/v3/display/displaytest"

	"github.com/GermanBionicSystems/sht1x/sht1x"
)

var full = sht1x.Reading{
	TemperatureC: 20.3,
	TemperatureF: 68.5,
	Humidity:     48.8,
	DewPoint:     8.2,
	Valid:        sht1x.QuantityTemperature | sht1x.QuantityHumidity | sht1x.QuantityDewPoint,
}

func TestLines(t *testing.T) {
	got := Lines(full)
	want := []string{"T 20.30°C 68.50°F", "RH 48.80%", "DP 8.20°C"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	empty := Lines(sht1x.Reading{})
	if strings.Join(empty, " ") != "T -- RH -- DP --" {
		t.Errorf("unexpected lines %q", empty)
	}
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, nil)
	if err := term.Write(full); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasSuffix(out, "T 20.30°C 68.50°F  RH 48.80%  DP 8.20°C\n") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, "\033[") {
		t.Errorf("no color in %q", out)
	}

	buf.Reset()
	if err := term.Write(sht1x.Reading{Humidity: 50, Valid: sht1x.QuantityHumidity}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\033[0m  T --  RH 50.00%  DP --\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestTemperatureColor(t *testing.T) {
	if c := TemperatureColor(-40); c.R != 0 || c.B != 255 {
		t.Errorf("expected blue, got %v", c)
	}
	if c := TemperatureColor(80); c.R != 255 || c.B != 0 {
		t.Errorf("expected red, got %v", c)
	}
	if a, b := TemperatureColor(10), TemperatureColor(20); a.R >= b.R {
		t.Errorf("ramp is not increasing: %v %v", a, b)
	}
}

func lit(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r > 0x8000 {
				n++
			}
		}
	}
	return n
}

func TestRender(t *testing.T) {
	img, err := Render(full, 128, 64)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 64 {
		t.Errorf("unexpected bounds %v", b)
	}
	if lit(img) == 0 {
		t.Error("nothing was drawn")
	}
	if _, err := Render(full, 0, 64); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestDraw(t *testing.T) {
	d := &displaytest.Drawer{Img: image.NewNRGBA(image.Rect(0, 0, 128, 32))}
	if err := Draw(d, full); err != nil {
		t.Fatal(err)
	}
	if lit(d.Img) == 0 {
		t.Error("nothing was drawn")
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reading.png")
	if err := SavePNG(path, full, 160, 90); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 160 || cfg.Height != 90 {
		t.Errorf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
}
