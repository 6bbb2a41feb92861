// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package readout

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/GermanBionicSystems/sht1x/sht1x"
)

// Terminal prints readings on a console, one line each, led by a block
// coloured after the temperature.
type Terminal struct {
	w       io.Writer
	palette *ansi256.Palette
	buf     bytes.Buffer
}

// NewTerminal returns a Terminal writing to w. A nil w selects stdout and a
// nil palette selects ansi256.Default.
func NewTerminal(w io.Writer, p *ansi256.Palette) *Terminal {
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	if p == nil {
		p = ansi256.Default
	}
	return &Terminal{w: w, palette: p}
}

// Write prints r. Quantities r does not hold are printed as "--".
func (t *Terminal) Write(r sht1x.Reading) error {
	t.buf.Reset()
	_, _ = t.buf.WriteString("\033[0m")
	if r.Has(sht1x.QuantityTemperature) {
		_, _ = io.WriteString(&t.buf, t.palette.Block(TemperatureColor(r.TemperatureC)))
		_, _ = t.buf.WriteString("\033[0m ")
	} else {
		_, _ = t.buf.WriteString("  ")
	}
	lines := Lines(r)
	_, _ = t.buf.WriteString(lines[0])
	for _, l := range lines[1:] {
		_, _ = t.buf.WriteString("  ")
		_, _ = t.buf.WriteString(l)
	}
	_, _ = t.buf.WriteString("\n")
	_, err := t.buf.WriteTo(t.w)
	return err
}

func (t *Terminal) String() string {
	return "Terminal"
}

// TemperatureColor maps tempC onto a blue to red ramp between -10°C and
// 40°C.
func TemperatureColor(tempC float64) color.NRGBA {
	f := (tempC + 10) / 50
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return color.NRGBA{R: uint8(255 * f), G: uint8(64 * (1 - f)), B: uint8(255 * (1 - f)), A: 255}
}

// Lines formats the quantities of r, one per line.
func Lines(r sht1x.Reading) []string {
	lines := []string{"T --", "RH --", "DP --"}
	if r.Has(sht1x.QuantityTemperature) {
		lines[0] = fmt.Sprintf("T %.2f°C %.2f°F", r.TemperatureC, r.TemperatureF)
	}
	if r.Has(sht1x.QuantityHumidity) {
		lines[1] = fmt.Sprintf("RH %.2f%%", r.Humidity)
	}
	if r.Has(sht1x.QuantityDewPoint) {
		lines[2] = fmt.Sprintf("DP %.2f°C", r.DewPoint)
	}
	return lines
}

var _ fmt.Stringer = &Terminal{}
