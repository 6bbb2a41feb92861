// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package readout

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/http"
	"strconv"
	"sync"

	"periph.io/x/conn/v3/display"
)

type pngBufferPool sync.Pool

func (p *pngBufferPool) Get() *png.EncoderBuffer {
	buf, _ := (*sync.Pool)(p).Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngBufferPool) Put(buf *png.EncoderBuffer) {
	(*sync.Pool)(p).Put(buf)
}

// Sink is a display.Drawer that keeps the last image drawn on it and serves
// it over HTTP as a PNG.
type Sink struct {
	mu       sync.Mutex
	buffer   *image.RGBA
	snapshot []byte
	pool     pngBufferPool
	enc      png.Encoder
}

// NewSink returns a black w by h Sink.
func NewSink(w, h int) *Sink {
	buffer := image.NewRGBA(image.Rect(0, 0, w, h))
	// The zero value is fully transparent.
	draw.Draw(buffer, buffer.Bounds(), image.Black, image.Point{}, draw.Src)
	s := &Sink{buffer: buffer}
	s.enc = png.Encoder{CompressionLevel: png.BestSpeed, BufferPool: &s.pool}
	return s
}

func (s *Sink) String() string {
	return "Sink"
}

// Halt implements conn.Resource. It is a noop.
func (s *Sink) Halt() error {
	return nil
}

// ColorModel implements display.Drawer.
func (s *Sink) ColorModel() color.Model {
	return s.buffer.ColorModel()
}

// Bounds implements display.Drawer.
func (s *Sink) Bounds() image.Rectangle {
	return s.buffer.Bounds()
}

// Draw implements display.Drawer.
func (s *Sink) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Draw(s.buffer, dstRect, src, sp, draw.Src)
	s.snapshot = nil
	return nil
}

// encoded returns the buffer as a PNG. It is encoded once per change.
func (s *Sink) encoded() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		var buf bytes.Buffer
		if err := s.enc.Encode(&buf, s.buffer); err != nil {
			return nil, err
		}
		s.snapshot = buf.Bytes()
	}
	return s.snapshot, nil
}

// ServeHTTP answers GET requests with the current image.
func (s *Sink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	b, err := s.encoded()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(b)
}

var _ display.Drawer = &Sink{}
var _ http.Handler = &Sink{}
