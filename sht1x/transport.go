// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht1x

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// resetClocks is the number of clock pulses with DATA high that resets the
// sensor's serial interface.
const resetClocks = 9

// wire drives the two-wire bus. The first pin error is latched and every
// following operation is skipped until result is called.
type wire struct {
	pins  Pins
	data  int
	clock int
	dwell Dwell
	err   error
}

// result returns the latched error and clears it.
func (w *wire) result() error {
	err := w.err
	w.err = nil
	return err
}

func (w *wire) setup(p int, f pin.Func) {
	if w.err != nil {
		return
	}
	if err := w.pins.Setup(p, f); err != nil {
		w.err = fmt.Errorf("sht1x: setting pin %d to %s: %w", p, f, err)
	}
}

// toggle drives p to l. Clock transitions are held for one dwell.
func (w *wire) toggle(p int, l gpio.Level) {
	if w.err != nil {
		return
	}
	if err := w.pins.Output(p, l); err != nil {
		w.err = fmt.Errorf("sht1x: writing pin %d: %w", p, err)
		return
	}
	if p == w.clock {
		w.dwell()
	}
}

// read samples p. It returns gpio.High, the idle level of the bus, when an
// error is latched.
func (w *wire) read(p int) gpio.Level {
	if w.err != nil {
		return gpio.High
	}
	l, err := w.pins.Input(p)
	if err != nil {
		w.err = fmt.Errorf("sht1x: reading pin %d: %w", p, err)
		return gpio.High
	}
	return l
}

func (w *wire) outputs() {
	w.setup(w.data, gpio.OUT)
	w.setup(w.clock, gpio.OUT)
}

func (w *wire) pulse() {
	w.toggle(w.clock, gpio.High)
	w.toggle(w.clock, gpio.Low)
}

// transmissionStart sends the start sequence: DATA falls while SCK is high,
// SCK pulses low then high, and DATA rises again while SCK is high.
func (w *wire) transmissionStart() {
	w.outputs()

	w.toggle(w.data, gpio.High)
	w.toggle(w.clock, gpio.High)

	w.toggle(w.data, gpio.Low)
	w.toggle(w.clock, gpio.Low)

	w.toggle(w.clock, gpio.High)
	w.toggle(w.data, gpio.High)

	w.toggle(w.clock, gpio.Low)
}

func (w *wire) transmissionEnd() {
	w.outputs()

	w.toggle(w.data, gpio.High)
	w.pulse()
}

// sendByte shifts b out most significant bit first.
func (w *wire) sendByte(b byte) {
	w.outputs()

	for i := range 8 {
		w.toggle(w.data, b&(0x80>>i) != 0)
		w.pulse()
	}
}

// getByte shifts a byte in most significant bit first.
func (w *wire) getByte() byte {
	w.setup(w.data, gpio.IN)
	w.setup(w.clock, gpio.OUT)

	var b byte
	for i := range 8 {
		w.toggle(w.clock, gpio.High)
		if w.read(w.data) == gpio.High {
			b |= 0x80 >> i
		}
		w.toggle(w.clock, gpio.Low)
	}
	return b
}

// getAck clocks the acknowledge bit of a transfer for cmd. The sensor pulls
// DATA low to acknowledge.
func (w *wire) getAck(cmd Command) {
	w.setup(w.data, gpio.IN)
	w.setup(w.clock, gpio.OUT)

	w.toggle(w.clock, gpio.High)
	ack := w.read(w.data)
	w.toggle(w.clock, gpio.Low)
	if w.err == nil && ack == gpio.High {
		w.err = &AckError{Command: cmd}
	}
}

// sendAck acknowledges a byte received from the sensor.
func (w *wire) sendAck() {
	w.outputs()

	w.toggle(w.data, gpio.High)
	w.toggle(w.data, gpio.Low)

	w.pulse()
}

// resetConnection brings the sensor's serial interface to a known state.
// The status register keeps its content.
func (w *wire) resetConnection() {
	w.outputs()

	w.toggle(w.data, gpio.High)
	for range resetClocks {
		w.pulse()
	}
}
