// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht1x

import (
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// Pins is the pin access capability the driver borrows for its lifetime.
//
// Pins are identified by number. Setup accepts gpio.IN and gpio.OUT and
// returns ErrUnsupportedPinMode for anything else. Cleanup is called once,
// from Dev.Halt.
type Pins interface {
	Setup(pin int, f pin.Func) error
	Output(pin int, l gpio.Level) error
	Input(pin int) (gpio.Level, error)
	Cleanup() error
}

// Dwell holds the clock line at its current level for at least the
// sensor's minimum clock pulse width. It is called after every clock
// transition.
type Dwell func()

// SpinDwell busy-waits for 100ns, then sleeps for 1ms so the rest of the
// process is not starved while the bus is clocked.
func SpinDwell() {
	start := time.Now()
	for time.Since(start) < 100*time.Nanosecond {
	}
	time.Sleep(time.Millisecond)
}

// NoDwell returns immediately. Use it with simulated pins.
func NoDwell() {}
