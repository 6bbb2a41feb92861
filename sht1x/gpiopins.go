// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht1x

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// GPIOPins implements Pins on top of periph gpio.PinIO pins, identified by
// their Number().
type GPIOPins struct {
	mu    sync.Mutex
	order []int
	pins  map[int]gpio.PinIO
	level map[int]gpio.Level
}

// NewGPIOPins returns a Pins for the given pins. The DATA line needs a
// pull-up, either external or the one enabled by Setup(gpio.IN).
func NewGPIOPins(pins ...gpio.PinIO) (*GPIOPins, error) {
	g := &GPIOPins{
		pins:  make(map[int]gpio.PinIO, len(pins)),
		level: make(map[int]gpio.Level, len(pins)),
	}
	for _, p := range pins {
		if p == nil {
			return nil, errors.New("sht1x: invalid pin")
		}
		n := p.Number()
		if _, ok := g.pins[n]; ok {
			return nil, fmt.Errorf("sht1x: pin %d given twice", n)
		}
		g.order = append(g.order, n)
		g.pins[n] = p
		g.level[n] = gpio.Low
	}
	return g, nil
}

func (g *GPIOPins) get(n int) (gpio.PinIO, error) {
	p, ok := g.pins[n]
	if !ok {
		return nil, fmt.Errorf("sht1x: unknown pin %d", n)
	}
	return p, nil
}

// Setup switches pin n to input or output. An output keeps the level it
// was last driven to, so switching modes never clocks the bus.
func (g *GPIOPins) Setup(n int, f pin.Func) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.get(n)
	if err != nil {
		return err
	}
	switch f {
	case gpio.IN:
		return p.In(gpio.PullUp, gpio.NoEdge)
	case gpio.OUT:
		return p.Out(g.level[n])
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedPinMode, f)
	}
}

func (g *GPIOPins) Output(n int, l gpio.Level) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.get(n)
	if err != nil {
		return err
	}
	if err := p.Out(l); err != nil {
		return err
	}
	g.level[n] = l
	return nil
}

func (g *GPIOPins) Input(n int) (gpio.Level, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.get(n)
	if err != nil {
		return gpio.Low, err
	}
	return p.Read(), nil
}

// Cleanup releases every line to input and halts the pins.
func (g *GPIOPins) Cleanup() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	var err error
	for _, n := range g.order {
		p := g.pins[n]
		multierr.AppendInto(&err, p.In(gpio.PullNoChange, gpio.NoEdge))
		multierr.AppendInto(&err, p.Halt())
	}
	return err
}

var _ Pins = &GPIOPins{}
