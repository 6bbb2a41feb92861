// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht1x

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	logger "github.com/d2r2/go-logger"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

var lg = logger.NewPackageLogger("sht1x", logger.InfoLevel)

// Opts holds the configuration of the sensor.
type Opts struct {
	// Vdd is the supply voltage. Unknown values select VDD3_5V.
	Vdd Voltage
	// Resolution is the measurement bit depth. Unknown values select High.
	Resolution Resolution
	// Heater switches the on-chip heater on.
	Heater bool
	// OTPNoReload skips reloading the calibration data before each
	// measurement.
	OTPNoReload bool
	// CRCCheck validates the checksum sent after each reading.
	CRCCheck bool
	// Dwell holds the clock line after each transition. nil selects
	// SpinDwell.
	Dwell Dwell
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Vdd:        VDD3_5V,
	Resolution: High,
	CRCCheck:   true,
}

func (o *Opts) normalized() Opts {
	n := *o
	if !n.Vdd.valid() {
		lg.Infof("Unknown supply voltage %d, using %s", n.Vdd, VDD3_5V)
		n.Vdd = VDD3_5V
	}
	if !n.Resolution.valid() {
		lg.Infof("Unknown resolution %d, using %s", n.Resolution, High)
		n.Resolution = High
	}
	if n.Dwell == nil {
		n.Dwell = SpinDwell
	}
	return n
}

// Quantity identifies a value of a Reading.
type Quantity uint8

const (
	QuantityTemperature Quantity = 1 << iota
	QuantityHumidity
	QuantityDewPoint
)

// Reading is the last known value of each quantity.
type Reading struct {
	TemperatureC float64
	TemperatureF float64
	Humidity     float64
	DewPoint     float64
	// Valid lists the quantities that hold a value.
	Valid Quantity
}

// Has reports whether q holds a value.
func (r Reading) Has(q Quantity) bool {
	return r.Valid&q == q
}

func (r Reading) String() string {
	var b strings.Builder
	if r.Has(QuantityTemperature) {
		fmt.Fprintf(&b, "Temperature: %.2f°C [%.2f°F]\n", r.TemperatureC, r.TemperatureF)
	}
	if r.Has(QuantityHumidity) {
		fmt.Fprintf(&b, "Relative Humidity: %.2f%%\n", r.Humidity)
	}
	if r.Has(QuantityDewPoint) {
		fmt.Fprintf(&b, "Dew Point: %.2f°C\n", r.DewPoint)
	}
	return b.String()
}

// ReadOption supplies a value instead of reading it from the sensor.
type ReadOption func(*readInputs)

type readInputs struct {
	tempC       float64
	hasTemp     bool
	humidity    float64
	hasHumidity bool
}

// WithTemperature uses c, in °C, instead of the cached or measured
// temperature.
func WithTemperature(c float64) ReadOption {
	return func(in *readInputs) {
		in.tempC = c
		in.hasTemp = true
	}
}

// WithHumidity uses rh, in %RH, instead of the cached or measured humidity.
func WithHumidity(rh float64) ReadOption {
	return func(in *readInputs) {
		in.humidity = rh
		in.hasHumidity = true
	}
}

// Dev is a handle to a SHT1x sensor on two bit-banged pins.
//
// Every method runs a whole transaction while holding the device lock.
type Dev struct {
	mu      sync.Mutex
	pins    Pins
	data    int
	clock   int
	w       wire
	opts    Opts
	command Command
	status  StatusRegister
	last    Reading
	sleep   func(time.Duration)
	halted  bool
}

// New returns a device on the data and clock pins of p. It resets the
// serial interface and writes the status register for opts.
func New(p Pins, data, clock int, opts *Opts) (*Dev, error) {
	if data == clock {
		return nil, errors.New("sht1x: data and clock must be different pins")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{
		pins:    p,
		data:    data,
		clock:   clock,
		opts:    opts.normalized(),
		command: CmdNoOp,
		sleep:   time.Sleep,
	}
	d.w = wire{pins: p, data: data, clock: clock, dwell: d.opts.Dwell}
	if err := d.initializeSensor(); err != nil {
		return nil, fmt.Errorf("sht1x: initialization failed: %w", err)
	}
	lg.Infof("Initial configuration: data pin %d, clock pin %d, vdd %s, resolution %s, heater %t, OTP no reload %t, CRC check %t",
		data, clock, d.opts.Vdd, d.opts.Resolution, d.opts.Heater, d.opts.OTPNoReload, d.opts.CRCCheck)
	return d, nil
}

// Reconfigure applies opts, then resets the serial interface and rewrites
// the status register. nil selects DefaultOpts. Cached readings are kept.
//
// On error the previous options stay in effect.
func (d *Dev) Reconfigure(opts *Opts) error {
	if opts == nil {
		opts = &DefaultOpts
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return ErrHalted
	}
	prev := d.opts
	d.opts = opts.normalized()
	d.w.dwell = d.opts.Dwell
	if err := d.initializeSensor(); err != nil {
		d.opts = prev
		d.w.dwell = prev.Dwell
		return fmt.Errorf("sht1x: reconfiguration failed: %w", err)
	}
	return nil
}

// ReadTemperature measures the temperature and returns it in °C. The
// Fahrenheit value is available from Last.
func (d *Dev) ReadTemperature() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return 0, ErrHalted
	}
	return d.readTemperature()
}

func (d *Dev) readTemperature() (float64, error) {
	raw, err := d.measure(CmdTemperature)
	if err != nil {
		return 0, err
	}
	res := d.status.resolution()
	d.last.TemperatureC = TemperatureC(raw, d.opts.Vdd, res)
	d.last.TemperatureF = TemperatureF(raw, d.opts.Vdd, res)
	d.last.Valid |= QuantityTemperature
	lg.Debugf("Temperature: %.2f°C [%.2f°F]", d.last.TemperatureC, d.last.TemperatureF)
	return d.last.TemperatureC, nil
}

// temperature returns the supplied, cached or freshly measured temperature.
func (d *Dev) temperature(in *readInputs) (float64, error) {
	if in.hasTemp {
		return in.tempC, nil
	}
	if d.last.Has(QuantityTemperature) {
		return d.last.TemperatureC, nil
	}
	return d.readTemperature()
}

// ReadHumidity measures the relative humidity in %RH. The compensation
// temperature comes from WithTemperature, else the last temperature read,
// else a new temperature measurement.
func (d *Dev) ReadHumidity(opts ...ReadOption) (float64, error) {
	in := collect(opts)
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return 0, ErrHalted
	}
	tempC, err := d.temperature(&in)
	if err != nil {
		return 0, err
	}
	return d.readHumidity(tempC)
}

func (d *Dev) readHumidity(tempC float64) (float64, error) {
	raw, err := d.measure(CmdHumidity)
	if err != nil {
		return 0, err
	}
	d.last.Humidity = Humidity(raw, tempC, d.status.resolution())
	d.last.Valid |= QuantityHumidity
	lg.Debugf("Relative Humidity: %.2f%%", d.last.Humidity)
	return d.last.Humidity, nil
}

// CalculateDewPoint returns the dew point in °C. Values not supplied with
// WithTemperature or WithHumidity come from the last readings, or are
// measured when there is none.
func (d *Dev) CalculateDewPoint(opts ...ReadOption) (float64, error) {
	in := collect(opts)
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return 0, ErrHalted
	}
	tempC, err := d.temperature(&in)
	if err != nil {
		return 0, err
	}
	humidity := in.humidity
	if !in.hasHumidity {
		if d.last.Has(QuantityHumidity) {
			humidity = d.last.Humidity
		} else if humidity, err = d.readHumidity(tempC); err != nil {
			return 0, err
		}
	}
	d.last.DewPoint = DewPoint(tempC, humidity)
	d.last.Valid |= QuantityDewPoint
	lg.Debugf("Dew Point: %.2f°C", d.last.DewPoint)
	return d.last.DewPoint, nil
}

func collect(opts []ReadOption) readInputs {
	var in readInputs
	for _, o := range opts {
		o(&in)
	}
	return in
}

// Last returns the cached readings.
func (d *Dev) Last() Reading {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Status returns the last status register value written to or read from
// the sensor.
func (d *Dev) Status() StatusRegister {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// ReadStatus reads the status register from the sensor.
func (d *Dev) ReadStatus() (StatusRegister, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return 0, ErrHalted
	}
	return d.readStatusRegister()
}

// Reset issues a soft reset, then restores the configured status register.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return ErrHalted
	}
	if err := d.softReset(); err != nil {
		return fmt.Errorf("sht1x: error resetting: %w", err)
	}
	return nil
}

// Sense reads temperature and humidity from the device.
// Implements physic.SenseEnv.
func (d *Dev) Sense(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return ErrHalted
	}
	tempC, err := d.readTemperature()
	if err != nil {
		return err
	}
	humidity, err := d.readHumidity(tempC)
	if err != nil {
		return err
	}
	e.Temperature = physic.ZeroCelsius + physic.Temperature(tempC*float64(physic.Celsius))
	e.Humidity = physic.RelativeHumidity(humidity * float64(physic.PercentRH))
	return nil
}

// SenseContinuous is not supported, the driver never samples in the
// background. Implements physic.SenseEnv.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	return nil, errors.New("sht1x: continuous sensing is not supported")
}

// Precision returns the smallest change in readings the device can produce.
// Implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.status.resolution() == Low {
		e.Temperature = 4 * physic.Kelvin / 100
		e.Humidity = 4 * physic.PercentRH / 10
	} else {
		e.Temperature = physic.Kelvin / 100
		e.Humidity = physic.PercentRH / 20
	}
	e.Pressure = 0
}

// Halt releases the pins. Implements conn.Resource.
//
// Calling Halt more than once has no effect.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return nil
	}
	d.halted = true
	if err := d.pins.Cleanup(); err != nil {
		return fmt.Errorf("sht1x: cleanup: %w", err)
	}
	return nil
}

func (d *Dev) String() string {
	return "sht1x"
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
