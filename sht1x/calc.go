// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht1x

import (
	"math"
	"strings"
)

// Voltage is the supply voltage of the sensor. The temperature offset
// depends on it.
type Voltage uint8

const (
	VDD5V Voltage = iota + 1
	VDD4V
	VDD3_5V
	VDD3V
	VDD2_5V
)

var voltageNames = map[Voltage]string{
	VDD5V:   "5V",
	VDD4V:   "4V",
	VDD3_5V: "3.5V",
	VDD3V:   "3V",
	VDD2_5V: "2.5V",
}

var voltageVolts = map[Voltage]float64{
	VDD5V:   5,
	VDD4V:   4,
	VDD3_5V: 3.5,
	VDD3V:   3,
	VDD2_5V: 2.5,
}

// ParseVoltage converts a label such as "3.5V" into a Voltage. Unknown
// labels return VDD3_5V.
func ParseVoltage(label string) Voltage {
	label = strings.TrimSpace(label)
	for v, name := range voltageNames {
		if strings.EqualFold(name, label) {
			return v
		}
	}
	return VDD3_5V
}

func (v Voltage) valid() bool {
	_, ok := voltageVolts[v]
	return ok
}

func (v Voltage) orDefault() Voltage {
	if v.valid() {
		return v
	}
	return VDD3_5V
}

// Volts returns the supply voltage in volts.
func (v Voltage) Volts() float64 {
	return voltageVolts[v.orDefault()]
}

func (v Voltage) String() string {
	if name, ok := voltageNames[v]; ok {
		return name
	}
	return "Voltage(invalid)"
}

// Resolution selects the measurement bit depth.
type Resolution uint8

const (
	// High measures temperature with 14 bits and humidity with 12 bits.
	High Resolution = iota
	// Low measures temperature with 12 bits and humidity with 8 bits.
	Low
)

// resolutionBits holds the temperature and humidity bit depths as a pair so
// they always change together.
var resolutionBits = map[Resolution][2]int{
	High: {14, 12},
	Low:  {12, 8},
}

// ParseResolution converts "high" or "low" into a Resolution. Unknown labels
// return High.
func ParseResolution(label string) Resolution {
	if strings.EqualFold(strings.TrimSpace(label), "low") {
		return Low
	}
	return High
}

func (r Resolution) valid() bool {
	_, ok := resolutionBits[r]
	return ok
}

func (r Resolution) orDefault() Resolution {
	if r.valid() {
		return r
	}
	return High
}

// TemperatureBits returns the temperature bit depth.
func (r Resolution) TemperatureBits() int {
	return resolutionBits[r.orDefault()][0]
}

// HumidityBits returns the humidity bit depth.
func (r Resolution) HumidityBits() int {
	return resolutionBits[r.orDefault()][1]
}

func (r Resolution) String() string {
	if r.orDefault() == Low {
		return "Low"
	}
	return "High"
}

// Conversion coefficients from the datasheet.
var (
	// Temperature offset by supply voltage.
	d1Celsius = map[Voltage]float64{
		VDD5V: -40.1, VDD4V: -39.8, VDD3_5V: -39.7, VDD3V: -39.6, VDD2_5V: -39.4,
	}
	d1Fahrenheit = map[Voltage]float64{
		VDD5V: -40.2, VDD4V: -39.6, VDD3_5V: -39.5, VDD3V: -39.3, VDD2_5V: -38.9,
	}

	// Temperature scale by temperature bit depth.
	d2Celsius    = map[int]float64{14: 0.01, 12: 0.04}
	d2Fahrenheit = map[int]float64{14: 0.018, 12: 0.072}

	// Humidity linearization by humidity bit depth.
	c1 = map[int]float64{12: -2.0468, 8: -2.0468}
	c2 = map[int]float64{12: 0.0367, 8: 0.5872}
	c3 = map[int]float64{12: -1.5955e-6, 8: -4.0845e-4}

	// Humidity temperature compensation by humidity bit depth.
	t1 = map[int]float64{12: 0.01, 8: 0.01}
	t2 = map[int]float64{12: 0.00008, 8: 0.00128}
)

// Dew point constants above and at or below 0°C.
const (
	tnWater = 243.12
	mWater  = 17.62
	tnIce   = 272.62
	mIce    = 22.46
)

// TemperatureC converts a raw temperature count to °C.
func TemperatureC(raw uint16, vdd Voltage, res Resolution) float64 {
	return round(float64(raw)*d2Celsius[res.TemperatureBits()]+d1Celsius[vdd.orDefault()], 2)
}

// TemperatureF converts a raw temperature count to °F.
func TemperatureF(raw uint16, vdd Voltage, res Resolution) float64 {
	return round(float64(raw)*d2Fahrenheit[res.TemperatureBits()]+d1Fahrenheit[vdd.orDefault()], 2)
}

// Humidity converts a raw humidity count to %RH, compensated for tempC.
func Humidity(raw uint16, tempC float64, res Resolution) float64 {
	bits := res.HumidityBits()
	r := float64(raw)
	linear := c1[bits] + c2[bits]*r + c3[bits]*r*r
	return round((tempC-25)*(t1[bits]+t2[bits]*r)+linear, 2)
}

// DewPoint returns the dew point in °C for tempC and humidity in %RH.
func DewPoint(tempC, humidity float64) float64 {
	tn, m := tnWater, mWater
	if tempC <= 0 {
		tn, m = tnIce, mIce
	}
	lnH := math.Log(humidity / 100)
	ew := m * tempC / (tn + tempC)
	return round(tn*(lnH+ew)/m-(lnH+ew), 2)
}

func round(value float64, places int) float64 {
	shift := math.Pow10(places)
	return math.Round(value*shift) / shift
}
