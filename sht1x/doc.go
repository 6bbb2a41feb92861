// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sht1x controls a Sensirion SHT10, SHT11 or SHT15 temperature and
// humidity sensor on two GPIO pins.
//
// The sensor speaks a two-wire protocol that looks like I²C but is not: the
// driver bit-bangs it on a DATA and a SCK pin through the Pins capability.
// NewGPIOPins adapts periph gpio.PinIO pins; sht1xtest.Sensor simulates the
// sensor for tests.
//
// Measurements block for up to 350ms while the sensor converts. A CRC error
// soft resets the sensor before it is returned; the caller retries.
//
// # Datasheet
//
// https://sensirion.com/media/documents/BD45ECB5/61642783/Sensirion_Humidity_Sensors_SHT1x_Datasheet.pdf
//
// # Accuracy
//
// SHT10: ±4.5 %RH, ±0.5 °C
//
// SHT11: ±3.0 %RH, ±0.4 °C
//
// SHT15: ±2.0 %RH, ±0.3 °C
package sht1x
