// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht1x

import "fmt"

// StatusRegister is the sensor's 8 bit configuration register.
type StatusRegister byte

const (
	// StatusLowResolution selects 12 bit temperature / 8 bit humidity.
	StatusLowResolution StatusRegister = 1 << 0
	// StatusOTPNoReload skips reloading calibration data before each
	// measurement.
	StatusOTPNoReload StatusRegister = 1 << 1
	// StatusHeater switches the on-chip heater on.
	StatusHeater StatusRegister = 1 << 2
	// StatusLowBattery is read-only; set when VDD drops below 2.47V.
	StatusLowBattery StatusRegister = 1 << 6

	statusWritable = StatusLowResolution | StatusOTPNoReload | StatusHeater
)

func (s StatusRegister) LowResolution() bool { return s&StatusLowResolution != 0 }
func (s StatusRegister) OTPNoReload() bool   { return s&StatusOTPNoReload != 0 }
func (s StatusRegister) Heater() bool        { return s&StatusHeater != 0 }
func (s StatusRegister) LowBattery() bool    { return s&StatusLowBattery != 0 }

// resolution is the bit depth the sensor converts at. Conversions use it
// rather than Opts so they keep matching the sensor when a status write
// fails.
func (s StatusRegister) resolution() Resolution {
	if s.LowResolution() {
		return Low
	}
	return High
}

func (s StatusRegister) String() string {
	return fmt.Sprintf("0b%08b", byte(s))
}

// statusMask builds the register value for o.
func statusMask(o *Opts) StatusRegister {
	var mask StatusRegister
	if o.Heater {
		mask |= StatusHeater
	}
	if o.OTPNoReload {
		mask |= StatusOTPNoReload
	}
	if o.Resolution == Low {
		mask |= StatusLowResolution
	}
	return mask
}

// writeStatusRegister writes the writable bits of mask. Read-only bits are
// never sent.
func (d *Dev) writeStatusRegister(mask StatusRegister) error {
	mask &= statusWritable
	if err := d.sendCommand(CmdWriteStatus, false); err != nil {
		return err
	}
	lg.Debugf("Writing status register %s", mask)
	d.w.sendByte(byte(mask))
	d.w.getAck(CmdWriteStatus)
	if err := d.w.result(); err != nil {
		return err
	}
	d.status = mask
	return nil
}

func (d *Dev) readStatusRegister() (StatusRegister, error) {
	if err := d.sendCommand(CmdReadStatus, false); err != nil {
		return 0, err
	}
	b := d.w.getByte()
	if err := d.w.result(); err != nil {
		return 0, err
	}
	status := StatusRegister(b)
	if d.opts.CRCCheck {
		// The sensor seeds this CRC with the register it just sent.
		if err := d.validateCRC(status, b); err != nil {
			return 0, err
		}
	} else {
		d.w.transmissionEnd()
		if err := d.w.result(); err != nil {
			return 0, err
		}
	}
	d.status = status
	lg.Debugf("Read status register %s", status)
	return status, nil
}

// initializeSensor resets the serial interface and writes the status
// register derived from the options.
func (d *Dev) initializeSensor() error {
	d.w.resetConnection()
	if err := d.w.result(); err != nil {
		return err
	}
	mask := statusMask(&d.opts)
	lg.Infof("Initializing sensor using bit mask %s", mask)
	return d.writeStatusRegister(mask)
}
