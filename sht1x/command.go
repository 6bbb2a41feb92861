// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht1x

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Command is a command byte understood by the sensor.
type Command byte

const (
	CmdNoOp        Command = 0x00
	CmdTemperature Command = 0x03
	CmdHumidity    Command = 0x05
	CmdWriteStatus Command = 0x06
	CmdReadStatus  Command = 0x07
	CmdSoftReset   Command = 0x1e
)

var commandNames = map[Command]string{
	CmdNoOp:        "NoOp",
	CmdTemperature: "Temperature",
	CmdHumidity:    "Humidity",
	CmdWriteStatus: "WriteStatusRegister",
	CmdReadStatus:  "ReadStatusRegister",
	CmdSoftReset:   "SoftReset",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(0x%02x)", byte(c))
}

const (
	// Conversion takes 20ms at 8 bits, 80ms at 12 bits and 320ms at 14 bits.
	pollInterval = 10 * time.Millisecond
	pollAttempts = 35

	softResetDelay = 15 * time.Millisecond
)

// sendCommand makes cmd the active command and transmits it. When
// measurement is set, it also waits for the conversion to complete.
func (d *Dev) sendCommand(cmd Command, measurement bool) error {
	if _, ok := commandNames[cmd]; !ok {
		lg.Errorf("Can not send command 0x%02x: not recognized", byte(cmd))
		return fmt.Errorf("%w: 0x%02x", ErrCommandNotRecognized, byte(cmd))
	}
	d.command = cmd

	d.w.transmissionStart()
	d.w.sendByte(byte(cmd))
	d.w.getAck(cmd)
	if err := d.w.result(); err != nil {
		return err
	}
	lg.Debugf("Command %s [0b%08b] acknowledged", cmd, byte(cmd))
	if !measurement {
		return nil
	}

	// The sensor releases DATA while converting.
	state := d.w.read(d.data)
	if err := d.w.result(); err != nil {
		return err
	}
	if state == gpio.Low {
		return fmt.Errorf("%w: DATA line is low after %s", ErrMeasurementNotStarted, cmd)
	}
	lg.Debug("Sensor is taking measurement")
	return d.waitForResult()
}

// waitForResult polls DATA until the sensor pulls it low.
func (d *Dev) waitForResult() error {
	d.w.setup(d.data, gpio.IN)
	if err := d.w.result(); err != nil {
		return err
	}
	for attempt := 1; attempt <= pollAttempts; attempt++ {
		d.sleep(pollInterval)
		ready := d.w.read(d.data)
		if err := d.w.result(); err != nil {
			return err
		}
		if ready == gpio.Low {
			lg.Debugf("Measurement complete after %d polls", attempt)
			return nil
		}
	}
	err := &TimeoutError{Command: d.command, Attempts: pollAttempts}
	lg.Error(err)
	return err
}

// readMeasurement reads the 16 bit result of the active command.
func (d *Dev) readMeasurement() (uint16, error) {
	msb := d.w.getByte()
	d.w.sendAck()
	lsb := d.w.getByte()
	if err := d.w.result(); err != nil {
		return 0, err
	}
	lg.Debugf("Measurement MSB 0b%08b LSB 0b%08b", msb, lsb)

	if d.opts.CRCCheck {
		if err := d.validateCRC(d.status, msb, lsb); err != nil {
			return 0, err
		}
	} else {
		d.w.transmissionEnd()
		if err := d.w.result(); err != nil {
			return 0, err
		}
	}
	return uint16(msb)<<8 | uint16(lsb), nil
}

// measure runs a complete measurement cycle for cmd.
func (d *Dev) measure(cmd Command) (uint16, error) {
	if err := d.sendCommand(cmd, true); err != nil {
		return 0, err
	}
	return d.readMeasurement()
}

// softReset resets the sensor, which clears its status register, then
// writes back the configured status register.
func (d *Dev) softReset() error {
	if err := d.sendCommand(CmdSoftReset, false); err != nil {
		return err
	}
	d.sleep(softResetDelay)
	d.status = 0
	lg.Info("Sensor has been soft reset")
	if mask := statusMask(&d.opts); mask != d.status {
		return d.writeStatusRegister(mask)
	}
	return nil
}
