// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht1x

import (
	"go.uber.org/multierr"

	"github.com/GermanBionicSystems/sht1x/common"
)

// crcSeed returns the running CRC once the command byte has been fed. The
// initial value is the status register bit reversed and masked with 0xf0:
// the register's low nibble, reversed, becomes the seed's high nibble and
// the seed's low nibble is zero.
func crcSeed(status StatusRegister, cmd Command) byte {
	return common.UpdateCRC8(common.ReverseBits(byte(status))&0xf0, byte(cmd))
}

// validateCRC reads the CRC that follows data and ends the transmission. On
// mismatch the sensor is soft reset before the error is returned.
func (d *Dev) validateCRC(status StatusRegister, data ...byte) error {
	d.w.sendAck()
	received := d.w.getByte()
	d.w.transmissionEnd()
	if err := d.w.result(); err != nil {
		return err
	}

	running := common.UpdateCRC8(crcSeed(status, d.command), data...)
	lg.Debugf("CRC from sensor 0b%08b, running value 0b%08b", received, running)
	if common.ReverseBits(received) == running {
		return nil
	}

	crcErr := &CRCError{Command: d.command, Received: received, Calculated: common.ReverseBits(running)}
	lg.Error(crcErr)
	return multierr.Append(crcErr, d.softReset())
}
