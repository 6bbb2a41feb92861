// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht1x

import (
	"time"

	"github.com/GermanBionicSystems/sht1x/common"
)

const (
	PollAttempts = pollAttempts
	PollInterval = pollInterval
	ResetClocks  = resetClocks
)

// SetSleep replaces the sleep used while polling and after a soft reset.
func SetSleep(d *Dev, f func(time.Duration)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sleep = f
}

func SendCommand(d *Dev, cmd Command, measurement bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sendCommand(cmd, measurement)
}

func WriteStatusRegister(d *Dev, mask StatusRegister) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeStatusRegister(mask)
}

func StatusMask(o *Opts) StatusRegister {
	return statusMask(o)
}

// Checksum returns the CRC byte the sensor sends after data for cmd.
func Checksum(status StatusRegister, cmd Command, data ...byte) byte {
	return common.ReverseBits(common.UpdateCRC8(crcSeed(status, cmd), data...))
}

// Wire drives a bare bus, without a sensor handshake.
func Wire(p Pins, data, clock int) *WireDriver {
	return &WireDriver{w: wire{pins: p, data: data, clock: clock, dwell: NoDwell}}
}

type WireDriver struct {
	w wire
}

func (w *WireDriver) TransmissionStart() error {
	w.w.transmissionStart()
	return w.w.result()
}

func (w *WireDriver) TransmissionEnd() error {
	w.w.transmissionEnd()
	return w.w.result()
}

func (w *WireDriver) SendByte(b byte) error {
	w.w.sendByte(b)
	return w.w.result()
}

func (w *WireDriver) GetByte() (byte, error) {
	b := w.w.getByte()
	return b, w.w.result()
}

func (w *WireDriver) GetAck(cmd Command) error {
	w.w.getAck(cmd)
	return w.w.result()
}

func (w *WireDriver) ResetConnection() error {
	w.w.resetConnection()
	return w.w.result()
}
