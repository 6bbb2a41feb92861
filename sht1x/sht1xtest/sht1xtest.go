// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sht1xtest is meant to be used to test the sht1x driver against a
// simulated sensor.
package sht1xtest

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"

	"github.com/GermanBionicSystems/sht1x/common"
	"github.com/GermanBionicSystems/sht1x/sht1x"
)

type state int

const (
	stIdle state = iota
	// DATA fell while SCK was high.
	stStart1
	// SCK rose again after stStart1; DATA rising completes the start.
	stStart2
	stReceive
	stAck
	stMeasuring
	stTransmit
)

// Sensor implements sht1x.Pins and behaves like a SHT1x wired to the Data
// and Clock pins.
//
// Modify its members to simulate sensor behavior. Grab the Mutex before
// accessing members while the driver is running.
type Sensor struct {
	// These should be immutable.
	Data  int
	Clock int

	sync.Mutex
	// Raw results of temperature and humidity measurements.
	Temperature uint16
	Humidity    uint16
	// Status is the sensor's status register. Writes only change bits 0..2.
	Status byte
	// BusyPolls is the number of data ready polls answered high before the
	// measurement completes.
	BusyPolls int
	// NeverReady keeps DATA high for every poll.
	NeverReady bool
	// NotMeasuring holds DATA low right after a measurement command.
	NotMeasuring bool
	// Reject lists commands the sensor does not acknowledge.
	Reject []sht1x.Command
	// CorruptCRC inverts every CRC the sensor sends.
	CorruptCRC bool

	// Commands lists every command byte received, in order, including the
	// rejected ones.
	Commands []sht1x.Command
	// Written lists every byte written to the status register.
	Written []byte
	// Polls is the number of data ready polls of the last measurement.
	Polls int
	// Resets counts serial interface resets.
	Resets int
	// Cleanups counts Cleanup calls.
	Cleanups int
	// Modes holds the last function each pin was set up as.
	Modes map[int]pin.Func

	clk        gpio.Level
	hostData   gpio.Level
	st         state
	bits       int
	shift      byte
	payload    bool
	reject     bool
	tx         []byte
	acked      bool
	highClocks int
	reads      int
	busyLeft   int
	ready      bool
}

// Setup implements sht1x.Pins.
func (s *Sensor) Setup(p int, f pin.Func) error {
	s.Lock()
	defer s.Unlock()
	if err := s.check(p); err != nil {
		return err
	}
	if f != gpio.IN && f != gpio.OUT {
		return fmt.Errorf("%w: %s", sht1x.ErrUnsupportedPinMode, f)
	}
	if s.Modes == nil {
		s.Modes = map[int]pin.Func{}
	}
	s.Modes[p] = f
	return nil
}

// Output implements sht1x.Pins.
func (s *Sensor) Output(p int, l gpio.Level) error {
	s.Lock()
	defer s.Unlock()
	if err := s.check(p); err != nil {
		return err
	}
	if s.Modes[p] != gpio.OUT {
		return fmt.Errorf("sht1xtest: pin %d is not an output", p)
	}
	if p == s.Clock {
		if l != s.clk {
			s.clk = l
			if l {
				s.rising()
			} else {
				s.falling()
			}
		}
		return nil
	}
	prev := s.hostData
	s.hostData = l
	if s.clk == gpio.High {
		switch {
		case prev == gpio.High && l == gpio.Low:
			s.st = stStart1
		case prev == gpio.Low && l == gpio.High && s.st == stStart2:
			s.st = stReceive
			s.bits = 0
			s.shift = 0
			s.payload = false
		}
	}
	return nil
}

// Input implements sht1x.Pins.
func (s *Sensor) Input(p int) (gpio.Level, error) {
	s.Lock()
	defer s.Unlock()
	if err := s.check(p); err != nil {
		return gpio.Low, err
	}
	if p == s.Clock {
		return s.clk, nil
	}
	if s.Modes[p] == gpio.OUT {
		return s.hostData, nil
	}
	switch s.st {
	case stAck:
		return gpio.Level(s.reject), nil
	case stMeasuring:
		return s.measuring(), nil
	case stTransmit:
		if s.bits < 8 {
			return s.tx[0]&(0x80>>s.bits) != 0, nil
		}
	}
	// Released, the pull-up wins.
	return gpio.High, nil
}

// Cleanup implements sht1x.Pins.
func (s *Sensor) Cleanup() error {
	s.Lock()
	defer s.Unlock()
	s.Cleanups++
	return nil
}

func (s *Sensor) String() string {
	return fmt.Sprintf("sht1xtest.Sensor(data=%d, clock=%d)", s.Data, s.Clock)
}

func (s *Sensor) check(p int) error {
	if p != s.Data && p != s.Clock {
		return fmt.Errorf("sht1xtest: unknown pin %d", p)
	}
	return nil
}

// measuring returns the DATA level during a conversion. The first read is
// the driver checking that the conversion started, the following ones are
// data ready polls.
func (s *Sensor) measuring() gpio.Level {
	s.reads++
	if s.reads == 1 {
		return gpio.Level(!s.NotMeasuring)
	}
	s.Polls++
	if s.NeverReady {
		return gpio.High
	}
	if s.busyLeft > 0 {
		s.busyLeft--
		return gpio.High
	}
	s.ready = true
	return gpio.Low
}

func (s *Sensor) rising() {
	// Nine clocks with DATA driven high reset the serial interface.
	if s.Modes[s.Data] == gpio.OUT && s.hostData == gpio.High {
		s.highClocks++
		if s.highClocks >= 9 {
			s.highClocks = 0
			s.Resets++
			s.st = stIdle
			return
		}
	} else {
		s.highClocks = 0
	}

	switch s.st {
	case stStart1:
		s.st = stStart2
	case stReceive:
		if s.bits < 8 {
			s.shift = s.shift<<1 | s.line()
			s.bits++
		}
	case stMeasuring:
		if s.ready {
			s.st = stTransmit
			s.bits = 0
		}
	case stTransmit:
		if s.bits == 8 {
			s.acked = s.Modes[s.Data] == gpio.OUT && s.hostData == gpio.Low
		}
	}
}

func (s *Sensor) falling() {
	switch s.st {
	case stReceive:
		if s.bits == 8 {
			s.reject = !s.payload && s.rejects(sht1x.Command(s.shift))
			s.st = stAck
		}
	case stAck:
		s.dispatch()
	case stTransmit:
		if s.bits < 8 {
			s.bits++
			return
		}
		if s.acked && len(s.tx) > 1 {
			s.tx = s.tx[1:]
			s.bits = 0
			return
		}
		s.tx = nil
		s.st = stIdle
	}
}

// line is the DATA level as seen by the sensor.
func (s *Sensor) line() byte {
	if s.Modes[s.Data] == gpio.OUT && s.hostData == gpio.Low {
		return 0
	}
	return 1
}

func (s *Sensor) rejects(cmd sht1x.Command) bool {
	switch cmd {
	case sht1x.CmdNoOp, sht1x.CmdTemperature, sht1x.CmdHumidity, sht1x.CmdReadStatus,
		sht1x.CmdWriteStatus, sht1x.CmdSoftReset:
	default:
		return true
	}
	for _, r := range s.Reject {
		if r == cmd {
			return true
		}
	}
	return false
}

// dispatch runs once the acknowledge clock of a received byte completes.
func (s *Sensor) dispatch() {
	s.st = stIdle
	if s.payload {
		s.payload = false
		s.Written = append(s.Written, s.shift)
		s.Status = s.Status&^0x07 | s.shift&0x07
		return
	}

	cmd := sht1x.Command(s.shift)
	s.Commands = append(s.Commands, cmd)
	if s.reject {
		s.reject = false
		return
	}
	switch cmd {
	case sht1x.CmdTemperature, sht1x.CmdHumidity:
		raw := s.Temperature
		if cmd == sht1x.CmdHumidity {
			raw = s.Humidity
		}
		msb, lsb := byte(raw>>8), byte(raw)
		s.tx = []byte{msb, lsb, s.crc(cmd, msb, lsb)}
		s.st = stMeasuring
		s.reads = 0
		s.Polls = 0
		s.busyLeft = s.BusyPolls
		s.ready = false
	case sht1x.CmdReadStatus:
		s.tx = []byte{s.Status, s.crc(cmd, s.Status)}
		s.st = stTransmit
		s.bits = 0
	case sht1x.CmdWriteStatus:
		s.st = stReceive
		s.bits = 0
		s.shift = 0
		s.payload = true
	case sht1x.CmdSoftReset:
		s.Status &^= 0x07
	}
}

// crc returns the checksum for data in transmission order.
func (s *Sensor) crc(cmd sht1x.Command, data ...byte) byte {
	running := common.UpdateCRC8(common.ReverseBits(s.Status)&0xf0, byte(cmd))
	running = common.UpdateCRC8(running, data...)
	crc := common.ReverseBits(running)
	if s.CorruptCRC {
		crc = ^crc
	}
	return crc
}

var _ sht1x.Pins = &Sensor{}
