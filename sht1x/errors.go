// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sht1x

import (
	"errors"
	"fmt"
)

var (
	// ErrCommandNotRecognized is returned when a command outside the SHT1x
	// command set is about to be sent.
	ErrCommandNotRecognized = errors.New("sht1x: command not recognized")
	// ErrAckRejected is returned when the sensor leaves DATA high where an
	// acknowledge was expected.
	ErrAckRejected = errors.New("sht1x: sensor rejected transfer")
	// ErrMeasurementNotStarted is returned when the sensor did not enter the
	// measurement state after a measurement command. The sensor releases
	// DATA (HIGH) while it converts, so DATA still LOW once the acknowledge
	// clock ends is the failure; a HIGH sample is the normal busy state.
	ErrMeasurementNotStarted = errors.New("sht1x: measurement not started")
	// ErrMeasurementTimeout is returned when data ready was not signalled
	// within the polling window.
	ErrMeasurementTimeout = errors.New("sht1x: measurement timeout")
	// ErrCRCMismatch is returned when the checksum sent by the sensor does
	// not match the locally computed one. The sensor has been soft reset
	// when this is returned; retry the read.
	ErrCRCMismatch = errors.New("sht1x: crc mismatch")
	// ErrUnsupportedPinMode is returned by pin layers for modes other than
	// gpio.IN and gpio.OUT.
	ErrUnsupportedPinMode = errors.New("sht1x: unsupported pin mode")
	// ErrHalted is returned when the device is used after Halt.
	ErrHalted = errors.New("sht1x: device halted")
)

// AckError reports the command during which the sensor did not acknowledge.
type AckError struct {
	Command Command
}

func (e *AckError) Error() string {
	return fmt.Sprintf("sht1x: sensor failed to acknowledge %s", e.Command)
}

func (e *AckError) Is(target error) bool {
	return target == ErrAckRejected
}

// TimeoutError reports a measurement that never signalled data ready.
type TimeoutError struct {
	Command  Command
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("sht1x: %s measurement not completed after %d polls", e.Command, e.Attempts)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrMeasurementTimeout
}

// CRCError carries the checksum received from the sensor and the one
// computed by the driver.
type CRCError struct {
	Command    Command
	Received   byte
	Calculated byte
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("sht1x: crc error on %s, sensor has been reset: received 0b%08b, calculated 0b%08b",
		e.Command, e.Received, e.Calculated)
}

func (e *CRCError) Is(target error) bool {
	return target == ErrCRCMismatch
}
