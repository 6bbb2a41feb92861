// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sht1x is a container for the Sensirion SHT1x driver and its tools.
//
// The driver lives in the sht1x sub-package, cmd/sht1x samples a sensor from
// the command line.
package sht1x
