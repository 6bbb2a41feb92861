// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import "testing"

func TestCRC8(t *testing.T) {
	var tests = []struct {
		bytes  []byte
		result byte
	}{
		{bytes: []byte{0xbe, 0xef}, result: 0x92},
		{bytes: []byte{0x01, 0xa4}, result: 0x4d},
		{bytes: []byte{0xab, 0xcd}, result: 0x6f},
	}
	for _, test := range tests {
		res := CRC8(test.bytes)
		if res != test.result {
			t.Errorf("CRC8(%#v)!=0x%x received 0x%x", test.bytes, test.result, res)
		}
	}
}

// bitwiseCRC8 is the shift register form of the polynomial, one byte with a
// zero seed.
func bitwiseCRC8(b byte) byte {
	crc := b
	for range 8 {
		if (crc & 0x80) == 0 {
			crc <<= 1
		} else {
			crc = (crc << 1) ^ 0x31
		}
	}
	return crc
}

func TestCRC8Table(t *testing.T) {
	for i := range 256 {
		if got, want := CRC8Table[i], bitwiseCRC8(byte(i)); got != want {
			t.Errorf("CRC8Table[%d]=0x%02x, want 0x%02x", i, got, want)
		}
	}
}

func TestUpdateCRC8Stateless(t *testing.T) {
	snapshot := CRC8Table
	for i := range 256 {
		first := UpdateCRC8(0, byte(i))
		second := UpdateCRC8(0, byte(i))
		if first != second || first != CRC8Table[i] {
			t.Fatalf("UpdateCRC8(0, %d) not stable: %#x %#x", i, first, second)
		}
	}
	if snapshot != CRC8Table {
		t.Fatal("CRC8Table was modified")
	}
}

func TestUpdateCRC8Chained(t *testing.T) {
	// Feeding bytes one at a time must match feeding them at once.
	running := UpdateCRC8(0x30, 0x05)
	running = UpdateCRC8(running, 0x09)
	running = UpdateCRC8(running, 0x31)
	if all := UpdateCRC8(0x30, 0x05, 0x09, 0x31); all != running {
		t.Fatalf("chained 0x%02x != batch 0x%02x", running, all)
	}
}

func TestReverseBits(t *testing.T) {
	var tests = []struct {
		in, out byte
	}{
		{0x00, 0x00},
		{0x01, 0x80},
		{0x80, 0x01},
		{0x0f, 0xf0},
		{0x07, 0xe0},
		{0xa5, 0xa5},
		{0x1e, 0x78},
	}
	for _, test := range tests {
		if res := ReverseBits(test.in); res != test.out {
			t.Errorf("ReverseBits(0x%02x)=0x%02x, want 0x%02x", test.in, res, test.out)
		}
	}
	for i := range 256 {
		if ReverseBits(ReverseBits(byte(i))) != byte(i) {
			t.Fatalf("ReverseBits is not an involution for %d", i)
		}
	}
}
