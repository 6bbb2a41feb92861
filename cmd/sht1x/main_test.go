// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	logger "github.com/d2r2/go-logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/display/displaytest"

	"github.com/GermanBionicSystems/sht1x/readout"
	"github.com/GermanBionicSystems/sht1x/sht1x"
	"github.com/GermanBionicSystems/sht1x/sht1x/sht1xtest"
)

func newDev(t *testing.T, s *sht1xtest.Sensor) *sht1x.Dev {
	t.Helper()
	opts := sht1x.DefaultOpts
	opts.Dwell = sht1x.NoDwell
	dev, err := sht1x.New(s, s.Data, s.Clock, &opts)
	if err != nil {
		t.Fatal(err)
	}
	return dev
}

func TestSample(t *testing.T) {
	s := &sht1xtest.Sensor{Data: 4, Clock: 17, Temperature: 6000, Humidity: 1500}
	dev := newDev(t, s)
	m := newMetrics("test")
	r, err := sample(dev, m)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Has(sht1x.QuantityTemperature | sht1x.QuantityHumidity | sht1x.QuantityDewPoint) {
		t.Errorf("unexpected quantities %b", r.Valid)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"celsius", testutil.ToFloat64(m.temperatureC.WithLabelValues("test")), 20.3},
		{"fahrenheit", testutil.ToFloat64(m.temperatureF.WithLabelValues("test")), 68.5},
		{"humidity", testutil.ToFloat64(m.humidity.WithLabelValues("test")), 48.8},
		{"dew point", testutil.ToFloat64(m.dewPoint.WithLabelValues("test")), 8.2},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
}

func TestSampleError(t *testing.T) {
	s := &sht1xtest.Sensor{Data: 4, Clock: 17, Temperature: 6000, Humidity: 1500}
	dev := newDev(t, s)
	m := newMetrics("test")
	if _, err := sample(dev, m); err != nil {
		t.Fatal(err)
	}

	s.Lock()
	s.CorruptCRC = true
	s.Unlock()
	r, err := sample(dev, m)
	if !errors.Is(err, sht1x.ErrCRCMismatch) {
		t.Fatalf("expected ErrCRCMismatch, got %v", err)
	}
	if r.Valid != 0 {
		t.Errorf("stale quantities reported: %b", r.Valid)
	}
	if got := testutil.ToFloat64(m.readErrors.WithLabelValues("test", "crc")); got != 1 {
		t.Errorf("expected 1 crc error, got %v", got)
	}
	// The last good values stay exported.
	if got := testutil.ToFloat64(m.temperatureC.WithLabelValues("test")); got != 20.3 {
		t.Errorf("expected 20.3, got %v", got)
	}
}

func TestErrorKind(t *testing.T) {
	tests := map[string]error{
		"crc":         &sht1x.CRCError{},
		"timeout":     fmt.Errorf("humidity: %w", &sht1x.TimeoutError{}),
		"not_started": sht1x.ErrMeasurementNotStarted,
		"ack":         &sht1x.AckError{},
		"halted":      sht1x.ErrHalted,
		"other":       io.EOF,
	}
	for want, err := range tests {
		if got := errorKind(err); got != want {
			t.Errorf("errorKind(%v) = %q, expected %q", err, got, want)
		}
	}
}

func TestMetricsHandler(t *testing.T) {
	m := newMetrics("test")
	m.observe(sht1x.Reading{TemperatureC: 21.5, TemperatureF: 70.7, Valid: sht1x.QuantityTemperature})
	m.countError(sht1x.ErrHalted)
	rec := httptest.NewRecorder()
	m.handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, sub := range []string{
		`sht1x_temperature_celsius{place="test"} 21.5`,
		`sht1x_read_errors_total{kind="halted",place="test"} 1`,
	} {
		if !strings.Contains(body, sub) {
			t.Errorf("%q not in:\n%s", sub, body)
		}
	}
	if strings.Contains(body, "sht1x_relative_humidity_percent{") {
		t.Error("humidity exported without a reading")
	}
}

func TestOutputs(t *testing.T) {
	var buf bytes.Buffer
	screen := &displaytest.Drawer{Img: image.NewNRGBA(image.Rect(0, 0, 128, 64))}
	sink := readout.NewSink(64, 32)
	o := &outputs{term: readout.NewTerminal(&buf, nil), screens: []display.Drawer{screen, sink}}
	r := sht1x.Reading{Humidity: 40, Valid: sht1x.QuantityHumidity}
	if err := o.show(r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "RH 40.00%") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestInitLogger(t *testing.T) {
	var buf bytes.Buffer
	l := initLogger(&buf, "warn")
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected log %q", buf.String())
	}
	levels := map[string]logger.LogLevel{
		"debug": logger.DebugLevel,
		"INFO":  logger.InfoLevel,
		"Warn":  logger.WarnLevel,
		"error": logger.ErrorLevel,
		"":      logger.InfoLevel,
	}
	for in, want := range levels {
		if got := driverLevel(in); got != want {
			t.Errorf("driverLevel(%q) = %v, expected %v", in, got, want)
		}
	}
}

func TestRunFailure(t *testing.T) {
	defer func(old string) { *dataName = old }(*dataName)
	*dataName = "NO_SUCH_PIN"
	var buf bytes.Buffer
	if code := run(&buf); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "sht1x failed") {
		t.Errorf("failure was not logged: %q", buf.String())
	}
}
