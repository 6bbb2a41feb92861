// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GermanBionicSystems/sht1x/sht1x"
)

type metrics struct {
	reg   *prometheus.Registry
	place string

	temperatureC *prometheus.GaugeVec
	temperatureF *prometheus.GaugeVec
	humidity     *prometheus.GaugeVec
	dewPoint     *prometheus.GaugeVec
	readErrors   *prometheus.CounterVec
}

func newMetrics(place string) *metrics {
	m := &metrics{
		reg:   prometheus.NewRegistry(),
		place: place,
		temperatureC: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sht1x_temperature_celsius",
			Help: "Temperature in degrees Celsius",
		}, []string{"place"}),
		temperatureF: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sht1x_temperature_fahrenheit",
			Help: "Temperature in degrees Fahrenheit",
		}, []string{"place"}),
		humidity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sht1x_relative_humidity_percent",
			Help: "Relative Humidity percent",
		}, []string{"place"}),
		dewPoint: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sht1x_dew_point_celsius",
			Help: "Dew point in degrees Celsius",
		}, []string{"place"}),
		readErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sht1x_read_errors_total",
			Help: "Failed sensor reads by kind",
		}, []string{"place", "kind"}),
	}
	m.reg.MustRegister(m.temperatureC, m.temperatureF, m.humidity, m.dewPoint, m.readErrors)
	return m
}

// observe publishes the quantities r holds.
func (m *metrics) observe(r sht1x.Reading) {
	if r.Has(sht1x.QuantityTemperature) {
		m.temperatureC.WithLabelValues(m.place).Set(r.TemperatureC)
		m.temperatureF.WithLabelValues(m.place).Set(r.TemperatureF)
	}
	if r.Has(sht1x.QuantityHumidity) {
		m.humidity.WithLabelValues(m.place).Set(r.Humidity)
	}
	if r.Has(sht1x.QuantityDewPoint) {
		m.dewPoint.WithLabelValues(m.place).Set(r.DewPoint)
	}
}

func (m *metrics) countError(err error) {
	m.readErrors.WithLabelValues(m.place, errorKind(err)).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, sht1x.ErrCRCMismatch):
		return "crc"
	case errors.Is(err, sht1x.ErrMeasurementTimeout):
		return "timeout"
	case errors.Is(err, sht1x.ErrMeasurementNotStarted):
		return "not_started"
	case errors.Is(err, sht1x.ErrAckRejected):
		return "ack"
	case errors.Is(err, sht1x.ErrHalted):
		return "halted"
	default:
		return "other"
	}
}
