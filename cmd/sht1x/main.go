// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// sht1x reads a SHT1x sensor on two GPIO pins at a fixed interval and prints
// the readings. It can export them to Prometheus and show them on a SSD1306
// display.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	logger "github.com/d2r2/go-logger"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/sht1x/readout"
	"github.com/GermanBionicSystems/sht1x/sht1x"
)

var (
	dataName    = flag.String("data", "GPIO4", "DATA pin name")
	clockName   = flag.String("clock", "GPIO17", "SCK pin name")
	vdd         = flag.String("vdd", "3.5V", "Supply voltage: 5V, 4V, 3.5V, 3V or 2.5V")
	resolution  = flag.String("resolution", "high", "Measurement resolution: high or low")
	heater      = flag.Bool("heater", false, "Switch the on-chip heater on")
	otpNoReload = flag.Bool("otp-no-reload", false, "Do not reload calibration data before each measurement")
	crc         = flag.Bool("crc", true, "Validate the checksum of each reading")
	interval    = flag.Duration("interval", 2*time.Second, "Time between readings")
	count       = flag.Int("count", 0, "Number of readings, 0 for no limit")
	promAddr    = flag.String("listen", "", "OpenMetrics exporter listening address, empty to disable")
	place       = flag.String("place", "inside", "Value of the place label of exported metrics")
	logLevel    = flag.String("loglevel", "INFO", "Log level")
	oled        = flag.Bool("ssd1306", false, "Show readings on a SSD1306 on the first I²C bus")
	snapshot    = flag.String("snapshot", "", "Write each reading as a PNG image to this path")
)

// name of binary file populated at build-time
var binName = "sht1x"

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Built with %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n", binName)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	os.Exit(run(os.Stderr))
}

// run returns the process exit code once every deferred cleanup, logger
// finalization included, has run.
func run(w io.Writer) int {
	defer logger.FinalizeLogger()

	l := initLogger(w, *logLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := mainImpl(ctx, l); err != nil {
		l.Error("sht1x failed", slog.Any("err", err))
		return 1
	}
	return 0
}

func mainImpl(ctx context.Context, l *slog.Logger) (err error) {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host initialize error: %w", err)
	}

	data := gpioreg.ByName(*dataName)
	if data == nil {
		return fmt.Errorf("unknown DATA pin %q", *dataName)
	}
	clock := gpioreg.ByName(*clockName)
	if clock == nil {
		return fmt.Errorf("unknown SCK pin %q", *clockName)
	}
	pins, err := sht1x.NewGPIOPins(data, clock)
	if err != nil {
		return err
	}

	opts := sht1x.Opts{
		Vdd:         sht1x.ParseVoltage(*vdd),
		Resolution:  sht1x.ParseResolution(*resolution),
		Heater:      *heater,
		OTPNoReload: *otpNoReload,
		CRCCheck:    *crc,
	}
	dev, err := sht1x.New(pins, data.Number(), clock.Number(), &opts)
	if err != nil {
		return multierr.Append(err, pins.Cleanup())
	}
	defer func() {
		multierr.AppendInto(&err, dev.Halt())
	}()
	l.Info("SHT1x activated",
		slog.String("data", data.Name()), slog.String("clock", clock.Name()),
		slog.String("vdd", opts.Vdd.String()), slog.String("resolution", opts.Resolution.String()))

	var screens []display.Drawer
	if *oled {
		bus, err := i2creg.Open("")
		if err != nil {
			return fmt.Errorf("i2cbus error: %w", err)
		}
		defer bus.Close()
		d, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
		if err != nil {
			return fmt.Errorf("SSD1306 open error: %w", err)
		}
		defer d.Halt()
		screens = append(screens, d)
		l.Info("SSD1306 activated", slog.String("bounds", d.Bounds().String()))
	}

	m := newMetrics(*place)
	if *promAddr != "" {
		sink := readout.NewSink(256, 96)
		screens = append(screens, sink)
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.handler())
		mux.Handle("/readout.png", sink)
		srv := &http.Server{Addr: *promAddr, Handler: mux}
		go func() {
			l.Info("Listen", slog.String("addr", *promAddr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				l.Error("Server stop", slog.Any("err", err))
			}
		}()
		defer srv.Close()
	}

	out := &outputs{term: readout.NewTerminal(nil, nil), screens: screens, snapshot: *snapshot}
	t := time.NewTicker(*interval)
	defer t.Stop()
	for n := 1; ; n++ {
		r, err := sample(dev, m)
		if err != nil {
			l.Warn("measurement error", slog.Any("err", err))
		}
		if err := out.show(r); err != nil {
			l.Warn("output error", slog.Any("err", err))
		}
		if *count > 0 && n >= *count {
			return nil
		}
		select {
		case <-ctx.Done():
			l.Info("shutting down")
			return nil
		case <-t.C:
		}
	}
}

// sensor is the part of *sht1x.Dev used by the sampling loop.
type sensor interface {
	ReadTemperature() (float64, error)
	ReadHumidity(opts ...sht1x.ReadOption) (float64, error)
	CalculateDewPoint(opts ...sht1x.ReadOption) (float64, error)
	Last() sht1x.Reading
}

// sample measures every quantity once. The returned reading only holds
// the quantities measured in this round. Humidity is only read against a
// fresh temperature.
func sample(s sensor, m *metrics) (sht1x.Reading, error) {
	var fresh sht1x.Quantity
	var err error
	if _, err = s.ReadTemperature(); err != nil {
		err = fmt.Errorf("temperature: %w", err)
	} else {
		fresh |= sht1x.QuantityTemperature
		if _, err = s.ReadHumidity(); err != nil {
			err = fmt.Errorf("humidity: %w", err)
		} else {
			fresh |= sht1x.QuantityHumidity
			if _, err = s.CalculateDewPoint(); err != nil {
				err = fmt.Errorf("dew point: %w", err)
			} else {
				fresh |= sht1x.QuantityDewPoint
			}
		}
	}
	if err != nil {
		m.countError(err)
	}
	r := s.Last()
	r.Valid &= fresh
	m.observe(r)
	return r, err
}

type outputs struct {
	term     *readout.Terminal
	screens  []display.Drawer
	snapshot string
}

func (o *outputs) show(r sht1x.Reading) error {
	err := o.term.Write(r)
	for _, d := range o.screens {
		multierr.AppendInto(&err, readout.Draw(d, r))
	}
	if o.snapshot != "" {
		multierr.AppendInto(&err, readout.SavePNG(o.snapshot, r, 320, 120))
	}
	return err
}
