// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"io"
	"log/slog"
	"strings"

	logger "github.com/d2r2/go-logger"
)

// initLogger returns a text logger at level and applies the same level to
// the driver's package logger.
func initLogger(w io.Writer, level string) *slog.Logger {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		lv = slog.LevelInfo
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv}))
	logger.ChangePackageLogLevel("sht1x", driverLevel(level))
	return l
}

func driverLevel(level string) logger.LogLevel {
	lvStr := strings.ToUpper(level)
	switch {
	case strings.HasPrefix(lvStr, "DEBUG"):
		return logger.DebugLevel
	case strings.HasPrefix(lvStr, "WARN"):
		return logger.WarnLevel
	case strings.HasPrefix(lvStr, "ERROR"):
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}
