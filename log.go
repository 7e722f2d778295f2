// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/txgate-labs/mempoold/chainsync"
	"github.com/txgate-labs/mempoold/mempool"
)

// logWriter implements an io.Writer that outputs to both standard output and
// the write-end pipe of an initialized log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// Loggers per subsystem.  A single backend logger is created and all
// subsystem loggers created from it will write to the backend.
var (
	// backendLog is the logging backend used to create all subsystem
	// loggers.
	backendLog = btclog.NewBackend(logWriter{})

	// logRotator is one of the logging outputs.  It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator

	mainLog = backendLog.Logger("MAIN")
	mempLog = backendLog.Logger("MEMP")
	csynLog = backendLog.Logger("CSYN")
	rpccLog = backendLog.Logger("RPCC")
)

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"MAIN": mainLog,
	"MEMP": mempLog,
	"CSYN": csynLog,
	"RPCC": rpccLog,
}

// Initialize package-global logger variables.
func init() {
	mempool.UseLogger(mempLog)
	chainsync.UseLogger(csynLog)
	rpcclient.UseLogger(rpccLog)
}

// initLogRotator initializes the logging rotator to write logs to logFile
// and create roll files in the same directory.  It must be called before the
// package-global log rotator variables are used.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	logRotator = r
	return nil
}

// validLogLevel returns whether logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	_, ok := btclog.LevelFromString(logLevel)
	return ok
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.
func setLogLevels(logLevel string) {
	level, _ := btclog.LevelFromString(logLevel)
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
}
