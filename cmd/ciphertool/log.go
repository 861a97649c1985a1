package main

import (
	"io"

	"github.com/btcsuite/btclog/v2"
	"github.com/priikone/crypto/build"
	"github.com/priikone/crypto/cipher"
	"github.com/priikone/crypto/cryptocfg"
	"github.com/priikone/crypto/keyfile"
	"github.com/priikone/crypto/monitoring"
)

// Subsystem defines the logging code for the command line tool itself.
const Subsystem = "CTOL"

// log is the tool's own logger. It stays disabled until setupLoggers runs.
var log = btclog.Disabled

// setupLoggers creates the console handler the configuration asks for and
// hands a sub logger to every package that logs.
func setupLoggers(cfg *cryptocfg.Config,
	w io.Writer) *build.SubLoggerManager {

	mgr := build.NewSubLoggerManager(
		build.NewConsoleHandler(cfg.LogConfig, w),
	)

	log = build.NewSubLogger(Subsystem, mgr.GenSubLogger)
	addSubLogger(mgr, cipher.Subsystem, cipher.UseLogger)
	addSubLogger(mgr, keyfile.Subsystem, keyfile.UseLogger)
	addSubLogger(mgr, monitoring.Subsystem, monitoring.UseLogger)

	return mgr
}

// addSubLogger is a helper method to conveniently create and register the
// logger of one or more sub systems.
func addSubLogger(mgr *build.SubLoggerManager, subsystem string,
	useLoggers ...func(btclog.Logger)) {

	logger := build.NewSubLogger(subsystem, mgr.GenSubLogger)
	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}
