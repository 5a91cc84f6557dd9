// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// EmulatorOptions converts the program options to CPU options.
// An unknown opcode is reported as warning once per address, programs that
// run into data would otherwise flood the log.
func EmulatorOptions(logger *log.Logger, opts options.Program) chip8.Options {
	cpuOpts := chip8.NewOptions()
	cpuOpts.StackLimit = opts.StackLimit
	cpuOpts.CoupledTimers = opts.CoupledTimers
	cpuOpts.Trace = opts.Trace

	reported := set.New[uint16]()
	cpuOpts.UnknownOpcode = func(address, opcode uint16) {
		if reported.Contains(address) {
			return
		}
		reported.Add(address)
		logger.Warn("Skipping unknown opcode",
			log.Hex("address", address),
			log.Hex("opcode", opcode))
	}
	return cpuOpts
}

// RunnerConfig converts the program options to the runner configuration.
func RunnerConfig(opts options.Program) runner.Config {
	cfg := runner.NewConfig()
	if opts.InstructionsPerSecond > 0 {
		cfg.InstructionsPerSecond = opts.InstructionsPerSecond
	}
	cfg.CoupledTimers = opts.CoupledTimers
	return cfg
}
