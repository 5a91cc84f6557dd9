// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
)

// ParseFlags parses command line flags and returns the program options.
// The ROM can be passed with -i or as the only positional argument, the
// desktop frontend can be started without a ROM and asks for one.
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args)
}

func parseArgs(arguments []string) (options.Program, error) {
	flags := flag.NewFlagSet(arguments[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(arguments[1:])
	if err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	args := flags.Args()
	if err := validateArgs(args); err != nil {
		return opts, err
	}
	if opts.Input == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Input == "" && (opts.Disasm || opts.Frontend != options.FrontendDesktop) {
		return opts, &UsageError{flags: flags}
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage text and all flag defaults.
func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}
	fmt.Printf("usage: retrochip8 [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{msg: fmt.Sprintf("Only one ROM file can be run, got %d", len(args))}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	if !slices.Contains(options.Frontends, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(options.Frontends, ", "))
	}

	if opts.InstructionsPerSecond <= 0 {
		return fmt.Errorf("instructions per second must be positive, got %d", opts.InstructionsPerSecond)
	}
	if opts.StackLimit < 0 {
		return fmt.Errorf("stack limit can not be negative, got %d", opts.StackLimit)
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %d", opts.Scale)
	}
	if opts.Cycles < 0 {
		return fmt.Errorf("cycles can not be negative, got %d", opts.Cycles)
	}

	if opts.Trace {
		opts.Debug = true
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file or archive")
	flags.StringVar(&opts.Frontend, "f", options.FrontendDesktop, "frontend to use (desktop/terminal/headless)")
	flags.IntVar(&opts.InstructionsPerSecond, "ips", runner.DefaultInstructionsPerSecond, "instructions executed per second")
	flags.BoolVar(&opts.CoupledTimers, "coupled", false, "tick the timers once per instruction instead of at 60 Hz")
	flags.IntVar(&opts.StackLimit, "stack", chip8.DefaultStackLimit, "maximum call stack depth, 0 for unlimited")
	flags.IntVar(&opts.Scale, "scale", options.DefaultScale, "desktop window scale factor")
	flags.IntVar(&opts.Cycles, "cycles", options.DefaultHeadlessCycles, "instructions to execute in headless mode")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly listing of the ROM and exit")
	flags.BoolVar(&opts.Mute, "mute", false, "disable the buzzer")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
