// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

// Command alf creates, lists, reads and extracts ALF archives.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/woozymasta/alf"
)

const name = "alf"

// options is the full command line surface.
type options struct {
	Create  bool   `short:"c" long:"create" description:"Create archive from source paths read from stdin, one per line"`
	Read    string `short:"r" long:"read" value-name:"PATH" description:"Write one archived file to stdout"`
	Extract bool   `short:"x" long:"extract" description:"Extract all files"`
	List    bool   `short:"l" long:"list" description:"List archive contents"`

	PathConversion string `short:"p" long:"path-conversion" env:"ALF_PATH_CONVERSION" choice:"never" choice:"write" choice:"always" default:"write" description:"Path separator conversion policy"`
	Directory      string `short:"d" long:"directory" value-name:"DIR" description:"Extraction directory (default: archive name without extension)"`

	Include         []string `short:"i" long:"include" value-name:"PATTERN" description:"Only process paths matching gitignore-style pattern, repeatable"`
	Exclude         []string `short:"e" long:"exclude" value-name:"PATTERN" description:"Skip paths matching gitignore-style pattern, repeatable"`
	ContinueOnError bool     `long:"continue-on-error" description:"Keep extracting after a failed entry"`

	Verbose  bool   `short:"v" long:"verbose" description:"Activates the verbose mode"`
	LogLevel string `long:"log-level" env:"ALF_LOG_LEVEL" choice:"debug" choice:"info" choice:"warning" choice:"error" default:"warning" description:"logging level"`

	Args struct {
		Archive string `positional-arg-name:"archive" required:"yes" description:"ALF archive path"`
	} `positional-args:"yes"`
}

// app holds process streams and per-invocation state.
type app struct {
	stdin   io.Reader
	stdout  io.Writer
	log     *logrus.Logger
	console *console
	opts    options
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp(os.Stdin, os.Stdout, os.Stderr).run(ctx, os.Args[1:])
	stop()

	os.Exit(exitStatus(err))
}

// newApp builds an app writing diagnostics and logs to stderr.
func newApp(stdin io.Reader, stdout io.Writer, stderr io.Writer) *app {
	log := logrus.New()
	log.SetOutput(stderr)

	return &app{
		stdin:   stdin,
		stdout:  stdout,
		log:     log,
		console: newConsole(stderr),
	}
}

// run parses args, dispatches exactly one mode and reports failures on stderr.
func (a *app) run(ctx context.Context, args []string) error {
	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = name
	parser.Usage = "(-c | -r PATH | -x | -l) [OPTIONS] ARCHIVE"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			_, _ = fmt.Fprintln(a.stdout, flagsErr.Message)
			return nil
		}

		return a.fail(usageError(err))
	}

	if len(rest) > 0 {
		return a.fail(usageError(fmt.Errorf("unexpected arguments: %v", rest)))
	}

	if err := a.configureLogging(); err != nil {
		return a.fail(usageError(err))
	}

	mode, err := a.mode()
	if err != nil {
		return a.fail(usageError(err))
	}

	if err := mode(ctx); err != nil {
		return a.fail(err)
	}

	return nil
}

// mode returns the handler for the single selected mode.
func (a *app) mode() (func(context.Context) error, error) {
	var selected []func(context.Context) error
	if a.opts.Create {
		selected = append(selected, a.create)
	}
	if a.opts.Read != "" {
		selected = append(selected, a.read)
	}
	if a.opts.Extract {
		selected = append(selected, a.extract)
	}
	if a.opts.List {
		selected = append(selected, a.list)
	}

	if len(selected) != 1 {
		return nil, errors.New("exactly one of -c, -r, -x or -l is required")
	}

	return selected[0], nil
}

// configureLogging applies --log-level and --verbose to the logger.
func (a *app) configureLogging() error {
	level, err := logrus.ParseLevel(a.opts.LogLevel)
	if err != nil {
		return fmt.Errorf("cannot parse log level: %w", err)
	}

	if a.opts.Verbose {
		level = logrus.DebugLevel
	}

	a.log.SetLevel(level)
	return nil
}

// pathConversion returns validated policy from flags.
func (a *app) pathConversion() (alf.PathConversion, error) {
	return alf.ParsePathConversion(a.opts.PathConversion)
}

// filter compiles --include and --exclude patterns.
func (a *app) filter() (*alf.Filter, error) {
	return alf.NewFilter(a.opts.Include, a.opts.Exclude)
}

// fail prints err as diagnostic and returns it with its exit status attached.
func (a *app) fail(err error) error {
	a.console.Errorf("%v", err)

	var coded *exitError
	if errors.As(err, &coded) {
		return coded
	}

	return &exitError{code: exitCodeFor(err), err: err}
}
