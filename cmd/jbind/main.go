// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Program jbind formats, queries, converts, and checks JSON documents.
//
// Usage:
//
//	jbind [-v] <command> [flags] [args...]
//
// Commands:
//
//	fmt [file]            reformat a document
//	get <path> [file]     print the value at a path, e.g. $.event[0].image;
//	                      --recur KEY collects members named KEY below it
//	convert [file]        convert between json, jwcc, yaml, cbor, msgpack
//	check <file>...       validate event list files
//
// A missing file name or "-" reads standard input.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type command struct {
	name  string
	usage string
	run   func(log *zap.Logger, args []string) error
}

var commands = []command{
	{"fmt", "fmt [flags] [file]", runFmt},
	{"get", "get [flags] <path> [file]", runGet},
	{"convert", "convert [flags] [file]", runConvert},
	{"check", "check <file>...", runCheck},
}

func main() {
	fs := pflag.NewFlagSet("jbind", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	verbose := fs.BoolP("verbose", "v", false, "enable debug logging")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jbind: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	args := fs.Args()
	if len(args) == 0 {
		usage(fs)
		os.Exit(2)
	}
	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		if err := cmd.run(log.Named(cmd.name), args[1:]); err != nil {
			if !errors.Is(err, pflag.ErrHelp) {
				log.Error("command failed", zap.Error(err))
				log.Sync()
				os.Exit(1)
			}
		}
		return
	}
	log.Error("unknown command", zap.String("command", args[0]))
	usage(fs)
	os.Exit(2)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level.SetLevel(zap.DebugLevel)
	}
	return cfg.Build()
}

func usage(fs *pflag.FlagSet) {
	var names []string
	for _, cmd := range commands {
		names = append(names, "  jbind "+cmd.usage)
	}
	fmt.Fprintf(os.Stderr, "Usage:\n%s\n\nGlobal flags:\n%s", strings.Join(names, "\n"), fs.FlagUsages())
}
