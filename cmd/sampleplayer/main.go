// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Command sampleplayer plays one catalog sample through a playback session
// backed by the simulated player.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/sampleplayer/internal/config"
	xglog "github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/samples"
	"github.com/ManuGH/sampleplayer/internal/version"
)

type options struct {
	configPath     string
	sample         string
	list           bool
	showVersion    bool
	keys           bool
	denyPermission bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("sampleplayer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "path to config file (YAML)")
	fs.StringVar(&o.sample, "sample", "", "name of the sample to play (default: first in catalog)")
	fs.BoolVar(&o.list, "list", false, "list catalog samples and exit")
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")
	fs.BoolVar(&o.keys, "keys", false, "read key names and commands from stdin")
	fs.BoolVar(&o.denyPermission, "deny-permission", false, "answer storage permission requests with a denial")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return o, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger := xglog.WithComponent("main")
		logger.Error().Err(err).Str(xglog.FieldEvent, "sampleplayer.failed").Msg("sampleplayer exited with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.showVersion {
		_, err := fmt.Fprintln(stdout, version.String())
		return err
	}

	xglog.Configure(xglog.Config{Level: "info", Output: stderr, Service: "sampleplayer", Version: version.Version})

	cfg, err := config.NewLoader(opts.configPath, version.Version).Load()
	if err != nil {
		return err
	}
	xglog.Configure(xglog.Config{Level: cfg.LogLevel, Output: stderr, Service: cfg.LogService, Version: cfg.Version})

	catalog, err := samples.Load(cfg.Samples.Path)
	if err != nil {
		return err
	}
	if opts.list {
		return printCatalog(stdout, catalog)
	}

	sample, err := pickSample(catalog, opts.sample)
	if err != nil {
		return err
	}

	var input io.Reader
	if opts.keys {
		input = stdin
	}
	return play(ctx, cfg, sample, playOptions{input: input, denyPermission: opts.denyPermission})
}

func pickSample(c *samples.Catalog, name string) (samples.Sample, error) {
	if name == "" {
		return c.First()
	}
	return c.Find(name)
}

func printCatalog(w io.Writer, c *samples.Catalog) error {
	for _, g := range c.Groups {
		if _, err := fmt.Fprintln(w, g.Title); err != nil {
			return err
		}
		for _, s := range g.Samples {
			if _, err := fmt.Fprintf(w, "  %-32s %-16s %s\n", s.Name, s.Type, s.URI); err != nil {
				return err
			}
		}
	}
	return nil
}
