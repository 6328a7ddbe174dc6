// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ManuGH/sampleplayer/internal/bus"
	"github.com/ManuGH/sampleplayer/internal/capabilities"
	"github.com/ManuGH/sampleplayer/internal/config"
	"github.com/ManuGH/sampleplayer/internal/debugview"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/ports"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/session"
	"github.com/ManuGH/sampleplayer/internal/eventlog"
	xglog "github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/permission"
	"github.com/ManuGH/sampleplayer/internal/platform/httpx"
	"github.com/ManuGH/sampleplayer/internal/player/sim"
	"github.com/ManuGH/sampleplayer/internal/renderer"
	"github.com/ManuGH/sampleplayer/internal/samples"
	"github.com/ManuGH/sampleplayer/internal/telemetry"
	"github.com/ManuGH/sampleplayer/internal/transport"
	"golang.org/x/sync/errgroup"
)

const releaseTimeout = 5 * time.Second

type playOptions struct {
	// input, when set, is read line by line for key names and commands.
	input          io.Reader
	denyPermission bool
}

// headlessSurface stands in for a display surface.
type headlessSurface struct{}

func (headlessSurface) SurfaceID() string { return "headless" }

func newMonitor(cfg config.CapabilitiesConfig) ports.CapabilitiesMonitor {
	if cfg.Path == "" {
		return capabilities.NewStaticMonitor(capabilities.Default)
	}
	return capabilities.NewFileMonitor(cfg.Path, cfg.Debounce)
}

func play(ctx context.Context, cfg config.AppConfig, sample samples.Sample, po playOptions) (err error) {
	logger := xglog.WithComponent("main")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if shutdownErr := tp.Shutdown(context.Background()); shutdownErr != nil {
			logger.Warn().Err(shutdownErr).Msg("telemetry shutdown failed")
		}
	}()

	userAgent := renderer.UserAgent(cfg.UserAgentApp, cfg.Version)
	client, err := httpx.NewClient(httpx.Config{
		Timeout:      cfg.Network.Timeout,
		UserAgent:    userAgent,
		CookiePolicy: httpx.CookiePolicy(cfg.Network.CookiePolicy),
	})
	if err != nil {
		return fmt.Errorf("network client: %w", err)
	}

	failure, err := sim.FailureFor(cfg.Player.SimulateFailure)
	if err != nil {
		return err
	}

	responder := permission.NewAutoResponder(!po.denyPermission)
	defer responder.Wait()

	s, err := session.New(session.Options{
		Selector: renderer.NewSelector(client, renderer.DrmConfig{
			WidevineProxyURL:    cfg.DRM.WidevineProxyURL,
			PlayReadyLicenseURL: cfg.DRM.PlayReadyLicenseURL,
		}),
		Players: sim.NewFactory(sim.Options{
			PrepareDelay: cfg.Player.PrepareDelay,
			Tick:         cfg.Player.Tick,
			Failure:      failure,
			ExerciseDRM:  cfg.Player.ExerciseDRM,
		}),
		Gate: &permission.Gate{
			SDKVersion: cfg.Platform.SDKVersion,
			Checker:    permission.StaticChecker(cfg.Platform.StoragePermissionGranted),
			Requester:  responder,
		},
		Monitor:    newMonitor(cfg.Capabilities),
		UserAgent:  userAgent,
		SDKVersion: cfg.Platform.SDKVersion,
		Tracer:     tp.Tracer(),
	})
	if err != nil {
		return err
	}
	responder.Bind(s.OnPermissionResult)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logSub := s.Subscribe()
	closeSub := s.Subscribe()

	g, gctx := errgroup.WithContext(ctx)
	// The event log outlives cancellation so the release events are
	// recorded; it ends when the session closes its stream.
	g.Go(func() error { return eventlog.New().Run(context.WithoutCancel(gctx), logSub) })
	g.Go(func() error {
		watchCloseScreen(gctx, closeSub, cancel)
		return nil
	})
	if cfg.Debug.Listen != "" {
		srv := debugview.New(debugview.Config{Addr: cfg.Debug.Listen, RateLimit: cfg.Debug.RateLimit}, s)
		g.Go(func() error { return srv.ListenAndServe(gctx) })
	}

	if err := startSession(gctx, s, cfg, sample); err != nil {
		cancel()
		releaseErr := release(s, logSub, closeSub)
		return errors.Join(err, releaseErr, g.Wait())
	}
	logger.Info().
		Str(xglog.FieldEvent, "sampleplayer.started").
		Str("sample", sample.Name).
		Str(xglog.FieldURI, xglog.MaskURI(sample.URI)).
		Msg("playing sample")

	if po.input != nil {
		lines := readLines(gctx, po.input)
		g.Go(func() error {
			dispatchInput(gctx, s, lines, cancel)
			return nil
		})
	}

	<-gctx.Done()
	releaseErr := release(s, logSub, closeSub)
	return errors.Join(releaseErr, g.Wait())
}

func startSession(ctx context.Context, s *session.Session, cfg config.AppConfig, sample samples.Sample) error {
	if err := s.SetBackgroundAudio(ctx, cfg.Player.BackgroundAudio); err != nil {
		return err
	}
	if err := s.SurfaceCreated(ctx, headlessSurface{}); err != nil {
		return err
	}
	return s.Start(ctx, sample.Content())
}

// release finalizes the session. Its event stream then drains and closes;
// subscriptions are detached by hand only when release fails.
func release(s *session.Session, subs ...*bus.Subscription[session.Event]) error {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	err := s.Release(ctx)
	if err == nil || errors.Is(err, session.ErrReleased) {
		return nil
	}
	for _, sub := range subs {
		_ = sub.Close()
	}
	return err
}

// watchCloseScreen cancels playback once the session asks to close.
func watchCloseScreen(ctx context.Context, sub *bus.Subscription[session.Event], cancel context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			if ev.Kind == session.EventCloseScreen {
				cancel()
				return
			}
		}
	}
}

// readLines feeds r into a channel until r ends or ctx is done. A reader
// blocked in Read stays blocked until r yields.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// dispatchInput applies commands and key names to the session.
// parseToggle maps "on"/"off" to a bool; an empty argument flips cur.
func parseToggle(arg string, cur bool) (bool, error) {
	switch arg {
	case "":
		return !cur, nil
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return cur, fmt.Errorf("want on or off, got %q", arg)
}

func dispatchInput(ctx context.Context, s *session.Session, lines <-chan string, quit context.CancelFunc) {
	logger := xglog.WithComponent("input")
	controls := s.Controls(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			cmd := strings.ToLower(strings.TrimSpace(line))
			var arg string
			if f := strings.Fields(cmd); len(f) == 2 {
				cmd, arg = f[0], f[1]
			}
			var err error
			switch cmd {
			case "":
				continue
			case "quit", "q":
				quit()
				return
			case "hide":
				err = s.OnVisibilityHidden(ctx)
			case "show":
				err = s.OnVisibilityShown(ctx)
			case "pause":
				err = s.OnPause(ctx)
			case "retry":
				err = s.Retry(ctx)
			case "verbose":
				var on bool
				if on, err = parseToggle(arg, xglog.Verbose()); err == nil {
					xglog.SetVerbose(on)
					logger.Info().Bool("verbose", on).Msg("log verbosity changed")
				}
			case "bgaudio":
				var snap session.Snapshot
				if snap, err = s.Snapshot(ctx); err == nil {
					var on bool
					if on, err = parseToggle(arg, snap.BackgroundAudio); err == nil {
						err = s.SetBackgroundAudio(ctx, on)
					}
				}
			default:
				k := transport.ParseKey(cmd)
				consumed := transport.DispatchKey(controls, k, transport.ActionDown)
				transport.DispatchKey(controls, k, transport.ActionUp)
				if !consumed {
					logger.Debug().Str("key", cmd).Msg("key not consumed")
				}
			}
			if err != nil {
				logger.Warn().Err(err).Str("command", cmd).Msg("command rejected")
			}
		}
	}
}
