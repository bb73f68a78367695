package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/faerietree/fly/internal/settings"
	"github.com/faerietree/fly/internal/telemetry"
)

// runSelftest drives the full pipeline with synthetic records at the
// configured loop rate: one producer goroutine standing in for the
// control loop, the writer draining behind it, then a timed stop.
func runSelftest(args []string) error {
	fs := flag.NewFlagSet("selftest", flag.ContinueOnError)
	settingsPath := fs.String("settings", "settings.yaml", "settings file path")
	count := fs.Int("records", 1000, "number of records to produce")
	logDir := fs.String("log-dir", "", "log directory (overrides settings)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := settings.Load(*settingsPath)
	if err != nil {
		return err
	}

	tcfg := cfg.Telemetry.SessionDefaultsApplied()
	dir := cfg.LogPath()
	if *logDir != "" {
		dir = *logDir
	}

	sess := telemetry.NewSession(telemetry.Options{
		Enabled:        true, // the whole point of a selftest
		LogDir:         dir,
		BufferCapacity: tcfg.BufferCapacity,
		Writer: telemetry.WriterOptions{
			WakeInterval:     tcfg.WakeInterval.Duration(),
			SyncInterval:     tcfg.SyncInterval.Duration(),
			FailureThreshold: tcfg.FailureThreshold,
		},
	})

	if err := sess.Start(); err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	period := cfg.LoopPeriod()
	fmt.Printf("selftest: %d records at %d Hz into %s\n", *count, cfg.FeedbackHz, sess.Path())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for i := 0; i < *count; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}

			if !sess.Submit(syntheticRecord(uint64(i), period)) && interactive {
				fmt.Printf("\rrecord %d dropped", i)
			}
			if interactive && i%100 == 0 {
				fmt.Printf("\r%d/%d", i, *count)
			}
		}
		return nil
	})

	runErr := g.Wait()
	if interactive {
		fmt.Print("\r")
	}

	result := sess.Stop(tcfg.StopTimeout.Duration())
	stats := sess.Stats()

	fmt.Printf("produced %d records in %s\n", *count, time.Since(start).Round(time.Millisecond))
	fmt.Printf("accepted=%d dropped=%d written=%d discarded=%d\n",
		stats.Buffer.Accepted, stats.Buffer.Dropped,
		stats.Writer.RecordsWritten, stats.Writer.Discarded)
	fmt.Printf("drain latency p50=%s p99=%s, syncs=%d\n",
		stats.Writer.DrainLatencyP50, stats.Writer.DrainLatencyP99,
		stats.Writer.SyncsPerformed)
	if result.Clean {
		fmt.Println("stop: clean")
	} else {
		fmt.Printf("stop: FORCED, %d records lost\n", result.Lost)
	}

	if runErr != nil && runErr != context.Canceled {
		return runErr
	}
	if !result.Clean {
		return fmt.Errorf("unclean stop, %d records lost", result.Lost)
	}
	return nil
}

// syntheticRecord fabricates one plausible telemetry record.
func syntheticRecord(i uint64, period time.Duration) telemetry.Record {
	t := float64(i) * period.Seconds()
	return telemetry.Record{
		LoopIndex:  i,
		LastStepUs: uint64(period.Microseconds()),
		Altitude:   1.5 + 0.1*math.Sin(t),
		Roll:       0.05 * math.Sin(t*2),
		Pitch:      0.05 * math.Cos(t*2),
		Yaw:        0.01 * t,
		UX:         0.1 * math.Sin(t),
		UY:         0.1 * math.Cos(t),
		UZ:         0.4,
		URoll:      0.02 * math.Sin(t*3),
		UPitch:     0.02 * math.Cos(t*3),
		UYaw:       0.01,
		Mot1:       0.40,
		Mot2:       0.41,
		Mot3:       0.39,
		Mot4:       0.40,
		Mot5:       0.42,
		Mot6:       0.38,
		VBatt:      7.4 - 0.0001*float64(i),
	}
}
