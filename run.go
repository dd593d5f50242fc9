package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"embliss/debug"
	"embliss/midi"
	"embliss/screens"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run on the connected controller, reconnecting when it goes away",
	RunE:  runController,
}

func runController(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var scanner screens.Scanner
	if cfg.Scan.PortKeyword != "" {
		scanner = midi.NewKitScanner(cfg.Scan)
	}

	dm := midi.NewDeviceManager(cfg)
	nav := screens.NewNavigator(nil, cfg.Display)
	env := newEnv(nav, scanner)
	debug.Info("main", "sets in %s", env.Store.Dir())

	started := false
	for {
		ctrl, err := dm.Connect()
		if err != nil {
			debug.Warn("midi", "controller not available: %v (retry in %v)", err, cfg.UI.ReconnectInterval)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(cfg.UI.ReconnectInterval):
				continue
			}
		}
		debug.Info("midi", "connected %s", ctrl.ID())

		nav.SetDisplay(ctrl)
		if !started {
			env.Start()
			started = true
		}

		devCtx := dm.Watch(ctx, cfg.UI.ReconnectInterval)
		nav.Run(devCtx, ctrl, cfg.UI.PollInterval)

		if ctx.Err() != nil {
			debug.Info("main", "shutting down")
			dm.Disconnect(true)
			return nil
		}
		debug.Warn("midi", "lost %s, reconnecting", ctrl.ID())
		nav.SetDisplay(nil)
		dm.Disconnect(false)
	}
}
