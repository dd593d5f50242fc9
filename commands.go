package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"embliss/api"
	"embliss/config"
	"embliss/debug"
	"embliss/midi"
	"embliss/screens"
	"embliss/setstore"
	"embliss/theme"
	"embliss/tui"
)

var (
	simPalette string
	simScan    bool
	serveAddr  string
	clockBPM   int
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run against a terminal stand-in for the controller",
	RunE:  runSim,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only JSON view of the sets directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.API.Addr
		}
		return api.Serve(addr, newStore())
	},
}

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Send MIDI clock on a virtual output until interrupted",
	RunE:  runClock,
}

var setsCmd = &cobra.Command{
	Use:   "sets [base|file]",
	Short: "List sets, the versions of a base, or the tracks of a file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSets,
}

func init() {
	simCmd.Flags().StringVar(&simPalette, "palette", "", "GIMP palette (.gpl) for the simulator")
	simCmd.Flags().BoolVar(&simScan, "scan", false, "run the real kit scan from the simulator")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	clockCmd.Flags().IntVar(&clockBPM, "bpm", 0, "tempo (default from config)")
}

func runSim(cmd *cobra.Command, args []string) error {
	// the alt screen owns the terminal
	if err := debug.Enable(config.DebugLogPath()); err != nil {
		return errors.Wrap(err, "debug log")
	}
	defer debug.Disable()

	palette := theme.Default()
	if simPalette != "" {
		p, err := theme.LoadGPL(simPalette)
		if err != nil {
			return err
		}
		palette = p
	}

	var scanner screens.Scanner
	if simScan {
		scanner = midi.NewKitScanner(cfg.Scan)
	}

	sim := tui.NewSim()
	nav := screens.NewNavigator(sim, cfg.Display)
	newEnv(nav, scanner).Start()

	m := tui.NewModel(nav, sim, theme.New(palette), cfg.UI.PollInterval, cfg.Display.Line1Max)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func runClock(cmd *cobra.Command, args []string) error {
	bpm := clockBPM
	if bpm <= 0 {
		bpm = cfg.Clock.BPM
	}

	drv, ok := drivers.Get().(*rtmididrv.Driver)
	if !ok {
		return errors.New("rtmidi driver not registered")
	}
	out, err := drv.OpenVirtualOut(cfg.Clock.PortName)
	if err != nil {
		return errors.Wrapf(err, "open virtual port %q", cfg.Clock.PortName)
	}
	defer out.Close()

	send, err := gomidi.SendTo(out)
	if err != nil {
		return errors.Wrap(err, "send to clock port")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("clock on %q at %d bpm, ctrl+c to stop\n", cfg.Clock.PortName, bpm)
	return midi.NewClock(send, bpm).Run(ctx)
}

func runSets(cmd *cobra.Command, args []string) error {
	store := newStore()
	if _, err := store.ListFiles(); err != nil {
		return err
	}

	if len(args) == 0 {
		for _, base := range store.UniqueBaseNames() {
			fmt.Printf("%-4s  %s\n", base, strings.Join(store.VersionsForBase(base), " "))
		}
		return nil
	}

	arg := args[0]
	if !strings.HasSuffix(arg, store.Ext()) {
		for _, f := range store.VersionsForBase(setstore.SanitizeName(arg)) {
			fmt.Println(f)
		}
		return nil
	}

	segs, err := store.Segments(arg)
	if err != nil {
		return err
	}
	groups, err := store.TrackGroups(arg)
	if err != nil {
		return err
	}
	for _, g := range groups {
		fmt.Printf("%s #%d\n", g.Name, g.Occurrence)
		for _, i := range g.Segments {
			s := segs[i]
			fmt.Printf("  %3d  md %-3s  mnm %-3s  %s\n", i+1, orDash(s.MD), orDash(s.MNM), s.Raw)
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "---"
	}
	return s
}
