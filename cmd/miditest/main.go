package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"embliss/config"
	"embliss/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detect(cfg)
	case "display":
		display(cfg, os.Args[2:])
	case "events":
		events(cfg)
	case "scan":
		scan(cfg)
	case "poll":
		pollDevices(cfg)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list              - List all MIDI ports")
	fmt.Println("  detect            - Find the controller")
	fmt.Println("  display L1 [L2]   - Show two lines on the controller")
	fmt.Println("  events            - Print normalized control events")
	fmt.Println("  scan              - Run the external kit scan")
	fmt.Println("  poll              - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ins, outs, err := midi.Ports()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		fmt.Println("The MIDI service is probably hung; restart it and retry.")
		return
	}
	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func detect(cfg *config.Config) {
	fmt.Printf("Looking for %q...\n", cfg.MIDI.DeviceSubstring)

	in, out, err := midi.FindPorts(cfg.MIDI.DeviceSubstring)
	if err != nil {
		fmt.Printf("Not found: %v\n", err)
		return
	}
	fmt.Printf("Found input:  %s\n", in.String())
	fmt.Printf("Found output: %s\n", out.String())

	fmt.Printf("\nLooking for scan port %q...\n", cfg.Scan.PortKeyword)
	if in, out, err := midi.FindPorts(cfg.Scan.PortKeyword); err == nil {
		fmt.Printf("Found: %s / %s\n", in.String(), out.String())
	} else {
		fmt.Println("Not found (copy with mnm banks will skip kit info)")
	}
}

func connect(cfg *config.Config) (*midi.DeviceManager, *midi.Minilab, bool) {
	dm := midi.NewDeviceManager(cfg)
	ctrl, err := dm.Connect()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return nil, nil, false
	}
	fmt.Printf("Using %s\n", ctrl.ID())
	return dm, ctrl, true
}

func display(cfg *config.Config, args []string) {
	line1, line2 := "embliss", "display test"
	if len(args) > 0 {
		line1 = args[0]
	}
	if len(args) > 1 {
		line2 = args[1]
	}

	dm, ctrl, ok := connect(cfg)
	if !ok {
		return
	}
	defer dm.Disconnect(false)

	fmt.Printf("Sending: % X\n", midi.DisplaySysEx(line1, line2))
	if err := ctrl.Render(line1, line2); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Press Enter to clear...")
	fmt.Scanln()
	if err := ctrl.Clear(); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
	fmt.Println("Done!")
}

func events(cfg *config.Config) {
	dm, ctrl, ok := connect(cfg)
	if !ok {
		return
	}
	defer dm.Disconnect(true)

	fmt.Println("Move controls. Ctrl+C to exit.")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	for {
		select {
		case ev := <-ctrl.Events():
			fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), ev)
			ctrl.Render("event", ev.String())
		case <-sig:
			return
		}
	}
}

func scan(cfg *config.Config) {
	fmt.Printf("Scanning %d patterns on %q (up to %v each)...\n",
		midi.NumPatterns, cfg.Scan.PortKeyword, cfg.Scan.StepTimeout)

	start := time.Now()
	kits, err := midi.NewKitScanner(cfg.Scan).Scan()
	if err != nil {
		fmt.Printf("Scan failed: %v\n", err)
		return
	}
	fmt.Printf("Done in %v\n\n", time.Since(start).Round(time.Millisecond))

	for bank := 0; bank < 8; bank++ {
		var row []string
		for slot := 0; slot < 16; slot++ {
			row = append(row, fmt.Sprintf("%3d", kits[bank*16+slot]))
		}
		fmt.Printf("  %c: %s\n", 'A'+bank, strings.Join(row, " "))
	}
}

func pollDevices(cfg *config.Config) {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect the controller to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		ins, outs, err := midi.Ports()
		if err != nil {
			fmt.Printf("[%s] %v\n", time.Now().Format("15:04:05"), err)
			time.Sleep(2 * time.Second)
			continue
		}

		var inNames, outNames []string
		for _, p := range ins {
			inNames = append(inNames, p.String())
		}
		for _, p := range outs {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			for _, name := range inNames {
				if strings.Contains(strings.ToLower(name), strings.ToLower(cfg.MIDI.DeviceSubstring)) {
					fmt.Println("  -> controller detected!")
				}
			}

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
