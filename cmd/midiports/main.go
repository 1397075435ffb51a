// Command midiports finds the MIDI keyboard to pass to go-rnbo -midi.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-rnbo/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "monitor":
		if len(os.Args) < 3 {
			usage()
			return
		}
		monitor(strings.Join(os.Args[2:], " "))
	case "poll":
		poll()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI input ports")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list            - List MIDI input ports")
	fmt.Println("  monitor <port>  - Print notes arriving on a port")
	fmt.Println("  poll            - Report ports as they come and go")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ch := make(chan []string, 1)
	go func() {
		ch <- midi.InPorts()
	}()

	select {
	case names := <-ch:
		if len(names) == 0 {
			fmt.Println("  none")
		}
		for i, name := range names {
			fmt.Printf("  %d: %s\n", i, name)
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func monitor(name string) {
	in, err := midi.OpenInput(name)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", in.Name())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	for {
		select {
		case ev := <-in.Events():
			fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), midi.Describe(ev.Bytes()))
		case <-sig:
			return
		}
	}
}

func poll() {
	fmt.Println("Polling for input ports every second. Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := midi.NewWatcher(nil)
	go w.Run(ctx)
	for ev := range w.Events() {
		fmt.Printf("[%s] %s: %s\n", time.Now().Format("15:04:05"), ev.Type, ev.Name)
	}
}
