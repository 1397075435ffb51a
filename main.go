package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-rnbo/config"
	"go-rnbo/controls"
	"go-rnbo/debug"
	"go-rnbo/midi"
	"go-rnbo/page"
	"go-rnbo/patch"
	"go-rnbo/rnbo"
	"go-rnbo/rnbo/sim"
	"go-rnbo/snapshot"
	"go-rnbo/theme"
	"go-rnbo/tui"
)

func main() {
	dir := flag.String("dir", ".", "directory holding the export folder")
	midiName := flag.String("midi", "", "forward notes from MIDI inputs whose name contains this")
	configPath := flag.String("config", "", "config file (default ~/.config/go-rnbo/config.json)")
	palettePath := flag.String("palette", "", "GIMP palette file")
	logging := flag.Bool("debug", false, "log to ~/.config/go-rnbo/debug.log")
	saveConfig := flag.Bool("save-config", false, "write the effective config to ~/.config/go-rnbo/config.json")
	flag.Parse()

	root, err := config.ExpandPath(*dir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if *logging {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *saveConfig {
		if err := cfg.Save(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	var palette *theme.Palette
	if *palettePath != "" {
		path, err := config.ExpandPath(*palettePath)
		if err == nil {
			palette, err = theme.LoadGPL(path)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	th := theme.New(palette)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The export folder is served as if it were the page's origin
	client := &http.Client{Transport: http.NewFileTransport(http.Dir(root))}
	board := controls.NewBoard()
	p := &page.Page{
		Config:   cfg,
		Patches:  patch.NewLoader(cfg.Patch, "file:///", client),
		Provider: rnbo.Static(&sim.Runtime{FS: os.DirFS(root)}),
		Audio:    sim.NewAudioContext(),
		Surface:  board,
		Reporter: tui.Reporter{W: os.Stderr, Theme: th},
	}

	s, err := p.Setup(ctx)
	if err != nil {
		if !errors.Is(err, page.ErrReported) {
			fmt.Printf("Error: %v\n", err)
		}
		os.Exit(1)
	}
	defer s.Close()
	s.Panel.Toggle()

	var notes <-chan midi.Event
	if *midiName != "" {
		w := midi.NewWatcher(midi.MatchName(*midiName))
		go w.Run(ctx)
		notes = w.Notes()
	}

	fmt.Println("go-rnbo")
	if s.DependencyErr != nil {
		fmt.Printf("Samples not loaded: %v\n", s.DependencyErr)
	}

	m := tui.NewModel(s, board, th, notes)
	if store, err := snapshot.DefaultStore(); err == nil {
		m.Store = store
	}
	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}
