// Command console loads a patch export into the simulated runtime and
// drives its controls from a prompt.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"go-rnbo/config"
	"go-rnbo/controls"
	"go-rnbo/debug"
	"go-rnbo/page"
	"go-rnbo/patch"
	"go-rnbo/rnbo"
	"go-rnbo/rnbo/sim"
	"go-rnbo/snapshot"
)

// stderrReporter prints setup failures
type stderrReporter struct{}

func (stderrReporter) Report(ec page.ErrorContext) {
	if ec.Header != "" {
		fmt.Fprintln(os.Stderr, ec.Header)
	}
	if ec.Description != "" {
		fmt.Fprintln(os.Stderr, ec.Description)
	}
	fmt.Fprintln(os.Stderr, ec.Err)
}

func main() {
	dir := flag.String("dir", ".", "directory holding the export folder")
	configPath := flag.String("config", "", "config file")
	verbose := flag.Bool("v", false, "log to stderr")
	flag.Parse()

	if *verbose {
		debug.EnableWriter(os.Stderr)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	board := controls.NewBoard()
	p := &page.Page{
		Config:   cfg,
		Patches:  patch.NewLoader(cfg.Patch, "file:///", &http.Client{Transport: http.NewFileTransport(http.Dir(*dir))}),
		Provider: rnbo.Static(&sim.Runtime{FS: os.DirFS(*dir)}),
		Audio:    sim.NewAudioContext(),
		Surface:  board,
		Reporter: stderrReporter{},
	}
	s, err := p.Setup(context.Background())
	if err != nil {
		if !errors.Is(err, page.ErrReported) {
			fmt.Println(err)
		}
		os.Exit(1)
	}
	defer s.Close()

	store, err := snapshot.DefaultStore()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Printf("%s: type help for commands\n", board.Text(controls.TitleID))
	if err := repl(&env{session: s, board: board, device: s.Device.(*sim.Device), store: store}); err != nil {
		fmt.Println(err)
	}
}
