package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"midiplay/config"
	"midiplay/debug"
	"midiplay/keys"
	"midiplay/mapper"
	"midiplay/player"
	"midiplay/theme"
	"midiplay/tui"
)

func main() {
	filePath := flag.String("file", "", "MIDI file to load")
	midiOut := flag.String("midi-out", "", "preview keystrokes on a MIDI output port (see listports)")
	debugLog := flag.Bool("debug", false, "write a debug log under the config directory")
	flag.Parse()

	if *debugLog {
		if err := debug.Enable(); err != nil {
			fmt.Printf("debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}

	var injector keys.Injector = keys.LogInjector{}
	if *midiOut != "" {
		mi, err := keys.NewMidiInjector(*midiOut, mapper.NoteTable(cfg.KeyLayout, cfg.ReferenceNote))
		if err != nil {
			fmt.Printf("midi out: %v\n", err)
			os.Exit(1)
		}
		defer mi.Close()
		injector = mi
	}

	engine := player.New(injector)
	th := theme.New(theme.Default())

	m := tui.NewModel(engine, cfg, th, *filePath)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	engine.Stop()
}
