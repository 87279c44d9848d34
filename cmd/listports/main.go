package main

import (
	"fmt"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Lists MIDI output ports so a name can be handed to midiplay's
// -midi-out flag.
func main() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- midi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		if len(outs) == 0 {
			fmt.Println("  no output ports found")
			return
		}
		for i, p := range outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\nPass a port name to midiplay -midi-out to preview keystrokes on it.")
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! The MIDI backend is hung.")
	}
}
