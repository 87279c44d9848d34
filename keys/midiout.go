package keys

import (
	"fmt"
	"strings"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"midiplay/debug"
)

const (
	previewChannel  = 0
	previewVelocity = 100
	ccAllNotesOff   = 123
)

// MidiInjector previews keystrokes on a MIDI output port: each key
// press sounds the pitch the in-game instrument would produce, so a
// mapped performance can be auditioned on a synth before pointing the
// player at a game.
type MidiInjector struct {
	mu   sync.Mutex
	send func(gomidi.Message) error
	port drivers.Out

	// notes holds the natural pitch of each configured key, uppercased.
	notes map[string]uint8

	// held tracks sounding pitches so ReleaseAll can silence them.
	held map[uint8]bool
}

// NewMidiInjector opens the named output port. The note table maps each
// layout key to its natural pitch (see mapper.NoteTable).
func NewMidiInjector(portName string, notes map[string]uint8) (*MidiInjector, error) {
	for _, port := range gomidi.GetOutPorts() {
		if port.String() != portName {
			continue
		}
		send, err := gomidi.SendTo(port)
		if err != nil {
			return nil, fmt.Errorf("open midi out %q: %w", portName, err)
		}
		debug.Log("keys", "midi preview on %q, %d keys mapped", portName, len(notes))
		return newMidiInjector(send, port, notes), nil
	}
	return nil, fmt.Errorf("midi out %q not found", portName)
}

func newMidiInjector(send func(gomidi.Message) error, port drivers.Out, notes map[string]uint8) *MidiInjector {
	return &MidiInjector{
		send:  send,
		port:  port,
		notes: notes,
		held:  make(map[uint8]bool),
	}
}

// Close silences and closes the port.
func (mi *MidiInjector) Close() error {
	mi.ReleaseAll()
	if mi.port != nil {
		return mi.port.Close()
	}
	return nil
}

func (mi *MidiInjector) PressKey(key string, mod Modifier) error {
	note, ok := mi.noteFor(key, mod)
	if !ok {
		return fmt.Errorf("no pitch bound to key %q", key)
	}

	mi.mu.Lock()
	defer mi.mu.Unlock()
	if err := mi.send(gomidi.NoteOn(previewChannel, note, previewVelocity)); err != nil {
		return fmt.Errorf("note on %d: %w", note, err)
	}
	mi.held[note] = true
	return nil
}

func (mi *MidiInjector) ReleaseKey(key string, mod Modifier) error {
	note, ok := mi.noteFor(key, mod)
	if !ok {
		return fmt.Errorf("no pitch bound to key %q", key)
	}

	mi.mu.Lock()
	defer mi.mu.Unlock()
	delete(mi.held, note)
	if err := mi.send(gomidi.NoteOff(previewChannel, note)); err != nil {
		return fmt.Errorf("note off %d: %w", note, err)
	}
	return nil
}

// ReleaseAll silences every held pitch and follows up with an
// all-notes-off for anything the held set missed.
func (mi *MidiInjector) ReleaseAll() error {
	mi.mu.Lock()
	defer mi.mu.Unlock()

	var firstErr error
	for note := range mi.held {
		if err := mi.send(gomidi.NoteOff(previewChannel, note)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	mi.held = make(map[uint8]bool)

	if err := mi.send(gomidi.ControlChange(previewChannel, ccAllNotesOff, 0)); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// noteFor resolves a keystroke to a pitch: the key's natural pitch
// shifted a semitone up for shift, down for ctrl.
func (mi *MidiInjector) noteFor(key string, mod Modifier) (uint8, bool) {
	natural, ok := mi.notes[strings.ToUpper(key)]
	if !ok {
		return 0, false
	}
	pitch := int(natural)
	switch mod {
	case ModShift:
		pitch++
	case ModCtrl:
		pitch--
	}
	if pitch < 0 || pitch > 127 {
		return 0, false
	}
	return uint8(pitch), true
}
