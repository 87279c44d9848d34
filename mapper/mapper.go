package mapper

import (
	"strings"

	"midiplay/config"
	"midiplay/keys"
)

// Octave is one of the instrument's three playable registers.
type Octave int

const (
	OctaveLow Octave = iota
	OctaveMedium
	OctaveHigh
)

func (o Octave) String() string {
	switch o {
	case OctaveLow:
		return "low"
	case OctaveHigh:
		return "high"
	}
	return "medium"
}

// Accidental shifts a scale degree by one semitone.
type Accidental int

const (
	AccidentalFlat Accidental = iota // ctrl
	AccidentalNatural
	AccidentalSharp // shift
)

// Modifier returns the key modifier that produces this accidental.
func (a Accidental) Modifier() keys.Modifier {
	switch a {
	case AccidentalFlat:
		return keys.ModCtrl
	case AccidentalSharp:
		return keys.ModShift
	}
	return keys.ModNone
}

// InstrumentNote is a note the in-game instrument can play.
type InstrumentNote struct {
	Octave     Octave
	Degree     uint8 // 1-7
	Accidental Accidental
}

// KeyStroke is the symbolic key press that sounds an InstrumentNote.
type KeyStroke struct {
	Key      string
	Modifier keys.Modifier
}

// degreeSemitones is the major-scale semitone offset of each degree.
var degreeSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

// MidiToInstrument projects a MIDI pitch onto the instrument. reference
// is the pitch of Medium octave, degree 1. A pitch landing outside the
// three octave bands has no projection and reports ok=false; callers
// drop it and play on.
func MidiToInstrument(note uint8, transpose int, reference uint8) (InstrumentNote, bool) {
	semitones := int(note) + transpose - int(reference)

	octaveOffset := floorDiv(semitones, 12)
	withinOctave := semitones - 12*octaveOffset // always 0..11

	degree, accidental, ok := findDegree(withinOctave)
	if !ok {
		return InstrumentNote{}, false
	}

	var octave Octave
	switch octaveOffset {
	case -1:
		octave = OctaveLow
	case 0:
		octave = OctaveMedium
	case 1:
		octave = OctaveHigh
	default:
		return InstrumentNote{}, false
	}

	return InstrumentNote{Octave: octave, Degree: degree, Accidental: accidental}, true
}

// findDegree resolves a within-octave semitone to a degree and
// accidental: exact match first, then sharp of a lower degree, then
// flat of a higher one. The flat branch is unreachable for 0..11 input
// because exact and sharp already cover every value, but it mirrors the
// instrument's full alphabet.
func findDegree(semitones int) (uint8, Accidental, bool) {
	for i, s := range degreeSemitones {
		if s == semitones {
			return uint8(i + 1), AccidentalNatural, true
		}
	}
	for i, s := range degreeSemitones {
		if s+1 == semitones {
			return uint8(i + 1), AccidentalSharp, true
		}
	}
	for i, s := range degreeSemitones {
		if s > 0 && s-1 == semitones {
			return uint8(i + 1), AccidentalFlat, true
		}
	}
	return 0, AccidentalNatural, false
}

// NoteToKeystroke looks up the key bound to a note. A layout row
// shorter than the note's degree has no binding; the note is dropped,
// not an error.
func NoteToKeystroke(n InstrumentNote, layout config.KeyLayout) (KeyStroke, bool) {
	var row []string
	switch n.Octave {
	case OctaveHigh:
		row = layout.High
	case OctaveMedium:
		row = layout.Medium
	case OctaveLow:
		row = layout.Low
	}

	idx := int(n.Degree) - 1
	if idx < 0 || idx >= len(row) {
		return KeyStroke{}, false
	}
	return KeyStroke{Key: row[idx], Modifier: n.Accidental.Modifier()}, true
}

// NoteTable maps each configured key (uppercased) to the MIDI pitch its
// natural press produces. Preview injectors use it to invert the
// layout.
func NoteTable(layout config.KeyLayout, reference uint8) map[string]uint8 {
	table := make(map[string]uint8)
	rows := []struct {
		keys []string
		base int
	}{
		{layout.Low, int(reference) - 12},
		{layout.Medium, int(reference)},
		{layout.High, int(reference) + 12},
	}
	for _, row := range rows {
		for i, key := range row.keys {
			if i >= len(degreeSemitones) {
				break
			}
			pitch := row.base + degreeSemitones[i]
			if pitch < 0 || pitch > 127 {
				continue
			}
			table[strings.ToUpper(key)] = uint8(pitch)
		}
	}
	return table
}

// floorDiv rounds toward negative infinity, so -1/12 is -1 not 0.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
