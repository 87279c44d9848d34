package player

import (
	"sort"

	"midiplay/config"
	"midiplay/keys"
	"midiplay/mapper"
	"midiplay/midi"
)

// polyphonyToleranceMs groups notes starting this close together into
// one chord for the polyphony cap.
const polyphonyToleranceMs = 10

// minDurationMs floors the key hold time so the host registers brief
// presses.
const minDurationMs = 30

// Direction says whether a ScheduledEvent presses or releases its key.
type Direction int

const (
	KeyDown Direction = iota
	KeyUp
)

func (d Direction) String() string {
	if d == KeyUp {
		return "up"
	}
	return "down"
}

// ScheduledEvent is one entry of the flattened keystroke timeline.
type ScheduledEvent struct {
	TimeMs    uint64
	Key       string
	Modifier  keys.Modifier
	Direction Direction
}

// BuildTimeline flattens a decoded file into a time-sorted keystroke
// timeline: the polyphony cap is applied first, then each surviving
// note is mapped (unmappable notes are dropped) and emitted as one
// down/up pair.
func BuildTimeline(f *midi.File, cfg *config.Config) []ScheduledEvent {
	events := make([]midi.NoteEvent, len(f.Events))
	copy(events, f.Events)
	events = midi.LimitPolyphony(events, cfg.MaxPolyphony, polyphonyToleranceMs)

	var timeline []ScheduledEvent
	for _, ev := range events {
		note, ok := mapper.MidiToInstrument(ev.Note, cfg.Transpose, cfg.ReferenceNote)
		if !ok {
			continue
		}
		stroke, ok := mapper.NoteToKeystroke(note, cfg.KeyLayout)
		if !ok {
			continue
		}

		duration := ev.DurationMs
		if duration < minDurationMs {
			duration = minDurationMs
		}
		timeline = append(timeline,
			ScheduledEvent{TimeMs: ev.StartMs, Key: stroke.Key, Modifier: stroke.Modifier, Direction: KeyDown},
			ScheduledEvent{TimeMs: ev.StartMs + duration, Key: stroke.Key, Modifier: stroke.Modifier, Direction: KeyUp},
		)
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].TimeMs < timeline[j].TimeMs
	})
	return timeline
}
