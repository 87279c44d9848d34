package midi

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// NoteEvent is a matched note-on/note-off pair with absolute timing.
type NoteEvent struct {
	StartMs    uint64
	DurationMs uint64
	Note       uint8
	Velocity   uint8
}

// Summary describes a decoded file.
type Summary struct {
	TrackCount int    `json:"trackCount"`
	DurationMs uint64 `json:"durationMs"`
	NoteCount  int    `json:"noteCount"`
	MinNote    uint8  `json:"minNote"`
	MaxNote    uint8  `json:"maxNote"`
}

// File is a decoded MIDI file flattened to a time-sorted note list.
type File struct {
	Summary Summary
	Events  []NoteEvent
}

// Load reads and decodes a standard MIDI file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a standard MIDI byte stream. A malformed container is a
// hard error; no partial result is returned.
func Parse(data []byte) (*File, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse midi: %w", err)
	}

	tm := buildTempoMap(s)

	var events []NoteEvent
	for _, tr := range s.Tracks {
		events = append(events, decodeTrack(tr, tm)...)
	}

	// Ties keep input order.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartMs < events[j].StartMs
	})

	return &File{Summary: summarize(len(s.Tracks), events), Events: events}, nil
}

// pendingNote is a note-on waiting for its note-off.
type pendingNote struct {
	note     uint8
	startMs  uint64
	velocity uint8
}

// decodeTrack pairs note-ons with note-offs along a running tick
// counter. A note-on with velocity 0 counts as a note-off; an off closes
// the earliest still-open note of its pitch. Notes left open when the
// track ends are cut at the track's final tick.
func decodeTrack(tr smf.Track, tm *TempoMap) []NoteEvent {
	var events []NoteEvent
	var pending []pendingNote
	var tick uint32

	for _, ev := range tr {
		tick += ev.Delta

		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteStart(&ch, &key, &vel):
			pending = append(pending, pendingNote{note: key, startMs: tm.ToMs(tick), velocity: vel})
		case ev.Message.GetNoteEnd(&ch, &key):
			pending, events = closeNote(pending, events, key, tm.ToMs(tick))
		}
	}

	endMs := tm.ToMs(tick)
	for _, p := range pending {
		events = append(events, NoteEvent{
			StartMs:    p.startMs,
			DurationMs: clampedSub(endMs, p.startMs),
			Note:       p.note,
			Velocity:   p.velocity,
		})
	}
	return events
}

func closeNote(pending []pendingNote, events []NoteEvent, note uint8, endMs uint64) ([]pendingNote, []NoteEvent) {
	for i, p := range pending {
		if p.note != note {
			continue
		}
		events = append(events, NoteEvent{
			StartMs:    p.startMs,
			DurationMs: clampedSub(endMs, p.startMs),
			Note:       p.note,
			Velocity:   p.velocity,
		})
		return append(pending[:i], pending[i+1:]...), events
	}
	// Off with no matching on; nothing to close.
	return pending, events
}

func buildTempoMap(s *smf.SMF) *TempoMap {
	tm := NewTempoMap(ticksPerBeat(s))
	for _, tr := range s.Tracks {
		var tick uint32
		for _, ev := range tr {
			tick += ev.Delta
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
				tm.Add(tick, uint32(math.Round(60_000_000/bpm)))
			}
		}
	}
	tm.Sort()
	return tm
}

func ticksPerBeat(s *smf.SMF) uint32 {
	switch tf := s.TimeFormat.(type) {
	case smf.MetricTicks:
		return uint32(tf.Resolution())
	case smf.TimeCode:
		return uint32(tf.FramesPerSecond) * uint32(tf.SubFrames)
	}
	return 960
}

func summarize(trackCount int, events []NoteEvent) Summary {
	sum := Summary{
		TrackCount: trackCount,
		NoteCount:  len(events),
		MinNote:    0,
		MaxNote:    127,
	}
	if len(events) == 0 {
		return sum
	}

	sum.MinNote, sum.MaxNote = events[0].Note, events[0].Note
	for _, ev := range events {
		if end := ev.StartMs + ev.DurationMs; end > sum.DurationMs {
			sum.DurationMs = end
		}
		if ev.Note < sum.MinNote {
			sum.MinNote = ev.Note
		}
		if ev.Note > sum.MaxNote {
			sum.MaxNote = ev.Note
		}
	}
	return sum
}

func clampedSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// Pitches returns every pitch appearing in the file, in event order.
func (f *File) Pitches() []uint8 {
	out := make([]uint8, len(f.Events))
	for i, ev := range f.Events {
		out[i] = ev.Note
	}
	return out
}
