package midi

import (
	"bytes"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func writeSMF(t *testing.T, ticksPerBeat uint16, tracks ...smf.Track) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerBeat)
	for _, tr := range tracks {
		if err := s.Add(tr); err != nil {
			t.Fatalf("add track: %v", err)
		}
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("write smf: %v", err)
	}
	return buf.Bytes()
}

func TestParseSingleNote(t *testing.T) {
	// One beat at 120 BPM and 480 ticks per beat: 500ms.
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(480, gomidi.NoteOff(0, 60))
	tr.Close(0)

	f, err := Parse(writeSMF(t, 480, tr))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(f.Events))
	}
	ev := f.Events[0]
	if ev.StartMs != 0 || ev.DurationMs != 500 || ev.Note != 60 || ev.Velocity != 100 {
		t.Fatalf("event = %+v, want start=0 duration=500 note=60 velocity=100", ev)
	}
	if f.Summary.NoteCount != 1 || f.Summary.DurationMs != 500 || f.Summary.TrackCount != 1 {
		t.Fatalf("summary = %+v", f.Summary)
	}
	if f.Summary.MinNote != 60 || f.Summary.MaxNote != 60 {
		t.Fatalf("pitch range = %d..%d, want 60..60", f.Summary.MinNote, f.Summary.MaxNote)
	}
}

func TestParseZeroVelocityNoteOnIsNoteOff(t *testing.T) {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, gomidi.NoteOn(0, 64, 90))
	tr.Add(240, gomidi.NoteOn(0, 64, 0))
	tr.Close(0)

	f, err := Parse(writeSMF(t, 480, tr))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(f.Events))
	}
	if f.Events[0].DurationMs != 250 {
		t.Fatalf("duration = %d, want 250", f.Events[0].DurationMs)
	}
}

func TestParseUnterminatedNoteClosedAtTrackEnd(t *testing.T) {
	// Note 60 never gets an off; the track runs to tick 960.
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(480, gomidi.NoteOn(0, 62, 100))
	tr.Add(480, gomidi.NoteOff(0, 62))
	tr.Close(0)

	f, err := Parse(writeSMF(t, 480, tr))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(f.Events))
	}
	var hanging *NoteEvent
	for i := range f.Events {
		if f.Events[i].Note == 60 {
			hanging = &f.Events[i]
		}
	}
	if hanging == nil {
		t.Fatal("note 60 missing from decoded events")
	}
	if hanging.StartMs != 0 || hanging.DurationMs != 1000 {
		t.Fatalf("note 60 = %+v, want start=0 duration=1000", *hanging)
	}
}

func TestParseEarliestOpenNoteClosedFirst(t *testing.T) {
	// Two overlapping note-ons of the same pitch; the first off closes
	// the first on.
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(240, gomidi.NoteOn(0, 60, 100))
	tr.Add(240, gomidi.NoteOff(0, 60))
	tr.Add(240, gomidi.NoteOff(0, 60))
	tr.Close(0)

	f, err := Parse(writeSMF(t, 480, tr))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(f.Events))
	}
	first, second := f.Events[0], f.Events[1]
	if first.StartMs != 0 || first.DurationMs != 500 {
		t.Errorf("first = %+v, want start=0 duration=500", first)
	}
	if second.StartMs != 250 || second.DurationMs != 500 {
		t.Errorf("second = %+v, want start=250 duration=500", second)
	}
}

func TestParseSortsAcrossTracks(t *testing.T) {
	var tr1 smf.Track
	tr1.Add(0, smf.MetaTempo(120))
	tr1.Add(480, gomidi.NoteOn(0, 70, 100))
	tr1.Add(240, gomidi.NoteOff(0, 70))
	tr1.Close(0)

	var tr2 smf.Track
	tr2.Add(0, gomidi.NoteOn(0, 50, 100))
	tr2.Add(240, gomidi.NoteOff(0, 50))
	tr2.Close(0)

	f, err := Parse(writeSMF(t, 480, tr1, tr2))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(f.Events))
	}
	if f.Events[0].Note != 50 || f.Events[1].Note != 70 {
		t.Fatalf("events not time-sorted: %+v", f.Events)
	}
	if f.Summary.MinNote != 50 || f.Summary.MaxNote != 70 {
		t.Fatalf("pitch range = %d..%d, want 50..70", f.Summary.MinNote, f.Summary.MaxNote)
	}
	if f.Summary.TrackCount != 2 {
		t.Fatalf("track count = %d, want 2", f.Summary.TrackCount)
	}
}

func TestParseTempoChangeMidFile(t *testing.T) {
	// First beat at 120 BPM, second at 60 BPM.
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(480, smf.MetaTempo(60))
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(480, gomidi.NoteOff(0, 60))
	tr.Close(0)

	f, err := Parse(writeSMF(t, 480, tr))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(f.Events))
	}
	ev := f.Events[0]
	if ev.StartMs != 500 || ev.DurationMs != 1000 {
		t.Fatalf("event = %+v, want start=500 duration=1000", ev)
	}
}

func TestParseMalformedBytes(t *testing.T) {
	if _, err := Parse([]byte("this is not a midi file")); err == nil {
		t.Fatal("Parse accepted garbage input")
	}
	if _, err := Parse(nil); err == nil {
		t.Fatal("Parse accepted empty input")
	}
}

func TestPitches(t *testing.T) {
	f := &File{Events: []NoteEvent{{Note: 60}, {Note: 64}, {Note: 67}}}
	got := f.Pitches()
	want := []uint8{60, 64, 67}
	if len(got) != len(want) {
		t.Fatalf("got %d pitches, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pitch %d = %d, want %d", i, got[i], want[i])
		}
	}
}
