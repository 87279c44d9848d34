package midi

import "testing"

func TestLimitPolyphonyKeepsHighestPitches(t *testing.T) {
	events := []NoteEvent{
		{StartMs: 0, Note: 60},
		{StartMs: 3, Note: 72},
		{StartMs: 6, Note: 64},
		{StartMs: 9, Note: 67},
	}

	got := LimitPolyphony(events, 2, 10)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	// The two highest pitches survive, in their original order.
	if got[0].Note != 72 || got[1].Note != 67 {
		t.Fatalf("kept pitches %d,%d, want 72,67", got[0].Note, got[1].Note)
	}
	// Group property: every kept pitch >= every dropped pitch.
	for _, kept := range got {
		for _, dropped := range []uint8{60, 64} {
			if kept.Note < dropped {
				t.Errorf("kept pitch %d < dropped pitch %d", kept.Note, dropped)
			}
		}
	}
}

func TestLimitPolyphonySeparateGroups(t *testing.T) {
	// Two chords more than the tolerance apart; each is capped on its own.
	events := []NoteEvent{
		{StartMs: 0, Note: 60},
		{StartMs: 5, Note: 64},
		{StartMs: 8, Note: 67},
		{StartMs: 100, Note: 48},
		{StartMs: 105, Note: 55},
	}

	got := LimitPolyphony(events, 1, 10)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Note != 67 || got[1].Note != 55 {
		t.Fatalf("kept pitches %d,%d, want 67,55", got[0].Note, got[1].Note)
	}
}

func TestLimitPolyphonyWindowAnchoredAtGroupStart(t *testing.T) {
	// 0 and 10 form a group; 21 is outside the first event's window even
	// though it is within 10ms of the second.
	events := []NoteEvent{
		{StartMs: 0, Note: 60},
		{StartMs: 10, Note: 62},
		{StartMs: 21, Note: 64},
	}

	got := LimitPolyphony(events, 1, 10)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Note != 62 || got[1].Note != 64 {
		t.Fatalf("kept pitches %d,%d, want 62,64", got[0].Note, got[1].Note)
	}
}

func TestLimitPolyphonyNoOpCases(t *testing.T) {
	events := []NoteEvent{{StartMs: 0, Note: 60}, {StartMs: 5, Note: 64}}

	if got := LimitPolyphony(events, 3, 10); len(got) != 2 {
		t.Errorf("under the cap: got %d events, want 2", len(got))
	}
	if got := LimitPolyphony(nil, 2, 10); len(got) != 0 {
		t.Errorf("empty input: got %d events, want 0", len(got))
	}
	if got := LimitPolyphony(events, 0, 10); len(got) != 2 {
		t.Errorf("zero cap is a no-op: got %d events, want 2", len(got))
	}
}
