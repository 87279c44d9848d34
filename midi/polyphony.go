package midi

import "sort"

// LimitPolyphony caps how many notes may sound at once. Events whose
// start times fall within toleranceMs of the first event of a group are
// treated as one chord; an oversized chord keeps only its maxNotes
// highest pitches, in their original relative order.
func LimitPolyphony(events []NoteEvent, maxNotes int, toleranceMs uint64) []NoteEvent {
	if maxNotes <= 0 || len(events) == 0 {
		return events
	}

	out := make([]NoteEvent, 0, len(events))
	i := 0
	for i < len(events) {
		start := events[i].StartMs
		j := i
		for j+1 < len(events) && events[j+1].StartMs <= start+toleranceMs {
			j++
		}

		group := events[i : j+1]
		if len(group) > maxNotes {
			group = topPitches(group, maxNotes)
		}
		out = append(out, group...)
		i = j + 1
	}
	return out
}

// topPitches keeps the n highest-pitched members of a chord without
// reordering them.
func topPitches(group []NoteEvent, n int) []NoteEvent {
	idx := make([]int, len(group))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return group[idx[a]].Note > group[idx[b]].Note
	})
	idx = idx[:n]
	sort.Ints(idx)

	kept := make([]NoteEvent, 0, n)
	for _, i := range idx {
		kept = append(kept, group[i])
	}
	return kept
}
