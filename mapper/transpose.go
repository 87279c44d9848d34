package mapper

import "math"

// SuggestTranspose picks the octave shift that keeps the most of a
// piece inside the playable band [reference-12, reference+23]. Only
// octave multiples are tried, lowest first; ties keep the earlier
// candidate.
func SuggestTranspose(pitches []uint8, reference uint8) int {
	if len(pitches) == 0 {
		return 0
	}

	minPitch, maxPitch := int(pitches[0]), int(pitches[0])
	for _, p := range pitches {
		if int(p) < minPitch {
			minPitch = int(p)
		}
		if int(p) > maxPitch {
			maxPitch = int(p)
		}
	}

	playableMin := int(reference) - 12
	playableMax := int(reference) + 23

	best := 0
	bestOut := math.MaxInt
	for t := -24; t <= 24; t += 12 {
		out := max(0, playableMin-(minPitch+t)) + max(0, (maxPitch+t)-playableMax)
		if out < bestOut {
			bestOut = out
			best = t
		}
	}
	return best
}
