package midi

import "sort"

// defaultMicrosPerBeat is 120 BPM, the tempo in effect before a file's
// first tempo meta event.
const defaultMicrosPerBeat = 500000

// TempoMap converts tick positions into absolute milliseconds. It holds
// the tempo breakpoints collected from every track, ordered by tick.
type TempoMap struct {
	ticksPerBeat uint32
	changes      []tempoChange
}

type tempoChange struct {
	tick          uint32
	microsPerBeat uint32
}

// NewTempoMap seeds the map with the default tempo at tick 0.
func NewTempoMap(ticksPerBeat uint32) *TempoMap {
	if ticksPerBeat == 0 {
		ticksPerBeat = 960
	}
	return &TempoMap{
		ticksPerBeat: ticksPerBeat,
		changes:      []tempoChange{{tick: 0, microsPerBeat: defaultMicrosPerBeat}},
	}
}

// Add records a tempo breakpoint. Breakpoints may arrive out of order
// because every track is scanned; call Sort before converting.
// A zero tempo is malformed metadata and is ignored.
func (tm *TempoMap) Add(tick, microsPerBeat uint32) {
	if microsPerBeat == 0 {
		return
	}
	tm.changes = append(tm.changes, tempoChange{tick: tick, microsPerBeat: microsPerBeat})
}

// Sort orders breakpoints by tick. Stable, so a file tempo at tick 0
// takes effect after the seeded default.
func (tm *TempoMap) Sort() {
	sort.SliceStable(tm.changes, func(i, j int) bool {
		return tm.changes[i].tick < tm.changes[j].tick
	})
}

// ToMs integrates tempo over the breakpoint segments before tick, then
// adds the remainder at the tempo in effect at tick. Monotonic in tick.
func (tm *TempoMap) ToMs(tick uint32) uint64 {
	var ms float64
	var prevTick uint32
	tempo := uint32(defaultMicrosPerBeat)

	for _, c := range tm.changes {
		if c.tick >= tick {
			break
		}
		delta := c.tick - prevTick
		ms += float64(delta) * float64(tempo) / (float64(tm.ticksPerBeat) * 1000.0)
		prevTick = c.tick
		tempo = c.microsPerBeat
	}

	delta := tick - prevTick
	ms += float64(delta) * float64(tempo) / (float64(tm.ticksPerBeat) * 1000.0)
	return uint64(ms)
}
