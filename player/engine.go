package player

import (
	"sync"
	"sync/atomic"
	"time"

	"midiplay/config"
	"midiplay/debug"
	"midiplay/keys"
	"midiplay/midi"
)

const (
	pausePollInterval    = 10 * time.Millisecond
	dispatchPollInterval = 500 * time.Microsecond
)

// Engine owns a single playback session at a time. Starting a new
// session stops and joins the previous one first.
type Engine struct {
	injector keys.Injector

	playing atomic.Bool
	paused  atomic.Bool

	mu   sync.Mutex
	done chan struct{}
}

func New(injector keys.Injector) *Engine {
	return &Engine{injector: injector}
}

// Start begins playback of the file with a snapshot of the current
// config. Any session already running is stopped first.
func (e *Engine) Start(f *midi.File, cfg *config.Config) {
	e.Stop()

	timeline := BuildTimeline(f, cfg)
	if len(timeline) == 0 {
		debug.Log("player", "empty timeline, nothing to play")
		return
	}

	done := make(chan struct{})
	e.mu.Lock()
	e.done = done
	e.mu.Unlock()

	e.playing.Store(true)
	e.paused.Store(false)
	go e.run(timeline, cfg.TempoFactor, cfg.StartDelayMs, done)
}

func (e *Engine) run(timeline []ScheduledEvent, tempoFactor float64, startDelayMs uint64, done chan struct{}) {
	defer close(done)
	defer e.playing.Store(false)
	defer e.injector.ReleaseAll()

	debug.Log("player", "session start: %d events, factor %.2f, delay %dms",
		len(timeline), tempoFactor, startDelayMs)

	start := time.Now()
	if !e.sleepDelay(time.Duration(startDelayMs) * time.Millisecond) {
		return
	}

	next := 0
	for e.playing.Load() {
		if e.paused.Load() {
			time.Sleep(pausePollInterval)
			continue
		}

		elapsed := uint64(float64(time.Since(start).Milliseconds()) * tempoFactor)
		for next < len(timeline) && timeline[next].TimeMs <= elapsed {
			ev := timeline[next]
			var err error
			if ev.Direction == KeyDown {
				err = e.injector.PressKey(ev.Key, ev.Modifier)
			} else {
				err = e.injector.ReleaseKey(ev.Key, ev.Modifier)
			}
			if err != nil {
				debug.Log("player", "inject %s %s: %v", ev.Key, ev.Direction, err)
			}
			next++
		}
		if next >= len(timeline) {
			debug.Log("player", "session complete")
			return
		}
		time.Sleep(dispatchPollInterval)
	}
}

// sleepDelay waits out the start delay in short slices so Stop can
// interrupt it. Returns false if playback was stopped while waiting.
func (e *Engine) sleepDelay(d time.Duration) bool {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if !e.playing.Load() {
			return false
		}
		remaining := time.Until(deadline)
		if remaining > pausePollInterval {
			remaining = pausePollInterval
		}
		time.Sleep(remaining)
	}
	return e.playing.Load()
}

// Pause toggles the paused state. Entering pause releases all held
// keys; the session clock keeps running, so resuming catches up.
func (e *Engine) Pause() {
	if !e.playing.Load() {
		return
	}
	if e.paused.CompareAndSwap(false, true) {
		e.injector.ReleaseAll()
		debug.Log("player", "paused")
		return
	}
	e.paused.Store(false)
	debug.Log("player", "resumed")
}

// Stop ends the current session, if any, and waits for its worker to
// finish before returning.
func (e *Engine) Stop() {
	e.playing.Store(false)
	e.paused.Store(false)

	e.mu.Lock()
	done := e.done
	e.done = nil
	e.mu.Unlock()

	if done != nil {
		<-done
		debug.Log("player", "session stopped")
	}
}

func (e *Engine) IsPlaying() bool { return e.playing.Load() }
func (e *Engine) IsPaused() bool  { return e.paused.Load() }
