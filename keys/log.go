package keys

import "midiplay/debug"

// LogInjector writes every key action to the debug log instead of
// touching the host. The default for dry runs.
type LogInjector struct{}

func (LogInjector) PressKey(key string, mod Modifier) error {
	debug.Log("keys", "press %s mod=%s", key, mod)
	return nil
}

func (LogInjector) ReleaseKey(key string, mod Modifier) error {
	debug.Log("keys", "release %s mod=%s", key, mod)
	return nil
}

func (LogInjector) ReleaseAll() error {
	debug.Log("keys", "release all")
	return nil
}
