package keys

// Modifier is the accidental modifier held together with a key.
type Modifier int

const (
	ModNone  Modifier = iota
	ModShift          // sharp, +1 semitone
	ModCtrl           // flat, -1 semitone
)

func (m Modifier) String() string {
	switch m {
	case ModShift:
		return "shift"
	case ModCtrl:
		return "ctrl"
	}
	return "none"
}

// Injector delivers key actions to the host. Delivery is best-effort:
// the player logs failures and keeps going, so implementations should
// not retry.
type Injector interface {
	PressKey(key string, mod Modifier) error
	ReleaseKey(key string, mod Modifier) error
	ReleaseAll() error
}
