// Package input tracks keyboard and mouse state across frames and maps
// hardware inputs to named actions.
//
// State is stored as a 256-bit array, with keys in bits 0-127 and mouse
// buttons in bits 128-255. Both the current and the previous frame are kept,
// which gives frame-accurate pressed, just-pressed, and just-released
// queries. The host feeds events via SetKey, SetButton, and the mouse
// setters, and calls NextFrame once per step.
package input

// sourceKind discriminates the variants of Source.
type sourceKind uint8

const (
	sourceKey sourceKind = iota
	sourceButton
	sourceChord
	sourceButtonChord
)

// Source is one hardware input that can trigger an action: a key, a mouse
// button, or a modifier chord.
type Source struct {
	kind   sourceKind
	mod    Key
	key    Key
	button MouseButton
}

// KeySource triggers on a single key.
func KeySource(key Key) Source {
	return Source{kind: sourceKey, key: key}
}

// ButtonSource triggers on a single mouse button.
func ButtonSource(button MouseButton) Source {
	return Source{kind: sourceButton, button: button}
}

// Chord triggers on a key while a modifier key is held.
func Chord(mod, key Key) Source {
	return Source{kind: sourceChord, mod: mod, key: key}
}

// ButtonChord triggers on a mouse button while a modifier key is held.
func ButtonChord(mod Key, button MouseButton) Source {
	return Source{kind: sourceButtonChord, mod: mod, button: button}
}

// checkMode selects which frame comparison a source check uses.
type checkMode uint8

const (
	modePressed checkMode = iota
	modeJust
	modeReleased
)

const mouseOffset = 128

// State is the input state manager. It is not safe for concurrent use.
type State struct {
	current  [4]uint64
	previous [4]uint64

	mouseX, mouseY   float32
	motionX, motionY float32
	wheelX, wheelY   float32

	bindings map[string][]Source
}

// NewState creates an empty input state with no bindings.
func NewState() *State {
	return &State{
		bindings: make(map[string][]Source),
	}
}

// -------------------------------------------------------------------------------------------------
// Keyboard
// -------------------------------------------------------------------------------------------------

// KeyPressed reports whether the key is currently held down.
func (s *State) KeyPressed(key Key) bool {
	return bitSet(&s.current, int(key))
}

// KeyJustPressed reports whether the key went down this frame.
func (s *State) KeyJustPressed(key Key) bool {
	return s.KeyPressed(key) && !s.wasKeyPressed(key)
}

// KeyJustReleased reports whether the key went up this frame.
func (s *State) KeyJustReleased(key Key) bool {
	return !s.KeyPressed(key) && s.wasKeyPressed(key)
}

func (s *State) wasKeyPressed(key Key) bool {
	return bitSet(&s.previous, int(key))
}

// -------------------------------------------------------------------------------------------------
// Mouse buttons
// -------------------------------------------------------------------------------------------------

// ButtonPressed reports whether the mouse button is currently held down.
// Codes above MaxButton never read as pressed.
func (s *State) ButtonPressed(button MouseButton) bool {
	return button <= MaxButton && bitSet(&s.current, mouseOffset+int(button))
}

// ButtonJustPressed reports whether the mouse button went down this frame.
func (s *State) ButtonJustPressed(button MouseButton) bool {
	return s.ButtonPressed(button) && !s.wasButtonPressed(button)
}

// ButtonJustReleased reports whether the mouse button went up this frame.
func (s *State) ButtonJustReleased(button MouseButton) bool {
	return !s.ButtonPressed(button) && s.wasButtonPressed(button)
}

func (s *State) wasButtonPressed(button MouseButton) bool {
	return button <= MaxButton && bitSet(&s.previous, mouseOffset+int(button))
}

// -------------------------------------------------------------------------------------------------
// Action bindings
// -------------------------------------------------------------------------------------------------

// Bind registers an input source for a named action. Multiple sources can be
// bound to the same action; the action triggers if any of them is activated.
func (s *State) Bind(action string, source Source) {
	s.bindings[action] = append(s.bindings[action], source)
}

// ActionPressed reports whether any source bound to the action is currently
// held. For chords, both the modifier and the key must be held.
func (s *State) ActionPressed(action string) bool {
	return s.checkAction(action, modePressed)
}

// ActionJustPressed reports whether any source bound to the action triggered
// this frame. For chords, this is the frame when the non-modifier input
// completes the chord.
func (s *State) ActionJustPressed(action string) bool {
	return s.checkAction(action, modeJust)
}

// ActionJustReleased reports whether any source bound to the action released
// this frame. For chords, this is the release of the non-modifier input while
// the modifier is still held.
func (s *State) ActionJustReleased(action string) bool {
	return s.checkAction(action, modeReleased)
}

func (s *State) checkAction(action string, mode checkMode) bool {
	for _, source := range s.bindings[action] {
		if s.checkSource(source, mode) {
			return true
		}
	}
	return false
}

func (s *State) checkSource(source Source, mode checkMode) bool {
	switch source.kind {
	case sourceKey:
		switch mode {
		case modePressed:
			return s.KeyPressed(source.key)
		case modeJust:
			return s.KeyJustPressed(source.key)
		case modeReleased:
			return s.KeyJustReleased(source.key)
		}
	case sourceButton:
		switch mode {
		case modePressed:
			return s.ButtonPressed(source.button)
		case modeJust:
			return s.ButtonJustPressed(source.button)
		case modeReleased:
			return s.ButtonJustReleased(source.button)
		}
	case sourceChord:
		switch mode {
		case modePressed:
			return s.KeyPressed(source.mod) && s.KeyPressed(source.key)
		case modeJust:
			return s.KeyPressed(source.mod) && s.KeyJustPressed(source.key)
		case modeReleased:
			return s.KeyPressed(source.mod) && s.KeyJustReleased(source.key)
		}
	case sourceButtonChord:
		switch mode {
		case modePressed:
			return s.KeyPressed(source.mod) && s.ButtonPressed(source.button)
		case modeJust:
			return s.KeyPressed(source.mod) && s.ButtonJustPressed(source.button)
		case modeReleased:
			return s.KeyPressed(source.mod) && s.ButtonJustReleased(source.button)
		}
	}
	return false
}

// -------------------------------------------------------------------------------------------------
// Event feed
// -------------------------------------------------------------------------------------------------

// SetKey records a key press or release for the current frame.
func (s *State) SetKey(key Key, pressed bool) {
	setBit(&s.current, int(key), pressed)
}

// SetButton records a mouse button press or release for the current frame.
// Codes above MaxButton are dropped.
func (s *State) SetButton(button MouseButton, pressed bool) {
	if button > MaxButton {
		return
	}
	setBit(&s.current, mouseOffset+int(button), pressed)
}

// SetMousePosition records the cursor position.
func (s *State) SetMousePosition(x, y float32) {
	s.mouseX, s.mouseY = x, y
}

// AddMouseMotion accumulates relative cursor motion for the current frame.
func (s *State) AddMouseMotion(dx, dy float32) {
	s.motionX += dx
	s.motionY += dy
}

// SetMouseWheel records the wheel delta for the current frame.
func (s *State) SetMouseWheel(dx, dy float32) {
	s.wheelX, s.wheelY = dx, dy
}

// MousePosition returns the cursor position.
func (s *State) MousePosition() (x, y float32) {
	return s.mouseX, s.mouseY
}

// MouseMotion returns the relative cursor motion accumulated this frame.
func (s *State) MouseMotion() (dx, dy float32) {
	return s.motionX, s.motionY
}

// MouseWheel returns the wheel delta for this frame.
func (s *State) MouseWheel() (dx, dy float32) {
	return s.wheelX, s.wheelY
}

// NextFrame rolls the state over to the next frame. The current bits become
// the previous bits and the per-frame accumulators reset. Called once per
// step, after systems have run.
func (s *State) NextFrame() {
	s.previous = s.current
	s.motionX, s.motionY = 0, 0
	s.wheelX, s.wheelY = 0, 0
}

func bitSet(bits *[4]uint64, bit int) bool {
	return bits[bit>>6]&(1<<(bit&63)) != 0
}

func setBit(bits *[4]uint64, bit int, pressed bool) {
	if pressed {
		bits[bit>>6] |= 1 << (bit & 63)
	} else {
		bits[bit>>6] &^= 1 << (bit & 63)
	}
}
