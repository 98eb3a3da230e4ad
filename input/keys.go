package input

// Key is a keyboard key code. Key values occupy bits 0-127 of the input
// state.
type Key uint8

const (
	// Letters
	KeyQ Key = iota
	KeyW
	KeyE
	KeyR
	KeyT
	KeyY
	KeyU
	KeyI
	KeyO
	KeyP
	KeyA
	KeyS
	KeyD
	KeyF
	KeyG
	KeyH
	KeyJ
	KeyK
	KeyL
	KeyZ
	KeyX
	KeyC
	KeyV
	KeyB
	KeyN
	KeyM

	// Numbers
	KeyNum0
	KeyNum1
	KeyNum2
	KeyNum3
	KeyNum4
	KeyNum5
	KeyNum6
	KeyNum7
	KeyNum8
	KeyNum9

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Navigation
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Editing
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyTab
	KeyEnter
	KeyEscape
	KeySpace

	// Modifiers
	KeyLShift
	KeyRShift
	KeyLControl
	KeyRControl
	KeyLAlt
	KeyRAlt
	KeyLSuper
	KeyRSuper

	// Special
	KeyCapsLock
	KeyNumLock
	KeyScrollLock
	KeyPrintScreen
	KeyPause

	// Punctuation
	KeyMinus
	KeyEquals
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeySemicolon
	KeyApostrophe
	KeyComma
	KeyPeriod
	KeySlash
	KeyGrave
)

// MouseButton is a mouse button code. Button values occupy bits 128-255 of
// the input state.
type MouseButton uint8

const (
	MouseForward MouseButton = iota
	MouseBack
	MouseLeft
	MouseRight
	MouseMiddle

	// MaxButton is the highest button code with a bit in the input state.
	MaxButton MouseButton = 127
)

// OtherMouseButton maps an extra hardware button to a code after the named
// ones. Codes saturate at MaxButton; hardware past that shares the last code.
func OtherMouseButton(n uint8) MouseButton {
	if n > uint8(MaxButton-MouseMiddle-1) {
		return MaxButton
	}
	return MouseMiddle + 1 + MouseButton(n)
}
