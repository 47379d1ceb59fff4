package window

import "github.com/go-gl/glfw/v3.3/glfw"

// Key identifies a keyboard key the demo host reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeySpace
	KeyR
	KeyB
	KeyEqual
	KeyMinus
)

var glfwKeys = map[glfw.Key]Key{
	glfw.KeyLeft:       KeyLeft,
	glfw.KeyA:          KeyLeft,
	glfw.KeyRight:      KeyRight,
	glfw.KeyD:          KeyRight,
	glfw.KeyUp:         KeyUp,
	glfw.KeyW:          KeyUp,
	glfw.KeyDown:       KeyDown,
	glfw.KeyS:          KeyDown,
	glfw.KeySpace:      KeySpace,
	glfw.KeyR:          KeyR,
	glfw.KeyB:          KeyB,
	glfw.KeyEqual:      KeyEqual,
	glfw.KeyKPAdd:      KeyEqual,
	glfw.KeyMinus:      KeyMinus,
	glfw.KeyKPSubtract: KeyMinus,
}

// fromGLFW maps a GLFW key to a Key, or KeyUnknown.
func fromGLFW(k glfw.Key) Key {
	if key, ok := glfwKeys[k]; ok {
		return key
	}
	return KeyUnknown
}
