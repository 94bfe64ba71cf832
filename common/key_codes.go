package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87  // W key (ASCII)
	KeyA     = 65  // A key (ASCII)
	KeyS     = 83  // S key (ASCII)
	KeyD     = 68  // D key (ASCII)
	KeyQ     = 81  // Q key (ASCII)
	KeyE     = 69  // E key (ASCII)
	KeyP     = 80  // P key (ASCII)
	KeySpace = 32  // Spacebar (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)
	KeyF3    = 292 // F3 key (GLFW)

	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
)
