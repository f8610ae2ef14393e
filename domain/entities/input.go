package entities

import "fmt"

// Vector2 is a screen-space position in pixels
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// KeyCode represents an input key or mouse button understood by the driver
type KeyCode string

const (
	KeyMouse0 KeyCode = "Mouse0"
	KeyMouse1 KeyCode = "Mouse1"
	KeySpace  KeyCode = "Space"
	KeyEscape KeyCode = "Escape"
	KeyReturn KeyCode = "Return"
	KeyW      KeyCode = "W"
	KeyA      KeyCode = "A"
	KeyS      KeyCode = "S"
	KeyD      KeyCode = "D"
	KeyR      KeyCode = "R"
)
