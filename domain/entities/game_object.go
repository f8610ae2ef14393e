package entities

// ObjectInfo describes a scene object as reported by the game
type ObjectInfo struct {
	Name              string  `json:"name"`
	ID                int64   `json:"id"`
	X                 int     `json:"x"`
	Y                 int     `json:"y"`
	Z                 int     `json:"z"`
	MobileY           int     `json:"mobileY"`
	Type              string  `json:"type"`
	Enabled           bool    `json:"enabled"`
	WorldX            float64 `json:"worldX"`
	WorldY            float64 `json:"worldY"`
	WorldZ            float64 `json:"worldZ"`
	IDCamera          int64   `json:"idCamera"`
	TransformParentID int64   `json:"transformParentId"`
	TransformID       int64   `json:"transformId"`
}

// ScreenPosition - returns the screen position captured with the object
func (o ObjectInfo) ScreenPosition() Vector2 {
	return Vector2{X: float64(o.X), Y: float64(o.Y)}
}
