package alttester

import (
	"errors"
	"fmt"

	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
)

// Command names understood by the AltTester server
const (
	cmdLoadScene        = "loadScene"
	cmdGetCurrentScene  = "getCurrentScene"
	cmdFindObject       = "findObject"
	cmdUpdateObject     = "updateObject"
	cmdTapElement       = "tapElement"
	cmdGetText          = "getText"
	cmdMoveMouse        = "moveMouse"
	cmdPressKeyboardKey = "pressKeyboardKey"
)

// Trailing acknowledgements sent once a waited-for action has completed
const (
	ackFinished    = "Finished"
	ackSceneLoaded = "Scene Loaded"
)

const (
	errTypeNotFound      = "notFound"
	errTypeSceneNotFound = "sceneNotFound"
)

var (
	// ErrSceneNotFound is matched by server errors about unknown scenes
	ErrSceneNotFound = errors.New("scene not found")

	// ErrUnexpectedResponse is returned when a completion frame carries the wrong value
	ErrUnexpectedResponse = errors.New("unexpected response")
)

type request interface {
	header() *commandHeader
}

type commandHeader struct {
	MessageID   string `json:"messageId"`
	CommandName string `json:"commandName"`
}

func (h *commandHeader) header() *commandHeader { return h }

type loadSceneParams struct {
	commandHeader
	SceneName  string `json:"sceneName"`
	LoadSingle bool   `json:"loadSingle"`
}

type getCurrentSceneParams struct {
	commandHeader
}

type findObjectParams struct {
	commandHeader
	By         string `json:"by"`
	Value      string `json:"value"`
	CameraBy   string `json:"cameraBy"`
	CameraPath string `json:"cameraPath"`
	Enabled    bool   `json:"enabled"`
}

type objectParams struct {
	commandHeader
	AltObject entities.ObjectInfo `json:"altObject"`
}

type tapElementParams struct {
	commandHeader
	AltObject entities.ObjectInfo `json:"altObject"`
	Count     int                 `json:"count"`
	Interval  float64             `json:"interval"`
	Wait      bool                `json:"wait"`
}

type moveMouseParams struct {
	commandHeader
	Coordinates entities.Vector2 `json:"coordinates"`
	Duration    float64          `json:"duration"`
	Wait        bool             `json:"wait"`
}

type pressKeyParams struct {
	commandHeader
	KeyCode  entities.KeyCode `json:"keyCode"`
	Power    float64          `json:"power"`
	Duration float64          `json:"duration"`
	Wait     bool             `json:"wait"`
}

type response struct {
	MessageID      string        `json:"messageId"`
	CommandName    string        `json:"commandName"`
	Data           string        `json:"data"`
	Error          *CommandError `json:"error"`
	IsNotification bool          `json:"isNotification"`
}

// CommandError is an error reported by the AltTester server
type CommandError struct {
	Command string `json:"-"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Trace   string `json:"trace,omitempty"`
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Command, e.Type, e.Message)
}

// Is maps server error types onto the package sentinels
func (e *CommandError) Is(target error) bool {
	switch target {
	case interfaces.ErrObjectNotFound:
		return e.Type == errTypeNotFound
	case ErrSceneNotFound:
		return e.Type == errTypeSceneNotFound
	}
	return false
}
