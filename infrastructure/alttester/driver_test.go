package alttester

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
)

// handler answers one decoded command; a nil error type means success
type handler func(cmd map[string]any) (data any, errType string)

type fakeServer struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	commands []map[string]any
	handle   handler
	notify   bool
	appName  string

	// trailer picks the completion frame sent after a successful response
	trailer    func(cmd map[string]any) (string, bool)
	trailDelay time.Duration
}

// completionFrame mirrors the server: waited-for input and scene loads are
// acknowledged a second time once done
func completionFrame(cmd map[string]any) (string, bool) {
	switch cmd["commandName"] {
	case cmdLoadScene:
		return ackSceneLoaded, true
	case cmdMoveMouse, cmdPressKeyboardKey, cmdTapElement:
		if cmd["wait"] == true {
			return ackFinished, true
		}
	}
	return "", false
}

func newFakeServer(t *testing.T, handle handler) *fakeServer {
	t.Helper()
	fs := &fakeServer{t: t, handle: handle, trailer: completionFrame}
	upgrader := websocket.Upgrader{}

	mux := http.NewServeMux()
	mux.HandleFunc(driverPath, func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.appName = r.URL.Query().Get("appName")
		fs.mu.Unlock()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var cmd map[string]any
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			fs.mu.Lock()
			fs.commands = append(fs.commands, cmd)
			notify := fs.notify
			trailer, delay := fs.trailer, fs.trailDelay
			fs.mu.Unlock()

			if notify {
				conn.WriteJSON(response{CommandName: "loadSceneNotification", Data: `"L_Other"`, IsNotification: true})
				conn.WriteJSON(response{MessageID: "stale", CommandName: "getText", Data: `"stale"`})
			}

			data, errType := fs.handle(cmd)
			resp := response{MessageID: cmd["messageId"].(string), CommandName: cmd["commandName"].(string)}
			if errType != "" {
				resp.Error = &CommandError{Type: errType, Message: "server says no"}
			} else {
				raw, _ := json.Marshal(data)
				resp.Data = string(raw)
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
			if errType != "" {
				continue
			}
			if done, ok := trailer(cmd); ok {
				time.Sleep(delay)
				raw, _ := json.Marshal(done)
				frame := response{MessageID: resp.MessageID, CommandName: resp.CommandName, Data: string(raw)}
				if err := conn.WriteJSON(frame); err != nil {
					return
				}
			}
		}
	})
	fs.server = httptest.NewServer(mux)
	t.Cleanup(fs.server.Close)
	return fs
}

func (fs *fakeServer) config() Config {
	u, _ := url.Parse(fs.server.URL)
	host, portStr, _ := net.SplitHostPort(u.Host)
	port, _ := strconv.Atoi(portStr)
	cfg := DefaultConfig()
	cfg.Host = host
	cfg.Port = port
	cfg.ConnectTimeout = 0
	cfg.ResponseTimeout = 5 * time.Second
	return cfg
}

func (fs *fakeServer) last() map[string]any {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.commands[len(fs.commands)-1]
}

func (fs *fakeServer) count(name string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	n := 0
	for _, cmd := range fs.commands {
		if cmd["commandName"] == name {
			n++
		}
	}
	return n
}

func connect(t *testing.T, fs *fakeServer) *Driver {
	t.Helper()
	logger, _ := test.NewNullLogger()
	d, err := NewDriver(context.Background(), fs.config(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func lyraServer(cmd map[string]any) (any, string) {
	switch cmd["commandName"] {
	case cmdGetCurrentScene:
		return entities.ObjectInfo{Name: entities.SceneFrontEnd}, ""
	case cmdLoadScene:
		return "Ok", ""
	case cmdFindObject:
		if cmd["value"] == entities.Name("StartGameButton").ObjectPath() {
			return entities.ObjectInfo{Name: "StartGameButton", ID: 7, X: 640, Y: 360, Enabled: true}, ""
		}
		return nil, errTypeNotFound
	case cmdGetText:
		return "Play Lyra", ""
	case cmdTapElement:
		return cmd["altObject"], ""
	case cmdUpdateObject:
		return entities.ObjectInfo{Name: "StartGameButton", ID: 7, X: 650, Y: 370, Enabled: true}, ""
	case cmdMoveMouse, cmdPressKeyboardKey:
		return "Ok", ""
	}
	return nil, "unknownCommand"
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "ws://127.0.0.1:13000/altws?appName=__default__", endpoint(DefaultConfig()))
}

func TestConnectFailure(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := DefaultConfig()
	cfg.Port = 1
	cfg.ConnectTimeout = 0

	_, err := NewDriver(context.Background(), cfg, logger)

	assert.Error(t, err)
}

func TestSceneCommands(t *testing.T) {
	fs := newFakeServer(t, lyraServer)
	d := connect(t, fs)
	ctx := context.Background()

	require.NoError(t, d.LoadScene(ctx, entities.SceneShooterGym))
	cmd := fs.last()
	assert.Equal(t, cmdLoadScene, cmd["commandName"])
	assert.Equal(t, entities.SceneShooterGym, cmd["sceneName"])
	assert.Equal(t, true, cmd["loadSingle"])
	assert.NotEmpty(t, cmd["messageId"])

	scene, err := d.GetCurrentScene(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.SceneFrontEnd, scene)

	fs.mu.Lock()
	assert.Equal(t, DefaultAppName, fs.appName)
	fs.mu.Unlock()
}

func TestFindObject(t *testing.T) {
	fs := newFakeServer(t, lyraServer)
	d := connect(t, fs)
	ctx := context.Background()

	obj, err := d.FindObject(ctx, entities.Name("StartGameButton"))
	require.NoError(t, err)
	assert.Equal(t, "StartGameButton", obj.Info().Name)
	assert.True(t, obj.Enabled())

	cmd := fs.last()
	assert.Equal(t, "PATH", cmd["by"])
	assert.Equal(t, "//*[@name=StartGameButton]", cmd["value"])

	_, err = d.FindObject(ctx, entities.Name("HostButton"))
	assert.ErrorIs(t, err, interfaces.ErrObjectNotFound)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, cmdFindObject, cmdErr.Command)
}

func TestWaitForObjectPolls(t *testing.T) {
	fs := newFakeServer(t, lyraServer)
	d := connect(t, fs)

	_, err := d.WaitForObject(context.Background(), entities.Name("HostButton"), 600*time.Millisecond)

	assert.ErrorIs(t, err, interfaces.ErrObjectNotFound)
	assert.GreaterOrEqual(t, fs.count(cmdFindObject), 2)
}

func TestObjectCommands(t *testing.T) {
	fs := newFakeServer(t, lyraServer)
	d := connect(t, fs)
	ctx := context.Background()

	obj, err := d.FindObject(ctx, entities.Name("StartGameButton"))
	require.NoError(t, err)

	text, err := obj.GetText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Play Lyra", text)

	require.NoError(t, obj.Click(ctx))
	cmd := fs.last()
	assert.Equal(t, cmdTapElement, cmd["commandName"])
	assert.Equal(t, float64(1), cmd["count"])
	assert.Equal(t, "StartGameButton", cmd["altObject"].(map[string]any)["name"])

	pos, visible, err := obj.ScreenPosition(ctx)
	require.NoError(t, err)
	assert.True(t, visible)
	assert.Equal(t, entities.Vector2{X: 650, Y: 370}, pos)
}

func TestScreenPositionOfVanishedObject(t *testing.T) {
	fs := newFakeServer(t, func(cmd map[string]any) (any, string) {
		if cmd["commandName"] == cmdUpdateObject {
			return nil, errTypeNotFound
		}
		return lyraServer(cmd)
	})
	d := connect(t, fs)
	ctx := context.Background()

	obj, err := d.FindObject(ctx, entities.Name("StartGameButton"))
	require.NoError(t, err)

	_, visible, err := obj.ScreenPosition(ctx)
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestInputCommands(t *testing.T) {
	fs := newFakeServer(t, lyraServer)
	d := connect(t, fs)
	ctx := context.Background()

	require.NoError(t, d.MoveMouse(ctx, entities.Vector2{X: 100, Y: 200}, 250*time.Millisecond))
	cmd := fs.last()
	assert.Equal(t, cmdMoveMouse, cmd["commandName"])
	assert.Equal(t, map[string]any{"x": float64(100), "y": float64(200)}, cmd["coordinates"])
	assert.Equal(t, 0.25, cmd["duration"])

	require.NoError(t, d.PressKey(ctx, entities.KeyMouse0, 150*time.Millisecond))
	cmd = fs.last()
	assert.Equal(t, cmdPressKeyboardKey, cmd["commandName"])
	assert.Equal(t, "Mouse0", cmd["keyCode"])
	assert.Equal(t, float64(1), cmd["power"])
	assert.InDelta(t, 0.15, cmd["duration"], 1e-9)
}

func TestSkipsNotificationsAndStaleResponses(t *testing.T) {
	fs := newFakeServer(t, lyraServer)
	fs.mu.Lock()
	fs.notify = true
	fs.mu.Unlock()
	d := connect(t, fs)

	scene, err := d.GetCurrentScene(context.Background())

	require.NoError(t, err)
	assert.Equal(t, entities.SceneFrontEnd, scene)
}

func TestSceneNotFoundError(t *testing.T) {
	fs := newFakeServer(t, func(cmd map[string]any) (any, string) {
		return nil, errTypeSceneNotFound
	})
	d := connect(t, fs)

	err := d.LoadScene(context.Background(), "L_Nowhere")

	assert.ErrorIs(t, err, ErrSceneNotFound)
	assert.NotErrorIs(t, err, interfaces.ErrObjectNotFound)
}

func TestInputBlocksUntilFinished(t *testing.T) {
	fs := newFakeServer(t, lyraServer)
	fs.mu.Lock()
	fs.trailDelay = 300 * time.Millisecond
	fs.mu.Unlock()
	d := connect(t, fs)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, d.MoveMouse(ctx, entities.Vector2{X: 1, Y: 2}, 300*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond, "move returns once the server reports it finished")

	start = time.Now()
	require.NoError(t, d.PressKey(ctx, entities.KeyMouse0, 300*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)

	// the completion frames were consumed by their own calls
	scene, err := d.GetCurrentScene(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.SceneFrontEnd, scene)
}

func TestLoadSceneWaitsForSceneLoaded(t *testing.T) {
	fs := newFakeServer(t, lyraServer)
	fs.mu.Lock()
	fs.trailDelay = 200 * time.Millisecond
	fs.mu.Unlock()
	d := connect(t, fs)

	start := time.Now()
	require.NoError(t, d.LoadScene(context.Background(), entities.SceneShooterGym))
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestUnexpectedCompletionFrame(t *testing.T) {
	fs := newFakeServer(t, lyraServer)
	fs.mu.Lock()
	fs.trailer = func(cmd map[string]any) (string, bool) {
		if _, ok := completionFrame(cmd); ok {
			return "Aborted", true
		}
		return "", false
	}
	fs.mu.Unlock()
	d := connect(t, fs)

	err := d.PressKey(context.Background(), entities.KeyMouse0, 0)

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestCompletionFrameTimesOut(t *testing.T) {
	fs := newFakeServer(t, lyraServer)
	fs.mu.Lock()
	fs.trailer = func(map[string]any) (string, bool) { return "", false }
	fs.mu.Unlock()
	d := connect(t, fs)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := d.MoveMouse(ctx, entities.Vector2{X: 1, Y: 2}, 0)

	assert.Error(t, err, "a move without its Finished frame does not report success")
}
