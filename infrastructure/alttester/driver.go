// Package alttester drives a running game through the AltTester websocket
// protocol.
package alttester

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
	"lyra_automation/infrastructure/wait"
)

const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 13000
	DefaultAppName         = "__default__"
	DefaultConnectTimeout  = 60 * time.Second
	DefaultResponseTimeout = 60 * time.Second

	findPollInterval    = 500 * time.Millisecond
	connectPollInterval = time.Second
)

// Config describes where the AltTester server listens
type Config struct {
	Host            string
	Port            int
	AppName         string
	ConnectTimeout  time.Duration
	ResponseTimeout time.Duration
}

// DefaultConfig - returns the AltTester defaults
func DefaultConfig() Config {
	return Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		AppName:         DefaultAppName,
		ConnectTimeout:  DefaultConnectTimeout,
		ResponseTimeout: DefaultResponseTimeout,
	}
}

// Driver is an interfaces.GameDriver talking to an AltTester server
type Driver struct {
	conn   *connection
	waiter *wait.Waiter
	logger *logrus.Logger
}

// NewDriver - connects to the AltTester server, retrying until the connect
// timeout elapses
func NewDriver(ctx context.Context, cfg Config, logger *logrus.Logger) (*Driver, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.ResponseTimeout <= 0 {
		cfg.ResponseTimeout = DefaultResponseTimeout
	}

	waiter := wait.New(wait.WithLogger(logger))
	log := logger.WithField("endpoint", endpoint(cfg))
	log.Info("Connecting to AltTester server")

	conn, err := wait.Retry(waiter, func() (*connection, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return dial(ctx, cfg, logger)
	}, wait.Timeout(cfg.ConnectTimeout), wait.Interval(connectPollInterval))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AltTester server: %w", err)
	}

	log.Info("Connected to AltTester server")
	return &Driver{conn: conn, waiter: waiter, logger: logger}, nil
}

// LoadScene - loads a scene in single mode and blocks until the server
// reports it loaded
func (d *Driver) LoadScene(ctx context.Context, scene string) error {
	var ack string
	params := &loadSceneParams{SceneName: scene, LoadSingle: true}
	if err := d.conn.callAndWait(ctx, cmdLoadScene, params, &ack, ackSceneLoaded); err != nil {
		return err
	}
	d.logger.WithFields(logrus.Fields{"scene": scene, "ack": ack}).Debug("alttester: scene loaded")
	return nil
}

// GetCurrentScene - returns the name of the active scene
func (d *Driver) GetCurrentScene(ctx context.Context) (string, error) {
	var scene entities.ObjectInfo
	if err := d.conn.call(ctx, cmdGetCurrentScene, &getCurrentSceneParams{}, &scene); err != nil {
		return "", err
	}
	return scene.Name, nil
}

// FindObject - looks up the first enabled object matching selector
func (d *Driver) FindObject(ctx context.Context, selector entities.Selector) (interfaces.GameObject, error) {
	params := &findObjectParams{
		By:       string(entities.ByPath),
		Value:    selector.ObjectPath(),
		CameraBy: string(entities.ByName),
		Enabled:  true,
	}
	var info entities.ObjectInfo
	if err := d.conn.call(ctx, cmdFindObject, params, &info); err != nil {
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}
	return &object{driver: d, info: info}, nil
}

// WaitForObject - polls FindObject until the object appears or timeout elapses
func (d *Driver) WaitForObject(ctx context.Context, selector entities.Selector, timeout time.Duration) (interfaces.GameObject, error) {
	obj, err := wait.Retry(d.waiter, func() (interfaces.GameObject, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return d.FindObject(ctx, selector)
	}, wait.Timeout(timeout), wait.Interval(findPollInterval))
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", selector, err)
	}
	return obj, nil
}

// MoveMouse - moves the cursor and blocks until the move finished
func (d *Driver) MoveMouse(ctx context.Context, position entities.Vector2, duration time.Duration) error {
	params := &moveMouseParams{Coordinates: position, Duration: duration.Seconds(), Wait: true}
	return d.conn.callAndWait(ctx, cmdMoveMouse, params, nil, ackFinished)
}

// PressKey - holds key at full power for duration and blocks until released
func (d *Driver) PressKey(ctx context.Context, key entities.KeyCode, duration time.Duration) error {
	params := &pressKeyParams{KeyCode: key, Power: 1, Duration: duration.Seconds(), Wait: true}
	return d.conn.callAndWait(ctx, cmdPressKeyboardKey, params, nil, ackFinished)
}

// Close - closes the connection
func (d *Driver) Close() error {
	d.logger.Info("Disconnecting from AltTester server")
	return d.conn.close()
}

var _ interfaces.GameDriver = (*Driver)(nil)
