package alttester

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a command to the server.
	writeWait = 10 * time.Second

	handshakeTimeout = 10 * time.Second
	driverPath       = "/altws"
)

// connection serialises request/response pairs over one websocket
type connection struct {
	mu              sync.Mutex
	ws              *websocket.Conn
	logger          *logrus.Logger
	responseTimeout time.Duration
}

func endpoint(cfg Config) string {
	u := url.URL{
		Scheme:   "ws",
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     driverPath,
		RawQuery: url.Values{"appName": {cfg.AppName}}.Encode(),
	}
	return u.String()
}

func dial(ctx context.Context, cfg Config, logger *logrus.Logger) (*connection, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	ws, resp, err := dialer.DialContext(ctx, endpoint(cfg), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &connection{ws: ws, logger: logger, responseTimeout: cfg.ResponseTimeout}, nil
}

// call sends one command and waits for its response, skipping notifications
// and responses to other messages
func (c *connection) call(ctx context.Context, name string, req request, out any) error {
	return c.exchange(ctx, name, req, out, "")
}

// callAndWait is call for commands the server acknowledges twice: first with
// the command result, then with trailer once the action has completed
func (c *connection) callAndWait(ctx context.Context, name string, req request, out any, trailer string) error {
	return c.exchange(ctx, name, req, out, trailer)
}

func (c *connection) exchange(ctx context.Context, name string, req request, out any, trailer string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := req.header()
	h.MessageID = uuid.NewString()
	h.CommandName = name

	log := c.logger.WithFields(logrus.Fields{"command": name, "messageId": h.MessageID})
	log.Debug("alttester: sending command")

	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(req); err != nil {
		return fmt.Errorf("failed to send %s: %w", name, err)
	}

	deadline := time.Now().Add(c.responseTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.ws.SetReadDeadline(deadline)

	if err := c.receive(name, h.MessageID, log, out); err != nil {
		return err
	}
	if trailer == "" {
		return nil
	}

	var done string
	if err := c.receive(name, h.MessageID, log, &done); err != nil {
		return err
	}
	if done != trailer {
		return fmt.Errorf("%w: %s answered %q, expected %q", ErrUnexpectedResponse, name, done, trailer)
	}
	return nil
}

// receive reads frames until the one answering messageID arrives
func (c *connection) receive(name, messageID string, log *logrus.Entry, out any) error {
	for {
		var resp response
		if err := c.ws.ReadJSON(&resp); err != nil {
			return fmt.Errorf("failed to read %s response: %w", name, err)
		}
		if resp.IsNotification || resp.MessageID != messageID {
			log.WithField("received", resp.CommandName).Debug("alttester: skipping unrelated message")
			continue
		}
		if resp.Error != nil {
			resp.Error.Command = name
			return resp.Error
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal([]byte(resp.Data), out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", name, err)
		}
		return nil
	}
}

func (c *connection) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return c.ws.Close()
}
