package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/artuross/sexpc/internal/commands/serve/server"
	"github.com/artuross/sexpc/internal/compiler"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"golang.org/x/net/proxy"
)

var ErrStageNotSupported = errors.New("stage not supported by remote compiler")

// Connection sends sources to a sexpc server. Requests on one connection are serialized.
type Connection struct {
	mu   sync.Mutex
	conn net.Conn
	rd   io.Reader
}

func NewConnection(ctx context.Context, connURL string) (*Connection, error) {
	dialer := ws.Dialer{
		NetDial: proxy.Dial,
	}

	connURL = strings.Replace(connURL, "https://", "wss://", 1)
	connURL = strings.Replace(connURL, "http://", "ws://", 1)

	conn, reader, _, err := dialer.Dial(ctx, connURL)
	if err != nil {
		return nil, fmt.Errorf("connect to WebSocket server: %w", err)
	}

	connection := Connection{
		conn: conn,
		rd:   conn,
	}

	// frames sent right after the handshake may already be buffered
	if reader != nil {
		connection.rd = reader
	}

	return &connection, nil
}

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ws.WriteFrame(c.conn, ws.MaskFrame(ws.NewCloseFrame(nil))); err != nil {
		return fmt.Errorf("write close frame: %w", err)
	}

	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("close conn: %w", err)
	}

	return nil
}

// Compile sends one source and waits for its response. A compile failure is reported in
// the response, not as an error.
func (c *Connection) Compile(ctx context.Context, source string) (*server.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	if err := wsutil.WriteClientMessage(c.conn, ws.OpText, []byte(source)); err != nil {
		return nil, fmt.Errorf("write message: %w", err)
	}

	rw := struct {
		io.Reader
		io.Writer
	}{c.rd, c.conn}

	for {
		data, op, err := wsutil.ReadServerData(rw)
		if err != nil {
			return nil, fmt.Errorf("read message: %w", err)
		}

		if op != ws.OpText {
			continue
		}

		var response server.Response
		if err := json.Unmarshal(data, &response); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}

		return &response, nil
	}
}

// Dump compiles source remotely. Servers only return generated code, so StageCode is the
// only stage supported.
func (c *Connection) Dump(ctx context.Context, source string, stage compiler.Stage) (string, error) {
	if stage != compiler.StageCode {
		return "", fmt.Errorf("%w: %s", ErrStageNotSupported, stage)
	}

	response, err := c.Compile(ctx, source)
	if err != nil {
		return "", err
	}

	if err := response.Err(); err != nil {
		return "", err
	}

	return response.Output, nil
}
