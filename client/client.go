// Package client implements the protocol side of a trivia client: framing,
// request/response round trips and connection lifecycle. The interactive
// menu in cmd/triviaclient is a thin layer on top of it.
package client

import (
	goerrors "errors"
	"fmt"
	"io"
	"net"
	"time"

	"trivia-lab/domain"
	"trivia-lab/errors"
	"trivia-lab/protocol"
)

// Client is a blocking, single-request-at-a-time protocol client.
// It is not safe for concurrent use.
type Client struct {
	conn    net.Conn
	buf     []byte
	timeout time.Duration
}

// Dial connects to a trivia server.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return &Client{conn: conn, timeout: timeout}, nil
}

// Do sends one command and waits for the single reply the server produces
// for it. Leftover bytes from a previous read are consumed first, so
// replies coalesced into one TCP segment are not lost.
func (c *Client) Do(cmd, data string) (domain.Message, error) {
	frame, err := protocol.BuildMessage(cmd, data)
	if err != nil {
		return domain.Message{}, fmt.Errorf("building %s frame: %w", cmd, err)
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if _, err := io.WriteString(c.conn, frame); err != nil {
		return domain.Message{}, fmt.Errorf("sending %s: %w", cmd, err)
	}
	return c.readMessage()
}

// Send transmits a command without waiting for a reply. LOGOUT is the only
// command the server answers with silence.
func (c *Client) Send(cmd, data string) error {
	frame, err := protocol.BuildMessage(cmd, data)
	if err != nil {
		return fmt.Errorf("building %s frame: %w", cmd, err)
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if _, err := io.WriteString(c.conn, frame); err != nil {
		return fmt.Errorf("sending %s: %w", cmd, err)
	}
	return nil
}

func (c *Client) readMessage() (domain.Message, error) {
	chunk := make([]byte, protocol.MaxMessageLength)
	for {
		cmd, data, err := protocol.ParseMessage(c.buf)
		if err == nil {
			c.buf = c.buf[protocol.HeaderLength+len(data):]
			return domain.Message{Command: cmd, Data: data}, nil
		}
		if !goerrors.Is(err, errors.ErrIncompleteFrame) {
			return domain.Message{}, err
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(c.timeout))
		n, err := c.conn.Read(chunk)
		if n > 0 {
			c.buf = append(c.buf, chunk[:n]...)
			continue
		}
		if err != nil {
			return domain.Message{}, fmt.Errorf("reading reply: %w", err)
		}
	}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
