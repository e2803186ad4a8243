// Package display owns one TCP session with an NEC-protocol display:
// dialing, frame transmit, bounded acknowledgement reads and teardown.
package display

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/necctl/internal/protocol/nec"
)

const (
	DefaultDialTimeout = 5 * time.Second
	// DefaultReplyTimeout is the documented bound for a display to answer.
	DefaultReplyTimeout = 2 * time.Second
)

// Config holds the connection parameters for one display session.
type Config struct {
	Addr         string
	DialTimeout  time.Duration
	ReplyTimeout time.Duration
}

// Client is one open session. Commands are strictly sequential: the reply to
// the current frame is consumed before the next frame is written, since the
// protocol has no request correlation.
type Client struct {
	conn net.Conn
	r    *bufio.Reader
	cfg  Config
	log  zerolog.Logger
}

// Dial connects to the display at cfg.Addr.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.ReplyTimeout <= 0 {
		cfg.ReplyTimeout = DefaultReplyTimeout
	}
	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("display: connect %s: %w", cfg.Addr, err)
	}
	return &Client{
		conn: conn,
		r:    bufio.NewReaderSize(conn, nec.MaxFrameLen),
		cfg:  cfg,
		log:  log.With().Str("display", cfg.Addr).Logger(),
	}, nil
}

// Power turns the display on or off and returns the acknowledgement.
func (c *Client) Power(ctx context.Context, on bool) (nec.Reply, error) {
	value := nec.PowerOff
	if on {
		value = nec.PowerOn
	}
	return c.send(ctx, nec.Power, value)
}

// SetBacklight sets the backlight level (0..100) and returns the
// acknowledgement.
func (c *Client) SetBacklight(ctx context.Context, level int) (nec.Reply, error) {
	return c.send(ctx, nec.Backlight, level)
}

// Close terminates the session.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) send(ctx context.Context, cmd nec.Command, value int) (nec.Reply, error) {
	frame, err := nec.EncodeCommand(cmd, value)
	if err != nil {
		return nec.Reply{}, err
	}
	c.log.Debug().
		Stringer("cmd", cmd).
		Int("value", value).
		Str("frame", hex.EncodeToString(frame)).
		Msg("sending command")

	if err := c.conn.SetWriteDeadline(c.deadline(ctx)); err != nil {
		return nec.Reply{}, fmt.Errorf("display: set write deadline: %w", err)
	}
	if _, err := c.conn.Write(frame); err != nil {
		return nec.Reply{}, fmt.Errorf("display: write %s frame: %w", cmd, err)
	}

	raw, err := c.readFrame(ctx)
	if err != nil {
		return nec.Reply{}, err
	}
	c.log.Debug().Str("reply", hex.EncodeToString(raw)).Msg("received reply")

	reply, err := nec.Validate(raw)
	if err != nil {
		return nec.Reply{}, fmt.Errorf("display: %s reply: %w", cmd, err)
	}
	return reply, nil
}

// readFrame reads one delimiter-terminated frame, bounded by the reply
// timeout and the protocol's maximum frame size.
func (c *Client) readFrame(ctx context.Context) ([]byte, error) {
	if err := c.conn.SetReadDeadline(c.deadline(ctx)); err != nil {
		return nil, fmt.Errorf("display: set read deadline: %w", err)
	}
	frame := make([]byte, 0, nec.MaxFrameLen)
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("display: read reply: %w", err)
		}
		frame = append(frame, b)
		if b == nec.Delimiter {
			return frame, nil
		}
		if len(frame) >= nec.MaxFrameLen {
			return nil, fmt.Errorf("display: reply exceeds %d bytes without delimiter", nec.MaxFrameLen)
		}
	}
}

// deadline prefers the caller's context deadline when it is sooner than the
// configured reply timeout.
func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.cfg.ReplyTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}
