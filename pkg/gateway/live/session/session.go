// Package session runs one live call over one websocket. The read loop is
// the call's single thread of control: it decodes transcript frames, drives
// the IVR engine, and writes DTMF, say, and status frames back. Engine
// access is never concurrent.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-go/vai-ivr/pkg/gateway/live/protocol"
	"github.com/vango-go/vai-ivr/pkg/ivr"
	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

// Config bounds one session's websocket behavior.
type Config struct {
	WriteTimeout    time.Duration
	PingInterval    time.Duration
	MaxCallDuration time.Duration
	MaxMessageBytes int64
}

func (c Config) withDefaults() Config {
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 20 * time.Second
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = 64 * 1024
	}
	return c
}

// Conn is the subset of *websocket.Conn the session uses.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	Close() error
}

// EngineFactory builds the per-call engine from the client's hello.
type EngineFactory func(goal string, ctx types.DTMFContext) *ivr.Engine

// Session owns one call: one websocket, one engine.
type Session struct {
	id        string
	ws        Conn
	cfg       Config
	newEngine EngineFactory
	logger    *slog.Logger

	engine *ivr.Engine
}

// New creates a Session. The engine is not built until the client's hello
// arrives, since the hello carries the goal and DTMF context.
func New(id string, ws Conn, cfg Config, newEngine EngineFactory, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		id:        id,
		ws:        ws,
		cfg:       cfg.withDefaults(),
		newEngine: newEngine,
		logger:    logger.With("call_id", id),
	}
}

// Run drives the session until the client says bye, the call duration cap
// hits, or a protocol violation or transport error ends it.
func (s *Session) Run(ctx context.Context) error {
	defer s.ws.Close()

	s.ws.SetReadLimit(s.cfg.MaxMessageBytes)

	// Keepalive: a peer that stops answering pings trips the read deadline
	// instead of holding a session slot until the call duration cap.
	var callDeadline time.Time
	if s.cfg.MaxCallDuration > 0 {
		callDeadline = time.Now().Add(s.cfg.MaxCallDuration)
	}
	if err := s.armReadDeadline(callDeadline); err != nil {
		return err
	}
	s.ws.SetPongHandler(func(string) error {
		return s.armReadDeadline(callDeadline)
	})
	stopPing := make(chan struct{})
	defer close(stopPing)
	go s.keepalive(stopPing)

	if err := s.handshake(); err != nil {
		return err
	}
	s.logger.Info("call session started")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		msgType, data, err := s.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Info("call session closed by client")
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}
		if msgType != websocket.TextMessage {
			return s.fail(&protocol.DecodeError{Code: "bad_request", Message: "only text frames are supported"})
		}

		msg, derr := protocol.Decode(data)
		if derr != nil {
			return s.fail(derr)
		}

		switch m := msg.(type) {
		case protocol.Transcript:
			if err := s.handleTranscript(ctx, m); err != nil {
				return err
			}
		case protocol.DTMFResult:
			if !m.Accepted {
				s.engine.RecordFailure(m.Digit)
				s.logger.Debug("digit rejected by menu", "digit", m.Digit)
			}
		case protocol.Bye:
			s.logger.Info("call session ended")
			return nil
		case protocol.Hello:
			return s.fail(&protocol.DecodeError{Code: "bad_request", Message: "duplicate hello"})
		}
	}
}

func (s *Session) handshake() error {
	msgType, data, err := s.ws.ReadMessage()
	if err != nil {
		return fmt.Errorf("read hello: %w", err)
	}
	if msgType != websocket.TextMessage {
		return s.fail(&protocol.DecodeError{Code: "bad_request", Message: "hello must be a text frame"})
	}
	msg, derr := protocol.Decode(data)
	if derr != nil {
		return s.fail(derr)
	}
	hello, ok := msg.(protocol.Hello)
	if !ok {
		return s.fail(&protocol.DecodeError{Code: "bad_request", Message: "first frame must be hello"})
	}

	s.engine = s.newEngine(hello.Goal, hello.DTMFContext)
	st := s.engine.Status()

	return s.write(protocol.HelloAck{
		Type:        protocol.TypeHelloAck,
		CallID:      s.id,
		Goal:        hello.Goal,
		DTMFContext: hello.DTMFContext,
	}, st)
}

func (s *Session) handleTranscript(ctx context.Context, m protocol.Transcript) error {
	decision, err := s.engine.ProcessUtterance(ctx, m.Event())
	if err != nil {
		// Fallback handler failures are logged and reported, but the call
		// goes on: the engine still has a usable status.
		s.logger.Error("process utterance", "error", err)
		if werr := s.writeFrame(protocol.ErrorFrame{
			Type: protocol.TypeError, Code: "fallback_failed", Message: err.Error(),
		}); werr != nil {
			return werr
		}
	}

	if len(decision.Tones) > 0 {
		frame := protocol.DTMF{Type: protocol.TypeDTMF, Tones: decision.Tones}
		if decision.Action != nil {
			frame.Digit = decision.Action.Digit
			frame.Reason = decision.Action.Reason
		}
		if err := s.writeFrame(frame); err != nil {
			return err
		}
		s.logger.Info("dtmf sent", "tones", decision.Tones)
	}
	if decision.Say != "" {
		if err := s.writeFrame(protocol.Say{Type: protocol.TypeSay, Text: decision.Say}); err != nil {
			return err
		}
	}
	return s.writeFrame(protocol.Status{Type: protocol.TypeStatus, Status: decision.Status})
}

func (s *Session) write(frames ...any) error {
	for _, f := range frames {
		switch v := f.(type) {
		case types.Status:
			if err := s.writeFrame(protocol.Status{Type: protocol.TypeStatus, Status: v}); err != nil {
				return err
			}
		default:
			if err := s.writeFrame(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// armReadDeadline sets the read deadline to the sooner of the pong window
// and the call duration cap.
func (s *Session) armReadDeadline(callDeadline time.Time) error {
	deadline := time.Now().Add(2 * s.cfg.PingInterval)
	if !callDeadline.IsZero() && callDeadline.Before(deadline) {
		deadline = callDeadline
	}
	if err := s.ws.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}
	return nil
}

// keepalive pings the peer on an interval until stop closes. WriteControl
// is safe to call concurrently with the read loop's writes.
func (s *Session) keepalive(stop <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(s.cfg.WriteTimeout)
			if err := s.ws.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

func (s *Session) writeFrame(frame any) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	if err := s.ws.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := s.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (s *Session) fail(derr *protocol.DecodeError) error {
	_ = s.writeFrame(protocol.NewErrorFrame(derr))
	s.logger.Warn("protocol violation", "code", derr.Code, "message", derr.Message)
	return errors.New(derr.Error())
}
