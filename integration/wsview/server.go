// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wsview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/gogpu/fractal"
)

// DefaultDimensions is the canvas size of a new session until the client
// sends a resize message.
var DefaultDimensions = fractal.Dimensions{Width: 640, Height: 480}

// Option configures a Server.
type Option func(*Server)

// WithOriginPatterns sets the host patterns accepted for cross-origin
// connections. See websocket.AcceptOptions.OriginPatterns.
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) {
		s.originPatterns = patterns
	}
}

// WithEngineOptions sets a function returning the options for each
// session's engine. It is called once per connection; the engine closes
// its renderers when the session ends, so renderers must not be shared.
func WithEngineOptions(fn func() []fractal.EngineOption) Option {
	return func(s *Server) {
		s.engineOpts = fn
	}
}

// WithInitialDimensions sets the canvas size of new sessions.
func WithInitialDimensions(dims fractal.Dimensions) Option {
	return func(s *Server) {
		if dims.Validate() == nil {
			s.dims = dims
		}
	}
}

// WithCaptureFormat sets the default capture format.
func WithCaptureFormat(f fractal.Format) Option {
	return func(s *Server) {
		s.format = f
	}
}

// Server streams fractal frames over WebSocket. Each connection gets its
// own engine, controller and capture coordinator.
type Server struct {
	originPatterns []string
	engineOpts     func() []fractal.EngineOption
	dims           fractal.Dimensions
	format         fractal.Format

	mu       sync.Mutex
	sessions int
}

// NewServer creates a Server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		dims:   DefaultDimensions,
		format: fractal.PNG,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions
}

// ServeHTTP upgrades the request and runs a session until the client
// disconnects or the request context ends.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		fractal.Logger().Warn("wsview: accept failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	// Frames are large; the client sends only small JSON messages.
	conn.SetReadLimit(64 << 10)

	s.track(1)
	defer s.track(-1)

	sess, err := s.newSession(r.Context(), conn)
	if err != nil {
		fractal.Logger().Warn("wsview: session setup failed", "error", err)
		conn.Close(websocket.StatusInternalError, "session setup failed")
		return
	}
	fractal.Logger().Info("wsview: session started", "remote", r.RemoteAddr, "dims", s.dims)

	err = sess.run()
	sess.close()

	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		conn.Close(websocket.StatusNormalClosure, "")
	case errors.Is(err, context.Canceled):
		conn.CloseNow()
	default:
		fractal.Logger().Warn("wsview: session ended", "remote", r.RemoteAddr, "error", err)
		conn.Close(websocket.StatusInternalError, "session error")
	}
}

func (s *Server) track(delta int) {
	s.mu.Lock()
	s.sessions += delta
	s.mu.Unlock()
}

// session is one client connection.
type session struct {
	ctx     context.Context
	conn    *websocket.Conn
	engine  *fractal.Engine
	ctrl    *fractal.Controller
	capture *fractal.CaptureCoordinator
	format  fractal.Format
}

func (s *Server) newSession(ctx context.Context, conn *websocket.Conn) (*session, error) {
	sess := &session{ctx: ctx, conn: conn, format: s.format}

	var opts []fractal.EngineOption
	if s.engineOpts != nil {
		opts = s.engineOpts()
	}
	opts = append(opts, fractal.WithErrorHandler(func(err error) {
		sess.sendError(err)
	}))
	sess.engine = fractal.NewEngine(fractal.DisplayFunc(sess.present), opts...)

	ctrl, err := fractal.NewController(sess.engine, s.dims)
	if err != nil {
		sess.engine.Close()
		return nil, err
	}
	sess.ctrl = ctrl
	sess.capture = fractal.NewCaptureCoordinator(sess.engine, fractal.WithFormat(s.format))
	return sess, nil
}

// present writes a frame. It runs on the engine's render goroutine.
func (s *session) present(frame *fractal.Pixmap) error {
	return s.conn.Write(s.ctx, websocket.MessageBinary, EncodeFrame(frame))
}

func (s *session) run() error {
	s.ctrl.Redraw()
	s.sendState()

	for {
		var msg Message
		if err := wsjson.Read(s.ctx, s.conn, &msg); err != nil {
			return err
		}
		if err := s.handle(msg); err != nil {
			fractal.Logger().Debug("wsview: message rejected", "type", msg.Type, "error", err)
			s.sendError(err)
			continue
		}
	}
}

func (s *session) handle(msg Message) error {
	before := s.ctrl.View()

	switch msg.Type {
	case TypePointer:
		ev, err := msg.PointerEvent()
		if err != nil {
			return err
		}
		s.ctrl.HandlePointer(ev)
	case TypeScroll:
		s.ctrl.HandleScroll(msg.ScrollEvent())
	case TypeGesture:
		s.ctrl.HandleGesture(msg.GestureEvent())
	case TypeResize:
		if err := s.ctrl.SetDimensions(fractal.Dimensions{Width: msg.Width, Height: msg.Height}); err != nil {
			return err
		}
	case TypeBudget:
		if err := s.ctrl.SetIterationBudget(msg.Budget); err != nil {
			return err
		}
	case TypeReset:
		s.ctrl.ResetView(msg.ResetBudget)
	case TypeToggle:
		s.ctrl.ToggleVariant()
	case TypeCapture:
		return s.doCapture(msg.Format)
	default:
		return fmt.Errorf("%w: type %q", ErrBadMessage, msg.Type)
	}

	if s.ctrl.View() != before {
		s.sendState()
	}
	return nil
}

// doCapture renders the current view without overlay and sends the file
// name followed by the encoded image.
func (s *session) doCapture(format string) error {
	capture := s.capture
	f := s.format
	if format != "" {
		parsed, err := fractal.ParseFormat(format)
		if err != nil {
			return err
		}
		f = parsed
		capture = fractal.NewCaptureCoordinator(s.engine, fractal.WithFormat(f))
	}

	view := s.ctrl.View()
	data, err := capture.Capture(s.ctx, view, s.ctrl.Dimensions())
	if err != nil {
		return err
	}

	name := fractal.Filename(view.Variant, f)
	if err := wsjson.Write(s.ctx, s.conn, Message{Type: TypeCaptured, Name: name, Format: f.String()}); err != nil {
		return err
	}
	fractal.Logger().Info("wsview: captured", "name", name, "bytes", len(data))
	return s.conn.Write(s.ctx, websocket.MessageBinary, EncodeCapture(data))
}

func (s *session) sendState() {
	msg := Message{Type: TypeState, View: viewInfo(s.ctrl.View())}
	if err := wsjson.Write(s.ctx, s.conn, msg); err != nil {
		fractal.Logger().Debug("wsview: state not sent", "error", err)
	}
}

func (s *session) sendError(err error) {
	if werr := wsjson.Write(s.ctx, s.conn, Message{Type: TypeError, Error: err.Error()}); werr != nil {
		fractal.Logger().Debug("wsview: error not sent", "error", werr)
	}
}

func (s *session) close() {
	if err := s.engine.Close(); err != nil {
		fractal.Logger().Debug("wsview: engine close", "error", err)
	}
}
