// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wsview

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/fractal"
	"github.com/gogpu/gpucontext"
)

// Binary message kinds sent from server to client. The kind is the first
// byte of every binary message.
const (
	// KindFrame is followed by uint32 LE width, uint32 LE height and
	// width*height*4 RGBA bytes.
	KindFrame byte = 1

	// KindCapture is followed by the encoded image bytes.
	KindCapture byte = 2
)

// frameHeaderSize is the kind byte plus width and height.
const frameHeaderSize = 1 + 4 + 4

// Client message types.
const (
	TypePointer = "pointer"
	TypeScroll  = "scroll"
	TypeGesture = "gesture"
	TypeResize  = "resize"
	TypeBudget  = "budget"
	TypeReset   = "reset"
	TypeToggle  = "toggle"
	TypeCapture = "capture"
)

// Server text message types.
const (
	TypeState    = "state"
	TypeCaptured = "captured"
	TypeError    = "error"
)

// ErrBadMessage is returned for malformed client or server messages.
var ErrBadMessage = errors.New("wsview: bad message")

// Message is a JSON text message. Clients send input and commands; the
// server answers with state, captured and error messages.
type Message struct {
	Type string `json:"type"`

	// pointer: "down", "up", "move" or "cancel"
	Event string `json:"event,omitempty"`
	// pointer: "mouse", "touch" or "pen"
	Pointer string `json:"pointer,omitempty"`
	ID      int    `json:"id,omitempty"`

	// pointer, scroll, gesture
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	DeltaX float64 `json:"dx,omitempty"`
	DeltaY float64 `json:"dy,omitempty"`
	Zoom   float64 `json:"zoom,omitempty"`

	// resize
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// budget
	Budget int `json:"budget,omitempty"`

	// reset
	ResetBudget bool `json:"resetBudget,omitempty"`

	// capture request format and captured file name
	Format string `json:"format,omitempty"`
	Name   string `json:"name,omitempty"`

	// state
	View *ViewInfo `json:"view,omitempty"`

	// error
	Error string `json:"error,omitempty"`
}

// ViewInfo describes the session's view in state messages.
type ViewInfo struct {
	Variant string  `json:"variant"`
	Title   string  `json:"title"`
	Zoom    float64 `json:"zoom"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Budget  int     `json:"budget"`
}

func viewInfo(v fractal.ViewState) *ViewInfo {
	return &ViewInfo{
		Variant: v.Variant.String(),
		Title:   v.Variant.Title(),
		Zoom:    v.Zoom,
		X:       v.Center.X,
		Y:       v.Center.Y,
		Budget:  v.IterationBudget,
	}
}

// PointerEvent converts a pointer message to a gpucontext event.
func (m Message) PointerEvent() (gpucontext.PointerEvent, error) {
	ev := gpucontext.PointerEvent{
		PointerID: m.ID,
		X:         m.X,
		Y:         m.Y,
		IsPrimary: true,
		Button:    gpucontext.ButtonNone,
	}

	switch m.Event {
	case "down":
		ev.Type = gpucontext.PointerDown
		ev.Button = gpucontext.ButtonLeft
	case "up":
		ev.Type = gpucontext.PointerUp
		ev.Button = gpucontext.ButtonLeft
	case "move":
		ev.Type = gpucontext.PointerMove
	case "cancel":
		ev.Type = gpucontext.PointerCancel
	default:
		return ev, fmt.Errorf("%w: pointer event %q", ErrBadMessage, m.Event)
	}

	switch m.Pointer {
	case "", "mouse":
		ev.PointerType = gpucontext.PointerTypeMouse
	case "touch":
		ev.PointerType = gpucontext.PointerTypeTouch
	case "pen":
		ev.PointerType = gpucontext.PointerTypePen
	default:
		return ev, fmt.Errorf("%w: pointer type %q", ErrBadMessage, m.Pointer)
	}
	return ev, nil
}

// ScrollEvent converts a scroll message to a gpucontext event.
func (m Message) ScrollEvent() gpucontext.ScrollEvent {
	return gpucontext.ScrollEvent{
		X:      m.X,
		Y:      m.Y,
		DeltaX: m.DeltaX,
		DeltaY: m.DeltaY,
	}
}

// GestureEvent converts a gesture message to a gpucontext event.
func (m Message) GestureEvent() gpucontext.GestureEvent {
	return gpucontext.GestureEvent{
		NumPointers: 2,
		ZoomDelta:   m.Zoom,
		Center:      gpucontext.Point{X: m.X, Y: m.Y},
	}
}

// EncodeFrame returns the binary frame message for frame.
func EncodeFrame(frame *fractal.Pixmap) []byte {
	data := frame.Data()
	p := make([]byte, frameHeaderSize+len(data))
	p[0] = KindFrame
	binary.LittleEndian.PutUint32(p[1:5], uint32(frame.Width()))
	binary.LittleEndian.PutUint32(p[5:9], uint32(frame.Height()))
	copy(p[frameHeaderSize:], data)
	return p
}

// DecodeFrame parses a binary frame message.
func DecodeFrame(p []byte) (*fractal.Pixmap, error) {
	if len(p) < frameHeaderSize || p[0] != KindFrame {
		return nil, fmt.Errorf("%w: not a frame", ErrBadMessage)
	}
	w := binary.LittleEndian.Uint32(p[1:5])
	h := binary.LittleEndian.Uint32(p[5:9])
	if w > fractal.MaxDimension || h > fractal.MaxDimension || uint64(w)*uint64(h) > fractal.MaxPixels {
		return nil, fmt.Errorf("%w: frame %dx%d too large", ErrBadMessage, w, h)
	}
	if uint64(len(p)-frameHeaderSize) != uint64(w)*uint64(h)*4 {
		return nil, fmt.Errorf("%w: frame %dx%d with %d bytes", ErrBadMessage, w, h, len(p)-frameHeaderSize)
	}

	pm := fractal.NewPixmap(int(w), int(h))
	copy(pm.Data(), p[frameHeaderSize:])
	return pm, nil
}

// EncodeCapture returns the binary capture message for encoded image data.
func EncodeCapture(data []byte) []byte {
	return append([]byte{KindCapture}, data...)
}
