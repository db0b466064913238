// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wsview serves an interactive fractal view over WebSocket.
//
// Every connection is a session with its own fractal.Engine, Controller and
// CaptureCoordinator. The server pushes frames as binary messages; the
// client sends input and commands as JSON text messages.
//
// # Protocol
//
// Binary messages from the server start with a kind byte:
//
//	1 (KindFrame)    uint32 LE width, uint32 LE height, RGBA pixels
//	2 (KindCapture)  encoded image bytes of the last "captured" message
//
// Text messages in both directions are JSON Message values:
//
//	{"type":"pointer","event":"down","pointer":"touch","id":1,"x":10,"y":20}
//	{"type":"scroll","x":320,"y":240,"dy":-1}
//	{"type":"gesture","x":320,"y":240,"zoom":1.1}
//	{"type":"resize","width":800,"height":600}
//	{"type":"budget","budget":64}
//	{"type":"reset","resetBudget":true}
//	{"type":"toggle"}
//	{"type":"capture","format":"png"}
//
// The server answers with "state" after the view changes, "captured" before
// a capture payload, and "error" for rejected input. A rejected message
// never ends the session.
//
// # Usage
//
//	http.Handle("/ws", wsview.NewServer(
//	    wsview.WithOriginPatterns("localhost:*"),
//	))
package wsview
