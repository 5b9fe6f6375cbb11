package core

import "testing"

type recordingHandler struct {
	lastKind PacketKind
}

func (r *recordingHandler) HandlePing(*Ping) error                         { r.lastKind = KindPing; return nil }
func (r *recordingHandler) HandleHandshake(*Handshake) error               { r.lastKind = KindHandshake; return nil }
func (r *recordingHandler) HandleGetFile(*GetFile) error                   { r.lastKind = KindGetFile; return nil }
func (r *recordingHandler) HandlePEX(*PEX) error                           { r.lastKind = KindPEX; return nil }
func (r *recordingHandler) HandleUpdate(*Update) error                     { r.lastKind = KindUpdate; return nil }
func (r *recordingHandler) HandleListMod(*ListMod) error                   { r.lastKind = KindListMod; return nil }
func (r *recordingHandler) HandleGetHash(*GetHash) error                   { r.lastKind = KindGetHash; return nil }
func (r *recordingHandler) HandleSetHash(*SetHash) error                   { r.lastKind = KindSetHash; return nil }
func (r *recordingHandler) HandleFindHash(*FindHash) error                 { r.lastKind = KindFindHash; return nil }
func (r *recordingHandler) HandleCheckPort(*CheckPort) error               { r.lastKind = KindCheckPort; return nil }
func (r *recordingHandler) HandleGetPieceStatus(*GetPieceStatus) error     { r.lastKind = KindGetPieceStatus; return nil }
func (r *recordingHandler) HandleSetPieceStatus(*SetPieceStatus) error     { r.lastKind = KindSetPieceStatus; return nil }

func TestDispatchRoutesToHandler(t *testing.T) {
	h := &recordingHandler{}
	if err := Dispatch(h, &Ping{}); err != nil {
		t.Fatalf("dispatch ping: %v", err)
	}
	if h.lastKind != KindPing {
		t.Fatalf("expected Ping to route to HandlePing, got %v", h.lastKind)
	}

	if err := Dispatch(h, &CheckPort{Port: 80}); err != nil {
		t.Fatalf("dispatch checkport: %v", err)
	}
	if h.lastKind != KindCheckPort {
		t.Fatalf("expected CheckPort to route to HandleCheckPort, got %v", h.lastKind)
	}
}

func TestDispatchUnroutedResponseKind(t *testing.T) {
	h := &recordingHandler{}
	if err := Dispatch(h, &Pong{}); err != ErrNotImplemented {
		t.Fatalf("expected responses to have no handler entry, got %v", err)
	}
}
