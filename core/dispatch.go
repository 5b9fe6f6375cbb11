package core

// Handler is implemented by whatever owns a connection's packet handling
// methods. Dispatch looks the incoming packet's kind up in HandlerTable
// and invokes the matching method.
type Handler interface {
	HandlePing(*Ping) error
	HandleHandshake(*Handshake) error
	HandleGetFile(*GetFile) error
	HandlePEX(*PEX) error
	HandleUpdate(*Update) error
	HandleListMod(*ListMod) error
	HandleGetHash(*GetHash) error
	HandleSetHash(*SetHash) error
	HandleFindHash(*FindHash) error
	HandleCheckPort(*CheckPort) error
	HandleGetPieceStatus(*GetPieceStatus) error
	HandleSetPieceStatus(*SetPieceStatus) error
}

// handlerFunc invokes the Handler method matching a packet's kind.
type handlerFunc func(Handler, Packet) error

// HandlerTable is the fixed packet-variant-to-handler-method routing table
// of §4.I. It is read-only after initialization, per §9's "global mutable
// state... model them as process-wide constants."
var HandlerTable = map[PacketKind]handlerFunc{
	KindPing: func(h Handler, p Packet) error { return h.HandlePing(p.(*Ping)) },
	KindHandshake: func(h Handler, p Packet) error {
		return h.HandleHandshake(p.(*Handshake))
	},
	KindGetFile: func(h Handler, p Packet) error { return h.HandleGetFile(p.(*GetFile)) },
	KindPEX:     func(h Handler, p Packet) error { return h.HandlePEX(p.(*PEX)) },
	KindUpdate:  func(h Handler, p Packet) error { return h.HandleUpdate(p.(*Update)) },
	KindListMod: func(h Handler, p Packet) error { return h.HandleListMod(p.(*ListMod)) },
	KindGetHash: func(h Handler, p Packet) error { return h.HandleGetHash(p.(*GetHash)) },
	KindSetHash: func(h Handler, p Packet) error { return h.HandleSetHash(p.(*SetHash)) },
	KindFindHash: func(h Handler, p Packet) error {
		return h.HandleFindHash(p.(*FindHash))
	},
	KindCheckPort: func(h Handler, p Packet) error {
		return h.HandleCheckPort(p.(*CheckPort))
	},
	KindGetPieceStatus: func(h Handler, p Packet) error {
		return h.HandleGetPieceStatus(p.(*GetPieceStatus))
	},
	KindSetPieceStatus: func(h Handler, p Packet) error {
		return h.HandleSetPieceStatus(p.(*SetPieceStatus))
	},
}

// Dispatch looks up pkt's handler by kind and invokes it. Packets with no
// registered handler (every response kind; they are consumed by the
// sequencer, not dispatched to a handler) return ErrNotImplemented.
func Dispatch(h Handler, pkt Packet) error {
	fn, ok := HandlerTable[pkt.Kind()]
	if !ok {
		return ErrNotImplemented
	}
	return fn(h, pkt)
}
