package core

// Sender is an opaque, caller-supplied network-address handle. The decoder
// never reads it from the wire — it is set by whoever owns the connection
// the bytes arrived on. It must be comparable, since the sequencer and
// router key tables by it.
type Sender = any

// PacketKind identifies a concrete packet variant. Response discrimination
// (see Decode) assigns one of the Resp*/Pong/Predicate/Ack kinds; request
// dispatch assigns one of the others.
type PacketKind int

const (
	KindPing PacketKind = iota
	KindHandshake
	KindGetFile
	KindPEX
	KindUpdate
	KindListMod
	KindGetHash
	KindSetHash
	KindFindHash
	KindCheckPort
	KindGetPieceStatus
	KindSetPieceStatus

	KindPong
	KindPredicate
	KindAck
	KindRespFile
	KindRespPEX
	KindRespMod
	KindRespHashSet
	KindRespHashDict
	KindRespPort
	KindRespPieceDict
)

var kindNames = map[PacketKind]string{
	KindPing:           "Ping",
	KindHandshake:      "Handshake",
	KindGetFile:        "GetFile",
	KindPEX:            "PEX",
	KindUpdate:         "Update",
	KindListMod:        "ListMod",
	KindGetHash:        "GetHash",
	KindSetHash:        "SetHash",
	KindFindHash:       "FindHash",
	KindCheckPort:      "CheckPort",
	KindGetPieceStatus: "GetPieceStatus",
	KindSetPieceStatus: "SetPieceStatus",
	KindPong:           "Pong",
	KindPredicate:      "Predicate",
	KindAck:            "Ack",
	KindRespFile:       "RespFile",
	KindRespPEX:        "RespPEX",
	KindRespMod:        "RespMod",
	KindRespHashSet:    "RespHashSet",
	KindRespHashDict:   "RespHashDict",
	KindRespPort:       "RespPort",
	KindRespPieceDict:  "RespPieceDict",
}

func (k PacketKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Unknown"
}

// Header carries the fields every packet has: the request correlation
// number and the sender handle set by the decoder's caller.
type Header struct {
	ReqID  uint32
	Sender Sender
}

// Packet is implemented by every request and response variant.
type Packet interface {
	Kind() PacketKind
	Header() Header
}

// RequestContext is the typed snapshot of request attributes the
// sequencer copies into a matching response. Not every field applies to
// every request; unused fields are left zero.
type RequestContext struct {
	Site      string
	InnerPath string
	Offset    uint64
	TotalSize *uint64
	Port      uint16
}

// ContextReceiver is implemented by response variants that accept request
// context injected by the sequencer.
type ContextReceiver interface {
	applyContext(ctx RequestContext)
}

// Request is implemented by packet variants that expect a reply. ok is
// false for requests that register no response class with the sequencer.
type Request interface {
	Packet
	ResponseKind() (kind PacketKind, ok bool)
	Context() RequestContext
}
