package core

import (
	"bytes"
	"io"
	"sync/atomic"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	maxBytesLen = 512 * 1024
	maxEntries  = 4000
)

// DecodeStats is a snapshot of a Decoder's cumulative activity.
type DecodeStats struct {
	Decoded  uint64
	Rejected uint64
}

// Decoder turns wire bytes into parsed Packet values. It is safe for
// concurrent use: the only shared state is the stats counters, which are
// updated and read atomically.
type Decoder struct {
	stats DecodeStats
}

// NewDecoder returns a ready-to-use Decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// Stats returns a snapshot of cumulative decode/reject counts.
func (d *Decoder) Stats() DecodeStats {
	return DecodeStats{
		Decoded:  atomic.LoadUint64(&d.stats.Decoded),
		Rejected: atomic.LoadUint64(&d.stats.Rejected),
	}
}

// Decode decodes exactly one MessagePack map from b, tagging the result
// with sender.
func (d *Decoder) Decode(b []byte, sender Sender) (Packet, error) {
	return d.DecodeStream(bytes.NewReader(b), sender)
}

// DecodeStream decodes exactly one MessagePack map from r, tagging the
// result with sender. Hard limits apply to every string, binary, array,
// and map value anywhere in the packet: 512 KiB for strings/binary, 4000
// entries for arrays/maps. Extension types are rejected.
func (d *Decoder) DecodeStream(r io.Reader, sender Sender) (Packet, error) {
	dec := msgpack.NewDecoder(r)
	raw, err := dec.DecodeInterfaceLoose()
	if err != nil {
		atomic.AddUint64(&d.stats.Rejected, 1)
		return nil, newValueErr("packet", "malformed messagepack")
	}
	if err := enforceLimits(raw); err != nil {
		atomic.AddUint64(&d.stats.Rejected, 1)
		return nil, err
	}
	top, ok := raw.(map[string]any)
	if !ok {
		atomic.AddUint64(&d.stats.Rejected, 1)
		return nil, newTypeErr("packet", "expected a top-level map")
	}

	pkt, err := d.classify(top, sender)
	if err != nil {
		atomic.AddUint64(&d.stats.Rejected, 1)
		return nil, err
	}
	atomic.AddUint64(&d.stats.Decoded, 1)
	return pkt, nil
}

func enforceLimits(v any) error {
	switch t := v.(type) {
	case []byte:
		if len(t) > maxBytesLen {
			return newValueErr("packet", "binary value exceeds maximum length")
		}
	case string:
		if len(t) > maxBytesLen {
			return newValueErr("packet", "string value exceeds maximum length")
		}
	case []any:
		if len(t) > maxEntries {
			return newValueErr("packet", "array exceeds maximum length")
		}
		for _, e := range t {
			if err := enforceLimits(e); err != nil {
				return err
			}
		}
	case map[string]any:
		if len(t) > maxEntries {
			return newValueErr("packet", "map exceeds maximum length")
		}
		for _, e := range t {
			if err := enforceLimits(e); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Decoder) classify(top map[string]any, sender Sender) (Packet, error) {
	cmdRaw, ok := top["cmd"]
	if !ok {
		return nil, newKeyErr("cmd")
	}
	cmdBytes, ok := asBytes(cmdRaw)
	if !ok {
		return nil, newTypeErr("cmd", "expected bytes")
	}
	cmd := string(cmdBytes)

	if cmd == "response" {
		return classifyResponse(top, sender)
	}
	return classifyRequest(cmd, top, sender)
}

// responseDiscriminators lists, in the fixed documented order the wire
// format requires, the first attribute key whose presence identifies a
// response variant. This order must never be derived from map iteration.
var responseDiscriminators = []struct {
	key  string
	kind PacketKind
}{
	{"protocol", KindAck},
	{"ok", KindPredicate},
	{"error", KindPredicate},
	{"pong", KindPong},
	{"location", KindRespFile},
	{"modified_files", KindRespMod},
	{"hashfield_raw", KindRespHashSet},
	{"status", KindRespPort},
	{"piecefields_packed", KindRespPieceDict},
}

func classifyResponse(top map[string]any, sender Sender) (Packet, error) {
	toRaw, ok := top["to"]
	if !ok {
		return nil, newKeyErr("to")
	}
	reqID, ok := asInt(toRaw)
	if !ok || reqID < 0 || reqID > 0xFFFFFFFF {
		return nil, newTypeErr("to", "expected a uint32")
	}
	hdr := Header{ReqID: uint32(reqID), Sender: sender}
	c := NewCondition(top)

	for _, disc := range responseDiscriminators {
		if _, ok := top[disc.key]; ok {
			return parseResponse(disc.kind, hdr, c)
		}
	}
	// Second pass: "peers" is ambiguous between RespPEX (list) and
	// RespHashDict (map); discriminate by value type.
	if peersRaw, ok := top["peers"]; ok {
		switch peersRaw.(type) {
		case []any:
			return parseResponse(KindRespPEX, hdr, c)
		case map[string]any:
			return parseResponse(KindRespHashDict, hdr, c)
		}
	}
	return nil, newKeyErr("unknown response packet")
}

func parseResponse(kind PacketKind, hdr Header, c *Condition) (Packet, error) {
	switch kind {
	case KindPong:
		return parsePong(hdr, c)
	case KindPredicate:
		return parsePredicate(hdr, c)
	case KindAck:
		return parseAck(hdr, c)
	case KindRespFile:
		return parseRespFile(hdr, c)
	case KindRespPEX:
		return parseRespPEX(hdr, c)
	case KindRespMod:
		return parseRespMod(hdr, c)
	case KindRespHashSet:
		return parseRespHashSet(hdr, c)
	case KindRespHashDict:
		return parseRespHashDict(hdr, c)
	case KindRespPort:
		return parseRespPort(hdr, c)
	case KindRespPieceDict:
		return parseRespPieceDict(hdr, c)
	default:
		return nil, newKeyErr("unknown response packet")
	}
}

type requestEntry struct {
	kind  PacketKind
	parse func(Header, *Condition) (Packet, error)
}

// requestDispatch is the fixed command-name-to-variant table. Read-only
// after initialization.
var requestDispatch = map[string]requestEntry{
	"getFile":         {KindGetFile, parseGetFile},
	"pex":             {KindPEX, parsePEX},
	"update":          {KindUpdate, parseUpdate},
	"ping":            {KindPing, parsePing},
	"handshake":       {KindHandshake, parseHandshake},
	"listModified":    {KindListMod, parseListMod},
	"getHashfield":    {KindGetHash, parseGetHash},
	"setHashfield":    {KindSetHash, parseSetHash},
	"findHashIds":     {KindFindHash, parseFindHash},
	"actionCheckport": {KindCheckPort, parseCheckPort},
	"getPieceFields":  {KindGetPieceStatus, parseGetPieceStatus},
	"setPieceFields":  {KindSetPieceStatus, parseSetPieceStatus},
}

func classifyRequest(cmd string, top map[string]any, sender Sender) (Packet, error) {
	entry, ok := requestDispatch[cmd]
	if !ok {
		return nil, newKeyErr("cmd")
	}
	reqIDRaw, ok := top["req_id"]
	if !ok {
		return nil, newKeyErr("req_id")
	}
	reqID, ok := asInt(reqIDRaw)
	if !ok || reqID < 0 || reqID > 0xFFFFFFFF {
		return nil, newTypeErr("req_id", "expected a uint32")
	}
	paramsRaw, ok := top["params"]
	if !ok {
		return nil, newKeyErr("params")
	}
	params, ok := paramsRaw.(map[string]any)
	if !ok {
		return nil, newTypeErr("params", "expected a map")
	}
	hdr := Header{ReqID: uint32(reqID), Sender: sender}
	return entry.parse(hdr, NewCondition(params))
}
