package core

// Ping asks a peer to prove liveness; it expects a Pong in reply.
type Ping struct {
	Hdr Header
}

func (p *Ping) Kind() PacketKind                { return KindPing }
func (p *Ping) Header() Header                  { return p.Hdr }
func (p *Ping) ResponseKind() (PacketKind, bool) { return KindPong, true }
func (p *Ping) Context() RequestContext          { return RequestContext{} }

func parsePing(h Header, _ *Condition) (Packet, error) {
	return &Ping{Hdr: h}, nil
}

// handshakeFields is the set of fields shared by Handshake and Ack (Ack
// extends Handshake with a chosen cipher).
type handshakeFields struct {
	CryptSupported [][]byte
	CryptoSet      []string
	FileserverPort uint16
	Protocol       string
	PeerID         string
	HasPeerID      bool
	Rev            uint32
	Version        string
	Onion          string
	HasOnion       bool
	Opened         bool
}

func parseHandshakeFields(c *Condition) (handshakeFields, error) {
	rawSupported, err := c.AsList("crypt_supported")
	if err != nil {
		return handshakeFields{}, err
	}
	supported := make([][]byte, 0, len(rawSupported))
	cryptoSet := make([]string, 0, len(rawSupported))
	for _, v := range rawSupported {
		b, ok := asBytes(v)
		if !ok {
			return handshakeFields{}, newTypeErr("crypt_supported", "expected a list of bytes")
		}
		supported = append(supported, b)
		if isASCII(b) {
			cryptoSet = append(cryptoSet, string(b))
		}
	}

	port, _, err := c.PortOpt("fileserver_port")
	if err != nil {
		return handshakeFields{}, err
	}
	protocol, err := c.StrLen("protocol", 10)
	if err != nil {
		return handshakeFields{}, err
	}
	peerID, hasPeerID, err := c.StrLenOpt("peer_id", 64)
	if err != nil {
		return handshakeFields{}, err
	}
	rev, hasRev, err := c.RangeOpt("rev", 0, 0xFFFFFFFF)
	if err != nil {
		return handshakeFields{}, err
	}
	if !hasRev {
		rev = 0
	}
	version, err := c.StrLen("version", 64)
	if err != nil {
		return handshakeFields{}, err
	}
	onion, hasOnion, err := c.OnionOpt("onion")
	if err != nil {
		return handshakeFields{}, err
	}
	opened, _, err := c.AsBoolOpt("opened")
	if err != nil {
		return handshakeFields{}, err
	}

	return handshakeFields{
		CryptSupported: supported,
		CryptoSet:      cryptoSet,
		FileserverPort: port,
		Protocol:       protocol,
		PeerID:         peerID,
		HasPeerID:      hasPeerID,
		Rev:            uint32(rev),
		Version:        version,
		Onion:          onion,
		HasOnion:       hasOnion,
		Opened:         opened,
	}, nil
}

// Handshake is exchanged once per connection to negotiate protocol
// version, supported ciphers, and the peer's advertised fileserver port.
type Handshake struct {
	Hdr Header
	handshakeFields
}

func (h *Handshake) Kind() PacketKind                { return KindHandshake }
func (h *Handshake) Header() Header                  { return h.Hdr }
func (h *Handshake) ResponseKind() (PacketKind, bool) { return KindAck, true }
func (h *Handshake) Context() RequestContext          { return RequestContext{} }

func parseHandshake(hdr Header, c *Condition) (Packet, error) {
	hf, err := parseHandshakeFields(c)
	if err != nil {
		return nil, err
	}
	return &Handshake{Hdr: hdr, handshakeFields: hf}, nil
}

// GetFile requests a byte range of a file within a site.
type GetFile struct {
	Hdr       Header
	Site      string
	InnerPath string
	Offset    uint64
	TotalSize *uint64
}

func (g *GetFile) Kind() PacketKind                { return KindGetFile }
func (g *GetFile) Header() Header                  { return g.Hdr }
func (g *GetFile) ResponseKind() (PacketKind, bool) { return KindRespFile, true }
func (g *GetFile) Context() RequestContext {
	return RequestContext{Site: g.Site, InnerPath: g.InnerPath, Offset: g.Offset, TotalSize: g.TotalSize}
}

func parseGetFile(hdr Header, c *Condition) (Packet, error) {
	site, err := c.BTC("site")
	if err != nil {
		return nil, err
	}
	innerPath, err := c.Inner("inner_path")
	if err != nil {
		return nil, err
	}
	offset, hasOffset, err := c.AsSizeOpt("location")
	if err != nil {
		return nil, err
	}
	if !hasOffset {
		offset = 0
	}
	var totalSize *uint64
	if ts, has, err := c.AsSizeOpt("file_size"); err != nil {
		return nil, err
	} else if has {
		totalSize = &ts
	}
	return &GetFile{Hdr: hdr, Site: site, InnerPath: innerPath, Offset: offset, TotalSize: totalSize}, nil
}

// PEX exchanges known peer endpoints with a peer. Entries that fail
// address decoding are silently dropped, per-entry.
type PEX struct {
	Hdr        Header
	Need       uint16
	PeersIP    []packedPeer
	PeersOnion []OnionAddr
	PeersI2P   []I2PAddr
}

type packedPeer struct {
	IP   []byte
	Port uint16
}

func (p *PEX) Kind() PacketKind                { return KindPEX }
func (p *PEX) Header() Header                  { return p.Hdr }
func (p *PEX) ResponseKind() (PacketKind, bool) { return KindRespPEX, true }
func (p *PEX) Context() RequestContext          { return RequestContext{} }

func parsePEX(hdr Header, c *Condition) (Packet, error) {
	need, hasNeed, err := c.RangeOpt("need", 0, 10000)
	if err != nil {
		return nil, err
	}
	if !hasNeed {
		need = 0
	}
	ip, onion, i2p := decodePeerLists(c)
	return &PEX{Hdr: hdr, Need: uint16(need), PeersIP: ip, PeersOnion: onion, PeersI2P: i2p}, nil
}

// decodePeerLists parses the peers/peers_onion/peers_i2p lists shared by
// PEX and RespPEX, dropping any entry that fails to decode.
func decodePeerLists(c *Condition) ([]packedPeer, []OnionAddr, []I2PAddr) {
	var ip []packedPeer
	var onion []OnionAddr
	var i2p []I2PAddr

	if list, ok, _ := c.AsListOpt("peers"); ok {
		for _, v := range list {
			b, ok := asBytes(v)
			if !ok {
				continue
			}
			addr, port, err := UnpackIP(b)
			if err != nil {
				continue
			}
			ip = append(ip, packedPeer{IP: addr, Port: port})
		}
	}
	if list, ok, _ := c.AsListOpt("peers_onion"); ok {
		for _, v := range list {
			b, ok := asBytes(v)
			if !ok {
				continue
			}
			addr, _, err := UnpackOnion(b)
			if err != nil {
				continue
			}
			onion = append(onion, addr)
		}
	}
	if list, ok, _ := c.AsListOpt("peers_i2p"); ok {
		for _, v := range list {
			b, ok := asBytes(v)
			if !ok {
				continue
			}
			addr, _, err := UnpackI2P(b)
			if err != nil {
				continue
			}
			i2p = append(i2p, addr)
		}
	}
	return ip, onion, i2p
}

// Update pushes a new file body for a site's inner path.
type Update struct {
	Hdr       Header
	Site      string
	InnerPath string
	Body      []byte
}

const maxUpdateBody = 512 * 1024

func (u *Update) Kind() PacketKind                { return KindUpdate }
func (u *Update) Header() Header                  { return u.Hdr }
func (u *Update) ResponseKind() (PacketKind, bool) { return KindPredicate, true }
func (u *Update) Context() RequestContext {
	return RequestContext{Site: u.Site, InnerPath: u.InnerPath}
}

func parseUpdate(hdr Header, c *Condition) (Packet, error) {
	site, err := c.BTC("site")
	if err != nil {
		return nil, err
	}
	innerPath, err := c.Inner("inner_path")
	if err != nil {
		return nil, err
	}
	body, err := c.AsBytes("body")
	if err != nil {
		return nil, err
	}
	if len(body) > maxUpdateBody {
		return nil, newValueErr("body", "exceeds maximum length")
	}
	return &Update{Hdr: hdr, Site: site, InnerPath: innerPath, Body: body}, nil
}

// ListMod asks which files in a site changed since a given time.
type ListMod struct {
	Hdr   Header
	Since uint64
}

func (l *ListMod) Kind() PacketKind                { return KindListMod }
func (l *ListMod) Header() Header                  { return l.Hdr }
func (l *ListMod) ResponseKind() (PacketKind, bool) { return KindRespMod, true }
func (l *ListMod) Context() RequestContext          { return RequestContext{} }

func parseListMod(hdr Header, c *Condition) (Packet, error) {
	since, err := c.Time("since")
	if err != nil {
		return nil, err
	}
	return &ListMod{Hdr: hdr, Since: since}, nil
}

// GetHash requests a site's hashfield (the set of piece hash prefixes it
// holds).
type GetHash struct {
	Hdr  Header
	Site string
}

func (g *GetHash) Kind() PacketKind                { return KindGetHash }
func (g *GetHash) Header() Header                  { return g.Hdr }
func (g *GetHash) ResponseKind() (PacketKind, bool) { return KindRespHashSet, true }
func (g *GetHash) Context() RequestContext          { return RequestContext{Site: g.Site} }

func parseGetHash(hdr Header, c *Condition) (Packet, error) {
	site, err := c.BTC("site")
	if err != nil {
		return nil, err
	}
	return &GetHash{Hdr: hdr, Site: site}, nil
}

// SetHash announces the sender's own hashfield.
type SetHash struct {
	Hdr       Header
	Site      string
	Hashfield HashSet
}

func (s *SetHash) Kind() PacketKind                { return KindSetHash }
func (s *SetHash) Header() Header                  { return s.Hdr }
func (s *SetHash) ResponseKind() (PacketKind, bool) { return KindPredicate, true }
func (s *SetHash) Context() RequestContext          { return RequestContext{Site: s.Site} }

func parseSetHash(hdr Header, c *Condition) (Packet, error) {
	site, err := c.BTC("site")
	if err != nil {
		return nil, err
	}
	raw, err := c.AsBytes("hashfield_raw")
	if err != nil {
		return nil, err
	}
	set, err := BuildHashSet(raw)
	if err != nil {
		return nil, err
	}
	return &SetHash{Hdr: hdr, Site: site, Hashfield: set}, nil
}

// FindHash asks which peers hold pieces matching any of the given hash
// prefixes. Entries that fail to decode as a prefix are silently dropped.
type FindHash struct {
	Hdr     Header
	Site    string
	HashIDs []HashPrefix
}

func (f *FindHash) Kind() PacketKind                { return KindFindHash }
func (f *FindHash) Header() Header                  { return f.Hdr }
func (f *FindHash) ResponseKind() (PacketKind, bool) { return KindRespHashSet, true }
func (f *FindHash) Context() RequestContext          { return RequestContext{Site: f.Site} }

func parseFindHash(hdr Header, c *Condition) (Packet, error) {
	site, err := c.BTC("site")
	if err != nil {
		return nil, err
	}
	list, err := c.AsList("hash_ids")
	if err != nil {
		return nil, err
	}
	ids := make([]HashPrefix, 0, len(list))
	for _, v := range list {
		if p, ok := decodeHashID(v); ok {
			ids = append(ids, p)
		}
	}
	return &FindHash{Hdr: hdr, Site: site, HashIDs: ids}, nil
}

// decodeHashID accepts only an integer hash prefix in [0, 0xFFFF], matching
// hash_prefix's @val_types(int) restriction. A raw 2-byte string is not a
// valid form and is dropped like any other decode failure.
func decodeHashID(v any) (HashPrefix, bool) {
	if n, ok := asInt(v); ok {
		if p, err := HashPrefixFromInt(n); err == nil {
			return p, true
		}
	}
	return HashPrefix{}, false
}

// CheckPort asks a peer to verify that the sender's fileserver port is
// reachable from the outside.
type CheckPort struct {
	Hdr  Header
	Port uint16
}

func (c *CheckPort) Kind() PacketKind                { return KindCheckPort }
func (c *CheckPort) Header() Header                  { return c.Hdr }
func (c *CheckPort) ResponseKind() (PacketKind, bool) { return KindRespPort, true }
func (c *CheckPort) Context() RequestContext          { return RequestContext{Port: c.Port} }

func parseCheckPort(hdr Header, c *Condition) (Packet, error) {
	port, err := c.Port("port")
	if err != nil {
		return nil, err
	}
	return &CheckPort{Hdr: hdr, Port: port}, nil
}

// GetPieceStatus and SetPieceStatus are reserved: the wire format declares
// them but no upstream implementation exists. The envelope parses; the
// body is rejected with ErrNotImplemented.

type GetPieceStatus struct {
	Hdr Header
}

func (g *GetPieceStatus) Kind() PacketKind                { return KindGetPieceStatus }
func (g *GetPieceStatus) Header() Header                  { return g.Hdr }
func (g *GetPieceStatus) ResponseKind() (PacketKind, bool) { return KindRespPieceDict, true }
func (g *GetPieceStatus) Context() RequestContext          { return RequestContext{} }

func parseGetPieceStatus(Header, *Condition) (Packet, error) {
	return nil, ErrNotImplemented
}

type SetPieceStatus struct {
	Hdr Header
}

func (s *SetPieceStatus) Kind() PacketKind                { return KindSetPieceStatus }
func (s *SetPieceStatus) Header() Header                  { return s.Hdr }
func (s *SetPieceStatus) ResponseKind() (PacketKind, bool) { return KindPredicate, true }
func (s *SetPieceStatus) Context() RequestContext          { return RequestContext{} }

func parseSetPieceStatus(Header, *Condition) (Packet, error) {
	return nil, ErrNotImplemented
}
