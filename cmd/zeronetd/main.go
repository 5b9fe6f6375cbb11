// Command zeronetd is a thin illustration of how an external dispatcher
// would wire the core packages together: decode a packet, route it
// through the handler table, and feed it through the sequencer under the
// RW lock. It is demonstration glue, not part of the tested core
// contract — the core never opens a socket, chooses a peer, or reads
// config itself.
package main

import (
	"net"

	log "github.com/sirupsen/logrus"

	"zeronet-core/core"
	"zeronet-core/pkg/config"
	"zeronet-core/pkg/utils"
)

// node bundles the tables a running dispatcher shares across connections.
type node struct {
	seq    *core.Sequencer
	router *core.Router
	conns  *core.Connections
	lock   *core.RWLock
}

func newNode(cfg *config.Config) *node {
	return &node{
		seq:    core.NewSequencer(cfg.Sequencer.Capacity),
		router: core.NewRouter(),
		conns:  core.NewConnections(cfg.Connections.Capacity, nil),
		lock:   core.NewRWLock(),
	}
}

func (n *node) HandlePing(*core.Ping) error { return nil }

func (n *node) HandleHandshake(h *core.Handshake) error {
	log.Debugf("handshake from version %s", h.Version)
	if h.HasOnion {
		if addr, err := core.NewOnionAddress(h.Onion); err == nil {
			n.router.Put(core.NewPeer(addr, 0), false)
		}
	}
	return nil
}

func (n *node) HandleGetFile(*core.GetFile) error { return nil }

func (n *node) HandlePEX(p *core.PEX) error {
	for _, addr := range p.PeersOnion {
		n.router.Put(core.NewPeer(addr, 0), false)
	}
	for _, addr := range p.PeersI2P {
		n.router.Put(core.NewPeer(addr, 0), false)
	}
	for _, peer := range p.PeersIP {
		if key, err := core.IPKey(peer.IP, peer.Port); err == nil {
			n.router.Put(core.NewPeer(key, 0), false)
		}
	}
	return nil
}

func (n *node) HandleUpdate(*core.Update) error               { return nil }
func (n *node) HandleListMod(*core.ListMod) error              { return nil }
func (n *node) HandleGetHash(*core.GetHash) error              { return nil }
func (n *node) HandleSetHash(*core.SetHash) error              { return nil }
func (n *node) HandleFindHash(*core.FindHash) error            { return nil }
func (n *node) HandleCheckPort(*core.CheckPort) error          { return nil }
func (n *node) HandleGetPieceStatus(*core.GetPieceStatus) error { return core.ErrNotImplemented }
func (n *node) HandleSetPieceStatus(*core.SetPieceStatus) error { return core.ErrNotImplemented }

// handleConn reads one packet from conn and routes it. Real dispatchers
// loop here; this illustrates a single request/response turn.
func (n *node) handleConn(dec *core.Decoder, conn net.Conn) {
	sender := conn.RemoteAddr().String()

	n.lock.WithLock(func() {
		if _, cached := n.conns.Lookup(sender); !cached {
			n.conns.Register(sender, conn)
		}
	})

	pkt, err := dec.DecodeStream(conn, sender)
	if err != nil {
		log.Warnf("decode failed from %s: %v", sender, err)
		return
	}

	if req, ok := pkt.(core.Request); ok {
		n.lock.WithLock(func() { n.seq.Register(req) })
		if err := core.Dispatch(n, pkt); err != nil && err != core.ErrNotImplemented {
			log.Warnf("handler error for %s: %v", pkt.Kind(), err)
		}
		return
	}

	var interpretErr error
	n.lock.WithLock(func() { interpretErr = n.seq.Interpret(pkt) })
	if interpretErr != nil {
		log.Warnf("sequencer rejected response from %s: %v", sender, interpretErr)
	}
}

func main() {
	if _, err := config.Load(utils.EnvOrDefault("ZERONET_ENV", "")); err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg := &config.AppConfig

	n := newNode(cfg)
	dec := core.NewDecoder()

	addr := cfg.Network.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:15441"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("listen on %s: %v", addr, err)
	}
	log.Infof("zeronetd listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Warnf("accept: %v", err)
			continue
		}
		go func(c net.Conn) {
			defer c.Close()
			n.handleConn(dec, c)
		}(conn)
	}
}
