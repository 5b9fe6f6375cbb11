package core

import "sync"

// DefaultPeerScore is a freshly discovered peer's starting score, before
// any reputation signal adjusts it.
const DefaultPeerScore = 50

// PeerAddr is any address form the router can key peers by: OnionAddr,
// I2PAddr, or a packed IP/port tuple. It must be comparable so it can be
// used as a map key.
type PeerAddr any

// Peer is a single entry in the Router's peer table. Equality and hashing
// are by Address alone, matching §3.
type Peer struct {
	Address  PeerAddr
	LastSeen uint64
	Sites    map[string]struct{}
	DHTState any
	Score    int
}

// NewPeer returns a Peer at DefaultPeerScore with an empty site membership
// set.
func NewPeer(addr PeerAddr, lastSeen uint64) *Peer {
	return &Peer{Address: addr, LastSeen: lastSeen, Sites: make(map[string]struct{}), Score: DefaultPeerScore}
}

// Router is the keyed peer table of §4.F: a map from peer address to peer
// record with insert-or-override put semantics. It is safe for concurrent
// use.
type Router struct {
	mu    sync.RWMutex
	peers map[PeerAddr]*Peer
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{peers: make(map[PeerAddr]*Peer)}
}

// Put inserts peer if its address is absent, or if override is true.
// Duplicate puts without override are silently ignored, per §3's
// invariant.
func (r *Router) Put(peer *Peer, override bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.peers[peer.Address]; exists && !override {
		return
	}
	r.peers[peer.Address] = peer
}

// Get returns the peer at addr, if any.
func (r *Router) Get(addr PeerAddr) (*Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.peers[addr]
	return p, ok
}

// Delete removes the peer at addr, if present.
func (r *Router) Delete(addr PeerAddr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.peers, addr)
}

// Len reports the number of known peers.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

// Iter calls fn once per peer currently in the table. Iteration order is
// unspecified, per §4.F. fn must not call back into the Router.
func (r *Router) Iter(fn func(*Peer)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.peers {
		fn(p)
	}
}

// Distance computes the big-endian XOR distance between two equal-length
// hashes, interpreted as non-negative integers, for future DHT use (§4.F).
// Mismatched lengths yield a ValueErr.
func Distance(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, newValueErr("hash", "length mismatch")
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out, nil
}
