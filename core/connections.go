package core

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// ConnKey is whatever type a caller uses to name a peer connection
// (typically the same PeerAddr the router keys on). It must be
// comparable.
type ConnKey any

// connEntry is a single Connections record: a live socket handle plus the
// lookup-frequency counter eviction is weighted by.
type connEntry struct {
	socket any
	freq   uint64
}

// BlacklistFunc is an optional external hook consulted during eviction: it
// receives the current key set and returns the subset that should be
// force-removed regardless of frequency.
type BlacklistFunc func(keys []ConnKey) []ConnKey

// Connections is the capacity-bounded connection cache of §4.G: a map from
// peer key to live connection handle, evicted by ascending usage frequency
// once the table reaches capacity. It is not intrinsically thread-safe —
// per §5, callers must serialize mutation.
type Connections struct {
	capacity  int
	blacklist BlacklistFunc
	entries   map[ConnKey]*connEntry
	order     []ConnKey
}

// NewConnections returns an empty Connections bounded at capacity. A
// non-positive capacity is treated as unbounded (eviction never triggers).
func NewConnections(capacity int, blacklist BlacklistFunc) *Connections {
	return &Connections{
		capacity:  capacity,
		blacklist: blacklist,
		entries:   make(map[ConnKey]*connEntry),
	}
}

// Register inserts a new connection for dest if one is not already
// present, running RemoveUnused beforehand. Re-registering an existing
// dest is a no-op; callers that want to replace a socket should Delete
// first.
func (c *Connections) Register(dest ConnKey, socket any) {
	if _, exists := c.entries[dest]; exists {
		return
	}
	c.RemoveUnused()
	c.entries[dest] = &connEntry{socket: socket}
	c.order = append(c.order, dest)
}

// RemoveUnused enforces the capacity bound. If the table is at or above
// capacity: first, if a blacklist hook is configured, it is asked for the
// keys to force-remove; then, if the table is still above
// floor(0.8*capacity), entries are evicted in ascending-frequency order
// (ties broken by insertion order) until it is at or below that floor.
func (c *Connections) RemoveUnused() {
	if c.capacity <= 0 || len(c.entries) < c.capacity {
		return
	}

	if c.blacklist != nil {
		keys := make([]ConnKey, len(c.order))
		copy(keys, c.order)
		for _, k := range c.blacklist(keys) {
			if _, ok := c.entries[k]; ok {
				logrus.Warnf("connections: evicting blacklisted peer")
				c.removeKey(k)
			}
		}
	}

	floor := (c.capacity * 8) / 10
	if len(c.entries) <= floor {
		return
	}

	victims := append([]ConnKey(nil), c.order...)
	sort.SliceStable(victims, func(i, j int) bool {
		return c.entries[victims[i]].freq < c.entries[victims[j]].freq
	})
	for _, k := range victims {
		if len(c.entries) <= floor {
			break
		}
		logrus.Debugf("connections: evicting lowest-frequency peer to reach capacity floor")
		c.removeKey(k)
	}
}

func (c *Connections) removeKey(k ConnKey) {
	delete(c.entries, k)
	for i, o := range c.order {
		if o == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Lookup returns the socket handle registered for key, incrementing its
// usage-frequency counter as a side effect.
func (c *Connections) Lookup(key ConnKey) (any, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e.freq++
	return e.socket, true
}

// Delete removes key, if present.
func (c *Connections) Delete(key ConnKey) {
	if _, ok := c.entries[key]; ok {
		c.removeKey(key)
	}
}

// Len reports the number of live connections.
func (c *Connections) Len() int {
	return len(c.entries)
}
