package core

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// DefaultSequencerCapacity is the upstream default: at most 10 outstanding
// requests per sequencer before the oldest is evicted.
const DefaultSequencerCapacity = 10

// knownResponseKinds is the fixed set of response variants the sequencer
// recognizes. interpret is a no-op for any packet whose kind is not in
// this set.
var knownResponseKinds = map[PacketKind]struct{}{
	KindPong:          {},
	KindPredicate:     {},
	KindAck:           {},
	KindRespFile:      {},
	KindRespPEX:       {},
	KindRespMod:       {},
	KindRespHashSet:   {},
	KindRespHashDict:  {},
	KindRespPort:      {},
	KindRespPieceDict: {},
}

type sequenceKey struct {
	sender any
	reqID  uint32
}

type sequenceEntry struct {
	responseKind PacketKind
	ctx          RequestContext
}

// Sequencer is the bounded ordered (sender, req_id) -> expected response
// table described in §4.E, backed by hashicorp/golang-lru's Cache for the
// capacity bound and overflow eviction. Register only calls Add, Interpret
// only Peek/Remove (never Get), and a matched entry is popped immediately,
// so lookups never reorder the cache and its least-recently-used eviction
// is oldest-insertion-first. The one exception is re-registering a
// (sender, req_id) that is still outstanding: Add replaces that entry and
// moves it to the newest position.
//
// register and interpret each take the sequencer's own mutex for their
// full duration, matching §5's "guarded by a single mutex held across
// register and interpret calls" — the cache's internal locking isn't a
// substitute, since an interpret is a check-then-act across several
// fields that must be atomic as a whole.
type Sequencer struct {
	mu    sync.Mutex
	cache *lru.Cache[sequenceKey, sequenceEntry]
}

// NewSequencer returns a Sequencer bounded at capacity outstanding entries.
// A non-positive capacity falls back to DefaultSequencerCapacity.
func NewSequencer(capacity int) *Sequencer {
	if capacity <= 0 {
		capacity = DefaultSequencerCapacity
	}
	cache, err := lru.NewWithEvict[sequenceKey, sequenceEntry](capacity, func(key sequenceKey, _ sequenceEntry) {
		logrus.Warnf("sequencer: evicting oldest outstanding request (reqID=%d) to stay within capacity %d", key.reqID, capacity)
	})
	if err != nil {
		// Only returned for a non-positive size, which NewSequencer has
		// already ruled out.
		panic("zeronet-core: " + err.Error())
	}
	return &Sequencer{cache: cache}
}

// Register records req as an outstanding request awaiting its reply. It is
// a no-op for requests that expect no response (ResponseKind's ok is
// false). If the table is at capacity, the oldest entry is evicted first
// (FIFO overflow). Registering a (sender, req_id) that is already
// outstanding replaces its entry and makes it the newest instead.
func (s *Sequencer) Register(req Request) {
	kind, ok := req.ResponseKind()
	if !ok {
		return
	}
	key := sequenceKey{sender: req.Header().Sender, reqID: req.Header().ReqID}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(key, sequenceEntry{responseKind: kind, ctx: req.Context()})
}

// Interpret matches resp against its originating request and, on success,
// injects the request's copied context into resp. It is a no-op (returns
// nil) for packets whose kind is not a recognized response variant.
//
// Returns a KeyErr if no outstanding request matches (sender, req_id) —
// an unsolicited response. Returns a ProtocolErr if the matched request
// expected a different response variant, or if a RespFile fails the
// offset/total-size continuity check in §3/§8 P4.
func (s *Sequencer) Interpret(resp Packet) error {
	if _, known := knownResponseKinds[resp.Kind()]; !known {
		return nil
	}
	key := sequenceKey{sender: resp.Header().Sender, reqID: resp.Header().ReqID}

	s.mu.Lock()
	entry, ok := s.cache.Peek(key)
	if ok {
		s.cache.Remove(key)
	}
	s.mu.Unlock()

	if !ok {
		return newKeyErr("unsolicited response")
	}
	if entry.responseKind != resp.Kind() {
		return newProtocolErr("sequencer: expected %s in reply, got %s", entry.responseKind, resp.Kind())
	}

	if rf, isFile := resp.(*RespFile); isFile {
		if rf.Offset != entry.ctx.Offset {
			return newProtocolErr("sequencer: non-consecutive file body (expected offset %d, got %d)", entry.ctx.Offset, rf.Offset)
		}
		if entry.ctx.TotalSize != nil && (rf.Size != *entry.ctx.TotalSize) {
			return newProtocolErr("sequencer: total size mismatch (expected %d, got %d)", *entry.ctx.TotalSize, rf.Size)
		}
	}

	if cr, ok := resp.(ContextReceiver); ok {
		cr.applyContext(entry.ctx)
	}
	return nil
}

// Len reports the number of outstanding entries. Intended for tests and
// diagnostics.
func (s *Sequencer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
