package core

import "testing"

func u64(v uint64) *uint64 { return &v }

func TestSequencerCheckPortRoundTrip(t *testing.T) {
	seq := NewSequencer(DefaultSequencerCapacity)
	req := &CheckPort{Hdr: Header{ReqID: 0, Sender: "peerA"}, Port: 15441}
	seq.Register(req)

	resp := &RespPort{Hdr: Header{ReqID: 0, Sender: "peerA"}, Status: "open", Open: true}
	if err := seq.Interpret(resp); err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if resp.Port != 15441 {
		t.Fatalf("expected injected port 15441, got %d", resp.Port)
	}
	if !resp.Open || resp.Status != "open" {
		t.Fatalf("expected open status, got %+v", resp)
	}
}

func TestSequencerFileChunkContinuity(t *testing.T) {
	seq := NewSequencer(DefaultSequencerCapacity)
	req := &GetFile{
		Hdr: Header{ReqID: 1, Sender: "peerA"}, Site: "1Abc", InnerPath: "content.json",
		Offset: 0, TotalSize: u64(100),
	}
	seq.Register(req)

	resp := &RespFile{Hdr: Header{ReqID: 1, Sender: "peerA"}, Size: 100, Location: 19, Offset: 0, NextOffset: 20}
	if err := seq.Interpret(resp); err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if resp.Site != "1Abc" || resp.InnerPath != "content.json" {
		t.Fatalf("expected injected site/inner_path, got %+v", resp)
	}

	// A follow-up GetFile{offset:19} matched against a RespFile whose chunk
	// starts at offset 0 (location 19, next_offset 20) must fail: 0 != 19.
	req2 := &GetFile{Hdr: Header{ReqID: 2, Sender: "peerA"}, Offset: 19}
	seq.Register(req2)
	resp2 := &RespFile{Hdr: Header{ReqID: 2, Sender: "peerA"}, Size: 100, Location: 19, Offset: 0, NextOffset: 20}
	if err := seq.Interpret(resp2); err == nil {
		t.Fatalf("expected continuity ProtocolErr, got nil")
	} else if _, ok := err.(*ProtocolErr); !ok {
		t.Fatalf("expected *ProtocolErr, got %T: %v", err, err)
	}
}

func TestSequencerTotalSizeMismatch(t *testing.T) {
	seq := NewSequencer(DefaultSequencerCapacity)
	req := &GetFile{Hdr: Header{ReqID: 1, Sender: "peerA"}, Offset: 0, TotalSize: u64(100)}
	seq.Register(req)

	resp := &RespFile{Hdr: Header{ReqID: 1, Sender: "peerA"}, Size: 99, Location: 19, Offset: 0, NextOffset: 20}
	if err := seq.Interpret(resp); err == nil {
		t.Fatalf("expected total-size mismatch error, got nil")
	} else if _, ok := err.(*ProtocolErr); !ok {
		t.Fatalf("expected *ProtocolErr, got %T", err)
	}
}

func TestSequencerWrongResponseClass(t *testing.T) {
	seq := NewSequencer(DefaultSequencerCapacity)
	req := &Ping{Hdr: Header{ReqID: 5, Sender: "peerA"}}
	seq.Register(req)

	resp := &RespPort{Hdr: Header{ReqID: 5, Sender: "peerA"}, Status: "open"}
	if err := seq.Interpret(resp); err == nil {
		t.Fatalf("expected mismatched-class ProtocolErr, got nil")
	} else if _, ok := err.(*ProtocolErr); !ok {
		t.Fatalf("expected *ProtocolErr, got %T", err)
	}
}

func TestSequencerUnsolicitedResponse(t *testing.T) {
	seq := NewSequencer(DefaultSequencerCapacity)
	resp := &RespPort{Hdr: Header{ReqID: 99, Sender: "peerA"}, Status: "open"}
	if err := seq.Interpret(resp); err == nil {
		t.Fatalf("expected KeyErr, got nil")
	} else if _, ok := err.(*KeyErr); !ok {
		t.Fatalf("expected *KeyErr, got %T", err)
	}
}

func TestSequencerCapacityEviction(t *testing.T) {
	const capacity = 10
	seq := NewSequencer(capacity)
	for i := 0; i < capacity+1; i++ {
		seq.Register(&Ping{Hdr: Header{ReqID: uint32(i), Sender: "peerA"}})
	}
	if got := seq.Len(); got != capacity {
		t.Fatalf("expected length capped at %d, got %d", capacity, got)
	}

	// The oldest entry (req_id 0) was evicted; it can never be matched.
	resp := &Pong{Hdr: Header{ReqID: 0, Sender: "peerA"}}
	if err := seq.Interpret(resp); err == nil {
		t.Fatalf("expected evicted entry to be unmatchable")
	}

	// The newest entry (req_id capacity) is still outstanding.
	resp2 := &Pong{Hdr: Header{ReqID: capacity, Sender: "peerA"}}
	if err := seq.Interpret(resp2); err != nil {
		t.Fatalf("expected newest entry to still match, got %v", err)
	}
}

func TestSequencerDifferentSenderDoesNotMatch(t *testing.T) {
	seq := NewSequencer(DefaultSequencerCapacity)
	seq.Register(&Ping{Hdr: Header{ReqID: 1, Sender: "peerA"}})

	resp := &Pong{Hdr: Header{ReqID: 1, Sender: "peerB"}}
	if err := seq.Interpret(resp); err == nil {
		t.Fatalf("expected a response from a different sender to not consume the entry")
	}

	resp2 := &Pong{Hdr: Header{ReqID: 1, Sender: "peerA"}}
	if err := seq.Interpret(resp2); err != nil {
		t.Fatalf("expected the correct-sender response to still match, got %v", err)
	}
}

func TestSequencerRegistersReservedRequest(t *testing.T) {
	seq := NewSequencer(DefaultSequencerCapacity)
	seq.Register(&GetPieceStatus{Hdr: Header{ReqID: 1, Sender: "peerA"}})
	if got := seq.Len(); got != 1 {
		t.Fatalf("GetPieceStatus declares a response class, expected registration, got len=%d", got)
	}
}

func TestSequencerFindHashRoundTrip(t *testing.T) {
	seq := NewSequencer(DefaultSequencerCapacity)
	req := &FindHash{Hdr: Header{ReqID: 1, Sender: "peerA"}, Site: "1Abc", HashIDs: []HashPrefix{{0x00, 0x01}}}
	seq.Register(req)

	resp := &RespHashSet{Hdr: Header{ReqID: 1, Sender: "peerA"}}
	if err := seq.Interpret(resp); err != nil {
		t.Fatalf("expected FindHash to match a RespHashSet reply, got %v", err)
	}
}

func TestSequencerUnknownResponseKindIsNoOp(t *testing.T) {
	seq := NewSequencer(DefaultSequencerCapacity)
	if err := seq.Interpret(&GetFile{Hdr: Header{ReqID: 1, Sender: "peerA"}}); err != nil {
		t.Fatalf("expected Interpret of a request-kind packet to no-op, got %v", err)
	}
}
