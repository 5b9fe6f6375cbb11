package core

import "testing"

func TestConditionRangeAcceptsNumericTypes(t *testing.T) {
	cases := []any{int64(5), int(5), uint64(5), float64(5.0)}
	for _, v := range cases {
		c := NewCondition(map[string]any{"n": v})
		if _, err := c.Range("n", 0, 10); err != nil {
			t.Fatalf("expected %T(%v) to be accepted, got %v", v, v, err)
		}
	}
}

func TestConditionRangeRejectsBytes(t *testing.T) {
	c := NewCondition(map[string]any{"n": []byte{0xFF}})
	if _, err := c.Range("n", 0, 10); err == nil {
		t.Fatalf("expected bytes value to fail range check")
	} else if _, ok := err.(*TypeErr); !ok {
		t.Fatalf("expected *TypeErr, got %T", err)
	}
}

func TestConditionRangeOutOfBounds(t *testing.T) {
	c := NewCondition(map[string]any{"n": int64(11)})
	if _, err := c.Range("n", 0, 10); err == nil {
		t.Fatalf("expected out-of-range value to fail")
	} else if _, ok := err.(*ValueErr); !ok {
		t.Fatalf("expected *ValueErr, got %T", err)
	}
}

func TestConditionMandatoryMissingKey(t *testing.T) {
	c := NewCondition(map[string]any{})
	if _, err := c.AsInt("missing"); err == nil {
		t.Fatalf("expected KeyErr for missing mandatory field")
	} else if _, ok := err.(*KeyErr); !ok {
		t.Fatalf("expected *KeyErr, got %T", err)
	}
}

func TestConditionOptMissingKeySkipsValidation(t *testing.T) {
	c := NewCondition(map[string]any{})
	_, ok, err := c.RangeOpt("missing", 0, 10)
	if ok || err != nil {
		t.Fatalf("expected opt accessor to return ok=false, err=nil for missing key, got ok=%v err=%v", ok, err)
	}
}

func TestConditionInnerPathSafety(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "etc/passwd", want: "etc/passwd"},
		{in: "/etc/passwd", want: "etc/passwd"},
		{in: `a\b\c`, want: "a/b/c"},
		{in: "../secret", wantErr: true},
		{in: "a/../b", wantErr: true},
		{in: "bad<char>", wantErr: true},
	}
	for _, tc := range cases {
		c := NewCondition(map[string]any{"p": tc.in})
		got, err := c.Inner("p")
		if tc.wantErr {
			if err == nil {
				t.Errorf("Inner(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Inner(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Inner(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestConditionInnerPathLengthLimit(t *testing.T) {
	long := make([]byte, maxInnerPath+1)
	for i := range long {
		long[i] = 'a'
	}
	c := NewCondition(map[string]any{"p": long})
	if _, err := c.Inner("p"); err == nil {
		t.Fatalf("expected over-length inner path to be rejected")
	}
}

func TestConditionBTCAndHandle(t *testing.T) {
	c := NewCondition(map[string]any{
		"site":   "1HelloWorld1234567890ABCDEF",
		"bad":    "not-a-btc-address",
		"handle": "valid_handle-1.2",
	})
	if _, err := c.BTC("site"); err != nil {
		t.Fatalf("expected valid site id to pass: %v", err)
	}
	if _, err := c.BTC("bad"); err == nil {
		t.Fatalf("expected invalid site id to fail")
	}
	if _, err := c.Handle("handle"); err != nil {
		t.Fatalf("expected valid handle to pass: %v", err)
	}
}

func TestConditionPortRange(t *testing.T) {
	c := NewCondition(map[string]any{"p": int64(70000)})
	if _, err := c.Port("p"); err == nil {
		t.Fatalf("expected out-of-range port to fail")
	}
	c2 := NewCondition(map[string]any{"p": int64(8080)})
	if p, err := c2.Port("p"); err != nil || p != 8080 {
		t.Fatalf("expected port 8080 to parse, got %d err=%v", p, err)
	}
}
