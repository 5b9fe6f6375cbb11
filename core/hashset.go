package core

import "encoding/binary"

// HashPrefix is the first two bytes of a file's SHA-512/256 digest, used
// as a compact file identifier in peer exchange.
type HashPrefix [2]byte

// HashSet is a set of hash prefixes, capped at 1000 entries by the wire
// format (2000 raw bytes).
type HashSet map[HashPrefix]struct{}

const maxHashSetBytes = 2000

// BuildHashSet splits a raw byte string into consecutive 2-byte prefixes.
// The input must have even length and be at most 2000 bytes (1000
// prefixes); anything else is a ValueErr.
func BuildHashSet(raw []byte) (HashSet, error) {
	if len(raw)%2 != 0 {
		return nil, newValueErr("hashfield_raw", "odd length")
	}
	if len(raw) > maxHashSetBytes {
		return nil, newValueErr("hashfield_raw", "exceeds maximum length")
	}
	set := make(HashSet, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		var p HashPrefix
		copy(p[:], raw[i:i+2])
		set[p] = struct{}{}
	}
	return set, nil
}

// HashPrefixFromInt encodes an integer in [0, 0xFFFF] as a big-endian
// 2-byte prefix. FindHash accepts hash ids only as integers in this form;
// a raw 2-byte string is not accepted.
func HashPrefixFromInt(v int64) (HashPrefix, error) {
	if v < 0 || v > 0xFFFF {
		return HashPrefix{}, newValueErr("hash_id", "out of range")
	}
	var p HashPrefix
	binary.BigEndian.PutUint16(p[:], uint16(v))
	return p, nil
}

// Bytes returns the set serialized back to its raw wire form, in
// ascending numeric order.
func (s HashSet) Bytes() []byte {
	prefixes := make([]HashPrefix, 0, len(s))
	for p := range s {
		prefixes = append(prefixes, p)
	}
	sortPrefixes(prefixes)
	out := make([]byte, 0, len(prefixes)*2)
	for _, p := range prefixes {
		out = append(out, p[0], p[1])
	}
	return out
}

func sortPrefixes(p []HashPrefix) {
	for i := 1; i < len(p); i++ {
		for j := i; j > 0 && lessPrefix(p[j], p[j-1]); j-- {
			p[j], p[j-1] = p[j-1], p[j]
		}
	}
}

func lessPrefix(a, b HashPrefix) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// Contains reports whether p is a member of the set.
func (s HashSet) Contains(p HashPrefix) bool {
	_, ok := s[p]
	return ok
}

// Union returns a new set containing every prefix in either a or b.
func Union(a, b HashSet) HashSet {
	out := make(HashSet, len(a)+len(b))
	for p := range a {
		out[p] = struct{}{}
	}
	for p := range b {
		out[p] = struct{}{}
	}
	return out
}

// Intersect returns a new set containing only prefixes present in both a
// and b.
func Intersect(a, b HashSet) HashSet {
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	out := make(HashSet, len(small))
	for p := range small {
		if _, ok := big[p]; ok {
			out[p] = struct{}{}
		}
	}
	return out
}
