package core

import (
	"encoding/base32"
	"encoding/binary"
	"net"
	"strings"
)

var base32NoPad = base32.StdEncoding.WithPadding(base32.NoPadding)

// OnionAddr is a Tor onion service address in packed form: 10 bytes for a
// v2 address, 35 bytes for v3. Packed holds the raw bytes as a string
// (rather than []byte) so OnionAddr stays comparable — the Router and
// Connections tables key peers by address value, per §3/§4.F.
type OnionAddr struct {
	Packed string
}

// Readable returns the lowercase base32 "xyz.onion" form.
func (a OnionAddr) Readable() string {
	return strings.ToLower(base32NoPad.EncodeToString([]byte(a.Packed))) + ".onion"
}

// UnpackOnion decodes a packed onion address. Onion packed bytes carry no
// port; the returned port is always 0.
func UnpackOnion(b []byte) (OnionAddr, uint16, error) {
	switch len(b) {
	case 10, 35:
		return OnionAddr{Packed: string(b)}, 0, nil
	default:
		return OnionAddr{}, 0, newValueErr("onion", "invalid packed length")
	}
}

// NewOnionAddress parses a readable onion address (with or without the
// ".onion" suffix) into its packed form.
func NewOnionAddress(readable string) (OnionAddr, error) {
	s := strings.TrimSuffix(strings.ToLower(readable), ".onion")
	packed, err := base32NoPad.DecodeString(strings.ToUpper(s))
	if err != nil {
		return OnionAddr{}, newValueErr("onion", "invalid base32 encoding")
	}
	if len(packed) != 10 && len(packed) != 35 {
		return OnionAddr{}, newValueErr("onion", "invalid packed length")
	}
	return OnionAddr{Packed: string(packed)}, nil
}

// I2PAddr is an I2P b32 address in packed form: always 32 bytes, held as a
// string for the same comparability reason as OnionAddr.
type I2PAddr struct {
	Packed string
}

// Readable returns the lowercase padded base32 "xyz.b32.i2p" form.
func (a I2PAddr) Readable() string {
	return strings.ToLower(base32.StdEncoding.EncodeToString([]byte(a.Packed))) + ".b32.i2p"
}

// UnpackI2P decodes a packed I2P b32 address. I2P carries no port; the
// returned port is always 0.
func UnpackI2P(b []byte) (I2PAddr, uint16, error) {
	if len(b) != 32 {
		return I2PAddr{}, 0, newValueErr("i2p", "invalid packed length")
	}
	return I2PAddr{Packed: string(b)}, 0, nil
}

// NewI2PAddress parses a readable I2P address (with or without the
// ".b32.i2p" suffix) into its packed form.
func NewI2PAddress(readable string) (I2PAddr, error) {
	s := strings.TrimSuffix(strings.ToLower(readable), ".b32.i2p")
	packed, err := base32.StdEncoding.DecodeString(strings.ToUpper(s))
	if err != nil {
		return I2PAddr{}, newValueErr("i2p", "invalid base32 encoding")
	}
	if len(packed) != 32 {
		return I2PAddr{}, newValueErr("i2p", "invalid packed length")
	}
	return I2PAddr{Packed: string(packed)}, nil
}

// UnpackIP decodes a packed IPv4 (6 bytes) or IPv6 (18 bytes) address,
// where the trailing two bytes are a big-endian port.
func UnpackIP(b []byte) (net.IP, uint16, error) {
	switch len(b) {
	case 6:
		ip := net.IP(append([]byte(nil), b[:4]...))
		return ip, binary.BigEndian.Uint16(b[4:6]), nil
	case 18:
		ip := net.IP(append([]byte(nil), b[:16]...))
		return ip, binary.BigEndian.Uint16(b[16:18]), nil
	default:
		return nil, 0, newValueErr("ip", "invalid packed length")
	}
}

// IPKey returns a comparable string form of a packed IP/port tuple,
// suitable for use as a Router or Connections key — net.IP itself is a
// []byte slice and so is not comparable.
func IPKey(ip net.IP, port uint16) (string, error) {
	b, err := PackIP(ip, port)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PackIP encodes an IPv4 or IPv6 address and port into packed wire form.
func PackIP(ip net.IP, port uint16) ([]byte, error) {
	var addr []byte
	if v4 := ip.To4(); v4 != nil {
		addr = append([]byte(nil), v4...)
	} else if v6 := ip.To16(); v6 != nil {
		addr = append([]byte(nil), v6...)
	} else {
		return nil, newValueErr("ip", "not a valid IPv4/IPv6 address")
	}
	suffix := make([]byte, 2)
	binary.BigEndian.PutUint16(suffix, port)
	return append(addr, suffix...), nil
}
