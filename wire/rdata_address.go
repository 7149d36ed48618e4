// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// rdata_address.go implements the A and AAAA RDATA variants. Grounded on
// dns/rdata.go's DNSRDATAA.
package wire

import (
	"net"
)

// RDATAA is the A record's RDATA: a 4-byte IPv4 address.
type RDATAA struct {
	Address [4]byte
}

func decodeA(msg []byte, start, end int) (RDATA, error) {
	if end-start != 4 {
		return nil, NewFormatError("A rdata must be 4 bytes, got %d", end-start)
	}
	var a RDATAA
	copy(a.Address[:], msg[start:end])
	return &a, nil
}

func (r *RDATAA) Type() Type { return TypeA }
func (r *RDATAA) Size() int  { return 4 }
func (r *RDATAA) String() string {
	return net.IP(r.Address[:]).String()
}
func (r *RDATAA) Equal(other RDATA) bool {
	o, ok := other.(*RDATAA)
	return ok && o.Address == r.Address
}
func (r *RDATAA) EncodeToBuffer(buf []byte, offset int, _ *OffsetTable) (int, error) {
	if offset+4 > len(buf) {
		return 0, NewFormatError("buffer too small for A rdata")
	}
	copy(buf[offset:], r.Address[:])
	return 4, nil
}
func (r *RDATAA) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.EncodeToBuffer(buf, offset, nil)
}

// RDATAAAAA is the AAAA record's RDATA: a 16-byte IPv6 address.
type RDATAAAAA struct {
	Address [16]byte
}

func decodeAAAA(msg []byte, start, end int) (RDATA, error) {
	if end-start != 16 {
		return nil, NewFormatError("AAAA rdata must be 16 bytes, got %d", end-start)
	}
	var a RDATAAAAA
	copy(a.Address[:], msg[start:end])
	return &a, nil
}

func (r *RDATAAAAA) Type() Type { return TypeAAAA }
func (r *RDATAAAAA) Size() int  { return 16 }
func (r *RDATAAAAA) String() string {
	return net.IP(r.Address[:]).String()
}
func (r *RDATAAAAA) Equal(other RDATA) bool {
	o, ok := other.(*RDATAAAAA)
	return ok && o.Address == r.Address
}
func (r *RDATAAAAA) EncodeToBuffer(buf []byte, offset int, _ *OffsetTable) (int, error) {
	if offset+16 > len(buf) {
		return 0, NewFormatError("buffer too small for AAAA rdata")
	}
	copy(buf[offset:], r.Address[:])
	return 16, nil
}
func (r *RDATAAAAA) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.EncodeToBuffer(buf, offset, nil)
}

// NewRDATAA constructs an A RDATA from a dotted-quad string.
func NewRDATAA(ip string) (*RDATAA, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, NewFormatError("invalid IPv4 address %q", ip)
	}
	v4 := parsed.To4()
	if v4 == nil {
		return nil, NewFormatError("not an IPv4 address %q", ip)
	}
	var a RDATAA
	copy(a.Address[:], v4)
	return &a, nil
}

// NewRDATAAAAA constructs an AAAA RDATA from an IPv6 string.
func NewRDATAAAAA(ip string) (*RDATAAAAA, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, NewFormatError("invalid IPv6 address %q", ip)
	}
	v6 := parsed.To16()
	if v6 == nil {
		return nil, NewFormatError("not an IPv6 address %q", ip)
	}
	var a RDATAAAAA
	copy(a.Address[:], v6)
	return &a, nil
}
