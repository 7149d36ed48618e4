// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// rdata_opt.go implements the OPT pseudo-record's RDATA as a concatenation
// of option TLVs (RFC 6891), and the EDNS(0) view of the OPT RR's class
// and TTL fields. The teacher's dns/metarr.go modeled OPT RDATA as a
// single option TLV; this restructures it into a real list per §4.D.
package wire

import (
	"encoding/binary"
	"fmt"
)

// Option is one EDNS(0) option TLV.
type Option struct {
	Code OptionCode
	Data []byte
}

// RDATAOPT is the OPT pseudo-record's RDATA: a sequence of option TLVs.
type RDATAOPT struct {
	Options []Option
}

func decodeOPT(msg []byte, start, end int) (RDATA, error) {
	var opts []Option
	pos := start
	for pos < end {
		if pos+4 > end {
			return nil, NewFormatError("OPT rdata: truncated option header")
		}
		code := OptionCode(binary.BigEndian.Uint16(msg[pos : pos+2]))
		length := int(binary.BigEndian.Uint16(msg[pos+2 : pos+4]))
		pos += 4
		if pos+length > end {
			return nil, NewFormatError("OPT rdata: option data extends past RDLENGTH")
		}
		opts = append(opts, Option{Code: code, Data: append([]byte{}, msg[pos:pos+length]...)})
		pos += length
	}
	return &RDATAOPT{Options: opts}, nil
}

func (r *RDATAOPT) Type() Type { return TypeOPT }
func (r *RDATAOPT) Size() int {
	n := 0
	for _, o := range r.Options {
		n += 4 + len(o.Data)
	}
	return n
}
func (r *RDATAOPT) String() string {
	return fmt.Sprintf("%d options", len(r.Options))
}
func (r *RDATAOPT) Equal(other RDATA) bool {
	o, ok := other.(*RDATAOPT)
	if !ok || len(o.Options) != len(r.Options) {
		return false
	}
	for i := range r.Options {
		if o.Options[i].Code != r.Options[i].Code || string(o.Options[i].Data) != string(r.Options[i].Data) {
			return false
		}
	}
	return true
}
func (r *RDATAOPT) EncodeToBuffer(buf []byte, offset int, _ *OffsetTable) (int, error) {
	pos := offset
	for _, o := range r.Options {
		if pos+4+len(o.Data) > len(buf) {
			return 0, NewFormatError("buffer too small for OPT option")
		}
		binary.BigEndian.PutUint16(buf[pos:], uint16(o.Code))
		binary.BigEndian.PutUint16(buf[pos+2:], uint16(len(o.Data)))
		copy(buf[pos+4:], o.Data)
		pos += 4 + len(o.Data)
	}
	return pos - offset, nil
}
func (r *RDATAOPT) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.EncodeToBuffer(buf, offset, nil)
}

// EDNS is the decoded view of an OPT pseudo-record: UDP payload size
// (from the RR's class field), extended rcode/version/DO bits and
// reserved bits (from the RR's TTL field, per RFC 6891), and its options.
type EDNS struct {
	UDPPayloadSize uint16
	ExtendedRCode  uint8
	Version        uint8
	DO             bool
	Reserved       uint16
	Options        []Option
}

// TTL packs the extended-rcode/version/DO/reserved fields into the OPT
// RR's 32-bit TTL field: extended-rcode(8) | version(8) | DO(1) | reserved(15).
func (e EDNS) TTL() uint32 {
	var ttl uint32
	ttl |= uint32(e.ExtendedRCode) << 24
	ttl |= uint32(e.Version) << 16
	if e.DO {
		ttl |= 1 << 15
	}
	ttl |= uint32(e.Reserved) & 0x7FFF
	return ttl
}

// EDNSFromTTL unpacks the OPT RR's TTL field into its component fields.
func EDNSFromTTL(ttl uint32) (extendedRCode, version uint8, do bool, reserved uint16) {
	extendedRCode = uint8(ttl >> 24)
	version = uint8(ttl >> 16)
	do = ttl&(1<<15) != 0
	reserved = uint16(ttl & 0x7FFF)
	return
}
