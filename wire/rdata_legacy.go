// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// rdata_legacy.go implements two record types the teacher's factory never
// wired: NXT (RFC 2535's NSEC predecessor, a legacy 16-window-only
// bitmap with no window-index byte) and WKS (RFC 1035 §3.4.2 well-known
// services).
package wire

import "fmt"

// RDATANXT is the NXT record's RDATA: next name plus a legacy bitmap with
// no window index byte, as long as the highest listed type needs (16 bytes
// cover type codes 0-127).
type RDATANXT struct {
	NextName Name
	Types    []Type
}

func decodeNXT(msg []byte, start, end int) (RDATA, error) {
	next, pos, err := DecodeNameFromBuffer(msg, start)
	if err != nil {
		return nil, err
	}
	if pos > end {
		return nil, NewFormatError("NXT rdata: next name extends past RDLENGTH")
	}
	bitmap := msg[pos:end]
	var types []Type
	for byteIdx, b := range bitmap {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<(7-bit)) != 0 {
				types = append(types, Type(byteIdx*8+bit))
			}
		}
	}
	return &RDATANXT{NextName: next, Types: types}, nil
}

func (r *RDATANXT) Type() Type { return TypeNXT }
func (r *RDATANXT) bitmap() []byte {
	maxByte := 0
	for _, t := range r.Types {
		if b := int(t)/8 + 1; b > maxByte {
			maxByte = b
		}
	}
	bm := make([]byte, maxByte)
	for _, t := range r.Types {
		bm[int(t)/8] |= 1 << (7 - uint(t)%8)
	}
	return bm
}
func (r *RDATANXT) Size() int { return r.NextName.Size() + len(r.bitmap()) }
func (r *RDATANXT) String() string {
	return fmt.Sprintf("%s %v", r.NextName, r.Types)
}
func (r *RDATANXT) Equal(other RDATA) bool {
	o, ok := other.(*RDATANXT)
	// Types is compared as a set via the bitmap, since decoding always
	// yields it in ascending order.
	return ok && o.NextName.Equal(r.NextName) && string(o.bitmap()) == string(r.bitmap())
}
func (r *RDATANXT) encode(buf []byte, offset int, ot *OffsetTable, canonical bool) (int, error) {
	var n int
	var err error
	if canonical {
		n, err = r.NextName.EncodeCanonicalToBuffer(buf, offset)
	} else {
		n, err = r.NextName.EncodeToBuffer(buf, offset, ot)
	}
	if err != nil {
		return 0, err
	}
	bm := r.bitmap()
	if offset+n+len(bm) > len(buf) {
		return 0, NewFormatError("buffer too small for NXT bitmap")
	}
	copy(buf[offset+n:], bm)
	return n + len(bm), nil
}
func (r *RDATANXT) EncodeToBuffer(buf []byte, offset int, ot *OffsetTable) (int, error) {
	return r.encode(buf, offset, ot, false)
}
func (r *RDATANXT) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.encode(buf, offset, nil, true)
}

// RDATAWKS is the WKS record's RDATA: an IPv4 address, an IP protocol
// number, and a bitmap of the well-known ports open on that protocol.
type RDATAWKS struct {
	Address  [4]byte
	Protocol uint8
	Bitmap   []byte
}

func decodeWKS(msg []byte, start, end int) (RDATA, error) {
	if start+5 > end {
		return nil, NewFormatError("WKS rdata truncated")
	}
	var w RDATAWKS
	copy(w.Address[:], msg[start:start+4])
	w.Protocol = msg[start+4]
	w.Bitmap = append([]byte{}, msg[start+5:end]...)
	return &w, nil
}

func (r *RDATAWKS) Type() Type { return TypeWKS }
func (r *RDATAWKS) Size() int  { return 5 + len(r.Bitmap) }
func (r *RDATAWKS) String() string {
	return fmt.Sprintf("%v proto=%d", r.Address, r.Protocol)
}
func (r *RDATAWKS) Equal(other RDATA) bool {
	o, ok := other.(*RDATAWKS)
	return ok && o.Address == r.Address && o.Protocol == r.Protocol && string(o.Bitmap) == string(r.Bitmap)
}
func (r *RDATAWKS) EncodeToBuffer(buf []byte, offset int, _ *OffsetTable) (int, error) {
	if offset+5+len(r.Bitmap) > len(buf) {
		return 0, NewFormatError("buffer too small for WKS rdata")
	}
	copy(buf[offset:], r.Address[:])
	buf[offset+4] = r.Protocol
	copy(buf[offset+5:], r.Bitmap)
	return 5 + len(r.Bitmap), nil
}
func (r *RDATAWKS) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.EncodeToBuffer(buf, offset, nil)
}
