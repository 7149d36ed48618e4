// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// rdata_unknown.go implements the fallback opaque RDATA used for record
// types this codec does not parse structurally, so unrecognized types
// still round-trip. Grounded on dns/rdata.go's DNSRDATAUnknown.
package wire

import "fmt"

// RDATAUnknown is the opaque fallback for unrecognized record types.
type RDATAUnknown struct {
	RRType Type
	Data   []byte
}

func decodeUnknown(t Type, msg []byte, start, end int) (RDATA, error) {
	return &RDATAUnknown{RRType: t, Data: append([]byte{}, msg[start:end]...)}, nil
}

func (r *RDATAUnknown) Type() Type { return r.RRType }
func (r *RDATAUnknown) Size() int  { return len(r.Data) }
func (r *RDATAUnknown) String() string {
	return fmt.Sprintf("\\# %d %x", len(r.Data), r.Data)
}
func (r *RDATAUnknown) Equal(other RDATA) bool {
	o, ok := other.(*RDATAUnknown)
	return ok && o.RRType == r.RRType && string(o.Data) == string(r.Data)
}
func (r *RDATAUnknown) EncodeToBuffer(buf []byte, offset int, _ *OffsetTable) (int, error) {
	if offset+len(r.Data) > len(buf) {
		return 0, NewFormatError("buffer too small for unknown rdata")
	}
	copy(buf[offset:], r.Data)
	return len(r.Data), nil
}
func (r *RDATAUnknown) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.EncodeToBuffer(buf, offset, nil)
}
