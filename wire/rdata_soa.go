// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// rdata_soa.go implements the SOA RDATA variant. Grounded on
// dns/rdata.go's DNSRDATASOA.
package wire

import (
	"encoding/binary"
	"fmt"
)

// RDATASOA is the SOA record's RDATA.
type RDATASOA struct {
	MName   Name
	RName   Name
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

func decodeSOA(msg []byte, start, end int) (RDATA, error) {
	mname, next, err := DecodeNameFromBuffer(msg, start)
	if err != nil {
		return nil, err
	}
	rname, next2, err := DecodeNameFromBuffer(msg, next)
	if err != nil {
		return nil, err
	}
	if next2+20 != end {
		return nil, NewFormatError("SOA rdata: trailing fields do not align with RDLENGTH")
	}
	return &RDATASOA{
		MName:   mname,
		RName:   rname,
		Serial:  binary.BigEndian.Uint32(msg[next2 : next2+4]),
		Refresh: binary.BigEndian.Uint32(msg[next2+4 : next2+8]),
		Retry:   binary.BigEndian.Uint32(msg[next2+8 : next2+12]),
		Expire:  binary.BigEndian.Uint32(msg[next2+12 : next2+16]),
		Minimum: binary.BigEndian.Uint32(msg[next2+16 : next2+20]),
	}, nil
}

func (r *RDATASOA) Type() Type { return TypeSOA }
func (r *RDATASOA) Size() int  { return r.MName.Size() + r.RName.Size() + 20 }
func (r *RDATASOA) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d %d", r.MName, r.RName, r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum)
}
func (r *RDATASOA) Equal(other RDATA) bool {
	o, ok := other.(*RDATASOA)
	return ok && o.MName.Equal(r.MName) && o.RName.Equal(r.RName) &&
		o.Serial == r.Serial && o.Refresh == r.Refresh && o.Retry == r.Retry &&
		o.Expire == r.Expire && o.Minimum == r.Minimum
}

func (r *RDATASOA) encode(buf []byte, offset int, ot *OffsetTable, canonical bool) (int, error) {
	var n1, n2 int
	var err error
	if canonical {
		n1, err = r.MName.EncodeCanonicalToBuffer(buf, offset)
	} else {
		n1, err = r.MName.EncodeToBuffer(buf, offset, ot)
	}
	if err != nil {
		return 0, err
	}
	if canonical {
		n2, err = r.RName.EncodeCanonicalToBuffer(buf, offset+n1)
	} else {
		n2, err = r.RName.EncodeToBuffer(buf, offset+n1, ot)
	}
	if err != nil {
		return 0, err
	}
	pos := offset + n1 + n2
	if pos+20 > len(buf) {
		return 0, NewFormatError("buffer too small for SOA trailing fields")
	}
	binary.BigEndian.PutUint32(buf[pos:], r.Serial)
	binary.BigEndian.PutUint32(buf[pos+4:], r.Refresh)
	binary.BigEndian.PutUint32(buf[pos+8:], r.Retry)
	binary.BigEndian.PutUint32(buf[pos+12:], r.Expire)
	binary.BigEndian.PutUint32(buf[pos+16:], r.Minimum)
	return n1 + n2 + 20, nil
}

func (r *RDATASOA) EncodeToBuffer(buf []byte, offset int, ot *OffsetTable) (int, error) {
	return r.encode(buf, offset, ot, false)
}
func (r *RDATASOA) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.encode(buf, offset, nil, true)
}
