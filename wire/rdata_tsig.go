// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// rdata_tsig.go implements the TSIG RDATA variant (RFC 8945). Grounded on
// §4.D/§9's description of the TSIG wire shape and MAC preimage; absent
// from the teacher's dns/rdata.go entirely.
package wire

import (
	"encoding/binary"
	"fmt"
)

// RDATATSIG is the TSIG record's RDATA.
type RDATATSIG struct {
	Algorithm  Name
	SignedTime uint64 // 48-bit value
	Fudge      uint16
	MAC        []byte
	OriginalID uint16
	Error      uint16
	Other      []byte
}

func decodeTSIG(msg []byte, start, end int) (RDATA, error) {
	alg, pos, err := DecodeNameFromBuffer(msg, start)
	if err != nil {
		return nil, err
	}
	if pos+8 > end {
		return nil, NewFormatError("TSIG rdata truncated before signed-time/fudge")
	}
	signedTime := uint64(binary.BigEndian.Uint32(msg[pos:pos+4]))<<16 | uint64(binary.BigEndian.Uint16(msg[pos+4:pos+6]))
	fudge := binary.BigEndian.Uint16(msg[pos+6 : pos+8])
	pos += 8
	if pos+2 > end {
		return nil, NewFormatError("TSIG rdata truncated before MAC length")
	}
	macLen := int(binary.BigEndian.Uint16(msg[pos : pos+2]))
	pos += 2
	if pos+macLen > end {
		return nil, NewFormatError("TSIG rdata: MAC extends past RDLENGTH")
	}
	mac := append([]byte{}, msg[pos:pos+macLen]...)
	pos += macLen
	if pos+6 > end {
		return nil, NewFormatError("TSIG rdata truncated before original-id/error")
	}
	origID := binary.BigEndian.Uint16(msg[pos : pos+2])
	errCode := binary.BigEndian.Uint16(msg[pos+2 : pos+4])
	otherLen := int(binary.BigEndian.Uint16(msg[pos+4 : pos+6]))
	pos += 6
	if pos+otherLen != end {
		return nil, NewFormatError("TSIG rdata: other-data does not align with RDLENGTH")
	}
	other := append([]byte{}, msg[pos:pos+otherLen]...)
	return &RDATATSIG{Algorithm: alg, SignedTime: signedTime, Fudge: fudge, MAC: mac, OriginalID: origID, Error: errCode, Other: other}, nil
}

func (r *RDATATSIG) Type() Type { return TypeTSIG }
func (r *RDATATSIG) Size() int {
	return r.Algorithm.Size() + 8 + 2 + len(r.MAC) + 6 + len(r.Other)
}
func (r *RDATATSIG) String() string {
	return fmt.Sprintf("%s %d %d MAC(%d bytes)", r.Algorithm, r.SignedTime, r.Fudge, len(r.MAC))
}
func (r *RDATATSIG) Equal(other RDATA) bool {
	o, ok := other.(*RDATATSIG)
	return ok && o.Algorithm.Equal(r.Algorithm) && o.SignedTime == r.SignedTime &&
		o.Fudge == r.Fudge && string(o.MAC) == string(r.MAC) && o.OriginalID == r.OriginalID &&
		o.Error == r.Error && string(o.Other) == string(r.Other)
}

func (r *RDATATSIG) encode(buf []byte, offset int, ot *OffsetTable, canonical bool) (int, error) {
	var n int
	var err error
	if canonical {
		n, err = r.Algorithm.EncodeCanonicalToBuffer(buf, offset)
	} else {
		n, err = r.Algorithm.EncodeToBuffer(buf, offset, ot)
	}
	if err != nil {
		return 0, err
	}
	pos := offset + n
	need := 8 + 2 + len(r.MAC) + 6 + len(r.Other)
	if pos+need > len(buf) {
		return 0, NewFormatError("buffer too small for TSIG trailing fields")
	}
	binary.BigEndian.PutUint32(buf[pos:], uint32(r.SignedTime>>16))
	binary.BigEndian.PutUint16(buf[pos+4:], uint16(r.SignedTime))
	binary.BigEndian.PutUint16(buf[pos+6:], r.Fudge)
	pos += 8
	binary.BigEndian.PutUint16(buf[pos:], uint16(len(r.MAC)))
	pos += 2
	copy(buf[pos:], r.MAC)
	pos += len(r.MAC)
	binary.BigEndian.PutUint16(buf[pos:], r.OriginalID)
	binary.BigEndian.PutUint16(buf[pos+2:], r.Error)
	binary.BigEndian.PutUint16(buf[pos+4:], uint16(len(r.Other)))
	pos += 6
	copy(buf[pos:], r.Other)
	pos += len(r.Other)
	return pos - offset, nil
}

func (r *RDATATSIG) EncodeToBuffer(buf []byte, offset int, ot *OffsetTable) (int, error) {
	return r.encode(buf, offset, ot, false)
}
func (r *RDATATSIG) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.encode(buf, offset, nil, true)
}

// RDATATKEY is the TKEY record's RDATA (RFC 2930).
type RDATATKEY struct {
	Algorithm  Name
	Inception  uint32
	Expiration uint32
	Mode       uint16
	Error      uint16
	Key        []byte
	Other      []byte
}

func decodeTKEY(msg []byte, start, end int) (RDATA, error) {
	alg, pos, err := DecodeNameFromBuffer(msg, start)
	if err != nil {
		return nil, err
	}
	if pos+12 > end {
		return nil, NewFormatError("TKEY rdata truncated")
	}
	inception := binary.BigEndian.Uint32(msg[pos : pos+4])
	expiration := binary.BigEndian.Uint32(msg[pos+4 : pos+8])
	mode := binary.BigEndian.Uint16(msg[pos+8 : pos+10])
	errCode := binary.BigEndian.Uint16(msg[pos+10 : pos+12])
	pos += 12
	if pos+2 > end {
		return nil, NewFormatError("TKEY rdata truncated before key length")
	}
	keyLen := int(binary.BigEndian.Uint16(msg[pos : pos+2]))
	pos += 2
	if pos+keyLen > end {
		return nil, NewFormatError("TKEY rdata: key data extends past RDLENGTH")
	}
	key := append([]byte{}, msg[pos:pos+keyLen]...)
	pos += keyLen
	if pos+2 > end {
		return nil, NewFormatError("TKEY rdata truncated before other length")
	}
	otherLen := int(binary.BigEndian.Uint16(msg[pos : pos+2]))
	pos += 2
	if pos+otherLen != end {
		return nil, NewFormatError("TKEY rdata: other data does not align with RDLENGTH")
	}
	other := append([]byte{}, msg[pos:pos+otherLen]...)
	return &RDATATKEY{Algorithm: alg, Inception: inception, Expiration: expiration, Mode: mode, Error: errCode, Key: key, Other: other}, nil
}

func (r *RDATATKEY) Type() Type { return TypeTKEY }
func (r *RDATATKEY) Size() int {
	return r.Algorithm.Size() + 12 + 2 + len(r.Key) + 2 + len(r.Other)
}
func (r *RDATATKEY) String() string {
	return fmt.Sprintf("%s mode=%d", r.Algorithm, r.Mode)
}
func (r *RDATATKEY) Equal(other RDATA) bool {
	o, ok := other.(*RDATATKEY)
	return ok && o.Algorithm.Equal(r.Algorithm) && o.Inception == r.Inception &&
		o.Expiration == r.Expiration && o.Mode == r.Mode && o.Error == r.Error &&
		string(o.Key) == string(r.Key) && string(o.Other) == string(r.Other)
}
func (r *RDATATKEY) encode(buf []byte, offset int, ot *OffsetTable, canonical bool) (int, error) {
	var n int
	var err error
	if canonical {
		n, err = r.Algorithm.EncodeCanonicalToBuffer(buf, offset)
	} else {
		n, err = r.Algorithm.EncodeToBuffer(buf, offset, ot)
	}
	if err != nil {
		return 0, err
	}
	pos := offset + n
	need := 12 + 2 + len(r.Key) + 2 + len(r.Other)
	if pos+need > len(buf) {
		return 0, NewFormatError("buffer too small for TKEY trailing fields")
	}
	binary.BigEndian.PutUint32(buf[pos:], r.Inception)
	binary.BigEndian.PutUint32(buf[pos+4:], r.Expiration)
	binary.BigEndian.PutUint16(buf[pos+8:], r.Mode)
	binary.BigEndian.PutUint16(buf[pos+10:], r.Error)
	pos += 12
	binary.BigEndian.PutUint16(buf[pos:], uint16(len(r.Key)))
	pos += 2
	copy(buf[pos:], r.Key)
	pos += len(r.Key)
	binary.BigEndian.PutUint16(buf[pos:], uint16(len(r.Other)))
	pos += 2
	copy(buf[pos:], r.Other)
	pos += len(r.Other)
	return pos - offset, nil
}
func (r *RDATATKEY) EncodeToBuffer(buf []byte, offset int, ot *OffsetTable) (int, error) {
	return r.encode(buf, offset, ot, false)
}
func (r *RDATATKEY) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.encode(buf, offset, nil, true)
}
