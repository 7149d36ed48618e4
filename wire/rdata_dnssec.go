// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// rdata_dnssec.go implements the DNSSEC RDATA variants: RRSIG, DNSKEY, DS,
// NSEC, NSEC3, NSEC3PARAM, and their RFC 2535 predecessors SIG/KEY.
// Grounded on dns/rdata.go's DNSRDATARRSIG/DNSRDATADNSKEY/DNSRDATADS/
// DNSRDATANSEC/DNSRDATANSEC3, which defined these shapes but left most
// unwired in the factory; wired here and extended with NSEC3PARAM/KEY/SIG.
package wire

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// RDATARRSIG is the RRSIG record's RDATA.
type RDATARRSIG struct {
	TypeCovered Type
	Algorithm   DNSSECAlgorithm
	Labels      uint8
	OriginalTTL uint32
	Expiration  uint32
	Inception   uint32
	KeyTag      uint16
	SignerName  Name
	Signature   []byte
}

func decodeRRSIG(msg []byte, start, end int) (RDATA, error) {
	if start+18 > end {
		return nil, NewFormatError("RRSIG rdata truncated")
	}
	r := &RDATARRSIG{
		TypeCovered: Type(binary.BigEndian.Uint16(msg[start : start+2])),
		Algorithm:   DNSSECAlgorithm(msg[start+2]),
		Labels:      msg[start+3],
		OriginalTTL: binary.BigEndian.Uint32(msg[start+4 : start+8]),
		Expiration:  binary.BigEndian.Uint32(msg[start+8 : start+12]),
		Inception:   binary.BigEndian.Uint32(msg[start+12 : start+16]),
		KeyTag:      binary.BigEndian.Uint16(msg[start+16 : start+18]),
	}
	signer, pos, err := DecodeNameFromBuffer(msg, start+18)
	if err != nil {
		return nil, err
	}
	if pos > end {
		return nil, NewFormatError("RRSIG rdata: signer name extends past RDLENGTH")
	}
	r.SignerName = signer
	r.Signature = append([]byte{}, msg[pos:end]...)
	return r, nil
}

func (r *RDATARRSIG) Type() Type { return TypeRRSIG }
func (r *RDATARRSIG) Size() int  { return 18 + r.SignerName.Size() + len(r.Signature) }
func (r *RDATARRSIG) String() string {
	return fmt.Sprintf("%s %d %d %d %d %d %d %s %s", r.TypeCovered, r.Algorithm, r.Labels,
		r.OriginalTTL, r.Expiration, r.Inception, r.KeyTag, r.SignerName, base64.StdEncoding.EncodeToString(r.Signature))
}
func (r *RDATARRSIG) Equal(other RDATA) bool {
	o, ok := other.(*RDATARRSIG)
	return ok && o.TypeCovered == r.TypeCovered && o.Algorithm == r.Algorithm &&
		o.Labels == r.Labels && o.OriginalTTL == r.OriginalTTL && o.Expiration == r.Expiration &&
		o.Inception == r.Inception && o.KeyTag == r.KeyTag && o.SignerName.Equal(r.SignerName) &&
		string(o.Signature) == string(r.Signature)
}

// FixedFieldsToBuffer writes every RRSIG field except the signature bytes
// (the "RRSIG_RDATA_without_signature" preimage prefix used by the
// signer). The signer name is written lower-cased and uncompressed, as in
// the canonical form; EncodeToBuffer uses this too, so an RRSIG signer
// name is never compressed in any serialization.
func (r *RDATARRSIG) FixedFieldsToBuffer(buf []byte, offset int) (int, error) {
	if offset+18 > len(buf) {
		return 0, NewFormatError("buffer too small for RRSIG fixed fields")
	}
	binary.BigEndian.PutUint16(buf[offset:], uint16(r.TypeCovered))
	buf[offset+2] = byte(r.Algorithm)
	buf[offset+3] = r.Labels
	binary.BigEndian.PutUint32(buf[offset+4:], r.OriginalTTL)
	binary.BigEndian.PutUint32(buf[offset+8:], r.Expiration)
	binary.BigEndian.PutUint32(buf[offset+12:], r.Inception)
	binary.BigEndian.PutUint16(buf[offset+16:], r.KeyTag)
	n, err := r.SignerName.EncodeCanonicalToBuffer(buf, offset+18)
	if err != nil {
		return 0, err
	}
	return 18 + n, nil
}

func (r *RDATARRSIG) EncodeToBuffer(buf []byte, offset int, _ *OffsetTable) (int, error) {
	n, err := r.FixedFieldsToBuffer(buf, offset)
	if err != nil {
		return 0, err
	}
	if offset+n+len(r.Signature) > len(buf) {
		return 0, NewFormatError("buffer too small for RRSIG signature")
	}
	copy(buf[offset+n:], r.Signature)
	return n + len(r.Signature), nil
}
func (r *RDATARRSIG) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.EncodeToBuffer(buf, offset, nil)
}

// RDATADNSKEY is the DNSKEY record's RDATA.
type RDATADNSKEY struct {
	Flags     KeyFlag
	Protocol  uint8
	Algorithm DNSSECAlgorithm
	PublicKey []byte
}

func decodeDNSKEYLike(msg []byte, start, end int) (flags KeyFlag, protocol uint8, alg DNSSECAlgorithm, key []byte, err error) {
	if start+4 > end {
		err = NewFormatError("DNSKEY-family rdata truncated")
		return
	}
	flags = KeyFlag(binary.BigEndian.Uint16(msg[start : start+2]))
	protocol = msg[start+2]
	alg = DNSSECAlgorithm(msg[start+3])
	key = append([]byte{}, msg[start+4:end]...)
	return
}

func decodeDNSKEY(msg []byte, start, end int) (RDATA, error) {
	flags, proto, alg, key, err := decodeDNSKEYLike(msg, start, end)
	if err != nil {
		return nil, err
	}
	return &RDATADNSKEY{Flags: flags, Protocol: proto, Algorithm: alg, PublicKey: key}, nil
}

func (r *RDATADNSKEY) Type() Type { return TypeDNSKEY }
func (r *RDATADNSKEY) Size() int  { return 4 + len(r.PublicKey) }
func (r *RDATADNSKEY) String() string {
	return fmt.Sprintf("%d %d %d %s", r.Flags, r.Protocol, r.Algorithm, base64.StdEncoding.EncodeToString(r.PublicKey))
}
func (r *RDATADNSKEY) Equal(other RDATA) bool {
	o, ok := other.(*RDATADNSKEY)
	return ok && o.Flags == r.Flags && o.Protocol == r.Protocol && o.Algorithm == r.Algorithm &&
		string(o.PublicKey) == string(r.PublicKey)
}
func (r *RDATADNSKEY) EncodeToBuffer(buf []byte, offset int, _ *OffsetTable) (int, error) {
	if offset+4+len(r.PublicKey) > len(buf) {
		return 0, NewFormatError("buffer too small for DNSKEY rdata")
	}
	binary.BigEndian.PutUint16(buf[offset:], uint16(r.Flags))
	buf[offset+2] = r.Protocol
	buf[offset+3] = byte(r.Algorithm)
	copy(buf[offset+4:], r.PublicKey)
	return 4 + len(r.PublicKey), nil
}
func (r *RDATADNSKEY) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.EncodeToBuffer(buf, offset, nil)
}

// RDATAKEY mirrors DNSKEY's wire shape for the legacy RFC 2535 KEY type.
type RDATAKEY struct{ RDATADNSKEY }

func decodeKEY(msg []byte, start, end int) (RDATA, error) {
	flags, proto, alg, key, err := decodeDNSKEYLike(msg, start, end)
	if err != nil {
		return nil, err
	}
	return &RDATAKEY{RDATADNSKEY{Flags: flags, Protocol: proto, Algorithm: alg, PublicKey: key}}, nil
}
func (r *RDATAKEY) Type() Type { return TypeKEY }
func (r *RDATAKEY) Equal(other RDATA) bool {
	o, ok := other.(*RDATAKEY)
	return ok && r.RDATADNSKEY.Equal(&o.RDATADNSKEY)
}

// RDATASIG mirrors RRSIG's wire shape for the legacy RFC 2535 SIG type.
type RDATASIG struct{ RDATARRSIG }

func decodeSIG(msg []byte, start, end int) (RDATA, error) {
	rr, err := decodeRRSIG(msg, start, end)
	if err != nil {
		return nil, err
	}
	return &RDATASIG{*rr.(*RDATARRSIG)}, nil
}
func (r *RDATASIG) Type() Type { return TypeSIG }
func (r *RDATASIG) Equal(other RDATA) bool {
	o, ok := other.(*RDATASIG)
	return ok && r.RDATARRSIG.Equal(&o.RDATARRSIG)
}

// RDATADS is the DS record's RDATA.
type RDATADS struct {
	KeyTag     uint16
	Algorithm  DNSSECAlgorithm
	DigestType DigestType
	Digest     []byte
}

func decodeDS(msg []byte, start, end int) (RDATA, error) {
	if start+4 > end {
		return nil, NewFormatError("DS rdata truncated")
	}
	return &RDATADS{
		KeyTag:     binary.BigEndian.Uint16(msg[start : start+2]),
		Algorithm:  DNSSECAlgorithm(msg[start+2]),
		DigestType: DigestType(msg[start+3]),
		Digest:     append([]byte{}, msg[start+4:end]...),
	}, nil
}

func (r *RDATADS) Type() Type { return TypeDS }
func (r *RDATADS) Size() int  { return 4 + len(r.Digest) }
func (r *RDATADS) String() string {
	return fmt.Sprintf("%d %d %d %x", r.KeyTag, r.Algorithm, r.DigestType, r.Digest)
}
func (r *RDATADS) Equal(other RDATA) bool {
	o, ok := other.(*RDATADS)
	return ok && o.KeyTag == r.KeyTag && o.Algorithm == r.Algorithm && o.DigestType == r.DigestType &&
		string(o.Digest) == string(r.Digest)
}
func (r *RDATADS) EncodeToBuffer(buf []byte, offset int, _ *OffsetTable) (int, error) {
	if offset+4+len(r.Digest) > len(buf) {
		return 0, NewFormatError("buffer too small for DS rdata")
	}
	binary.BigEndian.PutUint16(buf[offset:], r.KeyTag)
	buf[offset+2] = byte(r.Algorithm)
	buf[offset+3] = byte(r.DigestType)
	copy(buf[offset+4:], r.Digest)
	return 4 + len(r.Digest), nil
}
func (r *RDATADS) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.EncodeToBuffer(buf, offset, nil)
}

// RDATANSEC is the NSEC record's RDATA.
type RDATANSEC struct {
	NextName Name
	Types    []Type
}

func decodeNSEC(msg []byte, start, end int) (RDATA, error) {
	next, pos, err := DecodeNameFromBuffer(msg, start)
	if err != nil {
		return nil, err
	}
	if pos > end {
		return nil, NewFormatError("NSEC rdata: next name extends past RDLENGTH")
	}
	types, err := DecodeTypeBitmap(msg[pos:end])
	if err != nil {
		return nil, err
	}
	return &RDATANSEC{NextName: next, Types: types}, nil
}

func (r *RDATANSEC) Type() Type { return TypeNSEC }
func (r *RDATANSEC) Size() int  { return r.NextName.Size() + len(EncodeTypeBitmap(r.Types)) }
func (r *RDATANSEC) String() string {
	return fmt.Sprintf("%s %v", r.NextName, r.Types)
}
func (r *RDATANSEC) Equal(other RDATA) bool {
	o, ok := other.(*RDATANSEC)
	if !ok || !o.NextName.Equal(r.NextName) || len(o.Types) != len(r.Types) {
		return false
	}
	for i := range r.Types {
		if o.Types[i] != r.Types[i] {
			return false
		}
	}
	return true
}
func (r *RDATANSEC) encode(buf []byte, offset int, ot *OffsetTable, canonical bool) (int, error) {
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
	bm := EncodeTypeBitmap(r.Types)
	if offset+n+len(bm) > len(buf) {
		return 0, NewFormatError("buffer too small for NSEC bitmap")
	}
	copy(buf[offset+n:], bm)
	return n + len(bm), nil
}
func (r *RDATANSEC) EncodeToBuffer(buf []byte, offset int, ot *OffsetTable) (int, error) {
	return r.encode(buf, offset, ot, false)
}
func (r *RDATANSEC) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.encode(buf, offset, nil, true)
}

// RDATANSEC3 is the NSEC3 record's RDATA.
type RDATANSEC3 struct {
	HashAlgorithm      NSEC3HashAlgorithm
	OptOut             bool
	Iterations         uint16
	Salt               []byte
	NextHashedOwner    []byte
	Types              []Type
}

const nsec3OptOutFlag = 0x01

func decodeNSEC3(msg []byte, start, end int) (RDATA, error) {
	if start+5 > end {
		return nil, NewFormatError("NSEC3 rdata truncated before salt length")
	}
	hashAlg := NSEC3HashAlgorithm(msg[start])
	flags := msg[start+1]
	iterations := binary.BigEndian.Uint16(msg[start+2 : start+4])
	saltLen := int(msg[start+4])
	pos := start + 5
	if pos+saltLen > end {
		return nil, NewFormatError("NSEC3 rdata: salt extends past RDLENGTH")
	}
	salt := append([]byte{}, msg[pos:pos+saltLen]...)
	pos += saltLen
	if pos+1 > end {
		return nil, NewFormatError("NSEC3 rdata truncated before hash length")
	}
	hashLen := int(msg[pos])
	pos++
	if pos+hashLen > end {
		return nil, NewFormatError("NSEC3 rdata: next-hashed-owner extends past RDLENGTH")
	}
	nextHash := append([]byte{}, msg[pos:pos+hashLen]...)
	pos += hashLen
	types, err := DecodeTypeBitmap(msg[pos:end])
	if err != nil {
		return nil, err
	}
	return &RDATANSEC3{
		HashAlgorithm:   hashAlg,
		OptOut:          flags&nsec3OptOutFlag != 0,
		Iterations:      iterations,
		Salt:            salt,
		NextHashedOwner: nextHash,
		Types:           types,
	}, nil
}

func (r *RDATANSEC3) Type() Type { return TypeNSEC3 }
func (r *RDATANSEC3) Size() int {
	return 5 + len(r.Salt) + 1 + len(r.NextHashedOwner) + len(EncodeTypeBitmap(r.Types))
}
func (r *RDATANSEC3) String() string {
	return fmt.Sprintf("%d %d %d %x %s", r.HashAlgorithm, r.flagsByte(), r.Iterations, r.Salt, EncodeBase32Hex(r.NextHashedOwner))
}
func (r *RDATANSEC3) flagsByte() uint8 {
	if r.OptOut {
		return nsec3OptOutFlag
	}
	return 0
}
func (r *RDATANSEC3) Equal(other RDATA) bool {
	o, ok := other.(*RDATANSEC3)
	if !ok || o.HashAlgorithm != r.HashAlgorithm || o.OptOut != r.OptOut || o.Iterations != r.Iterations ||
		string(o.Salt) != string(r.Salt) || string(o.NextHashedOwner) != string(r.NextHashedOwner) ||
		len(o.Types) != len(r.Types) {
		return false
	}
	for i := range r.Types {
		if o.Types[i] != r.Types[i] {
			return false
		}
	}
	return true
}
func (r *RDATANSEC3) EncodeToBuffer(buf []byte, offset int, _ *OffsetTable) (int, error) {
	bm := EncodeTypeBitmap(r.Types)
	need := 5 + len(r.Salt) + 1 + len(r.NextHashedOwner) + len(bm)
	if offset+need > len(buf) {
		return 0, NewFormatError("buffer too small for NSEC3 rdata")
	}
	pos := offset
	buf[pos] = byte(r.HashAlgorithm)
	buf[pos+1] = r.flagsByte()
	binary.BigEndian.PutUint16(buf[pos+2:], r.Iterations)
	buf[pos+4] = byte(len(r.Salt))
	pos += 5
	copy(buf[pos:], r.Salt)
	pos += len(r.Salt)
	buf[pos] = byte(len(r.NextHashedOwner))
	pos++
	copy(buf[pos:], r.NextHashedOwner)
	pos += len(r.NextHashedOwner)
	copy(buf[pos:], bm)
	pos += len(bm)
	return pos - offset, nil
}
func (r *RDATANSEC3) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.EncodeToBuffer(buf, offset, nil)
}

// RDATANSEC3PARAM is the NSEC3PARAM record's RDATA: the same hashing
// parameters as NSEC3, minus the next-hash and type bitmap.
type RDATANSEC3PARAM struct {
	HashAlgorithm NSEC3HashAlgorithm
	Flags         uint8
	Iterations    uint16
	Salt          []byte
}

func decodeNSEC3PARAM(msg []byte, start, end int) (RDATA, error) {
	if start+5 > end {
		return nil, NewFormatError("NSEC3PARAM rdata truncated")
	}
	saltLen := int(msg[start+4])
	if start+5+saltLen != end {
		return nil, NewFormatError("NSEC3PARAM rdata: salt does not align with RDLENGTH")
	}
	return &RDATANSEC3PARAM{
		HashAlgorithm: NSEC3HashAlgorithm(msg[start]),
		Flags:         msg[start+1],
		Iterations:    binary.BigEndian.Uint16(msg[start+2 : start+4]),
		Salt:          append([]byte{}, msg[start+5:end]...),
	}, nil
}

func (r *RDATANSEC3PARAM) Type() Type { return TypeNSEC3PARAM }
func (r *RDATANSEC3PARAM) Size() int  { return 5 + len(r.Salt) }
func (r *RDATANSEC3PARAM) String() string {
	return fmt.Sprintf("%d %d %d %x", r.HashAlgorithm, r.Flags, r.Iterations, r.Salt)
}
func (r *RDATANSEC3PARAM) Equal(other RDATA) bool {
	o, ok := other.(*RDATANSEC3PARAM)
	return ok && o.HashAlgorithm == r.HashAlgorithm && o.Flags == r.Flags &&
		o.Iterations == r.Iterations && string(o.Salt) == string(r.Salt)
}
func (r *RDATANSEC3PARAM) EncodeToBuffer(buf []byte, offset int, _ *OffsetTable) (int, error) {
	if offset+5+len(r.Salt) > len(buf) {
		return 0, NewFormatError("buffer too small for NSEC3PARAM rdata")
	}
	buf[offset] = byte(r.HashAlgorithm)
	buf[offset+1] = r.Flags
	binary.BigEndian.PutUint16(buf[offset+2:], r.Iterations)
	buf[offset+4] = byte(len(r.Salt))
	copy(buf[offset+5:], r.Salt)
	return 5 + len(r.Salt), nil
}
func (r *RDATANSEC3PARAM) EncodeCanonicalToBuffer(buf []byte, offset int) (int, error) {
	return r.EncodeToBuffer(buf, offset, nil)
}
