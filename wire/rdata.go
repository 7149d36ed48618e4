// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// rdata.go defines the RDATA tagged union and the type dispatch table.
// Grounded on dns/rdata.go's DNSRRRDATA interface and DNSRRRDATAFactory,
// which only wired A/NS/CNAME/TXT despite defining several more variants;
// this repository wires every variant §4.D names plus the legacy/utility
// ones supplemented in SPEC_FULL.md §4.D.
package wire

// RDATA is implemented by every resource-record data variant.
type RDATA interface {
	// Type returns the RR type code this variant encodes.
	Type() Type
	// Size returns the uncompressed wire-form size in bytes.
	Size() int
	// String renders a presentation-format value for debugging/zone dump.
	String() string
	// Equal reports deep equality with another RDATA of the same type.
	Equal(other RDATA) bool
	// EncodeToBuffer writes the presentation wire form at offset, using ot
	// (if non-nil) to compress any embedded domain names.
	EncodeToBuffer(buf []byte, offset int, ot *OffsetTable) (int, error)
	// EncodeCanonicalToBuffer writes the RFC 4034 canonical wire form:
	// embedded names lower-cased, never compressed.
	EncodeCanonicalToBuffer(buf []byte, offset int) (int, error)
}

// Encode is a convenience wrapper producing a fresh, uncompressed slice.
func Encode(r RDATA) []byte {
	buf := make([]byte, r.Size())
	_, _ = r.EncodeToBuffer(buf, 0, nil)
	return buf
}

// EncodeCanonical is a convenience wrapper for the canonical wire form.
func EncodeCanonical(r RDATA) []byte {
	buf := make([]byte, r.Size())
	_, _ = r.EncodeCanonicalToBuffer(buf, 0)
	return buf
}

// DecodeRDATA dispatches on the record type to parse the RDATA of a
// resource record. msg is the entire message buffer (so compression
// pointers embedded in the RDATA, e.g. in NS/CNAME/SOA, can be followed);
// rdataStart/rdataEnd bound the RDATA's own bytes within msg (the
// RDLENGTH boundary).
func DecodeRDATA(t Type, msg []byte, rdataStart, rdataEnd int) (RDATA, error) {
	if rdataEnd > len(msg) {
		return nil, NewFormatError("rdata for type %s extends past message boundary", t)
	}
	switch t {
	case TypeA:
		return decodeA(msg, rdataStart, rdataEnd)
	case TypeAAAA:
		return decodeAAAA(msg, rdataStart, rdataEnd)
	case TypeNS, TypeCNAME, TypeDNAME, TypePTR, TypeMB, TypeMD, TypeMF, TypeMG, TypeMR:
		return decodeNameRDATA(t, msg, rdataStart, rdataEnd)
	case TypeMX:
		return decodeMX(msg, rdataStart, rdataEnd)
	case TypeSOA:
		return decodeSOA(msg, rdataStart, rdataEnd)
	case TypeTXT:
		return decodeTXT(msg, rdataStart, rdataEnd)
	case TypeNAPTR:
		return decodeNAPTR(msg, rdataStart, rdataEnd)
	case TypeOPT:
		return decodeOPT(msg, rdataStart, rdataEnd)
	case TypeTSIG:
		return decodeTSIG(msg, rdataStart, rdataEnd)
	case TypeTKEY:
		return decodeTKEY(msg, rdataStart, rdataEnd)
	case TypeRRSIG:
		return decodeRRSIG(msg, rdataStart, rdataEnd)
	case TypeDNSKEY:
		return decodeDNSKEY(msg, rdataStart, rdataEnd)
	case TypeKEY:
		return decodeKEY(msg, rdataStart, rdataEnd)
	case TypeSIG:
		return decodeSIG(msg, rdataStart, rdataEnd)
	case TypeDS:
		return decodeDS(msg, rdataStart, rdataEnd)
	case TypeNSEC:
		return decodeNSEC(msg, rdataStart, rdataEnd)
	case TypeNSEC3:
		return decodeNSEC3(msg, rdataStart, rdataEnd)
	case TypeNSEC3PARAM:
		return decodeNSEC3PARAM(msg, rdataStart, rdataEnd)
	case TypeNXT:
		return decodeNXT(msg, rdataStart, rdataEnd)
	case TypeWKS:
		return decodeWKS(msg, rdataStart, rdataEnd)
	default:
		return decodeUnknown(t, msg, rdataStart, rdataEnd)
	}
}
