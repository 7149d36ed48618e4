// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// message.go implements the DNS message codec: the 12-byte header, the
// four sections, and the EDNS(0) OPT extraction/synthesis. Grounded on
// dns/dns.go's DNSHeader/DNSQuestionSection/DNSResponseSection, rebuilt to
// thread a single OffsetTable through serialization of the whole message
// (§4.C/§9) rather than dns/standard.go's post-hoc CompressDNSMessage
// rewrite pass, and to validate the OPT/TSIG placement rules §4.E
// requires.
package wire

import (
	"encoding/binary"
)

// Question is one entry of the question section.
type Question struct {
	Name  Name
	Type  Type
	Class Class
}

// ResourceRecord is one entry of the answer/authority/additional sections.
type ResourceRecord struct {
	Name  Name
	Type  Type
	Class Class
	TTL   uint32
	RDATA RDATA
}

// Message is a parsed DNS message.
type Message struct {
	ID     uint16
	QR     bool
	Opcode OpCode
	AA     bool
	TC     bool
	RD     bool
	RA     bool
	Z      bool
	AD     bool
	CD     bool
	// RCode is the full logical response code, including the 8 extended
	// bits carried in the OPT record's TTL field when EDNS is present.
	RCode RCode

	Question   []Question
	Answer     []ResourceRecord
	Authority  []ResourceRecord
	Additional []ResourceRecord

	// EDNS holds the decoded OPT pseudo-record state, or nil if the
	// message carries no OPT record. It is never present in Additional
	// directly; Encode synthesizes the OPT RR from this field.
	EDNS *EDNS
}

const headerSize = 12

func (m *Message) flags() uint16 {
	var f uint16
	if m.QR {
		f |= 1 << 15
	}
	f |= uint16(m.Opcode&0x0F) << 11
	if m.AA {
		f |= 1 << 10
	}
	if m.TC {
		f |= 1 << 9
	}
	if m.RD {
		f |= 1 << 8
	}
	if m.RA {
		f |= 1 << 7
	}
	if m.Z {
		f |= 1 << 6
	}
	if m.AD {
		f |= 1 << 5
	}
	if m.CD {
		f |= 1 << 4
	}
	f |= uint16(m.RCode) & 0x0F
	return f
}

func setFlagsFromHeader(m *Message, f uint16) {
	m.QR = f&(1<<15) != 0
	m.Opcode = OpCode((f >> 11) & 0x0F)
	m.AA = f&(1<<10) != 0
	m.TC = f&(1<<9) != 0
	m.RD = f&(1<<8) != 0
	m.RA = f&(1<<7) != 0
	m.Z = f&(1<<6) != 0
	m.AD = f&(1<<5) != 0
	m.CD = f&(1<<4) != 0
	m.RCode = RCode(f & 0x0F)
}

// sizeUpperBound returns an upper bound on the message's uncompressed wire size,
// used to size the encode buffer (compression can only shrink it).
func (m *Message) sizeUpperBound() int {
	n := headerSize
	for _, q := range m.Question {
		n += q.Name.Size() + 4
	}
	for _, sec := range [][]ResourceRecord{m.Answer, m.Authority, m.Additional} {
		for _, rr := range sec {
			n += rr.Name.Size() + 10 + rr.RDATA.Size()
		}
	}
	if m.EDNS != nil {
		n += 1 + 10 + optSize(m.EDNS.Options)
	}
	return n + 256 // slack for growth, trimmed by the final slice
}

func optSize(opts []Option) int {
	n := 0
	for _, o := range opts {
		n += 4 + len(o.Data)
	}
	return n
}

// Encode serializes the message, threading a single OffsetTable across
// the header and all four sections so names repeated anywhere in the
// message compress against their first occurrence (§4.C/§9).
func (m *Message) Encode() ([]byte, error) {
	buf := make([]byte, m.sizeUpperBound())
	ot := NewOffsetTable()
	pos := headerSize

	qdcount := len(m.Question)
	for _, q := range m.Question {
		n, err := q.Name.EncodeToBuffer(buf, pos, ot)
		if err != nil {
			return nil, err
		}
		pos += n
		binary.BigEndian.PutUint16(buf[pos:], uint16(q.Type))
		binary.BigEndian.PutUint16(buf[pos+2:], uint16(q.Class))
		pos += 4
	}

	ancount := len(m.Answer)
	var err error
	if pos, err = encodeSection(buf, pos, m.Answer, ot); err != nil {
		return nil, err
	}
	nscount := len(m.Authority)
	if pos, err = encodeSection(buf, pos, m.Authority, ot); err != nil {
		return nil, err
	}

	additional := m.Additional
	arcount := len(additional)
	if m.EDNS != nil {
		arcount++
	}
	if pos, err = encodeSection(buf, pos, additional, ot); err != nil {
		return nil, err
	}
	if m.EDNS != nil {
		if pos, err = encodeOPTRecord(buf, pos, m.EDNS); err != nil {
			return nil, err
		}
	}

	binary.BigEndian.PutUint16(buf[0:], m.ID)
	binary.BigEndian.PutUint16(buf[2:], m.flags())
	binary.BigEndian.PutUint16(buf[4:], uint16(qdcount))
	binary.BigEndian.PutUint16(buf[6:], uint16(ancount))
	binary.BigEndian.PutUint16(buf[8:], uint16(nscount))
	binary.BigEndian.PutUint16(buf[10:], uint16(arcount))

	return buf[:pos], nil
}

func encodeSection(buf []byte, pos int, rrs []ResourceRecord, ot *OffsetTable) (int, error) {
	for _, rr := range rrs {
		n, err := rr.Name.EncodeToBuffer(buf, pos, ot)
		if err != nil {
			return 0, err
		}
		pos += n
		binary.BigEndian.PutUint16(buf[pos:], uint16(rr.Type))
		binary.BigEndian.PutUint16(buf[pos+2:], uint16(rr.Class))
		binary.BigEndian.PutUint32(buf[pos+4:], rr.TTL)
		rdlenPos := pos + 8
		pos += 10
		rdlen, err := rr.RDATA.EncodeToBuffer(buf, pos, ot)
		if err != nil {
			return 0, err
		}
		binary.BigEndian.PutUint16(buf[rdlenPos:], uint16(rdlen))
		pos += rdlen
	}
	return pos, nil
}

func encodeOPTRecord(buf []byte, pos int, e *EDNS) (int, error) {
	buf[pos] = 0x00 // root name
	pos++
	binary.BigEndian.PutUint16(buf[pos:], uint16(TypeOPT))
	binary.BigEndian.PutUint16(buf[pos+2:], e.UDPPayloadSize)
	binary.BigEndian.PutUint32(buf[pos+4:], e.TTL())
	pos += 8
	rdlenPos := pos
	pos += 2
	opt := &RDATAOPT{Options: e.Options}
	n, err := opt.EncodeToBuffer(buf, pos, nil)
	if err != nil {
		return 0, err
	}
	binary.BigEndian.PutUint16(buf[rdlenPos:], uint16(n))
	return pos + n, nil
}

// Decode parses a complete DNS message from buf.
func Decode(buf []byte) (*Message, error) {
	if len(buf) < headerSize {
		return nil, NewFormatError("message shorter than header")
	}
	m := &Message{}
	m.ID = binary.BigEndian.Uint16(buf[0:2])
	setFlagsFromHeader(m, binary.BigEndian.Uint16(buf[2:4]))
	qdcount := binary.BigEndian.Uint16(buf[4:6])
	ancount := binary.BigEndian.Uint16(buf[6:8])
	nscount := binary.BigEndian.Uint16(buf[8:10])
	arcount := binary.BigEndian.Uint16(buf[10:12])

	pos := headerSize
	var err error

	m.Question = make([]Question, 0, qdcount)
	for i := 0; i < int(qdcount); i++ {
		var q Question
		q.Name, pos, err = DecodeNameFromBuffer(buf, pos)
		if err != nil {
			return nil, err
		}
		if pos+4 > len(buf) {
			return nil, NewFormatError("question section truncated")
		}
		q.Type = Type(binary.BigEndian.Uint16(buf[pos : pos+2]))
		q.Class = Class(binary.BigEndian.Uint16(buf[pos+2 : pos+4]))
		pos += 4
		m.Question = append(m.Question, q)
	}

	if m.Answer, pos, err = decodeSection(buf, pos, int(ancount)); err != nil {
		return nil, err
	}
	if m.Authority, pos, err = decodeSection(buf, pos, int(nscount)); err != nil {
		return nil, err
	}

	additional, edns, err := decodeAdditional(buf, pos, int(arcount))
	if err != nil {
		return nil, err
	}
	m.Additional = additional
	m.EDNS = edns
	if edns != nil {
		m.RCode = RCode(uint16(edns.ExtendedRCode)<<4 | uint16(m.RCode))
	}

	if err := validateTSIGPlacement(m.Additional); err != nil {
		return nil, err
	}

	return m, nil
}

// decodeSection decodes the answer or authority section. An OPT record
// is only ever valid in the additional section, so one found here is a
// FormatError rather than an ordinary RR.
func decodeSection(buf []byte, pos, count int) ([]ResourceRecord, int, error) {
	rrs := make([]ResourceRecord, 0, count)
	for i := 0; i < count; i++ {
		rr, next, err := decodeRR(buf, pos)
		if err != nil {
			return nil, 0, err
		}
		if rr.Type == TypeOPT {
			return nil, 0, NewFormatError("OPT record found outside the additional section")
		}
		rrs = append(rrs, rr)
		pos = next
	}
	return rrs, pos, nil
}

func decodeRR(buf []byte, pos int) (ResourceRecord, int, error) {
	var rr ResourceRecord
	name, next, err := DecodeNameFromBuffer(buf, pos)
	if err != nil {
		return rr, 0, err
	}
	if next+10 > len(buf) {
		return rr, 0, NewFormatError("resource record header truncated")
	}
	rr.Name = name
	rr.Type = Type(binary.BigEndian.Uint16(buf[next : next+2]))
	rr.Class = Class(binary.BigEndian.Uint16(buf[next+2 : next+4]))
	rr.TTL = binary.BigEndian.Uint32(buf[next+4 : next+8])
	rdlen := int(binary.BigEndian.Uint16(buf[next+8 : next+10]))
	rdataStart := next + 10
	rdataEnd := rdataStart + rdlen
	if rdataEnd > len(buf) {
		return rr, 0, NewFormatError("rdata for type %s extends past message boundary", rr.Type)
	}
	rdata, err := DecodeRDATA(rr.Type, buf, rdataStart, rdataEnd)
	if err != nil {
		return rr, 0, err
	}
	rr.RDATA = rdata
	return rr, rdataEnd, nil
}

// decodeAdditional decodes the additional section, extracting a lone OPT
// record into an *EDNS rather than leaving it in the returned slice.
// A second OPT record, or an OPT record found anywhere else, is a
// FormatError.
func decodeAdditional(buf []byte, pos, count int) ([]ResourceRecord, *EDNS, error) {
	rrs := make([]ResourceRecord, 0, count)
	var edns *EDNS
	for i := 0; i < count; i++ {
		rr, next, err := decodeRR(buf, pos)
		if err != nil {
			return nil, nil, err
		}
		pos = next
		if rr.Type == TypeOPT {
			if edns != nil {
				return nil, nil, NewFormatError("more than one OPT record in additional section")
			}
			opt, ok := rr.RDATA.(*RDATAOPT)
			if !ok {
				return nil, nil, NewFormatError("OPT record did not decode to OPT rdata")
			}
			extRCode, version, do, reserved := EDNSFromTTL(rr.TTL)
			edns = &EDNS{
				UDPPayloadSize: uint16(rr.Class),
				ExtendedRCode:  extRCode,
				Version:        version,
				DO:             do,
				Reserved:       reserved,
				Options:        opt.Options,
			}
			continue
		}
		rrs = append(rrs, rr)
	}
	return rrs, edns, nil
}

func validateTSIGPlacement(additional []ResourceRecord) error {
	for i, rr := range additional {
		if rr.Type == TypeTSIG && i != len(additional)-1 {
			return NewFormatError("TSIG record must be last in the additional section")
		}
	}
	return nil
}
