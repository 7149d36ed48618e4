// Copyright 2024 TochusC AOSP Lab. All rights reserved.

package wire

import "testing"

func TestMessageRoundTripSimpleQuery(t *testing.T) {
	qname, _ := NewName("example.com.")
	m := &Message{
		ID: 0x1234, QR: false, Opcode: OpCodeQuery, RD: true,
		Question: []Question{{Name: qname, Type: TypeA, Class: ClassIN}},
	}
	buf, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.ID != m.ID || decoded.Opcode != m.Opcode || decoded.RD != m.RD {
		t.Errorf("decoded header mismatch: %+v", decoded)
	}
	if len(decoded.Question) != 1 || !decoded.Question[0].Name.Equal(qname) {
		t.Errorf("decoded question mismatch: %+v", decoded.Question)
	}
}

func TestMessageRoundTripWithAnswerAndCompression(t *testing.T) {
	qname, _ := NewName("www.example.com.")
	owner, _ := NewName("www.example.com.")
	addr, _ := NewRDATAA("192.0.2.1")

	m := &Message{
		ID: 7, QR: true, AA: true, RCode: RCodeNoError,
		Question: []Question{{Name: qname, Type: TypeA, Class: ClassIN}},
		Answer: []ResourceRecord{
			{Name: owner, Type: TypeA, Class: ClassIN, TTL: 3600, RDATA: addr},
		},
	}
	buf, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded.Answer) != 1 {
		t.Fatalf("expected 1 answer, got %d", len(decoded.Answer))
	}
	if !decoded.Answer[0].Name.Equal(owner) {
		t.Errorf("answer owner = %v, want %v", decoded.Answer[0].Name, owner)
	}
	if !decoded.Answer[0].RDATA.Equal(addr) {
		t.Errorf("answer rdata = %v, want %v", decoded.Answer[0].RDATA, addr)
	}
}

func TestMessageRoundTripWithEDNS(t *testing.T) {
	qname, _ := NewName("example.com.")
	m := &Message{
		ID: 99, RD: true,
		Question: []Question{{Name: qname, Type: TypeA, Class: ClassIN}},
		EDNS: &EDNS{UDPPayloadSize: 4096, Version: 0, DO: true},
	}
	buf, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.EDNS == nil {
		t.Fatal("expected EDNS to be decoded")
	}
	if decoded.EDNS.UDPPayloadSize != 4096 || !decoded.EDNS.DO {
		t.Errorf("EDNS mismatch: %+v", decoded.EDNS)
	}
	for _, rr := range decoded.Additional {
		if rr.Type == TypeOPT {
			t.Errorf("OPT record should not appear in Additional, found %+v", rr)
		}
	}
}

func TestDecodeRejectsDuplicateOPT(t *testing.T) {
	qname, _ := NewName("example.com.")
	m := &Message{
		ID: 1,
		Question: []Question{{Name: qname, Type: TypeA, Class: ClassIN}},
		EDNS:     &EDNS{UDPPayloadSize: 512},
	}
	buf, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Hand-craft a second OPT record appended after the first, with the
	// header's ARCOUNT bumped to match, to exercise the duplicate-OPT guard.
	opt := &RDATAOPT{}
	optRDATA := Encode(opt)
	extra := make([]byte, 1+2+2+4+2+len(optRDATA))
	extra[0] = 0x00
	extra[1] = byte(TypeOPT >> 8)
	extra[2] = byte(TypeOPT)
	// class/ttl/rdlen all zero is fine for this malformed-input test
	withExtra := append(append([]byte{}, buf...), extra...)
	withExtra[11] = buf[11] + 1 // bump ARCOUNT low byte

	if _, err := Decode(withExtra); err == nil {
		t.Fatal("expected error decoding a message with two OPT records")
	}
}

func TestDecodeRejectsOPTOutsideAdditional(t *testing.T) {
	qname, _ := NewName("example.com.")
	m := &Message{
		ID:       5,
		Question: []Question{{Name: qname, Type: TypeA, Class: ClassIN}},
		EDNS:     &EDNS{UDPPayloadSize: 512},
	}
	buf, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Relabel the lone additional record (the OPT record Encode placed
	// there for EDNS) as an answer record instead; its bytes are
	// otherwise untouched.
	moved := append([]byte{}, buf...)
	moved[7] = 1  // ANCOUNT low byte
	moved[11] = 0 // ARCOUNT low byte

	if _, err := Decode(moved); err == nil {
		t.Fatal("expected error decoding an OPT record placed in the answer section")
	}
}

func TestDecodeRejectsShortHeader(t *testing.T) {
	if _, err := Decode([]byte{0x00, 0x01}); err == nil {
		t.Fatal("expected error decoding a too-short message")
	}
}

func TestDecodeRejectsTSIGNotLast(t *testing.T) {
	qname, _ := NewName("example.com.")
	addr, _ := NewRDATAA("192.0.2.1")
	m := &Message{
		ID: 1,
		Question: []Question{{Name: qname, Type: TypeA, Class: ClassIN}},
		Additional: []ResourceRecord{
			{Name: qname, Type: TypeTSIG, Class: ClassANY, TTL: 0, RDATA: &RDATATSIG{Algorithm: qname, MAC: []byte{}, Other: []byte{}}},
			{Name: qname, Type: TypeA, Class: ClassIN, TTL: 60, RDATA: addr},
		},
	}
	buf, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Decode(buf); err == nil {
		t.Fatal("expected error when TSIG is not the last additional record")
	}
}
