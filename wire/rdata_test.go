// Copyright 2024 TochusC AOSP Lab. All rights reserved.

package wire

import "testing"

func roundTrip(t *testing.T, r RDATA) RDATA {
	t.Helper()
	buf := Encode(r)
	decoded, err := DecodeRDATA(r.Type(), buf, 0, len(buf))
	if err != nil {
		t.Fatalf("DecodeRDATA(%s): %v", r.Type(), err)
	}
	if !decoded.Equal(r) {
		t.Errorf("%s round-trip mismatch: got %v, want %v", r.Type(), decoded, r)
	}
	return decoded
}

func TestRDATAARoundTrip(t *testing.T) {
	r, err := NewRDATAA("192.0.2.1")
	if err != nil {
		t.Fatalf("NewRDATAA: %v", err)
	}
	roundTrip(t, r)
}

func TestRDATAAAAARoundTrip(t *testing.T) {
	r, err := NewRDATAAAAA("2001:db8::1")
	if err != nil {
		t.Fatalf("NewRDATAAAAA: %v", err)
	}
	roundTrip(t, r)
}

func TestRDATANameRoundTrip(t *testing.T) {
	target, _ := NewName("ns1.example.com.")
	roundTrip(t, NewRDATAName(TypeNS, target))
	roundTrip(t, NewRDATAName(TypeCNAME, target))
	roundTrip(t, NewRDATAName(TypeDNAME, target))
}

func TestRDATAMXRoundTrip(t *testing.T) {
	exchange, _ := NewName("mail.example.com.")
	roundTrip(t, &RDATAMX{Preference: 10, Exchange: exchange})
}

func TestRDATASOARoundTrip(t *testing.T) {
	mname, _ := NewName("ns1.example.com.")
	rname, _ := NewName("hostmaster.example.com.")
	roundTrip(t, &RDATASOA{
		MName: mname, RName: rname,
		Serial: 2024010100, Refresh: 3600, Retry: 900, Expire: 604800, Minimum: 86400,
	})
}

func TestRDATATXTRoundTrip(t *testing.T) {
	roundTrip(t, &RDATATXT{Strings: [][]byte{[]byte("hello"), []byte("world")}})
}

func TestRDATANAPTRRoundTrip(t *testing.T) {
	repl, _ := NewName("replacement.example.com.")
	roundTrip(t, &RDATANAPTR{
		Order: 100, Preference: 10,
		Flags: []byte("S"), Services: []byte("SIP+D2U"), Regexp: []byte(""),
		Replacement: repl,
	})
}

func TestRDATADSRoundTrip(t *testing.T) {
	roundTrip(t, &RDATADS{
		KeyTag: 12345, Algorithm: AlgorithmECDSAP256SHA256, DigestType: DigestSHA256,
		Digest: []byte{0x01, 0x02, 0x03, 0x04},
	})
}

func TestRDATADNSKEYRoundTrip(t *testing.T) {
	roundTrip(t, &RDATADNSKEY{
		Flags: KeyFlagZSK, Protocol: 3, Algorithm: AlgorithmECDSAP256SHA256,
		PublicKey: []byte{0xAA, 0xBB, 0xCC, 0xDD},
	})
}

func TestRDATARRSIGRoundTrip(t *testing.T) {
	signer, _ := NewName("example.com.")
	roundTrip(t, &RDATARRSIG{
		TypeCovered: TypeA, Algorithm: AlgorithmECDSAP256SHA256, Labels: 2,
		OriginalTTL: 3600, Expiration: 2000000000, Inception: 1900000000, KeyTag: 54321,
		SignerName: signer, Signature: []byte{0x01, 0x02, 0x03, 0x04, 0x05},
	})
}

func TestRDATANSECRoundTrip(t *testing.T) {
	next, _ := NewName("b.example.com.")
	roundTrip(t, &RDATANSEC{NextName: next, Types: []Type{TypeA, TypeRRSIG, TypeNSEC}})
}

func TestRDATANSEC3RoundTrip(t *testing.T) {
	roundTrip(t, &RDATANSEC3{
		HashAlgorithm: NSEC3HashSHA1, OptOut: true, Iterations: 5,
		Salt: []byte{0xDE, 0xAD}, NextHashedOwner: []byte{0x01, 0x02, 0x03, 0x04},
		Types: []Type{TypeA, TypeAAAA},
	})
}

func TestRDATANSEC3OptOutRoundTrip(t *testing.T) {
	r := &RDATANSEC3{HashAlgorithm: NSEC3HashSHA1, OptOut: false, Iterations: 0, NextHashedOwner: []byte{0x01}}
	decoded := roundTrip(t, r).(*RDATANSEC3)
	if decoded.OptOut {
		t.Errorf("expected OptOut false")
	}
}

func TestRDATANSEC3PARAMRoundTrip(t *testing.T) {
	roundTrip(t, &RDATANSEC3PARAM{HashAlgorithm: NSEC3HashSHA1, Flags: 0, Iterations: 10, Salt: []byte{0x01, 0x02}})
}

func TestRDATATSIGRoundTrip(t *testing.T) {
	alg, _ := NewName("hmac-sha256.")
	roundTrip(t, &RDATATSIG{
		Algorithm: alg, SignedTime: 1700000000, Fudge: 300,
		MAC: []byte{0x01, 0x02, 0x03}, OriginalID: 42, Error: 0, Other: []byte{},
	})
}

func TestRDATATKEYRoundTrip(t *testing.T) {
	alg, _ := NewName("gss-tsig.")
	roundTrip(t, &RDATATKEY{
		Algorithm: alg, Inception: 1700000000, Expiration: 1700003600, Mode: 3, Error: 0,
		Key: []byte{0xAA, 0xBB}, Other: []byte{},
	})
}

func TestRDATANXTRoundTrip(t *testing.T) {
	next, _ := NewName("b.example.com.")
	roundTrip(t, &RDATANXT{NextName: next, Types: []Type{TypeA, TypeMX, TypeSOA}})
}

func TestRDATAWKSRoundTrip(t *testing.T) {
	roundTrip(t, &RDATAWKS{Address: [4]byte{192, 0, 2, 1}, Protocol: 6, Bitmap: []byte{0x01, 0x02}})
}

func TestDecodeRDATAUnknownFallsBackToOpaque(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03}
	r, err := DecodeRDATA(Type(65280), buf, 0, len(buf))
	if err != nil {
		t.Fatalf("DecodeRDATA: %v", err)
	}
	if r.Size() != 3 {
		t.Errorf("unknown rdata size = %d, want 3", r.Size())
	}
}
