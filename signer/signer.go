// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// signer.go implements §4.K: RRSIG generation over a canonically sorted
// RRset and DS record derivation. Grounded on dns/dnssec.go's
// GenerateRRSIG/GenerateDS/CalculateKeyTag, but where the teacher's
// GenerateRRSIG comment admits "this function cannot canonicalize the
// passed RRset, callers must guarantee it themselves" (a real gap — its
// CanonicalSortRRSet is an unused no-op elsewhere in the package), this
// signer actually sorts canonically per RFC 4034 §6.3 before signing.
package signer

import (
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"sort"
	"time"

	"github.com/tochusc/authdns/wire"
	"github.com/tochusc/authdns/zone"
)

// DefaultValidity is the signature validity window used when signing
// on demand (online signing); a real deployment would tune this per
// zone policy.
const DefaultValidity = 30 * 24 * time.Hour

// Signer implements zone.Signer against a loaded KeyStore.
type Signer struct {
	Store *KeyStore
	// Now, if set, overrides time.Now for deterministic tests.
	Now func() time.Time
}

func (s *Signer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SignRRSet signs rrset with every ZSK, plus every KSK when rrset covers
// DNSKEY, returning an RRSIG RRset with one RDATARRSIG item per key.
func (s *Signer) SignRRSet(ctx context.Context, rrset *zone.RRSet) (*zone.RRSet, error) {
	if s.Store == nil || len(s.Store.Keys) == 0 {
		return nil, nil
	}
	keys := s.Store.ZSKs()
	if rrset.Type == wire.TypeDNSKEY {
		keys = append(append([]*Key{}, keys...), s.Store.KSKs()...)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	inception := s.now()
	expiration := inception.Add(DefaultValidity)

	var sigs []wire.RDATA
	for _, key := range keys {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		rdata, err := s.signOne(rrset, key, inception, expiration)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, rdata)
	}

	return &zone.RRSet{
		Owner: rrset.Owner, Class: rrset.Class, Type: wire.TypeRRSIG,
		TTL: rrset.TTL, Data: sigs,
	}, nil
}

func (s *Signer) signOne(rrset *zone.RRSet, key *Key, inception, expiration time.Time) (*wire.RDATARRSIG, error) {
	rrsig := &wire.RDATARRSIG{
		TypeCovered: rrset.Type,
		Algorithm:   key.Algorithm,
		Labels:      uint8(len(rrset.Owner.Labels())),
		OriginalTTL: rrset.TTL,
		Expiration:  uint32(expiration.Unix()),
		Inception:   uint32(inception.Unix()),
		KeyTag:      key.KeyTag(),
		SignerName:  key.Apex,
	}

	preimage := buildPreimage(rrsig, rrset)
	sig, err := key.Sign(preimage)
	if err != nil {
		return nil, err
	}
	rrsig.Signature = sig
	return rrsig, nil
}

// buildPreimage constructs RRSIG_RDATA_without_signature concatenated
// with the canonically sorted, canonically encoded RRset, per RFC 4034
// §3.1.8.1 / §6.3.
func buildPreimage(rrsig *wire.RDATARRSIG, rrset *zone.RRSet) []byte {
	fixed := make([]byte, 18+rrsig.SignerName.Size())
	n, _ := rrsig.FixedFieldsToBuffer(fixed, 0)
	fixed = fixed[:n]

	owner := rrset.Owner.Canonical()
	rrBytes := make([][]byte, len(rrset.Data))
	for i, d := range rrset.Data {
		rrBytes[i] = encodeCanonicalRR(owner, rrset.Class, rrset.Type, rrset.TTL, d)
	}
	sort.Slice(rrBytes, func(i, j int) bool {
		return compareLex(canonicalRDATAOf(rrBytes[i], owner), canonicalRDATAOf(rrBytes[j], owner)) < 0
	})

	out := make([]byte, 0, len(fixed)+totalLen(rrBytes))
	out = append(out, fixed...)
	for _, b := range rrBytes {
		out = append(out, b...)
	}
	return out
}

func totalLen(bs [][]byte) int {
	n := 0
	for _, b := range bs {
		n += len(b)
	}
	return n
}

// canonicalRDATAOf strips the owner/type/class/ttl/rdlen prefix a
// full canonical RR encoding carries, leaving just the RDATA bytes used
// as the RFC 4034 §6.3 sort key.
func canonicalRDATAOf(rr []byte, owner wire.Name) []byte {
	prefixLen := owner.Size() + 2 + 2 + 4 + 2
	if prefixLen > len(rr) {
		return nil
	}
	return rr[prefixLen:]
}

func compareLex(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

// encodeCanonicalRR encodes one RR in canonical form: owner (lowercased,
// uncompressed) | type | class | original TTL | rdlen | canonical rdata.
func encodeCanonicalRR(owner wire.Name, class wire.Class, rrType wire.Type, ttl uint32, rdata wire.RDATA) []byte {
	ownerBytes := owner.EncodeCanonical()
	rdataBytes := wire.EncodeCanonical(rdata)

	buf := make([]byte, 0, len(ownerBytes)+10+len(rdataBytes))
	buf = append(buf, ownerBytes...)
	buf = append(buf, byte(rrType>>8), byte(rrType))
	buf = append(buf, byte(class>>8), byte(class))
	buf = append(buf, byte(ttl>>24), byte(ttl>>16), byte(ttl>>8), byte(ttl))
	rdlen := len(rdataBytes)
	buf = append(buf, byte(rdlen>>8), byte(rdlen))
	buf = append(buf, rdataBytes...)
	return buf
}

// CalculateKeyTag computes the RFC 4034 Appendix B key tag over the
// DNSKEY RDATA's full wire encoding (flags included). Grounded on
// dns/dnssec.go's CalculateKeyTag (resolves spec.md §9 open question 2).
func CalculateKeyTag(key *wire.RDATADNSKEY) uint16 {
	rdata := wire.EncodeCanonical(key)
	var ac uint32
	for i, b := range rdata {
		if i&1 == 1 {
			ac += uint32(b)
		} else {
			ac += uint32(b) << 8
		}
	}
	ac += (ac >> 16) & 0xFFFF
	return uint16(ac & 0xFFFF)
}

// GetDSRecords emits SHA-1, SHA-256, and SHA-384 DS records for key by
// hashing canonical_owner || DNSKEY_RDATA. Grounded on dns/dnssec.go's
// GenerateDS.
func GetDSRecords(key *Key) []*wire.RDATADS {
	dnskey := key.DNSKEYRDATA()
	ownerBytes := key.Apex.EncodeCanonical()
	plain := append(append([]byte{}, ownerBytes...), wire.EncodeCanonical(dnskey)...)

	sha1Digest := sha1.Sum(plain)
	sha256Digest := sha256.Sum256(plain)
	sha384Digest := sha512.Sum384(plain)

	keyTag := key.KeyTag()
	return []*wire.RDATADS{
		{KeyTag: keyTag, Algorithm: key.Algorithm, DigestType: wire.DigestSHA1, Digest: sha1Digest[:]},
		{KeyTag: keyTag, Algorithm: key.Algorithm, DigestType: wire.DigestSHA256, Digest: sha256Digest[:]},
		{KeyTag: keyTag, Algorithm: key.Algorithm, DigestType: wire.DigestSHA384, Digest: sha384Digest[:]},
	}
}
