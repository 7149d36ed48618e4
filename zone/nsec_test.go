// Copyright 2024 TochusC AOSP Lab. All rights reserved.

package zone

import (
	"testing"

	"github.com/tochusc/authdns/wire"
)

func buildNSECZone(t *testing.T) *Zone {
	t.Helper()
	apex := mustName(t, "example.com.")
	z := New(apex)
	mname := mustName(t, "ns1.example.com.")
	rname := mustName(t, "hostmaster.example.com.")
	must(t, z.Add(&RRSet{Owner: apex, Class: wire.ClassIN, Type: wire.TypeSOA, TTL: 3600,
		Data: []wire.RDATA{&wire.RDATASOA{MName: mname, RName: rname, Serial: 1, Refresh: 3600, Retry: 900, Expire: 604800, Minimum: 86400}}}))

	for _, label := range []string{"a", "b", "m"} {
		owner := mustName(t, label+".example.com.")
		must(t, z.Add(&RRSet{Owner: owner, Class: wire.ClassIN, Type: wire.TypeA, TTL: 300, Data: []wire.RDATA{mustA(t, "192.0.2.1")}}))
	}
	return z
}

func TestNSECDBFindExactMatch(t *testing.T) {
	z := buildNSECZone(t)
	db := BuildNSECDB(z)
	owner, rdata, ok := db.Find(mustName(t, "a.example.com."))
	if !ok {
		t.Fatal("expected a match for a.example.com.")
	}
	if !owner.Equal(mustName(t, "a.example.com.")) {
		t.Errorf("owner = %v, want a.example.com.", owner)
	}
	if !rdata.NextName.Equal(mustName(t, "b.example.com.")) {
		t.Errorf("next name = %v, want b.example.com.", rdata.NextName)
	}
}

func TestNSECDBFindCoversGap(t *testing.T) {
	z := buildNSECZone(t)
	db := BuildNSECDB(z)
	// "c.example.com." sorts between "b." and "m." in the ring.
	owner, rdata, ok := db.Find(mustName(t, "c.example.com."))
	if !ok {
		t.Fatal("expected covering entry for c.example.com.")
	}
	if !owner.Equal(mustName(t, "b.example.com.")) {
		t.Errorf("covering owner = %v, want b.example.com.", owner)
	}
	if !rdata.NextName.Equal(mustName(t, "m.example.com.")) {
		t.Errorf("next name = %v, want m.example.com.", rdata.NextName)
	}
}

func TestNSECDBWrapsAround(t *testing.T) {
	z := buildNSECZone(t)
	db := BuildNSECDB(z)
	// "z.example.com." sorts after every ring member; covering entry wraps
	// to the last member, whose next name is the first (the apex).
	owner, rdata, ok := db.Find(mustName(t, "z.example.com."))
	if !ok {
		t.Fatal("expected a wraparound covering entry")
	}
	if !owner.Equal(mustName(t, "m.example.com.")) {
		t.Errorf("covering owner = %v, want m.example.com. (the last ring member)", owner)
	}
	if !rdata.NextName.Equal(z.Apex) {
		t.Errorf("wraparound next name = %v, want apex %v", rdata.NextName, z.Apex)
	}
}

func TestNSECDBBitmapIncludesNSECAndRRSIG(t *testing.T) {
	z := buildNSECZone(t)
	db := BuildNSECDB(z)
	_, rdata, ok := db.Find(mustName(t, "a.example.com."))
	if !ok {
		t.Fatal("expected a match")
	}
	hasA, hasNSEC, hasRRSIG := false, false, false
	for _, ty := range rdata.Types {
		switch ty {
		case wire.TypeA:
			hasA = true
		case wire.TypeNSEC:
			hasNSEC = true
		case wire.TypeRRSIG:
			hasRRSIG = true
		}
	}
	if !hasA || !hasNSEC || !hasRRSIG {
		t.Errorf("expected bitmap to include A, NSEC, RRSIG, got %v", rdata.Types)
	}
}
