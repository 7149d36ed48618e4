// Copyright 2024 TochusC AOSP Lab. All rights reserved.

package zone

import (
	"testing"

	"github.com/tochusc/authdns/wire"
)

func newTestZone(t *testing.T) *Zone {
	t.Helper()
	apex := mustName(t, "example.com.")
	z := New(apex)

	mname := mustName(t, "ns1.example.com.")
	rname := mustName(t, "hostmaster.example.com.")
	soa := &RRSet{Owner: apex, Class: wire.ClassIN, Type: wire.TypeSOA, TTL: 3600,
		Data: []wire.RDATA{&wire.RDATASOA{MName: mname, RName: rname, Serial: 1, Refresh: 3600, Retry: 900, Expire: 604800, Minimum: 86400}}}
	if err := z.Add(soa); err != nil {
		t.Fatalf("adding SOA: %v", err)
	}
	ns := &RRSet{Owner: apex, Class: wire.ClassIN, Type: wire.TypeNS, TTL: 3600, Data: []wire.RDATA{wire.NewRDATAName(wire.TypeNS, mname)}}
	if err := z.Add(ns); err != nil {
		t.Fatalf("adding NS: %v", err)
	}

	deep := mustName(t, "www.deep.example.com.")
	a := &RRSet{Owner: deep, Class: wire.ClassIN, Type: wire.TypeA, TTL: 300, Data: []wire.RDATA{mustA(t, "192.0.2.1")}}
	if err := z.Add(a); err != nil {
		t.Fatalf("adding deep A: %v", err)
	}
	return z
}

func TestZoneAddCreatesEmptyNonTerminals(t *testing.T) {
	z := newTestZone(t)
	ent := mustName(t, "deep.example.com.")
	n, ok := z.Lookup(ent)
	if !ok {
		t.Fatal("expected empty non-terminal node at deep.example.com.")
	}
	if n.Occupied() {
		t.Error("expected deep.example.com. to be an unoccupied empty non-terminal")
	}
}

func TestZoneAddRejectsOutOfApex(t *testing.T) {
	z := newTestZone(t)
	outside := mustName(t, "www.example.net.")
	rrset := &RRSet{Owner: outside, Class: wire.ClassIN, Type: wire.TypeA, TTL: 300, Data: []wire.RDATA{mustA(t, "192.0.2.9")}}
	if err := z.Add(rrset); err == nil {
		t.Fatal("expected error adding an out-of-apex owner")
	}
}

func TestZoneSOAAndApexNS(t *testing.T) {
	z := newTestZone(t)
	soa, ok := z.SOA()
	if !ok {
		t.Fatal("expected SOA at apex")
	}
	if soa.TTL != 3600 {
		t.Errorf("SOA TTL = %d, want 3600", soa.TTL)
	}
	ns, ok := z.ApexNS()
	if !ok {
		t.Fatal("expected NS at apex")
	}
	if len(ns.Data) != 1 {
		t.Errorf("expected 1 NS record, got %d", len(ns.Data))
	}
}

func TestZoneClosestEncloser(t *testing.T) {
	z := newTestZone(t)
	qname := mustName(t, "missing.www.deep.example.com.")
	encloser, nextCloser, ok := z.ClosestEncloser(qname)
	if !ok {
		t.Fatal("expected a closest encloser")
	}
	want := mustName(t, "www.deep.example.com.")
	if !encloser.Equal(want) {
		t.Errorf("encloser = %v, want %v", encloser, want)
	}
	wantNext := mustName(t, "missing.www.deep.example.com.")
	if !nextCloser.Equal(wantNext) {
		t.Errorf("nextCloser = %v, want %v", nextCloser, wantNext)
	}
}

func TestZoneClosestEncloserOfApexIsApex(t *testing.T) {
	z := newTestZone(t)
	qname := mustName(t, "example.com.")
	encloser, _, ok := z.ClosestEncloser(qname)
	if !ok || !encloser.Equal(z.Apex) {
		t.Fatalf("expected apex as its own closest encloser, got %v ok=%v", encloser, ok)
	}
}

func TestZoneWildcardLookup(t *testing.T) {
	z := newTestZone(t)
	star := mustName(t, "*.example.com.")
	rrset := &RRSet{Owner: star, Class: wire.ClassIN, Type: wire.TypeA, TTL: 300, Data: []wire.RDATA{mustA(t, "192.0.2.5")}}
	if err := z.Add(rrset); err != nil {
		t.Fatalf("adding wildcard: %v", err)
	}
	apex := mustName(t, "example.com.")
	node, ok := z.Wildcard(apex)
	if !ok {
		t.Fatal("expected wildcard node under apex")
	}
	if !node.Occupied() {
		t.Error("expected wildcard node to be occupied")
	}
}

func TestZoneAncestorWithType(t *testing.T) {
	z := newTestZone(t)
	sub := mustName(t, "sub.example.com.")
	ns := &RRSet{Owner: sub, Class: wire.ClassIN, Type: wire.TypeNS, TTL: 300, Data: []wire.RDATA{wire.NewRDATAName(wire.TypeNS, mustName(t, "ns1.sub.example.com."))}}
	if err := z.Add(ns); err != nil {
		t.Fatalf("adding delegation NS: %v", err)
	}
	grandchild := mustName(t, "host.sub.example.com.")
	n, ok := z.AncestorWithType(grandchild, wire.TypeNS)
	if !ok {
		t.Fatal("expected to find ancestor NS for delegated subdomain")
	}
	if !n.Owner.Equal(sub) {
		t.Errorf("ancestor owner = %v, want %v", n.Owner, sub)
	}
}

func TestZoneSortedOrdering(t *testing.T) {
	z := newTestZone(t)
	names := z.Sorted()
	apexIdx, deepIdx := -1, -1
	for i, n := range names {
		if n.Equal(z.Apex) {
			apexIdx = i
		}
		if n.Equal(mustName(t, "deep.example.com.")) {
			deepIdx = i
		}
	}
	if apexIdx == -1 || deepIdx == -1 {
		t.Fatalf("expected both apex and deep.example.com. in sorted order")
	}
	if apexIdx >= deepIdx {
		t.Errorf("expected apex to sort before its descendant deep.example.com.")
	}
}
