// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// nsec.go implements §4.H's NSEC database: an ordered map keyed by
// canonical owner name supporting cyclic successor lookup. Grounded on
// original_source/nsecdb.{hpp,cpp}'s NSECDB::findNSEC, which treats the
// owner map as a ring via std::map::lower_bound with begin()/end()
// wraparound; the zone apex participates as an ordinary ring member
// (§3.1, resolving Open Question (a) in DESIGN.md) rather than being
// special-cased the way a resolver-only view might expect.
package zone

import (
	"sort"

	"github.com/tochusc/authdns/wire"
)

// NSECDB answers "what NSEC record proves the absence (or bounds the
// names around) qname" queries for a built zone.
type NSECDB struct {
	apex    wire.Name
	owners  []wire.Name // sorted ascending, canonical
	bitmaps map[string][]wire.Type
}

// BuildNSECDB constructs the NSEC ring from every occupied node in z. The
// apex is a member when it holds data (such as the SOA); an unoccupied
// node, the apex included, is left out.
func BuildNSECDB(z *Zone) *NSECDB {
	db := &NSECDB{apex: z.Apex, bitmaps: make(map[string][]wire.Type)}
	for _, name := range z.Sorted() {
		n, ok := z.Lookup(name)
		if !ok || !n.Occupied() {
			continue
		}
		types := n.AllTypes()
		types = append(types, wire.TypeNSEC, wire.TypeRRSIG)
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		db.owners = append(db.owners, name)
		db.bitmaps[nodeKey(name)] = types
	}
	sort.Slice(db.owners, func(i, j int) bool { return db.owners[i].Compare(db.owners[j]) < 0 })
	return db
}

// Find returns the NSEC RDATA covering qname: if qname is itself a ring
// member, its own bitmap and the successor's name; otherwise the
// largest ring member strictly less than qname (wrapping to the last
// entry if qname precedes everything), paired with its successor.
func (db *NSECDB) Find(qname wire.Name) (owner wire.Name, rdata *wire.RDATANSEC, ok bool) {
	if len(db.owners) == 0 {
		return wire.Name{}, nil, false
	}
	q := qname.Canonical()

	idx := sort.Search(len(db.owners), func(i int) bool { return db.owners[i].Compare(q) >= 0 })

	if idx < len(db.owners) && db.owners[idx].Equal(q) {
		next := db.owners[(idx+1)%len(db.owners)]
		return db.owners[idx], &wire.RDATANSEC{NextName: next, Types: db.bitmaps[nodeKey(db.owners[idx])]}, true
	}

	// idx is the first owner > q; the covering entry is its predecessor,
	// wrapping to the last entry when q precedes every owner.
	predIdx := idx - 1
	if predIdx < 0 {
		predIdx = len(db.owners) - 1
	}
	next := db.owners[(predIdx+1)%len(db.owners)]
	return db.owners[predIdx], &wire.RDATANSEC{NextName: next, Types: db.bitmaps[nodeKey(db.owners[predIdx])]}, true
}
