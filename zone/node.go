// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// node.go implements the RRset and Node types of §3's data model,
// grounded on the teacher's DNSRR grouping in handler.go's Responser but
// restructured into the owner-indexed map §4.F requires.
package zone

import "github.com/tochusc/authdns/wire"

// RRSet is a triple (owner, class, type) plus TTL and an unordered
// collection of RDATA of that type. All items share the triple and TTL.
type RRSet struct {
	Owner wire.Name
	Class wire.Class
	Type  wire.Type
	TTL   uint32
	Data  []wire.RDATA
}

// ResourceRecords expands the RRset into individual wire.ResourceRecord
// values, one per RDATA item, for message serialization.
func (s *RRSet) ResourceRecords() []wire.ResourceRecord {
	rrs := make([]wire.ResourceRecord, 0, len(s.Data))
	for _, d := range s.Data {
		rrs = append(rrs, wire.ResourceRecord{
			Name: s.Owner, Type: s.Type, Class: s.Class, TTL: s.TTL, RDATA: d,
		})
	}
	return rrs
}

// Merge folds other's RDATA into s, rejecting a TTL disagreement per
// §4.F's "reject disagreement" policy. Duplicate RDATA values are not
// added twice.
func (s *RRSet) Merge(other *RRSet) error {
	if s.TTL != other.TTL {
		return NewZoneError("conflicting TTL for %s %s at %s: %d vs %d",
			s.Class, s.Type, s.Owner, s.TTL, other.TTL)
	}
	for _, d := range other.Data {
		dup := false
		for _, existing := range s.Data {
			if existing.Equal(d) {
				dup = true
				break
			}
		}
		if !dup {
			s.Data = append(s.Data, d)
		}
	}
	return nil
}

// Node is a map from record type to RRset, representing all records at
// one owner name. A nil or empty Types map means the node is an empty
// non-terminal: present only so its name is a valid ancestor.
type Node struct {
	Owner wire.Name
	Types map[wire.Type]*RRSet
}

func newNode(owner wire.Name) *Node {
	return &Node{Owner: owner, Types: make(map[wire.Type]*RRSet)}
}

// Occupied reports whether the node carries any actual data.
func (n *Node) Occupied() bool { return len(n.Types) > 0 }

// HasCNAME reports whether the node holds a CNAME RRset.
func (n *Node) HasCNAME() bool {
	_, ok := n.Types[wire.TypeCNAME]
	return ok
}

// Add inserts rrset into the node, enforcing CNAME exclusivity: a CNAME
// RRset cannot coexist with any type other than RRSIG/NSEC/NSEC3, and no
// other type can be added once a CNAME is present.
func (n *Node) Add(rrset *RRSet) error {
	if err := n.checkCNAMEExclusivity(rrset.Type); err != nil {
		return err
	}
	if existing, ok := n.Types[rrset.Type]; ok {
		return existing.Merge(rrset)
	}
	n.Types[rrset.Type] = rrset
	return nil
}

func isCNAMEExempt(t wire.Type) bool {
	return t == wire.TypeRRSIG || t == wire.TypeNSEC || t == wire.TypeNSEC3
}

func (n *Node) checkCNAMEExclusivity(adding wire.Type) error {
	if adding == wire.TypeCNAME {
		for t := range n.Types {
			if t != wire.TypeCNAME && !isCNAMEExempt(t) {
				return NewZoneError("cannot add CNAME at %s: other data already present", n.Owner)
			}
		}
		return nil
	}
	if !isCNAMEExempt(adding) && n.HasCNAME() {
		return NewZoneError("cannot add %s at %s: CNAME already present", adding, n.Owner)
	}
	return nil
}

// AllTypes returns the set of record types present at the node, used for
// NSEC/NSEC3 bitmap construction. The order is not defined.
func (n *Node) AllTypes() []wire.Type {
	types := make([]wire.Type, 0, len(n.Types))
	for t := range n.Types {
		types = append(types, t)
	}
	return types
}
