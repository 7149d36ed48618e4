// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// zone.go implements §4.F's zone tree: a canonical-name-keyed map with
// apex SOA/NS caching and ancestor empty-non-terminal creation. Grounded
// on the teacher's flat record-list model (types.go's QueryInfo),
// restructured into the owner-indexed tree the resolver and NSEC/NSEC3
// databases both need.
package zone

import (
	"sort"

	"github.com/tochusc/authdns/wire"
)

// Zone is a map from canonical owner name to Node, anchored at Apex.
type Zone struct {
	Apex  wire.Name
	nodes map[string]*Node
	// order caches canonical names sorted per §3's label-reversed
	// lexicographic rule, rebuilt lazily by Sorted().
	order      []wire.Name
	orderDirty bool
}

// New creates an empty zone anchored at apex.
func New(apex wire.Name) *Zone {
	z := &Zone{Apex: apex.Canonical(), nodes: make(map[string]*Node)}
	z.ensureNode(z.Apex)
	return z
}

func nodeKey(n wire.Name) string {
	return string(n.Canonical().Encode())
}

func (z *Zone) ensureNode(owner wire.Name) *Node {
	key := nodeKey(owner)
	n, ok := z.nodes[key]
	if !ok {
		n = newNode(owner.Canonical())
		z.nodes[key] = n
		z.orderDirty = true
	}
	return n
}

// Lookup returns the node at owner, if any.
func (z *Zone) Lookup(owner wire.Name) (*Node, bool) {
	n, ok := z.nodes[nodeKey(owner)]
	return n, ok
}

// Add inserts rrset into the zone, creating any missing ancestor empty
// non-terminals up to (but not including) the zone apex's own ancestors.
// The owner must be the apex itself or a subdomain of it.
func (z *Zone) Add(rrset *RRSet) error {
	owner := rrset.Owner.Canonical()
	if !owner.Equal(z.Apex) && !owner.IsSubdomainOf(z.Apex) {
		return NewZoneError("owner %s is outside zone apex %s", owner, z.Apex)
	}

	for cur := owner; !cur.Equal(z.Apex); {
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		z.ensureNode(parent)
		if parent.Equal(z.Apex) {
			break
		}
		cur = parent
	}

	node := z.ensureNode(owner)
	return node.Add(rrset)
}

// SOA returns the apex's SOA RRset, if present.
func (z *Zone) SOA() (*RRSet, bool) {
	n, ok := z.Lookup(z.Apex)
	if !ok {
		return nil, false
	}
	s, ok := n.Types[wire.TypeSOA]
	return s, ok
}

// ApexNS returns the apex's NS RRset, if present.
func (z *Zone) ApexNS() (*RRSet, bool) {
	n, ok := z.Lookup(z.Apex)
	if !ok {
		return nil, false
	}
	s, ok := n.Types[wire.TypeNS]
	return s, ok
}

// Sorted returns every node's owner name in canonical label-reversed
// lexicographic order, used to build the NSEC/NSEC3 ordered maps.
func (z *Zone) Sorted() []wire.Name {
	if !z.orderDirty && z.order != nil {
		return z.order
	}
	names := make([]wire.Name, 0, len(z.nodes))
	for _, n := range z.nodes {
		names = append(names, n.Owner)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Compare(names[j]) < 0 })
	z.order = names
	z.orderDirty = false
	return names
}

// ClosestEncloser returns the deepest ancestor of name (including name
// itself) that has a node in the zone, walking up to the apex. It also
// reports the next-closer name: the child of the encloser on the path to
// name (used for wildcard-denial NSEC/NSEC3 proofs).
func (z *Zone) ClosestEncloser(name wire.Name) (encloser wire.Name, nextCloser wire.Name, ok bool) {
	cur := name.Canonical()
	var prev wire.Name
	havePrev := false
	for {
		if _, exists := z.Lookup(cur); exists {
			if havePrev {
				return cur, prev, true
			}
			return cur, wire.Name{}, true
		}
		if cur.Equal(z.Apex) {
			return wire.Name{}, wire.Name{}, false
		}
		parent, ok := cur.Parent()
		if !ok {
			return wire.Name{}, wire.Name{}, false
		}
		prev = cur
		havePrev = true
		cur = parent
	}
}

// Wildcard returns the wildcard node "*.<encloser>" if present.
func (z *Zone) Wildcard(encloser wire.Name) (*Node, bool) {
	star, err := wire.NameFromLabels(append([][]byte{[]byte("*")}, encloser.Labels()...))
	if err != nil {
		return nil, false
	}
	return z.Lookup(star)
}

// AncestorWithType walks from name upward, stopping before the apex,
// returning the first strict ancestor node carrying rrType.
func (z *Zone) AncestorWithType(name wire.Name, rrType wire.Type) (*Node, bool) {
	cur := name.Canonical()
	if cur.Equal(z.Apex) {
		return nil, false
	}
	parent, ok := cur.Parent()
	if !ok {
		return nil, false
	}
	for {
		if parent.Equal(z.Apex) {
			return nil, false
		}
		if n, exists := z.Lookup(parent); exists {
			if rrset, ok := n.Types[rrType]; ok && len(rrset.Data) > 0 {
				return n, true
			}
		}
		next, ok := parent.Parent()
		if !ok {
			return nil, false
		}
		parent = next
	}
}
