// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// nsec3.go implements §4.I's NSEC3 database: hashed-owner ordered map
// with iterative hashing and empty-non-terminal synthesis. Grounded on
// original_source/nsec3db.hpp's NSEC3Entry/mIsTemp (hence the temp flag,
// §3.1), restructured around wire's base32hex codec instead of a
// hand-rolled one.
package zone

import (
	"crypto/sha1"
	"sort"

	"github.com/tochusc/authdns/wire"
)

// NSEC3DB answers denial-of-existence queries over hashed owner names.
type NSEC3DB struct {
	apex       wire.Name
	salt       []byte
	iterations uint16
	hashAlg    wire.NSEC3HashAlgorithm

	// hashes are sorted ascending raw digest bytes.
	hashes  [][]byte
	owners  map[string]wire.Name // hash (as string) -> original owner
	bitmaps map[string][]wire.Type
	temp    map[string]bool
}

// iterateHash computes RFC 5155's IH(iterations, name, salt):
// IH(0) = H(name || salt); IH(k) = H(IH(k-1) || salt) for k=1..iterations.
func iterateHash(name wire.Name, salt []byte, iterations uint16) []byte {
	h := sha1.Sum(append(name.Canonical().Encode(), salt...))
	digest := h[:]
	for i := uint16(0); i < iterations; i++ {
		next := sha1.Sum(append(append([]byte{}, digest...), salt...))
		digest = next[:]
	}
	return digest
}

// BuildNSEC3DB constructs the NSEC3 ring from every occupied node in z,
// plus a synthesized entry (temp=true) for every empty non-terminal
// ancestor required to complete the hash chain. The apex is always
// added; it is temp only when it is itself such an unoccupied ancestor.
func BuildNSEC3DB(z *Zone, salt []byte, iterations uint16, hashAlg wire.NSEC3HashAlgorithm) *NSEC3DB {
	db := &NSEC3DB{
		apex: z.Apex, salt: salt, iterations: iterations, hashAlg: hashAlg,
		owners: make(map[string]wire.Name), bitmaps: make(map[string][]wire.Type),
		temp: make(map[string]bool),
	}

	seen := make(map[string]bool)
	add := func(name wire.Name, temp bool) {
		digest := iterateHash(name, db.salt, db.iterations)
		key := string(digest)
		if seen[key] {
			return
		}
		seen[key] = true
		db.hashes = append(db.hashes, digest)
		db.owners[key] = name
		db.temp[key] = temp
		if !temp {
			n, ok := z.Lookup(name)
			if ok {
				types := n.AllTypes()
				types = append(types, wire.TypeNSEC3, wire.TypeRRSIG)
				sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
				db.bitmaps[key] = types
			}
		}
	}

	for _, name := range z.Sorted() {
		n, ok := z.Lookup(name)
		if !ok {
			continue
		}
		if n.Occupied() {
			add(name, false)
			// Ensure every ancestor up to the apex also has a chain
			// entry, even if otherwise unoccupied.
			for cur := name; !cur.Equal(z.Apex); {
				parent, ok := cur.Parent()
				if !ok {
					break
				}
				if pn, exists := z.Lookup(parent); !exists || !pn.Occupied() {
					add(parent, true)
				}
				cur = parent
			}
		}
	}
	add(z.Apex, false)

	sort.Slice(db.hashes, func(i, j int) bool {
		return compareBytesLex(db.hashes[i], db.hashes[j]) < 0
	})
	return db
}

func compareBytesLex(a, b []byte) int {
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

// Find returns the NSEC3 RR matching or covering the hash of qname: the
// entry whose owner hash equals qname's hash, or else the one that
// precedes it (wrapping cyclically), together with the next-hashed-owner
// bytes for the NEXT field.
func (db *NSEC3DB) Find(qname wire.Name) (ownerHash []byte, original wire.Name, rdata *wire.RDATANSEC3, ok bool) {
	if len(db.hashes) == 0 {
		return nil, wire.Name{}, nil, false
	}
	target := iterateHash(qname, db.salt, db.iterations)

	idx := sort.Search(len(db.hashes), func(i int) bool {
		return compareBytesLex(db.hashes[i], target) >= 0
	})
	predIdx := idx - 1
	if idx < len(db.hashes) && compareBytesLex(db.hashes[idx], target) == 0 {
		predIdx = idx
	}
	if predIdx < 0 {
		predIdx = len(db.hashes) - 1
	}
	nextIdx := (predIdx + 1) % len(db.hashes)

	key := string(db.hashes[predIdx])
	rdata = &wire.RDATANSEC3{
		HashAlgorithm:   db.hashAlg,
		OptOut:          false,
		Iterations:      db.iterations,
		Salt:            db.salt,
		NextHashedOwner: db.hashes[nextIdx],
		Types:           db.bitmaps[key],
	}
	return db.hashes[predIdx], db.owners[key], rdata, true
}

// OwnerName returns the NSEC3 RR owner name for a given hash: the
// base32hex label prepended to the apex.
func (db *NSEC3DB) OwnerName(hash []byte) wire.Name {
	label := wire.EncodeBase32Hex(hash)
	n, _ := wire.NameFromLabels(append([][]byte{[]byte(label)}, db.apex.Labels()...))
	return n
}

// Param returns the NSEC3PARAM RDATA describing this database's
// hashing parameters.
func (db *NSEC3DB) Param() *wire.RDATANSEC3PARAM {
	return &wire.RDATANSEC3PARAM{
		HashAlgorithm: db.hashAlg,
		Flags:         0,
		Iterations:    db.iterations,
		Salt:          db.salt,
	}
}
