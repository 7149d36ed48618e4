// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// dnskey.go populates a zone's apex with its own DNSKEY RRset, grounded
// on responser.go's EstablishToC, which kept a zone's "current" DNSKEY
// set on hand to answer DNSKEY/DS queries; here that material is added
// to the zone tree itself so §4.G's ordinary exact-node answering path
// serves it without a DNSKEY-specific branch.
package signer

import (
	"github.com/tochusc/authdns/wire"
	"github.com/tochusc/authdns/zone"
)

// PopulateDNSKEY adds an apex DNSKEY RRset built from every key in store
// to z. It is a no-op for an empty or nil store, so callers can run it
// unconditionally after an optional key load.
func PopulateDNSKEY(z *zone.Zone, store *KeyStore, ttl uint32) error {
	if store == nil || len(store.Keys) == 0 {
		return nil
	}
	data := make([]wire.RDATA, 0, len(store.Keys))
	for _, key := range store.Keys {
		data = append(data, key.DNSKEYRDATA())
	}
	return z.Add(&zone.RRSet{Owner: z.Apex, Class: wire.ClassIN, Type: wire.TypeDNSKEY, TTL: ttl, Data: data})
}
