// Copyright 2024 TochusC AOSP Lab. All rights reserved.

// resolver.go implements §4.G's resolution algorithm against a built
// Zone plus its NSEC or NSEC3 database. Grounded on the teacher's
// Responser interface (responser.go) for the request/response shape,
// rebuilt around the zone tree instead of the teacher's flat
// per-query-type switch in xperi's example responser.
package zone

import (
	"context"

	"github.com/tochusc/authdns/wire"
)

// Signer produces RRSIG RRsets on demand for online signing. Resolver
// works without one (DO is simply not honored) so tests can exercise
// plain authoritative behavior without a key store.
type Signer interface {
	SignRRSet(ctx context.Context, rrset *RRSet) (*RRSet, error)
}

// Resolver answers queries against a single zone.
type Resolver struct {
	Zone   *Zone
	NSEC   *NSECDB
	NSEC3  *NSEC3DB
	Signer Signer
}

const maxUDPPayloadClamp = 1280

// Resolve implements the contract of §4.G: given a parsed query, return
// a parsed response. It never returns an error for an invalid query;
// invalid queries get FORMERR responses. A non-nil error indicates a
// signer failure during online signing.
func (r *Resolver) Resolve(ctx context.Context, query *wire.Message) (*wire.Message, error) {
	resp := &wire.Message{
		ID:     query.ID,
		QR:     true,
		Opcode: query.Opcode,
		RD:     query.RD,
		CD:     query.CD,
		AA:     true,
		Question: query.Question,
	}

	do := false
	if query.EDNS != nil {
		payload := query.EDNS.UDPPayloadSize
		if payload > maxUDPPayloadClamp {
			payload = maxUDPPayloadClamp
		}
		resp.EDNS = &wire.EDNS{UDPPayloadSize: payload, DO: query.EDNS.DO}
		do = query.EDNS.DO
	}

	if len(query.Question) != 1 {
		resp.RCode = wire.RCodeFormErr
		resp.AA = false
		return resp, nil
	}
	q := query.Question[0]
	qname := q.Name.Canonical()

	if !qname.Equal(r.Zone.Apex) && !qname.IsSubdomainOf(r.Zone.Apex) {
		resp.RCode = wire.RCodeRefused
		resp.AA = false
		return resp, nil
	}

	if q.Type == wire.TypeRRSIG {
		return resp, r.resolveRRSIGQuery(ctx, resp, qname, do)
	}
	if q.Type == wire.TypeNSEC {
		if handled, err := r.resolveNSECQuery(ctx, resp, qname, do); handled || err != nil {
			return resp, err
		}
	}

	if handled, err := r.resolveDNAME(ctx, resp, qname, q.Type, do); handled || err != nil {
		return resp, err
	}

	if handled := r.resolveReferral(ctx, resp, qname, do); handled {
		return resp, nil
	}

	if node, ok := r.Zone.Lookup(qname); ok {
		return resp, r.resolveExactNode(ctx, resp, node, qname, q.Type, do)
	}

	if handled, err := r.resolveWildcard(ctx, resp, qname, q.Type, do); handled {
		return resp, err
	}

	return resp, r.resolveNXDomain(ctx, resp, qname, do)
}

func (r *Resolver) appendSigned(ctx context.Context, into *[]wire.ResourceRecord, rrset *RRSet, do bool) error {
	*into = append(*into, rrset.ResourceRecords()...)
	if !do || r.Signer == nil || rrset.Type == wire.TypeRRSIG {
		return nil
	}
	sig, err := r.Signer.SignRRSet(ctx, rrset)
	if err != nil {
		return err
	}
	if sig != nil {
		*into = append(*into, sig.ResourceRecords()...)
	}
	return nil
}

func (r *Resolver) appendSOA(ctx context.Context, into *[]wire.ResourceRecord, do bool) error {
	soa, ok := r.Zone.SOA()
	if !ok {
		return nil
	}
	return r.appendSigned(ctx, into, soa, do)
}

// appendDenial attaches NSEC or NSEC3 proof of the absence of qtype at
// qname (whichever database is configured), plus its RRSIG when DO.
func (r *Resolver) appendDenial(ctx context.Context, into *[]wire.ResourceRecord, qname wire.Name, do bool) error {
	if !do {
		return nil
	}
	if r.NSEC3 != nil {
		hash, owner, rdata, ok := r.NSEC3.Find(qname)
		if !ok {
			return nil
		}
		ownerName := r.NSEC3.OwnerName(hash)
		_ = owner
		rrset := &RRSet{Owner: ownerName, Class: wire.ClassIN, Type: wire.TypeNSEC3, TTL: soaMinimum(r.Zone), Data: []wire.RDATA{rdata}}
		return r.appendSigned(ctx, into, rrset, do)
	}
	if r.NSEC != nil {
		owner, rdata, ok := r.NSEC.Find(qname)
		if !ok {
			return nil
		}
		rrset := &RRSet{Owner: owner, Class: wire.ClassIN, Type: wire.TypeNSEC, TTL: soaMinimum(r.Zone), Data: []wire.RDATA{rdata}}
		return r.appendSigned(ctx, into, rrset, do)
	}
	return nil
}

func soaMinimum(z *Zone) uint32 {
	soa, ok := z.SOA()
	if !ok || len(soa.Data) == 0 {
		return 0
	}
	s, ok := soa.Data[0].(*wire.RDATASOA)
	if !ok {
		return soa.TTL
	}
	return s.Minimum
}

func (r *Resolver) resolveRRSIGQuery(ctx context.Context, resp *wire.Message, qname wire.Name, do bool) error {
	node, ok := r.Zone.Lookup(qname)
	if !ok {
		resp.RCode = wire.RCodeNXDomain
		resp.AA = true
		if err := r.appendSOA(ctx, &resp.Authority, do); err != nil {
			return err
		}
		return r.appendDenial(ctx, &resp.Authority, qname, do)
	}
	if r.Signer == nil {
		resp.RCode = wire.RCodeNoError
		return r.appendSOA(ctx, &resp.Authority, do)
	}
	var sigs []wire.RDATA
	for t, rrset := range node.Types {
		if t == wire.TypeRRSIG {
			continue
		}
		sig, err := r.Signer.SignRRSet(ctx, rrset)
		if err != nil {
			return err
		}
		if sig != nil {
			sigs = append(sigs, sig.Data...)
		}
	}
	if len(sigs) == 0 {
		resp.RCode = wire.RCodeNoError
		return r.appendSOA(ctx, &resp.Authority, do)
	}
	resp.Answer = append(resp.Answer, (&RRSet{Owner: qname, Class: wire.ClassIN, Type: wire.TypeRRSIG, TTL: soaMinimum(r.Zone), Data: sigs}).ResourceRecords()...)
	return nil
}

func (r *Resolver) resolveNSECQuery(ctx context.Context, resp *wire.Message, qname wire.Name, do bool) (bool, error) {
	if r.NSEC == nil {
		return false, nil
	}
	owner, rdata, ok := r.NSEC.Find(qname)
	if !ok || !owner.Equal(qname) {
		return false, nil
	}
	rrset := &RRSet{Owner: owner, Class: wire.ClassIN, Type: wire.TypeNSEC, TTL: soaMinimum(r.Zone), Data: []wire.RDATA{rdata}}
	return true, r.appendSigned(ctx, &resp.Answer, rrset, do)
}

func (r *Resolver) resolveDNAME(ctx context.Context, resp *wire.Message, qname wire.Name, qtype wire.Type, do bool) (bool, error) {
	if qname.Equal(r.Zone.Apex) {
		return false, nil
	}
	for cur, ok := qname.Parent(); ok && !cur.Equal(r.Zone.Apex); cur, ok = cur.Parent() {
		node, exists := r.Zone.Lookup(cur)
		if !exists {
			continue
		}
		dname, hasDName := node.Types[wire.TypeDNAME]
		if !hasDName || len(dname.Data) != 1 {
			continue
		}
		target, ok := dname.Data[0].(*wire.RDATAName)
		if !ok {
			continue
		}
		if err := r.appendSigned(ctx, &resp.Answer, dname, do); err != nil {
			return true, err
		}
		newTarget, ok := qname.ReplaceSuffix(cur, target.Name)
		if !ok {
			return true, nil
		}
		cname := &RRSet{Owner: qname, Class: wire.ClassIN, Type: wire.TypeCNAME, TTL: dname.TTL, Data: []wire.RDATA{wire.NewRDATAName(wire.TypeCNAME, newTarget)}}
		if err := r.appendSigned(ctx, &resp.Answer, cname, do); err != nil {
			return true, err
		}
		if newTarget.Equal(r.Zone.Apex) || newTarget.IsSubdomainOf(r.Zone.Apex) {
			if tnode, exists := r.Zone.Lookup(newTarget); exists {
				if rrset, ok := tnode.Types[qtype]; ok {
					if err := r.appendSigned(ctx, &resp.Answer, rrset, do); err != nil {
						return true, err
					}
				}
			}
		}
		return true, nil
	}
	return false, nil
}

func (r *Resolver) resolveReferral(ctx context.Context, resp *wire.Message, qname wire.Name, do bool) bool {
	if qname.Equal(r.Zone.Apex) {
		return false
	}
	node, ok := r.Zone.AncestorWithType(qname, wire.TypeNS)
	if !ok {
		return false
	}
	resp.AA = false
	ns := node.Types[wire.TypeNS]
	resp.Authority = append(resp.Authority, ns.ResourceRecords()...)
	for _, rd := range ns.Data {
		nsName, ok := rd.(*wire.RDATAName)
		if !ok {
			continue
		}
		if !nsName.Name.IsSubdomainOf(r.Zone.Apex) && !nsName.Name.Equal(r.Zone.Apex) {
			continue
		}
		if glueNode, exists := r.Zone.Lookup(nsName.Name); exists {
			if a, ok := glueNode.Types[wire.TypeA]; ok {
				resp.Additional = append(resp.Additional, a.ResourceRecords()...)
			}
			if aaaa, ok := glueNode.Types[wire.TypeAAAA]; ok {
				resp.Additional = append(resp.Additional, aaaa.ResourceRecords()...)
			}
		}
	}
	if ds, ok := node.Types[wire.TypeDS]; ok {
		_ = r.appendSigned(ctx, &resp.Authority, ds, do)
	}
	return true
}

func (r *Resolver) resolveExactNode(ctx context.Context, resp *wire.Message, node *Node, qname wire.Name, qtype wire.Type, do bool) error {
	if !node.Occupied() {
		resp.RCode = wire.RCodeNoError
		if err := r.appendSOA(ctx, &resp.Authority, do); err != nil {
			return err
		}
		return r.appendDenial(ctx, &resp.Authority, qname, do)
	}

	if qtype == wire.TypeANY {
		for t, rrset := range node.Types {
			if t == wire.TypeRRSIG {
				continue
			}
			if err := r.appendSigned(ctx, &resp.Answer, rrset, do); err != nil {
				return err
			}
		}
		return nil
	}

	if node.HasCNAME() {
		cname := node.Types[wire.TypeCNAME]
		if err := r.appendSigned(ctx, &resp.Answer, cname, do); err != nil {
			return err
		}
		target, ok := cname.Data[0].(*wire.RDATAName)
		if ok && (target.Name.Equal(r.Zone.Apex) || target.Name.IsSubdomainOf(r.Zone.Apex)) {
			if tnode, exists := r.Zone.Lookup(target.Name); exists {
				if rrset, ok := tnode.Types[qtype]; ok {
					if err := r.appendSigned(ctx, &resp.Answer, rrset, do); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	if rrset, ok := node.Types[qtype]; ok {
		return r.appendSigned(ctx, &resp.Answer, rrset, do)
	}

	resp.RCode = wire.RCodeNoError
	if err := r.appendSOA(ctx, &resp.Authority, do); err != nil {
		return err
	}
	return r.appendDenial(ctx, &resp.Authority, qname, do)
}

func (r *Resolver) resolveWildcard(ctx context.Context, resp *wire.Message, qname wire.Name, qtype wire.Type, do bool) (bool, error) {
	encloser, nextCloser, ok := r.Zone.ClosestEncloser(qname)
	if !ok {
		return false, nil
	}
	wnode, ok := r.Zone.Wildcard(encloser)
	if !ok {
		return false, nil
	}

	if do {
		if err := r.appendDenial(ctx, &resp.Authority, encloser, do); err != nil {
			return true, err
		}
		if !nextCloser.IsRoot() {
			if err := r.appendDenial(ctx, &resp.Authority, nextCloser, do); err != nil {
				return true, err
			}
		}
	}

	rrset, ok := wnode.Types[qtype]
	if !ok {
		resp.RCode = wire.RCodeNoError
		if err := r.appendSOA(ctx, &resp.Authority, do); err != nil {
			return true, err
		}
		return true, nil
	}
	synthesized := &RRSet{Owner: qname, Class: rrset.Class, Type: rrset.Type, TTL: rrset.TTL, Data: rrset.Data}
	return true, r.appendSigned(ctx, &resp.Answer, synthesized, do)
}

func (r *Resolver) resolveNXDomain(ctx context.Context, resp *wire.Message, qname wire.Name, do bool) error {
	resp.RCode = wire.RCodeNXDomain
	resp.AA = true
	if err := r.appendSOA(ctx, &resp.Authority, do); err != nil {
		return err
	}
	if err := r.appendDenial(ctx, &resp.Authority, qname, do); err != nil {
		return err
	}
	encloser, _, ok := r.Zone.ClosestEncloser(qname)
	if !ok {
		return nil
	}
	star, err := wire.NameFromLabels(append([][]byte{[]byte("*")}, encloser.Labels()...))
	if err != nil {
		return nil
	}
	return r.appendDenial(ctx, &resp.Authority, star, do)
}
