// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/wotledger/wotd/certification"
	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/identity"
	"github.com/wotledger/wotd/membership"
)

// sections are applied in block order, identities first so that
// memberships and certifications in the same block can refer to them
func (t *tables) apply(b *document.Block) error {
	n := b.Number

	for _, idty := range b.Identities {
		r := identity.FromDocument(idty)
		if err := t.identities.SaveOfficial(&r, n); nil != err {
			return err
		}
	}

	for _, m := range b.Joiners {
		if err := t.writeMembership(document.MembershipIn, m, b); nil != err {
			return err
		}
		if err := t.identities.SetMember(m.IdtyHash, true); nil != err {
			return err
		}
	}
	for _, m := range b.Actives {
		if err := t.writeMembership(document.MembershipIn, m, b); nil != err {
			return err
		}
	}
	for _, m := range b.Leavers {
		if err := t.writeMembership(document.MembershipOut, m, b); nil != err {
			return err
		}
	}

	for _, revoked := range b.Revoked {
		r, err := t.revokedIdentity(revoked)
		if nil != err {
			return err
		}
		if err := t.identities.Revoke(r.Hash, revoked.Signature, n); nil != err {
			return err
		}
	}

	for _, pubkey := range b.Excluded {
		err := t.eachWritten(pubkey, func(r *identity.Record) error {
			return t.identities.SetMember(r.Hash, false)
		})
		if nil != err {
			return err
		}
	}

	return t.linkCertifications(b.Certifications, n)
}

// undo apply in reverse order
func (t *tables) revert(b *document.Block) error {
	n := b.Number

	for _, c := range b.Certifications {
		linked, err := t.certifications.FromIssuer(c.From)
		if nil != err {
			return err
		}
		for i := range linked {
			r := &linked[i]
			if r.To != c.To || r.Sig != c.Signature || nil == r.WrittenNumber || n != *r.WrittenNumber {
				continue
			}
			if err := t.certifications.Unwrite(r); nil != err {
				return err
			}
		}
	}

	for _, pubkey := range b.Excluded {
		err := t.eachWritten(pubkey, func(r *identity.Record) error {
			if r.Revoked {
				return nil
			}
			return t.identities.SetMember(r.Hash, true)
		})
		if nil != err {
			return err
		}
	}

	for _, revoked := range b.Revoked {
		err := t.eachWritten(revoked.Pubkey, func(r *identity.Record) error {
			if nil == r.RevokedOn || n != *r.RevokedOn {
				return nil
			}
			return t.identities.Unrevoke(r.Hash)
		})
		if nil != err {
			return err
		}
	}

	for _, list := range [][]*document.Membership{b.Leavers, b.Actives, b.Joiners} {
		for _, m := range list {
			r := membership.FromDocument(m)
			if err := t.memberships.Unwrite(&r); nil != err {
				return err
			}
		}
	}
	for _, m := range b.Joiners {
		if err := t.identities.SetMember(m.IdtyHash, false); nil != err {
			return err
		}
	}

	for _, idty := range b.Identities {
		if err := t.identities.Unwrite(idty.Hash()); nil != err {
			return err
		}
	}
	return nil
}

// the record also keeps which block wrote it
func (t *tables) writeMembership(membershipType string, m *document.Membership, b *document.Block) error {
	r := membership.FromDocument(m)
	r.BlockNumber = &b.Number
	r.BlockHash = b.Hash()
	return t.memberships.SaveOfficialMS(membershipType, &r, b.Number)
}

// the identity a block revocation applies to: the one holding the same
// revocation signature, otherwise the first one not yet revoked
func (t *tables) revokedIdentity(revoked document.RevokedKey) (*identity.Record, error) {
	candidates, err := t.identities.FindByPubkey(revoked.Pubkey)
	if nil != err {
		return nil, err
	}
	var found *identity.Record
	for i := range candidates {
		r := &candidates[i]
		if r.RevocationSig == revoked.Signature {
			return r, nil
		}
		if nil == found && r.Written && !r.Revoked {
			found = r
		}
	}
	if nil == found {
		return nil, fault.UnknownIdentity
	}
	return found, nil
}

func (t *tables) eachWritten(pubkey string, f func(r *identity.Record) error) error {
	candidates, err := t.identities.FindByPubkey(pubkey)
	if nil != err {
		return err
	}
	for i := range candidates {
		if !candidates[i].Written {
			continue
		}
		if err := f(&candidates[i]); nil != err {
			return err
		}
	}
	return nil
}

// pending certifications are linked one by one, the rest are inserted
// together
func (t *tables) linkCertifications(certs []*document.Certification, n uint64) error {
	fresh := make([]certification.Record, 0, len(certs))
	for _, c := range certs {
		target, err := t.certifiedIdentity(c.To)
		if nil != err {
			return err
		}
		r := certification.FromDocument(c, target.Hash)

		existing, err := t.certifications.Existing(r.From, r.Target, r.Sig)
		if nil != err {
			return err
		}
		if nil != existing {
			if err := t.certifications.SaveOfficial(existing, n); nil != err {
				return err
			}
			continue
		}

		r.Linked = true
		r.WrittenNumber = &n
		fresh = append(fresh, r)
	}
	return t.certifications.BatchInsert(fresh)
}

func (t *tables) certifiedIdentity(pubkey string) (*identity.Record, error) {
	candidates, err := t.identities.FindByPubkey(pubkey)
	if nil != err {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].Written && !candidates[i].Revoked {
			return &candidates[i], nil
		}
	}
	return nil, fault.UnknownTargetIdentity
}
