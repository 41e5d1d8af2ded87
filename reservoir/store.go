// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reservoir

import (
	"github.com/wotledger/wotd/blockuid"
	"github.com/wotledger/wotd/certification"
	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/identity"
	"github.com/wotledger/wotd/membership"
	"github.com/wotledger/wotd/storage"
)

// StoreIdentity - validate and keep a self-certification as pending
//
// returns the stored record and a duplicate flag, a duplicate is not an
// error so a client may safely submit the same document again
func StoreIdentity(raw string) (*identity.Record, bool, error) {
	if err := limit(); nil != err {
		return nil, false, err
	}

	globalData.Lock()
	defer globalData.Unlock()

	e, err := validate(document.IdentityDocument, raw)
	if nil != err {
		return nil, false, err
	}
	idty := e.(*document.Identity)

	existing, err := globalData.handles.Identities.GetByHash(idty.Hash())
	if nil != err {
		return nil, false, err
	}
	if nil != existing {
		return existing, true, duplicate(e)
	}

	err = archive(e)
	if nil != err {
		return nil, false, err
	}

	r := identity.FromDocument(idty)
	err = globalData.handles.Identities.SavePending(&r)
	if nil != err {
		return nil, false, err
	}

	accepted(e)
	return &r, false, nil
}

// StoreMembership - validate and keep a membership request as pending
//
// the identity it refers to must already be known
func StoreMembership(raw string) (*membership.Record, bool, error) {
	if err := limit(); nil != err {
		return nil, false, err
	}

	globalData.Lock()
	defer globalData.Unlock()

	e, err := validate(document.MembershipDocument, raw)
	if nil != err {
		return nil, false, err
	}
	ms := e.(*document.Membership)

	idty, err := globalData.handles.Identities.GetByHash(ms.IdtyHash)
	if nil != err {
		return nil, false, err
	}
	if nil == idty {
		return nil, false, rejected(e, fault.UnknownIdentity)
	}

	r := membership.FromDocument(ms)
	existing, err := globalData.handles.Memberships.GetMembershipOfIssuer(&r)
	if nil != err {
		return nil, false, err
	}
	if nil != existing {
		return existing, true, duplicate(e)
	}

	err = archive(e)
	if nil != err {
		return nil, false, err
	}

	err = globalData.handles.Memberships.SavePendingMembership(&r)
	if nil != err {
		return nil, false, err
	}

	accepted(e)
	return &r, false, nil
}

// StoreCertification - validate and keep a certification as pending
//
// the certified key must have a non-revoked identity; the signature is
// checked when the anchor block has been applied
func StoreCertification(raw string) (*certification.Record, bool, error) {
	if err := limit(); nil != err {
		return nil, false, err
	}

	globalData.Lock()
	defer globalData.Unlock()

	e, err := validate(document.CertificationDocument, raw)
	if nil != err {
		return nil, false, err
	}
	cert := e.(*document.Certification)

	target, err := certifiedIdentity(cert.To)
	if nil != err {
		return nil, false, err
	}
	if nil == target {
		return nil, false, rejected(e, fault.UnknownTargetIdentity)
	}

	if nil != globalData.verifier {
		if hash, ok := storage.BlockHash(cert.BlockNumber); ok {
			buid, err := blockuid.Parse(target.BUID)
			if nil != err {
				return nil, false, err
			}
			certified := &document.Identity{
				Pubkey:    target.Pubkey,
				UID:       target.UID,
				BUID:      buid,
				Signature: target.Sig,
			}
			anchor := blockuid.New(cert.BlockNumber, hash).String()
			content := cert.CertifiedContent(certified, anchor)
			if !globalData.verifier.Verify(content, cert.Signature, cert.From) {
				return nil, false, rejected(e, fault.SignatureDoesNotMatch)
			}
		} else {
			globalData.log.Debugf("anchor block: %d not applied, signature unchecked", cert.BlockNumber)
		}
	}

	r := certification.FromDocument(cert, target.Hash)
	existing, err := globalData.handles.Certifications.Existing(r.From, r.Target, r.Sig)
	if nil != err {
		return nil, false, err
	}
	if nil != existing {
		return existing, true, duplicate(e)
	}

	err = archive(e)
	if nil != err {
		return nil, false, err
	}

	err = globalData.handles.Certifications.SavePending(&r)
	if nil != err {
		return nil, false, err
	}

	accepted(e)
	return &r, false, nil
}

// StoreRevocation - validate a revocation and attach it to its identity
//
// returns the updated identity record
func StoreRevocation(raw string) (*identity.Record, bool, error) {
	if err := limit(); nil != err {
		return nil, false, err
	}

	globalData.Lock()
	defer globalData.Unlock()

	e, err := validate(document.RevocationDocument, raw)
	if nil != err {
		return nil, false, err
	}
	revocation := e.(*document.Revocation)

	ids := globalData.handles.Identities
	idty, err := ids.GetByHash(revocation.Identity().Hash())
	if nil != err {
		return nil, false, err
	}
	if nil == idty {
		return nil, false, rejected(e, fault.UnknownIdentity)
	}
	if idty.Revoked || idty.RevocationSig == revocation.Revocation {
		return idty, true, duplicate(e)
	}

	err = archive(e)
	if nil != err {
		return nil, false, err
	}

	err = ids.SetRevocation(idty.Hash, revocation.Revocation)
	if nil != err {
		return nil, false, err
	}
	idty.RevocationSig = revocation.Revocation

	accepted(e)
	return idty, false, nil
}

// common first steps of every submission, caller holds the lock
func validate(kind document.Kind, raw string) (document.Entity, error) {
	// Finalise may have run while waiting for the limiter
	if !globalData.enabled {
		return nil, fault.NotInitialised
	}

	e, err := globalData.validator.Validate(kind, raw)
	if nil != err {
		count(kind, resultRejected)
		globalData.log.Debugf("%s rejected: %s", kind, err)
		return nil, err
	}
	return e, nil
}

// the first identity of a key that can still be certified
func certifiedIdentity(pubkey string) (*identity.Record, error) {
	candidates, err := globalData.handles.Identities.FindByPubkey(pubkey)
	if nil != err {
		return nil, err
	}
	for i := range candidates {
		if !candidates[i].Revoked {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// keep the canonical text in the document archive
func archive(e document.Entity) error {
	_, err := storage.StoreDocument(e)
	return err
}

func accepted(e document.Entity) {
	count(e.Kind(), resultAccepted)
	globalData.log.Infof("%s accepted: %s", e.Kind(), e.Hash())
}

func rejected(e document.Entity, err error) error {
	count(e.Kind(), resultRejected)
	globalData.log.Debugf("%s: %s rejected: %s", e.Kind(), e.Hash(), err)
	return err
}

// always returns nil
func duplicate(e document.Entity) error {
	count(e.Kind(), resultDuplicate)
	globalData.log.Debugf("%s: %s already known", e.Kind(), e.Hash())
	return nil
}
