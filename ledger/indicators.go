// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/indicator"
)

// a block carrying exclusions or revocations replaces the matching
// indicators; excluded keys left without any linked certification are
// reported as excluded for certifications, the rest for membership
func (l *Ledger) updateIndicators(b *document.Block) error {
	if 0 != len(b.Excluded) {
		byMembership := []string{}
		byCertification := []string{}
		for _, pubkey := range b.Excluded {
			certified, err := l.isCertified(pubkey)
			if nil != err {
				return err
			}
			if certified {
				byMembership = append(byMembership, pubkey)
			} else {
				byCertification = append(byCertification, pubkey)
			}
		}

		err := l.indicators.WriteCurrentExcluding(value(b, byMembership))
		if nil != err {
			return err
		}
		err = l.indicators.WriteCurrentExcludingForCert(value(b, byCertification))
		if nil != err {
			return err
		}
	}

	if 0 != len(b.Revoked) {
		revoked := make([]string, 0, len(b.Revoked))
		for _, r := range b.Revoked {
			revoked = append(revoked, r.Pubkey)
		}
		err := l.indicators.WriteCurrentRevocating(value(b, revoked))
		if nil != err {
			return err
		}
	}
	return nil
}

// indicators set by a reverted block are emptied, earlier values are
// not kept
func (l *Ledger) resetIndicators(n uint64) error {
	for _, ind := range []struct {
		get func() (indicator.Value, error)
		set func(indicator.Value) error
	}{
		{l.indicators.GetCurrentMembershipExcludingBlock, l.indicators.WriteCurrentExcluding},
		{l.indicators.GetCurrentMembershipRevocatingBlock, l.indicators.WriteCurrentRevocating},
		{l.indicators.GetCurrentCertificationExcludingBlock, l.indicators.WriteCurrentExcludingForCert},
	} {
		v, err := ind.get()
		if nil != err {
			return err
		}
		if "" == v.Hash || n != v.Number {
			continue
		}
		err = ind.set(indicator.Value{Identities: []string{}})
		if nil != err {
			return err
		}
	}
	return nil
}

// true if any identity of pubkey holds a linked certification
func (l *Ledger) isCertified(pubkey string) (bool, error) {
	ids, err := l.identities.FindByPubkey(pubkey)
	if nil != err {
		return false, err
	}
	for _, idty := range ids {
		n, err := l.certifications.LinkedTo(idty.Hash)
		if nil != err {
			return false, err
		}
		if 0 != n {
			return true, nil
		}
	}
	return false, nil
}

func value(b *document.Block, identities []string) indicator.Value {
	return indicator.Value{
		Number:     b.Number,
		Hash:       b.Hash(),
		Identities: identities,
	}
}
