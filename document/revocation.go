// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package document

import (
	"strings"

	"github.com/wotledger/wotd/blockuid"
	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/grammar"
)

// Revocation - a self-certification followed by its revocation
//
//   pubkey
//   UID:uid
//   META:TS:number-hash
//   self-certification signature
//   META:REVOKE
//   revocation signature
//
// signatures are assigned by order of appearance on lines 3 and 5: the
// first one seen is the self-certification, the second the revocation
type Revocation struct {
	base
	Pubkey     string
	UID        string
	BUID       blockuid.BlockUID
	Signature  string
	Revocation string
}

// Kind - implements Entity
func (r *Revocation) Kind() Kind {
	return RevocationDocument
}

// Identity - the revoked self-certification
func (r *Revocation) Identity() *Identity {
	i := &Identity{
		Pubkey:    r.Pubkey,
		UID:       r.UID,
		BUID:      r.BUID,
		Signature: r.Signature,
	}
	i.hash = r.hash
	return i
}

// RevokedContent - the text covered by the revocation signature
func (r *Revocation) RevokedContent() string {
	b := strings.Builder{}
	b.WriteString(selfContent(r.UID, r.BUID))
	writeLine(&b, r.Signature)
	writeLine(&b, grammar.RevokeMetaLine)
	return b.String()
}

// Raw - canonical form
func (r *Revocation) Raw() string {
	b := strings.Builder{}
	writeLine(&b, r.Pubkey)
	b.WriteString(r.RevokedContent())
	writeLine(&b, r.Revocation)
	return b.String()
}

// Inline - the form used inside a block
func (r *Revocation) Inline() string {
	return r.Pubkey + ":" + r.Revocation
}

// Signed - implements Entity
func (r *Revocation) Signed() []SignedContent {
	return []SignedContent{
		{Content: selfContent(r.UID, r.BUID), Signature: r.Signature, Pubkey: r.Pubkey},
		{Content: r.RevokedContent(), Signature: r.Revocation, Pubkey: r.Pubkey},
	}
}

func assignRevocationSignature(e Entity, m []string) {
	r := e.(*Revocation)
	if "" == r.Signature {
		r.Signature = m[1]
	} else {
		r.Revocation = m[1]
	}
}

var revocationVariant = variant{
	kind:   RevocationDocument,
	create: func() Entity { return &Revocation{} },
	captures: append(
		selfCaptures(
			func(e Entity) *string { return &e.(*Revocation).Pubkey },
			func(e Entity) *string { return &e.(*Revocation).UID },
			func(e Entity) *blockuid.BlockUID { return &e.(*Revocation).BUID },
		),
		positional(3, grammar.Signature, assignRevocationSignature),
		positional(5, grammar.Signature, assignRevocationSignature),
	),
	signatures: noSignatures,
	clean: func(e Entity) {
		r := e.(*Revocation)
		if "" != r.UID && !r.BUID.IsZero() && "" != r.Pubkey {
			r.hash = identityHash(r.UID, r.BUID.String(), r.Pubkey)
		}
	},
	verify: func(e Entity) error {
		r := e.(*Revocation)
		if err := verifySelf(r.Pubkey, r.UID, r.BUID, r.Signature); nil != err {
			return err
		}
		if "" == r.Revocation {
			return fault.NoRevocationSignature
		}
		return nil
	},
}
