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

// Identity - a self-certification
//
//   pubkey
//   UID:uid
//   META:TS:number-hash
//   signature
type Identity struct {
	base
	Pubkey    string
	UID       string
	BUID      blockuid.BlockUID
	Signature string
}

// Kind - implements Entity
func (i *Identity) Kind() Kind {
	return IdentityDocument
}

// SelfContent - the text covered by the self-certification signature
func (i *Identity) SelfContent() string {
	return selfContent(i.UID, i.BUID)
}

// Raw - canonical form
func (i *Identity) Raw() string {
	b := strings.Builder{}
	writeLine(&b, i.Pubkey)
	b.WriteString(i.SelfContent())
	writeLine(&b, i.Signature)
	return b.String()
}

// Inline - the form used inside a block
func (i *Identity) Inline() string {
	return strings.Join([]string{i.Pubkey, i.Signature, i.BUID.String(), i.UID}, ":")
}

// Signed - implements Entity
func (i *Identity) Signed() []SignedContent {
	return []SignedContent{
		{Content: i.SelfContent(), Signature: i.Signature, Pubkey: i.Pubkey},
	}
}

func selfContent(uid string, buid blockuid.BlockUID) string {
	return grammar.UIDPrefix + uid + "\n" + grammar.TimestampMeta + buid.String() + "\n"
}

// identity hash used to link memberships and certifications
func identityHash(uid string, buid string, pubkey string) string {
	return sha1Upper(uid, buid, pubkey)
}

// the first four lines of both identity and revocation
func selfCaptures(pubkey func(Entity) *string, uid func(Entity) *string, buid func(Entity) *blockuid.BlockUID) []capture {
	return []capture{
		positional(0, grammar.PublicKey, func(e Entity, m []string) {
			*pubkey(e) = m[1]
		}),
		positional(1, grammar.SelfUID, func(e Entity, m []string) {
			*uid(e) = m[1]
		}),
		positional(2, grammar.SelfMeta, func(e Entity, m []string) {
			if b, err := blockuid.FromTimestamp(m[0]); nil == err {
				*buid(e) = b
			}
		}),
	}
}

// shared required field order
func verifySelf(pubkey string, uid string, buid blockuid.BlockUID, signature string) error {
	if "" == pubkey {
		return fault.NoPubkeyFound
	}
	if "" == uid {
		return fault.WrongUserIDFormat
	}
	if buid.IsZero() {
		return fault.NoBlockUID
	}
	if "" == signature {
		return fault.NoSelfSignature
	}
	return nil
}

var identityVariant = variant{
	kind:   IdentityDocument,
	create: func() Entity { return &Identity{} },
	captures: append(
		selfCaptures(
			func(e Entity) *string { return &e.(*Identity).Pubkey },
			func(e Entity) *string { return &e.(*Identity).UID },
			func(e Entity) *blockuid.BlockUID { return &e.(*Identity).BUID },
		),
		positional(3, grammar.Signature, func(e Entity, m []string) {
			e.(*Identity).Signature = m[1]
		}),
	),
	signatures: noSignatures,
	clean: func(e Entity) {
		i := e.(*Identity)
		if "" != i.UID && !i.BUID.IsZero() && "" != i.Pubkey {
			i.hash = identityHash(i.UID, i.BUID.String(), i.Pubkey)
		}
	},
	verify: func(e Entity) error {
		i := e.(*Identity)
		return verifySelf(i.Pubkey, i.UID, i.BUID, i.Signature)
	},
}
