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

// membership constants
const (
	DocumentVersion = "1"
	MembershipType  = "Membership"
	MembershipIn    = "IN"
	MembershipOut   = "OUT"
)

// Membership - a request to join (IN) or leave (OUT) the community
type Membership struct {
	base
	Version    string
	Type       string
	Currency   string
	Issuer     string
	Block      string
	Membership string
	UserID     string
	CertTS     string
	Signature  string

	// computed by clean
	Number      uint64
	Fingerprint string
	IdtyHash    string
}

// Kind - implements Entity
func (m *Membership) Kind() Kind {
	return MembershipDocument
}

// Unsigned - the body covered by the signature
func (m *Membership) Unsigned() string {
	b := strings.Builder{}
	writeHeader(&b, "Version", m.Version)
	writeHeader(&b, "Type", m.Type)
	writeHeader(&b, "Currency", m.Currency)
	writeHeader(&b, "Issuer", m.Issuer)
	writeHeader(&b, "Block", m.Block)
	writeHeader(&b, "Membership", m.Membership)
	writeHeader(&b, "UserID", m.UserID)
	writeHeader(&b, "CertTS", m.CertTS)
	return b.String()
}

// Raw - canonical form
func (m *Membership) Raw() string {
	b := strings.Builder{}
	b.WriteString(m.Unsigned())
	writeLine(&b, m.Signature)
	return b.String()
}

// Inline - the form used inside a block
//
//   issuer:signature:number:fingerprint:certts:userid
func (m *Membership) Inline() string {
	return strings.Join([]string{
		m.Issuer,
		m.Signature,
		formatUint(m.Number),
		m.Fingerprint,
		m.CertTS,
		m.UserID,
	}, ":")
}

// Signed - implements Entity
func (m *Membership) Signed() []SignedContent {
	return []SignedContent{
		{Content: m.Unsigned(), Signature: m.Signature, Pubkey: m.Issuer},
	}
}

// decode one inline block item, the caller supplies the context
func membershipFromInline(currency string, membership string, match []string) *Membership {
	return &Membership{
		Version:    DocumentVersion,
		Type:       MembershipType,
		Currency:   currency,
		Issuer:     match[1],
		Signature:  match[2],
		Block:      match[3] + "-" + match[4],
		CertTS:     match[5],
		UserID:     match[6],
		Membership: membership,
	}
}

func cleanMembership(m *Membership) {
	if b, err := blockuid.Parse(m.Block); nil == err {
		m.Number = b.Number
		m.Fingerprint = b.Hash
	}
	m.IdtyHash = sha1Upper(m.UserID, m.CertTS, m.Issuer)
	m.hash = sha1Upper(m.Raw())
}

func verifyMembership(m *Membership) error {
	switch {
	case DocumentVersion != m.Version:
		return fault.VersionUnknown
	case MembershipType != m.Type:
		return fault.WrongDocumentType
	case !grammar.IsCurrency(m.Currency):
		return fault.CurrencyRequired
	case !grammar.IsPublicKey(m.Issuer):
		return fault.IncorrectIssuer
	case MembershipIn != m.Membership && MembershipOut != m.Membership:
		return fault.IncorrectMembership
	case !grammar.IsBlockUID(m.Block):
		return fault.IncorrectBlock
	case !grammar.IsUserID(m.UserID):
		return fault.IncorrectUserID
	case !grammar.IsBlockUID(m.CertTS):
		return fault.IncorrectCertTS
	case "" == m.Signature:
		return fault.NoSignature
	}
	return nil
}

func asMembership(e Entity) *Membership {
	return e.(*Membership)
}

var membershipVariant = variant{
	kind:   MembershipDocument,
	create: func() Entity { return &Membership{} },
	captures: []capture{
		header("Version", func(e Entity, v string) { asMembership(e).Version = v }),
		header("Type", func(e Entity, v string) { asMembership(e).Type = v }),
		header("Currency", func(e Entity, v string) { asMembership(e).Currency = v }),
		header("Issuer", func(e Entity, v string) { asMembership(e).Issuer = v }),
		header("Block", func(e Entity, v string) { asMembership(e).Block = v }),
		header("Membership", func(e Entity, v string) { asMembership(e).Membership = v }),
		header("UserID", func(e Entity, v string) { asMembership(e).UserID = v }),
		header("CertTS", func(e Entity, v string) { asMembership(e).CertTS = v }),
	},
	signatures: 1,
	sign: func(e Entity, signatures []string) {
		if len(signatures) > 0 {
			asMembership(e).Signature = signatures[0]
		}
	},
	clean: func(e Entity) {
		cleanMembership(asMembership(e))
	},
	verify: func(e Entity) error {
		return verifyMembership(asMembership(e))
	},
}
