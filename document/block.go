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

// BlockType - value of the Type header
const BlockType = "Block"

// RevokedKey - inline revocation inside a block
type RevokedKey struct {
	Pubkey    string
	Signature string
}

// Block - a chain block with its web of trust changes
type Block struct {
	base
	Version        string
	Type           string
	Currency       string
	Nonce          uint64
	Number         uint64
	PoWMin         uint64
	Time           uint64
	MedianTime     uint64
	Issuer         string
	PreviousHash   string
	PreviousIssuer string
	MembersCount   uint64
	Identities     []*Identity
	Joiners        []*Membership
	Actives        []*Membership
	Leavers        []*Membership
	Revoked        []RevokedKey
	Excluded       []string
	Certifications []*Certification
	Transactions   []string
	Signature      string

	// headers present with a well formed value
	seen map[string]bool

	// first malformed section item
	malformed error
}

// Kind - implements Entity
func (b *Block) Kind() Kind {
	return BlockDocument
}

// UID - number and hash of this block
func (b *Block) UID() blockuid.BlockUID {
	return blockuid.New(b.Number, b.hash)
}

// IsRoot - first block of the chain
func (b *Block) IsRoot() bool {
	return 0 == b.Number
}

// Unsigned - the body covered by the issuer signature
func (b *Block) Unsigned() string {
	s := strings.Builder{}
	writeHeader(&s, "Version", b.Version)
	writeHeader(&s, "Type", b.Type)
	writeHeader(&s, "Currency", b.Currency)
	writeHeader(&s, "Nonce", formatUint(b.Nonce))
	writeHeader(&s, "Number", formatUint(b.Number))
	writeHeader(&s, "PoWMin", formatUint(b.PoWMin))
	writeHeader(&s, "Time", formatUint(b.Time))
	writeHeader(&s, "MedianTime", formatUint(b.MedianTime))
	writeHeader(&s, "Issuer", b.Issuer)
	if !b.IsRoot() {
		writeHeader(&s, "PreviousHash", b.PreviousHash)
		writeHeader(&s, "PreviousIssuer", b.PreviousIssuer)
	}
	writeHeader(&s, "MembersCount", formatUint(b.MembersCount))

	identities := make([]string, len(b.Identities))
	for i, idty := range b.Identities {
		identities[i] = idty.Inline()
	}
	writeSection(&s, "Identities", identities)
	writeSection(&s, "Joiners", inlineMemberships(b.Joiners))
	writeSection(&s, "Actives", inlineMemberships(b.Actives))
	writeSection(&s, "Leavers", inlineMemberships(b.Leavers))

	revoked := make([]string, len(b.Revoked))
	for i, r := range b.Revoked {
		revoked[i] = r.Pubkey + ":" + r.Signature
	}
	writeSection(&s, "Revoked", revoked)
	writeSection(&s, "Excluded", b.Excluded)

	certifications := make([]string, len(b.Certifications))
	for i, c := range b.Certifications {
		certifications[i] = c.Inline()
	}
	writeSection(&s, "Certifications", certifications)
	writeSection(&s, "Transactions", b.Transactions)
	return s.String()
}

// Raw - canonical form
func (b *Block) Raw() string {
	s := strings.Builder{}
	s.WriteString(b.Unsigned())
	writeLine(&s, b.Signature)
	return s.String()
}

// Signed - implements Entity
//
// only the block signature, the inline documents carry their own
func (b *Block) Signed() []SignedContent {
	return []SignedContent{
		{Content: b.Unsigned(), Signature: b.Signature, Pubkey: b.Issuer},
	}
}

func inlineMemberships(list []*Membership) []string {
	s := make([]string, len(list))
	for i, m := range list {
		s[i] = m.Inline()
	}
	return s
}

func asBlock(e Entity) *Block {
	b := e.(*Block)
	if nil == b.seen {
		b.seen = make(map[string]bool)
	}
	return b
}

func (b *Block) fail(err error) {
	if nil == b.malformed {
		b.malformed = err
	}
}

// text header
func blockText(name string, field func(b *Block) *string) capture {
	return header(name, func(e Entity, v string) {
		b := asBlock(e)
		*field(b) = v
		b.seen[name] = "" != v
	})
}

// numeric header, a malformed value counts as absent
func blockNumber(name string, field func(b *Block) *uint64) capture {
	return header(name, func(e Entity, v string) {
		b := asBlock(e)
		n, ok := uint64(0), false
		if grammar.IsInteger(v) {
			n, ok = parseUint(v)
		}
		*field(b) = n
		b.seen[name] = ok
	})
}

func blockMemberships(name string, membership string, field func(b *Block) *[]*Membership) section {
	return multiline(name, func(e Entity, items []string) {
		b := asBlock(e)
		for _, item := range items {
			m := grammar.InlineMembership.FindStringSubmatch(item)
			if nil == m {
				b.fail(fault.WrongMembershipLine)
				continue
			}
			*field(b) = append(*field(b), membershipFromInline("", membership, m))
		}
	})
}

var blockVariant = variant{
	kind:   BlockDocument,
	create: func() Entity { return &Block{seen: make(map[string]bool)} },
	captures: []capture{
		blockText("Version", func(b *Block) *string { return &b.Version }),
		blockText("Type", func(b *Block) *string { return &b.Type }),
		blockText("Currency", func(b *Block) *string { return &b.Currency }),
		blockNumber("Nonce", func(b *Block) *uint64 { return &b.Nonce }),
		blockNumber("Number", func(b *Block) *uint64 { return &b.Number }),
		blockNumber("PoWMin", func(b *Block) *uint64 { return &b.PoWMin }),
		blockNumber("Time", func(b *Block) *uint64 { return &b.Time }),
		blockNumber("MedianTime", func(b *Block) *uint64 { return &b.MedianTime }),
		blockText("Issuer", func(b *Block) *string { return &b.Issuer }),
		blockText("PreviousHash", func(b *Block) *string { return &b.PreviousHash }),
		blockText("PreviousIssuer", func(b *Block) *string { return &b.PreviousIssuer }),
		blockNumber("MembersCount", func(b *Block) *uint64 { return &b.MembersCount }),
	},
	sections: []section{
		multiline("Identities", func(e Entity, items []string) {
			b := asBlock(e)
			for _, item := range items {
				m := grammar.InlineIdentity.FindStringSubmatch(item)
				if nil == m {
					b.fail(fault.WrongIdentityLine)
					continue
				}
				buid, err := blockuid.Parse(m[3])
				if nil != err {
					b.fail(fault.WrongIdentityLine)
					continue
				}
				b.Identities = append(b.Identities, &Identity{
					Pubkey:    m[1],
					Signature: m[2],
					BUID:      buid,
					UID:       m[4],
				})
			}
		}),
		blockMemberships("Joiners", MembershipIn, func(b *Block) *[]*Membership { return &b.Joiners }),
		blockMemberships("Actives", MembershipIn, func(b *Block) *[]*Membership { return &b.Actives }),
		blockMemberships("Leavers", MembershipOut, func(b *Block) *[]*Membership { return &b.Leavers }),
		multiline("Revoked", func(e Entity, items []string) {
			b := asBlock(e)
			for _, item := range items {
				m := grammar.InlineRevocation.FindStringSubmatch(item)
				if nil == m {
					b.fail(fault.WrongRevocationLine)
					continue
				}
				b.Revoked = append(b.Revoked, RevokedKey{Pubkey: m[1], Signature: m[2]})
			}
		}),
		multiline("Excluded", func(e Entity, items []string) {
			b := asBlock(e)
			for _, item := range items {
				if !grammar.IsPublicKey(item) {
					b.fail(fault.WrongExcludedLine)
					continue
				}
				b.Excluded = append(b.Excluded, item)
			}
		}),
		multiline("Certifications", func(e Entity, items []string) {
			b := asBlock(e)
			for _, item := range items {
				m := grammar.Certification.FindStringSubmatch(item)
				if nil == m {
					b.fail(fault.WrongCertificationLine)
					continue
				}
				c, ok := certificationFromInline(m)
				if !ok {
					b.fail(fault.WrongCertificationLine)
					continue
				}
				b.Certifications = append(b.Certifications, c)
			}
		}),
		multiline("Transactions", func(e Entity, items []string) {
			b := asBlock(e)
			b.Transactions = append(b.Transactions, items...)
		}),
	},
	signatures: 1,
	sign: func(e Entity, signatures []string) {
		if len(signatures) > 0 {
			asBlock(e).Signature = signatures[0]
		}
	},
	clean: func(e Entity) {
		b := asBlock(e)
		for _, i := range b.Identities {
			i.hash = identityHash(i.UID, i.BUID.String(), i.Pubkey)
		}
		for _, list := range [][]*Membership{b.Joiners, b.Actives, b.Leavers} {
			for _, m := range list {
				m.Currency = b.Currency
				cleanMembership(m)
			}
		}
		for _, c := range b.Certifications {
			cleanCertification(c)
		}
		b.hash = sha1Upper(b.Raw())
	},
	verify: func(e Entity) error {
		b := asBlock(e)
		switch {
		case DocumentVersion != b.Version:
			return fault.VersionUnknown
		case BlockType != b.Type:
			return fault.WrongDocumentType
		case !grammar.IsCurrency(b.Currency):
			return fault.CurrencyRequired
		case !b.seen["Number"]:
			return fault.NoBlockNumber
		case !b.seen["PoWMin"]:
			return fault.NoPoWMin
		case !b.seen["Time"]:
			return fault.NoTime
		case !b.seen["MedianTime"]:
			return fault.NoMedianTime
		case !grammar.IsPublicKey(b.Issuer):
			return fault.IncorrectIssuer
		}

		if b.IsRoot() {
			if b.seen["PreviousHash"] || b.seen["PreviousIssuer"] {
				return fault.UnexpectedPreviousHash
			}
		} else {
			if !grammar.Hash.MatchString(b.PreviousHash) {
				return fault.NoPreviousHash
			}
			if !grammar.IsPublicKey(b.PreviousIssuer) {
				return fault.NoPreviousIssuer
			}
		}

		switch {
		case !b.seen["MembersCount"]:
			return fault.NoMembersCount
		case nil != b.malformed:
			return b.malformed
		case "" == b.Signature:
			return fault.NoSignature
		}
		return nil
	},
}
