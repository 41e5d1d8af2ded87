// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package document

import (
	"strings"

	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/grammar"
)

// Certification - one identity vouching for another
//
//   from:to:blockNumber:signature
type Certification struct {
	base
	From        string
	To          string
	BlockNumber uint64
	Signature   string
	parsed      bool
}

// Kind - implements Entity
func (c *Certification) Kind() Kind {
	return CertificationDocument
}

// Inline - single line form, also used inside a block
func (c *Certification) Inline() string {
	return strings.Join([]string{c.From, c.To, formatUint(c.BlockNumber), c.Signature}, ":")
}

// Raw - canonical form
func (c *Certification) Raw() string {
	return c.Inline() + "\n"
}

// Signed - implements Entity
//
// the signed text includes the certified identity, so checking it is
// left to the caller that holds that identity, see CertifiedContent
func (c *Certification) Signed() []SignedContent {
	return nil
}

// CertifiedContent - the text covered by the signature, given the target
func (c *Certification) CertifiedContent(target *Identity, anchor string) string {
	b := strings.Builder{}
	b.WriteString(target.SelfContent())
	writeLine(&b, target.Signature)
	writeLine(&b, grammar.TimestampMeta+anchor)
	return b.String()
}

func certificationFromInline(match []string) (*Certification, bool) {
	n, ok := parseUint(match[3])
	if !ok {
		return nil, false
	}
	return &Certification{
		From:        match[1],
		To:          match[2],
		BlockNumber: n,
		Signature:   match[4],
		parsed:      true,
	}, true
}

func cleanCertification(c *Certification) {
	c.hash = sha1Upper(c.From, c.To, formatUint(c.BlockNumber), c.Signature)
}

var certificationVariant = variant{
	kind:   CertificationDocument,
	create: func() Entity { return &Certification{} },
	captures: []capture{
		positional(0, grammar.Certification, func(e Entity, m []string) {
			if c, ok := certificationFromInline(m); ok {
				*e.(*Certification) = *c
			}
		}),
	},
	signatures: noSignatures,
	clean: func(e Entity) {
		cleanCertification(e.(*Certification))
	},
	verify: func(e Entity) error {
		if !e.(*Certification).parsed {
			return fault.WrongCertFormat
		}
		return nil
	},
}
