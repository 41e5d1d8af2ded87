// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package document

import (
	"strings"

	"github.com/wotledger/wotd/fault"
)

// Kind - the type of a document
type Kind byte

// all document kinds
const (
	IdentityDocument Kind = iota + 1
	MembershipDocument
	CertificationDocument
	RevocationDocument
	TransactionDocument
	BlockDocument
)

var kindNames = map[Kind]string{
	IdentityDocument:      "identity",
	MembershipDocument:    "membership",
	CertificationDocument: "certification",
	RevocationDocument:    "revocation",
	TransactionDocument:   "transaction",
	BlockDocument:         "block",
}

// String - lower case name
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// KindFromString - case insensitive name to kind
func KindFromString(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fault.InvalidDocumentKind
}
