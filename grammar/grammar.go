// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package grammar

import (
	"regexp"
)

// unanchored value patterns
const (
	PublicKeyPattern = `[123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz]{43,44}`
	SignaturePattern = `[A-Za-z0-9+/]{86}==`
	HashPattern      = `[0-9A-F]{40}`
	IntegerPattern   = `(?:0|[1-9][0-9]*)`
	BlockUIDPattern  = IntegerPattern + `-` + HashPattern
	UserIDPattern    = `[A-Za-z0-9_-]{2,100}`
	CurrencyPattern  = `[A-Za-z0-9_-]{2,50}`
)

// fixed document lines
const (
	RevokeMetaLine = "META:REVOKE"
	UIDPrefix      = "UID:"
	TimestampMeta  = "META:TS:"
)

// complete line patterns
var (
	PublicKey = line(`(` + PublicKeyPattern + `)`)
	Signature = line(`(` + SignaturePattern + `)`)
	Hash      = line(`(` + HashPattern + `)`)
	BlockUID  = line(`(` + IntegerPattern + `)-(` + HashPattern + `)`)
	UserID    = line(`(` + UserIDPattern + `)`)
	Currency  = line(`(` + CurrencyPattern + `)`)
	Integer   = line(`(` + IntegerPattern + `)`)

	// self certification lines
	SelfUID    = line(UIDPrefix + `(` + UserIDPattern + `)`)
	SelfMeta   = line(TimestampMeta + `(` + BlockUIDPattern + `)`)
	RevokeMeta = line(RevokeMetaLine)

	// from:to:blockNumber:signature
	Certification = line(`(` + PublicKeyPattern + `):(` + PublicKeyPattern + `):(` + IntegerPattern + `):(` + SignaturePattern + `)`)

	// block inline items
	InlineIdentity   = line(`(` + PublicKeyPattern + `):(` + SignaturePattern + `):(` + BlockUIDPattern + `):(` + UserIDPattern + `)`)
	InlineMembership = line(`(` + PublicKeyPattern + `):(` + SignaturePattern + `):(` + IntegerPattern + `):(` + HashPattern + `):(` + BlockUIDPattern + `):(` + UserIDPattern + `)`)
	InlineRevocation = line(`(` + PublicKeyPattern + `):(` + SignaturePattern + `)`)

	// transaction items
	//   index:source:number:fingerprint:amount
	//   recipient:amount
	Input  = line(`(` + IntegerPattern + `):([DT]):(` + IntegerPattern + `):(` + HashPattern + `):(` + IntegerPattern + `)`)
	Output = line(`(` + PublicKeyPattern + `):(` + IntegerPattern + `)`)
)

// Header - pattern for a "Name: value" line
//
// the value is captured as the first sub-match and may be empty, in
// which case the line is just "Name:"
func Header(name string) *regexp.Regexp {
	return line(regexp.QuoteMeta(name) + `:(?: (.*))?`)
}

// Section - pattern for the "Name:" line that starts a multi-line field
func Section(name string) *regexp.Regexp {
	return line(regexp.QuoteMeta(name) + `:`)
}

// IsPublicKey - check a complete value
func IsPublicKey(s string) bool { return PublicKey.MatchString(s) }

// IsSignature - check a complete value
func IsSignature(s string) bool { return Signature.MatchString(s) }

// IsBlockUID - check a complete value
func IsBlockUID(s string) bool { return BlockUID.MatchString(s) }

// IsUserID - check a complete value
func IsUserID(s string) bool { return UserID.MatchString(s) }

// IsCurrency - check a complete value
func IsCurrency(s string) bool { return Currency.MatchString(s) }

// IsInteger - check a complete value
func IsInteger(s string) bool { return Integer.MatchString(s) }

func line(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`^` + pattern + `$`)
}
