// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"math"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/wotledger/wotd/document"
)

// display form of a validated document
func describe(e document.Entity) interface{} {
	return map[string]interface{}{
		"kind": e.Kind().String(),
		"hash": e.Hash(),
		"raw":  e.Raw(),
	}
}

func pending(n *node) interface{} {
	identities, err := n.ledger.Identities().Pending()
	if nil != err {
		exitwithstatus.Message("pending identities error: %s", err)
	}
	in, err := n.ledger.Memberships().PendingIN()
	if nil != err {
		exitwithstatus.Message("pending IN error: %s", err)
	}
	out, err := n.ledger.Memberships().PendingOUT()
	if nil != err {
		exitwithstatus.Message("pending OUT error: %s", err)
	}
	certifications, err := n.ledger.Certifications().Pending()
	if nil != err {
		exitwithstatus.Message("pending certifications error: %s", err)
	}
	return map[string]interface{}{
		"identities":     identities,
		"joiners":        in,
		"leavers":        out,
		"certifications": certifications,
	}
}

func indicators(n *node) interface{} {
	ind := n.ledger.Indicators()
	excluding, err := ind.GetCurrentMembershipExcludingBlock()
	if nil != err {
		exitwithstatus.Message("indicator error: %s", err)
	}
	revocating, err := ind.GetCurrentMembershipRevocatingBlock()
	if nil != err {
		exitwithstatus.Message("indicator error: %s", err)
	}
	excludingCert, err := ind.GetCurrentCertificationExcludingBlock()
	if nil != err {
		exitwithstatus.Message("indicator error: %s", err)
	}
	return map[string]interface{}{
		"excludingMS":  excluding,
		"revocatingMS": revocating,
		"excludingCRT": excludingCert,
	}
}

// all memberships of a key with the last written ones before a block
func memberships(n *node, arguments []string) interface{} {
	issuer := arguments[0]
	before := int64(math.MaxInt64)
	if len(arguments) > 1 {
		b, err := strconv.ParseInt(arguments[1], 10, 64)
		if nil != err || b < 0 {
			exitwithstatus.Message("invalid block number: %q", arguments[1])
		}
		before = b
	}

	ms := n.ledger.Memberships()
	all, err := ms.MembershipsOfIssuer(issuer)
	if nil != err {
		exitwithstatus.Message("memberships error: %s", err)
	}
	previous, err := ms.PreviousMS(issuer, before)
	if nil != err {
		exitwithstatus.Message("previous membership error: %s", err)
	}
	previousIN, err := ms.PreviousIN(issuer, before)
	if nil != err {
		exitwithstatus.Message("previous IN error: %s", err)
	}
	return map[string]interface{}{
		"memberships": all,
		"previous":    previous,
		"previousIN":  previousIN,
	}
}
