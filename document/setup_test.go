// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package document_test

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/wotledger/wotd/blockuid"
	"github.com/wotledger/wotd/keypair"
)

const (
	currency = "test_net"
	userID   = "cat"
)

var rootBUID = blockuid.Root.String()

func testKey(b byte) *keypair.KeyPair {
	k, err := keypair.FromSeed(bytes.Repeat([]byte{b}, 32))
	if nil != err {
		panic(err)
	}
	return k
}

func upperSHA1(s string) string {
	h := sha1.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(h[:]))
}

func selfContent(uid string, buid string) string {
	return "UID:" + uid + "\nMETA:TS:" + buid + "\n"
}

func identityRaw(k *keypair.KeyPair) string {
	self := selfContent(userID, rootBUID)
	return k.Pubkey() + "\n" + self + k.Sign(self) + "\n"
}

func revocationRaw(k *keypair.KeyPair) string {
	self := selfContent(userID, rootBUID)
	revoked := self + k.Sign(self) + "\nMETA:REVOKE\n"
	return k.Pubkey() + "\n" + revoked + k.Sign(revoked) + "\n"
}

func membershipUnsigned(k *keypair.KeyPair, membership string) string {
	return "Version: 1\n" +
		"Type: Membership\n" +
		"Currency: " + currency + "\n" +
		"Issuer: " + k.Pubkey() + "\n" +
		"Block: " + rootBUID + "\n" +
		"Membership: " + membership + "\n" +
		"UserID: " + userID + "\n" +
		"CertTS: " + rootBUID + "\n"
}

func membershipRaw(k *keypair.KeyPair, membership string) string {
	body := membershipUnsigned(k, membership)
	return body + k.Sign(body) + "\n"
}

func transactionRaw(issuer *keypair.KeyPair, recipient *keypair.KeyPair) string {
	body := "Version: 1\n" +
		"Type: Transaction\n" +
		"Currency: " + currency + "\n" +
		"Issuers:\n" +
		issuer.Pubkey() + "\n" +
		"Inputs:\n" +
		"0:D:3:" + blockuid.EmptyHash + ":100\n" +
		"Outputs:\n" +
		recipient.Pubkey() + ":60\n" +
		issuer.Pubkey() + ":40\n" +
		"Comment: lunch\n"
	return body + issuer.Sign(body) + "\n"
}
