// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package document_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wotledger/wotd/blockuid"
	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/keypair"
)

func TestIdentity(t *testing.T) {
	k := testKey(1)

	e, err := document.Validate(document.IdentityDocument, identityRaw(k))
	require.Nil(t, err)

	i := e.(*document.Identity)
	assert.Equal(t, k.Pubkey(), i.Pubkey)
	assert.Equal(t, userID, i.UID)
	assert.Equal(t, blockuid.Root, i.BUID)
	assert.Equal(t, upperSHA1(userID+rootBUID+k.Pubkey()), i.Hash())
	assert.Equal(t, k.Pubkey()+":"+i.Signature+":"+rootBUID+":"+userID, i.Inline())
}

func TestIdentityRejections(t *testing.T) {
	k := testKey(1)
	lines := strings.Split(identityRaw(k), "\n")

	items := []struct {
		raw string
		err error
	}{
		{"UID:cat\n", fault.NoPubkeyFound},
		{lines[0] + "\nUID:c\n", fault.WrongUserIDFormat},
		{lines[0] + "\n" + lines[1] + "\n" + lines[3] + "\n", fault.NoBlockUID},
		{lines[0] + "\n" + lines[1] + "\n" + lines[2] + "\n", fault.NoSelfSignature},
	}
	for i, item := range items {
		_, err := document.Validate(document.IdentityDocument, item.raw)
		assert.Equal(t, item.err, err, "%d: %q", i, item.raw)
	}
}

func TestRevocation(t *testing.T) {
	k := testKey(2)

	e, err := document.NewValidator(keypair.Ed25519{}).Validate(document.RevocationDocument, revocationRaw(k))
	require.Nil(t, err)

	r := e.(*document.Revocation)
	self := selfContent(userID, rootBUID)
	assert.Equal(t, k.Sign(self), r.Signature)
	assert.Equal(t, k.Sign(self+r.Signature+"\nMETA:REVOKE\n"), r.Revocation)
	assert.Equal(t, upperSHA1(userID+rootBUID+k.Pubkey()), r.Hash())
	assert.Equal(t, k.Pubkey()+":"+r.Revocation, r.Inline())

	idty := r.Identity()
	assert.Equal(t, r.Hash(), idty.Hash())
	assert.Equal(t, r.Signature, idty.Signature)
}

func TestRevocationMissingRevocationSignature(t *testing.T) {
	k := testKey(2)
	lines := strings.Split(revocationRaw(k), "\n")

	// only the revocation signature is missing
	raw := strings.Join(lines[:5], "\n") + "\n"
	_, err := document.Validate(document.RevocationDocument, raw)
	assert.Equal(t, fault.NoRevocationSignature, err)

	// META:REVOKE also missing, still the same reason
	raw = strings.Join(lines[:4], "\n") + "\n"
	_, err = document.Validate(document.RevocationDocument, raw)
	assert.Equal(t, fault.NoRevocationSignature, err)
}

func TestRevocationMissingMeta(t *testing.T) {
	k := testKey(2)
	lines := strings.Split(revocationRaw(k), "\n")

	// drop line 2, everything after it shifts up
	raw := strings.Join(append(lines[:2:2], lines[3:]...), "\n")
	e, err := document.Parse(document.RevocationDocument, raw)
	require.Nil(t, err)
	assert.True(t, e.(*document.Revocation).BUID.IsZero())

	_, err = document.Validate(document.RevocationDocument, raw)
	assert.Equal(t, fault.NoBlockUID, err)
}

func TestRevocationSignatureOrder(t *testing.T) {
	k := testKey(2)
	lines := strings.Split(revocationRaw(k), "\n")

	// self signature line replaced: the remaining one is taken as self
	raw := strings.Join([]string{lines[0], lines[1], lines[2], "", "META:REVOKE", lines[5]}, "\n") + "\n"
	e, err := document.Parse(document.RevocationDocument, raw)
	require.Nil(t, err)
	r := e.(*document.Revocation)
	assert.Equal(t, lines[5], r.Signature)
	assert.Equal(t, "", r.Revocation)
}

func TestMembership(t *testing.T) {
	k := testKey(3)
	raw := membershipRaw(k, document.MembershipIn)

	e, err := document.NewValidator(keypair.Ed25519{}).Validate(document.MembershipDocument, raw)
	require.Nil(t, err)

	m := e.(*document.Membership)
	assert.Equal(t, currency, m.Currency)
	assert.Equal(t, k.Pubkey(), m.Issuer)
	assert.Equal(t, document.MembershipIn, m.Membership)
	assert.Equal(t, uint64(0), m.Number)
	assert.Equal(t, blockuid.EmptyHash, m.Fingerprint)
	assert.Equal(t, upperSHA1(userID+rootBUID+k.Pubkey()), m.IdtyHash)
	assert.Equal(t, upperSHA1(raw), m.Hash())
	assert.Equal(t, membershipUnsigned(k, document.MembershipIn), m.Signed()[0].Content)

	// round trip
	p, err := document.Parse(document.MembershipDocument, m.Raw())
	require.Nil(t, err)
	document.Clean(p)
	assert.Equal(t, m, p)
}

func TestMembershipRejections(t *testing.T) {
	k := testKey(3)
	raw := membershipRaw(k, document.MembershipOut)

	items := []struct {
		from string
		to   string
		err  error
	}{
		{"Version: 1", "Version: 2", fault.VersionUnknown},
		{"Type: Membership", "Type: Certification", fault.WrongDocumentType},
		{"Currency: " + currency, "Currency:", fault.CurrencyRequired},
		{"Issuer: " + k.Pubkey(), "Issuer: nobody", fault.IncorrectIssuer},
		{"Membership: OUT", "Membership: MAYBE", fault.IncorrectMembership},
		{"Block: " + rootBUID, "Block: 0-abc", fault.IncorrectBlock},
		{"UserID: " + userID, "UserID: x", fault.IncorrectUserID},
		{"CertTS: " + rootBUID, "CertTS: yesterday", fault.IncorrectCertTS},
	}
	for _, item := range items {
		_, err := document.Validate(document.MembershipDocument, strings.Replace(raw, item.from, item.to, 1))
		assert.Equal(t, item.err, err, "replaced: %s", item.from)
	}

	// signature removed
	unsigned := membershipUnsigned(k, document.MembershipOut)
	_, err := document.Validate(document.MembershipDocument, unsigned)
	assert.Equal(t, fault.NoSignature, err)
}

func TestCertification(t *testing.T) {
	from := testKey(4)
	to := testKey(5)
	sig := from.Sign("anything")
	raw := from.Pubkey() + ":" + to.Pubkey() + ":12:" + sig + "\n"

	e, err := document.Validate(document.CertificationDocument, raw)
	require.Nil(t, err)

	c := e.(*document.Certification)
	assert.Equal(t, from.Pubkey(), c.From)
	assert.Equal(t, to.Pubkey(), c.To)
	assert.Equal(t, uint64(12), c.BlockNumber)
	assert.Equal(t, upperSHA1(from.Pubkey()+to.Pubkey()+"12"+sig), c.Hash())
	assert.Nil(t, c.Signed())

	_, err = document.Validate(document.CertificationDocument, "not:a:certification\n")
	assert.Equal(t, fault.WrongCertFormat, err)
}

func TestCertifiedContent(t *testing.T) {
	k := testKey(4)
	e, err := document.Validate(document.IdentityDocument, identityRaw(k))
	require.Nil(t, err)
	target := e.(*document.Identity)

	c := &document.Certification{}
	expected := selfContent(userID, rootBUID) + target.Signature + "\nMETA:TS:" + rootBUID + "\n"
	assert.Equal(t, expected, c.CertifiedContent(target, rootBUID))
}

func TestTransaction(t *testing.T) {
	issuer := testKey(6)
	recipient := testKey(7)
	raw := transactionRaw(issuer, recipient)

	e, err := document.NewValidator(keypair.Ed25519{}).Validate(document.TransactionDocument, raw)
	require.Nil(t, err)

	tx := e.(*document.Transaction)
	assert.Equal(t, []string{issuer.Pubkey()}, tx.Issuers)
	assert.Equal(t, []document.Input{
		{Index: 0, Source: "D", Number: 3, Fingerprint: blockuid.EmptyHash, Amount: 100},
	}, tx.Inputs)
	assert.Equal(t, []document.Output{
		{Recipient: recipient.Pubkey(), Amount: 60},
		{Recipient: issuer.Pubkey(), Amount: 40},
	}, tx.Outputs)
	assert.Equal(t, "lunch", tx.Comment)
	assert.Equal(t, upperSHA1(raw), tx.Hash())
}

func TestTransactionRejections(t *testing.T) {
	issuer := testKey(6)
	recipient := testKey(7)
	raw := transactionRaw(issuer, recipient)

	_, err := document.Validate(document.TransactionDocument, strings.Replace(raw, ":D:", ":X:", 1))
	assert.Equal(t, fault.WrongInputFormat, err)

	_, err = document.Validate(document.TransactionDocument, strings.Replace(raw, ":60\n", ":sixty\n", 1))
	assert.Equal(t, fault.WrongOutputFormat, err)

	// one issuer added without a second signature
	second := testKey(8)
	two := strings.Replace(raw, "Issuers:\n", "Issuers:\n"+second.Pubkey()+"\n", 1)
	_, err = document.Validate(document.TransactionDocument, two)
	assert.Equal(t, fault.WrongSignatureCount, err)
}

func TestTransactionEmptyComment(t *testing.T) {
	issuer := testKey(6)
	raw := strings.Replace(transactionRaw(issuer, testKey(7)), "Comment: lunch", "Comment: ", 1)

	e, err := document.Validate(document.TransactionDocument, raw)
	require.Nil(t, err)
	assert.Equal(t, "", e.(*document.Transaction).Comment)
	assert.True(t, strings.Contains(e.Raw(), "\nComment:\n"))
}
