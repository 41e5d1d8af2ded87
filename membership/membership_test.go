// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package membership_test

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wotledger/wotd/blockuid"
	"github.com/wotledger/wotd/document"
	"github.com/wotledger/wotd/fault"
	"github.com/wotledger/wotd/keypair"
	"github.com/wotledger/wotd/membership"
	"github.com/wotledger/wotd/relational"
)

const loggerFile = "membership.log"

func TestMain(m *testing.M) {
	err := logger.Initialise(logger.Configuration{
		Directory: ".",
		File:      loggerFile,
		Size:      1048576,
		Count:     10,
	})
	if nil != err {
		panic(fmt.Sprintf("logger initialization failed: %s", err))
	}
	rc := m.Run()
	logger.Finalise()
	os.Remove(loggerFile)
	os.Exit(rc)
}

func setup(t *testing.T) *membership.Memberships {
	db, err := relational.Open(relational.InMemory)
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })

	ms, err := membership.New(db)
	require.Nil(t, err)
	require.Nil(t, ms.Init())
	return ms
}

func record(issuer string, signature string, membershipType string, number int64) *membership.Record {
	return &membership.Record{
		Membership: membershipType,
		Issuer:     issuer,
		Number:     number,
		UserID:     "user-" + issuer,
		CertTS:     blockuid.Root.String(),
		Block:      fmt.Sprintf("%d-%s", number, blockuid.EmptyHash),
		IdtyHash:   "HASH-" + issuer,
		Signature:  signature,
	}
}

func TestPendingIN(t *testing.T) {
	ms := setup(t)

	for _, r := range []*membership.Record{
		record("alice", "s1", "IN", 1),
		record("bob", "s2", "IN", 2),
		record("carol", "s3", "in", 3),
		record("dave", "s4", "OUT", 4),
	} {
		require.Nil(t, ms.SavePendingMembership(r))
	}
	require.Nil(t, ms.SaveOfficialMS("IN", record("erin", "s5", "IN", 5), 5))

	pending, err := ms.PendingIN()
	require.Nil(t, err)

	issuers := []string{}
	for _, r := range pending {
		assert.False(t, r.Written)
		assert.Nil(t, r.WrittenNumber)
		issuers = append(issuers, r.Issuer)
	}
	assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, issuers)

	out, err := ms.PendingOUT()
	require.Nil(t, err)
	require.Equal(t, 1, len(out))
	assert.Equal(t, "dave", out[0].Issuer)
}

func TestPendingINOfTarget(t *testing.T) {
	ms := setup(t)

	require.Nil(t, ms.SavePendingMembership(record("alice", "s1", "IN", 1)))
	require.Nil(t, ms.SavePendingMembership(record("alice", "s2", "OUT", 2)))
	require.Nil(t, ms.SaveOfficialMS("IN", record("alice", "s3", "IN", 3), 3))
	require.Nil(t, ms.SavePendingMembership(record("bob", "s4", "IN", 1)))

	found, err := ms.PendingINOfTarget("HASH-alice")
	require.Nil(t, err)
	require.Equal(t, 1, len(found))
	assert.Equal(t, "s1", found[0].Signature)
}

func TestPrimaryKeyUpsert(t *testing.T) {
	ms := setup(t)

	require.Nil(t, ms.SavePendingMembership(record("alice", "s1", "IN", 1)))
	require.Nil(t, ms.SavePendingMembership(record("alice", "s1", "IN", 7)))

	all, err := ms.MembershipsOfIssuer("alice")
	require.Nil(t, err)
	require.Equal(t, 1, len(all))
	assert.Equal(t, int64(7), all[0].Number)
}

func TestPreviousSentinel(t *testing.T) {
	ms := setup(t)

	// pending and later records do not count
	require.Nil(t, ms.SavePendingMembership(record("alice", "s1", "IN", 3)))
	require.Nil(t, ms.SaveOfficialMS("IN", record("alice", "s2", "IN", 12), 12))

	previous, err := ms.PreviousMS("alice", 10)
	require.Nil(t, err)
	require.NotNil(t, previous)
	assert.Equal(t, int64(-1), previous.Number)
	assert.True(t, previous.IsNone())

	previous, err = ms.PreviousIN("nobody", 10)
	require.Nil(t, err)
	assert.Equal(t, int64(membership.NoPreviousNumber), previous.Number)
}

func TestPrevious(t *testing.T) {
	ms := setup(t)

	require.Nil(t, ms.SaveOfficialMS("IN", record("alice", "s1", "IN", 2), 2))
	require.Nil(t, ms.SaveOfficialMS("IN", record("alice", "s2", "IN", 5), 5))
	require.Nil(t, ms.SaveOfficialMS("OUT", record("alice", "s3", "OUT", 8), 8))
	require.Nil(t, ms.SaveOfficialMS("IN", record("alice", "s4", "IN", 11), 11))

	previous, err := ms.PreviousMS("alice", 10)
	require.Nil(t, err)
	assert.Equal(t, "s3", previous.Signature)
	assert.False(t, previous.IsNone())

	previous, err = ms.PreviousIN("alice", 10)
	require.Nil(t, err)
	assert.Equal(t, "s2", previous.Signature)

	previous, err = ms.PreviousMS("alice", 2)
	require.Nil(t, err)
	assert.True(t, previous.IsNone())
}

func TestWriteUnwrite(t *testing.T) {
	ms := setup(t)

	r := record("alice", "s1", "IN", 1)
	require.Nil(t, ms.SavePendingMembership(r))

	before, err := ms.GetMembershipOfIssuer(r)
	require.Nil(t, err)
	require.NotNil(t, before)

	// unwrite of a pending record changes nothing
	require.Nil(t, ms.Unwrite(r))
	same, err := ms.GetMembershipOfIssuer(r)
	require.Nil(t, err)
	assert.Equal(t, before, same)

	require.Nil(t, ms.SaveOfficialMS("in", r, 4))
	assert.False(t, r.Written, "caller record is not modified")

	written, err := ms.GetMembershipOfIssuer(r)
	require.Nil(t, err)
	assert.True(t, written.Written)
	require.NotNil(t, written.WrittenNumber)
	assert.Equal(t, uint64(4), *written.WrittenNumber)

	require.Nil(t, ms.Unwrite(r))
	after, err := ms.GetMembershipOfIssuer(r)
	require.Nil(t, err)
	assert.Equal(t, before, after)

	// absent record
	assert.Nil(t, ms.Unwrite(record("nobody", "s9", "IN", 1)))
}

func TestInvalidMembershipType(t *testing.T) {
	ms := setup(t)

	err := ms.SavePendingMembership(record("alice", "s1", "MAYBE", 1))
	assert.Equal(t, fault.InvalidMembershipType, err)

	err = ms.SaveOfficialMS("", record("alice", "s1", "IN", 1), 1)
	assert.Equal(t, fault.InvalidMembershipType, err)
}

func TestBatchUpdate(t *testing.T) {
	ms := setup(t)

	assert.Nil(t, ms.BatchUpdate(nil))

	require.Nil(t, ms.SavePendingMembership(record("alice", "s1", "IN", 1)))

	n := uint64(6)
	updated := *record("alice", "s1", "IN", 1)
	updated.Written = true
	updated.WrittenNumber = &n
	require.Nil(t, ms.BatchUpdate([]membership.Record{updated, *record("bob", "s2", "OUT", 2)}))

	r, err := ms.GetMembershipOfIssuer(&updated)
	require.Nil(t, err)
	assert.True(t, r.Written)

	out, err := ms.PendingOUT()
	require.Nil(t, err)
	assert.Equal(t, 1, len(out))
}

func TestFromDocument(t *testing.T) {
	k, err := keypair.FromSeed(bytes.Repeat([]byte{9}, 32))
	require.Nil(t, err)

	body := "Version: 1\n" +
		"Type: Membership\n" +
		"Currency: test_net\n" +
		"Issuer: " + k.Pubkey() + "\n" +
		"Block: 3-" + blockuid.EmptyHash + "\n" +
		"Membership: IN\n" +
		"UserID: cat\n" +
		"CertTS: " + blockuid.Root.String() + "\n"
	e, err := document.Validate(document.MembershipDocument, body+k.Sign(body)+"\n")
	require.Nil(t, err)
	m := e.(*document.Membership)

	r := membership.FromDocument(m)
	assert.Equal(t, int64(3), r.Number)
	assert.Equal(t, blockuid.EmptyHash, r.Fingerprint)
	assert.Equal(t, m.IdtyHash, r.IdtyHash)
	assert.Equal(t, m.Signature, r.Signature)

	ms := setup(t)
	require.Nil(t, ms.SavePendingMembership(&r))
	pending, err := ms.PendingINOfTarget(m.IdtyHash)
	require.Nil(t, err)
	assert.Equal(t, 1, len(pending))
}
