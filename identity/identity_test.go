// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity_test

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
	"github.com/wotledger/wotd/identity"
	"github.com/wotledger/wotd/keypair"
	"github.com/wotledger/wotd/relational"
)

const loggerFile = "identity.log"

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

func setup(t *testing.T) *identity.Identities {
	db, err := relational.Open(relational.InMemory)
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })

	ids, err := identity.New(db)
	require.Nil(t, err)
	require.Nil(t, ids.Init())
	return ids
}

func record(hash string, pubkey string) *identity.Record {
	return &identity.Record{
		Hash:   hash,
		Pubkey: pubkey,
		UID:    "uid-" + hash,
		BUID:   blockuid.Root.String(),
		Sig:    "sig-" + hash,
	}
}

func TestPendingAndOfficial(t *testing.T) {
	ids := setup(t)

	require.Nil(t, ids.SavePending(record("H1", "alice")))
	require.Nil(t, ids.SavePending(record("H2", "bob")))
	require.Nil(t, ids.SaveOfficial(record("H3", "alice"), 7))

	pending, err := ids.Pending()
	require.Nil(t, err)
	hashes := []string{}
	for _, r := range pending {
		hashes = append(hashes, r.Hash)
	}
	assert.ElementsMatch(t, []string{"H1", "H2"}, hashes)

	found, err := ids.FindByPubkey("alice")
	require.Nil(t, err)
	require.Equal(t, 2, len(found))
	assert.Equal(t, "H3", found[0].Hash, "written identity first")
	assert.True(t, found[0].Member)
	require.NotNil(t, found[0].WrittenNumber)
	assert.Equal(t, uint64(7), *found[0].WrittenNumber)

	r, err := ids.GetByHash("missing")
	assert.Nil(t, err)
	assert.Nil(t, r)
}

func TestUnwrite(t *testing.T) {
	ids := setup(t)

	r := record("H1", "alice")
	require.Nil(t, ids.SavePending(r))
	before, err := ids.GetByHash("H1")
	require.Nil(t, err)

	require.Nil(t, ids.Unwrite("H1"))
	same, err := ids.GetByHash("H1")
	require.Nil(t, err)
	assert.Equal(t, before, same)

	require.Nil(t, ids.SaveOfficial(r, 3))
	assert.False(t, r.Written, "caller record is not modified")

	require.Nil(t, ids.Unwrite("H1"))
	after, err := ids.GetByHash("H1")
	require.Nil(t, err)
	assert.Equal(t, before, after)

	assert.Nil(t, ids.Unwrite("nobody"))
}

func TestMembershipFlag(t *testing.T) {
	ids := setup(t)

	require.Nil(t, ids.SavePending(record("H1", "alice")))

	// a pending identity cannot become a member
	require.Nil(t, ids.SetMember("H1", true))
	r, err := ids.GetByHash("H1")
	require.Nil(t, err)
	assert.False(t, r.Member)

	require.Nil(t, ids.SaveOfficial(r, 2))
	require.Nil(t, ids.SetMember("H1", false))
	r, err = ids.GetByHash("H1")
	require.Nil(t, err)
	assert.False(t, r.Member)
	assert.True(t, r.Written)

	require.Nil(t, ids.SetMember("H1", true))
	r, err = ids.GetByHash("H1")
	require.Nil(t, err)
	assert.True(t, r.Member)
}

func TestRevocation(t *testing.T) {
	ids := setup(t)

	require.Nil(t, ids.SaveOfficial(record("H1", "alice"), 1))
	require.Nil(t, ids.SetRevocation("H1", "revsig"))

	r, err := ids.GetByHash("H1")
	require.Nil(t, err)
	assert.Equal(t, "revsig", r.RevocationSig)
	assert.False(t, r.Revoked)

	require.Nil(t, ids.Revoke("H1", "revsig", 9))
	r, err = ids.GetByHash("H1")
	require.Nil(t, err)
	assert.True(t, r.Revoked)
	assert.False(t, r.Member)
	require.NotNil(t, r.RevokedOn)
	assert.Equal(t, uint64(9), *r.RevokedOn)

	require.Nil(t, ids.Unrevoke("H1"))
	r, err = ids.GetByHash("H1")
	require.Nil(t, err)
	assert.False(t, r.Revoked)
	assert.Nil(t, r.RevokedOn)
	assert.True(t, r.Member)
	assert.Equal(t, "revsig", r.RevocationSig, "revocation remains pending")
}

func TestSaveOfficialKeepsRevocation(t *testing.T) {
	ids := setup(t)

	require.Nil(t, ids.SavePending(record("H1", "alice")))
	require.Nil(t, ids.SetRevocation("H1", "revsig"))

	require.Nil(t, ids.SaveOfficial(record("H1", "alice"), 4))
	r, err := ids.GetByHash("H1")
	require.Nil(t, err)
	assert.True(t, r.Written)
	assert.True(t, r.Member)
	assert.Equal(t, "revsig", r.RevocationSig)

	require.Nil(t, ids.Revoke("H1", "revsig", 5))
	require.Nil(t, ids.SaveOfficial(record("H1", "alice"), 6))
	r, err = ids.GetByHash("H1")
	require.Nil(t, err)
	assert.True(t, r.Revoked)
	assert.False(t, r.Member)
	require.NotNil(t, r.RevokedOn)
	assert.Equal(t, uint64(5), *r.RevokedOn)
	assert.Equal(t, uint64(6), *r.WrittenNumber)
}

func TestBatchInsert(t *testing.T) {
	ids := setup(t)

	assert.Nil(t, ids.BatchInsert(nil))
	require.Nil(t, ids.BatchInsert([]identity.Record{*record("H1", "a"), *record("H2", "b")}))

	// duplicate key fails the whole batch
	err := ids.BatchInsert([]identity.Record{*record("H3", "c"), *record("H1", "a")})
	assert.NotNil(t, err)

	pending, err := ids.Pending()
	require.Nil(t, err)
	assert.Equal(t, 2, len(pending))
}

func TestFromDocument(t *testing.T) {
	k, err := keypair.FromSeed(bytes.Repeat([]byte{3}, 32))
	require.Nil(t, err)

	self := "UID:cat\nMETA:TS:" + blockuid.Root.String() + "\n"
	raw := k.Pubkey() + "\n" + self + k.Sign(self) + "\n"
	e, err := document.Validate(document.IdentityDocument, raw)
	require.Nil(t, err)
	i := e.(*document.Identity)

	r := identity.FromDocument(i)
	assert.Equal(t, i.Hash(), r.Hash)
	assert.Equal(t, k.Pubkey(), r.Pubkey)
	assert.Equal(t, "cat", r.UID)
	assert.Equal(t, blockuid.Root.String(), r.BUID)
}
